package renderer

import "time"

// RenderStats contains statistics about one pass, or one tile within a pass
type RenderStats struct {
	SampleIndex      int           // 1-based pass number this covers
	TotalPixels      int           // Pixels written
	PrimaryRays      int           // Camera rays handed to the integrator
	DegenerateRays   int           // Pixels whose camera ray could not be formed
	NonFiniteSamples int           // Integrator results replaced by black
	Duration         time.Duration // Wall time of the pass
}

// Merge folds tile-level counters into s
func (s *RenderStats) Merge(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.PrimaryRays += other.PrimaryRays
	s.DegenerateRays += other.DegenerateRays
	s.NonFiniteSamples += other.NonFiniteSamples
}
