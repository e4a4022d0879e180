// Package metrics holds the OpenCensus measures recorded while rendering.
package metrics

import (
	"context"
	"time"

	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

var (
	// KeyScene tags every measurement with the scene being rendered
	KeyScene = tag.MustNewKey("scene")

	Passes      = stats.Int64("passes", "Completed sample passes", stats.UnitDimensionless)
	PassLatency = stats.Float64("pass_latency_ms", "Wall time of one sample pass", stats.UnitMilliseconds)
	PrimaryRays = stats.Int64("primary_rays", "Camera rays traced", stats.UnitDimensionless)

	PassesView = &view.View{
		Name:        "passes",
		Description: "Counter of sample passes that have completed",
		TagKeys:     []tag.Key{KeyScene},
		Measure:     Passes,
		Aggregation: view.Count(),
	}

	PassLatencyView = &view.View{
		Name:        "pass_latency_ms",
		Description: "Distribution of sample pass wall time",
		TagKeys:     []tag.Key{KeyScene},
		Measure:     PassLatency,
		Aggregation: view.Distribution(1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000),
	}

	PrimaryRaysView = &view.View{
		Name:        "primary_rays",
		Description: "Total camera rays traced",
		TagKeys:     []tag.Key{KeyScene},
		Measure:     PrimaryRays,
		Aggregation: view.Sum(),
	}
)

// Views lists every view this package defines
func Views() []*view.View {
	return []*view.View{PassesView, PassLatencyView, PrimaryRaysView, RequestsView}
}

// RegisterViews registers all render views with the OpenCensus view worker
func RegisterViews() error {
	return view.Register(Views()...)
}

// UnregisterViews drops every view registered by RegisterViews
func UnregisterViews() {
	view.Unregister(Views()...)
}

// RecordPass records one completed pass for the named scene
func RecordPass(ctx context.Context, scene string, latency time.Duration, primaryRays int) {
	stats.RecordWithOptions(
		ctx,
		stats.WithTags(tag.Upsert(KeyScene, scene)),
		stats.WithMeasurements(
			Passes.M(1),
			PassLatency.M(float64(latency)/float64(time.Millisecond)),
			PrimaryRays.M(int64(primaryRays)),
		))
}
