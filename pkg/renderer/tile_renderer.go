package renderer

import (
	"image"

	"github.com/harrycollin/simple-raytracer/pkg/core"
	"github.com/harrycollin/simple-raytracer/pkg/integrator"
	"github.com/harrycollin/simple-raytracer/pkg/scene"
)

// TileRenderer traces one sample per pixel for a rectangular region
type TileRenderer struct {
	scene         *scene.Scene
	integrator    integrator.Integrator
	width, height int
}

// NewTileRenderer creates a new tile renderer with the given scene and integrator
func NewTileRenderer(scene *scene.Scene, integratorInst integrator.Integrator, width, height int) *TileRenderer {
	return &TileRenderer{
		scene:      scene,
		integrator: integratorInst,
		width:      width,
		height:     height,
	}
}

// RenderTileBounds writes one sample for every pixel within bounds into frame.
// Callers must hand out non-overlapping bounds when rendering concurrently.
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, frame *Buffer, sampler core.Sampler) RenderStats {
	stats := RenderStats{TotalPixels: bounds.Dx() * bounds.Dy()}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			frame.Set(x, y, tr.samplePixel(x, y, sampler, &stats))
		}
	}

	return stats
}

func (tr *TileRenderer) samplePixel(x, y int, sampler core.Sampler, stats *RenderStats) core.Color {
	ray, ok := tr.scene.Camera.GetRay(float64(x), float64(y), tr.width, tr.height)
	if !ok {
		stats.DegenerateRays++
		return core.Black
	}

	stats.PrimaryRays++
	color := tr.integrator.RayColor(ray, tr.scene, sampler)
	if !color.IsFinite() {
		stats.NonFiniteSamples++
		return core.Black
	}
	return color
}
