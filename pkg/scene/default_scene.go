package scene

import (
	"golang.org/x/image/colornames"

	"github.com/harrycollin/simple-raytracer/pkg/core"
	"github.com/harrycollin/simple-raytracer/pkg/geometry"
)

// DefaultSamplingConfig matches the reference render: 1000x1000, 200 passes, 5 bounces
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:           1000,
		Height:          1000,
		SamplesPerPixel: 200,
		MaxBounces:      5,
	}
}

// NewDefaultScene creates the five-sphere scene: two mirror spheres in red and
// yellow, two rough black spheres and a rough blue one.
func NewDefaultScene() *Scene {
	s := &Scene{
		Camera:         geometry.NewCamera(core.NewVec3(0, 0, 5), 10, 10),
		SamplingConfig: DefaultSamplingConfig(),
	}

	red := core.ColorFromRGBA(colornames.Red)
	yellow := core.ColorFromRGBA(colornames.Yellow)
	black := core.ColorFromRGBA(colornames.Black)
	blue := core.ColorFromRGBA(colornames.Blue)

	s.AddSphere(core.NewVec3(-3, 0, 0), 3, red, 0, 1)
	s.AddSphere(core.NewVec3(0, -2.5, 3), 1, yellow, 0, 1)
	s.AddSphere(core.NewVec3(3.1, 0, 2), 3, black, 0.9, 1)
	s.AddSphere(core.NewVec3(0, 5, 0.1), 2, black, 0.9, 1)
	s.AddSphere(core.NewVec3(2, 5, 4), 2, blue, 0.9, 1)

	return s
}

// NewSingleSphereScene creates one red mirror sphere at the origin seen from z = 5
// through a 2x2 view plane. Useful as a quick smoke render.
func NewSingleSphereScene() *Scene {
	s := &Scene{
		Camera: geometry.NewCamera(core.NewVec3(0, 0, 5), 2, 2),
		SamplingConfig: SamplingConfig{
			Width:           200,
			Height:          200,
			SamplesPerPixel: 1,
			MaxBounces:      5,
		},
	}
	s.AddSphere(core.NewVec3(0, 0, 0), 1, core.ColorFromRGBA(colornames.Red), 0, 1)
	return s
}

// NewEmptyScene creates a scene with a camera and no shapes
func NewEmptyScene() *Scene {
	return &Scene{
		Camera: geometry.NewCamera(core.NewVec3(0, 0, 5), 10, 10),
		SamplingConfig: SamplingConfig{
			Width:           64,
			Height:          64,
			SamplesPerPixel: 4,
			MaxBounces:      5,
		},
	}
}
