package scene

import (
	"fmt"

	"github.com/harrycollin/simple-raytracer/pkg/core"
	"github.com/harrycollin/simple-raytracer/pkg/geometry"
)

// Scene contains all the elements needed for rendering.
// A scene is read-only once rendering starts.
type Scene struct {
	Camera         *geometry.Camera
	Shapes         []core.Shape // Objects in the scene, in scan order
	SamplingConfig SamplingConfig
}

// SamplingConfig holds the scene's suggested render settings. Zero fields
// are unset and leave the renderer's defaults in place.
type SamplingConfig struct {
	Width           int // Image width
	Height          int // Image height
	SamplesPerPixel int // Number of sample passes
	MaxBounces      int // Maximum reflections per path
}

// validator is implemented by shapes that can check their own parameters
type validator interface {
	Validate() error
}

// Validate checks the camera and shapes before any rendering work is attempted.
// Resolution and sample budget belong to the render config, not the scene.
func (s *Scene) Validate() error {
	if s.Camera == nil {
		return core.NewConfigError("camera", "scene has no camera")
	}
	if err := s.Camera.Validate(); err != nil {
		return err
	}

	for i, shape := range s.Shapes {
		if shape == nil {
			return core.NewConfigError("shape", "shape %d is nil", i)
		}
		if v, ok := shape.(validator); ok {
			if err := v.Validate(); err != nil {
				return fmt.Errorf("while validating shape %d: %w", i, err)
			}
		}
	}

	return nil
}

// Validate checks a fully specified sampling config, as the built-in scenes carry
func (c SamplingConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return core.NewConfigError("resolution", "must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.SamplesPerPixel < 1 {
		return core.NewConfigError("samples", "must be at least 1, got %d", c.SamplesPerPixel)
	}
	if c.MaxBounces < 1 {
		return core.NewConfigError("max bounces", "must be at least 1, got %d", c.MaxBounces)
	}
	return nil
}

// Nearest scans every shape and returns the closest hit.
// On equal distances the shape earlier in Shapes wins.
func (s *Scene) Nearest(ray core.Ray) (core.Hit, core.Shape, bool) {
	var closestHit core.Hit
	var closestShape core.Shape

	for _, shape := range s.Shapes {
		hit, isHit := shape.Hit(ray)
		if !isHit || hit.Distance < 0 {
			continue
		}
		if closestShape == nil || hit.Distance < closestHit.Distance {
			closestHit = hit
			closestShape = shape
		}
	}

	return closestHit, closestShape, closestShape != nil
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Shapes)
}

// AddSphere appends a sphere to the scan order
func (s *Scene) AddSphere(center core.Vec3, radius float64, color core.Color, roughness, reflectivity float64) {
	s.Shapes = append(s.Shapes, geometry.NewSphere(center, radius, color, roughness, reflectivity))
}
