package integrator

import (
	"github.com/harrycollin/simple-raytracer/pkg/core"
	"github.com/harrycollin/simple-raytracer/pkg/scene"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor computes the linear color gathered along a primary ray
	RayColor(ray core.Ray, scene *scene.Scene, sampler core.Sampler) core.Color
}
