package integrator

import (
	"math"

	"github.com/harrycollin/simple-raytracer/pkg/core"
	"github.com/harrycollin/simple-raytracer/pkg/scene"
)

// Config controls path termination
type Config struct {
	MaxBounces   int     // Bounce budget per path
	MinIntensity float64 // Paths whose carried intensity drops below this stop
	Epsilon      float64 // Offset along the new direction to avoid self-intersection
}

// DefaultConfig returns the reference termination policy
func DefaultConfig() Config {
	return Config{
		MaxBounces:   5,
		MinIntensity: 0.01,
		Epsilon:      1e-4,
	}
}

// ReflectiveIntegrator follows a single mirror/rough reflection path per ray.
// Each hit pulls the accumulated color toward the surface color by an amount
// that shrinks with Fresnel-weighted, distance-attenuated intensity.
type ReflectiveIntegrator struct {
	config Config
}

// NewReflectiveIntegrator creates a new reflective integrator
func NewReflectiveIntegrator(config Config) *ReflectiveIntegrator {
	return &ReflectiveIntegrator{
		config: config,
	}
}

// Config returns the termination policy in use
func (ri *ReflectiveIntegrator) Config() Config {
	return ri.config
}

// RayColor computes the color for a single ray
func (ri *ReflectiveIntegrator) RayColor(ray core.Ray, scene *scene.Scene, sampler core.Sampler) core.Color {
	accumulated := core.Black
	intensity := 1.0
	origin, direction := ray.Origin, ray.Direction

	for remaining := ri.config.MaxBounces; remaining > 0; remaining-- {
		hit, shape, isHit := scene.Nearest(core.NewRay(origin, direction))
		if !isHit {
			break
		}

		surface := shape.Surface()
		distance := hit.Distance

		intensity *= Fresnel(hit.Normal, direction, surface.Reflectivity) / (1 + distance*distance)

		blendFactor := intensity * math.Min(distance, 1.0)
		accumulated = accumulated.Lerp(surface.Color, blendFactor)

		if intensity < ri.config.MinIntensity {
			break
		}

		next, ok := ReflectWithRoughness(direction, hit.Normal, surface.Roughness, sampler)
		if !ok {
			break
		}

		direction = next
		origin = hit.Point.Add(direction.Multiply(ri.config.Epsilon))
	}

	return accumulated
}

// Fresnel approximates angle-dependent reflectance (Schlick form):
// base + (1-base)(1-|n·d|)^5. Reflectance rises toward 1 at grazing angles.
func Fresnel(normal, direction core.Vec3, baseReflectivity float64) float64 {
	cosTheta := math.Abs(normal.Dot(direction))
	return baseReflectivity + (1-baseReflectivity)*math.Pow(1-cosTheta, 5)
}

// ReflectWithRoughness mirrors direction about normal and, for rough surfaces,
// perturbs the result by roughness times a random point in the unit ball.
// ok is false when the perturbed direction collapses to zero length.
func ReflectWithRoughness(direction, normal core.Vec3, roughness float64, sampler core.Sampler) (core.Vec3, bool) {
	reflected := direction.Reflect(normal)

	if roughness > 0 {
		reflected = reflected.Add(core.RandomInUnitSphere(sampler).Multiply(roughness))
		return reflected.Normalize()
	}

	return reflected, reflected.IsFinite() && reflected.LengthSquared() > 0
}
