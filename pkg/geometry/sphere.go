package geometry

import (
	"math"

	"github.com/harrycollin/simple-raytracer/pkg/core"
)

// DefaultReflectivity is used when a sphere leaves Reflectivity at zero
const DefaultReflectivity = 0.8

// Sphere represents a sphere shape
type Sphere struct {
	Center       core.Vec3
	Radius       float64
	Color        core.Color
	Roughness    float64 // 0.0 = perfect mirror, 1.0 = very rough
	Reflectivity float64 // Zero means unset and falls back to DefaultReflectivity
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, color core.Color, roughness, reflectivity float64) *Sphere {
	return &Sphere{
		Center:       center,
		Radius:       radius,
		Color:        color,
		Roughness:    roughness,
		Reflectivity: reflectivity,
	}
}

// Validate rejects spheres that cannot be rendered
func (s *Sphere) Validate() error {
	if !(s.Radius > 0) || math.IsInf(s.Radius, 0) {
		return core.NewConfigError("radius", "must be positive and finite, got %g", s.Radius)
	}
	if !s.Center.IsFinite() {
		return core.NewConfigError("center", "must be finite, got %v", s.Center)
	}
	if !s.Color.IsFinite() || s.Color.R < 0 || s.Color.G < 0 || s.Color.B < 0 {
		return core.NewConfigError("color", "channels must be finite and non-negative, got %v", s.Color)
	}
	if !(s.Roughness >= 0 && s.Roughness <= 1) {
		return core.NewConfigError("roughness", "must be in [0,1], got %g", s.Roughness)
	}
	if !(s.Reflectivity >= 0 && s.Reflectivity <= 1) {
		return core.NewConfigError("reflectivity", "must be in [0,1], got %g", s.Reflectivity)
	}
	return nil
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray) (core.Hit, bool) {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + 2bt + c = 0
	a := ray.Direction.LengthSquared()
	halfB := ray.Direction.Dot(oc)
	c := oc.LengthSquared() - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 || a == 0 {
		return core.Hit{}, false
	}

	sqrtD := math.Sqrt(discriminant)
	tMin := (-halfB - sqrtD) / a
	tMax := (-halfB + sqrtD) / a

	// Sphere entirely behind the ray origin
	if tMax < 0 {
		return core.Hit{}, false
	}

	// Inside the sphere the entry point is behind us, so use the exit point
	t := tMin
	if t < 0 {
		t = tMax
	}

	point := ray.At(t)
	return core.Hit{
		Point:    point,
		Distance: t,
		Normal:   point.Subtract(s.Center).Multiply(1.0 / s.Radius),
	}, true
}

// Surface returns the sphere's material with the reflectivity default applied
func (s *Sphere) Surface() core.Surface {
	reflectivity := s.Reflectivity
	if reflectivity == 0 {
		reflectivity = DefaultReflectivity
	}
	return core.Surface{
		Color:        s.Color,
		Roughness:    s.Roughness,
		Reflectivity: reflectivity,
	}
}
