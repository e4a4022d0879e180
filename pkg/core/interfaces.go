package core

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// Hit describes where a ray meets a shape. Distance is the ray parameter,
// which equals the travelled distance for unit-length directions.
type Hit struct {
	Point    Vec3
	Distance float64
	Normal   Vec3 // Unit outward normal at Point
}

// Surface holds the material attributes the integrator reads at a hit
type Surface struct {
	Color        Color
	Roughness    float64 // 0 = perfect mirror, 1 = maximum scatter
	Reflectivity float64 // Base reflectance at normal incidence, already defaulted
}

// Shape is anything a ray can be intersected with
type Shape interface {
	// Hit returns the nearest forward intersection, or ok == false on a miss
	Hit(ray Ray) (Hit, bool)
	Surface() Surface
}
