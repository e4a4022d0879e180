package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/harrycollin/simple-raytracer/pkg/core"
)

func newUnitSphere() *Sphere {
	return NewSphere(core.NewVec3(0, 0, 0), 1.0, core.NewColor(1, 0, 0), 0, 1)
}

func TestSphere_Hit_Miss(t *testing.T) {
	sphere := newUnitSphere()
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	hit, isHit := sphere.Hit(ray)
	if isHit {
		t.Errorf("Expected miss, but got hit at t=%f", hit.Distance)
	}
}

func TestSphere_Hit_BehindOrigin(t *testing.T) {
	sphere := newUnitSphere()
	ray := core.NewRay(core.NewVec3(0, 0, 3), core.NewVec3(0, 0, 1))

	if hit, isHit := sphere.Hit(ray); isHit {
		t.Errorf("Expected miss for sphere behind origin, got hit at t=%f", hit.Distance)
	}
}

func TestSphere_Hit_DistanceAlongAxis(t *testing.T) {
	tests := []struct {
		name   string
		origin core.Vec3
		radius float64
	}{
		{"camera on z axis", core.NewVec3(0, 0, 5), 1},
		{"far on x axis", core.NewVec3(-40, 0, 0), 3},
		{"diagonal", core.NewVec3(3, 4, 12), 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sphere := NewSphere(core.NewVec3(0, 0, 0), tt.radius, core.Black, 0, 0)
			direction, _ := tt.origin.Negate().Normalize()

			hit, isHit := sphere.Hit(core.NewRay(tt.origin, direction))
			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}

			expected := tt.origin.Length() - tt.radius
			if math.Abs(hit.Distance-expected) > 1e-9 {
				t.Errorf("Expected distance %f, got %f", expected, hit.Distance)
			}
		})
	}
}

func TestSphere_Hit_InsideReturnsExitPoint(t *testing.T) {
	sphere := newUnitSphere()
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))

	hit, isHit := sphere.Hit(ray)
	if !isHit {
		t.Fatal("Expected hit from inside sphere, but got miss")
	}

	if math.Abs(hit.Distance-1.0) > 1e-9 {
		t.Errorf("Expected exit distance 1, got %f", hit.Distance)
	}

	// Normal stays outward-facing even for hits from inside
	expectedNormal := core.NewVec3(0, 0, 1)
	if hit.Normal.Subtract(expectedNormal).Length() > 1e-9 {
		t.Errorf("Expected normal %v, got %v", expectedNormal, hit.Normal)
	}
}

func TestSphere_Hit_GlancingHit(t *testing.T) {
	sphere := newUnitSphere()
	ray := core.NewRay(core.NewVec3(1, 0, 2), core.NewVec3(0, 0, -1))

	hit, isHit := sphere.Hit(ray)
	if !isHit {
		t.Fatal("Expected glancing hit, but got miss")
	}

	expectedPoint := core.NewVec3(1, 0, 0)
	tolerance := 1e-9
	if hit.Point.Subtract(expectedPoint).Length() > tolerance {
		t.Errorf("Expected hit point %v, got %v", expectedPoint, hit.Point)
	}
}

func TestSphere_Surface_DefaultReflectivity(t *testing.T) {
	tests := []struct {
		name         string
		reflectivity float64
		expected     float64
	}{
		{"unset", 0, DefaultReflectivity},
		{"explicit", 0.3, 0.3},
		{"perfect", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sphere := NewSphere(core.Vec3{}, 1, core.Black, 0.5, tt.reflectivity)
			surface := sphere.Surface()
			if surface.Reflectivity != tt.expected {
				t.Errorf("Expected reflectivity %f, got %f", tt.expected, surface.Reflectivity)
			}
			if surface.Roughness != 0.5 {
				t.Errorf("Expected roughness 0.5, got %f", surface.Roughness)
			}
		})
	}
}

func TestSphere_Validate(t *testing.T) {
	tests := []struct {
		name      string
		sphere    *Sphere
		wantField string
	}{
		{"valid", newUnitSphere(), ""},
		{"zero radius", NewSphere(core.Vec3{}, 0, core.Black, 0, 0), "radius"},
		{"negative radius", NewSphere(core.Vec3{}, -2, core.Black, 0, 0), "radius"},
		{"nan radius", NewSphere(core.Vec3{}, math.NaN(), core.Black, 0, 0), "radius"},
		{"roughness too high", NewSphere(core.Vec3{}, 1, core.Black, 1.5, 0), "roughness"},
		{"negative reflectivity", NewSphere(core.Vec3{}, 1, core.Black, 0, -0.1), "reflectivity"},
		{"negative color", NewSphere(core.Vec3{}, 1, core.NewColor(-1, 0, 0), 0, 0), "color"},
		{"infinite center", NewSphere(core.NewVec3(math.Inf(1), 0, 0), 1, core.Black, 0, 0), "center"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sphere.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Unexpected error: %v", err)
				}
				return
			}

			var cfgErr *core.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("Expected ConfigError, got %v", err)
			}
			if cfgErr.Field != tt.wantField {
				t.Errorf("Expected field %q, got %q", tt.wantField, cfgErr.Field)
			}
		})
	}
}
