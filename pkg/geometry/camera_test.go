package geometry

import (
	"math"
	"testing"

	"github.com/harrycollin/simple-raytracer/pkg/core"
)

func TestCamera_ViewPlanePoint(t *testing.T) {
	camera := NewCamera(core.NewVec3(0, 0, 5), 10, 10)

	tests := []struct {
		name     string
		px, py   float64
		expected core.Vec3
	}{
		{"top left corner", 0, 0, core.NewVec3(-5, 5, 0)},
		{"image centre", 50, 50, core.NewVec3(0, 0, 0)},
		{"bottom right edge", 100, 100, core.NewVec3(5, -5, 0)},
		{"row increases downward", 50, 75, core.NewVec3(0, -2.5, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := camera.ViewPlanePoint(tt.px, tt.py, 100, 100)
			if got.Subtract(tt.expected).Length() > 1e-12 {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestCamera_ViewPlaneIgnoresPosition(t *testing.T) {
	a := NewCamera(core.NewVec3(0, 0, 5), 2, 2)
	b := NewCamera(core.NewVec3(3, -1, 8), 2, 2)

	if pa, pb := a.ViewPlanePoint(10, 30, 64, 64), b.ViewPlanePoint(10, 30, 64, 64); pa != pb {
		t.Errorf("View plane should not depend on camera position: %v != %v", pa, pb)
	}
}

func TestCamera_GetRay(t *testing.T) {
	camera := NewCamera(core.NewVec3(0, 0, 5), 2, 2)

	ray, ok := camera.GetRay(32, 32, 64, 64)
	if !ok {
		t.Fatal("Expected a valid ray through the image centre")
	}

	if ray.Origin != camera.Position {
		t.Errorf("Expected origin %v, got %v", camera.Position, ray.Origin)
	}

	expected := core.NewVec3(0, 0, -1)
	if ray.Direction.Subtract(expected).Length() > 1e-12 {
		t.Errorf("Expected direction %v, got %v", expected, ray.Direction)
	}

	// Every primary ray is unit length
	for py := 0; py < 64; py += 7 {
		for px := 0; px < 64; px += 7 {
			r, ok := camera.GetRay(float64(px), float64(py), 64, 64)
			if !ok {
				t.Fatalf("Unexpected degenerate ray at (%d,%d)", px, py)
			}
			if math.Abs(r.Direction.Length()-1) > 1e-12 {
				t.Errorf("Ray at (%d,%d) not normalized: |d| = %f", px, py, r.Direction.Length())
			}
		}
	}
}

func TestCamera_GetRay_Degenerate(t *testing.T) {
	// Camera placed exactly on the view plane centre
	camera := NewCamera(core.NewVec3(0, 0, 0), 2, 2)

	if _, ok := camera.GetRay(5, 5, 10, 10); ok {
		t.Error("Expected degenerate ray when the camera sits on the view-plane point")
	}
}

func TestCamera_Validate(t *testing.T) {
	tests := []struct {
		name    string
		camera  *Camera
		wantErr bool
	}{
		{"valid", NewCamera(core.NewVec3(0, 0, 5), 10, 10), false},
		{"zero width", NewCamera(core.NewVec3(0, 0, 5), 0, 10), true},
		{"negative height", NewCamera(core.NewVec3(0, 0, 5), 10, -1), true},
		{"nan position", NewCamera(core.NewVec3(math.NaN(), 0, 5), 10, 10), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.camera.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %t", err, tt.wantErr)
			}
		})
	}
}
