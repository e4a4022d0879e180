package core

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"golang.org/x/image/colornames"
)

func TestVec3_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		vector   Vec3
		expected Vec3
		ok       bool
	}{
		{"unit x", NewVec3(1, 0, 0), NewVec3(1, 0, 0), true},
		{"scaled", NewVec3(0, 3, 4), NewVec3(0, 0.6, 0.8), true},
		{"zero vector", NewVec3(0, 0, 0), Vec3{}, false},
		{"infinite component", NewVec3(math.Inf(1), 0, 0), Vec3{}, false},
		{"nan component", NewVec3(math.NaN(), 1, 0), Vec3{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := tt.vector.Normalize()
			if ok != tt.ok {
				t.Fatalf("Expected ok=%t, got %t", tt.ok, ok)
			}
			if diff := cmp.Diff(tt.expected, result, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
				t.Errorf("Normalize mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestVec3_ReflectPreservesLength(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	sampler := NewRandomSampler(random)

	for i := 0; i < 1000; i++ {
		d, ok := RandomInUnitSphere(sampler).Normalize()
		if !ok {
			continue
		}
		n, ok := RandomInUnitSphere(sampler).Normalize()
		if !ok {
			continue
		}

		reflected := d.Reflect(n)
		if math.Abs(reflected.Length()-1) > 1e-12 {
			t.Fatalf("Reflection of unit %v about %v has length %f", d, n, reflected.Length())
		}
	}
}

func TestVec3_ReflectMirror(t *testing.T) {
	d := NewVec3(1, -1, 0)
	n := NewVec3(0, 1, 0)

	if got, want := d.Reflect(n), NewVec3(1, 1, 0); got != want {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestRandomInUnitSphere(t *testing.T) {
	sampler := NewSeededSampler(7)

	for i := 0; i < 10000; i++ {
		p := RandomInUnitSphere(sampler)
		if p.LengthSquared() >= 1 {
			t.Fatalf("Sample %d outside unit ball: %v (norm² %f)", i, p, p.LengthSquared())
		}
	}
}

func TestSeededSamplerDeterministic(t *testing.T) {
	a := NewSeededSampler(42)
	b := NewSeededSampler(42)

	for i := 0; i < 10; i++ {
		if va, vb := a.Get3D(), b.Get3D(); va != vb {
			t.Fatalf("Draw %d differs: %v != %v", i, va, vb)
		}
	}
}

func TestColor_Lerp(t *testing.T) {
	tests := []struct {
		name   string
		from   Color
		to     Color
		factor float64
		want   Color
	}{
		{"zero factor", NewColor(0.2, 0.4, 0.6), NewColor(1, 1, 1), 0, NewColor(0.2, 0.4, 0.6)},
		{"full factor", Black, NewColor(1, 0, 0), 1, NewColor(1, 0, 0)},
		{"half way", Black, NewColor(1, 0.5, 0), 0.5, NewColor(0.5, 0.25, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.from.Lerp(tt.to, tt.factor)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
				t.Errorf("Lerp mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestColorFromRGBA(t *testing.T) {
	if got := ColorFromRGBA(colornames.Yellow); got != NewColor(1, 1, 0) {
		t.Errorf("Expected yellow (1,1,0), got %v", got)
	}
	if got := ColorFromRGBA(colornames.Black); !got.IsZero() {
		t.Errorf("Expected black to be zero, got %v", got)
	}
}

func TestConfigErrorAs(t *testing.T) {
	err := fmt.Errorf("while validating scene: %w", NewConfigError("radius", "must be positive, got %g", -1.0))

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Expected ConfigError in chain, got %v", err)
	}
	if cfgErr.Field != "radius" {
		t.Errorf("Expected field radius, got %q", cfgErr.Field)
	}
}
