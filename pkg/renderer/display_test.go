package renderer

import (
	"errors"
	"image/color"
	"math"
	"testing"

	"github.com/harrycollin/simple-raytracer/pkg/core"
)

func TestToneMap(t *testing.T) {
	tests := []struct {
		input    float64
		expected float64
	}{
		{0, 0},
		{1, 0.5},
		{3, 0.75},
		{-2, 0},
		{math.NaN(), 0},
		{math.Inf(1), 1},
	}

	for _, tt := range tests {
		if got := ToneMap(tt.input); math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("ToneMap(%f): expected %f, got %f", tt.input, tt.expected, got)
		}
	}
}

func TestToneMap_MonotonicAndBelowOne(t *testing.T) {
	prev := ToneMap(0)
	for c := 0.01; c < 1e6; c *= 1.5 {
		got := ToneMap(c)
		if got >= 1 {
			t.Fatalf("ToneMap(%g) = %g, expected < 1", c, got)
		}
		if got <= prev {
			t.Fatalf("ToneMap not strictly increasing at %g: %g <= %g", c, got, prev)
		}
		prev = got
	}
}

func TestToneMap_SaturatesBelowOne(t *testing.T) {
	for _, c := range []float64{1e16, 1e20, math.MaxFloat64, math.Inf(1)} {
		got := ToneMap(c)
		if got >= 1 {
			t.Errorf("ToneMap(%g) = %g, expected < 1", c, got)
		}
		if got < 0.999999 {
			t.Errorf("ToneMap(%g) = %g, expected to saturate near 1", c, got)
		}
	}
}

func TestGammaEncode(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		gamma    float64
		expected uint8
	}{
		{"black", 0, 2.2, 0},
		{"white", 1, 2.2, 255},
		{"linear mid grey rounds half up", 0.5, 1, 128},
		{"mid grey at 2.2", 0.5, 2.2, 186},
		{"negative clamps", -0.3, 2.2, 0},
		{"overbright clamps", 4, 2.2, 255},
		{"NaN is black", math.NaN(), 2.2, 0},
		{"infinity clamps", math.Inf(1), 2.2, 255},
		{"negative infinity is black", math.Inf(-1), 2.2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GammaEncode(tt.value, tt.gamma); got != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestDisplay(t *testing.T) {
	buf := NewBuffer(3, 1)
	buf.Set(0, 0, core.NewColor(1, 0, 0))
	buf.Set(1, 0, core.NewColor(math.NaN(), math.Inf(1), 0.5))
	// (2, 0) left unwritten: zero color, zero alpha

	tests := []struct {
		name     string
		config   DisplayConfig
		expected []color.RGBA
	}{
		{
			"tone mapped",
			DefaultDisplayConfig(),
			[]color.RGBA{
				{R: 186, G: 0, B: 0, A: 255},
				{R: 0, G: 255, B: GammaEncode(0.5/1.5, 2.2), A: 255},
				{R: 0, G: 0, B: 0, A: 0},
			},
		},
		{
			"gamma only",
			DisplayConfig{Gamma: 2.2, ToneMap: false},
			[]color.RGBA{
				{R: 255, G: 0, B: 0, A: 255},
				{R: 0, G: 255, B: 186, A: 255},
				{R: 0, G: 0, B: 0, A: 0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Display(buf, tt.config)
			if err != nil {
				t.Fatalf("Display failed: %v", err)
			}
			if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 1 {
				t.Fatalf("Expected a 3x1 image, got %v", img.Bounds())
			}
			for x, want := range tt.expected {
				if got := img.RGBAAt(x, 0); got != want {
					t.Errorf("Pixel %d: expected %v, got %v", x, want, got)
				}
			}
		})
	}
}

func TestDisplay_InvalidGamma(t *testing.T) {
	for _, gamma := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := Display(NewBuffer(1, 1), DisplayConfig{Gamma: gamma, ToneMap: true})
		var configErr *core.ConfigError
		if !errors.As(err, &configErr) || configErr.Field != "gamma" {
			t.Errorf("Gamma %f: expected a gamma ConfigError, got %v", gamma, err)
		}
	}
}
