package renderer

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/harrycollin/simple-raytracer/pkg/core"
)

// DisplayConfig controls how linear radiance becomes display bytes
type DisplayConfig struct {
	Gamma   float64 // Display gamma, encoded as value^(1/Gamma)
	ToneMap bool    // Compress with c/(1+c) before gamma; false clamps to [0,1] instead
}

// DefaultDisplayConfig tone maps and then gamma encodes for a 2.2 display
func DefaultDisplayConfig() DisplayConfig {
	return DisplayConfig{
		Gamma:   2.2,
		ToneMap: true,
	}
}

// Validate rejects gamma values that would divide by zero or invert the curve
func (dc DisplayConfig) Validate() error {
	if !(dc.Gamma > 0) || math.IsInf(dc.Gamma, 0) {
		return core.NewConfigError("gamma", "must be positive and finite, got %g", dc.Gamma)
	}
	return nil
}

// maxToneMapped is the largest float64 below 1
var maxToneMapped = math.Nextafter(1, 0)

// ToneMap compresses [0, ∞) into [0, 1) with c/(1+c).
// Negative and NaN inputs map to 0. In float64, c/(1+c) rounds to 1 from
// about 1e16 upward, so large values and +Inf saturate just below 1.
func ToneMap(c float64) float64 {
	if math.IsNaN(c) || c <= 0 {
		return 0
	}
	if math.IsInf(c, 1) {
		return maxToneMapped
	}
	return min(c/(1+c), maxToneMapped)
}

// ToneMapColor applies ToneMap to every channel
func ToneMapColor(c core.Color) core.Color {
	return core.Color{R: ToneMap(c.R), G: ToneMap(c.G), B: ToneMap(c.B)}
}

// GammaEncode returns round(255 * v^(1/gamma)) with v clamped to [0, 1]. NaN encodes as 0.
func GammaEncode(v, gamma float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(255 * math.Pow(v, 1/gamma)))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return max(0, min(1, v))
}

// colorToRGBA converts one averaged linear pixel into display bytes
func (dc DisplayConfig) colorToRGBA(c core.Color, alpha float64) color.RGBA {
	if dc.ToneMap {
		c = ToneMapColor(c)
	} else {
		c = core.Color{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B)}
	}

	return color.RGBA{
		R: GammaEncode(c.R, dc.Gamma),
		G: GammaEncode(c.G, dc.Gamma),
		B: GammaEncode(c.B, dc.Gamma),
		A: uint8(math.Round(255 * clamp01(alpha))),
	}
}

// Display converts an averaged linear buffer into 8-bit RGBA ready for presentation
func Display(buf *Buffer, dc DisplayConfig) (*image.RGBA, error) {
	if err := dc.Validate(); err != nil {
		return nil, fmt.Errorf("while validating display config: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, buf.Width, buf.Height))
	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			img.SetRGBA(x, y, dc.colorToRGBA(buf.At(x, y), buf.Alpha(x, y)))
		}
	}
	return img, nil
}
