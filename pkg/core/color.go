package core

import (
	"image/color"
)

// Color is linear radiance. Channels are non-negative but unbounded; nothing
// clamps them before tone mapping.
type Color struct {
	R, G, B float64
}

// Black is the zero color
var Black = Color{}

// NewColor creates a new Color
func NewColor(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

// ColorFromRGBA converts an 8-bit color (alpha ignored) into linear [0,1] channels
// without gamma decoding, so colornames.Red becomes exactly (1, 0, 0).
func ColorFromRGBA(c color.RGBA) Color {
	return Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

// Add returns the channel-wise sum
func (c Color) Add(other Color) Color {
	return Color{c.R + other.R, c.G + other.G, c.B + other.B}
}

// Subtract returns the channel-wise difference
func (c Color) Subtract(other Color) Color {
	return Color{c.R - other.R, c.G - other.G, c.B - other.B}
}

// Multiply scales every channel
func (c Color) Multiply(scalar float64) Color {
	return Color{c.R * scalar, c.G * scalar, c.B * scalar}
}

// Lerp moves c toward target by factor t: c + t*(target - c)
func (c Color) Lerp(target Color, t float64) Color {
	return c.Add(target.Subtract(c).Multiply(t))
}

// IsZero reports whether all channels are exactly zero
func (c Color) IsZero() bool {
	return c == Color{}
}

// IsFinite reports whether no channel is NaN or infinite
func (c Color) IsFinite() bool {
	return isFinite(c.R) && isFinite(c.G) && isFinite(c.B)
}
