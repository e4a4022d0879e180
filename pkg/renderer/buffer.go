package renderer

import (
	"fmt"

	"github.com/harrycollin/simple-raytracer/pkg/core"
)

// Buffer is a dense grid of linear RGBA values, laid out like image.RGBA:
// pixel (x, y) starts at Pix[y*Stride+x*4].
//
// The same type serves as the per-pass frame buffer (one sample per pixel)
// and the accumulation buffer (running sum of every pass).
type Buffer struct {
	Width, Height int
	Stride        int
	Pix           []float64
}

// NewBuffer allocates a zeroed width x height buffer
func NewBuffer(width, height int) *Buffer {
	return &Buffer{
		Width:  width,
		Height: height,
		Stride: width * 4,
		Pix:    make([]float64, width*height*4),
	}
}

func (b *Buffer) offset(x, y int) int {
	return y*b.Stride + x*4
}

// At returns the color stored at (x, y)
func (b *Buffer) At(x, y int) core.Color {
	i := b.offset(x, y)
	return core.Color{R: b.Pix[i], G: b.Pix[i+1], B: b.Pix[i+2]}
}

// Alpha returns the alpha channel stored at (x, y)
func (b *Buffer) Alpha(x, y int) float64 {
	return b.Pix[b.offset(x, y)+3]
}

// Set stores a single sample at (x, y) with alpha 1
func (b *Buffer) Set(x, y int, c core.Color) {
	i := b.offset(x, y)
	b.Pix[i] = c.R
	b.Pix[i+1] = c.G
	b.Pix[i+2] = c.B
	b.Pix[i+3] = 1
}

// Clear zeroes every channel
func (b *Buffer) Clear() {
	clear(b.Pix)
}

// Accumulate adds frame into b element-wise
func (b *Buffer) Accumulate(frame *Buffer) error {
	if frame.Width != b.Width || frame.Height != b.Height {
		return fmt.Errorf("frame is %dx%d, accumulation buffer is %dx%d", frame.Width, frame.Height, b.Width, b.Height)
	}
	for i, v := range frame.Pix {
		b.Pix[i] += v
	}
	return nil
}

// Average returns a new buffer holding b divided by sampleCount. b is not modified.
func (b *Buffer) Average(sampleCount int) (*Buffer, error) {
	if sampleCount < 1 {
		return nil, fmt.Errorf("sample count must be at least 1, got %d", sampleCount)
	}

	averaged := NewBuffer(b.Width, b.Height)
	n := float64(sampleCount)
	for i, v := range b.Pix {
		averaged.Pix[i] = v / n
	}
	return averaged, nil
}
