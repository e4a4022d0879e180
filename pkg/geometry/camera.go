package geometry

import (
	"math"

	"github.com/harrycollin/simple-raytracer/pkg/core"
)

// Camera generates primary rays through a fixed view plane.
//
// The view plane is Width x Height world units, centred on the origin in the
// z = 0 plane. It does not move with Position: Position is only the ray
// origin, so moving the camera changes the perspective onto the same plane.
type Camera struct {
	Position core.Vec3
	Width    float64 // View plane width in world units
	Height   float64 // View plane height in world units
}

// NewCamera creates a camera looking through a width x height view plane
func NewCamera(position core.Vec3, width, height float64) *Camera {
	return &Camera{
		Position: position,
		Width:    width,
		Height:   height,
	}
}

// Validate rejects camera configurations that cannot produce rays
func (c *Camera) Validate() error {
	if !c.Position.IsFinite() {
		return core.NewConfigError("camera position", "must be finite, got %v", c.Position)
	}
	if !(c.Width > 0) || math.IsInf(c.Width, 0) {
		return core.NewConfigError("camera width", "must be positive and finite, got %g", c.Width)
	}
	if !(c.Height > 0) || math.IsInf(c.Height, 0) {
		return core.NewConfigError("camera height", "must be positive and finite, got %g", c.Height)
	}
	return nil
}

// ViewPlanePoint maps pixel (px, py) of a viewportW x viewportH image onto the view plane.
// Increasing pixel rows map to decreasing world Y.
func (c *Camera) ViewPlanePoint(px, py float64, viewportW, viewportH int) core.Vec3 {
	ndcX := (px/float64(viewportW))*2 - 1
	ndcY := 1 - (py/float64(viewportH))*2

	return core.NewVec3(ndcX*c.Width/2, ndcY*c.Height/2, 0)
}

// GetRay returns the primary ray for pixel (px, py).
// ok is false when the camera sits on the view-plane point, which leaves no direction.
func (c *Camera) GetRay(px, py float64, viewportW, viewportH int) (core.Ray, bool) {
	planePoint := c.ViewPlanePoint(px, py, viewportW, viewportH)

	direction, ok := planePoint.Subtract(c.Position).Normalize()
	if !ok {
		return core.Ray{}, false
	}

	return core.NewRay(c.Position, direction), true
}
