// Package scenegraph aggregates Objects, lighting regions and the Camera
// into an immutable Scene that every render worker queries concurrently
// (spec.md §3/§4.4).
package scenegraph

import (
	"math"

	"github.com/beamtracer/beam/internal/vec"
)

// Camera produces primary rays for normalized image coordinates (u,v) in
// [0,1)^2 from a right-handed look-at frustum, grounded on the teacher's
// renderer.Camera (lower-left-corner + horizontal/vertical span
// construction) but built from origin/lookAt/up/vfov/aspect instead of a
// fixed viewport so presets can place the camera anywhere.
type Camera struct {
	origin          vec.Point3
	lowerLeftCorner vec.Point3
	horizontal      vec.Dir3
	vertical        vec.Dir3
}

// NewCamera builds a Camera looking from origin toward lookAt, with up
// giving the roll, vfov the vertical field of view in degrees, and aspect
// the width/height ratio.
func NewCamera(origin, lookAt, up vec.Point3, vfovDegrees, aspect vec.Scalar) *Camera {
	theta := vfovDegrees * math.Pi / 180
	halfHeight := math.Tan(theta / 2)
	halfWidth := aspect * halfHeight

	w := origin.Sub(lookAt).Normalize()
	u := up.Cross(w).Normalize()
	v := w.Cross(u)

	horizontal := u.Scale(2 * halfWidth)
	vertical := v.Scale(2 * halfHeight)
	lowerLeftCorner := origin.
		Sub(horizontal.Scale(0.5)).
		Sub(vertical.Scale(0.5)).
		Sub(w)

	return &Camera{
		origin:          origin,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
	}
}

// RayAt returns the primary ray through normalized image coordinates
// (u, v), u and v both in [0, 1).
func (c *Camera) RayAt(u, v vec.Scalar) vec.Ray {
	dir := c.lowerLeftCorner.
		Add(c.horizontal.Scale(u)).
		Add(c.vertical.Scale(v)).
		Sub(c.origin)
	return vec.NewRay(c.origin, dir.Normalize())
}
