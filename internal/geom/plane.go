package geom

import (
	"math"

	"github.com/beamtracer/beam/internal/vec"
)

// Plane is an infinite plane defined by a point and a unit normal. It is a
// Surface and a Volume (half-space test), used both as a renderable
// surface and as a CSG half-space.
type Plane struct {
	Point  vec.Point3
	Normal vec.Dir3 // must be unit length
}

func NewPlane(point vec.Point3, normal vec.Dir3) Plane {
	return Plane{Point: point, Normal: normal.Normalize()}
}

// hitT returns the ray parameter where ray meets the plane, or ok=false if
// the ray is parallel.
func (p Plane) hitT(ray vec.Ray) (vec.Scalar, bool) {
	denom := ray.Dir.Dot(p.Normal)
	if math.Abs(denom) < vec.EPSILON {
		return 0, false
	}
	t := p.Point.Sub(ray.Origin).Dot(p.Normal) / denom
	return t, true
}

func (p Plane) ClosestIntersectionInRange(ray vec.Ray, rng vec.RayRange) (SurfaceIntersection, bool) {
	t, ok := p.hitT(ray)
	if !ok || !rng.Contains(t) {
		return SurfaceIntersection{}, false
	}
	return faceNormal(ray, t, p.Normal), true
}

// IsPointInside treats the plane as the half-space behind the normal
// (Normal points out of the solid), used by CSG Difference.
func (p Plane) IsPointInside(point vec.Point3) bool {
	return point.Sub(p.Point).Dot(p.Normal) <= 0
}
