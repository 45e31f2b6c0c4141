package geom

import (
	"math"

	"github.com/beamtracer/beam/internal/sampler"
	"github.com/beamtracer/beam/internal/vec"
)

// Rectangle is a bounded planar quad, defined by a corner and two
// in-plane edge vectors (not necessarily orthogonal lengths, but the
// spec models it as two orthogonal spans). It is area-sampleable.
type Rectangle struct {
	Corner vec.Point3
	U, V   vec.Dir3 // in-plane edges
	normal vec.Dir3
	area   vec.Scalar
}

func NewRectangle(corner vec.Point3, u, v vec.Dir3) Rectangle {
	n := u.Cross(v)
	area := n.Length()
	return Rectangle{Corner: corner, U: u, V: v, normal: n.Normalize(), area: area}
}

func (r Rectangle) Bounds() Aabb {
	p00 := r.Corner
	p10 := r.Corner.Add(r.U)
	p01 := r.Corner.Add(r.V)
	p11 := r.Corner.Add(r.U).Add(r.V)
	return AabbFromPoints(p00, p10, p01, p11).Expand(1e-4)
}

// planeUV projects a world point onto the rectangle's (u,v) parametrization.
func (r Rectangle) planeUV(p vec.Point3) (vec.Scalar, vec.Scalar) {
	d := p.Sub(r.Corner)
	uLenSq := r.U.LengthSquared()
	vLenSq := r.V.LengthSquared()
	return d.Dot(r.U) / uLenSq, d.Dot(r.V) / vLenSq
}

func (r Rectangle) ClosestIntersectionInRange(ray vec.Ray, rng vec.RayRange) (SurfaceIntersection, bool) {
	denom := ray.Dir.Dot(r.normal)
	if math.Abs(denom) < vec.EPSILON {
		return SurfaceIntersection{}, false
	}
	t := r.Corner.Sub(ray.Origin).Dot(r.normal) / denom
	if !rng.Contains(t) {
		return SurfaceIntersection{}, false
	}
	hit := ray.At(t)
	a, b := r.planeUV(hit)
	if a < 0 || a > 1 || b < 0 || b > 1 {
		return SurfaceIntersection{}, false
	}
	si := faceNormal(ray, t, r.normal)
	uv := vec.Vec2{U: a, V: b}
	si.UV = &uv
	return si, true
}

// GenerateRandomSampleDirectionFrom picks a uniform (u,v) on the rectangle
// and returns the direction toward that point plus its solid-angle PDF:
// distance^2 / (|cosTheta| * area), per spec.md §4.2.
func (r Rectangle) GenerateRandomSampleDirectionFrom(point vec.Point3, rnd *sampler.Sampler) (vec.Dir3, vec.Scalar) {
	a, b := rnd.Uniform2D()
	target := r.Corner.Add(r.U.Scale(a)).Add(r.V.Scale(b))
	toTarget := target.Sub(point)
	dist := toTarget.Length()
	dir := toTarget.Scale(1 / dist)

	cosTheta := math.Abs(dir.Dot(r.normal))
	if cosTheta < vec.EPSILON || r.area < vec.EPSILON {
		return dir, 0
	}
	pdf := (dist * dist) / (cosTheta * r.area)
	return dir, pdf
}

func (r Rectangle) CalculatePDFForRay(ray vec.Ray) vec.Scalar {
	si, hit := r.ClosestIntersectionInRange(ray, vec.FullRange())
	if !hit {
		return 0
	}
	cosTheta := math.Abs(ray.Dir.Normalize().Dot(r.normal))
	if cosTheta < vec.EPSILON || r.area < vec.EPSILON {
		return 0
	}
	dist := si.T * ray.Dir.Length()
	return (dist * dist) / (cosTheta * r.area)
}
