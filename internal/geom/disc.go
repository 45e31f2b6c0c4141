package geom

import (
	"math"

	"github.com/beamtracer/beam/internal/sampler"
	"github.com/beamtracer/beam/internal/vec"
)

// Disc is a bounded circular patch of a plane: a plane intersect followed
// by a radius check, area-sampleable for direct lighting.
type Disc struct {
	Center vec.Point3
	Normal vec.Dir3
	Radius vec.Scalar
}

func NewDisc(center vec.Point3, normal vec.Dir3, radius vec.Scalar) Disc {
	return Disc{Center: center, Normal: normal.Normalize(), Radius: radius}
}

func (d Disc) Bounds() Aabb {
	// Conservative bound: sphere of the same radius padded slightly, since
	// an oriented disc's tight box depends on its normal.
	r := vec.New(d.Radius, d.Radius, d.Radius)
	return NewAabb(d.Center.Sub(r), d.Center.Add(r)).Expand(1e-4)
}

func (d Disc) area() vec.Scalar { return math.Pi * d.Radius * d.Radius }

func (d Disc) ClosestIntersectionInRange(ray vec.Ray, rng vec.RayRange) (SurfaceIntersection, bool) {
	denom := ray.Dir.Dot(d.Normal)
	if math.Abs(denom) < vec.EPSILON {
		return SurfaceIntersection{}, false
	}
	t := d.Center.Sub(ray.Origin).Dot(d.Normal) / denom
	if !rng.Contains(t) {
		return SurfaceIntersection{}, false
	}
	hit := ray.At(t)
	if hit.Sub(d.Center).LengthSquared() > d.Radius*d.Radius {
		return SurfaceIntersection{}, false
	}
	return faceNormal(ray, t, d.Normal), true
}

// GenerateRandomSampleDirectionFrom samples a uniform point on the disc by
// area (polar mapping of two uniform draws: radius Radius*sqrt(r1), angle
// 2*pi*r2).
func (d Disc) GenerateRandomSampleDirectionFrom(point vec.Point3, rnd *sampler.Sampler) (vec.Dir3, vec.Scalar) {
	u, w, _ := d.Normal.OrthonormalBasis()
	r1, r2 := rnd.Uniform2D()
	r := d.Radius * math.Sqrt(r1)
	theta := 2 * math.Pi * r2
	target := d.Center.Add(u.Scale(r * math.Cos(theta))).Add(w.Scale(r * math.Sin(theta)))

	toTarget := target.Sub(point)
	dist := toTarget.Length()
	dir := toTarget.Scale(1 / dist)

	cosTheta := math.Abs(dir.Dot(d.Normal))
	if cosTheta < vec.EPSILON {
		return dir, 0
	}
	pdf := (dist * dist) / (cosTheta * d.area())
	return dir, pdf
}

func (d Disc) CalculatePDFForRay(ray vec.Ray) vec.Scalar {
	si, hit := d.ClosestIntersectionInRange(ray, vec.FullRange())
	if !hit {
		return 0
	}
	cosTheta := math.Abs(ray.Dir.Normalize().Dot(d.Normal))
	if cosTheta < vec.EPSILON {
		return 0
	}
	dist := si.T * ray.Dir.Length()
	return (dist * dist) / (cosTheta * d.area())
}
