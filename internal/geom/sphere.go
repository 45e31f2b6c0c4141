package geom

import (
	"math"

	"github.com/beamtracer/beam/internal/sampler"
	"github.com/beamtracer/beam/internal/vec"
)

// Sphere is a Surface, a Volume (for CSG), and a SampleableSurface (solid
// angle cone sampling for direct lighting), per spec.md §4.2.
type Sphere struct {
	Center vec.Point3
	Radius vec.Scalar
}

func NewSphere(center vec.Point3, radius vec.Scalar) Sphere {
	return Sphere{Center: center, Radius: radius}
}

func (s Sphere) Bounds() Aabb {
	r := vec.New(s.Radius, s.Radius, s.Radius)
	return NewAabb(s.Center.Sub(r), s.Center.Add(r))
}

// ClosestIntersectionInRange solves the standard ray-sphere quadratic and
// picks the nearest root greater than EPSILON within rng.
func (s Sphere) ClosestIntersectionInRange(ray vec.Ray, rng vec.RayRange) (SurfaceIntersection, bool) {
	oc := ray.Origin.Sub(s.Center)
	a := ray.Dir.LengthSquared()
	if a < vec.EPSILON {
		return SurfaceIntersection{}, false
	}
	halfB := oc.Dot(ray.Dir)
	c := oc.LengthSquared() - s.Radius*s.Radius
	disc := halfB*halfB - a*c
	if disc < 0 {
		return SurfaceIntersection{}, false
	}
	sqrtD := math.Sqrt(disc)

	root := (-halfB - sqrtD) / a
	if !rng.Contains(root) {
		root = (-halfB + sqrtD) / a
		if !rng.Contains(root) {
			return SurfaceIntersection{}, false
		}
	}

	hit := ray.At(root)
	normal := hit.Sub(s.Center).Scale(1.0 / s.Radius)
	return faceNormal(ray, root, normal), true
}

func (s Sphere) IsPointInside(p vec.Point3) bool {
	return p.Sub(s.Center).LengthSquared() <= s.Radius*s.Radius
}

// GenerateRandomSampleDirectionFrom uniformly samples the solid-angle cone
// that encloses the sphere as seen from point (Cone sampling, spec.md
// §4.2). When point is inside the sphere, falls back to sampling a
// uniform direction on the unit sphere.
func (s Sphere) GenerateRandomSampleDirectionFrom(point vec.Point3, rnd *sampler.Sampler) (vec.Dir3, vec.Scalar) {
	toCenter := s.Center.Sub(point)
	distSq := toCenter.LengthSquared()
	dist := math.Sqrt(distSq)

	if dist <= s.Radius {
		dir := rnd.UniformDirOnUnitSphere()
		return dir, s.CalculatePDFForRay(vec.NewRay(point, dir))
	}

	sinThetaMaxSq := (s.Radius * s.Radius) / distSq
	cosThetaMax := math.Sqrt(math.Max(0, 1-sinThetaMaxSq))

	r1, r2 := rnd.Uniform2D()
	cosTheta := 1 - r1*(1-cosThetaMax)
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := 2 * math.Pi * r2

	// Build basis with w pointing toward the sphere center.
	w := toCenter.Scale(1 / dist)
	u, v, w := w.OrthonormalBasis()
	dir := u.Scale(math.Cos(phi) * sinTheta).Add(v.Scale(math.Sin(phi) * sinTheta)).Add(w.Scale(cosTheta))
	dir = dir.Normalize()

	pdf := 1.0 / (2 * math.Pi * (1 - cosThetaMax))
	return dir, pdf
}

// CalculatePDFForRay returns the solid-angle PDF of ray.Dir hitting the
// sphere, matching the cone-sampling density: 1/(2*pi*(1-cosThetaMax)).
// From inside the sphere it is 1/(4*pi), the density of the uniform
// direction GenerateRandomSampleDirectionFrom draws there.
func (s Sphere) CalculatePDFForRay(ray vec.Ray) vec.Scalar {
	if _, hit := s.ClosestIntersectionInRange(ray, vec.FullRange()); !hit {
		return 0
	}
	toCenter := s.Center.Sub(ray.Origin)
	distSq := toCenter.LengthSquared()
	dist := math.Sqrt(distSq)
	if dist <= s.Radius {
		return 1.0 / (4 * math.Pi)
	}
	sinThetaMaxSq := (s.Radius * s.Radius) / distSq
	cosThetaMax := math.Sqrt(math.Max(0, 1-sinThetaMaxSq))
	return 1.0 / (2 * math.Pi * (1 - cosThetaMax))
}
