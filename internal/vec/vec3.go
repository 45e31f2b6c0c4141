// Package vec provides the scalar, vector, ray and color types shared by
// every other package in beam. It has no dependencies of its own so that
// geometry, material and renderer code can all sit on top of it.
package vec

import (
	"fmt"
	"math"
)

// Scalar is the universal floating point type used throughout the tracer.
type Scalar = float64

// EPSILON is the universal geometric tolerance: intersection distances,
// direction magnitudes and CSG bisection all compare against it.
const EPSILON Scalar = 1e-9

// Vec3 is a 3-component vector. Point3 and Dir3 are the same storage; a
// Dir3 is a semantic direction and is not guaranteed to be unit length
// unless the producing operation says so.
type Vec3 struct {
	X, Y, Z Scalar
}

// Point3 is a position in world space.
type Point3 = Vec3

// Dir3 is a direction, not necessarily normalized.
type Dir3 = Vec3

// Vec2 holds texture coordinates.
type Vec2 struct {
	U, V Scalar
}

func New(x, y, z Scalar) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (v Vec3) String() string {
	return fmt.Sprintf("{%.4g, %.4g, %.4g}", v.X, v.Y, v.Z)
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s Scalar) Vec3  { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Neg() Vec3            { return Vec3{-v.X, -v.Y, -v.Z} }
func (v Vec3) Mul(o Vec3) Vec3      { return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z} }
func (v Vec3) Dot(o Vec3) Scalar    { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) AbsDot(o Vec3) Scalar { return math.Abs(v.Dot(o)) }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) LengthSquared() Scalar { return v.X*v.X + v.Y*v.Y + v.Z*v.Z }
func (v Vec3) Length() Scalar        { return math.Sqrt(v.LengthSquared()) }

// Normalize returns the unit vector, or the zero vector if v is degenerate
// (magnitude-squared below EPSILON). Callers that need to distinguish a
// true zero vector from a degenerate direction should check
// LengthSquared themselves first; most integrator code can treat both the
// same way (a non-hit / absorbed path).
func (v Vec3) Normalize() Vec3 {
	lsq := v.LengthSquared()
	if lsq < EPSILON {
		return Vec3{}
	}
	return v.Scale(1.0 / math.Sqrt(lsq))
}

// IsDegenerate reports whether v is too small to safely normalize, or has
// a non-finite component. Geometry and material code treats a degenerate
// direction as a miss/absorption rather than propagating NaNs.
func (v Vec3) IsDegenerate() bool {
	if v.LengthSquared() < EPSILON {
		return true
	}
	return math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsNaN(v.Z) ||
		math.IsInf(v.X, 0) || math.IsInf(v.Y, 0) || math.IsInf(v.Z, 0)
}

func (v Vec3) Clamp(lo, hi Scalar) Vec3 {
	clamp := func(x Scalar) Scalar {
		if x < lo {
			return lo
		}
		if x > hi {
			return hi
		}
		return x
	}
	return Vec3{clamp(v.X), clamp(v.Y), clamp(v.Z)}
}

// MaxComponent returns the largest of the three components, used for
// Russian-roulette throughput tests.
func (v Vec3) MaxComponent() Scalar { return math.Max(v.X, math.Max(v.Y, v.Z)) }

func (v Vec3) IsZero() bool { return v.X == 0 && v.Y == 0 && v.Z == 0 }

// Luminance is the Rec.709 perceptual luminance, used for Russian roulette
// survival probabilities and convergence statistics.
func (v Vec3) Luminance() Scalar {
	return 0.2126*v.X + 0.7152*v.Y + 0.0722*v.Z
}

// OrthonormalBasis builds a right-handed {u, v, n} frame around n, used by
// Lambertian cosine-weighted hemisphere sampling.
func (v Vec3) OrthonormalBasis() (u, w, n Vec3) {
	n = v.Normalize()
	var a Vec3
	if math.Abs(n.X) > 0.9 {
		a = Vec3{0, 1, 0}
	} else {
		a = Vec3{1, 0, 0}
	}
	u = a.Cross(n).Normalize()
	w = n.Cross(u)
	return u, w, n
}

// Ray is parametrized as source + t*dir. t is in world distance units only
// when dir is unit length; callers that pass a non-unit direction (as
// shadow rays toward a specific point sometimes do) must scale t
// accordingly themselves.
type Ray struct {
	Origin Point3
	Dir    Dir3
}

func NewRay(origin Point3, dir Dir3) Ray { return Ray{Origin: origin, Dir: dir} }

// RayTo builds a ray from origin toward target with a unit direction.
func RayTo(origin, target Point3) Ray {
	return Ray{Origin: origin, Dir: target.Sub(origin).Normalize()}
}

func (r Ray) At(t Scalar) Point3 { return r.Origin.Add(r.Dir.Scale(t)) }

// RayRange is the open parameter interval (TMin, TMax) that tracers
// narrow monotonically as closer hits are found. Contains excludes both
// ends, so a FullRange query reports only hits strictly beyond EPSILON.
type RayRange struct {
	TMin, TMax Scalar
}

func FullRange() RayRange { return RayRange{TMin: EPSILON, TMax: math.Inf(1)} }

func (r RayRange) Contains(t Scalar) bool { return t > r.TMin && t < r.TMax }

func (r RayRange) WithMax(t Scalar) RayRange { return RayRange{TMin: r.TMin, TMax: t} }
