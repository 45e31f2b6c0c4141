package geom

import (
	"math"

	"github.com/beamtracer/beam/internal/vec"
)

// Aabb is an axis-aligned bounding box, both a Surface (hit test via the
// slab method) and a Volume (half-space-per-axis point containment).
type Aabb struct {
	Min, Max vec.Point3
}

func NewAabb(min, max vec.Point3) Aabb { return Aabb{Min: min, Max: max} }

// AabbFromPoints returns the tightest Aabb enclosing all given points.
func AabbFromPoints(points ...vec.Point3) Aabb {
	if len(points) == 0 {
		return Aabb{}
	}
	min, max := points[0], points[0]
	for _, p := range points[1:] {
		min.X, max.X = math.Min(min.X, p.X), math.Max(max.X, p.X)
		min.Y, max.Y = math.Min(min.Y, p.Y), math.Max(max.Y, p.Y)
		min.Z, max.Z = math.Min(min.Z, p.Z), math.Max(max.Z, p.Z)
	}
	return Aabb{Min: min, Max: max}
}

func (b Aabb) Bounds() Aabb { return b }

func (b Aabb) Union(o Aabb) Aabb {
	return Aabb{
		Min: vec.New(math.Min(b.Min.X, o.Min.X), math.Min(b.Min.Y, o.Min.Y), math.Min(b.Min.Z, o.Min.Z)),
		Max: vec.New(math.Max(b.Max.X, o.Max.X), math.Max(b.Max.Y, o.Max.Y), math.Max(b.Max.Z, o.Max.Z)),
	}
}

func (b Aabb) Center() vec.Point3 { return b.Min.Add(b.Max).Scale(0.5) }
func (b Aabb) Size() vec.Vec3     { return b.Max.Sub(b.Min) }

// Expand returns an Aabb padded by amount in every direction, used to give
// zero-thickness surfaces (a Rectangle, say) a non-degenerate bounding box
// for Octree membership.
func (b Aabb) Expand(amount vec.Scalar) Aabb {
	e := vec.New(amount, amount, amount)
	return Aabb{Min: b.Min.Sub(e), Max: b.Max.Add(e)}
}

func (b Aabb) LongestAxis() int {
	s := b.Size()
	if s.X > s.Y && s.X > s.Z {
		return 0
	}
	if s.Y > s.Z {
		return 1
	}
	return 2
}

func axisVal(v vec.Vec3, axis int) vec.Scalar {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// EntersBounds implements the BoundingSurface slab test: it narrows
// [rng.TMin, rng.TMax) across x, y, z and reports whether any interval
// survives, without reporting which slab produced the entry (see
// ClosestIntersectionInRange, which also recovers the slab axis for normal
// selection).
func (b Aabb) EntersBounds(ray vec.Ray, rng vec.RayRange) bool {
	_, _, ok := b.slabTest(ray, rng)
	return ok
}

// slabTest runs the slab method and additionally reports which axis
// produced the entering tMin, so ClosestIntersectionInRange can pick the
// correct +/-axis normal.
func (b Aabb) slabTest(ray vec.Ray, rng vec.RayRange) (tEnter vec.Scalar, enterAxis int, ok bool) {
	tMin, tMax := rng.TMin, rng.TMax
	enterAxis = -1
	for axis := 0; axis < 3; axis++ {
		minV := axisVal(b.Min, axis)
		maxV := axisVal(b.Max, axis)
		origin := axisVal(ray.Origin, axis)
		dir := axisVal(ray.Dir, axis)

		if math.Abs(dir) < 1e-12 {
			if origin < minV || origin > maxV {
				return 0, -1, false
			}
			continue
		}

		invD := 1.0 / dir
		t1 := (minV - origin) * invD
		t2 := (maxV - origin) * invD
		enteringAxis := axis
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin = t1
			enterAxis = enteringAxis
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return 0, -1, false
		}
	}
	return tMin, enterAxis, true
}

// ClosestIntersectionInRange implements Surface for Aabb so a box can be a
// renderable object, not just a bounding volume. The outward normal is the
// unit axis vector for whichever slab produced the entering tMin.
func (b Aabb) ClosestIntersectionInRange(ray vec.Ray, rng vec.RayRange) (SurfaceIntersection, bool) {
	tEnter, axis, ok := b.slabTest(ray, rng)
	if !ok || axis < 0 || !rng.Contains(tEnter) {
		return SurfaceIntersection{}, false
	}

	var normal vec.Dir3
	center := b.Center()
	hit := ray.At(tEnter)
	switch axis {
	case 0:
		normal = vec.New(signOf(hit.X-center.X), 0, 0)
	case 1:
		normal = vec.New(0, signOf(hit.Y-center.Y), 0)
	default:
		normal = vec.New(0, 0, signOf(hit.Z-center.Z))
	}

	return faceNormal(ray, tEnter, normal), true
}

func signOf(x vec.Scalar) vec.Scalar {
	if x < 0 {
		return -1
	}
	return 1
}

// IsPointInside implements Volume for CSG Difference.
func (b Aabb) IsPointInside(p vec.Point3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// faceNormal builds a SurfaceIntersection from an outward normal,
// preserving it unflipped per spec.md's "geometric outward normal, not
// flipped for back faces" contract while still classifying Front/Back.
func faceNormal(ray vec.Ray, t vec.Scalar, outwardNormal vec.Dir3) SurfaceIntersection {
	face := Front
	if ray.Dir.Dot(outwardNormal) >= 0 {
		face = Back
	}
	return SurfaceIntersection{Ray: ray, T: t, Normal: outwardNormal, Face: face}
}
