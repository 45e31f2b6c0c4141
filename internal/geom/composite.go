package geom

import "github.com/beamtracer/beam/internal/vec"

// BoundedSurface wraps an inner Surface with a precomputed Aabb, short
// circuiting the inner intersection test on a bounds miss. Useful when the
// inner surface's own Bounds() is expensive to recompute per ray (e.g. a
// Mesh) or when a hand-authored bound is tighter than the inner surface's
// natural one.
type BoundedSurface struct {
	BoundsBox Aabb
	Inner     Surface
}

func NewBoundedSurface(bounds Aabb, inner Surface) BoundedSurface {
	return BoundedSurface{BoundsBox: bounds, Inner: inner}
}

func (b BoundedSurface) Bounds() Aabb { return b.BoundsBox }

func (b BoundedSurface) ClosestIntersectionInRange(ray vec.Ray, rng vec.RayRange) (SurfaceIntersection, bool) {
	if !b.BoundsBox.EntersBounds(ray, rng) {
		return SurfaceIntersection{}, false
	}
	return b.Inner.ClosestIntersectionInRange(ray, rng)
}

// Merge is the CSG union of surfaces: the closest hit across all members,
// found by tightening rng.TMax as each member is tested.
type Merge struct {
	Members []Surface
}

func NewMerge(members ...Surface) Merge { return Merge{Members: members} }

func (m Merge) ClosestIntersectionInRange(ray vec.Ray, rng vec.RayRange) (SurfaceIntersection, bool) {
	var best SurfaceIntersection
	found := false
	cur := rng
	for _, s := range m.Members {
		if si, ok := s.ClosestIntersectionInRange(ray, cur); ok {
			best = si
			found = true
			cur = cur.WithMax(si.T)
		}
	}
	return best, found
}

// IsPointInside implements Volume when every member does (a Merge of
// volumes is their union).
func (m Merge) IsPointInside(p vec.Point3) bool {
	for _, s := range m.Members {
		if vol, ok := s.(Volume); ok && vol.IsPointInside(p) {
			return true
		}
	}
	return false
}

// Difference is the CSG subtraction A - B: the set of points in A but not
// in B. Both A and B must implement Volume as well as Surface.
type Difference struct {
	A, B interface {
		Surface
		Volume
	}
}

func NewDifference(a, b interface {
	Surface
	Volume
}) Difference {
	return Difference{A: a, B: b}
}

// IsPointInside implements Volume: A and not B.
func (d Difference) IsPointInside(p vec.Point3) bool {
	return d.A.IsPointInside(p) && !d.B.IsPointInside(p)
}

// ClosestIntersectionInRange finds the closest t such that either (hit on
// A and that point is not inside B) or (hit on B and that point is inside
// A), iteratively advancing the search range past rejected hits by
// EPSILON, per spec.md §4.2.
func (d Difference) ClosestIntersectionInRange(ray vec.Ray, rng vec.RayRange) (SurfaceIntersection, bool) {
	cur := rng
	for {
		siA, hitA := d.A.ClosestIntersectionInRange(ray, cur)
		siB, hitB := d.B.ClosestIntersectionInRange(ray, cur)

		if !hitA && !hitB {
			return SurfaceIntersection{}, false
		}

		// Pick whichever candidate is closer to decide which to validate
		// first; the other remains eligible on the next iteration if this
		// one is rejected.
		useA := hitA && (!hitB || siA.T <= siB.T)

		if useA {
			p := siA.Location()
			if !d.B.IsPointInside(p) {
				return siA, true
			}
			cur = cur.WithMax(cur.TMax)
			cur.TMin = siA.T + vec.EPSILON
			continue
		}

		p := siB.Location()
		if d.A.IsPointInside(p) {
			// Surface B is hit from inside A: report B's hit but with the
			// normal flipped so it still points out of the resulting solid.
			flipped := siB
			flipped.Normal = siB.Normal.Neg()
			return flipped, true
		}
		cur.TMin = siB.T + vec.EPSILON
	}
}
