package geom

import (
	"sort"

	"github.com/beamtracer/beam/internal/vec"
)

// octreeLeafThreshold is the member count below which a node stops
// splitting and becomes a leaf, mirroring the teacher BVH's leaf cutoff.
const octreeLeafThreshold = 4

// OctreeMember pairs a Surface with its precomputed bounds, so the tree
// never has to call Bounds() again after construction.
type OctreeMember struct {
	Surface Surface
	Bounds  Aabb
}

// Octree is a spatial index over bounded surfaces. Unlike a strict
// bounding-volume hierarchy it is built by scoring axis-aligned splitting
// planes for balance and duplication rather than always splitting on the
// median, and a surface whose bounds straddle the chosen plane is a member
// of both children (spec.md §4.2).
type Octree struct {
	bounds  Aabb
	members []OctreeMember // only populated on leaves
	isLeaf  bool
	left    *Octree
	right   *Octree
}

// NewOctree builds a tree over the given surfaces, taking each member's
// bounds from its Bounds() method. A surface that does not implement
// AabbBounded (e.g. an unbounded Plane, or a Merge) gets a zero-size Aabb
// at the origin and cannot be indexed usefully, so it should be kept
// outside the tree as an always-tested surface by the caller.
func NewOctree(surfaces []Surface) *Octree {
	members := make([]OctreeMember, len(surfaces))
	for i, s := range surfaces {
		var b Aabb
		if bounded, ok := s.(AabbBounded); ok {
			b = bounded.Bounds()
		}
		members[i] = OctreeMember{Surface: s, Bounds: b}
	}
	return buildOctree(members)
}

func buildOctree(members []OctreeMember) *Octree {
	node := &Octree{bounds: unionMemberBounds(members)}
	if len(members) <= octreeLeafThreshold {
		node.isLeaf = true
		node.members = members
		return node
	}

	axis, plane, ok := chooseSplit(members, node.bounds)
	if !ok {
		node.isLeaf = true
		node.members = members
		return node
	}

	var leftMembers, rightMembers []OctreeMember
	for _, m := range members {
		lo, hi := axisRange(m.Bounds, axis)
		if lo <= plane {
			leftMembers = append(leftMembers, m)
		}
		if hi >= plane {
			rightMembers = append(rightMembers, m)
		}
	}

	node.left = buildOctree(leftMembers)
	node.right = buildOctree(rightMembers)
	return node
}

func unionMemberBounds(members []OctreeMember) Aabb {
	if len(members) == 0 {
		return Aabb{}
	}
	b := members[0].Bounds
	for _, m := range members[1:] {
		b = b.Union(m.Bounds)
	}
	return b
}

func axisRange(b Aabb, axis int) (lo, hi vec.Scalar) {
	return axisVal(b.Min, axis), axisVal(b.Max, axis)
}

// splitEvent is one endpoint of a member's extent along a single axis: its
// lo bound contributes an "enter" event, its hi bound a "leave" event.
type splitEvent struct {
	pos   vec.Scalar
	enter bool
}

// chooseSplit walks the sorted event points on each of the three axes (each
// member contributes a min-enter and a max-leave event) and scores every
// distinct coordinate as a candidate split plane, picking the axis/plane
// with the lowest score, where score balances an even split against minimal
// duplication across the boundary:
// score = |countLeft - countRight| + (countLeft + countRight - total).
// The split is rejected (ok=false) when no candidate plane is strictly
// interior to the node's bounds, or when the best score is not better than
// leaving all members in one node (score >= total/2), per spec.md §4.2.
func chooseSplit(members []OctreeMember, bounds Aabb) (axis int, plane vec.Scalar, ok bool) {
	total := len(members)
	bestScore := vec.Scalar(total) // sentinel worse than any real score
	bestAxis := -1
	var bestPlane vec.Scalar

	for a := 0; a < 3; a++ {
		lo := axisVal(bounds.Min, a)
		hi := axisVal(bounds.Max, a)

		events := make([]splitEvent, 0, len(members)*2)
		for _, m := range members {
			mlo, mhi := axisRange(m.Bounds, a)
			events = append(events, splitEvent{pos: mlo, enter: true}, splitEvent{pos: mhi, enter: false})
		}
		sort.Slice(events, func(i, j int) bool { return events[i].pos < events[j].pos })

		for i, e := range events {
			if i > 0 && e.pos == events[i-1].pos {
				continue // already scored this coordinate
			}
			p := e.pos
			if !(p > lo && p < hi) {
				continue
			}

			left, right := 0, 0
			for _, m := range members {
				mlo, mhi := axisRange(m.Bounds, a)
				if mlo <= p {
					left++
				}
				if mhi >= p {
					right++
				}
			}

			score := absInt(left-right) + (left + right - total)
			if vec.Scalar(score) < bestScore {
				bestScore = vec.Scalar(score)
				bestAxis = a
				bestPlane = p
			}
		}
	}

	if bestAxis < 0 || bestScore >= vec.Scalar(total)/2 {
		return 0, 0, false
	}
	return bestAxis, bestPlane, true
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func (o *Octree) Bounds() Aabb { return o.bounds }

// ClosestIntersectionInRange descends both children whenever the ray
// enters their bounds, tightening the search range as closer hits are
// found so later subtree tests can reject early.
func (o *Octree) ClosestIntersectionInRange(ray vec.Ray, rng vec.RayRange) (SurfaceIntersection, bool) {
	si, _, found := o.ClosestMember(ray, rng)
	return si, found
}

// ClosestMember is ClosestIntersectionInRange plus the winning member's
// Surface, so a caller that indexed non-geometric data alongside each
// Surface (e.g. a Material) can recover it without a second traversal.
func (o *Octree) ClosestMember(ray vec.Ray, rng vec.RayRange) (SurfaceIntersection, Surface, bool) {
	if !o.bounds.EntersBounds(ray, rng) {
		return SurfaceIntersection{}, nil, false
	}

	if o.isLeaf {
		var best SurfaceIntersection
		var bestSurface Surface
		found := false
		cur := rng
		for _, m := range o.members {
			if si, ok := m.Surface.ClosestIntersectionInRange(ray, cur); ok {
				best = si
				bestSurface = m.Surface
				found = true
				cur = cur.WithMax(si.T)
			}
		}
		return best, bestSurface, found
	}

	cur := rng
	best, found := SurfaceIntersection{}, false
	var bestSurface Surface
	if o.left != nil {
		if si, surf, ok := o.left.ClosestMember(ray, cur); ok {
			best, bestSurface, found = si, surf, true
			cur = cur.WithMax(si.T)
		}
	}
	if o.right != nil {
		if si, surf, ok := o.right.ClosestMember(ray, cur); ok {
			best, bestSurface, found = si, surf, true
		}
	}
	return best, bestSurface, found
}

// IsPointInside implements Volume over the union of every indexed member
// that is itself a Volume, mirroring Merge's semantics so an Octree can
// stand in for a Merge transparently inside a Difference.
func (o *Octree) IsPointInside(p vec.Point3) bool {
	if !o.bounds.IsPointInside(p) {
		return false
	}
	if o.isLeaf {
		for _, m := range o.members {
			if vol, ok := m.Surface.(Volume); ok && vol.IsPointInside(p) {
				return true
			}
		}
		return false
	}
	if o.left != nil && o.left.IsPointInside(p) {
		return true
	}
	if o.right != nil && o.right.IsPointInside(p) {
		return true
	}
	return false
}
