package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beamtracer/beam/internal/vec"
)

// convexSurfaces returns surfaces for which the outward-normal-faces-ray
// invariant (spec.md §8: n.Dot(ray.Dir) < 0 for a front-facing hit on a
// convex body) is well defined.
func convexSurfaces() []Surface {
	return []Surface{
		NewSphere(vec.New(0, 0, 0), 1),
		NewAabb(vec.New(-1, -1, -1), vec.New(1, 1, 1)),
	}
}

func TestIntersectionToleranceInvariant(t *testing.T) {
	for _, s := range convexSurfaces() {
		for i := 0; i < 200; i++ {
			angle := float64(i) * 0.0317
			origin := vec.New(5*math.Cos(angle), 5*math.Sin(angle), 0)
			dir := vec.New(0, 0, 0).Sub(origin).Normalize()
			ray := vec.NewRay(origin, dir)
			si, hit := s.ClosestIntersectionInRange(ray, vec.FullRange())
			if hit {
				assert.Greater(t, si.T, vec.EPSILON)
			}
		}
	}
}

func TestConvexNormalFacesRay(t *testing.T) {
	for _, s := range convexSurfaces() {
		origin := vec.New(3, 0, 0)
		ray := vec.NewRay(origin, vec.New(-1, 0, 0))
		si, hit := s.ClosestIntersectionInRange(ray, vec.FullRange())
		require.True(t, hit)
		assert.Less(t, ray.Dir.Dot(si.Normal), vec.Scalar(0))
	}
}

func TestSphereInsideOutside(t *testing.T) {
	s := NewSphere(vec.New(0, 0, 0), 2)
	assert.True(t, s.IsPointInside(vec.New(0, 0, 0)))
	assert.True(t, s.IsPointInside(vec.New(1, 1, 0)))
	assert.False(t, s.IsPointInside(vec.New(3, 0, 0)))
}

func TestPlaneHalfSpace(t *testing.T) {
	p := NewPlane(vec.New(0, 0, 0), vec.New(0, 1, 0))
	assert.True(t, p.IsPointInside(vec.New(0, -1, 0)))
	assert.False(t, p.IsPointInside(vec.New(0, 1, 0)))
}

func TestRectangleHitWithinBounds(t *testing.T) {
	r := NewRectangle(vec.New(-1, -1, 0), vec.New(2, 0, 0), vec.New(0, 2, 0))
	ray := vec.NewRay(vec.New(0, 0, 5), vec.New(0, 0, -1))
	si, hit := r.ClosestIntersectionInRange(ray, vec.FullRange())
	require.True(t, hit)
	assert.InDelta(t, 5.0, si.T, 1e-9)
	require.NotNil(t, si.UV)
	assert.InDelta(t, 0.5, si.UV.U, 1e-9)
	assert.InDelta(t, 0.5, si.UV.V, 1e-9)

	missRay := vec.NewRay(vec.New(5, 5, 5), vec.New(0, 0, -1))
	_, missed := r.ClosestIntersectionInRange(missRay, vec.FullRange())
	assert.False(t, missed)
}

func TestDiscAreaSampleWithinRadius(t *testing.T) {
	d := NewDisc(vec.New(0, 0, 0), vec.New(0, 0, 1), 1.5)
	ray := vec.NewRay(vec.New(0.5, 0.5, 3), vec.New(0, 0, -1))
	si, hit := d.ClosestIntersectionInRange(ray, vec.FullRange())
	require.True(t, hit)
	assert.LessOrEqual(t, si.Location().Sub(d.Center).Length(), d.Radius+1e-9)
}

func TestTriangleMollerTrumbore(t *testing.T) {
	tri := NewTriangle(vec.New(-1, -1, 0), vec.New(1, -1, 0), vec.New(0, 1, 0))
	ray := vec.NewRay(vec.New(0, -0.3, 5), vec.New(0, 0, -1))
	_, hit := tri.ClosestIntersectionInRange(ray, vec.FullRange())
	assert.True(t, hit)

	missRay := vec.NewRay(vec.New(10, 10, 5), vec.New(0, 0, -1))
	_, missed := tri.ClosestIntersectionInRange(missRay, vec.FullRange())
	assert.False(t, missed)
}

func TestMeshAggregatesTriangles(t *testing.T) {
	m := NewMesh([]Triangle{
		NewTriangle(vec.New(-1, -1, 0), vec.New(1, -1, 0), vec.New(0, 1, 0)),
		NewTriangle(vec.New(-1, -1, -5), vec.New(1, -1, -5), vec.New(0, 1, -5)),
	})
	ray := vec.NewRay(vec.New(0, -0.3, 10), vec.New(0, 0, -1))
	si, hit := m.ClosestIntersectionInRange(ray, vec.FullRange())
	require.True(t, hit)
	assert.InDelta(t, 10.0, si.T, 1e-6)
}

func TestMergeUnionTakesClosestHit(t *testing.T) {
	a := NewSphere(vec.New(-2, 0, 0), 1)
	b := NewSphere(vec.New(2, 0, 0), 1)
	merge := NewMerge(a, b)

	ray := vec.NewRay(vec.New(-2, 0, 10), vec.New(0, 0, -1))
	si, hit := merge.ClosestIntersectionInRange(ray, vec.FullRange())
	require.True(t, hit)
	assert.InDelta(t, 9.0, si.T, 1e-9)

	assert.True(t, merge.IsPointInside(vec.New(-2, 0, 0)))
	assert.True(t, merge.IsPointInside(vec.New(2, 0, 0)))
	assert.False(t, merge.IsPointInside(vec.New(0, 0, 0)))
}

// TestDifferenceCarvesCavity checks a sphere carved out of a box: the
// cavity's center is no longer inside the solid while an untouched part of
// the box still is, a ray down the z axis hits the box's top face (not the
// cavity) with an outward +z normal, and a ray beside the box misses.
func TestDifferenceCarvesCavity(t *testing.T) {
	box := NewAabb(vec.New(-2, -2, -2), vec.New(2, 2, 2))
	ball := NewSphere(vec.New(0, 0, 0), 1)
	diff := NewDifference(box, ball)

	assert.False(t, diff.IsPointInside(vec.New(0, 0, 0)))
	assert.True(t, diff.IsPointInside(vec.New(1.5, 0, 0)))

	ray := vec.NewRay(vec.New(0, 0, 10), vec.New(0, 0, -1))
	si, hit := diff.ClosestIntersectionInRange(ray, vec.FullRange())
	require.True(t, hit)
	assert.InDelta(t, 8.0, si.T, 1e-6) // hits the box face, not the cavity
	assert.Greater(t, si.Normal.Z, vec.Scalar(0))

	farRay := vec.NewRay(vec.New(100, 100, 10), vec.New(0, 0, -1))
	_, missed := diff.ClosestIntersectionInRange(farRay, vec.FullRange())
	assert.False(t, missed)
}

func TestBlobFieldThresholdCrossing(t *testing.T) {
	b := NewBlob([]BlobPart{{Center: vec.New(0, 0, 0), Radius: 1.5}}, 0.5)
	ray := vec.NewRay(vec.New(0, 0, 10), vec.New(0, 0, -1))
	si, hit := b.ClosestIntersectionInRange(ray, vec.FullRange())
	require.True(t, hit)
	assert.Greater(t, si.Location().Z, vec.Scalar(0))

	missRay := vec.NewRay(vec.New(10, 10, 10), vec.New(0, 0, -1))
	_, missed := b.ClosestIntersectionInRange(missRay, vec.FullRange())
	assert.False(t, missed)
}

// TestOctreeAgreesWithNaiveMerge checks an Octree of many spheres against a
// flat Merge of the same spheres across a batch of rays, per spec.md §8's
// octree-vs-naive convergence test.
func TestOctreeAgreesWithNaiveMerge(t *testing.T) {
	var surfaces []Surface
	for i := 0; i < 200; i++ {
		x := float64(i%10) * 3
		y := float64((i/10)%10) * 3
		z := float64(i/100) * 3
		surfaces = append(surfaces, NewSphere(vec.New(x, y, z), 1))
	}

	merge := NewMerge(surfaces...)
	tree := NewOctree(surfaces)

	for i := 0; i < 500; i++ {
		angle := float64(i) * 0.123
		origin := vec.New(-20+40*math.Mod(angle, 1), -20, -20)
		dir := vec.New(math.Sin(angle), math.Cos(angle)*0.3+0.4, 0.5).Normalize()
		ray := vec.NewRay(origin, dir)

		siMerge, hitMerge := merge.ClosestIntersectionInRange(ray, vec.FullRange())
		siTree, hitTree := tree.ClosestIntersectionInRange(ray, vec.FullRange())

		require.Equal(t, hitMerge, hitTree)
		if hitMerge {
			assert.InDelta(t, siMerge.T, siTree.T, 1e-9)
		}
	}
}

// TestChooseSplitScansEventsNotJustMidpoint checks chooseSplit considers
// every member's bound as a candidate plane, not only the bounding-box
// midpoint: one outlier member stretches the bounds so far that the
// midpoint splits the cluster 11/1, while an event-derived plane through
// the cluster's own bounds balances it close to 6/6.
func TestChooseSplitScansEventsNotJustMidpoint(t *testing.T) {
	var members []OctreeMember
	for i := 0; i <= 10; i++ {
		x := vec.Scalar(i)
		b := NewAabb(vec.New(x, 0, 0), vec.New(x+0.5, 1, 1))
		members = append(members, OctreeMember{Bounds: b})
	}
	members = append(members, OctreeMember{Bounds: NewAabb(vec.New(100, 0, 0), vec.New(100.5, 1, 1))})
	bounds := unionMemberBounds(members)

	midpoint := (axisVal(bounds.Min, 0) + axisVal(bounds.Max, 0)) / 2
	axis, plane, ok := chooseSplit(members, bounds)
	require.True(t, ok)
	assert.Equal(t, 0, axis)
	assert.Less(t, float64(plane), float64(midpoint))
	assert.InDelta(t, 5.0, float64(plane), 1.5)
}

func TestAabbSlabMethodNormals(t *testing.T) {
	box := NewAabb(vec.New(-1, -1, -1), vec.New(1, 1, 1))
	ray := vec.NewRay(vec.New(0, 0, 5), vec.New(0, 0, -1))
	si, hit := box.ClosestIntersectionInRange(ray, vec.FullRange())
	require.True(t, hit)
	assert.InDelta(t, 1.0, si.Normal.Z, 1e-9)
}

func TestAabbExpandPadsEveryDirection(t *testing.T) {
	box := NewAabb(vec.New(0, 0, 0), vec.New(1, 1, 1))
	expanded := box.Expand(0.5)
	assert.InDelta(t, -0.5, expanded.Min.X, 1e-9)
	assert.InDelta(t, 1.5, expanded.Max.X, 1e-9)
}
