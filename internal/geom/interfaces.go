// Package geom implements the ray-surface intersection primitives, CSG
// combinators, and the octree acceleration structure described in
// spec.md §3/§4.2. Every Surface returns the closest hit strictly beyond
// EPSILON within the given RayRange; intersection code never panics on
// degenerate input, it reports a miss instead (spec.md §7).
package geom

import (
	"github.com/beamtracer/beam/internal/sampler"
	"github.com/beamtracer/beam/internal/vec"
)

// Face indicates which side of a surface a ray hit.
type Face int

const (
	Front Face = iota
	Back
)

// SurfaceIntersection describes where a ray met a Surface.
type SurfaceIntersection struct {
	Ray    vec.Ray
	T      vec.Scalar
	Normal vec.Dir3 // geometric outward normal, never flipped for back faces
	Face   Face
	UV     *vec.Vec2 // optional texture coordinates
}

// Location returns the world-space hit point, source + t*dir.
func (si SurfaceIntersection) Location() vec.Point3 { return si.Ray.At(si.T) }

// Surface is the polymorphic intersection contract every shape variant
// implements.
type Surface interface {
	ClosestIntersectionInRange(ray vec.Ray, rng vec.RayRange) (SurfaceIntersection, bool)
}

// Volume is implemented by surfaces that can answer point-containment
// queries, required for CSG Difference.
type Volume interface {
	IsPointInside(p vec.Point3) bool
}

// SampleableSurface is implemented by surfaces that can be explicitly
// importance-sampled for direct lighting (spec.md §3/§4.2).
type SampleableSurface interface {
	Surface
	// GenerateRandomSampleDirectionFrom returns a direction from point
	// toward the surface and the solid-angle PDF of that direction.
	GenerateRandomSampleDirectionFrom(point vec.Point3, s *sampler.Sampler) (vec.Dir3, vec.Scalar)
	// CalculatePDFForRay returns the solid-angle PDF of the direction
	// ray.Dir (from ray.Origin) hitting this surface.
	CalculatePDFForRay(ray vec.Ray) vec.Scalar
}

// AabbBounded is implemented by surfaces with a finite bounding box, the
// requirement for Octree membership.
type AabbBounded interface {
	Bounds() Aabb
}
