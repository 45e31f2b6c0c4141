package scenegraph

import (
	"github.com/beamtracer/beam/internal/geom"
	"github.com/beamtracer/beam/internal/material"
	"github.com/beamtracer/beam/internal/vec"
)

// Object is a Surface paired exclusively with the Material that decides
// its response at a hit (spec.md §3's "owns a Surface and a Material by
// exclusive ownership").
type Object struct {
	Surface  geom.Surface
	Material material.Material
}

func NewObject(surface geom.Surface, mat material.Material) Object {
	return Object{Surface: surface, Material: mat}
}

func (o Object) Bounds() geom.Aabb {
	if bounded, ok := o.Surface.(geom.AabbBounded); ok {
		return bounded.Bounds()
	}
	return geom.Aabb{}
}

// ClosestIntersectionInRange implements geom.Surface so a []Object slice
// (or an Octree built over objectSurface wrappers) can be queried the same
// way as any other Surface.
func (o Object) ClosestIntersectionInRange(ray vec.Ray, rng vec.RayRange) (geom.SurfaceIntersection, bool) {
	return o.Surface.ClosestIntersectionInRange(ray, rng)
}

// ShadingIntersection is what Scene.TraceClosest hands back to the
// integrator: the geometric hit plus the Material that owns it.
type ShadingIntersection struct {
	geom.SurfaceIntersection
	Material material.Material
}
