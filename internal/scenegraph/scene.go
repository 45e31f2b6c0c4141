package scenegraph

import (
	"sync/atomic"

	"github.com/beamtracer/beam/internal/geom"
	"github.com/beamtracer/beam/internal/vec"
)

// SceneSampleStats accumulates per-render counters the integrator and
// scene queries both contribute to: how many rays were traced, and why
// Russian-roulette paths were terminated (spec.md §4.4/§8). One instance
// is shared by every worker via atomic increments, matching the spec's
// "thread-local... counter" intent without requiring a true per-thread
// instance, since the counts are only consumed after a pass completes.
type SceneSampleStats struct {
	NumRays                  int64
	TerminatedMaxDepth       int64
	TerminatedMinAttenuation int64
	TerminatedMinProbability int64
}

func (s *SceneSampleStats) addRay() { atomic.AddInt64(&s.NumRays, 1) }

// AddMaxDepth, AddMinAttenuation and AddMinProbability are the entry
// points the integrator uses to record a Russian-roulette termination
// cause.
func (s *SceneSampleStats) AddMaxDepth()       { atomic.AddInt64(&s.TerminatedMaxDepth, 1) }
func (s *SceneSampleStats) AddMinAttenuation() { atomic.AddInt64(&s.TerminatedMinAttenuation, 1) }
func (s *SceneSampleStats) AddMinProbability() { atomic.AddInt64(&s.TerminatedMinProbability, 1) }

// Scene is the immutable, worker-shared render input: a Camera, the
// lighting regions that drive direct-light sampling, and the Objects
// aggregate queried by every primary/secondary ray (spec.md §3).
type Scene struct {
	Camera          *Camera
	LightingRegions []LightingRegion
	Objects         []Object
	index           *geom.Octree
	Background      vec.LinearRGB
}

// NewScene builds the Octree acceleration structure over objects once;
// the returned Scene is safe to share (read-only) across every render
// worker goroutine.
func NewScene(camera *Camera, regions []LightingRegion, objects []Object, background vec.LinearRGB) *Scene {
	surfaces := make([]geom.Surface, len(objects))
	for i, o := range objects {
		surfaces[i] = o
	}
	return &Scene{
		Camera:          camera,
		LightingRegions: regions,
		Objects:         objects,
		index:           geom.NewOctree(surfaces),
		Background:      background,
	}
}

// TraceClosest queries the Objects aggregate for the closest hit and
// recovers the Material that owns it, incrementing stats.NumRays
// regardless of hit/miss (spec.md §4.4).
func (s *Scene) TraceClosest(ray vec.Ray, rng vec.RayRange, stats *SceneSampleStats) (ShadingIntersection, bool) {
	if stats != nil {
		stats.addRay()
	}
	si, surf, ok := s.index.ClosestMember(ray, rng)
	if !ok {
		return ShadingIntersection{}, false
	}
	obj, isObject := surf.(Object)
	if !isObject {
		return ShadingIntersection{SurfaceIntersection: si}, true
	}
	return ShadingIntersection{SurfaceIntersection: si, Material: obj.Material}, true
}

// BackgroundColor returns the radiance a ray that misses every Object
// contributes (spec.md §4.4 step 2).
func (s *Scene) BackgroundColor() vec.LinearRGB { return s.Background }

// LightingRegionAt returns the first LightingRegion whose CoveredVolume
// contains p, per spec.md's "first covering region wins" rule.
func (s *Scene) LightingRegionAt(p vec.Point3) (LightingRegion, bool) {
	for _, r := range s.LightingRegions {
		if r.CoveredVolume != nil && r.CoveredVolume.IsPointInside(p) {
			return r, true
		}
	}
	return LightingRegion{}, false
}
