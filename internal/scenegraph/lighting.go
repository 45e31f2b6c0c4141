package scenegraph

import (
	"github.com/beamtracer/beam/internal/geom"
	"github.com/beamtracer/beam/internal/vec"
)

// LightingRegion scopes which emitters a hit point can sample for direct
// lighting: CoveredVolume decides membership, GlobalSurfaces are the
// analytic emitters used for MIS direct-light sampling, and LocalPoints
// are cheap point-light stand-ins for the local_shading preview path
// (spec.md §3/§4.4). A Scene may have several regions; the first whose
// CoveredVolume contains a point wins.
type LightingRegion struct {
	CoveredVolume  geom.Volume
	GlobalSurfaces []geom.SampleableSurface
	LocalPoints    []vec.Point3
}

func NewLightingRegion(covered geom.Volume, globals []geom.SampleableSurface, locals []vec.Point3) LightingRegion {
	return LightingRegion{CoveredVolume: covered, GlobalSurfaces: globals, LocalPoints: locals}
}
