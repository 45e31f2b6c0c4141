package integrator

import (
	"github.com/beamtracer/beam/internal/material"
	"github.com/beamtracer/beam/internal/sampler"
	"github.com/beamtracer/beam/internal/scenegraph"
	"github.com/beamtracer/beam/internal/vec"
)

// directLighting samples one of the covering LightingRegion's
// GlobalSurfaces, casts a shadow ray, and weights the contribution by MIS
// against the material's own PDF for the same direction (spec.md §4.4
// step 5). It returns black when no region covers the hit, when the
// material can't be direct-light sampled (BsdfReflectance reports
// ok=false), or when the shadow ray doesn't land on an emitter.
func directLighting(scene Scene, hit scenegraph.ShadingIntersection, interaction material.SurfaceInteraction, opts Options, rnd *sampler.Sampler, stats *scenegraph.SceneSampleStats) vec.LinearRGB {
	region, ok := scene.LightingRegionAt(hit.Location())
	if !ok || len(region.GlobalSurfaces) == 0 {
		return vec.LinearRGB{}
	}

	idx := rnd.UniformIndex(len(region.GlobalSurfaces))
	emitter := region.GlobalSurfaces[idx]

	dir, dirPdf := emitter.GenerateRandomSampleDirectionFrom(hit.Location(), rnd)
	if dirPdf <= 0 {
		return vec.LinearRGB{}
	}
	lightPdf := dirPdf / vec.Scalar(len(region.GlobalSurfaces))

	reflectance, materialPdf, reflectOk := hit.Material.BsdfReflectance(hit.SurfaceIntersection, dir, bsdfSampleMode(opts.Sampling))
	if !reflectOk || materialPdf <= 0 {
		return vec.LinearRGB{}
	}

	shadowRay := vec.NewRay(hit.Location(), dir)
	lightHit, found := scene.TraceClosest(shadowRay, vec.FullRange(), stats)
	if !found || lightHit.Material == nil {
		return vec.LinearRGB{}
	}
	emission := lightHit.Material.Interact(shadowRay, lightHit.SurfaceIntersection, rnd, bsdfSampleMode(opts.Sampling))
	if emission.Event != material.EmitEvent {
		return vec.LinearRGB{} // occluded, or the shadow ray hit something else first
	}

	misWeight := vec.Scalar(1)
	if opts.Sampling == BsdfAndLights {
		misWeight = CombinePDFs(lightPdf, materialPdf, opts.Heuristic)
	}

	return reflectance.Mul(emission.Emitted).Scale(misWeight / lightPdf)
}

// indirectLighting recurses along the material's own sampled direction
// (spec.md §4.4 step 6), MIS-weighting non-specular scatters against the
// covering region's light PDF for the same direction.
func indirectLighting(scene Scene, hit scenegraph.ShadingIntersection, interaction material.SurfaceInteraction, opts Options, rnd *sampler.Sampler, stats *scenegraph.SceneSampleStats, depth int) vec.LinearRGB {
	misWeight := vec.Scalar(1)
	if !interaction.IsSpecular() && opts.Sampling == BsdfAndLights {
		lightPdf := lightPDFForDirection(scene, hit.Location(), interaction.Scattered.Dir)
		misWeight = CombinePDFs(interaction.PDF, lightPdf, opts.Heuristic)
	}

	incoming := Radiance(interaction.Scattered, scene, opts, rnd, stats, depth+1)
	return interaction.Attenuation.Mul(incoming).Scale(misWeight)
}

// lightPDFForDirection sums the solid-angle PDF of dir across every
// GlobalSurface in the region covering point, weighted by uniform light
// selection, matching the teacher's CalculateLightPDF.
func lightPDFForDirection(scene Scene, point vec.Point3, dir vec.Dir3) vec.Scalar {
	region, ok := scene.LightingRegionAt(point)
	if !ok || len(region.GlobalSurfaces) == 0 {
		return 0
	}
	ray := vec.NewRay(point, dir)
	var total vec.Scalar
	n := vec.Scalar(len(region.GlobalSurfaces))
	for _, s := range region.GlobalSurfaces {
		total += s.CalculatePDFForRay(ray) / n
	}
	return total
}
