package integrator

import (
	"github.com/beamtracer/beam/internal/geom"
	"github.com/beamtracer/beam/internal/material"
	"github.com/beamtracer/beam/internal/scenegraph"
	"github.com/beamtracer/beam/internal/vec"
)

// ambientFraction is the fixed ambient term local_shading adds regardless
// of light visibility, so unlit surfaces are never pure black in the
// blocky preview pass.
const ambientFraction = 0.1

// previewShininess/previewKd/previewKs are the fixed Phong lobe
// parameters local_shading builds around each Albedo material's base
// color; spec.md doesn't assign a Phong material variant to any of
// Diffuse/Metal/Dielectric/Emit, so the preview path picks one constant
// lobe shape for every Albedo-implementing hit rather than inventing a
// per-material roughness parameter.
const (
	previewShininess = 32.0
	previewKd        = 0.8
	previewKs        = 0.2
)

// LocalShading implements the illumination_mode=Local preview: ambient
// plus a single-bounce Phong evaluation per LocalPoint in the covering
// LightingRegion, each gated by one shadow ray, with no recursion
// (spec.md §4.4). It never draws a random sample, so it needs no Sampler.
func LocalShading(ray vec.Ray, hit scenegraph.ShadingIntersection, scene Scene) vec.LinearRGB {
	if hit.Material == nil {
		return vec.LinearRGB{}
	}

	if emitted, isEmitter := emittedColor(hit.SurfaceIntersection, hit.Material); isEmitter {
		return emitted
	}

	albedoSrc, ok := hit.Material.(material.Albedo)
	if !ok {
		return vec.LinearRGB{}
	}
	albedo := albedoSrc.AlbedoAt(hit.SurfaceIntersection)
	ambient := albedo.Scale(ambientFraction)

	region, hasRegion := scene.LightingRegionAt(hit.Location())
	if !hasRegion || len(region.LocalPoints) == 0 {
		return ambient
	}

	// Mirror-reflect the incoming ray about the normal: the direction a
	// perfectly specular surface would bounce the camera ray, i.e. the
	// peak of the Phong highlight.
	viewDir := ray.Dir.Normalize()
	specularDir := viewDir.Sub(hit.Normal.Scale(2 * viewDir.Dot(hit.Normal)))
	phong := material.NewPhong(specularDir, hit.Normal, previewKd, previewKs, previewShininess)

	var direct vec.LinearRGB
	for _, lightPos := range region.LocalPoints {
		toLight := lightPos.Sub(hit.Location())
		distSq := toLight.LengthSquared()
		if distSq < vec.EPSILON {
			continue
		}
		dir := toLight.Normalize()
		cosTheta := dir.Dot(hit.Normal)
		if cosTheta <= 0 {
			continue
		}

		shadowRay := vec.NewRay(hit.Location(), dir)
		shadowHit, blocked := scene.TraceClosest(shadowRay, vec.FullRange().WithMax(toLight.Length()-vec.EPSILON), nil)
		if blocked && shadowHit.Material != nil {
			continue
		}

		falloff := 1.0 / distSq
		reflectance := phong.Reflectance(dir)
		direct = direct.Add(albedo.Scale(reflectance * falloff))
	}

	return ambient.Add(direct)
}

// emittedColor reports a hit's emitted color without running a full
// Interact dispatch, so local_shading never needs a Sampler just to
// check whether a surface is a light.
func emittedColor(hit geom.SurfaceIntersection, mat material.Material) (vec.LinearRGB, bool) {
	switch m := mat.(type) {
	case material.Emit:
		return m.Texture.Evaluate(hit.UV, hit.Location()), true
	case material.EmitFrontOnly:
		if hit.Face != geom.Front {
			return vec.LinearRGB{}, false
		}
		return m.Texture.Evaluate(hit.UV, hit.Location()), true
	default:
		return vec.LinearRGB{}, false
	}
}
