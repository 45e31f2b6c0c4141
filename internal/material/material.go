package material

import (
	"math"

	"github.com/beamtracer/beam/internal/geom"
	"github.com/beamtracer/beam/internal/sampler"
	"github.com/beamtracer/beam/internal/vec"
)

// Event tags what a Material did at a hit: scattered, emitted light, or
// absorbed the ray outright (spec.md §4.3/§4.4).
type Event int

const (
	Scatter Event = iota
	EmitEvent
	Absorb
)

// SurfaceInteraction is the result of a Material responding to a hit.
type SurfaceInteraction struct {
	Event       Event
	Scattered   vec.Ray
	Attenuation vec.LinearRGB
	PDF         vec.Scalar // 0 for specular (delta) scattering
	Emitted     vec.LinearRGB
}

func (si SurfaceInteraction) IsSpecular() bool { return si.Event == Scatter && si.PDF <= 0 }

// Material is the polymorphic per-hit decision surface: given the
// incoming ray and the geometric intersection, decide whether to scatter,
// emit or absorb.
type Material interface {
	// Interact samples this material's response to a hit. mode selects
	// between cosine-weighted and uniform hemisphere sampling for
	// materials whose scattering has that choice (currently only Diffuse);
	// materials with a delta or fixed distribution ignore it.
	Interact(rayIn vec.Ray, hit geom.SurfaceIntersection, rnd *sampler.Sampler, mode SampleMode) SurfaceInteraction

	// BsdfReflectance evaluates this material's BSDF for an externally
	// chosen direction (e.g. toward a sampled light), returning the
	// texture-modulated reflectance and the direction's solid-angle PDF
	// under mode's sampling strategy. ok is false for specular or emissive
	// materials, which cannot be direct-light sampled (spec.md §4.4's
	// "isDelta" skip).
	BsdfReflectance(hit geom.SurfaceIntersection, dir vec.Dir3, mode SampleMode) (color vec.LinearRGB, pdf vec.Scalar, ok bool)
}

// Albedo is an optional interface for materials that expose a base color
// at a hit, independent of any sampled direction. The local_shading
// preview path uses it to build a Phong lobe for Diffuse and Metal
// surfaces. Dielectric and the Emit variants don't implement it: in that
// preview an emitter shows its emitted color, and any other hit without an
// albedo (a Dielectric, or an EmitFrontOnly back face) renders black.
type Albedo interface {
	AlbedoAt(hit geom.SurfaceIntersection) vec.LinearRGB
}

// Diffuse is Lambertian scattering modulated by a Texture; the
// attenuation folds in the texture color and the BSDF's cosθ/π factor
// exactly as spec.md §4.3 describes ("attenuation = texture·cosθ factors
// folded into the integrator via BSDF").
type Diffuse struct {
	Texture Texture
}

func NewDiffuse(tex Texture) Diffuse { return Diffuse{Texture: tex} }

func (d Diffuse) Interact(rayIn vec.Ray, hit geom.SurfaceIntersection, rnd *sampler.Sampler, mode SampleMode) SurfaceInteraction {
	bsdf := NewLambertianWithMode(hit.Normal, mode)
	dir, pdf := bsdf.SampleDirAndPDF(rnd)
	if pdf <= vec.EPSILON {
		return SurfaceInteraction{Event: Absorb}
	}
	color := d.Texture.Evaluate(hit.UV, hit.Location())
	cosTheta := bsdf.Reflectance(dir) // cosθ/π for Lambertian
	attenuation := color.Scale(cosTheta / pdf)
	return SurfaceInteraction{
		Event:       Scatter,
		Scattered:   vec.NewRay(hit.Location(), dir),
		Attenuation: attenuation,
		PDF:         pdf,
	}
}

// BsdfReflectance evaluates the same Lambertian BSDF Interact samples
// from, for an externally supplied direction (direct-light sampling).
func (d Diffuse) BsdfReflectance(hit geom.SurfaceIntersection, dir vec.Dir3, mode SampleMode) (vec.LinearRGB, vec.Scalar, bool) {
	bsdf := NewLambertianWithMode(hit.Normal, mode)
	pdf := bsdf.PDFForDir(dir)
	if pdf <= vec.EPSILON {
		return vec.LinearRGB{}, 0, true
	}
	color := d.Texture.Evaluate(hit.UV, hit.Location())
	return color.Scale(bsdf.Reflectance(dir)), pdf, true
}

// AlbedoAt returns the texture color, unmodulated by any BSDF factor.
func (d Diffuse) AlbedoAt(hit geom.SurfaceIntersection) vec.LinearRGB {
	return d.Texture.Evaluate(hit.UV, hit.Location())
}

// Metal is fuzzy mirror reflection: perfect reflection perturbed by
// Fuzz*uniform_point_in_unit_sphere(). A perturbed direction that dips
// below the surface is reported as absorption (spec.md §4.3).
type Metal struct {
	Texture Texture
	Fuzz    vec.Scalar
}

func NewMetal(tex Texture, fuzz vec.Scalar) Metal {
	if fuzz < 0 {
		fuzz = 0
	}
	if fuzz > 1 {
		fuzz = 1
	}
	return Metal{Texture: tex, Fuzz: fuzz}
}

func reflect(d, n vec.Dir3) vec.Dir3 {
	return d.Sub(n.Scale(2 * d.Dot(n)))
}

func (m Metal) Interact(rayIn vec.Ray, hit geom.SurfaceIntersection, rnd *sampler.Sampler, mode SampleMode) SurfaceInteraction {
	reflected := reflect(rayIn.Dir.Normalize(), hit.Normal)
	if m.Fuzz > 0 {
		reflected = reflected.Add(rnd.UniformPointInUnitSphere().Scale(m.Fuzz)).Normalize()
	}
	if reflected.Dot(hit.Normal) <= vec.EPSILON {
		return SurfaceInteraction{Event: Absorb}
	}
	color := m.Texture.Evaluate(hit.UV, hit.Location())
	return SurfaceInteraction{
		Event:       Scatter,
		Scattered:   vec.NewRay(hit.Location(), reflected),
		Attenuation: color,
		PDF:         0,
	}
}

// BsdfReflectance is always unavailable: Metal's reflection is a delta
// distribution with no well-defined PDF over directions.
func (m Metal) BsdfReflectance(hit geom.SurfaceIntersection, dir vec.Dir3, mode SampleMode) (vec.LinearRGB, vec.Scalar, bool) {
	return vec.LinearRGB{}, 0, false
}

// AlbedoAt returns the texture color, used by local_shading to give
// metal surfaces a Phong highlight in the cheap preview pass.
func (m Metal) AlbedoAt(hit geom.SurfaceIntersection) vec.LinearRGB {
	return m.Texture.Evaluate(hit.UV, hit.Location())
}

// Dielectric is Snell refraction with Schlick-approximated Fresnel
// reflectance, per spec.md §4.3.
type Dielectric struct {
	IOR vec.Scalar
}

func NewDielectric(ior vec.Scalar) Dielectric { return Dielectric{IOR: ior} }

// schlickReflectance computes r0 + (1-r0)(1-cosTheta)^5, r0 = ((1-eta)/(1+eta))^2.
func schlickReflectance(cosTheta, eta vec.Scalar) vec.Scalar {
	r0 := (1 - eta) / (1 + eta)
	r0 *= r0
	return r0 + (1-r0)*math.Pow(1-cosTheta, 5)
}

func refract(uv, n vec.Dir3, etaiOverEtat vec.Scalar) vec.Dir3 {
	cosTheta := math.Min(-uv.Dot(n), 1.0)
	rOutPerp := uv.Add(n.Scale(cosTheta)).Scale(etaiOverEtat)
	rOutParallel := n.Scale(-math.Sqrt(math.Abs(1.0 - rOutPerp.LengthSquared())))
	return rOutPerp.Add(rOutParallel)
}

func (d Dielectric) Interact(rayIn vec.Ray, hit geom.SurfaceIntersection, rnd *sampler.Sampler, mode SampleMode) SurfaceInteraction {
	var eta vec.Scalar
	if hit.Face == geom.Front {
		eta = 1.0 / d.IOR
	} else {
		eta = d.IOR
	}

	unitDir := rayIn.Dir.Normalize()
	cosTheta := math.Min(-unitDir.Dot(hit.Normal), 1.0)
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))

	cannotRefract := eta*sinTheta > 1.0
	var dir vec.Dir3
	if cannotRefract || schlickReflectance(cosTheta, eta) > rnd.Uniform1D() {
		dir = reflect(unitDir, hit.Normal)
	} else {
		dir = refract(unitDir, hit.Normal, eta)
	}

	return SurfaceInteraction{
		Event:       Scatter,
		Scattered:   vec.NewRay(hit.Location(), dir),
		Attenuation: vec.LinearRGB{X: 1, Y: 1, Z: 1},
		PDF:         0,
	}
}

// BsdfReflectance is always unavailable: refraction/reflection choice is
// a delta distribution, same as Metal.
func (d Dielectric) BsdfReflectance(hit geom.SurfaceIntersection, dir vec.Dir3, mode SampleMode) (vec.LinearRGB, vec.Scalar, bool) {
	return vec.LinearRGB{}, 0, false
}

// Emit is a light-emitting material: every hit, front or back, returns
// the texture's color as emitted radiance.
type Emit struct {
	Texture Texture
}

func NewEmit(tex Texture) Emit { return Emit{Texture: tex} }

func (e Emit) Interact(rayIn vec.Ray, hit geom.SurfaceIntersection, rnd *sampler.Sampler, mode SampleMode) SurfaceInteraction {
	return SurfaceInteraction{Event: EmitEvent, Emitted: e.Texture.Evaluate(hit.UV, hit.Location())}
}

// BsdfReflectance is always unavailable: emitters don't scatter incoming
// light, so they cannot contribute a BSDF term to direct-light sampling.
func (e Emit) BsdfReflectance(hit geom.SurfaceIntersection, dir vec.Dir3, mode SampleMode) (vec.LinearRGB, vec.Scalar, bool) {
	return vec.LinearRGB{}, 0, false
}

// EmitFrontOnly emits only from the front face; a back-face hit is
// absorbed instead, used for one-sided area lights.
type EmitFrontOnly struct {
	Texture Texture
}

func NewEmitFrontOnly(tex Texture) EmitFrontOnly { return EmitFrontOnly{Texture: tex} }

func (e EmitFrontOnly) Interact(rayIn vec.Ray, hit geom.SurfaceIntersection, rnd *sampler.Sampler, mode SampleMode) SurfaceInteraction {
	if hit.Face != geom.Front {
		return SurfaceInteraction{Event: Absorb}
	}
	return SurfaceInteraction{Event: EmitEvent, Emitted: e.Texture.Evaluate(hit.UV, hit.Location())}
}

// BsdfReflectance is always unavailable, for the same reason as Emit.
func (e EmitFrontOnly) BsdfReflectance(hit geom.SurfaceIntersection, dir vec.Dir3, mode SampleMode) (vec.LinearRGB, vec.Scalar, bool) {
	return vec.LinearRGB{}, 0, false
}
