// Package material implements the BSDF sampling layer, the Material
// variants that decide what happens at a surface hit, and the Texture
// types that feed them spatially-varying color (spec.md §4.3).
package material

import (
	"math"

	"github.com/beamtracer/beam/internal/sampler"
	"github.com/beamtracer/beam/internal/vec"
)

// Bsdf is the scattering-distribution abstraction shared by path tracing
// and MIS: it can draw an importance-sampled direction, evaluate the PDF
// of an arbitrary direction, and evaluate its own reflectance for a
// direction without drawing a sample.
type Bsdf interface {
	SampleDirAndPDF(rnd *sampler.Sampler) (vec.Dir3, vec.Scalar)
	PDFForDir(dir vec.Dir3) vec.Scalar
	Reflectance(dir vec.Dir3) vec.Scalar
}

// SampleMode selects how a Bsdf draws its own scattered direction:
// cosine-weighted importance sampling (the default, minimizing variance for
// a Lambertian integrand), or sampling the hemisphere uniformly, ignoring
// the cosine term's importance entirely, for sampling_mode Uniform (spec.md
// step 7: "Uniform skips importance and samples hemisphere uniformly").
type SampleMode int

const (
	CosineWeighted SampleMode = iota
	UniformHemisphere
)

// Lambertian is hemisphere sampling around Normal: cosine-weighted via
// Malley's method by default (grounded on the teacher's
// RandomCosineDirection), or uniform over solid angle when Mode is
// UniformHemisphere. The BRDF term Reflectance returns is unaffected by
// Mode — only which directions get drawn, and at what PDF, changes.
type Lambertian struct {
	Normal vec.Dir3
	Mode   SampleMode
}

func NewLambertian(normal vec.Dir3) Lambertian {
	return Lambertian{Normal: normal.Normalize()}
}

// NewLambertianWithMode builds a Lambertian BSDF that samples its
// scattered direction per mode (spec.md's sampling_mode Uniform case).
func NewLambertianWithMode(normal vec.Dir3, mode SampleMode) Lambertian {
	return Lambertian{Normal: normal.Normalize(), Mode: mode}
}

func (l Lambertian) SampleDirAndPDF(rnd *sampler.Sampler) (vec.Dir3, vec.Scalar) {
	var dir vec.Dir3
	if l.Mode == UniformHemisphere {
		dir = rnd.UniformHemisphere(l.Normal)
	} else {
		dir = rnd.CosineWeightedHemisphere(l.Normal)
	}
	return dir, l.PDFForDir(dir)
}

// PDFForDir returns the probability density this Lambertian's own sampling
// strategy would assign dir: cosTheta/pi for cosine-weighted sampling, or
// the constant 1/(2*pi) over the hemisphere for UniformHemisphere.
func (l Lambertian) PDFForDir(dir vec.Dir3) vec.Scalar {
	cosTheta := l.Normal.Dot(dir.Normalize())
	if cosTheta <= 0 {
		return 0
	}
	if l.Mode == UniformHemisphere {
		return 1 / (2 * math.Pi)
	}
	return cosTheta / math.Pi
}

// Reflectance is the Lambertian BRDF's cosTheta/pi factor, independent of
// Mode: Mode changes how directions are drawn, not the BRDF being sampled.
func (l Lambertian) Reflectance(dir vec.Dir3) vec.Scalar {
	cosTheta := l.Normal.Dot(dir.Normalize())
	if cosTheta < 0 {
		cosTheta = 0
	}
	return cosTheta / math.Pi
}

// Phong is Lawrence's importance-sampled Phong model: a probabilistic
// mixture of a diffuse (Lambertian) lobe and a specular lobe around the
// perfect-reflection direction, weighted by kd and ks.
type Phong struct {
	SpecularDir vec.Dir3
	Normal      vec.Dir3
	Kd, Ks      vec.Scalar
	Shininess   vec.Scalar // "n" in spec.md §4.3
}

func NewPhong(specularDir, normal vec.Dir3, kd, ks, shininess vec.Scalar) Phong {
	return Phong{
		SpecularDir: specularDir.Normalize(),
		Normal:      normal.Normalize(),
		Kd:          kd,
		Ks:          ks,
		Shininess:   shininess,
	}
}

func (p Phong) diffuseWeight() vec.Scalar {
	total := p.Kd + p.Ks
	if total < vec.EPSILON {
		return 0.5
	}
	return p.Kd / total
}

func (p Phong) SampleDirAndPDF(rnd *sampler.Sampler) (vec.Dir3, vec.Scalar) {
	diffuseProb := p.diffuseWeight()
	var dir vec.Dir3
	if rnd.Uniform1D() < diffuseProb {
		dir = rnd.CosineWeightedHemisphere(p.Normal)
	} else {
		u, w, n := p.SpecularDir.OrthonormalBasis()
		r1, r2 := rnd.Uniform2D()
		exp := 1.0 / (p.Shininess + 1)
		alpha := math.Acos(math.Pow(r1, exp))
		phi := 2 * math.Pi * r2
		sinAlpha := math.Sin(alpha)
		dir = u.Scale(math.Cos(phi) * sinAlpha).
			Add(w.Scale(math.Sin(phi) * sinAlpha)).
			Add(n.Scale(math.Cos(alpha))).
			Normalize()
	}
	return dir, p.PDFForDir(dir)
}

func (p Phong) PDFForDir(dir vec.Dir3) vec.Scalar {
	d := dir.Normalize()
	cosTheta := p.Normal.Dot(d)
	var pdfDiffuse vec.Scalar
	if cosTheta > 0 {
		pdfDiffuse = cosTheta / math.Pi
	}

	cosAlpha := p.SpecularDir.Dot(d)
	var pdfSpecular vec.Scalar
	if cosAlpha > 0 {
		pdfSpecular = (p.Shininess + 1) / (2 * math.Pi) * math.Pow(cosAlpha, p.Shininess)
	}

	diffuseProb := p.diffuseWeight()
	return diffuseProb*pdfDiffuse + (1-diffuseProb)*pdfSpecular
}

// Reflectance implements spec.md §4.3's Phong reflectance:
// kd·cosθ/π + ks·((n+2)/(2π))·cos^n(α), zero when cosθ < 0.
func (p Phong) Reflectance(dir vec.Dir3) vec.Scalar {
	d := dir.Normalize()
	cosTheta := p.Normal.Dot(d)
	if cosTheta < 0 {
		return 0
	}
	diffuse := p.Kd * cosTheta / math.Pi

	cosAlpha := p.SpecularDir.Dot(d)
	if cosAlpha < 0 {
		cosAlpha = 0
	}
	specular := p.Ks * (p.Shininess + 2) / (2 * math.Pi) * math.Pow(cosAlpha, p.Shininess)

	return diffuse + specular
}
