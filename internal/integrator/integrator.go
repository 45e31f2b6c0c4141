// Package integrator implements the Monte Carlo path integrator: the
// recursive radiance estimator with Russian-roulette termination and
// multiple-importance-sampled direct lighting (spec.md §4.4), plus the
// cheap local_shading preview used by the renderer's blocky pass.
package integrator

import (
	"github.com/beamtracer/beam/internal/material"
	"github.com/beamtracer/beam/internal/sampler"
	"github.com/beamtracer/beam/internal/scenegraph"
	"github.com/beamtracer/beam/internal/vec"
)

const (
	// MaxDepth is the hard recursion cutoff; a path reaching it returns
	// black regardless of remaining throughput (spec.md §4.4 step 1).
	MaxDepth = 50
	// MinDepth is the bounce count below which Russian roulette never
	// fires, guaranteeing every path gets a few free bounces.
	MinDepth = 3
)

// SamplingMode chooses which of direct-light sampling and BSDF sampling
// contribute to a scattering event's estimate.
type SamplingMode int

const (
	BsdfAndLights SamplingMode = iota
	LightsOnly
	BsdfOnly
	Uniform
)

// IlluminationMode picks between the full recursive integrator (Global)
// and the single-bounce ambient+Phong preview (Local).
type IlluminationMode int

const (
	Global IlluminationMode = iota
	Local
)

// Options bundles the integrator knobs a renderer pass selects per call;
// it is small and cheap to pass by value along every recursion.
type Options struct {
	Sampling  SamplingMode
	Heuristic HeuristicMode
}

// DefaultOptions matches spec.md's default behavior: combine both
// sampling strategies with the power heuristic.
func DefaultOptions() Options {
	return Options{Sampling: BsdfAndLights, Heuristic: Power}
}

// bsdfSampleMode maps a sampling_mode to the hemisphere-sampling strategy a
// material's own BSDF should draw from: uniform for Uniform, cosine-weighted
// importance sampling for every other mode (spec.md step 7).
func bsdfSampleMode(s SamplingMode) material.SampleMode {
	if s == Uniform {
		return material.UniformHemisphere
	}
	return material.CosineWeighted
}

// Scene is the subset of scenegraph.Scene the integrator depends on,
// declared locally so this package's tests can supply a fake.
type Scene interface {
	TraceClosest(ray vec.Ray, rng vec.RayRange, stats *scenegraph.SceneSampleStats) (scenegraph.ShadingIntersection, bool)
	LightingRegionAt(p vec.Point3) (scenegraph.LightingRegion, bool)
	BackgroundColor() vec.LinearRGB
}

// Radiance estimates the LinearRGB radiance arriving along ray, using
// unidirectional path tracing with MIS direct lighting and Russian
// roulette (spec.md §4.4). stats may be nil, in which case ray/termination
// counts are simply not recorded.
func Radiance(ray vec.Ray, scene Scene, opts Options, rnd *sampler.Sampler, stats *scenegraph.SceneSampleStats, depth int) vec.LinearRGB {
	if depth > MaxDepth {
		if stats != nil {
			stats.AddMaxDepth()
		}
		return vec.LinearRGB{}
	}

	hit, found := scene.TraceClosest(ray, vec.FullRange(), stats)
	if !found {
		return scene.BackgroundColor()
	}
	if hit.Material == nil {
		return vec.LinearRGB{}
	}

	interaction := hit.Material.Interact(ray, hit.SurfaceIntersection, rnd, bsdfSampleMode(opts.Sampling))
	switch interaction.Event {
	case material.EmitEvent:
		return interaction.Emitted
	case material.Absorb:
		return vec.LinearRGB{}
	}

	q := vec.Scalar(1.0)
	if depth >= MinDepth {
		q = interaction.Attenuation.MaxComponent()
		if q > 0.95 {
			q = 0.95
		}
		if q <= 0 {
			if stats != nil {
				stats.AddMinAttenuation()
			}
			return vec.LinearRGB{}
		}
		if rnd.Uniform1D() > q {
			if stats != nil {
				stats.AddMinProbability()
			}
			return vec.LinearRGB{}
		}
	}

	var direct vec.LinearRGB
	if opts.Sampling == BsdfAndLights || opts.Sampling == LightsOnly {
		direct = directLighting(scene, hit, interaction, opts, rnd, stats)
	}

	var indirect vec.LinearRGB
	if opts.Sampling != LightsOnly {
		indirect = indirectLighting(scene, hit, interaction, opts, rnd, stats, depth)
	}

	total := direct.Add(indirect)
	if depth >= MinDepth {
		total = total.Scale(1.0 / q)
	}
	return total
}
