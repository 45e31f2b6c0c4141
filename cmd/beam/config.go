package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/beamtracer/beam/internal/integrator"
	"github.com/beamtracer/beam/internal/renderer"
)

// fileConfig is the YAML shape loaded by -config; every field is optional
// and only overrides the flag-provided value when set, mirroring the
// teacher's flag-default/override layering, with the file as an extra
// source that takes priority over the flags for every field it sets.
type fileConfig struct {
	Scene         string `yaml:"scene"`
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"`
	Illumination  string `yaml:"illumination"`
	Sampling      string `yaml:"sampling"`
	MaxBlockiness int    `yaml:"max_blockiness"`
	Workers       int    `yaml:"workers"`
	FloorTexture  string `yaml:"floor_texture"`
}

func loadFileConfig(path string) (fileConfig, error) {
	var fc fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("reading config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parsing config %q: %w", path, err)
	}
	return fc, nil
}

func parseIllumination(s string) (integrator.IlluminationMode, error) {
	switch s {
	case "", "global":
		return integrator.Global, nil
	case "local":
		return integrator.Local, nil
	default:
		return 0, fmt.Errorf("unknown illumination mode %q (want global or local)", s)
	}
}

func parseSampling(s string) (integrator.SamplingMode, error) {
	switch s {
	case "", "bsdf-and-lights":
		return integrator.BsdfAndLights, nil
	case "bsdf-only":
		return integrator.BsdfOnly, nil
	case "lights-only":
		return integrator.LightsOnly, nil
	case "uniform":
		return integrator.Uniform, nil
	default:
		return 0, fmt.Errorf("unknown sampling mode %q (want bsdf-and-lights, bsdf-only, lights-only or uniform)", s)
	}
}

// mergeOptions applies fc over flag-provided opts wherever fc set a
// non-zero value, then validates the result.
func mergeOptions(opts renderer.RenderOptions, fc fileConfig) (renderer.RenderOptions, error) {
	if fc.Width > 0 {
		opts.Width = fc.Width
	}
	if fc.Height > 0 {
		opts.Height = fc.Height
	}
	if fc.MaxBlockiness > 0 {
		opts.MaxBlockiness = fc.MaxBlockiness
	}
	if fc.Workers > 0 {
		opts.NumWorkers = fc.Workers
	}
	if fc.Illumination != "" {
		mode, err := parseIllumination(fc.Illumination)
		if err != nil {
			return opts, err
		}
		opts.Illumination = mode
	}
	if fc.Sampling != "" {
		mode, err := parseSampling(fc.Sampling)
		if err != nil {
			return opts, err
		}
		opts.Sampling = mode
	}
	return opts, opts.Validate()
}
