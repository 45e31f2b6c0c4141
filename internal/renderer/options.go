// Package renderer implements the progressive scheduler: the blocky-preview
// plus escalating-sample-count pass schedule (spec.md §4.5), its worker pool,
// and the narrow external interface (RenderOptions, RenderUpdate,
// ProgressReport) the UI collaborator polls.
package renderer

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/beamtracer/beam/internal/integrator"
)

// ConfigError wraps a RenderOptions validation failure (spec.md §7:
// "Invalid RenderOptions... surfaced at construction as configuration
// error").
type ConfigError struct {
	err error
}

func (e *ConfigError) Error() string { return e.err.Error() }
func (e *ConfigError) Unwrap() error { return e.err }

func newConfigError(reason string) *ConfigError {
	return &ConfigError{err: fmt.Errorf("renderer: invalid options: %w", errors.New(reason))}
}

// RenderOptions configures a render session (spec.md §6).
type RenderOptions struct {
	Width, Height int
	Illumination  integrator.IlluminationMode
	Sampling      integrator.SamplingMode
	MaxBlockiness int
	NumWorkers    int // 0 means runtime.NumCPU()
}

// DefaultRenderOptions returns the teacher-equivalent sane defaults for a
// quick preview-to-final render: global illumination, combined BSDF+light
// sampling, and an 8px initial blocky step.
func DefaultRenderOptions(width, height int) RenderOptions {
	return RenderOptions{
		Width:         width,
		Height:        height,
		Illumination:  integrator.Global,
		Sampling:      integrator.BsdfAndLights,
		MaxBlockiness: 8,
	}
}

// Validate checks the invariants spec.md §6/§7 require: positive
// dimensions and a power-of-two max_blockiness.
func (o RenderOptions) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return newConfigError("width and height must be positive")
	}
	if o.MaxBlockiness < 2 {
		return newConfigError("max_blockiness must be at least 2")
	}
	if bits.OnesCount(uint(o.MaxBlockiness)) != 1 {
		return newConfigError("max_blockiness must be a power of two")
	}
	return nil
}
