package renderer

import (
	"time"

	"github.com/google/uuid"

	"github.com/beamtracer/beam/internal/scenegraph"
	"github.com/beamtracer/beam/internal/vec"
)

// PixelRect is a rectangular tile of pixels, inclusive of (X,Y) and
// exclusive of (X+W, Y+H) (spec.md §6).
type PixelRect struct {
	X, Y, W, H int
}

// PixelUpdate carries a tile's current display color, read from the
// accumulator when the scheduler builds the update for a finished pass
// (spec.md §6).
type PixelUpdate struct {
	Rect  PixelRect
	Color vec.RGBA8
}

// RenderUpdate is one batch of progress the scheduler hands the UI
// collaborator per finished pass, plus one final update with Complete set
// (spec.md §6).
type RenderUpdate struct {
	Progress ProgressReport
	Complete bool
	Pixels   []PixelUpdate
}

// ProgressReport summarizes a render session's progress so far (spec.md
// §6), additionally carrying a SessionID for log correlation (SPEC_FULL.md
// §7) — additive and ignorable by callers that don't need it.
type ProgressReport struct {
	SessionID            uuid.UUID
	Action               string
	TotalDuration         time.Duration
	AvgDurationPerSample  time.Duration
	Stats                 scenegraph.SceneSampleStats
}

// sampleResult is what a worker sends back over the result channel: the
// rendered pixels of one chunk plus how long the chunk took (spec.md
// §4.5's SampleResult{pixels, duration}). tiles preserves the original
// dispatched PixelRects (a blocky-preview tile's real W,H, or a single
// pixel's 1x1 rect for a global/local pass) so the scheduler can report
// progress at the granularity it actually rendered, instead of re-deriving
// rects from the flattened per-pixel list.
type sampleResult struct {
	pixels       []renderedPixel
	tiles        []PixelRect
	duration     time.Duration
	samplesAdded int // total samples drawn across every pixel in this chunk
}

// renderedPixel is one pixel's worth of freshly-computed contribution. A
// preview pixel carries a single local_shading color that overwrites the
// accumulator's preview slot; a non-preview pixel carries the sum of
// samplesAdded new global samples to fold into the running average.
type renderedPixel struct {
	x, y         int
	preview      bool
	radianceSum  vec.LinearRGB
	samplesAdded int
}
