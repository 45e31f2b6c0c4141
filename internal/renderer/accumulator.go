package renderer

import "github.com/beamtracer/beam/internal/vec"

// accumulator holds the render session's per-pixel state (spec.md §4.5's
// "flat grid of accumulated LinearRGB radiance per pixel"): a running
// radiance sum and sample count for the global progressive passes, plus a
// one-shot preview color written by the blocky pass. A pixel that has
// received at least one global sample always displays its global average;
// the preview color is only ever shown before that happens, since mixing
// local_shading's ambient+Phong estimate into the physically-based
// accumulator would bias convergence.
type accumulator struct {
	width, height int
	radianceSum   []vec.LinearRGB
	sampleCount   []int
	previewColor  []vec.LinearRGB
	hasPreview    []bool
}

func newAccumulator(width, height int) *accumulator {
	n := width * height
	return &accumulator{
		width:        width,
		height:       height,
		radianceSum:  make([]vec.LinearRGB, n),
		sampleCount:  make([]int, n),
		previewColor: make([]vec.LinearRGB, n),
		hasPreview:   make([]bool, n),
	}
}

func (a *accumulator) index(x, y int) int { return y*a.width + x }

// addGlobalSamples folds n newly-drawn samples whose radiance summed to
// sum into the running accumulator for pixel (x,y).
func (a *accumulator) addGlobalSamples(x, y int, sum vec.LinearRGB, n int) {
	i := a.index(x, y)
	a.radianceSum[i] = a.radianceSum[i].Add(sum)
	a.sampleCount[i] += n
}

func (a *accumulator) setPreview(x, y int, color vec.LinearRGB) {
	i := a.index(x, y)
	a.previewColor[i] = color
	a.hasPreview[i] = true
}

// globalSampleCount reports how many global samples a pixel already has,
// used to compute the difference against the escalating sample schedule.
func (a *accumulator) globalSampleCount(x, y int) int {
	return a.sampleCount[a.index(x, y)]
}

// displayColor converts a pixel's current state to the sRGB8 tuple the UI
// renders (spec.md §4.6): the running global average if any samples have
// landed, otherwise the blocky preview color, otherwise black.
func (a *accumulator) displayColor(x, y int) vec.RGBA8 {
	i := a.index(x, y)
	if a.sampleCount[i] > 0 {
		mean := a.radianceSum[i].Scale(1.0 / float64(a.sampleCount[i]))
		return mean.ToRGBA8()
	}
	if a.hasPreview[i] {
		return a.previewColor[i].ToRGBA8()
	}
	return vec.RGBA8{A: 255}
}
