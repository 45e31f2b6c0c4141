package renderer

import "math/rand"

// blockyRects enumerates the step×step tiles covering a width×height image
// for one blocky-preview pass (spec.md §4.5 step 1). When prevStep is 0
// this is the first pass and every tile is drawn; otherwise only tiles
// whose top-left corner is not aligned with prevStep are included, so each
// successive pass refines the checkerboard the previous pass left coarse.
func blockyRects(width, height, step, prevStep int) []PixelRect {
	var rects []PixelRect
	for y := 0; y < height; y += step {
		for x := 0; x < width; x += step {
			if prevStep > 0 && x%prevStep == 0 && y%prevStep == 0 {
				continue
			}
			w := step
			if x+w > width {
				w = width - x
			}
			h := step
			if y+h > height {
				h = height - y
			}
			rects = append(rects, PixelRect{X: x, Y: y, W: w, H: h})
		}
	}
	return rects
}

// pixelRects enumerates one 1x1 PixelRect per pixel, the step=1 tiling the
// global progressive passes use (spec.md §4.5 step 2).
func pixelRects(width, height int) []PixelRect {
	rects := make([]PixelRect, 0, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			rects = append(rects, PixelRect{X: x, Y: y, W: 1, H: 1})
		}
	}
	return rects
}

// shuffleRects staggers the visible render order with a coarse RNG
// (spec.md §4.5: "shuffle with a coarse RNG to stagger visible progress");
// this RNG is deliberately separate from any per-worker sampler.Sampler,
// since it only affects display order, never the radiance estimate.
func shuffleRects(rects []PixelRect, rng *rand.Rand) {
	rng.Shuffle(len(rects), func(i, j int) { rects[i], rects[j] = rects[j], rects[i] })
}

// chunkSize implements SPEC_FULL.md §10's resolution of the source's
// literally-inverted partitioning formula: large chunks (at least 1000)
// when there are many pending updates relative to the worker count, and
// single-unit chunks when there are few, so a handful of tiles still
// spreads across every worker instead of piling into one chunk.
func chunkSize(n, workers int) int {
	if workers < 1 {
		workers = 1
	}
	if n >= workers*1000 {
		size := n / workers
		if size < 1000 {
			size = 1000
		}
		return size
	}
	return 1
}

// chunkRects partitions rects into chunks of chunkSize(len(rects), workers)
// contiguous rects each (the final chunk may be shorter).
func chunkRects(rects []PixelRect, workers int) [][]PixelRect {
	if len(rects) == 0 {
		return nil
	}
	size := chunkSize(len(rects), workers)
	var chunks [][]PixelRect
	for i := 0; i < len(rects); i += size {
		end := i + size
		if end > len(rects) {
			end = len(rects)
		}
		chunks = append(chunks, rects[i:end])
	}
	return chunks
}
