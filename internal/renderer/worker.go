package renderer

import (
	"time"

	"github.com/beamtracer/beam/internal/integrator"
	"github.com/beamtracer/beam/internal/sampler"
	"github.com/beamtracer/beam/internal/scenegraph"
	"github.com/beamtracer/beam/internal/vec"
)

// renderChunk renders every PixelRect in chunk and reports the result a
// worker sends back over the result channel (spec.md §4.5's "each worker
// owns a seeded Sampler, iterates its chunks, renders each PixelRect").
//
// preview selects the blocky-preview behavior: a single local_shading
// sample at the rect's center, broadcast to every pixel the rect spans.
// Otherwise every rect is a single pixel and samplesPerPixel new jittered
// global samples are drawn and summed for it.
func renderChunk(
	scene *scenegraph.Scene,
	width, height int,
	chunk []PixelRect,
	preview bool,
	opts integrator.Options,
	samplesPerPixel int,
	rnd *sampler.Sampler,
	stats *scenegraph.SceneSampleStats,
) sampleResult {
	start := time.Now()
	pixels := make([]renderedPixel, 0, len(chunk))
	tiles := make([]PixelRect, 0, len(chunk))
	samplesAdded := 0

	for _, rect := range chunk {
		tiles = append(tiles, rect)
		if preview {
			cx := rect.X + rect.W/2
			cy := rect.Y + rect.H/2
			color := samplePixel(scene, width, height, cx, cy, 0.5, 0.5, stats)
			for y := rect.Y; y < rect.Y+rect.H; y++ {
				for x := rect.X; x < rect.X+rect.W; x++ {
					pixels = append(pixels, renderedPixel{x: x, y: y, preview: true, radianceSum: color})
				}
			}
			samplesAdded++
			continue
		}

		var sum vec.LinearRGB
		for s := 0; s < samplesPerPixel; s++ {
			jx, jy := rnd.Uniform2D()
			color := sampleJitteredPixel(scene, width, height, rect.X, rect.Y, jx, jy, opts, rnd, stats)
			sum = sum.Add(color)
		}
		pixels = append(pixels, renderedPixel{x: rect.X, y: rect.Y, radianceSum: sum, samplesAdded: samplesPerPixel})
		samplesAdded += samplesPerPixel
	}

	return sampleResult{pixels: pixels, tiles: tiles, duration: time.Since(start), samplesAdded: samplesAdded}
}

// samplePixel traces a single local_shading preview ray through pixel
// (x,y) offset by (jx,jy) within the pixel.
func samplePixel(scene *scenegraph.Scene, width, height, x, y int, jx, jy vec.Scalar, stats *scenegraph.SceneSampleStats) vec.LinearRGB {
	ray := primaryRay(scene, width, height, x, y, jx, jy)
	hit, found := scene.TraceClosest(ray, vec.FullRange(), stats)
	if !found {
		return scene.BackgroundColor()
	}
	return integrator.LocalShading(ray, hit, scene)
}

// sampleJitteredPixel traces one full Radiance sample through pixel (x,y)
// with subpixel jitter (jx,jy), both in [0,1) (spec.md §4.5's "two
// uniform draws per sample").
func sampleJitteredPixel(scene *scenegraph.Scene, width, height, x, y int, jx, jy vec.Scalar, opts integrator.Options, rnd *sampler.Sampler, stats *scenegraph.SceneSampleStats) vec.LinearRGB {
	ray := primaryRay(scene, width, height, x, y, jx, jy)
	return integrator.Radiance(ray, scene, opts, rnd, stats, 0)
}

// primaryRay maps pixel (x,y) plus a subpixel offset in [0,1) to the
// camera's normalized image coordinates. Image row 0 is the top row, while
// Camera.RayAt's v=0 is the bottom of the frustum, so v is flipped.
func primaryRay(scene *scenegraph.Scene, width, height, x, y int, jx, jy vec.Scalar) vec.Ray {
	u := (vec.Scalar(x) + jx) / vec.Scalar(width)
	v := 1 - (vec.Scalar(y)+jy)/vec.Scalar(height)
	return scene.Camera.RayAt(u, v)
}
