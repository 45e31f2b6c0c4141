// Command beam renders one of the built-in test scenes to a PNG file,
// polling internal/renderer until the render reports complete.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/beamtracer/beam/internal/integrator"
	"github.com/beamtracer/beam/internal/presets"
	"github.com/beamtracer/beam/internal/renderer"
	"github.com/beamtracer/beam/internal/scenegraph"
	"github.com/beamtracer/beam/internal/vec"
)

type cliConfig struct {
	scene         string
	configPath    string
	width         int
	height        int
	illumination  string
	sampling      string
	maxBlockiness int
	workers       int
	output        string
	cloudSize     int
	floorTexture  string
}

func main() {
	cfg := parseFlags()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "beam: could not start logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	if err := run(cfg, sugar); err != nil {
		sugar.Errorw("beam: render failed", "error", err)
		os.Exit(1)
	}
}

func parseFlags() cliConfig {
	var cfg cliConfig
	flag.StringVar(&cfg.scene, "scene", "cornell", "built-in scene: furnace, cornell, veach, sphere-sky, csg-cut-box, sphere-cloud")
	flag.StringVar(&cfg.configPath, "config", "", "optional YAML config file overriding the flags below")
	flag.IntVar(&cfg.width, "width", 400, "image width in pixels")
	flag.IntVar(&cfg.height, "height", 400, "image height in pixels")
	flag.StringVar(&cfg.illumination, "illumination", "global", "illumination mode: global or local")
	flag.StringVar(&cfg.sampling, "sampling", "bsdf-and-lights", "sampling mode: bsdf-and-lights, bsdf-only, lights-only, or uniform")
	flag.IntVar(&cfg.maxBlockiness, "max-blockiness", 8, "initial blocky preview tile size (power of two)")
	flag.IntVar(&cfg.workers, "workers", 0, "number of parallel workers (0 = auto-detect CPU count)")
	flag.StringVar(&cfg.output, "output", "", "output PNG path (default: output/<scene>.png)")
	flag.IntVar(&cfg.cloudSize, "cloud-size", 400, "sphere count for the sphere-cloud scene")
	flag.StringVar(&cfg.floorTexture, "floor-texture", "", "image file (PNG etc.) to map onto the cornell scene's floor instead of plain white")
	flag.Parse()
	return cfg
}

func run(cfg cliConfig, logger *zap.SugaredLogger) error {
	illumination, err := parseIllumination(cfg.illumination)
	if err != nil {
		return err
	}
	sampling, err := parseSampling(cfg.sampling)
	if err != nil {
		return err
	}

	opts := renderer.RenderOptions{
		Width:         cfg.width,
		Height:        cfg.height,
		Illumination:  illumination,
		Sampling:      sampling,
		MaxBlockiness: cfg.maxBlockiness,
		NumWorkers:    cfg.workers,
	}

	floorTexture := cfg.floorTexture
	if cfg.configPath != "" {
		fc, err := loadFileConfig(cfg.configPath)
		if err != nil {
			return err
		}
		opts, err = mergeOptions(opts, fc)
		if err != nil {
			return err
		}
		if fc.Scene != "" {
			cfg.scene = fc.Scene
		}
		if fc.FloorTexture != "" {
			floorTexture = fc.FloorTexture
		}
	} else if err := opts.Validate(); err != nil {
		return err
	}

	scene, err := buildScene(cfg.scene, opts.Width, opts.Height, cfg.cloudSize, floorTexture)
	if err != nil {
		return err
	}

	logger.Infow("beam: starting render", "scene", cfg.scene, "width", opts.Width, "height", opts.Height,
		"illumination", cfg.illumination, "sampling", cfg.sampling)

	r, err := renderer.New(opts, scene, logger)
	if err != nil {
		return err
	}
	defer r.Close()

	img, final, err := waitForCompletion(r, opts.Width, opts.Height)
	if err != nil {
		return err
	}

	outputPath := cfg.output
	if outputPath == "" {
		outputPath = filepath.Join("output", cfg.scene+".png")
	}
	if err := saveImage(img, outputPath); err != nil {
		return err
	}

	logger.Infow("beam: render complete", "output", outputPath, "total_duration", final.Progress.TotalDuration,
		"num_rays", final.Progress.Stats.NumRays)
	return nil
}

// buildScene constructs the named preset scene. floorTexture, if non-empty,
// names an image file to decode and map onto the cornell scene's floor in
// place of its default plain white diffuse texture; it is ignored by every
// other scene.
func buildScene(name string, width, height, cloudSize int, floorTexture string) (*scenegraph.Scene, error) {
	switch name {
	case "furnace":
		return presets.Furnace(width, height), nil
	case "cornell":
		if floorTexture == "" {
			return presets.Cornell(width, height), nil
		}
		img, err := loadImage(floorTexture)
		if err != nil {
			return nil, fmt.Errorf("loading floor texture %q: %w", floorTexture, err)
		}
		return presets.CornellWithFloorTexture(width, height, img), nil
	case "veach":
		return presets.Veach(width, height), nil
	case "sphere-sky":
		return presets.SingleSphereSky(width, height), nil
	case "csg-cut-box":
		return presets.CSGCutBox(width, height), nil
	case "sphere-cloud":
		return presets.SphereCloud(width, height, cloudSize), nil
	default:
		return nil, fmt.Errorf("unknown scene %q", name)
	}
}

// loadImage opens and decodes path using the format registered by the
// image/png import above (image.Decode dispatches on the file's own magic
// bytes, not the extension).
func loadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// waitForCompletion polls GetUpdate until the Complete update arrives,
// sleeping briefly between empty polls rather than busy-spinning. Each
// update only carries the tile rects the scheduler actually drained that
// pass (spec.md §4.5), so the image accumulates progressively across
// every update rather than arriving whole in the final one.
func waitForCompletion(r *renderer.Renderer, width, height int) (*image.RGBA, renderer.RenderUpdate, error) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for {
		update, ok := r.GetUpdate()
		if !ok {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		applyUpdate(img, update)
		if update.Complete {
			return img, update, nil
		}
	}
}

// applyUpdate paints update's tiles onto img, each rect filled with its
// reported color (a blocky-preview tile's real W,H, or a single pixel).
func applyUpdate(img *image.RGBA, update renderer.RenderUpdate) {
	for _, p := range update.Pixels {
		c := imageColor(p.Color)
		for y := p.Rect.Y; y < p.Rect.Y+p.Rect.H; y++ {
			for x := p.Rect.X; x < p.Rect.X+p.Rect.W; x++ {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

func saveImage(img image.Image, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer file.Close()

	return png.Encode(file, img)
}

func imageColor(c vec.RGBA8) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
