package renderer

import (
	"context"
	"math/rand"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/beamtracer/beam/internal/integrator"
	"github.com/beamtracer/beam/internal/sampler"
	"github.com/beamtracer/beam/internal/scenegraph"
)

// globalSampleSchedule is spec.md §4.5's escalating cumulative
// samples-per-pixel target for the progressive Global passes.
var globalSampleSchedule = []int{1, 8, 32, 128, 512, 2048}

// Renderer runs a render session's background scheduler goroutine and
// publishes progress through GetUpdate (spec.md §4.5/§6). The zero value
// is not usable; construct with New.
type Renderer struct {
	sessionID uuid.UUID
	logger    *zap.SugaredLogger
	updates   chan RenderUpdate
	cancel    context.CancelFunc
	done      chan struct{}
	stats     *scenegraph.SceneSampleStats
}

// New validates opts, then starts the background scheduler over scene and
// returns a handle to poll for progress. Call Close to cancel and join —
// the Go analog of spec.md's "dropping the Renderer handle" (spec.md §4.5
// cancellation, SPEC_FULL.md §6).
func New(opts RenderOptions, scene *scenegraph.Scene, logger *zap.SugaredLogger) (*Renderer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &Renderer{
		sessionID: uuid.New(),
		logger:    logger,
		updates:   make(chan RenderUpdate, 256),
		cancel:    cancel,
		done:      make(chan struct{}),
		stats:     &scenegraph.SceneSampleStats{},
	}

	go r.run(ctx, opts, scene)
	return r, nil
}

// GetUpdate is a non-blocking poll for the next batch of progress (spec.md
// §6's Renderer::get_update).
func (r *Renderer) GetUpdate() (RenderUpdate, bool) {
	select {
	case u, ok := <-r.updates:
		return u, ok
	default:
		return RenderUpdate{}, false
	}
}

// Close cancels the render session and blocks until the scheduler and
// every worker goroutine have exited (spec.md §4.5: "must be prompt... and
// must not leak threads").
func (r *Renderer) Close() {
	r.cancel()
	<-r.done
}

func (r *Renderer) numWorkers(opts RenderOptions) int {
	if opts.NumWorkers > 0 {
		return opts.NumWorkers
	}
	return runtime.NumCPU()
}

func (r *Renderer) run(ctx context.Context, opts RenderOptions, scene *scenegraph.Scene) {
	defer close(r.done)
	defer close(r.updates)

	startTime := time.Now()
	acc := newAccumulator(opts.Width, opts.Height)
	workers := r.numWorkers(opts)
	pass := 0

	if !r.runBlockyPreview(ctx, opts, scene, acc, workers, &pass, startTime) {
		return
	}
	if ctx.Err() != nil {
		return
	}

	if opts.Illumination == integrator.Global {
		if !r.runGlobalPasses(ctx, opts, scene, acc, workers, &pass, startTime) {
			return
		}
	} else {
		if !r.runFinalLocalPass(ctx, opts, scene, acc, workers, &pass, startTime) {
			return
		}
	}

	if ctx.Err() != nil {
		return
	}
	r.emitUpdate(acc, "complete", startTime, sampleResult{}, true)
}

// runBlockyPreview implements spec.md §4.5 step 1: step halves from
// max_blockiness down to 2 inclusive, each pass drawing only the tiles
// newly uncovered by the refined checkerboard, always under Local
// illumination regardless of opts.Illumination.
func (r *Renderer) runBlockyPreview(ctx context.Context, opts RenderOptions, scene *scenegraph.Scene, acc *accumulator, workers int, pass *int, startTime time.Time) bool {
	prevStep := 0
	for step := opts.MaxBlockiness; step >= 2; step /= 2 {
		if ctx.Err() != nil {
			return false
		}
		rects := blockyRects(opts.Width, opts.Height, step, prevStep)
		r.logger.Infow("renderer: pass", "pass", *pass, "step", step, "workers", workers, "kind", "preview", "tiles", len(rects))

		res, err := r.runPass(ctx, scene, opts, acc, rects, true, 1, workers, *pass)
		if err != nil {
			return false
		}
		r.emitUpdate(acc, "preview", startTime, res, false)

		prevStep = step
		*pass++
	}
	return true
}

// runGlobalPasses implements spec.md §4.5 step 2: the escalating
// cumulative sample schedule at step=1, illumination_mode=Global.
func (r *Renderer) runGlobalPasses(ctx context.Context, opts RenderOptions, scene *scenegraph.Scene, acc *accumulator, workers int, pass *int, startTime time.Time) bool {
	intOpts := integrator.Options{Sampling: opts.Sampling, Heuristic: integrator.Power}
	for _, target := range globalSampleSchedule {
		if ctx.Err() != nil {
			return false
		}
		already := acc.globalSampleCount(0, 0)
		newSamples := target - already
		if newSamples <= 0 {
			continue
		}
		rects := pixelRects(opts.Width, opts.Height)
		r.logger.Infow("renderer: pass", "pass", *pass, "step", 1, "workers", workers, "kind", "global", "target", target, "newSamples", newSamples)

		res, err := r.runGlobalPass(ctx, scene, intOpts, acc, rects, newSamples, workers, *pass)
		if err != nil {
			return false
		}
		r.emitUpdate(acc, "global", startTime, res, false)
		*pass++
	}
	return true
}

// runFinalLocalPass gives illumination_mode=Local its own step=1 pass,
// local_shading evaluated once per pixel with no progressive refinement
// (the deterministic Local model has nothing to gain from resampling).
func (r *Renderer) runFinalLocalPass(ctx context.Context, opts RenderOptions, scene *scenegraph.Scene, acc *accumulator, workers int, pass *int, startTime time.Time) bool {
	if ctx.Err() != nil {
		return false
	}
	rects := pixelRects(opts.Width, opts.Height)
	r.logger.Infow("renderer: pass", "pass", *pass, "step", 1, "workers", workers, "kind", "preview-final", "tiles", len(rects))

	res, err := r.runPass(ctx, scene, opts, acc, rects, true, 1, workers, *pass)
	if err != nil {
		return false
	}
	r.emitUpdate(acc, "preview-final", startTime, res, false)
	*pass++
	return true
}

// runPass spreads a preview (local_shading) pass's rects across workers
// and drains their results.
func (r *Renderer) runPass(ctx context.Context, scene *scenegraph.Scene, opts RenderOptions, acc *accumulator, rects []PixelRect, preview bool, samplesPerPixel int, workers int, passIndex int) (sampleResult, error) {
	intOpts := integrator.Options{Sampling: opts.Sampling, Heuristic: integrator.Power}
	return r.dispatch(ctx, scene, intOpts, acc, rects, preview, samplesPerPixel, workers, passIndex)
}

// runGlobalPass is runPass's Global counterpart, taking already-built
// integrator.Options instead of deriving them from RenderOptions.
func (r *Renderer) runGlobalPass(ctx context.Context, scene *scenegraph.Scene, intOpts integrator.Options, acc *accumulator, rects []PixelRect, samplesPerPixel int, workers int, passIndex int) (sampleResult, error) {
	return r.dispatch(ctx, scene, intOpts, acc, rects, false, samplesPerPixel, workers, passIndex)
}

// dispatch shuffles and chunks rects, spawns workers worker goroutines
// under an errgroup bound to ctx, feeds them chunks over a bounded task
// channel, and folds every sampleResult into acc as it arrives (spec.md
// §4.5's producer/N-workers parallelism model; SPEC_FULL.md §6's
// errgroup-based lifetime).
func (r *Renderer) dispatch(ctx context.Context, scene *scenegraph.Scene, intOpts integrator.Options, acc *accumulator, rects []PixelRect, preview bool, samplesPerPixel int, workers int, passIndex int) (sampleResult, error) {
	total := sampleResult{}
	if len(rects) == 0 {
		return total, nil
	}

	shuffleRng := rand.New(rand.NewSource(int64(passIndex) + 1))
	shuffled := append([]PixelRect(nil), rects...)
	shuffleRects(shuffled, shuffleRng)
	chunks := chunkRects(shuffled, workers)

	taskCh := make(chan []PixelRect, len(chunks))
	for _, c := range chunks {
		taskCh <- c
	}
	close(taskCh)

	resultCh := make(chan sampleResult, workers)
	g, gctx := errgroup.WithContext(ctx)

	for w := 0; w < workers; w++ {
		workerID := w
		g.Go(func() error {
			seed := int64(passIndex)*1_000_003 + int64(workerID) + 1
			rnd := sampler.New(seed)
			for {
				select {
				case <-gctx.Done():
					return gctx.Err()
				case chunk, ok := <-taskCh:
					if !ok {
						return nil
					}
					res := renderChunk(scene, acc.width, acc.height, chunk, preview, intOpts, samplesPerPixel, rnd, r.stats)
					select {
					case resultCh <- res:
					case <-gctx.Done():
						return gctx.Err()
					}
				}
			}
		})
	}

	go func() {
		g.Wait()
		close(resultCh)
	}()

	for res := range resultCh {
		for _, p := range res.pixels {
			if p.preview {
				acc.setPreview(p.x, p.y, p.radianceSum)
			} else {
				acc.addGlobalSamples(p.x, p.y, p.radianceSum, p.samplesAdded)
			}
		}
		total.pixels = append(total.pixels, res.pixels...)
		total.tiles = append(total.tiles, res.tiles...)
		total.samplesAdded += res.samplesAdded
		total.duration += res.duration
	}

	if err := g.Wait(); err != nil {
		return total, err
	}
	return total, nil
}

// emitUpdate converts the tile rects actually dispatched this pass (res's
// tiles — a blocky-preview tile's real W,H, or a single pixel's 1x1 rect
// for a global/local pass) into a RenderUpdate and forwards it to
// r.updates without blocking (spec.md §4.5: "drain the channel... forward
// a RenderUpdate per pass from the just-drained SampleResult{pixels,
// duration}"); a full buffer drops the update rather than stalling the
// scheduler, matching the teacher's tile-callback channel-full handling.
// Each tile's color is read back from acc, which dispatch has already
// folded res's pixels into, so it reflects the tile's post-fold display
// color rather than a raw, unaveraged sample.
func (r *Renderer) emitUpdate(acc *accumulator, action string, startTime time.Time, res sampleResult, complete bool) {
	pixels := make([]PixelUpdate, 0, len(res.tiles))
	for _, rect := range res.tiles {
		pixels = append(pixels, PixelUpdate{Rect: rect, Color: acc.displayColor(rect.X, rect.Y)})
	}

	total := time.Since(startTime)
	var avgPerSample time.Duration
	if res.samplesAdded > 0 {
		avgPerSample = total / time.Duration(res.samplesAdded)
	}

	update := RenderUpdate{
		Progress: ProgressReport{
			SessionID:            r.sessionID,
			Action:                action,
			TotalDuration:         total,
			AvgDurationPerSample:  avgPerSample,
			Stats:                 *r.stats,
		},
		Complete: complete,
		Pixels:   pixels,
	}

	select {
	case r.updates <- update:
	default:
	}
}
