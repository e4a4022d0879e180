package renderer

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/golang/glog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/harrycollin/simple-raytracer/pkg/core"
	"github.com/harrycollin/simple-raytracer/pkg/integrator"
	"github.com/harrycollin/simple-raytracer/pkg/metrics"
	"github.com/harrycollin/simple-raytracer/pkg/scene"
)

// GlogLogger implements core.Logger by writing to glog's INFO log
type GlogLogger struct{}

func (gl *GlogLogger) Printf(format string, args ...interface{}) {
	glog.InfoDepth(1, fmt.Sprintf(format, args...))
}

// NewGlogLogger creates a new glog-backed logger
func NewGlogLogger() core.Logger {
	return &GlogLogger{}
}

// Config contains configuration for progressive rendering
type Config struct {
	Name       string            // Scene name used to tag metrics
	Width      int               // Image width in pixels
	Height     int               // Image height in pixels
	Samples    int               // Sample budget; one pass renders one sample per pixel
	TileSize   int               // Size of each tile (64x64 recommended)
	NumWorkers int               // Number of parallel workers (0 = use CPU count)
	Seed       int64             // Base seed; tile i samples from Seed+i
	Integrator integrator.Config // Path termination policy
	Display    DisplayConfig     // Tone mapping and gamma
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Name:       "default",
		Width:      1000,
		Height:     1000,
		Samples:    200,
		TileSize:   64,
		NumWorkers: 0, // Auto-detect CPU count
		Seed:       42,
		Integrator: integrator.DefaultConfig(),
		Display:    DefaultDisplayConfig(),
	}
}

// ConfigForScene returns DefaultConfig with the size, budget and bounce
// count the scene suggests. Unset (zero) scene fields keep the defaults.
func ConfigForScene(name string, s *scene.Scene) Config {
	config := DefaultConfig()
	config.Name = name

	sc := s.SamplingConfig
	if sc.Width > 0 {
		config.Width = sc.Width
	}
	if sc.Height > 0 {
		config.Height = sc.Height
	}
	if sc.SamplesPerPixel > 0 {
		config.Samples = sc.SamplesPerPixel
	}
	if sc.MaxBounces > 0 {
		config.Integrator.MaxBounces = sc.MaxBounces
	}
	return config
}

// Validate reports the first invalid field
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return core.NewConfigError("resolution", "must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.Samples < 1 {
		return core.NewConfigError("samples", "must be at least 1, got %d", c.Samples)
	}
	if c.TileSize <= 0 {
		return core.NewConfigError("tile size", "must be positive, got %d", c.TileSize)
	}
	if c.NumWorkers < 0 {
		return core.NewConfigError("workers", "must not be negative, got %d", c.NumWorkers)
	}
	if c.Integrator.MaxBounces < 0 {
		return core.NewConfigError("max bounces", "must not be negative, got %d", c.Integrator.MaxBounces)
	}
	if c.Integrator.Epsilon < 0 {
		return core.NewConfigError("epsilon", "must not be negative, got %g", c.Integrator.Epsilon)
	}
	return c.Display.Validate()
}

// PassResult contains the result of a single pass
type PassResult struct {
	SampleIndex  int         // Samples accumulated so far (1-based)
	SampleBudget int         // Total samples this render will take
	Image        *image.RGBA // Displayable average of every pass so far
	Averaged     *Buffer     // Linear average the image was produced from
	Stats        RenderStats // Counters for this pass
	IsLast       bool        // No further passes follow
}

// ProgressiveRaytracer accumulates one sample per pixel per pass and
// publishes the running average after every pass.
type ProgressiveRaytracer struct {
	scene        *scene.Scene
	config       Config
	tiles        []*Tile
	accumulation *Buffer // Running sum, touched only between passes
	samples      int     // Passes folded into accumulation
	workerPool   *WorkerPool
	logger       core.Logger

	// passMu serialises passes against Close
	passMu sync.Mutex
	closed bool
}

// NewProgressiveRaytracer validates the scene and config and prepares a render.
// Nothing is traced until the first pass.
func NewProgressiveRaytracer(sc *scene.Scene, config Config, logger core.Logger) (*ProgressiveRaytracer, error) {
	if sc == nil {
		return nil, core.NewConfigError("scene", "must not be nil")
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("while validating scene: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("while validating render config: %w", err)
	}
	if logger == nil {
		logger = NewGlogLogger()
	}

	tiles := NewTileGrid(config.Width, config.Height, config.TileSize, config.Seed)
	tileRenderer := NewTileRenderer(sc, integrator.NewReflectiveIntegrator(config.Integrator), config.Width, config.Height)

	return &ProgressiveRaytracer{
		scene:        sc,
		config:       config,
		tiles:        tiles,
		accumulation: NewBuffer(config.Width, config.Height),
		workerPool:   NewWorkerPool(tileRenderer, len(tiles), config.NumWorkers),
		logger:       logger,
	}, nil
}

// Config returns the validated render configuration
func (pr *ProgressiveRaytracer) Config() Config {
	return pr.config
}

// SampleCount returns the number of passes accumulated so far
func (pr *ProgressiveRaytracer) SampleCount() int {
	return pr.samples
}

// Accumulation exposes the running sum. Callers must not modify it.
func (pr *ProgressiveRaytracer) Accumulation() *Buffer {
	return pr.accumulation
}

// Reset clears the accumulation buffer and re-seeds every tile
func (pr *ProgressiveRaytracer) Reset() {
	pr.accumulation.Clear()
	pr.samples = 0
	for _, tile := range pr.tiles {
		tile.Reset(pr.config.Seed)
	}
}

// Close stops the worker pool. The raytracer cannot render afterwards.
// A pass in flight finishes first. Close may be called from any goroutine.
func (pr *ProgressiveRaytracer) Close() {
	pr.passMu.Lock()
	defer pr.passMu.Unlock()

	pr.closed = true
	pr.workerPool.Stop()
}

// RenderPass renders sample sampleIndex for every pixel into a fresh frame
// buffer, waits for every tile, and folds the frame into the accumulation.
// Passes must be rendered in order starting at 1.
func (pr *ProgressiveRaytracer) RenderPass(ctx context.Context, sampleIndex int) (*Buffer, RenderStats, error) {
	tracer := otel.Tracer("simple-raytracer/renderer")
	var span trace.Span
	ctx, span = tracer.Start(ctx, "ProgressiveRaytracer.RenderPass")
	defer span.End()

	span.SetAttributes(attribute.Int64("sample", int64(sampleIndex)))

	fail := func(err error) (*Buffer, RenderStats, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, RenderStats{}, err
	}

	pr.passMu.Lock()
	defer pr.passMu.Unlock()

	if pr.closed {
		return fail(fmt.Errorf("raytracer is closed"))
	}
	if sampleIndex != pr.samples+1 {
		return fail(fmt.Errorf("sample %d out of order, expected %d", sampleIndex, pr.samples+1))
	}

	startTime := time.Now()
	pr.workerPool.Start()

	frame := NewBuffer(pr.config.Width, pr.config.Height)
	for taskID, tile := range pr.tiles {
		pr.workerPool.SubmitTask(TileTask{
			Tile:        tile,
			SampleIndex: sampleIndex,
			TaskID:      taskID,
			Frame:       frame,
		})
	}

	// Barrier: every tile must land before the frame is accumulated
	stats := RenderStats{SampleIndex: sampleIndex}
	for range pr.tiles {
		result, ok := pr.workerPool.GetResult()
		if !ok {
			return fail(fmt.Errorf("worker pool closed unexpectedly"))
		}
		pr.tiles[result.TaskID].PassesCompleted++
		stats.Merge(result.Stats)
	}

	if err := pr.accumulation.Accumulate(frame); err != nil {
		return fail(fmt.Errorf("while accumulating sample %d: %w", sampleIndex, err))
	}
	pr.samples = sampleIndex
	stats.Duration = time.Since(startTime)

	metrics.RecordPass(ctx, pr.config.Name, stats.Duration, stats.PrimaryRays)
	span.SetAttributes(attribute.Int64("primary_rays", int64(stats.PrimaryRays)))
	span.SetStatus(codes.Ok, "")

	return frame, stats, nil
}

// Snapshot averages the accumulation over the passes rendered so far and
// converts it for display.
func (pr *ProgressiveRaytracer) Snapshot() (*Buffer, *image.RGBA, error) {
	averaged, err := pr.accumulation.Average(pr.samples)
	if err != nil {
		return nil, nil, fmt.Errorf("while averaging accumulation: %w", err)
	}
	img, err := Display(averaged, pr.config.Display)
	if err != nil {
		return nil, nil, fmt.Errorf("while converting for display: %w", err)
	}
	return averaged, img, nil
}

// RenderProgressive renders the whole sample budget on a background goroutine.
// Each pass is handed over on the unbuffered pass channel, so the renderer
// waits for the consumer between passes. The error channel receives at most
// one error and is closed when rendering stops. The worker pool is stopped
// once rendering ends.
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context) (<-chan PassResult, <-chan error) {
	passChan := make(chan PassResult)
	errChan := make(chan error, 1)

	go func() {
		defer close(passChan)
		defer close(errChan)
		defer pr.Close()

		pr.Reset()
		budget := pr.config.Samples

		pr.logger.Printf("Starting progressive rendering of %dx%d with %d samples (using %d workers)...\n",
			pr.config.Width, pr.config.Height, budget, pr.workerPool.GetNumWorkers())

		for sample := 1; sample <= budget; sample++ {
			// Check if the caller gave up before starting this pass
			select {
			case <-ctx.Done():
				pr.logger.Printf("Rendering cancelled before sample %d\n", sample)
				errChan <- ctx.Err()
				return
			default:
			}

			_, stats, err := pr.RenderPass(ctx, sample)
			if err != nil {
				errChan <- fmt.Errorf("while rendering sample %d: %w", sample, err)
				return
			}

			averaged, img, err := pr.Snapshot()
			if err != nil {
				errChan <- err
				return
			}

			pr.logger.Printf("Rendered sample %d/%d\n", sample, budget)

			result := PassResult{
				SampleIndex:  sample,
				SampleBudget: budget,
				Image:        img,
				Averaged:     averaged,
				Stats:        stats,
				IsLast:       sample == budget,
			}

			select {
			case passChan <- result:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}
		}

		pr.logger.Printf("Rendering complete\n")
	}()

	return passChan, errChan
}

// Render drives RenderProgressive to completion, presenting every pass to
// sink. A sink error cancels the render and is returned.
func (pr *ProgressiveRaytracer) Render(ctx context.Context, sink Sink) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	passes, errs := pr.RenderProgressive(ctx)

	var sinkErr error
	for pass := range passes {
		if sinkErr != nil {
			continue
		}
		if err := sink.Present(ctx, pass); err != nil {
			sinkErr = fmt.Errorf("while presenting sample %d: %w", pass.SampleIndex, err)
			cancel()
		}
	}

	renderErr := <-errs
	if sinkErr != nil {
		return sinkErr
	}
	return renderErr
}

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID              int             // Unique tile identifier
	Bounds          image.Rectangle // Pixel bounds (x0,y0,x1,y1)
	PassesCompleted int             // Number of passes completed for this tile
	Sampler         core.Sampler    // Tile-specific sampler for deterministic results
}

// NewTile creates a new tile whose sampler is seeded from seed+id
func NewTile(id int, bounds image.Rectangle, seed int64) *Tile {
	return &Tile{
		ID:      id,
		Bounds:  bounds,
		Sampler: core.NewSeededSampler(seed + int64(id)),
	}
}

// Reset re-seeds the tile's sampler and clears its pass count
func (t *Tile) Reset(seed int64) {
	t.PassesCompleted = 0
	t.Sampler = core.NewSeededSampler(seed + int64(t.ID))
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int, seed int64) []*Tile {
	var tiles []*Tile
	tileID := 0

	// Calculate number of tiles in each dimension
	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width) // Don't exceed image bounds
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, NewTile(tileID, image.Rect(x0, y0, x1, y1), seed))
			tileID++
		}
	}

	return tiles
}
