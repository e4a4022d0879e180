// simple-raytracer renders a scene of reflective spheres progressively,
// one sample per pixel per pass, and writes the running average to disk.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"cloud.google.com/go/storage"
	"github.com/golang/glog"
	"go.opencensus.io/stats/view"

	"github.com/harrycollin/simple-raytracer/pkg/core"
	"github.com/harrycollin/simple-raytracer/pkg/metrics"
	"github.com/harrycollin/simple-raytracer/pkg/output"
	"github.com/harrycollin/simple-raytracer/pkg/renderer"
	"github.com/harrycollin/simple-raytracer/pkg/scene"
)

var (
	sceneID = flag.String("scene", "default", "Built-in scene to render.")
	width   = flag.Int("width", 0, "Image width in pixels. 0 uses the scene's width.")
	height  = flag.Int("height", 0, "Image height in pixels. 0 uses the scene's height.")
	samples = flag.Int("samples", 0, "Sample budget. 0 uses the scene's budget.")

	workers  = flag.Int("workers", 0, "Parallel tile workers. 0 uses the CPU count.")
	tileSize = flag.Int("tile-size", 64, "Tile edge length in pixels.")
	seed     = flag.Int64("seed", 42, "Base seed for the per-tile samplers.")
	gamma    = flag.Float64("gamma", 2.2, "Display gamma.")
	toneMap  = flag.Bool("tonemap", true, "Tone map with c/(1+c) before gamma encoding. Disable to clamp instead.")

	outputDir = flag.String("output-dir", "output", "Directory for PNG snapshots; a subdirectory per scene is created.")
	saveEvery = flag.Int("save-every", 0, "Also keep every Nth pass. The final pass is always kept.")
	gcsBucket = flag.String("gcs-bucket", "", "If set, upload kept passes to this GCS bucket.")
	gcsPrefix = flag.String("gcs-prefix", "renders", "Object name prefix inside the GCS bucket.")
)

// options collects the flags so a render can be driven without the flag package
type options struct {
	SceneID   string
	Width     int
	Height    int
	Samples   int
	Workers   int
	TileSize  int
	Seed      int64
	Gamma     float64
	ToneMap   bool
	OutputDir string
	SaveEvery int
	GCSBucket string
	GCSPrefix string
}

func optionsFromFlags() options {
	return options{
		SceneID:   *sceneID,
		Width:     *width,
		Height:    *height,
		Samples:   *samples,
		Workers:   *workers,
		TileSize:  *tileSize,
		Seed:      *seed,
		Gamma:     *gamma,
		ToneMap:   *toneMap,
		OutputDir: *outputDir,
		SaveEvery: *saveEvery,
		GCSBucket: *gcsBucket,
		GCSPrefix: *gcsPrefix,
	}
}

// buildConfig starts from the scene's own sampling config and applies overrides
func buildConfig(opts options, sc *scene.Scene) renderer.Config {
	config := renderer.ConfigForScene(opts.SceneID, sc)
	if opts.Width > 0 {
		config.Width = opts.Width
	}
	if opts.Height > 0 {
		config.Height = opts.Height
	}
	if opts.Samples > 0 {
		config.Samples = opts.Samples
	}
	config.NumWorkers = opts.Workers
	config.TileSize = opts.TileSize
	config.Seed = opts.Seed
	config.Display = renderer.DisplayConfig{Gamma: opts.Gamma, ToneMap: opts.ToneMap}
	return config
}

// buildSink assembles the display surfaces. wait blocks until background
// uploads finish.
func buildSink(ctx context.Context, opts options, logger core.Logger) (sink renderer.Sink, wait func() error, err error) {
	schedule := output.Schedule{Every: opts.SaveEvery}

	pngSink, err := output.NewPNGDirSink(filepath.Join(opts.OutputDir, opts.SceneID), schedule)
	if err != nil {
		return nil, nil, err
	}
	sinks := output.MultiSink{output.LogSink{Logger: logger}, pngSink}
	wait = func() error { return nil }

	if opts.GCSBucket != "" {
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("while creating GCS client: %w", err)
		}
		gcsSink := output.NewGCSSink(ctx, client, opts.GCSBucket, opts.GCSPrefix+"/"+opts.SceneID, schedule)
		sinks = append(sinks, gcsSink)
		wait = func() error {
			defer client.Close()
			return gcsSink.Wait()
		}
	}

	return sinks, wait, nil
}

// run renders one scene to completion
func run(ctx context.Context, opts options, logger core.Logger) error {
	sc, err := scene.NewScene(opts.SceneID)
	if err != nil {
		return err
	}

	raytracer, err := renderer.NewProgressiveRaytracer(sc, buildConfig(opts, sc), logger)
	if err != nil {
		return err
	}

	sink, wait, err := buildSink(ctx, opts, logger)
	if err != nil {
		return err
	}

	renderErr := raytracer.Render(ctx, sink)
	if err := wait(); err != nil && renderErr == nil {
		renderErr = err
	}
	return renderErr
}

// logPassSummary reports the pass counters recorded during the render
func logPassSummary() {
	rows, err := view.RetrieveData(metrics.PassLatencyView.Name)
	if err != nil {
		glog.Warningf("Failed to read pass metrics: %v", err)
		return
	}
	for _, row := range rows {
		if dist, ok := row.Data.(*view.DistributionData); ok {
			glog.Infof("Pass latency %v: %d passes, mean %.1fms, max %.1fms", row.Tags, dist.Count, dist.Mean, dist.Max)
		}
	}
}

func main() {
	flag.Parse()
	defer glog.Flush()

	opts := optionsFromFlags()
	glog.Infof("flags: %+v", opts)

	if err := metrics.RegisterViews(); err != nil {
		glog.Fatalf("Failed to register metric views: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, renderer.NewGlogLogger()); err != nil {
		var configErr *core.ConfigError
		switch {
		case errors.As(err, &configErr):
			glog.Exitf("Invalid configuration: %v", err)
		case errors.Is(err, context.Canceled):
			glog.Warningf("Render interrupted")
			glog.Flush()
			os.Exit(130)
		default:
			glog.Exitf("Render failed: %v", err)
		}
	}

	logPassSummary()
}
