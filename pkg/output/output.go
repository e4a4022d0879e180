// Package output provides display surfaces that receive each rendered pass.
package output

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/harrycollin/simple-raytracer/pkg/core"
	"github.com/harrycollin/simple-raytracer/pkg/renderer"
)

// FinalName is the file written for the last pass of a render
const FinalName = "final.png"

// PassName returns the file name for one pass
func PassName(sampleIndex int) string {
	return fmt.Sprintf("sample_%04d.png", sampleIndex)
}

// Schedule decides which passes are persisted. Every > 0 keeps every
// Every-th pass; the last pass is always kept.
type Schedule struct {
	Every int
}

// Wants reports whether result should be persisted
func (s Schedule) Wants(result renderer.PassResult) bool {
	if result.IsLast {
		return true
	}
	return s.Every > 0 && result.SampleIndex%s.Every == 0
}

// names returns the file names a kept pass is written under
func names(result renderer.PassResult) []string {
	names := []string{PassName(result.SampleIndex)}
	if result.IsLast {
		names = append(names, FinalName)
	}
	return names
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("while encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// MultiSink presents every pass to each of its sinks in order, stopping at the first error
type MultiSink []renderer.Sink

func (m MultiSink) Present(ctx context.Context, result renderer.PassResult) error {
	for _, sink := range m {
		if err := sink.Present(ctx, result); err != nil {
			return err
		}
	}
	return nil
}

// LogSink logs progress for every pass
type LogSink struct {
	Logger core.Logger
}

func (l LogSink) Present(ctx context.Context, result renderer.PassResult) error {
	l.Logger.Printf("Pass %d/%d completed in %v (%d primary rays, %d degenerate, %d non-finite)\n",
		result.SampleIndex, result.SampleBudget, result.Stats.Duration,
		result.Stats.PrimaryRays, result.Stats.DegenerateRays, result.Stats.NonFiniteSamples)
	return nil
}
