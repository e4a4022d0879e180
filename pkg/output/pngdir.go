package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/harrycollin/simple-raytracer/pkg/renderer"
)

// PNGDirSink writes kept passes as PNG files into a directory
type PNGDirSink struct {
	Dir      string
	Schedule Schedule
}

// NewPNGDirSink creates the directory if needed
func NewPNGDirSink(dir string, schedule Schedule) (*PNGDirSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("while creating output directory: %w", err)
	}
	return &PNGDirSink{Dir: dir, Schedule: schedule}, nil
}

func (s *PNGDirSink) Present(ctx context.Context, result renderer.PassResult) error {
	if !s.Schedule.Wants(result) {
		return nil
	}

	data, err := encodePNG(result.Image)
	if err != nil {
		return err
	}

	for _, name := range names(result) {
		path := filepath.Join(s.Dir, name)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("while writing %s: %w", path, err)
		}
	}
	return nil
}
