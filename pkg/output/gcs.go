package output

import (
	"context"
	"fmt"
	"io"
	"path"

	"cloud.google.com/go/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/harrycollin/simple-raytracer/pkg/renderer"
)

// ObjectStore opens writers for named objects
type ObjectStore interface {
	NewWriter(ctx context.Context, name string) io.WriteCloser
}

// BucketStore writes objects into a GCS bucket
type BucketStore struct {
	Bucket *storage.BucketHandle
}

func (b BucketStore) NewWriter(ctx context.Context, name string) io.WriteCloser {
	w := b.Bucket.Object(name).NewWriter(ctx)
	w.ContentType = "image/png"

	// Snapshots are small; a single request per object is enough.
	w.ChunkSize = 0
	return w
}

// GCSSink uploads kept passes to object storage without blocking the render.
// Uploads run concurrently, bounded by a semaphore; Wait must be called once
// the render finishes to collect upload errors.
type GCSSink struct {
	store    ObjectStore
	prefix   string
	schedule Schedule

	eg    *errgroup.Group
	egCtx context.Context
	sem   *semaphore.Weighted
}

// NewGCSSink uploads into bucket under prefix
func NewGCSSink(ctx context.Context, client *storage.Client, bucket, prefix string, schedule Schedule) *GCSSink {
	return NewObjectSink(ctx, BucketStore{Bucket: client.Bucket(bucket)}, prefix, schedule, 8)
}

// NewObjectSink uploads into an arbitrary store with at most concurrency uploads in flight
func NewObjectSink(ctx context.Context, store ObjectStore, prefix string, schedule Schedule, concurrency int64) *GCSSink {
	eg, egCtx := errgroup.WithContext(ctx)
	return &GCSSink{
		store:    store,
		prefix:   prefix,
		schedule: schedule,
		eg:       eg,
		egCtx:    egCtx,
		sem:      semaphore.NewWeighted(concurrency),
	}
}

func (s *GCSSink) Present(ctx context.Context, result renderer.PassResult) error {
	if !s.schedule.Wants(result) {
		return nil
	}

	// An earlier upload failure cancels egCtx
	if err := s.egCtx.Err(); err != nil {
		return fmt.Errorf("while uploading earlier passes: %w", err)
	}

	data, err := encodePNG(result.Image)
	if err != nil {
		return err
	}

	for _, name := range names(result) {
		objectName := path.Join(s.prefix, name)

		if err := s.sem.Acquire(s.egCtx, 1); err != nil {
			return fmt.Errorf("while acquiring concurrency limiter semaphore: %w", err)
		}

		s.eg.Go(func() error {
			defer s.sem.Release(1)
			return s.upload(s.egCtx, objectName, data)
		})
	}
	return nil
}

// Wait blocks until every upload finishes and returns the first failure
func (s *GCSSink) Wait() error {
	if err := s.eg.Wait(); err != nil {
		return fmt.Errorf("while waiting for completion of uploads: %w", err)
	}
	return nil
}

func (s *GCSSink) upload(ctx context.Context, name string, data []byte) error {
	tracer := otel.Tracer("simple-raytracer/output")
	var span trace.Span
	ctx, span = tracer.Start(ctx, "GCSSink.upload")
	defer span.End()

	span.SetAttributes(attribute.String("object", name), attribute.Int64("bytes", int64(len(data))))

	w := s.store.NewWriter(ctx, name)
	if _, err := w.Write(data); err != nil {
		w.Close()
		err := fmt.Errorf("while writing %s to object writer: %w", name, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := w.Close(); err != nil {
		err := fmt.Errorf("while closing object writer for %s: %w", name, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}
