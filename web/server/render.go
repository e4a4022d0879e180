package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"time"

	"github.com/golang/glog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/harrycollin/simple-raytracer/pkg/core"
	"github.com/harrycollin/simple-raytracer/pkg/renderer"
	"github.com/harrycollin/simple-raytracer/pkg/scene"
)

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "pass", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// PassUpdate is the payload of a "pass" event
type PassUpdate struct {
	SampleIndex      int    `json:"sampleIndex"`
	SampleBudget     int    `json:"sampleBudget"`
	ImageData        string `json:"imageData"` // Base64 encoded PNG
	ElapsedMs        int64  `json:"elapsedMs"`
	PassMs           int64  `json:"passMs"`
	PrimaryRays      int    `json:"primaryRays"`
	DegenerateRays   int    `json:"degenerateRays"`
	NonFiniteSamples int    `json:"nonFiniteSamples"`
	PrimitiveCount   int    `json:"primitiveCount"`
	IsComplete       bool   `json:"isComplete"`
}

// RenderingPipeline contains the configured scene and raytracer
type RenderingPipeline struct {
	Scene     *scene.Scene
	Raytracer *renderer.ProgressiveRaytracer
}

// handleRender streams every averaged pass of a progressive render via SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	tracer := otel.Tracer("simple-raytracer/web")
	var span trace.Span
	ctx := r.Context()
	ctx, span = tracer.Start(ctx, "Server.handleRender")
	defer span.End()

	s.setSSEHeaders(w)

	// Single writer goroutine owns w; the handler waits for it before returning
	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go s.writeSSEEvents(w, ctx, sseEventChan, writerDone)
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	req, sceneObj, err := parseRenderRequest(r)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	span.SetAttributes(
		attribute.String("scene", req.Scene),
		attribute.Int64("width", int64(req.Width)),
		attribute.Int64("height", int64(req.Height)),
		attribute.Int64("samples", int64(req.Samples)),
	)

	consoleChan, consoleLogger := s.setupConsoleLogging()

	pipeline, err := s.setupRenderingPipeline(req, sceneObj, consoleLogger)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.handleError(ctx, sseEventChan, err.Error())
		return
	}

	startTime := time.Now()
	passChan, errChan := pipeline.Raytracer.RenderProgressive(ctx)

	if err := s.handleRenderingEvents(ctx, sseEventChan, consoleChan, passChan, errChan, pipeline.Scene, startTime); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleLine, core.Logger) {
	consoleChan := make(chan ConsoleLine, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	return consoleChan, NewConsoleLogger(renderID, consoleChan)
}

// writeSSEEvents handles writing all SSE events in a single goroutine (thread-safe)
func (s *Server) writeSSEEvents(w http.ResponseWriter, ctx context.Context, sseEventChan chan SSEEvent, done chan<- struct{}) {
	defer close(done)

	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				// Channel closed
				return
			}

			_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data)
			if err != nil {
				// Client disconnected during write
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}

		case <-ctx.Done():
			// Client disconnected
			return
		}
	}
}

// setupRenderingPipeline applies the request to the scene and builds the raytracer
func (s *Server) setupRenderingPipeline(req *RenderRequest, sceneObj *scene.Scene, logger core.Logger) (*RenderingPipeline, error) {
	config := renderer.ConfigForScene(req.Scene, sceneObj)
	config.Width = req.Width
	config.Height = req.Height
	config.Samples = req.Samples
	config.Seed = req.Seed
	config.Display = renderer.DisplayConfig{Gamma: req.Gamma, ToneMap: req.ToneMap}

	raytracer, err := renderer.NewProgressiveRaytracer(sceneObj, config, logger)
	if err != nil {
		return nil, fmt.Errorf("while creating raytracer: %w", err)
	}
	return &RenderingPipeline{
		Scene:     sceneObj,
		Raytracer: raytracer,
	}, nil
}

// handleRenderingEvents forwards passes and console lines until the render ends
func (s *Server) handleRenderingEvents(ctx context.Context, sseEventChan chan SSEEvent, consoleChan <-chan ConsoleLine,
	passChan <-chan renderer.PassResult, errChan <-chan error, scene *scene.Scene, startTime time.Time) error {

	for passChan != nil {
		select {
		case passResult, ok := <-passChan:
			if !ok {
				passChan = nil
				continue
			}
			s.handlePassComplete(ctx, sseEventChan, passResult, scene, startTime)

		case consoleMsg := <-consoleChan:
			s.sendConsole(ctx, sseEventChan, consoleMsg)

		case <-ctx.Done():
			// Client disconnected; the render stops at its next hand-off
			return ctx.Err()
		}
	}

	// Flush console lines logged before the render finished
	for drained := false; !drained; {
		select {
		case consoleMsg := <-consoleChan:
			s.sendConsole(ctx, sseEventChan, consoleMsg)
		default:
			drained = true
		}
	}

	if err := <-errChan; err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Rendering failed: %v", err))
		return err
	}

	select {
	case sseEventChan <- SSEEvent{Type: "complete", Data: "Rendering completed"}:
	case <-ctx.Done():
	}
	return nil
}

// sendConsole forwards one console line, dropping it if the stream is backed up
func (s *Server) sendConsole(ctx context.Context, sseEventChan chan SSEEvent, consoleMsg ConsoleLine) {
	data, err := json.Marshal(consoleMsg)
	if err != nil {
		glog.Errorf("Error marshaling console message: %v", err)
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
	case <-ctx.Done():
	default:
		// Channel full, skip message to avoid blocking
	}
}

// handlePassComplete encodes one averaged pass and sends it
func (s *Server) handlePassComplete(ctx context.Context, sseEventChan chan SSEEvent, passResult renderer.PassResult, scene *scene.Scene, startTime time.Time) {
	imageData, err := imageToBase64PNG(passResult.Image)
	if err != nil {
		glog.Errorf("Error encoding pass %d: %v", passResult.SampleIndex, err)
		return
	}

	update := PassUpdate{
		SampleIndex:      passResult.SampleIndex,
		SampleBudget:     passResult.SampleBudget,
		ImageData:        imageData,
		ElapsedMs:        time.Since(startTime).Milliseconds(),
		PassMs:           passResult.Stats.Duration.Milliseconds(),
		PrimaryRays:      passResult.Stats.PrimaryRays,
		DegenerateRays:   passResult.Stats.DegenerateRays,
		NonFiniteSamples: passResult.Stats.NonFiniteSamples,
		PrimitiveCount:   scene.GetPrimitiveCount(),
		IsComplete:       passResult.IsLast,
	}

	data, err := json.Marshal(update)
	if err != nil {
		glog.Errorf("Error marshaling pass update: %v", err)
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "pass", Data: string(data)}:
	case <-ctx.Done():
	}
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// handleError sends an error event to the SSE channel
func (s *Server) handleError(ctx context.Context, sseEventChan chan SSEEvent, message string) {
	select {
	case sseEventChan <- SSEEvent{Type: "error", Data: message}:
	case <-ctx.Done():
		// Client disconnected, don't block
	}
}
