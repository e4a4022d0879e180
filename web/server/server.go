package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/golang/glog"

	"github.com/harrycollin/simple-raytracer/pkg/metrics"
	"github.com/harrycollin/simple-raytracer/pkg/renderer"
	"github.com/harrycollin/simple-raytracer/pkg/scene"
)

// Resolution and budget limits accepted from clients
const (
	MinDimension   = 16
	MaxDimension   = 2000
	MaxSamples     = 10000
	MinGamma       = 0.5
	MaxGamma       = 5.0
	DefaultSceneID = "default"
)

// Server handles web requests for the progressive raytracer
type Server struct {
	port int
	mux  *http.ServeMux
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	s := &Server{port: port, mux: http.NewServeMux()}

	s.mux.HandleFunc("/api/render", s.handleRender)
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/scenes", s.handleScenes)
	s.mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	s.mux.HandleFunc("/api/inspect", s.handleInspect)

	return s
}

// Handler returns the server's routes wrapped with request metrics
func (s *Server) Handler() http.Handler {
	return metrics.NewWrapper(s.mux)
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	glog.Infof("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene   string  `json:"scene"`   // Built-in scene ID
	Width   int     `json:"width"`   // Image width
	Height  int     `json:"height"`  // Image height
	Samples int     `json:"samples"` // Sample budget
	Seed    int64   `json:"seed"`    // Base seed for tile samplers
	Gamma   float64 `json:"gamma"`   // Display gamma
	ToneMap bool    `json:"toneMap"` // Tone map before gamma
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(scene.ListScenes())
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	sceneID := r.URL.Query().Get("scene")
	if sceneID == "" {
		sceneID = DefaultSceneID
	}

	sceneObj, err := scene.NewScene(sceneID)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	config := renderer.ConfigForScene(sceneID, sceneObj)
	response := map[string]interface{}{
		"scene": sceneID,
		"defaults": map[string]interface{}{
			"width":      config.Width,
			"height":     config.Height,
			"samples":    config.Samples,
			"maxBounces": config.Integrator.MaxBounces,
			"gamma":      config.Display.Gamma,
			"toneMap":    config.Display.ToneMap,
			"shapes":     sceneObj.GetPrimitiveCount(),
		},
		"limits": map[string]interface{}{
			"width":   map[string]int{"min": MinDimension, "max": MaxDimension},
			"height":  map[string]int{"min": MinDimension, "max": MaxDimension},
			"samples": map[string]int{"min": 1, "max": MaxSamples},
			"gamma":   map[string]float64{"min": MinGamma, "max": MaxGamma},
		},
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// parseSceneParams fills the scene and resolution fields, defaulting to the scene's own size
func parseSceneParams(values url.Values, req *RenderRequest) (*scene.Scene, error) {
	req.Scene = values.Get("scene")
	if req.Scene == "" {
		req.Scene = DefaultSceneID
	}

	sceneObj, err := scene.NewScene(req.Scene)
	if err != nil {
		return nil, err
	}

	defaults := renderer.ConfigForScene(req.Scene, sceneObj)
	if req.Width, err = parseIntParam(values, "width", clampInt(defaults.Width, MinDimension, MaxDimension), MinDimension, MaxDimension); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(values, "height", clampInt(defaults.Height, MinDimension, MaxDimension), MinDimension, MaxDimension); err != nil {
		return nil, err
	}
	return sceneObj, nil
}

// parseRenderRequest parses request parameters
func parseRenderRequest(r *http.Request) (*RenderRequest, *scene.Scene, error) {
	values := r.URL.Query()
	req := &RenderRequest{}

	sceneObj, err := parseSceneParams(values, req)
	if err != nil {
		return nil, nil, err
	}

	display := renderer.DefaultDisplayConfig()
	if req.Samples, err = parseIntParam(values, "samples", renderer.ConfigForScene(req.Scene, sceneObj).Samples, 1, MaxSamples); err != nil {
		return nil, nil, err
	}
	if req.Gamma, err = parseFloatParam(values, "gamma", display.Gamma, MinGamma, MaxGamma); err != nil {
		return nil, nil, err
	}
	if req.ToneMap, err = parseBoolParam(values, "tonemap", display.ToneMap); err != nil {
		return nil, nil, err
	}
	seed, err := parseIntParam(values, "seed", 42, 0, 1<<31-1)
	if err != nil {
		return nil, nil, err
	}
	req.Seed = int64(seed)

	// Performance warning
	if req.Width*req.Height > 800*600 && req.Samples > 100 {
		glog.Warningf("Render warning: %dx%d with %d samples may render slowly", req.Width, req.Height, req.Samples)
	}

	return req, sceneObj, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if !(parsed >= min && parsed <= max) {
			return 0, fmt.Errorf("%s must be between %f and %f, got: %f", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseBoolParam parses a boolean parameter from URL query
func parseBoolParam(values url.Values, key string, defaultValue bool) (bool, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
