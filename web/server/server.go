package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/df07/go-flat-raytracer/pkg/core"
	"github.com/df07/go-flat-raytracer/pkg/output"
	"github.com/df07/go-flat-raytracer/pkg/renderer"
	"github.com/df07/go-flat-raytracer/pkg/sampling"
	"github.com/df07/go-flat-raytracer/pkg/scene"
)

// Parameter limits for web renders
const (
	MinDimension = 1
	MaxDimension = 2000
	MaxSamples   = 1024
)

// Server handles web requests for the raytracer
type Server struct {
	port int
	mux  *http.ServeMux
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	s := &Server{port: port, mux: http.NewServeMux()}

	s.mux.HandleFunc("/", s.handleIndex)

	// API endpoints
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/scenes", s.handleScenes)
	s.mux.HandleFunc("/api/render", s.handleRender)
	s.mux.HandleFunc("/api/render/stream", s.handleRenderStream)
	s.mux.HandleFunc("/api/inspect", s.handleInspect)

	return s
}

// Handler returns the server's request router
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.mux)
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene  string          // Scene ID (e.g., "sphere" or "file:two-spheres")
	Config renderer.Config // Screen and sampling configuration
	Format output.Format   // Encoding of the returned image
}

// apiEndpoints is served at the root so clients can discover the API
var apiEndpoints = []string{
	"/api/health",
	"/api/scenes",
	"/api/render",
	"/api/render/stream",
	"/api/inspect",
}

// handleIndex lists the API endpoints; every other unmatched path is a 404
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Not found: %s", r.URL.Path))
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"endpoints": apiEndpoints})
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in and file scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes()
	if err != nil {
		log.Printf("Error listing scenes: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to list scenes")
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// handleRender renders a scene and returns the encoded image
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	rt, status, err := s.newRaytracer(req, nil)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}

	// Request context cancels the render when the client disconnects
	img, stats, err := rt.RenderImage(r.Context())
	if err != nil {
		if r.Context().Err() != nil {
			log.Printf("Render of %q abandoned: %v", req.Scene, err)
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Render failed: %v", err))
		return
	}

	data, err := output.EncodeBytes(img, req.Format)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", req.Format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("X-Render-Time-Ms", strconv.FormatInt(stats.Elapsed.Milliseconds(), 10))
	w.Header().Set("X-Render-Rays", strconv.Itoa(stats.TotalSamples))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// newRaytracer resolves the scene and builds a raytracer, returning the HTTP status for any failure
func (s *Server) newRaytracer(req *RenderRequest, logger core.Logger) (*renderer.Raytracer, int, error) {
	sceneObj, err := lookupScene(req.Scene)
	if err != nil {
		if errors.Is(err, scene.ErrSceneNotFound) {
			return nil, http.StatusNotFound, fmt.Errorf("Unknown scene: %s", req.Scene)
		}
		return nil, http.StatusBadRequest, fmt.Errorf("Invalid scene %s: %v", req.Scene, err)
	}

	rt, err := renderer.NewRaytracer(sceneObj, req.Config, logger)
	if err != nil {
		if errors.Is(err, core.ErrInvalidConfiguration) {
			return nil, http.StatusBadRequest, err
		}
		return nil, http.StatusInternalServerError, err
	}
	return rt, http.StatusOK, nil
}

// lookupScene resolves scene IDs only; file paths are not accepted over HTTP
func lookupScene(id string) (*scene.Scene, error) {
	if strings.ContainsAny(id, `/\`) || strings.HasSuffix(id, ".scene") {
		return nil, fmt.Errorf("%w: %q", scene.ErrSceneNotFound, id)
	}
	return scene.Lookup(id)
}

// parseRenderRequest parses request parameters into a render configuration
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: "default", Config: renderer.DefaultConfig(), Format: output.PNG}

	if sceneID := query.Get("scene"); sceneID != "" {
		req.Scene = sceneID
	}

	cfg := &req.Config
	var err error
	if cfg.Width, err = parseIntParam(query, "width", cfg.Width, MinDimension, MaxDimension); err != nil {
		return nil, err
	}
	if cfg.Height, err = parseIntParam(query, "height", cfg.Height, MinDimension, MaxDimension); err != nil {
		return nil, err
	}
	if cfg.SamplesPerPixel, err = parseIntParam(query, "samples", cfg.SamplesPerPixel, 1, MaxSamples); err != nil {
		return nil, err
	}
	if cfg.PixelSize, err = parseFloatParam(query, "pixelSize", cfg.PixelSize, 0.001, 1000); err != nil {
		return nil, err
	}
	if cfg.Gamma, err = parseFloatParam(query, "gamma", cfg.Gamma, 0.1, 10); err != nil {
		return nil, err
	}
	if cfg.EyeDistance, err = parseFloatParam(query, "eye", cfg.EyeDistance, -1e6, 1e6); err != nil {
		return nil, err
	}
	if cfg.ViewDistance, err = parseFloatParam(query, "viewDistance", cfg.ViewDistance, 0.001, 1e6); err != nil {
		return nil, err
	}
	seed, err := parseIntParam(query, "seed", int(cfg.Seed), 0, 1<<31-1)
	if err != nil {
		return nil, err
	}
	cfg.Seed = int64(seed)

	if name := query.Get("sampler"); name != "" {
		if cfg.Strategy, err = sampling.ParseStrategy(name); err != nil {
			return nil, err
		}
	}
	if name := query.Get("projection"); name != "" {
		if cfg.Projection, err = renderer.ParseProjection(name); err != nil {
			return nil, err
		}
	}
	if name := query.Get("format"); name != "" {
		if req.Format, err = output.ParseFormat(name); err != nil {
			return nil, err
		}
	}

	// Performance warning
	if cfg.Width*cfg.Height > 800*600 && cfg.SamplesPerPixel > 64 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}

	return req, nil
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
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
