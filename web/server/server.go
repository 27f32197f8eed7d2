package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"

	"github.com/df07/go-whitted-raytracer/pkg/cache"
	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

const tracerName = "github.com/df07/go-whitted-raytracer/web/server"

// Image size limits accepted by the render and inspect endpoints
const (
	minImageSize = 1
	maxImageSize = 2000
)

// Server handles web requests for the raytracer
type Server struct {
	cfg       *config.Config
	scenesDir string
	cache     *cache.RenderCache // nil disables caching
	logger    zerolog.Logger
	metrics   *MetricsWrapper
	handler   http.Handler
}

// NewServer creates a new web server. renderCache may be nil.
func NewServer(cfg *config.Config, scenesDir string, renderCache *cache.RenderCache, logger zerolog.Logger) *Server {
	s := &Server{
		cfg:       cfg,
		scenesDir: scenesDir,
		cache:     renderCache,
		logger:    logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	mux.HandleFunc("/api/render", s.handleRender)

	s.metrics = NewMetricsWrapper(mux, logger)
	s.handler = s.metrics
	return s
}

// Handler returns the root handler, wrapped with request metrics
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start registers metrics and serves on the configured address
func (s *Server) Start() error {
	if err := s.metrics.RegisterMetrics(); err != nil {
		return err
	}
	s.logger.Info().Str("addr", s.cfg.Addr).Msg("Starting web server")
	return http.ListenAndServe(s.cfg.Addr, s.handler)
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes and scene files
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	_, span := otel.Tracer(tracerName).Start(r.Context(), "scenes")
	defer span.End()

	response, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to list scenes")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// resolveScene loads a scene by built-in id or by the name of a file in the
// scenes directory. Paths are never accepted from clients.
func (s *Server) resolveScene(name string) (*loaders.ResolvedScene, error) {
	if name == "" {
		name = "default"
	}
	return loaders.ResolveSceneName(name, s.scenesDir)
}

// parseSize reads width and height, defaulting to the configured size
func (s *Server) parseSize(values url.Values) (int, int, error) {
	width, err := parseIntParam(values, "width", min(s.cfg.Width, maxImageSize), minImageSize, maxImageSize)
	if err != nil {
		return 0, 0, err
	}
	height, err := parseIntParam(values, "height", min(s.cfg.Height, maxImageSize), minImageSize, maxImageSize)
	if err != nil {
		return 0, 0, err
	}
	return width, height, nil
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

// parseInt64Param parses an unbounded int64 parameter
func parseInt64Param(values url.Values, key string, defaultValue int64) (int64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := loaders.EncodePNG(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
