package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/df07/go-smallpaint/pkg/config"
	"github.com/df07/go-smallpaint/pkg/loaders"
	"github.com/df07/go-smallpaint/pkg/log"
	"github.com/df07/go-smallpaint/pkg/scene"
)

// Server streams progressive renders of the sample scenes over HTTP
type Server struct {
	port     int
	defaults config.Config
	sceneDir string // Directory scanned for scene files
	logger   log.Logger
	mux      *http.ServeMux
}

// NewServer creates a new web server. Requests start from defaults and
// override them with query parameters.
func NewServer(port int, defaults config.Config) *Server {
	s := &Server{
		port:     port,
		defaults: defaults,
		sceneDir: "scenes",
		logger:   log.New("server"),
		mux:      http.NewServeMux(),
	}

	// API endpoints
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/scenes", s.handleScenes)
	s.mux.HandleFunc("/api/render", s.handleRender)
	s.mux.HandleFunc("/api/inspect", s.handleInspect)
	return s
}

// Handler returns the HTTP handler serving the API
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start serves the API until the listener fails
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Noticef("starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.mux)
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the sample scenes, the scene files and the default
// render settings
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	type sceneInfo struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}

	var scenes []sceneInfo
	for _, sample := range scene.Samples() {
		scenes = append(scenes, sceneInfo{Name: sample.Name, Description: sample.Description})
	}

	files, err := loaders.ListSceneFiles(s.sceneDir)
	if err != nil {
		s.logger.Warningf("listing scene files: %v", err)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"scenes": scenes,
		"files":  files,
		"defaults": map[string]interface{}{
			"scene":           s.defaults.Scene,
			"width":           s.defaults.Width,
			"height":          s.defaults.Height,
			"samplesPerPixel": s.defaults.SamplesPerPixel,
			"refractionIndex": s.defaults.RefractionIndex,
			"sampler":         s.defaults.Sampler,
			"tracer":          s.defaults.Tracer,
			"storage":         s.defaults.Storage.Kind,
		},
	})
}

// parseRequestConfig applies query parameters over the server defaults
func (s *Server) parseRequestConfig(values url.Values) (config.Config, error) {
	cfg := s.defaults

	if name := values.Get("scene"); name != "" {
		if loaders.IsSceneFile(name) {
			// Scene files are only served from the scene directory, by bare
			// name or by the path /api/scenes lists
			base := filepath.Base(name)
			path := filepath.Join(s.sceneDir, base)
			if (name != base && filepath.Clean(name) != path) || strings.Contains(base, `\`) {
				return cfg, fmt.Errorf("invalid scene: %s", name)
			}
			name = path
		}
		cfg.Scene = name
	}
	if v := values.Get("sampler"); v != "" {
		cfg.Sampler = v
	}
	if v := values.Get("tracer"); v != "" {
		cfg.Tracer = v
	}
	if v := values.Get("storage"); v != "" {
		cfg.Storage.Kind = v
	}

	var err error
	if cfg.Width, err = parseIntParam(values, "width", cfg.Width, 1, 2000); err != nil {
		return cfg, err
	}
	if cfg.Height, err = parseIntParam(values, "height", cfg.Height, 1, 2000); err != nil {
		return cfg, err
	}
	spp, err := parseIntParam(values, "samplesPerPixel", int(cfg.SamplesPerPixel), 1, 10000)
	if err != nil {
		return cfg, err
	}
	cfg.SamplesPerPixel = uint64(spp)
	if cfg.RefractionIndex, err = parseFloatParam(values, "refractionIndex", cfg.RefractionIndex, 1, 4); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
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
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %f and %f, got: %f", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// writeJSON writes a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
