// Package server streams progressive renders to browsers with server-sent
// events.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-kd-pathtracer/pkg/loaders"
	"github.com/df07/go-kd-pathtracer/pkg/log"
	"github.com/df07/go-kd-pathtracer/pkg/material"
	"github.com/df07/go-kd-pathtracer/pkg/scene"
)

var logger = log.New("server")

// Server handles web requests for the path tracer
type Server struct {
	addr    string
	options scene.Options
	mux     *http.ServeMux
}

// NewServer creates a server listening on addr. options are passed to
// every scene build; the texture cache is shared across requests.
func NewServer(addr string, options scene.Options) *Server {
	if options.Textures == nil {
		options.Textures = material.NewTextureCache(loaders.LoadTexture)
	}
	s := &Server{addr: addr, options: options, mux: http.NewServeMux()}
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/scenes", s.handleScenes)
	s.mux.HandleFunc("/api/render", s.handleRender)
	s.mux.HandleFunc("/api/inspect", s.handleInspect)
	return s
}

// Handler exposes the routes, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start serves until the listener fails
func (s *Server) Start() error {
	logger.Noticef("listening on %s", s.addr)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SceneInfo describes an example scene and the settings it was tuned with
type SceneInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Settings    scene.Settings `json:"settings"`
}

// handleScenes lists the example scenes. Scenes that cannot be built with
// the server's options, such as mesh without a model, are left out.
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	var scenes []SceneInfo
	for _, info := range scene.List() {
		setup, err := scene.Build(info.Name, s.options)
		if err != nil {
			logger.Debugf("skipping scene %s: %v", info.Name, err)
			continue
		}
		scenes = append(scenes, SceneInfo{Name: info.Name, Description: info.Description, Settings: setup.Settings})
	}
	writeJSON(w, http.StatusOK, scenes)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warningf("encode response: %v", err)
	}
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
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}
