// Package server provides the local HTTP API: profiles, gesture event
// history, pipeline status, the camera preview stream, and a WebSocket
// feed of pointer output.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/server/api"
	"github.com/ayusman/mudra/internal/session"
	"github.com/ayusman/mudra/internal/store"
)

// Status is a snapshot of the pipeline for /api/status.
type Status struct {
	Enabled     bool   `json:"enabled"`
	HandPresent bool   `json:"hand_present"`
	FPS         int    `json:"fps"`
	LastGesture string `json:"last_gesture"`
}

// StatusProvider reports the pipeline state. The app implements it.
type StatusProvider interface {
	Status() Status
}

// Config holds the server configuration. Nil fields disable the
// corresponding endpoints.
type Config struct {
	StaticDir string
	Store     *store.Store
	Camera    capture.Camera
	Outputs   *session.Mailbox[session.Output]
	Pipeline  StatusProvider
}

// Server is the HTTP handler for the local API.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Store != nil {
		profileHandler := api.NewProfileHandler(s.config.Store)
		s.mux.Handle("/api/profiles", profileHandler)
		s.mux.Handle("/api/profiles/", profileHandler)

		eventHandler := api.NewEventHandler(s.config.Store)
		s.mux.Handle("/api/events", eventHandler)
		s.mux.Handle("/api/events/", eventHandler)
	}

	if s.config.Pipeline != nil {
		s.mux.HandleFunc("/api/status", s.handleStatus)
	}

	if s.config.Camera != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Camera))
	}

	if s.config.Outputs != nil {
		s.mux.Handle("/ws", NewOutputHandler(s.config.Outputs))
	}

	if s.config.StaticDir != "" {
		s.mux.Handle("/", http.FileServer(http.Dir(s.config.StaticDir)))
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// handleStatus handles GET requests to /api/status.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.config.Pipeline.Status()); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
