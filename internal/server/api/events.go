package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ayusman/mudra/internal/store"
)

// EventHandler serves the gesture event history.
type EventHandler struct {
	store *store.Store
}

// NewEventHandler creates an EventHandler backed by the given store.
func NewEventHandler(s *store.Store) *EventHandler {
	return &EventHandler{store: s}
}

// ServeHTTP routes requests under /api/events.
// Expected paths: /api/events and /api/events/stats.
func (h *EventHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/events")
	path = strings.TrimPrefix(path, "/")

	switch {
	case path == "" && r.Method == http.MethodGet:
		h.list(w, r)
	case path == "" && r.Method == http.MethodDelete:
		h.prune(w, r)
	case path == "stats" && r.Method == http.MethodGet:
		h.stats(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type eventResponse struct {
	ID        int64  `json:"id"`
	Gesture   string `json:"gesture"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	CreatedAt string `json:"created_at"`
}

type listEventsResponse struct {
	Events []eventResponse `json:"events"`
}

type statsResponse struct {
	Counts map[string]int `json:"counts"`
}

type pruneResponse struct {
	Pruned int64 `json:"pruned"`
}

// list handles GET /api/events?limit=N, newest first.
func (h *EventHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	events, err := h.store.Events().ListRecent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list events")
		return
	}

	response := listEventsResponse{
		Events: make([]eventResponse, 0, len(events)),
	}
	for _, e := range events {
		response.Events = append(response.Events, eventResponse{
			ID:        e.ID,
			Gesture:   e.Gesture,
			X:         e.X,
			Y:         e.Y,
			CreatedAt: e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	writeJSON(w, http.StatusOK, response)
}

// stats handles GET /api/events/stats and returns per-gesture counts.
func (h *EventHandler) stats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.store.Events().CountByGesture()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count events")
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{Counts: counts})
}

// prune handles DELETE /api/events?older_than_hours=N. Without the
// parameter everything older than 24 hours is removed.
func (h *EventHandler) prune(w http.ResponseWriter, r *http.Request) {
	hours := 24
	if raw := r.URL.Query().Get("older_than_hours"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid older_than_hours")
			return
		}
		hours = n
	}

	pruned, err := h.store.Events().Prune(time.Now().Add(-time.Duration(hours) * time.Hour))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to prune events")
		return
	}

	writeJSON(w, http.StatusOK, pruneResponse{Pruned: pruned})
}
