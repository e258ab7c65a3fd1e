// Package api provides the HTTP API handlers for profiles and gesture
// event history.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/store"
)

// ProfileHandler handles HTTP requests for profile resources.
type ProfileHandler struct {
	store *store.Store
}

// NewProfileHandler creates a ProfileHandler backed by the given store.
func NewProfileHandler(s *store.Store) *ProfileHandler {
	return &ProfileHandler{store: s}
}

// ServeHTTP routes requests under /api/profiles.
// Expected paths: /api/profiles, /api/profiles/{id}, and
// /api/profiles/{id}/activate.
func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/profiles")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	if id, ok := strings.CutSuffix(path, "/activate"); ok {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.activate(w, r, id)
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type profileRequest struct {
	Name                 string   `json:"name"`
	PinchThreshold       *float64 `json:"pinch_threshold"`
	VHoldSeconds         *float64 `json:"v_hold_seconds"`
	PalmHoldSeconds      *float64 `json:"palm_hold_seconds"`
	DoubleClickSeconds   *float64 `json:"double_click_seconds"`
	SwipeThresholdX      *float64 `json:"swipe_threshold_x"`
	SwipeDebounceSeconds *float64 `json:"swipe_debounce_seconds"`
	FilterType           string   `json:"filter_type"`
	FilterWindow         *int     `json:"filter_window"`
}

type profileResponse struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	Active               bool    `json:"active"`
	PinchThreshold       float64 `json:"pinch_threshold"`
	VHoldSeconds         float64 `json:"v_hold_seconds"`
	PalmHoldSeconds      float64 `json:"palm_hold_seconds"`
	DoubleClickSeconds   float64 `json:"double_click_seconds"`
	SwipeThresholdX      float64 `json:"swipe_threshold_x"`
	SwipeDebounceSeconds float64 `json:"swipe_debounce_seconds"`
	FilterType           string  `json:"filter_type"`
	FilterWindow         int     `json:"filter_window"`
	CreatedAt            string  `json:"created_at"`
	UpdatedAt            string  `json:"updated_at"`
}

type listProfilesResponse struct {
	Profiles []profileResponse `json:"profiles"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toProfileResponse converts a store.Profile to its API form.
func toProfileResponse(p *store.Profile) profileResponse {
	return profileResponse{
		ID:                   p.ID,
		Name:                 p.Name,
		Active:               p.Active,
		PinchThreshold:       p.PinchThreshold,
		VHoldSeconds:         p.VHoldSeconds,
		PalmHoldSeconds:      p.PalmHoldSeconds,
		DoubleClickSeconds:   p.DoubleClickSeconds,
		SwipeThresholdX:      p.SwipeThresholdX,
		SwipeDebounceSeconds: p.SwipeDebounceSeconds,
		FilterType:           p.FilterType,
		FilterWindow:         p.FilterWindow,
		CreatedAt:            p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:            p.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// applyRequest overlays the provided fields onto an existing profile.
func applyRequest(p *store.Profile, req *profileRequest) {
	if req.Name != "" {
		p.Name = req.Name
	}
	if req.PinchThreshold != nil {
		p.PinchThreshold = *req.PinchThreshold
	}
	if req.VHoldSeconds != nil {
		p.VHoldSeconds = *req.VHoldSeconds
	}
	if req.PalmHoldSeconds != nil {
		p.PalmHoldSeconds = *req.PalmHoldSeconds
	}
	if req.DoubleClickSeconds != nil {
		p.DoubleClickSeconds = *req.DoubleClickSeconds
	}
	if req.SwipeThresholdX != nil {
		p.SwipeThresholdX = *req.SwipeThresholdX
	}
	if req.SwipeDebounceSeconds != nil {
		p.SwipeDebounceSeconds = *req.SwipeDebounceSeconds
	}
	if req.FilterType != "" {
		p.FilterType = req.FilterType
	}
	if req.FilterWindow != nil {
		p.FilterWindow = *req.FilterWindow
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/profiles.
func (h *ProfileHandler) list(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.store.Profiles().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list profiles")
		return
	}

	response := listProfilesResponse{
		Profiles: make([]profileResponse, 0, len(profiles)),
	}
	for _, p := range profiles {
		response.Profiles = append(response.Profiles, toProfileResponse(p))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/profiles/{id}.
func (h *ProfileHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	profile, err := h.store.Profiles().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(profile))
}

// create handles POST /api/profiles. Fields left out of the request
// keep the built-in defaults.
func (h *ProfileHandler) create(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	profile := &store.Profile{
		ID:                   uuid.New().String(),
		PinchThreshold:       0.06,
		VHoldSeconds:         0.4,
		PalmHoldSeconds:      0.8,
		DoubleClickSeconds:   0.3,
		SwipeThresholdX:      0.07,
		SwipeDebounceSeconds: 0.5,
		FilterType:           store.FilterTypeMovingAverage,
		FilterWindow:         5,
	}
	applyRequest(profile, &req)

	if err := profile.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.Profiles().Create(profile); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create profile")
		return
	}

	writeJSON(w, http.StatusCreated, toProfileResponse(profile))
}

// update handles PUT /api/profiles/{id}.
func (h *ProfileHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	profile, err := h.store.Profiles().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	applyRequest(profile, &req)

	if err := profile.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.Profiles().Update(profile); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(profile))
}

// activate handles POST /api/profiles/{id}/activate.
func (h *ProfileHandler) activate(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Profiles().Activate(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to activate profile")
		return
	}

	profile, err := h.store.Profiles().GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(profile))
}

// delete handles DELETE /api/profiles/{id}.
func (h *ProfileHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Profiles().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete profile")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
