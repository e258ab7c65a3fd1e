package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
)

func TestE2E_ProfileWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "data.db")

	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	cfg := config.Default()
	cfg.Plugins.Dir = filepath.Join(tmpDir, "plugins")

	application, err := app.New(cfg, s)
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}

	srv := server.New(server.Config{Store: s, Pipeline: application})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	var profileID string

	t.Run("CreateProfile", func(t *testing.T) {
		resp, err := client.Post(
			ts.URL+"/api/profiles",
			"application/json",
			strings.NewReader(`{"name": "precise", "pinch_threshold": 0.04, "filter_type": "kalman"}`),
		)
		if err != nil {
			t.Fatalf("create profile error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
		}

		var created struct {
			ID string `json:"id"`
		}
		json.NewDecoder(resp.Body).Decode(&created)
		if created.ID == "" {
			t.Fatal("created profile has no id")
		}
		profileID = created.ID
	})

	t.Run("ActivateProfile", func(t *testing.T) {
		resp, err := client.Post(ts.URL+"/api/profiles/"+profileID+"/activate", "application/json", nil)
		if err != nil {
			t.Fatalf("activate profile error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
	})

	t.Run("ApplyActiveProfile", func(t *testing.T) {
		active, err := s.Profiles().GetActive()
		if err != nil {
			t.Fatalf("GetActive() error = %v", err)
		}
		if active.ID != profileID {
			t.Fatalf("active profile = %s, want %s", active.ID, profileID)
		}
		if err := application.ApplyProfile(active); err != nil {
			t.Fatalf("ApplyProfile() error = %v", err)
		}
	})

	t.Run("StatusReflectsApp", func(t *testing.T) {
		application.SetEnabled(true)

		resp, err := client.Get(ts.URL + "/api/status")
		if err != nil {
			t.Fatalf("get status error = %v", err)
		}
		defer resp.Body.Close()

		var status struct {
			Enabled     bool   `json:"enabled"`
			LastGesture string `json:"last_gesture"`
		}
		json.NewDecoder(resp.Body).Decode(&status)
		if !status.Enabled {
			t.Error("status should report enabled")
		}
	})

	t.Run("APIStillWorks", func(t *testing.T) {
		resp, _ := client.Get(ts.URL + "/api/health")
		if resp.StatusCode != http.StatusOK {
			t.Errorf("health check failed after app operations")
		}
		resp.Body.Close()
	})
}

func TestE2E_EventHistory(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	srv := server.New(server.Config{Store: s})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	for _, name := range []string{"left_click", "left_click", "right_click"} {
		if err := s.Events().Insert(&store.Event{Gesture: name, X: 640, Y: 360}); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}
	old := &store.Event{Gesture: "swipe_left", X: 100, Y: 100, CreatedAt: time.Now().Add(-72 * time.Hour)}
	if _, err := s.DB().Exec(
		`INSERT INTO events (gesture, x, y, created_at) VALUES (?, ?, ?, ?)`,
		old.Gesture, old.X, old.Y, old.CreatedAt,
	); err != nil {
		t.Fatalf("inserting old event: %v", err)
	}

	t.Run("ListEvents", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/events?limit=10")
		if err != nil {
			t.Fatalf("list events error = %v", err)
		}
		defer resp.Body.Close()

		var listResp struct {
			Events []struct {
				Gesture string `json:"gesture"`
			} `json:"events"`
		}
		json.NewDecoder(resp.Body).Decode(&listResp)
		if len(listResp.Events) != 4 {
			t.Errorf("expected 4 events, got %d", len(listResp.Events))
		}
	})

	t.Run("Stats", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/events/stats")
		if err != nil {
			t.Fatalf("stats error = %v", err)
		}
		defer resp.Body.Close()

		var statsResp struct {
			Counts map[string]int `json:"counts"`
		}
		json.NewDecoder(resp.Body).Decode(&statsResp)
		if statsResp.Counts["left_click"] != 2 {
			t.Errorf("left_click count = %d, want 2", statsResp.Counts["left_click"])
		}
	})

	t.Run("Prune", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/events?older_than_hours=24", nil)
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("prune error = %v", err)
		}
		defer resp.Body.Close()

		var result struct {
			Pruned int64 `json:"pruned"`
		}
		json.NewDecoder(resp.Body).Decode(&result)
		if result.Pruned != 1 {
			t.Errorf("pruned = %d, want 1", result.Pruned)
		}
	})
}
