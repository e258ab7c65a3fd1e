package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func testProfile(name string) *Profile {
	return &Profile{
		ID:                   uuid.New().String(),
		Name:                 name,
		PinchThreshold:       0.06,
		VHoldSeconds:         0.4,
		PalmHoldSeconds:      0.8,
		DoubleClickSeconds:   0.3,
		SwipeThresholdX:      0.07,
		SwipeDebounceSeconds: 0.5,
		FilterType:           FilterTypeMovingAverage,
		FilterWindow:         5,
	}
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("database file missing after New(): %v", err)
	}
}

func TestNewStore_RunsMigrations(t *testing.T) {
	s := newTestStore(t)

	tables := []string{"profiles", "events", "settings"}
	for _, table := range tables {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q missing after migrations: %v", table, err)
		}
	}
}

func TestNewStore_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := s.Profiles().Create(testProfile("precise")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	s.Close()

	// Re-running migrations on an existing database must be harmless.
	s2, err := New(dbPath)
	if err != nil {
		t.Fatalf("reopening store: %v", err)
	}
	defer s2.Close()

	if _, err := s2.Profiles().GetByName("precise"); err != nil {
		t.Errorf("profile lost across reopen: %v", err)
	}
}

func TestProfileRepository_CRUD(t *testing.T) {
	repo := newTestStore(t).Profiles()

	p := testProfile("precise")
	if err := repo.Create(p); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.GetByID(p.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "precise" || got.FilterWindow != 5 {
		t.Errorf("GetByID() = %+v", got)
	}

	got.Name = "relaxed"
	got.FilterType = FilterTypeKalman
	if err := repo.Update(got); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	byName, err := repo.GetByName("relaxed")
	if err != nil {
		t.Fatalf("GetByName() error = %v", err)
	}
	if byName.ID != p.ID || byName.FilterType != FilterTypeKalman {
		t.Errorf("GetByName() = %+v", byName)
	}

	if err := repo.Delete(p.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.GetByID(p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() after delete = %v, want ErrNotFound", err)
	}
}

func TestProfileRepository_NotFound(t *testing.T) {
	repo := newTestStore(t).Profiles()

	if _, err := repo.GetByID("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() = %v, want ErrNotFound", err)
	}
	if err := repo.Update(testProfile("ghost")); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update() = %v, want ErrNotFound", err)
	}
	if err := repo.Delete("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() = %v, want ErrNotFound", err)
	}
	if err := repo.Activate("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Activate() = %v, want ErrNotFound", err)
	}
}

func TestProfileRepository_DuplicateName(t *testing.T) {
	repo := newTestStore(t).Profiles()

	if err := repo.Create(testProfile("precise")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.Create(testProfile("precise")); err == nil {
		t.Error("Create() with a duplicate name must fail")
	}
}

func TestProfileRepository_Activate(t *testing.T) {
	repo := newTestStore(t).Profiles()

	a := testProfile("a")
	b := testProfile("b")
	for _, p := range []*Profile{a, b} {
		if err := repo.Create(p); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	if _, err := repo.GetActive(); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetActive() with no active profile = %v, want ErrNotFound", err)
	}

	if err := repo.Activate(a.ID); err != nil {
		t.Fatalf("Activate(a) error = %v", err)
	}
	active, err := repo.GetActive()
	if err != nil {
		t.Fatalf("GetActive() error = %v", err)
	}
	if active.ID != a.ID {
		t.Errorf("active = %s, want %s", active.ID, a.ID)
	}

	// Activating b must deactivate a.
	if err := repo.Activate(b.ID); err != nil {
		t.Fatalf("Activate(b) error = %v", err)
	}
	active, err = repo.GetActive()
	if err != nil {
		t.Fatalf("GetActive() error = %v", err)
	}
	if active.ID != b.ID {
		t.Errorf("active = %s, want %s", active.ID, b.ID)
	}

	var count int
	if err := repo.db.QueryRow(`SELECT COUNT(*) FROM profiles WHERE active = 1`).Scan(&count); err != nil {
		t.Fatalf("counting active profiles: %v", err)
	}
	if count != 1 {
		t.Errorf("active profile count = %d, want 1", count)
	}
}

func TestProfile_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Profile)
		wantErr bool
	}{
		{"valid", func(p *Profile) {}, false},
		{"valid kalman", func(p *Profile) { p.FilterType = FilterTypeKalman; p.FilterWindow = 0 }, false},
		{"empty name", func(p *Profile) { p.Name = "" }, true},
		{"zero pinch threshold", func(p *Profile) { p.PinchThreshold = 0 }, true},
		{"negative hold", func(p *Profile) { p.VHoldSeconds = -1 }, true},
		{"zero click window", func(p *Profile) { p.DoubleClickSeconds = 0 }, true},
		{"zero swipe threshold", func(p *Profile) { p.SwipeThresholdX = 0 }, true},
		{"bad filter type", func(p *Profile) { p.FilterType = "median" }, true},
		{"zero window", func(p *Profile) { p.FilterWindow = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testProfile("p")
			tt.mutate(p)
			if err := p.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEventRepository_InsertAndList(t *testing.T) {
	repo := newTestStore(t).Events()

	base := time.Now().Add(-time.Minute)
	for i, g := range []string{"move", "drag_start", "drag_end"} {
		e := &Event{Gesture: g, X: 100 + i, Y: 200 + i, CreatedAt: base.Add(time.Duration(i) * time.Second)}
		if err := repo.Insert(e); err != nil {
			t.Fatalf("Insert(%s) error = %v", g, err)
		}
		if e.ID == 0 {
			t.Errorf("Insert(%s) did not assign an ID", g)
		}
	}

	events, err := repo.ListRecent(10)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("ListRecent() returned %d events, want 3", len(events))
	}
	if events[0].Gesture != "drag_end" {
		t.Errorf("newest event = %s, want drag_end", events[0].Gesture)
	}

	limited, err := repo.ListRecent(2)
	if err != nil {
		t.Fatalf("ListRecent(2) error = %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("ListRecent(2) returned %d events", len(limited))
	}
}

func TestEventRepository_CountByGesture(t *testing.T) {
	repo := newTestStore(t).Events()

	for _, g := range []string{"move", "move", "right_click"} {
		if err := repo.Insert(&Event{Gesture: g, X: 1, Y: 1}); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	counts, err := repo.CountByGesture()
	if err != nil {
		t.Fatalf("CountByGesture() error = %v", err)
	}
	if counts["move"] != 2 || counts["right_click"] != 1 {
		t.Errorf("CountByGesture() = %v", counts)
	}
}

func TestEventRepository_Prune(t *testing.T) {
	repo := newTestStore(t).Events()

	old := &Event{Gesture: "move", X: 1, Y: 1, CreatedAt: time.Now().Add(-48 * time.Hour)}
	recent := &Event{Gesture: "move", X: 2, Y: 2}
	for _, e := range []*Event{old, recent} {
		if err := repo.Insert(e); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	pruned, err := repo.Prune(time.Now().Add(-24 * time.Hour))
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if pruned != 1 {
		t.Errorf("Prune() removed %d rows, want 1", pruned)
	}

	events, err := repo.ListRecent(10)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(events) != 1 || events[0].ID != recent.ID {
		t.Errorf("remaining events = %+v", events)
	}
}

func TestSettingsRepository(t *testing.T) {
	repo := newTestStore(t).Settings()

	if _, err := repo.Get("theme"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() on empty store = %v, want ErrNotFound", err)
	}

	if err := repo.Set("theme", "dark"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := repo.Set("theme", "light"); err != nil {
		t.Fatalf("Set() upsert error = %v", err)
	}

	v, err := repo.Get("theme")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if v != "light" {
		t.Errorf("Get() = %q, want %q", v, "light")
	}

	if err := repo.Set("enabled", "true"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	all, err := repo.All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(all) != 2 || all["theme"] != "light" || all["enabled"] != "true" {
		t.Errorf("All() = %v", all)
	}

	if err := repo.Delete("theme"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.Get("theme"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete = %v, want ErrNotFound", err)
	}
	if err := repo.Delete("theme"); err != nil {
		t.Errorf("Delete() of missing key = %v, want nil", err)
	}
}
