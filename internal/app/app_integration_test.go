package app

import (
	"path/filepath"
	"testing"

	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

func newTestApp(t *testing.T) (*App, *store.Store) {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	cfg := config.Default()
	cfg.Plugins.Dir = t.TempDir()

	a, err := New(cfg, s)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	a.SetDetector(detector.NewMockDetector())

	return a, s
}

func TestApp_StepTracksHand(t *testing.T) {
	a, _ := newTestApp(t)
	a.SetEnabled(true)

	hand := detector.RelaxedLandmarks()
	out := a.step([]detector.HandLandmarks{hand})

	if !out.HandPresent {
		t.Error("expected HandPresent")
	}
	if out.Event != gesture.Move {
		t.Errorf("Event = %v, want %v", out.Event, gesture.Move)
	}

	status := a.Status()
	if !status.HandPresent {
		t.Error("status must report the hand")
	}
	if status.LastGesture != "move" {
		t.Errorf("LastGesture = %q, want move", status.LastGesture)
	}
}

func TestApp_StepHandLossReleasesDrag(t *testing.T) {
	a, _ := newTestApp(t)
	a.SetEnabled(true)

	pinch := detector.PinchLandmarks()
	if out := a.step([]detector.HandLandmarks{pinch}); out.Event != gesture.DragStart {
		t.Fatalf("pinch step = %v, want %v", out.Event, gesture.DragStart)
	}

	out := a.step(nil)
	if out.Event != gesture.DragEnd {
		t.Errorf("empty step after pinch = %v, want %v", out.Event, gesture.DragEnd)
	}
	if out.HandPresent {
		t.Error("HandPresent must be false without a hand")
	}
}

func TestApp_StepPublishesToMailbox(t *testing.T) {
	a, _ := newTestApp(t)
	a.SetEnabled(true)

	hand := detector.RelaxedLandmarks()
	out := a.step([]detector.HandLandmarks{hand})
	a.Outputs().Put(out)

	got, ok := a.Outputs().Peek()
	if !ok {
		t.Fatal("mailbox is empty after Put")
	}
	if got != out {
		t.Errorf("mailbox = %+v, want %+v", got, out)
	}
}

func TestApp_DispatchRecordsDiscreteEvents(t *testing.T) {
	a, s := newTestApp(t)
	a.SetEnabled(true)

	// No actuators are installed; Dispatch must still record history.
	pinch := detector.PinchLandmarks()
	a.dispatch.Dispatch(a.step([]detector.HandLandmarks{pinch})) // drag_start
	relaxed := detector.RelaxedLandmarks()
	a.dispatch.Dispatch(a.step([]detector.HandLandmarks{relaxed})) // drag_end
	a.dispatch.Dispatch(a.step([]detector.HandLandmarks{relaxed})) // plain move

	counts, err := s.Events().CountByGesture()
	if err != nil {
		t.Fatalf("CountByGesture() error = %v", err)
	}
	if counts["drag_start"] != 1 || counts["drag_end"] != 1 {
		t.Errorf("counts = %v, want one drag_start and one drag_end", counts)
	}
	if counts["move"] != 0 {
		t.Errorf("moves must not be recorded, got %d", counts["move"])
	}
}

func TestApp_EnableDisable(t *testing.T) {
	a, _ := newTestApp(t)

	if a.IsEnabled() {
		t.Error("app must start disabled")
	}
	a.SetEnabled(true)
	if !a.IsEnabled() {
		t.Error("SetEnabled(true) did not stick")
	}
	a.SetEnabled(false)
	if a.IsEnabled() {
		t.Error("SetEnabled(false) did not stick")
	}
}

func TestApp_ApplyProfile(t *testing.T) {
	a, _ := newTestApp(t)

	p := &store.Profile{
		Name:                 "relaxed",
		PinchThreshold:       0.1,
		VHoldSeconds:         1.0,
		PalmHoldSeconds:      1.5,
		DoubleClickSeconds:   0.5,
		SwipeThresholdX:      0.1,
		SwipeDebounceSeconds: 1.0,
		FilterType:           store.FilterTypeKalman,
	}
	if err := a.ApplyProfile(p); err != nil {
		t.Fatalf("ApplyProfile() error = %v", err)
	}

	if a.cfg.Gesture.PinchThreshold != 0.1 {
		t.Errorf("PinchThreshold = %f, want 0.1", a.cfg.Gesture.PinchThreshold)
	}
	if a.cfg.Filter.Type != config.FilterKalman {
		t.Errorf("Filter.Type = %q, want kalman", a.cfg.Filter.Type)
	}

	// The rebuilt session starts clean: a pinch is a fresh rising edge.
	pinch := detector.PinchLandmarks()
	if out := a.step([]detector.HandLandmarks{pinch}); out.Event != gesture.DragStart {
		t.Errorf("step after profile swap = %v, want %v", out.Event, gesture.DragStart)
	}
}

func TestApp_ApplyProfileInvalid(t *testing.T) {
	a, _ := newTestApp(t)

	p := &store.Profile{
		Name:                 "broken",
		PinchThreshold:       0.06,
		VHoldSeconds:         0.4,
		PalmHoldSeconds:      0.8,
		DoubleClickSeconds:   0.3,
		SwipeThresholdX:      0.07,
		SwipeDebounceSeconds: 0.5,
		FilterType:           "median",
	}
	if err := a.ApplyProfile(p); err == nil {
		t.Error("ApplyProfile() with an unknown filter type must fail")
	}
}

func TestApp_DiscoverPlugins(t *testing.T) {
	a, _ := newTestApp(t)

	if err := a.DiscoverPlugins(); err != nil {
		t.Fatalf("DiscoverPlugins() error = %v", err)
	}
	if n := len(a.PluginManager().List()); n != 0 {
		t.Errorf("List() = %d actuators in an empty dir, want 0", n)
	}
}
