// Package app wires the capture, detection, tracking, and actuation
// pieces into the running pointer-control pipeline.
package app

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/cursor"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/filter"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/session"
	"github.com/ayusman/mudra/internal/store"
)

// idleTimeout is how long the pipeline stays in active mode after the
// last motion before dropping back to the idle frame rate.
const idleTimeout = 2 * time.Second

// App orchestrates the pointer-control pipeline.
type App struct {
	cfg      *config.Config
	store    *store.Store
	camera   capture.Camera
	motion   *capture.MotionDetector
	session  *session.Session
	outputs  *session.Mailbox[session.Output]
	dispatch *dispatcher

	mu          sync.RWMutex
	detector    detector.Detector
	enabled     bool
	stopCh      chan struct{}
	handPresent bool
	lastGesture gesture.Gesture
}

// New builds an App from the configuration. The store may be nil, in
// which case no event history is recorded.
func New(cfg *config.Config, st *store.Store) (*App, error) {
	sess, err := buildSession(cfg)
	if err != nil {
		return nil, err
	}

	mgr := plugin.NewManager(cfg.Plugins.Dir)
	a := &App{
		cfg:      cfg,
		store:    st,
		camera:   capture.NewCamera(cfg.Camera.DeviceID),
		motion:   capture.NewMotionDetector(cfg.Camera.MotionThreshold),
		session:  sess,
		outputs:  session.NewMailbox[session.Output](),
		dispatch: newDispatcher(mgr, plugin.NewExecutor(plugin.DefaultTimeout), st),
	}

	// Prefer the MediaPipe service, fall back to the mock detector so
	// the rest of the app stays usable without it.
	if mp, err := detector.NewMediaPipeDetector(detectorConfig(cfg)); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a, nil
}

// buildSession assembles the recognizer, screen mapper, and smoothing
// filter described by the configuration.
func buildSession(cfg *config.Config) (*session.Session, error) {
	mapper, err := cursor.NewMapper(cfg.Screen.Width, cfg.Screen.Height, cfg.Screen.Margin)
	if err != nil {
		return nil, fmt.Errorf("building screen mapper: %w", err)
	}

	var smooth filter.Filter
	switch cfg.Filter.Type {
	case config.FilterKalman:
		smooth, err = filter.NewKalman(cfg.Filter.KalmanDT, cfg.Filter.KalmanProcess, cfg.Filter.KalmanMeasure)
	default:
		smooth, err = filter.NewMovingAverage(cfg.Filter.WindowSize)
	}
	if err != nil {
		return nil, fmt.Errorf("building smoothing filter: %w", err)
	}

	recognizer := gesture.NewRecognizer(cfg.RecognizerConfig())
	return session.New(recognizer, cursor.NewController(mapper, smooth)), nil
}

func detectorConfig(cfg *config.Config) detector.Config {
	return detector.Config{
		MaxHands:        cfg.Detector.MaxHands,
		MinConfidence:   cfg.Detector.MinConfidence,
		MinTrackingConf: cfg.Detector.MinTrackingConf,
	}
}

// ApplyProfile overlays a stored profile onto the running session.
// The pipeline picks up the new recognizer and filter on its next tick.
func (a *App) ApplyProfile(p *store.Profile) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("applying profile %s: %w", p.Name, err)
	}

	cfg := *a.cfg
	cfg.Gesture.PinchThreshold = p.PinchThreshold
	cfg.Gesture.VHoldSeconds = p.VHoldSeconds
	cfg.Gesture.PalmHoldSeconds = p.PalmHoldSeconds
	cfg.Gesture.DoubleClickSeconds = p.DoubleClickSeconds
	cfg.Gesture.SwipeThresholdX = p.SwipeThresholdX
	cfg.Gesture.SwipeDebounceSeconds = p.SwipeDebounceSeconds
	cfg.Filter.Type = p.FilterType
	if p.FilterWindow > 0 {
		cfg.Filter.WindowSize = p.FilterWindow
	}

	sess, err := buildSession(&cfg)
	if err != nil {
		return fmt.Errorf("applying profile %s: %w", p.Name, err)
	}

	a.mu.Lock()
	*a.cfg = cfg
	a.session = sess
	a.mu.Unlock()

	log.Printf("Applied profile %q", p.Name)
	return nil
}

// SetEnabled enables or disables pointer control. While disabled the
// pipeline keeps running but emits nothing.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether pointer control is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector swaps the hand detector implementation.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera swaps the frame source. Intended for tests.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// Detector returns the current hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// Camera returns the frame source.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// Outputs returns the mailbox carrying the most recent pointer output.
func (a *App) Outputs() *session.Mailbox[session.Output] {
	return a.outputs
}

// PluginManager returns the actuator manager.
func (a *App) PluginManager() *plugin.Manager {
	return a.dispatch.manager
}

// DiscoverPlugins scans the actuator directory.
func (a *App) DiscoverPlugins() error {
	if err := a.dispatch.manager.Discover(); err != nil {
		return err
	}
	log.Printf("Discovered %d actuators", len(a.dispatch.manager.List()))
	return nil
}

// Status implements server.StatusProvider.
func (a *App) Status() server.Status {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return server.Status{
		Enabled:     a.enabled,
		HandPresent: a.handPresent,
		FPS:         a.camera.FPS(),
		LastGesture: a.lastGesture.String(),
	}
}

// Start opens the camera and launches the pipeline goroutine.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(a.cfg.Camera.IdleFPS)

	a.stopCh = make(chan struct{})
	go a.runPipeline(a.stopCh)

	log.Println("Pointer pipeline started")
	return nil
}

// Stop halts the pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.motion.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Pointer pipeline stopped")
}
