// Package config loads and validates the application configuration
// from a YAML file, falling back to built-in defaults for anything
// the file does not set.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ayusman/mudra/internal/gesture"
)

// Config is the root of the application configuration.
type Config struct {
	Camera   CameraConfig   `yaml:"camera"`
	Detector DetectorConfig `yaml:"detector"`
	Gesture  GestureConfig  `yaml:"gesture"`
	Filter   FilterConfig   `yaml:"filter"`
	Screen   ScreenConfig   `yaml:"screen"`
	Server   ServerConfig   `yaml:"server"`
	Plugins  PluginsConfig  `yaml:"plugins"`
	Storage  StorageConfig  `yaml:"storage"`
}

// CameraConfig selects the capture device and pipeline frame rates.
type CameraConfig struct {
	DeviceID        int     `yaml:"device_id"`
	IdleFPS         int     `yaml:"idle_fps"`
	ActiveFPS       int     `yaml:"active_fps"`
	MotionThreshold float64 `yaml:"motion_threshold"` // percent of changed pixels
}

// DetectorConfig tunes the hand landmark detector.
type DetectorConfig struct {
	MaxHands        int     `yaml:"max_hands"`
	MinConfidence   float64 `yaml:"min_confidence"`
	MinTrackingConf float64 `yaml:"min_tracking_confidence"`
}

// GestureConfig holds the recognizer thresholds. Durations are in
// seconds to keep the file human-editable.
type GestureConfig struct {
	PinchThreshold       float64 `yaml:"pinch_threshold"`
	VHoldSeconds         float64 `yaml:"v_hold_seconds"`
	PalmHoldSeconds      float64 `yaml:"palm_hold_seconds"`
	DoubleClickSeconds   float64 `yaml:"double_click_seconds"`
	SwipeThresholdX      float64 `yaml:"swipe_threshold_x"`
	SwipeDebounceSeconds float64 `yaml:"swipe_debounce_seconds"`
}

// FilterConfig selects and tunes the pointer smoothing filter.
// Type is "moving_average" or "kalman".
type FilterConfig struct {
	Type          string  `yaml:"type"`
	WindowSize    int     `yaml:"window_size"`
	KalmanDT      float64 `yaml:"kalman_dt"`
	KalmanProcess float64 `yaml:"kalman_process_noise"`
	KalmanMeasure float64 `yaml:"kalman_measure_noise"`
}

// ScreenConfig describes the target screen for pointer mapping.
type ScreenConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	Margin int `yaml:"margin"`
}

// ServerConfig configures the local HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// PluginsConfig points at the actuator plugin directory.
type PluginsConfig struct {
	Dir string `yaml:"dir"`
}

// StorageConfig points at the SQLite database file.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// Filter type names accepted in FilterConfig.Type.
const (
	FilterMovingAverage = "moving_average"
	FilterKalman        = "kalman"
)

// Default returns the built-in configuration. Paths under the user's
// home directory are resolved lazily by the callers that use them.
func Default() *Config {
	return &Config{
		Camera: CameraConfig{
			DeviceID:        0,
			IdleFPS:         5,
			ActiveFPS:       15,
			MotionThreshold: 1.0,
		},
		Detector: DetectorConfig{
			MaxHands:        1,
			MinConfidence:   0.6,
			MinTrackingConf: 0.5,
		},
		Gesture: GestureConfig{
			PinchThreshold:       gesture.DefaultPinchThreshold,
			VHoldSeconds:         gesture.DefaultVHoldDuration.Seconds(),
			PalmHoldSeconds:      gesture.DefaultPalmHoldDuration.Seconds(),
			DoubleClickSeconds:   gesture.DefaultDoubleClickInterval.Seconds(),
			SwipeThresholdX:      gesture.DefaultSwipeThresholdX,
			SwipeDebounceSeconds: gesture.DefaultSwipeDebounce.Seconds(),
		},
		Filter: FilterConfig{
			Type:          FilterMovingAverage,
			WindowSize:    5,
			KalmanDT:      1.0 / 15.0,
			KalmanProcess: 1e-3,
			KalmanMeasure: 5e-3,
		},
		Screen: ScreenConfig{
			Width:  1920,
			Height: 1080,
			Margin: 0,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8721",
		},
		Plugins: PluginsConfig{},
		Storage: StorageConfig{},
	}
}

// Load reads path, overlays it on the defaults, and validates the
// result. A missing file is not an error: the defaults are returned so
// a fresh install runs without any configuration.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// DefaultPath returns the conventional config file location,
// ~/.mudra/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".mudra", "config.yaml"), nil
}

// Validate checks cross-field constraints that yaml parsing cannot.
func (c *Config) Validate() error {
	if c.Camera.IdleFPS <= 0 || c.Camera.ActiveFPS <= 0 {
		return errors.New("camera frame rates must be positive")
	}
	if c.Camera.IdleFPS > c.Camera.ActiveFPS {
		return errors.New("camera idle_fps must not exceed active_fps")
	}
	if c.Detector.MaxHands < 1 {
		return errors.New("detector max_hands must be at least 1")
	}
	if c.Gesture.PinchThreshold <= 0 {
		return errors.New("gesture pinch_threshold must be positive")
	}
	if c.Gesture.VHoldSeconds <= 0 || c.Gesture.PalmHoldSeconds <= 0 {
		return errors.New("gesture hold durations must be positive")
	}
	if c.Gesture.DoubleClickSeconds <= 0 {
		return errors.New("gesture double_click_seconds must be positive")
	}
	if c.Gesture.SwipeThresholdX <= 0 {
		return errors.New("gesture swipe_threshold_x must be positive")
	}

	switch c.Filter.Type {
	case FilterMovingAverage:
		if c.Filter.WindowSize < 1 {
			return errors.New("filter window_size must be at least 1")
		}
	case FilterKalman:
		if c.Filter.KalmanDT <= 0 || c.Filter.KalmanProcess <= 0 || c.Filter.KalmanMeasure <= 0 {
			return errors.New("kalman parameters must be positive")
		}
	default:
		return fmt.Errorf("unknown filter type %q", c.Filter.Type)
	}

	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return errors.New("screen dimensions must be positive")
	}
	if c.Screen.Margin < 0 {
		return errors.New("screen margin must not be negative")
	}
	if 2*c.Screen.Margin >= c.Screen.Width || 2*c.Screen.Margin >= c.Screen.Height {
		return errors.New("screen margin leaves no usable area")
	}
	if c.Server.Addr == "" {
		return errors.New("server addr must not be empty")
	}

	return nil
}

// RecognizerConfig converts the gesture section into the recognizer's
// native form.
func (c *Config) RecognizerConfig() gesture.Config {
	return gesture.Config{
		PinchThreshold:      c.Gesture.PinchThreshold,
		VHoldDuration:       secondsToDuration(c.Gesture.VHoldSeconds),
		PalmHoldDuration:    secondsToDuration(c.Gesture.PalmHoldSeconds),
		DoubleClickInterval: secondsToDuration(c.Gesture.DoubleClickSeconds),
		SwipeThresholdX:     c.Gesture.SwipeThresholdX,
		SwipeDebounce:       secondsToDuration(c.Gesture.SwipeDebounceSeconds),
	}
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
