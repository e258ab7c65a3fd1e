package capture

import (
	"errors"
	"testing"
)

func TestNewCamera_Defaults(t *testing.T) {
	cam := NewCamera(0)

	if got := cam.FPS(); got != DefaultFPS {
		t.Errorf("FPS() = %d, want %d", got, DefaultFPS)
	}
	if cam.IsOpen() {
		t.Error("camera must not report open before Open()")
	}
}

func TestCamera_SetFPS(t *testing.T) {
	cam := NewCamera(0)

	tests := []struct {
		name string
		fps  int
		want int
	}{
		{name: "raise to active rate", fps: 15, want: 15},
		{name: "drop to idle rate", fps: 5, want: 5},
		{name: "zero is ignored", fps: 0, want: 5},
		{name: "negative is ignored", fps: -3, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam.SetFPS(tt.fps)
			if got := cam.FPS(); got != tt.want {
				t.Errorf("FPS() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCamera_ReadFrameNotOpen(t *testing.T) {
	cam := NewCamera(0)

	_, err := cam.ReadFrame()
	if !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() error = %v, want ErrCameraNotOpen", err)
	}
}

func TestCamera_CloseNotOpen(t *testing.T) {
	cam := NewCamera(0)

	if err := cam.Close(); err != nil {
		t.Errorf("Close() on an unopened camera = %v, want nil", err)
	}
}

func TestCamera_OpenReadClose(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cam := NewCamera(0)

	if err := cam.Open(); err != nil {
		t.Skipf("camera not available: %v", err)
	}
	if !cam.IsOpen() {
		t.Error("IsOpen() = false after Open()")
	}

	mat, err := cam.ReadFrame()
	if err != nil {
		t.Errorf("ReadFrame() error = %v", err)
	} else {
		if mat.Empty() {
			t.Error("ReadFrame() returned an empty mat")
		}
		mat.Close()
	}

	if err := cam.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if cam.IsOpen() {
		t.Error("IsOpen() = true after Close()")
	}

	if _, err := cam.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() after Close = %v, want ErrCameraNotOpen", err)
	}
}
