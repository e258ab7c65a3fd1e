package capture

import (
	"errors"
	"sync"

	"gocv.io/x/gocv"
)

// ErrNoMoreFrames is returned by a non-looping MockCamera once its
// frame sequence is exhausted.
var ErrNoMoreFrames = errors.New("no more frames")

// MockCamera plays back a fixed frame sequence for tests.
type MockCamera struct {
	mu     sync.Mutex
	frames []*gocv.Mat
	index  int
	loop   bool
	open   bool
}

// NewMockCamera creates a camera that replays frames in order. With
// loop set it wraps around instead of running out.
func NewMockCamera(frames []*gocv.Mat, loop bool) *MockCamera {
	return &MockCamera{
		frames: frames,
		loop:   loop,
	}
}

func (c *MockCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = true
	c.index = 0
	return nil
}

func (c *MockCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = false
	return nil
}

func (c *MockCamera) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.open {
		return nil, ErrCameraNotOpen
	}
	if len(c.frames) == 0 {
		return nil, ErrNoMoreFrames
	}
	if c.index >= len(c.frames) {
		if !c.loop {
			return nil, ErrNoMoreFrames
		}
		c.index = 0
	}

	// Clone so callers can Close their copy freely.
	frame := c.frames[c.index].Clone()
	c.index++

	return &frame, nil
}

func (c *MockCamera) SetFPS(fps int) {}
func (c *MockCamera) FPS() int       { return 15 }

func (c *MockCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// SetFrames replaces the playback sequence and restarts it.
func (c *MockCamera) SetFrames(frames []*gocv.Mat) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = frames
	c.index = 0
}

// Rewind restarts playback from the first frame.
func (c *MockCamera) Rewind() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = 0
}
