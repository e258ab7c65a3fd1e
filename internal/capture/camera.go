// Package capture reads video frames from a camera device using GoCV
// (OpenCV) and gates the downstream pipeline with frame-difference
// motion detection.
package capture

import (
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Default capture settings. The resolution is kept low on purpose:
// hand landmark detection does not benefit from more pixels and the
// pipeline runs at interactive rates on 640x480 input.
const (
	DefaultFPS    = 5
	DefaultWidth  = 640
	DefaultHeight = 480
)

// ErrCameraNotOpen is returned when reading from a camera that has not
// been opened or has already been closed.
var ErrCameraNotOpen = errors.New("camera is not open")

// Camera is the frame source for the pipeline. ReadFrame hands
// ownership of the returned Mat to the caller, who must Close it.
type Camera interface {
	Open() error
	Close() error
	ReadFrame() (*gocv.Mat, error)
	SetFPS(fps int)
	FPS() int
	IsOpen() bool
}

// deviceCamera captures from a physical camera device via GoCV.
// Frames are mirrored horizontally so the image behaves like a mirror,
// which is what the landmark detector and the user both expect.
type deviceCamera struct {
	deviceID int

	mu      sync.Mutex
	capture *gocv.VideoCapture
	open    bool
	fps     int
}

// NewCamera creates a Camera for the given device ID. The camera is
// not opened until Open is called.
func NewCamera(deviceID int) Camera {
	return &deviceCamera{
		deviceID: deviceID,
		fps:      DefaultFPS,
	}
}

func (c *deviceCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.open {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(c.deviceID)
	if err != nil {
		return fmt.Errorf("opening camera device %d: %w", c.deviceID, err)
	}

	capture.Set(gocv.VideoCaptureFrameWidth, DefaultWidth)
	capture.Set(gocv.VideoCaptureFrameHeight, DefaultHeight)
	capture.Set(gocv.VideoCaptureFPS, float64(c.fps))

	c.capture = capture
	c.open = true

	return nil
}

func (c *deviceCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.open || c.capture == nil {
		c.open = false
		return nil
	}

	err := c.capture.Close()
	c.capture = nil
	c.open = false

	return err
}

// ReadFrame reads and mirrors a single frame. The caller owns the
// returned Mat and must Close it.
func (c *deviceCamera) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.open || c.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok {
		mat.Close()
		return nil, fmt.Errorf("reading frame from device %d: read failed", c.deviceID)
	}
	if mat.Empty() {
		mat.Close()
		return nil, fmt.Errorf("reading frame from device %d: empty frame", c.deviceID)
	}

	// Mirror around the vertical axis for a selfie view.
	gocv.Flip(mat, &mat, 1)

	return &mat, nil
}

// SetFPS changes the capture rate. Non-positive values are ignored.
// The pipeline uses this to drop to an idle rate when no hand is in
// view and to raise it again while tracking.
func (c *deviceCamera) SetFPS(fps int) {
	if fps <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.fps = fps
	if c.capture != nil {
		c.capture.Set(gocv.VideoCaptureFPS, float64(fps))
	}
}

func (c *deviceCamera) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.fps
}

func (c *deviceCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.open
}
