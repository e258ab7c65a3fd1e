package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands []HandLandmarks
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Pose fixtures below model the four hand poses the recognizer cares about.
// Coordinates follow the image convention: Y grows downward, so an extended
// finger has its tip Y below (numerically less than) its PIP Y.

// PinchLandmarks returns a hand with thumb tip and index tip touching and
// the remaining fingers curled.
func PinchLandmarks() HandLandmarks {
	lm := baseHand()

	lm.Points[ThumbCMC] = Point3D{X: 0.54, Y: 0.72}
	lm.Points[ThumbMCP] = Point3D{X: 0.55, Y: 0.64}
	lm.Points[ThumbIP] = Point3D{X: 0.53, Y: 0.56}
	lm.Points[ThumbTip] = Point3D{X: 0.50, Y: 0.50}

	lm.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.66}
	lm.Points[IndexPIP] = Point3D{X: 0.54, Y: 0.58}
	lm.Points[IndexDIP] = Point3D{X: 0.53, Y: 0.53}
	lm.Points[IndexTip] = Point3D{X: 0.52, Y: 0.50}

	curlFinger(&lm, MiddleMCP, 0.50)
	curlFinger(&lm, RingMCP, 0.45)
	curlFinger(&lm, PinkyMCP, 0.40)

	return lm
}

// VSignLandmarks returns a hand with index and middle fingers extended,
// ring and pinky curled, and the thumb well away from the index tip.
func VSignLandmarks() HandLandmarks {
	lm := baseHand()

	lm.Points[ThumbCMC] = Point3D{X: 0.56, Y: 0.75}
	lm.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.72}
	lm.Points[ThumbIP] = Point3D{X: 0.67, Y: 0.68}
	lm.Points[ThumbTip] = Point3D{X: 0.70, Y: 0.65}

	extendFinger(&lm, IndexMCP, 0.57)
	extendFinger(&lm, MiddleMCP, 0.50)
	curlFinger(&lm, RingMCP, 0.44)
	curlFinger(&lm, PinkyMCP, 0.38)

	return lm
}

// OpenPalmLandmarks returns a hand with all four fingers extended and the
// thumb spread to the side.
func OpenPalmLandmarks() HandLandmarks {
	lm := baseHand()

	lm.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	lm.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	lm.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	lm.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	extendFinger(&lm, IndexMCP, 0.57)
	extendFinger(&lm, MiddleMCP, 0.50)
	extendFinger(&lm, RingMCP, 0.44)
	extendFinger(&lm, PinkyMCP, 0.38)

	return lm
}

// RelaxedLandmarks returns a hand with every finger curled and no pinch:
// the pose the recognizer classifies as plain cursor movement.
func RelaxedLandmarks() HandLandmarks {
	lm := baseHand()

	lm.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.76}
	lm.Points[ThumbMCP] = Point3D{X: 0.60, Y: 0.74}
	lm.Points[ThumbIP] = Point3D{X: 0.63, Y: 0.73}
	lm.Points[ThumbTip] = Point3D{X: 0.65, Y: 0.72}

	curlFinger(&lm, IndexMCP, 0.57)
	curlFinger(&lm, MiddleMCP, 0.50)
	curlFinger(&lm, RingMCP, 0.44)
	curlFinger(&lm, PinkyMCP, 0.38)

	return lm
}

// Translate returns a copy of lm with every landmark shifted by (dx, dy).
// Used to simulate whole-hand motion such as swipes.
func Translate(lm HandLandmarks, dx, dy float64) HandLandmarks {
	out := lm
	for i := 0; i < NumLandmarks; i++ {
		out.Points[i].X += dx
		out.Points[i].Y += dy
	}
	return out
}

func baseHand() HandLandmarks {
	lm := HandLandmarks{
		Tracked:    NumLandmarks,
		Handedness: "Right",
		Score:      0.95,
	}
	lm.Points[Wrist] = Point3D{X: 0.5, Y: 0.8}
	return lm
}

// extendFinger fills the MCP/PIP/DIP/Tip chain starting at mcpID with the
// tip above the PIP (finger up).
func extendFinger(lm *HandLandmarks, mcpID int, x float64) {
	lm.Points[mcpID] = Point3D{X: x, Y: 0.68}
	lm.Points[mcpID+1] = Point3D{X: x, Y: 0.55}
	lm.Points[mcpID+2] = Point3D{X: x, Y: 0.45}
	lm.Points[mcpID+3] = Point3D{X: x, Y: 0.35}
}

// curlFinger fills the MCP/PIP/DIP/Tip chain starting at mcpID with the
// tip folded below the PIP (finger down).
func curlFinger(lm *HandLandmarks, mcpID int, x float64) {
	lm.Points[mcpID] = Point3D{X: x, Y: 0.68}
	lm.Points[mcpID+1] = Point3D{X: x, Y: 0.64}
	lm.Points[mcpID+2] = Point3D{X: x - 0.02, Y: 0.68}
	lm.Points[mcpID+3] = Point3D{X: x - 0.03, Y: 0.71}
}
