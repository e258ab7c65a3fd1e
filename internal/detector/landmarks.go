// Package detector provides hand detection interfaces and types for gesture recognition.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D is one landmark position. X and Y are normalized to [0,1] by the
// frame width and height; Z is normalized depth, smaller is closer.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks is the landmark set for one detected hand. Points holds the
// 21 MediaPipe landmarks in index order; Tracked is how many of them the
// perception layer actually delivered this tick. A complete set has
// Tracked == NumLandmarks, but consumers must tolerate partial sets.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Tracked    int                   `json:"tracked"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Point returns the landmark with the given index and whether it was
// delivered this tick. Out-of-range or untracked indices return false so
// that gesture predicates degrade instead of reading stale zeros.
func (h *HandLandmarks) Point(id int) (Point3D, bool) {
	if h == nil || id < 0 || id >= NumLandmarks || id >= h.Tracked {
		return Point3D{}, false
	}
	return h.Points[id], true
}

// Complete reports whether every landmark was delivered this tick.
func (h *HandLandmarks) Complete() bool {
	return h != nil && h.Tracked == NumLandmarks
}
