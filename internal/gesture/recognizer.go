package gesture

import (
	"math"
	"time"

	"github.com/ayusman/mudra/internal/detector"
)

// Default thresholds, tuned for a mirrored 640x480 webcam feed.
const (
	DefaultPinchThreshold      = 0.06
	DefaultVHoldDuration       = 400 * time.Millisecond
	DefaultPalmHoldDuration    = 800 * time.Millisecond
	DefaultDoubleClickInterval = 300 * time.Millisecond
	DefaultSwipeThresholdX     = 0.07
	DefaultSwipeDebounce       = 500 * time.Millisecond
)

// Config holds the recognizer thresholds. Distances are in normalized
// image coordinates, durations in wall-clock time.
type Config struct {
	PinchThreshold      float64
	VHoldDuration       time.Duration
	PalmHoldDuration    time.Duration
	DoubleClickInterval time.Duration
	SwipeThresholdX     float64
	SwipeDebounce       time.Duration
}

// DefaultConfig returns a Config with the default thresholds.
func DefaultConfig() Config {
	return Config{
		PinchThreshold:      DefaultPinchThreshold,
		VHoldDuration:       DefaultVHoldDuration,
		PalmHoldDuration:    DefaultPalmHoldDuration,
		DoubleClickInterval: DefaultDoubleClickInterval,
		SwipeThresholdX:     DefaultSwipeThresholdX,
		SwipeDebounce:       DefaultSwipeDebounce,
	}
}

// holdPhase is the lifecycle of a hold-to-fire gesture family.
// A family that has fired stays in holdFired until the pose is released,
// so a one-shot can never repeat within a single engagement.
type holdPhase int

const (
	holdIdle holdPhase = iota
	holdEngaged
	holdFired
)

// pinchState tracks the thumb-to-index pinch family.
type pinchState struct {
	active    bool
	startedAt time.Time
}

// clickState remembers the previous pinch release for double-click pairing.
type clickState struct {
	at    time.Time
	armed bool
}

// vHoldState tracks the index+middle V sign family.
type vHoldState struct {
	phase     holdPhase
	startedAt time.Time
}

// palmState tracks the open-palm family: a static hold fires SwitchWindow,
// a horizontal wrist swipe fires TabNext or TabPrev.
type palmState struct {
	phase     holdPhase
	startedAt time.Time
	wrist     detector.Point3D
	haveWrist bool
}

// Recognizer turns one landmark set per tick into exactly one Gesture.
// It is stateful across ticks and owned by a single tracking session;
// it is not safe for concurrent use.
type Recognizer struct {
	cfg Config
	now func() time.Time

	pinch     pinchState
	lastClick clickState
	vhold     vHoldState
	palm      palmState
	lastSwipe time.Time
}

// NewRecognizer creates a Recognizer with the given thresholds.
func NewRecognizer(cfg Config) *Recognizer {
	return &Recognizer{
		cfg: cfg,
		now: time.Now,
	}
}

// Reset returns the recognizer to its initial state, as required when a
// tracking session restarts.
func (r *Recognizer) Reset() {
	r.pinch = pinchState{}
	r.lastClick = clickState{}
	r.vhold = vHoldState{}
	r.palm = palmState{}
	r.lastSwipe = time.Time{}
}

// Recognize classifies the current tick. A nil hand means no hand was
// detected: if a pinch drag was in progress DragEnd is emitted, otherwise
// None, and every hold latch is cleared so no gesture state survives a
// tracking gap. With a hand present the branches are evaluated in priority
// order pinch > V > palm, falling back to Move.
func (r *Recognizer) Recognize(hand *detector.HandLandmarks) Gesture {
	now := r.now()

	if hand == nil {
		ev := None
		if r.pinch.active {
			ev = DragEnd
		}
		r.pinch = pinchState{}
		r.vhold = vHoldState{}
		r.palm = palmState{}
		return ev
	}

	thumbTip, thumbOK := hand.Point(detector.ThumbTip)
	indexTip, indexOK := hand.Point(detector.IndexTip)
	pinching := false
	if thumbOK && indexOK {
		pinching = planarDistance(thumbTip, indexTip) < r.cfg.PinchThreshold
	}

	ev := r.stepPinch(now, pinching)

	indexUp := fingerUp(hand, detector.IndexTip, detector.IndexPIP)
	middleUp := fingerUp(hand, detector.MiddleTip, detector.MiddlePIP)
	ringUp := fingerUp(hand, detector.RingTip, detector.RingPIP)
	pinkyUp := fingerUp(hand, detector.PinkyTip, detector.PinkyPIP)

	vPose := indexUp && middleUp && !ringUp && !pinkyUp && !pinching
	if e := r.stepVHold(now, vPose); ev == None {
		ev = e
	}

	palmPose := indexUp && middleUp && ringUp && pinkyUp && !pinching && !vPose
	wrist, wristOK := hand.Point(detector.Wrist)
	if e := r.stepPalm(now, palmPose, wrist, wristOK); ev == None {
		ev = e
	}

	if ev == None {
		ev = Move
	}
	return ev
}

// stepPinch advances the pinch family one tick.
func (r *Recognizer) stepPinch(now time.Time, pinching bool) Gesture {
	switch {
	case pinching && !r.pinch.active:
		r.pinch = pinchState{active: true, startedAt: now}
		return DragStart

	case !pinching && r.pinch.active:
		r.pinch = pinchState{}
		if r.lastClick.armed && now.Sub(r.lastClick.at) < r.cfg.DoubleClickInterval {
			r.lastClick = clickState{}
			return DoubleClick
		}
		r.lastClick = clickState{at: now, armed: true}
		return DragEnd

	case pinching:
		return Pinching
	}
	return None
}

// stepVHold advances the V-sign family one tick.
func (r *Recognizer) stepVHold(now time.Time, pose bool) Gesture {
	if !pose {
		r.vhold = vHoldState{}
		return None
	}

	switch r.vhold.phase {
	case holdIdle:
		r.vhold = vHoldState{phase: holdEngaged, startedAt: now}
		return HoldingV
	case holdEngaged:
		if now.Sub(r.vhold.startedAt) >= r.cfg.VHoldDuration {
			r.vhold.phase = holdFired
			return RightClick
		}
		return HoldingV
	default: // holdFired: wait for release
		return HoldingV
	}
}

// stepPalm advances the open-palm family one tick. While engaged a swipe
// check runs before the static-hold check; whichever fires consumes the
// engagement, and the palm must be released before anything can fire again.
func (r *Recognizer) stepPalm(now time.Time, pose bool, wrist detector.Point3D, wristOK bool) Gesture {
	if !pose {
		r.palm = palmState{}
		return None
	}

	switch r.palm.phase {
	case holdIdle:
		r.palm = palmState{phase: holdEngaged, startedAt: now, wrist: wrist, haveWrist: wristOK}
		return HoldingPalm

	case holdEngaged:
		if wristOK && r.palm.haveWrist && now.Sub(r.lastSwipe) > r.cfg.SwipeDebounce {
			dx := wrist.X - r.palm.wrist.X
			if dx > r.cfg.SwipeThresholdX {
				r.palm.phase = holdFired
				r.lastSwipe = now
				return TabNext
			}
			if dx < -r.cfg.SwipeThresholdX {
				r.palm.phase = holdFired
				r.lastSwipe = now
				return TabPrev
			}
		}

		if now.Sub(r.palm.startedAt) >= r.cfg.PalmHoldDuration {
			r.palm.phase = holdFired
			return SwitchWindow
		}

		// Track the wrist for the next tick's displacement check.
		if wristOK {
			r.palm.wrist = wrist
			r.palm.haveWrist = true
		}
		return HoldingPalm

	default: // holdFired: wait for release
		return HoldingPalm
	}
}

// fingerUp reports whether a finger is extended: its tip sits above its
// PIP joint in image coordinates (smaller Y is higher). Missing landmarks
// make the predicate false rather than failing the tick.
func fingerUp(hand *detector.HandLandmarks, tipID, pipID int) bool {
	tip, tipOK := hand.Point(tipID)
	pip, pipOK := hand.Point(pipID)
	if !tipOK || !pipOK {
		return false
	}
	return tip.Y < pip.Y
}

// planarDistance is the Euclidean distance between two landmarks in the
// normalized image plane, ignoring depth.
func planarDistance(a, b detector.Point3D) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
