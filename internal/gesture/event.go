// Package gesture recognizes pointer-control gestures from hand landmarks.
package gesture

// Gesture is the event emitted by the recognizer for a single tick.
type Gesture int

const (
	// None means no hand is present and nothing fired.
	None Gesture = iota
	// Move means a hand is present but no discrete gesture fired;
	// the cursor should track the control landmark.
	Move
	// LeftClick is a short pinch-and-release. The recognizer itself
	// reports pinch releases as DragEnd; LeftClick exists so actuator
	// bindings can cover the full vocabulary.
	LeftClick
	// RightClick fires after a V sign has been held for the configured duration.
	RightClick
	// DoubleClick fires on the second of two quick pinch releases.
	DoubleClick
	// DragStart fires on the pinch rising edge (button down).
	DragStart
	// DragEnd fires on the pinch falling edge (button up).
	DragEnd
	// TabNext fires on a rightward open-palm swipe.
	TabNext
	// TabPrev fires on a leftward open-palm swipe.
	TabPrev
	// SwitchWindow fires after an open palm has been held still for the
	// configured duration.
	SwitchWindow

	// Transient labels. These report a gesture in progress and must not
	// trigger an actuator action.
	Pinching
	HoldingV
	HoldingPalm
)

var gestureNames = map[Gesture]string{
	None:         "none",
	Move:         "move",
	LeftClick:    "left_click",
	RightClick:   "right_click",
	DoubleClick:  "double_click",
	DragStart:    "drag_start",
	DragEnd:      "drag_end",
	TabNext:      "tab_next",
	TabPrev:      "tab_prev",
	SwitchWindow: "switch_window",
	Pinching:     "pinching",
	HoldingV:     "holding_v",
	HoldingPalm:  "holding_palm",
}

// String returns the snake_case name used in logs, the event store and the API.
func (g Gesture) String() string {
	if name, ok := gestureNames[g]; ok {
		return name
	}
	return "unknown"
}

// Transient reports whether g is an in-progress label rather than a fired action.
func (g Gesture) Transient() bool {
	return g == Pinching || g == HoldingV || g == HoldingPalm
}

// Actionable reports whether an actuator should respond to g.
// Move counts: it carries the cursor position for this tick.
func (g Gesture) Actionable() bool {
	return g != None && !g.Transient()
}
