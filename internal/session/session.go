// Package session composes the per-tick gesture pipeline: one recognizer
// and one cursor controller, owned together for the lifetime of a tracking
// session.
package session

import (
	"github.com/ayusman/mudra/internal/cursor"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
)

// Output is the pair of results a tick produces: the smoothed pointer
// position and exactly one gesture event. When no hand is present the
// position fields hold the last known pointer position.
type Output struct {
	X           int             `json:"x"`
	Y           int             `json:"y"`
	Event       gesture.Gesture `json:"-"`
	EventName   string          `json:"event"`
	HandPresent bool            `json:"hand_present"`
}

// Session owns the recognizer and cursor state for one tracked hand. It
// follows a single-writer discipline: exactly one goroutine may call Tick.
type Session struct {
	recognizer *gesture.Recognizer
	cursor     *cursor.Controller

	// controlLandmark is the landmark the pointer follows. The index
	// fingertip tracks best with MediaPipe; the index MCP is steadier but
	// drifts during pinches.
	controlLandmark int

	lastX, lastY int
}

// New creates a Session from a recognizer and a cursor controller,
// tracking the index fingertip.
func New(r *gesture.Recognizer, c *cursor.Controller) *Session {
	return &Session{
		recognizer:      r,
		cursor:          c,
		controlLandmark: detector.IndexTip,
	}
}

// SetControlLandmark changes which landmark drives the pointer.
func (s *Session) SetControlLandmark(id int) {
	if id >= 0 && id < detector.NumLandmarks {
		s.controlLandmark = id
	}
}

// Tick processes one landmark set (nil when no hand was detected) and
// returns this tick's pointer position and gesture event. The landmark set
// is not retained.
func (s *Session) Tick(hand *detector.HandLandmarks) Output {
	ev := s.recognizer.Recognize(hand)

	out := Output{
		X:         s.lastX,
		Y:         s.lastY,
		Event:     ev,
		EventName: ev.String(),
	}

	if hand == nil {
		return out
	}
	out.HandPresent = true

	if p, ok := hand.Point(s.controlLandmark); ok {
		out.X, out.Y = s.cursor.Update(p.X, p.Y)
		s.lastX, s.lastY = out.X, out.Y
	}

	return out
}

// Reset restores the session to its initial state. A restarted session
// must not reuse stale gesture timers or filter history.
func (s *Session) Reset() {
	s.recognizer.Reset()
	s.cursor.Reset()
	s.lastX, s.lastY = 0, 0
}
