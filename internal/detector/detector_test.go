package detector

import (
	"errors"
	"math"
	"testing"
)

func TestHandLandmarks_Point(t *testing.T) {
	lm := OpenPalmLandmarks()

	t.Run("tracked landmark", func(t *testing.T) {
		p, ok := lm.Point(IndexTip)
		if !ok {
			t.Fatal("expected IndexTip to be tracked")
		}
		if p.X == 0 && p.Y == 0 {
			t.Error("expected non-zero IndexTip position")
		}
	})

	t.Run("out of range", func(t *testing.T) {
		if _, ok := lm.Point(-1); ok {
			t.Error("expected false for negative index")
		}
		if _, ok := lm.Point(NumLandmarks); ok {
			t.Error("expected false for index past the last landmark")
		}
	})

	t.Run("partial set", func(t *testing.T) {
		partial := lm
		partial.Tracked = IndexTip // wrist through thumb only

		if _, ok := partial.Point(Wrist); !ok {
			t.Error("expected Wrist to be available in partial set")
		}
		if _, ok := partial.Point(IndexTip); ok {
			t.Error("expected IndexTip to be unavailable in partial set")
		}
		if partial.Complete() {
			t.Error("partial set must not report Complete")
		}
	})

	t.Run("nil receiver", func(t *testing.T) {
		var nilHand *HandLandmarks
		if _, ok := nilHand.Point(Wrist); ok {
			t.Error("expected false for nil hand")
		}
	})
}

func TestPoseFixtures(t *testing.T) {
	up := func(lm HandLandmarks, tip, pip int) bool {
		return lm.Points[tip].Y < lm.Points[pip].Y
	}
	pinchDist := func(lm HandLandmarks) float64 {
		dx := lm.Points[ThumbTip].X - lm.Points[IndexTip].X
		dy := lm.Points[ThumbTip].Y - lm.Points[IndexTip].Y
		return math.Hypot(dx, dy)
	}

	tests := []struct {
		name     string
		hand     HandLandmarks
		pinching bool
		fingers  [4]bool // index, middle, ring, pinky extended
	}{
		{"pinch", PinchLandmarks(), true, [4]bool{true, false, false, false}},
		{"v sign", VSignLandmarks(), false, [4]bool{true, true, false, false}},
		{"open palm", OpenPalmLandmarks(), false, [4]bool{true, true, true, true}},
		{"relaxed", RelaxedLandmarks(), false, [4]bool{false, false, false, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.hand.Complete() {
				t.Fatal("fixture must track all landmarks")
			}

			if got := pinchDist(tt.hand) < 0.06; got != tt.pinching {
				t.Errorf("pinch distance %.3f: pinching = %v, want %v",
					pinchDist(tt.hand), got, tt.pinching)
			}

			pairs := [4][2]int{
				{IndexTip, IndexPIP},
				{MiddleTip, MiddlePIP},
				{RingTip, RingPIP},
				{PinkyTip, PinkyPIP},
			}
			for i, pair := range pairs {
				if got := up(tt.hand, pair[0], pair[1]); got != tt.fingers[i] {
					t.Errorf("finger %d extended = %v, want %v", i, got, tt.fingers[i])
				}
			}
		})
	}
}

func TestTranslate(t *testing.T) {
	lm := OpenPalmLandmarks()
	moved := Translate(lm, 0.1, -0.05)

	for i := 0; i < NumLandmarks; i++ {
		wantX := lm.Points[i].X + 0.1
		wantY := lm.Points[i].Y - 0.05
		if math.Abs(moved.Points[i].X-wantX) > 1e-12 || math.Abs(moved.Points[i].Y-wantY) > 1e-12 {
			t.Fatalf("landmark %d = (%f, %f), want (%f, %f)",
				i, moved.Points[i].X, moved.Points[i].Y, wantX, wantY)
		}
	}

	// The original must be untouched.
	if lm.Points[Wrist].X != 0.5 {
		t.Error("Translate must not mutate its input")
	}
}

func TestMockDetector(t *testing.T) {
	mock := NewMockDetector()

	t.Run("returns configured hands", func(t *testing.T) {
		mock.SetHands([]HandLandmarks{OpenPalmLandmarks()})
		hands, err := mock.Detect(nil)
		if err != nil {
			t.Fatalf("Detect() error = %v", err)
		}
		if len(hands) != 1 {
			t.Fatalf("expected 1 hand, got %d", len(hands))
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		wantErr := errors.New("boom")
		mock.SetError(wantErr)
		if _, err := mock.Detect(nil); !errors.Is(err, wantErr) {
			t.Errorf("Detect() error = %v, want %v", err, wantErr)
		}
	})
}

func TestWireHandConversion(t *testing.T) {
	t.Run("complete hand", func(t *testing.T) {
		points := make([]Point3D, NumLandmarks)
		for i := range points {
			points[i] = Point3D{X: float64(i) * 0.01, Y: 0.5}
		}
		wh := wireHand{Points: points, Handedness: "Left", Score: 0.9}

		lm := wh.toHandLandmarks()
		if !lm.Complete() {
			t.Error("expected complete landmark set")
		}
		if lm.Handedness != "Left" || lm.Score != 0.9 {
			t.Errorf("metadata not carried over: %+v", lm)
		}
	})

	t.Run("short hand keeps tracked count", func(t *testing.T) {
		wh := wireHand{Points: make([]Point3D, 5)}
		lm := wh.toHandLandmarks()
		if lm.Tracked != 5 {
			t.Errorf("Tracked = %d, want 5", lm.Tracked)
		}
		if _, ok := lm.Point(IndexPIP); ok {
			t.Error("landmark past the tracked count must be unavailable")
		}
	})

	t.Run("oversized hand is truncated", func(t *testing.T) {
		wh := wireHand{Points: make([]Point3D, NumLandmarks+4)}
		lm := wh.toHandLandmarks()
		if lm.Tracked != NumLandmarks {
			t.Errorf("Tracked = %d, want %d", lm.Tracked, NumLandmarks)
		}
	})
}
