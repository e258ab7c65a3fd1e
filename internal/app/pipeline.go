package app

import (
	"log"
	"time"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/session"
)

// runPipeline is the main loop: read a frame, gate on motion, detect
// the hand, advance the tracking session, and fan the output out to
// the actuators and the mailbox.
//
// The loop idles at the low frame rate until motion wakes it up, then
// runs detection at the active rate. When neither motion nor a hand
// has been seen for idleTimeout it drops back to idle. Losing the hand
// mid-drag is handled by the session, which releases the drag.
func (a *App) runPipeline(stopCh chan struct{}) {
	idleFPS := a.cfg.Camera.IdleFPS
	activeFPS := a.cfg.Camera.ActiveFPS

	activeMode := false
	lastActivity := time.Now()

	interval := time.Second / time.Duration(idleFPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.Camera().ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			motion, _ := a.motion.Detect(frame)
			if motion {
				lastActivity = time.Now()
				if !activeMode {
					activeMode = true
					a.Camera().SetFPS(activeFPS)
					ticker.Reset(time.Second / time.Duration(activeFPS))
					log.Println("Switched to active mode")
				}
			}

			if !activeMode {
				frame.Close()
				continue
			}

			hands, err := a.Detector().Detect(frame)
			frame.Close()
			if err != nil {
				log.Printf("Error detecting hands: %v", err)
				continue
			}

			out := a.step(hands)
			a.outputs.Put(out)
			a.dispatch.Dispatch(out)

			if out.HandPresent {
				lastActivity = time.Now()
			} else if time.Since(lastActivity) > idleTimeout {
				activeMode = false
				a.Camera().SetFPS(idleFPS)
				ticker.Reset(time.Second / time.Duration(idleFPS))
				a.motion.Reset()
				log.Println("Switched to idle mode")
			}
		}
	}
}

// step advances the tracking session by one frame's worth of hands
// and updates the status snapshot.
func (a *App) step(hands []detector.HandLandmarks) session.Output {
	var hand *detector.HandLandmarks
	if len(hands) > 0 {
		hand = &hands[0]
	}

	a.mu.Lock()
	sess := a.session
	a.mu.Unlock()

	out := sess.Tick(hand)

	a.mu.Lock()
	a.handPresent = out.HandPresent
	a.lastGesture = out.Event
	a.mu.Unlock()

	return out
}
