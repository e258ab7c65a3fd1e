package app

import (
	"errors"
	"log"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/session"
	"github.com/ayusman/mudra/internal/store"
)

// actionFor maps each gesture to the actuator action that performs it.
// Transient gestures and None have no action. Pinching maps to move so
// the pointer keeps tracking while a drag is held.
var actionFor = map[gesture.Gesture]string{
	gesture.Move:         "move",
	gesture.Pinching:     "move",
	gesture.LeftClick:    "click",
	gesture.DoubleClick:  "doubleclick",
	gesture.RightClick:   "rightclick",
	gesture.DragStart:    "down",
	gesture.DragEnd:      "up",
	gesture.TabNext:      "tab-next",
	gesture.TabPrev:      "tab-prev",
	gesture.SwitchWindow: "switch-window",
}

// dispatcher routes pointer output to actuators and records one-shot
// gestures in the event history.
type dispatcher struct {
	manager  *plugin.Manager
	executor *plugin.Executor
	store    *store.Store
}

func newDispatcher(m *plugin.Manager, e *plugin.Executor, st *store.Store) *dispatcher {
	return &dispatcher{
		manager:  m,
		executor: e,
		store:    st,
	}
}

// Dispatch performs the actuator action for one output and logs it to
// the event history. Continuous moves are not recorded, only the
// discrete gestures.
func (d *dispatcher) Dispatch(out session.Output) {
	action, ok := actionFor[out.Event]
	if !ok {
		return
	}

	d.record(out)

	p, err := d.manager.FindByAction(action)
	if err != nil {
		if !errors.Is(err, plugin.ErrPluginNotFound) {
			log.Printf("Looking up actuator for %s: %v", action, err)
		}
		return
	}

	resp, err := d.executor.Execute(p, &plugin.Request{
		Action:  action,
		Gesture: out.EventName,
		X:       out.X,
		Y:       out.Y,
	})
	if err != nil {
		log.Printf("Actuator %s failed: %v", p.Manifest.Name, err)
		return
	}
	if !resp.Success {
		log.Printf("Actuator %s rejected %s: %s", p.Manifest.Name, action, resp.Error)
	}
}

// record inserts discrete gestures into the event history.
func (d *dispatcher) record(out session.Output) {
	if d.store == nil {
		return
	}
	if out.Event == gesture.Move || out.Event == gesture.Pinching {
		return
	}

	err := d.store.Events().Insert(&store.Event{
		Gesture: out.EventName,
		X:       out.X,
		Y:       out.Y,
	})
	if err != nil {
		log.Printf("Recording %s event: %v", out.EventName, err)
	}
}
