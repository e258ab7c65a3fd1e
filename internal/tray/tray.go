// Package tray provides the macOS menu bar interface for toggling
// pointer control and showing the last emitted gesture.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray is the menu bar application.
type Tray struct {
	onToggle   func(enabled bool)
	onSettings func()
	onQuit     func()
	enabled    bool
	mu         sync.RWMutex

	// Menu items stored for later updates
	menuToggle      *systray.MenuItem
	menuLastGesture *systray.MenuItem
}

// New creates a Tray. Pointer control starts enabled.
func New() *Tray {
	return &Tray{
		enabled: true,
	}
}

// OnToggle sets the callback invoked when pointer control is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnSettings sets the callback invoked by the settings menu item.
func (t *Tray) OnSettings(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSettings = fn
}

// OnQuit sets the callback invoked by the quit menu item.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the menu bar application. Blocks until systray.Quit.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Mudra")
	systray.SetTooltip("Mudra Pointer Control")

	t.menuToggle = systray.AddMenuItem("● Enabled", "Toggle pointer control")
	systray.AddSeparator()

	t.menuLastGesture = systray.AddMenuItem("Last: none", "Last emitted gesture")
	t.menuLastGesture.Disable()
	systray.AddSeparator()

	menuSettings := systray.AddMenuItem("Open Settings...", "Open settings in browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Mudra")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuSettings.ClickedCh:
				t.handleSettings()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

// handleToggle flips the enabled state and notifies the app.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if enabled {
		t.menuToggle.SetTitle("● Enabled")
	} else {
		t.menuToggle.SetTitle("○ Disabled")
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks.
	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleSettings() {
	t.mu.RLock()
	callback := t.onSettings
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetLastGesture updates the last gesture display in the menu.
func (t *Tray) SetLastGesture(name string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLastGesture != nil {
		if name == "" || name == "none" {
			t.menuLastGesture.SetTitle("Last: none")
		} else {
			t.menuLastGesture.SetTitle("Last: " + name)
		}
	}
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
