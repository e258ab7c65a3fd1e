// Package plugin discovers and runs actuator plugins. An actuator is
// an external executable that performs pointer and keyboard actions on
// the host; it reads one JSON request on stdin and writes one JSON
// response on stdout.
package plugin

import "encoding/json"

// Manifest describes an actuator's metadata and the actions it handles.
type Manifest struct {
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	Description  string          `json:"description"`
	Executable   string          `json:"executable"`
	Actions      []string        `json:"actions"`
	ConfigSchema json.RawMessage `json:"configSchema,omitempty"`
}

// Request is one action sent to an actuator. X and Y carry the screen
// position for pointer actions; keyboard actions ignore them.
type Request struct {
	Action  string          `json:"action"`
	Gesture string          `json:"gesture"`
	X       int             `json:"x"`
	Y       int             `json:"y"`
	Config  json.RawMessage `json:"config,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is an actuator's reply.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin is a discovered actuator with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Handles reports whether the actuator declares the given action.
func (p *Plugin) Handles(action string) bool {
	for _, a := range p.Manifest.Actions {
		if a == action {
			return true
		}
	}
	return false
}
