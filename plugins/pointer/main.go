// Package main provides the pointer actuator for macOS. It moves,
// clicks, and drags the system pointer via the cliclick utility.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
)

// Request represents the input from the plugin executor.
type Request struct {
	Action  string          `json:"action"`
	Gesture string          `json:"gesture"`
	X       int             `json:"x"`
	Y       int             `json:"y"`
	Config  json.RawMessage `json:"config"`
	Params  json.RawMessage `json:"params"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// cliclickCommands maps actions to cliclick command prefixes.
// m: move, c: click, dc: double click, kd/ku would be keyboard,
// dd/du are drag down and drag up.
var cliclickCommands = map[string]string{
	"move":        "m",
	"click":       "c",
	"doubleclick": "dc",
	"rightclick":  "rc",
	"down":        "dd",
	"up":          "du",
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	prefix, ok := cliclickCommands[req.Action]
	if !ok {
		writeErrorResponse(fmt.Sprintf("unknown action: %s", req.Action))
		return
	}

	if err := runCliclick(fmt.Sprintf("%s:%d,%d", prefix, req.X, req.Y)); err != nil {
		writeErrorResponse(fmt.Sprintf("action %s failed: %v", req.Action, err))
		return
	}

	writeSuccessResponse()
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	resp := Response{
		Success: false,
		Error:   errMsg,
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse() {
	resp := Response{
		Success: true,
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}

// runCliclick executes a single cliclick command.
func runCliclick(command string) error {
	cmd := exec.Command("cliclick", command)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}
