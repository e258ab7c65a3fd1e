package plugin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// DefaultTimeout bounds a single actuator invocation. Pointer actions
// must complete fast or the gesture feels laggy.
const DefaultTimeout = 2 * time.Second

// ErrTimeout is returned when an actuator does not finish in time.
var ErrTimeout = errors.New("plugin execution timed out")

// Executor runs actuators with a per-invocation timeout.
type Executor struct {
	timeout time.Duration
}

// NewExecutor creates an Executor. A non-positive timeout falls back
// to DefaultTimeout.
func NewExecutor(timeout time.Duration) *Executor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Executor{timeout: timeout}
}

// Execute runs the actuator, feeding req as JSON on stdin and parsing
// stdout as a Response.
func (e *Executor) Execute(p *Plugin, req *Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.Executable)
	cmd.Dir = p.Path

	reqJSON, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}
	cmd.Stdin = bytes.NewReader(reqJSON)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("%w after %s", ErrTimeout, e.timeout)
	}
	if err != nil {
		if msg := stderr.String(); msg != "" {
			return nil, fmt.Errorf("running %s: %w, stderr: %s", p.Manifest.Name, err, msg)
		}
		return nil, fmt.Errorf("running %s: %w", p.Manifest.Name, err)
	}

	var resp Response
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("parsing %s response: %w, stdout: %s",
			p.Manifest.Name, err, stdout.String())
	}

	return &resp, nil
}
