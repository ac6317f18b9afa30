// Package device implements the Device Surface (C1): a synchronous command
// set for driving an Android device through a shell bridge, plus a mock
// variant the core must treat identically.
package device

import (
	"bytes"
	"context"
	"os/exec"
)

// CommandExecutor abstracts subprocess execution so the real ADBDevice can
// be tested without invoking an actual bridge binary.
type CommandExecutor interface {
	// Execute runs cmd and returns stdout, stderr, and any execution error
	// (non-zero exit is reported via err, per exec.Cmd.Run's contract).
	Execute(ctx context.Context, cmd *exec.Cmd) (stdout, stderr []byte, err error)
}

// DefaultExecutor runs commands using the operating system's process executor.
type DefaultExecutor struct{}

// Execute runs cmd and captures its output.
func (e *DefaultExecutor) Execute(_ context.Context, cmd *exec.Cmd) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}
