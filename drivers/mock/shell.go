// Package mock provides simulated device backends for tests and local
// development: a scripted OLT shell and an in-memory RouterOS device.
// Neither opens a network connection.
package mock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zetanet/southbound/types"
)

// Shell implements types.ShellExecutor with canned per-command output.
// Register transcripts with Handle, inject failures with FailOn, and
// assert the exact command sequence afterwards with Commands.
type Shell struct {
	mu       sync.Mutex
	outputs  map[string]string
	errors   map[string]error
	fallback string
	history  []string
	timeout  time.Duration
	closed   bool
}

// NewShell creates an empty scripted shell. Unregistered commands
// return the fallback output (empty by default) and no error.
func NewShell() *Shell {
	return &Shell{
		outputs: make(map[string]string),
		errors:  make(map[string]error),
		timeout: 30 * time.Second,
	}
}

// Handle registers canned output for an exact command.
func (s *Shell) Handle(command, output string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outputs[command] = output
}

// HandleMap registers several canned outputs at once.
func (s *Shell) HandleMap(outputs map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for cmd, out := range outputs {
		s.outputs[cmd] = out
	}
}

// FailOn makes an exact command return the given error.
func (s *Shell) FailOn(command string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors[command] = err
}

// SetFallback sets the output returned for unregistered commands.
func (s *Shell) SetFallback(output string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fallback = output
}

// ExecCommand records the command and replays its scripted response.
func (s *Shell) ExecCommand(ctx context.Context, command string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", fmt.Errorf("session closed")
	}

	s.history = append(s.history, command)

	if err, ok := s.errors[command]; ok {
		return "", err
	}
	if out, ok := s.outputs[command]; ok {
		return out, nil
	}
	return s.fallback, nil
}

// ExecCommands replays commands sequentially, stopping at the first
// failure.
func (s *Shell) ExecCommands(ctx context.Context, commands []string) ([]string, error) {
	results := make([]string, 0, len(commands))
	for _, cmd := range commands {
		output, err := s.ExecCommand(ctx, cmd)
		if err != nil {
			return results, fmt.Errorf("command %q failed: %w", cmd, err)
		}
		results = append(results, output)
	}
	return results, nil
}

// SetTimeout records the requested timeout. The scripted shell never
// blocks, so the value only matters for assertions.
func (s *Shell) SetTimeout(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeout = d
}

// Timeout returns the last timeout set on the session.
func (s *Shell) Timeout() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeout
}

// Close marks the session closed. Further commands fail.
func (s *Shell) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (s *Shell) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Commands returns the commands executed so far, in order.
func (s *Shell) Commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := make([]string, len(s.history))
	copy(history, s.history)
	return history
}

// Reset clears the command history without dropping the script.
func (s *Shell) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}

// Ensure Shell implements ShellExecutor.
var _ types.ShellExecutor = (*Shell)(nil)
