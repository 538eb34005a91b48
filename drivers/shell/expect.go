package shell

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	expect "github.com/google/goexpect"
	"golang.org/x/crypto/ssh"

	"github.com/zetanet/southbound/types"
)

// DefaultPromptPattern matches common OLT prompts like "OLT#",
// "hostname>" or "OLT(config-if-gpon-0/0)#".
var DefaultPromptPattern = regexp.MustCompile(`(?m)[\w\-\[\]().:/]+[#>]\s*$`)

// VendorPrompts contains vendor-specific prompt patterns. Prompt
// detection stays pluggable per vendor: banner and hostname variance
// makes one global pattern unreliable.
var VendorPrompts = map[types.Vendor]*regexp.Regexp{
	types.VendorVSOL: regexp.MustCompile(`(?m)[\w\-().:/]+[#>]\s*$`),
	types.VendorZTE:  regexp.MustCompile(`(?m)[\w\-().:/]+[#>]\s*$`),
}

// PagerDisableCommands contains the per-vendor command that turns off
// output pagination for the session.
var PagerDisableCommands = map[types.Vendor]string{
	types.VendorVSOL: "terminal length 0",
	types.VendorZTE:  "terminal length 0",
}

// Session wraps google/goexpect for prompt-driven OLT shell
// interaction. One Session serves one device operation.
type Session struct {
	expecter  *expect.GExpect
	sshClient *ssh.Client
	promptRE  *regexp.Regexp
	timeout   time.Duration
	vendor    types.Vendor
}

// SessionConfig holds configuration for creating a shell session.
type SessionConfig struct {
	SSHClient    *ssh.Client
	Vendor       types.Vendor
	Timeout      time.Duration
	CustomPrompt *regexp.Regexp
	DisablePager bool
}

// NewSession attaches an expect session to an established SSH client
// and waits for the first prompt.
func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.SSHClient == nil {
		return nil, fmt.Errorf("SSH client is required")
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	promptRE := cfg.CustomPrompt
	if promptRE == nil {
		if vendorPrompt, ok := VendorPrompts[cfg.Vendor]; ok {
			promptRE = vendorPrompt
		} else {
			promptRE = DefaultPromptPattern
		}
	}

	exp, _, err := expect.SpawnSSH(cfg.SSHClient, cfg.Timeout,
		expect.Verbose(false),
		expect.CheckDuration(500*time.Millisecond),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to spawn SSH expect session: %w", err)
	}

	s := &Session{
		expecter:  exp,
		sshClient: cfg.SSHClient,
		promptRE:  promptRE,
		timeout:   cfg.Timeout,
		vendor:    cfg.Vendor,
	}

	// Wait for initial prompt
	if _, _, err := exp.Expect(promptRE, cfg.Timeout); err != nil {
		exp.Close()
		return nil, fmt.Errorf("failed to detect initial prompt: %w", err)
	}

	// Disable pager if requested (non-fatal if it fails)
	if cfg.DisablePager {
		_ = s.disablePager()
	}

	return s, nil
}

func (s *Session) disablePager() error {
	cmd := PagerDisableCommands[s.vendor]
	if cmd == "" {
		cmd = "terminal length 0"
	}

	_, err := s.execute(cmd, s.timeout)
	return err
}

// ExecCommand sends a command and waits for the prompt. A read that
// times out still returns whatever buffered output exists alongside
// the error; callers treat partial output as inconclusive.
func (s *Session) ExecCommand(ctx context.Context, command string) (string, error) {
	timeout := s.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	return s.execute(command, timeout)
}

// ExecCommands executes commands sequentially, stopping at the first
// failure. Outputs for completed commands are always returned.
func (s *Session) ExecCommands(ctx context.Context, commands []string) ([]string, error) {
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

func (s *Session) execute(command string, timeout time.Duration) (string, error) {
	if s.expecter == nil {
		return "", fmt.Errorf("shell session not initialized")
	}

	if err := s.expecter.Send(command + "\n"); err != nil {
		return "", &types.TransportError{Err: fmt.Errorf("send %q: %w", command, err)}
	}

	output, _, err := s.expecter.Expect(s.promptRE, timeout)
	if err != nil {
		// Partial output still reaches the caller.
		return s.cleanOutput(output, command),
			&types.TransportError{Err: fmt.Errorf("no prompt after %q: %w", command, err)}
	}

	return s.cleanOutput(output, command), nil
}

// cleanOutput removes the command echo and prompt lines from output.
func (s *Session) cleanOutput(output, command string) string {
	lines := strings.Split(output, "\n")
	var cleaned []string

	for i, line := range lines {
		if i == 0 && strings.Contains(line, command) {
			continue
		}
		if s.promptRE.MatchString(strings.TrimSpace(line)) {
			continue
		}
		cleaned = append(cleaned, line)
	}

	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}

// SetTimeout updates the per-command read timeout.
func (s *Session) SetTimeout(timeout time.Duration) {
	s.timeout = timeout
}

// Close shuts down the expect session and the underlying SSH client.
// Safe to call after a partial connect and safe to call twice.
func (s *Session) Close() error {
	var err error
	if s.expecter != nil {
		err = s.expecter.Close()
		s.expecter = nil
	}
	if s.sshClient != nil {
		if cerr := s.sshClient.Close(); err == nil {
			err = cerr
		}
		s.sshClient = nil
	}
	return err
}

// Ensure Session satisfies the executor contract vendor dialects use.
var _ types.ShellExecutor = (*Session)(nil)
