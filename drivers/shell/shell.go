// Package shell provides an expect-backed SSH shell executor for OLT
// command-line sessions. OLT CLIs are interactive (prompts, pagers,
// config modes), so commands run over a PTY rather than one-shot exec.
package shell

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/zetanet/southbound/types"
)

// Dial opens an SSH connection to the OLT described by cfg and attaches
// an interactive session ready for vendor commands. The caller owns the
// returned session and must Close it.
func Dial(cfg *types.OLTConfig, vendor types.Vendor) (*Session, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("address is required")
	}

	port := cfg.SSHPort
	if port == 0 {
		port = 22
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	// Some OLTs (V-Sol in particular) reject plain password auth and
	// only answer keyboard-interactive challenges.
	keyboardInteractive := ssh.KeyboardInteractive(func(user, instruction string, questions []string, echos []bool) ([]string, error) {
		answers := make([]string, len(questions))
		for i := range questions {
			answers[i] = cfg.Password
		}
		return answers, nil
	})

	sshConfig := &ssh.ClientConfig{
		User: cfg.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(cfg.Password),
			keyboardInteractive,
		},
		Timeout:         timeout,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec // OLTs live on a management VLAN without PKI
	}

	target := fmt.Sprintf("%s:%d", cfg.Address, port)

	client, err := ssh.Dial("tcp", target, sshConfig)
	if err != nil {
		if strings.Contains(err.Error(), "unable to authenticate") {
			return nil, &types.AuthError{Host: target, Err: err}
		}
		return nil, &types.TransportError{Host: target, Err: err}
	}

	session, err := NewSession(SessionConfig{
		SSHClient:    client,
		Vendor:       vendor,
		Timeout:      timeout,
		DisablePager: true,
	})
	if err != nil {
		client.Close()
		return nil, &types.TransportError{Host: target, Err: err}
	}

	return session, nil
}
