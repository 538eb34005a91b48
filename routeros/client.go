// Package routeros automates MikroTik RouterOS provisioning over the
// binary API (port 8728/8729): PPPoE secrets, simple queues, firewall
// address lists, static DHCP leases, and the compound subscriber
// operations built from them.
//
// Every exported method opens a fresh API session and closes it before
// returning. RouterOS enforces a small concurrent session limit and
// idle sessions time out server-side, so nothing is pooled.
package routeros

import (
	"context"
	"fmt"
	"time"
)

// Config identifies one router and how to authenticate against it.
type Config struct {
	// Host is the management IP or hostname.
	Host string

	// Port is the API port. Zero selects 8728, or 8729 with TLS.
	Port int

	// Username and Password are the API credentials.
	Username string
	Password string

	// UseTLS switches to the TLS API service.
	UseTLS bool

	// DialTimeout bounds connect+login. Zero means 10s.
	DialTimeout time.Duration
}

func (c Config) port() int {
	if c.Port != 0 {
		return c.Port
	}
	if c.UseTLS {
		return 8729
	}
	return 8728
}

func (c Config) dialTimeout() time.Duration {
	if c.DialTimeout > 0 {
		return c.DialTimeout
	}
	return 10 * time.Second
}

func (c Config) address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.port())
}

// Client runs provisioning commands against one router.
type Client struct {
	cfg  Config
	dial dialer
}

// NewClient creates a client for the given router. No connection is
// opened until a method is called.
func NewClient(cfg Config) *Client {
	return &Client{cfg: cfg, dial: dialAPI}
}

// Host returns the configured management address.
func (c *Client) Host() string {
	return c.cfg.Host
}

func (c *Client) open(ctx context.Context) (apiConn, error) {
	return c.dial(ctx, c.cfg)
}

// RouterStatus is the TestConnection verdict. Never produced with an
// error; Connected=false plus Error is the failure shape.
type RouterStatus struct {
	Connected   bool   `json:"connected"`
	Host        string `json:"host"`
	Version     string `json:"version,omitempty"`
	BoardName   string `json:"board_name,omitempty"`
	Uptime      string `json:"uptime,omitempty"`
	CPULoad     string `json:"cpu_load,omitempty"`
	FreeMemory  string `json:"free_memory,omitempty"`
	TotalMemory string `json:"total_memory,omitempty"`
	Error       string `json:"error,omitempty"`
}

// TestConnection probes the router and reports system information.
// It never returns an error; failures land in the status payload.
func (c *Client) TestConnection(ctx context.Context) *RouterStatus {
	status := &RouterStatus{Host: c.cfg.Host}

	info, err := c.SystemResource(ctx)
	if err != nil {
		status.Error = err.Error()
		return status
	}

	status.Connected = true
	status.Version = valueOr(info, "version", "unknown")
	status.BoardName = valueOr(info, "board-name", "unknown")
	status.Uptime = valueOr(info, "uptime", "unknown")
	status.CPULoad = valueOr(info, "cpu-load", "0")
	status.FreeMemory = valueOr(info, "free-memory", "0")
	status.TotalMemory = valueOr(info, "total-memory", "0")
	return status
}

// SystemResource reads /system/resource (version, board, uptime, load).
func (c *Client) SystemResource(ctx context.Context) (map[string]string, error) {
	conn, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := printRows(conn, "/system/resource")
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return map[string]string{}, nil
	}
	return rows[0], nil
}

// Identity reads the router's configured name.
func (c *Client) Identity(ctx context.Context) (string, error) {
	conn, err := c.open(ctx)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	rows, err := printRows(conn, "/system/identity")
	if err != nil {
		return "", err
	}
	if len(rows) > 0 && rows[0]["name"] != "" {
		return rows[0]["name"], nil
	}
	return "MikroTik", nil
}

func valueOr(m map[string]string, key, fallback string) string {
	if v, ok := m[key]; ok && v != "" {
		return v
	}
	return fallback
}
