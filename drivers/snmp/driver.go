// Package snmp provides a read-only SNMP executor for OLT monitoring.
// SNMP cannot authorize or deprovision ONUs on these platforms; it is
// used for optical readings and health polling alongside the shell
// driver.
package snmp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gosnmp/gosnmp"

	"github.com/zetanet/southbound/types"
)

// Config holds the SNMP transport parameters for one device.
type Config struct {
	Target    string
	Port      uint16
	Community string
	Version   string // "1", "2c" (default) or "3"
	Username  string // SNMPv3 USM user
	Password  string // SNMPv3 auth and privacy passphrase
	Timeout   time.Duration
	Retries   int
}

// Executor implements types.SNMPExecutor on top of gosnmp.
type Executor struct {
	cfg  Config
	conn *gosnmp.GoSNMP
}

// New creates an SNMP executor. Connect must be called before use.
func New(cfg Config) (*Executor, error) {
	if cfg.Target == "" {
		return nil, fmt.Errorf("target is required")
	}
	if cfg.Port == 0 {
		cfg.Port = 161
	}
	if cfg.Community == "" {
		cfg.Community = "public"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Retries == 0 {
		cfg.Retries = 3
	}
	return &Executor{cfg: cfg}, nil
}

// FromOLT builds a v2c executor from the site OLT block.
func FromOLT(cfg *types.OLTConfig) (*Executor, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	port := cfg.SNMPPort
	if port < 0 || port > 65535 {
		port = 161
	}
	return New(Config{
		Target:    cfg.Address,
		Port:      uint16(port), //nolint:gosec // range checked above
		Community: cfg.SNMPCommunity,
		Version:   "2c",
		Timeout:   cfg.Timeout,
	})
}

// Connect opens the SNMP socket.
func (e *Executor) Connect() error {
	version := gosnmp.Version2c
	switch e.cfg.Version {
	case "1":
		version = gosnmp.Version1
	case "", "2c":
		version = gosnmp.Version2c
	case "3":
		version = gosnmp.Version3
	}

	conn := &gosnmp.GoSNMP{
		Target:    e.cfg.Target,
		Port:      e.cfg.Port,
		Community: e.cfg.Community,
		Version:   version,
		Timeout:   e.cfg.Timeout,
		Retries:   e.cfg.Retries,
	}

	if version == gosnmp.Version3 {
		conn.SecurityModel = gosnmp.UserSecurityModel
		conn.SecurityParameters = &gosnmp.UsmSecurityParameters{
			UserName:                 e.cfg.Username,
			AuthenticationProtocol:   gosnmp.SHA,
			AuthenticationPassphrase: e.cfg.Password,
			PrivacyProtocol:          gosnmp.AES,
			PrivacyPassphrase:        e.cfg.Password,
		}
		conn.MsgFlags = gosnmp.AuthPriv
	}

	if err := conn.Connect(); err != nil {
		return &types.TransportError{
			Host: fmt.Sprintf("%s:%d", e.cfg.Target, e.cfg.Port),
			Err:  err,
		}
	}

	e.conn = conn
	return nil
}

// Close shuts the SNMP socket down.
func (e *Executor) Close() error {
	if e.conn == nil {
		return nil
	}
	err := e.conn.Conn.Close()
	e.conn = nil
	return err
}

// IsConnected reports whether Connect has succeeded.
func (e *Executor) IsConnected() bool {
	return e.conn != nil
}

// GetSNMP retrieves a single value.
func (e *Executor) GetSNMP(ctx context.Context, oid string) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !e.IsConnected() {
		return nil, fmt.Errorf("not connected")
	}

	result, err := e.conn.Get([]string{oid})
	if err != nil {
		return nil, fmt.Errorf("SNMP GET %s: %w", oid, err)
	}
	if len(result.Variables) == 0 {
		return nil, fmt.Errorf("no result for OID %s", oid)
	}

	return pduValue(result.Variables[0]), nil
}

// WalkSNMP walks a subtree and returns values keyed by the OID suffix
// under the base OID.
func (e *Executor) WalkSNMP(ctx context.Context, oid string) (map[string]interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !e.IsConnected() {
		return nil, fmt.Errorf("not connected")
	}

	results := make(map[string]interface{})
	err := e.conn.Walk(oid, func(pdu gosnmp.SnmpPDU) error {
		index := strings.TrimPrefix(pdu.Name, ".")
		index = strings.TrimPrefix(index, strings.TrimPrefix(oid, "."))
		index = strings.TrimPrefix(index, ".")
		results[index] = pduValue(pdu)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("SNMP WALK %s: %w", oid, err)
	}

	return results, nil
}

// BulkGetSNMP retrieves several OIDs in one request, keyed by full OID.
func (e *Executor) BulkGetSNMP(ctx context.Context, oids []string) (map[string]interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !e.IsConnected() {
		return nil, fmt.Errorf("not connected")
	}

	result, err := e.conn.Get(oids)
	if err != nil {
		return nil, fmt.Errorf("SNMP GET: %w", err)
	}

	results := make(map[string]interface{})
	for _, variable := range result.Variables {
		results[variable.Name] = pduValue(variable)
	}

	return results, nil
}

// pduValue normalizes gosnmp PDU payloads to Go types.
func pduValue(pdu gosnmp.SnmpPDU) interface{} {
	switch pdu.Type {
	case gosnmp.OctetString:
		if b, ok := pdu.Value.([]byte); ok {
			return string(b)
		}
		return pdu.Value
	case gosnmp.Integer:
		return int64(pdu.Value.(int))
	case gosnmp.Counter32, gosnmp.Gauge32:
		return uint64(pdu.Value.(uint))
	case gosnmp.Counter64:
		return pdu.Value.(uint64)
	default:
		return pdu.Value
	}
}

// Ensure Executor implements SNMPExecutor.
var _ types.SNMPExecutor = (*Executor)(nil)
