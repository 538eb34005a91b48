package routeros

import (
	"context"
	"crypto/tls"
	"strings"

	ros "github.com/go-routeros/routeros/v3"

	"github.com/zetanet/southbound/types"
)

// apiConn is the slice of the API session the command layer needs.
// The simulated device in drivers/mock satisfies it, so every command
// path is testable without a router.
type apiConn interface {
	RunArgs(sentence []string) (*ros.Reply, error)
	Close() error
}

// dialer opens an API session for one call. Tests swap it out.
type dialer func(ctx context.Context, cfg Config) (apiConn, error)

// rosConn adapts the live go-routeros client to apiConn.
type rosConn struct {
	c *ros.Client
}

func (r rosConn) RunArgs(sentence []string) (*ros.Reply, error) {
	return r.c.RunArgs(sentence)
}

func (r rosConn) Close() error {
	r.c.Close()
	return nil
}

// dialAPI opens and logs in a binary-API session, with the dial
// bounded by the configured timeout.
func dialAPI(ctx context.Context, cfg Config) (apiConn, error) {
	address := cfg.address()

	ctx, cancel := context.WithTimeout(ctx, cfg.dialTimeout())
	defer cancel()

	var (
		client *ros.Client
		err    error
	)
	if cfg.UseTLS {
		client, err = ros.DialTLSContext(ctx, address, cfg.Username, cfg.Password,
			&tls.Config{InsecureSkipVerify: true}) //nolint:gosec // routers ship self-signed API certs
	} else {
		client, err = ros.DialContext(ctx, address, cfg.Username, cfg.Password)
	}
	if err != nil {
		if isLoginRefusal(err) {
			return nil, &types.AuthError{Host: address, Err: err}
		}
		return nil, &types.TransportError{Host: address, Err: err}
	}

	return rosConn{c: client}, nil
}

// isLoginRefusal distinguishes rejected credentials from an unreachable
// device. RouterOS answers a bad login with a trap carrying this
// message; anything else during dial is transport.
func isLoginRefusal(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "invalid user name or password") ||
		strings.Contains(msg, "login failure")
}

// printRows runs `<path>/print` and returns the reply rows as maps.
// Optional query words (`?key=value`) filter device-side.
func printRows(conn apiConn, path string, queries ...string) ([]map[string]string, error) {
	sentence := append([]string{path + "/print"}, queries...)
	reply, err := conn.RunArgs(sentence)
	if err != nil {
		return nil, &types.ProtocolError{Op: path + "/print", Err: err}
	}

	rows := make([]map[string]string, 0, len(reply.Re))
	for _, re := range reply.Re {
		row := make(map[string]string, len(re.Map))
		for k, v := range re.Map {
			row[k] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// runAdd runs `<path>/add` and returns the created object id.
func runAdd(conn apiConn, path string, words ...string) (string, error) {
	sentence := append([]string{path + "/add"}, words...)
	reply, err := conn.RunArgs(sentence)
	if err != nil {
		return "", &types.ProtocolError{Op: path + "/add", Err: err}
	}
	if reply.Done != nil {
		return reply.Done.Map["ret"], nil
	}
	return "", nil
}

// runSet runs `<path>/set` against one object id.
func runSet(conn apiConn, path, id string, words ...string) error {
	sentence := append([]string{path + "/set", "=.id=" + id}, words...)
	if _, err := conn.RunArgs(sentence); err != nil {
		return &types.ProtocolError{Op: path + "/set", Err: err}
	}
	return nil
}

// runRemove runs `<path>/remove` against one object id.
func runRemove(conn apiConn, path, id string) error {
	if _, err := conn.RunArgs([]string{path + "/remove", "=.id=" + id}); err != nil {
		return &types.ProtocolError{Op: path + "/remove", Err: err}
	}
	return nil
}

// findByField returns the first row whose field equals value, or nil.
func findByField(rows []map[string]string, field, value string) map[string]string {
	for _, row := range rows {
		if row[field] == value {
			return row
		}
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
