package types

import (
	"fmt"
	"strings"
)

// Error taxonomy shared by the router client and the OLT drivers.
// "Not found" is deliberately absent: a missing device object is a data
// result, not an error.

// TransportError means the device could not be reached or the session
// broke mid-operation (refused, timeout, reset).
type TransportError struct {
	Host string
	Err  error
}

func (e *TransportError) Error() string {
	if e.Host != "" {
		return fmt.Sprintf("transport error reaching %s: %v", e.Host, e.Err)
	}
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// AuthError means the device rejected the configured credentials.
type AuthError struct {
	Host string
	Err  error
}

func (e *AuthError) Error() string {
	if e.Host != "" {
		return fmt.Sprintf("authentication rejected by %s: %v", e.Host, e.Err)
	}
	return fmt.Sprintf("authentication rejected: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// ProtocolError means the device answered with something the client
// could not interpret: an API trap, a malformed table, unexpected text.
type ProtocolError struct {
	Op  string
	Msg string
	Err error
}

func (e *ProtocolError) Error() string {
	switch {
	case e.Op != "" && e.Msg != "":
		return fmt.Sprintf("protocol error in %s: %s", e.Op, e.Msg)
	case e.Msg != "":
		return fmt.Sprintf("protocol error: %s", e.Msg)
	default:
		return fmt.Sprintf("protocol error in %s: %v", e.Op, e.Err)
	}
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// NotConfiguredError means the site has no equipment of the requested
// kind on file. Distinct from any transport failure: nothing was ever
// reachable because nothing was ever configured.
type NotConfiguredError struct {
	Site   string
	Device string
}

func (e *NotConfiguredError) Error() string {
	return fmt.Sprintf("site %s has no %s configured", e.Site, e.Device)
}

// UnsupportedVendorError means the configured brand resolves to no
// implemented dialect. The message enumerates what is supported so the
// operator can fix the site record.
type UnsupportedVendorError struct {
	Vendor    string
	Supported []string
}

func (e *UnsupportedVendorError) Error() string {
	return fmt.Sprintf("unsupported OLT vendor %q (supported: %s)",
		e.Vendor, strings.Join(e.Supported, ", "))
}

// FormatError means a location or identifier string is malformed.
type FormatError struct {
	Input string
	Want  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid format %q, want %s", e.Input, e.Want)
}
