package routeros

import (
	"context"
	"strings"
)

const leasePath = "/ip/dhcp-server/lease"

// LeaseParams describes a static DHCP lease to create.
type LeaseParams struct {
	// MAC is the client CPE/ONU MAC. Stored uppercased; lookups later
	// match case-insensitively.
	MAC string

	// Address is the fixed IP assigned to the MAC.
	Address string

	// Server is the DHCP server instance. Empty means "dhcp1".
	Server string

	// Comment labels the lease on the device.
	Comment string

	// Disabled creates the lease administratively down.
	Disabled bool
}

// CreateDHCPLease reserves a fixed IP for a MAC.
func (c *Client) CreateDHCPLease(ctx context.Context, p LeaseParams) (StepResult, error) {
	conn, err := c.open(ctx)
	if err != nil {
		return stepError(StepLease, "create", p.MAC, err), err
	}
	defer conn.Close()

	return createLease(conn, p)
}

// DeleteDHCPLease removes the lease for a MAC, matched
// case-insensitively. A missing lease reports StatusNotFound.
func (c *Client) DeleteDHCPLease(ctx context.Context, mac string) (StepResult, error) {
	conn, err := c.open(ctx)
	if err != nil {
		return stepError(StepLease, "delete", mac, err), err
	}
	defer conn.Close()

	return deleteLease(conn, mac)
}

// DisableDHCPLease suspends the lease for a MAC.
func (c *Client) DisableDHCPLease(ctx context.Context, mac string) (StepResult, error) {
	conn, err := c.open(ctx)
	if err != nil {
		return stepError(StepLease, "disable", mac, err), err
	}
	defer conn.Close()

	return setLeaseDisabled(conn, mac, true)
}

// EnableDHCPLease lifts a suspension.
func (c *Client) EnableDHCPLease(ctx context.Context, mac string) (StepResult, error) {
	conn, err := c.open(ctx)
	if err != nil {
		return stepError(StepLease, "enable", mac, err), err
	}
	defer conn.Close()

	return setLeaseDisabled(conn, mac, false)
}

// ListDHCPLeases returns every lease on the device.
func (c *Client) ListDHCPLeases(ctx context.Context) ([]map[string]string, error) {
	conn, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return printRows(conn, leasePath)
}

// ListDHCPServers returns the configured DHCP server instances.
func (c *Client) ListDHCPServers(ctx context.Context) ([]map[string]string, error) {
	conn, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return printRows(conn, "/ip/dhcp-server")
}

func createLease(conn apiConn, p LeaseParams) (StepResult, error) {
	server := p.Server
	if server == "" {
		server = "dhcp1"
	}

	words := []string{
		"=mac-address=" + strings.ToUpper(p.MAC),
		"=address=" + p.Address,
		"=server=" + server,
		"=comment=" + p.Comment,
		"=disabled=" + yesNo(p.Disabled),
	}

	id, err := runAdd(conn, leasePath, words...)
	if err != nil {
		return stepError(StepLease, "create", p.MAC, err), err
	}
	return stepOK(StepLease, "create", p.MAC, id), nil
}

func deleteLease(conn apiConn, mac string) (StepResult, error) {
	row, err := findLease(conn, mac)
	if err != nil {
		return stepError(StepLease, "delete", mac, err), err
	}
	if row == nil {
		return stepNotFound(StepLease, "delete", mac), nil
	}

	if err := runRemove(conn, leasePath, row[".id"]); err != nil {
		return stepError(StepLease, "delete", mac, err), err
	}
	return stepOK(StepLease, "delete", mac, row[".id"]), nil
}

func setLeaseDisabled(conn apiConn, mac string, disabled bool) (StepResult, error) {
	action := "enable"
	if disabled {
		action = "disable"
	}

	row, err := findLease(conn, mac)
	if err != nil {
		return stepError(StepLease, action, mac, err), err
	}
	if row == nil {
		return stepNotFound(StepLease, action, mac), nil
	}

	if err := runSet(conn, leasePath, row[".id"], "=disabled="+yesNo(disabled)); err != nil {
		return stepError(StepLease, action, mac, err), err
	}
	return stepOK(StepLease, action, mac, row[".id"]), nil
}

// findLease matches a lease by MAC, ignoring case: devices report
// uppercase, operators type either.
func findLease(conn apiConn, mac string) (map[string]string, error) {
	rows, err := printRows(conn, leasePath)
	if err != nil {
		return nil, err
	}

	want := strings.ToUpper(mac)
	for _, row := range rows {
		if strings.ToUpper(row["mac-address"]) == want {
			return row, nil
		}
	}
	return nil, nil
}
