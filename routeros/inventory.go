package routeros

import "context"

const profilePath = "/ppp/profile"

// ProfileParams describes a PPP profile to create. Profiles carry the
// rate limit PPPoE sessions inherit, so plans map 1:1 to profiles.
type ProfileParams struct {
	// Name is the profile name (e.g. "50M-25M").
	Name string

	// RateLimit is the "up/down" pair applied to sessions.
	RateLimit string

	// LocalAddress is the server-side tunnel IP. Omitted when empty.
	LocalAddress string

	// DNSServer is handed to clients. Omitted when empty.
	DNSServer string

	// Comment labels the profile on the device.
	Comment string
}

// CreatePPPProfile adds a PPP profile.
func (c *Client) CreatePPPProfile(ctx context.Context, p ProfileParams) (StepResult, error) {
	conn, err := c.open(ctx)
	if err != nil {
		return stepError(StepProfile, "create", p.Name, err), err
	}
	defer conn.Close()

	words := []string{
		"=name=" + p.Name,
		"=rate-limit=" + p.RateLimit,
		"=comment=" + p.Comment,
	}
	if p.LocalAddress != "" {
		words = append(words, "=local-address="+p.LocalAddress)
	}
	if p.DNSServer != "" {
		words = append(words, "=dns-server="+p.DNSServer)
	}

	id, err := runAdd(conn, profilePath, words...)
	if err != nil {
		return stepError(StepProfile, "create", p.Name, err), err
	}
	return stepOK(StepProfile, "create", p.Name, id), nil
}

// ListPPPProfiles returns the PPP profiles on the device.
func (c *Client) ListPPPProfiles(ctx context.Context) ([]map[string]string, error) {
	conn, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return printRows(conn, profilePath)
}

// ListInterfaces returns every interface on the device.
func (c *Client) ListInterfaces(ctx context.Context) ([]map[string]string, error) {
	conn, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return printRows(conn, "/interface")
}

// ListPPPoEServers returns the PPPoE server instances.
func (c *Client) ListPPPoEServers(ctx context.Context) ([]map[string]string, error) {
	conn, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return printRows(conn, "/interface/pppoe-server/server")
}

// ListIPAddresses returns the addresses configured on the device.
func (c *Client) ListIPAddresses(ctx context.Context) ([]map[string]string, error) {
	conn, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return printRows(conn, "/ip/address")
}

// AddIPAddress configures an address on an interface.
func (c *Client) AddIPAddress(ctx context.Context, address, iface, comment string) (StepResult, error) {
	target := address + "@" + iface

	conn, err := c.open(ctx)
	if err != nil {
		return stepError(StepIPAddress, "add", target, err), err
	}
	defer conn.Close()

	id, err := runAdd(conn, "/ip/address",
		"=address="+address,
		"=interface="+iface,
		"=comment="+comment,
		"=disabled=no",
	)
	if err != nil {
		return stepError(StepIPAddress, "add", target, err), err
	}
	return stepOK(StepIPAddress, "add", target, id), nil
}
