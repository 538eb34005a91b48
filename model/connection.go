package model

import "time"

// AccessType distinguishes how a subscriber reaches the network.
type AccessType string

const (
	// AccessFiber is PPPoE over GPON: a PPP secret on the router plus
	// an authorized ONU on the OLT.
	AccessFiber AccessType = "fiber"

	// AccessAntenna is a routed static IP over a radio link; no PPPoE
	// binding exists, shaping is keyed by IP.
	AccessAntenna AccessType = "antenna"

	// AccessDHCPFiber is GPON with a static DHCP lease instead of
	// PPPoE.
	AccessDHCPFiber AccessType = "dhcp_fiber"
)

// Connection is the subscriber access record this layer automates.
// The business database owns its lifecycle; automation reads command
// targets from it and reports device-assigned identifiers back through
// operation results.
type Connection struct {
	ID       int
	TenantID int
	SiteID   int

	// ClientName labels device objects so operators can trace them
	// back to the subscriber.
	ClientName string

	Type AccessType

	// PPPoE credentials (fiber access)
	PPPoEUsername string
	PPPoEPassword string

	// Assigned addressing
	IPAddress string
	MAC       string

	// PON terminal (fiber and dhcp_fiber access)
	ONUSerial   string
	ONULocation string // "slot/port" or "frame/slot/port"
	ONUType     string
	ServiceVLAN int

	// Authorization state written back after OLT operations. ONUID is
	// the device-assigned ID captured at authorization; deauthorization
	// requires it.
	ONUAuthorized   bool
	ONUID           int
	ONUAuthorizedAt time.Time
}

// QueueName returns the router queue name for this connection,
// following the established naming scheme per access type.
func (c *Connection) QueueName() string {
	switch c.Type {
	case AccessFiber:
		return "queue_" + c.PPPoEUsername
	case AccessDHCPFiber:
		return "queue_dhcp_" + underscoreIP(c.IPAddress)
	default:
		return "queue_" + underscoreIP(c.IPAddress)
	}
}

// Label is the human-readable identifier used in device comments.
func (c *Connection) Label() string {
	if c.ClientName != "" {
		return c.ClientName
	}
	switch c.Type {
	case AccessFiber:
		return c.PPPoEUsername
	case AccessDHCPFiber:
		return c.MAC
	default:
		return c.IPAddress
	}
}

func underscoreIP(ip string) string {
	out := make([]byte, len(ip))
	for i := 0; i < len(ip); i++ {
		if ip[i] == '.' {
			out[i] = '_'
		} else {
			out[i] = ip[i]
		}
	}
	return string(out)
}
