// Package model holds the business-record shapes the automation layer
// reads: sites with their equipment blocks, subscriber connections,
// and commercial plans. The database owning these records lives
// upstream; this package never persists anything.
package model

// Site is a coverage cell with its automation-relevant equipment.
// Either equipment block may be nil: nil means the equipment was never
// configured, a different condition from being unreachable.
type Site struct {
	ID       int
	TenantID int
	Name     string

	Router *RouterEquipment
	OLT    *OLTEquipment
}

// RouterEquipment reaches the site's MikroTik over the binary API.
type RouterEquipment struct {
	Host     string
	APIPort  int // default 8728, 8729 with TLS
	Username string
	Password string
	UseTLS   bool
}

// OLTEquipment reaches the site's OLT over SSH, with SNMP as the
// monitoring side channel, plus the provisioning defaults applied when
// a connection record does not override them.
type OLTEquipment struct {
	Brand    string
	Host     string
	SSHPort  int // default 22
	Username string
	Password string

	SNMPPort           int // default 161
	SNMPCommunity      string
	SNMPWriteCommunity string

	DefaultLineProfile    string
	DefaultServiceProfile string
	DefaultVLAN           int // default 100
	DefaultONUType        string
}
