package types

import (
	"context"
	"time"
)

// Vendor identifies an OLT vendor family after alias normalization.
type Vendor string

const (
	VendorVSOL      Vendor = "vsol"
	VendorZTE       Vendor = "zte"
	VendorHuawei    Vendor = "huawei"
	VendorFiberHome Vendor = "fiberhome"
)

// OLTConfig contains everything needed to reach and provision one OLT.
// Values come from the site record each call; this package never
// persists them.
type OLTConfig struct {
	// Name identifies the OLT in logs and results
	Name string

	// Brand is the configured vendor label before alias normalization
	// (e.g. "ZTE", "c320", "V-SOL")
	Brand string

	// Address is the management IP/hostname
	Address string

	// SSHPort is the shell port (default 22)
	SSHPort int

	// Username for authentication
	Username string

	// Password for authentication
	Password string

	// SNMPPort is the SNMP agent port for the monitoring path (default 161)
	SNMPPort int

	// SNMPCommunity is the read community
	SNMPCommunity string

	// SNMPWriteCommunity is the write community (rarely used)
	SNMPWriteCommunity string

	// Provisioning defaults applied when the access record does not
	// override them
	DefaultLineProfile    string
	DefaultServiceProfile string
	DefaultVLAN           int
	DefaultONUType        string

	// Timeout bounds each connect and each shell round-trip
	Timeout time.Duration
}

// Driver is the vendor-independent OLT automation contract.
// Every operation drives one interactive shell session and releases it
// on every exit path, including error paths; devices enforce a small
// number of concurrent sessions.
type Driver interface {
	// Connect opens a shell session. Failures are typed: TransportError
	// for unreachable/timeout, AuthError for rejected credentials.
	Connect(ctx context.Context) error

	// Disconnect closes the session. Safe after a partial connect and
	// safe to call more than once.
	Disconnect() error

	// TestConnection opens a session, probes identity/version and
	// closes. It never returns an error; connectivity problems are
	// reported inside the status payload.
	TestConnection(ctx context.Context) *OLTStatus

	// ListUnauthorizedONUs parses the device's unregistered-terminal
	// table.
	ListUnauthorizedONUs(ctx context.Context) ([]ONUDiscovery, error)

	// AuthorizeONU registers an ONU by serial and reports the
	// device-assigned ONU ID. Callers must persist AssignedID:
	// deauthorization requires it.
	AuthorizeONU(ctx context.Context, req AuthorizeRequest) (*AuthorizeResult, error)

	// DeauthorizeONU removes an authorized ONU by its device ID.
	DeauthorizeONU(ctx context.Context, slot, port, onuID int) error

	// GetONUStatus reads the run state of one ONU.
	GetONUStatus(ctx context.Context, slot, port, onuID int) (*ONUStatus, error)

	// GetONUOpticalInfo reads optical diagnostics. Fields the device
	// does not report stay nil; formatting drift never raises.
	GetONUOpticalInfo(ctx context.Context, slot, port, onuID int) (*OpticalInfo, error)

	// ListONUsOnPort lists authorized ONUs on one PON port.
	ListONUsOnPort(ctx context.Context, slot, port int) ([]ONUSummary, error)

	// ConfigureONUService binds a service VLAN to an already
	// authorized ONU.
	ConfigureONUService(ctx context.Context, slot, port, onuID, vlan int) error

	// ExecuteCommand is the operator escape hatch for raw diagnostics.
	// Unlike every other operation its errors propagate.
	ExecuteCommand(ctx context.Context, command string, timeout time.Duration) (string, error)
}

// ShellExecutor abstracts the interactive shell session a vendor
// dialect drives. Implemented by drivers/shell (live SSH) and
// drivers/mock (simulated device).
type ShellExecutor interface {
	// ExecCommand sends one command and returns output up to the next
	// prompt.
	ExecCommand(ctx context.Context, command string) (string, error)

	// ExecCommands sends commands sequentially, stopping at the first
	// failure.
	ExecCommands(ctx context.Context, commands []string) ([]string, error)

	// SetTimeout updates the per-command read timeout.
	SetTimeout(d time.Duration)

	// Close releases the session.
	Close() error
}

// SNMPExecutor is the read-only monitoring side channel used where a
// vendor exposes optical readings over SNMP.
type SNMPExecutor interface {
	// GetSNMP retrieves a single SNMP value by OID
	GetSNMP(ctx context.Context, oid string) (interface{}, error)

	// WalkSNMP performs an SNMP walk on an OID subtree
	WalkSNMP(ctx context.Context, oid string) (map[string]interface{}, error)

	// BulkGetSNMP retrieves multiple OIDs in one request
	BulkGetSNMP(ctx context.Context, oids []string) (map[string]interface{}, error)
}

// ONUDiscovery is one row of the unregistered-terminal table.
type ONUDiscovery struct {
	// Serial is the ONU serial number (e.g. "FHTT99990001")
	Serial string `json:"serial"`

	// Frame/Slot/Port locate the PON interface the ONU appeared on
	Frame int `json:"frame"`
	Slot  int `json:"slot"`
	Port  int `json:"port"`

	// Status is the raw device state word (e.g. "unknow", "initial")
	Status string `json:"status,omitempty"`

	// Model is the ONU model when the table reports one
	Model string `json:"model,omitempty"`

	// DiscoveredAt is when the row was read
	DiscoveredAt time.Time `json:"discovered_at"`
}

// AuthorizeRequest carries the parameters for registering an ONU.
type AuthorizeRequest struct {
	// Serial is the ONU serial to bind
	Serial string

	// Frame/Slot/Port locate the PON interface
	Frame int
	Slot  int
	Port  int

	// ONUID optionally forces a device ID where the dialect allows it;
	// zero lets the driver pick the next free ID.
	ONUID int

	// ONUType is the registered terminal type (dialects that need one)
	ONUType string

	// LineProfile / ServiceProfile are OLT-side template names; empty
	// falls back to the OLTConfig defaults.
	LineProfile    string
	ServiceProfile string

	// VLAN is the service VLAN; zero falls back to the config default.
	VLAN int

	// Description labels the ONU with the subscriber it serves.
	Description string
}

// AuthorizeResult reports a completed ONU registration.
type AuthorizeResult struct {
	// AssignedID is the ONU ID the device ended up using. Persist it;
	// deauthorization is keyed by it.
	AssignedID int `json:"assigned_id"`

	// Serial echoes the bound serial
	Serial string `json:"serial"`

	// VLAN is the service VLAN that was applied, if any
	VLAN int `json:"vlan,omitempty"`

	// Steps holds the raw output of each configuration command, in
	// order, for operator audit.
	Steps []string `json:"steps,omitempty"`
}

// ONUStatus is the run state of one authorized ONU.
type ONUStatus struct {
	ONUID  int    `json:"onu_id"`
	Serial string `json:"serial,omitempty"`

	// Online is the normalized up/down verdict
	Online bool `json:"online"`

	// State is the raw device state word ("working", "online", "LOS", ...)
	State string `json:"state,omitempty"`

	// DistanceM is the measured fiber distance in meters, when reported
	DistanceM int `json:"distance_m,omitempty"`

	// Raw retains the device output for diagnostics
	Raw string `json:"raw,omitempty"`
}

// OpticalInfo carries ONU optical diagnostics. Pointer fields are nil
// when the device output did not include the reading.
type OpticalInfo struct {
	// RxPowerDBm is the ONU receive power
	RxPowerDBm *float64 `json:"rx_power_dbm,omitempty"`

	// TxPowerDBm is the ONU transmit power
	TxPowerDBm *float64 `json:"tx_power_dbm,omitempty"`

	// Temperature is the transceiver temperature in Celsius
	Temperature *float64 `json:"temperature_c,omitempty"`

	// Voltage is the supply voltage in Volts
	Voltage *float64 `json:"voltage_v,omitempty"`

	// DistanceM is the fiber distance in meters, when reported
	DistanceM *int `json:"distance_m,omitempty"`

	// SignalQuality is the operator label derived from RxPowerDBm
	SignalQuality string `json:"signal_quality,omitempty"`

	// Raw retains the device output for diagnostics
	Raw string `json:"raw,omitempty"`
}

// ONUSummary is one row of a per-port authorized-ONU listing.
type ONUSummary struct {
	ONUID       int    `json:"onu_id"`
	Serial      string `json:"serial,omitempty"`
	State       string `json:"state,omitempty"`
	Description string `json:"description,omitempty"`
}

// OLTStatus is the TestConnection verdict plus whatever diagnostics the
// probe gathered. Never produced with an error; Connected=false plus
// Error is the failure shape.
type OLTStatus struct {
	// Connected reports whether a full connect+probe round-trip worked
	Connected bool `json:"connected"`

	// Host is the management address probed
	Host string `json:"host"`

	// Vendor is the normalized vendor family
	Vendor Vendor `json:"vendor,omitempty"`

	// Identity is the device hostname/identity when probed
	Identity string `json:"identity,omitempty"`

	// Version is the raw version/uptime probe output
	Version string `json:"version,omitempty"`

	// Error is non-empty when Connected is false
	Error string `json:"error,omitempty"`
}
