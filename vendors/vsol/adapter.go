// Package vsol drives V-SOL GPON OLTs (V1600 series) over their
// interactive CLI. The vocabulary is loosely Cisco-style: configure
// terminal, interface gpon 0/<slot>/<port>, onu <id> sn <serial>.
// Optical readings are also reachable over SNMP, which is cheaper than
// a shell session when only monitoring is needed.
package vsol

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/zetanet/southbound/drivers/shell"
	"github.com/zetanet/southbound/drivers/snmp"
	"github.com/zetanet/southbound/types"
	"github.com/zetanet/southbound/vendors/common"
)

// Adapter implements types.Driver for V-SOL OLTs.
type Adapter struct {
	config *types.OLTConfig
	shell  types.ShellExecutor

	// dialShell is replaced in tests to avoid a network dependency.
	dialShell func(cfg *types.OLTConfig) (types.ShellExecutor, error)

	// snmpExec overrides the per-call SNMP session in tests.
	snmpExec types.SNMPExecutor
}

// NewAdapter builds an adapter for one OLT. No I/O happens until the
// first operation.
func NewAdapter(config *types.OLTConfig) *Adapter {
	return &Adapter{
		config: config,
		dialShell: func(cfg *types.OLTConfig) (types.ShellExecutor, error) {
			return shell.Dial(cfg, types.VendorVSOL)
		},
	}
}

var _ types.Driver = (*Adapter)(nil)

// Connect opens the shell session. Connecting twice is a no-op.
func (a *Adapter) Connect(ctx context.Context) error {
	if a.shell != nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	sh, err := a.dialShell(a.config)
	if err != nil {
		return err
	}
	a.shell = sh
	return nil
}

// Disconnect closes the session. Safe to call more than once and safe
// after a failed Connect.
func (a *Adapter) Disconnect() error {
	if a.shell == nil {
		return nil
	}
	err := a.shell.Close()
	a.shell = nil
	return err
}

// session returns the open shell, dialing one when the caller has not
// connected explicitly. The bool reports whether this call opened the
// session and therefore must close it.
func (a *Adapter) session(ctx context.Context) (types.ShellExecutor, bool, error) {
	if a.shell != nil {
		return a.shell, false, nil
	}
	if err := a.Connect(ctx); err != nil {
		return nil, false, err
	}
	return a.shell, true, nil
}

func (a *Adapter) commandTimeout() time.Duration {
	if a.config.Timeout > 0 {
		return a.config.Timeout
	}
	return 30 * time.Second
}

// TestConnection probes the OLT with "show version". Connectivity
// problems land in the status payload, never in an error.
func (a *Adapter) TestConnection(ctx context.Context) *types.OLTStatus {
	status := &types.OLTStatus{
		Host:     a.config.Address,
		Vendor:   types.VendorVSOL,
		Identity: a.config.Name,
	}

	sh, owned, err := a.session(ctx)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	if owned {
		defer a.Disconnect()
	}

	out, err := sh.ExecCommand(ctx, "show version")
	if err != nil {
		status.Error = err.Error()
		return status
	}

	status.Connected = true
	status.Version = common.Truncate(strings.TrimSpace(out), 500)
	return status
}

// ListUnauthorizedONUs reads the unregistered-terminal table.
func (a *Adapter) ListUnauthorizedONUs(ctx context.Context) ([]types.ONUDiscovery, error) {
	sh, owned, err := a.session(ctx)
	if err != nil {
		return nil, err
	}
	if owned {
		defer a.Disconnect()
	}

	out, err := sh.ExecCommand(ctx, "show pon onu uncfg")
	if err != nil {
		return nil, fmt.Errorf("listing unauthorized onus: %w", err)
	}
	return parseUncfgONUs(out), nil
}

// AuthorizeONU registers an ONU by serial. With an explicit ONUID the
// bind is "onu <id> sn <serial>"; without one the OLT picks the slot
// itself via "onu bind sn <serial>" and the confirm line is parsed for
// the assigned id. VLAN translation needs the explicit id, so binds
// without one leave the VLAN to ConfigureONUService.
func (a *Adapter) AuthorizeONU(ctx context.Context, req types.AuthorizeRequest) (*types.AuthorizeResult, error) {
	if req.Serial == "" {
		return nil, fmt.Errorf("authorize: serial number required")
	}

	sh, owned, err := a.session(ctx)
	if err != nil {
		return nil, err
	}
	if owned {
		defer a.Disconnect()
	}

	onuType := req.ONUType
	if onuType == "" {
		onuType = a.config.DefaultONUType
	}
	vlan := req.VLAN
	if vlan == 0 {
		vlan = a.config.DefaultVLAN
	}

	bind := fmt.Sprintf("onu bind sn %s", req.Serial)
	if req.ONUID > 0 {
		bind = fmt.Sprintf("onu %d sn %s", req.ONUID, req.Serial)
	}
	if onuType != "" {
		bind += " type " + onuType
	}

	cmds := []string{
		"configure terminal",
		ponInterface(req.Slot, req.Port),
		bind,
		"exit",
	}

	appliedVLAN := 0
	if vlan > 0 && req.ONUID > 0 {
		appliedVLAN = vlan
		cmds = append(cmds,
			ponInterface(req.Slot, req.Port),
			fmt.Sprintf("onu %d vlan %d translate %d", req.ONUID, vlan, vlan),
			"exit",
		)
	}
	cmds = append(cmds, "exit")

	outputs, err := sh.ExecCommands(ctx, cmds)
	if err != nil {
		// A shell stranded inside a config context is useless to the
		// next command; drop the session on any mid-sequence failure.
		a.Disconnect()
		return nil, fmt.Errorf("authorizing %s on gpon 0/%d/%d: %w", req.Serial, req.Slot, req.Port, err)
	}

	assigned := 0
	if len(outputs) > 2 {
		assigned = parseAssignedONUID(outputs[2])
	}
	if assigned == 0 {
		assigned = req.ONUID
	}

	return &types.AuthorizeResult{
		AssignedID: assigned,
		Serial:     req.Serial,
		VLAN:       appliedVLAN,
		Steps:      outputs,
	}, nil
}

// DeauthorizeONU removes an authorized ONU by its device id.
func (a *Adapter) DeauthorizeONU(ctx context.Context, slot, port, onuID int) error {
	sh, owned, err := a.session(ctx)
	if err != nil {
		return err
	}
	if owned {
		defer a.Disconnect()
	}

	cmds := []string{
		"configure terminal",
		ponInterface(slot, port),
		fmt.Sprintf("no onu %d", onuID),
		"exit",
		"exit",
	}

	if _, err := sh.ExecCommands(ctx, cmds); err != nil {
		a.Disconnect()
		return fmt.Errorf("deauthorizing onu %d on gpon 0/%d/%d: %w", onuID, slot, port, err)
	}
	return nil
}

// GetONUStatus reads the run state of one ONU.
func (a *Adapter) GetONUStatus(ctx context.Context, slot, port, onuID int) (*types.ONUStatus, error) {
	sh, owned, err := a.session(ctx)
	if err != nil {
		return nil, err
	}
	if owned {
		defer a.Disconnect()
	}

	cmd := fmt.Sprintf("show pon onu information gpon 0/%d/%d %d", slot, port, onuID)
	out, err := sh.ExecCommand(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("reading onu %d status: %w", onuID, err)
	}
	return parseONUInfo(out, onuID), nil
}

// GetONUOpticalInfo reads optical diagnostics over the shell. Fields
// the output does not carry stay nil.
func (a *Adapter) GetONUOpticalInfo(ctx context.Context, slot, port, onuID int) (*types.OpticalInfo, error) {
	sh, owned, err := a.session(ctx)
	if err != nil {
		return nil, err
	}
	if owned {
		defer a.Disconnect()
	}

	cmd := fmt.Sprintf("show pon onu optical-info gpon 0/%d/%d %d", slot, port, onuID)
	out, err := sh.ExecCommand(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("reading onu %d optical info: %w", onuID, err)
	}
	return parseOpticalInfo(out), nil
}

// GetONUOpticalInfoSNMP reads the same optical diagnostics over SNMP,
// avoiding a shell session. The device reports readings as strings
// with units ("-18.42(dBm)"); integer replies from older firmware are
// scaled instead.
func (a *Adapter) GetONUOpticalInfoSNMP(ctx context.Context, slot, port, onuID int) (*types.OpticalInfo, error) {
	exec := a.snmpExec
	if exec == nil {
		drv, err := snmp.FromOLT(a.config)
		if err != nil {
			return nil, err
		}
		if err := drv.Connect(); err != nil {
			return nil, err
		}
		defer drv.Close()
		exec = drv
	}

	idx := onuIndex(slot, port, onuID)
	oids := []string{
		OIDONURxPower + "." + idx,
		OIDONUTxPower + "." + idx,
		OIDONUTemperature + "." + idx,
		OIDONUVoltage + "." + idx,
		OIDONUDistance + "." + idx,
	}

	results, err := exec.BulkGetSNMP(ctx, oids)
	if err != nil {
		return nil, fmt.Errorf("onu %d optical snmp query: %w", onuID, err)
	}

	info := &types.OpticalInfo{}
	if val, ok := common.GetSNMPResult(results, OIDONURxPower+"."+idx); ok {
		if rx, ok := ParseRxPower(val); ok {
			info.RxPowerDBm = &rx
			info.SignalQuality = types.ClassifySignal(rx)
		}
	}
	if val, ok := common.GetSNMPResult(results, OIDONUTxPower+"."+idx); ok {
		if tx, ok := ParseTxPower(val); ok {
			info.TxPowerDBm = &tx
		}
	}
	if val, ok := common.GetSNMPResult(results, OIDONUTemperature+"."+idx); ok {
		if temp, ok := ParseTemperature(val); ok {
			info.Temperature = &temp
		}
	}
	if val, ok := common.GetSNMPResult(results, OIDONUVoltage+"."+idx); ok {
		if volt, ok := ParseVoltage(val); ok {
			info.Voltage = &volt
		}
	}
	if val, ok := common.GetSNMPResult(results, OIDONUDistance+"."+idx); ok {
		if dist, ok := ParseDistance(val); ok {
			info.DistanceM = &dist
		}
	}
	return info, nil
}

// ListONUsOnPort lists authorized ONUs on one PON port.
func (a *Adapter) ListONUsOnPort(ctx context.Context, slot, port int) ([]types.ONUSummary, error) {
	sh, owned, err := a.session(ctx)
	if err != nil {
		return nil, err
	}
	if owned {
		defer a.Disconnect()
	}

	cmd := fmt.Sprintf("show pon onu information gpon 0/%d/%d", slot, port)
	out, err := sh.ExecCommand(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("listing onus on gpon 0/%d/%d: %w", slot, port, err)
	}
	return parsePortONUs(out), nil
}

// ConfigureONUService binds a service VLAN to an authorized ONU using
// VLAN translation inside the PON interface context.
func (a *Adapter) ConfigureONUService(ctx context.Context, slot, port, onuID, vlan int) error {
	sh, owned, err := a.session(ctx)
	if err != nil {
		return err
	}
	if owned {
		defer a.Disconnect()
	}

	cmds := []string{
		"configure terminal",
		ponInterface(slot, port),
		fmt.Sprintf("onu %d vlan %d translate %d", onuID, vlan, vlan),
		"exit",
		"exit",
	}

	if _, err := sh.ExecCommands(ctx, cmds); err != nil {
		a.Disconnect()
		return fmt.Errorf("configuring vlan %d on onu %d: %w", vlan, onuID, err)
	}
	return nil
}

// ExecuteCommand runs a raw command. Unlike the structured operations
// its errors propagate untouched.
func (a *Adapter) ExecuteCommand(ctx context.Context, command string, timeout time.Duration) (string, error) {
	sh, owned, err := a.session(ctx)
	if err != nil {
		return "", err
	}
	if owned {
		defer a.Disconnect()
	}

	if timeout > 0 {
		sh.SetTimeout(timeout)
		defer sh.SetTimeout(a.commandTimeout())
	}
	return sh.ExecCommand(ctx, command)
}

// ponInterface names the PON interface V-SOL style. The leading zero
// is the chassis number, fixed on the single-chassis V1600 platforms.
func ponInterface(slot, port int) string {
	return fmt.Sprintf("interface gpon 0/%d/%d", slot, port)
}

// Parsers. V-SOL table layouts drift between firmware builds, so rows
// are matched loosely per line rather than by column offsets.

var (
	uncfgRowRe    = regexp.MustCompile(`(\d+)/(\d+)\s+(\S{8,})\s+(\S+)`)
	assignedIDRe  = regexp.MustCompile(`(?i)onu\s+(\d+)`)
	serialRe      = regexp.MustCompile(`(?i)serial(?:[\s-]*num(?:ber)?)?[:\s]+(\S+)`)
	portONURowRe  = regexp.MustCompile(`^\s*(\d+)\s+(\S{8,})\s+(\S+)`)
	rxPowerRe     = regexp.MustCompile(`(?i)rx\s*(?:optical\s*)?power[:\s]+(-?\d+\.?\d*)`)
	txPowerRe     = regexp.MustCompile(`(?i)tx\s*(?:optical\s*)?power[:\s]+(-?\d+\.?\d*)`)
	temperatureRe = regexp.MustCompile(`(?i)temperature[:\s]+(-?\d+\.?\d*)`)
	voltageRe     = regexp.MustCompile(`(?i)voltage[:\s]+(-?\d+\.?\d*)`)
	distanceRe    = regexp.MustCompile(`(?i)distance[:\s]+(\d+)`)
)

func parseUncfgONUs(output string) []types.ONUDiscovery {
	var onus []types.ONUDiscovery
	for _, line := range strings.Split(common.StripANSI(output), "\n") {
		m := uncfgRowRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		slot, _ := strconv.Atoi(m[1])
		port, _ := strconv.Atoi(m[2])
		onus = append(onus, types.ONUDiscovery{
			Serial:       m[3],
			Slot:         slot,
			Port:         port,
			Status:       m[4],
			DiscoveredAt: time.Now(),
		})
	}
	return onus
}

// parseAssignedONUID pulls the device-assigned id out of the bind
// confirmation ("onu 5 has been authorized"). Zero means the output
// carried no id.
func parseAssignedONUID(output string) int {
	m := assignedIDRe.FindStringSubmatch(output)
	if m == nil {
		return 0
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return id
}

func parseONUInfo(output string, onuID int) *types.ONUStatus {
	clean := common.StripANSI(output)
	status := &types.ONUStatus{
		ONUID: onuID,
		State: "unknown",
		Raw:   common.Truncate(clean, 500),
	}

	lower := strings.ToLower(clean)
	switch {
	case strings.Contains(lower, "online"):
		status.State = "online"
		status.Online = true
	case strings.Contains(lower, "offline"):
		status.State = "offline"
	}

	if m := serialRe.FindStringSubmatch(clean); m != nil {
		status.Serial = m[1]
	}
	if m := distanceRe.FindStringSubmatch(clean); m != nil {
		status.DistanceM, _ = strconv.Atoi(m[1])
	}
	return status
}

func parsePortONUs(output string) []types.ONUSummary {
	var onus []types.ONUSummary
	for _, line := range strings.Split(common.StripANSI(output), "\n") {
		m := portONURowRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		id, _ := strconv.Atoi(m[1])
		raw := strings.ToLower(m[3])
		state := "offline"
		if strings.Contains(raw, "online") || strings.Contains(raw, "active") {
			state = "online"
		}
		onus = append(onus, types.ONUSummary{
			ONUID:  id,
			Serial: m[2],
			State:  state,
		})
	}
	return onus
}

func parseOpticalInfo(output string) *types.OpticalInfo {
	clean := common.StripANSI(output)
	info := &types.OpticalInfo{
		Raw: common.Truncate(clean, 500),
	}

	if v := matchFloat(rxPowerRe, clean); v != nil {
		info.RxPowerDBm = v
		info.SignalQuality = types.ClassifySignal(*v)
	}
	info.TxPowerDBm = matchFloat(txPowerRe, clean)
	info.Temperature = matchFloat(temperatureRe, clean)
	info.Voltage = matchFloat(voltageRe, clean)
	if m := distanceRe.FindStringSubmatch(clean); m != nil {
		if d, err := strconv.Atoi(m[1]); err == nil {
			info.DistanceM = &d
		}
	}
	return info
}

func matchFloat(re *regexp.Regexp, s string) *float64 {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &f
}
