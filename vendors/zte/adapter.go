// Package zte drives ZTE ZXA10 OLTs (C300, C320, C600) over their
// interactive CLI. ZTE names PON ports gpon-olt_1/<slot>/<port> and
// addresses ONUs as gpon-onu_1/<slot>/<port>:<id>; binds always carry
// an explicit id and type, and per-ONU service config happens in a
// separate pon-onu-mng context.
package zte

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/zetanet/southbound/drivers/shell"
	"github.com/zetanet/southbound/types"
	"github.com/zetanet/southbound/vendors/common"
)

// Adapter implements types.Driver for ZTE OLTs.
type Adapter struct {
	config *types.OLTConfig
	shell  types.ShellExecutor

	// dialShell is replaced in tests to avoid a network dependency.
	dialShell func(cfg *types.OLTConfig) (types.ShellExecutor, error)
}

// NewAdapter builds an adapter for one OLT. No I/O happens until the
// first operation.
func NewAdapter(config *types.OLTConfig) *Adapter {
	return &Adapter{
		config: config,
		dialShell: func(cfg *types.OLTConfig) (types.ShellExecutor, error) {
			return shell.Dial(cfg, types.VendorZTE)
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

// TestConnection probes the OLT with "show version" and
// "show hostname". Connectivity problems land in the status payload,
// never in an error.
func (a *Adapter) TestConnection(ctx context.Context) *types.OLTStatus {
	status := &types.OLTStatus{
		Host:     a.config.Address,
		Vendor:   types.VendorZTE,
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

	version, err := sh.ExecCommand(ctx, "show version")
	if err != nil {
		status.Error = err.Error()
		return status
	}

	status.Connected = true
	status.Version = common.Truncate(strings.TrimSpace(version), 500)

	if hostname, err := sh.ExecCommand(ctx, "show hostname"); err == nil {
		if name := parseHostname(hostname); name != "" {
			status.Identity = name
		}
	}
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

	out, err := sh.ExecCommand(ctx, "show gpon onu uncfg")
	if err != nil {
		return nil, fmt.Errorf("listing unauthorized onus: %w", err)
	}
	return parseUncfgONUs(out), nil
}

// AuthorizeONU registers an ONU by serial. ZTE binds need an explicit
// id and type; when the request carries no id the adapter picks
// max-in-use+1 from the port's state table. Profile and VLAN follow-up
// runs in the pon-onu-mng context of the freshly bound ONU.
func (a *Adapter) AuthorizeONU(ctx context.Context, req types.AuthorizeRequest) (*types.AuthorizeResult, error) {
	if req.Serial == "" {
		return nil, fmt.Errorf("authorize: serial number required")
	}

	onuType := req.ONUType
	if onuType == "" {
		onuType = a.config.DefaultONUType
	}
	if onuType == "" {
		return nil, fmt.Errorf("authorize: onu type required for zte binds")
	}

	sh, owned, err := a.session(ctx)
	if err != nil {
		return nil, err
	}
	if owned {
		defer a.Disconnect()
	}

	onuID := req.ONUID
	if onuID == 0 {
		onuID, err = a.nextFreeONUID(ctx, sh, req.Slot, req.Port)
		if err != nil {
			return nil, err
		}
	}

	lineProfile := req.LineProfile
	if lineProfile == "" {
		lineProfile = a.config.DefaultLineProfile
	}
	vlan := req.VLAN
	if vlan == 0 {
		vlan = a.config.DefaultVLAN
	}

	bind := fmt.Sprintf("onu %d type %s sn %s", onuID, onuType, req.Serial)
	if req.Description != "" {
		bind += fmt.Sprintf(" desc %q", req.Description)
	}

	cmds := []string{
		"configure terminal",
		fmt.Sprintf("interface %s", oltInterface(req.Slot, req.Port)),
		bind,
		"exit",
	}

	appliedVLAN := 0
	if lineProfile != "" || vlan > 0 {
		cmds = append(cmds, fmt.Sprintf("pon-onu-mng %s", onuAddress(req.Slot, req.Port, onuID)))
		if lineProfile != "" {
			cmds = append(cmds,
				fmt.Sprintf("tcont 1 profile %s", lineProfile),
				"gemport 1 tcont 1",
			)
		}
		if vlan > 0 {
			appliedVLAN = vlan
			cmds = append(cmds, fmt.Sprintf("service-port 1 vport 1 user-vlan %d vlan %d", vlan, vlan))
		}
		cmds = append(cmds, "exit")
	}
	cmds = append(cmds, "exit")

	outputs, err := sh.ExecCommands(ctx, cmds)
	if err != nil {
		// A shell stranded inside a config context is useless to the
		// next command; drop the session on any mid-sequence failure.
		a.Disconnect()
		return nil, fmt.Errorf("authorizing %s on %s: %w", req.Serial, oltInterface(req.Slot, req.Port), err)
	}

	return &types.AuthorizeResult{
		AssignedID: onuID,
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
		fmt.Sprintf("interface %s", oltInterface(slot, port)),
		fmt.Sprintf("no onu %d", onuID),
		"exit",
		"exit",
	}

	if _, err := sh.ExecCommands(ctx, cmds); err != nil {
		a.Disconnect()
		return fmt.Errorf("deauthorizing onu %d on %s: %w", onuID, oltInterface(slot, port), err)
	}
	return nil
}

// GetONUStatus reads the run state of one ONU from the port's state
// table.
func (a *Adapter) GetONUStatus(ctx context.Context, slot, port, onuID int) (*types.ONUStatus, error) {
	sh, owned, err := a.session(ctx)
	if err != nil {
		return nil, err
	}
	if owned {
		defer a.Disconnect()
	}

	out, err := sh.ExecCommand(ctx, stateCommand(slot, port))
	if err != nil {
		return nil, fmt.Errorf("reading onu %d status: %w", onuID, err)
	}
	return parseONUState(out, onuID), nil
}

// GetONUOpticalInfo reads both directions of the optical link budget.
// ZTE reports no transceiver temperature or voltage on this command,
// so those fields stay nil.
func (a *Adapter) GetONUOpticalInfo(ctx context.Context, slot, port, onuID int) (*types.OpticalInfo, error) {
	sh, owned, err := a.session(ctx)
	if err != nil {
		return nil, err
	}
	if owned {
		defer a.Disconnect()
	}

	cmd := fmt.Sprintf("show pon power attenuation %s", onuAddress(slot, port, onuID))
	out, err := sh.ExecCommand(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("reading onu %d optical info: %w", onuID, err)
	}
	return parseAttenuation(out), nil
}

// ListONUsOnPort lists authorized ONUs on one PON port. The state
// table carries no serials, only ids and phase words.
func (a *Adapter) ListONUsOnPort(ctx context.Context, slot, port int) ([]types.ONUSummary, error) {
	sh, owned, err := a.session(ctx)
	if err != nil {
		return nil, err
	}
	if owned {
		defer a.Disconnect()
	}

	out, err := sh.ExecCommand(ctx, stateCommand(slot, port))
	if err != nil {
		return nil, fmt.Errorf("listing onus on %s: %w", oltInterface(slot, port), err)
	}
	return parsePortONUs(out), nil
}

// ConfigureONUService binds a service VLAN to an authorized ONU inside
// its pon-onu-mng context.
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
		fmt.Sprintf("pon-onu-mng %s", onuAddress(slot, port, onuID)),
		fmt.Sprintf("service-port 1 vport 1 user-vlan %d vlan %d", vlan, vlan),
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

// nextFreeONUID picks the id for a bind without one: highest id in the
// port's state table plus one, starting at 1 on an empty port.
func (a *Adapter) nextFreeONUID(ctx context.Context, sh types.ShellExecutor, slot, port int) (int, error) {
	out, err := sh.ExecCommand(ctx, stateCommand(slot, port))
	if err != nil {
		return 0, fmt.Errorf("finding free onu id on %s: %w", oltInterface(slot, port), err)
	}

	max := 0
	for _, onu := range parsePortONUs(out) {
		if onu.ONUID > max {
			max = onu.ONUID
		}
	}
	return max + 1, nil
}

// oltInterface names the PON port ZTE style. The leading 1 is the
// shelf number, fixed on these chassis.
func oltInterface(slot, port int) string {
	return fmt.Sprintf("gpon-olt_1/%d/%d", slot, port)
}

// onuAddress names one ONU on a PON port.
func onuAddress(slot, port, onuID int) string {
	return fmt.Sprintf("gpon-onu_1/%d/%d:%d", slot, port, onuID)
}

func stateCommand(slot, port int) string {
	return fmt.Sprintf("show gpon onu state %s", oltInterface(slot, port))
}

// Parsers. ZTE anchors every row with the interface name, which makes
// the tables easy to pick out of banner noise.

var (
	uncfgRowRe = regexp.MustCompile(`gpon-olt_(\d+)/(\d+)/(\d+)\s+(\S{8,})\s+(\S+)`)
	stateRowRe = regexp.MustCompile(`gpon-onu_\d+/(\d+)/(\d+):(\d+)\s+(.+)`)

	// Attenuation output carries one "up" and one "down" row; the up Tx
	// is the terminal's laser, the down Rx is what reaches it. Some
	// builds label the columns Tx1310/Rx1490.
	upTxRe   = regexp.MustCompile(`(?im)^\s*up\b.*?tx[a-z0-9]*\s*:\s*(-?\d+\.?\d*)`)
	downRxRe = regexp.MustCompile(`(?im)^\s*down\b.*?rx[a-z0-9]*\s*:\s*(-?\d+\.?\d*)`)
)

func parseUncfgONUs(output string) []types.ONUDiscovery {
	var onus []types.ONUDiscovery
	for _, line := range strings.Split(common.StripANSI(output), "\n") {
		m := uncfgRowRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		frame, _ := strconv.Atoi(m[1])
		slot, _ := strconv.Atoi(m[2])
		port, _ := strconv.Atoi(m[3])
		onus = append(onus, types.ONUDiscovery{
			Serial:       m[4],
			Frame:        frame,
			Slot:         slot,
			Port:         port,
			Status:       "unauthorized",
			Model:        m[5],
			DiscoveredAt: time.Now(),
		})
	}
	return onus
}

func parseHostname(output string) string {
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.Contains(strings.ToLower(line), "hostname") {
			continue
		}
		return line
	}
	return ""
}

func parseONUState(output string, onuID int) *types.ONUStatus {
	clean := common.StripANSI(output)
	status := &types.ONUStatus{
		ONUID: onuID,
		State: "unknown",
		Raw:   common.Truncate(clean, 500),
	}

	for _, line := range strings.Split(clean, "\n") {
		m := stateRowRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		id, _ := strconv.Atoi(m[3])
		if id != onuID {
			continue
		}
		if strings.Contains(strings.ToLower(m[4]), "working") {
			status.State = "online"
			status.Online = true
		} else {
			status.State = "offline"
		}
		return status
	}
	return status
}

func parsePortONUs(output string) []types.ONUSummary {
	var onus []types.ONUSummary
	for _, line := range strings.Split(common.StripANSI(output), "\n") {
		m := stateRowRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		id, _ := strconv.Atoi(m[3])
		state := "offline"
		if strings.Contains(strings.ToLower(m[4]), "working") {
			state = "online"
		}
		onus = append(onus, types.ONUSummary{
			ONUID: id,
			State: state,
		})
	}
	return onus
}

func parseAttenuation(output string) *types.OpticalInfo {
	clean := common.StripANSI(output)
	info := &types.OpticalInfo{
		Raw: common.Truncate(clean, 500),
	}

	if m := downRxRe.FindStringSubmatch(clean); m != nil {
		if rx, err := strconv.ParseFloat(m[1], 64); err == nil {
			info.RxPowerDBm = &rx
			info.SignalQuality = types.ClassifySignal(rx)
		}
	}
	if m := upTxRe.FindStringSubmatch(clean); m != nil {
		if tx, err := strconv.ParseFloat(m[1], 64); err == nil {
			info.TxPowerDBm = &tx
		}
	}
	return info
}
