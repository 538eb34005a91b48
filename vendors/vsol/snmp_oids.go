package vsol

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zetanet/southbound/vendors/common"
)

// V-SOL SNMP OIDs, checked against a V1600 "Eight GPON OLT Platform"
// running V2.1.6R. Enterprise prefix 1.3.6.1.4.1.37950. CPU and memory
// are not exposed over SNMP on these devices; temperature is the only
// system health reading.
const (
	OIDVSOLEnterprise = "1.3.6.1.4.1.37950"

	// System info (1.3.6.1.4.1.37950.1.1.5.10.12.5)
	OIDVSOLHostname    = "1.3.6.1.4.1.37950.1.1.5.10.12.5.1.0"
	OIDVSOLVersion     = "1.3.6.1.4.1.37950.1.1.5.10.12.5.4.0"
	OIDVSOLUptime      = "1.3.6.1.4.1.37950.1.1.5.10.12.5.8.0"
	OIDVSOLTemperature = "1.3.6.1.4.1.37950.1.1.5.10.12.5.9.0"

	// ONU optical table (1.3.6.1.4.1.37950.1.1.6.1.1.3.1), indexed
	// .{attr}.{pon_idx}.{onu_idx}. Current firmware returns strings
	// with units ("-18.420(dBm)", "47.957(C)", "3.30(V)"); older
	// builds return scaled integers.
	OIDONUTemperature = "1.3.6.1.4.1.37950.1.1.6.1.1.3.1.3"
	OIDONUVoltage     = "1.3.6.1.4.1.37950.1.1.6.1.1.3.1.4"
	OIDONUBiasCurrent = "1.3.6.1.4.1.37950.1.1.6.1.1.3.1.5"
	OIDONUTxPower     = "1.3.6.1.4.1.37950.1.1.6.1.1.3.1.6"
	OIDONURxPower     = "1.3.6.1.4.1.37950.1.1.6.1.1.3.1.7"
	OIDONUDistance    = "1.3.6.1.4.1.37950.1.1.6.1.1.3.1.8"

	// ONU basic info table (1.3.6.1.4.1.37950.1.1.6.1.1.2.1), same
	// index layout. Phase state distinguishes syncMib from working.
	OIDONUSerialNumber = "1.3.6.1.4.1.37950.1.1.6.1.1.2.1.5"
	OIDONUPhaseState   = "1.3.6.1.4.1.37950.1.1.6.1.1.2.1.10"
)

// onuIndex builds the table index for one ONU. The V1600 platforms are
// single slot: pon_idx 1..8 maps straight to ports 0/<slot>/1..8, so
// the slot number does not participate in the index.
func onuIndex(_, port, onuID int) string {
	return fmt.Sprintf("%d.%d", port, onuID)
}

// ParseONUIndex is the inverse of onuIndex, for walking whole tables.
func ParseONUIndex(index string) (port, onuID int, err error) {
	index = strings.TrimPrefix(index, ".")
	parts := strings.Split(index, ".")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("onu index %q: want pon.onu", index)
	}
	port, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("onu index %q: %w", index, err)
	}
	onuID, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("onu index %q: %w", index, err)
	}
	return port, onuID, nil
}

// ParseOpticalString extracts the number from V-SOL's unit-suffixed
// readings: "-18.420(dBm)" -> -18.42.
func ParseOpticalString(value string) (float64, bool) {
	if value == "" {
		return 0, false
	}
	if i := strings.Index(value, "("); i > 0 {
		value = value[:i]
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parseOpticalValue handles both reply shapes: unit-suffixed strings
// from current firmware and scaled integers from older builds.
func parseOpticalValue(value interface{}, divisor float64) (float64, bool) {
	switch v := value.(type) {
	case string:
		return ParseOpticalString(v)
	case []byte:
		return ParseOpticalString(string(v))
	default:
		raw, ok := common.ParseIntSNMPValue(value)
		if !ok || !common.IsValidSNMPValue(raw) {
			return 0, false
		}
		return float64(raw) / divisor, true
	}
}

// ParseRxPower returns the receive power in dBm.
func ParseRxPower(value interface{}) (float64, bool) {
	return parseOpticalValue(value, 1000.0)
}

// ParseTxPower returns the transmit power in dBm.
func ParseTxPower(value interface{}) (float64, bool) {
	return parseOpticalValue(value, 1000.0)
}

// ParseTemperature returns the transceiver temperature in Celsius.
func ParseTemperature(value interface{}) (float64, bool) {
	return parseOpticalValue(value, 1000.0)
}

// ParseVoltage returns the supply voltage in Volts.
func ParseVoltage(value interface{}) (float64, bool) {
	return parseOpticalValue(value, 100.0)
}

// ParseBiasCurrent returns the laser bias current in mA.
func ParseBiasCurrent(value interface{}) (float64, bool) {
	return parseOpticalValue(value, 1000.0)
}

// ParseDistance returns the measured fiber distance in meters.
func ParseDistance(value interface{}) (int, bool) {
	raw, ok := common.ParseIntSNMPValue(value)
	if !ok {
		return 0, false
	}
	return int(raw), true
}
