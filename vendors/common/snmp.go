package common

import "strings"

// SNMPInvalidValue is the marker several OLT vendors return when a
// reading is unavailable, usually because the ONU is offline.
const SNMPInvalidValue int64 = 2147483647

// IsValidSNMPValue reports whether a raw reading is usable. Zero also
// counts as unavailable: optical tables return 0 for dark ports.
func IsValidSNMPValue(value int64) bool {
	return value != SNMPInvalidValue && value != 0
}

// GetSNMPResult looks up an OID in a result map regardless of the
// leading-dot convention. gosnmp keys replies with a leading dot while
// OID constants usually omit it.
func GetSNMPResult(results map[string]interface{}, oid string) (interface{}, bool) {
	if results == nil {
		return nil, false
	}

	if !strings.HasPrefix(oid, ".") {
		if val, ok := results["."+oid]; ok {
			return val, true
		}
	}
	if val, ok := results[oid]; ok {
		return val, true
	}
	if strings.HasPrefix(oid, ".") {
		if val, ok := results[strings.TrimPrefix(oid, ".")]; ok {
			return val, true
		}
	}
	return nil, false
}

// ParseIntSNMPValue widens whichever integer type the SNMP layer
// produced into an int64.
func ParseIntSNMPValue(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return int64(v), true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
