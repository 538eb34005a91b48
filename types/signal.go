package types

import "math"

// Signal quality labels as shown to field technicians.
const (
	SignalExcelente = "excelente"
	SignalBuena     = "buena"
	SignalAceptable = "aceptable"
	SignalBaja      = "baja"
	SignalCritica   = "critica"
)

// ClassifySignal buckets an ONU receive power reading (dBm) into an
// operator-facing quality label. Readings are bucketed on whole dBm,
// so -15.32 still counts as the -15 band.
func ClassifySignal(rxPowerDBm float64) string {
	dbm := math.Trunc(rxPowerDBm)
	switch {
	case dbm >= -8:
		return SignalExcelente
	case dbm >= -15:
		return SignalBuena
	case dbm >= -23:
		return SignalAceptable
	case dbm >= -25:
		return SignalBaja
	default:
		return SignalCritica
	}
}

// GPON optical power acceptance windows (dBm).
const (
	GPONRxHighThreshold = -8.0
	GPONRxLowThreshold  = -28.0

	GPONTxHighThreshold = 5.0
	GPONTxLowThreshold  = 0.5
)

// IsPowerWithinSpec checks if optical power readings are within GPON spec.
func IsPowerWithinSpec(rxDBm, txDBm float64) bool {
	rxOK := rxDBm >= GPONRxLowThreshold && rxDBm <= GPONRxHighThreshold
	txOK := txDBm >= GPONTxLowThreshold && txDBm <= GPONTxHighThreshold
	return rxOK && txOK
}
