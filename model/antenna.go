package model

// SignalState is the coarse operational classification of an antenna or
// of its serving link.
type SignalState string

const (
	SignalOn       SignalState = "ON"
	SignalDegraded SignalState = "DEGRADED"
	SignalOff      SignalState = "OFF"
)

// Antenna describes one aircraft antenna. These fields are read-only
// inputs to the engines; the antenna's world position is read fresh from
// the scene on every tick and is deliberately not part of this struct.
type Antenna struct {
	ID string

	// PolicyLocked antennas are forced off inside secure zones.
	PolicyLocked bool

	// Static descriptive metadata, shown on the dashboard.
	Type          string
	FrequencyBand string
	RequiresLOS   bool
}
