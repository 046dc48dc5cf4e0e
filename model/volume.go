package model

import "gonum.org/v1/gonum/spatial/r3"

// VolumeRole identifies what a policy volume does to antennas inside it.
// The role fixes priority; multiple volumes may share a role.
type VolumeRole string

const (
	RoleBlocking    VolumeRole = "blocking"
	RoleAttenuating VolumeRole = "attenuating"
	RoleSecure      VolumeRole = "secure"
)

// Volume is a spatial policy region with axis-aligned world-space bounds.
type Volume struct {
	ID   string
	Role VolumeRole
	Min  r3.Vec
	Max  r3.Vec
}

// Zone labels displayed for an antenna's current spatial context. The zone
// is descriptive only and can differ from the operational state (an
// unlocked antenna in a secure zone stays ON but reports the secure zone).
const (
	ZoneClear        = "CLEAR"
	ZoneBlocking     = "RF BLOCKING"
	ZoneAttenuation  = "RF ATTENUATION"
	ZoneSecureLocked = "SECURE + LOCKED"
	ZoneSecure       = "SECURE ZONE"
)
