package model

import "gonum.org/v1/gonum/spatial/r3"

// Waypoint is a fixed point-and-orientation anchor in the aircraft path
// sequence. Waypoints are immutable after scenario load; their identity is
// implicit in sequence order.
type Waypoint struct {
	Position r3.Vec

	// RotationDeg holds Euler angles in degrees, in waypoint (authoring)
	// axis order. The interpolator remaps them to body axis order.
	RotationDeg [3]float64
}

// Pose is a world-space position plus orientation. It is a value type,
// produced fresh on every evaluation and never stored.
type Pose struct {
	Position    r3.Vec
	RotationDeg [3]float64
}
