package core

import (
	"fmt"
	"math"

	"github.com/Pouria-007/airport-digital-twin/model"
)

// axisOrder remaps interpolated waypoint Euler angles to aircraft body
// axes: waypoint rigs author rotations as (X, Y, Z) while the aircraft
// xform expects (X, Z, Y). The permutation is a one-time coordinate-space
// correction and is applied after the blend, never before.
var axisOrder = [3]int{0, 2, 1}

// PathInterpolator maps a normalized progress scalar in [0,1] to a world
// pose along an ordered waypoint chain. It is pure given a fixed
// configuration: Evaluate has no side effects.
type PathInterpolator struct {
	waypoints []model.Waypoint
}

// Configure stores the waypoint sequence. It fails with
// ErrInvalidConfiguration when fewer than two waypoints are given.
func (pi *PathInterpolator) Configure(waypoints []model.Waypoint) error {
	if len(waypoints) < 2 {
		return fmt.Errorf("%w: path needs at least 2 waypoints, got %d",
			ErrInvalidConfiguration, len(waypoints))
	}
	pi.waypoints = append([]model.Waypoint(nil), waypoints...)
	return nil
}

// Evaluate returns the pose at the given progress. Any real progress value
// is accepted; out-of-range values are silently clamped to [0,1], so
// Evaluate(0) is exactly the first waypoint's pose and Evaluate(1) exactly
// the last one's. Evaluate must only be called after a successful
// Configure.
func (pi *PathInterpolator) Evaluate(progress float64) model.Pose {
	progress = Clamp(progress, 0, 1)

	segments := len(pi.waypoints) - 1
	idx := int(math.Floor(progress * float64(segments)))
	// progress = 1.0 maps to the last segment with local blend 1, not an
	// out-of-range index.
	if idx > segments-1 {
		idx = segments - 1
	}
	localT := progress*float64(segments) - float64(idx)

	start := pi.waypoints[idx]
	end := pi.waypoints[idx+1]

	var blended [3]float64
	for i := range blended {
		blended[i] = Lerp(start.RotationDeg[i], end.RotationDeg[i], localT)
	}
	var rot [3]float64
	for i, src := range axisOrder {
		rot[i] = blended[src]
	}

	return model.Pose{
		Position:    LerpVec(start.Position, end.Position, localT),
		RotationDeg: rot,
	}
}
