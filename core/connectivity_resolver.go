package core

import (
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Pouria-007/airport-digital-twin/model"
)

// Distance thresholds for link quality classification, in scene units
// (centimetres in the reference stage). Both bounds are inclusive.
const (
	DistanceNear = 15000.0 // ON at or below
	DistanceMed  = 40000.0 // DEGRADED at or below, OFF beyond
)

// Ray width anchors for the link visualisation. Width tapers linearly from
// RayWidthMax at DistanceNear down to RayWidthMin at rayWidthFarDistance.
const (
	RayWidthMax         = 8.0
	RayWidthMin         = 2.0
	rayWidthFarDistance = DistanceMed * 1.5
)

// ConnectivityResolver selects the serving tower for one antenna and
// classifies the link quality from distance and occlusion. It holds no
// state; every Resolve call is independent.
type ConnectivityResolver struct{}

// Resolve walks the towers in ascending-ID order, tracking the nearest
// tower with clear line of sight and, separately, the first blocked tower
// encountered before any clear one. The first-blocked (rather than
// closest-blocked) fallback is deliberate; see the note on blockedFallback
// below. An empty tower set yields an OFF link with no selection, not an
// error.
func (ConnectivityResolver) Resolve(antennaPos r3.Vec, towers []model.Tower, tester OcclusionTester) model.LinkState {
	ordered := append([]model.Tower(nil), towers...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	type candidate struct {
		tower    model.Tower
		distance float64
	}
	var bestClear, blockedFallback *candidate

	for _, tw := range ordered {
		dist := Distance(tw.Position, antennaPos)
		res := tester.IsClear(tw.Position, antennaPos)

		if res.Clear {
			if bestClear == nil || dist < bestClear.distance {
				bestClear = &candidate{tower: tw, distance: dist}
			}
			continue
		}

		// Remember only the first blocked tower seen while no clear tower
		// exists yet. Selection among blocked towers is therefore
		// order-sensitive, which is why the iteration order above is fixed.
		if bestClear == nil && blockedFallback == nil {
			blockedFallback = &candidate{tower: tw, distance: dist}
		}
	}

	selected := bestClear
	occluded := false
	if selected == nil {
		selected = blockedFallback
		occluded = true
	}
	if selected == nil {
		return model.LinkState{Quality: model.SignalOff}
	}

	link := model.LinkState{
		TowerID:  selected.tower.ID,
		Distance: selected.distance,
		Occluded: occluded,
		Quality:  QualityFromDistance(selected.distance),
	}
	// An occluded link is OFF no matter how close the tower is.
	if occluded {
		link.Quality = model.SignalOff
	}
	return link
}

// QualityFromDistance classifies an unobstructed link by distance alone.
func QualityFromDistance(distance float64) model.SignalState {
	switch {
	case distance <= DistanceNear:
		return model.SignalOn
	case distance <= DistanceMed:
		return model.SignalDegraded
	default:
		return model.SignalOff
	}
}

// VisualWeight maps a link distance to the thickness the presentation
// layer should draw the signal ray with.
func VisualWeight(distance float64) float64 {
	if distance <= DistanceNear {
		return RayWidthMax
	}
	if distance >= rayWidthFarDistance {
		return RayWidthMin
	}
	t := Clamp((distance-DistanceNear)/(rayWidthFarDistance-DistanceNear), 0, 1)
	return RayWidthMax - (RayWidthMax-RayWidthMin)*t
}
