package core

import (
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Pouria-007/airport-digital-twin/model"
)

// Transition records a state change for one antenna between consecutive
// evaluations.
type Transition struct {
	AntennaID string
	From      model.SignalState
	To        model.SignalState
}

// PolicyStateEngine derives an antenna's operational state and zone label
// from the policy volumes it currently occupies. The engine owns a
// per-antenna previous-state cache, used solely to emit transition
// diagnostics; the cache is updated after every evaluation whether or not
// the state changed.
type PolicyStateEngine struct {
	mu   sync.Mutex
	prev map[string]model.SignalState
	subs []func(Transition)
}

func NewPolicyStateEngine() *PolicyStateEngine {
	return &PolicyStateEngine{prev: make(map[string]model.SignalState)}
}

// Subscribe registers a callback invoked at most once per antenna per
// evaluation, whenever the computed state differs from the cached one. It
// returns an unsubscribe function.
func (pe *PolicyStateEngine) Subscribe(fn func(Transition)) (unsubscribe func()) {
	pe.mu.Lock()
	defer pe.mu.Unlock()
	pe.subs = append(pe.subs, fn)
	idx := len(pe.subs) - 1

	return func() {
		pe.mu.Lock()
		defer pe.mu.Unlock()
		if idx < 0 || idx >= len(pe.subs) {
			return
		}
		pe.subs = append(pe.subs[:idx], pe.subs[idx+1:]...)
		idx = -1
	}
}

// Evaluate classifies the antenna at the given position against the policy
// volumes, emits a transition event if the state changed since the last
// evaluation of this antenna, and returns the resulting policy state. The
// first evaluation of an antenna seeds the cache without emitting.
func (pe *PolicyStateEngine) Evaluate(ant model.Antenna, pos r3.Vec, volumes []model.Volume) model.PolicyState {
	state, zone := classifyPolicy(ant, pos, volumes)

	pe.mu.Lock()
	old, seen := pe.prev[ant.ID]
	pe.prev[ant.ID] = state
	subs := append([]func(Transition){}, pe.subs...)
	pe.mu.Unlock()

	// Notify subscribers outside the lock to avoid deadlocks.
	if seen && old != state {
		ev := Transition{AntennaID: ant.ID, From: old, To: state}
		for _, fn := range subs {
			fn(ev)
		}
	}

	return model.PolicyState{State: state, Zone: zone}
}

// classifyPolicy applies the volume priority order, first match wins:
// Blocking > Attenuation > (Secure ∧ locked) > Secure > clear. Containment
// per role uses union semantics: inside any volume of that role counts.
// Note case 4: an unlocked antenna in a secure zone keeps state ON but its
// zone label still reports the secure zone.
func classifyPolicy(ant model.Antenna, pos r3.Vec, volumes []model.Volume) (model.SignalState, string) {
	insideRole := func(role model.VolumeRole) bool {
		for _, v := range volumes {
			if v.Role == role && BoxContains(v.Min, v.Max, pos) {
				return true
			}
		}
		return false
	}

	switch {
	case insideRole(model.RoleBlocking):
		return model.SignalOff, model.ZoneBlocking
	case insideRole(model.RoleAttenuating):
		return model.SignalDegraded, model.ZoneAttenuation
	case insideRole(model.RoleSecure):
		if ant.PolicyLocked {
			return model.SignalOff, model.ZoneSecureLocked
		}
		return model.SignalOn, model.ZoneSecure
	default:
		return model.SignalOn, model.ZoneClear
	}
}
