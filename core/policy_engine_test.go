package core

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Pouria-007/airport-digital-twin/model"
)

func testVolumes() []model.Volume {
	return []model.Volume{
		{ID: "block", Role: model.RoleBlocking, Min: r3.Vec{X: 0, Y: 0, Z: 0}, Max: r3.Vec{X: 10, Y: 10, Z: 10}},
		{ID: "atten", Role: model.RoleAttenuating, Min: r3.Vec{X: 20, Y: 0, Z: 0}, Max: r3.Vec{X: 30, Y: 10, Z: 10}},
		{ID: "secure", Role: model.RoleSecure, Min: r3.Vec{X: 40, Y: 0, Z: 0}, Max: r3.Vec{X: 50, Y: 10, Z: 10}},
	}
}

func TestEvaluateStateByZone(t *testing.T) {
	pe := NewPolicyStateEngine()
	vols := testVolumes()
	ant := model.Antenna{ID: "ANT_VHF_1"}

	cases := []struct {
		name      string
		pos       r3.Vec
		wantState model.SignalState
		wantZone  string
	}{
		{"clear", r3.Vec{X: 100, Y: 5, Z: 5}, model.SignalOn, model.ZoneClear},
		{"blocking", r3.Vec{X: 5, Y: 5, Z: 5}, model.SignalOff, model.ZoneBlocking},
		{"attenuating", r3.Vec{X: 25, Y: 5, Z: 5}, model.SignalDegraded, model.ZoneAttenuation},
		{"secure unlocked", r3.Vec{X: 45, Y: 5, Z: 5}, model.SignalOn, model.ZoneSecure},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := pe.Evaluate(ant, tc.pos, vols)
			if got.State != tc.wantState || got.Zone != tc.wantZone {
				t.Fatalf("Evaluate = %+v, want state %v zone %q", got, tc.wantState, tc.wantZone)
			}
		})
	}
}

func TestEvaluateSecureLockedAntenna(t *testing.T) {
	pe := NewPolicyStateEngine()
	locked := model.Antenna{ID: "ANT_SATCOM_PRIMARY", PolicyLocked: true}

	got := pe.Evaluate(locked, r3.Vec{X: 45, Y: 5, Z: 5}, testVolumes())
	if got.State != model.SignalOff {
		t.Fatalf("locked antenna in secure zone: state = %v, want OFF", got.State)
	}
	if got.Zone != model.ZoneSecureLocked {
		t.Fatalf("zone = %q, want %q", got.Zone, model.ZoneSecureLocked)
	}
}

func TestEvaluatePriorityBlockingWins(t *testing.T) {
	pe := NewPolicyStateEngine()
	// Overlapping blocking and attenuating volumes: blocking has priority.
	vols := []model.Volume{
		{ID: "a", Role: model.RoleAttenuating, Min: r3.Vec{}, Max: r3.Vec{X: 10, Y: 10, Z: 10}},
		{ID: "b", Role: model.RoleBlocking, Min: r3.Vec{}, Max: r3.Vec{X: 10, Y: 10, Z: 10}},
	}
	got := pe.Evaluate(model.Antenna{ID: "ANT_GPS_L1"}, r3.Vec{X: 5, Y: 5, Z: 5}, vols)
	if got.State != model.SignalOff || got.Zone != model.ZoneBlocking {
		t.Fatalf("Evaluate = %+v, want blocking to win", got)
	}
}

func TestEvaluateMaxCornerInclusive(t *testing.T) {
	pe := NewPolicyStateEngine()
	got := pe.Evaluate(model.Antenna{ID: "ANT_GPS_L2"}, r3.Vec{X: 10, Y: 10, Z: 10}, testVolumes())
	if got.State != model.SignalOff {
		t.Fatalf("point on max corner: state = %v, want OFF (inside)", got.State)
	}
}

func TestEvaluateUnionAcrossSameRole(t *testing.T) {
	pe := NewPolicyStateEngine()
	vols := []model.Volume{
		{ID: "a1", Role: model.RoleAttenuating, Min: r3.Vec{}, Max: r3.Vec{X: 10, Y: 10, Z: 10}},
		{ID: "a2", Role: model.RoleAttenuating, Min: r3.Vec{X: 100}, Max: r3.Vec{X: 110, Y: 10, Z: 10}},
	}
	got := pe.Evaluate(model.Antenna{ID: "ANT_HF_PROBE"}, r3.Vec{X: 105, Y: 5, Z: 5}, vols)
	if got.State != model.SignalDegraded {
		t.Fatalf("inside second volume of role: state = %v, want DEGRADED", got.State)
	}
}

func TestTransitionsEmittedOncePerChange(t *testing.T) {
	pe := NewPolicyStateEngine()
	ant := model.Antenna{ID: "ANT_TCAS_UPPER"}
	vols := testVolumes()

	var events []Transition
	unsubscribe := pe.Subscribe(func(ev Transition) { events = append(events, ev) })

	clear := r3.Vec{X: 100, Y: 5, Z: 5}
	blocked := r3.Vec{X: 5, Y: 5, Z: 5}

	pe.Evaluate(ant, clear, vols) // first evaluation seeds silently
	if len(events) != 0 {
		t.Fatalf("first evaluation emitted %d events, want 0", len(events))
	}

	pe.Evaluate(ant, clear, vols) // no change
	pe.Evaluate(ant, blocked, vols)
	pe.Evaluate(ant, blocked, vols) // steady state, no event
	pe.Evaluate(ant, clear, vols)

	if len(events) != 2 {
		t.Fatalf("got %d events, want 2: %+v", len(events), events)
	}
	if events[0].From != model.SignalOn || events[0].To != model.SignalOff {
		t.Fatalf("first event = %+v, want ON->OFF", events[0])
	}
	if events[1].From != model.SignalOff || events[1].To != model.SignalOn {
		t.Fatalf("second event = %+v, want OFF->ON", events[1])
	}

	unsubscribe()
	pe.Evaluate(ant, blocked, vols)
	if len(events) != 2 {
		t.Fatal("unsubscribed listener still received events")
	}
}

func TestTransitionsTrackedPerAntenna(t *testing.T) {
	pe := NewPolicyStateEngine()
	vols := testVolumes()
	blocked := r3.Vec{X: 5, Y: 5, Z: 5}

	var events []Transition
	pe.Subscribe(func(ev Transition) { events = append(events, ev) })

	a := model.Antenna{ID: "ANT_VHF_1"}
	b := model.Antenna{ID: "ANT_VHF_2"}

	pe.Evaluate(a, blocked, vols) // seeds a at OFF
	pe.Evaluate(b, blocked, vols) // seeds b at OFF: no cross-antenna event

	if len(events) != 0 {
		t.Fatalf("seeding two antennas emitted %d events, want 0", len(events))
	}

	pe.Evaluate(a, r3.Vec{X: 100, Y: 5, Z: 5}, vols)
	if len(events) != 1 || events[0].AntennaID != "ANT_VHF_1" {
		t.Fatalf("events = %+v, want one for ANT_VHF_1", events)
	}
}
