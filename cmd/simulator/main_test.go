package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Pouria-007/airport-digital-twin/core"
	"github.com/Pouria-007/airport-digital-twin/timectrl"
)

func TestProgressAt(t *testing.T) {
	cases := []struct {
		name    string
		elapsed time.Duration
		taxi    time.Duration
		loop    bool
		want    float64
	}{
		{"start", 0, 10 * time.Second, false, 0},
		{"midway", 5 * time.Second, 10 * time.Second, false, 0.5},
		{"parked at end", 15 * time.Second, 10 * time.Second, false, 1},
		{"loop wraps", 15 * time.Second, 10 * time.Second, true, 0.5},
		{"zero taxi parks", time.Second, 0, false, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := progressAt(tc.elapsed, tc.taxi, tc.loop); got != tc.want {
				t.Fatalf("progressAt(%v, %v, %v) = %v, want %v", tc.elapsed, tc.taxi, tc.loop, got, tc.want)
			}
		})
	}
}

const testScenario = `{
  "aircraft": {"id": "/World/Aircraft", "position": {"x": 0, "y": 0, "z": 0}},
  "waypoints": [
    {"id": "/World/Path/WP_00", "position": {"x": 0, "y": 0, "z": 0}, "rotation_deg": [0, 0, 0]},
    {"id": "/World/Path/WP_01", "position": {"x": 1000, "y": 0, "z": 0}, "rotation_deg": [0, 90, 0]}
  ],
  "antennas": [
    {"name": "ANT_VHF_1", "offset": {"x": 0, "y": 5, "z": 0}, "type": "VHF", "frequency_band": "118-137 MHz"}
  ],
  "towers": [
    {"id": "/World/Towers/Tower_01", "position": {"x": 500, "y": 100, "z": 0}}
  ],
  "volumes": [],
  "obstacles": []
}`

// TestIntegration_TaxiAcrossApron runs a tiny end-to-end-style simulation:
// the aircraft traverses a two-waypoint path while the control tower
// evaluates its single antenna every frame.
func TestIntegration_TaxiAcrossApron(t *testing.T) {
	store := core.NewSceneStore()
	scenario, err := core.LoadScenario(store, strings.NewReader(testScenario))
	if err != nil {
		t.Fatalf("LoadScenario error: %v", err)
	}

	var interp core.PathInterpolator
	if err := interp.Configure(scenario.Waypoints); err != nil {
		t.Fatalf("Configure error: %v", err)
	}

	tower := core.NewControlTower(core.ControlTowerConfig{
		Scene:       store,
		AntennaRoot: scenario.AntennaRoot,
		Volumes:     scenario.Volumes,
	})
	if err := tower.Activate(context.Background(), nil); err != nil {
		t.Fatalf("Activate error: %v", err)
	}

	interval := 10 * time.Millisecond
	taxi := 50 * time.Millisecond
	ft := timectrl.NewFrameTicker(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), interval, timectrl.Accelerated)

	frames := 0
	ft.AddListener(func(frame int, now time.Time) {
		elapsed := time.Duration(frame) * interval
		pose := interp.Evaluate(progressAt(elapsed, taxi, false))
		if err := store.SetPose(scenario.AircraftID, pose); err != nil {
			t.Errorf("SetPose error: %v", err)
		}
		tower.Tick(context.Background())
		frames++
	})

	done := ft.Start(taxi)
	<-done

	if frames == 0 {
		t.Fatal("expected at least one frame, got 0")
	}

	// After the full taxi the aircraft parks at the last waypoint.
	pos, err := store.GetPosition(scenario.AircraftID)
	if err != nil {
		t.Fatalf("GetPosition error: %v", err)
	}
	if pos.X != 1000 {
		t.Fatalf("aircraft X = %v, want 1000", pos.X)
	}

	// The antenna rides along and its state was written back each tick.
	antennaID := scenario.Antennas[0].ID
	antPos, err := store.GetPosition(antennaID)
	if err != nil {
		t.Fatalf("antenna GetPosition error: %v", err)
	}
	if antPos.X != 1000 || antPos.Y != 5 {
		t.Fatalf("antenna position = %+v, want (1000, 5, 0)", antPos)
	}
	state, err := store.GetStringAttribute(antennaID, core.SignalStateAttr)
	if err != nil {
		t.Fatalf("GetStringAttribute error: %v", err)
	}
	if state != "ON" {
		t.Fatalf("signal_state = %q, want ON", state)
	}
}
