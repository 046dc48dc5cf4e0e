package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Pouria-007/airport-digital-twin/model"
)

const loaderScenario = `{
  "aircraft": {"id": "/World/Aircraft", "position": {"x": 10, "y": 0, "z": 0}},
  "waypoints": [
    {"id": "/World/Path/WP_00", "position": {"x": 0, "y": 0, "z": 0}, "rotation_deg": [0, 0, 0]},
    {"id": "/World/Path/WP_01", "position": {"x": 100, "y": 0, "z": 0}, "rotation_deg": [0, 90, 0]}
  ],
  "antennas": [
    {"name": "ANT_SATCOM_PRIMARY", "offset": {"x": 2, "y": 6, "z": 0}, "policy_locked": true, "type": "SATCOM", "frequency_band": "Ku 12-18 GHz", "requires_los": true},
    {"name": "ANT_VHF_1", "offset": {"x": 11, "y": 5, "z": 0}, "type": "VHF COMM", "frequency_band": "118-137 MHz"}
  ],
  "towers": [
    {"id": "/World/Towers/Tower_02", "position": {"x": 500, "y": 40, "z": 0}},
    {"id": "/World/Towers/Tower_01", "position": {"x": 300, "y": 40, "z": 0}}
  ],
  "volumes": [
    {"id": "/World/Zones/Hangar", "role": "blocking", "min": {"x": 0, "y": 0, "z": 0}, "max": {"x": 50, "y": 20, "z": 50}},
    {"id": "/World/Zones/Gate", "role": "secure", "min": {"x": 60, "y": 0, "z": 0}, "max": {"x": 90, "y": 20, "z": 50}}
  ],
  "obstacles": [
    {"id": "/World/Buildings/Hangar", "min": {"x": 0, "y": 0, "z": 10}, "max": {"x": 50, "y": 30, "z": 60}}
  ]
}`

func TestLoadScenarioPopulatesStore(t *testing.T) {
	store := NewSceneStore()
	sc, err := LoadScenario(store, strings.NewReader(loaderScenario))
	require.NoError(t, err)

	assert.Equal(t, "/World/Aircraft", sc.AircraftID)
	assert.Equal(t, "/World/Aircraft/Antennas", sc.AntennaRoot)
	assert.Len(t, sc.Waypoints, 2)
	assert.Len(t, sc.Antennas, 2)
	assert.Len(t, sc.Volumes, 2)
	assert.Len(t, sc.Obstacles, 1)

	pos, err := store.GetPosition("/World/Aircraft")
	require.NoError(t, err)
	assert.Equal(t, r3.Vec{X: 10}, pos)

	// Antennas ride on the aircraft.
	antPos, err := store.GetPosition("/World/Aircraft/Antennas/ANT_SATCOM_PRIMARY")
	require.NoError(t, err)
	assert.Equal(t, r3.Vec{X: 12, Y: 6}, antPos)

	// Towers are discoverable in ascending order.
	assert.Equal(t, []string{
		"/World/Towers/Tower_01",
		"/World/Towers/Tower_02",
	}, store.EnumerateChildren(DefaultTowerRoot, TowerNamePattern))
}

func TestLoadScenarioAntennaAttributes(t *testing.T) {
	store := NewSceneStore()
	sc, err := LoadScenario(store, strings.NewReader(loaderScenario))
	require.NoError(t, err)

	satcom := sc.Antennas[0]
	assert.Equal(t, "/World/Aircraft/Antennas/ANT_SATCOM_PRIMARY", satcom.ID)
	assert.True(t, satcom.PolicyLocked)
	assert.True(t, satcom.RequiresLOS)
	assert.Equal(t, "SATCOM", satcom.Type)

	locked, err := store.GetBoolAttribute(satcom.ID, "policy_locked")
	require.NoError(t, err)
	assert.True(t, locked)

	state, err := store.GetStringAttribute(satcom.ID, SignalStateAttr)
	require.NoError(t, err)
	assert.Equal(t, string(model.SignalOn), state)

	vhf := sc.Antennas[1]
	assert.False(t, vhf.PolicyLocked)
	assert.False(t, vhf.RequiresLOS)
}

func TestLoadScenarioVolumeRoles(t *testing.T) {
	store := NewSceneStore()
	sc, err := LoadScenario(store, strings.NewReader(loaderScenario))
	require.NoError(t, err)

	assert.Equal(t, model.RoleBlocking, sc.Volumes[0].Role)
	assert.Equal(t, model.RoleSecure, sc.Volumes[1].Role)
}

func TestLoadScenarioRejectsUnknownRole(t *testing.T) {
	bad := `{
	  "aircraft": {"id": "/World/Aircraft", "position": {"x": 0, "y": 0, "z": 0}},
	  "volumes": [{"id": "/World/Zones/X", "role": "mystery", "min": {"x": 0, "y": 0, "z": 0}, "max": {"x": 1, "y": 1, "z": 1}}]
	}`
	_, err := LoadScenario(NewSceneStore(), strings.NewReader(bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown volume role")
}

func TestLoadScenarioRejectsMalformedJSON(t *testing.T) {
	_, err := LoadScenario(NewSceneStore(), strings.NewReader("{not json"))
	require.Error(t, err)
}

func TestLoadScenarioRejectsEmptyIDs(t *testing.T) {
	bad := `{
	  "aircraft": {"id": "/World/Aircraft", "position": {"x": 0, "y": 0, "z": 0}},
	  "towers": [{"id": "", "position": {"x": 0, "y": 0, "z": 0}}]
	}`
	_, err := LoadScenario(NewSceneStore(), strings.NewReader(bad))
	require.Error(t, err)
}

func TestRoleFromStringAliases(t *testing.T) {
	for in, want := range map[string]model.VolumeRole{
		"blocking":    model.RoleBlocking,
		"block":       model.RoleBlocking,
		"Attenuation": model.RoleAttenuating,
		"atten":       model.RoleAttenuating,
		" secure ":    model.RoleSecure,
	} {
		got, err := roleFromString(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
