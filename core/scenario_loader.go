package core

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Pouria-007/airport-digital-twin/model"
)

// Default stage paths, matching the reference scene layout.
const (
	DefaultAircraftID  = "/World/Aircraft"
	DefaultAntennaRoot = "/World/Aircraft/Antennas"
	DefaultTowerRoot   = "/World/Towers"
	TowerNamePattern   = "Tower_"
	AntennaNamePattern = "ANT_"
)

// SignalStateAttr is the antenna attribute the policy engine writes its
// computed state back to.
const SignalStateAttr = "signal_state"

// Scenario is the typed result of loading a scene description. Waypoints
// and volumes are consumed directly by the engines; everything else lives
// in the SceneStore and is read back per tick.
type Scenario struct {
	AircraftID  string
	AntennaRoot string

	Waypoints []model.Waypoint
	Antennas  []model.Antenna
	Volumes   []model.Volume
	Obstacles []Obstacle

	WaypointIDs []string
	TowerIDs    []string
}

// internal JSON shapes – kept unexported so we're free to evolve them.
type scenarioJSON struct {
	Aircraft  aircraftJSON   `json:"aircraft"`
	Waypoints []waypointJSON `json:"waypoints"`
	Antennas  []antennaJSON  `json:"antennas"`
	Towers    []towerJSON    `json:"towers"`
	Volumes   []volumeJSON   `json:"volumes"`
	Obstacles []obstacleJSON `json:"obstacles"`
}

type aircraftJSON struct {
	ID       string   `json:"id"`
	Position vec3JSON `json:"position"`
}

type waypointJSON struct {
	ID          string     `json:"id"`
	Position    vec3JSON   `json:"position"`
	RotationDeg [3]float64 `json:"rotation_deg"`
}

type antennaJSON struct {
	Name          string   `json:"name"`
	Offset        vec3JSON `json:"offset"`
	PolicyLocked  bool     `json:"policy_locked"`
	Type          string   `json:"type"`
	FrequencyBand string   `json:"frequency_band"`
	RequiresLOS   bool     `json:"requires_los"`
}

type towerJSON struct {
	ID       string   `json:"id"`
	Position vec3JSON `json:"position"`
}

type volumeJSON struct {
	ID   string   `json:"id"`
	Role string   `json:"role"`
	Min  vec3JSON `json:"min"`
	Max  vec3JSON `json:"max"`
}

type obstacleJSON struct {
	ID  string   `json:"id"`
	Min vec3JSON `json:"min"`
	Max vec3JSON `json:"max"`
}

type vec3JSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v vec3JSON) vec() r3.Vec { return r3.Vec{X: v.X, Y: v.Y, Z: v.Z} }

// LoadScenario reads a JSON scene description from r, populates the
// SceneStore with the aircraft, its antennas (parented to the aircraft),
// waypoints and towers, and returns the typed scenario.
//
// It fails only on JSON / structural errors (empty IDs, unknown volume
// roles, duplicate entities). Whether the scenario is *sufficient* — at
// least two waypoints, at least one tower and antenna — is checked by the
// components that consume it.
func LoadScenario(store *SceneStore, r io.Reader) (*Scenario, error) {
	if store == nil {
		return nil, fmt.Errorf("LoadScenario: store is nil")
	}

	var payload scenarioJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("LoadScenario: decode failed: %w", err)
	}

	aircraftID := payload.Aircraft.ID
	if aircraftID == "" {
		aircraftID = DefaultAircraftID
	}
	antennaRoot := aircraftID + "/Antennas"

	result := &Scenario{
		AircraftID:  aircraftID,
		AntennaRoot: antennaRoot,
	}

	// 1) Aircraft and its antenna mount point.
	if err := store.AddEntity(aircraftID, payload.Aircraft.Position.vec()); err != nil {
		return nil, fmt.Errorf("LoadScenario: aircraft: %w", err)
	}
	if err := store.AddChildEntity(antennaRoot, aircraftID, r3.Vec{}); err != nil {
		return nil, fmt.Errorf("LoadScenario: antenna root: %w", err)
	}

	// 2) Waypoints. Cached as typed values (immutable after load) and also
	// mirrored as scene entities so tooling can inspect them.
	for _, js := range payload.Waypoints {
		if js.ID == "" {
			return nil, fmt.Errorf("LoadScenario: waypoint with empty id")
		}
		if err := store.AddEntity(js.ID, js.Position.vec()); err != nil {
			return nil, fmt.Errorf("LoadScenario: waypoint %q: %w", js.ID, err)
		}
		result.Waypoints = append(result.Waypoints, model.Waypoint{
			Position:    js.Position.vec(),
			RotationDeg: js.RotationDeg,
		})
		result.WaypointIDs = append(result.WaypointIDs, js.ID)
	}

	// 3) Antennas, parented to the aircraft so they move with it.
	for _, js := range payload.Antennas {
		if js.Name == "" {
			return nil, fmt.Errorf("LoadScenario: antenna with empty name")
		}
		id := antennaRoot + "/" + js.Name
		if err := store.AddChildEntity(id, antennaRoot, js.Offset.vec()); err != nil {
			return nil, fmt.Errorf("LoadScenario: antenna %q: %w", js.Name, err)
		}
		// Attribute writes cannot fail here: the entity was just added.
		_ = store.SetBoolAttribute(id, "policy_locked", js.PolicyLocked)
		_ = store.SetBoolAttribute(id, "requires_los", js.RequiresLOS)
		_ = store.SetStringAttribute(id, "antenna_type", js.Type)
		_ = store.SetStringAttribute(id, "frequency_band", js.FrequencyBand)
		_ = store.SetStringAttribute(id, SignalStateAttr, string(model.SignalOn))

		result.Antennas = append(result.Antennas, model.Antenna{
			ID:            id,
			PolicyLocked:  js.PolicyLocked,
			Type:          js.Type,
			FrequencyBand: js.FrequencyBand,
			RequiresLOS:   js.RequiresLOS,
		})
	}

	// 4) Towers, as root entities under the tower root so discovery can
	// enumerate them.
	for _, js := range payload.Towers {
		if js.ID == "" {
			return nil, fmt.Errorf("LoadScenario: tower with empty id")
		}
		if err := store.AddEntity(js.ID, js.Position.vec()); err != nil {
			return nil, fmt.Errorf("LoadScenario: tower %q: %w", js.ID, err)
		}
		result.TowerIDs = append(result.TowerIDs, js.ID)
	}

	// 5) Policy volumes and occlusion obstacles: typed values only, the
	// engines never look these up through the store.
	for _, js := range payload.Volumes {
		if js.ID == "" {
			return nil, fmt.Errorf("LoadScenario: volume with empty id")
		}
		role, err := roleFromString(js.Role)
		if err != nil {
			return nil, fmt.Errorf("LoadScenario: volume %q: %w", js.ID, err)
		}
		result.Volumes = append(result.Volumes, model.Volume{
			ID:   js.ID,
			Role: role,
			Min:  js.Min.vec(),
			Max:  js.Max.vec(),
		})
	}
	for _, js := range payload.Obstacles {
		if js.ID == "" {
			return nil, fmt.Errorf("LoadScenario: obstacle with empty id")
		}
		result.Obstacles = append(result.Obstacles, Obstacle{
			ID:  js.ID,
			Min: js.Min.vec(),
			Max: js.Max.vec(),
		})
	}

	return result, nil
}

// roleFromString maps the JSON "role" string to a VolumeRole. Unlike most
// of the loader this is strict: a misspelled role would silently change
// state priority, so unknown values are an error.
func roleFromString(s string) (model.VolumeRole, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "block", "blocking":
		return model.RoleBlocking, nil
	case "atten", "attenuation", "attenuating":
		return model.RoleAttenuating, nil
	case "secure":
		return model.RoleSecure, nil
	default:
		return "", fmt.Errorf("unknown volume role %q", s)
	}
}
