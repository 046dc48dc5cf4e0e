package core

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Pouria-007/airport-digital-twin/model"
)

// ErrEntityExists is returned when adding an entity whose ID is taken.
var ErrEntityExists = fmt.Errorf("entity already exists")

// sceneEntity is one addressable object in the scene. Entity IDs are
// slash-separated paths mirroring the stage layout, e.g.
// "/World/Towers/Tower_01". An entity may be parented to another, in which
// case its world position is the parent's position plus a fixed local
// offset (offsets are translation-only; child rotation is not modelled).
type sceneEntity struct {
	id          string
	parentID    string
	position    r3.Vec // local offset when parented, world position otherwise
	rotationDeg [3]float64

	boolAttrs   map[string]bool
	stringAttrs map[string]string
}

// SceneStore is an in-memory SceneProvider. It is concurrency-safe via an
// internal RWMutex so the metrics endpoint and the tick loop can read it
// from different goroutines, as long as all access goes through these
// methods.
type SceneStore struct {
	mu       sync.RWMutex
	entities map[string]*sceneEntity
}

// NewSceneStore creates an empty scene store.
func NewSceneStore() *SceneStore {
	return &SceneStore{entities: make(map[string]*sceneEntity)}
}

// AddEntity inserts a root entity at a world position.
func (s *SceneStore) AddEntity(id string, pos r3.Vec) error {
	return s.addEntity(id, "", pos)
}

// AddChildEntity inserts an entity parented to parentID with a fixed local
// translation offset. The parent must already exist.
func (s *SceneStore) AddChildEntity(id, parentID string, offset r3.Vec) error {
	if parentID == "" {
		return fmt.Errorf("AddChildEntity: empty parent ID for %q", id)
	}
	return s.addEntity(id, parentID, offset)
}

func (s *SceneStore) addEntity(id, parentID string, pos r3.Vec) error {
	if id == "" {
		return fmt.Errorf("empty entity ID")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entities[id]; exists {
		return fmt.Errorf("%w: %q", ErrEntityExists, id)
	}
	if parentID != "" {
		if _, ok := s.entities[parentID]; !ok {
			return fmt.Errorf("%w: parent %q of %q", ErrMissingEntity, parentID, id)
		}
	}
	s.entities[id] = &sceneEntity{
		id:          id,
		parentID:    parentID,
		position:    pos,
		boolAttrs:   make(map[string]bool),
		stringAttrs: make(map[string]string),
	}
	return nil
}

// GetPosition returns the entity's world-space position, resolving parent
// offsets.
func (s *SceneStore) GetPosition(entityID string) (r3.Vec, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.worldPositionLocked(entityID)
}

// worldPositionLocked resolves the parent chain. Caller must hold s.mu.
func (s *SceneStore) worldPositionLocked(entityID string) (r3.Vec, error) {
	ent, ok := s.entities[entityID]
	if !ok {
		return r3.Vec{}, fmt.Errorf("%w: %q", ErrMissingEntity, entityID)
	}
	pos := ent.position
	for ent.parentID != "" {
		parent, ok := s.entities[ent.parentID]
		if !ok {
			return r3.Vec{}, fmt.Errorf("%w: parent %q of %q", ErrMissingEntity, ent.parentID, ent.id)
		}
		pos = r3.Add(pos, parent.position)
		ent = parent
	}
	return pos, nil
}

// SetPose writes position and orientation back to an entity. For parented
// entities the position is interpreted as the local offset.
func (s *SceneStore) SetPose(entityID string, pose model.Pose) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entities[entityID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrMissingEntity, entityID)
	}
	ent.position = pose.Position
	ent.rotationDeg = pose.RotationDeg
	return nil
}

// Pose returns the entity's stored pose (local for parented entities).
func (s *SceneStore) Pose(entityID string) (model.Pose, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ent, ok := s.entities[entityID]
	if !ok {
		return model.Pose{}, fmt.Errorf("%w: %q", ErrMissingEntity, entityID)
	}
	return model.Pose{Position: ent.position, RotationDeg: ent.rotationDeg}, nil
}

//
// ---------- Typed attributes ----------
//

func (s *SceneStore) SetBoolAttribute(entityID, name string, value bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entities[entityID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrMissingEntity, entityID)
	}
	ent.boolAttrs[name] = value
	return nil
}

func (s *SceneStore) SetStringAttribute(entityID, name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entities[entityID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrMissingEntity, entityID)
	}
	ent.stringAttrs[name] = value
	return nil
}

func (s *SceneStore) GetBoolAttribute(entityID, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ent, ok := s.entities[entityID]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrMissingEntity, entityID)
	}
	v, ok := ent.boolAttrs[name]
	if !ok {
		return false, fmt.Errorf("%w: %q on %q", ErrMissingAttribute, name, entityID)
	}
	return v, nil
}

func (s *SceneStore) GetStringAttribute(entityID, name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ent, ok := s.entities[entityID]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrMissingEntity, entityID)
	}
	v, ok := ent.stringAttrs[name]
	if !ok {
		return "", fmt.Errorf("%w: %q on %q", ErrMissingAttribute, name, entityID)
	}
	return v, nil
}

// EnumerateChildren returns the IDs of entities directly under pathPrefix
// whose base name starts with namePattern, sorted ascending. Tower
// discovery relies on the ascending order: the connectivity resolver's
// blocked-tower fallback is order-sensitive.
func (s *SceneStore) EnumerateChildren(pathPrefix, namePattern string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefix := strings.TrimSuffix(pathPrefix, "/") + "/"
	var out []string
	for id := range s.entities {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		rest := strings.TrimPrefix(id, prefix)
		if strings.Contains(rest, "/") {
			continue // grandchildren are not direct children
		}
		if namePattern != "" && !strings.HasPrefix(path.Base(id), namePattern) {
			continue
		}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
