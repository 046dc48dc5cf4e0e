package core

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Pouria-007/airport-digital-twin/model"
)

var (
	// ErrInvalidConfiguration marks configuration-time structural failures:
	// fewer than two waypoints, or nothing discoverable to simulate. These
	// are fatal at setup, before any evaluation runs.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrMissingEntity and ErrMissingAttribute are per-entity scene lookup
	// failures. They are isolated: the tick skips that entity's
	// contribution and continues with all others.
	ErrMissingEntity    = errors.New("entity not found")
	ErrMissingAttribute = errors.New("attribute not found")
)

// SceneProvider is the surface the engines use to read positions and
// attributes from the scene graph and to write poses back. Attribute reads
// are typed and fail explicitly with ErrMissingEntity/ErrMissingAttribute
// rather than returning an ambiguous empty value.
type SceneProvider interface {
	// GetPosition returns the current world-space position of an entity.
	GetPosition(entityID string) (r3.Vec, error)

	GetBoolAttribute(entityID, name string) (bool, error)
	GetStringAttribute(entityID, name string) (string, error)
	SetStringAttribute(entityID, name, value string) error

	// SetPose writes position and orientation back to an entity.
	SetPose(entityID string, pose model.Pose) error

	// EnumerateChildren returns the IDs of entities directly under
	// pathPrefix whose base name starts with namePattern, sorted in
	// ascending order.
	EnumerateChildren(pathPrefix, namePattern string) []string
}
