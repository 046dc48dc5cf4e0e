package model

import "gonum.org/v1/gonum/spatial/r3"

// Tower is a ground radio tower. The active set is discovered once per
// activation session and treated as immutable for that session.
type Tower struct {
	ID       string
	Position r3.Vec
}
