package model

// LinkState is the per-antenna, per-tick connectivity result. It is
// recomputed every tick and never persisted across ticks.
type LinkState struct {
	// TowerID is the serving tower, or empty when no tower was selected.
	TowerID  string
	Distance float64
	Occluded bool
	Quality  SignalState
}

// PolicyState is the per-antenna, per-tick result of the policy volume
// evaluation.
type PolicyState struct {
	State SignalState
	Zone  string
}
