package core

import "gonum.org/v1/gonum/spatial/r3"

// OcclusionResult is the outcome of a single line-of-sight query.
type OcclusionResult struct {
	Clear bool
	// HitDistance and HitID describe the nearest obstruction along the
	// segment when Clear is false.
	HitDistance float64
	HitID       string
}

// OcclusionTester answers whether an unobstructed straight path exists
// between two points. Each call must return a concrete clear/blocked
// answer; availability of the backing physics query is the caller's
// concern, resolved once at activation.
type OcclusionTester interface {
	IsClear(from, to r3.Vec) OcclusionResult
}

// AlwaysClear is the documented fallback mode used when no occlusion
// backend is available: every path is treated as unobstructed.
type AlwaysClear struct{}

func (AlwaysClear) IsClear(from, to r3.Vec) OcclusionResult {
	return OcclusionResult{Clear: true}
}

// Obstacle is an axis-aligned world-space blocker.
type Obstacle struct {
	ID  string
	Min r3.Vec
	Max r3.Vec
}

// ObstacleTester resolves line-of-sight against a fixed set of axis-aligned
// obstacles using a slab intersection test per obstacle. It is stateless
// after construction and safe for concurrent use.
type ObstacleTester struct {
	obstacles []Obstacle
}

func NewObstacleTester(obstacles []Obstacle) *ObstacleTester {
	return &ObstacleTester{obstacles: append([]Obstacle(nil), obstacles...)}
}

// IsClear tests the segment from→to against every obstacle and reports the
// nearest hit, if any.
func (ot *ObstacleTester) IsClear(from, to r3.Vec) OcclusionResult {
	dir := r3.Sub(to, from)
	length := r3.Norm(dir)

	best := OcclusionResult{Clear: true}
	for _, ob := range ot.obstacles {
		t, hit := segmentEntersBox(from, dir, ob.Min, ob.Max)
		if !hit {
			continue
		}
		dist := t * length
		if best.Clear || dist < best.HitDistance {
			best = OcclusionResult{Clear: false, HitDistance: dist, HitID: ob.ID}
		}
	}
	return best
}

// segmentEntersBox returns the parameter t in [0,1] at which the segment
// origin + t*dir first crosses into the box, using the slab method. A
// segment starting inside the box enters at t = 0.
func segmentEntersBox(origin, dir, min, max r3.Vec) (float64, bool) {
	tEnter, tExit := 0.0, 1.0
	for axis := 0; axis < 3; axis++ {
		o := component(origin, axis)
		d := component(dir, axis)
		lo := component(min, axis)
		hi := component(max, axis)

		if d == 0 {
			// Parallel to this slab: inside or never.
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}

		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tEnter {
			tEnter = t1
		}
		if t2 < tExit {
			tExit = t2
		}
		if tEnter > tExit {
			return 0, false
		}
	}
	return tEnter, true
}
