package core

import "gonum.org/v1/gonum/spatial/r3"

// Distance returns the straight-line distance between two points.
func Distance(a, b r3.Vec) float64 {
	return r3.Norm(r3.Sub(a, b))
}

// Clamp limits v to the closed interval [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp blends a and b at parameter t. The two-sided form guarantees that
// t=0 returns a exactly and t=1 returns b exactly.
func Lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

// LerpVec blends two points element-wise at parameter t.
func LerpVec(a, b r3.Vec, t float64) r3.Vec {
	return r3.Vec{
		X: Lerp(a.X, b.X, t),
		Y: Lerp(a.Y, b.Y, t),
		Z: Lerp(a.Z, b.Z, t),
	}
}

// BoxContains reports whether p lies inside the axis-aligned box spanned by
// min and max. The intervals are closed on both ends on every axis, so a
// point exactly on a corner counts as inside.
func BoxContains(min, max, p r3.Vec) bool {
	return p.X >= min.X && p.X <= max.X &&
		p.Y >= min.Y && p.Y <= max.Y &&
		p.Z >= min.Z && p.Z <= max.Z
}

// component returns the axis-indexed component of v (0=X, 1=Y, 2=Z).
func component(v r3.Vec, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}
