// Package spline holds the scalar interpolation machinery shared by the
// calibration interpolators: four-point Hermite splines over the focal
// axis, the sliding neighbor window that feeds them, and the
// parameter-axis rescaling that keeps coefficient slopes near-linear.
package spline

import "math"

// Missing marks an absent ordinate. Hermite falls back to a one-sided
// tangent when an outer ordinate is Missing.
const Missing = math.MaxFloat64

// Hermite evaluates the cubic Hermite polynomial between y2 and y3 at
// parameter t in [0,1]. Tangents are central differences of the four
// ordinates; y1 and y4 may be Missing.
func Hermite(y1, y2, y3, y4, t float64) float64 {
	var tg2, tg3 float64
	t2 := t * t
	t3 := t2 * t

	if y1 == Missing {
		tg2 = y3 - y2
	} else {
		tg2 = (y3 - y1) * 0.5
	}

	if y4 == Missing {
		tg3 = y3 - y2
	} else {
		tg3 = (y4 - y2) * 0.5
	}

	return (2*t3-3*t2+1)*y2 +
		(t3-2*t2+t)*tg2 +
		(-2*t3+3*t2)*y3 +
		(t3-t2)*tg3
}

// Neighbors tracks the two closest samples on each side of a query
// point, by signed distance d = query - sample. Slots 0..3 hold
// second-above, above, below, second-below (descending sample
// position), mirroring the original spline window.
type Neighbors[T any] struct {
	dist [4]float64
	val  [4]T
	have [4]bool
}

// NewNeighbors returns an empty window.
func NewNeighbors[T any]() Neighbors[T] {
	return Neighbors[T]{dist: [4]float64{-Missing, -Missing, Missing, Missing}}
}

// Insert offers a sample at signed distance d (query - sample) and
// keeps it if it is among the two closest on its side.
func (n *Neighbors[T]) Insert(d float64, v T) {
	if d < 0 {
		switch {
		case d > n.dist[1]:
			n.dist[0], n.dist[1] = n.dist[1], d
			n.val[0], n.val[1] = n.val[1], v
			n.have[0], n.have[1] = n.have[1], true
		case d > n.dist[0]:
			n.dist[0] = d
			n.val[0] = v
			n.have[0] = true
		}
		return
	}
	switch {
	case d < n.dist[2]:
		n.dist[3], n.dist[2] = n.dist[2], d
		n.val[3], n.val[2] = n.val[2], v
		n.have[3], n.have[2] = n.have[2], true
	case d < n.dist[3]:
		n.dist[3] = d
		n.val[3] = v
		n.have[3] = true
	}
}

// Below and Above report the closest sample on each side.
func (n *Neighbors[T]) Below() (T, bool) { return n.val[2], n.have[2] }
func (n *Neighbors[T]) Above() (T, bool) { return n.val[1], n.have[1] }

// Outer reports the second-closest samples.
func (n *Neighbors[T]) Outer() (below, above T, haveBelow, haveAbove bool) {
	return n.val[3], n.val[0], n.have[3], n.have[0]
}

// Nearest returns the single closest sample when only one side is
// populated; ok is false when the window is empty.
func (n *Neighbors[T]) Nearest() (T, bool) {
	if n.have[1] {
		return n.val[1], true
	}
	if n.have[2] {
		return n.val[2], true
	}
	var zero T
	return zero, false
}

// Bracketed reports whether at least one neighbor exists on each side.
func (n *Neighbors[T]) Bracketed() bool { return n.have[1] && n.have[2] }
