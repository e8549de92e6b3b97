// Package persp builds the perspective-rectification homography from
// user control points. Input points are in the engine's normalized,
// center-origin coordinate system, with distortion already removed by
// the caller; the result is the sampling map from corrected
// coordinates back to source coordinates, ready for the coordinate
// stack.
package persp

import (
	"errors"
	"fmt"
	"math"
)

// ErrControlPoints reports an unusable control point configuration.
var ErrControlPoints = errors.New("perspective control points")

// parallelEps bounds |w| / |xy| under which a vanishing point is
// treated as being at infinity (the control lines are parallel).
const parallelEps = 1e-8

// Strength maps the user parameter d in [-1, +1] onto the applied
// correction strength: identity at -1, exact at 0, 25% over at +1.
func Strength(d float64) float64 {
	if d < -1 {
		d = -1
	} else if d > 1 {
		d = 1
	}
	if d <= 0 {
		return 1 + d
	}
	return 1 + d/4
}

// Build computes the corrected-to-source homography from 4, 5, 6, 7 or
// 8 control points (interleaved x,y in normalized centered
// coordinates). focal is the normalized focal length; d the blending
// parameter of Strength.
func Build(pts []float64, d, focal float64) (Mat, error) {
	n := len(pts) / 2
	if len(pts)%2 != 0 || n < 4 || n > 8 {
		return Mat{}, fmt.Errorf("%w: got %d points, want 4..8", ErrControlPoints, n)
	}
	if focal <= 0 {
		return Mat{}, fmt.Errorf("%w: focal %g", ErrControlPoints, focal)
	}
	s := Strength(d)

	// When the "vertical" control lines run more horizontally than
	// vertically, the user picked horizontals: swap the axes, correct,
	// and swap back.
	// The 5- and 7-point forms lead with ellipse points, so the line
	// orientation test only applies to the line-based forms.
	swapped := false
	work := append([]float64(nil), pts...)
	if n != 5 && n != 7 && moreHorizontal(work) {
		swapAxes(work)
		swapped = true
	}

	var correct Mat
	var err error
	switch n {
	case 4:
		correct, err = fromVerticals(work, s, focal)
	case 6:
		correct, err = fromVerticals(work, s, focal)
		if err == nil {
			correct = levelLine(correct, work[8:12], s)
		}
	case 8:
		correct, err = fromTwoVanishing(work, s)
	case 5:
		correct, err = fromEllipse(work, s, focal, nil)
	case 7:
		correct, err = fromEllipse(work[:10], s, focal, work[10:14])
	}
	if err != nil {
		return Mat{}, err
	}

	correct = recenter(correct)
	if swapped {
		sw := Mat{0, 1, 0, 1, 0, 0, 0, 0, 1}
		correct = sw.Mul(correct).Mul(sw)
	}

	inv, ok := correct.Inverse()
	if !ok {
		return Mat{}, fmt.Errorf("%w: degenerate configuration", ErrControlPoints)
	}
	return inv, nil
}

// moreHorizontal reports whether the first two control lines span more
// x than y.
func moreHorizontal(pts []float64) bool {
	dx := math.Abs(pts[0]-pts[2]) + math.Abs(pts[4]-pts[6])
	dy := math.Abs(pts[1]-pts[3]) + math.Abs(pts[5]-pts[7])
	return dx > dy
}

func swapAxes(pts []float64) {
	for i := 0; i+1 < len(pts); i += 2 {
		pts[i], pts[i+1] = pts[i+1], pts[i]
	}
}

// vanishing meets the lines p0p1 and p2p3. infinite is true when they
// are parallel, in which case (vx, vy) is the common direction.
func vanishing(pts []float64) (vx, vy float64, infinite bool, err error) {
	l1 := cross([3]float64{pts[0], pts[1], 1}, [3]float64{pts[2], pts[3], 1})
	l2 := cross([3]float64{pts[4], pts[5], 1}, [3]float64{pts[6], pts[7], 1})
	if lineDegenerate(l1) || lineDegenerate(l2) {
		return 0, 0, false, fmt.Errorf("%w: coincident points", ErrControlPoints)
	}
	v := cross(l1, l2)
	n := math.Hypot(v[0], v[1])
	if n == 0 {
		return 0, 0, false, fmt.Errorf("%w: identical lines", ErrControlPoints)
	}
	if math.Abs(v[2]) < parallelEps*n {
		return v[0] / n, v[1] / n, true, nil
	}
	return v[0] / v[2], v[1] / v[2], false, nil
}

func lineDegenerate(l [3]float64) bool {
	return math.Hypot(l[0], l[1]) < 1e-12
}

// pitch returns the image-plane map of a camera pitch by psi about the
// x axis, conjugated by K = diag(f, f, 1).
func pitch(psi, f float64) Mat {
	c, s := math.Cos(psi), math.Sin(psi)
	// K * Rx(psi) * K^-1 for rays (x, y, f).
	return Mat{
		1, 0, 0,
		0, c, -f * s,
		0, s / f, c,
	}
}

// fromVerticals corrects the convergence of two vertical control
// lines: rotate the vanishing point onto the +y axis, un-pitch the
// camera by strength*phi with tan(phi) = f/rho, rotate back. The
// conjugation keeps the center orientation, so the lines end up
// parallel to their direction through the center rather than
// hard-vertical; a horizontal control line (6 points) levels
// separately.
func fromVerticals(pts []float64, s, focal float64) (Mat, error) {
	vx, vy, infinite, err := vanishing(pts[:8])
	if err != nil {
		return Mat{}, err
	}
	if infinite {
		// Parallel already: only the leveling rotation remains, and
		// for lines that are already upright it is the identity.
		if vy < 0 {
			vx, vy = -vx, -vy
		}
		gamma := -math.Atan2(vx, vy)
		return Rotation(gamma * s), nil
	}

	beta := math.Atan2(vx, vy)
	rho := math.Hypot(vx, vy)
	phi := math.Atan2(focal, rho)

	rot := Rotation(beta)
	unrot := Rotation(-beta)
	return unrot.Mul(pitch(-phi*s, focal)).Mul(rot), nil
}

// levelLine post-rotates so the corrected control line p0p1 becomes
// horizontal, blended by s.
func levelLine(m Mat, line []float64, s float64) Mat {
	x0, y0 := m.Apply(line[0], line[1])
	x1, y1 := m.Apply(line[2], line[3])
	gamma := -math.Atan2(y1-y0, x1-x0)
	// Lines pointing left still level to horizontal, not upside down.
	if gamma > math.Pi/2 {
		gamma -= math.Pi
	} else if gamma < -math.Pi/2 {
		gamma += math.Pi
	}
	return Rotation(gamma * s).Mul(m)
}

// fromTwoVanishing rectifies with both a vertical and a horizontal
// vanishing point (8 points): map their join to the line at infinity,
// then blend in the affine frame that restores the two directions to
// the axes. The focal length plays no role here.
func fromTwoVanishing(pts []float64, s float64) (Mat, error) {
	v1x, v1y, inf1, err := vanishing(pts[:8])
	if err != nil {
		return Mat{}, err
	}
	v2x, v2y, inf2, err := vanishing(pts[8:16])
	if err != nil {
		return Mat{}, err
	}

	proj := Identity()
	if !inf1 || !inf2 {
		h1 := [3]float64{v1x, v1y, 1}
		if inf1 {
			h1[2] = 0
		}
		h2 := [3]float64{v2x, v2y, 1}
		if inf2 {
			h2[2] = 0
		}
		linf := cross(h1, h2)
		if math.Abs(linf[2]) < 1e-15 {
			return Mat{}, fmt.Errorf("%w: vanishing points collinear with center", ErrControlPoints)
		}
		proj[6] = s * linf[0] / linf[2]
		proj[7] = s * linf[1] / linf[2]
	}

	// Directions of the (now parallel) line families near the center.
	dvx, dvy := lineDirection(proj, pts[0], pts[1], pts[2], pts[3])
	dhx, dhy := lineDirection(proj, pts[8], pts[9], pts[10], pts[11])

	det := dhx*dvy - dhy*dvx
	if math.Abs(det) < 1e-12 {
		return Mat{}, fmt.Errorf("%w: control lines not independent", ErrControlPoints)
	}
	// Inverse of the column matrix (dh | dv): sends dh to e1, dv to e2.
	aff := Mat{
		dvy / det, -dvx / det, 0,
		-dhy / det, dhx / det, 0,
		0, 0, 1,
	}
	// Blend the affine part toward identity by s.
	for i, id := range Identity() {
		aff[i] = id*(1-s) + aff[i]*s
	}
	return aff.Mul(proj), nil
}

func lineDirection(m Mat, x0, y0, x1, y1 float64) (float64, float64) {
	ax, ay := m.Apply(x0, y0)
	bx, by := m.Apply(x1, y1)
	dx, dy := bx-ax, by-ay
	n := math.Hypot(dx, dy)
	if n == 0 {
		return 1, 0
	}
	return dx / n, dy / n
}

// recenter composes a translation and uniform scale so the image
// center stays fixed and the map is unit-scale there.
func recenter(m Mat) Mat {
	cx, cy := m.Apply(0, 0)
	m = Translation(-cx, -cy).Mul(m)

	const eps = 1e-6
	x1, y1 := m.Apply(eps, 0)
	x2, y2 := m.Apply(0, eps)
	det := math.Abs((x1*y2 - y1*x2) / (eps * eps))
	if det > 1e-12 {
		m = Scaling(1 / math.Sqrt(det)).Mul(m)
	}
	return m
}
