package persp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ellipse is a fitted conic in center-axes form.
type ellipse struct {
	cx, cy float64 // center
	a, b   float64 // semi-major, semi-minor
	theta  float64 // major-axis angle
}

// fitEllipse fits the conic A x^2 + B xy + C y^2 + D x + E y + F = 0
// through five points as the null space of the design matrix, taken
// from the SVD's smallest singular vector.
func fitEllipse(pts []float64) (ellipse, error) {
	var e ellipse
	design := mat.NewDense(5, 6, nil)
	for i := range 5 {
		x, y := pts[2*i], pts[2*i+1]
		design.SetRow(i, []float64{x * x, x * y, y * y, x, y, 1})
	}

	var svd mat.SVD
	if ok := svd.Factorize(design, mat.SVDFullV); !ok {
		return e, fmt.Errorf("%w: conic fit failed", ErrControlPoints)
	}
	var v mat.Dense
	svd.VTo(&v)
	a := v.At(0, 5)
	b := v.At(1, 5)
	c := v.At(2, 5)
	d := v.At(3, 5)
	f := v.At(4, 5)
	g := v.At(5, 5)

	disc := b*b - 4*a*c
	if disc >= 0 {
		return e, fmt.Errorf("%w: five points do not form an ellipse", ErrControlPoints)
	}

	// Center: gradient of the conic vanishes.
	e.cx = (2*c*d - b*f) / disc
	e.cy = (2*a*f - b*d) / disc

	// Constant term of the conic translated to its center.
	fc := a*e.cx*e.cx + b*e.cx*e.cy + c*e.cy*e.cy + d*e.cx + f*e.cy + g

	// Principal axes of the quadratic part.
	e.theta = 0.5 * math.Atan2(b, a-c)
	mean := (a + c) / 2
	diff := math.Hypot((a-c)/2, b/2)
	l1 := mean + diff
	l2 := mean - diff
	if l1*fc >= 0 || l2*fc >= 0 {
		return e, fmt.Errorf("%w: degenerate conic", ErrControlPoints)
	}
	r1 := math.Sqrt(-fc / l1)
	r2 := math.Sqrt(-fc / l2)
	// l1 >= l2 so r1 is the shorter axis; theta tracks the major one.
	e.a, e.b = r2, r1
	e.theta += math.Pi / 2
	if e.a < e.b {
		e.a, e.b = e.b, e.a
		e.theta -= math.Pi / 2
	}
	// The axis angle is defined modulo pi; pin it to (-pi/2, pi/2] so
	// the pitch conjugation in fromEllipse has a fixed sign.
	for e.theta > math.Pi/2 {
		e.theta -= math.Pi
	}
	for e.theta <= -math.Pi/2 {
		e.theta += math.Pi
	}
	return e, nil
}

// clockwise reports the winding of the five points, which encodes
// whether the circle's vanishing vertex sits above or below the
// ellipse center.
func clockwise(pts []float64) bool {
	area := 0.0
	n := len(pts) / 2
	for i := range n {
		j := (i + 1) % n
		area += pts[2*i]*pts[2*j+1] - pts[2*j]*pts[2*i+1]
	}
	// y grows downward in image coordinates, flipping the usual sign.
	return area > 0
}

// fromEllipse rectifies a circle seen in perspective: five points fix
// the ellipse; the tilt follows from the axis ratio (cos(phi) = b/a)
// and its sign from the point winding. The pitch is applied about the
// major-axis direction. An optional horizontal line (two more points,
// the 7-point form) levels the result.
func fromEllipse(pts []float64, s, focal float64, horizontal []float64) (Mat, error) {
	el, err := fitEllipse(pts)
	if err != nil {
		return Mat{}, err
	}

	ratio := el.b / el.a
	if ratio > 1 {
		ratio = 1
	}
	// The marking direction encodes which side the vanishing vertex
	// is on: counter-clockwise puts it below the ellipse center.
	phi := math.Acos(ratio)
	if !clockwise(pts) {
		phi = -phi
	}

	// Conjugate the pitch so it tips about the major-axis direction.
	align := Rotation(-el.theta)
	unalign := Rotation(el.theta)
	m := unalign.Mul(pitch(-phi*s, focal)).Mul(align)

	if len(horizontal) >= 4 {
		m = levelLine(m, horizontal, s)
	}
	return m, nil
}
