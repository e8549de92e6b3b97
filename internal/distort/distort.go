// Package distort implements the radial and vectorial distortion
// kernels. Every function transforms a batch of interleaved (x, y)
// coordinate pairs in place; the forward forms map undistorted
// coordinates to distorted ones (simulating the lens), the inverse
// forms undo them. Coordinates are in the engine's normalized system
// except for the ACM kernels, which expect focal-length units.
package distort

import "math"

// Iterative inverses stop after MaxIter rounds or when the radius
// moves less than Tol between rounds; past that the last iterate is
// returned, trading exactness at extreme radii for bounded work.
const (
	MaxIter = 8
	Tol     = 1e-6
)

// Poly3 applies r_d = r_u * (1 - k1 + k1*r_u^2).
func Poly3(k1 float64, pts []float64) {
	om := 1 - k1
	for i := 0; i+1 < len(pts); i += 2 {
		x, y := pts[i], pts[i+1]
		s := om + k1*(x*x+y*y)
		pts[i] = x * s
		pts[i+1] = y * s
	}
}

// Poly3Inverse undoes Poly3 by Newton iteration on the radius.
func Poly3Inverse(k1 float64, pts []float64) {
	om := 1 - k1
	for i := 0; i+1 < len(pts); i += 2 {
		x, y := pts[i], pts[i+1]
		rd := math.Hypot(x, y)
		if rd == 0 {
			continue
		}
		ru := rd
		for range MaxIter {
			f := ru*(om+k1*ru*ru) - rd
			df := om + 3*k1*ru*ru
			if df == 0 {
				break
			}
			step := f / df
			ru -= step
			if math.Abs(step) < Tol {
				break
			}
		}
		s := ru / rd
		pts[i] = x * s
		pts[i+1] = y * s
	}
}

// Poly5 applies r_d = r_u * (1 + k1*r_u^2 + k2*r_u^4).
func Poly5(k1, k2 float64, pts []float64) {
	for i := 0; i+1 < len(pts); i += 2 {
		x, y := pts[i], pts[i+1]
		r2 := x*x + y*y
		s := 1 + r2*(k1+r2*k2)
		pts[i] = x * s
		pts[i+1] = y * s
	}
}

// Poly5Inverse undoes Poly5 by fixed-point iteration
// r_u <- r_d / (1 + k1*r_u^2 + k2*r_u^4).
func Poly5Inverse(k1, k2 float64, pts []float64) {
	inverseRadial(pts, func(r float64) float64 {
		r2 := r * r
		return 1 + r2*(k1+r2*k2)
	})
}

// PTLens applies r_d = r_u * (a*r_u^3 + b*r_u^2 + c*r_u + 1-a-b-c).
func PTLens(a, b, c float64, pts []float64) {
	d := 1 - a - b - c
	for i := 0; i+1 < len(pts); i += 2 {
		x, y := pts[i], pts[i+1]
		r := math.Hypot(x, y)
		s := d + r*(c+r*(b+r*a))
		pts[i] = x * s
		pts[i+1] = y * s
	}
}

// PTLensInverse undoes PTLens by fixed-point iteration.
func PTLensInverse(a, b, c float64, pts []float64) {
	d := 1 - a - b - c
	inverseRadial(pts, func(r float64) float64 {
		return d + r*(c+r*(b+r*a))
	})
}

// inverseRadial solves r_u from r_d = r_u * f(r_u) per point by the
// capped fixed-point iteration r_u <- r_d / f(r_u).
func inverseRadial(pts []float64, f func(float64) float64) {
	for i := 0; i+1 < len(pts); i += 2 {
		x, y := pts[i], pts[i+1]
		rd := math.Hypot(x, y)
		if rd == 0 {
			continue
		}
		ru := rd
		for range MaxIter {
			div := f(ru)
			if div == 0 {
				break
			}
			next := rd / div
			delta := next - ru
			ru = next
			if math.Abs(delta) < Tol {
				break
			}
		}
		s := ru / rd
		pts[i] = x * s
		pts[i+1] = y * s
	}
}

// ACM applies the Adobe camera model; pts are in focal-length units.
//
//	x_d = x(1+k1 r^2+k2 r^4+k3 r^6) + 2x(k4 y + k5 x) + k5 r^2
//	y_d = y(1+k1 r^2+k2 r^4+k3 r^6) + 2y(k4 y + k5 x) + k4 r^2
func ACM(k [5]float64, pts []float64) {
	for i := 0; i+1 < len(pts); i += 2 {
		pts[i], pts[i+1] = acmPoint(k, pts[i], pts[i+1])
	}
}

func acmPoint(k [5]float64, x, y float64) (float64, float64) {
	r2 := x*x + y*y
	radial := 1 + r2*(k[0]+r2*(k[1]+r2*k[2]))
	tang := 2 * (k[3]*y + k[4]*x)
	return x*radial + x*tang + k[4]*r2,
		y*radial + y*tang + k[3]*r2
}

// ACMInverse undoes ACM by two-dimensional fixed-point iteration,
// capped like the radial inverses.
func ACMInverse(k [5]float64, pts []float64) {
	for i := 0; i+1 < len(pts); i += 2 {
		xd, yd := pts[i], pts[i+1]
		xu, yu := xd, yd
		for range MaxIter {
			fx, fy := acmPoint(k, xu, yu)
			dx, dy := xd-fx, yd-fy
			xu += dx
			yu += dy
			if math.Abs(dx) < Tol && math.Abs(dy) < Tol {
				break
			}
		}
		pts[i] = xu
		pts[i+1] = yu
	}
}
