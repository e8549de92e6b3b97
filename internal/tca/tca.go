// Package tca implements the per-channel transversal chromatic
// aberration kernels. Each function transforms a batch of interleaved
// (x, y) pairs for a single color channel in place; the green channel
// never gets a kernel and stays an identity map. Forward forms move
// undistorted coordinates to the channel's aberrated position;
// inverses undo them. ACM kernels expect focal-length units.
package tca

import "math"

const (
	maxIter = 8
	tol     = 1e-6
)

// Linear applies r_d = k * r_u.
func Linear(k float64, pts []float64) {
	for i := range pts {
		pts[i] *= k
	}
}

// LinearInverse applies r_u = r_d / k.
func LinearInverse(k float64, pts []float64) {
	inv := 1 / k
	for i := range pts {
		pts[i] *= inv
	}
}

// Poly3 applies r_d = r_u * (b*r_u^2 + c*r_u + v).
func Poly3(b, c, v float64, pts []float64) {
	for i := 0; i+1 < len(pts); i += 2 {
		x, y := pts[i], pts[i+1]
		r := math.Hypot(x, y)
		s := v + r*(c+r*b)
		pts[i] = x * s
		pts[i+1] = y * s
	}
}

// Poly3Inverse undoes Poly3 by capped fixed-point iteration.
func Poly3Inverse(b, c, v float64, pts []float64) {
	for i := 0; i+1 < len(pts); i += 2 {
		x, y := pts[i], pts[i+1]
		rd := math.Hypot(x, y)
		if rd == 0 {
			continue
		}
		ru := rd
		for range maxIter {
			div := v + ru*(c+ru*b)
			if div == 0 {
				break
			}
			next := rd / div
			delta := next - ru
			ru = next
			if math.Abs(delta) < tol {
				break
			}
		}
		s := ru / rd
		pts[i] = x * s
		pts[i+1] = y * s
	}
}

// ACM applies the Adobe camera model for one channel, coefficients
// {a0..a5}; pts are in focal-length units.
//
//	x_d = a0*((1+a1 r^2+a2 r^4+a3 r^6) x + 2(a4 y + a5 x) x + a5 r^2)
//	y_d = a0*((1+a1 r^2+a2 r^4+a3 r^6) y + 2(a4 y + a5 x) y + a4 r^2)
func ACM(a [6]float64, pts []float64) {
	for i := 0; i+1 < len(pts); i += 2 {
		pts[i], pts[i+1] = acmPoint(a, pts[i], pts[i+1])
	}
}

func acmPoint(a [6]float64, x, y float64) (float64, float64) {
	r2 := x*x + y*y
	radial := 1 + r2*(a[1]+r2*(a[2]+r2*a[3]))
	tang := 2 * (a[4]*y + a[5]*x)
	return a[0] * (x*radial + x*tang + a[5]*r2),
		a[0] * (y*radial + y*tang + a[4]*r2)
}

// ACMInverse undoes ACM by capped fixed-point iteration.
func ACMInverse(a [6]float64, pts []float64) {
	for i := 0; i+1 < len(pts); i += 2 {
		xd, yd := pts[i], pts[i+1]
		xu, yu := xd/a[0], yd/a[0]
		for range maxIter {
			fx, fy := acmPoint(a, xu, yu)
			dx, dy := (xd-fx)/a[0], (yd-fy)/a[0]
			xu += dx
			yu += dy
			if math.Abs(dx) < tol && math.Abs(dy) < tol {
				break
			}
		}
		pts[i] = xu
		pts[i+1] = yu
	}
}

// LinearWide is the four-wide form of Linear; a plain scale is already
// vector-friendly, so it simply reuses the scalar loop.
func LinearWide(k float64, pts []float64) { Linear(k, pts) }

// Poly3Wide is the four-wide form of Poly3.
func Poly3Wide(b, c, v float64, pts []float64) {
	n := len(pts) / 2
	i := 0
	for ; i+4 <= n; i += 4 {
		p := pts[2*i : 2*i+8 : 2*i+8]
		x0, y0 := p[0], p[1]
		x1, y1 := p[2], p[3]
		x2, y2 := p[4], p[5]
		x3, y3 := p[6], p[7]
		r0 := math.Sqrt(x0*x0 + y0*y0)
		r1 := math.Sqrt(x1*x1 + y1*y1)
		r2 := math.Sqrt(x2*x2 + y2*y2)
		r3 := math.Sqrt(x3*x3 + y3*y3)
		s0 := v + r0*(c+r0*b)
		s1 := v + r1*(c+r1*b)
		s2 := v + r2*(c+r2*b)
		s3 := v + r3*(c+r3*b)
		p[0], p[1] = x0*s0, y0*s0
		p[2], p[3] = x1*s1, y1*s1
		p[4], p[5] = x2*s2, y2*s2
		p[6], p[7] = x3*s3, y3*s3
	}
	Poly3(b, c, v, pts[2*i:])
}
