package distort

import "math"

// Four-wide forms of the hot forward kernels. The loops are unrolled
// over four coordinate pairs with independent accumulators so the
// compiler can keep them in vector registers; the tails fall back to
// the scalar forms. Poly3Wide and Poly5Wide match the scalar kernels
// exactly; PTLensWide takes the radius with math.Sqrt rather than
// math.Hypot, so it matches PTLens only to rounding.

// Poly3Wide is the four-wide form of Poly3.
func Poly3Wide(k1 float64, pts []float64) {
	om := 1 - k1
	n := len(pts) / 2
	i := 0
	for ; i+4 <= n; i += 4 {
		p := pts[2*i : 2*i+8 : 2*i+8]
		x0, y0 := p[0], p[1]
		x1, y1 := p[2], p[3]
		x2, y2 := p[4], p[5]
		x3, y3 := p[6], p[7]
		s0 := om + k1*(x0*x0+y0*y0)
		s1 := om + k1*(x1*x1+y1*y1)
		s2 := om + k1*(x2*x2+y2*y2)
		s3 := om + k1*(x3*x3+y3*y3)
		p[0], p[1] = x0*s0, y0*s0
		p[2], p[3] = x1*s1, y1*s1
		p[4], p[5] = x2*s2, y2*s2
		p[6], p[7] = x3*s3, y3*s3
	}
	Poly3(k1, pts[2*i:])
}

// Poly5Wide is the four-wide form of Poly5.
func Poly5Wide(k1, k2 float64, pts []float64) {
	n := len(pts) / 2
	i := 0
	for ; i+4 <= n; i += 4 {
		p := pts[2*i : 2*i+8 : 2*i+8]
		x0, y0 := p[0], p[1]
		x1, y1 := p[2], p[3]
		x2, y2 := p[4], p[5]
		x3, y3 := p[6], p[7]
		r0 := x0*x0 + y0*y0
		r1 := x1*x1 + y1*y1
		r2 := x2*x2 + y2*y2
		r3 := x3*x3 + y3*y3
		s0 := 1 + r0*(k1+r0*k2)
		s1 := 1 + r1*(k1+r1*k2)
		s2 := 1 + r2*(k1+r2*k2)
		s3 := 1 + r3*(k1+r3*k2)
		p[0], p[1] = x0*s0, y0*s0
		p[2], p[3] = x1*s1, y1*s1
		p[4], p[5] = x2*s2, y2*s2
		p[6], p[7] = x3*s3, y3*s3
	}
	Poly5(k1, k2, pts[2*i:])
}

// PTLensWide is the four-wide form of PTLens.
func PTLensWide(a, b, c float64, pts []float64) {
	d := 1 - a - b - c
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
		s0 := d + r0*(c+r0*(b+r0*a))
		s1 := d + r1*(c+r1*(b+r1*a))
		s2 := d + r2*(c+r2*(b+r2*a))
		s3 := d + r3*(c+r3*(b+r3*a))
		p[0], p[1] = x0*s0, y0*s0
		p[2], p[3] = x1*s1, y1*s1
		p[4], p[5] = x2*s2, y2*s2
		p[6], p[7] = x3*s3, y3*s3
	}
	PTLens(a, b, c, pts[2*i:])
}
