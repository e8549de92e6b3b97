// Package vignette implements the vignetting gain kernels. They are
// color kernels: given per-pixel radii they accumulate a multiplicative
// gain the color pass applies to pixel components. PA radii are in the
// normalized system, ACM radii in focal-length units.
package vignette

// PA is the Pablo D'Angelo polynomial 1 + k1 r^2 + k2 r^4 + k3 r^6.
// Correcting divides the pixel by it, simulating multiplies.
type PA struct {
	K1, K2, K3 float64
}

// Gain multiplies the correction gain for each squared radius into
// gains: 1/poly when correct is true, poly otherwise.
func (p PA) Gain(r2 []float64, gains []float64, correct bool) {
	if correct {
		for i, r := range r2 {
			gains[i] /= 1 + r*(p.K1+r*(p.K2+r*p.K3))
		}
		return
	}
	for i, r := range r2 {
		gains[i] *= 1 + r*(p.K1+r*(p.K2+r*p.K3))
	}
}

// GainWide is the four-wide form of Gain.
func (p PA) GainWide(r2 []float64, gains []float64, correct bool) {
	i := 0
	if correct {
		for ; i+4 <= len(r2); i += 4 {
			r := r2[i : i+4 : i+4]
			g := gains[i : i+4 : i+4]
			g[0] /= 1 + r[0]*(p.K1+r[0]*(p.K2+r[0]*p.K3))
			g[1] /= 1 + r[1]*(p.K1+r[1]*(p.K2+r[1]*p.K3))
			g[2] /= 1 + r[2]*(p.K1+r[2]*(p.K2+r[2]*p.K3))
			g[3] /= 1 + r[3]*(p.K1+r[3]*(p.K2+r[3]*p.K3))
		}
	} else {
		for ; i+4 <= len(r2); i += 4 {
			r := r2[i : i+4 : i+4]
			g := gains[i : i+4 : i+4]
			g[0] *= 1 + r[0]*(p.K1+r[0]*(p.K2+r[0]*p.K3))
			g[1] *= 1 + r[1]*(p.K1+r[1]*(p.K2+r[1]*p.K3))
			g[2] *= 1 + r[2]*(p.K1+r[2]*(p.K2+r[2]*p.K3))
			g[3] *= 1 + r[3]*(p.K1+r[3]*(p.K2+r[3]*p.K3))
		}
	}
	p.Gain(r2[i:], gains[i:], correct)
}

// ACM is Adobe's vignette polynomial 1 + a1 r^2 + a2 r^4 + a3 r^6 over
// focal-length-unit radii; it describes the correction gain directly,
// so correcting multiplies and simulating divides. R2Scale converts
// the caller's squared radii into focal-length units (1 when they
// already are).
type ACM struct {
	A1, A2, A3 float64
	R2Scale    float64
}

// Gain multiplies the gain for each squared radius into gains.
func (a ACM) Gain(r2 []float64, gains []float64, correct bool) {
	k := a.R2Scale
	if k == 0 {
		k = 1
	}
	if correct {
		for i, r := range r2 {
			rf := r * k
			gains[i] *= 1 + rf*(a.A1+rf*(a.A2+rf*a.A3))
		}
		return
	}
	for i, r := range r2 {
		rf := r * k
		gains[i] /= 1 + rf*(a.A1+rf*(a.A2+rf*a.A3))
	}
}
