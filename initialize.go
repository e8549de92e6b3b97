package rectify

import (
	"math"

	"github.com/yyyoichi/lens_rectify/internal/distort"
	"github.com/yyyoichi/lens_rectify/internal/proj"
	"github.com/yyyoichi/lens_rectify/internal/tca"
	"github.com/yyyoichi/lens_rectify/internal/vignette"
	"github.com/yyyoichi/lens_rectify/lens"
)

// defaultDistance stands in for an unknown focus distance; vignetting
// barely depends on it that far out.
const defaultDistance = 1000

// Initialize interpolates the calibration at the shooting parameters
// and assembles the callback stacks for every requested correction
// that has usable calibration. It returns the flags that actually took
// effect. The modifier must not be initialized concurrently with apply
// calls; afterwards it is read-only and fully concurrent.
func (m *Modifier) Initialize(focal, aperture, distance float64, format PixelFormat, flags Flags, opts ...Option) Flags {
	m.colorCBs = nil
	m.coordCBs = nil
	m.subpixCBs = nil
	m.scale = 0
	m.reverse = false
	m.hasTarget = false
	m.format = format
	for _, opt := range opts {
		opt(m)
	}

	if distance <= 0 {
		distance = defaultDistance
	}
	m.focal = focal
	m.normFocal = focal / lens.HalfLongSideMM(m.lens.CropFactor, m.lens.AspectRatio)

	var applied Flags
	if flags&Vignetting != 0 && aperture > 0 {
		if m.addVignetting(focal, aperture, distance) {
			applied |= Vignetting
		}
	}
	if flags&Distortion != 0 {
		if m.addDistortion(focal) {
			applied |= Distortion
		}
	}
	if flags&Geometry != 0 && m.hasTarget {
		if m.addGeometry(focal) {
			applied |= Geometry
		}
	}
	if flags&TCA != 0 {
		if m.addTCA(focal) {
			applied |= TCA
		}
	}
	if flags&Scale != 0 {
		if m.addScale() {
			applied |= Scale
		}
	}

	m.initialized = true
	return applied
}

func (m *Modifier) addVignetting(focal, aperture, distance float64) bool {
	c, ok := m.lens.InterpolateVignetting(focal, aperture, distance)
	if !ok {
		return false
	}
	correct := !m.reverse
	priority := prioEarly
	if !correct {
		priority = prioLate
	}

	switch c.Model {
	case lens.VignettingPA:
		pa := vignette.PA{K1: c.Terms[0], K2: c.Terms[1], K3: c.Terms[2]}
		wide := m.wide
		m.addColor(priority, func(r2, gains []float64) {
			if wide {
				pa.GainWide(r2, gains, correct)
			} else {
				pa.Gain(r2, gains, correct)
			}
		})
	case lens.VignettingACM:
		acm := vignette.ACM{
			A1: c.Terms[0], A2: c.Terms[1], A3: c.Terms[2],
			R2Scale: 1 / (m.normFocal * m.normFocal),
		}
		m.addColor(priority, func(r2, gains []float64) {
			acm.Gain(r2, gains, correct)
		})
	default:
		return false
	}
	return true
}

func (m *Modifier) addDistortion(focal float64) bool {
	c, ok := m.lens.InterpolateDistortion(focal)
	if !ok {
		return false
	}
	correct := !m.reverse
	priority := prioEarly
	if correct {
		priority = prioLate
	}
	wide := m.wide

	switch c.Model {
	case lens.DistortionPoly3:
		k1 := c.Terms[0]
		if correct {
			m.addCoord(priority, func(pts []float64) { distort.Poly3Inverse(k1, pts) })
		} else if wide {
			m.addCoord(priority, func(pts []float64) { distort.Poly3Wide(k1, pts) })
		} else {
			m.addCoord(priority, func(pts []float64) { distort.Poly3(k1, pts) })
		}
	case lens.DistortionPoly5:
		k1, k2 := c.Terms[0], c.Terms[1]
		if correct {
			m.addCoord(priority, func(pts []float64) { distort.Poly5Inverse(k1, k2, pts) })
		} else if wide {
			m.addCoord(priority, func(pts []float64) { distort.Poly5Wide(k1, k2, pts) })
		} else {
			m.addCoord(priority, func(pts []float64) { distort.Poly5(k1, k2, pts) })
		}
	case lens.DistortionPTLens:
		a, b, cc := c.Terms[0], c.Terms[1], c.Terms[2]
		if correct {
			m.addCoord(priority, func(pts []float64) { distort.PTLensInverse(a, b, cc, pts) })
		} else if wide {
			m.addCoord(priority, func(pts []float64) { distort.PTLensWide(a, b, cc, pts) })
		} else {
			m.addCoord(priority, func(pts []float64) { distort.PTLens(a, b, cc, pts) })
		}
	case lens.DistortionACM:
		var k [5]float64
		copy(k[:], c.Terms[:])
		toFL := 1 / m.normFocal
		fromFL := m.normFocal
		if correct {
			m.addCoord(priority, func(pts []float64) {
				scalePts(pts, toFL)
				distort.ACMInverse(k, pts)
				scalePts(pts, fromFL)
			})
		} else {
			m.addCoord(priority, func(pts []float64) {
				scalePts(pts, toFL)
				distort.ACM(k, pts)
				scalePts(pts, fromFL)
			})
		}
	default:
		return false
	}
	return true
}

func (m *Modifier) addGeometry(focal float64) bool {
	srcProj := m.lens.Type.Projection()
	dstProj := m.targetProjection.Projection()
	if srcProj == proj.Unknown || dstProj == proj.Unknown || srcProj == dstProj {
		return false
	}

	// Projection conversion works on angles, so it runs on the real
	// (paraxial) focal length, not the nominal one.
	f := m.lens.RealFocalLength(focal) / lens.HalfLongSideMM(m.lens.CropFactor, m.lens.AspectRatio)
	from, to := dstProj, srcProj
	if m.reverse {
		from, to = srcProj, dstProj
	}

	m.addCoord(prioGeometry, func(pts []float64) {
		for i := 0; i+1 < len(pts); i += 2 {
			X, Y, Z, ok := proj.ToRay(from, pts[i], pts[i+1], f)
			if ok {
				pts[i], pts[i+1], ok = proj.FromRay(to, X, Y, Z, f)
			}
			if !ok {
				// Off the projection's field: push the sample far
				// outside the frame.
				pts[i], pts[i+1] = outOfFrame, outOfFrame
			}
		}
	})
	return true
}

const outOfFrame = 1e9

func (m *Modifier) addTCA(focal float64) bool {
	c, ok := m.lens.InterpolateTCA(focal)
	if !ok {
		return false
	}
	// Correcting TCA needs no inversion: the per-channel model already
	// tells where the channel's sample sits in the source.
	forward := !m.reverse
	wide := m.wide

	switch c.Model {
	case lens.TCALinear:
		kr, kb := c.Terms[0], c.Terms[1]
		m.addSubpix(prioTCA, func(pts []float64, ch int) {
			k := kr
			if ch == chBlue {
				k = kb
			} else if ch == chGreen {
				return
			}
			if forward {
				tca.Linear(k, pts)
			} else {
				tca.LinearInverse(k, pts)
			}
		})
	case lens.TCAPoly3:
		vr, vb := c.Terms[0], c.Terms[1]
		cr, cb := c.Terms[2], c.Terms[3]
		br, bb := c.Terms[4], c.Terms[5]
		m.addSubpix(prioTCA, func(pts []float64, ch int) {
			b, cc, v := br, cr, vr
			if ch == chBlue {
				b, cc, v = bb, cb, vb
			} else if ch == chGreen {
				return
			}
			switch {
			case forward && wide:
				tca.Poly3Wide(b, cc, v, pts)
			case forward:
				tca.Poly3(b, cc, v, pts)
			default:
				tca.Poly3Inverse(b, cc, v, pts)
			}
		})
	case lens.TCAACM:
		var red, blue [6]float64
		for i := range 6 {
			red[i] = c.Terms[2*i]
			blue[i] = c.Terms[2*i+1]
		}
		toFL := 1 / m.normFocal
		fromFL := m.normFocal
		m.addSubpix(prioTCA, func(pts []float64, ch int) {
			a := red
			if ch == chBlue {
				a = blue
			} else if ch == chGreen {
				return
			}
			scalePts(pts, toFL)
			if forward {
				tca.ACM(a, pts)
			} else {
				tca.ACMInverse(a, pts)
			}
			scalePts(pts, fromFL)
		})
	default:
		return false
	}
	return true
}

func (m *Modifier) addScale() bool {
	s := m.scale
	if s == 0 {
		s = m.autoscale()
	}
	if s <= 0 || math.Abs(s-1) < 1e-12 {
		return false
	}
	// Correcting zooms in by s, so the sampling coordinate shrinks;
	// simulating undoes the zoom.
	factor := 1 / s
	if m.reverse {
		factor = s
	}
	m.addCoord(prioScale, func(pts []float64) { scalePts(pts, factor) })
	return true
}

func scalePts(pts []float64, f float64) {
	for i := range pts {
		pts[i] *= f
	}
}
