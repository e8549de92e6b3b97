package lens

import "fmt"

// Lens is a calibrated lens description. The calibration lists are
// unordered; samples are keyed by focal length (plus aperture and
// distance for vignetting) and adding a sample with an existing key
// replaces the earlier entry in place.
type Lens struct {
	Maker string
	Model string

	MinFocal    float64 // mm
	MaxFocal    float64 // mm
	MinAperture float64 // f-number
	MaxAperture float64 // f-number

	Mounts []string

	// CenterX/CenterY shift the optical center away from the image
	// center, in units of the longest image side (-0.5..0.5).
	CenterX float64
	CenterY float64

	// CropFactor is the crop factor of the sensor the calibration was
	// measured on, AspectRatio its width/height ratio.
	CropFactor  float64
	AspectRatio float64

	Type LensType

	CalibDistortion []CalibDistortion
	CalibTCA        []CalibTCA
	CalibVignetting []CalibVignetting
	CalibCrop       []CalibCrop
	CalibFov        []CalibFov
}

// AddMount records a compatible mount name.
func (l *Lens) AddMount(val string) {
	if val == "" {
		return
	}
	for _, m := range l.Mounts {
		if m == val {
			return
		}
	}
	l.Mounts = append(l.Mounts, val)
}

// AddCalibDistortion inserts dc, replacing any sample at the same
// focal length. A zero RealFocal is resolved to the model default
// before insertion so interpolation always sees concrete values.
func (l *Lens) AddCalibDistortion(dc CalibDistortion) {
	if dc.RealFocal == 0 {
		dc.RealFocal = dc.defaultRealFocal()
		dc.RealFocalMeasured = false
	}
	for i, c := range l.CalibDistortion {
		if c.Focal == dc.Focal {
			l.CalibDistortion[i] = dc
			return
		}
	}
	l.CalibDistortion = append(l.CalibDistortion, dc)
}

// AddCalibTCA inserts tc, replacing any sample at the same focal.
func (l *Lens) AddCalibTCA(tc CalibTCA) {
	for i, c := range l.CalibTCA {
		if c.Focal == tc.Focal {
			l.CalibTCA[i] = tc
			return
		}
	}
	l.CalibTCA = append(l.CalibTCA, tc)
}

// AddCalibVignetting inserts vc, replacing any sample measured at the
// same (focal, aperture, distance).
func (l *Lens) AddCalibVignetting(vc CalibVignetting) {
	for i, c := range l.CalibVignetting {
		if c.Focal == vc.Focal && c.Aperture == vc.Aperture && c.Distance == vc.Distance {
			l.CalibVignetting[i] = vc
			return
		}
	}
	l.CalibVignetting = append(l.CalibVignetting, vc)
}

// AddCalibCrop inserts cc, replacing any sample at the same focal.
func (l *Lens) AddCalibCrop(cc CalibCrop) {
	for i, c := range l.CalibCrop {
		if c.Focal == cc.Focal {
			l.CalibCrop[i] = cc
			return
		}
	}
	l.CalibCrop = append(l.CalibCrop, cc)
}

// AddCalibFov inserts fc, replacing any sample at the same focal.
func (l *Lens) AddCalibFov(fc CalibFov) {
	for i, c := range l.CalibFov {
		if c.Focal == fc.Focal {
			l.CalibFov[i] = fc
			return
		}
	}
	l.CalibFov = append(l.CalibFov, fc)
}

// GuessParameters fills missing focal and aperture ranges from the
// calibration sample extrema.
func (l *Lens) GuessParameters() {
	minf, maxf := l.MinFocal, l.MaxFocal
	mina, maxa := l.MinAperture, l.MaxAperture

	if mina == 0 || minf == 0 {
		gminf, gmaxf := +1e308, -1e308
		gmina, gmaxa := +1e308, -1e308
		for _, c := range l.CalibDistortion {
			gminf, gmaxf = minMax(gminf, gmaxf, c.Focal)
		}
		for _, c := range l.CalibTCA {
			gminf, gmaxf = minMax(gminf, gmaxf, c.Focal)
		}
		for _, c := range l.CalibVignetting {
			gminf, gmaxf = minMax(gminf, gmaxf, c.Focal)
			gmina, gmaxa = minMax(gmina, gmaxa, c.Aperture)
		}
		for _, c := range l.CalibCrop {
			gminf, gmaxf = minMax(gminf, gmaxf, c.Focal)
		}
		for _, c := range l.CalibFov {
			gminf, gmaxf = minMax(gminf, gmaxf, c.Focal)
		}
		if minf == 0 && gminf < 1e308 {
			minf = gminf
		}
		if maxf == 0 && gmaxf > -1e308 {
			maxf = gmaxf
		}
		if mina == 0 && gmina < 1e308 {
			mina = gmina
		}
		if maxa == 0 && gmaxa > -1e308 {
			maxa = gmaxa
		}
	}

	if maxf == 0 {
		maxf = minf
	}

	l.MinFocal, l.MaxFocal = minf, maxf
	l.MinAperture, l.MaxAperture = mina, maxa
}

func minMax(lo, hi, v float64) (float64, float64) {
	if v < lo {
		lo = v
	}
	if v > hi {
		hi = v
	}
	return lo, hi
}

// Check fills defaults (aspect ratio 1.5, guessed focal/aperture
// ranges) and validates the lens. The engine refuses to build a
// Modifier from a lens that fails Check.
func (l *Lens) Check() error {
	l.GuessParameters()
	if l.AspectRatio == 0 {
		l.AspectRatio = 1.5
	}

	switch {
	case l.Model == "":
		return fmt.Errorf("%w lens: empty model", ErrInvalid)
	case len(l.Mounts) == 0:
		return fmt.Errorf("%w lens %q: no mounts", ErrInvalid, l.Model)
	case l.CropFactor <= 0:
		return fmt.Errorf("%w lens %q: crop factor %g", ErrInvalid, l.Model, l.CropFactor)
	case l.MinFocal > l.MaxFocal:
		return fmt.Errorf("%w lens %q: focal range %g-%g", ErrInvalid, l.Model, l.MinFocal, l.MaxFocal)
	case l.MaxAperture != 0 && l.MinAperture > l.MaxAperture:
		return fmt.Errorf("%w lens %q: aperture range %g-%g", ErrInvalid, l.Model, l.MinAperture, l.MaxAperture)
	case l.AspectRatio < 1:
		return fmt.Errorf("%w lens %q: aspect ratio %g", ErrInvalid, l.Model, l.AspectRatio)
	}
	return nil
}
