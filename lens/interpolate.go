package lens

import (
	"math"

	"github.com/yyyoichi/lens_rectify/internal/proj"
	"github.com/yyyoichi/lens_rectify/internal/spline"
)

// The interpolators below answer "what would the calibration be at
// this focal length (and aperture, distance)". They either return an
// interpolated record with the query parameters filled in, or ok ==
// false when the lens carries no usable calibration: callers drop the
// corresponding correction stage, they never fabricate parameters.
//
// Distortion, TCA, crop and FOV interpolate per coefficient on a
// four-point Hermite spline over the focal axis; distortion and TCA
// coefficients first go through the parameter-axis rescaling of
// internal/spline, crop bounds and FOV values do not. Vignetting lives in a
// three-dimensional sample space and uses inverse distance weighting.

// InterpolateDistortion returns the distortion model at focal.
func (l *Lens) InterpolateDistortion(focal float64) (CalibDistortion, bool) {
	var res CalibDistortion
	model := DistortionNone
	nb := spline.NewNeighbors[*CalibDistortion]()

	for i := range l.CalibDistortion {
		c := &l.CalibDistortion[i]
		if c.Model == DistortionNone {
			continue
		}
		// Only the first encountered model kind takes part.
		if model == DistortionNone {
			model = c.Model
		} else if model != c.Model {
			continue
		}
		if focal == c.Focal {
			return *c, true
		}
		nb.Insert(focal-c.Focal, c)
	}

	if !nb.Bracketed() {
		c, ok := nb.Nearest()
		if !ok {
			return res, false
		}
		return *c, true
	}

	below, _ := nb.Below()
	above, _ := nb.Above()
	outerB, outerA, haveB, haveA := nb.Outer()

	res.Model = model
	res.Focal = focal
	t := (focal - below.Focal) / (above.Focal - below.Focal)

	res.RealFocal = spline.Hermite(
		realFocalOrMissing(outerB, haveB),
		below.RealFocal, above.RealFocal,
		realFocalOrMissing(outerA, haveA), t)

	acm := model == DistortionACM
	for i := range res.Terms {
		y1 := spline.Missing
		if haveB {
			y1 = outerB.Terms[i] * spline.Scale(spline.KindDistortion, acm, i, outerB.Focal)
		}
		y4 := spline.Missing
		if haveA {
			y4 = outerA.Terms[i] * spline.Scale(spline.KindDistortion, acm, i, outerA.Focal)
		}
		res.Terms[i] = spline.Hermite(
			y1,
			below.Terms[i]*spline.Scale(spline.KindDistortion, acm, i, below.Focal),
			above.Terms[i]*spline.Scale(spline.KindDistortion, acm, i, above.Focal),
			y4, t) / spline.Scale(spline.KindDistortion, acm, i, focal)
	}
	return res, true
}

func realFocalOrMissing(c *CalibDistortion, have bool) float64 {
	if !have {
		return spline.Missing
	}
	return c.RealFocal
}

// InterpolateTCA returns the TCA model at focal.
func (l *Lens) InterpolateTCA(focal float64) (CalibTCA, bool) {
	var res CalibTCA
	model := TCANone
	nb := spline.NewNeighbors[*CalibTCA]()

	for i := range l.CalibTCA {
		c := &l.CalibTCA[i]
		if c.Model == TCANone {
			continue
		}
		if model == TCANone {
			model = c.Model
		} else if model != c.Model {
			continue
		}
		if focal == c.Focal {
			return *c, true
		}
		nb.Insert(focal-c.Focal, c)
	}

	if !nb.Bracketed() {
		c, ok := nb.Nearest()
		if !ok {
			return res, false
		}
		return *c, true
	}

	below, _ := nb.Below()
	above, _ := nb.Above()
	outerB, outerA, haveB, haveA := nb.Outer()

	res.Model = model
	res.Focal = focal
	t := (focal - below.Focal) / (above.Focal - below.Focal)

	acm := model == TCAACM
	for i := range res.Terms {
		y1 := spline.Missing
		if haveB {
			y1 = outerB.Terms[i] * spline.Scale(spline.KindTCA, acm, i, outerB.Focal)
		}
		y4 := spline.Missing
		if haveA {
			y4 = outerA.Terms[i] * spline.Scale(spline.KindTCA, acm, i, outerA.Focal)
		}
		res.Terms[i] = spline.Hermite(
			y1,
			below.Terms[i]*spline.Scale(spline.KindTCA, acm, i, below.Focal),
			above.Terms[i]*spline.Scale(spline.KindTCA, acm, i, above.Focal),
			y4, t) / spline.Scale(spline.KindTCA, acm, i, focal)
	}
	return res, true
}

// InterpolateVignetting returns the vignetting model at the shooting
// parameters, by inverse distance weighting over all samples of the
// first encountered model kind. Queries farther than 1.0 from every
// sample report no calibration.
func (l *Lens) InterpolateVignetting(focal, aperture, distance float64) (CalibVignetting, bool) {
	var res CalibVignetting
	if len(l.CalibVignetting) == 0 {
		return res, false
	}

	model := VignettingNone
	res.Focal = focal
	res.Aperture = aperture
	res.Distance = distance

	totalWeight := 0.0
	smallest := math.MaxFloat64
	acm := false

	for i := range l.CalibVignetting {
		c := &l.CalibVignetting[i]
		if model == VignettingNone {
			model = c.Model
			res.Model = model
			acm = model == VignettingACM
		} else if model != c.Model {
			continue
		}

		d := spline.VignettingDistance(l.MinFocal, l.MaxFocal,
			focal, aperture, distance, c.Focal, c.Aperture, c.Distance)
		if d < 1e-4 {
			return *c, true
		}
		if d < smallest {
			smallest = d
		}

		w := spline.IDWWeight(d)
		for j := range res.Terms {
			res.Terms[j] += w * c.Terms[j] * spline.Scale(spline.KindVignetting, acm, j, c.Focal)
		}
		totalWeight += w
	}

	if smallest > 1 {
		return CalibVignetting{}, false
	}
	if totalWeight <= 0 || smallest == math.MaxFloat64 {
		return CalibVignetting{}, false
	}
	for j := range res.Terms {
		res.Terms[j] /= totalWeight * spline.Scale(spline.KindVignetting, acm, j, focal)
	}
	return res, true
}

// InterpolateCrop returns the usable-area description at focal.
func (l *Lens) InterpolateCrop(focal float64) (CalibCrop, bool) {
	var res CalibCrop
	mode := NoCrop
	nb := spline.NewNeighbors[*CalibCrop]()

	for i := range l.CalibCrop {
		c := &l.CalibCrop[i]
		if c.Mode == NoCrop {
			continue
		}
		if mode == NoCrop {
			mode = c.Mode
		} else if mode != c.Mode {
			continue
		}
		if focal == c.Focal {
			return *c, true
		}
		nb.Insert(focal-c.Focal, c)
	}

	if !nb.Bracketed() {
		c, ok := nb.Nearest()
		if !ok {
			return res, false
		}
		return *c, true
	}

	below, _ := nb.Below()
	above, _ := nb.Above()
	outerB, outerA, haveB, haveA := nb.Outer()

	res.Mode = mode
	res.Focal = focal
	t := (focal - below.Focal) / (above.Focal - below.Focal)
	for i := range res.Crop {
		y1 := spline.Missing
		if haveB {
			y1 = outerB.Crop[i]
		}
		y4 := spline.Missing
		if haveA {
			y4 = outerA.Crop[i]
		}
		res.Crop[i] = spline.Hermite(y1, below.Crop[i], above.Crop[i], y4, t)
	}
	return res, true
}

// InterpolateFov returns the deprecated field-of-view value at focal.
func (l *Lens) InterpolateFov(focal float64) (CalibFov, bool) {
	var res CalibFov
	nb := spline.NewNeighbors[*CalibFov]()
	found := 0

	for i := range l.CalibFov {
		c := &l.CalibFov[i]
		if c.FieldOfView == 0 {
			continue
		}
		found++
		if focal == c.Focal {
			return *c, true
		}
		nb.Insert(focal-c.Focal, c)
	}
	if found == 0 {
		return res, false
	}

	if !nb.Bracketed() {
		c, ok := nb.Nearest()
		if !ok {
			return res, false
		}
		return *c, true
	}

	below, _ := nb.Below()
	above, _ := nb.Above()
	outerB, outerA, haveB, haveA := nb.Outer()

	res.Focal = focal
	t := (focal - below.Focal) / (above.Focal - below.Focal)
	y1 := spline.Missing
	if haveB {
		y1 = outerB.FieldOfView
	}
	y4 := spline.Missing
	if haveA {
		y4 = outerA.FieldOfView
	}
	res.FieldOfView = spline.Hermite(y1, below.FieldOfView, above.FieldOfView, y4, t)
	return res, true
}

// fullFrameDiagonalMM is the 35mm film diagonal crop factors refer to.
const fullFrameDiagonalMM = 43.2666

// HalfLongSideMM is half the longer sensor side, in millimeters, of a
// sensor with the given crop factor and aspect ratio. It is the
// physical length of one normalized coordinate unit.
func HalfLongSideMM(cropFactor, aspectRatio float64) float64 {
	d := fullFrameDiagonalMM / cropFactor
	return d / 2 * aspectRatio / math.Sqrt(aspectRatio*aspectRatio+1)
}

// Projection maps the lens type onto its projection geometry.
func (t LensType) Projection() proj.Projection {
	switch t {
	case TypeRectilinear:
		return proj.Rectilinear
	case TypeFisheye:
		return proj.Equidistant
	case TypePanoramic:
		return proj.Panoramic
	case TypeEquirectangular:
		return proj.Equirectangular
	case TypeFisheyeOrthographic:
		return proj.Orthographic
	case TypeFisheyeStereographic:
		return proj.Stereographic
	case TypeFisheyeEquisolid:
		return proj.Equisolid
	case TypeFisheyeThoby:
		return proj.Thoby
	}
	return proj.Unknown
}

// RealFocalLength resolves the paraxial focal length at the given
// nominal focal: from the interpolated distortion calibration when one
// exists, else from the deprecated field-of-view calibration converted
// through the lens projection, else the nominal focal itself.
func (l *Lens) RealFocalLength(focal float64) float64 {
	if d, ok := l.InterpolateDistortion(focal); ok && d.RealFocal > 0 {
		return d.RealFocal
	}
	if fv, ok := l.InterpolateFov(focal); ok && fv.FieldOfView > 0 {
		p := l.Type.Projection()
		if p == proj.Unknown {
			p = proj.Rectilinear
		}
		halfAngle := fv.FieldOfView / 2 * math.Pi / 180
		if g := proj.Radius(p, halfAngle, 1); g > 0 {
			return HalfLongSideMM(l.CropFactor, l.AspectRatio) / g
		}
	}
	return focal
}
