package lens

// Calibration records are immutable measurement tuples: a model kind,
// the shooting parameters at which it was fitted, and the fitted
// coefficients. They are created by a database layer, added to a Lens,
// and never mutated afterwards.

// CalibDistortion is one distortion sample.
//
// Terms layout per model: poly3 {k1}, poly5 {k1,k2},
// ptlens {a,b,c}, acm {k1..k5}.
type CalibDistortion struct {
	Model DistortionModel
	Focal float64 // mm
	// RealFocal is the paraxial focal length the model was fitted
	// against. Zero means "derive the model default" (see
	// defaultRealFocal); a database layer may also set it explicitly.
	RealFocal         float64
	RealFocalMeasured bool
	Terms             [5]float64
}

// defaultRealFocal is the paraxial focal length implied by the model
// itself: the nominal focal times the polynomial's linear term.
func (c CalibDistortion) defaultRealFocal() float64 {
	switch c.Model {
	case DistortionPoly3:
		return c.Focal * (1 - c.Terms[0])
	case DistortionPTLens:
		return c.Focal * (1 - c.Terms[0] - c.Terms[1] - c.Terms[2])
	}
	return c.Focal
}

// CalibTCA is one transversal-chromatic-aberration sample.
//
// Terms layout per model: linear {kr,kb},
// poly3 {vr,vb,cr,cb,br,bb}, acm {alpha0,beta0,...,alpha5,beta5}.
type CalibTCA struct {
	Model TCAModel
	Focal float64 // mm
	Terms [12]float64
}

// CalibVignetting is one vignetting sample; unlike the other kinds it
// also records the aperture and focus distance it was measured at.
type CalibVignetting struct {
	Model    VignettingModel
	Focal    float64 // mm
	Aperture float64 // f-number
	Distance float64 // m
	Terms    [3]float64
}

// CalibCrop is one usable-area sample. Crop holds fractional
// {left, right, top, bottom} bounds; circle-mode values may lie
// outside 0..1 when the image circle overflows the frame.
type CalibCrop struct {
	Mode  CropMode
	Focal float64 // mm
	Crop  [4]float64
}

// CalibFov is a deprecated field-of-view sample, kept because old
// databases still carry it and because it is the fallback source for
// the real focal length.
type CalibFov struct {
	Focal       float64 // mm
	FieldOfView float64 // degrees, over the long image side
}
