package lens

// LensType is the projection the lens was designed for.
type LensType int

const (
	TypeUnknown LensType = iota
	TypeRectilinear
	TypeFisheye // equidistant fisheye
	TypePanoramic
	TypeEquirectangular
	TypeFisheyeOrthographic
	TypeFisheyeStereographic
	TypeFisheyeEquisolid
	TypeFisheyeThoby
)

func (t LensType) String() string {
	switch t {
	case TypeRectilinear:
		return "rectilinear"
	case TypeFisheye:
		return "fisheye"
	case TypePanoramic:
		return "panoramic"
	case TypeEquirectangular:
		return "equirectangular"
	case TypeFisheyeOrthographic:
		return "fisheye_orthographic"
	case TypeFisheyeStereographic:
		return "fisheye_stereographic"
	case TypeFisheyeEquisolid:
		return "fisheye_equisolid"
	case TypeFisheyeThoby:
		return "fisheye_thoby"
	}
	return "unknown"
}

// DistortionModel enumerates the supported distortion families.
type DistortionModel int

const (
	DistortionNone DistortionModel = iota
	DistortionPoly3
	DistortionPoly5
	DistortionPTLens
	DistortionACM
)

func (m DistortionModel) String() string {
	switch m {
	case DistortionPoly3:
		return "poly3"
	case DistortionPoly5:
		return "poly5"
	case DistortionPTLens:
		return "ptlens"
	case DistortionACM:
		return "acm"
	}
	return "none"
}

// TCAModel enumerates the transversal chromatic aberration families.
type TCAModel int

const (
	TCANone TCAModel = iota
	TCALinear
	TCAPoly3
	TCAACM
)

func (m TCAModel) String() string {
	switch m {
	case TCALinear:
		return "linear"
	case TCAPoly3:
		return "poly3"
	case TCAACM:
		return "acm"
	}
	return "none"
}

// VignettingModel enumerates the vignetting families.
type VignettingModel int

const (
	VignettingNone VignettingModel = iota
	VignettingPA
	VignettingACM
)

func (m VignettingModel) String() string {
	switch m {
	case VignettingPA:
		return "pa"
	case VignettingACM:
		return "acm"
	}
	return "none"
}

// CropMode describes the shape of the usable image area.
type CropMode int

const (
	NoCrop CropMode = iota
	CropRectangle
	CropCircle
)

func (m CropMode) String() string {
	switch m {
	case CropRectangle:
		return "rectangle"
	case CropCircle:
		return "circle"
	}
	return "no-crop"
}

// ParamDesc describes one model coefficient: its conventional name and
// the range a calibration UI should offer.
type ParamDesc struct {
	Name    string
	Min     float64
	Max     float64
	Default float64
}

// Params returns the coefficient descriptors in Terms order.
func (m DistortionModel) Params() []ParamDesc {
	switch m {
	case DistortionPoly3:
		return []ParamDesc{{"k1", -0.2, 0.2, 0}}
	case DistortionPoly5:
		return []ParamDesc{{"k1", -0.2, 0.2, 0}, {"k2", -0.2, 0.2, 0}}
	case DistortionPTLens:
		return []ParamDesc{{"a", -0.5, 0.5, 0}, {"b", -1, 1, 0}, {"c", -1, 1, 0}}
	case DistortionACM:
		return []ParamDesc{
			{"k1", -0.2, 0.2, 0}, {"k2", -0.2, 0.2, 0}, {"k3", -1, 1, 0},
			{"k4", -1, 1, 0}, {"k5", -1, 1, 0},
		}
	}
	return nil
}

// Params returns the coefficient descriptors in Terms order.
func (m TCAModel) Params() []ParamDesc {
	switch m {
	case TCALinear:
		return []ParamDesc{{"kr", 0.99, 1.01, 1}, {"kb", 0.99, 1.01, 1}}
	case TCAPoly3:
		return []ParamDesc{
			{"vr", 0.99, 1.01, 1}, {"vb", 0.99, 1.01, 1},
			{"cr", -0.01, 0.01, 0}, {"cb", -0.01, 0.01, 0},
			{"br", -0.01, 0.01, 0}, {"bb", -0.01, 0.01, 0},
		}
	case TCAACM:
		return []ParamDesc{
			{"alpha0", 0.99, 1.01, 1}, {"beta0", 0.99, 1.01, 1},
			{"alpha1", -0.01, 0.01, 0}, {"beta1", -0.01, 0.01, 0},
			{"alpha2", -0.01, 0.01, 0}, {"beta2", -0.01, 0.01, 0},
			{"alpha3", -0.01, 0.01, 0}, {"beta3", -0.01, 0.01, 0},
			{"alpha4", -0.01, 0.01, 0}, {"beta4", -0.01, 0.01, 0},
			{"alpha5", -0.01, 0.01, 0}, {"beta5", -0.01, 0.01, 0},
		}
	}
	return nil
}

// Params returns the coefficient descriptors in Terms order.
func (m VignettingModel) Params() []ParamDesc {
	switch m {
	case VignettingPA:
		return []ParamDesc{{"k1", -3, 1, 0}, {"k2", -5, 10, 0}, {"k3", -5, 10, 0}}
	case VignettingACM:
		return []ParamDesc{{"alpha1", -1, 1, 0}, {"alpha2", -5, 10, 0}, {"alpha3", -5, 10, 0}}
	}
	return nil
}
