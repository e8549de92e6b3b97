package rectify

import "github.com/yyyoichi/lens_rectify/lens"

// Option tunes Initialize beyond the required shooting parameters.
type Option func(*Modifier)

// WithScale sets the final scale factor; 0 (the default) solves for
// the automatic scale that keeps every corrected sample on the source
// frame. Only consulted when the Scale flag is set.
func WithScale(s float64) Option {
	return func(m *Modifier) { m.scale = s }
}

// WithTargetProjection converts the image to the given projection
// when the Geometry flag is set, e.g. fisheye to rectilinear.
func WithTargetProjection(t lens.LensType) Option {
	return func(m *Modifier) {
		m.targetProjection = t
		m.hasTarget = true
	}
}

// WithReverse flips every kernel into its simulation form: the
// modifier then re-introduces the lens defects instead of removing
// them.
func WithReverse() Option {
	return func(m *Modifier) { m.reverse = true }
}

// WithWideKernels overrides the runtime CPU detection of the four-wide
// kernel path.
func WithWideKernels(on bool) Option {
	return func(m *Modifier) { m.wide = on }
}
