package rectify

// Flags selects which corrections a Modifier applies. Initialize
// returns the subset that actually took effect; corrections without
// usable calibration are dropped silently.
type Flags uint32

const (
	// TCA corrects transversal chromatic aberration (subpixel stack).
	TCA Flags = 0x01
	// Vignetting corrects radial brightness falloff (color stack).
	Vignetting Flags = 0x02
	// Distortion corrects geometric distortion (coordinate stack).
	Distortion Flags = 0x08
	// Geometry converts between projections (coordinate stack).
	Geometry Flags = 0x10
	// Scale applies the final (or automatic) scale factor.
	Scale Flags = 0x20
	// All requests every supported correction.
	All = ^Flags(0)
)
