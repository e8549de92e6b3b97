package lens

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLensCheck(t *testing.T) {
	valid := func() *Lens {
		return &Lens{
			Maker:      "Tamron",
			Model:      "SP 24-70mm F/2.8",
			MinFocal:   24,
			MaxFocal:   70,
			Mounts:     []string{"Canon EF"},
			CropFactor: 1.0,
		}
	}

	t.Run("valid lens passes and gets defaults", func(t *testing.T) {
		l := valid()
		require.NoError(t, l.Check())
		assert.Equal(t, 1.5, l.AspectRatio)
	})

	test := []struct {
		name  string
		mod   func(*Lens)
		valid bool
	}{
		{"empty model", func(l *Lens) { l.Model = "" }, false},
		{"no mounts", func(l *Lens) { l.Mounts = nil }, false},
		{"zero crop factor", func(l *Lens) { l.CropFactor = 0 }, false},
		{"negative crop factor", func(l *Lens) { l.CropFactor = -1.5 }, false},
		{"inverted focal range", func(l *Lens) { l.MinFocal = 70; l.MaxFocal = 24 }, false},
		{"inverted aperture range", func(l *Lens) { l.MinAperture = 8; l.MaxAperture = 2.8 }, false},
		{"open aperture range", func(l *Lens) { l.MinAperture = 2.8; l.MaxAperture = 0 }, true},
		{"aspect ratio below one", func(l *Lens) { l.AspectRatio = 0.5 }, false},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			l := valid()
			tt.mod(l)
			err := l.Check()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalid)
			}
		})
	}
}

func TestLensGuessParameters(t *testing.T) {
	l := &Lens{Maker: "x", Model: "y", Mounts: []string{"m"}, CropFactor: 1.5}
	l.AddCalibDistortion(CalibDistortion{Model: DistortionPoly3, Focal: 18, Terms: [5]float64{0.01}})
	l.AddCalibDistortion(CalibDistortion{Model: DistortionPoly3, Focal: 55, Terms: [5]float64{-0.005}})
	l.AddCalibVignetting(CalibVignetting{Model: VignettingPA, Focal: 35, Aperture: 3.5, Distance: 10})

	l.GuessParameters()
	assert.Equal(t, 18.0, l.MinFocal)
	assert.Equal(t, 55.0, l.MaxFocal)
	assert.Equal(t, 3.5, l.MinAperture)
}

func TestAddCalibReplacesDuplicates(t *testing.T) {
	t.Run("distortion keyed by focal", func(t *testing.T) {
		var l Lens
		l.AddCalibDistortion(CalibDistortion{Model: DistortionPoly3, Focal: 50, Terms: [5]float64{0.01}})
		l.AddCalibDistortion(CalibDistortion{Model: DistortionPoly3, Focal: 35, Terms: [5]float64{0.02}})
		l.AddCalibDistortion(CalibDistortion{Model: DistortionPoly3, Focal: 50, Terms: [5]float64{0.03}})

		require.Len(t, l.CalibDistortion, 2)
		assert.Equal(t, 0.03, l.CalibDistortion[0].Terms[0])
		assert.Equal(t, 50.0, l.CalibDistortion[0].Focal)
	})

	t.Run("vignetting keyed by focal aperture distance", func(t *testing.T) {
		var l Lens
		l.AddCalibVignetting(CalibVignetting{Model: VignettingPA, Focal: 50, Aperture: 2.8, Distance: 10})
		l.AddCalibVignetting(CalibVignetting{Model: VignettingPA, Focal: 50, Aperture: 4, Distance: 10})
		l.AddCalibVignetting(CalibVignetting{Model: VignettingPA, Focal: 50, Aperture: 2.8, Distance: 10, Terms: [3]float64{-0.3}})

		require.Len(t, l.CalibVignetting, 2)
		assert.Equal(t, -0.3, l.CalibVignetting[0].Terms[0])
	})
}

func TestDistortionRealFocalDefaults(t *testing.T) {
	var l Lens
	l.AddCalibDistortion(CalibDistortion{Model: DistortionPoly3, Focal: 50, Terms: [5]float64{0.02}})
	l.AddCalibDistortion(CalibDistortion{Model: DistortionPTLens, Focal: 20, Terms: [5]float64{0.05, -0.01, 0.002}})
	l.AddCalibDistortion(CalibDistortion{Model: DistortionPoly5, Focal: 35, Terms: [5]float64{0.01, 0.001}})
	l.AddCalibDistortion(CalibDistortion{Model: DistortionACM, Focal: 85, RealFocal: 84.2, RealFocalMeasured: true})

	// poly3: f * (1 - k1)
	assert.InDelta(t, 50*(1-0.02), l.CalibDistortion[0].RealFocal, 1e-12)
	// ptlens: f * (1 - a - b - c)
	assert.InDelta(t, 20*(1-0.05+0.01-0.002), l.CalibDistortion[1].RealFocal, 1e-12)
	// poly5: linear term is 1
	assert.InDelta(t, 35, l.CalibDistortion[2].RealFocal, 1e-12)
	// explicit values are kept
	assert.Equal(t, 84.2, l.CalibDistortion[3].RealFocal)
	assert.True(t, l.CalibDistortion[3].RealFocalMeasured)
}

func TestCameraCheck(t *testing.T) {
	c := Camera{Maker: "Nikon", Model: "D90", Mount: "Nikon F AF", CropFactor: 1.5}
	assert.NoError(t, c.Check())

	c.CropFactor = 0
	assert.ErrorIs(t, c.Check(), ErrInvalid)
}

func TestMountCheck(t *testing.T) {
	m := Mount{Name: "Pentax KAF2"}
	m.AddCompat("Pentax K")
	m.AddCompat("Pentax KAF")
	m.AddCompat("Pentax K") // duplicate
	assert.NoError(t, m.Check())
	assert.Len(t, m.Compat, 2)

	bad := Mount{}
	assert.ErrorIs(t, bad.Check(), ErrInvalid)
}
