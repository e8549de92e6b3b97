package lens

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zoomLens() *Lens {
	l := &Lens{
		Maker: "Sigma", Model: "17-70mm F2.8-4 DC",
		MinFocal: 17, MaxFocal: 70,
		Mounts: []string{"Sigma SA"}, CropFactor: 1.5, AspectRatio: 1.5,
		Type: TypeRectilinear,
	}
	l.AddCalibDistortion(CalibDistortion{Model: DistortionPTLens, Focal: 17, Terms: [5]float64{0.011, -0.032, 0.003}})
	l.AddCalibDistortion(CalibDistortion{Model: DistortionPTLens, Focal: 24, Terms: [5]float64{0.006, -0.015, 0.001}})
	l.AddCalibDistortion(CalibDistortion{Model: DistortionPTLens, Focal: 35, Terms: [5]float64{0.003, -0.006, 0.0005}})
	l.AddCalibDistortion(CalibDistortion{Model: DistortionPTLens, Focal: 70, Terms: [5]float64{0.001, 0.002, -0.0007}})
	return l
}

func TestInterpolateDistortion(t *testing.T) {
	l := zoomLens()

	t.Run("exact focal returns the sample verbatim", func(t *testing.T) {
		got, ok := l.InterpolateDistortion(24)
		require.True(t, ok)
		assert.Equal(t, l.CalibDistortion[1], got)
	})

	t.Run("interpolated record carries the query focal", func(t *testing.T) {
		got, ok := l.InterpolateDistortion(28)
		require.True(t, ok)
		assert.Equal(t, DistortionPTLens, got.Model)
		assert.Equal(t, 28.0, got.Focal)
		// Between the bracketing samples the coefficient stays between
		// the (rescaled) neighbors' envelope.
		assert.Less(t, got.Terms[0], 0.0061)
		assert.Greater(t, got.Terms[0], 0.0029)
	})

	t.Run("outside the sampled range returns the nearest sample", func(t *testing.T) {
		got, ok := l.InterpolateDistortion(12)
		require.True(t, ok)
		assert.Equal(t, l.CalibDistortion[0], got)

		got, ok = l.InterpolateDistortion(200)
		require.True(t, ok)
		assert.Equal(t, l.CalibDistortion[3], got)
	})

	t.Run("no calibration", func(t *testing.T) {
		var empty Lens
		_, ok := empty.InterpolateDistortion(50)
		assert.False(t, ok)
	})

	t.Run("none entries are skipped", func(t *testing.T) {
		var l Lens
		l.AddCalibDistortion(CalibDistortion{Model: DistortionNone, Focal: 20})
		_, ok := l.InterpolateDistortion(20)
		assert.False(t, ok)
	})

	t.Run("mixed models keep the first kind only", func(t *testing.T) {
		var l Lens
		l.AddCalibDistortion(CalibDistortion{Model: DistortionPoly3, Focal: 20, Terms: [5]float64{0.01}})
		l.AddCalibDistortion(CalibDistortion{Model: DistortionPoly5, Focal: 30, Terms: [5]float64{0.5, 0.5}})
		l.AddCalibDistortion(CalibDistortion{Model: DistortionPoly3, Focal: 40, Terms: [5]float64{0.02}})

		got, ok := l.InterpolateDistortion(30)
		require.True(t, ok)
		assert.Equal(t, DistortionPoly3, got.Model)
		assert.InDelta(t, 0.015, got.Terms[0], 0.005)
	})

	t.Run("real focal interpolates alongside", func(t *testing.T) {
		got, ok := l.InterpolateDistortion(28)
		require.True(t, ok)
		lo := l.CalibDistortion[1].RealFocal
		hi := l.CalibDistortion[2].RealFocal
		assert.Greater(t, got.RealFocal, lo)
		assert.Less(t, got.RealFocal, hi)
	})
}

func TestInterpolateTCA(t *testing.T) {
	var l Lens
	l.AddCalibTCA(CalibTCA{Model: TCALinear, Focal: 20, Terms: [12]float64{1.0004, 0.9996}})
	l.AddCalibTCA(CalibTCA{Model: TCALinear, Focal: 50, Terms: [12]float64{1.0001, 0.9999}})

	t.Run("two-sample interpolation", func(t *testing.T) {
		got, ok := l.InterpolateTCA(35)
		require.True(t, ok)
		assert.Equal(t, TCALinear, got.Model)
		assert.Equal(t, 35.0, got.Focal)
		assert.Greater(t, got.Terms[0], 1.0)
		assert.Less(t, got.Terms[0], 1.0004)
		assert.Less(t, got.Terms[1], 1.0)
		assert.Greater(t, got.Terms[1], 0.9996)
	})

	t.Run("exact focal", func(t *testing.T) {
		got, ok := l.InterpolateTCA(50)
		require.True(t, ok)
		assert.Equal(t, l.CalibTCA[1], got)
	})
}

func TestInterpolateVignetting(t *testing.T) {
	l := &Lens{MinFocal: 17, MaxFocal: 70}
	l.AddCalibVignetting(CalibVignetting{Model: VignettingPA, Focal: 17, Aperture: 2.8, Distance: 10, Terms: [3]float64{-0.8, 0.2, -0.05}})
	l.AddCalibVignetting(CalibVignetting{Model: VignettingPA, Focal: 17, Aperture: 5.6, Distance: 10, Terms: [3]float64{-0.3, 0.1, -0.02}})
	l.AddCalibVignetting(CalibVignetting{Model: VignettingPA, Focal: 35, Aperture: 2.8, Distance: 10, Terms: [3]float64{-0.5, 0.15, -0.03}})

	t.Run("near-exact sample short-circuits", func(t *testing.T) {
		got, ok := l.InterpolateVignetting(17, 2.8, 10)
		require.True(t, ok)
		assert.Equal(t, l.CalibVignetting[0], got)
	})

	t.Run("weighted blend lands between neighbors", func(t *testing.T) {
		got, ok := l.InterpolateVignetting(17, 4, 10)
		require.True(t, ok)
		assert.Equal(t, VignettingPA, got.Model)
		assert.Greater(t, got.Terms[0], -0.8)
		assert.Less(t, got.Terms[0], -0.3)
	})

	t.Run("distant query is rejected", func(t *testing.T) {
		// f/32 at a very different focal: all samples farther than 1.
		_, ok := l.InterpolateVignetting(70, 32, 0.1)
		assert.False(t, ok)
	})

	t.Run("no samples", func(t *testing.T) {
		var empty Lens
		_, ok := empty.InterpolateVignetting(35, 4, 10)
		assert.False(t, ok)
	})
}

func TestInterpolateCrop(t *testing.T) {
	var l Lens
	l.AddCalibCrop(CalibCrop{Mode: CropCircle, Focal: 8, Crop: [4]float64{-0.1, 1.1, -0.2, 1.2}})
	l.AddCalibCrop(CalibCrop{Mode: CropCircle, Focal: 15, Crop: [4]float64{0, 1, 0, 1}})

	got, ok := l.InterpolateCrop(11.5)
	require.True(t, ok)
	assert.Equal(t, CropCircle, got.Mode)
	for i := range got.Crop {
		lo := math.Min(l.CalibCrop[0].Crop[i], l.CalibCrop[1].Crop[i])
		hi := math.Max(l.CalibCrop[0].Crop[i], l.CalibCrop[1].Crop[i])
		assert.GreaterOrEqual(t, got.Crop[i], lo)
		assert.LessOrEqual(t, got.Crop[i], hi)
	}
}

func TestRealFocalLength(t *testing.T) {
	t.Run("from distortion calibration", func(t *testing.T) {
		l := zoomLens()
		rf := l.RealFocalLength(17)
		assert.InDelta(t, 17*(1-0.011+0.032-0.003), rf, 1e-9)
	})

	t.Run("fov fallback through the projection", func(t *testing.T) {
		l := &Lens{
			Model: "Peleng 8mm", Mounts: []string{"M42"},
			CropFactor: 1.0, AspectRatio: 1.5, Type: TypeFisheyeEquisolid,
		}
		l.AddCalibFov(CalibFov{Focal: 8, FieldOfView: 180})
		rf := l.RealFocalLength(8)
		// r = 2 f sin(theta/2); at 90 degrees half-angle the half
		// long side maps to 2 f sin(45).
		expect := HalfLongSideMM(1.0, 1.5) / (2 * math.Sin(math.Pi/4))
		assert.InDelta(t, expect, rf, 1e-9)
	})

	t.Run("nominal fallback", func(t *testing.T) {
		var l Lens
		assert.Equal(t, 50.0, l.RealFocalLength(50))
	})
}

func TestHalfLongSideMM(t *testing.T) {
	// Full-frame 3:2: long side 36mm.
	assert.InDelta(t, 18, HalfLongSideMM(1.0, 1.5), 0.01)
	// APS-C 1.5x: 24mm long side.
	assert.InDelta(t, 12, HalfLongSideMM(1.5, 1.5), 0.01)
}
