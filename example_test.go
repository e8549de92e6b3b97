package rectify_test

import (
	"fmt"

	rectify "github.com/yyyoichi/lens_rectify"
	"github.com/yyyoichi/lens_rectify/lens"
)

func Example_correctImage() {
	// A lens description normally comes from a calibration database;
	// here it is built by hand.
	l := &lens.Lens{
		Maker: "Pentax", Model: "smc Pentax-DA 18-55mm",
		MinFocal: 18, MaxFocal: 55,
		Mounts:     []string{"Pentax KAF"},
		CropFactor: 1.5, AspectRatio: 1.5,
		Type: lens.TypeRectilinear,
	}
	l.AddCalibDistortion(lens.CalibDistortion{
		Model: lens.DistortionPTLens, Focal: 18,
		Terms: [5]float64{0.011, -0.030, 0.003},
	})
	l.AddCalibVignetting(lens.CalibVignetting{
		Model: lens.VignettingPA, Focal: 18, Aperture: 4, Distance: 10,
		Terms: [3]float64{-0.4, 0.1, -0.02},
	})

	// One modifier per image; shot at 18mm f/4, focused at 10m.
	m, err := rectify.New(l, 1.5, 4928, 3264)
	if err != nil {
		panic(err)
	}
	applied := m.Initialize(18, 4, 10, rectify.U8, rectify.All)

	fmt.Println("vignetting:", applied&rectify.Vignetting != 0)
	fmt.Println("distortion:", applied&rectify.Distortion != 0)
	fmt.Println("tca:", applied&rectify.TCA != 0)

	// The color pass runs in place on the raw pixels; the geometry
	// pass yields the coordinates to resample from.
	row := []uint8{140, 150, 160, 255}
	m.ApplyColor(row, 0, 0, 1, 1, rectify.RolesRGBA, 0)

	coords := make([]float64, 2*16)
	m.ApplyGeometry(0, 0, 16, 1, coords)

	// Output:
	// vignetting: true
	// distortion: true
	// tca: false
}
