// Command rectify corrects lens defects in a photograph using a YAML
// lens description: vignetting on the raw pixels, then a bilinear
// resample over the fused geometry/TCA coordinate maps the engine
// produces. Shooting parameters come from the config or, failing
// that, from the image's EXIF data.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	_ "image/gif"

	"github.com/nfnt/resize"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/tiff"

	rectify "github.com/yyyoichi/lens_rectify"
)

func main() {
	var (
		configPath = flag.String("config", "lens.yaml", "lens + shooting description")
		inPath     = flag.String("in", "", "input image (jpeg, png, tiff)")
		outPath    = flag.String("out", "corrected.png", "output image")
		preview    = flag.Int("preview", 0, "downscale output to this width (0 = full size)")
		workers    = flag.Int("workers", runtime.NumCPU(), "resampling goroutines")
		reverse    = flag.Bool("reverse", false, "simulate the lens defects instead of correcting")
	)
	flag.Parse()
	if *inPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	l, err := cfg.BuildLens()
	if err != nil {
		log.Fatal(err)
	}

	src, err := loadImage(*inPath)
	if err != nil {
		log.Fatal(err)
	}
	w := src.Bounds().Dx()
	h := src.Bounds().Dy()

	focal, aperture, distance := cfg.Shooting.Focal, cfg.Shooting.Aperture, cfg.Shooting.Distance
	if focal == 0 || aperture == 0 {
		ef, ea, err := shootingFromEXIF(*inPath)
		if err != nil {
			log.Fatalf("shooting parameters neither configured nor in EXIF: %v", err)
		}
		if focal == 0 {
			focal = ef
		}
		if aperture == 0 {
			aperture = ea
		}
		log.Printf("EXIF: %.1fmm f/%.1f", focal, aperture)
	}

	m, err := rectify.New(l, cfg.Camera.CropFactor, w, h)
	if err != nil {
		log.Fatal(err)
	}
	opts := []rectify.Option{rectify.WithScale(cfg.Scale)}
	if cfg.Target != "" {
		t, ok := lensTypes[cfg.Target]
		if !ok {
			log.Fatalf("unknown target projection %q", cfg.Target)
		}
		opts = append(opts, rectify.WithTargetProjection(t))
	}
	if *reverse {
		opts = append(opts, rectify.WithReverse())
	}
	applied := m.Initialize(focal, aperture, distance, rectify.U8, rectify.All, opts...)
	log.Printf("corrections in effect: %s", describe(applied))
	if applied == 0 {
		log.Fatal("lens description carries no usable calibration")
	}

	// Stage 1: vignetting, in place on the interleaved RGBA pixels.
	rgba := toRGBA(src)
	m.ApplyColor(rgba.Pix, 0, 0, w, h, rectify.RolesRGBA, rgba.Stride)

	// Stages 2+3, fused: per-channel source coordinates, resampled
	// bilinearly tile by tile.
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	var wg sync.WaitGroup
	rows := (h + *workers - 1) / *workers
	for y0 := 0; y0 < h; y0 += rows {
		n := min(rows, h-y0)
		wg.Add(1)
		go func(y0, n int) {
			defer wg.Done()
			coords := make([]float64, 6*w*n)
			if m.ApplySubpixelGeometry(0, float64(y0), w, n, coords) {
				resampleRows(rgba, out, y0, n, coords)
				return
			}
			// Geometry untouched: copy the vignetting-corrected rows.
			for y := y0; y < y0+n; y++ {
				copy(out.Pix[y*out.Stride:y*out.Stride+4*w], rgba.Pix[y*rgba.Stride:y*rgba.Stride+4*w])
			}
		}(y0, n)
	}
	wg.Wait()

	var final image.Image = out
	if *preview > 0 && *preview < w {
		final = resize.Resize(uint(*preview), 0, out, resize.Lanczos3)
	}
	if err := saveImage(*outPath, final); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s", *outPath)
}

func describe(f rectify.Flags) string {
	var parts []string
	for _, e := range []struct {
		flag rectify.Flags
		name string
	}{
		{rectify.TCA, "tca"},
		{rectify.Vignetting, "vignetting"},
		{rectify.Distortion, "distortion"},
		{rectify.Geometry, "geometry"},
		{rectify.Scale, "scale"},
	} {
		if f&e.flag != 0 {
			parts = append(parts, e.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", path, err)
	}
	return img, nil
}

func toRGBA(src image.Image) *image.RGBA {
	if rgba, ok := src.(*image.RGBA); ok {
		return rgba
	}
	b := src.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := range b.Dy() {
		for x := range b.Dx() {
			rgba.Set(x, y, src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return rgba
}

func shootingFromEXIF(path string) (focal, aperture float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()
	x, err := exif.Decode(f)
	if err != nil {
		return 0, 0, err
	}
	if tag, err := x.Get(exif.FocalLength); err == nil {
		if num, den, err := tag.Rat2(0); err == nil && den != 0 {
			focal = float64(num) / float64(den)
		}
	}
	if tag, err := x.Get(exif.FNumber); err == nil {
		if num, den, err := tag.Rat2(0); err == nil && den != 0 {
			aperture = float64(num) / float64(den)
		}
	}
	if focal == 0 {
		return 0, 0, fmt.Errorf("no focal length in EXIF of %q", path)
	}
	return focal, aperture, nil
}

func saveImage(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return jpeg.Encode(f, img, &jpeg.Options{Quality: 95})
	default:
		return png.Encode(f, img)
	}
}
