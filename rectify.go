// Package rectify builds and applies the transforms that correct (or
// simulate) photographic lens defects: vignetting, transversal
// chromatic aberration, geometric distortion, projection conversion,
// perspective and scaling.
//
// A Modifier is a single-shot transform plan: construct it from a
// calibrated lens description, initialize it once with the shooting
// parameters and the wanted corrections, then drive the apply passes
// over pixel blocks from as many goroutines as you like. The engine
// only produces gains and coordinate maps; resampling the pixels over
// those maps is the caller's business.
package rectify

import (
	"fmt"
	"math"
	"sort"

	"github.com/klauspost/cpuid/v2"
	"github.com/yyyoichi/lens_rectify/lens"
)

// Inside the pipeline all coordinates are normalized: origin at the
// optical center, unit = half the longest image side of the sensor the
// lens was calibrated on. Color callbacks accumulate per-pixel gains
// from squared radii; coordinate and subpixel callbacks rewrite
// interleaved (x, y) batches in place, in ascending priority order.
type (
	colorCallback struct {
		priority int
		fn       func(r2, gains []float64)
	}
	coordCallback struct {
		priority int
		fn       func(pts []float64)
	}
	subpixCallback struct {
		priority int
		fn       func(pts []float64, ch int)
	}
)

// Channel indices for the subpixel stack.
const (
	chRed = iota
	chGreen
	chBlue
)

// Stock callback priorities. Correcting inverts the optical chain, so
// a correction and its simulation sit mirrored around 500.
const (
	prioScale       = 100
	prioEarly       = 250
	prioGeometry    = 500
	prioPerspective = 500
	prioTCA         = 500
	prioLate        = 750
)

// Modifier is an initialized transform plan. It is immutable after
// Initialize (plus EnablePerspectiveCorrection) and safe for
// concurrent apply calls.
type Modifier struct {
	lens   lens.Lens
	width  float64
	height float64

	// optical center in pixel coordinates
	cx, cy float64
	// pixel -> normalized factor and its inverse
	normScale   float64
	normUnscale float64
	// source frame bounds in normalized coordinates
	xMin, xMax, yMin, yMax float64

	focal     float64 // nominal, mm
	normFocal float64 // nominal, normalized units

	format  PixelFormat
	reverse bool
	wide    bool

	scale float64 // 0 = auto

	targetProjection lens.LensType
	hasTarget        bool

	colorCBs  []colorCallback
	coordCBs  []coordCallback
	subpixCBs []subpixCallback

	initialized bool
}

// New builds a Modifier for an image of width x height pixels shot on
// a sensor with the given crop factor. The lens is validated and
// copied; it only has to outlive this call.
func New(l *lens.Lens, cropFactor float64, width, height int) (*Modifier, error) {
	if err := l.Check(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w image size %dx%d", lens.ErrInvalid, width, height)
	}
	if cropFactor <= 0 {
		return nil, fmt.Errorf("%w crop factor %g", lens.ErrInvalid, cropFactor)
	}

	m := &Modifier{
		lens:   cloneLens(l),
		width:  float64(width),
		height: float64(height),
		wide:   cpuid.CPU.Supports(cpuid.AVX2),
	}

	long := math.Max(m.width, m.height)
	short := math.Min(m.width, m.height)
	imageAspect := long / short

	m.cx = m.width/2 + l.CenterX*long
	m.cy = m.height/2 + l.CenterY*long

	// Pixels to calibration-normalized units: scale through physical
	// sensor size so records calibrated on another sensor keep their
	// meaning on this one.
	sensorRatio := lens.HalfLongSideMM(cropFactor, imageAspect) /
		lens.HalfLongSideMM(l.CropFactor, l.AspectRatio)
	m.normScale = 2 / long * sensorRatio
	m.normUnscale = 1 / m.normScale

	m.xMin = (0 - m.cx) * m.normScale
	m.xMax = (m.width - m.cx) * m.normScale
	m.yMin = (0 - m.cy) * m.normScale
	m.yMax = (m.height - m.cy) * m.normScale
	return m, nil
}

func cloneLens(l *lens.Lens) lens.Lens {
	c := *l
	c.Mounts = append([]string(nil), l.Mounts...)
	c.CalibDistortion = append([]lens.CalibDistortion(nil), l.CalibDistortion...)
	c.CalibTCA = append([]lens.CalibTCA(nil), l.CalibTCA...)
	c.CalibVignetting = append([]lens.CalibVignetting(nil), l.CalibVignetting...)
	c.CalibCrop = append([]lens.CalibCrop(nil), l.CalibCrop...)
	c.CalibFov = append([]lens.CalibFov(nil), l.CalibFov...)
	return c
}

func (m *Modifier) addColor(priority int, fn func(r2, gains []float64)) {
	m.colorCBs = append(m.colorCBs, colorCallback{priority, fn})
	sort.SliceStable(m.colorCBs, func(i, j int) bool {
		return m.colorCBs[i].priority < m.colorCBs[j].priority
	})
}

func (m *Modifier) addCoord(priority int, fn func(pts []float64)) {
	m.coordCBs = append(m.coordCBs, coordCallback{priority, fn})
	sort.SliceStable(m.coordCBs, func(i, j int) bool {
		return m.coordCBs[i].priority < m.coordCBs[j].priority
	})
}

func (m *Modifier) addSubpix(priority int, fn func(pts []float64, ch int)) {
	m.subpixCBs = append(m.subpixCBs, subpixCallback{priority, fn})
	sort.SliceStable(m.subpixCBs, func(i, j int) bool {
		return m.subpixCBs[i].priority < m.subpixCBs[j].priority
	})
}

// toNormX / toNormY convert pixel to normalized coordinates.
func (m *Modifier) toNormX(px float64) float64 { return (px - m.cx) * m.normScale }
func (m *Modifier) toNormY(py float64) float64 { return (py - m.cy) * m.normScale }

// fromNorm converts back to pixel coordinates.
func (m *Modifier) fromNormX(x float64) float64 { return x*m.normUnscale + m.cx }
func (m *Modifier) fromNormY(y float64) float64 { return y*m.normUnscale + m.cy }

// insideSource reports whether a normalized point lands on the frame.
func (m *Modifier) insideSource(x, y float64) bool {
	return x >= m.xMin && x <= m.xMax && y >= m.yMin && y <= m.yMax
}

// runCoord drives the coordinate stack over interleaved pairs.
func (m *Modifier) runCoord(pts []float64) {
	for i := range m.coordCBs {
		m.coordCBs[i].fn(pts)
	}
}

// runSubpix drives the subpixel stack for one channel.
func (m *Modifier) runSubpix(pts []float64, ch int) {
	for i := range m.subpixCBs {
		m.subpixCBs[i].fn(pts, ch)
	}
}
