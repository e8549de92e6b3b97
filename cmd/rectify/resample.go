package main

import "image"

// resampleRows fills n output rows starting at y0 by sampling src at
// the per-channel coordinates the engine produced: bilinear per color
// channel, alpha from the green position. Samples off the source frame
// come out black.
func resampleRows(src, dst *image.RGBA, y0, n int, coords []float64) {
	w := dst.Bounds().Dx()
	for y := range n {
		row := dst.Pix[(y0+y)*dst.Stride : (y0+y)*dst.Stride+4*w]
		for x := range w {
			c := coords[6*(y*w+x):]
			row[4*x+0] = bilinear(src, c[0], c[1], 0)
			row[4*x+1] = bilinear(src, c[2], c[3], 1)
			row[4*x+2] = bilinear(src, c[4], c[5], 2)
			row[4*x+3] = bilinear(src, c[2], c[3], 3)
		}
	}
}

// bilinear samples one component of src at a fractional position.
func bilinear(src *image.RGBA, x, y float64, comp int) uint8 {
	b := src.Bounds()
	x0 := int(x)
	y0 := int(y)
	if x < 0 || y < 0 || x0 >= b.Dx()-1 || y0 >= b.Dy()-1 {
		return 0
	}
	fx := x - float64(x0)
	fy := y - float64(y0)

	i00 := y0*src.Stride + 4*x0 + comp
	i10 := i00 + 4
	i01 := i00 + src.Stride
	i11 := i01 + 4

	top := float64(src.Pix[i00])*(1-fx) + float64(src.Pix[i10])*fx
	bot := float64(src.Pix[i01])*(1-fx) + float64(src.Pix[i11])*fx
	v := top*(1-fy) + bot*fy
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
