// Package testpattern fills a crt.Raster with synthetic pictures for
// exercising the encoder without a capture device.
package testpattern

import "ntsccrt/crt"

var barColors = [7][3]uint8{
	{192, 192, 192}, // gray
	{192, 192, 0},   // yellow
	{0, 192, 192},   // cyan
	{0, 192, 0},     // green
	{192, 0, 192},   // magenta
	{192, 0, 0},     // red
	{0, 0, 192},     // blue
}

// Bars fills r with a 7-stripe SMPTE-style color bar pattern.
func Bars(r *crt.Raster) {
	barWidth := r.W / 7
	if barWidth == 0 {
		barWidth = 1
	}
	for y := 0; y < r.H; y++ {
		for x := 0; x < r.W; x++ {
			barIdx := x / barWidth
			if barIdx >= 7 {
				barIdx = 6
			}
			c := barColors[barIdx]
			r.Set(x, y, pack(c[0], c[1], c[2]))
		}
	}
}

// Solid fills r with a single flat color.
func Solid(r *crt.Raster, rr, gg, bb uint8) {
	v := pack(rr, gg, bb)
	for y := 0; y < r.H; y++ {
		for x := 0; x < r.W; x++ {
			r.Set(x, y, v)
		}
	}
}

// GrayRamp fills r with a horizontal luminance ramp from black to
// white, useful for checking the encoder/decoder round trip is
// monotonic and free of banding artifacts.
func GrayRamp(r *crt.Raster) {
	for y := 0; y < r.H; y++ {
		for x := 0; x < r.W; x++ {
			level := uint8(x * 255 / maxInt(r.W-1, 1))
			r.Set(x, y, pack(level, level, level))
		}
	}
}

func pack(r, g, b uint8) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
