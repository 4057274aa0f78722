package testpattern

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ntsccrt/crt"
)

func TestBarsFillsEveryPixel(t *testing.T) {
	r := crt.NewRaster(70, 10)
	Bars(r)
	seen := map[uint32]bool{}
	for _, px := range r.Pix {
		seen[px] = true
	}
	assert.Len(t, seen, 7)
}

func TestSolidIsUniform(t *testing.T) {
	r := crt.NewRaster(20, 20)
	Solid(r, 10, 20, 30)
	want := uint32(10)<<16 | uint32(20)<<8 | 30
	for _, px := range r.Pix {
		assert.Equal(t, want, px)
	}
}

func TestGrayRampIsMonotonicAndRGBEqual(t *testing.T) {
	r := crt.NewRaster(256, 1)
	GrayRamp(r)
	var prev uint32
	for x := 0; x < r.W; x++ {
		px := r.At(x, 0)
		red := (px >> 16) & 0xff
		green := (px >> 8) & 0xff
		blue := px & 0xff
		assert.Equal(t, red, green)
		assert.Equal(t, green, blue)
		if x > 0 {
			assert.GreaterOrEqual(t, red, prev)
		}
		prev = red
	}
}
