package crt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func encodedGrayRamp(outW, outH int) *CRT {
	c := newTestCRT()
	c.Resize(outW, outH, NewRaster(outW, outH))
	src := NewRaster(64, 64)
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			level := uint32(x * 255 / 63)
			src.Set(x, y, level<<16|level<<8|level)
		}
	}
	c.Encode(NTSCSettings{Source: src, Field: 0, AsColor: true})
	return c
}

func TestDecodeInpStaysInSignalRange(t *testing.T) {
	c := encodedGrayRamp(64, 64)
	c.Decode(DecodeSettings{Noise: 255})
	for n := 0; n < VRES; n++ {
		for s := 0; s < HRES; s++ {
			v := c.inp.at(n, s)
			assert.GreaterOrEqual(t, v, int32(-127))
			assert.LessOrEqual(t, v, int32(127))
		}
	}
}

func TestDecodeVSyncStaysWithinSearchWindow(t *testing.T) {
	c := encodedGrayRamp(64, 64)
	c.Decode(DecodeSettings{Noise: 0})
	assert.GreaterOrEqual(t, c.VSync(), 0)
	assert.LessOrEqual(t, c.VSync(), VSyncWindow)
}

func TestDecodeHSyncStaysNearNominal(t *testing.T) {
	c := encodedGrayRamp(64, 64)
	c.Decode(DecodeSettings{Noise: 0})
	assert.GreaterOrEqual(t, c.HSync(), syncBeg-HSyncWindow)
	assert.LessOrEqual(t, c.HSync(), syncBeg+HSyncWindow)
}

func TestDecodeIsDeterministicWithoutNoise(t *testing.T) {
	c1 := encodedGrayRamp(32, 32)
	c2 := encodedGrayRamp(32, 32)
	c1.Decode(DecodeSettings{Noise: 0})
	c2.Decode(DecodeSettings{Noise: 0})
	assert.Equal(t, c1.out.Pix, c2.out.Pix)
}

func TestDecodeZeroNoiseZeroColorStaysGrayscale(t *testing.T) {
	c := newTestCRT()
	c.Resize(32, 32, NewRaster(32, 32))
	src := NewRaster(16, 16)
	for i := range src.Pix {
		src.Pix[i] = 0x7f7f7f
	}
	c.Encode(NTSCSettings{Source: src, Field: 0, AsColor: false})
	c.Decode(DecodeSettings{Noise: 0})

	for _, px := range c.out.Pix {
		r := (px >> 16) & 0xff
		g := (px >> 8) & 0xff
		b := px & 0xff
		assert.InDelta(t, r, g, 3)
		assert.InDelta(t, g, b, 3)
	}
}

func TestResetThenDecodeStillProducesInRangePixels(t *testing.T) {
	c := encodedGrayRamp(32, 32)
	c.Reset()
	c.Decode(DecodeSettings{Noise: 10})
	for _, px := range c.out.Pix {
		assert.LessOrEqual(t, px, uint32(0xffffff))
	}
}

func TestFieldParityAffectsDecodedOutput(t *testing.T) {
	src := NewRaster(64, 64)
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			v := uint32((x + y) % 2 * 255)
			src.Set(x, y, v<<16|v<<8|v)
		}
	}

	c1 := newTestCRT()
	c1.Resize(32, 32, NewRaster(32, 32))
	c1.Encode(NTSCSettings{Source: src, Field: 0, AsColor: true})
	c1.Decode(DecodeSettings{Noise: 0})
	frameEven := append([]uint32(nil), c1.out.Pix...)

	c2 := newTestCRT()
	c2.Resize(32, 32, NewRaster(32, 32))
	c2.Encode(NTSCSettings{Source: src, Field: 1, AsColor: true})
	c2.Decode(DecodeSettings{Noise: 0})
	frameOdd := c2.out.Pix

	assert.NotEqual(t, frameEven, frameOdd)
}
