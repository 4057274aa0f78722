package crt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func solidSource(w, h int, rgb uint32) *Raster {
	r := NewRaster(w, h)
	for i := range r.Pix {
		r.Pix[i] = rgb
	}
	return r
}

func newTestCRT() *CRT {
	var c CRT
	c.Init(64, 64, NewRaster(64, 64))
	return &c
}

func TestEncodeEqPulseLinesStartWithSync(t *testing.T) {
	c := newTestCRT()
	c.Encode(NTSCSettings{Source: solidSource(8, 8, 0), Field: 0, AsColor: false})
	for _, n := range []int{0, 1, 2, 3, 7, 8, 9} {
		assert.Equal(t, int32(IRESync), c.analog.at(n, 0))
	}
}

func TestEncodeVsyncLineDependsOnField(t *testing.T) {
	c := newTestCRT()
	c.Encode(NTSCSettings{Source: solidSource(8, 8, 0), Field: 0, AsColor: false})
	// Both fields open with a sync segment; they differ between the 4%
	// and 46% boundaries, where the even field is still in sync.
	probe := pctSamp(25)
	evenSample := c.analog.at(4, probe)

	c.Encode(NTSCSettings{Source: solidSource(8, 8, 0), Field: 1, AsColor: false})
	oddSample := c.analog.at(4, probe)

	assert.NotEqual(t, evenSample, oddSample)
}

func TestEncodeNormalLineHasFrontPorchThenSync(t *testing.T) {
	c := newTestCRT()
	c.Encode(NTSCSettings{Source: solidSource(8, 8, 0), Field: 0, AsColor: false})
	n := 15 // outside both the eq-pulse and vsync ranges
	assert.Equal(t, int32(IREBlank), c.analog.at(n, 0))
	assert.Equal(t, int32(IRESync), c.analog.at(n, syncBeg))
}

func TestEncodeBurstOnlyWhenAsColor(t *testing.T) {
	c := newTestCRT()
	c.Encode(NTSCSettings{Source: solidSource(8, 8, 0), Field: 0, AsColor: false})
	for s := cbBeg; s < cbBeg+CBCycles*CBFreq; s++ {
		assert.Equal(t, int32(IREBlank), c.analog.at(15, s))
	}

	c.Encode(NTSCSettings{Source: solidSource(8, 8, 0), Field: 0, AsColor: true})
	var sawNonBlank bool
	for s := cbBeg; s < cbBeg+CBCycles*CBFreq; s++ {
		if c.analog.at(15, s) != IREBlank {
			sawNonBlank = true
		}
	}
	assert.True(t, sawNonBlank)
}

func TestEncodeActiveVideoWhiteReachesNearWhiteLevel(t *testing.T) {
	c := newTestCRT()
	c.Encode(NTSCSettings{Source: solidSource(8, 8, 0xffffff), Field: 0, AsColor: false})
	v := c.analog.at(yOff+destH/2, xOff+destW/2)
	assert.InDelta(t, IREBlack+IREWhite, v, 5)
}

func TestEncodeActiveVideoBlackIsNearBlackLevel(t *testing.T) {
	c := newTestCRT()
	c.Encode(NTSCSettings{Source: solidSource(8, 8, 0x000000), Field: 0, AsColor: false})
	v := c.analog.at(yOff+destH/2, xOff+destW/2)
	assert.InDelta(t, IREBlack, v, 5)
}

func TestEncodeIsDeterministic(t *testing.T) {
	src := solidSource(16, 16, 0x8090a0)
	c1 := newTestCRT()
	c2 := newTestCRT()
	c1.Encode(NTSCSettings{Source: src, Field: 0, AsColor: true})
	c2.Encode(NTSCSettings{Source: src, Field: 0, AsColor: true})
	require.Equal(t, c1.analog, c2.analog)
}

func TestEncodeSignalStaysInDocumentedRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rgb := uint32(rapid.IntRange(0, 0xffffff).Draw(t, "rgb"))
		c := newTestCRT()
		c.Encode(NTSCSettings{Source: solidSource(8, 8, rgb), Field: 0, AsColor: true})
		for n := Top; n < Bot; n++ {
			for s := avBeg; s < HRES; s++ {
				v := c.analog.at(n, s)
				assert.GreaterOrEqual(t, v, int32(0))
				assert.LessOrEqual(t, v, int32(110))
			}
		}
	})
}
