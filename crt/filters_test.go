package crt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestLowpassSettlesToStepInput(t *testing.T) {
	lp := newLowpass(lFreq, yFreq)
	var out int32
	for i := 0; i < 2000; i++ {
		out = lp.step(1000)
	}
	assert.InDelta(t, 1000, out, 2)
}

func TestLowpassResetClearsHistory(t *testing.T) {
	lp := newLowpass(lFreq, yFreq)
	for i := 0; i < 100; i++ {
		lp.step(500)
	}
	lp.reset()
	assert.Equal(t, int32(0), lp.h)
}

func TestLowpassCoefficientInRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		limit := int32(rapid.IntRange(1000, 2_000_000).Draw(t, "limit"))
		lp := newLowpass(lFreq, limit)
		assert.GreaterOrEqual(t, lp.c, int32(0))
		assert.LessOrEqual(t, lp.c, int32(ExpOne))
	})
}

func TestEqualizerResetClearsState(t *testing.T) {
	eq := newEqualizer(kHz2L(80), kHz2L(1000), decoderRate, [3]int32{65536, 65536, 0})
	for i := 0; i < 50; i++ {
		eq.step(int32(i))
	}
	eq.reset()
	assert.Equal(t, [4]int32{}, eq.fL)
	assert.Equal(t, [4]int32{}, eq.fH)
	assert.Equal(t, [3]int32{}, eq.h)
}

func TestEqualizerZeroInputStaysZero(t *testing.T) {
	eq := newEqualizer(kHz2L(1500), kHz2L(3000), decoderRate, [3]int32{65536, 8192, 9175})
	for i := 0; i < 20; i++ {
		assert.Equal(t, int32(0), eq.step(0))
	}
}
