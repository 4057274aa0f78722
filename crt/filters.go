package crt

// piRateScale is pi * 512 * 2048, used to turn the (freq<<9)/limit
// "rate" ratio directly into a Q11 argument for expx without losing
// precision to integer truncation along the way.
const piRateScale = 3294199

// lowpass is a single-pole IIR low-pass filter: an accumulator h and
// a Q11 coefficient c derived from the usual first-order RC
// discretization. It has no package-level state — each CRT handle owns
// one instance per encoder channel (Y, I, Q), and the encoder resets
// all three at the start of every active-video row.
type lowpass struct {
	h int32
	c int32
}

// newLowpass builds a lowpass for the given total bandwidth (freq)
// and cutoff (limit), both in Hz.
func newLowpass(freq, limit int32) lowpass {
	rate := (freq << 9) / limit
	if rate == 0 {
		rate = 1
	}
	argQ11 := int32(-(piRateScale / int64(rate)))
	c := int32(ExpOne) - expx(argQ11)
	return lowpass{c: c}
}

func (l *lowpass) reset() { l.h = 0 }

func (l *lowpass) step(s int32) int32 {
	l.h += ((s - l.h) * l.c) >> 11
	return l.h
}

// equalizer is a three-band equalizer: two cascaded four-stage
// one-pole low-pass sections (fL at the lower cutoff, fH at the
// higher) plus a three-sample delay line that compensates the
// cascades' group delay so all three bands stay time aligned.
type equalizer struct {
	fL, fH [4]int32
	h      [3]int32
	lf, hf int32 // Q16 cascade coefficients
	g      [3]int32
}

// newEqualizer builds an equalizer with cutoffs lowCut/highCut (Hz)
// against sample rate (Hz, in line-sample units) and per-band Q16
// gains g[0..2] (low, mid, high).
func newEqualizer(lowCut, highCut, rate int32, g [3]int32) equalizer {
	return equalizer{
		lf: cascadeCoeff(lowCut, rate),
		hf: cascadeCoeff(highCut, rate),
		g:  g,
	}
}

// cascadeCoeff computes 2*sin(pi*cut/rate), expressed in Q16 by
// consulting sincos14 (Q15) and left-shifting two bits: one to
// realize the factor of two, one to widen Q15 to Q16.
func cascadeCoeff(cut, rate int32) int32 {
	if rate == 0 {
		rate = 1
	}
	angle := int32((int64(cut) * 8192 / int64(rate)) & 0x3fff)
	sin, _ := sincos14(angle)
	return sin << 2
}

func (e *equalizer) reset() {
	e.fL = [4]int32{}
	e.fH = [4]int32{}
	e.h = [3]int32{}
}

const eqRound = 1 << 15

func (e *equalizer) step(s int32) int32 {
	e.fL[0] += int32((int64(s-e.fL[0])*int64(e.lf) + eqRound) >> 16)
	for i := 1; i < 4; i++ {
		e.fL[i] += int32((int64(e.fL[i-1]-e.fL[i])*int64(e.lf) + eqRound) >> 16)
	}
	e.fH[0] += int32((int64(s-e.fH[0])*int64(e.hf) + eqRound) >> 16)
	for i := 1; i < 4; i++ {
		e.fH[i] += int32((int64(e.fH[i-1]-e.fH[i])*int64(e.hf) + eqRound) >> 16)
	}

	band0 := e.fL[3]
	band1 := e.fH[3] - e.fL[3]
	band2 := e.h[2] - e.fH[3]

	out := int32((int64(band0)*int64(e.g[0]) + int64(band1)*int64(e.g[1]) + int64(band2)*int64(e.g[2])) >> 16)

	e.h[2] = e.h[1]
	e.h[1] = e.h[0]
	e.h[0] = s
	return out
}
