package crt

// Tuning defaults applied by Init and Reset.
const (
	defaultSaturation = 18
	defaultBrightness = 0
	defaultContrast   = 179
	defaultBlackPoint = 0
	defaultWhitePoint = 100

	lcgSeed = 194
)

// Encoder bandlimit frequencies, Hz, against the nominal line rate.
const (
	lFreq = 1_431_818
	yFreq = 420_000
	iFreq = 150_000
	qFreq = 55_000
)

// decoderRate is the native sample rate, in Hz, implied by packing
// avLen samples into avNS nanoseconds of active video. The decoder's
// three equalizers are specified in kHz against this rate.
var decoderRate int32

func init() {
	decoderRate = int32(int64(avLen) * 1_000_000_000 / avNS)
}

func kHz2L(kHz int32) int32 { return kHz * 1000 }

// CRT is an opaque virtual-receiver handle: output geometry and sink,
// tuning parameters, the decoder's persistent sync trackers, the
// generated/noisy signal buffers, and the filter state, all owned per
// instance rather than as package-level singletons so multiple CRTs
// can run concurrently without sharing state.
type CRT struct {
	outW, outH int
	out        *Raster

	Saturation int32
	Brightness int32
	Contrast   int32
	BlackPoint int32
	WhitePoint int32

	hsync int
	vsync int

	analog SignalBuffer
	inp    SignalBuffer

	ccref [4]int32
	prevE int32
	rn    uint32

	iirY, iirI, iirQ lowpass
	eqY, eqI, eqQ    equalizer
}

// Init zeroes state, assigns tuning defaults, and builds the encoder
// IIRs and decoder equalizers. out must point to a buffer of at least
// outw*outh packed-RGB pixels.
func (c *CRT) Init(outw, outh int, out *Raster) {
	if len(out.Pix) < outw*outh {
		panic("crt: output buffer smaller than outw*outh")
	}
	*c = CRT{}
	c.outW, c.outH = outw, outh
	c.out = out
	c.applyDefaults()
	c.buildFilters()
	c.rn = lcgSeed
}

// Resize rebinds geometry and the output sink without touching
// filters or sync state.
func (c *CRT) Resize(outw, outh int, out *Raster) {
	if len(out.Pix) < outw*outh {
		panic("crt: output buffer smaller than outw*outh")
	}
	c.outW, c.outH = outw, outh
	c.out = out
}

// Reset restores tuning-parameter defaults and zeroes the sync
// trackers. Filters are left untouched.
func (c *CRT) Reset() {
	c.applyDefaults()
	c.hsync = 0
	c.vsync = 0
}

func (c *CRT) applyDefaults() {
	c.Saturation = defaultSaturation
	c.Brightness = defaultBrightness
	c.Contrast = defaultContrast
	c.BlackPoint = defaultBlackPoint
	c.WhitePoint = defaultWhitePoint
}

func (c *CRT) buildFilters() {
	c.iirY = newLowpass(lFreq, yFreq)
	c.iirI = newLowpass(lFreq, iFreq)
	c.iirQ = newLowpass(lFreq, qFreq)

	c.eqY = newEqualizer(kHz2L(1500), kHz2L(3000), decoderRate, [3]int32{65536, 8192, 9175})
	c.eqI = newEqualizer(kHz2L(80), kHz2L(1150), decoderRate, [3]int32{65536, 65536, 1311})
	c.eqQ = newEqualizer(kHz2L(80), kHz2L(1000), decoderRate, [3]int32{65536, 65536, 0})
}

// HSync returns the decoder's current horizontal sync column, mostly
// of interest to tests and diagnostic tooling.
func (c *CRT) HSync() int { return c.hsync }

// VSync returns the decoder's current vertical sync line.
func (c *CRT) VSync() int { return c.vsync }

// AnalogAt returns one sample of the generated composite signal, IRE
// units, for callers that stream it out to real hardware (an SDR TX
// front end) rather than through Decode.
func (c *CRT) AnalogAt(line, col int) int32 {
	return c.analog.at(line, col)
}

// LoadLine overwrites one line of the analog signal buffer with
// caller-supplied composite samples, letting a live capture source
// (an SDR front end, a recorded IQ file) feed Decode directly instead
// of going through Encode.
func (c *CRT) LoadLine(line int, samples []int32) {
	n := len(samples)
	if n > HRES {
		n = HRES
	}
	for col := 0; col < n; col++ {
		c.analog.set(line, col, samples[col])
	}
}
