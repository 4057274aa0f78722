package crt

// q12Shift is the fractional-bit width of the horizontal resampler's
// Q12 position accumulator.
const q12Shift = 12

// burstRefAmp normalizes the recovered color-burst amplitude (IREBurst
// units) back to a unit-gain carrier before it's used as a synchronous
// demodulation reference.
const burstRefAmp = IREBurst

// Sync-search thresholds, in units of IRESync: a cumulative sum of raw
// samples is accumulated sample by sample until it drops at or below
// the threshold, which happens quickly once the scan crosses a sync
// tip (each sample there contributes a full IRESync) and never happens
// over blanking or active video (those samples are at or above zero).
const (
	vsyncThreshold = 100 * IRESync
	hsyncThreshold = 4 * IRESync
)

// DecodeSettings is the per-decode-call input: how much signal noise
// to inject before sync search and demodulation.
type DecodeSettings struct {
	Noise int32 // 0..255
}

// Decode reconstructs the CRT's output raster from its encoded analog
// signal: noise injection, vertical/horizontal sync search, color
// burst recovery, synchronous demodulation with bloom and horizontal
// resampling, YIQ-to-RGB conversion, and a 50/50 blend against the
// previous output frame.
func (c *CRT) Decode(settings DecodeSettings) {
	c.injectNoise(settings.Noise)
	c.findVSync()
	c.recoverBurst()
	c.demodulateToOutput()
}

func (c *CRT) injectNoise(amount int32) {
	for n := 0; n < VRES; n++ {
		for s := 0; s < HRES; s++ {
			c.rn = c.rn*214019 + 140327895
			rnd := int32((c.rn >> 16) & 0xff)
			v := c.analog.at(n, s) + amount*(rnd-0x7f)/256
			c.inp.set(n, s, int32(clampInt(int(v), -127, 127)))
		}
	}
}

// findVSync searches within VSyncWindow lines of the last known
// vertical sync line for the first one whose running sample sum, taken
// from the start of the line, drops to or below vsyncThreshold. Only a
// broad vsync serration pulse (roughly 90% sync tip) crosses that
// threshold within a single line; equalizing pulses and active video
// never do.
func (c *CRT) findVSync() {
	lo := clampInt(c.vsync-VSyncWindow, 0, VRES-1)
	hi := clampInt(c.vsync+VSyncWindow, 0, VRES-1)

	for n := lo; n <= hi; n++ {
		var sum int32
		for s := 0; s < HRES; s++ {
			sum += c.inp.at(n, s)
			if sum <= vsyncThreshold {
				c.vsync = n
				return
			}
		}
	}
}

// findHSync refines the decoder's horizontal sync column by scanning
// the HSyncWindow samples on either side of it, accumulating a running
// sample sum until it drops to or below hsyncThreshold, then shifts
// hsync by the offset at which that happened (mod HRES) rather than
// replacing it outright: a real receiver's horizontal lock drifts
// toward the true sync edge a little each line instead of re-acquiring
// it from scratch. If the threshold is never reached, hsync moves by
// HSyncWindow.
func (c *CRT) findHSync(line int) int {
	var sum int32
	i := -HSyncWindow
	for ; i < HSyncWindow; i++ {
		idx := ((c.hsync+i)%HRES + HRES) % HRES
		sum += c.inp.at(line, idx)
		if sum <= hsyncThreshold {
			break
		}
	}
	c.hsync = ((c.hsync+i)%HRES + HRES) % HRES
	return c.hsync
}

// recoverBurst averages the color-burst region of every visible line
// into a 4-phase DC reference, ccref, used in place of a free-running
// oscillator for synchronous chroma demodulation.
func (c *CRT) recoverBurst() {
	c.ccref = [4]int32{}
	var counts [4]int32

	for n := Top; n < Bot; n++ {
		hs := c.findHSync(n)
		start := hs + (cbBeg - syncBeg)
		for k := 0; k < CBCycles*CBFreq; k++ {
			idx := start + k
			if idx < 0 || idx >= HRES {
				continue
			}
			phase := k & 3
			c.ccref[phase] += c.inp.at(n, idx) - IREBlank
			counts[phase]++
		}
	}
	for i := range c.ccref {
		if counts[i] > 0 {
			c.ccref[i] /= counts[i]
		}
	}
}

// updateBloom folds this line's active-video energy into the decoder's
// frame-persistent brightness filter, prevE, and returns the active
// video width that filter implies for this line. prevE is carried
// across lines and frames rather than reset per call, so a sustained
// bright picture narrows the sampled window and a sustained dark one
// widens it back toward avLen, matching a real tube's bloom.
func (c *CRT) updateBloom(line, hs int) int {
	start := hs + (avBeg - syncBeg)
	var s int32
	for k := 0; k < avLen; k++ {
		idx := clampInt(start+k, 0, HRES-1)
		s += c.inp.at(line, idx)
	}
	maxE := int32(avLen) * IREWhite
	c.prevE = 123*c.prevE/128 + ((maxE/2-s)*1024)/maxE
	return avLen*112/128 + int(c.prevE/512)
}

// yiqToRGB applies the Q15 inverse YIQ matrix and clamps to 8-bit
// channels, packing the result 0x00RRGGBB.
func yiqToRGB(y, i, q int32) uint32 {
	r := y + ((i*31323 + q*20348) >> 15)
	g := y - ((i*8913 + q*21201) >> 15)
	b := y + ((-i*36244 + q*55800) >> 15)
	r = int32(clampInt(int(r), 0, 255))
	g = int32(clampInt(int(g), 0, 255))
	b = int32(clampInt(int(b), 0, 255))
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// blendPixel writes newPx and the output raster's existing pixel
// averaged channel-by-channel, masking each channel's low bit out
// before halving so the two halves never carry into each other.
func (c *CRT) blendPixel(x, y int, newPx uint32) {
	old := c.out.at(x, y)
	blended := ((newPx & 0xfefeff) >> 1) + ((old & 0xfefeff) >> 1)
	c.out.set(x, y, blended)
}

func (c *CRT) demodulateToOutput() {
	for oy := 0; oy < c.outH; oy++ {
		line := clampInt(Top+c.vsync+oy*Lines/c.outH, Top, Bot-1)
		c.findHSync(line)

		width := c.updateBloom(line, c.hsync)
		if width < 1 {
			width = 1
		}
		colBase := c.hsync + (avBeg - syncBeg)

		// phasealign ties the demodulation reference to the recovered
		// sync position, so the chroma carrier it reconstructs stays
		// locked to the same phase the encoder wrote it at even as
		// hsync/vsync drift line to line.
		phasealign := (avBeg+c.hsync)%HRES + ((line+c.vsync)%VRES)*HRES
		dci := c.ccref[(phasealign+1)&3] - c.ccref[(phasealign+3)&3]
		dcq := c.ccref[(phasealign+2)&3] - c.ccref[(phasealign+0)&3]
		wave := [4]int32{
			-dcq * c.Saturation / 100,
			dci * c.Saturation / 100,
			dcq * c.Saturation / 100,
			-dci * c.Saturation / 100,
		}

		step := int32(width<<q12Shift) / int32(c.outW)
		var pos int32

		c.eqY.reset()
		c.eqI.reset()
		c.eqQ.reset()

		for ox := 0; ox < c.outW; ox++ {
			fx := colBase + int(pos>>q12Shift)
			frac := pos & (Q12One - 1)
			fx = clampInt(fx, 0, HRES-2)

			s0 := c.inp.at(line, fx)
			s1 := c.inp.at(line, fx+1)
			raw := s0 + ((s1-s0)*frac)>>q12Shift

			y := c.eqY.step(raw)
			chroma := raw - y

			idx := fx & 3
			iRaw := chroma * wave[idx] / burstRefAmp
			qRaw := chroma * wave[(idx+1)&3] / burstRefAmp
			i := c.eqI.step(iRaw)
			q := c.eqQ.step(qRaw)

			yAdj := (y-IREBlack)*c.Contrast/100 + c.Brightness

			c.blendPixel(ox, oy, yiqToRGB(yAdj, i, q))

			pos += step
		}
	}
}
