package crt

// pctSamp converts a percent-of-line boundary to a sample offset.
func pctSamp(pct int) int {
	return pct * HRES / 100
}

// fillAlternating writes alternating SYNC_LEVEL/BLANK_LEVEL segments
// into analog line n, with segment boundaries given as percentages of
// the line and the first segment always SYNC_LEVEL.
func (c *CRT) fillAlternating(n int, bounds [4]int) {
	levels := [2]int32{IRESync, IREBlank}
	prev := 0
	for i, b := range bounds {
		end := pctSamp(b)
		lvl := levels[i%2]
		for s := prev; s < end; s++ {
			c.analog.set(n, s, lvl)
		}
		prev = end
	}
}

var (
	eqPulseBounds   = [4]int{4, 50, 54, 100}
	vsyncEvenBounds = [4]int{46, 50, 96, 100}
	vsyncOddBounds  = [4]int{4, 50, 96, 100}
)

func isEqPulseLine(n int) bool {
	return (n >= 0 && n <= 3) || (n >= 7 && n <= 9)
}

func isVsyncLine(n int) bool {
	return n >= 4 && n <= 6
}

// Encode writes the CRT's analog SignalBuffer from a source raster
// and field parity.
func (c *CRT) Encode(settings NTSCSettings) {
	src := settings.Source
	for n := 0; n < VRES; n++ {
		switch {
		case isEqPulseLine(n):
			c.fillAlternating(n, eqPulseBounds)
		case isVsyncLine(n):
			if settings.Field == 0 {
				c.fillAlternating(n, vsyncEvenBounds)
			} else {
				c.fillAlternating(n, vsyncOddBounds)
			}
		default:
			for s := 0; s < syncBeg; s++ {
				c.analog.set(n, s, IREBlank)
			}
			for s := syncBeg; s < bwBeg; s++ {
				c.analog.set(n, s, IRESync)
			}
			for s := bwBeg; s < HRES; s++ {
				c.analog.set(n, s, IREBlank)
			}
			if settings.AsColor {
				c.writeBurst(n)
			}
		}
	}

	c.encodeActiveVideo(src, settings.Field, settings.AsColor)
}

func (c *CRT) writeBurst(n int) {
	end := cbBeg + CBCycles*CBFreq
	for s := cbBeg; s < end; s++ {
		cc := ccCarrier[(s-cbBeg)&3]
		c.analog.set(n, s, IREBlank+cc*IREBurst)
	}
}

// rgbToYIQ converts one packed RGB pixel to Q15 Y, I, Q using the
// standard NTSC RGB-to-YIQ matrix scaled to Q15.
func rgbToYIQ(px uint32) (y, i, q int32) {
	r := int32((px >> 16) & 0xff)
	g := int32((px >> 8) & 0xff)
	b := int32(px & 0xff)
	y = (r*19595 + g*38470 + b*7471) >> 15
	i = (r*39059 - g*18022 - b*21103) >> 15
	q = (r*13894 - g*34275 + b*20382) >> 15
	return
}

func (c *CRT) encodeActiveVideo(src *Raster, field int, asColor bool) {
	srcW, srcH := src.W, src.H
	fieldOffset := (field*srcH + destH) / destH / 2

	for y := 0; y < destH; y++ {
		c.iirY.reset()
		c.iirI.reset()
		c.iirQ.reset()

		syA := clampInt(y*srcH/destH+fieldOffset, 0, srcH-1)
		syB := clampInt((y*srcH+destH/2)/destH+fieldOffset, 0, srcH-1)

		ph := int32(1)
		if (y+yOff)&1 != 0 {
			ph = -1
		}

		for x := 0; x < destW; x++ {
			sx := clampInt(x*srcW/destW, 0, srcW-1)

			yA, iA, qA := rgbToYIQ(src.at(sx, syA))
			yB, iB, qB := rgbToYIQ(src.at(sx, syB))

			fy := c.iirY.step(yA + yB)
			fi := c.iirI.step(iA + iB)
			fq := c.iirQ.step(qA + qB)

			if !asColor {
				fi, fq = 0, 0
			}

			chroma := int64(fi)*int64(ph)*int64(ccCarrier[x&3]) + int64(fq)*int64(ph)*int64(ccCarrier[(x+3)&3])
			ire := int64(IREBlack) + int64(c.BlackPoint) +
				((int64(fy)+chroma)*int64(IREWhite)*int64(c.WhitePoint)/100)>>10

			ireClamped := clampInt(int(ire), 0, 110)
			c.analog.set(y+yOff, x+xOff, int32(ireClamped))
		}
	}
}
