package crt

// SignalBuffer is a fixed-geometry sampled composite waveform: VRES
// scan lines of HRES samples, row-major. Samples are stored as int32
// so the encoder's dual-pixel YIQ sum never needs an intermediate
// saturating cast; callers that read the buffer rely on the documented
// range invariants instead of the storage width.
type SignalBuffer struct {
	samples [VRES * HRES]int32
}

func (b *SignalBuffer) at(line, col int) int32 {
	return b.samples[line*HRES+col]
}

func (b *SignalBuffer) set(line, col int, v int32) {
	b.samples[line*HRES+col] = v
}

func (b *SignalBuffer) clear() {
	for i := range b.samples {
		b.samples[i] = 0
	}
}
