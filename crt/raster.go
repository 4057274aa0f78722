package crt

// Raster is a row-major packed-RGB pixel buffer, 8 bits per channel,
// one uint32 per pixel laid out 0x00RRGGBB. It owns no storage beyond
// the slice it wraps — callers allocate Pix and keep owning it; the
// CRT writes into it but never reallocates it.
type Raster struct {
	W, H int
	Pix  []uint32
}

// NewRaster allocates a Raster with a fresh, zeroed backing slice.
func NewRaster(w, h int) *Raster {
	return &Raster{W: w, H: h, Pix: make([]uint32, w*h)}
}

func (r *Raster) at(x, y int) uint32 {
	return r.Pix[y*r.W+x]
}

func (r *Raster) set(x, y int, v uint32) {
	r.Pix[y*r.W+x] = v
}

// At returns the packed-RGB pixel at (x, y).
func (r *Raster) At(x, y int) uint32 { return r.at(x, y) }

// Set writes the packed-RGB pixel at (x, y).
func (r *Raster) Set(x, y int, v uint32) { r.set(x, y, v) }

// NTSCSettings is the per-encode-call input: a source raster, the
// field parity being encoded, and whether to modulate chroma at all.
type NTSCSettings struct {
	Source  *Raster
	Field   int // 0 or 1
	AsColor bool
}
