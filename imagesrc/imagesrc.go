// Package imagesrc loads a static PNG or JPEG file into a crt.Raster.
//
// No third-party decoder in the retrieved example pack handles
// general-purpose still images (ausocean-av's jpeg package is a
// bitstream lexer for its own video pipeline, not a drop-in
// image.Image decoder), so this package uses the standard library's
// image/png and image/jpeg, matching how hacktvlive itself leans on
// os/exec + image-shaped byte buffers rather than a third-party
// codec for anything outside its FFmpeg pipe.
package imagesrc

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"ntsccrt/crt"
)

// Load decodes path and scales it with nearest-neighbor sampling into
// a freshly allocated w x h crt.Raster.
func Load(path string, w, h int) (*crt.Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imagesrc: open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("imagesrc: decode %s: %w", path, err)
	}

	r := crt.NewRaster(w, h)
	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()

	for y := 0; y < h; y++ {
		sy := bounds.Min.Y + y*srcH/h
		for x := 0; x < w; x++ {
			sx := bounds.Min.X + x*srcW/w
			rr, gg, bb, _ := img.At(sx, sy).RGBA()
			v := (rr>>8)<<16 | (gg>>8)<<8 | (bb >> 8)
			r.Set(x, y, v)
		}
	}
	return r, nil
}
