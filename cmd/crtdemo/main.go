// Command crtdemo runs a test pattern or still image through the
// encode/decode pipeline entirely in memory, showing live progress in
// a terminal UI and writing the final reconstructed frame to a PNG.
package main

import (
	"image"
	"image/color"
	"image/png"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"ntsccrt/config"
	"ntsccrt/crt"
	"ntsccrt/imagesrc"
	"ntsccrt/testpattern"
	"ntsccrt/tui"
)

func main() {
	fs := pflag.NewFlagSet("crtdemo", pflag.ExitOnError)
	frames := fs.Int("frames", 8, "number of fields to encode and decode")
	out := fs.String("out", "crtdemo.png", "output PNG path for the final decoded frame")
	cfg, err := config.Load(fs, os.Args[1:])
	if err != nil {
		log.Fatalf("crtdemo: %v", err)
	}

	src, err := loadSource(cfg)
	if err != nil {
		log.Fatalf("crtdemo: %v", err)
	}

	dst := crt.NewRaster(cfg.OutWidth, cfg.OutHeight)
	var c crt.CRT
	c.Init(cfg.OutWidth, cfg.OutHeight, dst)
	c.Saturation = int32(cfg.Saturation)
	c.Brightness = int32(cfg.Brightness)
	c.Contrast = int32(cfg.Contrast)

	updates := make(chan tea.Msg)
	go runPipeline(&c, src, cfg, *frames, updates)

	p := tea.NewProgram(tui.NewModel(*frames, updates))
	if _, err := p.Run(); err != nil {
		log.Fatalf("crtdemo: tui: %v", err)
	}

	if err := writePNG(*out, dst); err != nil {
		log.Fatalf("crtdemo: %v", err)
	}
	log.Printf("wrote %s", *out)
}

func loadSource(cfg *config.Config) (*crt.Raster, error) {
	if cfg.ImagePath != "" {
		return imagesrc.Load(cfg.ImagePath, cfg.OutWidth, cfg.OutHeight)
	}
	src := crt.NewRaster(cfg.OutWidth, cfg.OutHeight)
	switch cfg.Pattern {
	case "solid":
		testpattern.Solid(src, 180, 180, 180)
	case "ramp":
		testpattern.GrayRamp(src)
	default:
		testpattern.Bars(src)
	}
	return src, nil
}

func runPipeline(c *crt.CRT, src *crt.Raster, cfg *config.Config, frames int, updates chan<- tea.Msg) {
	defer close(updates)
	for i := 0; i < frames; i++ {
		field := i % 2
		c.Encode(crt.NTSCSettings{Source: src, Field: field, AsColor: cfg.AsColor})
		c.Decode(crt.DecodeSettings{Noise: int32(cfg.Noise)})
		updates <- tui.FrameDoneMsg{Index: i, HSync: c.HSync(), VSync: c.VSync()}
	}
}

func writePNG(path string, r *crt.Raster) error {
	img := image.NewRGBA(image.Rect(0, 0, r.W, r.H))
	for y := 0; y < r.H; y++ {
		for x := 0; x < r.W; x++ {
			v := r.At(x, y)
			img.Set(x, y, color.RGBA{
				R: uint8(v >> 16),
				G: uint8(v >> 8),
				B: uint8(v),
				A: 255,
			})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
