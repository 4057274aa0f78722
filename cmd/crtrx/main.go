// Command crtrx tunes an RTL-SDR to a composite NTSC transmission, AM
// demodulates it, decodes it with the crt package's integer decoder,
// and pipes the result to ffplay.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"

	rtl "github.com/jpoirier/gortlsdr"
	"github.com/spf13/pflag"

	"ntsccrt/config"
	"ntsccrt/crt"
)

// agc rescales raw AM amplitude onto the decoder's IRE-shaped
// expectations. peak is an exponential running average of the
// incoming samples; blank is a fixed calibration level that is never
// updated.
type agc struct {
	blank, peak float64
}

func newAGC() *agc { return &agc{blank: 5000, peak: 15000} }

func (a *agc) toIRE(sample float64) int32 {
	a.peak = a.peak*0.999 + sample*0.001
	rng := a.peak - a.blank
	if rng < 1 {
		rng = 1
	}
	ire := (sample-a.blank)/rng*140.0 - 40.0
	return int32(ire)
}

func startFFplay(w, h int) (io.WriteCloser, *exec.Cmd, error) {
	path, err := exec.LookPath("ffplay")
	if err != nil {
		return nil, nil, fmt.Errorf("crtrx: ffplay not found: %w", err)
	}
	args := []string{
		"-f", "rawvideo", "-pixel_format", "rgb24",
		"-video_size", fmt.Sprintf("%dx%d", w, h),
		"-framerate", "29.97",
		"-i", "-",
		"-window_title", "crtrx",
		"-fflags", "nobuffer", "-flags", "low_delay",
	}
	cmd := exec.Command(path, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, nil, err
	}
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return nil, nil, err
	}
	return stdin, cmd, nil
}

func main() {
	fs := pflag.NewFlagSet("crtrx", pflag.ExitOnError)
	cfg, err := config.Load(fs, os.Args[1:])
	if err != nil {
		log.Fatalf("crtrx: %v", err)
	}

	devCount := rtl.GetDeviceCount()
	if devCount == 0 {
		log.Fatal("crtrx: no RTL-SDR devices found")
	}
	dongle, err := rtl.Open(0)
	if err != nil {
		log.Fatalf("crtrx: open device: %v", err)
	}
	defer dongle.Close()

	freqHz := int(cfg.RxFrequency * 1_000_000)
	if err := dongle.SetCenterFreq(freqHz); err != nil {
		log.Fatalf("crtrx: SetCenterFreq: %v", err)
	}
	if err := dongle.SetSampleRate(cfg.RxSampleHz); err != nil {
		log.Fatalf("crtrx: SetSampleRate: %v", err)
	}
	if err := dongle.SetTunerGainMode(true); err != nil {
		log.Fatalf("crtrx: SetTunerGainMode: %v", err)
	}
	if err := dongle.SetTunerGain(cfg.RxGain); err != nil {
		log.Fatalf("crtrx: SetTunerGain: %v", err)
	}
	if err := dongle.ResetBuffer(); err != nil {
		log.Fatalf("crtrx: ResetBuffer: %v", err)
	}
	log.Printf("crtrx: tuned to %.3f MHz, %.3f MHz sample rate", cfg.RxFrequency, float64(cfg.RxSampleHz)/1e6)

	stdin, ffplay, err := startFFplay(cfg.OutWidth, cfg.OutHeight)
	if err != nil {
		log.Fatalf("crtrx: %v", err)
	}
	defer ffplay.Process.Kill()
	defer stdin.Close()

	dst := crt.NewRaster(cfg.OutWidth, cfg.OutHeight)
	var c crt.CRT
	c.Init(cfg.OutWidth, cfg.OutHeight, dst)
	c.Saturation = int32(cfg.Saturation)
	c.Brightness = int32(cfg.Brightness)
	c.Contrast = int32(cfg.Contrast)

	gain := newAGC()
	readBuf := make([]byte, rtl.DefaultBufLength)
	line := make([]int32, crt.HRES)
	lineCol := 0
	lineNum := 0

	for {
		n, err := dongle.ReadSync(readBuf, len(readBuf))
		if err != nil {
			log.Printf("crtrx: ReadSync: %v", err)
			break
		}
		for i := 0; i+1 < n; i += 2 {
			iv := float64(int(readBuf[i]) - 127)
			qv := float64(int(readBuf[i+1]) - 127)
			amp := iv*iv + qv*qv

			line[lineCol] = gain.toIRE(amp)
			lineCol++
			if lineCol == crt.HRES {
				c.LoadLine(lineNum, line)
				lineCol = 0
				lineNum++
				if lineNum == crt.VRES {
					lineNum = 0
					c.Decode(crt.DecodeSettings{Noise: int32(cfg.Noise)})
					if err := writeFrame(stdin, dst); err != nil {
						log.Printf("crtrx: write frame: %v", err)
						return
					}
				}
			}
		}
	}
}

func writeFrame(w io.Writer, r *crt.Raster) error {
	buf := make([]byte, r.W*r.H*3)
	i := 0
	for y := 0; y < r.H; y++ {
		for x := 0; x < r.W; x++ {
			v := r.At(x, y)
			buf[i] = byte(v >> 16)
			buf[i+1] = byte(v >> 8)
			buf[i+2] = byte(v)
			i += 3
		}
	}
	_, err := w.Write(buf)
	return err
}
