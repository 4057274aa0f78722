// Command crttx captures a webcam through FFmpeg, encodes it with the
// crt package's integer NTSC encoder, and transmits the resulting
// composite signal over a HackRF.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/samuel/go-hackrf/hackrf"
	"github.com/spf13/pflag"

	"ntsccrt/config"
	"ntsccrt/crt"
)

const fixedSampleRate = 8_000_000

// webcamSource captures raw RGB24 frames from FFmpeg into a
// crt.Raster that the encoder goroutine reads from.
type webcamSource struct {
	mu  sync.RWMutex
	buf []byte
	raw *crt.Raster
}

func newWebcamSource(w, h int) *webcamSource {
	return &webcamSource{
		buf: make([]byte, w*h*3),
		raw: crt.NewRaster(w, h),
	}
}

func (s *webcamSource) ingest(stdout io.Reader) {
	for {
		if _, err := io.ReadFull(stdout, s.buf); err != nil {
			if err != io.EOF {
				log.Printf("crttx: ffmpeg read: %v", err)
			}
			return
		}
		s.mu.Lock()
		w, h := s.raw.W, s.raw.H
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				i := (y*w + x) * 3
				v := uint32(s.buf[i])<<16 | uint32(s.buf[i+1])<<8 | uint32(s.buf[i+2])
				s.raw.Set(x, y, v)
			}
		}
		s.mu.Unlock()
	}
}

func (s *webcamSource) snapshot() *crt.Raster {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := crt.NewRaster(s.raw.W, s.raw.H)
	copy(out.Pix, s.raw.Pix)
	return out
}

func startFFmpeg(cfg *config.Config, w, h int) (*exec.Cmd, io.ReadCloser, error) {
	var args []string
	switch runtime.GOOS {
	case "linux":
		dev := cfg.Device
		if dev == "" {
			dev = "/dev/video0"
		}
		args = []string{"-f", "v4l2", "-i", dev}
	case "darwin":
		dev := cfg.Device
		if dev == "" {
			dev = "0"
		}
		args = []string{"-f", "avfoundation", "-i", dev}
	case "windows":
		dev := cfg.Device
		if dev == "" {
			dev = "Integrated Webcam"
		}
		args = []string{"-f", "dshow", "-i", "video=" + dev}
	default:
		return nil, nil, fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}

	vf := fmt.Sprintf("scale=%d:%d,fps=30000/1001", w, h)
	if cfg.Callsign != "" {
		vf += fmt.Sprintf(",drawbox=x=0:y=ih-40:w=iw:h=40:color=black@0.6:t=fill,drawtext=fontfile=/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf:text='%s':x=10:y=h-35:fontcolor=white:fontsize=32:borderw=2:bordercolor=black", cfg.Callsign)
	}
	args = append(args, "-hide_banner", "-loglevel", "error",
		"-fflags", "nobuffer", "-flags", "low_delay",
		"-probesize", "32", "-analyzeduration", "0",
		"-f", "rawvideo", "-pix_fmt", "rgb24", "-vf", vf, "-")

	cmd := exec.Command("ffmpeg", args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("crttx: ffmpeg stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, nil, fmt.Errorf("crttx: start ffmpeg: %w", err)
	}
	return cmd, stdout, nil
}

// ireToAmplitude maps the encoder's IRE scale onto the +/-1 baseband
// amplitude a HackRF TX buffer expects.
func ireToAmplitude(ire int32) float64 {
	return ((float64(ire)-100.0)/-140.0)*(1.0-0.125) + 0.125
}

func main() {
	fs := pflag.NewFlagSet("crttx", pflag.ExitOnError)
	cfg, err := config.Load(fs, os.Args[1:])
	if err != nil {
		log.Fatalf("crttx: %v", err)
	}

	const capW, capH = 320, 240
	source := newWebcamSource(capW, capH)

	ffmpegCmd, stdout, err := startFFmpeg(cfg, capW, capH)
	if err != nil {
		log.Fatalf("crttx: %v", err)
	}
	go source.ingest(stdout)
	log.Println("crttx: ffmpeg capture started")

	var c crt.CRT
	c.Init(1, 1, crt.NewRaster(1, 1))
	c.Saturation = int32(cfg.Saturation)
	c.Brightness = int32(cfg.Brightness)
	c.Contrast = int32(cfg.Contrast)

	var encMu sync.RWMutex
	field := 0
	go func() {
		ticker := time.NewTicker(time.Second * 1001 / 30000)
		defer ticker.Stop()
		for range ticker.C {
			snap := source.snapshot()
			encMu.Lock()
			c.Encode(crt.NTSCSettings{Source: snap, Field: field, AsColor: cfg.AsColor})
			field ^= 1
			encMu.Unlock()
		}
	}()

	if err := hackrf.Init(); err != nil {
		log.Fatalf("crttx: hackrf.Init: %v", err)
	}
	defer hackrf.Exit()
	dev, err := hackrf.Open()
	if err != nil {
		log.Fatalf("crttx: hackrf.Open: %v", err)
	}
	defer dev.Close()

	txFreqHz := uint64(cfg.Frequency * 1_000_000)
	if err := dev.SetFreq(txFreqHz); err != nil {
		log.Fatalf("crttx: SetFreq: %v", err)
	}
	if err := dev.SetSampleRate(fixedSampleRate); err != nil {
		log.Fatalf("crttx: SetSampleRate: %v", err)
	}
	if err := dev.SetTXVGAGain(cfg.Gain); err != nil {
		log.Fatalf("crttx: SetTXVGAGain: %v", err)
	}
	if err := dev.SetAmpEnable(false); err != nil {
		log.Fatalf("crttx: SetAmpEnable: %v", err)
	}

	log.Printf("crttx: transmitting on %.3f MHz, %.2f MHz bandwidth", cfg.Frequency, cfg.Bandwidth)

	idx := 0
	err = dev.StartTX(func(buf []byte) error {
		samples := len(buf) / 2
		encMu.RLock()
		defer encMu.RUnlock()
		for i := 0; i < samples; i++ {
			line := idx / crt.HRES
			col := idx % crt.HRES
			amp := ireToAmplitude(c.AnalogAt(line, col))
			buf[i*2] = byte(int8(amp * 127.0))
			buf[i*2+1] = 0
			idx++
			if idx >= crt.VRES*crt.HRES {
				idx = 0
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("crttx: StartTX: %v", err)
	}

	log.Println("crttx: transmission live, press Ctrl+C to stop")
	ffmpegCmd.Wait()
}
