// Package config centralizes the command-line and file-based settings
// shared by the crtdemo, crttx, and crtrx binaries.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config holds every tunable exposed by the cmd/ binaries. Not every
// field applies to every binary; each main package reads the subset
// it needs.
type Config struct {
	// Geometry / tuning, shared by all three binaries.
	OutWidth   int     `yaml:"out_width"`
	OutHeight  int     `yaml:"out_height"`
	Saturation int     `yaml:"saturation"`
	Brightness int     `yaml:"brightness"`
	Contrast   int     `yaml:"contrast"`
	Noise      int     `yaml:"noise"`
	AsColor    bool    `yaml:"as_color"`
	Pattern    string  `yaml:"pattern"`
	ImagePath  string  `yaml:"image"`

	// crttx
	Frequency float64 `yaml:"frequency_mhz"`
	Bandwidth float64 `yaml:"bandwidth_mhz"`
	Gain      int     `yaml:"gain"`
	Device    string  `yaml:"device"`
	Callsign  string  `yaml:"callsign"`

	// crtrx
	RxFrequency float64 `yaml:"rx_frequency_mhz"`
	RxSampleHz  int     `yaml:"rx_sample_hz"`
	RxGain      int     `yaml:"rx_gain"`

	SettingsFile string `yaml:"-"`
}

// defaults mirrors the tuning defaults of the NTSC pipeline itself
// (package crt's own applyDefaults), so a binary run with no flags at
// all still produces a sane picture.
func defaults() Config {
	return Config{
		OutWidth:   640,
		OutHeight:  480,
		Saturation: 18,
		Brightness: 0,
		Contrast:   179,
		AsColor:    true,
		Pattern:    "bars",
		Frequency:  427.25,
		Bandwidth:  1.5,
		Gain:       30,
		Callsign:   "NOCALL",
		RxFrequency: 427.25,
		RxSampleHz:  2_000_000,
		RxGain:      350,
	}
}

// Load parses flags common to fs, optionally overlays a YAML settings
// file named with -settings, then re-applies flags so the command
// line always wins over the file.
func Load(fs *pflag.FlagSet, args []string) (*Config, error) {
	cfg := defaults()

	fs.IntVar(&cfg.OutWidth, "out-width", cfg.OutWidth, "decoded output width in pixels")
	fs.IntVar(&cfg.OutHeight, "out-height", cfg.OutHeight, "decoded output height in pixels")
	fs.IntVar(&cfg.Saturation, "saturation", cfg.Saturation, "chroma saturation percent")
	fs.IntVar(&cfg.Brightness, "brightness", cfg.Brightness, "brightness offset, IRE")
	fs.IntVar(&cfg.Contrast, "contrast", cfg.Contrast, "contrast percent")
	fs.IntVar(&cfg.Noise, "noise", cfg.Noise, "injected signal noise, 0-255")
	fs.BoolVar(&cfg.AsColor, "color", cfg.AsColor, "modulate chroma and emit a color burst")
	fs.StringVar(&cfg.Pattern, "pattern", cfg.Pattern, "built-in test pattern: bars, solid, ramp")
	fs.StringVar(&cfg.ImagePath, "image", cfg.ImagePath, "source image to encode instead of a test pattern")

	fs.Float64Var(&cfg.Frequency, "freq", cfg.Frequency, "transmit frequency in MHz")
	fs.Float64Var(&cfg.Bandwidth, "bw", cfg.Bandwidth, "channel bandwidth in MHz")
	fs.IntVar(&cfg.Gain, "gain", cfg.Gain, "TX VGA gain, 0-47")
	fs.StringVar(&cfg.Device, "device", cfg.Device, "video capture device name or index")
	fs.StringVar(&cfg.Callsign, "callsign", cfg.Callsign, "callsign to overlay on the transmitted picture")

	fs.Float64Var(&cfg.RxFrequency, "rx-freq", cfg.RxFrequency, "receive frequency in MHz")
	fs.IntVar(&cfg.RxSampleHz, "rx-rate", cfg.RxSampleHz, "RTL-SDR sample rate in Hz")
	fs.IntVar(&cfg.RxGain, "rx-gain", cfg.RxGain, "RTL-SDR tuner gain in tenths of a dB")

	fs.StringVar(&cfg.SettingsFile, "settings", "", "optional YAML settings file; flags on the command line override it")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("config: parse flags: %w", err)
	}

	if cfg.SettingsFile != "" {
		if err := cfg.loadYAML(cfg.SettingsFile); err != nil {
			return nil, err
		}
		// Flags take priority over the settings file: re-parse so any
		// flag the user actually passed clobbers the file's value.
		if err := fs.Parse(args); err != nil {
			return nil, fmt.Errorf("config: re-parse flags: %w", err)
		}
	}

	return &cfg, nil
}

func (cfg *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read settings file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: parse settings file: %w", err)
	}
	return nil
}
