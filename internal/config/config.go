// Package config handles configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"
)

// Config holds all application settings.
type Config struct {
	Graphics   GraphicsConfig   `yaml:"graphics"`
	Models     ModelsConfig     `yaml:"models"`
	Fur        FurConfig        `yaml:"fur"`
	Visual     VisualConfig     `yaml:"visual"`
	Audio      AudioConfig      `yaml:"audio"`
	Screenshot ScreenshotConfig `yaml:"screenshot"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Fullscreen bool    `yaml:"fullscreen"`
	VSync      bool    `yaml:"vsync"`
	FPSLimit   int     `yaml:"fps_limit"`
	FOV        float32 `yaml:"fov"` // degrees
	ZNear      float32 `yaml:"z_near"`
	ZFar       float32 `yaml:"z_far"`
}

// ModelsConfig names the OBJ files making up the figure.
type ModelsConfig struct {
	Dir      string `yaml:"dir"`
	Body     string `yaml:"body"`
	Jacket   string `yaml:"jacket"`
	Jeans    string `yaml:"jeans"`
	Shoes    string `yaml:"shoes"`
	HairHost string `yaml:"hair_host"` // body, jacket, jeans or shoes
}

// FurConfig holds hair placement settings.
type FurConfig struct {
	Count         int     `yaml:"count"`
	MinSeparation float32 `yaml:"min_separation"`
	Width         float32 `yaml:"width"`
	Height        float32 `yaml:"height"`
	MaxAttempts   int     `yaml:"max_attempts"`
	Seed          uint64  `yaml:"seed"` // 0 seeds from the clock
}

// VisualConfig holds illumination settings.
type VisualConfig struct {
	Mode             string        `yaml:"mode"`
	DecayRatio       float32       `yaml:"decay_ratio"`
	ScanInterval     time.Duration `yaml:"scan_interval"`
	FlashProbability float64       `yaml:"flash_probability"`
	HairTint         string        `yaml:"hair_tint"`
}

// AudioConfig holds playback and analysis settings.
type AudioConfig struct {
	File     string  `yaml:"file"`
	Loop     bool    `yaml:"loop"`
	Volume   float64 `yaml:"volume"`
	Muted    bool    `yaml:"muted"`
	PickFile bool    `yaml:"pick_file"`

	SampleRate     int     `yaml:"sample_rate"`
	WinSize        int     `yaml:"win_size"`
	HopSize        int     `yaml:"hop_size"`
	OnsetThreshold float64 `yaml:"onset_threshold"`
	SilenceDB      float64 `yaml:"silence_db"`
	MinBPM         float64 `yaml:"min_bpm"`
	MaxBPM         float64 `yaml:"max_bpm"`
}

// ScreenshotConfig holds where captured frames are written.
type ScreenshotConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"` // png or bmp
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:  1024,
			Height: 768,
			VSync:  true,
			FOV:    60,
			ZNear:  0.1,
			ZFar:   500,
		},
		Models: ModelsConfig{
			Dir:      "models",
			Body:     "male1591.obj",
			Jacket:   "tshirt_long.obj",
			Jeans:    "jeans01.obj",
			Shoes:    "shoes02.obj",
			HairHost: "jacket",
		},
		Fur: FurConfig{
			Count:         2400,
			MinSeparation: 0.0127,
			Width:         0.0127,
			Height:        0.0762,
			MaxAttempts:   100000,
		},
		Visual: VisualConfig{
			Mode:             "ambient",
			DecayRatio:       63.0 / 64.0,
			ScanInterval:     100 * time.Millisecond,
			FlashProbability: 0.2,
			HairTint:         "#ffffff",
		},
		Audio: AudioConfig{
			Loop:       true,
			Volume:     0.8,
			PickFile:   true,
			SampleRate: 44100,
			WinSize:    1024,
			HopSize:    256,
			SilenceDB:  -90,
			MinBPM:     60,
			MaxBPM:     200,
		},
		Screenshot: ScreenshotConfig{
			Dir:    "screenshots",
			Format: "png",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// ErrInvalid is wrapped by every Validate error.
var ErrInvalid = errors.New("invalid config")

// Validate checks values that would otherwise fail deep inside setup.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(c.Graphics.Width > 0 && c.Graphics.Height > 0,
		"graphics size %dx%d", c.Graphics.Width, c.Graphics.Height)
	check(c.Graphics.ZNear > 0 && c.Graphics.ZFar > c.Graphics.ZNear,
		"clip planes %g..%g", c.Graphics.ZNear, c.Graphics.ZFar)
	check(c.Graphics.FOV > 0 && c.Graphics.FOV < 180, "fov %g", c.Graphics.FOV)

	_, err := c.Models.HostFile()
	check(err == nil, "hair_host %q", c.Models.HairHost)

	check(c.Fur.Count >= 0, "fur count %d", c.Fur.Count)
	check(c.Fur.MinSeparation >= 0, "min_separation %g", c.Fur.MinSeparation)
	check(c.Fur.Width > 0 && c.Fur.Height > 0, "hair size %gx%g", c.Fur.Width, c.Fur.Height)

	check(c.Visual.DecayRatio > 0 && c.Visual.DecayRatio <= 1, "decay_ratio %g", c.Visual.DecayRatio)
	check(c.Visual.FlashProbability >= 0 && c.Visual.FlashProbability <= 1,
		"flash_probability %g", c.Visual.FlashProbability)
	check(c.Visual.ScanInterval > 0, "scan_interval %s", c.Visual.ScanInterval)

	check(c.Audio.Volume >= 0 && c.Audio.Volume <= 1, "volume %g", c.Audio.Volume)
	check(c.Audio.HopSize > 0 && c.Audio.HopSize <= c.Audio.WinSize,
		"hop %d / window %d", c.Audio.HopSize, c.Audio.WinSize)

	check(c.Screenshot.Format == "png" || c.Screenshot.Format == "bmp",
		"screenshot format %q", c.Screenshot.Format)

	return errors.Join(errs...)
}

// HostFile returns the model file the fur grows on.
func (m ModelsConfig) HostFile() (string, error) {
	var name string
	switch m.HairHost {
	case "body":
		name = m.Body
	case "jacket":
		name = m.Jacket
	case "jeans":
		name = m.Jeans
	case "shoes":
		name = m.Shoes
	default:
		return "", fmt.Errorf("%w: unknown hair host %q", ErrInvalid, m.HairHost)
	}
	return m.Path(name), nil
}

// Path resolves a model file name against Dir.
func (m ModelsConfig) Path(name string) string {
	if filepath.IsAbs(name) || m.Dir == "" {
		return name
	}
	return filepath.Join(m.Dir, name)
}
