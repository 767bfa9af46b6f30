package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagMode       = flag.String("mode", "", "Visualizer mode: ambient, beat or scan")
	flagHairs      = flag.Int("hairs", -1, "Number of hairs to grow")
	flagAudio      = flag.String("audio", "", "Audio file to play (wav or mp3)")
	flagSeed       = flag.Uint64("seed", 0, "Random seed for hair placement (0 = clock)")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagMode != "" {
		cfg.Visual.Mode = *flagMode
	}
	if *flagHairs >= 0 {
		cfg.Fur.Count = *flagHairs
	}
	if *flagAudio != "" {
		cfg.Audio.File = *flagAudio
	}
	if *flagSeed != 0 {
		cfg.Fur.Seed = *flagSeed
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
}
