package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Width != 1024 || cfg.Graphics.Height != 768 {
		t.Errorf("expected 1024x768, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if cfg.Graphics.FOV != 60 {
		t.Errorf("expected fov 60, got %f", cfg.Graphics.FOV)
	}
	if cfg.Fur.Count != 2400 {
		t.Errorf("expected 2400 hairs, got %d", cfg.Fur.Count)
	}
	if cfg.Fur.MaxAttempts != 100000 {
		t.Errorf("expected max attempts 100000, got %d", cfg.Fur.MaxAttempts)
	}
	if cfg.Visual.Mode != "ambient" {
		t.Errorf("expected ambient mode, got %s", cfg.Visual.Mode)
	}
	if cfg.Visual.ScanInterval != 100*time.Millisecond {
		t.Errorf("expected scan interval 100ms, got %v", cfg.Visual.ScanInterval)
	}
	if cfg.Audio.WinSize != 1024 || cfg.Audio.HopSize != 256 {
		t.Errorf("expected window 1024 hop 256, got %d/%d", cfg.Audio.WinSize, cfg.Audio.HopSize)
	}
	if cfg.Screenshot.Format != "png" {
		t.Errorf("expected png screenshots, got %s", cfg.Screenshot.Format)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true

models:
  dir: /opt/figure
  hair_host: body

fur:
  count: 500
  seed: 42

visual:
  mode: scan
  scan_interval: 250ms
  hair_tint: "#ff8800"

audio:
  file: song.mp3
  volume: 0.5
  min_bpm: 80

logging:
  level: "debug"
  log_file: "hallucination.log"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 || !cfg.Graphics.Fullscreen {
		t.Errorf("graphics not loaded: %+v", cfg.Graphics)
	}
	if cfg.Graphics.FOV != 60 {
		t.Errorf("unset fov should keep default, got %f", cfg.Graphics.FOV)
	}
	if cfg.Fur.Count != 500 || cfg.Fur.Seed != 42 {
		t.Errorf("fur not loaded: %+v", cfg.Fur)
	}
	if cfg.Visual.Mode != "scan" || cfg.Visual.ScanInterval != 250*time.Millisecond {
		t.Errorf("visual not loaded: %+v", cfg.Visual)
	}
	if cfg.Audio.File != "song.mp3" || cfg.Audio.Volume != 0.5 || cfg.Audio.MinBPM != 80 {
		t.Errorf("audio not loaded: %+v", cfg.Audio)
	}
	if host, err := cfg.Models.HostFile(); err != nil || host != "/opt/figure/male1591.obj" {
		t.Errorf("HostFile() = %q, %v", host, err)
	}
	if cfg.Logging.LogFile != "hallucination.log" {
		t.Errorf("expected log file 'hallucination.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileErrors(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "graphics:\n  width: not a number\n  invalid syntax here\n"},
		{"unknown field", "fur:\n  colour: red\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, tt.name+".yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if err := loadFromFile(Default(), path); err == nil {
				t.Error("expected an error, got nil")
			}
		})
	}

	if err := loadFromFile(Default(), "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestLoadFromEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		t.Fatalf("empty file: %v", err)
	}
	if cfg.Fur.Count != 2400 {
		t.Errorf("empty file changed defaults: %+v", cfg.Fur)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero width", func(c *Config) { c.Graphics.Width = 0 }},
		{"far before near", func(c *Config) { c.Graphics.ZFar = 0.01 }},
		{"bad host", func(c *Config) { c.Models.HairHost = "hat" }},
		{"negative hairs", func(c *Config) { c.Fur.Count = -1 }},
		{"decay above one", func(c *Config) { c.Visual.DecayRatio = 1.5 }},
		{"flash probability", func(c *Config) { c.Visual.FlashProbability = 2 }},
		{"volume", func(c *Config) { c.Audio.Volume = -0.1 }},
		{"hop over window", func(c *Config) { c.Audio.HopSize = 4096 }},
		{"screenshot format", func(c *Config) { c.Screenshot.Format = "gif" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestModelPath(t *testing.T) {
	m := ModelsConfig{Dir: "models"}
	if got := m.Path("a.obj"); got != filepath.Join("models", "a.obj") {
		t.Errorf("Path() = %q", got)
	}
	if got := m.Path("/abs/a.obj"); got != "/abs/a.obj" {
		t.Errorf("absolute Path() = %q", got)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	os.Chdir(tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "mode flag",
			setup: func() { *flagMode = "beat" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Visual.Mode != "beat" {
					t.Errorf("expected mode beat, got %s", cfg.Visual.Mode)
				}
			},
			teardown: func() { *flagMode = "" },
		},
		{
			name:  "hairs flag allows zero",
			setup: func() { *flagHairs = 0 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Fur.Count != 0 {
					t.Errorf("expected 0 hairs, got %d", cfg.Fur.Count)
				}
			},
			teardown: func() { *flagHairs = -1 },
		},
		{
			name:  "audio and seed flags",
			setup: func() { *flagAudio = "beat.wav"; *flagSeed = 7 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Audio.File != "beat.wav" || cfg.Fur.Seed != 7 {
					t.Errorf("got audio %q seed %d", cfg.Audio.File, cfg.Fur.Seed)
				}
			},
			teardown: func() { *flagAudio = ""; *flagSeed = 0 },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name:  "width and height flags",
			setup: func() { *flagWidth = 2560; *flagHeight = 1440 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Width != 2560 || cfg.Graphics.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
				}
			},
			teardown: func() { *flagWidth = 0; *flagHeight = 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1600
  height: 900
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Visual.Mode = "beat"
	cfg.Visual.ScanInterval = 40 * time.Millisecond
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Visual.Mode != "beat" || loaded.Visual.ScanInterval != 40*time.Millisecond {
		t.Errorf("reloaded visual = %+v", loaded.Visual)
	}
}
