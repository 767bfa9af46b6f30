package app

import (
	"errors"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/hallucination/internal/audio"
	"github.com/Faultbox/hallucination/internal/config"
	"github.com/Faultbox/hallucination/internal/logger"
)

func processorOptions(cfg config.AudioConfig) audio.Options {
	return audio.Options{
		SampleRate:     cfg.SampleRate,
		WinSize:        cfg.WinSize,
		HopSize:        cfg.HopSize,
		OnsetThreshold: cfg.OnsetThreshold,
		SilenceDB:      cfg.SilenceDB,
		MinBPM:         cfg.MinBPM,
		MaxBPM:         cfg.MaxBPM,
	}
}

// pickFile asks for a track with the native file dialog. An empty path
// means the user cancelled.
func pickFile() (string, error) {
	path, err := dialog.File().
		Filter("Audio", "wav", "mp3").
		Filter("All Files", "*").
		Title("Choose a track").
		Load()
	if errors.Is(err, dialog.ErrCancelled) {
		return "", nil
	}
	return path, err
}

// startAudio opens the speaker and starts the configured track. A missing
// track is not an error: the beat mode then simply sees no events.
func startAudio(cfg config.AudioConfig, proc *audio.Processor) (*audio.Player, error) {
	player := audio.NewPlayer(proc)
	if err := player.Init(); err != nil {
		return nil, err
	}

	vol := cfg.Volume
	if cfg.Muted {
		vol = 0
	}
	player.SetVolume(vol)

	path := cfg.File
	if path == "" && cfg.PickFile {
		var err error
		if path, err = pickFile(); err != nil {
			logger.Warn("file dialog failed", zap.Error(err))
		}
	}
	if path == "" {
		logger.Info("no audio track, beat mode will stay dark")
		return player, nil
	}

	if err := player.Play(path, cfg.Loop); err != nil {
		logger.Warn("cannot play audio", zap.String("path", path), zap.Error(err))
	}
	return player, nil
}
