// Package main is the entry point for the fur visualizer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/hallucination/internal/app"
	"github.com/Faultbox/hallucination/internal/config"
	"github.com/Faultbox/hallucination/internal/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return 1
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	logger.Info("=== Hallucination ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	a, err := app.New(cfg)
	if err != nil {
		logger.Error("failed to start", zap.Error(err))
		return 1
	}
	defer a.Close()

	if err := a.Run(); err != nil {
		logger.Error("run error", zap.Error(err))
		return 1
	}

	logger.Info("closed normally")
	return 0
}
