// Package main is the entry point for the KAG map editor.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/kag-mapper/internal/config"
	"github.com/Faultbox/kag-mapper/internal/logger"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if config.WriteConfigRequested() {
		path, err := cfg.Save()
		if err != nil {
			logger.Error("failed to write config", zap.Error(err))
			os.Exit(1)
		}
		logger.Info("config written", zap.String("path", path))
		return
	}

	logger.Info("=== KAG Map Editor ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	a, err := newApp(cfg)
	if err != nil {
		logger.Error("failed to start editor", zap.Error(err))
		os.Exit(1)
	}
	defer a.Close()

	a.Run()
	logger.Info("editor closed normally")
}
