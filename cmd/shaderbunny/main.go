// Package main is the entry point for shaderbunny.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/shaderbunny/internal/config"
	"github.com/Faultbox/shaderbunny/internal/host"
	"github.com/Faultbox/shaderbunny/internal/logger"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return err
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		return err
	}
	defer logger.Sync()

	logger.Info("=== shaderbunny ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if path, err := config.SaveRequested(cfg); err != nil {
		logger.Error("failed to save config", zap.Error(err))
		return err
	} else if path != "" {
		logger.Info("config saved", zap.String("path", path))
		return nil
	}

	a, err := host.New(cfg)
	if err != nil {
		logger.Error("failed to start", zap.Error(err))
		return err
	}
	defer a.Close()

	if err := a.Run(); err != nil {
		logger.Error("render loop failed", zap.Error(err))
		return err
	}

	logger.Info("closed normally")
	return nil
}
