package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/polybitrockzz/reddit-video-creator/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

type logConfig struct {
	Level string `env:"RVC_LOG_LEVEL" envDefault:"info"`
	File  string `env:"RVC_LOG_FILE"`
	Debug bool   `env:"RVC_DEBUG"`
}

// setupLog sends logs to a rotating file, since the TUI owns the terminal.
// The returned func closes the file.
func setupLog() (func() error, error) {
	cfg, err := env.ParseAs[logConfig]()
	if err != nil {
		return nil, fmt.Errorf("error parsing log config: %w", err)
	}

	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid RVC_LOG_LEVEL: %w", err)
	}
	if cfg.Debug {
		level = log.DebugLevel
	}

	path := cfg.File
	if path == "" {
		path, err = config.LogPath()
		if err != nil {
			return nil, fmt.Errorf("could not find log directory: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("could not create log directory: %w", err)
	}

	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	log.SetOutput(w)
	log.SetLevel(level)
	log.SetReportTimestamp(true)
	return w.Close, nil
}

// logToStderr switches logging to the terminal for non-interactive runs.
func logToStderr() {
	log.SetOutput(os.Stderr)
	log.SetLevel(log.DebugLevel)
	log.SetReportTimestamp(false)
}
