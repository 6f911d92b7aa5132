package cli

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"depscan/internal/core/config"
)

func parseLevel(level string, verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// configureLogging installs the default logger. Logs go to stderr, or to a
// rotating file when one is configured.
func configureLogging(cfg config.Log, verbose bool) func() {
	var output io.Writer = os.Stderr
	closeFn := func() {}

	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		output = rotator
		closeFn = func() { _ = rotator.Close() }
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: parseLevel(cfg.Level, verbose)}))
	slog.SetDefault(logger)
	return closeFn
}
