package config

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	domainErrors "depscan/internal/core/errors"
)

// Validate checks cross-field constraints. Defaults must already be applied.
func Validate(cfg *Config) error {
	checks := []func(*Config) error{
		validateVersion,
		validateScan,
		validateAnalysis,
		validateReport,
		validateWatch,
		validateLog,
	}
	for _, check := range checks {
		if err := check(cfg); err != nil {
			return domainErrors.Wrap(err, domainErrors.CodeValidationError, "invalid config")
		}
	}
	return nil
}

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateScan(cfg *Config) error {
	if len(cfg.ScanPaths) == 0 {
		return fmt.Errorf("scan_paths must contain at least one path")
	}
	if !strings.HasPrefix(cfg.Scan.Pattern, "*.") || len(cfg.Scan.Pattern) < 3 {
		return fmt.Errorf("scan.pattern must look like *.<ext>, got %q", cfg.Scan.Pattern)
	}
	for _, group := range [][]string{{cfg.Scan.Pattern}, cfg.Scan.ExcludeDirs, cfg.Scan.ExcludeFiles} {
		for _, pattern := range group {
			if _, err := glob.Compile(pattern); err != nil {
				return fmt.Errorf("invalid glob %q: %w", pattern, err)
			}
		}
	}
	for i, s := range cfg.Scan.ExcludeSubstrings {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("scan.exclude_substrings[%d] must not be empty", i)
		}
	}
	return nil
}

func validateAnalysis(cfg *Config) error {
	if cfg.Analysis.Workers > 256 {
		return fmt.Errorf("analysis.workers must be <= 256, got %d", cfg.Analysis.Workers)
	}
	return nil
}

func validateReport(cfg *Config) error {
	for _, f := range cfg.Report.Formats {
		switch f {
		case "text", "yaml", "json":
		default:
			return fmt.Errorf("report.formats entries must be one of: text, yaml, json (got %q)", f)
		}
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	return nil
}

func validateLog(cfg *Config) error {
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("log.level must be one of: debug, info, warn, error")
}
