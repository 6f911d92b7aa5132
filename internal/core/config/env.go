package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: DEPSCAN_[SECTION]_[KEY] (e.g., DEPSCAN_ANALYSIS_WORKERS).
func ApplyEnvOverrides(cfg *Config) {
	// Scan
	setEnvString(&cfg.Scan.Pattern, "DEPSCAN_SCAN_PATTERN")
	setEnvBool(&cfg.Scan.Recursive, "DEPSCAN_SCAN_RECURSIVE")
	setEnvList(&cfg.ScanPaths, "DEPSCAN_SCAN_PATHS")

	// Analysis
	setEnvString(&cfg.Analysis.BuiltinRoot, "DEPSCAN_ANALYSIS_BUILTIN_ROOT")
	setEnvInt(&cfg.Analysis.Workers, "DEPSCAN_ANALYSIS_WORKERS")

	// Report
	setEnvBool(&cfg.Report.Dependencies, "DEPSCAN_REPORT_DEPENDENCIES")
	setEnvBool(&cfg.Report.StrongComponents, "DEPSCAN_REPORT_STRONG_COMPONENTS")
	setEnvString(&cfg.Report.OutputFile, "DEPSCAN_REPORT_OUTPUT_FILE")

	// Watch
	setEnvBool(&cfg.Watch.Enabled, "DEPSCAN_WATCH_ENABLED")
	setEnvDuration(&cfg.Watch.Debounce, "DEPSCAN_WATCH_DEBOUNCE")

	// Database
	setEnvBool(&cfg.DB.Enabled, "DEPSCAN_DB_ENABLED")
	setEnvString(&cfg.DB.Path, "DEPSCAN_DB_PATH")

	// Caches
	setEnvInt(&cfg.Caches.Semis, "DEPSCAN_CACHES_SEMIS")

	// Observability
	setEnvBool(&cfg.Observability.Enabled, "DEPSCAN_OBSERVABILITY_ENABLED")
	setEnvString(&cfg.Observability.Address, "DEPSCAN_OBSERVABILITY_ADDRESS")
	setEnvString(&cfg.Observability.OTLPEndpoint, "DEPSCAN_OBSERVABILITY_OTLP_ENDPOINT")
	setEnvBool(&cfg.Observability.EnableTracing, "DEPSCAN_OBSERVABILITY_ENABLE_TRACING")

	// Log
	setEnvString(&cfg.Log.File, "DEPSCAN_LOG_FILE")
	setEnvString(&cfg.Log.Level, "DEPSCAN_LOG_LEVEL")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvList(target *[]string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		var out []string
		for _, part := range strings.Split(val, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		if len(out) > 0 {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = out
		}
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
