package config

import (
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	domainErrors "depscan/internal/core/errors"
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		wrapped := domainErrors.Wrap(err, domainErrors.CodeNotFound, "read config")
		return nil, domainErrors.AddContext(wrapped, domainErrors.CtxPath, path)
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		wrapped := domainErrors.Wrap(err, domainErrors.CodeValidationError, "decode config")
		return nil, domainErrors.AddContext(wrapped, domainErrors.CtxPath, path)
	}

	applyDefaults(&cfg)
	normalize(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment. Missing files are ignored; variables already set win.
func LoadDotEnv(files ...string) {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		_ = godotenv.Load(f)
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if len(cfg.ScanPaths) == 0 {
		cfg.ScanPaths = []string{"."}
	}

	if strings.TrimSpace(cfg.Scan.Pattern) == "" {
		cfg.Scan.Pattern = "*.cs"
	}
	if cfg.Scan.ExcludeSubstrings == nil {
		cfg.Scan.ExcludeSubstrings = []string{"AssemblyInfo", ".Designer.", ".g.cs", "TemporaryGeneratedFile"}
	}
	if cfg.Scan.ExcludeDirs == nil {
		cfg.Scan.ExcludeDirs = []string{".git", "bin", "obj", "node_modules"}
	}

	if strings.TrimSpace(cfg.Analysis.BuiltinRoot) == "" {
		cfg.Analysis.BuiltinRoot = "System"
	}
	if cfg.Analysis.Workers <= 0 {
		cfg.Analysis.Workers = 1
	}

	if len(cfg.Report.Formats) == 0 {
		cfg.Report.Formats = []string{"text"}
	}

	if strings.TrimSpace(cfg.Output.Root) == "" {
		cfg.Output.Root = "."
	}

	// Default debounce if not set.
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.MaxRate <= 0 {
		cfg.Watch.MaxRate = 1
	}

	if strings.TrimSpace(cfg.DB.Path) == "" {
		cfg.DB.Path = "depscan-history.db"
	}
	if strings.TrimSpace(cfg.DB.ProjectKey) == "" {
		cfg.DB.ProjectKey = "default"
	}

	if cfg.Caches.Semis <= 0 {
		cfg.Caches.Semis = 2048
	}

	if strings.TrimSpace(cfg.Observability.Address) == "" {
		cfg.Observability.Address = "127.0.0.1:9464"
	}

	if strings.TrimSpace(cfg.Log.Level) == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.MaxSize <= 0 {
		cfg.Log.MaxSize = 10
	}
	if cfg.Log.MaxBackups <= 0 {
		cfg.Log.MaxBackups = 3
	}
	if cfg.Log.MaxAge <= 0 {
		cfg.Log.MaxAge = 28
	}
}

func normalize(cfg *Config) {
	cfg.Scan.Pattern = strings.TrimSpace(cfg.Scan.Pattern)
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	for i, f := range cfg.Report.Formats {
		cfg.Report.Formats[i] = strings.ToLower(strings.TrimSpace(f))
	}
	paths := cfg.ScanPaths[:0]
	for _, p := range cfg.ScanPaths {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	cfg.ScanPaths = paths
}
