package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	domainErrors "depscan/internal/core/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "depscan.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
scan_paths = ["./src", " "]

[scan]
pattern = "*.cs"
recursive = true
exclude_substrings = ["AssemblyInfo"]
exclude_dirs = ["bin", "obj"]

[analysis]
workers = 4

[report]
dependencies = true
strong_components = true
formats = ["TEXT", "yaml"]

[watch]
debounce = "1s"

[output]
dot = "graph.dot"
mermaid = "graph.mmd"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.ScanPaths) != 1 || cfg.ScanPaths[0] != "./src" {
		t.Errorf("expected blank scan path to be dropped, got %v", cfg.ScanPaths)
	}
	if !cfg.Scan.Recursive {
		t.Error("expected recursive scan")
	}
	if cfg.Analysis.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.Analysis.Workers)
	}
	if cfg.Analysis.BuiltinRoot != "System" {
		t.Errorf("expected default builtin root, got %q", cfg.Analysis.BuiltinRoot)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("expected 1s debounce, got %v", cfg.Watch.Debounce)
	}
	if cfg.Report.Formats[0] != "text" || cfg.Report.Formats[1] != "yaml" {
		t.Errorf("expected normalized formats, got %v", cfg.Report.Formats)
	}
	if cfg.Output.DOT != "graph.dot" || cfg.Output.Root != "." {
		t.Errorf("unexpected output config %+v", cfg.Output)
	}
	if cfg.Caches.Semis != 2048 {
		t.Errorf("expected default semi cache size, got %d", cfg.Caches.Semis)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"bad pattern": `
[scan]
pattern = "cs"
`,
		"bad format": `
[report]
formats = ["xml"]
`,
		"bad version": `version = 3`,
		"bad level": `
[log]
level = "loud"
`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			if !domainErrors.IsCode(err, domainErrors.CodeValidationError) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !domainErrors.IsCode(err, domainErrors.CodeNotFound) {
		t.Errorf("expected not found for missing file, got %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := Validate(cfg); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if !cfg.Report.Dependencies || !cfg.Report.StrongComponents {
		t.Error("expected both reports on by default")
	}
	if cfg.Scan.Pattern != "*.cs" || cfg.Scan.Recursive {
		t.Errorf("unexpected scan defaults %+v", cfg.Scan)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("DEPSCAN_SCAN_RECURSIVE", "true")
	t.Setenv("DEPSCAN_ANALYSIS_WORKERS", "8")
	t.Setenv("DEPSCAN_WATCH_DEBOUNCE", "2s")
	t.Setenv("DEPSCAN_SCAN_PATHS", "a, b,")
	t.Setenv("DEPSCAN_DB_ENABLED", "not-a-bool")

	cfg := DefaultConfig()
	ApplyEnvOverrides(cfg)

	if !cfg.Scan.Recursive {
		t.Error("expected recursive override")
	}
	if cfg.Analysis.Workers != 8 {
		t.Errorf("expected 8 workers, got %d", cfg.Analysis.Workers)
	}
	if cfg.Watch.Debounce != 2*time.Second {
		t.Errorf("expected 2s debounce, got %v", cfg.Watch.Debounce)
	}
	if len(cfg.ScanPaths) != 2 || cfg.ScanPaths[1] != "b" {
		t.Errorf("unexpected scan paths %v", cfg.ScanPaths)
	}
	if cfg.DB.Enabled {
		t.Error("expected unparsable bool to be ignored")
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("DEPSCAN_TEST_DOTENV=from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DEPSCAN_TEST_DOTENV", "")
	os.Unsetenv("DEPSCAN_TEST_DOTENV")

	LoadDotEnv(filepath.Join(t.TempDir(), "absent.env"), path)
	if got := os.Getenv("DEPSCAN_TEST_DOTENV"); got != "from-file" {
		t.Errorf("expected value from .env, got %q", got)
	}
}
