package config

import (
	"time"
)

type Config struct {
	Version       int           `toml:"version"`
	ScanPaths     []string      `toml:"scan_paths"`
	Scan          Scan          `toml:"scan"`
	Analysis      Analysis      `toml:"analysis"`
	Report        Report        `toml:"report"`
	Output        Output        `toml:"output"`
	Watch         Watch         `toml:"watch"`
	DB            Database      `toml:"db"`
	Caches        Caches        `toml:"caches"`
	Observability Observability `toml:"observability"`
	Log           Log           `toml:"log"`
}

type Scan struct {
	Pattern           string   `toml:"pattern"`
	Recursive         bool     `toml:"recursive"`
	ExcludeSubstrings []string `toml:"exclude_substrings"` // e.g. ".g.cs", "AssemblyInfo"
	ExcludeDirs       []string `toml:"exclude_dirs"`       // glob patterns matched against dir names
	ExcludeFiles      []string `toml:"exclude_files"`      // glob patterns matched against file names
}

type Analysis struct {
	BuiltinRoot     string   `toml:"builtin_root"`
	Workers         int      `toml:"workers"`
	ControlKeywords []string `toml:"control_keywords"`
}

type Report struct {
	Dependencies     bool     `toml:"dependencies"`
	StrongComponents bool     `toml:"strong_components"`
	TypeTable        bool     `toml:"type_table"`
	AliasTable       bool     `toml:"alias_table"`
	Metrics          bool     `toml:"metrics"`
	OutputFile       string   `toml:"output_file"`
	Formats          []string `toml:"formats"` // text, yaml, json
}

type Output struct {
	Root     string `toml:"root"`
	DOT      string `toml:"dot"`
	Mermaid  string `toml:"mermaid"`
	PlantUML string `toml:"plantuml"`
	TSV      string `toml:"tsv"`
	YAML     string `toml:"yaml"`
	JSON     string `toml:"json"`
}

type Watch struct {
	Enabled  bool          `toml:"enabled"`
	Debounce time.Duration `toml:"debounce"`
	// MaxRate caps reruns per second.
	MaxRate float64 `toml:"max_rate"`
}

type Database struct {
	Enabled    bool   `toml:"enabled"`
	Path       string `toml:"path"`
	ProjectKey string `toml:"project_key"`
}

type Caches struct {
	Semis int `toml:"semis"`
}

type Observability struct {
	Enabled       bool   `toml:"enabled"`
	Address       string `toml:"address"`
	OTLPEndpoint  string `toml:"otlp_endpoint"`
	EnableTracing bool   `toml:"enable_tracing"`
}

type Log struct {
	File       string `toml:"file"`
	Level      string `toml:"level"`
	MaxSize    int    `toml:"max_size"` // megabytes
	MaxBackups int    `toml:"max_backups"`
	MaxAge     int    `toml:"max_age"` // days
	Compress   bool   `toml:"compress"`
}

// DefaultConfig returns a configuration with every default applied.
func DefaultConfig() *Config {
	cfg := &Config{
		Report: Report{Dependencies: true, StrongComponents: true},
	}
	applyDefaults(cfg)
	return cfg
}
