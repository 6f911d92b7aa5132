package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreapp "depscan/internal/core/app"
	"depscan/internal/core/config"
)

func writeSources(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "File1.cs"), []byte("class Foo {}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "File2.cs"), []byte("Foo f = new Foo();\n"), 0o644))
	return dir
}

func TestParseOptions_TracksExplicitFlags(t *testing.T) {
	opts, err := parseOptions([]string{"--scc=false", "--recursive", "src"})
	require.NoError(t, err)
	assert.True(t, opts.set["scc"])
	assert.True(t, opts.set["recursive"])
	assert.False(t, opts.set["deps"])
	assert.Equal(t, []string{"src"}, opts.args)
}

func TestApplyModeOptions_FlagsOverrideConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Report.Dependencies = false

	opts, err := parseOptions([]string{"--scc=false", "--recursive", "--format", "json", "./src"})
	require.NoError(t, err)
	require.NoError(t, applyModeOptions(&opts, cfg))

	assert.False(t, cfg.Report.Dependencies, "unset flag must not override config")
	assert.False(t, cfg.Report.StrongComponents)
	assert.True(t, cfg.Scan.Recursive)
	assert.Equal(t, []string{"json"}, cfg.Report.Formats)
	assert.Equal(t, []string{"./src"}, cfg.ScanPaths)
}

func TestApplyModeOptions_Conflicts(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{[]string{"--chain", "--impact", "a.cs", "x", "y"}, "cannot be combined"},
		{[]string{"--chain", "only-one"}, "requires two file arguments"},
		{[]string{"--since", "2026-01-01"}, "--since requires --history"},
		{[]string{"--history"}, "requires [db] enabled"},
		{[]string{"--watch", "--impact", "a.cs"}, "--watch cannot be combined"},
	}
	for _, tc := range cases {
		opts, err := parseOptions(tc.args)
		require.NoError(t, err)
		err = applyModeOptions(&opts, config.DefaultConfig())
		require.Error(t, err, tc.args)
		assert.Contains(t, err.Error(), tc.want)
	}
}

func TestParseSince(t *testing.T) {
	ts, err := parseSince("2026-02-13")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 13, 0, 0, 0, 0, time.UTC), ts)

	_, err = parseSince("yesterday")
	assert.Error(t, err)
}

func TestRun_TwoFileReport(t *testing.T) {
	dir := writeSources(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{dir}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	out := stdout.String()
	assert.Contains(t, out, "File1.cs doesn't depend on any packages.\n")
	assert.Contains(t, out, "File2.cs depends on: File1.cs\n")
	assert.Contains(t, out, "- [File2.cs]")
	assert.Contains(t, stderr.String(), "no cycles")
}

func TestRun_ChainAndImpact(t *testing.T) {
	dir := writeSources(t)
	f1, f2 := filepath.Join(dir, "File1.cs"), filepath.Join(dir, "File2.cs")

	var stdout, stderr bytes.Buffer
	// Scan roots come from DEPSCAN_SCAN_PATHS because chain mode uses the
	// positional arguments.
	t.Setenv("DEPSCAN_SCAN_PATHS", dir)
	require.Equal(t, 0, run([]string{"--chain", f2, f1}, &stdout, &stderr), stderr.String())
	assert.Equal(t, "File2.cs -> File1.cs\n", stdout.String())

	stdout.Reset()
	require.Equal(t, 1, run([]string{"--chain", f1, f2}, &stdout, &stderr))

	stdout.Reset()
	require.Equal(t, 0, run([]string{"--impact", f1, dir}, &stdout, &stderr), stderr.String())
	assert.Contains(t, stdout.String(), "Impact of File1.cs")
	assert.Contains(t, stdout.String(), f2)
}

func TestRun_ReportToFile(t *testing.T) {
	dir := writeSources(t)
	out := filepath.Join(t.TempDir(), "reports", "deps.yaml")

	var stdout, stderr bytes.Buffer
	code := run([]string{"--format", "yaml", "--output", out, dir}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Empty(t, stdout.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "depends_on:"))
}

func TestRun_BadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("version = 9\n"), 0o644))

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, run([]string{"--config", path}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "failed to load config")
}

func TestObservabilityServer_Health(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ScanPaths = []string{writeSources(t)}
	a, err := coreapp.New(cfg)
	require.NoError(t, err)

	srv := NewObservabilityServer("127.0.0.1:0", a)
	rec := httptest.NewRecorder()
	srv.handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"analysis":"pending"`)

	rec = httptest.NewRecorder()
	srv.handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "depscan_")
}
