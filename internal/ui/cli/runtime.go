// Package cli is the depscan command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	coreapp "depscan/internal/core/app"
	"depscan/internal/core/config"
	"depscan/internal/engine/analysis"
	"depscan/internal/engine/graph"
	"depscan/internal/shared/observability"
	"depscan/internal/ui/report"
)

func Run(args []string) int {
	return run(args, os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args)
	if err != nil {
		return 2
	}

	if opts.version {
		fmt.Fprintf(stdout, "depscan v%s\n", versionString)
		return 0
	}

	config.LoadDotEnv(".env")

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return 1
	}
	config.ApplyEnvOverrides(cfg)

	if err := applyModeOptions(&opts, cfg); err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(stderr, "invalid configuration: %v\n", err)
		return 1
	}

	cleanupLogs := configureLogging(cfg.Log, opts.verbose)
	defer cleanupLogs()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Observability.EnableTracing && cfg.Observability.OTLPEndpoint != "" {
		shutdown, err := observability.InitTracing(ctx, cfg.Observability.OTLPEndpoint, versionString)
		if err != nil {
			slog.Warn("tracing disabled", "error", err)
		} else {
			defer func() {
				sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = shutdown(sctx)
			}()
		}
	}

	a, err := coreapp.New(cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		return 1
	}
	defer a.Close()

	if cfg.Observability.Enabled {
		srv := NewObservabilityServer(cfg.Observability.Address, a)
		if err := srv.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "error", err)
			return 1
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Stop(sctx)
		}()
	}

	if opts.history {
		return runHistory(ctx, a, opts, stdout, stderr)
	}

	start := time.Now()
	res, err := a.Run(ctx)
	if err != nil {
		slog.Error("analysis failed", "error", err)
		return 1
	}

	if stop, code := runQueryCommand(res, opts, stdout, stderr); stop {
		return code
	}

	if err := writeReport(a, res, stdout); err != nil {
		slog.Error("failed to write report", "error", err)
		return 1
	}
	fmt.Fprint(stderr, report.RenderSummary(res))
	slog.Debug("run finished", "elapsed", time.Since(start))

	if !cfg.Watch.Enabled {
		return 0
	}

	a.SetUpdateHandler(func(u coreapp.Update) {
		if err := writeReport(a, u.Result, stdout); err != nil {
			slog.Error("failed to write report", "error", err)
		}
		fmt.Fprint(stderr, report.RenderSummary(u.Result))
	})
	if err := a.Watch(ctx); err != nil {
		slog.Error("watch failed", "error", err)
		return 1
	}
	return 0
}

// loadConfig reads the config file. A missing file at the default path
// falls back to built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	if path == defaultConfigPath {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return config.DefaultConfig(), nil
		}
	}
	return config.Load(path)
}

// applyModeOptions folds command-line flags into cfg and checks that the
// requested modes fit together.
func applyModeOptions(opts *cliOptions, cfg *config.Config) error {
	modeCount := 0
	for _, on := range []bool{opts.chain, opts.impact != "", opts.history} {
		if on {
			modeCount++
		}
	}
	if modeCount > 1 {
		return fmt.Errorf("--chain, --impact and --history cannot be combined")
	}
	if modeCount > 0 && opts.watch {
		return fmt.Errorf("--watch cannot be combined with --chain, --impact or --history")
	}
	if opts.since != "" && !opts.history {
		return fmt.Errorf("--since requires --history")
	}
	if opts.history && !cfg.DB.Enabled {
		return fmt.Errorf("--history requires [db] enabled = true")
	}

	if opts.chain {
		if len(opts.args) != 2 {
			return fmt.Errorf("chain mode requires two file arguments: depscan --chain <from> <to>")
		}
	} else if len(opts.args) > 0 {
		cfg.ScanPaths = opts.args
	}

	flagBool := func(name string, value bool, target *bool) {
		if opts.set[name] {
			*target = value
		}
	}
	flagBool("deps", opts.deps, &cfg.Report.Dependencies)
	flagBool("scc", opts.scc, &cfg.Report.StrongComponents)
	flagBool("recursive", opts.recursive, &cfg.Scan.Recursive)
	flagBool("types", opts.types, &cfg.Report.TypeTable)
	flagBool("aliases", opts.aliases, &cfg.Report.AliasTable)
	flagBool("metrics", opts.metrics, &cfg.Report.Metrics)
	flagBool("watch", opts.watch, &cfg.Watch.Enabled)

	if opts.format != "" {
		cfg.Report.Formats = []string{opts.format}
	}
	if opts.output != "" {
		cfg.Report.OutputFile = opts.output
	}
	if opts.logFile != "" {
		cfg.Log.File = opts.logFile
	}
	if opts.workers > 0 {
		cfg.Analysis.Workers = opts.workers
	}
	return nil
}

func writeReport(a *coreapp.App, res *analysis.Result, stdout io.Writer) error {
	target := a.Config.Report.OutputFile
	if target == "" {
		return a.Report(stdout, res)
	}
	if dir := filepath.Dir(target); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(target)
	if err != nil {
		return err
	}
	if err := a.Report(f, res); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func runQueryCommand(res *analysis.Result, opts cliOptions, stdout, stderr io.Writer) (bool, int) {
	g := res.Repo.Graph()

	if opts.chain {
		from, to := absPath(opts.args[0]), absPath(opts.args[1])
		chain, ok := g.FindChain(from, to)
		if !ok {
			fmt.Fprintf(stderr, "no dependency chain from %s to %s\n", opts.args[0], opts.args[1])
			return true, 1
		}
		_ = report.ShowChain(stdout, chain)
		return true, 0
	}

	if opts.impact != "" {
		impact, err := g.Impact(absPath(opts.impact))
		if err != nil {
			if errors.Is(err, graph.ErrImpactTargetNotFound) {
				fmt.Fprintf(stderr, "%s was not analyzed\n", opts.impact)
			} else {
				slog.Error("impact analysis failed", "error", err)
			}
			return true, 1
		}
		_ = report.ShowImpact(stdout, impact)
		return true, 0
	}
	return false, 0
}

func runHistory(ctx context.Context, a *coreapp.App, opts cliOptions, stdout, stderr io.Writer) int {
	since, err := parseSince(opts.since)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}
	snaps, err := a.History(ctx, since)
	if err != nil {
		slog.Error("failed to load history", "error", err)
		return 1
	}
	report.HistoryTable(stdout, snaps)
	return 0
}

func parseSince(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts.UTC(), nil
	}
	if d, err := time.Parse("2006-01-02", value); err == nil {
		return d.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid --since value %q: expected RFC3339 or YYYY-MM-DD", value)
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
