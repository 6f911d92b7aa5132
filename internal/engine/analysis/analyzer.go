// Package analysis runs the two passes over a file set: the type pass
// collects declarations, the dependency pass resolves references into
// graph edges, and the graph is then split into strong components.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	domainErrors "depscan/internal/core/errors"
	"depscan/internal/engine/repository"
	"depscan/internal/engine/rules"
	"depscan/internal/shared/observability"
)

const (
	PassTypes        = "types"
	PassDependencies = "dependencies"
)

type Config struct {
	Rules rules.Options
	// Workers bounds type-pass concurrency. Values below 1 mean 1.
	Workers int
}

// FileError records a file that was skipped in one pass.
type FileError struct {
	Path string
	Pass string
	Err  error
}

func (f FileError) Code() domainErrors.ErrorCode {
	return domainErrors.CodeOf(f.Err)
}

type Result struct {
	Repo       *repository.Repository
	Files      []string
	Components [][]int
	Failures   []FileError
	Duration   time.Duration
}

// Cyclic returns the components with more than one member.
func (r *Result) Cyclic() [][]int {
	var out [][]int
	for _, c := range r.Components {
		if len(c) > 1 {
			out = append(out, c)
		}
	}
	return out
}

type Analyzer struct {
	cfg    Config
	source SemiSource
}

// New returns an analyzer reading through source, or straight from disk
// when source is nil.
func New(cfg Config, source SemiSource) *Analyzer {
	if source == nil {
		source = LexerSource{}
	}
	if cfg.Rules.BuiltinRoot == "" && len(cfg.Rules.ControlKeywords) == 0 {
		cfg.Rules = rules.DefaultOptions()
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Analyzer{cfg: cfg, source: source}
}

// Run analyzes files into a fresh repository.
func (a *Analyzer) Run(ctx context.Context, files []string) (*Result, error) {
	return a.RunWith(ctx, repository.New(), files)
}

// RunWith analyzes files into repo. Files that cannot be read or parsed
// are recorded in Result.Failures and skipped; only context cancellation
// aborts the run.
func (a *Analyzer) RunWith(ctx context.Context, repo *repository.Repository, files []string) (*Result, error) {
	ctx, span := observability.Tracer.Start(ctx, "analysis.Run", trace.WithAttributes(
		attribute.Int("files", len(files)),
		attribute.Int("workers", a.cfg.Workers),
	))
	defer span.End()

	start := time.Now()
	res := &Result{Repo: repo, Files: files}

	ok, err := a.typePass(ctx, repo, files, res)
	if err != nil {
		return nil, err
	}
	if err := a.depPass(ctx, repo, ok, res); err != nil {
		return nil, err
	}

	res.Components = repo.Graph().StrongComponents()
	res.Duration = time.Since(start)

	observability.TypesDeclared.Set(float64(repo.Types().Count()))
	observability.StrongComponents.Set(float64(len(res.Components)))
	observability.CyclicComponents.Set(float64(len(res.Cyclic())))
	span.SetAttributes(
		attribute.Int("components", len(res.Components)),
		attribute.Int("failures", len(res.Failures)),
	)
	slog.Info("analysis complete",
		"files", len(files),
		"types", repo.Types().Count(),
		"edges", repo.Graph().EdgeCount(),
		"components", len(res.Components),
		"failures", len(res.Failures),
		"duration", res.Duration,
	)
	return res, nil
}

// typePass parses every file into its own repository, then merges the
// results in file order so the outcome does not depend on scheduling.
// It returns the files that succeeded; only those enter the dependency
// pass.
func (a *Analyzer) typePass(ctx context.Context, repo *repository.Repository, files []string, res *Result) ([]string, error) {
	ctx, span := observability.Tracer.Start(ctx, "analysis.typePass")
	defer span.End()
	timer := time.Now()
	defer func() {
		observability.PassDuration.WithLabelValues(PassTypes).Observe(time.Since(timer).Seconds())
	}()

	locals := make([]*repository.Repository, len(files))
	errs := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Workers)
	for i, path := range files {
		g.Go(func() error {
			local := repository.New()
			err := a.processFile(gctx, PassTypes, path, local, rules.BuildTypeAnalyzer(local, a.cfg.Rules))
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				errs[i] = err
			}
			locals[i] = local
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ok := make([]string, 0, len(files))
	for i, path := range files {
		if errs[i] != nil {
			res.Failures = append(res.Failures, a.fail(PassTypes, path, errs[i]))
			// A file that was read but not fully parsed keeps what it
			// declared before the failure and stays in the graph.
			if !domainErrors.IsCode(errs[i], domainErrors.CodeMalformed) {
				continue
			}
		}
		repo.Merge(locals[i])
		repo.EnsureNode(path)
		if errs[i] == nil {
			ok = append(ok, path)
		}
	}
	return ok, nil
}

func (a *Analyzer) depPass(ctx context.Context, repo *repository.Repository, files []string, res *Result) error {
	ctx, span := observability.Tracer.Start(ctx, "analysis.depPass")
	defer span.End()
	timer := time.Now()
	defer func() {
		observability.PassDuration.WithLabelValues(PassDependencies).Observe(time.Since(timer).Seconds())
	}()

	scopes := rules.BuildScopeTracker(repo, a.cfg.Rules)
	deps := rules.BuildDepAnalyzer(repo, a.cfg.Rules)
	for _, path := range files {
		if err := a.processFile(ctx, PassDependencies, path, repo, scopes, deps); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			res.Failures = append(res.Failures, a.fail(PassDependencies, path, err))
		}
	}
	return nil
}

// processFile is the per-file error boundary. Panics from the rule engine
// become MALFORMED_CONSTRUCT errors for this file only. Scopes left open
// when the file ends or fails are closed at the last line read.
func (a *Analyzer) processFile(ctx context.Context, pass, path string, repo *repository.Repository, parsers ...*rules.Parser) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = domainErrors.AddContext(
				domainErrors.New(domainErrors.CodeMalformed, fmt.Sprintf("panic: %v", r)),
				domainErrors.CtxPath, path)
		}
	}()

	repo.BeginFile(path)
	last := 0
	defer func() { repo.EndFile(last) }()

	semis, err := a.source.Semis(ctx, path)
	if err != nil {
		return err
	}

	for _, semi := range semis {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, p := range parsers {
			if err := p.Parse(semi); err != nil {
				return domainErrors.AddContext(err, domainErrors.CtxPath, path)
			}
		}
		last = semi.Line
	}

	observability.SemiExpressions.WithLabelValues(pass).Add(float64(len(semis)))
	observability.FilesAnalyzed.WithLabelValues(pass).Inc()
	return nil
}

func (a *Analyzer) fail(pass, path string, err error) FileError {
	code := domainErrors.CodeOf(err)
	observability.FileErrors.WithLabelValues(pass, string(code)).Inc()
	level := slog.LevelWarn
	if errors.Is(err, context.Canceled) {
		level = slog.LevelDebug
	}
	slog.Log(context.Background(), level, "skipping file", "pass", pass, "path", path, "code", code, "error", err)
	return FileError{Path: path, Pass: pass, Err: err}
}
