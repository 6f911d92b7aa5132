// Package app wires configuration, file discovery, analysis, outputs,
// watching and history into one service.
package app

import (
	"context"
	"sync"

	"depscan/internal/core/config"
	"depscan/internal/core/watcher"
	"depscan/internal/data/history"
	"depscan/internal/engine/analysis"
	"depscan/internal/engine/rules"
)

// Update is delivered to the update handler after every analysis.
type Update struct {
	Result  *analysis.Result
	Changed []string
}

type App struct {
	Config *config.Config

	analyzer *analysis.Analyzer
	source   *analysis.CachedSource
	filter   *watcher.Filter
	store    *history.Store

	mu   sync.RWMutex
	last *analysis.Result

	updateMu sync.RWMutex
	onUpdate func(Update)
}

func New(cfg *config.Config) (*App, error) {
	filter, err := watcher.NewFilter(cfg.Scan.Pattern, cfg.Scan.ExcludeSubstrings, cfg.Scan.ExcludeDirs, cfg.Scan.ExcludeFiles)
	if err != nil {
		return nil, err
	}

	source, err := analysis.NewCachedSource(analysis.LexerSource{}, cfg.Caches.Semis)
	if err != nil {
		return nil, err
	}

	opts := rules.DefaultOptions()
	if cfg.Analysis.BuiltinRoot != "" {
		opts.BuiltinRoot = cfg.Analysis.BuiltinRoot
	}
	if len(cfg.Analysis.ControlKeywords) > 0 {
		opts.ControlKeywords = cfg.Analysis.ControlKeywords
	}

	a := &App{
		Config: cfg,
		analyzer: analysis.New(analysis.Config{
			Rules:   opts,
			Workers: cfg.Analysis.Workers,
		}, source),
		source: source,
		filter: filter,
	}

	if cfg.DB.Enabled {
		store, err := history.Open(cfg.DB.Path)
		if err != nil {
			return nil, err
		}
		a.store = store
	}
	return a, nil
}

func (a *App) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

func (a *App) SetUpdateHandler(handler func(Update)) {
	a.updateMu.Lock()
	defer a.updateMu.Unlock()
	a.onUpdate = handler
}

func (a *App) emitUpdate(update Update) {
	a.updateMu.RLock()
	handler := a.onUpdate
	a.updateMu.RUnlock()
	if handler != nil {
		handler(update)
	}
}

// Last returns the most recent analysis result, or nil before the first run.
func (a *App) Last() *analysis.Result {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.last
}

// Run scans, analyzes and writes outputs once.
func (a *App) Run(ctx context.Context) (*analysis.Result, error) {
	files, err := a.Scan()
	if err != nil {
		return nil, err
	}
	res, err := a.Analyze(ctx, files)
	if err != nil {
		return nil, err
	}
	if err := a.WriteOutputs(res); err != nil {
		return nil, err
	}
	return res, nil
}
