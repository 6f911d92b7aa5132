package app

import (
	"context"
	"log/slog"
	"time"

	"depscan/internal/data/history"
	"depscan/internal/engine/analysis"
)

// Analyze runs both passes over files and records the run in history when
// a store is configured. A history write failure is logged, not returned.
func (a *App) Analyze(ctx context.Context, files []string) (*analysis.Result, error) {
	res, err := a.analyzer.Run(ctx, files)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.last = res
	a.mu.Unlock()

	if a.store != nil {
		snap, err := a.store.Save(ctx, snapshotOf(res, a.Config.DB.ProjectKey))
		if err != nil {
			slog.Warn("failed to record history snapshot", "error", err)
		} else {
			slog.Debug("recorded history snapshot", "run_id", snap.RunID)
		}
	}
	return res, nil
}

func snapshotOf(res *analysis.Result, projectKey string) history.Snapshot {
	snap := history.Snapshot{
		ProjectKey:     projectKey,
		Timestamp:      time.Now().UTC(),
		FileCount:      len(res.Files),
		FailureCount:   len(res.Failures),
		TypeCount:      res.Repo.Types().Count(),
		EdgeCount:      res.Repo.Graph().EdgeCount(),
		ComponentCount: len(res.Components),
		CyclicCount:    len(res.Cyclic()),
		Duration:       res.Duration,
	}
	for _, m := range res.Repo.Graph().Metrics() {
		snap.MaxFanIn = max(snap.MaxFanIn, m.FanIn)
		snap.MaxFanOut = max(snap.MaxFanOut, m.FanOut)
	}
	return snap
}

// History returns snapshots recorded since the given time, oldest first.
func (a *App) History(ctx context.Context, since time.Time) ([]history.Snapshot, error) {
	if a.store == nil {
		return nil, nil
	}
	return a.store.Load(ctx, a.Config.DB.ProjectKey, since)
}
