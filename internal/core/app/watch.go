package app

import (
	"context"
	"log/slog"

	"depscan/internal/core/watcher"
	"depscan/internal/shared/util"
)

// Watch reruns the analysis whenever matching files change under the scan
// roots, at most Watch.MaxRate times per second. It blocks until ctx is
// done.
func (a *App) Watch(ctx context.Context) error {
	throttle := util.NewThrottle(a.Config.Watch.MaxRate)
	changes := make(chan []string, 1)

	w, err := watcher.New(a.Config.Watch.Debounce, a.filter, a.Config.Scan.Recursive, func(paths []string) {
		select {
		case changes <- paths:
		case <-ctx.Done():
		}
	})
	if err != nil {
		return err
	}
	defer w.Close()

	roots := a.Config.ScanPaths
	if err := w.Watch(roots); err != nil {
		return err
	}
	slog.Info("watching for changes", "roots", roots, "debounce", a.Config.Watch.Debounce)

	for {
		select {
		case <-ctx.Done():
			return nil
		case changed := <-changes:
			changed = a.drain(changes, changed)
			if err := throttle.Wait(ctx); err != nil {
				return nil
			}
			a.rerun(ctx, changed)
		}
	}
}

// drain merges batches that queued up while a run was in progress.
func (a *App) drain(changes <-chan []string, first []string) []string {
	all := first
	for {
		select {
		case more := <-changes:
			all = append(all, more...)
		default:
			return util.Dedupe(all)
		}
	}
}

func (a *App) rerun(ctx context.Context, changed []string) {
	slog.Info("changes detected", "files", len(changed))
	res, err := a.Run(ctx)
	if err != nil {
		if ctx.Err() == nil {
			slog.Error("rerun failed", "error", err)
		}
		return
	}
	a.emitUpdate(Update{Result: res, Changed: changed})
}
