package app

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	domainErrors "depscan/internal/core/errors"
	"depscan/internal/shared/util"
)

// Scan enumerates the files to analyze under the configured roots. Paths
// are absolute and ordered by root, then lexically within each root.
func (a *App) Scan() ([]string, error) {
	var files []string
	for _, root := range a.Config.ScanPaths {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, domainErrors.Wrap(err, domainErrors.CodeValidationError, "resolve scan path")
		}
		found, err := a.scanRoot(abs)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return util.Dedupe(files), nil
}

func (a *App) scanRoot(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		wrapped := domainErrors.Wrap(err, domainErrors.CodeNotFound, "scan path")
		return nil, domainErrors.AddContext(wrapped, domainErrors.CtxPath, root)
	}
	if !info.IsDir() {
		if a.filter.MatchFile(root) {
			return []string{root}, nil
		}
		return nil, nil
	}

	if !a.Config.Scan.Recursive {
		entries, err := os.ReadDir(root)
		if err != nil {
			wrapped := domainErrors.Wrap(err, domainErrors.CodeSourceUnavailable, "read scan directory")
			return nil, domainErrors.AddContext(wrapped, domainErrors.CtxPath, root)
		}
		var files []string
		for _, e := range entries {
			p := filepath.Join(root, e.Name())
			if !e.IsDir() && a.filter.MatchFile(p) {
				files = append(files, p)
			}
		}
		sort.Strings(files)
		return files, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && a.filter.SkipDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if a.filter.MatchFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		wrapped := domainErrors.Wrap(err, domainErrors.CodeSourceUnavailable, "walk scan directory")
		return nil, domainErrors.AddContext(wrapped, domainErrors.CtxPath, root)
	}
	return files, nil
}
