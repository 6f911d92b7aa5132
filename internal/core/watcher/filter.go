package watcher

import (
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"depscan/internal/shared/util"
)

// Filter decides which files and directories take part in a scan.
type Filter struct {
	pattern      glob.Glob
	substrings   []string
	excludeDirs  []glob.Glob
	excludeFiles []glob.Glob
}

// NewFilter compiles the file pattern (e.g. "*.cs") and the exclusion
// globs. Globs match base names only.
func NewFilter(pattern string, excludeSubstrings, excludeDirs, excludeFiles []string) (*Filter, error) {
	p, err := glob.Compile(pattern)
	if err != nil {
		return nil, err
	}
	dirs, err := compileAll(excludeDirs)
	if err != nil {
		return nil, err
	}
	files, err := compileAll(excludeFiles)
	if err != nil {
		return nil, err
	}
	return &Filter{
		pattern:      p,
		substrings:   excludeSubstrings,
		excludeDirs:  dirs,
		excludeFiles: files,
	}, nil
}

func compileAll(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

// SkipDir reports whether the directory at path is excluded.
func (f *Filter) SkipDir(path string) bool {
	base := filepath.Base(path)
	for _, g := range f.excludeDirs {
		if g.Match(base) {
			return true
		}
	}
	return false
}

// MatchFile reports whether the file at path should be analyzed.
func (f *Filter) MatchFile(path string) bool {
	base := filepath.Base(path)
	if !f.pattern.Match(strings.ToLower(base)) && !f.pattern.Match(base) {
		return false
	}
	if util.ContainsAny(filepath.ToSlash(path), f.substrings) {
		return false
	}
	for _, g := range f.excludeFiles {
		if g.Match(base) {
			return false
		}
	}
	return true
}
