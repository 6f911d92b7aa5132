package analysis

import (
	"context"
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	domainErrors "depscan/internal/core/errors"
	"depscan/internal/engine/lexer"
	"depscan/internal/shared/observability"
)

// SemiSource yields every semi-expression of a file in order.
type SemiSource interface {
	Semis(ctx context.Context, path string) ([]lexer.Semi, error)
}

// LexerSource reads files from disk through the tokenizer.
type LexerSource struct {
	Options []lexer.Option
}

func (s LexerSource) Semis(ctx context.Context, path string) ([]lexer.Semi, error) {
	se := lexer.NewSemiExp(s.Options...)
	if err := se.Open(path); err != nil {
		return nil, err
	}
	defer se.Close()

	var out []lexer.Semi
	for semi := se.Get(); semi.Len() > 0; semi = se.Get() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out = append(out, semi)
	}
	if err := se.Err(); err != nil {
		wrapped := domainErrors.Wrap(err, domainErrors.CodeSourceUnavailable, "read source")
		return nil, domainErrors.AddContext(wrapped, domainErrors.CtxPath, path)
	}
	return out, nil
}

type cachedSemis struct {
	modTime time.Time
	size    int64
	semis   []lexer.Semi
}

// CachedSource memoizes another source by path. An entry is reused only
// while the file's modification time and size are unchanged.
type CachedSource struct {
	inner SemiSource
	cache *lru.Cache[string, cachedSemis]
}

func NewCachedSource(inner SemiSource, size int) (*CachedSource, error) {
	if size <= 0 {
		size = 1024
	}
	cache, err := lru.New[string, cachedSemis](size)
	if err != nil {
		return nil, domainErrors.Wrap(err, domainErrors.CodeValidationError, "create semi cache")
	}
	return &CachedSource{inner: inner, cache: cache}, nil
}

func (c *CachedSource) Semis(ctx context.Context, path string) ([]lexer.Semi, error) {
	info, err := os.Stat(path)
	if err != nil {
		wrapped := domainErrors.Wrap(err, domainErrors.CodeSourceUnavailable, "stat source")
		return nil, domainErrors.AddContext(wrapped, domainErrors.CtxPath, path)
	}
	if hit, ok := c.cache.Get(path); ok && hit.modTime.Equal(info.ModTime()) && hit.size == info.Size() {
		observability.SemiCacheHits.Inc()
		return hit.semis, nil
	}
	semis, err := c.inner.Semis(ctx, path)
	if err != nil {
		c.cache.Remove(path)
		return nil, err
	}
	c.cache.Add(path, cachedSemis{modTime: info.ModTime(), size: info.Size(), semis: semis})
	return semis, nil
}

// Len is the number of cached files.
func (c *CachedSource) Len() int {
	return c.cache.Len()
}
