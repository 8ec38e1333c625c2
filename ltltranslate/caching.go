package ltltranslate

import (
	"context"
	"sync"

	"github.com/paramsynth/guardsynth/ast"
	"github.com/paramsynth/guardsynth/automaton"
)

// CachingTranslator memoizes another Translator by the canonical string
// form of the formula translated — translation is pure, so the same
// formula always yields the same automaton and a structural-equality
// cache never goes stale.
type CachingTranslator struct {
	inner Translator

	mu    sync.Mutex
	cache map[string]*automaton.Automaton
}

// NewCachingTranslator wraps inner with a cache keyed on e.String().
func NewCachingTranslator(inner Translator) *CachingTranslator {
	return &CachingTranslator{inner: inner, cache: make(map[string]*automaton.Automaton)}
}

// ToUCW returns the cached automaton for e if present, otherwise delegates
// to the wrapped Translator and caches the result. A failed translation is
// never cached, so a transient backend error does not poison later calls.
func (c *CachingTranslator) ToUCW(ctx context.Context, e ast.Expr) (*automaton.Automaton, error) {
	key := e.String()

	c.mu.Lock()
	if cached, ok := c.cache[key]; ok {
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	a, err := c.inner.ToUCW(ctx, e)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache[key] = a
	c.mu.Unlock()
	return a, nil
}
