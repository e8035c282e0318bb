package compiler

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

// CachingLoader wraps a ClassFileLoader with an LRU cache. The hierarchy
// scan resolves the same superclasses and interfaces once per subclass, so
// repeat lookups dominate; providers that parse lazily stay cheap behind
// this decorator. Misses are cached too.
type CachingLoader struct {
	backing ClassFileLoader
	cache   *lru.Cache
}

// NewCachingLoader creates a decorator holding at most size entries.
func NewCachingLoader(backing ClassFileLoader, size int) (*CachingLoader, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "class cache")
	}
	return &CachingLoader{backing: backing, cache: cache}, nil
}

// Get returns the cached metadata, loading through on a miss.
func (l *CachingLoader) Get(name string) (*ClassInfo, error) {
	if cached, ok := l.cache.Get(name); ok {
		if cached == nil {
			return nil, nil
		}
		return cached.(*ClassInfo), nil
	}
	info, err := l.backing.Get(name)
	if err != nil {
		return nil, errors.Wrapf(err, "loading class %s", name)
	}
	if info == nil {
		l.cache.Add(name, nil)
		return nil, nil
	}
	l.cache.Add(name, info)
	return info, nil
}
