package orm

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultStatementCacheSize = 256

// statementCache holds rendered SQL text keyed by statement shape. Filter
// key sets are chosen by callers, so the cache is bounded.
type statementCache struct {
	cache *lru.Cache[string, string]
	mu    sync.RWMutex
}

func newStatementCache(size int) *statementCache {
	if size <= 0 {
		size = defaultStatementCacheSize
	}
	cache, _ := lru.New[string, string](size)
	return &statementCache{cache: cache}
}

// getOrBuild returns the cached text for key, calling build on a miss.
func (s *statementCache) getOrBuild(key string, build func() string) string {
	s.mu.RLock()
	if q, ok := s.cache.Get(key); ok {
		s.mu.RUnlock()
		return q
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if q, ok := s.cache.Get(key); ok {
		return q
	}
	q := build()
	s.cache.Add(key, q)
	return q
}

func (s *statementCache) len() int {
	return s.cache.Len()
}
