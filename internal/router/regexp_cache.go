package router

import (
	"regexp"
	"sync"
)

// regexpCacheMaxSize bounds the process-wide compiled pattern cache.
const regexpCacheMaxSize = 4096

type regexpCacheEntry struct {
	re          *regexp.Regexp
	accessOrder int64
}

// Compiled matchers are shared between tables so that a reload or a
// restore from the table cache recompiles only new patterns.
var (
	regexpCache         = make(map[string]*regexpCacheEntry)
	regexpCacheMu       sync.Mutex
	regexpAccessCounter int64
)

// compileCached compiles expr or returns the cached *regexp.Regexp.
func compileCached(expr string) (*regexp.Regexp, error) {
	m := GetMetrics()

	regexpCacheMu.Lock()
	if entry, ok := regexpCache[expr]; ok {
		regexpAccessCounter++
		entry.accessOrder = regexpAccessCounter
		regexpCacheMu.Unlock()
		m.regexpCacheHits.Inc()
		return entry.re, nil
	}
	regexpCacheMu.Unlock()

	m.regexpCacheMisses.Inc()

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}

	regexpCacheMu.Lock()
	defer regexpCacheMu.Unlock()

	// another goroutine may have won the race
	if existing, ok := regexpCache[expr]; ok {
		regexpAccessCounter++
		existing.accessOrder = regexpAccessCounter
		return existing.re, nil
	}

	if len(regexpCache) >= regexpCacheMaxSize {
		evictLRURegexp()
		m.regexpCacheEvictions.Inc()
	}

	regexpAccessCounter++
	regexpCache[expr] = &regexpCacheEntry{re: re, accessOrder: regexpAccessCounter}
	m.regexpCacheSize.Set(float64(len(regexpCache)))

	return re, nil
}

// evictLRURegexp removes the least recently used entry.
// Must be called with regexpCacheMu held.
func evictLRURegexp() {
	var lruKey string
	var lruOrder int64 = -1

	for key, entry := range regexpCache {
		if lruOrder == -1 || entry.accessOrder < lruOrder {
			lruOrder = entry.accessOrder
			lruKey = key
		}
	}

	if lruOrder != -1 {
		delete(regexpCache, lruKey)
	}
}
