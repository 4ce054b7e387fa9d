package handlers

import (
	"strings"
	"sync"
	"time"
)

type reportCacheEntry struct {
	value     any
	expiresAt time.Time
}

const reportCacheMaxEntries = 200

var (
	reportCacheMu sync.Mutex
	reportCache   = map[string]reportCacheEntry{}
)

func reportCacheKey(scope string, parts ...string) string {
	segments := make([]string, 0, 1+len(parts))
	segments = append(segments, scope)
	segments = append(segments, parts...)
	return strings.Join(segments, "|")
}

func getReportCache(key string) (any, bool) {
	reportCacheMu.Lock()
	defer reportCacheMu.Unlock()

	entry, ok := reportCache[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(reportCache, key)
		return nil, false
	}
	return entry.value, true
}

func setReportCache(key string, value any, ttl time.Duration) {
	reportCacheMu.Lock()
	defer reportCacheMu.Unlock()

	reportCache[key] = reportCacheEntry{value: value, expiresAt: time.Now().Add(ttl)}
	if len(reportCache) > reportCacheMaxEntries {
		reportCache = map[string]reportCacheEntry{}
	}
}
