package cache

import (
	"strconv"
	"time"

	"spendlog/internal/core"
)

// SummaryCache memoizes one spending summary per user. Writes to a
// user's expenses must call Invalidate so the next dashboard render
// recomputes.
type SummaryCache struct {
	cache *TTLCache[core.Summary]
}

func NewSummaryCache(maxUsers int, ttl time.Duration) *SummaryCache {
	return &SummaryCache{cache: NewTTLCache[core.Summary](maxUsers, ttl)}
}

func (s *SummaryCache) Get(userID int64) (core.Summary, bool) {
	return s.cache.Get(key(userID))
}

func (s *SummaryCache) Set(userID int64, summary core.Summary) {
	s.cache.Set(key(userID), summary)
}

func (s *SummaryCache) Invalidate(userID int64) {
	s.cache.Delete(key(userID))
}

// CleanExpired removes expired entries, satisfying the periodic sweep
// run by the server.
func (s *SummaryCache) CleanExpired() int {
	return s.cache.CleanExpired()
}

func key(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
