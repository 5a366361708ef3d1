package marketdata

import (
	"fmt"
	"sync"
	"time"

	"github.com/equitylab/equity-navigator/internal/types"
)

// SeriesCache is the session-scoped cache of fetched price series. It only
// avoids redundant provider calls within one server session; nothing is
// persisted.
type SeriesCache struct {
	mu      sync.RWMutex
	entries map[string]*types.PriceSeries
}

// NewSeriesCache creates an empty cache.
func NewSeriesCache() *SeriesCache {
	return &SeriesCache{
		entries: make(map[string]*types.PriceSeries),
	}
}

// Key builds the cache key for a fetch request.
func Key(ticker string, start, end time.Time, timespan Timespan) string {
	return fmt.Sprintf("%s|%d|%d|%s", ticker, start.Unix(), end.Unix(), timespan)
}

// Get returns the cached series for the key, if present.
func (c *SeriesCache) Get(key string) (*types.PriceSeries, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	series, ok := c.entries[key]

	return series, ok
}

// Put stores a series under the key.
func (c *SeriesCache) Put(key string, series *types.PriceSeries) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = series
}

// Reset clears the cache.
func (c *SeriesCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*types.PriceSeries)
}

// Len returns the number of cached series.
func (c *SeriesCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
