package review

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/linguaops/linguaflow/internal/model"
)

// pageCache holds lazily fetched page records for the lifetime of one
// review session. Entries are never evicted, and concurrent requests for
// the same file id share a single in-flight fetch.
type pageCache struct {
	mu      sync.RWMutex
	pages   map[string][]model.PageRecord
	flights singleflight.Group
}

func newPageCache() *pageCache {
	return &pageCache{pages: make(map[string][]model.PageRecord)}
}

type fetchFunc func(ctx context.Context, fileID string) ([]model.PageRecord, error)

// get returns the cached pages for fileID, fetching them at most once.
func (c *pageCache) get(ctx context.Context, fileID string, fetch fetchFunc) ([]model.PageRecord, error) {
	c.mu.RLock()
	pages, ok := c.pages[fileID]
	c.mu.RUnlock()
	if ok {
		return pages, nil
	}

	v, err, _ := c.flights.Do(fileID, func() (any, error) {
		fetched, fetchErr := fetch(ctx, fileID)
		if fetchErr != nil {
			return nil, fetchErr
		}
		c.mu.Lock()
		c.pages[fileID] = fetched
		c.mu.Unlock()
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.PageRecord), nil
}
