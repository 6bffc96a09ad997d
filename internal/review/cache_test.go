package review

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linguaops/linguaflow/internal/model"
)

func TestPageCache_ConcurrentRequestsShareOneFetch(t *testing.T) {
	cache := newPageCache()
	var fetches atomic.Int32

	fetch := func(ctx context.Context, fileID string) ([]model.PageRecord, error) {
		fetches.Add(1)
		time.Sleep(10 * time.Millisecond)
		return []model.PageRecord{{PageNumber: 1}}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pages, err := cache.get(context.Background(), "f1", fetch)
			assert.NoError(t, err)
			assert.Len(t, pages, 1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), fetches.Load())
}

func TestPageCache_ErrorsAreNotCached(t *testing.T) {
	cache := newPageCache()
	var fetches atomic.Int32

	failing := func(ctx context.Context, fileID string) ([]model.PageRecord, error) {
		fetches.Add(1)
		return nil, errors.New("store down")
	}
	_, err := cache.get(context.Background(), "f1", failing)
	require.Error(t, err)

	working := func(ctx context.Context, fileID string) ([]model.PageRecord, error) {
		fetches.Add(1)
		return []model.PageRecord{{PageNumber: 1}}, nil
	}
	pages, err := cache.get(context.Background(), "f1", working)
	require.NoError(t, err)
	assert.Len(t, pages, 1)
	assert.Equal(t, int32(2), fetches.Load())
}
