package snapshot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetReadsThrough(t *testing.T) {
	calls := 0
	c := NewCache("test", time.Minute, func(ctx context.Context) ([]string, error) {
		calls++
		return []string{"a", "b"}, nil
	})

	snap, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, snap.Value)
	assert.Equal(t, uint64(1), snap.Generation)

	// Second read is served from cache.
	_, err = c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRefreshBumpsGeneration(t *testing.T) {
	c := NewCache("test", time.Minute, func(ctx context.Context) (int, error) {
		return 42, nil
	})

	var last uint64
	for i := 0; i < 5; i++ {
		snap, err := c.Refresh(context.Background())
		require.NoError(t, err)
		assert.Greater(t, snap.Generation, last)
		last = snap.Generation
	}
	assert.Equal(t, last, c.Generation())
}

func TestStaleRefreshDropped(t *testing.T) {
	var (
		mu    sync.Mutex
		calls int
	)
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	c := NewCache("test", time.Minute, func(ctx context.Context) (int, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			close(firstStarted)
			<-releaseFirst
		}
		return n, nil
	})

	// First refresh takes ticket 1 and stalls in the fetcher.
	var (
		wg       sync.WaitGroup
		firstErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = c.Refresh(context.Background())
	}()
	<-firstStarted

	// Second refresh starts later and finishes first.
	snap, err := c.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Value)
	assert.Equal(t, uint64(2), snap.Generation)

	// The first refresh resolves late and is dropped, not applied.
	close(releaseFirst)
	wg.Wait()
	assert.ErrorIs(t, firstErr, ErrStaleRefresh)

	got, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, got.Value)
	assert.Equal(t, uint64(2), c.Generation())
}

func TestRefreshFetchError(t *testing.T) {
	boom := errors.New("store down")
	c := NewCache("test", time.Minute, func(ctx context.Context) (int, error) {
		return 0, boom
	})

	_, err := c.Refresh(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, uint64(0), c.Generation())
}

func TestInvalidateForcesRefetch(t *testing.T) {
	calls := 0
	c := NewCache("test", time.Minute, func(ctx context.Context) (int, error) {
		calls++
		return calls, nil
	})

	snap, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Value)

	c.Invalidate()

	snap, err = c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Value)
	assert.Equal(t, uint64(2), snap.Generation)
}
