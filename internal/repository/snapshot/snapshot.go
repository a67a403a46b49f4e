package snapshot

import (
	"context"
	"errors"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// ErrStaleRefresh is returned when a refresh resolves after a newer refresh
// has already been applied. The late result is dropped instead of silently
// overwriting the fresher one.
var ErrStaleRefresh = errors.New("snapshot refresh superseded by a newer one")

// Snapshot is an immutable view of a dataset plus the generation token it was
// produced under. Generations increase monotonically per cache.
type Snapshot[T any] struct {
	Value      T
	Generation uint64
	FetchedAt  time.Time
}

// Fetcher loads the dataset from the backing store.
type Fetcher[T any] func(ctx context.Context) (T, error)

// Cache is a read-through, session-lifetime cache over one dataset. Reads
// serve the cached snapshot until the TTL lapses; refreshes are ordered by a
// ticket so a racing refresh is detectable rather than last-resolved-wins.
type Cache[T any] struct {
	name  string
	store *gocache.Cache
	fetch Fetcher[T]

	mu  sync.Mutex
	gen uint64 // generation of the last applied refresh
	seq uint64 // tickets issued to started refreshes
}

func NewCache[T any](name string, ttl time.Duration, fetch Fetcher[T]) *Cache[T] {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache[T]{
		name:  name,
		store: gocache.New(ttl, 2*ttl),
		fetch: fetch,
	}
}

// Get returns the cached snapshot, refreshing from the store when the cache
// is empty or expired.
func (c *Cache[T]) Get(ctx context.Context) (Snapshot[T], error) {
	if v, ok := c.store.Get(c.name); ok {
		return v.(Snapshot[T]), nil
	}
	snap, err := c.Refresh(ctx)
	if errors.Is(err, ErrStaleRefresh) {
		// Someone else refreshed first; their snapshot is the fresh one.
		if v, ok := c.store.Get(c.name); ok {
			return v.(Snapshot[T]), nil
		}
	}
	return snap, err
}

// Refresh fetches the dataset and installs it under a new generation. If a
// refresh that started later has already been applied, the result is dropped
// and ErrStaleRefresh is returned.
func (c *Cache[T]) Refresh(ctx context.Context) (Snapshot[T], error) {
	c.mu.Lock()
	c.seq++
	ticket := c.seq
	c.mu.Unlock()

	value, err := c.fetch(ctx)
	if err != nil {
		var zero Snapshot[T]
		return zero, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if ticket <= c.gen {
		var zero Snapshot[T]
		return zero, ErrStaleRefresh
	}

	c.gen = ticket
	snap := Snapshot[T]{
		Value:      value,
		Generation: ticket,
		FetchedAt:  time.Now(),
	}
	c.store.Set(c.name, snap, gocache.DefaultExpiration)
	return snap, nil
}

// Generation returns the generation of the last applied refresh.
func (c *Cache[T]) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// Invalidate drops the cached snapshot so the next Get refetches.
func (c *Cache[T]) Invalidate() {
	c.store.Delete(c.name)
}
