package bd

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/runoshun/skillbeads/internal/domain"
	"golang.org/x/sync/singleflight"
)

// availabilityCache remembers probe results per absolute directory.
// Concurrent probes for the same directory share one bd invocation.
type availabilityCache struct {
	clock   domain.Clock
	entries map[string]cacheEntry
	group   singleflight.Group
	ttl     time.Duration
	mu      sync.Mutex
}

type cacheEntry struct {
	expires time.Time
	err     error
}

func newAvailabilityCache(ttl time.Duration, clock domain.Clock) *availabilityCache {
	return &availabilityCache{
		clock:   clock,
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

// check returns the cached result for dir or runs probe to get a fresh one.
// The shared probe runs detached from any single caller, so each caller only
// gives up on its own ctx; the probe itself is bounded by the probe timeout.
func (c *availabilityCache) check(ctx context.Context, dir string, probe func(context.Context) error) error {
	if entry, ok := c.lookup(dir); ok {
		return entry.err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvocationFailed, err)
	}

	ch := c.group.DoChan(dir, func() (any, error) {
		err := probe(context.WithoutCancel(ctx))
		c.store(dir, err)
		return nil, err
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", domain.ErrInvocationFailed, ctx.Err())
	}
}

func (c *availabilityCache) lookup(dir string) (cacheEntry, bool) {
	if c.ttl <= 0 {
		return cacheEntry{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[dir]
	if !ok {
		return cacheEntry{}, false
	}
	if !c.clock.Now().Before(entry.expires) {
		delete(c.entries, dir)
		return cacheEntry{}, false
	}
	return entry, true
}

func (c *availabilityCache) store(dir string, err error) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[dir] = cacheEntry{expires: c.clock.Now().Add(c.ttl), err: err}
}

// invalidate forgets the result for dir.
func (c *availabilityCache) invalidate(dir string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, dir)
}
