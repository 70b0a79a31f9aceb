package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// FetchFunc produces the value for a key on a cache miss. The coalescer
// does not know where the value comes from; callers compose their own
// lookup policy (persistent store, origin, or both) into this function.
type FetchFunc func() (interface{}, error)

// Coalescer deduplicates concurrent fetches for the same key and retains
// successful results until their TTL expires. Failures are never
// retained: the key becomes immediately available for a fresh attempt.
//
// There is no maximum size and no eviction beyond the TTL. Under
// sustained load across many distinct keys the entry table grows until
// the periodic sweep removes expired entries. That is a known capacity
// risk carried over deliberately rather than masked with LRU behaviour.
type Coalescer struct {
	ttl time.Duration

	mu      sync.RWMutex
	entries map[string]entry

	group singleflight.Group
}

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// NewCoalescer creates a coalescer whose successful results live for ttl
func NewCoalescer(ttl time.Duration) *Coalescer {
	return &Coalescer{
		ttl:     ttl,
		entries: make(map[string]entry),
	}
}

// Get returns the cached value for key if one is present and fresh,
// otherwise it arranges for fetch to run exactly once no matter how many
// callers arrive concurrently for the same key. Every caller joined on
// the in-flight fetch observes the same value or the same error.
//
// ctx bounds only this caller's wait. A caller that gives up leaves the
// shared fetch running for the other joiners; the eventual result is
// still cached.
func (c *Coalescer) Get(
	ctx context.Context,
	key string,
	fetch FetchFunc,
) (interface{}, error) {
	c.mu.RLock()
	ent, ok := c.entries[key]
	c.mu.RUnlock()

	if ok && time.Now().Before(ent.expiresAt) {
		return ent.value, nil
	}

	// The singleflight group owns the miss-to-pending transition: of
	// all the callers that observed a miss, exactly one runs the load
	// and the rest join it.
	ch := c.group.DoChan(key, func() (interface{}, error) {
		return c.load(key, fetch)
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// load runs under the singleflight group. A previous flight for the
// same key may have completed between a caller's miss and this one
// starting, so the table is checked once more before fetching. The
// fetch itself runs outside the entry table lock so a slow key never
// blocks unrelated keys.
func (c *Coalescer) load(key string, fetch FetchFunc) (interface{}, error) {
	c.mu.RLock()
	ent, ok := c.entries[key]
	c.mu.RUnlock()

	if ok && time.Now().Before(ent.expiresAt) {
		return ent.value, nil
	}

	val, err := fetch()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = entry{
		value:     val,
		expiresAt: time.Now().Add(c.ttl),
	}
	c.mu.Unlock()

	return val, nil
}

// Delete removes the entry for key, if any. In-flight fetches are not
// affected; their result will still be stored when they complete.
func (c *Coalescer) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Sweep removes every expired entry and returns how many were removed.
// Expired entries are otherwise only replaced lazily on the next Get for
// their key, so this is run periodically to bound table growth.
func (c *Coalescer) Sweep() int {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	var swept int
	for key, ent := range c.entries {
		if now.After(ent.expiresAt) {
			delete(c.entries, key)
			swept++
		}
	}

	return swept
}

// Len returns the number of entries currently in the table, including
// expired entries that have not yet been swept
func (c *Coalescer) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
