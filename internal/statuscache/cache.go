// Package statuscache implements the process-wide approval-status cache
// shared by every display surface: a subscription-based map of per-image
// approval flags with staleness tracking and a bulk-fetch coordination flag.
//
// A Cache is constructed explicitly and handed to whichever consumers need
// it; there is no package-level singleton, so tests can instantiate isolated
// caches. All mutations go through the cache's own entry points, which notify
// subscribers; no other component mutates cache state directly.
package statuscache

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/shoretrace/pkg/types"
)

// Listener receives the full current status mapping after every cache
// mutation. The mapping is a snapshot owned by the listener.
type Listener func(types.StatusSet)

// Cache holds the approval-status mapping, the time of the last bulk fetch,
// and the bulk-fetch-in-progress flag. The zero value is not usable; call
// New. Safe for concurrent use.
//
// Lifecycle: created empty, populated by bulk or per-item fetches, cleared
// when the operator navigates away from a site. Never persisted across
// process restarts.
type Cache struct {
	mu        sync.RWMutex
	entries   types.StatusSet
	lastBulk  time.Time // zero until the first bulk fetch
	loading   bool
	staleness time.Duration
	listeners map[string]Listener

	// now is replaced in tests to exercise staleness without sleeping.
	now func() time.Time
}

// New creates an empty cache with the given staleness window. A
// non-positive window falls back to types.DefaultStalenessWindow.
func New(staleness time.Duration) *Cache {
	if staleness <= 0 {
		staleness = types.DefaultStalenessWindow
	}
	return &Cache{
		entries:   make(types.StatusSet),
		staleness: staleness,
		listeners: make(map[string]Listener),
		now:       time.Now,
	}
}

// Status looks up the approval flag for one image index. The second return
// value reports whether the index is present. Pure lookup, no side effects.
func (c *Cache) Status(index int) (bool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[index]
	return v, ok
}

// All returns a snapshot of the full mapping. Mutating the returned copy
// never affects cache state.
func (c *Cache) All() types.StatusSet {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries.Clone()
}

// Set upserts one entry and synchronously notifies every subscriber with the
// full updated mapping. Used for single-item corrections after an approval
// action; it never triggers a network call.
func (c *Cache) Set(index int, approved bool) {
	c.mu.Lock()
	c.entries[index] = approved
	snapshot, listeners := c.snapshotLocked()
	c.mu.Unlock()

	notify(snapshot, listeners)
}

// SetAll replaces the entire mapping, records the current time as the last
// bulk fetch, and notifies subscribers once. Used after a bulk fetch, and by
// the failure fallback that marks every known index unapproved.
func (c *Cache) SetAll(entries types.StatusSet) {
	c.mu.Lock()
	c.entries = entries.Clone()
	c.lastBulk = c.now()
	snapshot, listeners := c.snapshotLocked()
	c.mu.Unlock()

	notify(snapshot, listeners)
}

// NeedsRefresh reports whether a bulk fetch has never happened or the last
// one is older than the staleness window. The cache does not schedule
// refreshes itself; consumers use this to decide whether to trigger one.
func (c *Cache) NeedsRefresh() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.lastBulk.IsZero() {
		return true
	}
	return c.now().Sub(c.lastBulk) > c.staleness
}

// Clear empties the mapping, forgets the last bulk fetch time, and notifies
// subscribers.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(types.StatusSet)
	c.lastBulk = time.Time{}
	snapshot, listeners := c.snapshotLocked()
	c.mu.Unlock()

	notify(snapshot, listeners)
}

// Loading reports whether a bulk fetch is in progress.
func (c *Cache) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// SetLoading sets the bulk-fetch-in-progress flag. Callers bracketing a bulk
// fetch should prefer TryBeginLoad, which checks and sets atomically.
func (c *Cache) SetLoading(loading bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = loading
}

// TryBeginLoad atomically claims the loading flag. It returns false if a
// bulk fetch is already in progress, so concurrent consumers cannot both
// judge "not loading" and issue duplicate backend calls. A successful claim
// must be released with EndLoad.
func (c *Cache) TryBeginLoad() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loading {
		return false
	}
	c.loading = true
	return true
}

// EndLoad releases the loading flag claimed by TryBeginLoad.
func (c *Cache) EndLoad() {
	c.SetLoading(false)
}

// Range returns the cached entries with start <= index <= end. Indices in
// the window that are not cached are absent from the result.
func (c *Cache) Range(start, end int) types.StatusSet {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(types.StatusSet)
	for i := start; i <= end; i++ {
		if v, ok := c.entries[i]; ok {
			out[i] = v
		}
	}
	return out
}

// HasRange reports whether every index with start <= index <= end is cached.
// Paginated consumers use it to decide whether a visible window needs any
// per-item fetches.
func (c *Cache) HasRange(start, end int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := start; i <= end; i++ {
		if _, ok := c.entries[i]; !ok {
			return false
		}
	}
	return true
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Subscription is the capability to deregister a listener.
type Subscription struct {
	id    string
	cache *Cache
}

// Cancel deregisters the listener. Safe to call more than once.
func (s *Subscription) Cancel() {
	if s == nil || s.cache == nil {
		return
	}
	s.cache.mu.Lock()
	delete(s.cache.listeners, s.id)
	s.cache.mu.Unlock()
	s.cache = nil
}

// Subscribe registers a listener invoked with the full current mapping on
// every mutation. Listeners for the same cache are independent: a listener
// that panics during notification does not prevent the others from being
// notified.
func (c *Cache) Subscribe(fn Listener) *Subscription {
	id := uuid.NewString()
	c.mu.Lock()
	c.listeners[id] = fn
	c.mu.Unlock()
	return &Subscription{id: id, cache: c}
}

// snapshotLocked copies the mapping and listener set while c.mu is held, so
// delivery can happen outside the lock and listeners may call back into the
// cache.
func (c *Cache) snapshotLocked() (types.StatusSet, []Listener) {
	snapshot := c.entries.Clone()
	listeners := make([]Listener, 0, len(c.listeners))
	for _, fn := range c.listeners {
		listeners = append(listeners, fn)
	}
	return snapshot, listeners
}

// notify delivers the snapshot to each listener, isolating panics so one
// failing listener cannot break delivery to the rest. Each listener gets its
// own copy of the mapping.
func notify(snapshot types.StatusSet, listeners []Listener) {
	for _, fn := range listeners {
		func() {
			defer func() {
				_ = recover()
			}()
			fn(snapshot.Clone())
		}()
	}
}
