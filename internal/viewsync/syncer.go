// Package viewsync coordinates the independent display surfaces that read
// the approval-status cache: it fills visible windows lazily with per-item
// fetches and keeps the cache fresh with deduplicated bulk fetches. Any
// number of surfaces (grid, timeline, overlay, editor) can share one Syncer.
package viewsync

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/mesh-intelligence/shoretrace/internal/api"
	"github.com/mesh-intelligence/shoretrace/internal/statuscache"
	"github.com/mesh-intelligence/shoretrace/pkg/types"
)

// fetchLimit caps the per-item fetch fan-out for one window fill.
const fetchLimit = 8

// Syncer fills a shared status cache from the backend on behalf of display
// surfaces. Concurrent bulk-fetch requests are collapsed onto a single
// in-flight call instead of racing the cache's advisory loading flag.
type Syncer struct {
	cache  *statuscache.Cache
	client *api.Client
	group  singleflight.Group

	mu        sync.Mutex
	itemCount int // last known total image count, for the failure fallback
}

// New creates a Syncer over the given cache and backend client.
func New(cache *statuscache.Cache, client *api.Client) *Syncer {
	return &Syncer{cache: cache, client: client}
}

// ItemCount returns the most recent total image count reported by the
// backend, or set explicitly via SetItemCount. Zero until known.
func (s *Syncer) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.itemCount
}

// SetItemCount records the total image count when the caller learned it out
// of band. The bulk-fetch failure fallback marks exactly this many indices.
func (s *Syncer) SetItemCount(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > s.itemCount {
		s.itemCount = n
	}
}

// EnsureFresh triggers a bulk status fetch when the cache has never been
// populated or has gone stale. Concurrent callers join the same underlying
// fetch. If the fetch fails, every known index is written as unapproved so
// consumers see "needs review" rather than an empty cache, and the error is
// returned for the caller's transient status message.
func (s *Syncer) EnsureFresh(ctx context.Context) error {
	if !s.cache.NeedsRefresh() {
		return nil
	}
	_, err, _ := s.group.Do("bulk-statuses", func() (any, error) {
		return nil, s.bulkFetch(ctx)
	})
	return err
}

// Refresh forces a bulk status fetch regardless of staleness, still
// collapsing concurrent callers onto one call.
func (s *Syncer) Refresh(ctx context.Context) error {
	_, err, _ := s.group.Do("bulk-statuses", func() (any, error) {
		return nil, s.bulkFetch(ctx)
	})
	return err
}

func (s *Syncer) bulkFetch(ctx context.Context) error {
	if !s.cache.TryBeginLoad() {
		// Another consumer is already mid-fetch outside this Syncer.
		return nil
	}
	// The flag resets on every path out; no failure may leave a consumer
	// stuck in a loading state.
	defer s.cache.EndLoad()

	res, err := s.client.Statuses(ctx)
	if err != nil {
		s.cache.SetAll(s.fallbackStatuses())
		return fmt.Errorf("bulk status fetch: %w", err)
	}

	s.SetItemCount(res.Total)
	s.cache.SetAll(res.Statuses)
	return nil
}

// fallbackStatuses marks every index in the last known item set as
// unapproved. Unknown status is deliberately conflated with "not approved":
// an unreviewed trace defaults to needing review.
func (s *Syncer) fallbackStatuses() types.StatusSet {
	s.mu.Lock()
	n := s.itemCount
	s.mu.Unlock()

	entries := make(types.StatusSet, n)
	for i := 0; i < n; i++ {
		entries[i] = false
	}
	return entries
}

// FillWindow ensures every index in the inclusive window [start, end] is
// cached, issuing concurrent per-item fetches for the missing ones. A failed
// per-item fetch writes false for that index so consumers stop re-requesting
// it every render. Updates land as a batch of individual Set calls whose
// relative order is not guaranteed.
//
// The fetches are bound to ctx: when the requesting surface tears down and
// cancels, the remaining fetches stop and no cache writes happen.
func (s *Syncer) FillWindow(ctx context.Context, start, end int) error {
	if start > end {
		return nil
	}
	if s.cache.HasRange(start, end) {
		return nil
	}

	cached := s.cache.Range(start, end)
	missing := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		if _, ok := cached[i]; !ok {
			missing = append(missing, i)
		}
	}

	var mu sync.Mutex
	fetched := make(types.StatusSet, len(missing))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchLimit)
	for _, index := range missing {
		index := index
		g.Go(func() error {
			data, err := s.client.ShorelineData(gctx, index)
			approved := false
			if err == nil {
				approved = data.Approved
			} else if gctx.Err() != nil {
				// Cancellation is not a status observation.
				return gctx.Err()
			}
			mu.Lock()
			fetched[index] = approved
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		// Suppress completion side effects for a torn-down consumer.
		return err
	}

	for index, approved := range fetched {
		s.cache.Set(index, approved)
	}
	return nil
}
