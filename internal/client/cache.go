package client

import (
	"sort"
	"sync"

	"torrentctl/internal/domain"
)

// torrentCache maps torrent IDs to the shared Torrent records for one daemon
// connection. Every entry originates from a raw fetch; the cache never
// fabricates torrents and never expires them — entries leave only through
// purge, driven by a full listing.
type torrentCache struct {
	mu    sync.Mutex
	items map[domain.TorrentID]*domain.Torrent
}

func newTorrentCache() *torrentCache {
	return &torrentCache{items: make(map[domain.TorrentID]*domain.Torrent)}
}

// merge overlays raw records onto the cache. All records are validated
// before any is applied, so a malformed fetch leaves the cache untouched.
func (c *torrentCache) merge(records []map[string]any) error {
	built := make([]*domain.Torrent, len(records))
	for i, record := range records {
		t, err := domain.NewTorrent(record)
		if err != nil {
			return err
		}
		built[i] = t
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i, record := range records {
		id := built[i].ID()
		if existing, ok := c.items[id]; ok {
			existing.Merge(record)
		} else {
			c.items[id] = built[i]
		}
	}
	return nil
}

// purge drops every cached ID not in keep. The caller must pass the complete
// current ID universe from a full listing; a partial set evicts live
// torrents. That contract is documented, not enforced.
func (c *torrentCache) purge(keep []domain.TorrentID) {
	keepSet := make(map[domain.TorrentID]struct{}, len(keep))
	for _, id := range keep {
		keepSet[id] = struct{}{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for id := range c.items {
		if _, ok := keepSet[id]; !ok {
			delete(c.items, id)
		}
	}
}

// torrents returns the cached subset for ids, silently dropping unknown
// IDs; absence is reported by the caller. nil means everything, ordered by
// ID.
func (c *torrentCache) torrents(ids []domain.TorrentID) []*domain.Torrent {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ids == nil {
		out := make([]*domain.Torrent, 0, len(c.items))
		for _, t := range c.items {
			out = append(out, t)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
		return out
	}

	out := make([]*domain.Torrent, 0, len(ids))
	for _, id := range ids {
		if t, ok := c.items[id]; ok {
			out = append(out, t)
		}
	}
	return out
}

// fieldsInitialized reports whether every torrent in ids already has a raw
// value for field. IDs not yet cached count as uninitialized, as does an
// empty cache when ids is nil.
func (c *torrentCache) fieldsInitialized(field string, ids []domain.TorrentID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ids == nil {
		if len(c.items) == 0 {
			return false
		}
		for _, t := range c.items {
			if !t.Has(field) {
				return false
			}
		}
		return true
	}
	for _, id := range ids {
		t, ok := c.items[id]
		if !ok || !t.Has(field) {
			return false
		}
	}
	return true
}

func (c *torrentCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
