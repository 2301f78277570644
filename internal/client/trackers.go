package client

import (
	"context"
	"strings"

	"torrentctl/internal/domain"
)

// TrackerAdd appends announce URLs to the selected torrents. The daemon
// rejects duplicate trackers outright, so URLs already present on any
// selected torrent are filtered out first, compared by normalized URL.
func (c *Client) TrackerAdd(ctx context.Context, selector any, urls []string) (domain.Response, error) {
	resp, err := c.Resolve(ctx, selector, []string{domain.FieldID, domain.FieldName, domain.FieldTrackers})
	if err != nil {
		return domain.Response{}, err
	}
	if !resp.Success {
		return domain.Response{Messages: resp.Messages}, nil
	}

	var msgs []domain.Message
	remaining := append([]string(nil), urls...)
	for _, t := range resp.Torrents {
		for _, trk := range t.Trackers() {
			kept := remaining[:0]
			for _, u := range remaining {
				if domain.AnnounceURLEqual(u, trk.Announce) {
					msgs = append(msgs, domain.Errorf("%s: Tracker already exists: %s", t.Name(), trk.Announce))
				} else {
					kept = append(kept, u)
				}
			}
			remaining = kept
		}
	}
	if len(remaining) == 0 {
		return domain.Response{Messages: msgs}, nil
	}
	for _, u := range remaining {
		msgs = append(msgs, domain.Info("Adding tracker: %s", u))
	}

	result, err := c.runAction(ctx, torrentIDs(resp.Torrents), action{
		call: func(ctx context.Context, ids []domain.TorrentID) error {
			return c.transport.TorrentSet(ctx, ids, map[string]any{"trackerAdd": remaining})
		},
		returnFields: []string{domain.FieldTrackers},
	})
	if err != nil {
		return domain.Response{}, err
	}
	result.Messages = append(msgs, result.Messages...)
	return result, nil
}

// TrackerRemove removes trackers whose announce URL equals one of urls, or
// contains it when partialMatch is set. The daemon removes trackers by
// tracker ID, so the current tracker lists are cross-referenced first.
func (c *Client) TrackerRemove(ctx context.Context, selector any, urls []string, partialMatch bool) (domain.Response, error) {
	resp, err := c.Resolve(ctx, selector, []string{domain.FieldID, domain.FieldName, domain.FieldTrackers})
	if err != nil {
		return domain.Response{}, err
	}
	if !resp.Success {
		return domain.Response{Messages: resp.Messages}, nil
	}

	var msgs []domain.Message
	matched := make(map[string]bool, len(urls))
	removeIDs := make(map[domain.TorrentID][]int)
	var order []domain.TorrentID
	for _, t := range resp.Torrents {
		for _, trk := range t.Trackers() {
			for _, u := range urls {
				if u == trk.Announce || partialMatch && strings.Contains(trk.Announce, u) {
					removeIDs[t.ID()] = append(removeIDs[t.ID()], trk.ID)
					matched[u] = true
					msgs = append(msgs, domain.Info("%s: Removing tracker: %s", t.Name(), trk.Announce))
				}
			}
		}
		if len(removeIDs[t.ID()]) > 0 {
			order = append(order, t.ID())
		}
	}
	for _, u := range urls {
		if !matched[u] {
			msgs = append(msgs, domain.Errorf("No matching trackers found: %q", u))
		}
	}
	if len(order) == 0 {
		return domain.Response{Messages: msgs}, nil
	}

	// Tracker IDs are per torrent, so removal is one call per torrent.
	for _, id := range order {
		err := c.transport.TorrentSet(ctx, []domain.TorrentID{id}, map[string]any{"trackerRemove": removeIDs[id]})
		if err != nil {
			if isContractViolation(err) {
				return domain.Response{}, err
			}
			msgs = append(msgs, domain.Errorf("%s", err.Error()))
			return domain.Response{Messages: msgs}, nil
		}
	}

	refetch, err := c.GetByIDs(ctx, []string{domain.FieldID, domain.FieldName, domain.FieldTrackers}, order)
	if err != nil {
		return domain.Response{}, err
	}
	if !refetch.Success {
		return domain.Response{Messages: append(msgs, refetch.Messages...)}, nil
	}
	return domain.Response{Success: true, Torrents: refetch.Torrents, Messages: msgs}, nil
}
