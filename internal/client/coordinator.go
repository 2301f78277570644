package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"torrentctl/internal/domain"
	"torrentctl/internal/domain/ports"
	"torrentctl/internal/filter"
	"torrentctl/internal/metrics"
)

// expandFields resolves the all-fields sentinel, validates field names and
// guarantees "id" is requested. Unknown fields are a caller bug.
func expandFields(fields []string) ([]string, error) {
	if len(fields) == 1 && fields[0] == domain.AllFieldsToken {
		return domain.AllFields(), nil
	}
	out := make([]string, 0, len(fields)+1)
	hasID := false
	for _, f := range fields {
		if !domain.KnownField(f) {
			return nil, fmt.Errorf("%w: %w: %q", domain.ErrContractViolation, domain.ErrFieldUnknown, f)
		}
		if f == domain.FieldID {
			hasID = true
		}
		out = append(out, f)
	}
	if !hasID {
		out = append([]string{domain.FieldID}, out...)
	}
	return out, nil
}

// fetchRaw performs one torrent listing call and merges the result into the
// cache. ids == nil requests the full listing; an explicitly empty non-nil
// slice short-circuits without any network call. On transport failure the
// cache is untouched. Fields must already be expanded.
func (c *Client) fetchRaw(ctx context.Context, fields []string, ids []domain.TorrentID) ([]map[string]any, error) {
	if ids != nil && len(ids) == 0 {
		return nil, nil
	}

	raw, err := c.transport.TorrentGet(ctx, fields, ids)
	if err != nil {
		return nil, err
	}
	if err := c.cache.merge(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrContractViolation, err)
	}
	metrics.CachedTorrents.Set(float64(c.cache.size()))

	c.logger.Debug("fetched torrents",
		slog.Int("records", len(raw)),
		slog.Int("fields", len(fields)))
	return raw, nil
}

// GetByIDs fetches the given fields for torrents selected by ID. ids == nil
// means all torrents and drives a cache purge against the returned listing.
// One special case: per-file progress ("fileStats") only carries variable
// state once the static file listing has been fetched, so a one-time
// preparatory "files" fetch is issued when needed.
func (c *Client) GetByIDs(ctx context.Context, fields []string, ids []domain.TorrentID) (domain.Response, error) {
	expanded, err := expandFields(fields)
	if err != nil {
		return domain.Response{}, err
	}

	if containsField(expanded, domain.FieldFileStats) && !c.cache.fieldsInitialized(domain.FieldFiles, ids) {
		c.logger.Debug("initializing file listings", slog.Int("ids", len(ids)))
		if _, err := c.fetchRaw(ctx, []string{domain.FieldID, domain.FieldFiles}, ids); err != nil {
			if isContractViolation(err) {
				return domain.Response{}, err
			}
			return domain.FailureFromErr(err), nil
		}
	}

	raw, err := c.fetchRaw(ctx, expanded, ids)
	if err != nil {
		if isContractViolation(err) {
			return domain.Response{}, err
		}
		return domain.FailureFromErr(err), nil
	}

	var msgs []domain.Message
	var torrents []*domain.Torrent
	if ids != nil {
		torrents = c.cache.torrents(ids)
		present := make(map[domain.TorrentID]struct{}, len(torrents))
		for _, t := range torrents {
			present[t.ID()] = struct{}{}
		}
		for _, id := range ids {
			if _, ok := present[id]; !ok {
				msgs = append(msgs, domain.Errorf("No torrent with ID: %d", id))
			}
		}
	} else {
		keep := make([]domain.TorrentID, 0, len(raw))
		for _, record := range raw {
			if t, err := domain.NewTorrent(record); err == nil {
				keep = append(keep, t.ID())
			}
		}
		c.cache.purge(keep)
		metrics.CachedTorrents.Set(float64(c.cache.size()))
		torrents = c.cache.torrents(nil)
	}

	return domain.Response{
		Success:  len(torrents) > 0 || ids == nil,
		Torrents: torrents,
		Messages: msgs,
	}, nil
}

// GetByFilter fetches all torrents restricted to the filter's needed
// fields, applies the predicate, then refetches the surviving IDs with the
// caller's fields. A nil filter selects everything.
func (c *Client) GetByFilter(ctx context.Context, fields []string, filter ports.TorrentFilter) (domain.Response, error) {
	if filter == nil {
		return c.GetByIDs(ctx, fields, nil)
	}

	var msgs []domain.Message
	var torrents []*domain.Torrent

	resp, err := c.GetByIDs(ctx, filter.NeededFields(), nil)
	if err != nil {
		return domain.Response{}, err
	}
	if resp.Success {
		matched := filter.Apply(resp.Torrents)
		if len(matched) > 0 {
			wanted := torrentIDs(matched)
			c.logger.Debug("filter matched", slog.String("filter", filter.Name()), slog.Int("count", len(wanted)))
			refetch, err := c.GetByIDs(ctx, fields, wanted)
			if err != nil {
				return domain.Response{}, err
			}
			torrents = refetch.Torrents
			msgs = append(msgs, refetch.Messages...)
		}
	} else {
		msgs = append(msgs, resp.Messages...)
	}

	if len(torrents) == 0 {
		msgs = append(msgs, domain.Errorf("No matching torrents: %s", filter.Name()))
		return domain.Response{Messages: msgs}, nil
	}
	msgs = append(msgs, domain.Info("Found %d matching torrent%s: %s",
		len(torrents), plural(len(torrents)), filter.Name()))
	return domain.Response{Success: true, Torrents: torrents, Messages: msgs}, nil
}

// Resolve is the top-level selection entry point. selector may be nil (all
// torrents), a compiled filter, a filter expression string, or an explicit
// ID slice; anything else is a caller contract violation. A string that
// fails to compile is user input, so it fails the Response instead of
// aborting.
func (c *Client) Resolve(ctx context.Context, selector any, fields []string) (domain.Response, error) {
	switch sel := selector.(type) {
	case nil:
		return c.GetByIDs(ctx, fields, nil)
	case ports.TorrentFilter:
		return c.GetByFilter(ctx, fields, sel)
	case string:
		compiled, err := filter.NewTorrent(sel)
		if err != nil {
			return domain.FailureFromErr(err), nil
		}
		return c.GetByFilter(ctx, fields, compiled)
	case []domain.TorrentID:
		return c.GetByIDs(ctx, fields, sel)
	case []int:
		ids := make([]domain.TorrentID, len(sel))
		for i, id := range sel {
			ids[i] = domain.TorrentID(id)
		}
		return c.GetByIDs(ctx, fields, ids)
	default:
		return domain.Response{}, fmt.Errorf("%w: unsupported selector type %T", domain.ErrContractViolation, selector)
	}
}

func containsField(fields []string, name string) bool {
	for _, f := range fields {
		if f == name {
			return true
		}
	}
	return false
}

func torrentIDs(torrents []*domain.Torrent) []domain.TorrentID {
	ids := make([]domain.TorrentID, len(torrents))
	for i, t := range torrents {
		ids[i] = t.ID()
	}
	return ids
}

func isContractViolation(err error) bool {
	return errors.Is(err, domain.ErrContractViolation)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
