package client

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"torrentctl/internal/domain"
)

// LimitRateUp caps the selected torrents' upload rate. rate is a human
// string like "250k", "1.5M" or "unlimited"; "+=100k"/"-=100k" adjust
// relative to each torrent's current limit.
func (c *Client) LimitRateUp(ctx context.Context, selector any, rate string) (domain.Response, error) {
	return c.limitRate(ctx, selector, rate, "up")
}

// LimitRateDown caps the selected torrents' download rate.
func (c *Client) LimitRateDown(ctx context.Context, selector any, rate string) (domain.Response, error) {
	return c.limitRate(ctx, selector, rate, "down")
}

func (c *Client) limitRate(ctx context.Context, selector any, rate, direction string) (domain.Response, error) {
	limitField := domain.FieldRateLimitUp
	argLimited, argLimit := "uploadLimited", "uploadLimit"
	if direction == "down" {
		limitField = domain.FieldRateLimitDown
		argLimited, argLimit = "downloadLimited", "downloadLimit"
	}

	resp, err := c.Resolve(ctx, selector, withIdentity([]string{limitField}))
	if err != nil {
		return domain.Response{}, err
	}
	if !resp.Success {
		return domain.Response{Messages: resp.Messages}, nil
	}
	msgs := append([]domain.Message(nil), resp.Messages...)

	// Relative adjustments resolve against each torrent's current limit, so
	// torrents are grouped by resulting limit; absolute rates always form a
	// single group and keep the one-batched-call property.
	groups := make(map[int64][]domain.TorrentID)
	for _, t := range resp.Torrents {
		current := int64(-1)
		if v, err := t.Value(limitField); err == nil {
			if q := v.(domain.Quantity); q.Known() {
				current = int64(q.Value())
			}
		}
		target, unlimited, perr := parseRateLimit(rate, current)
		if perr != nil {
			return domain.Failure(domain.Errorf("%s", perr.Error())), nil
		}
		key := target
		if unlimited {
			key = -1
		}
		groups[key] = append(groups[key], t.ID())
	}

	keys := make([]int64, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	var mutated []domain.TorrentID
	for _, key := range keys {
		args := map[string]any{argLimited: key >= 0}
		if key >= 0 {
			// The daemon expects kilobytes per second.
			args[argLimit] = key / 1000
		}
		if err := c.transport.TorrentSet(ctx, groups[key], args); err != nil {
			msgs = append(msgs, domain.Errorf("%s", err.Error()))
			continue
		}
		mutated = append(mutated, groups[key]...)
	}
	if len(mutated) == 0 {
		return domain.Response{Messages: msgs}, nil
	}

	refetch, err := c.GetByIDs(ctx, withIdentity([]string{limitField}), mutated)
	if err != nil {
		return domain.Response{}, err
	}
	for _, t := range refetch.Torrents {
		limit := "unlimited"
		if v, err := t.Value(limitField); err == nil {
			if q := v.(domain.Quantity); q.Known() {
				limit = q.WithUnit()
			}
		}
		msgs = append(msgs, domain.Info("Limited %sload rate of %s: %s", direction, t.Name(), limit))
	}
	return domain.Response{Success: refetch.Success, Torrents: refetch.Torrents, Messages: msgs}, nil
}

// parseRateLimit turns a human rate string into bytes per second. current
// is the torrent's present limit in bytes per second, -1 for unlimited;
// "+=" treats unlimited as a zero baseline while "-=" keeps it unlimited.
// Any result at or below zero means unlimited.
func parseRateLimit(s string, current int64) (int64, bool, error) {
	str := strings.TrimSpace(s)
	if str == "" || strings.EqualFold(str, "unlimited") {
		return 0, true, nil
	}

	adjust := 0
	switch {
	case strings.HasPrefix(str, "+="):
		adjust = 1
		str = strings.TrimSpace(str[2:])
	case strings.HasPrefix(str, "-="):
		adjust = -1
		str = strings.TrimSpace(str[2:])
	}
	str = strings.TrimSuffix(str, "/s")

	amount, err := humanize.ParseBytes(str)
	if err != nil {
		return 0, false, fmt.Errorf("invalid rate: %q", s)
	}

	var value int64
	switch adjust {
	case 0:
		value = int64(amount)
	case 1:
		base := current
		if base < 0 {
			base = 0
		}
		value = base + int64(amount)
	case -1:
		if current < 0 {
			return 0, true, nil
		}
		value = current - int64(amount)
	}
	if value <= 0 {
		return 0, true, nil
	}
	return value, false, nil
}
