// Package client is the request orchestration and caching layer over a
// torrent daemon's RPC transport. It decides which fields to fetch, merges
// partial updates into a shared torrent cache, resolves declarative filters
// into concrete ID sets and drives the select/admit/mutate/refetch pattern
// shared by every bulk action.
package client

import (
	"log/slog"
	"time"

	"torrentctl/internal/domain/ports"
)

type Client struct {
	transport ports.Transport
	cache     *torrentCache
	logger    *slog.Logger

	// Now is the clock used by time-based admission checks; tests pin it.
	Now func() time.Time
}

func New(transport ports.Transport, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		transport: transport,
		cache:     newTorrentCache(),
		logger:    logger,
	}
}

func (c *Client) clock() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
