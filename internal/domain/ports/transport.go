package ports

import (
	"context"
	"fmt"

	"torrentctl/internal/domain"
)

// Transport performs the actual RPC calls against the torrent daemon.
// Implementations own connection handling, session tokens and timeouts; the
// client core only sees decoded payloads or an error. Any error — including
// context cancellation — is recoverable from the core's point of view and
// becomes a failed Response.
type Transport interface {
	// SessionGet returns the daemon's session settings, e.g. "download-dir".
	SessionGet(ctx context.Context) (map[string]any, error)

	// TorrentGet fetches the given fields. ids == nil requests the full
	// listing. Records use canonical field names and raw values.
	TorrentGet(ctx context.Context, fields []string, ids []domain.TorrentID) ([]map[string]any, error)

	// TorrentAdd submits a new torrent. The returned payload is handed back
	// as-is; the core distinguishes "added" from "duplicate" itself.
	TorrentAdd(ctx context.Context, args map[string]any) (map[string]any, error)

	TorrentStart(ctx context.Context, ids []domain.TorrentID) error
	TorrentStartNow(ctx context.Context, ids []domain.TorrentID) error
	TorrentStop(ctx context.Context, ids []domain.TorrentID) error
	TorrentVerify(ctx context.Context, ids []domain.TorrentID) error
	TorrentReannounce(ctx context.Context, ids []domain.TorrentID) error
	TorrentRemove(ctx context.Context, ids []domain.TorrentID, deleteData bool) error

	// TorrentSet applies mutable per-torrent settings (rate limits, file
	// priorities, tracker edits) to all given ids in one call.
	TorrentSet(ctx context.Context, ids []domain.TorrentID, args map[string]any) error

	TorrentSetLocation(ctx context.Context, ids []domain.TorrentID, path string, move bool) error
}

// RPCError is the transport-level failure kind. Method names the RPC that
// failed.
type RPCError struct {
	Method string
	Err    error
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("%s: %v", e.Method, e.Err)
}

func (e *RPCError) Unwrap() error { return e.Err }
