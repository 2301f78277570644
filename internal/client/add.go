package client

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"torrentctl/internal/domain"
)

// Add submits a new torrent from a local file path, a 40-digit hex
// info-hash or a link. stopped leaves the new torrent paused; dir overrides
// the download directory (relative paths resolve against the daemon's
// default). An "already exists" answer from the daemon is a failure with an
// informational cause; a payload that is neither added nor duplicate is a
// protocol bug and aborts.
func (c *Client) Add(ctx context.Context, source string, stopped bool, dir string) (domain.Response, error) {
	args := map[string]any{"paused": stopped}
	var destination string
	if dir != "" {
		abs, fail, err := c.absDownloadPath(ctx, dir)
		if err != nil {
			return domain.Response{}, err
		}
		if fail != nil {
			return domain.Response{Messages: fail}, nil
		}
		args["download-dir"] = abs
		destination = abs
	}

	local := expandUser(source)
	switch {
	case fileExists(local):
		data, err := os.ReadFile(local)
		if err != nil {
			return domain.Failure(domain.Errorf("%s: %s", err.Error(), local)), nil
		}
		args["metainfo"] = base64.StdEncoding.EncodeToString(data)
	case isInfoHash(source):
		args["filename"] = "magnet:?xt=urn:btih:" + source
	default:
		// Probably a link; the daemon can figure it out.
		args["filename"] = source
	}

	payload, err := c.transport.TorrentAdd(ctx, args)
	if err != nil {
		if strings.Contains(err.Error(), "Invalid or corrupt") {
			return domain.Failure(domain.Errorf("Invalid or corrupt torrent: %q", source)), nil
		}
		return domain.FailureFromErr(err), nil
	}

	if info, ok := payload["torrent-duplicate"].(map[string]any); ok {
		t, err := partialTorrent(info)
		if err != nil {
			return domain.Response{}, err
		}
		return domain.Response{
			Torrents: []*domain.Torrent{t},
			Path:     destination,
			Messages: []domain.Message{domain.Errorf("Torrent already exists: %s", t.Name())},
		}, nil
	}
	if info, ok := payload["torrent-added"].(map[string]any); ok {
		t, err := partialTorrent(info)
		if err != nil {
			return domain.Response{}, err
		}
		return domain.Response{
			Success:  true,
			Torrents: []*domain.Torrent{t},
			Path:     destination,
			Messages: []domain.Message{domain.Info("Added %s", t.Name())},
		}, nil
	}
	return domain.Response{}, fmt.Errorf("%w: torrent-add payload with neither added nor duplicate", domain.ErrContractViolation)
}

// partialTorrent builds the id/name projection returned by mutating calls.
func partialTorrent(info map[string]any) (*domain.Torrent, error) {
	t, err := domain.NewTorrent(map[string]any{
		domain.FieldID:   info["id"],
		domain.FieldName: info["name"],
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isInfoHash(s string) bool {
	if len(s) != 40 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
