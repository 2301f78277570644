package client

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"torrentctl/internal/domain"
)

// Stop halts down-/uploading for the selected torrents.
func (c *Client) Stop(ctx context.Context, selector any) (domain.Response, error) {
	return c.runAction(ctx, selector, action{
		call: c.transport.TorrentStop,
		check: func(t *domain.Torrent) (bool, string) {
			if t.Status().Stopped() {
				return false, "Already stopped: " + t.Name()
			}
			return true, "Stopping " + t.Name()
		},
		checkFields: []string{domain.FieldStatus},
	})
}

// Start resumes the selected torrents. force bypasses the download queue.
func (c *Client) Start(ctx context.Context, selector any, force bool) (domain.Response, error) {
	call := c.transport.TorrentStart
	if force {
		call = c.transport.TorrentStartNow
	}
	return c.runAction(ctx, selector, action{
		call: call,
		check: func(t *domain.Torrent) (bool, string) {
			if t.Status().Stopped() {
				return true, "Starting " + t.Name()
			}
			return false, "Already started: " + t.Name()
		},
		checkFields: []string{domain.FieldStatus},
	})
}

// ToggleStopped partitions the selection into stopped and running torrents,
// starts one group, stops the other and unions the results.
func (c *Client) ToggleStopped(ctx context.Context, selector any, force bool) (domain.Response, error) {
	resp, err := c.Resolve(ctx, selector, []string{domain.FieldStatus})
	if err != nil {
		return domain.Response{}, err
	}
	if !resp.Success {
		return domain.Response{Messages: resp.Messages}, nil
	}

	var stopped, running []domain.TorrentID
	for _, t := range resp.Torrents {
		if t.Status().Stopped() {
			stopped = append(stopped, t.ID())
		} else {
			running = append(running, t.ID())
		}
	}

	var torrents []*domain.Torrent
	var msgs []domain.Message
	if len(running) > 0 {
		r, err := c.Stop(ctx, running)
		if err != nil {
			return domain.Response{}, err
		}
		torrents = append(torrents, r.Torrents...)
		msgs = append(msgs, r.Messages...)
	}
	if len(stopped) > 0 {
		r, err := c.Start(ctx, stopped, force)
		if err != nil {
			return domain.Response{}, err
		}
		torrents = append(torrents, r.Torrents...)
		msgs = append(msgs, r.Messages...)
	}

	return domain.Response{
		Success:  len(torrents) > 0,
		Torrents: torrents,
		Messages: msgs,
	}, nil
}

// Verify rechecks the selected torrents' downloaded data.
func (c *Client) Verify(ctx context.Context, selector any) (domain.Response, error) {
	return c.runAction(ctx, selector, action{
		call: c.transport.TorrentVerify,
		check: func(t *domain.Torrent) (bool, string) {
			if t.Status().Verifying() {
				if t.Status().Queued() {
					return false, "Already queued for verification: " + t.Name()
				}
				return false, "Already verifying: " + t.Name()
			}
			return true, "Verifying " + t.Name()
		},
		checkFields: []string{domain.FieldStatus},
	})
}

// Remove deletes the selected torrents from the daemon, optionally together
// with their downloaded data.
func (c *Client) Remove(ctx context.Context, selector any, deleteData bool) (domain.Response, error) {
	format := "Removing %s (keeping files)"
	if deleteData {
		format = "Deleting %s (including files)"
	}
	return c.runAction(ctx, selector, action{
		call: func(ctx context.Context, ids []domain.TorrentID) error {
			return c.transport.TorrentRemove(ctx, ids, deleteData)
		},
		check: func(t *domain.Torrent) (bool, string) {
			return true, fmt.Sprintf(format, t.Name())
		},
	})
}

// Move changes the selected torrents' location. Relative paths are resolved
// against the daemon's default download directory.
func (c *Client) Move(ctx context.Context, selector any, path string) (domain.Response, error) {
	abs, fail, err := c.absDownloadPath(ctx, path)
	if err != nil {
		return domain.Response{}, err
	}
	if fail != nil {
		return domain.Response{Messages: fail}, nil
	}

	resp, err := c.runAction(ctx, selector, action{
		call: func(ctx context.Context, ids []domain.TorrentID) error {
			return c.transport.TorrentSetLocation(ctx, ids, abs, true)
		},
		check: func(t *domain.Torrent) (bool, string) {
			if t.Path() != abs {
				return true, fmt.Sprintf("Moved to %s: %s", abs, t.Name())
			}
			return false, fmt.Sprintf("Already in %s: %s", abs, t.Name())
		},
		checkFields:  []string{domain.FieldPath},
		returnFields: []string{domain.FieldPath},
	})
	if err != nil {
		return domain.Response{}, err
	}
	resp.Path = abs
	return resp, nil
}

// Announce asks the trackers for peers immediately. The daemon rejects
// manual announces for stopped, trackerless or recently announced torrents,
// so those are filtered out here.
func (c *Client) Announce(ctx context.Context, selector any) (domain.Response, error) {
	now := c.clock()
	return c.runAction(ctx, selector, action{
		call: c.transport.TorrentReannounce,
		check: func(t *domain.Torrent) (bool, string) {
			allowed, _ := t.Value(domain.FieldManualAnnounceAllowed)
			switch {
			case len(t.Trackers()) < 1:
				return false, "Torrent has no trackers: " + t.Name()
			case t.Status().Stopped():
				return false, "Not announcing inactive torrent: " + t.Name()
			case allowed != nil && allowed.(domain.Timestamp).After(now):
				ts := allowed.(domain.Timestamp)
				return false, fmt.Sprintf("Not allowing manual announce until %s (in %s): %s",
					ts, ts.Until(now), t.Name())
			}
			return true, "Announcing: " + t.Name()
		},
		checkFields: []string{
			domain.FieldStatus,
			domain.FieldTrackers,
			domain.FieldManualAnnounceAllowed,
		},
		returnFields: []string{domain.FieldTrackers},
	})
}

// absDownloadPath resolves a relative path against the daemon's default
// download directory via a session query. The middle return value carries
// failure messages when the session query failed.
func (c *Client) absDownloadPath(ctx context.Context, path string) (string, []domain.Message, error) {
	path = expandUser(path)
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil, nil
	}
	session, err := c.transport.SessionGet(ctx)
	if err != nil {
		return "", []domain.Message{domain.Errorf("%s", err.Error())}, nil
	}
	downloadDir, ok := session["download-dir"].(string)
	if !ok {
		return "", nil, fmt.Errorf("%w: session payload without download-dir", domain.ErrContractViolation)
	}
	return filepath.Clean(filepath.Join(downloadDir, path)), nil, nil
}

func expandUser(path string) string {
	if path == "~" || len(path) > 1 && path[:2] == "~/" {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
