package client

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"torrentctl/internal/domain"
	"torrentctl/internal/domain/ports"
)

// PriorityTier is the user-facing priority argument. Beyond the wire
// priorities there is "shun", which marks files unwanted instead.
type PriorityTier string

const (
	TierHigh   PriorityTier = "high"
	TierNormal PriorityTier = "normal"
	TierLow    PriorityTier = "low"
	TierShun   PriorityTier = "shun"
)

// FilePriority changes the download priority of individual torrent files.
// fileSelector may be nil (all files), a ports.FileFilter, or a slice of
// domain.FileID pairs; anything else is a caller contract violation.
func (c *Client) FilePriority(ctx context.Context, selector any, tier PriorityTier, fileSelector any) (domain.Response, error) {
	selectFiles, err := compileFileSelector(fileSelector)
	if err != nil {
		return domain.Response{}, err
	}
	switch tier {
	case TierHigh, TierNormal, TierLow, TierShun:
	default:
		return domain.Response{}, fmt.Errorf("%w: invalid priority tier %q", domain.ErrContractViolation, tier)
	}

	fields := []string{domain.FieldName, domain.FieldFiles, domain.FieldFileStats}
	resp, err := c.Resolve(ctx, selector, fields)
	if err != nil {
		return domain.Response{}, err
	}
	if !resp.Success {
		return domain.Response{Messages: resp.Messages}, nil
	}

	torrents := append([]*domain.Torrent(nil), resp.Torrents...)
	sort.Slice(torrents, func(i, j int) bool {
		return strings.ToLower(torrents[i].Name()) < strings.ToLower(torrents[j].Name())
	})

	var msgs []domain.Message
	var mutated []domain.TorrentID
	success := false
	for _, t := range torrents {
		selected := selectFiles(t)
		if fileSelector == nil {
			msgs = append(msgs, domain.Info("%d file%s: %s", len(selected), plural(len(selected)), t.Name()))
		} else if len(selected) == 0 {
			msgs = append(msgs, domain.Errorf("No matching files: %s", t.Name()))
		} else {
			msgs = append(msgs, domain.Info("%d matching file%s: %s", len(selected), plural(len(selected)), t.Name()))
		}
		success = success || len(selected) > 0
		if len(selected) == 0 {
			continue
		}

		indexes := make([]int, len(selected))
		for i, f := range selected {
			indexes[i] = f.Index
		}
		if err := c.setFilesPriority(ctx, t.ID(), tier, indexes); err != nil {
			if isContractViolation(err) {
				return domain.Response{}, err
			}
			msgs = append(msgs, domain.Errorf("%s", err.Error()))
			continue
		}
		mutated = append(mutated, t.ID())
	}

	var result []*domain.Torrent
	if len(mutated) > 0 {
		refetch, err := c.GetByIDs(ctx, fields, mutated)
		if err != nil {
			return domain.Response{}, err
		}
		if refetch.Success {
			result = refetch.Torrents
		}
	}
	return domain.Response{Success: success, Torrents: result, Messages: msgs}, nil
}

// setFilesPriority issues the per-torrent mutating call: a wire priority
// plus files-wanted for the real tiers, files-unwanted for shun.
func (c *Client) setFilesPriority(ctx context.Context, id domain.TorrentID, tier PriorityTier, indexes []int) error {
	ids := []domain.TorrentID{id}
	if tier == TierShun {
		return c.transport.TorrentSet(ctx, ids, map[string]any{"files-unwanted": indexes})
	}
	return c.transport.TorrentSet(ctx, ids, map[string]any{
		"priority-" + string(tier): indexes,
		"files-wanted":             indexes,
	})
}

func compileFileSelector(fileSelector any) (func(*domain.Torrent) []domain.FileInfo, error) {
	switch sel := fileSelector.(type) {
	case nil:
		return func(t *domain.Torrent) []domain.FileInfo { return t.Files() }, nil
	case ports.FileFilter:
		return func(t *domain.Torrent) []domain.FileInfo { return sel.Apply(t, t.Files()) }, nil
	case []domain.FileID:
		wanted := make(map[domain.FileID]struct{}, len(sel))
		for _, fid := range sel {
			wanted[fid] = struct{}{}
		}
		return func(t *domain.Torrent) []domain.FileInfo {
			var out []domain.FileInfo
			for _, f := range t.Files() {
				if _, ok := wanted[domain.FileID{Torrent: t.ID(), File: f.Index}]; ok {
					out = append(out, f)
				}
			}
			return out
		}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported file selector type %T", domain.ErrContractViolation, fileSelector)
	}
}
