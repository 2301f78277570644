package client

import (
	"context"

	"torrentctl/internal/domain"
)

// admission decides whether a bulk action applies to one torrent. The
// message, if any, becomes informational on admit and an error on reject.
type admission func(t *domain.Torrent) (bool, string)

// action configures one bulk mutation for runAction: the batched RPC call,
// the per-item admission check with the fields it reads, and the fields to
// refetch for the result. "id" and "name" are always included in both
// field sets.
type action struct {
	call         func(ctx context.Context, ids []domain.TorrentID) error
	check        admission
	checkFields  []string
	returnFields []string
}

// runAction is the shared bulk-mutation sequence: resolve the selection with
// the check fields, run the admission check per torrent, issue exactly one
// batched mutating call over the admitted IDs, then refetch those IDs with
// the return fields. Success means at least one torrent was mutated. A
// transport failure on the mutating call discards the admitted set.
func (c *Client) runAction(ctx context.Context, selector any, act action) (domain.Response, error) {
	resp, err := c.Resolve(ctx, selector, withIdentity(act.checkFields))
	if err != nil {
		return domain.Response{}, err
	}
	if !resp.Success {
		return domain.Response{Messages: resp.Messages}, nil
	}

	msgs := append([]domain.Message(nil), resp.Messages...)
	var admitted []*domain.Torrent
	if act.check == nil {
		admitted = resp.Torrents
	} else {
		for _, t := range resp.Torrents {
			ok, msg := act.check(t)
			switch {
			case ok:
				admitted = append(admitted, t)
				if msg != "" {
					msgs = append(msgs, domain.Info("%s", msg))
				}
			case msg != "":
				msgs = append(msgs, domain.Errorf("%s", msg))
			}
		}
	}

	if len(admitted) > 0 {
		if err := act.call(ctx, torrentIDs(admitted)); err != nil {
			if isContractViolation(err) {
				return domain.Response{}, err
			}
			msgs = append(msgs, domain.Errorf("%s", err.Error()))
			admitted = nil
		}
	}

	if len(admitted) == 0 {
		return domain.Response{Messages: msgs}, nil
	}

	refetch, err := c.GetByIDs(ctx, withIdentity(act.returnFields), torrentIDs(admitted))
	if err != nil {
		return domain.Response{}, err
	}
	if !refetch.Success {
		return domain.Response{Messages: refetch.Messages}, nil
	}
	return domain.Response{Success: true, Torrents: refetch.Torrents, Messages: msgs}, nil
}

// withIdentity unions the field set with {id, name}, preserving order.
func withIdentity(fields []string) []string {
	out := []string{domain.FieldID, domain.FieldName}
	for _, f := range fields {
		if f != domain.FieldID && f != domain.FieldName {
			out = append(out, f)
		}
	}
	return out
}
