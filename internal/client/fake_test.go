package client

import (
	"context"
	"sort"

	"torrentctl/internal/domain"
)

// fakeTransport serves canonical raw records from memory and logs every
// mutating call. Rate-limit mutations are applied to the records the way
// the daemon would, so refetches observe them.
type fakeTransport struct {
	records map[domain.TorrentID]map[string]any
	session map[string]any

	calls []fakeCall
	fail  map[string]error

	// onCall, when set, runs after a call is logged and before it returns.
	// Tests use it to interleave a second operation at an RPC boundary.
	onCall func(method string)

	addArgs    map[string]any
	addPayload map[string]any
	addErr     error
}

type fakeCall struct {
	method string
	ids    []domain.TorrentID
	args   map[string]any
}

func newFakeTransport(records ...map[string]any) *fakeTransport {
	ft := &fakeTransport{
		records: make(map[domain.TorrentID]map[string]any),
		session: map[string]any{"download-dir": "/downloads"},
		fail:    make(map[string]error),
	}
	for _, r := range records {
		ft.records[domain.TorrentID(r[domain.FieldID].(float64))] = r
	}
	return ft
}

func (ft *fakeTransport) methods() []string {
	out := make([]string, len(ft.calls))
	for i, c := range ft.calls {
		out[i] = c.method
	}
	return out
}

func (ft *fakeTransport) lastCall(method string) (fakeCall, bool) {
	for i := len(ft.calls) - 1; i >= 0; i-- {
		if ft.calls[i].method == method {
			return ft.calls[i], true
		}
	}
	return fakeCall{}, false
}

func (ft *fakeTransport) log(method string, ids []domain.TorrentID, args map[string]any) error {
	ft.calls = append(ft.calls, fakeCall{method: method, ids: ids, args: args})
	if ft.onCall != nil {
		ft.onCall(method)
	}
	return ft.fail[method]
}

func (ft *fakeTransport) SessionGet(ctx context.Context) (map[string]any, error) {
	if err := ft.log("session-get", nil, nil); err != nil {
		return nil, err
	}
	return ft.session, nil
}

func (ft *fakeTransport) TorrentGet(ctx context.Context, fields []string, ids []domain.TorrentID) ([]map[string]any, error) {
	args := map[string]any{"fields": fields}
	if err := ft.log("torrent-get", ids, args); err != nil {
		return nil, err
	}

	if ids == nil {
		for id := range ft.records {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	}
	var out []map[string]any
	for _, id := range ids {
		rec, ok := ft.records[id]
		if !ok {
			continue
		}
		proj := make(map[string]any, len(fields))
		for _, f := range fields {
			if v, ok := rec[f]; ok {
				proj[f] = v
			}
		}
		out = append(out, proj)
	}
	return out, nil
}

func (ft *fakeTransport) TorrentAdd(ctx context.Context, args map[string]any) (map[string]any, error) {
	ft.addArgs = args
	if err := ft.log("torrent-add", nil, args); err != nil {
		return nil, err
	}
	if ft.addErr != nil {
		return nil, ft.addErr
	}
	return ft.addPayload, nil
}

func (ft *fakeTransport) TorrentStart(ctx context.Context, ids []domain.TorrentID) error {
	return ft.log("torrent-start", ids, nil)
}

func (ft *fakeTransport) TorrentStartNow(ctx context.Context, ids []domain.TorrentID) error {
	return ft.log("torrent-start-now", ids, nil)
}

func (ft *fakeTransport) TorrentStop(ctx context.Context, ids []domain.TorrentID) error {
	return ft.log("torrent-stop", ids, nil)
}

func (ft *fakeTransport) TorrentVerify(ctx context.Context, ids []domain.TorrentID) error {
	return ft.log("torrent-verify", ids, nil)
}

func (ft *fakeTransport) TorrentReannounce(ctx context.Context, ids []domain.TorrentID) error {
	return ft.log("torrent-reannounce", ids, nil)
}

func (ft *fakeTransport) TorrentRemove(ctx context.Context, ids []domain.TorrentID, deleteData bool) error {
	return ft.log("torrent-remove", ids, map[string]any{"delete-local-data": deleteData})
}

func (ft *fakeTransport) TorrentSet(ctx context.Context, ids []domain.TorrentID, args map[string]any) error {
	if err := ft.log("torrent-set", ids, args); err != nil {
		return err
	}
	for _, id := range ids {
		rec, ok := ft.records[id]
		if !ok {
			continue
		}
		applyRateArgs(rec, args, "uploadLimited", "uploadLimit", domain.FieldRateLimitUp)
		applyRateArgs(rec, args, "downloadLimited", "downloadLimit", domain.FieldRateLimitDown)
	}
	return nil
}

func applyRateArgs(rec, args map[string]any, limitedKey, limitKey, field string) {
	limited, ok := args[limitedKey].(bool)
	if !ok {
		return
	}
	if !limited {
		rec[field] = float64(-1)
		return
	}
	if kb, ok := args[limitKey].(int64); ok {
		rec[field] = float64(kb * 1000)
	}
}

func (ft *fakeTransport) TorrentSetLocation(ctx context.Context, ids []domain.TorrentID, path string, move bool) error {
	return ft.log("torrent-set-location", ids, map[string]any{"location": path, "move": move})
}

// rec builds a canonical raw record for the fake.
func rec(id int, kv ...any) map[string]any {
	m := map[string]any{domain.FieldID: float64(id)}
	for i := 0; i < len(kv); i += 2 {
		m[kv[i].(string)] = kv[i+1]
	}
	return m
}

func newTestClient(ft *fakeTransport) *Client {
	return New(ft, nil)
}
