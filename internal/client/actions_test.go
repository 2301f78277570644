package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"torrentctl/internal/domain"
)

func hasMessage(resp domain.Response, text string, isErr bool) bool {
	for _, m := range resp.Messages {
		if m.Text == text && m.Err == isErr {
			return true
		}
	}
	return false
}

func TestStopPartitionsByStatus(t *testing.T) {
	ft := newFakeTransport(
		rec(1, domain.FieldName, "T1", domain.FieldStatus, "stopped"),
		rec(2, domain.FieldName, "T2", domain.FieldStatus, "leeching"),
	)
	c := newTestClient(ft)

	resp, err := c.Stop(context.Background(), []domain.TorrentID{1, 2})
	if err != nil {
		t.Fatal(err)
	}
	if !resp.Success {
		t.Fatalf("resp = %+v", resp)
	}
	if !hasMessage(resp, "Already stopped: T1", true) {
		t.Errorf("missing rejection message: %+v", resp.Messages)
	}
	if !hasMessage(resp, "Stopping T2", false) {
		t.Errorf("missing admission message: %+v", resp.Messages)
	}
	call, ok := ft.lastCall("torrent-stop")
	if !ok {
		t.Fatalf("no stop call: %v", ft.methods())
	}
	if len(call.ids) != 1 || call.ids[0] != 2 {
		t.Errorf("stop ids = %v, want [2]", call.ids)
	}
}

func TestStopNothingToDo(t *testing.T) {
	ft := newFakeTransport(rec(1, domain.FieldName, "T1", domain.FieldStatus, "stopped"))
	c := newTestClient(ft)

	resp, err := c.Stop(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Success {
		t.Error("nothing admitted must fail")
	}
	if _, ok := ft.lastCall("torrent-stop"); ok {
		t.Error("no mutating call expected")
	}
}

func TestStartForceUsesStartNow(t *testing.T) {
	ft := newFakeTransport(rec(1, domain.FieldName, "T1", domain.FieldStatus, "stopped"))
	c := newTestClient(ft)

	if _, err := c.Start(context.Background(), nil, true); err != nil {
		t.Fatal(err)
	}
	if _, ok := ft.lastCall("torrent-start-now"); !ok {
		t.Errorf("want torrent-start-now, calls = %v", ft.methods())
	}
}

func TestActionTransportFailureDiscardsAdmitted(t *testing.T) {
	ft := newFakeTransport(rec(1, domain.FieldName, "T1", domain.FieldStatus, "leeching"))
	ft.fail["torrent-stop"] = errors.New("connection reset")
	c := newTestClient(ft)

	resp, err := c.Stop(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Success || len(resp.Torrents) != 0 {
		t.Errorf("resp = %+v", resp)
	}
	if len(resp.Errors()) != 1 {
		t.Errorf("want one error message, got %+v", resp.Messages)
	}
}

// Bulk actions hold no lock across their resolve, admit, mutate and refetch
// steps, so two overlapping actions may both admit a torrent from the same
// pre-mutation snapshot and both issue the mutating call. The daemon treats
// the second call as a no-op; this test pins the interleaving as accepted
// behavior rather than something to serialize away.
func TestOverlappingBulkActionsShareSnapshot(t *testing.T) {
	ft := newFakeTransport(rec(1, domain.FieldName, "T1", domain.FieldStatus, "leeching"))
	c := newTestClient(ft)

	var overlapping domain.Response
	interleaved := false
	ft.onCall = func(method string) {
		// Between the first action's admission and its mutating call, run a
		// second stop to completion over the same cache.
		if method == "torrent-stop" && !interleaved {
			interleaved = true
			var err error
			overlapping, err = c.Stop(context.Background(), []domain.TorrentID{1})
			if err != nil {
				t.Errorf("overlapping stop: %v", err)
			}
		}
	}

	resp, err := c.Stop(context.Background(), []domain.TorrentID{1})
	if err != nil {
		t.Fatal(err)
	}
	if !interleaved {
		t.Fatal("second action never ran")
	}

	// Both actions admitted the torrent from the stale "leeching" status and
	// both reached the daemon.
	if !resp.Success || !overlapping.Success {
		t.Errorf("first = %+v, overlapping = %+v", resp, overlapping)
	}
	if !hasMessage(resp, "Stopping T1", false) {
		t.Errorf("first action messages = %+v", resp.Messages)
	}
	if !hasMessage(overlapping, "Stopping T1", false) {
		t.Errorf("overlapping action messages = %+v", overlapping.Messages)
	}
	stops := 0
	for _, call := range ft.calls {
		if call.method == "torrent-stop" {
			stops++
		}
	}
	if stops != 2 {
		t.Errorf("torrent-stop issued %d times, want 2", stops)
	}
}

func TestToggleStopped(t *testing.T) {
	ft := newFakeTransport(
		rec(1, domain.FieldName, "T1", domain.FieldStatus, "stopped"),
		rec(2, domain.FieldName, "T2", domain.FieldStatus, "leeching"),
	)
	c := newTestClient(ft)

	resp, err := c.ToggleStopped(context.Background(), nil, false)
	if err != nil {
		t.Fatal(err)
	}
	if !resp.Success {
		t.Fatalf("resp = %+v", resp)
	}
	stop, ok := ft.lastCall("torrent-stop")
	if !ok || len(stop.ids) != 1 || stop.ids[0] != 2 {
		t.Errorf("stop call = %+v", stop)
	}
	start, ok := ft.lastCall("torrent-start")
	if !ok || len(start.ids) != 1 || start.ids[0] != 1 {
		t.Errorf("start call = %+v", start)
	}
}

func TestVerifyRejectsActiveVerifications(t *testing.T) {
	ft := newFakeTransport(
		rec(1, domain.FieldName, "T1", domain.FieldStatus, "verifying"),
		rec(2, domain.FieldName, "T2", domain.FieldStatus, "verifying pending"),
		rec(3, domain.FieldName, "T3", domain.FieldStatus, "seeding"),
	)
	c := newTestClient(ft)

	resp, err := c.Verify(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !hasMessage(resp, "Already verifying: T1", true) ||
		!hasMessage(resp, "Already queued for verification: T2", true) ||
		!hasMessage(resp, "Verifying T3", false) {
		t.Errorf("messages = %+v", resp.Messages)
	}
	call, _ := ft.lastCall("torrent-verify")
	if len(call.ids) != 1 || call.ids[0] != 3 {
		t.Errorf("verify ids = %v, want [3]", call.ids)
	}
}

func TestRemoveDeleteData(t *testing.T) {
	ft := newFakeTransport(rec(1, domain.FieldName, "T1"))
	c := newTestClient(ft)

	resp, err := c.Remove(context.Background(), nil, true)
	if err != nil {
		t.Fatal(err)
	}
	if !hasMessage(resp, "Deleting T1 (including files)", false) {
		t.Errorf("messages = %+v", resp.Messages)
	}
	call, _ := ft.lastCall("torrent-remove")
	if call.args["delete-local-data"] != true {
		t.Errorf("remove args = %v", call.args)
	}
}

func TestRemoveKeepFilesMessage(t *testing.T) {
	ft := newFakeTransport(rec(1, domain.FieldName, "T1"))
	c := newTestClient(ft)

	resp, err := c.Remove(context.Background(), nil, false)
	if err != nil {
		t.Fatal(err)
	}
	if !hasMessage(resp, "Removing T1 (keeping files)", false) {
		t.Errorf("messages = %+v", resp.Messages)
	}
}

func TestMoveResolvesRelativePath(t *testing.T) {
	ft := newFakeTransport(rec(1, domain.FieldName, "T1", domain.FieldPath, "/downloads/old"))
	c := newTestClient(ft)

	resp, err := c.Move(context.Background(), nil, "new")
	if err != nil {
		t.Fatal(err)
	}
	if !resp.Success {
		t.Fatalf("resp = %+v", resp)
	}
	call, ok := ft.lastCall("torrent-set-location")
	if !ok {
		t.Fatalf("no set-location call: %v", ft.methods())
	}
	if call.args["location"] != "/downloads/new" || call.args["move"] != true {
		t.Errorf("set-location args = %v", call.args)
	}
	if resp.Path != "/downloads/new" {
		t.Errorf("resp.Path = %q, want %q", resp.Path, "/downloads/new")
	}
}

func TestMoveAlreadyThere(t *testing.T) {
	ft := newFakeTransport(rec(1, domain.FieldName, "T1", domain.FieldPath, "/downloads/x"))
	c := newTestClient(ft)

	resp, err := c.Move(context.Background(), nil, "/downloads/x")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Success {
		t.Error("moving to the current path must fail")
	}
	if !hasMessage(resp, "Already in /downloads/x: T1", true) {
		t.Errorf("messages = %+v", resp.Messages)
	}
	if _, ok := ft.lastCall("torrent-set-location"); ok {
		t.Error("no mutating call expected")
	}
}

func TestAnnounceAdmissionChecks(t *testing.T) {
	now := time.Unix(1_000_000, 0)
	trackers := []domain.Tracker{{ID: 1, Announce: "http://tr.example.org/a"}}
	ft := newFakeTransport(
		rec(1, domain.FieldName, "T1", domain.FieldStatus, "seeding",
			domain.FieldTrackers, []domain.Tracker{},
			domain.FieldManualAnnounceAllowed, float64(0)),
		rec(2, domain.FieldName, "T2", domain.FieldStatus, "stopped",
			domain.FieldTrackers, trackers,
			domain.FieldManualAnnounceAllowed, float64(0)),
		rec(3, domain.FieldName, "T3", domain.FieldStatus, "leeching",
			domain.FieldTrackers, trackers,
			domain.FieldManualAnnounceAllowed, float64(1_000_300)),
		rec(4, domain.FieldName, "T4", domain.FieldStatus, "leeching",
			domain.FieldTrackers, trackers,
			domain.FieldManualAnnounceAllowed, float64(999_000)),
	)
	c := newTestClient(ft)
	c.Now = func() time.Time { return now }

	resp, err := c.Announce(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !hasMessage(resp, "Torrent has no trackers: T1", true) {
		t.Errorf("missing no-trackers rejection: %+v", resp.Messages)
	}
	if !hasMessage(resp, "Not announcing inactive torrent: T2", true) {
		t.Errorf("missing inactive rejection: %+v", resp.Messages)
	}
	if !hasMessage(resp, "Announcing: T4", false) {
		t.Errorf("missing admission: %+v", resp.Messages)
	}
	call, _ := ft.lastCall("torrent-reannounce")
	if len(call.ids) != 1 || call.ids[0] != 4 {
		t.Errorf("reannounce ids = %v, want [4]", call.ids)
	}

	// The cooldown rejection names the remaining wait.
	cooldownSeen := false
	for _, m := range resp.Errors() {
		if len(m.Text) > 0 && m.Text[0] == 'N' && m.Text[len(m.Text)-2:] == "T3" {
			cooldownSeen = true
		}
	}
	if !cooldownSeen {
		t.Errorf("missing cooldown rejection: %+v", resp.Messages)
	}
}
