package client

import (
	"context"
	"errors"
	"testing"

	"torrentctl/internal/domain"
)

func fileRec(id int, name string) map[string]any {
	return rec(id, domain.FieldName, name,
		domain.FieldFiles, []domain.FileInfo{
			{Index: 0, Name: "video.mkv", SizeTotal: 100},
			{Index: 1, Name: "subs.srt", SizeTotal: 10},
		},
		domain.FieldFileStats, []domain.FileStat{
			{Wanted: true, Priority: domain.PriorityNormal},
			{Wanted: true, Priority: domain.PriorityNormal},
		},
	)
}

func TestFilePriorityAllFiles(t *testing.T) {
	ft := newFakeTransport(fileRec(1, "T1"))
	c := newTestClient(ft)

	resp, err := c.FilePriority(context.Background(), nil, TierHigh, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !resp.Success {
		t.Fatalf("resp = %+v", resp)
	}
	if !hasMessage(resp, "2 files: T1", false) {
		t.Errorf("messages = %+v", resp.Messages)
	}
	call, ok := ft.lastCall("torrent-set")
	if !ok {
		t.Fatalf("no torrent-set: %v", ft.methods())
	}
	if prio, _ := call.args["priority-high"].([]int); len(prio) != 2 {
		t.Errorf("priority-high = %v", call.args["priority-high"])
	}
	if wanted, _ := call.args["files-wanted"].([]int); len(wanted) != 2 {
		t.Errorf("files-wanted = %v", call.args["files-wanted"])
	}
}

func TestFilePriorityShunMarksUnwanted(t *testing.T) {
	ft := newFakeTransport(fileRec(1, "T1"))
	c := newTestClient(ft)

	if _, err := c.FilePriority(context.Background(), nil, TierShun, nil); err != nil {
		t.Fatal(err)
	}
	call, _ := ft.lastCall("torrent-set")
	if _, ok := call.args["files-unwanted"]; !ok {
		t.Errorf("shun must use files-unwanted, args = %v", call.args)
	}
	if _, ok := call.args["files-wanted"]; ok {
		t.Error("shun must not mark files wanted")
	}
}

func TestFilePriorityByFileID(t *testing.T) {
	ft := newFakeTransport(fileRec(1, "T1"))
	c := newTestClient(ft)

	resp, err := c.FilePriority(context.Background(), nil, TierLow,
		[]domain.FileID{{Torrent: 1, File: 1}})
	if err != nil {
		t.Fatal(err)
	}
	if !hasMessage(resp, "1 matching file: T1", false) {
		t.Errorf("messages = %+v", resp.Messages)
	}
	call, _ := ft.lastCall("torrent-set")
	prio := call.args["priority-low"].([]int)
	if len(prio) != 1 || prio[0] != 1 {
		t.Errorf("priority-low = %v", prio)
	}
}

func TestFilePriorityNoMatch(t *testing.T) {
	ft := newFakeTransport(fileRec(1, "T1"))
	c := newTestClient(ft)

	resp, err := c.FilePriority(context.Background(), nil, TierLow,
		[]domain.FileID{{Torrent: 99, File: 0}})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Success {
		t.Error("no selected files must fail")
	}
	if !hasMessage(resp, "No matching files: T1", true) {
		t.Errorf("messages = %+v", resp.Messages)
	}
	if _, ok := ft.lastCall("torrent-set"); ok {
		t.Error("no mutating call expected")
	}
}

func TestFilePriorityInvalidTier(t *testing.T) {
	c := newTestClient(newFakeTransport(fileRec(1, "T1")))
	_, err := c.FilePriority(context.Background(), nil, PriorityTier("urgent"), nil)
	if !errors.Is(err, domain.ErrContractViolation) {
		t.Fatalf("want contract violation, got %v", err)
	}
}

func TestFilePriorityBadFileSelector(t *testing.T) {
	c := newTestClient(newFakeTransport(fileRec(1, "T1")))
	_, err := c.FilePriority(context.Background(), nil, TierHigh, "video.mkv")
	if !errors.Is(err, domain.ErrContractViolation) {
		t.Fatalf("want contract violation, got %v", err)
	}
}
