package client

import (
	"context"
	"errors"
	"strings"
	"testing"

	"torrentctl/internal/domain"
)

func addedPayload(id int, name string) map[string]any {
	return map[string]any{
		"torrent-added": map[string]any{
			domain.FieldID:   float64(id),
			domain.FieldName: name,
		},
	}
}

func TestAddInfoHash(t *testing.T) {
	hash := "d2474e86c95b19b8bcfdb92bc12c9d44667cfa36"
	ft := newFakeTransport()
	ft.addPayload = addedPayload(5, "New Torrent")
	c := newTestClient(ft)

	resp, err := c.Add(context.Background(), hash, false, "")
	if err != nil {
		t.Fatal(err)
	}
	if !resp.Success {
		t.Fatalf("resp = %+v", resp)
	}
	if !hasMessage(resp, "Added New Torrent", false) {
		t.Errorf("messages = %+v", resp.Messages)
	}
	filename := ft.addArgs["filename"].(string)
	if filename != "magnet:?xt=urn:btih:"+hash {
		t.Errorf("filename = %q", filename)
	}
	if len(resp.Torrents) != 1 || resp.Torrents[0].ID() != 5 {
		t.Errorf("torrents = %v", resp.Torrents)
	}
}

func TestAddLinkPassedThrough(t *testing.T) {
	ft := newFakeTransport()
	ft.addPayload = addedPayload(5, "X")
	c := newTestClient(ft)

	if _, err := c.Add(context.Background(), "https://example.org/x.torrent", true, ""); err != nil {
		t.Fatal(err)
	}
	if ft.addArgs["filename"] != "https://example.org/x.torrent" {
		t.Errorf("filename = %v", ft.addArgs["filename"])
	}
	if ft.addArgs["paused"] != true {
		t.Errorf("paused = %v", ft.addArgs["paused"])
	}
}

func TestAddDuplicate(t *testing.T) {
	ft := newFakeTransport()
	ft.addPayload = map[string]any{
		"torrent-duplicate": map[string]any{
			domain.FieldID:   float64(3),
			domain.FieldName: "Old Torrent",
		},
	}
	c := newTestClient(ft)

	resp, err := c.Add(context.Background(), "https://example.org/x.torrent", false, "")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Success {
		t.Error("duplicate must fail")
	}
	if !hasMessage(resp, "Torrent already exists: Old Torrent", true) {
		t.Errorf("messages = %+v", resp.Messages)
	}
	if len(resp.Torrents) != 1 || resp.Torrents[0].ID() != 3 {
		t.Errorf("duplicate response must carry the existing torrent: %v", resp.Torrents)
	}
}

func TestAddCorruptRewritesMessage(t *testing.T) {
	ft := newFakeTransport()
	ft.addErr = errors.New("daemon: Invalid or corrupt torrent file")
	c := newTestClient(ft)

	resp, err := c.Add(context.Background(), "https://example.org/x.torrent", false, "")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Success {
		t.Error("corrupt add must fail")
	}
	want := `Invalid or corrupt torrent: "https://example.org/x.torrent"`
	if !hasMessage(resp, want, true) {
		t.Errorf("messages = %+v", resp.Messages)
	}
}

func TestAddUnexpectedPayload(t *testing.T) {
	ft := newFakeTransport()
	ft.addPayload = map[string]any{}
	c := newTestClient(ft)

	_, err := c.Add(context.Background(), "https://example.org/x.torrent", false, "")
	if !errors.Is(err, domain.ErrContractViolation) {
		t.Fatalf("want contract violation, got %v", err)
	}
}

func TestAddRelativeDirUsesSession(t *testing.T) {
	ft := newFakeTransport()
	ft.addPayload = addedPayload(5, "X")
	c := newTestClient(ft)

	resp, err := c.Add(context.Background(), "https://example.org/x.torrent", false, "isos")
	if err != nil {
		t.Fatal(err)
	}
	if ft.addArgs["download-dir"] != "/downloads/isos" {
		t.Errorf("download-dir = %v", ft.addArgs["download-dir"])
	}
	if resp.Path != "/downloads/isos" {
		t.Errorf("resp.Path = %q, want %q", resp.Path, "/downloads/isos")
	}
	if !strings.Contains(strings.Join(ft.methods(), ","), "session-get") {
		t.Errorf("expected a session query, calls = %v", ft.methods())
	}
}

func TestIsInfoHash(t *testing.T) {
	if !isInfoHash("d2474e86c95b19b8bcfdb92bc12c9d44667cfa36") {
		t.Error("valid hash rejected")
	}
	if isInfoHash("d2474e86c95b19b8bcfdb92bc12c9d44667cfa3") {
		t.Error("39 chars accepted")
	}
	if isInfoHash("g2474e86c95b19b8bcfdb92bc12c9d44667cfa36") {
		t.Error("non-hex accepted")
	}
}
