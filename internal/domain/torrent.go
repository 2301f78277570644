package domain

import (
	"fmt"
	"sort"
	"sync"
)

// TorrentID is the daemon-assigned identifier, stable for the torrent's
// lifetime on that daemon.
type TorrentID int64

// Torrent is one remote torrent: a map of raw field values as received plus
// a lazily computed typed overlay. A torrent holding only id and name (as
// returned from mutating calls) is a valid partial projection. Identity is
// the ID alone; use ID() for comparisons.
type Torrent struct {
	id TorrentID

	mu    sync.Mutex
	raw   map[string]any
	typed map[string]any
}

// NewTorrent builds a torrent from a raw record, which must carry "id".
func NewTorrent(raw map[string]any) (*Torrent, error) {
	idRaw, ok := raw[FieldID]
	if !ok {
		return nil, fmt.Errorf("%w: torrent record without id", ErrContractViolation)
	}
	id, err := toInt(idRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: torrent id: %v", ErrContractViolation, err)
	}
	t := &Torrent{
		id:    TorrentID(id),
		raw:   make(map[string]any, len(raw)),
		typed: make(map[string]any),
	}
	for k, v := range raw {
		t.raw[k] = v
	}
	return t, nil
}

func (t *Torrent) ID() TorrentID { return t.id }

// Merge overlays new raw values. Fields absent from the record stay
// untouched; overwritten fields lose their cached typed value.
func (t *Torrent) Merge(raw map[string]any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for k, v := range raw {
		t.raw[k] = v
		delete(t.typed, k)
	}
}

// Has reports whether the raw value for the field is present.
func (t *Torrent) Has(field string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.raw[field]
	return ok
}

// Fields lists the populated raw fields, sorted.
func (t *Torrent) Fields() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	names := make([]string, 0, len(t.raw))
	for name := range t.raw {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Value returns the typed value for a field, converting on first access and
// caching until the raw value is overwritten.
func (t *Torrent) Value(field string) (any, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if v, ok := t.typed[field]; ok {
		return v, nil
	}
	raw, ok := t.raw[field]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFieldAbsent, field)
	}
	v, err := convertField(field, raw)
	if err != nil {
		return nil, err
	}
	t.typed[field] = v
	return v, nil
}

// Display renders a field for humans; absent or broken fields render empty.
func (t *Torrent) Display(field string) string {
	v, err := t.Value(field)
	if err != nil {
		return ""
	}
	if q, ok := v.(Quantity); ok {
		return q.WithUnit()
	}
	return fmt.Sprint(v)
}

// Typed convenience accessors for fields the action catalog relies on.
// They return zero values when the field is absent; callers are expected to
// have fetched the field first.

func (t *Torrent) Name() string {
	if v, err := t.Value(FieldName); err == nil {
		return string(v.(SmartStr))
	}
	return ""
}

func (t *Torrent) Status() Status {
	if v, err := t.Value(FieldStatus); err == nil {
		return v.(Status)
	}
	return ""
}

func (t *Torrent) Path() string {
	if v, err := t.Value(FieldPath); err == nil {
		return string(v.(SmartStr))
	}
	return ""
}

func (t *Torrent) Trackers() []Tracker {
	if v, err := t.Value(FieldTrackers); err == nil {
		return v.([]Tracker)
	}
	return nil
}

// Files merges the static file listing with the per-file stats overlay.
// Stats beyond the listing's length are ignored.
func (t *Torrent) Files() []FileInfo {
	v, err := t.Value(FieldFiles)
	if err != nil {
		return nil
	}
	base := v.([]FileInfo)
	files := make([]FileInfo, len(base))
	copy(files, base)

	if sv, err := t.Value(FieldFileStats); err == nil {
		for i, stat := range sv.([]FileStat) {
			if i >= len(files) {
				break
			}
			files[i].SizeDownloaded = stat.SizeDownloaded
			files[i].Wanted = stat.Wanted
			files[i].Priority = stat.Priority
		}
	}
	return files
}
