package domain

import "fmt"

// FilePriority is the per-file download priority tier.
type FilePriority int

const (
	PriorityLow    FilePriority = -1
	PriorityNormal FilePriority = 0
	PriorityHigh   FilePriority = 1
)

func (p FilePriority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	}
	return fmt.Sprintf("priority(%d)", int(p))
}

func ParseFilePriority(s string) (FilePriority, error) {
	switch s {
	case "low":
		return PriorityLow, nil
	case "normal":
		return PriorityNormal, nil
	case "high":
		return PriorityHigh, nil
	}
	return 0, fmt.Errorf("invalid file priority: %q", s)
}

// FileInfo describes one file inside a torrent. Index is the daemon's file
// index, which doubles as the identifier in mutating calls.
type FileInfo struct {
	Index          int
	Name           string
	SizeTotal      int64
	SizeDownloaded int64
	Wanted         bool
	Priority       FilePriority
}

func (f FileInfo) Progress() Percent {
	if f.SizeTotal <= 0 {
		return 0
	}
	return Percent(float64(f.SizeDownloaded) / float64(f.SizeTotal) * 100)
}

// FileStat is the variable part of a file's state. The static part comes
// from a one-time file-listing fetch and the two are merged by index.
type FileStat struct {
	SizeDownloaded int64
	Wanted         bool
	Priority       FilePriority
}

// FileID addresses one file of one torrent in a selection.
type FileID struct {
	Torrent TorrentID
	File    int
}
