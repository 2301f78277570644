package ports

import "torrentctl/internal/domain"

// TorrentFilter is a compiled predicate over typed torrent fields. The
// coordinator fetches NeededFields for all torrents, applies the predicate,
// then refetches the survivors with the caller's fields. Filters carry no
// cache state and are applied read-only.
type TorrentFilter interface {
	// Name is the human form used in "no matching torrents" messages.
	Name() string
	NeededFields() []string
	Apply(torrents []*domain.Torrent) []*domain.Torrent
}

// FileFilter selects files within a single torrent.
type FileFilter interface {
	Name() string
	Apply(t *domain.Torrent, files []domain.FileInfo) []domain.FileInfo
}
