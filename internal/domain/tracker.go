package domain

import (
	"net/url"
	"strings"
)

// Tracker is one announce entry as reported by the daemon. ID is the
// daemon's tracker identifier, needed to remove the entry.
type Tracker struct {
	ID       int
	Announce string
}

// NormalizeAnnounceURL makes announce URLs comparable: scheme and host are
// lowercased, the scheme's default port and a bare root path are dropped.
// Userinfo and query strings compare verbatim.
func NormalizeAnnounceURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return strings.TrimSpace(raw)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Host)
	switch u.Scheme {
	case "http":
		host = strings.TrimSuffix(host, ":80")
	case "https":
		host = strings.TrimSuffix(host, ":443")
	}
	u.Host = host
	if u.Path == "/" {
		u.Path = ""
	}
	return u.String()
}

func AnnounceURLEqual(a, b string) bool {
	return NormalizeAnnounceURL(a) == NormalizeAnnounceURL(b)
}
