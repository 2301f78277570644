package domain

import (
	"strconv"
	"time"
)

// Anything closer than this renders as "now".
const nowWindowSeconds = 5

// Duration is a time span in seconds with two daemon sentinels.
type Duration int64

const (
	DurationNotApplicable Duration = -1
	DurationUnknown       Duration = -2
)

var durationUnits = []struct {
	symbol  string
	seconds int64
}{
	{"y", 31557600},
	{"M", 2592000},
	{"d", 86400},
	{"h", 3600},
	{"m", 60},
	{"s", 1},
}

func (d Duration) Known() bool { return d >= 0 }

// String renders the largest fitting unit: "3h", "12d", "now", "?" for
// unknown and "" for not applicable.
func (d Duration) String() string {
	switch d {
	case DurationUnknown:
		return "?"
	case DurationNotApplicable:
		return ""
	}
	abs := int64(d)
	if abs < 0 {
		abs = -abs
	}
	if abs < nowWindowSeconds {
		return "now"
	}
	for _, u := range durationUnits {
		if abs >= u.seconds {
			return strconv.FormatInt(int64(d)/u.seconds, 10) + u.symbol
		}
	}
	return "0s"
}

// Timestamp is a point in time in unix seconds.
type Timestamp int64

func (t Timestamp) Time() time.Time { return time.Unix(int64(t), 0) }

// After reports whether the timestamp lies beyond now.
func (t Timestamp) After(now time.Time) bool { return int64(t) > now.Unix() }

// Until gives the span between now and the timestamp.
func (t Timestamp) Until(now time.Time) Duration {
	return Duration(int64(t) - now.Unix())
}

// String keeps nearby timestamps short: time of day within one day, date and
// time within two, date only beyond that.
func (t Timestamp) String() string {
	delta := int64(t) - time.Now().Unix()
	if delta < 0 {
		delta = -delta
	}
	switch {
	case delta <= 86400:
		return t.Time().Format("15:04:05")
	case delta <= 2*86400:
		return t.Time().Format("2006-01-02 15:04:05")
	}
	return t.Time().Format("2006-01-02")
}
