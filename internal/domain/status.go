package domain

import "fmt"

// Status is a torrent lifecycle state. The set is closed and totally
// ordered; sorting by status uses Rank, not the string form.
type Status string

const (
	StatusVerifying     Status = "verifying"
	StatusVerifyPending Status = "verifying pending"
	StatusLeeching      Status = "leeching"
	StatusLeechPending  Status = "leeching pending"
	StatusSeeding       Status = "seeding"
	StatusSeedPending   Status = "seeding pending"
	StatusStopped       Status = "stopped"
)

var statusOrder = [...]Status{
	StatusVerifying,
	StatusVerifyPending,
	StatusLeeching,
	StatusLeechPending,
	StatusSeeding,
	StatusSeedPending,
	StatusStopped,
}

func ParseStatus(raw string) (Status, error) {
	for _, s := range statusOrder {
		if string(s) == raw {
			return s, nil
		}
	}
	return "", fmt.Errorf("invalid status: %q", raw)
}

// Rank is the position in the fixed lifecycle order.
func (s Status) Rank() int {
	for i, o := range statusOrder {
		if s == o {
			return i
		}
	}
	return len(statusOrder)
}

func (s Status) Compare(other Status) int {
	a, b := s.Rank(), other.Rank()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (s Status) Stopped() bool { return s == StatusStopped }

func (s Status) Verifying() bool {
	return s == StatusVerifying || s == StatusVerifyPending
}

func (s Status) Queued() bool {
	return s == StatusVerifyPending || s == StatusLeechPending || s == StatusSeedPending
}
