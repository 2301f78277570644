package domain

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// SmartStr is a string with natural comparison semantics: comparison against
// a probe is case-insensitive unless the probe contains uppercase letters,
// and a side that is purely numeric compares by its parsed value against the
// other side's length. Filters depend on these exact rules.
type SmartStr string

// NewSmartStr NFC-normalizes so combining marks don't inflate the length.
func NewSmartStr(s string) SmartStr {
	return SmartStr(norm.NFC.String(s))
}

func (s SmartStr) String() string { return string(s) }

// normalized lowers the subject when the probe is all lowercase.
func (s SmartStr) normalized(probe string) (string, string) {
	if strings.ToLower(probe) == probe {
		return strings.ToLower(string(s)), probe
	}
	return string(s), probe
}

func (s SmartStr) Equal(probe string) bool {
	a, b := s.normalized(probe)
	return a == b
}

func (s SmartStr) Contains(probe string) bool {
	a, b := s.normalized(probe)
	return strings.Contains(a, b)
}

// Compare returns -1, 0 or 1.
func (s SmartStr) Compare(probe string) int {
	a, b := s.normalized(probe)
	if n, ok := parseDigits(a); ok {
		return compareInts(n, len(b))
	}
	if n, ok := parseDigits(b); ok {
		return compareInts(len(a), n)
	}
	return strings.Compare(a, b)
}

func parseDigits(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
