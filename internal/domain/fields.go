package domain

import (
	"fmt"
	"sort"
)

// Field names used programmatically; the remaining registry entries are
// addressed by their literal names.
const (
	FieldID                    = "id"
	FieldName                  = "name"
	FieldStatus                = "status"
	FieldPath                  = "path"
	FieldTrackers              = "trackers"
	FieldFiles                 = "files"
	FieldFileStats             = "fileStats"
	FieldRateLimitUp           = "rate-limit-up"
	FieldRateLimitDown         = "rate-limit-down"
	FieldManualAnnounceAllowed = "time-manual-announce-allowed"
)

// AllFieldsToken is the sentinel field set meaning "every supported field".
// The request coordinator expands it before the transport sees it.
const AllFieldsToken = "ALL"

// FieldType converts a raw protocol value into its typed form. Conversions
// are pure; they never retain state.
type FieldType func(raw any) (any, error)

var fieldTypes = map[string]FieldType{
	FieldID:     func(raw any) (any, error) { n, err := toInt(raw); return TorrentID(n), err },
	"hash":      asString,
	FieldName:   asSmartStr,
	FieldPath:   asSmartStr,
	FieldStatus: asStatus,

	"ratio": func(raw any) (any, error) { f, err := toFloat(raw); return Ratio(f), err },

	"private":  asBool,
	"stalled":  asBool,
	"isolated": asBool,

	"%downloaded": asPercent,
	"%metadata":   asPercent,
	"%verified":   asPercent,

	"peers-connected":   asCount,
	"peers-uploading":   asCount,
	"peers-downloading": asCount,
	"peers-seeding":     func(raw any) (any, error) { n, err := toInt(raw); return SeedCount(n), err },

	"timestamp-created":          asTimestamp,
	"timestamp-added":            asTimestamp,
	"timestamp-started":          asTimestamp,
	"timestamp-active":           asTimestamp,
	"timestamp-done":             asTimestamp,
	FieldManualAnnounceAllowed:   asTimestamp,
	"timespan-eta":               func(raw any) (any, error) { n, err := toInt(raw); return Duration(n), err },

	"rate-down":        asRate,
	"rate-up":          asRate,
	FieldRateLimitUp:   asRate,
	FieldRateLimitDown: asRate,

	"size-final":      asSize,
	"size-total":      asSize,
	"size-downloaded": asSize,
	"size-uploaded":   asSize,
	"size-available":  asSize,
	"size-corrupt":    asSize,

	FieldTrackers: func(raw any) (any, error) {
		ts, ok := raw.([]Tracker)
		if !ok {
			return nil, fmt.Errorf("trackers: unexpected raw type %T", raw)
		}
		return ts, nil
	},
	FieldFiles: func(raw any) (any, error) {
		fs, ok := raw.([]FileInfo)
		if !ok {
			return nil, fmt.Errorf("files: unexpected raw type %T", raw)
		}
		return fs, nil
	},
	FieldFileStats: func(raw any) (any, error) {
		fs, ok := raw.([]FileStat)
		if !ok {
			return nil, fmt.Errorf("fileStats: unexpected raw type %T", raw)
		}
		return fs, nil
	},
}

// KnownField reports whether the field has a registered type.
func KnownField(name string) bool {
	_, ok := fieldTypes[name]
	return ok
}

// AllFields returns every supported field name, sorted.
func AllFields() []string {
	names := make([]string, 0, len(fieldTypes))
	for name := range fieldTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func convertField(name string, raw any) (any, error) {
	ft, ok := fieldTypes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFieldUnknown, name)
	}
	return ft(raw)
}

// Coercion helpers. Raw scalar values arrive as decoded JSON, so numbers
// are usually float64 but may already be native ints in tests.

func toFloat(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	}
	return 0, fmt.Errorf("not a number: %T(%v)", raw, raw)
}

func toInt(raw any) (int64, error) {
	switch v := raw.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	case TorrentID:
		return int64(v), nil
	}
	return 0, fmt.Errorf("not an integer: %T(%v)", raw, raw)
}

func toString(raw any) (string, error) {
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("not a string: %T(%v)", raw, raw)
	}
	return s, nil
}

func asString(raw any) (any, error) { return toString(raw) }

func asSmartStr(raw any) (any, error) {
	s, err := toString(raw)
	if err != nil {
		return nil, err
	}
	return NewSmartStr(s), nil
}

func asStatus(raw any) (any, error) {
	s, err := toString(raw)
	if err != nil {
		return nil, err
	}
	return ParseStatus(s)
}

func asBool(raw any) (any, error) {
	b, ok := raw.(bool)
	if !ok {
		return nil, fmt.Errorf("not a bool: %T(%v)", raw, raw)
	}
	return b, nil
}

func asPercent(raw any) (any, error) {
	f, err := toFloat(raw)
	if err != nil {
		return nil, err
	}
	return Percent(f), nil
}

func asCount(raw any) (any, error) {
	n, err := toInt(raw)
	if err != nil {
		return nil, err
	}
	return int(n), nil
}

func asTimestamp(raw any) (any, error) {
	n, err := toInt(raw)
	if err != nil {
		return nil, err
	}
	return Timestamp(n), nil
}

func asRate(raw any) (any, error) {
	f, err := toFloat(raw)
	if err != nil {
		return nil, err
	}
	return NewQuantity(f, PrefixMetric, "B/s"), nil
}

func asSize(raw any) (any, error) {
	f, err := toFloat(raw)
	if err != nil {
		return nil, err
	}
	return NewQuantity(f, PrefixBinary, "B"), nil
}
