package domain

import (
	"errors"
	"testing"
)

func TestConvertFieldTypes(t *testing.T) {
	cases := []struct {
		field string
		raw   any
		check func(v any) bool
	}{
		{FieldID, float64(5), func(v any) bool { return v.(TorrentID) == 5 }},
		{FieldName, "Some.Torrent", func(v any) bool { return v.(SmartStr) == "Some.Torrent" }},
		{FieldStatus, "seeding", func(v any) bool { return v.(Status) == StatusSeeding }},
		{"ratio", 1.5, func(v any) bool { return v.(Ratio) == 1.5 }},
		{"%downloaded", 99.9, func(v any) bool { return v.(Percent) == 99.9 }},
		{"peers-seeding", float64(-1), func(v any) bool { return v.(SeedCount) == SeedCountUnknown }},
		{"timespan-eta", float64(-2), func(v any) bool { return v.(Duration) == DurationUnknown }},
		{"timestamp-added", float64(1700000000), func(v any) bool { return v.(Timestamp) == 1700000000 }},
		{"private", true, func(v any) bool { return v.(bool) }},
	}
	for _, tc := range cases {
		v, err := convertField(tc.field, tc.raw)
		if err != nil {
			t.Fatalf("convertField(%q): %v", tc.field, err)
		}
		if !tc.check(v) {
			t.Errorf("convertField(%q, %v) = %v (%T)", tc.field, tc.raw, v, v)
		}
	}
}

func TestConvertFieldUnknown(t *testing.T) {
	if _, err := convertField("bogus", 1); !errors.Is(err, ErrFieldUnknown) {
		t.Fatalf("want ErrFieldUnknown, got %v", err)
	}
}

func TestConvertFieldBadRaw(t *testing.T) {
	if _, err := convertField(FieldStatus, 42); err == nil {
		t.Fatal("numeric status should not convert")
	}
	if _, err := convertField(FieldStatus, "bogus"); err == nil {
		t.Fatal("unknown status string should not convert")
	}
}

func TestAllFieldsKnown(t *testing.T) {
	all := AllFields()
	if len(all) == 0 {
		t.Fatal("no fields registered")
	}
	for _, f := range all {
		if !KnownField(f) {
			t.Errorf("AllFields() lists unknown field %q", f)
		}
	}
	for i := 1; i < len(all); i++ {
		if all[i-1] >= all[i] {
			t.Fatalf("AllFields() not sorted at %q", all[i])
		}
	}
}
