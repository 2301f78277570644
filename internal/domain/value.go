package domain

import (
	"math"
	"strconv"
	"strings"
)

// Prefix selects the factor table used when rendering a Quantity.
type Prefix int

const (
	PrefixMetric Prefix = iota
	PrefixBinary
)

// Sentinel raw values the daemon uses for quantities it cannot report.
const (
	QuantityUnknown       float64 = -1
	QuantityNotApplicable float64 = -2
)

type prefixStep struct {
	symbol string
	factor float64
}

var (
	metricSteps = []prefixStep{{"T", 1e12}, {"G", 1e9}, {"M", 1e6}, {"k", 1e3}}
	binarySteps = []prefixStep{{"Ti", 1 << 40}, {"Gi", 1 << 30}, {"Mi", 1 << 20}, {"Ki", 1 << 10}}
)

// Quantity is a numeric value with a unit and a preferred prefix style.
// The sentinel values render as "?" (unknown) and "" (not applicable).
type Quantity struct {
	value  float64
	prefix Prefix
	unit   string
}

func NewQuantity(value float64, prefix Prefix, unit string) Quantity {
	return Quantity{value: value, prefix: prefix, unit: unit}
}

func (q Quantity) Value() float64 { return q.value }
func (q Quantity) Unit() string   { return q.unit }

func (q Quantity) Known() bool { return q.value >= 0 }

// String renders the value with its prefix but without the unit.
func (q Quantity) String() string { return q.format(false) }

// WithUnit renders the value with prefix and unit, e.g. "1.5MiB".
func (q Quantity) WithUnit() string { return q.format(true) }

func (q Quantity) format(withUnit bool) string {
	switch q.value {
	case QuantityUnknown:
		return "?"
	case QuantityNotApplicable:
		return ""
	}
	steps := metricSteps
	if q.prefix == PrefixBinary {
		steps = binarySteps
	}
	var s string
	for _, step := range steps {
		if math.Abs(q.value) >= step.factor {
			s = prettyFloat(q.value/step.factor) + step.symbol
			break
		}
	}
	if s == "" {
		s = prettyFloat(q.value)
	}
	if withUnit && q.unit != "" {
		s += q.unit
	}
	return s
}

// Percent is a 0-100 value with a compact string form.
type Percent float64

func (p Percent) String() string { return prettyFloat(float64(p)) }

// Ratio is an upload/download ratio; -1 means the daemon does not know it.
type Ratio float64

const RatioUnknown Ratio = -1

func (r Ratio) String() string {
	if r == RatioUnknown {
		return "?"
	}
	return prettyFloat(float64(r))
}

// SeedCount is a swarm seed count; -1 means unknown.
type SeedCount int

const SeedCountUnknown SeedCount = -1

func (c SeedCount) String() string {
	if c == SeedCountUnknown {
		return "?"
	}
	return strconv.Itoa(int(c))
}

// prettyFloat keeps at most two decimals and drops trailing zeros.
func prettyFloat(v float64) string {
	var s string
	switch {
	case math.Abs(v) >= 100:
		return strconv.FormatFloat(v, 'f', 0, 64)
	case math.Abs(v) >= 10:
		s = strconv.FormatFloat(v, 'f', 1, 64)
	default:
		s = strconv.FormatFloat(v, 'f', 2, 64)
	}
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	return s
}
