// Package filter compiles filter expressions into predicates the client's
// request coordinator can apply. Torrent fields appear in expressions as
// identifiers with '-' replaced by '_' and '%' by 'pct_', e.g.
// "status == 'seeding' && rate_up > 0" or "pct_downloaded < 100".
package filter

import (
	"fmt"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
	"github.com/expr-lang/expr/vm"

	"torrentctl/internal/domain"
)

// identifier(field name) -> field name, for every supported field.
var fieldByIdent = func() map[string]string {
	m := make(map[string]string)
	for _, f := range domain.AllFields() {
		m[identFor(f)] = f
	}
	return m
}()

func identFor(field string) string {
	out := make([]rune, 0, len(field))
	for _, r := range field {
		switch r {
		case '-':
			out = append(out, '_')
		case '%':
			out = append(out, []rune("pct_")...)
		default:
			out = append(out, r)
		}
	}
	return string(out)
}

// Torrent is a compiled torrent filter. It declares the fields its
// expression reads so the coordinator can fetch exactly those.
type Torrent struct {
	name    string
	program *vm.Program
	needed  []string
}

func NewTorrent(expression string) (*Torrent, error) {
	needed, err := neededFields(expression)
	if err != nil {
		return nil, err
	}
	program, err := expr.Compile(expression, expr.AsBool(), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", expression, err)
	}
	return &Torrent{name: expression, program: program, needed: needed}, nil
}

func (f *Torrent) Name() string { return f.name }

func (f *Torrent) NeededFields() []string { return f.needed }

// Apply keeps the torrents for which the expression is true. Evaluation
// errors drop the torrent; a filter never mutates anything.
func (f *Torrent) Apply(torrents []*domain.Torrent) []*domain.Torrent {
	var out []*domain.Torrent
	for _, t := range torrents {
		result, err := expr.Run(f.program, torrentEnv(t, f.needed))
		if err != nil {
			continue
		}
		if matched, ok := result.(bool); ok && matched {
			out = append(out, t)
		}
	}
	return out
}

// neededFields parses the expression and collects every identifier that
// names a known torrent field.
func neededFields(expression string) ([]string, error) {
	tree, err := parser.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("parse filter %q: %w", expression, err)
	}
	collector := &identCollector{idents: make(map[string]struct{})}
	ast.Walk(&tree.Node, collector)

	set := make(map[string]struct{})
	for ident := range collector.idents {
		if field, ok := fieldByIdent[ident]; ok {
			set[field] = struct{}{}
		}
	}
	set[domain.FieldID] = struct{}{}
	needed := make([]string, 0, len(set))
	for field := range set {
		needed = append(needed, field)
	}
	sort.Strings(needed)
	return needed, nil
}

type identCollector struct {
	idents map[string]struct{}
}

func (c *identCollector) Visit(node *ast.Node) {
	if n, ok := (*node).(*ast.IdentifierNode); ok {
		c.idents[n.Value] = struct{}{}
	}
}

// torrentEnv flattens typed field values into plain expr-friendly types.
func torrentEnv(t *domain.Torrent, fields []string) map[string]any {
	env := make(map[string]any, len(fields))
	for _, field := range fields {
		v, err := t.Value(field)
		if err != nil {
			continue
		}
		env[identFor(field)] = flatten(v)
	}
	return env
}

func flatten(v any) any {
	switch tv := v.(type) {
	case domain.TorrentID:
		return int64(tv)
	case domain.SmartStr:
		return string(tv)
	case domain.Status:
		return string(tv)
	case domain.Quantity:
		return tv.Value()
	case domain.Percent:
		return float64(tv)
	case domain.Ratio:
		return float64(tv)
	case domain.SeedCount:
		return int(tv)
	case domain.Timestamp:
		return int64(tv)
	case domain.Duration:
		return int64(tv)
	case []domain.Tracker:
		urls := make([]string, len(tv))
		for i, trk := range tv {
			urls[i] = trk.Announce
		}
		return urls
	case []domain.FileInfo:
		return len(tv)
	}
	return v
}
