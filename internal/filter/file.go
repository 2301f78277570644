package filter

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"torrentctl/internal/domain"
)

// File is a compiled per-file filter. Expressions see the file's name,
// size_total, size_downloaded, progress, wanted, priority and the owning
// torrent's name as torrent_name.
type File struct {
	name    string
	program *vm.Program
}

func NewFile(expression string) (*File, error) {
	program, err := expr.Compile(expression, expr.AsBool(), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("compile file filter %q: %w", expression, err)
	}
	return &File{name: expression, program: program}, nil
}

func (f *File) Name() string { return f.name }

func (f *File) Apply(t *domain.Torrent, files []domain.FileInfo) []domain.FileInfo {
	var out []domain.FileInfo
	for _, fi := range files {
		env := map[string]any{
			"name":            fi.Name,
			"size_total":      fi.SizeTotal,
			"size_downloaded": fi.SizeDownloaded,
			"progress":        float64(fi.Progress()),
			"wanted":          fi.Wanted,
			"priority":        fi.Priority.String(),
			"torrent_name":    string(t.Name()),
		}
		result, err := expr.Run(f.program, env)
		if err != nil {
			continue
		}
		if matched, ok := result.(bool); ok && matched {
			out = append(out, fi)
		}
	}
	return out
}
