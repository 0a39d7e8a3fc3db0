// Package batch writes fully-enriched pull-request rows as tabular CSV
// batches with a fixed column schema.
package batch

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/andreea312/Pull-Requests-Acceptance-Prediction/internal/metrics"
)

// Columns is the fixed column order of every batch file: identifying and
// enrichment fields, then min/avg/max per metric key, then the derived
// scalar features.
var Columns = buildColumns()

func buildColumns() []string {
	cols := []string{
		"number", "title", "created_at", "closed_at", "merged_at",
		"additions", "deletions", "changed_files", "commits", "author",
		"comments_list", "reviewers_list", "commits_list", "files_metrics",
	}
	for _, key := range metrics.Keys {
		cols = append(cols, "min_"+key, "avg_"+key, "max_"+key)
	}
	return append(cols,
		"title_length", "description_length", "files_with_content",
		"is_bugfix", "is_refactor", "is_feature",
	)
}

// Writer persists batches. The mutex guards the file write so concurrent
// repository runs sharing a Writer never interleave output.
type Writer struct {
	mu sync.Mutex
}

// NewWriter returns a batch Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteBatch writes rows to path with overwrite semantics: header row plus
// one row per pull request, every column present, absent values as empty
// cells. The file is written to a temp path and renamed so a failed write
// leaves no partial batch visible. Returns the number of rows written.
func (w *Writer) WriteBatch(path string, rows []map[string]any) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return 0, fmt.Errorf("create batch file: %w", err)
	}

	cw := csv.NewWriter(f)
	if err := cw.Write(Columns); err != nil {
		f.Close()
		os.Remove(tmp)
		return 0, fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		cells := make([]string, len(Columns))
		for i, col := range Columns {
			cells[i] = formatCell(row[col])
		}
		if err := cw.Write(cells); err != nil {
			f.Close()
			os.Remove(tmp)
			return 0, fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		os.Remove(tmp)
		return 0, fmt.Errorf("flush batch: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("close batch file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("rename batch file: %w", err)
	}
	return len(rows), nil
}

func formatCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
