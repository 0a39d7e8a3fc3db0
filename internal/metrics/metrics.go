// Package metrics computes static complexity metrics for a single file's
// content and aggregates per-file metrics to pull-request granularity.
//
// Every metric key is always present in a FileMetrics; a nil value marks a
// metric whose computation failed or does not apply to the file's language.
package metrics

// Keys lists the fourteen metric keys every FileMetrics carries.
var Keys = []string{
	"max_nesting", "func_count", "max_args", "call_count", "if_count", "loop_count",
	"avg_cc", "max_cc",
	"loc", "lloc", "sloc", "comments", "multi_comments", "blank",
}

// FileMetrics maps each metric key to its value, nil when absent.
type FileMetrics map[string]*float64

// New returns a FileMetrics with all keys present and absent values.
func New() FileMetrics {
	m := make(FileMetrics, len(Keys))
	for _, k := range Keys {
		m[k] = nil
	}
	return m
}

// Ptr returns a pointer to v.
func Ptr(v float64) *float64 {
	return &v
}

func intPtr(v int) *float64 {
	f := float64(v)
	return &f
}

func toSet(kinds []string) map[string]bool {
	s := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		s[k] = true
	}
	return s
}

// runSafe runs fn and swallows any panic. Extraction groups commit their
// results only on completion, so a recovered group leaves its keys absent
// without touching the others.
func runSafe(fn func()) {
	defer func() { _ = recover() }()
	fn()
}
