package record

import (
	"path/filepath"

	"github.com/andreea312/Pull-Requests-Acceptance-Prediction/internal/lang"
	"github.com/andreea312/Pull-Requests-Acceptance-Prediction/internal/metrics"
)

// Assembler enriches fetched pull requests with per-file metrics, aggregate
// statistics and derived scalar features. Safe for concurrent use.
type Assembler struct {
	labels *labeler
}

// NewAssembler builds an Assembler using the given keyword vocabularies.
func NewAssembler(v Vocabularies) *Assembler {
	return &Assembler{labels: newLabeler(v)}
}

// Assemble computes metrics for every file with content, merges the
// aggregate statistics and derives the record-level features. Files with
// empty or absent content are skipped for extraction but still carry the
// full (all-absent) metric key set. The raw description is discarded after
// its length is taken.
func (a *Assembler) Assemble(pr *PullRequest) {
	filesWithContent := 0
	fileMetrics := make([]metrics.FileMetrics, 0, len(pr.Files))
	for _, f := range pr.Files {
		if f.Content == "" {
			f.Metrics = metrics.New()
			fileMetrics = append(fileMetrics, f.Metrics)
			continue
		}
		filesWithContent++
		if isPython(f.Filename) {
			f.Metrics = metrics.ComputePython(f.Content)
		} else {
			f.Metrics = metrics.ComputeBasic(f.Content)
		}
		fileMetrics = append(fileMetrics, f.Metrics)
	}

	pr.Aggregates = metrics.Aggregate(fileMetrics)
	pr.FilesWithContent = filesWithContent

	pr.TitleLength = runeLen(pr.Title)
	pr.DescriptionLength = runeLen(pr.Body)
	pr.Body = ""

	pr.IsBugfix = matches(pr.Title, a.labels.bugfix)
	pr.IsRefactor = matches(pr.Title, a.labels.refactor)
	pr.IsFeature = matches(pr.Title, a.labels.feature)
}

// isPython reports whether the filename selects the structured-language
// extraction path.
func isPython(filename string) bool {
	spec := lang.ForExtension(filepath.Ext(filename))
	return spec != nil && spec.Language == lang.Python
}
