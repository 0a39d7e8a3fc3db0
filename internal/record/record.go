// Package record models one pull request's enriched data and assembles the
// flat feature row persisted to a batch.
package record

import (
	"encoding/json"
	"unicode/utf8"

	"github.com/andreea312/Pull-Requests-Acceptance-Prediction/internal/metrics"
)

// CommentSummary is one issue comment's author and timestamp.
type CommentSummary struct {
	User      string `json:"user"`
	CreatedAt string `json:"created_at"`
}

// CommitSummary is one commit's author and timestamp.
type CommitSummary struct {
	Author    string `json:"author"`
	Timestamp string `json:"timestamp"`
}

// File is one changed file's content snapshot within a pull request.
// Content is empty when the snapshot could not be fetched.
type File struct {
	Filename string
	Content  string
	Metrics  metrics.FileMetrics
}

// PullRequest is one closed pull request with its enrichment data.
// Timestamps are RFC3339 strings, empty when absent; the count fields are -1
// when the host omitted them. Retained records always have an empty MergedAt.
type PullRequest struct {
	Number       int
	Title        string
	Body         string
	CreatedAt    string
	ClosedAt     string
	MergedAt     string
	Additions    int
	Deletions    int
	ChangedFiles int
	Commits      int
	Author       string

	Comments  []CommentSummary
	Reviewers []string
	CommitLog []CommitSummary
	Files     []*File

	// Assembled features, populated by Assembler.Assemble.
	Aggregates        map[string]*float64
	TitleLength       *int
	DescriptionLength *int
	FilesWithContent  int
	IsBugfix          int
	IsRefactor        int
	IsFeature         int
}

// HasPythonFile reports whether any changed file is a Python source file.
func (pr *PullRequest) HasPythonFile() bool {
	for _, f := range pr.Files {
		if isPython(f.Filename) {
			return true
		}
	}
	return false
}

// Row flattens the assembled record into the column map persisted to a
// batch. List-valued fields are JSON-encoded; absent values are nil.
func (pr *PullRequest) Row() map[string]any {
	row := map[string]any{
		"number":        pr.Number,
		"title":         orNil(pr.Title),
		"created_at":    orNil(pr.CreatedAt),
		"closed_at":     orNil(pr.ClosedAt),
		"merged_at":     orNil(pr.MergedAt),
		"additions":     pr.Additions,
		"deletions":     pr.Deletions,
		"changed_files": pr.ChangedFiles,
		"commits":       pr.Commits,
		"author":        orNil(pr.Author),

		"comments_list":  encodeJSON(emptyIfNilComments(pr.Comments)),
		"reviewers_list": encodeJSON(emptyIfNilStrings(pr.Reviewers)),
		"commits_list":   nilOrJSON(pr.CommitLog == nil, pr.CommitLog),
		"files_metrics":  nilOrJSON(pr.Files == nil, pr.fileRows()),

		"files_with_content": pr.FilesWithContent,
		"is_bugfix":          pr.IsBugfix,
		"is_refactor":        pr.IsRefactor,
		"is_feature":         pr.IsFeature,
	}
	if pr.TitleLength != nil {
		row["title_length"] = *pr.TitleLength
	} else {
		row["title_length"] = nil
	}
	if pr.DescriptionLength != nil {
		row["description_length"] = *pr.DescriptionLength
	} else {
		row["description_length"] = nil
	}
	for k, v := range pr.Aggregates {
		if v != nil {
			row[k] = *v
		} else {
			row[k] = nil
		}
	}
	return row
}

// fileRows mirrors the per-file dictionaries of the files_metrics column:
// filename, content (null when absent) and the flattened metric keys.
func (pr *PullRequest) fileRows() []map[string]any {
	rows := make([]map[string]any, 0, len(pr.Files))
	for _, f := range pr.Files {
		fr := map[string]any{"filename": f.Filename}
		if f.Content != "" {
			fr["content"] = f.Content
		} else {
			fr["content"] = nil
		}
		for k, v := range f.Metrics {
			if v != nil {
				fr[k] = *v
			} else {
				fr[k] = nil
			}
		}
		rows = append(rows, fr)
	}
	return rows
}

func orNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// nilOrJSON keeps the column absent when the whole list could not be
// fetched, distinguishing "fetch failed" from "empty".
func nilOrJSON(absent bool, v any) any {
	if absent {
		return nil
	}
	return encodeJSON(v)
}

func encodeJSON(v any) any {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return string(b)
}

func emptyIfNilComments(cs []CommentSummary) []CommentSummary {
	if cs == nil {
		return []CommentSummary{}
	}
	return cs
}

func emptyIfNilStrings(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}

func runeLen(s string) *int {
	if s == "" {
		return nil
	}
	n := utf8.RuneCountInString(s)
	return &n
}
