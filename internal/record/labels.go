package record

import (
	"regexp"
	"strings"
)

// Vocabularies holds the keyword vocabularies the three title labels are
// matched against. The labels are independent: a title may set several.
type Vocabularies struct {
	Bugfix   []string `yaml:"bugfix"`
	Refactor []string `yaml:"refactor"`
	Feature  []string `yaml:"feature"`
}

// DefaultVocabularies returns the built-in keyword sets.
func DefaultVocabularies() Vocabularies {
	return Vocabularies{
		Bugfix: []string{
			"fix", "bug", "error", "issue", "fixes", "bugs", "errors", "issues",
			"fixing", "fixed", "problem", "patch", "correct", "resolve", "resolved", "hotfix",
		},
		Refactor: []string{
			"refactor", "cleanup", "refactored", "cleaning",
			"refactoring", "rewrite", "restructured", "modularize",
		},
		Feature: []string{
			"add", "feature", "implement", "introduce",
			"create", "new", "upgrade", "enable", "improve",
		},
	}
}

// labeler matches titles against pre-compiled whole-word patterns.
type labeler struct {
	bugfix   []*regexp.Regexp
	refactor []*regexp.Regexp
	feature  []*regexp.Regexp
}

func newLabeler(v Vocabularies) *labeler {
	return &labeler{
		bugfix:   compileTerms(v.Bugfix),
		refactor: compileTerms(v.Refactor),
		feature:  compileTerms(v.Feature),
	}
}

func compileTerms(terms []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(terms))
	for _, term := range terms {
		re, err := regexp.Compile(`\b` + regexp.QuoteMeta(strings.ToLower(term)) + `\b`)
		if err != nil {
			continue
		}
		patterns = append(patterns, re)
	}
	return patterns
}

// matches reports whether any pattern matches the lowercased title as a
// whole word.
func matches(title string, patterns []*regexp.Regexp) int {
	if title == "" {
		return 0
	}
	lower := strings.ToLower(title)
	for _, re := range patterns {
		if re.MatchString(lower) {
			return 1
		}
	}
	return 0
}
