package metrics

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/andreea312/Pull-Requests-Acceptance-Prediction/internal/lang"
	"github.com/andreea312/Pull-Requests-Acceptance-Prediction/internal/parser"
)

// lineKindCounts computes the radon-style raw line counts for parsed Python
// source: total lines, logical lines, source lines, single-line comment
// lines, multi-line (docstring) lines and blank lines.
func lineKindCounts(m FileMetrics, root *tree_sitter.Node, src []byte, spec *lang.Spec) {
	lines := splitLines(string(src))
	loc := len(lines)

	commentKinds := toSet(spec.CommentNodeTypes)
	simple := toSet(spec.SimpleStatementTypes)
	headers := toSet(spec.CompoundHeaderTypes)

	// Rows where a comment token starts (inline comments included) and rows
	// covered by standalone string statements (docstrings).
	commentRows := make(map[uint]bool)
	multiRows := make(map[uint]bool)
	lloc := 0
	parser.Walk(root, func(n *tree_sitter.Node) bool {
		kind := n.Kind()
		if commentKinds[kind] {
			commentRows[n.StartPosition().Row] = true
			return true
		}
		if simple[kind] || headers[kind] {
			lloc++
		}
		if kind == "expression_statement" && n.NamedChildCount() == 1 {
			if child := n.NamedChild(0); child != nil && child.Kind() == "string" {
				for r := child.StartPosition().Row; r <= child.EndPosition().Row; r++ {
					multiRows[r] = true
				}
			}
		}
		return true
	})

	blank, singleComments := 0, 0
	for i, line := range lines {
		if multiRows[uint(i)] {
			continue
		}
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			blank++
		case strings.HasPrefix(trimmed, "#"):
			singleComments++
		}
	}

	sloc := loc - blank - singleComments - len(multiRows)
	if sloc < 0 {
		sloc = 0
	}

	m["loc"] = intPtr(loc)
	m["lloc"] = intPtr(lloc)
	m["sloc"] = intPtr(sloc)
	m["comments"] = intPtr(len(commentRows))
	m["multi_comments"] = intPtr(len(multiRows))
	m["blank"] = intPtr(blank)
}

// splitLines splits content into lines the way Python's splitlines does:
// a trailing newline does not produce a final empty line.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
