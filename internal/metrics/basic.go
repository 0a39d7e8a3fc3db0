package metrics

import "strings"

// commentLeaders are the tokens a stripped line may start with to be
// classified as a comment on the heuristic path.
var commentLeaders = []string{"#", "//", "/*", "*"}

// ComputeBasic classifies lines heuristically for files without a full
// parser. Only the line-kind counts are produced; structural counters,
// complexity scores and the block-comment count stay absent.
func ComputeBasic(content string) FileMetrics {
	m := New()

	lines := splitLines(content)
	loc := len(lines)
	blank, comments := 0, 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			blank++
			continue
		}
		for _, leader := range commentLeaders {
			if strings.HasPrefix(trimmed, leader) {
				comments++
				break
			}
		}
	}

	m["loc"] = intPtr(loc)
	m["sloc"] = intPtr(loc - blank - comments)
	m["comments"] = intPtr(comments)
	m["blank"] = intPtr(blank)
	return m
}
