package metrics

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/andreea312/Pull-Requests-Acceptance-Prediction/internal/lang"
	"github.com/andreea312/Pull-Requests-Acceptance-Prediction/internal/parser"
)

// cyclomaticScores computes a decision-point cyclomatic score per function
// definition and reports the mean and maximum across all functions in the
// file. A file defining no functions leaves avg_cc and max_cc absent.
func cyclomaticScores(m FileMetrics, root *tree_sitter.Node, spec *lang.Spec) {
	decisions := toSet(spec.DecisionNodeTypes)
	funcs := toSet(spec.FunctionNodeTypes)

	var scores []float64
	parser.Walk(root, func(n *tree_sitter.Node) bool {
		if funcs[n.Kind()] {
			scores = append(scores, functionComplexity(n, decisions, funcs))
		}
		return true
	})

	if len(scores) == 0 {
		return
	}
	sum, maxScore := 0.0, scores[0]
	for _, s := range scores {
		sum += s
		if s > maxScore {
			maxScore = s
		}
	}
	m["avg_cc"] = Ptr(sum / float64(len(scores)))
	m["max_cc"] = Ptr(maxScore)
}

// functionComplexity scores one function: a base of 1 plus one per decision
// point in its body. Nested function definitions are scored separately and
// excluded from the enclosing function's count.
func functionComplexity(funcNode *tree_sitter.Node, decisions, funcs map[string]bool) float64 {
	score := 1.0
	parser.Walk(funcNode, func(n *tree_sitter.Node) bool {
		if n.Id() != funcNode.Id() && funcs[n.Kind()] {
			return false
		}
		if decisions[n.Kind()] {
			score++
		}
		return true
	})
	return score
}
