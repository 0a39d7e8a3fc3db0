package metrics

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/andreea312/Pull-Requests-Acceptance-Prediction/internal/lang"
	"github.com/andreea312/Pull-Requests-Acceptance-Prediction/internal/parser"
)

// ComputePython extracts the full metric set from Python source. The
// structural counters, cyclomatic scores and line-kind counts are computed
// as three independent groups, any of which may fail without affecting the
// others. A syntax error anywhere in the tree voids the two tree-shaped
// groups, but the line kinds only need tokens and are still counted over
// whatever parsed. Never panics.
func ComputePython(content string) FileMetrics {
	m := New()
	spec := lang.ForLanguage(lang.Python)
	if spec == nil {
		return m
	}

	src := []byte(content)
	tree, err := parser.Parse(lang.Python, src)
	if err != nil {
		return m
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return m
	}

	if !root.HasError() {
		runSafe(func() { structuralCounts(m, root, spec) })
		runSafe(func() { cyclomaticScores(m, root, spec) })
	}
	runSafe(func() { lineKindCounts(m, root, src, spec) })
	return m
}

// structuralCounts walks the tree once, tracking the current nesting depth
// and the plain counters. Depth is the maximum simultaneous nesting along any
// path, restored on exit from each construct, not a running total.
func structuralCounts(m FileMetrics, root *tree_sitter.Node, spec *lang.Spec) {
	nesting := toSet(spec.NestingNodeTypes)
	branches := toSet(spec.BranchNodeTypes)
	loops := toSet(spec.LoopNodeTypes)
	calls := toSet(spec.CallNodeTypes)
	funcs := toSet(spec.FunctionNodeTypes)

	var depth, maxDepth int
	var funcCount, maxArgs, callCount, ifCount, loopCount int

	var visit func(n *tree_sitter.Node)
	visit = func(n *tree_sitter.Node) {
		kind := n.Kind()

		opened := nesting[kind]
		if opened {
			depth++
			if depth > maxDepth {
				maxDepth = depth
			}
		}
		if funcs[kind] {
			funcCount++
			if args := countParameters(n, spec); args > maxArgs {
				maxArgs = args
			}
		}
		if branches[kind] {
			ifCount++
		}
		if loops[kind] {
			loopCount++
		}
		if calls[kind] {
			callCount++
		}

		for i := uint(0); i < n.ChildCount(); i++ {
			if child := n.Child(i); child != nil {
				visit(child)
			}
		}
		if opened {
			depth--
		}
	}
	visit(root)

	m["max_nesting"] = intPtr(maxDepth)
	m["func_count"] = intPtr(funcCount)
	m["max_args"] = intPtr(maxArgs)
	m["call_count"] = intPtr(callCount)
	m["if_count"] = intPtr(ifCount)
	m["loop_count"] = intPtr(loopCount)
}

// countParameters counts the formal parameters of a function definition.
// Positional parameters, *args and **kwargs each count one unit; the bare
// "*" and "/" separators are not parameters, and keyword-only parameters
// (anything positional after a bare "*" or a *args) do not count.
func countParameters(funcNode *tree_sitter.Node, spec *lang.Spec) int {
	paramsNode := funcNode.ChildByFieldName("parameters")
	if paramsNode == nil {
		return 0
	}
	positional := toSet(spec.ParameterNodeTypes)
	splats := toSet(spec.SplatParameterTypes)
	markers := toSet(spec.KeywordOnlyMarkerTypes)

	count := 0
	keywordOnly := false
	for i := uint(0); i < paramsNode.NamedChildCount(); i++ {
		child := paramsNode.NamedChild(i)
		if child == nil {
			continue
		}
		kind := child.Kind()
		if markers[kind] {
			keywordOnly = true
		}
		switch {
		case splats[kind]:
			count++
		case positional[kind] && !keywordOnly:
			count++
		}
	}
	return count
}
