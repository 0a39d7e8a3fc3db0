package parser

import (
	"testing"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/andreea312/Pull-Requests-Acceptance-Prediction/internal/lang"
)

func TestParsePython(t *testing.T) {
	source := []byte(`def greet(name):
    return f"Hello, {name}"

class Greeter:
    def method(self):
        pass
`)
	tree, err := Parse(lang.Python, source)
	if err != nil {
		t.Fatalf("Parse python: %v", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		t.Fatal("root node is nil")
	}
	if root.HasError() {
		t.Fatal("unexpected parse error")
	}

	var funcCount, classCount int
	Walk(root, func(n *tree_sitter.Node) bool {
		switch n.Kind() {
		case "function_definition":
			funcCount++
		case "class_definition":
			classCount++
		}
		return true
	})
	if funcCount != 2 {
		t.Errorf("expected 2 function_definitions, got %d", funcCount)
	}
	if classCount != 1 {
		t.Errorf("expected 1 class_definition, got %d", classCount)
	}
}

func TestParseMalformedPythonStillReturnsTree(t *testing.T) {
	tree, err := Parse(lang.Python, []byte("def broken(:\n    ???"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer tree.Close()
	if !tree.RootNode().HasError() {
		t.Error("expected the tree to carry an error node")
	}
}

func TestParseUnsupportedLanguage(t *testing.T) {
	if _, err := Parse(lang.Language("cobol"), []byte("x")); err == nil {
		t.Fatal("expected error for unsupported language")
	}
}

func TestNodeText(t *testing.T) {
	source := []byte("x = 1\n")
	tree, err := Parse(lang.Python, source)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer tree.Close()
	if got := NodeText(tree.RootNode(), source); got != string(source) {
		t.Errorf("NodeText = %q, want %q", got, string(source))
	}
}
