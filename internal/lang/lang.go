package lang

// Language represents a language with a full parser available.
type Language string

const (
	Python Language = "python"
)

// Spec defines the tree-sitter node kinds driving metric extraction for a
// language. Each set is an explicit enumeration: the extractor walks the
// tree once and consults these tables, it never dispatches on open-ended
// node kinds.
type Spec struct {
	Language       Language
	FileExtensions []string

	// FunctionNodeTypes lists function/method definition node kinds.
	FunctionNodeTypes []string
	// NestingNodeTypes lists node kinds that open a nesting level
	// (conditional, loop, exception-handling, resource-scope constructs).
	NestingNodeTypes []string
	// BranchNodeTypes lists conditional statement node kinds.
	BranchNodeTypes []string
	// LoopNodeTypes lists for- and while-style loop node kinds.
	LoopNodeTypes []string
	// CallNodeTypes lists call expression node kinds.
	CallNodeTypes []string
	// DecisionNodeTypes lists cyclomatic decision-point node kinds; each
	// occurrence inside a function adds one to its score.
	DecisionNodeTypes []string
	// SimpleStatementTypes and CompoundHeaderTypes together define what
	// counts as a logical line.
	SimpleStatementTypes []string
	CompoundHeaderTypes  []string
	// CommentNodeTypes lists comment node kinds.
	CommentNodeTypes []string
	// ParameterNodeTypes lists positional formal-parameter node kinds, each
	// counting as one argument unit until a keyword-only marker is seen.
	ParameterNodeTypes []string
	// SplatParameterTypes lists variadic parameter node kinds, counted
	// wherever they appear in the parameter list.
	SplatParameterTypes []string
	// KeywordOnlyMarkerTypes lists node kinds that open the keyword-only
	// section of a parameter list; positional parameters after the marker
	// are not argument units.
	KeywordOnlyMarkerTypes []string
}

// registry maps file extensions to language specs.
var registry = map[string]*Spec{}

// Register adds a Spec to the global registry.
func Register(spec *Spec) {
	for _, ext := range spec.FileExtensions {
		registry[ext] = spec
	}
}

// ForExtension returns the Spec for a file extension (e.g. ".py"), or nil
// when no full parser is available and the caller should fall back to
// heuristic line classification.
func ForExtension(ext string) *Spec {
	return registry[ext]
}

// ForLanguage returns the Spec for a language.
func ForLanguage(l Language) *Spec {
	for _, spec := range registry {
		if spec.Language == l {
			return spec
		}
	}
	return nil
}
