package lang

func init() {
	Register(&Spec{
		Language:       Python,
		FileExtensions: []string{".py"},

		FunctionNodeTypes: []string{"function_definition"},
		// elif clauses nest inside their if_statement, so an if/elif
		// chain deepens once per branch, matching Python's AST shape.
		NestingNodeTypes: []string{"if_statement", "elif_clause", "for_statement", "while_statement", "with_statement", "try_statement"},
		BranchNodeTypes:  []string{"if_statement", "elif_clause"},
		LoopNodeTypes:    []string{"for_statement", "while_statement"},
		CallNodeTypes:    []string{"call"},
		// Comprehension generators and filters score like their statement
		// forms: one point per for_in_clause and per if_clause.
		DecisionNodeTypes: []string{
			"if_statement", "elif_clause", "for_statement", "while_statement",
			"except_clause", "assert_statement", "conditional_expression", "boolean_operator",
			"for_in_clause", "if_clause",
		},
		SimpleStatementTypes: []string{
			"expression_statement", "return_statement", "pass_statement",
			"break_statement", "continue_statement", "raise_statement",
			"assert_statement", "import_statement", "import_from_statement",
			"future_import_statement", "global_statement", "nonlocal_statement",
			"delete_statement", "exec_statement", "print_statement",
		},
		CompoundHeaderTypes: []string{
			"if_statement", "elif_clause", "else_clause", "for_statement",
			"while_statement", "try_statement", "except_clause", "finally_clause",
			"with_statement", "function_definition", "class_definition", "match_statement", "case_clause",
		},
		CommentNodeTypes: []string{"comment"},
		ParameterNodeTypes: []string{
			"identifier", "typed_parameter", "default_parameter", "typed_default_parameter",
		},
		SplatParameterTypes: []string{"list_splat_pattern", "dictionary_splat_pattern"},
		// Both the bare * and a *args splat start the keyword-only section.
		KeywordOnlyMarkerTypes: []string{"keyword_separator", "list_splat_pattern"},
	})
}
