// Package quality computes per-block complexity metrics, detects dead code
// (unused functions, orphaned nodes, unreachable statements, unused
// imports), and rolls per-file numbers up into quality scores.
package quality

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// decisionPointTypes are the node kinds that add a path through a
// function, counted toward both cyclomatic and cognitive complexity.
var decisionPointTypes = map[string]bool{
	"if_statement": true, "if_expression": true, "elif_clause": true,
	"for_statement": true, "for_range_statement": true, "for_in_statement": true, "for_of_statement": true,
	"while_statement": true, "do_statement": true, "do_while_statement": true,
	"switch_statement": true, "switch_expression": true,
	"case_clause": true, "case_statement": true, "expression_case": true, "type_case": true,
	"catch_clause": true, "except_clause": true, "finally_clause": true,
	"conditional_expression": true, "ternary_expression": true,
	"guard_statement": true, "match_expression": true, "match_statement": true, "match_arm": true,
}

// structuralTypes are the node kinds that increase nesting level (Sonar
// style: only actual nesting constructs count, not every decision point —
// e.g. a logical `&&` inside a condition doesn't nest).
var structuralTypes = map[string]bool{
	"if_statement": true, "for_statement": true, "for_range_statement": true,
	"for_in_statement": true, "for_of_statement": true, "while_statement": true,
	"do_statement": true, "do_while_statement": true, "switch_statement": true,
	"switch_expression": true, "try_statement": true, "catch_clause": true,
	"function_declaration": true, "function_definition": true, "method_declaration": true,
	"method_definition": true, "class_declaration": true, "block": true,
	"compound_statement": true, "statement_block": true,
}

// cognitiveNestingTypes increment the nesting level used by Cognitive's
// "+1 per level of nesting" rule. Narrower than structuralTypes: only
// loops actually deepen cognitive nesting here, matching how this weighting
// scheme treats if/switch as flat decision points rather than nested ones.
var cognitiveNestingTypes = map[string]bool{
	"for_statement": true, "for_range_statement": true, "for_in_statement": true,
	"for_of_statement": true, "while_statement": true, "do_statement": true, "do_while_statement": true,
}

func isLogicalBinary(node *tree_sitter.Node) bool {
	if node.Kind() != "binary_expression" {
		return false
	}
	if node.ChildCount() < 3 {
		return false
	}
	op := node.Child(1)
	if op == nil {
		return false
	}
	switch op.Kind() {
	case "&&", "||", "and", "or":
		return true
	}
	return false
}

// Cyclomatic counts 1 plus every decision point in node's subtree.
func Cyclomatic(node *tree_sitter.Node) int {
	if node == nil {
		return 1
	}
	complexity := 1
	walkCyclomatic(node, &complexity)
	return complexity
}

func walkCyclomatic(node *tree_sitter.Node, complexity *int) {
	if node == nil {
		return
	}
	if decisionPointTypes[node.Kind()] || isLogicalBinary(node) {
		*complexity++
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		walkCyclomatic(node.Child(i), complexity)
	}
}

// Cognitive weights each decision point by its nesting level at the point
// it occurs, matching the Sonar cognitive-complexity model's "+1 per level
// of nesting" rule. Lambdas/arrow functions add cost but don't themselves
// increase nesting for their body.
func Cognitive(node *tree_sitter.Node) int {
	complexity := 0
	nesting := 0
	walkCognitive(node, &complexity, &nesting)
	return complexity
}

func walkCognitive(node *tree_sitter.Node, complexity *int, nesting *int) {
	if node == nil {
		return
	}
	nodeType := node.Kind()
	childNesting := *nesting

	switch {
	case nodeType == "lambda_expression" || nodeType == "arrow_function":
		*complexity++
	case nodeType == "else_clause":
		*complexity++
	case cognitiveNestingTypes[nodeType]:
		*complexity += 1 + *nesting
		childNesting = *nesting + 1
	case decisionPointTypes[nodeType]:
		*complexity += 1 + *nesting
	case nodeType == "goto_statement":
		*complexity += 1 + *nesting
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		walkCognitive(node.Child(i), complexity, &childNesting)
	}
}

// NestingDepth returns the maximum depth over structural nodes in node's
// subtree.
func NestingDepth(node *tree_sitter.Node) int {
	maxDepth, current := 0, 0
	walkNesting(node, &maxDepth, &current)
	return maxDepth
}

func walkNesting(node *tree_sitter.Node, maxDepth, current *int) {
	if node == nil {
		return
	}
	isStructural := structuralTypes[node.Kind()]
	if isStructural {
		*current++
		if *current > *maxDepth {
			*maxDepth = *current
		}
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		walkNesting(node.Child(i), maxDepth, current)
	}
	if isStructural {
		*current--
	}
}

// ParameterCount returns the number of parameter-like named children under
// node's "parameters" (or "arguments") field.
func ParameterCount(node *tree_sitter.Node) int {
	if node == nil {
		return 0
	}
	params := node.ChildByFieldName("parameters")
	if params == nil {
		params = node.ChildByFieldName("arguments")
	}
	if params == nil {
		return 0
	}
	count := 0
	for i := uint(0); i < params.ChildCount(); i++ {
		child := params.Child(i)
		if child != nil && child.IsNamed() {
			count++
		}
	}
	return count
}

// FunctionLength counts non-blank, non-comment lines of content.
// Single-line comment markers: //, #, --. Block comments: /* ... */
// (including lines that are entirely inside one) and lines that are just
// a `*` continuation of a block comment.
func FunctionLength(content string) int {
	lines := strings.Split(content, "\n")
	count := 0
	inBlockComment := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if inBlockComment {
			if idx := strings.Index(trimmed, "*/"); idx >= 0 {
				inBlockComment = false
				trimmed = strings.TrimSpace(trimmed[idx+2:])
				if trimmed == "" {
					continue
				}
			} else {
				continue
			}
		}
		if strings.HasPrefix(trimmed, "/*") {
			if idx := strings.Index(trimmed[2:], "*/"); idx < 0 {
				inBlockComment = true
			}
			continue
		}
		if strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "#") ||
			strings.HasPrefix(trimmed, "--") || strings.HasPrefix(trimmed, "*") {
			continue
		}
		count++
	}
	return count
}
