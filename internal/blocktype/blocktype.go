// Package blocktype classifies a tree-sitter node type string into the
// indexer's six-member NodeKind taxonomy (spec §4.1). It is the single
// source of truth for what counts as an indexable entity across 30+
// grammars, and is deliberately table-driven in the style of the teacher's
// per-grammar parser setup (internal/parser/parser_language_setup.go):
// one ordered table per tier, first match wins.
package blocktype

import (
	"strings"

	"github.com/standardbeagle/graphidx/internal/graphmodel"
)

// tier is an ordered list of (substring, kind) pairs checked in sequence;
// within a tier the first matching substring wins.
type tier []struct {
	substr string
	kind   graphmodel.NodeKind
}

// rootNodes are exact matches for whole-file AST roots (tier 1).
var rootNodes = map[string]bool{
	"source_file": true,
	"program":     true,
}

var classLike = tier{
	{"class", graphmodel.KindClass},
	{"struct", graphmodel.KindClass},
	{"enum", graphmodel.KindClass},
	{"union", graphmodel.KindClass},
	{"record", graphmodel.KindClass},
	{"object_declaration", graphmodel.KindClass},
	{"data_class", graphmodel.KindClass},
	{"sealed", graphmodel.KindClass},
	{"companion", graphmodel.KindClass},
	{"protocol", graphmodel.KindClass},
	{"abstract_class", graphmodel.KindClass},
	{"contract", graphmodel.KindClass},
	{"library", graphmodel.KindClass},
}

var interfaceLike = tier{
	{"interface", graphmodel.KindInterface},
	{"trait", graphmodel.KindInterface},
	{"protocol", graphmodel.KindInterface},
	{"type_alias", graphmodel.KindInterface},
	{"type_item", graphmodel.KindInterface},
	{"typedef", graphmodel.KindInterface},
	{"utility_type", graphmodel.KindInterface},
}

var methodLike = tier{
	{"method", graphmodel.KindMethod},
	{"constructor", graphmodel.KindMethod},
	{"destructor", graphmodel.KindMethod},
	{"property", graphmodel.KindMethod},
	{"accessor", graphmodel.KindMethod},
	{"getter", graphmodel.KindMethod},
	{"setter", graphmodel.KindMethod},
	{"singleton_method", graphmodel.KindMethod},
	{"extension_function", graphmodel.KindMethod},
	{"operator_overload", graphmodel.KindMethod},
	{"init_declaration", graphmodel.KindMethod},
	{"deinit", graphmodel.KindMethod},
	{"indexer", graphmodel.KindMethod},
	{"finalizer", graphmodel.KindMethod},
}

var functionLike = tier{
	{"function", graphmodel.KindFunction},
	{"func", graphmodel.KindFunction},
	{"lambda", graphmodel.KindFunction},
	{"arrow", graphmodel.KindFunction},
	{"generator", graphmodel.KindFunction},
	{"async", graphmodel.KindFunction},
	{"coroutine", graphmodel.KindFunction},
	{"closure", graphmodel.KindFunction},
	{"anonymous", graphmodel.KindFunction},
	{"defun", graphmodel.KindFunction},
	{"defp", graphmodel.KindFunction},
	{"defmacro", graphmodel.KindFunction},
	{"defdelegate", graphmodel.KindFunction},
	{"defguard", graphmodel.KindFunction},
}

var variableLike = tier{
	{"variable", graphmodel.KindVariable},
	{"const", graphmodel.KindVariable},
	{"let", graphmodel.KindVariable},
	{"var", graphmodel.KindVariable},
	{"lexical_declaration", graphmodel.KindVariable},
	{"field", graphmodel.KindVariable},
	{"static_item", graphmodel.KindVariable},
	{"assignment", graphmodel.KindVariable},
	{"parameter", graphmodel.KindVariable},
	{"destructuring", graphmodel.KindVariable},
	{"pattern", graphmodel.KindVariable},
	{"instance_variable", graphmodel.KindVariable},
	{"class_variable", graphmodel.KindVariable},
	{"lateinit", graphmodel.KindVariable},
	{"lazy", graphmodel.KindVariable},
	{"event", graphmodel.KindVariable},
	{"variadic", graphmodel.KindVariable},
	{"default_parameter", graphmodel.KindVariable},
	{"keyword_argument", graphmodel.KindVariable},
	{"named_parameter", graphmodel.KindVariable},
	{"immutable", graphmodel.KindVariable},
}

// typeAnnotationLike covers tier 7 ("Type annotations → interface").
var typeAnnotationLike = tier{
	{"type_annotation", graphmodel.KindInterface},
	{"type_parameter", graphmodel.KindInterface},
	{"type_arguments", graphmodel.KindInterface},
	{"generic_type", graphmodel.KindInterface},
}

var importLike = tier{
	{"import", graphmodel.KindImport},
	{"export", graphmodel.KindImport},
	{"use_declaration", graphmodel.KindImport},
	{"use_clause", graphmodel.KindImport},
	{"require", graphmodel.KindImport},
	{"include", graphmodel.KindImport},
	{"package_declaration", graphmodel.KindImport},
	{"package_clause", graphmodel.KindImport},
	{"alias", graphmodel.KindImport},
	{"namespace_use", graphmodel.KindImport},
}

// moduleLike covers tier 9 (modules/namespaces/impl/delegates/mixins/
// extensions/categories/concept → class, the module-as-container bucket).
var moduleLike = tier{
	{"module", graphmodel.KindClass},
	{"namespace", graphmodel.KindClass},
	{"impl_item", graphmodel.KindClass},
	{"impl_block", graphmodel.KindClass},
	{"delegate", graphmodel.KindClass},
	{"mixin", graphmodel.KindClass},
	{"extension", graphmodel.KindClass},
	{"category", graphmodel.KindClass},
	{"concept", graphmodel.KindClass},
}

// controlFlowLike covers tier 10 (control-flow/error-handling/async/
// expression nodes → function, the "has behavior" bucket).
var controlFlowLike = tier{
	{"if_", graphmodel.KindFunction},
	{"for_", graphmodel.KindFunction},
	{"while_", graphmodel.KindFunction},
	{"switch_", graphmodel.KindFunction},
	{"try_", graphmodel.KindFunction},
	{"catch_", graphmodel.KindFunction},
	{"except", graphmodel.KindFunction},
	{"finally", graphmodel.KindFunction},
	{"await", graphmodel.KindFunction},
	{"expression", graphmodel.KindFunction},
	{"call_expression", graphmodel.KindFunction},
}

// literalLike covers tier 11 (literals, comments, markup/templating and
// data-format nodes, bucketed by nearest semantic equivalent).
var literalLike = tier{
	{"comment", graphmodel.KindFunction},
	{"string_literal", graphmodel.KindVariable},
	{"number_literal", graphmodel.KindVariable},
	{"boolean_literal", graphmodel.KindVariable},
	{"null_literal", graphmodel.KindVariable},
	{"jsx_element", graphmodel.KindFunction},
	{"jsx_fragment", graphmodel.KindFunction},
	{"vue_element", graphmodel.KindFunction},
	{"svelte_element", graphmodel.KindFunction},
	{"angular_element", graphmodel.KindFunction},
	{"html_element", graphmodel.KindClass},
	{"xml_element", graphmodel.KindClass},
	{"yaml", graphmodel.KindVariable},
	{"json", graphmodel.KindVariable},
	{"toml", graphmodel.KindVariable},
	{"dockerfile", graphmodel.KindFunction},
}

var tiers = []tier{
	classLike,
	interfaceLike,
	methodLike,
	functionLike,
	variableLike,
	typeAnnotationLike,
	importLike,
	moduleLike,
	controlFlowLike,
	literalLike,
}

// MapBlockType classifies a tree-sitter node type string, matching tiers in
// strict order (first match wins) per spec §4.1. Empty/nil input, and any
// string matching nothing, falls back to function.
func MapBlockType(nodeType string) graphmodel.NodeKind {
	if graphmodel.IsBlank(nodeType) {
		return graphmodel.KindFunction
	}
	lower := strings.ToLower(nodeType)

	if rootNodes[lower] {
		return graphmodel.KindClass
	}

	// "constructor" and "destructor" contain the class tier's "struct"
	// substring; they are method-like (tier 4), so they are matched first.
	if strings.Contains(lower, "constructor") || strings.Contains(lower, "destructor") {
		return graphmodel.KindMethod
	}

	for _, t := range tiers {
		for _, rule := range t {
			if strings.Contains(lower, rule.substr) {
				return rule.kind
			}
		}
	}

	// Tier 12: "*_definition" → infer from the prefix before falling back.
	if strings.Contains(lower, "definition") {
		return classifyDefinitionSuffix(lower)
	}

	// Tier 13: any "*_statement" → function.
	if strings.Contains(lower, "statement") {
		return graphmodel.KindFunction
	}

	// Tier 14: universal fallback.
	return graphmodel.KindFunction
}

func classifyDefinitionSuffix(lower string) graphmodel.NodeKind {
	prefix := strings.TrimSuffix(lower, "_definition")
	switch {
	case strings.Contains(prefix, "class") || strings.Contains(prefix, "struct"):
		return graphmodel.KindClass
	case strings.Contains(prefix, "interface") || strings.Contains(prefix, "type"):
		return graphmodel.KindInterface
	case strings.Contains(prefix, "method"):
		return graphmodel.KindMethod
	case strings.Contains(prefix, "variable") || strings.Contains(prefix, "field"):
		return graphmodel.KindVariable
	default:
		return graphmodel.KindFunction
	}
}
