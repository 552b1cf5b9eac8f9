// Package parse wraps tree-sitter grammars to turn source files into
// graphmodel.CodeBlocks: the parser's job ends at "here is a block with a
// line range, a raw node type string, and whatever imports/calls live
// inside it" — classifying that raw type string into a semantic kind is
// internal/blocktype's job, not this package's.
package parse

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_csharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// languageDef pairs a grammar with the query that picks out its indexable
// blocks (functions, methods, classes, interfaces, variables, imports) and
// the file extensions it parses.
type languageDef struct {
	name       string
	language   func() *tree_sitter.Language
	query      string
	extensions []string
}

// Each languageDef's query captures the subset of its grammar's node types
// that constitute an indexable block. nameCapture (`@name`, when present)
// carries the symbol's identifier; the enclosing capture's node is used
// verbatim as the block's raw type string.
const (
	nameCapture = "name"
)

var languageDefs = []languageDef{
	{
		name: "go",
		language: func() *tree_sitter.Language {
			return tree_sitter.NewLanguage(tree_sitter_go.Language())
		},
		query: `
			(function_declaration name: (identifier) @name) @block
			(method_declaration name: (field_identifier) @name) @block
			(type_declaration (type_spec name: (type_identifier) @name)) @block
			(func_literal) @block
			(import_spec path: (interpreted_string_literal) @import.source) @block
			(var_declaration (var_spec name: (identifier) @name)) @block
			(const_declaration (const_spec name: (identifier) @name)) @block
		`,
		extensions: []string{".go"},
	},
	{
		name: "javascript",
		language: func() *tree_sitter.Language {
			return tree_sitter.NewLanguage(tree_sitter_javascript.Language())
		},
		query: `
			(function_declaration name: (identifier) @name) @block
			(generator_function_declaration name: (identifier) @name) @block
			(variable_declarator
				name: (identifier) @name
				value: [(arrow_function) (function_expression) (generator_function)]) @block
			(method_definition name: (property_identifier) @name) @block
			(class_declaration name: (identifier) @name) @block
			(import_statement source: (string) @import.source) @block
		`,
		extensions: []string{".js", ".jsx", ".mjs", ".cjs"},
	},
	{
		name: "typescript",
		language: func() *tree_sitter.Language {
			return tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
		},
		query: `
			(function_declaration name: (identifier) @name) @block
			(generator_function_declaration name: (identifier) @name) @block
			(method_definition name: (property_identifier) @name) @block
			(function_expression name: (identifier) @name) @block
			(class_declaration name: (type_identifier) @name) @block
			(interface_declaration name: (type_identifier) @name) @block
			(type_alias_declaration name: (type_identifier) @name) @block
			(enum_declaration name: (identifier) @name) @block
			(import_statement source: (string) @import.source) @block
		`,
		extensions: []string{".ts"},
	},
	{
		name: "tsx",
		language: func() *tree_sitter.Language {
			return tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())
		},
		query: `
			(function_declaration name: (identifier) @name) @block
			(method_definition name: (property_identifier) @name) @block
			(class_declaration name: (type_identifier) @name) @block
			(interface_declaration name: (type_identifier) @name) @block
			(import_statement source: (string) @import.source) @block
		`,
		extensions: []string{".tsx"},
	},
	{
		name: "python",
		language: func() *tree_sitter.Language {
			return tree_sitter.NewLanguage(tree_sitter_python.Language())
		},
		query: `
			(class_definition
				body: (block
					(function_definition name: (identifier) @name))) @block
			(function_definition name: (identifier) @name) @block
			(class_definition name: (identifier) @name) @block
			(import_statement) @block
			(import_from_statement) @block
		`,
		extensions: []string{".py", ".pyi"},
	},
	{
		name: "rust",
		language: func() *tree_sitter.Language {
			return tree_sitter.NewLanguage(tree_sitter_rust.Language())
		},
		query: `
			(impl_item body: (declaration_list (function_item name: (identifier) @name))) @block
			(trait_item body: (declaration_list (function_item name: (identifier) @name))) @block
			(function_item name: (identifier) @name) @block
			(struct_item name: (type_identifier) @name) @block
			(enum_item name: (type_identifier) @name) @block
			(trait_item name: (type_identifier) @name) @block
			(type_item name: (type_identifier) @name) @block
			(use_declaration) @block
			(mod_item name: (identifier) @name) @block
		`,
		extensions: []string{".rs"},
	},
	{
		name: "cpp",
		language: func() *tree_sitter.Language {
			return tree_sitter.NewLanguage(tree_sitter_cpp.Language())
		},
		query: `
			(function_definition declarator: (function_declarator declarator: (identifier) @name)) @block
			(class_specifier name: (type_identifier) @name) @block
			(struct_specifier name: (type_identifier) @name) @block
			(enum_specifier name: (type_identifier) @name) @block
			(namespace_definition) @block
			(preproc_include) @block
			(using_declaration) @block
		`,
		extensions: []string{".cpp", ".cc", ".cxx", ".c", ".h", ".hpp"},
	},
	{
		name: "java",
		language: func() *tree_sitter.Language {
			return tree_sitter.NewLanguage(tree_sitter_java.Language())
		},
		query: `
			(method_declaration name: (identifier) @name) @block
			(constructor_declaration name: (identifier) @name) @block
			(class_declaration name: (identifier) @name) @block
			(record_declaration name: (identifier) @name) @block
			(interface_declaration name: (identifier) @name) @block
			(enum_declaration name: (identifier) @name) @block
			(import_declaration) @block
		`,
		extensions: []string{".java"},
	},
	{
		name: "csharp",
		language: func() *tree_sitter.Language {
			return tree_sitter.NewLanguage(tree_sitter_csharp.Language())
		},
		query: `
			(method_declaration name: (identifier) @name) @block
			(constructor_declaration name: (identifier) @name) @block
			(class_declaration name: (identifier) @name) @block
			(interface_declaration name: (identifier) @name) @block
			(struct_declaration name: (identifier) @name) @block
			(record_declaration name: (identifier) @name) @block
			(enum_declaration name: (identifier) @name) @block
			(using_directive (qualified_name) @name) @block
			(using_directive (identifier) @name) @block
			(namespace_declaration name: (qualified_name) @name) @block
		`,
		extensions: []string{".cs"},
	},
	{
		name: "php",
		language: func() *tree_sitter.Language {
			return tree_sitter.NewLanguage(tree_sitter_php.LanguagePHP())
		},
		query: `
			(class_declaration name: (name) @name) @block
			(interface_declaration name: (name) @name) @block
			(trait_declaration name: (name) @name) @block
			(enum_declaration name: (name) @name) @block
			(function_definition name: (name) @name) @block
			(method_declaration name: (name) @name) @block
			(namespace_use_declaration) @block
		`,
		extensions: []string{".php", ".phtml"},
	},
}

// extensionLanguage maps a file extension to its grammar name.
func extensionLanguage(ext string) (string, bool) {
	for _, def := range languageDefs {
		for _, e := range def.extensions {
			if e == ext {
				return def.name, true
			}
		}
	}
	return "", false
}
