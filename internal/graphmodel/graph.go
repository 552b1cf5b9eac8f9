package graphmodel

import (
	"fmt"
	"path/filepath"
	"strings"
)

// NodeKind is the closed taxonomy every tree-sitter node type classifies
// into (spec §1, §4.1).
type NodeKind string

const (
	KindFunction  NodeKind = "function"
	KindClass     NodeKind = "class"
	KindMethod    NodeKind = "method"
	KindInterface NodeKind = "interface"
	KindVariable  NodeKind = "variable"
	KindImport    NodeKind = "import"
	KindFile      NodeKind = "file"
)

// RelationshipType is the closed set of edge types (spec §1, §3).
type RelationshipType string

const (
	RelCalls           RelationshipType = "CALLS"
	RelCalledBy        RelationshipType = "CALLED_BY"
	RelImports         RelationshipType = "IMPORTS"
	RelDefines         RelationshipType = "DEFINES"
	RelContains        RelationshipType = "CONTAINS"
	RelExtends         RelationshipType = "EXTENDS"
	RelExtendedBy      RelationshipType = "EXTENDED_BY"
	RelImplements      RelationshipType = "IMPLEMENTS"
	RelImplementedBy   RelationshipType = "IMPLEMENTED_BY"
	RelTests           RelationshipType = "TESTS"
	RelTestedBy        RelationshipType = "TESTED_BY"
	RelHasType         RelationshipType = "HAS_TYPE"
	RelAcceptsType     RelationshipType = "ACCEPTS_TYPE"
	RelReturnsType     RelationshipType = "RETURNS_TYPE"
)

// reverseOf maps a forward relationship to its synthesized reverse edge.
// Only CALLS, TESTS, EXTENDS, IMPLEMENTS have reverses (spec §3, §4.2).
var reverseOf = map[RelationshipType]RelationshipType{
	RelCalls:      RelCalledBy,
	RelTests:      RelTestedBy,
	RelExtends:    RelExtendedBy,
	RelImplements: RelImplementedBy,
}

// ReverseOf returns the reverse relationship type and true if T has one.
func ReverseOf(t RelationshipType) (RelationshipType, bool) {
	r, ok := reverseOf[t]
	return r, ok
}

// Node is a persisted graph entity: a file, or an indexable code block, or
// an import placeholder (spec §3).
type Node struct {
	ID        string
	Kind      NodeKind
	Name      string
	FilePath  string
	StartLine int
	EndLine   int
	Language  string // empty for import placeholders
}

// Relationship is a persisted graph edge (spec §3).
type Relationship struct {
	FromID   string
	ToID     string
	Type     RelationshipType
	Metadata map[string]any
}

// BlockNodeID builds the deterministic node ID for a code block of the
// given kind at filePath:startLine (spec §3 Node identity rule).
func BlockNodeID(kind NodeKind, filePath string, startLine int) string {
	return fmt.Sprintf("%s:%s:%d", kind, filePath, startLine)
}

// FileNodeID builds the deterministic node ID for a file node.
func FileNodeID(filePath string) string {
	return "file:" + filePath
}

// ImportNodeID builds the deterministic node ID for an import placeholder.
func ImportNodeID(filePath, importSource string) string {
	return fmt.Sprintf("import:%s:%s", filePath, importSource)
}

// SyntheticName builds the fallback name used when a block's identifier is
// blank: "{blockType}_{basename}_L{start}-{end}" (spec §3 glossary).
func SyntheticName(blockType, filePath string, startLine, endLine int) string {
	base := filepath.Base(filePath)
	bt := blockType
	if bt == "" {
		bt = "block"
	}
	return fmt.Sprintf("%s_%s_L%d-%d", bt, base, startLine, endLine)
}

// IsBlank reports whether s is empty or all whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
