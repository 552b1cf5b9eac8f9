// Package graphmodel defines the data shapes shared by every component of
// the indexer: the CodeBlock the parser produces, and the Node/Relationship
// pair the extractor emits for the graph store. See spec §3.
package graphmodel

// ImportInfo describes a single import statement attached to a CodeBlock.
type ImportInfo struct {
	Source    string
	Symbols   []string
	IsDefault bool
	IsDynamic bool
	Alias     string // empty when absent
	Unused    bool   // set by the parser's unused-imports pass (spec §4.7)
}

// CallInfo describes a single call expression attached to a CodeBlock.
type CallInfo struct {
	CalleeName string
	CallType   string
	Line       int
	Column     int
	Receiver   string // empty when absent
	Qualifier  string // empty when absent
}

// SymbolMetadata carries class-only inheritance information.
type SymbolMetadata struct {
	Extends     string // empty when absent
	Implements  []string
	IsAbstract  bool
}

// TestMetadata flags a block as a test and names its framework/type.
type TestMetadata struct {
	IsTest        bool
	TestFramework string
	TestType      string
}

// LSPTypeInfo carries optional type/signature information sourced from a
// language server, consumed (never produced) by this indexer.
type LSPTypeInfo struct {
	LSPAvailable  bool
	TypeInfo      string // raw type string, e.g. "Foo | Bar[]"
	SignatureInfo string
}

// QualityMetadata carries per-block complexity and reachability signals,
// computed once while the block's tree-sitter node is still alive (spec
// §4.6/§4.7). Only attached to function/method-shaped blocks.
type QualityMetadata struct {
	Cyclomatic        int
	Cognitive         int
	NestingDepth      int
	ParameterCount    int
	LineCount         int
	Unreachable       bool
	UnreachableReason string
}

// CodeBlock is the parser's unit of output: one indexable span of source.
// FilePath must be non-empty and StartLine <= EndLine; the extractor drops
// blocks that violate this (spec §3 invariants).
type CodeBlock struct {
	FilePath     string
	Identifier   string // empty/whitespace-only triggers synthetic naming
	Type         string // tree-sitter node type string, may be empty
	StartLine    int    // 1-based
	EndLine      int    // 1-based, >= StartLine
	Content      string
	FileHash     string
	SegmentHash  string
	Imports      []ImportInfo
	Calls        []CallInfo
	SymbolMeta   *SymbolMetadata
	TestMeta     *TestMetadata
	LSPTypeInfo  *LSPTypeInfo
	QualityMeta  *QualityMetadata
}

// Valid reports whether the block satisfies the line-range invariant.
func (b CodeBlock) Valid() bool {
	return b.FilePath != "" && b.StartLine >= 1 && b.StartLine <= b.EndLine
}

// StrictlyContains reports whether b's line range strictly contains other's,
// per the DEFINES invariant (spec §3): same file, other within [b.Start,
// b.End], and other is not exactly the same span as b. Callers are
// responsible for excluding b from being compared against itself.
func (b CodeBlock) StrictlyContains(other CodeBlock) bool {
	if b.FilePath != other.FilePath {
		return false
	}
	if other.StartLine == b.StartLine && other.EndLine == b.EndLine {
		return false
	}
	return other.StartLine >= b.StartLine && other.EndLine <= b.EndLine
}
