package graphextract

import (
	"strings"

	"github.com/standardbeagle/graphidx/internal/blocktype"
	"github.com/standardbeagle/graphidx/internal/graphmodel"
)

// primitiveTypeNames are dropped when resolving base identifiers out of an
// LSP type string (spec §4.2).
var primitiveTypeNames = map[string]bool{
	"string": true, "number": true, "boolean": true, "void": true,
	"any": true, "unknown": true, "never": true, "null": true, "undefined": true,
}

// typeEdgeKinds are the node kinds a base type identifier may resolve
// against (spec §4.2: "class/interface/type_alias/enum block").
var typeEdgeKinds = map[graphmodel.NodeKind]bool{
	graphmodel.KindClass:     true,
	graphmodel.KindInterface: true,
}

// baseTypeIdentifiers splits an LSP type string into its base identifiers:
// union members split on "|", intersection members on "&", trailing "[]"
// array markers stripped, one level of generic parameters peeled and
// recursed into, and primitives dropped.
func baseTypeIdentifiers(typeString string) []string {
	var out []string
	for _, part := range splitAny(typeString, "|&") {
		part = strings.TrimSpace(part)
		part = strings.TrimSuffix(part, "[]")
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		name := part
		var generic string
		if open := strings.IndexByte(part, '<'); open >= 0 && strings.HasSuffix(part, ">") {
			name = part[:open]
			generic = part[open+1 : len(part)-1]
		}

		if name != "" && !primitiveTypeNames[strings.ToLower(name)] {
			out = append(out, name)
		}
		if generic != "" {
			out = append(out, baseTypeIdentifiers(generic)...)
		}
	}
	return out
}

func splitAny(s string, seps string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(seps, r)
	})
}

// parsedSignature is a crude split of an LSP signature string like
// "(a: Foo, b: Bar[]) => Baz" into its parameter types and return type.
type parsedSignature struct {
	paramTypes []string
	returnType string
}

// parseSignature parses sig, tolerating both "=>" (TS/JS) and "->"
// (Python/Rust-style) return-type arrows. Parameters are split on commas
// inside the outermost parens; each parameter's type is whatever follows
// the last ":" in that parameter, nested or not.
func parseSignature(sig string) parsedSignature {
	open := strings.IndexByte(sig, '(')
	close := matchingParen(sig, open)
	var result parsedSignature
	if open >= 0 && close > open {
		paramsSection := sig[open+1 : close]
		for _, param := range splitTopLevelCommas(paramsSection) {
			param = strings.TrimSpace(param)
			if param == "" {
				continue
			}
			if idx := strings.LastIndexByte(param, ':'); idx >= 0 {
				result.paramTypes = append(result.paramTypes, strings.TrimSpace(param[idx+1:]))
			}
		}
	}

	tail := sig
	if close >= 0 {
		tail = sig[close+1:]
	}
	if idx := strings.Index(tail, "=>"); idx >= 0 {
		result.returnType = strings.TrimSpace(tail[idx+2:])
	} else if idx := strings.Index(tail, "->"); idx >= 0 {
		result.returnType = strings.TrimSpace(tail[idx+2:])
	}
	return result
}

func matchingParen(s string, open int) int {
	if open < 0 {
		return -1
	}
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func splitTopLevelCommas(s string) []string {
	var parts []string
	depth := 0
	last := 0
	for i, r := range s {
		switch r {
		case '(', '<', '[':
			depth++
		case ')', '>', ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	parts = append(parts, s[last:])
	return parts
}

// typeEdge is one HAS_TYPE/ACCEPTS_TYPE/RETURNS_TYPE candidate.
type typeEdge struct {
	relType    graphmodel.RelationshipType
	target     graphmodel.CodeBlock
	typeString string
}

// extractTypeEdges implements spec §4.2's LSP-sourced type edges: when
// lspTypeInfo.lspAvailable, typeInfo names the block's own declared type
// (HAS_TYPE, e.g. a variable's type), and signatureInfo — when present —
// supplies parameter types (ACCEPTS_TYPE) and a return type (RETURNS_TYPE)
// for function/method blocks. signatureInfo's exact grammar isn't pinned by
// the source spec; this accepts both "=>" and "->" arrow styles as the
// common cases across the supported languages.
func extractTypeEdges(block graphmodel.CodeBlock, idx *batchIndex) []typeEdge {
	if block.LSPTypeInfo == nil || !block.LSPTypeInfo.LSPAvailable {
		return nil
	}

	var edges []typeEdge
	for _, name := range baseTypeIdentifiers(block.LSPTypeInfo.TypeInfo) {
		if target, ok := resolveTypeName(name, idx); ok {
			edges = append(edges, typeEdge{relType: graphmodel.RelHasType, target: target, typeString: block.LSPTypeInfo.TypeInfo})
		}
	}

	if block.LSPTypeInfo.SignatureInfo == "" {
		return edges
	}
	sig := parseSignature(block.LSPTypeInfo.SignatureInfo)
	for _, paramType := range sig.paramTypes {
		for _, name := range baseTypeIdentifiers(paramType) {
			if target, ok := resolveTypeName(name, idx); ok {
				edges = append(edges, typeEdge{relType: graphmodel.RelAcceptsType, target: target, typeString: paramType})
			}
		}
	}
	for _, name := range baseTypeIdentifiers(sig.returnType) {
		if target, ok := resolveTypeName(name, idx); ok {
			edges = append(edges, typeEdge{relType: graphmodel.RelReturnsType, target: target, typeString: sig.returnType})
		}
	}
	return edges
}

func resolveTypeName(name string, idx *batchIndex) (graphmodel.CodeBlock, bool) {
	for _, candidate := range idx.all {
		if candidate.Identifier != name {
			continue
		}
		if typeEdgeKinds[blocktype.MapBlockType(candidate.Type)] {
			return candidate, true
		}
	}
	return graphmodel.CodeBlock{}, false
}
