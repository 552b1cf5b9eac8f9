package graphextract

import (
	"path/filepath"
	"strings"

	"github.com/standardbeagle/graphidx/internal/blocktype"
	"github.com/standardbeagle/graphidx/internal/graphmodel"
)

// candidateExtensions are tried in order when resolving a local import path
// that has no extension of its own; first match wins (spec §4.2).
var candidateExtensions = []string{
	".ts", ".tsx", ".js", ".jsx", ".vue", ".svelte", ".py", ".rs", ".go",
	".java", ".c", ".cpp", ".cs", ".dart", ".kt", ".swift", ".rb", ".php",
}

// resolveImportPath resolves an import source to a candidate file path, or
// returns ("", false) when the source is a bare specifier (external
// package) or no candidate file exists in the batch. Only "./", "../" and
// "@/" prefixes are resolvable locally: "@/" resolves against workspaceRoot,
// everything else against the importing file's directory.
func resolveImportPath(workspaceRoot, fromFilePath, source string, exists func(path string) bool) (string, bool) {
	var base string
	switch {
	case strings.HasPrefix(source, "@/"):
		base = filepath.Join(workspaceRoot, strings.TrimPrefix(source, "@/"))
	case strings.HasPrefix(source, "./") || strings.HasPrefix(source, "../"):
		base = filepath.Join(filepath.Dir(fromFilePath), source)
	default:
		return "", false
	}
	base = filepath.Clean(base)

	if exists(base) {
		return base, true
	}
	for _, ext := range candidateExtensions {
		if candidate := base + ext; exists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// resolveCallTarget runs the four call-target resolution strategies in
// order (spec §4.2); the first hit wins. Returns the resolved block and
// true, or the zero value and false when no strategy matches.
func resolveCallTarget(block graphmodel.CodeBlock, call graphmodel.CallInfo, idx *batchIndex, workspaceRoot string) (graphmodel.CodeBlock, bool) {
	// 1. Same-file function/method by identifier equality.
	for _, candidate := range idx.inFile(block.FilePath) {
		if candidate.Identifier == call.CalleeName && isCallable(candidate) {
			return candidate, true
		}
	}

	// 2. Imported function: an import on this block whose symbols include
	// the callee, resolved to a candidate file path.
	for _, imp := range block.Imports {
		if !containsSymbol(imp.Symbols, call.CalleeName) {
			continue
		}
		resolvedPath, ok := resolveImportPath(workspaceRoot, block.FilePath, imp.Source, idx.fileExists)
		if !ok {
			continue
		}
		if candidate, ok := idx.byFileAndIdentifier(resolvedPath, call.CalleeName); ok {
			return candidate, true
		}
	}

	// 3. Method call with receiver: same-file block whose identifier
	// matches and whose mapped kind is method.
	if call.Receiver != "" {
		for _, candidate := range idx.inFile(block.FilePath) {
			if candidate.Identifier == call.CalleeName && blocktype.MapBlockType(candidate.Type) == graphmodel.KindMethod {
				return candidate, true
			}
		}
	}

	// 4. Static call with qualifier: a method block named callee, contained
	// within a class block whose identifier equals the qualifier.
	if call.Qualifier != "" {
		for _, candidate := range idx.all {
			if candidate.Identifier != call.CalleeName || blocktype.MapBlockType(candidate.Type) != graphmodel.KindMethod {
				continue
			}
			if isMethodInClass(candidate, call.Qualifier, idx) {
				return candidate, true
			}
		}
	}

	return graphmodel.CodeBlock{}, false
}

func isCallable(b graphmodel.CodeBlock) bool {
	kind := blocktype.MapBlockType(b.Type)
	return kind == graphmodel.KindFunction || kind == graphmodel.KindMethod
}

func containsSymbol(symbols []string, name string) bool {
	for _, s := range symbols {
		if s == name {
			return true
		}
	}
	return false
}

// isMethodInClass reports whether method is strictly contained within a
// class/abstract-class block named qualifier in the same file.
func isMethodInClass(method graphmodel.CodeBlock, qualifier string, idx *batchIndex) bool {
	for _, candidate := range idx.inFile(method.FilePath) {
		kind := blocktype.MapBlockType(candidate.Type)
		if kind != graphmodel.KindClass || candidate.Identifier != qualifier {
			continue
		}
		if candidate.StrictlyContains(method) {
			return true
		}
	}
	return false
}

// normalizeTypeName strips generic parameters ("<...>") and qualifiers
// ("a.b.C" -> "C") from an EXTENDS/IMPLEMENTS type reference (spec §4.2).
func normalizeTypeName(raw string) string {
	name := raw
	if idx := strings.IndexByte(name, '<'); idx >= 0 {
		name = name[:idx]
	}
	name = strings.TrimSpace(name)
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		name = name[idx+1:]
	}
	return strings.TrimSpace(name)
}
