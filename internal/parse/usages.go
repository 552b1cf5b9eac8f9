package parse

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/graphidx/internal/graphmodel"
	"github.com/standardbeagle/graphidx/internal/quality"
)

// collectIdentifierUsages walks root and returns the set of identifier-like
// tokens it finds outside of import statements — the "usages" half of
// spec §4.7's unused-imports operation, which quality.DetectUnused matches
// an import's bound symbols against. Member-access expressions ("ns.Foo")
// are recorded whole as well as by their parts, so a wildcard/namespace
// import's dotted-usage heuristic (quality.anyDottedUsage) has something to
// find without a full scope-aware resolver.
func collectIdentifierUsages(root *tree_sitter.Node, content []byte) map[string]bool {
	usages := make(map[string]bool)
	if root == nil {
		return usages
	}
	walkForUsages(root, content, false, usages)
	return usages
}

func walkForUsages(node *tree_sitter.Node, content []byte, insideImport bool, usages map[string]bool) {
	kind := node.Kind()
	if !insideImport && looksLikeImport(kind) {
		insideImport = true
	}

	if !insideImport {
		lower := strings.ToLower(kind)
		if node.NamedChildCount() == 0 && strings.Contains(lower, "identifier") {
			usages[string(content[node.StartByte():node.EndByte()])] = true
		}
		if isMemberAccessLike(lower) {
			usages[string(content[node.StartByte():node.EndByte()])] = true
		}
	}

	count := node.NamedChildCount()
	for i := uint(0); i < count; i++ {
		if child := node.NamedChild(i); child != nil {
			walkForUsages(child, content, insideImport, usages)
		}
	}
}

func isMemberAccessLike(lowerKind string) bool {
	for _, substr := range []string{
		"member_expression", "member_access_expression", "selector_expression",
		"field_expression", "scoped_identifier", "attribute",
	} {
		if strings.Contains(lowerKind, substr) {
			return true
		}
	}
	return false
}

// markUnusedImports runs spec §4.7's unused-imports operation across a
// whole file's blocks: it collects identifier usages from the
// already-parsed tree, matches every block's imports against them via
// quality.DetectUnused, and flags the ones whose binding never appears.
// Grounded on the existing per-file QualityMeta pass (buildQualityMetadata)
// in parse.go — both need the tree alive, so both run before ParseFile
// closes it.
func markUnusedImports(root *tree_sitter.Node, content []byte, blocks []graphmodel.CodeBlock) {
	var all []graphmodel.ImportInfo
	for _, b := range blocks {
		all = append(all, b.Imports...)
	}
	if len(all) == 0 {
		return
	}

	usages := collectIdentifierUsages(root, content)
	unused := quality.DetectUnused(all, usages)
	unusedSources := make(map[string]bool, len(unused))
	for _, u := range unused {
		unusedSources[u.Source] = true
	}
	if len(unusedSources) == 0 {
		return
	}

	for i := range blocks {
		for j := range blocks[i].Imports {
			if unusedSources[blocks[i].Imports[j].Source] {
				blocks[i].Imports[j].Unused = true
			}
		}
	}
}
