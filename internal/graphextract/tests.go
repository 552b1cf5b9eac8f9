package graphextract

import (
	"strings"

	"github.com/standardbeagle/graphidx/internal/graphmodel"
)

// testFrameworkPatterns are import sources skipped when scanning a test
// block's imports for candidate source-under-test files (spec §4.2 TESTS).
// Matched as a case-insensitive exact prefix of the source's first path
// segment, per DESIGN.md open-question decision #3.
var testFrameworkPatterns = []string{
	"vitest", "jest", "mocha", "jasmine", "ava", "tape", "testing-library",
	"pytest", "unittest", "nose", "testify", "ginkgo", "junit", "testng",
	"nunit", "xunit", "mstest", "rspec", "minitest", "phpunit", "pest",
	"xctest", "testing",
}

func isTestFrameworkImport(source string) bool {
	firstSegment := source
	if idx := strings.IndexAny(firstSegment, "/."); idx >= 0 {
		firstSegment = firstSegment[:idx]
	}
	lower := strings.ToLower(firstSegment)
	for _, pattern := range testFrameworkPatterns {
		if lower == pattern {
			return true
		}
	}
	return false
}

// testEdge is one TESTS relationship candidate, carrying enough to build
// both the relationship and its reverse.
type testEdge struct {
	target     graphmodel.CodeBlock
	confidence int
	framework  string
	testType   string
	targetName string
}

// extractTestEdges implements spec §4.2's TESTS rule for a test block: for
// every non-framework import that resolves to a file in the batch, it
// matches the blocks in that file whose identifier equals an imported
// symbol (confidence 90), or, when no symbol matches, every block in that
// file (confidence 70). An import that does not resolve to a file in the
// batch yields no edges; blocks are never matched by symbol name alone
// outside the resolved file.
func extractTestEdges(e *Extractor, block graphmodel.CodeBlock, idx *batchIndex) []testEdge {
	if block.TestMeta == nil || !block.TestMeta.IsTest {
		return nil
	}

	var edges []testEdge
	for _, imp := range block.Imports {
		if isTestFrameworkImport(imp.Source) {
			continue
		}

		resolvedPath, resolved := resolveImportPath(e.WorkspaceRoot, block.FilePath, imp.Source, idx.fileExists)

		matchedBySymbol := false
		for _, symbol := range imp.Symbols {
			if resolved {
				if target, ok := idx.byFileAndIdentifier(resolvedPath, symbol); ok {
					edges = append(edges, testEdge{
						target: target, confidence: 90,
						framework: block.TestMeta.TestFramework, testType: block.TestMeta.TestType,
						targetName: symbol,
					})
					matchedBySymbol = true
				}
			}
		}
		if matchedBySymbol || !resolved {
			continue
		}

		// Fallback: whole-file match — every block in the resolved file.
		for _, target := range idx.inFile(resolvedPath) {
			edges = append(edges, testEdge{
				target: target, confidence: 70,
				framework: block.TestMeta.TestFramework, testType: block.TestMeta.TestType,
				targetName: target.Identifier,
			})
		}
	}
	return edges
}
