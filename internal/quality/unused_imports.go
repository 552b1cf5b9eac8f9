package quality

import (
	"strings"

	"github.com/standardbeagle/graphidx/internal/graphmodel"
)

// frameworkAllowList holds import sources that are conventionally
// side-effecting (bundler/linter config, framework auto-registration) and
// should never be reported as unused even when no identifier usage is
// found for them.
var frameworkAllowList = []string{
	"react", "vue", "angular", "express",
	"jest", "mocha", "chai", "vitest", "testing-library", "@testing-library",
	"webpack", "vite", "rollup", "esbuild", "babel",
	"eslint", "prettier",
}

func isAllowListed(source string) bool {
	lower := strings.ToLower(source)
	for _, allowed := range frameworkAllowList {
		if strings.Contains(lower, allowed) {
			return true
		}
	}
	return false
}

// UnusedImport names one import whose bound symbols never appear among a
// file's collected identifier usages.
type UnusedImport struct {
	Source string
	Symbol string
}

// DetectUnused reports, for a single file, every import whose symbols (or
// default/namespace binding) never occur in usages — the set of
// identifier-like tokens collected from the rest of the file's blocks.
// Wildcard imports (Symbols containing "*") are treated as used if any
// usage contains a "." (the spec's accepted coarse heuristic for
// distinguishing "some member of this namespace was referenced" without a
// full scope-aware analysis).
func DetectUnused(imports []graphmodel.ImportInfo, usages map[string]bool) []UnusedImport {
	var unused []UnusedImport
	for _, imp := range imports {
		if isAllowListed(imp.Source) {
			continue
		}

		if len(imp.Symbols) == 0 {
			// Bare/default import: the binding itself is the usable name.
			name := imp.Alias
			if name == "" {
				name = defaultBindingName(imp.Source)
			}
			if name != "" && !usages[name] {
				unused = append(unused, UnusedImport{Source: imp.Source, Symbol: name})
			}
			continue
		}

		for _, sym := range imp.Symbols {
			if sym == "*" {
				if !anyDottedUsage(usages) {
					unused = append(unused, UnusedImport{Source: imp.Source, Symbol: sym})
				}
				continue
			}
			if !usages[sym] {
				unused = append(unused, UnusedImport{Source: imp.Source, Symbol: sym})
			}
		}
	}
	return unused
}

func anyDottedUsage(usages map[string]bool) bool {
	for u := range usages {
		if strings.Contains(u, ".") {
			return true
		}
	}
	return false
}

// defaultBindingName derives the identifier a bare import binds, e.g.
// "github.com/foo/bar" -> "bar", "./widgets/Button" -> "Button".
func defaultBindingName(source string) string {
	trimmed := strings.TrimSuffix(source, "/")
	idx := strings.LastIndexAny(trimmed, "/\\")
	if idx < 0 {
		return trimmed
	}
	return trimmed[idx+1:]
}
