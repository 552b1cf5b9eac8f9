package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/graphidx/internal/config"
	"github.com/standardbeagle/graphidx/internal/graphextract"
	"github.com/standardbeagle/graphidx/internal/graphmodel"
	"github.com/standardbeagle/graphidx/internal/parse"
	"github.com/standardbeagle/graphidx/internal/quality"
	"github.com/standardbeagle/graphidx/internal/reachability"
	"github.com/standardbeagle/graphidx/internal/scanpath"
)

// maxReachabilityReportFiles bounds how many files reportCommand keeps
// parsed simultaneously for the unreachable-code pass; quality.
// DetectUnreachable enforces the same bound internally, so reading and
// opening more than this up front would only be discarded unused.
const maxReachabilityReportFiles = 50

// reportCommand runs a read-only quality pass over the workspace — unused
// imports (spec §4.7), unused/orphaned graph nodes, and unreachable code
// (spec §4.6) — and prints a summary. It never touches the graph store,
// vector store, or cache: unlike start/status/clear it needs no configured
// Orchestrator, only the parser and extractor.
func reportCommand(c *cli.Context) error {
	root, err := workspaceRoot(c)
	if err != nil {
		return err
	}

	cfg, err := config.Load(root)
	if err != nil {
		return fmt.Errorf("graphidx: loading config: %w", err)
	}

	matcher := scanpath.NewMatcher(root, cfg.Include, cfg.Exclude)
	registry := parse.NewRegistryWithReachability(cfg.Reachability)
	extractor := graphextract.New(root)

	paths, err := walkWorkspace(root, matcher, registry)
	if err != nil {
		return fmt.Errorf("graphidx: walking %s: %w", root, err)
	}

	var allBlocks []graphmodel.CodeBlock
	contents := make(map[string][]byte, len(paths))
	var unusedImportFindings []string

	for _, path := range paths {
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			continue
		}
		contents[path] = content

		blocks, parseErr := registry.ParseFile(path, content)
		if parseErr != nil || len(blocks) == 0 {
			continue
		}
		allBlocks = append(allBlocks, blocks...)

		for _, b := range blocks {
			for _, imp := range b.Imports {
				if imp.Unused {
					unusedImportFindings = append(unusedImportFindings,
						fmt.Sprintf("%s:%d: unused import %q", path, b.StartLine, imp.Source))
				}
			}
		}
	}

	nodes, rels := extractor.ExtractBatch(allBlocks)
	unusedFns := quality.UnusedFunctions(nodes, rels)
	orphans := quality.OrphanedNodes(nodes, rels)

	reachPaths := paths
	if len(reachPaths) > maxReachabilityReportFiles {
		reachPaths = reachPaths[:maxReachabilityReportFiles]
	}
	parsedFiles, cleanup := registry.OpenForReachability(reachPaths, contents)
	defer cleanup()
	unreachable := quality.DetectUnreachable(reachability.New(cfg.Reachability), parsedFiles)

	printReport(unusedImportFindings, unusedFns, orphans, unreachable)
	return nil
}

func walkWorkspace(root string, matcher *scanpath.Matcher, registry *parse.Registry) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && matcher.ShouldExclude(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if !matcher.Accept(path) || !registry.SupportsExtension(filepath.Ext(path)) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	return paths, err
}

func printReport(unusedImports []string, unusedFns, orphans []graphmodel.Node, unreachable map[string][]reachability.UnreachableNode) {
	fmt.Printf("unused imports: %d\n", len(unusedImports))
	sort.Strings(unusedImports)
	for _, line := range unusedImports {
		fmt.Printf("  %s\n", line)
	}

	fmt.Printf("unused functions: %d\n", len(unusedFns))
	for _, n := range sortedByLocation(unusedFns) {
		fmt.Printf("  %s:%d: %s\n", n.FilePath, n.StartLine, n.Name)
	}

	fmt.Printf("orphaned nodes: %d\n", len(orphans))
	for _, n := range sortedByLocation(orphans) {
		fmt.Printf("  %s:%d: %s (%s)\n", n.FilePath, n.StartLine, n.Name, n.Kind)
	}

	unreachableTotal := 0
	for _, nodes := range unreachable {
		unreachableTotal += len(nodes)
	}
	fmt.Printf("unreachable statements: %d\n", unreachableTotal)
	for _, path := range sortedKeys(unreachable) {
		for _, u := range unreachable[path] {
			fmt.Printf("  %s:%d: %s (%s, scope %s)\n", path, u.Line, u.Reason, u.NodeType, u.ScopeType)
		}
	}
}

func sortedByLocation(nodes []graphmodel.Node) []graphmodel.Node {
	out := append([]graphmodel.Node(nil), nodes...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].FilePath != out[j].FilePath {
			return out[i].FilePath < out[j].FilePath
		}
		return out[i].StartLine < out[j].StartLine
	})
	return out
}

func sortedKeys(m map[string][]reachability.UnreachableNode) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
