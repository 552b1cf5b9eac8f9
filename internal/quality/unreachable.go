package quality

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/graphidx/internal/debuglog"
	"github.com/standardbeagle/graphidx/internal/reachability"
)

// maxUnreachableScanFiles bounds a single DetectUnreachable call to 50
// files.
const maxUnreachableScanFiles = 50

// ParsedFile is the minimal per-file input DetectUnreachable needs: a
// parsed root node and the original bytes it was parsed from.
type ParsedFile struct {
	Path    string
	Root    *tree_sitter.Node
	Content []byte
}

// DetectUnreachable runs the reachability analyzer over up to 50 files,
// logging (not failing) when more were supplied than that budget allows.
func DetectUnreachable(a *reachability.Analyzer, files []ParsedFile) map[string][]reachability.UnreachableNode {
	scoped := files
	if len(scoped) > maxUnreachableScanFiles {
		dropped := len(scoped) - maxUnreachableScanFiles
		scoped = scoped[:maxUnreachableScanFiles]
		debuglog.Warn("quality", "unreachable-code scan bounded to %d files, dropping %d", maxUnreachableScanFiles, dropped)
	}

	results := make(map[string][]reachability.UnreachableNode)
	for _, f := range scoped {
		if nodes := a.Analyze(f.Root, f.Content); len(nodes) > 0 {
			results[f.Path] = nodes
		}
	}
	return results
}
