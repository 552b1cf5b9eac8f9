package quality

import (
	"fmt"
	"testing"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"

	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/graphidx/internal/reachability"
)

func parseGoFile(t *testing.T, src string) (*tree_sitter.Tree, []byte) {
	t.Helper()
	parser := tree_sitter.NewParser()
	t.Cleanup(parser.Close)
	language := tree_sitter.NewLanguage(tree_sitter_go.Language())
	require.NoError(t, parser.SetLanguage(language))
	content := []byte(src)
	tree := parser.Parse(content, nil)
	require.NotNil(t, tree)
	t.Cleanup(tree.Close)
	return tree, content
}

func TestDetectUnreachableReportsPerFileFindings(t *testing.T) {
	deadSrc := `package sample

func f(x int) int {
	return x
	println("dead")
}
`
	cleanSrc := `package sample

func g(x int) int {
	return -x
}
`
	deadTree, deadContent := parseGoFile(t, deadSrc)
	cleanTree, cleanContent := parseGoFile(t, cleanSrc)

	a := reachability.New(reachability.DefaultConfig())
	results := DetectUnreachable(a, []ParsedFile{
		{Path: "dead.go", Root: deadTree.RootNode(), Content: deadContent},
		{Path: "clean.go", Root: cleanTree.RootNode(), Content: cleanContent},
	})

	require.Len(t, results, 1)
	require.Contains(t, results, "dead.go")
	require.NotContains(t, results, "clean.go")
}

func TestDetectUnreachableBoundsToFiftyFiles(t *testing.T) {
	deadSrc := `package sample

func f(x int) int {
	return x
	println("dead")
}
`
	tree, content := parseGoFile(t, deadSrc)
	root := tree.RootNode()

	files := make([]ParsedFile, 0, 60)
	for i := 0; i < 60; i++ {
		files = append(files, ParsedFile{Path: fmt.Sprintf("file_%d.go", i), Root: root, Content: content})
	}

	a := reachability.New(reachability.DefaultConfig())
	results := DetectUnreachable(a, files)
	require.Len(t, results, maxUnreachableScanFiles)
}
