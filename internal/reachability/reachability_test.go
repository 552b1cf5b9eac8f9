package reachability

import (
	"testing"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"

	"github.com/stretchr/testify/require"
)

func parseGo(t *testing.T, src string) (*tree_sitter.Tree, []byte) {
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

func TestAnalyzeFlagsCodeAfterReturn(t *testing.T) {
	src := `package sample

func f(x int) int {
	return x
	println("dead")
}
`
	tree, content := parseGo(t, src)
	a := New(DefaultConfig())
	unreachable := a.Analyze(tree.RootNode(), content)

	require.Len(t, unreachable, 1)
	require.Equal(t, ReasonAfterReturn, unreachable[0].Reason)
	require.Equal(t, ScopeFunction, unreachable[0].ScopeType)
	require.Contains(t, unreachable[0].Snippet, "println")
}

func TestAnalyzeNoFalsePositiveWithoutDeadCode(t *testing.T) {
	src := `package sample

func f(x int) int {
	if x > 0 {
		return x
	}
	return -x
}
`
	tree, content := parseGo(t, src)
	a := New(DefaultConfig())
	unreachable := a.Analyze(tree.RootNode(), content)
	require.Empty(t, unreachable)
}

func TestAnalyzeConditionalAllBranchesDeadMarksFollowingCodeUnreachable(t *testing.T) {
	src := `package sample

func f(x int) int {
	if x > 0 {
		return x
	} else {
		return -x
	}
	println("unreachable")
}
`
	tree, content := parseGo(t, src)
	a := New(DefaultConfig())
	unreachable := a.Analyze(tree.RootNode(), content)

	require.Len(t, unreachable, 1)
	require.Equal(t, ReasonConditionalFalse, unreachable[0].Reason)
}

func TestAnalyzeCodeAfterBreakInLoop(t *testing.T) {
	src := `package sample

func f() {
	for i := 0; i < 10; i++ {
		break
		println("dead")
	}
}
`
	tree, content := parseGo(t, src)
	a := New(DefaultConfig())
	unreachable := a.Analyze(tree.RootNode(), content)

	require.Len(t, unreachable, 1)
	require.Equal(t, ReasonAfterBreak, unreachable[0].Reason)
	require.Equal(t, ScopeFunction, unreachable[0].ScopeType)
}

func TestAnalyzeRespectsDepthBound(t *testing.T) {
	src := `package sample

func f(x int) int {
	return x
	println("dead")
}
`
	tree, content := parseGo(t, src)
	a := New(Config{MaxAnalysisDepth: 0, MaxAnalysisTime: DefaultConfig().MaxAnalysisTime})
	unreachable := a.Analyze(tree.RootNode(), content)
	require.Empty(t, unreachable)
}
