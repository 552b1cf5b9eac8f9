package quality

import (
	"testing"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"

	"github.com/stretchr/testify/require"
)

func parseGoFunc(t *testing.T, src string) (*tree_sitter.Tree, []byte) {
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

func findFirstFunction(node *tree_sitter.Node) *tree_sitter.Node {
	if node.Kind() == "function_declaration" {
		return node
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if found := findFirstFunction(node.Child(i)); found != nil {
			return found
		}
	}
	return nil
}

func TestCyclomaticCountsDecisionPoints(t *testing.T) {
	src := `package sample

func f(x int) int {
	if x > 0 {
		return x
	} else if x < 0 {
		return -x
	}
	for i := 0; i < x; i++ {
		x++
	}
	return x
}
`
	tree, _ := parseGoFunc(t, src)
	fn := findFirstFunction(tree.RootNode())
	require.NotNil(t, fn)
	// base 1 + two if_statements (the else-if desugars to a nested
	// if_statement) + one for_statement.
	require.GreaterOrEqual(t, Cyclomatic(fn), 4)
}

func TestCyclomaticBaseCaseIsOne(t *testing.T) {
	src := `package sample

func f() int {
	return 1
}
`
	tree, _ := parseGoFunc(t, src)
	fn := findFirstFunction(tree.RootNode())
	require.Equal(t, 1, Cyclomatic(fn))
}

func TestNestingDepthTracksDeepestStructural(t *testing.T) {
	src := `package sample

func f(x int) {
	if x > 0 {
		for i := 0; i < x; i++ {
			if i%2 == 0 {
				x++
			}
		}
	}
}
`
	tree, _ := parseGoFunc(t, src)
	fn := findFirstFunction(tree.RootNode())
	require.GreaterOrEqual(t, NestingDepth(fn), 3)
}

func TestParameterCountCountsParams(t *testing.T) {
	src := `package sample

func f(a int, b string, c bool) {}
`
	tree, _ := parseGoFunc(t, src)
	fn := findFirstFunction(tree.RootNode())
	require.Equal(t, 3, ParameterCount(fn))
}

func TestFunctionLengthSkipsBlankAndCommentLines(t *testing.T) {
	src := "func f() {\n// a comment\n\nx := 1\n/* block\ncomment */\ny := 2\n}"
	require.Equal(t, 4, FunctionLength(src))
}
