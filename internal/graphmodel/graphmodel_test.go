package graphmodel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodeBlockValid(t *testing.T) {
	require.True(t, CodeBlock{FilePath: "/a.go", StartLine: 5, EndLine: 5}.Valid())
	require.True(t, CodeBlock{FilePath: "/a.go", StartLine: 5, EndLine: 9}.Valid())
	require.False(t, CodeBlock{FilePath: "/a.go", StartLine: 9, EndLine: 5}.Valid())
	require.False(t, CodeBlock{FilePath: "", StartLine: 1, EndLine: 1}.Valid())
	require.False(t, CodeBlock{FilePath: "/a.go", StartLine: 0, EndLine: 1}.Valid())
}

func TestStrictlyContains(t *testing.T) {
	class := CodeBlock{FilePath: "/a.ts", StartLine: 10, EndLine: 50}
	method := CodeBlock{FilePath: "/a.ts", StartLine: 12, EndLine: 15}
	other := CodeBlock{FilePath: "/b.ts", StartLine: 12, EndLine: 15}
	same := CodeBlock{FilePath: "/a.ts", StartLine: 10, EndLine: 50}

	require.True(t, class.StrictlyContains(method))
	require.False(t, class.StrictlyContains(other))
	require.False(t, class.StrictlyContains(same))
	require.False(t, method.StrictlyContains(class))
}

func TestNodeIDs(t *testing.T) {
	require.Equal(t, "function:/src/a.go:10", BlockNodeID(KindFunction, "/src/a.go", 10))
	require.Equal(t, "file:/src/a.go", FileNodeID("/src/a.go"))
	require.Equal(t, "import:/src/a.go:fmt", ImportNodeID("/src/a.go", "fmt"))
}

func TestSyntheticName(t *testing.T) {
	name := SyntheticName("declaration", "/a/styles/globals.css", 54, 56)
	require.Equal(t, "declaration_globals.css_L54-56", name)
}

func TestReverseOf(t *testing.T) {
	cases := map[RelationshipType]RelationshipType{
		RelCalls:      RelCalledBy,
		RelTests:      RelTestedBy,
		RelExtends:    RelExtendedBy,
		RelImplements: RelImplementedBy,
	}
	for fwd, want := range cases {
		got, ok := ReverseOf(fwd)
		require.True(t, ok)
		require.Equal(t, want, got)
	}
	_, ok := ReverseOf(RelImports)
	require.False(t, ok)
}

func TestIsBlank(t *testing.T) {
	require.True(t, IsBlank(""))
	require.True(t, IsBlank("   \t\n"))
	require.False(t, IsBlank("x"))
}
