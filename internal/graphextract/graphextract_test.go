package graphextract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/graphidx/internal/graphmodel"
)

func TestExtractBlockEmitsPrimaryNode(t *testing.T) {
	block := graphmodel.CodeBlock{
		FilePath: "a.go", Identifier: "Greet", Type: "function_declaration",
		StartLine: 3, EndLine: 5,
	}
	e := New("/root/project")
	nodes, _ := e.ExtractBlock(block, []graphmodel.CodeBlock{block})

	require.Len(t, nodes, 1)
	require.Equal(t, graphmodel.KindFunction, nodes[0].Kind)
	require.Equal(t, "Greet", nodes[0].Name)
	require.Equal(t, "Go", nodes[0].Language)
}

func TestExtractBlockSynthesizesNameWhenBlank(t *testing.T) {
	block := graphmodel.CodeBlock{FilePath: "a.py", Type: "lambda", StartLine: 1, EndLine: 1}
	e := New("/root")
	nodes, _ := e.ExtractBlock(block, []graphmodel.CodeBlock{block})

	require.Len(t, nodes, 1)
	require.Contains(t, nodes[0].Name, "a.py")
}

func TestExtractBlockInvalidBlockDropped(t *testing.T) {
	block := graphmodel.CodeBlock{FilePath: "", Type: "function_declaration", StartLine: 1, EndLine: 1}
	e := New("/root")
	nodes, rels := e.ExtractBlock(block, []graphmodel.CodeBlock{block})
	require.Empty(t, nodes)
	require.Empty(t, rels)
}

func TestExtractImportsEmitsImportRelationship(t *testing.T) {
	block := graphmodel.CodeBlock{
		FilePath: "a.go", Identifier: "main", Type: "function_declaration",
		StartLine: 1, EndLine: 3,
		Imports: []graphmodel.ImportInfo{{Source: "fmt", Symbols: []string{"Println"}}},
	}
	e := New("/root")
	nodes, rels := e.ExtractBlock(block, []graphmodel.CodeBlock{block})

	require.Len(t, rels, 1)
	require.Equal(t, graphmodel.RelImports, rels[0].Type)

	require.Len(t, nodes, 2)
	require.Equal(t, graphmodel.KindImport, nodes[1].Kind)
	require.Equal(t, "fmt", nodes[1].Name)
}

func TestExtractDefinesForContainedBlock(t *testing.T) {
	outer := graphmodel.CodeBlock{FilePath: "a.go", Identifier: "Outer", Type: "function_declaration", StartLine: 1, EndLine: 10}
	inner := graphmodel.CodeBlock{FilePath: "a.go", Identifier: "inner", Type: "func_literal", StartLine: 3, EndLine: 5}
	batch := []graphmodel.CodeBlock{outer, inner}
	e := New("/root")
	_, rels := e.ExtractBlock(outer, batch)

	var found bool
	for _, r := range rels {
		if r.Type == graphmodel.RelDefines {
			found = true
		}
	}
	require.True(t, found)
}

func TestExtractCallsResolvesSameFileFunction(t *testing.T) {
	callee := graphmodel.CodeBlock{FilePath: "a.go", Identifier: "helper", Type: "function_declaration", StartLine: 1, EndLine: 3}
	caller := graphmodel.CodeBlock{
		FilePath: "a.go", Identifier: "main", Type: "function_declaration", StartLine: 5, EndLine: 8,
		Calls: []graphmodel.CallInfo{{CalleeName: "helper", CallType: "function", Line: 6}},
	}
	batch := []graphmodel.CodeBlock{callee, caller}
	e := New("/root")
	_, rels := e.ExtractBlock(caller, batch)

	require.Len(t, rels, 1)
	require.Equal(t, graphmodel.RelCalls, rels[0].Type)
	require.Equal(t, graphmodel.BlockNodeID(graphmodel.KindFunction, "a.go", 1), rels[0].ToID)
}

func TestExtractCallsDropsUnresolvedCall(t *testing.T) {
	caller := graphmodel.CodeBlock{
		FilePath: "a.go", Identifier: "main", Type: "function_declaration", StartLine: 1, EndLine: 3,
		Calls: []graphmodel.CallInfo{{CalleeName: "externalLibFunc", CallType: "function"}},
	}
	e := New("/root")
	_, rels := e.ExtractBlock(caller, []graphmodel.CodeBlock{caller})
	require.Empty(t, rels)
}

func TestExtractExtendsFindsParentClass(t *testing.T) {
	parent := graphmodel.CodeBlock{FilePath: "a.ts", Identifier: "Base", Type: "class_declaration", StartLine: 1, EndLine: 3}
	child := graphmodel.CodeBlock{
		FilePath: "a.ts", Identifier: "Derived", Type: "class_declaration", StartLine: 5, EndLine: 9,
		SymbolMeta: &graphmodel.SymbolMetadata{Extends: "pkg.Base<T>"},
	}
	batch := []graphmodel.CodeBlock{parent, child}
	e := New("/root")
	_, rels := e.ExtractBlock(child, batch)

	require.Len(t, rels, 1)
	require.Equal(t, graphmodel.RelExtends, rels[0].Type)
	require.Equal(t, "Base", rels[0].Metadata["parentClass"])
}

func TestExtractBatchSynthesizesReverseEdges(t *testing.T) {
	callee := graphmodel.CodeBlock{FilePath: "a.go", Identifier: "helper", Type: "function_declaration", StartLine: 1, EndLine: 3}
	caller := graphmodel.CodeBlock{
		FilePath: "a.go", Identifier: "main", Type: "function_declaration", StartLine: 5, EndLine: 8,
		Calls: []graphmodel.CallInfo{{CalleeName: "helper", CallType: "function"}},
	}
	e := New("/root")
	_, rels := e.ExtractBatch([]graphmodel.CodeBlock{callee, caller})

	var forward, reverse int
	for _, r := range rels {
		switch r.Type {
		case graphmodel.RelCalls:
			forward++
		case graphmodel.RelCalledBy:
			reverse++
		}
	}
	require.Equal(t, 1, forward)
	require.Equal(t, 1, reverse)
}

func TestNormalizeTypeName(t *testing.T) {
	require.Equal(t, "C", normalizeTypeName("a.b.C"))
	require.Equal(t, "Foo", normalizeTypeName("Foo<Bar>"))
}

func TestDetectLanguageKnownAndUnknownExtensions(t *testing.T) {
	require.Equal(t, "Go", detectLanguage("main.go"))
	require.Equal(t, "TypeScript", detectLanguage("app.tsx"))
	require.Equal(t, "zig", detectLanguage("main.zig"))
}

func TestBaseTypeIdentifiersSplitsUnionsAndDropsPrimitives(t *testing.T) {
	ids := baseTypeIdentifiers("Foo | string | Bar[]")
	require.Equal(t, []string{"Foo", "Bar"}, ids)
}

func TestBaseTypeIdentifiersPeelsOneLevelOfGenerics(t *testing.T) {
	ids := baseTypeIdentifiers("Box<Widget>")
	require.Equal(t, []string{"Box", "Widget"}, ids)
}

func TestParseSignatureExtractsParamAndReturnTypes(t *testing.T) {
	sig := parseSignature("(a: Foo, b: Bar[]) => Baz")
	require.Equal(t, []string{"Foo", "Bar[]"}, sig.paramTypes)
	require.Equal(t, "Baz", sig.returnType)
}

// fakeStore is a minimal in-memory GraphStore used to exercise
// IndexFile/IndexBlocks' store-call ordering and partial-failure reporting.
type fakeStore struct {
	deleted    []string
	upserted   []graphmodel.Node
	created    []graphmodel.Relationship
	failUpsert bool
	failRelate bool
}

func (s *fakeStore) DeleteFileNodes(_ context.Context, filePath string) error {
	s.deleted = append(s.deleted, filePath)
	return nil
}

func (s *fakeStore) UpsertNodes(_ context.Context, nodes []graphmodel.Node) error {
	if s.failUpsert {
		return errFakeUpsert
	}
	s.upserted = append(s.upserted, nodes...)
	return nil
}

func (s *fakeStore) CreateRelationships(_ context.Context, rels []graphmodel.Relationship) error {
	if s.failRelate {
		return errFakeRelate
	}
	s.created = append(s.created, rels...)
	return nil
}

var errFakeUpsert = errTest("upsert failed")
var errFakeRelate = errTest("relate failed")

type errTest string

func (e errTest) Error() string { return string(e) }

func TestIndexBlocksSkipsRelationshipsWhenUpsertFails(t *testing.T) {
	block := graphmodel.CodeBlock{FilePath: "a.go", Identifier: "f", Type: "function_declaration", StartLine: 1, EndLine: 2}
	store := &fakeStore{failUpsert: true}
	e := New("/root")

	_, _, err := e.IndexBlocks(context.Background(), store, []graphmodel.CodeBlock{block})
	require.Error(t, err)
	require.Empty(t, store.created)
}

func TestIndexFileEmitsContainsForTopLevelBlocks(t *testing.T) {
	outer := graphmodel.CodeBlock{FilePath: "a.go", Identifier: "Outer", Type: "function_declaration", StartLine: 1, EndLine: 10}
	inner := graphmodel.CodeBlock{FilePath: "a.go", Identifier: "inner", Type: "func_literal", StartLine: 3, EndLine: 5}
	store := &fakeStore{}
	e := New("/root")

	nodesDone, relsDone, err := e.IndexFile(context.Background(), store, "a.go", []graphmodel.CodeBlock{outer, inner})
	require.NoError(t, err)
	require.Greater(t, nodesDone, 0)
	require.Greater(t, relsDone, 0)
	require.Len(t, store.deleted, 1)

	var containsCount int
	for _, r := range store.created {
		if r.Type == graphmodel.RelContains {
			containsCount++
		}
	}
	require.Equal(t, 1, containsCount)
}
