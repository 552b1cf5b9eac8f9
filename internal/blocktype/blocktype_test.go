package blocktype

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/graphidx/internal/graphmodel"
)

func TestMapBlockTypeFallback(t *testing.T) {
	require.Equal(t, graphmodel.KindFunction, MapBlockType(""))
	require.Equal(t, graphmodel.KindFunction, MapBlockType("   "))
	require.Equal(t, graphmodel.KindFunction, MapBlockType("totally_unknown_node_xyz"))
}

func TestMapBlockTypeRoots(t *testing.T) {
	require.Equal(t, graphmodel.KindClass, MapBlockType("source_file"))
	require.Equal(t, graphmodel.KindClass, MapBlockType("program"))
}

func TestMapBlockTypeTierOrder(t *testing.T) {
	cases := []struct {
		nodeType string
		want     graphmodel.NodeKind
	}{
		{"class_declaration", graphmodel.KindClass},
		{"struct_item", graphmodel.KindClass},
		{"abstract_class_declaration", graphmodel.KindClass},
		{"interface_declaration", graphmodel.KindInterface},
		{"type_alias_declaration", graphmodel.KindInterface},
		{"method_declaration", graphmodel.KindMethod},
		{"abstract_method_declaration", graphmodel.KindMethod},
		{"constructor_declaration", graphmodel.KindMethod},
		{"function_declaration", graphmodel.KindFunction},
		{"arrow_function", graphmodel.KindFunction},
		{"lexical_declaration", graphmodel.KindVariable},
		{"parameter_declaration", graphmodel.KindVariable},
		{"import_statement", graphmodel.KindImport},
		{"export_statement", graphmodel.KindImport},
		{"namespace_declaration", graphmodel.KindClass},
		{"if_statement", graphmodel.KindFunction},
		{"declaration", graphmodel.KindFunction}, // CSS-style fallback chunk
	}
	for _, c := range cases {
		t.Run(c.nodeType, func(t *testing.T) {
			require.Equal(t, c.want, MapBlockType(c.nodeType))
		})
	}
}

func TestMapBlockTypeCaseInsensitive(t *testing.T) {
	require.Equal(t, graphmodel.KindClass, MapBlockType("CLASS_DECLARATION"))
	require.Equal(t, graphmodel.KindMethod, MapBlockType("Method_Definition"))
}

func TestMapBlockTypeDefinitionSuffix(t *testing.T) {
	require.Equal(t, graphmodel.KindClass, MapBlockType("class_definition"))
	require.Equal(t, graphmodel.KindVariable, MapBlockType("field_definition"))
}

func TestMapBlockTypeStatementFallback(t *testing.T) {
	require.Equal(t, graphmodel.KindFunction, MapBlockType("expression_statement"))
}
