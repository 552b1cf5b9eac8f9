// Package graphextract turns parsed CodeBlocks into the Node/Relationship
// pairs a graph store persists: node extraction (with synthetic naming and
// language detection), every relationship category (IMPORTS, EXTENDS,
// IMPLEMENTS, CALLS, DEFINES, TESTS, HAS_TYPE/ACCEPTS_TYPE/RETURNS_TYPE),
// reverse-edge synthesis, and the indexFile/indexBlocks store-call
// contracts. See spec §4.2.
package graphextract

import (
	"github.com/standardbeagle/graphidx/internal/blocktype"
	"github.com/standardbeagle/graphidx/internal/graphmodel"
)

// extractBlock emits every node and relationship spec §4.2 assigns to a
// single block, given the shared batch index.
func (e *Extractor) extractBlock(block graphmodel.CodeBlock, idx *batchIndex) ([]graphmodel.Node, []graphmodel.Relationship) {
	if !block.Valid() {
		return nil, nil
	}

	identifier := block.Identifier
	if graphmodel.IsBlank(identifier) {
		identifier = graphmodel.SyntheticName(block.Type, block.FilePath, block.StartLine, block.EndLine)
	}

	kind := blocktype.MapBlockType(block.Type)
	node := graphmodel.Node{
		ID:        graphmodel.BlockNodeID(kind, block.FilePath, block.StartLine),
		Kind:      kind,
		Name:      identifier,
		FilePath:  block.FilePath,
		StartLine: block.StartLine,
		EndLine:   block.EndLine,
		Language:  detectLanguage(block.FilePath),
	}
	nodes := []graphmodel.Node{node}
	nodes = append(nodes, importPlaceholderNodes(block)...)

	var rels []graphmodel.Relationship
	rels = append(rels, extractImports(node, block)...)
	rels = append(rels, extractExtends(node, block, idx)...)
	rels = append(rels, extractImplements(node, block, idx)...)
	rels = append(rels, extractCalls(e, node, block, idx)...)
	rels = append(rels, extractDefines(node, block, idx)...)
	rels = append(rels, extractTests(e, node, block, idx)...)
	rels = append(rels, extractTypes(node, block, idx)...)

	return nodes, rels
}

// importPlaceholderNodes emits one KindImport placeholder node per import
// on block — the target every IMPORTS relationship points at. Placeholder
// nodes carry no line range or language (graphmodel.Node's "empty for
// import placeholders" contract).
func importPlaceholderNodes(block graphmodel.CodeBlock) []graphmodel.Node {
	var nodes []graphmodel.Node
	for _, imp := range block.Imports {
		nodes = append(nodes, graphmodel.Node{
			ID:       graphmodel.ImportNodeID(block.FilePath, imp.Source),
			Kind:     graphmodel.KindImport,
			Name:     imp.Source,
			FilePath: block.FilePath,
		})
	}
	return nodes
}

func extractImports(node graphmodel.Node, block graphmodel.CodeBlock) []graphmodel.Relationship {
	var rels []graphmodel.Relationship
	for _, imp := range block.Imports {
		rels = append(rels, graphmodel.Relationship{
			FromID: node.ID,
			ToID:   graphmodel.ImportNodeID(block.FilePath, imp.Source),
			Type:   graphmodel.RelImports,
			Metadata: map[string]any{
				"source":    imp.Source,
				"symbols":   imp.Symbols,
				"isDefault": imp.IsDefault,
			},
		})
	}
	return rels
}

func extractExtends(node graphmodel.Node, block graphmodel.CodeBlock, idx *batchIndex) []graphmodel.Relationship {
	if block.SymbolMeta == nil || block.SymbolMeta.Extends == "" || blocktype.MapBlockType(block.Type) != graphmodel.KindClass {
		return nil
	}
	name := normalizeTypeName(block.SymbolMeta.Extends)
	parent, ok := findByIdentifierAndKind(idx, name, graphmodel.KindClass)
	if !ok {
		return nil
	}
	return []graphmodel.Relationship{{
		FromID: node.ID,
		ToID:   graphmodel.BlockNodeID(graphmodel.KindClass, parent.FilePath, parent.StartLine),
		Type:   graphmodel.RelExtends,
		Metadata: map[string]any{
			"parentClass": name,
			"isAbstract":  block.SymbolMeta.IsAbstract,
		},
	}}
}

func extractImplements(node graphmodel.Node, block graphmodel.CodeBlock, idx *batchIndex) []graphmodel.Relationship {
	if block.SymbolMeta == nil || blocktype.MapBlockType(block.Type) != graphmodel.KindClass {
		return nil
	}
	var rels []graphmodel.Relationship
	for _, raw := range block.SymbolMeta.Implements {
		name := normalizeTypeName(raw)
		iface, ok := findByIdentifierAndKind(idx, name, graphmodel.KindInterface)
		if !ok {
			continue
		}
		rels = append(rels, graphmodel.Relationship{
			FromID:   node.ID,
			ToID:     graphmodel.BlockNodeID(graphmodel.KindInterface, iface.FilePath, iface.StartLine),
			Type:     graphmodel.RelImplements,
			Metadata: map[string]any{"interface": name},
		})
	}
	return rels
}

func findByIdentifierAndKind(idx *batchIndex, name string, kind graphmodel.NodeKind) (graphmodel.CodeBlock, bool) {
	for _, candidate := range idx.all {
		if candidate.Identifier == name && blocktype.MapBlockType(candidate.Type) == kind {
			return candidate, true
		}
	}
	return graphmodel.CodeBlock{}, false
}

func extractCalls(e *Extractor, node graphmodel.Node, block graphmodel.CodeBlock, idx *batchIndex) []graphmodel.Relationship {
	var rels []graphmodel.Relationship
	for _, call := range block.Calls {
		target, ok := resolveCallTarget(block, call, idx, e.WorkspaceRoot)
		if !ok {
			continue // unresolved: expected for external libraries, silently dropped
		}
		rels = append(rels, graphmodel.Relationship{
			FromID: node.ID,
			ToID:   graphmodel.BlockNodeID(blocktype.MapBlockType(target.Type), target.FilePath, target.StartLine),
			Type:   graphmodel.RelCalls,
			Metadata: map[string]any{
				"callType":  call.CallType,
				"line":      call.Line,
				"column":    call.Column,
				"receiver":  call.Receiver,
				"qualifier": call.Qualifier,
			},
		})
	}
	return rels
}

func extractDefines(node graphmodel.Node, block graphmodel.CodeBlock, idx *batchIndex) []graphmodel.Relationship {
	var rels []graphmodel.Relationship
	for _, other := range idx.inFile(block.FilePath) {
		if other.StartLine == block.StartLine && other.EndLine == block.EndLine {
			continue
		}
		if !block.StrictlyContains(other) {
			continue
		}
		rels = append(rels, graphmodel.Relationship{
			FromID: node.ID,
			ToID:   graphmodel.BlockNodeID(blocktype.MapBlockType(other.Type), other.FilePath, other.StartLine),
			Type:   graphmodel.RelDefines,
		})
	}
	return rels
}

func extractTests(e *Extractor, node graphmodel.Node, block graphmodel.CodeBlock, idx *batchIndex) []graphmodel.Relationship {
	var rels []graphmodel.Relationship
	for _, edge := range extractTestEdges(e, block, idx) {
		rels = append(rels, graphmodel.Relationship{
			FromID: node.ID,
			ToID:   graphmodel.BlockNodeID(blocktype.MapBlockType(edge.target.Type), edge.target.FilePath, edge.target.StartLine),
			Type:   graphmodel.RelTests,
			Metadata: map[string]any{
				"confidence":       edge.confidence,
				"detectionMethod":  "import",
				"testFramework":    edge.framework,
				"testType":         edge.testType,
				"targetIdentifier": edge.targetName,
			},
		})
	}
	return rels
}

func extractTypes(node graphmodel.Node, block graphmodel.CodeBlock, idx *batchIndex) []graphmodel.Relationship {
	var rels []graphmodel.Relationship
	for _, edge := range extractTypeEdges(block, idx) {
		rels = append(rels, graphmodel.Relationship{
			FromID: node.ID,
			ToID:   graphmodel.BlockNodeID(blocktype.MapBlockType(edge.target.Type), edge.target.FilePath, edge.target.StartLine),
			Type:   edge.relType,
			Metadata: map[string]any{
				"typeString": edge.typeString,
				"source":     "lsp",
			},
		})
	}
	return rels
}
