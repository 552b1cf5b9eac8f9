package graphextract

import (
	"context"

	"github.com/standardbeagle/graphidx/internal/blocktype"
	"github.com/standardbeagle/graphidx/internal/errs"
	"github.com/standardbeagle/graphidx/internal/graphmodel"
)

// GraphStore is the narrow contract the extractor needs from a graph-store
// client: upsert nodes, then create relationships, plus a per-file delete
// used by indexFile's "replace this file's subgraph" semantics (spec §4.2).
// internal/store/graphstore implements this against Neo4j.
type GraphStore interface {
	DeleteFileNodes(ctx context.Context, filePath string) error
	UpsertNodes(ctx context.Context, nodes []graphmodel.Node) error
	CreateRelationships(ctx context.Context, rels []graphmodel.Relationship) error
}

// batchIndex is a read-only lookup structure built once per batch and
// shared across every block's extraction pass, so resolution strategies
// never re-scan the batch from scratch.
type batchIndex struct {
	all        []graphmodel.CodeBlock
	byFile     map[string][]graphmodel.CodeBlock
	byFileIdnt map[string]graphmodel.CodeBlock // "filePath\x00identifier" -> block
}

func buildBatchIndex(batch []graphmodel.CodeBlock) *batchIndex {
	idx := &batchIndex{
		all:        batch,
		byFile:     make(map[string][]graphmodel.CodeBlock),
		byFileIdnt: make(map[string]graphmodel.CodeBlock),
	}
	for _, b := range batch {
		idx.byFile[b.FilePath] = append(idx.byFile[b.FilePath], b)
		if b.Identifier != "" {
			idx.byFileIdnt[fileIdentKey(b.FilePath, b.Identifier)] = b
		}
	}
	return idx
}

func fileIdentKey(filePath, identifier string) string {
	return filePath + "\x00" + identifier
}

func (idx *batchIndex) inFile(filePath string) []graphmodel.CodeBlock {
	return idx.byFile[filePath]
}

func (idx *batchIndex) byFileAndIdentifier(filePath, identifier string) (graphmodel.CodeBlock, bool) {
	b, ok := idx.byFileIdnt[fileIdentKey(filePath, identifier)]
	return b, ok
}

// fileExists reports whether any block in the batch has exactly this
// FilePath — the batch is the extractor's only view of "which files exist".
func (idx *batchIndex) fileExists(filePath string) bool {
	_, ok := idx.byFile[filePath]
	return ok
}

// Extractor bundles the workspace root (needed for "@/"-prefixed import
// resolution) with batch extraction.
type Extractor struct {
	WorkspaceRoot string
}

// New creates an Extractor rooted at workspaceRoot.
func New(workspaceRoot string) *Extractor {
	return &Extractor{WorkspaceRoot: workspaceRoot}
}

// ExtractBlock runs node + relationship extraction for a single block
// against the rest of its batch (spec §4.2's literal per-block contract).
// For whole-batch extraction prefer ExtractBatch, which builds the lookup
// index once instead of once per block.
func (e *Extractor) ExtractBlock(block graphmodel.CodeBlock, batch []graphmodel.CodeBlock) ([]graphmodel.Node, []graphmodel.Relationship) {
	idx := buildBatchIndex(batch)
	return e.extractBlock(block, idx)
}

// ExtractBatch extracts every block in batch against the whole batch, then
// synthesizes reverse edges (spec §4.2 "Reverse edges").
func (e *Extractor) ExtractBatch(batch []graphmodel.CodeBlock) ([]graphmodel.Node, []graphmodel.Relationship) {
	idx := buildBatchIndex(batch)

	var nodes []graphmodel.Node
	var rels []graphmodel.Relationship
	for _, block := range batch {
		blockNodes, blockRels := e.extractBlock(block, idx)
		nodes = append(nodes, blockNodes...)
		rels = append(rels, blockRels...)
	}
	rels = append(rels, reverseEdges(rels)...)
	return nodes, rels
}

// reverseEdges synthesizes CALLED_BY/TESTED_BY/EXTENDED_BY/IMPLEMENTED_BY
// edges from their forward counterparts, sharing the forward metadata
// payload (spec §4.2 "Reverse edges").
func reverseEdges(forward []graphmodel.Relationship) []graphmodel.Relationship {
	var reverse []graphmodel.Relationship
	for _, r := range forward {
		reverseType, ok := graphmodel.ReverseOf(r.Type)
		if !ok {
			continue
		}
		reverse = append(reverse, graphmodel.Relationship{
			FromID:   r.ToID,
			ToID:     r.FromID,
			Type:     reverseType,
			Metadata: r.Metadata,
		})
	}
	return reverse
}

// IndexFile implements spec §4.2's "indexFile(filePath, blocks)" contract:
// delete the file's existing nodes, upsert the file node, delegate to
// indexBlocks, then emit CONTAINS for every top-level block. Returns the
// node and relationship counts achieved.
func (e *Extractor) IndexFile(ctx context.Context, store GraphStore, filePath string, blocks []graphmodel.CodeBlock) (nodesDone, relsDone int, err error) {
	if err := store.DeleteFileNodes(ctx, filePath); err != nil {
		return 0, 0, errs.NewIndexingError("delete_file_nodes", filePath, 0, 0, err)
	}

	fileNode := graphmodel.Node{
		ID:       graphmodel.FileNodeID(filePath),
		Kind:     graphmodel.KindFile,
		Name:     filePath,
		FilePath: filePath,
	}
	if err := store.UpsertNodes(ctx, []graphmodel.Node{fileNode}); err != nil {
		return 0, 0, errs.NewIndexingError("upsert_file_node", filePath, 0, 0, err)
	}
	nodesDone++

	blockNodes, blockRels, err := e.IndexBlocks(ctx, store, blocks)
	nodesDone += blockNodes
	relsDone += blockRels
	if err != nil {
		return nodesDone, relsDone, err
	}

	var containsEdges []graphmodel.Relationship
	for _, b := range topLevelBlocks(blocks) {
		containsEdges = append(containsEdges, graphmodel.Relationship{
			FromID: fileNode.ID,
			ToID:   graphmodel.BlockNodeID(blocktype.MapBlockType(b.Type), b.FilePath, b.StartLine),
			Type:   graphmodel.RelContains,
		})
	}
	if len(containsEdges) > 0 {
		if err := store.CreateRelationships(ctx, containsEdges); err != nil {
			return nodesDone, relsDone, errs.NewIndexingError("create_contains_edges", filePath, nodesDone, relsDone, err)
		}
	}
	relsDone += len(containsEdges)

	return nodesDone, relsDone, nil
}

// IndexBlocks implements spec §4.2's "indexBlocks" contract: pure
// extraction, then upsertNodes followed by createRelationships. If node
// upsert fails, relationship creation is skipped and the returned error
// carries the counts achieved prior to failure.
func (e *Extractor) IndexBlocks(ctx context.Context, store GraphStore, blocks []graphmodel.CodeBlock) (nodesDone, relsDone int, err error) {
	nodes, rels := e.ExtractBatch(blocks)

	if err := store.UpsertNodes(ctx, nodes); err != nil {
		return 0, 0, errs.NewIndexingError("upsert_nodes", "", 0, 0, err)
	}
	nodesDone = len(nodes)

	if err := store.CreateRelationships(ctx, rels); err != nil {
		return nodesDone, 0, errs.NewIndexingError("create_relationships", "", nodesDone, 0, err)
	}
	relsDone = len(rels)

	return nodesDone, relsDone, nil
}

// topLevelBlocks returns every block not strictly contained by another
// block in the same set, i.e. the file's direct children.
func topLevelBlocks(blocks []graphmodel.CodeBlock) []graphmodel.CodeBlock {
	var top []graphmodel.CodeBlock
	for i, b := range blocks {
		contained := false
		for j, other := range blocks {
			if i == j {
				continue
			}
			if other.StrictlyContains(b) {
				contained = true
				break
			}
		}
		if !contained {
			top = append(top, b)
		}
	}
	return top
}
