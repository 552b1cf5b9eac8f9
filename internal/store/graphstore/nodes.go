package graphstore

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/standardbeagle/graphidx/internal/errs"
	"github.com/standardbeagle/graphidx/internal/graphmodel"
)

// nodeLabel is the single label every persisted node carries; the entity's
// classification lives in the kind property rather than a dynamic label,
// since Cypher labels cannot be bound as query parameters.
const nodeLabel = "Node"

const upsertNodesQuery = `
UNWIND $rows AS row
MERGE (n:` + nodeLabel + ` {id: row.id})
SET n.kind = row.kind,
    n.name = row.name,
    n.filePath = row.filePath,
    n.startLine = row.startLine,
    n.endLine = row.endLine,
    n.language = row.language
`

// UpsertNodes merges nodes into the graph by ID, updating their properties
// in place when they already exist. Batches larger than maxBatchSize are
// split into sequential chunks.
func (c *Client) UpsertNodes(ctx context.Context, nodes []graphmodel.Node) error {
	for _, batch := range chunk(nodes, maxBatchSize) {
		if err := c.upsertNodeBatch(ctx, batch); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) upsertNodeBatch(ctx context.Context, nodes []graphmodel.Node) error {
	rows := make([]map[string]any, len(nodes))
	for i, n := range nodes {
		rows[i] = map[string]any{
			"id":        n.ID,
			"kind":      string(n.Kind),
			"name":      n.Name,
			"filePath":  n.FilePath,
			"startLine": n.StartLine,
			"endLine":   n.EndLine,
			"language":  n.Language,
		}
	}

	_, err := neo4j.ExecuteQuery(ctx, c.driver, upsertNodesQuery,
		map[string]any{"rows": rows},
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(c.database))
	if err != nil {
		return errs.NewStoreError("graph_store", errs.CategoryGraphStore, "upsert_nodes", err)
	}
	return nil
}
