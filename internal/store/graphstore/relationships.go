package graphstore

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/standardbeagle/graphidx/internal/errs"
	"github.com/standardbeagle/graphidx/internal/graphmodel"
)

// CreateRelationships merges relationships into the graph, matching
// endpoints by node ID. Relationships are grouped by type, since Cypher
// relationship types cannot be bound as query parameters, then each
// type's group is upserted in maxBatchSize-sized chunks.
func (c *Client) CreateRelationships(ctx context.Context, rels []graphmodel.Relationship) error {
	groups := make(map[graphmodel.RelationshipType][]graphmodel.Relationship)
	for _, r := range rels {
		groups[r.Type] = append(groups[r.Type], r)
	}

	for relType, group := range groups {
		if !isValidIdentifier(string(relType)) {
			return errs.NewStoreError("graph_store", errs.CategoryGraphStore, "create_relationships",
				fmt.Errorf("invalid relationship type %q", relType))
		}
		for _, batch := range chunk(group, maxBatchSize) {
			if err := c.createRelationshipBatch(ctx, relType, batch); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Client) createRelationshipBatch(ctx context.Context, relType graphmodel.RelationshipType, rels []graphmodel.Relationship) error {
	rows := make([]map[string]any, len(rels))
	for i, r := range rels {
		rows[i] = map[string]any{
			"from":     r.FromID,
			"to":       r.ToID,
			"metadata": sanitizeMetadata(r.Metadata),
		}
	}

	query := fmt.Sprintf(`
UNWIND $rows AS row
MATCH (from:%s {id: row.from})
MATCH (to:%s {id: row.to})
MERGE (from)-[r:%s]->(to)
SET r += row.metadata
`, nodeLabel, nodeLabel, string(relType))

	_, err := neo4j.ExecuteQuery(ctx, c.driver, query,
		map[string]any{"rows": rows},
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(c.database))
	if err != nil {
		return errs.NewStoreError("graph_store", errs.CategoryGraphStore, "create_relationships", err)
	}
	return nil
}

// sanitizeMetadata drops nil values, since the Neo4j driver rejects untyped
// nils in map params; every other value, a nil-typed slice included, is
// passed through unchanged.
func sanitizeMetadata(metadata map[string]any) map[string]any {
	if len(metadata) == 0 {
		return map[string]any{}
	}
	clean := make(map[string]any, len(metadata))
	for k, v := range metadata {
		if v == nil {
			continue
		}
		clean[k] = v
	}
	return clean
}
