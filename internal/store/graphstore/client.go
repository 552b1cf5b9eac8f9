// Package graphstore implements graphextract.GraphStore against Neo4j:
// parameterized MERGE/UNWIND batch upserts for nodes and relationships, plus
// a per-file delete used by the extractor's "replace this file's subgraph"
// semantics (spec §4.2). Grounded on the Neo4j client/backend pair in
// rohankatakam-coderisk's internal/graph package.
package graphstore

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/standardbeagle/graphidx/internal/debuglog"
	"github.com/standardbeagle/graphidx/internal/errs"
)

// maxBatchSize is the shared-resource budget from spec §8: no single
// batch upsert exceeds 1000 items.
const maxBatchSize = 1000

const defaultDatabase = "neo4j"

// Client is a Neo4j-backed graph store.
type Client struct {
	driver   neo4j.DriverWithContext
	database string
}

// New opens a driver against the default "neo4j" database and verifies
// connectivity before returning.
func New(ctx context.Context, uri, username, password string) (*Client, error) {
	return NewWithDatabase(ctx, uri, username, password, defaultDatabase)
}

// NewWithDatabase is New with an explicit database name, for deployments
// that partition workspaces across Neo4j databases.
func NewWithDatabase(ctx context.Context, uri, username, password, database string) (*Client, error) {
	if uri == "" || username == "" || password == "" {
		return nil, errs.New(errs.CategoryConfiguration, "graphstore.New",
			fmt.Errorf("uri, username and password are all required"))
	}
	if database == "" {
		database = defaultDatabase
	}

	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""),
		func(c *neo4j.Config) {
			c.MaxConnectionPoolSize = 50
			c.ConnectionAcquisitionTimeout = 30 * time.Second
			c.MaxConnectionLifetime = 1 * time.Hour
		})
	if err != nil {
		return nil, errs.NewStoreError("graph_store", errs.CategoryGraphStore, "new_driver", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, errs.NewStoreError("graph_store", errs.CategoryGraphStore, "verify_connectivity", err)
	}

	debuglog.Log("graphstore", "connected to %s (database=%s)\n", uri, database)
	return &Client{driver: driver, database: database}, nil
}

// Close releases the underlying driver's connection pool.
func (c *Client) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

// HealthCheck reports whether the store is still reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := c.driver.VerifyConnectivity(ctx); err != nil {
		return errs.NewStoreError("graph_store", errs.CategoryGraphStore, "health_check", err)
	}
	return nil
}

// DeleteFileNodes removes every node (and its relationships) recorded
// against filePath, ahead of a re-upsert of that file's current blocks.
func (c *Client) DeleteFileNodes(ctx context.Context, filePath string) error {
	const query = `MATCH (n {filePath: $filePath}) DETACH DELETE n`

	_, err := neo4j.ExecuteQuery(ctx, c.driver, query,
		map[string]any{"filePath": filePath},
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(c.database))
	if err != nil {
		return errs.NewStoreError("graph_store", errs.CategoryGraphStore, "delete_file_nodes", err)
	}
	return nil
}

// ClearAll deletes every node and relationship in the database, used by
// the orchestrator's clear operation (spec §4.4 "clears the graph").
func (c *Client) ClearAll(ctx context.Context) error {
	const query = `MATCH (n) DETACH DELETE n`

	_, err := neo4j.ExecuteQuery(ctx, c.driver, query,
		map[string]any{},
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(c.database))
	if err != nil {
		return errs.NewStoreError("graph_store", errs.CategoryGraphStore, "clear_all", err)
	}
	return nil
}

func chunk[T any](items []T, size int) [][]T {
	if size <= 0 || len(items) <= size {
		if len(items) == 0 {
			return nil
		}
		return [][]T{items}
	}
	var chunks [][]T
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}
