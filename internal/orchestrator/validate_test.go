package orchestrator

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/graphidx/internal/graphmodel"
	"github.com/standardbeagle/graphidx/internal/metavalidate"
)

type recordingStore struct {
	mu       sync.Mutex
	deleted  []string
	upserted []graphmodel.Node
	created  []graphmodel.Relationship
	cleared  int
	clearErr error
}

func (s *recordingStore) DeleteFileNodes(_ context.Context, filePath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, filePath)
	return nil
}

func (s *recordingStore) UpsertNodes(_ context.Context, nodes []graphmodel.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserted = append(s.upserted, nodes...)
	return nil
}

func (s *recordingStore) CreateRelationships(_ context.Context, rels []graphmodel.Relationship) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, rels...)
	return nil
}

// ClearAll satisfies graphClearer, letting recordingStore stand in for a
// full graph-store client in lifecycle tests that exercise Clear().
func (s *recordingStore) ClearAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleared++
	return s.clearErr
}

func TestValidatingStorePassesThroughCleanMetadata(t *testing.T) {
	inner := &recordingStore{}
	store := newValidatingStore(inner, metavalidate.New(metavalidate.DefaultConfig()))

	rels := []graphmodel.Relationship{{
		FromID:   "a",
		ToID:     "b",
		Type:     graphmodel.RelCalls,
		Metadata: map[string]any{"line": 10},
	}}

	require.NoError(t, store.CreateRelationships(context.Background(), rels))
	require.Len(t, inner.created, 1)
	require.Equal(t, 10, inner.created[0].Metadata["line"])
}

func TestValidatingStorePassesThroughEmptyMetadataUnchanged(t *testing.T) {
	inner := &recordingStore{}
	store := newValidatingStore(inner, metavalidate.New(metavalidate.DefaultConfig()))

	rels := []graphmodel.Relationship{{FromID: "a", ToID: "b", Type: graphmodel.RelCalls}}

	require.NoError(t, store.CreateRelationships(context.Background(), rels))
	require.Len(t, inner.created, 1)
}

func TestValidatingStoreDropsRelationshipWithCircularMetadata(t *testing.T) {
	inner := &recordingStore{}
	store := newValidatingStore(inner, metavalidate.New(metavalidate.DefaultConfig()))

	cyclic := map[string]any{}
	cyclic["self"] = cyclic

	rels := []graphmodel.Relationship{
		{FromID: "a", ToID: "b", Type: graphmodel.RelCalls, Metadata: cyclic},
		{FromID: "c", ToID: "d", Type: graphmodel.RelCalls, Metadata: map[string]any{"ok": true}},
	}

	require.NoError(t, store.CreateRelationships(context.Background(), rels))
	require.Len(t, inner.created, 1)
	require.Equal(t, "c", inner.created[0].FromID)
}

func TestValidatingStoreDelegatesNodeAndDeleteCalls(t *testing.T) {
	inner := &recordingStore{}
	store := newValidatingStore(inner, metavalidate.New(metavalidate.DefaultConfig()))

	require.NoError(t, store.DeleteFileNodes(context.Background(), "a.go"))
	require.NoError(t, store.UpsertNodes(context.Background(), []graphmodel.Node{{ID: "n1"}}))
	require.Equal(t, []string{"a.go"}, inner.deleted)
	require.Len(t, inner.upserted, 1)
}
