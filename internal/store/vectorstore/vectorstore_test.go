package vectorstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitializeReportsCreatedOnlyOnce(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	created, err := s.Initialize(ctx)
	require.NoError(t, err)
	require.True(t, created)

	created, err = s.Initialize(ctx)
	require.NoError(t, err)
	require.False(t, created)
}

func TestHasIndexedDataReflectsUpserts(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	has, err := s.HasIndexedData(ctx)
	require.NoError(t, err)
	require.False(t, has)

	require.NoError(t, s.UpsertPoints(ctx, []Point{{ID: "a", Vector: []float32{0.1, 0.2}}}))

	has, err = s.HasIndexedData(ctx)
	require.NoError(t, err)
	require.True(t, has)
}

func TestUpsertPointsRejectsOversizedBatch(t *testing.T) {
	s := NewMemoryStore()
	points := make([]Point, maxBatchSize+1)
	for i := range points {
		points[i] = Point{ID: string(rune(i))}
	}
	err := s.UpsertPoints(context.Background(), points)
	require.Error(t, err)
}

func TestClearCollectionEmptiesPointsButKeepsCreated(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_, err := s.Initialize(ctx)
	require.NoError(t, err)
	require.NoError(t, s.UpsertPoints(ctx, []Point{{ID: "a"}}))

	require.NoError(t, s.ClearCollection(ctx))
	require.Equal(t, 0, s.Len())

	created, err := s.Initialize(ctx)
	require.NoError(t, err)
	require.False(t, created)
}

func TestDeleteCollectionResetsCreatedFlag(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_, err := s.Initialize(ctx)
	require.NoError(t, err)

	require.NoError(t, s.DeleteCollection(ctx))

	created, err := s.Initialize(ctx)
	require.NoError(t, err)
	require.True(t, created)
}

func TestMarkIndexingIncompleteAndComplete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.MarkIndexingIncomplete(ctx))
	require.True(t, s.IsIndexingIncomplete())

	require.NoError(t, s.MarkIndexingComplete(ctx))
	require.False(t, s.IsIndexingIncomplete())
}
