package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/graphidx/internal/graphmodel"
	"github.com/standardbeagle/graphidx/internal/store/vectorstore"
)

const sampleGoFileA = `package sample

import "fmt"

func Greet(name string) string {
	return fmt.Sprintf("hello %s", name)
}
`

const sampleGoFileB = `package sample

type Greeter struct{}

func (g Greeter) Greet(name string) string {
	return Greet(name)
}
`

type fakeEmbedder struct{}

func (fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{float32(i), 1, 2}
	}
	return vectors, nil
}

func newTestOrchestrator(t *testing.T, graph *recordingStore, vector vectorstore.Store) *Orchestrator {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), []byte(sampleGoFileA), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.go"), []byte(sampleGoFileB), 0o644))

	cfg := Config{
		WorkspaceRoot: root,
		CachePath:     filepath.Join(root, ".graphidx-cache.json"),
		WatchEnabled:  false,
	}
	return New(cfg, graph, vector, fakeEmbedder{})
}

func TestStartRejectsMissingWorkspaceRoot(t *testing.T) {
	o := New(Config{}, &recordingStore{}, vectorstore.NewMemoryStore(), fakeEmbedder{})
	err := o.Start(context.Background())
	require.ErrorIs(t, err, errNoWorkspace)
}

func TestStartRejectsWhenNotConfigured(t *testing.T) {
	o := New(Config{WorkspaceRoot: t.TempDir()}, nil, nil, nil)
	err := o.Start(context.Background())
	require.ErrorIs(t, err, errNotConfigured)
}

func TestStartIndexesWorkspaceAndReachesIndexed(t *testing.T) {
	graph := &recordingStore{}
	vector := vectorstore.NewMemoryStore()
	o := newTestOrchestrator(t, graph, vector)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	require.NoError(t, o.Start(ctx))
	require.Equal(t, StateIndexed, o.State())

	require.NotEmpty(t, graph.upserted)
	require.Greater(t, vector.Len(), 0)
	require.False(t, vector.IsIndexingIncomplete())

	o.Cancel()
	require.Equal(t, StateStandby, o.State())
}

func TestClearResetsStoresAndCache(t *testing.T) {
	graph := &recordingStore{}
	vector := vectorstore.NewMemoryStore()
	o := newTestOrchestrator(t, graph, vector)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, o.Start(ctx))

	require.NoError(t, o.Clear(context.Background()))
	require.Equal(t, StateStandby, o.State())
	require.Equal(t, 1, graph.cleared)
	require.Equal(t, 0, vector.Len())
}

// noClearStore implements graphextract.GraphStore but not graphClearer,
// modeling a graph-store client with no whole-graph clear support. It
// forwards to an inner *recordingStore without embedding it, so ClearAll
// is not promoted onto noClearStore.
type noClearStore struct {
	inner *recordingStore
}

func (s noClearStore) DeleteFileNodes(ctx context.Context, filePath string) error {
	return s.inner.DeleteFileNodes(ctx, filePath)
}

func (s noClearStore) UpsertNodes(ctx context.Context, nodes []graphmodel.Node) error {
	return s.inner.UpsertNodes(ctx, nodes)
}

func (s noClearStore) CreateRelationships(ctx context.Context, rels []graphmodel.Relationship) error {
	return s.inner.CreateRelationships(ctx, rels)
}

func TestClearReportsGraphStoreWithoutClearAllSupport(t *testing.T) {
	graph := &recordingStore{}
	vector := vectorstore.NewMemoryStore()
	o := newTestOrchestrator(t, graph, vector)
	o.graphStore = noClearStore{inner: graph}

	err := o.Clear(context.Background())
	require.Error(t, err)
	require.Equal(t, StateError, o.State())
}
