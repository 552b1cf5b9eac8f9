package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/graphidx/internal/metavalidate"
)

func TestLoadReturnsDefaultsWhenFileMissing(t *testing.T) {
	root := t.TempDir()

	cfg, err := Load(root)
	require.NoError(t, err)

	require.Equal(t, root, cfg.Project.Root)
	require.True(t, cfg.Watch.Enabled)
	require.Equal(t, 300, cfg.Watch.DebounceMs)
	require.Equal(t, metavalidate.DefaultConfig(), cfg.Validator)
	require.Equal(t, 0.10, cfg.Orchestrator.BatchFailureThreshold)
	require.True(t, cfg.Orchestrator.Incremental)
	require.Equal(t, "memory", cfg.VectorStore.Kind)
	require.Contains(t, cfg.Exclude, "**/node_modules/**")
}

func TestLoadOverlaysPipelineAndOrchestratorSections(t *testing.T) {
	root := t.TempDir()
	kdl := `
pipeline {
    graph {
        max_concurrency 5
        max_queue_size 60
    }
    vector {
        max_concurrency 12
    }
}
orchestrator {
    batch_failure_threshold 0.25
    incremental false
}
`
	require.NoError(t, os.WriteFile(filepath.Join(root, ".graphidx.kdl"), []byte(kdl), 0o644))

	cfg, err := Load(root)
	require.NoError(t, err)

	require.Equal(t, 5, cfg.Pipeline.Graph.MaxConcurrency)
	require.Equal(t, 60, cfg.Pipeline.Graph.MaxQueueSize)
	require.Equal(t, 12, cfg.Pipeline.Vector.MaxConcurrency)
	// unset embed stage keeps the value Default gave it.
	require.Equal(t, 4, cfg.Pipeline.Embed.MaxConcurrency)

	require.Equal(t, 0.25, cfg.Orchestrator.BatchFailureThreshold)
	require.False(t, cfg.Orchestrator.Incremental)
}

func TestLoadOverlaysStoreAndEmbeddingSections(t *testing.T) {
	root := t.TempDir()
	kdl := `
graph_store {
    uri "bolt://localhost:7687"
    username "neo4j"
    database "graphidx"
}
vector_store {
    kind "qdrant"
    endpoint "http://localhost:6333"
    collection "blocks"
}
embedding {
    model "text-embedding-3-large"
    api_key_env "MY_OPENAI_KEY"
}
include "**/*.go"
exclude "**/testdata/**"
`
	require.NoError(t, os.WriteFile(filepath.Join(root, ".graphidx.kdl"), []byte(kdl), 0o644))

	cfg, err := Load(root)
	require.NoError(t, err)

	require.Equal(t, "bolt://localhost:7687", cfg.GraphStore.URI)
	require.Equal(t, "neo4j", cfg.GraphStore.Username)
	require.Equal(t, "graphidx", cfg.GraphStore.Database)

	require.Equal(t, "qdrant", cfg.VectorStore.Kind)
	require.Equal(t, "http://localhost:6333", cfg.VectorStore.Endpoint)
	require.Equal(t, "blocks", cfg.VectorStore.Collection)

	require.Equal(t, "text-embedding-3-large", cfg.Embedding.Model)
	require.Equal(t, "MY_OPENAI_KEY", cfg.Embedding.APIKeyEnv)

	require.Equal(t, []string{"**/*.go"}, cfg.Include)
	require.Equal(t, []string{"**/testdata/**"}, cfg.Exclude)
}

func TestLoadOverlaysReachabilitySection(t *testing.T) {
	root := t.TempDir()
	kdl := `
reachability {
    max_analysis_depth 500
    max_analysis_time_sec 5
}
`
	require.NoError(t, os.WriteFile(filepath.Join(root, ".graphidx.kdl"), []byte(kdl), 0o644))

	cfg, err := Load(root)
	require.NoError(t, err)

	require.Equal(t, 500, cfg.Reachability.MaxAnalysisDepth)
	require.Equal(t, secondsToDuration(5), cfg.Reachability.MaxAnalysisTime)
}

func TestLoadRejectsMalformedKDL(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".graphidx.kdl"), []byte("project {"), 0o644))

	_, err := Load(root)
	require.Error(t, err)
}
