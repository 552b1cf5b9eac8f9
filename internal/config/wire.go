package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/standardbeagle/graphidx/internal/errs"
	"github.com/standardbeagle/graphidx/internal/orchestrator"
	"github.com/standardbeagle/graphidx/internal/store/embedding"
	"github.com/standardbeagle/graphidx/internal/store/graphstore"
	"github.com/standardbeagle/graphidx/internal/store/vectorstore"
)

// OrchestratorConfig translates the loaded configuration into
// orchestrator.Config. The workspace-scan include/exclude globs, the
// validator and reachability bounds, and the three pipeline stage
// overrides all carry over field-for-field; connecting to the concrete
// graph store, vector store, and embedding provider is Build's job.
func (c Config) OrchestratorConfig() orchestrator.Config {
	return orchestrator.Config{
		WorkspaceRoot:         c.Project.Root,
		CachePath:             cachePath(c.Project.Root),
		Includes:              c.Include,
		Excludes:              c.Exclude,
		WatchEnabled:          c.Watch.Enabled,
		DebounceDelay:         c.debounce(),
		BatchFailureThreshold: c.Orchestrator.BatchFailureThreshold,
		Incremental:           c.Orchestrator.Incremental,
		Validator:             c.Validator,
		Reachability:          c.Reachability,
		GraphStage:            orchestrator.StageOverride(c.Pipeline.Graph),
		VectorStage:           orchestrator.StageOverride(c.Pipeline.Vector),
		EmbedStage:            orchestrator.StageOverride(c.Pipeline.Embed),
	}
}

func cachePath(workspaceRoot string) string {
	return filepath.Join(workspaceRoot, ".graphidx-cache.json")
}

// Build loads workspaceRoot's configuration, connects the graph store,
// vector store, and embedding provider it names, and returns a ready-to-
// start Orchestrator. The graph store and embedding provider are always
// live clients (Neo4j, OpenAI); the vector store is the in-process
// reference implementation unless a future VectorStore.Kind is wired.
func Build(ctx context.Context, workspaceRoot string) (*orchestrator.Orchestrator, Config, error) {
	cfg, err := Load(workspaceRoot)
	if err != nil {
		return nil, Config{}, err
	}

	graphStore, err := graphstore.NewWithDatabase(ctx, cfg.GraphStore.URI, cfg.GraphStore.Username, cfg.GraphStore.Password, cfg.GraphStore.Database)
	if err != nil {
		return nil, Config{}, err
	}

	vectorStore, err := buildVectorStore(cfg.VectorStore)
	if err != nil {
		return nil, Config{}, err
	}

	apiKey := os.Getenv(cfg.Embedding.APIKeyEnv)
	embedder, err := embedding.New(apiKey, cfg.Embedding.Model)
	if err != nil {
		return nil, Config{}, err
	}

	o := orchestrator.New(cfg.OrchestratorConfig(), graphStore, vectorStore, embedder)
	return o, cfg, nil
}

func buildVectorStore(cfg VectorStore) (vectorstore.Store, error) {
	switch cfg.Kind {
	case "", "memory":
		return vectorstore.NewMemoryStore(), nil
	default:
		return nil, errs.New(errs.CategoryConfiguration, "config.Build",
			fmt.Errorf("unsupported vector store kind %q (only \"memory\" is wired)", cfg.Kind))
	}
}
