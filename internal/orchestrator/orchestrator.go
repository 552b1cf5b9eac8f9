// Package orchestrator drives the indexing lifecycle for a workspace
// (spec §4.4): start/cancel/clear, incremental-vs-full scan decisions, the
// batch-failure policy, cache lifecycle on error, and the public state
// machine the UI observes. Grounded on the teacher's
// internal/indexing/master_index.go (the isIndexing CAS guard and
// IndexingInProgressError shape, the watcher start/stop-around-a-scan
// sequencing, the Clear() "collect errors per component, keep going"
// idiom) and internal/core/index_coordinator.go.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/standardbeagle/graphidx/internal/cachefile"
	"github.com/standardbeagle/graphidx/internal/debuglog"
	"github.com/standardbeagle/graphidx/internal/errs"
	"github.com/standardbeagle/graphidx/internal/graphextract"
	"github.com/standardbeagle/graphidx/internal/metavalidate"
	"github.com/standardbeagle/graphidx/internal/parse"
	"github.com/standardbeagle/graphidx/internal/pipeline"
	"github.com/standardbeagle/graphidx/internal/reachability"
	"github.com/standardbeagle/graphidx/internal/scanpath"
	"github.com/standardbeagle/graphidx/internal/store/vectorstore"
	"github.com/standardbeagle/graphidx/internal/watch"
)

// Embedder is the narrow contract the orchestrator needs from an
// embedding provider (internal/store/embedding.Provider satisfies it).
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// StageOverride bounds one pipeline specialization's concurrency and
// queue depth; zero values leave the built-in specialization default in
// place (see pipeline.Config.WithOverrides).
type StageOverride struct {
	MaxConcurrency int
	MaxQueueSize   int
}

// Config is the orchestrator's per-workspace configuration. It is
// produced by internal/config from the on-disk KDL configuration.
type Config struct {
	WorkspaceRoot string
	CachePath     string
	Includes      []string
	Excludes      []string
	WatchEnabled  bool
	DebounceDelay time.Duration

	// BatchFailureThreshold is spec §4.4's missed-ratio tolerance; <= 0
	// falls back to defaultPartialFailureThreshold.
	BatchFailureThreshold float64
	// Incremental prefers an incremental scan over a full rebuild when
	// the vector store already holds data for this workspace.
	Incremental bool

	Validator    metavalidate.Config
	Reachability reachability.Config

	GraphStage  StageOverride
	VectorStage StageOverride
	EmbedStage  StageOverride
}

// Orchestrator coordinates a workspace's scan/watch lifecycle against a
// graph store, vector store, and embedding provider.
type Orchestrator struct {
	cfg Config

	registry  *parse.Registry
	extractor *graphextract.Extractor
	validator *metavalidate.Validator
	cache     *cachefile.Cache
	matcher   *scanpath.Matcher

	graphStore  graphextract.GraphStore
	vectorStore vectorstore.Store
	embedder    Embedder
	graphPool   *pipeline.Pool
	vectorPool  *pipeline.Pool
	embedPool   *pipeline.Pool

	watcher *watch.Watcher

	state           *stateHolder
	indexingStarted atomic.Bool

	mu        sync.Mutex
	runCancel context.CancelFunc
	poolsWG   sync.WaitGroup
}

// New builds an Orchestrator wired to the given stores and embedder.
// graphStore, vectorStore, and embedder may be nil in tests that only
// exercise lifecycle/state logic; Start rejects with "not configured" in
// that case, matching spec §4.4's start-sequence rejection rules.
func New(cfg Config, graphStore graphextract.GraphStore, vectorStore vectorstore.Store, embedder Embedder) *Orchestrator {
	validatorCfg := cfg.Validator
	if validatorCfg == (metavalidate.Config{}) {
		validatorCfg = metavalidate.DefaultConfig()
	}
	reachCfg := cfg.Reachability
	if reachCfg == (reachability.Config{}) {
		reachCfg = reachability.DefaultConfig()
	}

	o := &Orchestrator{
		cfg:         cfg,
		registry:    parse.NewRegistryWithReachability(reachCfg),
		extractor:   graphextract.New(cfg.WorkspaceRoot),
		validator:   metavalidate.New(validatorCfg),
		cache:       cachefile.New(cfg.CachePath),
		matcher:     scanpath.NewMatcher(cfg.WorkspaceRoot, cfg.Includes, cfg.Excludes),
		graphStore:  graphStore,
		vectorStore: vectorStore,
		embedder:    embedder,
		state:       newStateHolder(),
	}
	o.graphPool = pipeline.New(pipeline.GraphStoreConfig().WithOverrides(cfg.GraphStage.MaxConcurrency, cfg.GraphStage.MaxQueueSize), o.processGraphTask)
	o.vectorPool = pipeline.New(pipeline.VectorStoreConfig().WithOverrides(cfg.VectorStage.MaxConcurrency, cfg.VectorStage.MaxQueueSize), o.processVectorTask)
	o.embedPool = pipeline.New(pipeline.EmbeddingConfig().WithOverrides(cfg.EmbedStage.MaxConcurrency, cfg.EmbedStage.MaxQueueSize), o.processEmbedTask)
	return o
}

// State returns the orchestrator's current lifecycle state.
func (o *Orchestrator) State() State {
	return o.state.get()
}

// Status reports the current state plus, when in StateError, the
// category and message that caused it.
type Status struct {
	State    State
	Category string
	Message  string
}

func (o *Orchestrator) Status() Status {
	s := o.state.snapshot()
	return Status{State: s.State, Category: s.Category, Message: s.Message}
}

func (o *Orchestrator) configured() bool {
	return o.graphStore != nil && o.vectorStore != nil && o.embedder != nil
}

func (o *Orchestrator) fail(err error) error {
	category := categoryOf(err)
	if o.indexingStarted.Load() {
		o.cache.Clear()
		debuglog.Warn("orchestrator", "cleared cache after failed indexing run: %v", err)
	} else {
		debuglog.Log("orchestrator", "preserving cache: store was never reached")
	}

	o.mu.Lock()
	cancel := o.runCancel
	o.runCancel = nil
	o.mu.Unlock()
	if cancel != nil {
		cancel()
		o.stopWatcher()
		o.poolsWG.Wait()
	}

	o.state.setError(string(category), err.Error())
	return err
}

var errNoWorkspace = errs.New(errs.CategoryConfiguration, "orchestrator.Start", fmt.Errorf("no workspace configured"))
var errNotConfigured = errs.New(errs.CategoryConfiguration, "orchestrator.Start", fmt.Errorf("graph store, vector store, and embedding provider must all be set"))
var errAlreadyIndexing = errs.New(errs.CategoryConfiguration, "orchestrator.Start", fmt.Errorf("indexing already in progress"))
