package orchestrator

import (
	"context"
	"fmt"
	"os"

	"github.com/standardbeagle/graphidx/internal/cachefile"
	"github.com/standardbeagle/graphidx/internal/debuglog"
	"github.com/standardbeagle/graphidx/internal/errs"
	"github.com/standardbeagle/graphidx/internal/watch"
)

// Start runs spec §4.4's start sequence: validate preconditions,
// initialize the vector store, decide incremental vs. full scan, start
// the watcher, run the scan, and mark indexing complete on success.
func (o *Orchestrator) Start(ctx context.Context) error {
	if o.cfg.WorkspaceRoot == "" {
		return errNoWorkspace
	}
	if !o.configured() {
		return errNotConfigured
	}
	if o.state.is(StateIndexing) {
		return errAlreadyIndexing
	}

	o.mu.Lock()
	runCtx, cancel := context.WithCancel(context.Background())
	o.runCancel = cancel
	o.mu.Unlock()

	o.state.set(StateIndexing)
	o.startPools(runCtx)

	created, err := o.vectorStore.Initialize(ctx)
	if err != nil {
		return o.fail(err)
	}
	o.indexingStarted.Store(true)

	hasData, err := o.vectorStore.HasIndexedData(ctx)
	if err != nil {
		return o.fail(err)
	}
	incremental := hasData && !created && o.cfg.Incremental

	if err := o.vectorStore.MarkIndexingIncomplete(ctx); err != nil {
		return o.fail(err)
	}

	if o.cfg.WatchEnabled {
		if err := o.startWatcher(); err != nil {
			return o.fail(err)
		}
	}

	if err := o.runScan(runCtx, incremental); err != nil {
		return o.fail(err)
	}

	if err := o.vectorStore.MarkIndexingComplete(ctx); err != nil {
		return o.fail(err)
	}
	if err := o.cache.Save(); err != nil {
		debuglog.Warn("orchestrator", "failed to persist cache: %v", err)
	}

	o.state.set(StateIndexed)
	return nil
}

// Cancel transitions Indexing -> Standby, stopping new work from being
// submitted and letting in-flight batches settle (spec §5
// "Cancellation").
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	cancel := o.runCancel
	o.runCancel = nil
	o.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	o.stopWatcher()
	o.poolsWG.Wait()
	o.state.set(StateStandby)
}

// Clear stops the watcher, deletes the vector collection, clears the
// graph, and clears the cache file, collecting per-component failures
// rather than aborting at the first one (spec §4.4 "Clear operation").
func (o *Orchestrator) Clear(ctx context.Context) error {
	o.mu.Lock()
	cancel := o.runCancel
	o.runCancel = nil
	o.mu.Unlock()
	if cancel != nil {
		cancel()
		o.poolsWG.Wait()
	}
	o.stopWatcher()

	var failures []string

	if o.vectorStore != nil {
		if err := o.vectorStore.DeleteCollection(ctx); err != nil {
			failures = append(failures, fmt.Sprintf("vector store: %v", err))
		}
	}

	if o.graphStore != nil {
		if clearer, ok := o.graphStore.(graphClearer); ok {
			if err := clearer.ClearAll(ctx); err != nil {
				failures = append(failures, fmt.Sprintf("graph store: %v", err))
			}
		} else {
			failures = append(failures, "graph store: does not support clearing the full graph")
		}
	}

	o.cache.Clear()
	if err := o.cache.Save(); err != nil {
		failures = append(failures, fmt.Sprintf("cache file: %v", err))
	}

	if len(failures) > 0 {
		err := errs.New(errs.CategoryUnknown, "orchestrator.Clear", fmt.Errorf("%d component(s) failed: %v", len(failures), failures))
		o.state.setError(string(errs.CategoryUnknown), err.Error())
		return err
	}

	o.indexingStarted.Store(false)
	o.state.set(StateStandby)
	return nil
}

// graphClearer is implemented by graph-store clients that can delete the
// entire graph, not just one file's nodes (internal/store/graphstore.Client
// satisfies it). graphextract.GraphStore itself has no such method, since
// the extractor never needs to clear more than one file.
type graphClearer interface {
	ClearAll(ctx context.Context) error
}

// startPools launches the three pipeline pools for the lifetime of runCtx;
// Cancel/Clear cancel runCtx and wait on poolsWG before returning.
func (o *Orchestrator) startPools(runCtx context.Context) {
	o.poolsWG.Add(3)
	go func() { defer o.poolsWG.Done(); _ = o.graphPool.Run(runCtx) }()
	go func() { defer o.poolsWG.Done(); _ = o.vectorPool.Run(runCtx) }()
	go func() { defer o.poolsWG.Done(); _ = o.embedPool.Run(runCtx) }()
}

// startWatcher builds and starts the workspace watcher, wiring its
// callbacks to re-index changed files directly into the running pools.
func (o *Orchestrator) startWatcher() error {
	w, err := watch.New(o.cfg.WorkspaceRoot, o.matcher, o.cfg.DebounceDelay)
	if err != nil {
		return errs.NewStoreError("watch", errs.CategoryUnknown, "new_watcher", err)
	}
	w.SetCallbacks(o.onFileChanged, o.onFileChanged, o.onFileRemoved)
	if err := w.Start(); err != nil {
		return errs.NewStoreError("watch", errs.CategoryUnknown, "start_watcher", err)
	}
	o.watcher = w
	return nil
}

func (o *Orchestrator) stopWatcher() {
	if o.watcher == nil {
		return
	}
	if err := o.watcher.Stop(); err != nil {
		debuglog.Warn("orchestrator", "error stopping watcher: %v", err)
	}
	o.watcher = nil
}

// onFileChanged re-parses a created or modified file and resubmits it to
// the graph and embedding pools outside of any single scan's batch
// accounting, matching the watcher's independent, per-event re-index
// contract.
func (o *Orchestrator) onFileChanged(path string, _ watch.EventType) {
	o.enqueueFile(path)
}

func (o *Orchestrator) onFileRemoved(path string) {
	o.cache.Delete(path)
	go func() {
		store := newValidatingStore(o.graphStore, o.validator)
		if err := store.DeleteFileNodes(context.Background(), path); err != nil {
			debuglog.Warn("orchestrator", "failed to delete nodes for removed file %s: %v", path, err)
		}
	}()
}

func (o *Orchestrator) enqueueFile(path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		debuglog.Warn("orchestrator", "watcher: skipping unreadable file %s: %v", path, err)
		return
	}

	blocks, err := o.registry.ParseFile(path, content)
	if err != nil || len(blocks) == 0 {
		return
	}

	o.submitGraphAndEmbedTasks(path, blocks)
	o.cache.Put(path, cachefile.HashBytes(content), segmentHashes(blocks))
}
