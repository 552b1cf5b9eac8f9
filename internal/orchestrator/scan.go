package orchestrator

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/standardbeagle/graphidx/internal/cachefile"
	"github.com/standardbeagle/graphidx/internal/debuglog"
	"github.com/standardbeagle/graphidx/internal/errs"
	"github.com/standardbeagle/graphidx/internal/graphmodel"
	"github.com/standardbeagle/graphidx/internal/pipeline"
	"github.com/standardbeagle/graphidx/internal/store/vectorstore"
)

// statsPollInterval is how often a scan checks whether its pools have
// drained every submitted task, mirroring the teacher's polling-based
// scan-completion detection in runFileScanner.
const statsPollInterval = 200 * time.Millisecond

// fileOutcome pairs a file's discovered block count with the taskResult
// that will carry its graph-store task's terminal outcome, once settled.
type fileOutcome struct {
	blocks int
	result *taskResult
}

// submitVectorTask hands a file's embedded points to the vector-store
// pool. Its outcome is logged by the pool itself on terminal failure
// (internal/pipeline's dispatch already warns); the vector store is a
// secondary consumer of a scan's blocks and does not feed the graph
// scan's found/indexed batch-failure accounting.
func (o *Orchestrator) submitVectorTask(filePath string, points []vectorstore.Point) {
	data := &vectorTaskData{points: points, result: newTaskResult()}
	if err := o.vectorPool.Add(pipeline.NewTask(filePath, data, 0)); err != nil {
		debuglog.Warn("orchestrator", "vector task for %s rejected: %v", filePath, err)
	}
}

// walk returns every workspace file path the scanpath matcher accepts and
// a grammar is registered for.
func (o *Orchestrator) walk(ctx context.Context) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(o.cfg.WorkspaceRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if path != o.cfg.WorkspaceRoot && o.matcher.ShouldExclude(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if !o.matcher.Accept(path) || !o.registry.SupportsExtension(filepath.Ext(path)) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// runScan walks the workspace, submits one graph-store task and one
// embedding task per changed file (incremental scans skip files whose
// content hash matches the cache), waits for every pool to drain, and
// applies spec §4.4's batch-failure policy to the outcome. The three
// pools themselves are started once for the whole indexing run (see
// lifecycle.go's startPools), since the watcher keeps submitting tasks to
// them long after a single scan finishes walking.
func (o *Orchestrator) runScan(ctx context.Context, incremental bool) error {
	paths, err := o.walk(ctx)
	if err != nil {
		return err
	}

	var outcomes []fileOutcome
	for _, path := range paths {
		if ctx.Err() != nil {
			break
		}

		content, readErr := os.ReadFile(path)
		if readErr != nil {
			debuglog.Warn("orchestrator", "skipping unreadable file %s: %v", path, readErr)
			continue
		}

		fileHash := cachefile.HashBytes(content)
		if incremental && o.cache.Unchanged(path, fileHash) {
			continue
		}

		blocks, parseErr := o.registry.ParseFile(path, content)
		if parseErr != nil {
			debuglog.Warn("orchestrator", "skipping unparseable file %s: %v", path, parseErr)
			continue
		}
		if len(blocks) == 0 {
			continue
		}

		outcomes = append(outcomes, o.submitGraphAndEmbedTasks(path, blocks))
		o.cache.Put(path, fileHash, segmentHashes(blocks))
	}

	o.awaitDrain(ctx)

	found, indexed := 0, 0
	var batchErrors []error
	for _, oc := range outcomes {
		found += oc.blocks
		if err := oc.result.get(); err != nil {
			batchErrors = append(batchErrors, err)
			continue
		}
		indexed += oc.blocks
	}

	category := errs.CategoryUnknown
	if len(batchErrors) > 0 {
		category = categoryOf(batchErrors[0])
	}

	outcome, failErr := evaluateBatch(found, indexed, batchErrors, category, o.cfg.BatchFailureThreshold)
	switch outcome {
	case OutcomeFailure:
		return failErr
	case OutcomePartialFailure:
		debuglog.Warn("orchestrator", "partial indexing failure: %v", failErr)
		return failErr
	default:
		return nil
	}
}

// submitGraphAndEmbedTasks submits one file's blocks to the graph-store
// and embedding pools, shared by both a full/incremental scan and the
// watcher's per-event re-index path.
func (o *Orchestrator) submitGraphAndEmbedTasks(path string, blocks []graphmodel.CodeBlock) fileOutcome {
	graphResult := newTaskResult()
	graphData := &graphTaskData{filePath: path, blocks: blocks, result: graphResult}
	if addErr := o.graphPool.Add(pipeline.NewTask(path, graphData, 0)); addErr != nil {
		debuglog.Warn("orchestrator", "graph task for %s rejected: %v", path, addErr)
		graphResult.set(addErr)
	}

	embedResult := newTaskResult()
	embedData := &embedTaskData{filePath: path, blocks: blocks, result: embedResult}
	if addErr := o.embedPool.Add(pipeline.NewTask(path, embedData, 0)); addErr != nil {
		debuglog.Warn("orchestrator", "embed task for %s rejected: %v", path, addErr)
		embedResult.set(addErr)
	}

	return fileOutcome{blocks: len(blocks), result: graphResult}
}

// awaitDrain blocks until every pool of the run reports no
// in-flight or queued work, polling Stats() at statsPollInterval.
func (o *Orchestrator) awaitDrain(ctx context.Context) {
	ticker := time.NewTicker(statsPollInterval)
	defer ticker.Stop()
	for {
		if drained(o.graphPool) && drained(o.vectorPool) && drained(o.embedPool) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func drained(p *pipeline.Pool) bool {
	snap := p.Stats()
	return snap.QueueSize == 0 && snap.ConcurrentWorkers == 0 && snap.Total == snap.Completed+snap.Failed
}

func segmentHashes(blocks []graphmodel.CodeBlock) map[string]string {
	segments := make(map[string]string, len(blocks))
	for _, b := range blocks {
		segments[fmt.Sprintf("%s:%d:%d", b.Type, b.StartLine, b.EndLine)] = b.SegmentHash
	}
	return segments
}
