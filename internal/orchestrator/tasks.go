package orchestrator

import (
	"context"
	"sync"

	"github.com/standardbeagle/graphidx/internal/blocktype"
	"github.com/standardbeagle/graphidx/internal/graphmodel"
	"github.com/standardbeagle/graphidx/internal/pipeline"
	"github.com/standardbeagle/graphidx/internal/store/vectorstore"
)

// taskResult carries one pipeline task's terminal outcome back to the
// scan loop. A task may be retried several times by its Pool before
// settling; set overwrites on every attempt, so the value read once the
// Pool's Stats report the task as no longer in flight is always the
// final one.
type taskResult struct {
	mu  sync.Mutex
	err error
}

func newTaskResult() *taskResult { return &taskResult{} }

func (r *taskResult) set(err error) {
	r.mu.Lock()
	r.err = err
	r.mu.Unlock()
}

func (r *taskResult) get() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// graphTaskData is the graph-store pool specialization's unit of work:
// one file's blocks, indexed via the extractor's indexFile contract.
type graphTaskData struct {
	filePath string
	blocks   []graphmodel.CodeBlock
	result   *taskResult
}

func (o *Orchestrator) processGraphTask(ctx context.Context, task *pipeline.Task) error {
	data := task.Data.(*graphTaskData)
	store := newValidatingStore(o.graphStore, o.validator)
	_, _, err := o.extractor.IndexFile(ctx, store, data.filePath, data.blocks)
	data.result.set(err)
	return err
}

// embedTaskData is the embedding pool specialization's unit of work: one
// file's blocks, embedded and handed to the vector-store pool.
type embedTaskData struct {
	filePath string
	blocks   []graphmodel.CodeBlock
	result   *taskResult
}

func (o *Orchestrator) processEmbedTask(ctx context.Context, task *pipeline.Task) error {
	data := task.Data.(*embedTaskData)

	texts := make([]string, len(data.blocks))
	for i, b := range data.blocks {
		texts[i] = b.Content
	}

	vectors, err := o.embedder.Embed(ctx, texts)
	if err != nil {
		data.result.set(err)
		return err
	}

	points := make([]vectorstore.Point, len(data.blocks))
	for i, b := range data.blocks {
		points[i] = vectorstore.Point{
			ID:     blockPointID(b),
			Vector: vectors[i],
			Payload: map[string]any{
				"filePath":   b.FilePath,
				"identifier": b.Identifier,
				"startLine":  b.StartLine,
				"endLine":    b.EndLine,
			},
		}
	}

	o.submitVectorTask(data.filePath, points)

	data.result.set(nil)
	return nil
}

// vectorTaskData is the vector-store pool specialization's unit of work:
// one file's embedded points, batch-upserted.
type vectorTaskData struct {
	points []vectorstore.Point
	result *taskResult
}

func (o *Orchestrator) processVectorTask(ctx context.Context, task *pipeline.Task) error {
	data := task.Data.(*vectorTaskData)
	err := o.vectorStore.UpsertPoints(ctx, data.points)
	data.result.set(err)
	return err
}

func blockPointID(b graphmodel.CodeBlock) string {
	return graphmodel.BlockNodeID(blocktype.MapBlockType(b.Type), b.FilePath, b.StartLine)
}
