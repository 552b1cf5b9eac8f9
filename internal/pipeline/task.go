// Package pipeline implements the bounded producer/consumer queue shared by
// the embedding, vector-store, and graph-store stages (spec §4.5): a
// priority queue with retry, configurable backoff, deadlock watch, health
// checks, and throughput stats. Grounded on the teacher's
// internal/indexing pipeline (FileScanner's adaptive back-pressure send,
// pipeline_processor.go's exponential retry loop) generalized from a
// fixed worker-per-channel shape to a priority-ordered task queue.
package pipeline

import "time"

// Task is one unit of work submitted to a Pool. Data is opaque to the
// queue; only the ProcessFunc the Pool was built with interprets it.
type Task struct {
	ID          string
	Data        any
	Priority    int
	Attempts    int
	MaxAttempts int
	CreatedAt   time.Time
	ScheduledAt time.Time
	RetryDelay  time.Duration

	seq uint64 // assigned by Pool.Add; breaks priority ties FIFO
}

// NewTask builds a Task with spec §4.5's default MaxAttempts (3) and
// CreatedAt stamped at submission time.
func NewTask(id string, data any, priority int) *Task {
	return &Task{
		ID:          id,
		Data:        data,
		Priority:    priority,
		MaxAttempts: 3,
		CreatedAt:   time.Now(),
	}
}

// ready reports whether t's ScheduledAt has passed, i.e. whether it may be
// dispatched now rather than waited on as a pending retry.
func (t *Task) ready(now time.Time) bool {
	return t.ScheduledAt.IsZero() || !t.ScheduledAt.After(now)
}
