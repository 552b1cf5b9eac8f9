package pipeline

import (
	"container/heap"
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/graphidx/internal/debuglog"
	"github.com/standardbeagle/graphidx/internal/errs"
)

// idlePollInterval bounds how long the dispatcher sleeps when the queue is
// empty or at capacity before re-checking; it is a polling fallback, woken
// early by wake on any state change.
const idlePollInterval = 100 * time.Millisecond

// ProcessFunc executes one task. A retryable error (per errs.Retryable)
// re-queues the task per the Pool's Config, up to Task.MaxAttempts; any
// other error is terminal.
type ProcessFunc func(ctx context.Context, task *Task) error

// ErrQueueFull is returned by Add once Config.MaxQueueSize tasks are
// queued or in flight.
var ErrQueueFull = fmt.Errorf("pipeline: queue full")

// Pool is the generic bounded producer/consumer queue of spec §4.5,
// specialized per stage via Config.
type Pool struct {
	cfg     Config
	process ProcessFunc

	mu      sync.Mutex
	queue   *taskQueue
	active  int
	nextSeq uint64
	wake    chan struct{}

	stats Stats
}

// New builds a Pool bound to cfg, dispatching ready tasks to process.
func New(cfg Config, process ProcessFunc) *Pool {
	return &Pool{
		cfg:     cfg,
		process: process,
		queue:   newTaskQueue(),
		wake:    make(chan struct{}, 1),
	}
}

// Add submits task, rejecting with ErrQueueFull once queued-plus-active
// work reaches Config.MaxQueueSize (spec §4.5 "Add rejects when
// queue.size >= maxQueueSize").
func (p *Pool) Add(task *Task) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.queue.Len()+p.active >= p.cfg.MaxQueueSize {
		return ErrQueueFull
	}
	if task.MaxAttempts <= 0 {
		task.MaxAttempts = 3
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	task.seq = p.nextSeq
	p.nextSeq++
	heap.Push(p.queue, task)
	p.stats.recordSubmit()
	p.notifyLocked()
	return nil
}

func (p *Pool) notifyLocked() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *Pool) requeue(task *Task) {
	p.mu.Lock()
	task.seq = p.nextSeq
	p.nextSeq++
	heap.Push(p.queue, task)
	p.notifyLocked()
	p.mu.Unlock()
}

// Run drives the dispatch loop until ctx is cancelled, then waits for
// in-flight tasks to drain before returning. Tasks still queued (not yet
// dispatched) at cancellation are abandoned.
func (p *Pool) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	if p.cfg.DeadlockTimeout > 0 {
		g.Go(func() error {
			p.watchDeadlocks(gctx)
			return nil
		})
	}

	for ctx.Err() == nil {
		p.mu.Lock()
		var task *Task
		if p.active < p.cfg.MaxConcurrency && p.queue.Len() > 0 {
			task = heap.Pop(p.queue).(*Task)
			p.active++
		}
		p.mu.Unlock()

		if task == nil {
			select {
			case <-ctx.Done():
			case <-p.wake:
			case <-time.After(idlePollInterval):
			}
			continue
		}

		g.Go(func() error {
			defer func() {
				p.mu.Lock()
				p.active--
				p.notifyLocked()
				p.mu.Unlock()
			}()
			p.dispatch(gctx, task)
			return nil
		})
	}
	return g.Wait()
}

// dispatch waits out a scheduled retry delay, if any, then runs the task
// and decides whether to requeue it on failure (spec §4.5 "Scheduling").
func (p *Pool) dispatch(ctx context.Context, task *Task) {
	if !task.ScheduledAt.IsZero() {
		if d := time.Until(task.ScheduledAt); d > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(d):
			}
		}
	}

	start := time.Now()
	err := p.process(ctx, task)
	now := time.Now()

	if err == nil {
		p.stats.recordCompletion(now.Sub(start), now)
		return
	}

	task.Attempts++
	if task.Attempts < task.MaxAttempts && errs.Retryable(err) {
		task.RetryDelay = nextDelay(p.cfg.Curve, p.cfg.BaseRetryDelay, p.cfg.MaxRetryDelay, task.Attempts)
		task.ScheduledAt = now.Add(task.RetryDelay)
		debuglog.Log("pipeline", "%s: retrying task %s (attempt %d/%d) after %v: %v",
			p.cfg.Name, task.ID, task.Attempts, task.MaxAttempts, task.RetryDelay, err)
		p.requeue(task)
		return
	}

	p.stats.recordFailure()
	debuglog.Warn("pipeline", "%s: task %s failed permanently after %d attempt(s): %v",
		p.cfg.Name, task.ID, task.Attempts, err)
}

// watchDeadlocks periodically logs a warning for any task that has sat in
// the queue longer than Config.DeadlockTimeout (spec §4.5 "Deadlock
// watch"). Cancellation of stuck in-flight work is advisory only; the
// host must enforce it through the underlying I/O's own context.
func (p *Pool) watchDeadlocks(ctx context.Context) {
	ticker := time.NewTicker(p.cfg.DeadlockTimeout / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, msg := range p.CheckDeadlocks() {
				debuglog.Warn("pipeline", "%s", msg)
			}
		}
	}
}

// CheckDeadlocks returns a warning string for every task currently queued
// longer than Config.DeadlockTimeout.
func (p *Pool) CheckDeadlocks() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	var warnings []string
	for _, t := range *p.queue {
		if age := now.Sub(t.CreatedAt); age > p.cfg.DeadlockTimeout {
			warnings = append(warnings, fmt.Sprintf(
				"%s: task %s queued %v, exceeding deadlock timeout %v",
				p.cfg.Name, t.ID, age.Round(time.Second), p.cfg.DeadlockTimeout))
		}
	}
	return warnings
}

// Stats returns a point-in-time snapshot of the pool's counters.
func (p *Pool) Stats() Snapshot {
	p.mu.Lock()
	queueSize := p.queue.Len()
	active := p.active
	p.mu.Unlock()
	return p.stats.snapshot(active, queueSize, time.Now())
}

// HealthCheck returns a warning string for each condition spec §4.5 names:
// queue over 80% full, every worker busy, or error rate above 10%.
func (p *Pool) HealthCheck() []string {
	p.mu.Lock()
	queueSize := p.queue.Len()
	active := p.active
	p.mu.Unlock()
	snap := p.stats.snapshot(active, queueSize, time.Now())

	var warnings []string
	if float64(queueSize) > 0.8*float64(p.cfg.MaxQueueSize) {
		warnings = append(warnings, fmt.Sprintf(
			"%s: queue size %d exceeds 80%% of max %d", p.cfg.Name, queueSize, p.cfg.MaxQueueSize))
	}
	if active == p.cfg.MaxConcurrency {
		warnings = append(warnings, fmt.Sprintf("%s: all %d workers busy", p.cfg.Name, p.cfg.MaxConcurrency))
	}
	if snap.ErrorRate > 0.1 {
		warnings = append(warnings, fmt.Sprintf(
			"%s: error rate %.1f%% exceeds 10%%", p.cfg.Name, snap.ErrorRate*100))
	}
	return warnings
}
