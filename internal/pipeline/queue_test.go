package pipeline

import (
	"container/heap"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTaskQueueOrdersByPriorityThenFIFO(t *testing.T) {
	q := newTaskQueue()
	low := &Task{ID: "low", Priority: 1, seq: 0}
	highFirst := &Task{ID: "high-first", Priority: 5, seq: 1}
	highSecond := &Task{ID: "high-second", Priority: 5, seq: 2}

	heap.Push(q, low)
	heap.Push(q, highFirst)
	heap.Push(q, highSecond)

	require.Equal(t, "high-first", heap.Pop(q).(*Task).ID)
	require.Equal(t, "high-second", heap.Pop(q).(*Task).ID)
	require.Equal(t, "low", heap.Pop(q).(*Task).ID)
}
