package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStateHolderStartsInStandby(t *testing.T) {
	h := newStateHolder()
	require.Equal(t, StateStandby, h.get())
	require.True(t, h.is(StateStandby))
}

func TestStateHolderSetErrorThenClearedOnTransition(t *testing.T) {
	h := newStateHolder()
	h.setError("graph_store", "connection refused")

	snap := h.snapshot()
	require.Equal(t, StateError, snap.State)
	require.Equal(t, "graph_store", snap.Category)
	require.Equal(t, "connection refused", snap.Message)

	h.set(StateIndexing)
	snap = h.snapshot()
	require.Equal(t, StateIndexing, snap.State)
	require.Empty(t, snap.Category)
	require.Empty(t, snap.Message)
}

func TestStateHolderConcurrentAccess(t *testing.T) {
	h := newStateHolder()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			h.set(StateIndexing)
			h.set(StateIndexed)
		}
		close(done)
	}()
	for i := 0; i < 100; i++ {
		_ = h.get()
		_ = h.snapshot()
	}
	<-done
}
