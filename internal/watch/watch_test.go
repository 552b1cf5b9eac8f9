package watch

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/graphidx/internal/scanpath"
)

func TestWatcherReportsFileCreation(t *testing.T) {
	// The debounced event kind for a freshly created file is platform
	// dependent: the coalesced kind is whichever of Create/Write the
	// underlying fsnotify backend delivered last for that path. Either
	// callback firing once for the new path is the correct outcome.
	root := t.TempDir()
	matcher := scanpath.NewMatcher(root, []string{"**/*.go"}, nil)

	w, err := New(root, matcher, 30*time.Millisecond)
	require.NoError(t, err)
	defer w.Stop()

	var mu sync.Mutex
	var seen []string
	w.SetCallbacks(func(path string, _ EventType) {
		mu.Lock()
		seen = append(seen, path)
		mu.Unlock()
	}, func(path string) {
		mu.Lock()
		seen = append(seen, path)
		mu.Unlock()
	}, nil)

	require.NoError(t, w.Start())

	target := filepath.Join(root, "main.go")
	require.NoError(t, os.WriteFile(target, []byte("package main\n"), 0o644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 1
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	require.Equal(t, target, seen[0])
	mu.Unlock()
}

func TestWatcherIgnoresExcludedFiles(t *testing.T) {
	root := t.TempDir()
	matcher := scanpath.NewMatcher(root, nil, []string{"**/*.log"})

	w, err := New(root, matcher, 30*time.Millisecond)
	require.NoError(t, err)
	defer w.Stop()

	var mu sync.Mutex
	var changed []string
	w.SetCallbacks(func(path string, _ EventType) {
		mu.Lock()
		changed = append(changed, path)
		mu.Unlock()
	}, nil, nil)

	require.NoError(t, w.Start())

	ignored := filepath.Join(root, "debug.log")
	require.NoError(t, os.WriteFile(ignored, []byte("noise"), 0o644))
	watched := filepath.Join(root, "main.go")
	require.NoError(t, os.WriteFile(watched, []byte("package main\n"), 0o644))
	require.NoError(t, os.WriteFile(watched, []byte("package main\n\n"), 0o644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(changed) > 0
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	for _, p := range changed {
		require.NotEqual(t, ignored, p)
	}
}

func TestWatcherCoalescesRapidEventsForSamePath(t *testing.T) {
	root := t.TempDir()
	matcher := scanpath.NewMatcher(root, []string{"**/*.go"}, nil)

	w, err := New(root, matcher, 100*time.Millisecond)
	require.NoError(t, err)
	defer w.Stop()

	var mu sync.Mutex
	var changes int
	target := filepath.Join(root, "main.go")
	require.NoError(t, os.WriteFile(target, []byte("package main\n"), 0o644))

	w.SetCallbacks(func(path string, _ EventType) {
		mu.Lock()
		changes++
		mu.Unlock()
	}, nil, nil)
	require.NoError(t, w.Start())

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(target, []byte("package main\n\n"), 0o644))
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(300 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 1, changes)
}

func TestWatcherReportsRemoval(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "main.go")
	require.NoError(t, os.WriteFile(target, []byte("package main\n"), 0o644))

	matcher := scanpath.NewMatcher(root, []string{"**/*.go"}, nil)
	w, err := New(root, matcher, 30*time.Millisecond)
	require.NoError(t, err)
	defer w.Stop()

	var mu sync.Mutex
	var removed []string
	w.SetCallbacks(nil, nil, func(path string) {
		mu.Lock()
		removed = append(removed, path)
		mu.Unlock()
	})
	require.NoError(t, w.Start())

	require.NoError(t, os.Remove(target))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(removed) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStatsReflectsProcessedEventsAndActiveState(t *testing.T) {
	root := t.TempDir()
	matcher := scanpath.NewMatcher(root, []string{"**/*.go"}, nil)
	w, err := New(root, matcher, 20*time.Millisecond)
	require.NoError(t, err)

	require.NoError(t, w.Start())
	require.True(t, w.Stats().IsActive)

	target := filepath.Join(root, "main.go")
	require.NoError(t, os.WriteFile(target, []byte("package main\n"), 0o644))

	require.Eventually(t, func() bool {
		return w.Stats().EventsProcessed == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, w.Stop())
	require.False(t, w.Stats().IsActive)
}
