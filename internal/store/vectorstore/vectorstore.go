// Package vectorstore defines the vector-store wire contract the
// orchestrator depends on (spec §6): initialize/hasIndexedData/mark-
// incomplete-or-complete/delete-or-clear collection, batch point upsert.
// No pack example repo ships a vector database client, so this is
// expressed as an interface plus an in-memory reference implementation
// rather than grounded on a specific third-party driver.
package vectorstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/standardbeagle/graphidx/internal/errs"
)

// Point is one embedded vector with its opaque payload, batch-upserted
// into the store (spec §6 "batch-upsert of points").
type Point struct {
	ID      string
	Vector  []float32
	Payload map[string]any
}

// Store is the narrow contract the orchestrator needs from a vector-store
// client (spec §6 "Vector store wire contract").
type Store interface {
	// Initialize opens (or creates) the workspace's collection, reporting
	// whether the collection was newly created.
	Initialize(ctx context.Context) (created bool, err error)
	HasIndexedData(ctx context.Context) (bool, error)
	MarkIndexingIncomplete(ctx context.Context) error
	MarkIndexingComplete(ctx context.Context) error
	DeleteCollection(ctx context.Context) error
	ClearCollection(ctx context.Context) error
	UpsertPoints(ctx context.Context, points []Point) error
}

// maxBatchSize mirrors the graph store's shared-resource budget (spec §5:
// "The vector store mirrors that budget").
const maxBatchSize = 1000

// MemoryStore is an in-process Store, useful for development and tests
// where no vector database is available.
type MemoryStore struct {
	mu         sync.Mutex
	points     map[string]Point
	created    bool
	incomplete bool
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{points: make(map[string]Point)}
}

func (s *MemoryStore) Initialize(_ context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.created {
		return false, nil
	}
	s.created = true
	return true, nil
}

func (s *MemoryStore) HasIndexedData(_ context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.points) > 0, nil
}

func (s *MemoryStore) MarkIndexingIncomplete(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incomplete = true
	return nil
}

func (s *MemoryStore) MarkIndexingComplete(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incomplete = false
	return nil
}

func (s *MemoryStore) DeleteCollection(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.points = make(map[string]Point)
	s.created = false
	s.incomplete = false
	return nil
}

func (s *MemoryStore) ClearCollection(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.points = make(map[string]Point)
	return nil
}

func (s *MemoryStore) UpsertPoints(_ context.Context, points []Point) error {
	if len(points) > maxBatchSize {
		return errs.New(errs.CategoryValidation, "vectorstore.UpsertPoints",
			fmt.Errorf("batch of %d points exceeds the %d-item limit", len(points), maxBatchSize))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range points {
		s.points[p.ID] = p
	}
	return nil
}

// IsIndexingIncomplete reports the last-written mark-incomplete/complete
// state, for tests that assert on orchestrator cleanup behavior.
func (s *MemoryStore) IsIndexingIncomplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.incomplete
}

// Len reports the number of distinct points currently stored.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.points)
}
