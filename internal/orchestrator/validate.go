package orchestrator

import (
	"context"

	"github.com/standardbeagle/graphidx/internal/debuglog"
	"github.com/standardbeagle/graphidx/internal/graphextract"
	"github.com/standardbeagle/graphidx/internal/graphmodel"
	"github.com/standardbeagle/graphidx/internal/metavalidate"
)

// validatingStore decorates a graphextract.GraphStore, sanitizing every
// relationship's metadata through the validator before it reaches the
// store (spec §2 data flow: "validator sanitizes metadata → orchestrator
// batches into the graph store"). Node upserts pass through unchanged,
// since node attributes carry no free-form metadata.
type validatingStore struct {
	inner     graphextract.GraphStore
	validator *metavalidate.Validator
}

func newValidatingStore(inner graphextract.GraphStore, validator *metavalidate.Validator) *validatingStore {
	return &validatingStore{inner: inner, validator: validator}
}

func (s *validatingStore) DeleteFileNodes(ctx context.Context, filePath string) error {
	return s.inner.DeleteFileNodes(ctx, filePath)
}

func (s *validatingStore) UpsertNodes(ctx context.Context, nodes []graphmodel.Node) error {
	return s.inner.UpsertNodes(ctx, nodes)
}

// CreateRelationships sanitizes each relationship's metadata before
// delegating. A relationship whose metadata fails validation outright
// (e.g. a circular reference the sanitizer cannot resolve) is dropped and
// logged rather than aborting the whole batch, matching spec §4.2's
// "validation issues on a single [item] are logged and skipped" failure
// model for per-item problems as opposed to store-level ones.
func (s *validatingStore) CreateRelationships(ctx context.Context, rels []graphmodel.Relationship) error {
	sanitized := make([]graphmodel.Relationship, 0, len(rels))
	for _, r := range rels {
		if len(r.Metadata) == 0 {
			sanitized = append(sanitized, r)
			continue
		}
		result, err := s.validator.Validate(r.Metadata)
		if err != nil {
			debuglog.Warn("orchestrator", "dropping relationship %s->%s metadata: %v", r.FromID, r.ToID, err)
			continue
		}
		r.Metadata = result.Sanitized
		sanitized = append(sanitized, r)
	}
	return s.inner.CreateRelationships(ctx, sanitized)
}
