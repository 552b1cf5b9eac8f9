package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodeErrorUnwrap(t *testing.T) {
	underlying := errors.New("boom")
	err := New(CategoryNetwork, "upsert", underlying).WithRecoverable(true)

	require.True(t, errors.Is(err, underlying))
	require.True(t, err.IsRecoverable())
	require.Equal(t, "network upsert: boom", err.Error())
}

func TestIndexingErrorCarriesCounts(t *testing.T) {
	underlying := errors.New("429 rate limit")
	err := NewIndexingError("create_relationships", "/src/a.go", 40, 0, underlying)

	require.Equal(t, 40, err.NodesDone)
	require.Contains(t, err.Error(), "/src/a.go")
	require.Contains(t, err.Error(), "40 nodes")
}

func TestBatchFailurePartialVsComplete(t *testing.T) {
	complete := NewBatchFailure(CategoryRateLimit, 100, 0, false, errors.New("429"))
	require.False(t, complete.Partial)
	require.Contains(t, complete.Error(), "failure")

	partial := NewBatchFailure(CategoryRateLimit, 100, 40, true, errors.New("429"))
	require.True(t, partial.Partial)
	require.Contains(t, partial.Error(), "partial failure")
}

func TestRetryable(t *testing.T) {
	require.True(t, Retryable(errors.New("ECONNRESET by peer")))
	require.True(t, Retryable(errors.New("hit a RATE LIMIT, back off")))
	require.False(t, Retryable(errors.New("invalid argument")))
	require.False(t, Retryable(nil))

	wrapped := New(CategoryValidation, "sanitize", errors.New("bad")).WithRecoverable(true)
	require.True(t, Retryable(wrapped))
}

func TestCategoryRetrySuggestionNonEmpty(t *testing.T) {
	for _, c := range []Category{
		CategoryConfiguration, CategoryAuthentication, CategoryAuthorization,
		CategoryRateLimit, CategoryNetwork, CategoryTimeout, CategoryVectorStore,
		CategoryGraphStore, CategoryEmbeddingProvider, CategoryParse,
		CategoryValidation, CategoryCircularRef, CategorySizeLimit,
		CategoryDeadlock, CategoryUnknown,
	} {
		require.NotEmpty(t, c.RetrySuggestion())
	}
}
