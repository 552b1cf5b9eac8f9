package graphstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/graphidx/internal/errs"
)

func TestChunkSplitsIntoBoundedGroups(t *testing.T) {
	items := make([]int, 2500)
	for i := range items {
		items[i] = i
	}

	chunks := chunk(items, 1000)
	require.Len(t, chunks, 3)
	require.Len(t, chunks[0], 1000)
	require.Len(t, chunks[1], 1000)
	require.Len(t, chunks[2], 500)
}

func TestChunkReturnsSingleGroupWhenUnderLimit(t *testing.T) {
	items := []int{1, 2, 3}
	chunks := chunk(items, 1000)
	require.Len(t, chunks, 1)
	require.Equal(t, items, chunks[0])
}

func TestChunkReturnsNilForEmptyInput(t *testing.T) {
	require.Nil(t, chunk([]int{}, 1000))
}

func TestNewRejectsMissingCredentials(t *testing.T) {
	_, err := New(context.Background(), "", "", "")
	require.Error(t, err)
	require.Equal(t, errs.CategoryConfiguration, err.(*errs.CodeError).Category)
}
