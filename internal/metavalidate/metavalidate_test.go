package metavalidate

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestValidatePassthroughForSmallMetadata(t *testing.T) {
	v := New(DefaultConfig())
	res, err := v.Validate(map[string]any{"callType": "static_method", "line": 12})
	require.NoError(t, err)
	require.False(t, res.WasTruncated)
	require.Equal(t, "static_method", res.Sanitized["callType"])
	require.Equal(t, 12, res.Sanitized["line"])
}

func TestValidateTruncatesLongStrings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxStringLength = 10
	v := New(cfg)

	res, err := v.Validate(map[string]any{"identifier": strings.Repeat("x", 50)})
	require.NoError(t, err)
	require.Equal(t, "xxxxxxx...", res.Sanitized["identifier"])
}

func TestValidateTruncatesLongArrays(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxArrayLength = 3
	v := New(cfg)

	arr := []any{"a", "b", "c", "d", "e"}
	res, err := v.Validate(map[string]any{"symbols": arr})
	require.NoError(t, err)
	require.Len(t, res.Sanitized["symbols"], 3)
	require.NotEmpty(t, res.Warnings)
}

func TestValidateTruncatesConcreteStringSlice(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxArrayLength = 3
	v := New(cfg)

	// IMPORTS relationship metadata carries "symbols" as a concrete
	// []string, not []any — truncation must still apply.
	res, err := v.Validate(map[string]any{"symbols": []string{"a", "b", "c", "d", "e"}})
	require.NoError(t, err)
	require.Len(t, res.Sanitized["symbols"], 3)
	require.NotEmpty(t, res.Warnings)
}

func TestValidateDropsFunctions(t *testing.T) {
	v := New(DefaultConfig())
	res, err := v.Validate(map[string]any{
		"identifier": "foo",
		"callback":   func() {},
	})
	require.NoError(t, err)
	_, present := res.Sanitized["callback"]
	require.False(t, present)
	require.Contains(t, res.Sanitized, "identifier")
}

func TestValidateConvertsDateAndBigInt(t *testing.T) {
	v := New(DefaultConfig())
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	res, err := v.Validate(map[string]any{"capturedAt": now})
	require.NoError(t, err)
	dateMap, ok := res.Sanitized["capturedAt"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "Date", dateMap["__type"])
}

func TestValidateDetectsCircularReference(t *testing.T) {
	v := New(DefaultConfig())
	cyclic := map[string]any{}
	cyclic["self"] = cyclic

	_, err := v.Validate(cyclic)
	require.Error(t, err)
}

func TestValidateDepthOverflowStringifies(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxObjectDepth = 1
	v := New(cfg)

	nested := map[string]any{
		"a": map[string]any{
			"b": map[string]any{
				"c": "too deep",
			},
		},
	}
	res, err := v.Validate(nested)
	require.NoError(t, err)
	a, ok := res.Sanitized["a"].(map[string]any)
	require.True(t, ok)
	b, ok := a["b"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, true, b["__stringified"])
}

func TestValidatePriorityTruncationWhenOverSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxMetadataSize = 120
	cfg.AllowTruncation = true
	v := New(cfg)

	res, err := v.Validate(map[string]any{
		"calls":      []any{"a", "b", "c"},
		"imports":    []any{"x", "y"},
		"unrelated":  strings.Repeat("z", 200),
		"identifier": "keepme",
	})
	require.NoError(t, err)
	require.True(t, res.WasTruncated)
	require.Contains(t, res.Sanitized, "calls")
	require.Contains(t, res.Sanitized, "__truncated")
}

func TestValidateFailsWhenTruncationDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxMetadataSize = 10
	cfg.AllowTruncation = false
	v := New(cfg)

	_, err := v.Validate(map[string]any{"identifier": strings.Repeat("x", 100)})
	require.Error(t, err)
}
