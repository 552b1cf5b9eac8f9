package metavalidate

import (
	"fmt"
	"math/big"
	"reflect"
	"time"

	"github.com/standardbeagle/graphidx/internal/errs"
)

// Result is the validator's output contract: it never mutates the input.
type Result struct {
	Sanitized    map[string]any
	Warnings     []string
	WasTruncated bool
}

// Validator sanitizes relationship metadata per a fixed Config.
type Validator struct {
	cfg Config
}

// New creates a Validator bound to cfg.
func New(cfg Config) *Validator {
	return &Validator{cfg: cfg}
}

// identityArena tracks visited reference-typed values by their runtime
// pointer identity, to fail fast on re-entry (spec §9 "identity-visited
// arena walk").
type identityArena struct {
	visited map[uintptr]bool
}

func newIdentityArena() *identityArena {
	return &identityArena{visited: make(map[uintptr]bool)}
}

// enter returns (alreadyVisited, exit). Call exit() when leaving the value's
// subtree so sibling branches that share no cycle are not falsely flagged.
func (a *identityArena) enter(v any) (bool, func()) {
	ptr, ok := identityOf(v)
	if !ok {
		return false, func() {}
	}
	if a.visited[ptr] {
		return true, func() {}
	}
	a.visited[ptr] = true
	return false, func() { delete(a.visited, ptr) }
}

// identityOf returns the pointer identity of maps and slices — the only
// reference types that can form a cycle in decoded metadata.
func identityOf(v any) (uintptr, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Ptr:
		if rv.IsNil() {
			return 0, false
		}
		return rv.Pointer(), true
	default:
		return 0, false
	}
}

// Validate sanitizes metadata and, if it is still too large afterward,
// attempts priority-preserving truncation (spec §4.3).
func (v *Validator) Validate(metadata map[string]any) (Result, error) {
	if !v.cfg.ValidationEnabled {
		return Result{Sanitized: metadata}, nil
	}

	arena := newIdentityArena()
	var warnings []string

	sanitizedAny, err := v.sanitizeValue(metadata, arena, 0, &warnings)
	if err != nil {
		return Result{}, err
	}
	sanitized, _ := sanitizedAny.(map[string]any)
	if sanitized == nil {
		sanitized = map[string]any{}
	}

	size := serializedSize(sanitized)
	if size <= v.cfg.MaxMetadataSize {
		return Result{Sanitized: sanitized, Warnings: warnings}, nil
	}

	if !v.cfg.AllowTruncation {
		return Result{}, errs.NewValidationError(errs.CategorySizeLimit, "metadata",
			fmt.Errorf("serialized size %d exceeds max %d and truncation is disabled", size, v.cfg.MaxMetadataSize))
	}

	truncated := truncateByPriority(sanitized, v.cfg.MaxMetadataSize)
	warnings = append(warnings, "metadata truncated to fit size budget")
	return Result{Sanitized: truncated, Warnings: warnings, WasTruncated: true}, nil
}

// sanitizeValue recursively sanitizes a single decoded value. depth counts
// nesting levels of map/array containers.
func (v *Validator) sanitizeValue(val any, arena *identityArena, depth int, warnings *[]string) (any, error) {
	if val == nil {
		return nil, nil
	}

	if depth > v.cfg.MaxObjectDepth {
		return map[string]any{
			"__stringified":  true,
			"__originalType": fmt.Sprintf("%T", val),
			"value":          fmt.Sprintf("%v", val),
		}, nil
	}

	switch t := val.(type) {
	case string:
		return v.truncateString(t), nil
	case bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return t, nil
	case time.Time:
		return map[string]any{"__type": "Date", "value": t.Format(time.RFC3339Nano)}, nil
	case *big.Int:
		return map[string]any{"__type": "BigInt", "value": t.String()}, nil
	case map[string]any:
		already, exit := arena.enter(t)
		if already {
			return nil, errs.NewValidationError(errs.CategoryCircularRef, "metadata",
				fmt.Errorf("circular reference detected while sanitizing metadata"))
		}
		defer exit()
		return v.sanitizeMap(t, arena, depth, warnings)
	case []any:
		already, exit := arena.enter(t)
		if already {
			return nil, errs.NewValidationError(errs.CategoryCircularRef, "metadata",
				fmt.Errorf("circular reference detected while sanitizing metadata"))
		}
		defer exit()
		return v.sanitizeArray(t, arena, depth, warnings)
	default:
		rv := reflect.ValueOf(val)
		switch rv.Kind() {
		case reflect.Func:
			*warnings = append(*warnings, "dropped function value from metadata")
			return nil, nil
		case reflect.Slice, reflect.Array:
			return v.sanitizeConcreteSlice(val, rv, arena, depth, warnings)
		}
		return fmt.Sprintf("%v", val), nil
	}
}

// sanitizeConcreteSlice handles any concretely-typed slice/array value
// (e.g. []string, as graphextract's IMPORTS "symbols" metadata is built)
// by converting it to []any and recursing through sanitizeArray, so
// MaxArrayLength truncation (spec §4.3) applies uniformly regardless of
// whether the decoded value arrived as []any or a concrete Go slice type.
func (v *Validator) sanitizeConcreteSlice(val any, rv reflect.Value, arena *identityArena, depth int, warnings *[]string) (any, error) {
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return nil, nil
	}

	already, exit := arena.enter(val)
	if already {
		return nil, errs.NewValidationError(errs.CategoryCircularRef, "metadata",
			fmt.Errorf("circular reference detected while sanitizing metadata"))
	}
	defer exit()

	arr := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		arr[i] = rv.Index(i).Interface()
	}
	return v.sanitizeArray(arr, arena, depth, warnings)
}

func (v *Validator) sanitizeMap(m map[string]any, arena *identityArena, depth int, warnings *[]string) (any, error) {
	out := make(map[string]any, len(m))
	for k, child := range m {
		if child == nil {
			continue // spec §4.3: null/undefined → drop
		}
		sv, err := v.sanitizeValue(child, arena, depth+1, warnings)
		if err != nil {
			return nil, err
		}
		if sv == nil {
			continue // dropped (e.g. function value)
		}
		out[k] = sv
	}
	return out, nil
}

func (v *Validator) sanitizeArray(arr []any, arena *identityArena, depth int, warnings *[]string) (any, error) {
	limit := len(arr)
	truncatedLen := false
	if limit > v.cfg.MaxArrayLength {
		limit = v.cfg.MaxArrayLength
		truncatedLen = true
	}
	out := make([]any, 0, limit)
	for i := 0; i < limit; i++ {
		sv, err := v.sanitizeValue(arr[i], arena, depth+1, warnings)
		if err != nil {
			return nil, err
		}
		out = append(out, sv)
	}
	if truncatedLen {
		*warnings = append(*warnings, fmt.Sprintf("array truncated from %d to %d elements", len(arr), limit))
	}
	return out, nil
}

func (v *Validator) truncateString(s string) string {
	if len(s) <= v.cfg.MaxStringLength {
		return s
	}
	cut := v.cfg.MaxStringLength - 3
	if cut < 0 {
		cut = 0
	}
	return s[:cut] + "..."
}
