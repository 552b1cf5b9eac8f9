package metavalidate

import (
	"encoding/json"
	"sort"
)

// priorityKeys lists the keys preserved first during truncation, in order
// (spec §4.3 "priority-preserving truncation").
var priorityKeys = []string{"calls", "imports", "identifier", "type", "calleeName", "callType"}

func priorityRank(key string) int {
	for i, k := range priorityKeys {
		if k == key {
			return i
		}
	}
	return len(priorityKeys)
}

// serializedSize returns the JSON-serialized byte size of v. Values that
// fail to serialize (which should not happen after sanitizeValue) count as
// zero rather than aborting the whole validation pass.
func serializedSize(v any) int {
	b, err := json.Marshal(v)
	if err != nil {
		return 0
	}
	return len(b)
}

// truncateByPriority accumulates keys in priority order until hitting 80% of
// maxSize, then appends a truncation marker describing what was dropped.
func truncateByPriority(m map[string]any, maxSize int) map[string]any {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		ri, rj := priorityRank(keys[i]), priorityRank(keys[j])
		if ri != rj {
			return ri < rj
		}
		return keys[i] < keys[j]
	})

	budget := int(float64(maxSize) * 0.8)
	out := make(map[string]any, len(keys))
	kept := 0
	for _, k := range keys {
		candidate := make(map[string]any, len(out)+1)
		for ck, cv := range out {
			candidate[ck] = cv
		}
		candidate[k] = m[k]
		if serializedSize(candidate) > budget && kept > 0 {
			break
		}
		out[k] = m[k]
		kept++
	}

	remaining := len(keys) - kept
	if remaining > 0 {
		out["__truncated"] = true
		out["__remainingProperties"] = remaining
		out["__truncatedSize"] = serializedSize(out)
		out["__maxSize"] = maxSize
	}
	return out
}
