package quality

import (
	"strings"

	"github.com/standardbeagle/graphidx/internal/graphmodel"
)

// edgeIndex counts incoming/outgoing relationships per node ID, built once
// and reused by both UnusedFunctions and OrphanedNodes.
type edgeIndex struct {
	calledBy map[string]int
	testedBy map[string]int
	incident map[string]int
}

func buildEdgeIndex(rels []graphmodel.Relationship) edgeIndex {
	idx := edgeIndex{
		calledBy: make(map[string]int),
		testedBy: make(map[string]int),
		incident: make(map[string]int),
	}
	for _, r := range rels {
		idx.incident[r.FromID]++
		idx.incident[r.ToID]++
		switch r.Type {
		case graphmodel.RelCalledBy:
			idx.calledBy[r.FromID]++
		case graphmodel.RelTestedBy:
			idx.testedBy[r.FromID]++
		}
	}
	return idx
}

// UnusedFunctions returns function/method nodes with zero CALLED_BY and zero
// TESTED_BY edges, that are not exported, and not named like a test
// (test*/it*/describe*, case-insensitive).
func UnusedFunctions(nodes []graphmodel.Node, rels []graphmodel.Relationship) []graphmodel.Node {
	idx := buildEdgeIndex(rels)
	var unused []graphmodel.Node
	for _, n := range nodes {
		if n.Kind != graphmodel.KindFunction && n.Kind != graphmodel.KindMethod {
			continue
		}
		if idx.calledBy[n.ID] > 0 || idx.testedBy[n.ID] > 0 {
			continue
		}
		if isExportedName(n.Name) || isTestLikeName(n.Name) {
			continue
		}
		unused = append(unused, n)
	}
	return unused
}

// OrphanedNodes returns function/method/class/variable nodes with no
// incident edges at all (neither incoming nor outgoing).
func OrphanedNodes(nodes []graphmodel.Node, rels []graphmodel.Relationship) []graphmodel.Node {
	idx := buildEdgeIndex(rels)
	var orphans []graphmodel.Node
	for _, n := range nodes {
		switch n.Kind {
		case graphmodel.KindFunction, graphmodel.KindMethod, graphmodel.KindClass, graphmodel.KindVariable:
		default:
			continue
		}
		if idx.incident[n.ID] == 0 {
			orphans = append(orphans, n)
		}
	}
	return orphans
}

func isExportedName(name string) bool {
	if name == "" {
		return false
	}
	r := rune(name[0])
	return r >= 'A' && r <= 'Z'
}

var testNamePrefixes = []string{"test", "it", "describe"}

func isTestLikeName(name string) bool {
	lower := strings.ToLower(name)
	for _, p := range testNamePrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}
