package parse

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/graphidx/internal/graphmodel"
)

// callNodeSubstrings lists the node-type fragments every supported grammar
// uses for call expressions. Matching by substring (rather than an exact,
// per-grammar node name) is what lets one walker serve all ten grammars.
var callNodeSubstrings = []string{"call_expression", "call", "invocation_expression", "method_invocation"}

func isCallNode(nodeType string) bool {
	t := strings.ToLower(nodeType)
	for _, s := range callNodeSubstrings {
		if strings.Contains(t, s) {
			return true
		}
	}
	return false
}

// extractCalls walks node's subtree and records every call expression it
// finds. The third argument is ignored: tree-sitter positions are already
// relative to the whole file, so each call's line is absolute as reported.
func extractCalls(node *tree_sitter.Node, content []byte, _ int) []graphmodel.CallInfo {
	var calls []graphmodel.CallInfo
	walkCalls(node, content, &calls)
	return calls
}

func walkCalls(node *tree_sitter.Node, content []byte, out *[]graphmodel.CallInfo) {
	if node == nil {
		return
	}
	count := node.ChildCount()
	for i := uint(0); i < count; i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		if isCallNode(child.Kind()) {
			if info, ok := buildCallInfo(child, content); ok {
				*out = append(*out, info)
			}
		}
		walkCalls(child, content, out)
	}
}

// buildCallInfo extracts the callee name, and if the callee is a member
// access (`a.b()`, `a->b()`, `a::b()`), the qualifier before the last `.`.
func buildCallInfo(call *tree_sitter.Node, content []byte) (graphmodel.CallInfo, bool) {
	var calleeNode *tree_sitter.Node
	if fn := call.ChildByFieldName("function"); fn != nil {
		calleeNode = fn
	} else if fn := call.ChildByFieldName("method"); fn != nil {
		calleeNode = fn
	} else if call.ChildCount() > 0 {
		first := call.Child(0)
		calleeNode = first
	}
	if calleeNode == nil {
		return graphmodel.CallInfo{}, false
	}

	text := string(content[calleeNode.StartByte():calleeNode.EndByte()])
	text = strings.TrimSpace(text)
	if text == "" {
		return graphmodel.CallInfo{}, false
	}

	callType := "function"
	qualifier := ""
	name := text
	for _, sep := range []string{"::", "->", "."} {
		if idx := strings.LastIndex(text, sep); idx >= 0 {
			qualifier = text[:idx]
			name = text[idx+len(sep):]
			callType = "method"
			break
		}
	}

	pos := call.StartPosition()
	info := graphmodel.CallInfo{
		CalleeName: name,
		CallType:   callType,
		Line:       int(pos.Row) + 1,
		Column:     int(pos.Column) + 1,
		Qualifier:  qualifier,
	}
	return info, true
}

// firstStringLiteral returns the text of the first string-literal-like
// descendant of node, unquoted. Used for import/include/using statements
// whose grammar the query doesn't capture an explicit @import.source for.
func firstStringLiteral(node *tree_sitter.Node, content []byte) string {
	count := node.ChildCount()
	for i := uint(0); i < count; i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		t := strings.ToLower(child.Kind())
		if strings.Contains(t, "string") {
			return unquote(string(content[child.StartByte():child.EndByte()]))
		}
		if s := firstStringLiteral(child, content); s != "" {
			return s
		}
	}
	return ""
}
