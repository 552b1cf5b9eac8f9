// Package reachability walks a parsed AST with a scope-stack DFS to find
// unreachable statements: code after an unconditional return/throw/break/
// continue, and conditional/switch branches that are all dead.
package reachability

import (
	"strings"
	"time"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/graphidx/internal/graphmodel"
)

// ScopeType classifies the kind of scope a stack frame represents.
type ScopeType string

const (
	ScopeFunction    ScopeType = "function"
	ScopeLoop        ScopeType = "loop"
	ScopeConditional ScopeType = "conditional"
	ScopeTryCatch    ScopeType = "try_catch"
	ScopeSwitch      ScopeType = "switch"
	ScopeBlock       ScopeType = "block"
)

// UnreachableReason explains why a node was flagged.
type UnreachableReason string

const (
	ReasonAfterReturn      UnreachableReason = "after_return"
	ReasonAfterThrow       UnreachableReason = "after_throw"
	ReasonAfterBreak       UnreachableReason = "after_break"
	ReasonAfterContinue    UnreachableReason = "after_continue"
	ReasonConditionalFalse UnreachableReason = "conditional_false"
	ReasonDeadCode         UnreachableReason = "dead_code"
)

// UnreachableNode records one flagged statement.
type UnreachableNode struct {
	NodeType  string
	Reason    UnreachableReason
	ScopeType ScopeType
	Line      int
	Snippet   string
}

// Config bounds a single analysis pass.
type Config struct {
	MaxAnalysisDepth int
	MaxAnalysisTime  time.Duration
}

// DefaultConfig matches the 10s / reasonable-depth budget a single file's
// worth of AST should need.
func DefaultConfig() Config {
	return Config{MaxAnalysisDepth: 400, MaxAnalysisTime: 10 * time.Second}
}

// Analyzer runs reachability passes bound by cfg.
type Analyzer struct {
	cfg Config
}

// New creates an Analyzer bound to cfg.
func New(cfg Config) *Analyzer {
	return &Analyzer{cfg: cfg}
}

type scopeFrame struct {
	reachable bool
	reason    UnreachableReason
	scopeType ScopeType
}

type walkCtx struct {
	stack      []scopeFrame
	unreach    []UnreachableNode
	depth      int
	start      time.Time
	cfg        Config
	bailed     bool
}

// Analyze walks root (typically a file's root node) and returns every
// unreachable statement found, bounded by cfg.MaxAnalysisDepth and
// cfg.MaxAnalysisTime.
func (a *Analyzer) Analyze(root *tree_sitter.Node, content []byte) []UnreachableNode {
	if root == nil {
		return nil
	}
	ctx := &walkCtx{
		stack: []scopeFrame{{reachable: true, scopeType: ScopeFunction}},
		start: timeNow(),
		cfg:   a.cfg,
	}
	ctx.walkStatements(root, namedChildren(root), content)
	return ctx.unreach
}

// timeNow is indirected so this package stays consistent with the rest of
// the module's "no wall-clock calls baked into pure logic" style; tests can
// still exercise the bound by constructing a Config with a near-zero
// MaxAnalysisTime.
func timeNow() time.Time { return time.Now() }

func namedChildren(node *tree_sitter.Node) []*tree_sitter.Node {
	count := node.NamedChildCount()
	out := make([]*tree_sitter.Node, 0, count)
	for i := uint(0); i < count; i++ {
		child := node.NamedChild(i)
		if child != nil {
			out = append(out, child)
		}
	}
	return out
}

func (ctx *walkCtx) current() *scopeFrame {
	return &ctx.stack[len(ctx.stack)-1]
}

func (ctx *walkCtx) exceededBounds() bool {
	if ctx.bailed {
		return true
	}
	if ctx.depth > ctx.cfg.MaxAnalysisDepth {
		ctx.bailed = true
		return true
	}
	if ctx.cfg.MaxAnalysisTime > 0 && timeNow().Sub(ctx.start) > ctx.cfg.MaxAnalysisTime {
		ctx.bailed = true
		return true
	}
	return false
}

func (ctx *walkCtx) markCurrentUnreachable(reason UnreachableReason) {
	f := ctx.current()
	if !f.reachable {
		return
	}
	f.reachable = false
	f.reason = reason
}

// reportScopeType returns the scope to record against an unreachable node.
// Code dead because of a return/throw/break/continue is reported against
// its nearest enclosing function scope, not the block/loop/switch frame
// that happened to carry the dead flag forward (spec §4.6: "find nearest
// function scope; mark it unreachable"). Other reasons — a conditional or
// switch with no live branch — keep the frame they were found in, since
// that frame IS the dead thing.
func (ctx *walkCtx) reportScopeType() ScopeType {
	switch ctx.current().reason {
	case ReasonAfterReturn, ReasonAfterThrow, ReasonAfterBreak, ReasonAfterContinue:
		if f := ctx.nearestOfTypes(ScopeFunction); f != nil {
			return f.scopeType
		}
	}
	return ctx.current().scopeType
}

// nearestOfTypes returns the innermost stack frame matching one of types,
// searched from the top down.
func (ctx *walkCtx) nearestOfTypes(types ...ScopeType) *scopeFrame {
	for i := len(ctx.stack) - 1; i >= 0; i-- {
		for _, t := range types {
			if ctx.stack[i].scopeType == t {
				return &ctx.stack[i]
			}
		}
	}
	return nil
}

// walkStatements processes children in sequence: once the current scope
// goes unreachable, every remaining sibling is recorded as dead and not
// recursed into further.
func (ctx *walkCtx) walkStatements(parent *tree_sitter.Node, children []*tree_sitter.Node, content []byte) {
	for _, child := range children {
		if ctx.exceededBounds() {
			return
		}
		if !ctx.current().reachable {
			ctx.recordUnreachable(child, ctx.current().reason, ctx.reportScopeType(), content)
			continue
		}
		ctx.walkNode(child, content)
	}
}

func (ctx *walkCtx) walkNode(node *tree_sitter.Node, content []byte) {
	ctx.depth++
	defer func() { ctx.depth-- }()
	if ctx.exceededBounds() {
		return
	}

	nodeType := node.Kind()
	switch {
	case isReturnLike(nodeType):
		ctx.markCurrentUnreachable(ReasonAfterReturn)
	case isThrowLike(nodeType):
		if ctx.nearestOfTypes(ScopeTryCatch) == nil {
			ctx.markCurrentUnreachable(ReasonAfterThrow)
		}
	case isBreakLike(nodeType):
		if nearest := ctx.nearestOfTypes(ScopeSwitch, ScopeLoop); nearest == nil || nearest.scopeType != ScopeSwitch {
			ctx.markCurrentUnreachable(ReasonAfterBreak)
		}
	case isContinueLike(nodeType):
		ctx.markCurrentUnreachable(ReasonAfterContinue)
	case isConditionalLike(nodeType):
		ctx.walkConditional(node, content)
	case isSwitchLike(nodeType):
		ctx.walkSwitch(node, content)
	case isTryLike(nodeType):
		// A try/catch's body may dead-end (return/throw) without that
		// making code after the whole try/catch unreachable: the catch
		// may run instead and fall through normally. Discard, don't
		// propagate.
		ctx.pushScope(ScopeTryCatch, ctx.current().reachable)
		ctx.walkStatements(node, namedChildren(node), content)
		ctx.pop()
	case isLoopLike(nodeType):
		// A loop may execute zero times, so nothing inside it — break,
		// return, or otherwise — makes the code after the loop
		// unreachable. Discard, don't propagate.
		ctx.pushScope(ScopeLoop, ctx.current().reachable)
		ctx.walkStatements(node, namedChildren(node), content)
		ctx.pop()
	case isFunctionLike(nodeType):
		ctx.pushScope(ScopeFunction, true)
		ctx.walkStatements(node, namedChildren(node), content)
		ctx.pop()
	case isBlockLike(nodeType):
		ctx.pushScope(ScopeBlock, ctx.current().reachable)
		ctx.walkStatements(node, namedChildren(node), content)
		ctx.popPropagate()
	default:
		ctx.walkStatements(node, namedChildren(node), content)
	}
}

func (ctx *walkCtx) pushScope(t ScopeType, reachable bool) {
	ctx.stack = append(ctx.stack, scopeFrame{reachable: reachable, scopeType: t})
}

// pop discards the top frame without affecting its parent (used when a
// nested function, loop, try/catch, branch or switch case closes — dead code
// inside one of those doesn't make the enclosing scope dead).
func (ctx *walkCtx) pop() {
	ctx.stack = ctx.stack[:len(ctx.stack)-1]
}

// popPropagate discards the top frame and carries its final reachability
// and reason into its parent — a plain block doesn't merge branches, it
// just passes its end state straight through.
func (ctx *walkCtx) popPropagate() {
	top := ctx.current()
	reachable, reason := top.reachable, top.reason
	ctx.pop()
	if !reachable {
		ctx.markCurrentUnreachable(reason)
	}
}

func (ctx *walkCtx) walkConditional(node *tree_sitter.Node, content []byte) {
	parentReachable := ctx.current().reachable
	consequence := node.ChildByFieldName("consequence")
	alternative := node.ChildByFieldName("alternative")

	branches := make([]bool, 0, 2)
	if consequence != nil {
		branches = append(branches, ctx.walkBranch(consequence, parentReachable, content))
	}
	if alternative != nil {
		branches = append(branches, ctx.walkBranch(alternative, parentReachable, content))
	} else {
		// No else: control falls through without entering a branch at all.
		branches = append(branches, parentReachable)
	}

	anyReachable := false
	for _, r := range branches {
		if r {
			anyReachable = true
		}
	}
	if anyReachable {
		ctx.current().reachable = true
	} else {
		ctx.markCurrentUnreachable(ReasonConditionalFalse)
	}
}

func (ctx *walkCtx) walkBranch(node *tree_sitter.Node, inherited bool, content []byte) bool {
	ctx.pushScope(ScopeConditional, inherited)
	if isBlockLike(node.Kind()) {
		ctx.walkStatements(node, namedChildren(node), content)
	} else {
		ctx.walkStatements(node, []*tree_sitter.Node{node}, content)
	}
	result := ctx.current().reachable
	ctx.pop()
	return result
}

func (ctx *walkCtx) walkSwitch(node *tree_sitter.Node, content []byte) {
	currentReachable := ctx.current().reachable
	cases := switchCases(node)

	anyReachable := false
	hasDefault := false
	previousHadBreak := false
	for i, c := range cases {
		if i > 0 {
			previousHadBreak = subtreeHasBreak(cases[i-1])
		}
		reachable := currentReachable && !previousHadBreak
		ctx.pushScope(ScopeSwitch, reachable)
		ctx.walkStatements(c, namedChildren(c), content)
		if ctx.current().reachable {
			anyReachable = true
		}
		ctx.pop()
		if isDefaultCase(c.Kind()) {
			hasDefault = true
		}
	}

	if anyReachable {
		ctx.current().reachable = true
		return
	}
	if !hasDefault {
		ctx.markCurrentUnreachable(ReasonConditionalFalse)
	}
}

func switchCases(node *tree_sitter.Node) []*tree_sitter.Node {
	var cases []*tree_sitter.Node
	for _, child := range namedChildren(node) {
		t := strings.ToLower(child.Kind())
		if strings.Contains(t, "case") || strings.Contains(t, "default") {
			cases = append(cases, child)
		}
	}
	return cases
}

func isDefaultCase(nodeType string) bool {
	return strings.Contains(strings.ToLower(nodeType), "default")
}

func subtreeHasBreak(node *tree_sitter.Node) bool {
	if isBreakLike(node.Kind()) {
		return true
	}
	for _, child := range namedChildren(node) {
		if subtreeHasBreak(child) {
			return true
		}
	}
	return false
}

// recordUnreachable appends an UnreachableNode unless node is insignificant
// (comment, punctuation, program/source_file root, or empty text).
func (ctx *walkCtx) recordUnreachable(node *tree_sitter.Node, reason UnreachableReason, scopeType ScopeType, content []byte) {
	if isInsignificant(node, content) {
		return
	}
	text := strings.TrimSpace(string(content[node.StartByte():node.EndByte()]))
	snippet := text
	if len(snippet) > 100 {
		snippet = snippet[:100]
	}
	ctx.unreach = append(ctx.unreach, UnreachableNode{
		NodeType:  node.Kind(),
		Reason:    reason,
		ScopeType: scopeType,
		Line:      int(node.StartPosition().Row) + 1,
		Snippet:   snippet,
	})
}

func isInsignificant(node *tree_sitter.Node, content []byte) bool {
	t := strings.ToLower(node.Kind())
	if t == "program" || t == "source_file" {
		return true
	}
	if strings.Contains(t, "comment") {
		return true
	}
	if !node.IsNamed() {
		return true
	}
	text := strings.TrimSpace(string(content[node.StartByte():node.EndByte()]))
	return graphmodel.IsBlank(text)
}

func isReturnLike(t string) bool    { return containsAny(t, "return_statement", "return") }
func isThrowLike(t string) bool     { return containsAny(t, "throw_statement", "throw_expression", "raise_statement") }
func isBreakLike(t string) bool     { return containsAny(t, "break_statement") }
func isContinueLike(t string) bool  { return containsAny(t, "continue_statement") }
func isConditionalLike(t string) bool {
	return containsAny(t, "if_statement", "if_expression")
}
func isSwitchLike(t string) bool {
	return containsAny(t, "switch_statement", "switch_expression", "match_expression", "match_statement")
}
func isTryLike(t string) bool {
	return containsAny(t, "try_statement", "try_expression")
}
func isLoopLike(t string) bool {
	return containsAny(t, "for_statement", "while_statement", "do_statement", "loop_expression", "for_in_statement", "for_of_statement")
}
func isBlockLike(t string) bool {
	return containsAny(t, "block", "compound_statement", "statement_block")
}

// isFunctionLike deliberately does NOT reuse internal/blocktype.MapBlockType:
// that classifier's universal fallback maps any unrecognized node type to
// "function", which would make nearly every statement look like a new
// function scope here. Reachability needs a narrow, explicit match instead.
func isFunctionLike(t string) bool {
	return containsAny(t, "function_declaration", "function_definition", "function_expression",
		"method_declaration", "method_definition", "func_literal", "arrow_function",
		"constructor_declaration", "lambda")
}

func containsAny(t string, substrs ...string) bool {
	lt := strings.ToLower(t)
	for _, s := range substrs {
		if strings.Contains(lt, s) {
			return true
		}
	}
	return false
}
