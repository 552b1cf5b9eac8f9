package parse

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/graphidx/internal/blocktype"
	"github.com/standardbeagle/graphidx/internal/graphmodel"
	"github.com/standardbeagle/graphidx/internal/quality"
	"github.com/standardbeagle/graphidx/internal/reachability"
)

// compiled holds a grammar's language and query, built once and reused across
// files of the same language.
type compiled struct {
	language *tree_sitter.Language
	query    *tree_sitter.Query
}

// Registry lazily compiles and caches one language+query pair per grammar.
// It is safe for concurrent use by the pipeline's worker pool.
type Registry struct {
	mu       sync.Mutex
	byExt    map[string]*compiled
	reachCfg reachability.Config
}

// NewRegistry returns an empty, ready-to-use Registry using reachability's
// default analysis bounds.
func NewRegistry() *Registry {
	return NewRegistryWithReachability(reachability.DefaultConfig())
}

// NewRegistryWithReachability returns a Registry whose per-file reachability
// pass (spec §4.6) runs under cfg, e.g. as loaded from configuration.
func NewRegistryWithReachability(cfg reachability.Config) *Registry {
	return &Registry{byExt: make(map[string]*compiled), reachCfg: cfg}
}

// SupportsExtension reports whether ext (including the leading dot) has a
// registered grammar.
func (r *Registry) SupportsExtension(ext string) bool {
	_, ok := extensionLanguage(ext)
	return ok
}

func (r *Registry) compiledFor(ext string) (*compiled, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.byExt[ext]; ok {
		return c, nil
	}

	langName, ok := extensionLanguage(ext)
	if !ok {
		return nil, fmt.Errorf("parse: no grammar registered for extension %q", ext)
	}
	var def languageDef
	for _, d := range languageDefs {
		if d.name == langName {
			def = d
			break
		}
	}

	language := def.language()
	query, queryErr := tree_sitter.NewQuery(language, def.query)
	// The tree-sitter Go binding has a known bug where it can return a typed
	// nil error alongside a valid query; only a nil query means the query
	// itself failed to compile.
	if query == nil {
		return nil, fmt.Errorf("parse: compiling %s query: %w", langName, queryErr)
	}

	c := &compiled{language: language, query: query}
	for _, e := range def.extensions {
		r.byExt[e] = c
	}
	return r.byExt[ext], nil
}

// ParseFile parses content (the file at path) and returns the CodeBlocks it
// contains. Unsupported extensions return an empty slice, not an error —
// the orchestrator is expected to skip files it cannot parse rather than
// fail the whole batch over them.
func (r *Registry) ParseFile(path string, content []byte) ([]graphmodel.CodeBlock, error) {
	ext := strings.ToLower(filepath.Ext(path))
	c, err := r.compiledFor(ext)
	if err != nil {
		return nil, nil
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(c.language); err != nil {
		return nil, fmt.Errorf("parse: setting language for %s: %w", path, err)
	}

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("parse: %s produced no tree", path)
	}
	defer tree.Close()

	fileHash := hashBytes(content)
	unreachable := reachability.New(r.reachCfg).Analyze(tree.RootNode(), content)

	qc := tree_sitter.NewQueryCursor()
	defer qc.Close()
	matches := qc.Matches(c.query, tree.RootNode(), content)

	captureNames := c.query.CaptureNames()
	var blocks []graphmodel.CodeBlock
	seen := make(map[string]bool) // de-dupes blocks captured by more than one query pattern

	for {
		match := matches.Next()
		if match == nil {
			break
		}

		var blockNode *tree_sitter.Node
		var nameNode *tree_sitter.Node
		var importSourceNode *tree_sitter.Node
		for _, capture := range match.Captures {
			switch captureNames[capture.Index] {
			case "block":
				n := capture.Node
				blockNode = &n
			case nameCapture:
				n := capture.Node
				nameNode = &n
			case "import.source":
				n := capture.Node
				importSourceNode = &n
			}
		}
		if blockNode == nil {
			continue
		}

		start := blockNode.StartPosition()
		end := blockNode.EndPosition()
		startLine := int(start.Row) + 1
		endLine := int(end.Row) + 1
		if endLine < startLine {
			endLine = startLine
		}

		key := fmt.Sprintf("%d:%d:%s", blockNode.StartByte(), blockNode.EndByte(), blockNode.Kind())
		if seen[key] {
			continue
		}
		seen[key] = true

		blockText := string(content[blockNode.StartByte():blockNode.EndByte()])
		block := graphmodel.CodeBlock{
			FilePath:    path,
			Type:        blockNode.Kind(),
			StartLine:   startLine,
			EndLine:     endLine,
			Content:     blockText,
			FileHash:    fileHash,
			SegmentHash: hashString(blockText),
		}

		switch {
		case nameNode != nil:
			block.Identifier = string(content[nameNode.StartByte():nameNode.EndByte()])
		case importSourceNode != nil:
			block.Identifier = unquote(string(content[importSourceNode.StartByte():importSourceNode.EndByte()]))
		}
		if block.Identifier == "" {
			block.Identifier = graphmodel.SyntheticName(block.Type, path, startLine, endLine)
		}

		if importSourceNode != nil {
			block.Imports = []graphmodel.ImportInfo{{
				Source: unquote(string(content[importSourceNode.StartByte():importSourceNode.EndByte()])),
			}}
		} else if looksLikeImport(blockNode.Kind()) {
			if src := firstStringLiteral(blockNode, content); src != "" {
				block.Imports = []graphmodel.ImportInfo{{Source: src}}
			}
		}

		block.Calls = extractCalls(blockNode, content, startLine)

		if kind := blocktype.MapBlockType(block.Type); kind == graphmodel.KindFunction || kind == graphmodel.KindMethod {
			block.QualityMeta = buildQualityMetadata(blockNode, blockText, startLine, endLine, unreachable)
		}

		blocks = append(blocks, block)
	}

	markUnusedImports(tree.RootNode(), content, blocks)

	return blocks, nil
}

// buildQualityMetadata computes blockNode's complexity metrics and checks
// whether any reachability finding for this file falls within its line
// range, taking the first such finding (spec §4.6's per-node results carry
// no block identity of their own).
func buildQualityMetadata(blockNode *tree_sitter.Node, blockText string, startLine, endLine int, unreachable []reachability.UnreachableNode) *graphmodel.QualityMetadata {
	meta := &graphmodel.QualityMetadata{
		Cyclomatic:     quality.Cyclomatic(blockNode),
		Cognitive:      quality.Cognitive(blockNode),
		NestingDepth:   quality.NestingDepth(blockNode),
		ParameterCount: quality.ParameterCount(blockNode),
		LineCount:      quality.FunctionLength(blockText),
	}
	for _, u := range unreachable {
		if u.Line >= startLine && u.Line <= endLine {
			meta.Unreachable = true
			meta.UnreachableReason = string(u.Reason)
			break
		}
	}
	return meta
}

func hashBytes(b []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(b))
}

func hashString(s string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(s))
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') || (first == '`' && last == '`') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func looksLikeImport(nodeType string) bool {
	t := strings.ToLower(nodeType)
	for _, substr := range []string{"import", "include", "using", "require"} {
		if strings.Contains(t, substr) {
			return true
		}
	}
	return false
}
