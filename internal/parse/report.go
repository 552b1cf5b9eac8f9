package parse

import (
	"path/filepath"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/graphidx/internal/quality"
)

// OpenForReachability parses every path present in contents and returns
// the quality.ParsedFile batch quality.DetectUnreachable expects. Unlike
// ParseFile, which closes its tree before returning (a single file's
// analysis never needs the AST afterward), this keeps every tree open
// simultaneously so a batch-wide reachability pass can walk them all; the
// returned cleanup function must be called once the caller is done
// reading the result. Paths with an unregistered extension are skipped.
func (r *Registry) OpenForReachability(paths []string, contents map[string][]byte) ([]quality.ParsedFile, func()) {
	var files []quality.ParsedFile
	var trees []*tree_sitter.Tree
	var parsers []*tree_sitter.Parser

	cleanup := func() {
		for _, t := range trees {
			t.Close()
		}
		for _, p := range parsers {
			p.Close()
		}
	}

	for _, path := range paths {
		content, ok := contents[path]
		if !ok {
			continue
		}
		ext := strings.ToLower(filepath.Ext(path))
		c, err := r.compiledFor(ext)
		if err != nil {
			continue
		}

		parser := tree_sitter.NewParser()
		if err := parser.SetLanguage(c.language); err != nil {
			parser.Close()
			continue
		}
		tree := parser.Parse(content, nil)
		if tree == nil {
			parser.Close()
			continue
		}

		parsers = append(parsers, parser)
		trees = append(trees, tree)
		files = append(files, quality.ParsedFile{Path: path, Root: tree.RootNode(), Content: content})
	}

	return files, cleanup
}
