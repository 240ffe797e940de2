// Package pysrc parses Python sources with tree-sitter and extracts the
// structural facts the static analyzers consume: import targets and
// per-function cyclomatic complexity.
package pysrc

import (
	"context"
	"fmt"
	"sync"

	"github.com/alexaandru/go-sitter-forest/python"
	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

var (
	pythonLanguage = sync.OnceValue(func() *sitter.Language {
		return sitter.NewLanguage(python.GetLanguage())
	})

	parserPool = sync.Pool{
		New: func() any {
			parser := sitter.NewParser()
			parser.SetLanguage(pythonLanguage())

			return parser
		},
	}
)

// Parse parses content as Python source. Callers must Close the returned
// tree.
func Parse(ctx context.Context, content []byte) (*sitter.Tree, error) {
	parser, ok := parserPool.Get().(*sitter.Parser)
	if !ok {
		parser = sitter.NewParser()
		parser.SetLanguage(pythonLanguage())
	}

	defer parserPool.Put(parser)

	tree, err := parser.ParseString(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse python source: %w", err)
	}

	return tree, nil
}

// nodeText returns the source text a node spans, or "" for null or
// out-of-range nodes.
func nodeText(node sitter.Node, source []byte) string {
	if node.IsNull() {
		return ""
	}

	start, end := node.StartByte(), node.EndByte()
	if end > uint(len(source)) || start > end {
		return ""
	}

	return string(source[start:end])
}
