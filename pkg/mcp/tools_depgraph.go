package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/glowstack/gitglow/pkg/analyzers/depgraph"
	"github.com/glowstack/gitglow/pkg/scanner"
)

// handleDepgraph processes gitglow_depgraph tool calls: it scans the tree
// for Python sources and returns the import graph report.
func handleDepgraph(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	input DepgraphInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := validateDepgraphInput(input)
	if err != nil {
		return errorResult(err)
	}

	tree, err := scanner.Scan(input.Root, scanner.Options{
		Extensions: []string{".py"},
		IgnoreDirs: scanner.DefaultIgnoreDirs(),
	})
	if err != nil {
		return errorResult(fmt.Errorf("scan %s: %w", input.Root, err))
	}

	report, err := depgraph.NewStaticAnalyzer().Analyze(tree)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(report)
}

// validateDepgraphInput checks the root directory exists before scanning.
func validateDepgraphInput(input DepgraphInput) error {
	if input.Root == "" {
		return ErrEmptyRoot
	}

	return validateDir(input.Root)
}
