package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/glowstack/gitglow/pkg/analyzers/classify"
)

// handleClassify processes gitglow_classify tool calls. The report matches
// what the classify history analyzer produces, built from an inline batch
// instead of a commit walk.
func handleClassify(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	input ClassifyInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := validateClassifyInput(input)
	if err != nil {
		return errorResult(err)
	}

	sentiment := classify.MessageSentiment(input.Messages)

	return jsonResult(classify.Metrics{
		ClassificationResult: classify.AnalyzeMessages(input.Messages),
		Patterns:             classify.MessagePatterns(input.Messages),
		ReferencedIssues:     classify.ReferencedIssues(input.Messages),
		Sentiment:            &sentiment,
	})
}

// validateClassifyInput checks the batch bounds.
func validateClassifyInput(input ClassifyInput) error {
	if len(input.Messages) == 0 {
		return ErrEmptyMessages
	}

	if len(input.Messages) > MaxClassifyMessages {
		return fmt.Errorf("%w: %d messages (max %d)",
			ErrTooManyMessages, len(input.Messages), MaxClassifyMessages)
	}

	return nil
}
