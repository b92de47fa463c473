package cortex

import (
	"context"
	"fmt"

	"github.com/snowretail/cortex-assistant/schema"
)

// Wire format of the natural-language-to-SQL service: one user message in,
// one assistant message out whose content mixes text and sql items.

type analystRequest struct {
	Messages          []analystMessage `json:"messages"`
	SemanticModelFile string           `json:"semantic_model_file"`
}

type analystMessage struct {
	Role    string           `json:"role"`
	Content []analystContent `json:"content"`
}

type analystContent struct {
	Type      string `json:"type"`
	Text      string `json:"text,omitempty"`
	Statement string `json:"statement,omitempty"`
}

type analystResponse struct {
	Message analystMessage `json:"message"`
}

// AnalystMessage asks the analyst service to express a question against the
// named semantic model. It returns the explanation text and the generated SQL
// statement; either may be empty, the caller owns the no-SQL policy.
func (c *Client) AnalystMessage(ctx context.Context, question, semanticModelFile string) (text string, sqlStatement string, err error) {
	req := analystRequest{
		Messages: []analystMessage{
			{Role: "user", Content: []analystContent{{Type: "text", Text: question}}},
		},
		SemanticModelFile: semanticModelFile,
	}
	var resp analystResponse
	if err := c.post(ctx, analystPath, req, &resp); err != nil {
		return "", "", fmt.Errorf("analyst call failed: %w", err)
	}
	if len(resp.Message.Content) == 0 {
		return "", "", fmt.Errorf("analyst returned no content: %w", schema.ErrMalformedResponse)
	}
	for _, item := range resp.Message.Content {
		switch item.Type {
		case "text":
			if text != "" {
				text += "\n\n"
			}
			text += item.Text
		case "sql":
			sqlStatement = item.Statement
		}
	}
	return text, sqlStatement, nil
}
