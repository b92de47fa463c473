package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/snowretail/cortex-assistant/analyst"
	"github.com/snowretail/cortex-assistant/retriever"
)

func GetAskSchema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"question": {"type": "string", "description": "The question to answer"},
			"session_id": {"type": "string", "description": "Existing session id; omit to start a new conversation"},
			"profile": {"type": "string", "description": "Named assistant profile to use"},
			"departments": {"type": "array", "items": {"type": "string"}, "description": "Restrict retrieval to these departments"},
			"document_types": {"type": "array", "items": {"type": "string"}, "description": "Restrict retrieval to these document types"},
			"limit": {"type": "integer", "description": "Maximum passages to retrieve"}
		},
		"required": ["question"]
	}`)
}

func HandleAsk(client *AssistantClient) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		question := req.GetString("question", "")
		if strings.TrimSpace(question) == "" {
			return mcp.NewToolResultError("question is required"), nil
		}
		opts := TurnOptions{
			Profile:     req.GetString("profile", ""),
			ResultLimit: req.GetInt("limit", 0),
		}
		departments := req.GetStringSlice("departments", nil)
		documentTypes := req.GetStringSlice("document_types", nil)
		if len(departments) > 0 || len(documentTypes) > 0 {
			opts.Filter = retriever.NewFilter(departments, documentTypes)
		}
		session, turn, err := client.Ask(ctx, req.GetString("session_id", ""), question, opts)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		out, _ := json.Marshal(map[string]any{
			"session_id": session.ID,
			"state":      session.State,
			"answer":     turn.Content,
			"sources":    turn.Sources,
		})
		return mcp.NewToolResultText(string(out)), nil
	}
}

func GetSearchDocumentsSchema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"query": {"type": "string", "description": "Natural language search query"},
			"departments": {"type": "array", "items": {"type": "string"}},
			"document_types": {"type": "array", "items": {"type": "string"}},
			"limit": {"type": "integer", "description": "Maximum passages to return"}
		},
		"required": ["query"]
	}`)
}

func HandleSearchDocuments(client *AssistantClient) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")
		if strings.TrimSpace(query) == "" {
			return mcp.NewToolResultError("query is required"), nil
		}
		filter := retriever.NewFilter(req.GetStringSlice("departments", nil), req.GetStringSlice("document_types", nil))
		passages, err := client.SearchDocuments(ctx, query, req.GetInt("limit", 0), filter)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
		}
		out, _ := json.Marshal(passages)
		return mcp.NewToolResultText(string(out)), nil
	}
}

func GetAnalyzeReviewSchema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"text": {"type": "string", "description": "Customer review text to analyze"}
		},
		"required": ["text"]
	}`)
}

func HandleAnalyzeReview(client *AssistantClient) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := client.AnalyzeReview(ctx, req.GetString("text", ""))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("analyze review failed: %v", err)), nil
		}
		out, _ := json.Marshal(result)
		return mcp.NewToolResultText(string(out)), nil
	}
}

func GetSummarizeReviewsSchema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"reviews": {"type": "array", "items": {"type": "string"}, "description": "Review texts to summarize together"}
		},
		"required": ["reviews"]
	}`)
}

func HandleSummarizeReviews(client *AssistantClient) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		summary, err := client.SummarizeReviews(ctx, req.GetStringSlice("reviews", nil))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("summarize reviews failed: %v", err)), nil
		}
		return mcp.NewToolResultText(summary), nil
	}
}

func GetGenerateSQLSchema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"question": {"type": "string", "description": "Natural language question about structured data"}
		},
		"required": ["question"]
	}`)
}

func HandleGenerateSQL(client *AssistantClient) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := client.GenerateSQL(ctx, req.GetString("question", ""))
		if errors.Is(err, analyst.ErrNoSQLGenerated) {
			out, _ := json.Marshal(map[string]any{
				"interpretation": result.Interpretation,
				"sql":            "",
				"note":           "no sql statement was generated for this question",
			})
			return mcp.NewToolResultText(string(out)), nil
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("generate sql failed: %v", err)), nil
		}
		out, _ := json.Marshal(result)
		return mcp.NewToolResultText(string(out)), nil
	}
}

func GetListSessionsSchema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"offset": {"type": "integer"},
			"limit": {"type": "integer"}
		}
	}`)
}

func HandleListSessions(client *AssistantClient) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := req.GetInt("limit", 20)
		sessions := client.ListSessions(req.GetInt("offset", 0), limit)
		type sessionSummary struct {
			ID        string `json:"session_id"`
			State     string `json:"state"`
			TurnCount int    `json:"turn_count"`
		}
		out := make([]sessionSummary, 0, len(sessions))
		for _, s := range sessions {
			out = append(out, sessionSummary{ID: s.ID, State: s.State, TurnCount: len(s.Turns)})
		}
		b, _ := json.Marshal(out)
		return mcp.NewToolResultText(string(b)), nil
	}
}

func GetClearSessionSchema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"session_id": {"type": "string", "description": "Session to reset"}
		},
		"required": ["session_id"]
	}`)
}

func HandleClearSession(client *AssistantClient) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("session_id", "")
		if !client.ClearSession(id) {
			return mcp.NewToolResultError(fmt.Sprintf("session not found: %s", id)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("session %s cleared", id)), nil
	}
}
