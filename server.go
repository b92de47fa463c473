package assistant

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/snowretail/cortex-assistant/config"
)

const Version = "1.0.0"

// NewServer builds the MCP server exposing the assistant's tools.
func NewServer(serverName string, cfg *config.Config) (*server.MCPServer, error) {
	mcpServer := server.NewMCPServer(
		serverName,
		Version,
		server.WithInstructions("Retail knowledge assistant: grounded Q&A over internal documents, customer review analysis, and natural-language-to-SQL over sales data"),
	)

	client, err := NewAssistantClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create assistant client failed, err: %w", err)
	}

	// Conversational Q&A Tools
	mcpServer.AddTool(
		mcp.NewToolWithRawSchema("ask", "Answer an employee question using retrieved internal documents, keeping conversation history in a session", GetAskSchema()),
		HandleAsk(client),
	)
	mcpServer.AddTool(
		mcp.NewToolWithRawSchema("search-documents", "Search internal documents by natural language query with optional department and document type filters", GetSearchDocumentsSchema()),
		HandleSearchDocuments(client),
	)

	// Review Analysis Tools
	if client.analyzer != nil {
		mcpServer.AddTool(
			mcp.NewToolWithRawSchema("analyze-review", "Score the sentiment of a customer review and classify it into a category", GetAnalyzeReviewSchema()),
			HandleAnalyzeReview(client),
		)
		mcpServer.AddTool(
			mcp.NewToolWithRawSchema("summarize-reviews", "Summarize the recurring themes across a batch of customer reviews", GetSummarizeReviewsSchema()),
			HandleSummarizeReviews(client),
		)
	}

	// Structured Data Tool
	if client.analyst != nil {
		mcpServer.AddTool(
			mcp.NewToolWithRawSchema("generate-sql", "Generate a SQL statement for a natural language question about sales data", GetGenerateSQLSchema()),
			HandleGenerateSQL(client),
		)
	}

	// Session Management Tools
	mcpServer.AddTool(
		mcp.NewToolWithRawSchema("list-sessions", "List conversation sessions by recency", GetListSessionsSchema()),
		HandleListSessions(client),
	)
	mcpServer.AddTool(
		mcp.NewToolWithRawSchema("clear-session", "Reset a conversation session, keeping its id", GetClearSessionSchema()),
		HandleClearSession(client),
	)

	return mcpServer, nil
}
