// Package assistant implements the conversational core: normalized
// retrieval over internal documents, grounded answer generation, review
// analysis, and text-to-sql, all against the platform's REST surface.
package assistant

import (
	"context"
	"fmt"

	"github.com/snowretail/cortex-assistant/analysis"
	"github.com/snowretail/cortex-assistant/analyst"
	"github.com/snowretail/cortex-assistant/assembler"
	"github.com/snowretail/cortex-assistant/common/httpx"
	"github.com/snowretail/cortex-assistant/common/logger"
	"github.com/snowretail/cortex-assistant/config"
	"github.com/snowretail/cortex-assistant/cortex"
	"github.com/snowretail/cortex-assistant/generator"
	"github.com/snowretail/cortex-assistant/llm"
	"github.com/snowretail/cortex-assistant/normalizer"
	"github.com/snowretail/cortex-assistant/profile"
	"github.com/snowretail/cortex-assistant/retriever"
	"github.com/snowretail/cortex-assistant/schema"
)

// AssistantClient wires the pipeline stages together and owns the session
// store. One instance serves all sessions.
type AssistantClient struct {
	config          *config.Config
	cortex          *cortex.Client
	llmProvider     llm.Provider
	normalizer      *normalizer.Normalizer
	retriever       retriever.Retriever
	assembler       *assembler.Assembler
	generator       *generator.Generator
	analyzer        *analysis.Analyzer
	analyst         *analyst.Analyst
	profileProvider profile.Provider
	sessions        SessionStore
}

// NewAssistantClient creates a client from validated config.
func NewAssistantClient(cfg *config.Config) (*AssistantClient, error) {
	client := &AssistantClient{config: cfg}

	// Pipeline stages run on a zero-retry client: a failed turn is reported,
	// never re-sent. Capability calls keep whatever retry policy the config
	// opted into.
	hc := httpx.NewFromConfig(cfg.HTTP)
	pipelineHC := hc.WithoutRetry()
	cx, err := cortex.NewClient(cfg.Cortex, pipelineHC)
	if err != nil {
		return nil, fmt.Errorf("create cortex client failed, err: %w", err)
	}
	client.cortex = cx
	capCX, err := cortex.NewClient(cfg.Cortex, hc)
	if err != nil {
		return nil, fmt.Errorf("create cortex client failed, err: %w", err)
	}

	llmProvider, err := llm.NewProvider(cfg.LLM, client.cortex)
	if err != nil {
		return nil, fmt.Errorf("create llm provider failed, err: %w", err)
	}
	client.llmProvider = llmProvider

	if cfg.Normalizer.TargetLang != "" {
		client.normalizer = normalizer.New(client.cortex, cfg.Normalizer.SourceLang, cfg.Normalizer.TargetLang)
	}

	ret, err := newRetriever(cfg, client.cortex, pipelineHC)
	if err != nil {
		return nil, fmt.Errorf("create retriever failed, err: %w", err)
	}
	client.retriever = ret

	client.assembler = assembler.New(cfg.Generation.ContextMaxTokens, cfg.Generation.Encoding)
	client.generator = generator.New(llmProvider, cfg.Generation.Persona, cfg.LLM.Model)
	client.profileProvider = profile.NewProvider(cfg)

	if cfg.Analysis != nil {
		client.analyzer = analysis.New(capCX, cfg.Analysis.Categories, cfg.Analysis.TargetLang, cfg.Analysis.SummaryInstruction)
	}
	if cfg.Analyst != nil {
		client.analyst = analyst.New(capCX, cfg.Analyst.SemanticModelFile, cfg.Analyst.TranslateTo)
	}

	sessions, err := newSessionStore(cfg.Session)
	if err != nil {
		return nil, fmt.Errorf("create session store failed, err: %w", err)
	}
	client.sessions = sessions
	return client, nil
}

func newRetriever(cfg *config.Config, cx *cortex.Client, hc *httpx.Client) (retriever.Retriever, error) {
	switch cfg.Retrieval.Provider {
	case "", "cortex":
		return &retriever.CortexRetriever{
			Service:  cx,
			Name:     cfg.Cortex.SearchService,
			Columns:  cfg.Retrieval.Columns,
			MaxLimit: cfg.Retrieval.ResultLimit,
		}, nil
	case "qdrant":
		qc := cfg.Retrieval.Qdrant
		if qc == nil {
			return nil, fmt.Errorf("qdrant retrieval requires qdrant config")
		}
		embed := &cortexEmbedder{cx: cx, model: qc.EmbeddingModel}
		return retriever.NewQdrantRetriever(retriever.QdrantOptions{
			URL:        qc.URL,
			Collection: qc.Collection,
			APIKey:     qc.APIKey,
		}, embed)
	case "bm25":
		bc := cfg.Retrieval.BM25
		if bc == nil {
			return nil, fmt.Errorf("bm25 retrieval requires bm25 config")
		}
		return &retriever.BM25Retriever{
			Endpoint: bc.Endpoint,
			Index:    bc.Index,
			Client:   hc,
			MaxLimit: cfg.Retrieval.ResultLimit,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported retrieval provider: %s", cfg.Retrieval.Provider)
	}
}

func newSessionStore(cfg *config.SessionConfig) (SessionStore, error) {
	if cfg == nil || cfg.Store == "" || cfg.Store == "inmemory" {
		return NewMemSessionStore(), nil
	}
	if cfg.Store == "redis" {
		return NewRedisSessionStore(cfg)
	}
	return nil, fmt.Errorf("unsupported session store: %s", cfg.Store)
}

// cortexEmbedder adapts the platform embedding function to the retriever's
// Embedder interface with a fixed model.
type cortexEmbedder struct {
	cx    *cortex.Client
	model string
}

func (e *cortexEmbedder) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	return e.cx.GetEmbedding(ctx, e.model, text)
}

// TurnOptions customize a single turn. Zero values defer to the selected
// profile, then to config defaults.
type TurnOptions struct {
	Profile     string
	Model       string
	Persona     string
	ResultLimit int
	Filter      retriever.Filter
}

// Ask runs one full turn: resolve the session, append the user turn,
// normalize, retrieve, assemble, generate, and append the assistant turn.
// When a pipeline stage fails after the user turn was appended, the turn is
// still completed with an error answer so the session stays consistent;
// Ask's error return is reserved for caller mistakes (unknown session,
// turn already in flight).
func (c *AssistantClient) Ask(ctx context.Context, sessionID, question string, opts TurnOptions) (*Session, *ConversationTurn, error) {
	session, err := c.resolveSession(sessionID)
	if err != nil {
		return nil, nil, err
	}
	if err := session.BeginTurn(question); err != nil {
		return session, nil, err
	}
	c.sessions.Update(session)

	prof := c.resolveProfile(opts)
	normalized := question
	if c.normalizer != nil {
		normalized = c.normalizer.Normalize(ctx, question)
	}

	filter := opts.Filter
	if filter == nil {
		filter = retriever.NewFilter(prof.Departments, prof.DocumentTypes)
	}
	limit := opts.ResultLimit
	if limit <= 0 { limit = prof.ResultLimit }

	passages, err := c.retriever.Search(ctx, normalized, limit, filter)
	if err != nil {
		logger.Errorf("retrieval failed for session %s: %v", session.ID, err)
		return c.completeWithError(session, err)
	}

	contextBlock, used := c.assembler.Assemble(passages)

	answer, err := c.generator.Generate(ctx, contextBlock, question, generator.GenerateOptions{
		Persona: firstNonEmpty(opts.Persona, prof.Persona),
		Model:   firstNonEmpty(opts.Model, prof.Model),
	})
	if err != nil {
		logger.Errorf("generation failed for session %s: %v", session.ID, err)
		return c.completeWithError(session, err)
	}

	turn := session.CompleteTurn(answer, schema.Titles(used))
	c.sessions.Update(session)
	if c.config.Session != nil && c.config.Session.MaxSessions > 0 {
		if err := c.sessions.Clean(c.config.Session.MaxSessions); err != nil {
			logger.Warnf("session cleanup failed: %v", err)
		}
	}
	return session, turn, nil
}

// completeWithError finishes the in-flight turn with an error answer. The
// turn itself succeeds from the caller's perspective.
func (c *AssistantClient) completeWithError(session *Session, cause error) (*Session, *ConversationTurn, error) {
	turn := session.CompleteTurn(fmt.Sprintf("An error occurred while generating the response: %v", cause), nil)
	c.sessions.Update(session)
	return session, turn, nil
}

func (c *AssistantClient) resolveSession(id string) (*Session, error) {
	if id == "" {
		return c.sessions.Create(), nil
	}
	session, ok := c.sessions.Get(id)
	if !ok {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	return session, nil
}

func (c *AssistantClient) resolveProfile(opts TurnOptions) config.AssistantProfile {
	if opts.Profile != "" {
		if prof := c.profileProvider.SelectByName(opts.Profile); prof.Name != "" {
			return prof
		}
		logger.Warnf("unknown profile %q, using default", opts.Profile)
	}
	return c.profileProvider.SelectDefault()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" { return v }
	}
	return ""
}

// SearchDocuments runs retrieval alone, without touching any session.
func (c *AssistantClient) SearchDocuments(ctx context.Context, query string, limit int, filter retriever.Filter) ([]schema.Passage, error) {
	if c.normalizer != nil {
		query = c.normalizer.Normalize(ctx, query)
	}
	return c.retriever.Search(ctx, query, limit, filter)
}

// AnalyzeReview scores and categorizes one customer review.
func (c *AssistantClient) AnalyzeReview(ctx context.Context, text string) (*analysis.ReviewAnalysis, error) {
	if c.analyzer == nil {
		return nil, fmt.Errorf("review analysis is not configured")
	}
	return c.analyzer.AnalyzeReview(ctx, text)
}

// SummarizeReviews summarizes a batch of customer reviews.
func (c *AssistantClient) SummarizeReviews(ctx context.Context, texts []string) (string, error) {
	if c.analyzer == nil {
		return "", fmt.Errorf("review analysis is not configured")
	}
	return c.analyzer.SummarizeReviews(ctx, texts)
}

// GenerateSQL runs the text-to-sql flow against the configured semantic
// model.
func (c *AssistantClient) GenerateSQL(ctx context.Context, question string) (*analyst.Result, error) {
	if c.analyst == nil {
		return nil, fmt.Errorf("analyst is not configured")
	}
	return c.analyst.GenerateSQL(ctx, question)
}

// GetSession looks up a session by id.
func (c *AssistantClient) GetSession(id string) (*Session, bool) { return c.sessions.Get(id) }

// ListSessions returns sessions by recency.
func (c *AssistantClient) ListSessions(offset, limit int) []*Session {
	return c.sessions.ListRange(offset, limit)
}

// ClearSession resets a session's history, keeping its id.
func (c *AssistantClient) ClearSession(id string) bool {
	session, ok := c.sessions.Get(id)
	if !ok { return false }
	session.Clear()
	return c.sessions.Update(session)
}

// DeleteSession removes a session entirely.
func (c *AssistantClient) DeleteSession(id string) bool { return c.sessions.Delete(id) }
