// Package cortex is the REST client for the warehouse platform's AI
// services. Every wire format the assistant speaks lives here; the rest of
// the codebase talks to these services through small capability interfaces
// that this client satisfies.
package cortex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/snowretail/cortex-assistant/common/httpx"
	"github.com/snowretail/cortex-assistant/config"
	"github.com/snowretail/cortex-assistant/schema"
)

const (
	completePath  = "/api/v2/cortex/inference:complete"
	translatePath = "/api/v2/cortex/translate"
	sentimentPath = "/api/v2/cortex/sentiment"
	classifyPath  = "/api/v2/cortex/classify"
	summarizePath = "/api/v2/cortex/summarize"
	embedPath     = "/api/v2/cortex/embed"
	analystPath   = "/api/v2/cortex/analyst/message"
	searchPathFmt = "/api/v2/cortex-search-services/%s:query"
)

// Client calls the platform's AI endpoints over HTTP.
type Client struct {
	baseURL string
	token   string
	service string
	hc      *httpx.Client
}

// NewClient builds a platform client from config.
func NewClient(cfg config.CortexConfig, hc *httpx.Client) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("cortex base url is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid cortex base url: %w", err)
	}
	if hc == nil {
		hc = httpx.NewFromConfig(nil)
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		service: cfg.SearchService,
		hc:      hc,
	}, nil
}

// SearchService returns the configured semantic search service name.
func (c *Client) SearchService() string { return c.service }

// SearchRequest is the semantic search call of the managed search service.
// Filter follows the service's expression grammar: {"@eq": {attr: value}},
// {"@and": [...]}, {"@or": [...]}. A nil Filter sends no predicate at all.
type SearchRequest struct {
	Query   string         `json:"query"`
	Columns []string       `json:"columns"`
	Limit   int            `json:"limit"`
	Filter  map[string]any `json:"filter,omitempty"`
}

type searchResponse struct {
	Results []map[string]any `json:"results"`
}

// SearchDocuments runs one semantic search call against the named service and
// maps the projected columns onto passages in rank order. Zero matches return
// an empty slice, not an error.
func (c *Client) SearchDocuments(ctx context.Context, service string, req SearchRequest) ([]schema.Passage, error) {
	if service == "" {
		service = c.service
	}
	if service == "" {
		return nil, fmt.Errorf("search service name is required")
	}
	var resp searchResponse
	if err := c.post(ctx, fmt.Sprintf(searchPathFmt, url.PathEscape(service)), req, &resp); err != nil {
		return nil, fmt.Errorf("semantic search failed: %w", err)
	}
	out := make([]schema.Passage, 0, len(resp.Results))
	for _, row := range resp.Results {
		out = append(out, schema.Passage{
			Title:        stringField(row, "title", "Untitled"),
			Content:      stringField(row, "content", ""),
			DocumentType: stringField(row, "document_type", "N/A"),
			Department:   stringField(row, "department", "N/A"),
		})
	}
	return out, nil
}

type completeRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type textResponse struct {
	Text string `json:"text"`
}

// Complete sends one text-generation call and returns the raw model text.
func (c *Client) Complete(ctx context.Context, model, prompt string) (string, error) {
	var resp textResponse
	if err := c.post(ctx, completePath, completeRequest{Model: model, Prompt: prompt}, &resp); err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}
	if resp.Text == "" {
		return "", fmt.Errorf("completion returned no text: %w", schema.ErrMalformedResponse)
	}
	return resp.Text, nil
}

type translateRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

// Translate translates text between languages. An empty sourceLang asks the
// service to auto-detect.
func (c *Client) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	var resp textResponse
	req := translateRequest{Text: text, SourceLang: sourceLang, TargetLang: targetLang}
	if err := c.post(ctx, translatePath, req, &resp); err != nil {
		return "", fmt.Errorf("translation failed: %w", err)
	}
	return resp.Text, nil
}

type sentimentRequest struct {
	Text string `json:"text"`
}

type sentimentResponse struct {
	Score float64 `json:"score"`
}

// ScoreSentiment returns a sentiment score in [-1, 1].
func (c *Client) ScoreSentiment(ctx context.Context, text string) (float64, error) {
	var resp sentimentResponse
	if err := c.post(ctx, sentimentPath, sentimentRequest{Text: text}, &resp); err != nil {
		return 0, fmt.Errorf("sentiment scoring failed: %w", err)
	}
	return resp.Score, nil
}

type classifyRequest struct {
	Text       string   `json:"text"`
	Categories []string `json:"categories"`
}

type classifyResponse struct {
	Labels []string `json:"labels"`
}

// Classify labels text with the matching categories (multi-label).
func (c *Client) Classify(ctx context.Context, text string, categories []string) ([]string, error) {
	var resp classifyResponse
	if err := c.post(ctx, classifyPath, classifyRequest{Text: text, Categories: categories}, &resp); err != nil {
		return nil, fmt.Errorf("classification failed: %w", err)
	}
	return resp.Labels, nil
}

type summarizeRequest struct {
	Texts       []string `json:"texts"`
	Instruction string   `json:"instruction,omitempty"`
}

// SummarizeAll aggregates many texts into one summary.
func (c *Client) SummarizeAll(ctx context.Context, texts []string, instruction string) (string, error) {
	var resp textResponse
	if err := c.post(ctx, summarizePath, summarizeRequest{Texts: texts, Instruction: instruction}, &resp); err != nil {
		return "", fmt.Errorf("summarization failed: %w", err)
	}
	return resp.Text, nil
}

type embedRequest struct {
	Model string `json:"model"`
	Text  string `json:"text"`
}

type embedResponse struct {
	Vector []float32 `json:"vector"`
}

// GetEmbedding vectorizes text with the named platform embedding model.
func (c *Client) GetEmbedding(ctx context.Context, model, text string) ([]float32, error) {
	var resp embedResponse
	if err := c.post(ctx, embedPath, embedRequest{Model: model, Text: text}, &resp); err != nil {
		return nil, fmt.Errorf("embedding failed: %w", err)
	}
	if len(resp.Vector) == 0 {
		return nil, fmt.Errorf("embedding returned no vector: %w", schema.ErrMalformedResponse)
	}
	return resp.Vector, nil
}

// post issues one JSON call and decodes the response. Non-2xx statuses map
// onto the transient-service error; undecodable bodies map onto the
// malformed-response error.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	bs, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(bs))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", schema.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s", schema.ErrServiceUnavailable, errorDetail(resp))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", schema.ErrMalformedResponse, err)
	}
	return nil
}

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func errorDetail(resp *http.Response) string {
	var eb errorBody
	if err := json.NewDecoder(resp.Body).Decode(&eb); err == nil && eb.Message != "" {
		return fmt.Sprintf("status %d: %s", resp.StatusCode, eb.Message)
	}
	return fmt.Sprintf("status %d", resp.StatusCode)
}

func stringField(row map[string]any, key, fallback string) string {
	if v, ok := row[key].(string); ok && v != "" {
		return v
	}
	return fallback
}
