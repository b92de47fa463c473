package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for the assistant.
type Config struct {
	Cortex     CortexConfig     `json:"cortex" yaml:"cortex"`
	LLM        LLMConfig        `json:"llm" yaml:"llm"`
	Retrieval  RetrievalConfig  `json:"retrieval" yaml:"retrieval"`
	Normalizer NormalizerConfig `json:"normalizer,omitempty" yaml:"normalizer,omitempty"`
	Generation GenerationConfig `json:"generation" yaml:"generation"`

	// Profiles collapse the per-page "selected model / selected persona"
	// switches into named presets threaded through each pipeline call.
	Profiles       []AssistantProfile `json:"profiles,omitempty" yaml:"profiles,omitempty"`
	DefaultProfile string             `json:"default_profile,omitempty" yaml:"default_profile,omitempty"`

	// Analysis configures voice-of-customer review analysis. Optional.
	Analysis *AnalysisConfig `json:"analysis,omitempty" yaml:"analysis,omitempty"`
	// Analyst configures the natural-language-to-SQL conversation. Optional.
	Analyst *AnalystConfig `json:"analyst,omitempty" yaml:"analyst,omitempty"`
	// Session store configuration. If nil or store=inmemory, use in-memory store.
	Session *SessionConfig `json:"session,omitempty" yaml:"session,omitempty"`
	// HTTP defaults for outbound platform calls.
	HTTP *HTTPClientConfig `json:"http,omitempty" yaml:"http,omitempty"`
}

// CortexConfig holds the connection settings for the warehouse platform's
// AI endpoints (generation, translation, sentiment, classification, search).
type CortexConfig struct {
	BaseURL string `json:"base_url" yaml:"base_url"`
	Token   string `json:"token,omitempty" yaml:"token,omitempty"`
	// SearchService is the name of the managed semantic search service.
	SearchService string `json:"search_service" yaml:"search_service"`
}

// LLMConfig defines the text-generation provider used by the answer generator.
type LLMConfig struct {
	Provider    string  `json:"provider" yaml:"provider"` // Available options: cortex, openai
	APIKey      string  `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL     string  `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Model       string  `json:"model" yaml:"model"`
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
}

// RetrievalConfig selects and parameterizes the retrieval backend.
type RetrievalConfig struct {
	Provider string `json:"provider" yaml:"provider"` // Available options: cortex, qdrant, bm25
	// Columns is the fixed projection requested from the index.
	Columns []string `json:"columns,omitempty" yaml:"columns,omitempty"`
	// ResultLimit is the default upper bound on passages per retrieval call.
	ResultLimit int `json:"result_limit,omitempty" yaml:"result_limit,omitempty"`

	Qdrant *QdrantConfig `json:"qdrant,omitempty" yaml:"qdrant,omitempty"`
	BM25   *BM25Config   `json:"bm25,omitempty" yaml:"bm25,omitempty"`
}

// QdrantConfig configures the self-hosted vector index backend.
type QdrantConfig struct {
	URL        string `json:"url" yaml:"url"`
	Collection string `json:"collection" yaml:"collection"`
	APIKey     string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	// EmbeddingModel is the platform embedding model used to vectorize queries.
	EmbeddingModel string `json:"embedding_model" yaml:"embedding_model"`
}

// BM25Config configures the Elasticsearch-compatible keyword backend.
type BM25Config struct {
	Endpoint string `json:"endpoint" yaml:"endpoint"`
	Index    string `json:"index" yaml:"index"`
}

// NormalizerConfig controls pre-retrieval query normalization. When
// TargetLang is empty the normalizer passes questions through untouched.
type NormalizerConfig struct {
	// SourceLang empty means auto-detect.
	SourceLang string `json:"source_lang,omitempty" yaml:"source_lang,omitempty"`
	TargetLang string `json:"target_lang,omitempty" yaml:"target_lang,omitempty"`
}

// GenerationConfig frames answer generation.
type GenerationConfig struct {
	// Persona is the default persona/domain framing prepended to prompts.
	Persona string `json:"persona,omitempty" yaml:"persona,omitempty"`
	// ContextMaxTokens bounds the assembled context block; 0 disables the bound.
	ContextMaxTokens int `json:"context_max_tokens,omitempty" yaml:"context_max_tokens,omitempty"`
	// Encoding is the tokenizer encoding used for the bound.
	Encoding string `json:"encoding,omitempty" yaml:"encoding,omitempty"`
}

// AssistantProfile is a named preset of per-turn options.
type AssistantProfile struct {
	Name          string   `json:"name" yaml:"name"`
	Model         string   `json:"model,omitempty" yaml:"model,omitempty"`
	Persona       string   `json:"persona,omitempty" yaml:"persona,omitempty"`
	ResultLimit   int      `json:"result_limit,omitempty" yaml:"result_limit,omitempty"`
	Departments   []string `json:"departments,omitempty" yaml:"departments,omitempty"`
	DocumentTypes []string `json:"document_types,omitempty" yaml:"document_types,omitempty"`
}

// AnalysisConfig parameterizes review analysis.
type AnalysisConfig struct {
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`
	// TargetLang translates reviews before scoring; empty skips translation.
	TargetLang string `json:"target_lang,omitempty" yaml:"target_lang,omitempty"`
	// SummaryInstruction steers the aggregate summarization call.
	SummaryInstruction string `json:"summary_instruction,omitempty" yaml:"summary_instruction,omitempty"`
}

// AnalystConfig parameterizes the natural-language-to-SQL conversation.
type AnalystConfig struct {
	// SemanticModelFile is the stage path of the semantic model, e.g.
	// "@SEMANTIC_MODEL_STAGE/snow_retail.yaml".
	SemanticModelFile string `json:"semantic_model_file" yaml:"semantic_model_file"`
	// TranslateTo translates the analyst's explanation text into the
	// interaction language; empty keeps the service's native output.
	TranslateTo string `json:"translate_to,omitempty" yaml:"translate_to,omitempty"`
}

// SessionConfig selects the conversation session store.
type SessionConfig struct {
	Store       string       `json:"store,omitempty" yaml:"store,omitempty"` // inmemory (default), redis
	TTLSeconds  int          `json:"ttl_seconds,omitempty" yaml:"ttl_seconds,omitempty"`
	MaxSessions int          `json:"max_sessions,omitempty" yaml:"max_sessions,omitempty"`
	Redis       *RedisConfig `json:"redis,omitempty" yaml:"redis,omitempty"`
}

// RedisConfig holds redis connection settings for the session store.
type RedisConfig struct {
	Addr     string `json:"addr" yaml:"addr"`
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	DB       int    `json:"db,omitempty" yaml:"db,omitempty"`
}

// HTTPClientConfig tunes the outbound HTTP client.
type HTTPClientConfig struct {
	TimeoutMs              int      `json:"timeout_ms,omitempty" yaml:"timeout_ms,omitempty"`
	Retry                  int      `json:"retry,omitempty" yaml:"retry,omitempty"`
	BackoffMinMs           int      `json:"backoff_min_ms,omitempty" yaml:"backoff_min_ms,omitempty"`
	BackoffMaxMs           int      `json:"backoff_max_ms,omitempty" yaml:"backoff_max_ms,omitempty"`
	MaxConsecutiveFailures int      `json:"max_consecutive_failures,omitempty" yaml:"max_consecutive_failures,omitempty"`
	CircuitOpenSeconds     int      `json:"circuit_open_seconds,omitempty" yaml:"circuit_open_seconds,omitempty"`
	HostAllowlist          []string `json:"host_allowlist,omitempty" yaml:"host_allowlist,omitempty"`
}

// DefaultColumns is the fixed field projection requested from the index.
var DefaultColumns = []string{"title", "content", "document_type", "department"}

// Load reads and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s failed: %w", path, err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s failed: %w", path, err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyDefaults fills zero values with working defaults.
func (c *Config) ApplyDefaults() {
	if c.LLM.Provider == "" {
		c.LLM.Provider = "cortex"
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.5
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 2048
	}
	if c.Retrieval.Provider == "" {
		c.Retrieval.Provider = "cortex"
	}
	if len(c.Retrieval.Columns) == 0 {
		c.Retrieval.Columns = DefaultColumns
	}
	if c.Retrieval.ResultLimit <= 0 {
		c.Retrieval.ResultLimit = 3
	}
	if c.Generation.Encoding == "" {
		c.Generation.Encoding = "cl100k_base"
	}
}
