package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() *Config {
	c := &Config{
		Cortex: CortexConfig{BaseURL: "https://account.example.com", SearchService: "docs"},
		LLM:    LLMConfig{Model: "mistral-large"},
	}
	c.ApplyDefaults()
	return c
}

func TestValidate_ValidConfig(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestValidate_MissingBaseURL(t *testing.T) {
	c := validConfig()
	c.Cortex.BaseURL = ""
	err := c.Validate()
	if err == nil || !strings.Contains(err.Error(), "base_url") {
		t.Fatalf("expected base_url error, got %v", err)
	}
}

func TestValidate_CollectsMultipleErrors(t *testing.T) {
	c := validConfig()
	c.Cortex.BaseURL = ""
	c.LLM.Model = ""
	err := c.Validate()
	if err == nil {
		t.Fatalf("expected errors")
	}
	errs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(errs), errs)
	}
}

func TestValidate_OpenAIRequiresKey(t *testing.T) {
	c := validConfig()
	c.LLM.Provider = "openai"
	c.LLM.APIKey = ""
	if err := c.Validate(); err == nil || !strings.Contains(err.Error(), "api_key") {
		t.Fatalf("expected api_key error, got %v", err)
	}
}

func TestValidate_QdrantProvider(t *testing.T) {
	c := validConfig()
	c.Retrieval.Provider = "qdrant"
	if err := c.Validate(); err == nil {
		t.Fatalf("qdrant without config must fail")
	}
	c.Retrieval.Qdrant = &QdrantConfig{URL: "qdrant.example.com:6334", Collection: "docs"}
	if err := c.Validate(); err == nil || !strings.Contains(err.Error(), "embedding_model") {
		t.Fatalf("expected embedding_model error, got %v", err)
	}
	c.Retrieval.Qdrant.EmbeddingModel = "e5-base-v2"
	if err := c.Validate(); err != nil {
		t.Fatalf("complete qdrant config rejected: %v", err)
	}
}

func TestValidate_DuplicateProfiles(t *testing.T) {
	c := validConfig()
	c.Profiles = []AssistantProfile{{Name: "support"}, {Name: "support"}}
	if err := c.Validate(); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate profile error, got %v", err)
	}
}

func TestValidate_UnknownDefaultProfile(t *testing.T) {
	c := validConfig()
	c.Profiles = []AssistantProfile{{Name: "support"}}
	c.DefaultProfile = "sales"
	if err := c.Validate(); err == nil || !strings.Contains(err.Error(), "default_profile") {
		t.Fatalf("expected default_profile error, got %v", err)
	}
}

func TestValidate_SessionStore(t *testing.T) {
	c := validConfig()
	c.Session = &SessionConfig{Store: "redis"}
	if err := c.Validate(); err == nil || !strings.Contains(err.Error(), "redis addr") {
		t.Fatalf("expected redis addr error, got %v", err)
	}
	c.Session = &SessionConfig{Store: "cassandra"}
	if err := c.Validate(); err == nil || !strings.Contains(err.Error(), "unknown session store") {
		t.Fatalf("expected unknown store error, got %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	c := &Config{}
	c.ApplyDefaults()
	if c.LLM.Provider != "cortex" || c.Retrieval.Provider != "cortex" {
		t.Fatalf("provider defaults not applied: %+v", c)
	}
	if c.Retrieval.ResultLimit != 3 {
		t.Fatalf("result limit default = %d", c.Retrieval.ResultLimit)
	}
	if len(c.Retrieval.Columns) == 0 {
		t.Fatalf("columns default not applied")
	}
	if c.Generation.Encoding != "cl100k_base" {
		t.Fatalf("encoding default = %q", c.Generation.Encoding)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
cortex:
  base_url: https://account.example.com
  search_service: docs
llm:
  model: mistral-large
profiles:
  - name: support
    departments: [support]
    document_types: [faq]
default_profile: support
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Cortex.SearchService != "docs" || cfg.DefaultProfile != "support" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Profiles[0].Departments[0] != "support" {
		t.Fatalf("profile not parsed: %+v", cfg.Profiles[0])
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("missing file must fail")
	}
}
