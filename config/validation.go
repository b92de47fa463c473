package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error [%s]: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("found %d configuration error(s):\n", len(errs)))
	for i, err := range errs {
		b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Message))
	}
	return b.String()
}

// Validate validates the complete configuration
func (c *Config) Validate() error {
	var errs ValidationErrors

	errs = append(errs, c.validateCortex()...)
	errs = append(errs, c.validateLLM()...)
	errs = append(errs, c.validateRetrieval()...)
	errs = append(errs, c.validateProfiles()...)
	if c.Session != nil {
		errs = append(errs, c.validateSession()...)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (c *Config) validateCortex() ValidationErrors {
	var errs ValidationErrors

	if c.Cortex.BaseURL == "" {
		errs = append(errs, ValidationError{
			Field:   "cortex.base_url",
			Message: "cortex base_url is required",
		})
	}
	if c.Retrieval.Provider == "cortex" && c.Cortex.SearchService == "" {
		errs = append(errs, ValidationError{
			Field:   "cortex.search_service",
			Message: "cortex search_service is required for the cortex retrieval provider",
		})
	}
	return errs
}

func (c *Config) validateLLM() ValidationErrors {
	var errs ValidationErrors

	switch c.LLM.Provider {
	case "cortex":
	case "openai":
		if c.LLM.APIKey == "" {
			errs = append(errs, ValidationError{
				Field:   "llm.api_key",
				Message: "llm api_key is required for the openai provider",
			})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "llm.provider",
			Message: fmt.Sprintf("unknown llm provider %q (expected cortex or openai)", c.LLM.Provider),
		})
	}
	if c.LLM.Model == "" {
		errs = append(errs, ValidationError{
			Field:   "llm.model",
			Message: "llm model is required",
		})
	}
	return errs
}

func (c *Config) validateRetrieval() ValidationErrors {
	var errs ValidationErrors

	switch c.Retrieval.Provider {
	case "cortex":
	case "qdrant":
		if c.Retrieval.Qdrant == nil || c.Retrieval.Qdrant.URL == "" || c.Retrieval.Qdrant.Collection == "" {
			errs = append(errs, ValidationError{
				Field:   "retrieval.qdrant",
				Message: "qdrant url and collection are required for the qdrant retrieval provider",
			})
		} else if c.Retrieval.Qdrant.EmbeddingModel == "" {
			errs = append(errs, ValidationError{
				Field:   "retrieval.qdrant.embedding_model",
				Message: "qdrant embedding_model is required for the qdrant retrieval provider",
			})
		}
	case "bm25":
		if c.Retrieval.BM25 == nil || c.Retrieval.BM25.Endpoint == "" || c.Retrieval.BM25.Index == "" {
			errs = append(errs, ValidationError{
				Field:   "retrieval.bm25",
				Message: "bm25 endpoint and index are required for the bm25 retrieval provider",
			})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "retrieval.provider",
			Message: fmt.Sprintf("unknown retrieval provider %q (expected cortex, qdrant or bm25)", c.Retrieval.Provider),
		})
	}
	return errs
}

func (c *Config) validateProfiles() ValidationErrors {
	var errs ValidationErrors

	seen := make(map[string]struct{}, len(c.Profiles))
	for i, p := range c.Profiles {
		if p.Name == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("profiles[%d].name", i),
				Message: "profile name is required",
			})
			continue
		}
		if _, ok := seen[p.Name]; ok {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("profiles[%d].name", i),
				Message: fmt.Sprintf("duplicate profile name %q", p.Name),
			})
		}
		seen[p.Name] = struct{}{}
	}
	if c.DefaultProfile != "" {
		if _, ok := seen[c.DefaultProfile]; !ok {
			errs = append(errs, ValidationError{
				Field:   "default_profile",
				Message: fmt.Sprintf("default_profile %q does not match any profile", c.DefaultProfile),
			})
		}
	}
	return errs
}

func (c *Config) validateSession() ValidationErrors {
	var errs ValidationErrors

	switch c.Session.Store {
	case "", "inmemory":
	case "redis":
		if c.Session.Redis == nil || c.Session.Redis.Addr == "" {
			errs = append(errs, ValidationError{
				Field:   "session.redis.addr",
				Message: "redis addr is required for the redis session store",
			})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "session.store",
			Message: fmt.Sprintf("unknown session store %q (expected inmemory or redis)", c.Session.Store),
		})
	}
	return errs
}
