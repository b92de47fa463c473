// Package analyst turns natural-language questions about structured data
// into SQL through the platform's analyst endpoint.
package analyst

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/snowretail/cortex-assistant/common/logger"
)

// ErrNoSQLGenerated reports that the analyst answered but produced no SQL
// statement, usually because the question is out of scope for the semantic
// model.
var ErrNoSQLGenerated = errors.New("analyst generated no sql statement")

// Backend is the analyst transport plus the translation used for the
// explanatory text.
type Backend interface {
	AnalystMessage(ctx context.Context, question, semanticModelFile string) (text string, sqlStatement string, err error)
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// Result holds the analyst's interpretation and the generated statement.
type Result struct {
	Interpretation string `json:"interpretation"`
	SQL            string `json:"sql"`
}

// Analyst wraps the text-to-sql flow against one semantic model.
type Analyst struct {
	Backend           Backend
	SemanticModelFile string
	TranslateTo       string
}

func New(backend Backend, semanticModelFile, translateTo string) *Analyst {
	return &Analyst{Backend: backend, SemanticModelFile: semanticModelFile, TranslateTo: translateTo}
}

// GenerateSQL asks the analyst to produce SQL for question. When the
// response contains no statement, ErrNoSQLGenerated is returned with the
// interpretation still populated so callers can surface the explanation.
func (a *Analyst) GenerateSQL(ctx context.Context, question string) (*Result, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("question is empty")
	}
	if a.SemanticModelFile == "" {
		return nil, fmt.Errorf("semantic model file not configured")
	}
	text, sqlStatement, err := a.Backend.AnalystMessage(ctx, question, a.SemanticModelFile)
	if err != nil {
		return nil, err
	}
	result := &Result{Interpretation: a.translate(ctx, text), SQL: sqlStatement}
	if strings.TrimSpace(sqlStatement) == "" {
		return result, ErrNoSQLGenerated
	}
	return result, nil
}

// translate is best-effort: the english interpretation stands when the
// translation call fails or no target is configured.
func (a *Analyst) translate(ctx context.Context, text string) string {
	if a.TranslateTo == "" || a.TranslateTo == "en" || strings.TrimSpace(text) == "" {
		return text
	}
	translated, err := a.Backend.Translate(ctx, text, "en", a.TranslateTo)
	if err != nil || strings.TrimSpace(translated) == "" {
		logger.Warnf("analyst interpretation translation failed, keeping english text: %v", err)
		return text
	}
	return translated
}
