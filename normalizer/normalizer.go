// Package normalizer rewrites an incoming question into the retrieval
// language before the rest of the pipeline sees it.
package normalizer

import (
	"context"
	"strings"

	"github.com/snowretail/cortex-assistant/common/logger"
)

// Translator is the platform translation function.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// Normalizer translates questions from SourceLang to TargetLang. When the
// two are equal, or translation fails, the original question passes through
// untouched: normalization is best-effort and never blocks a turn.
type Normalizer struct {
	Translator Translator
	SourceLang string
	TargetLang string
}

func New(t Translator, sourceLang, targetLang string) *Normalizer {
	return &Normalizer{Translator: t, SourceLang: sourceLang, TargetLang: targetLang}
}

// Normalize returns the retrieval-ready form of question. It never fails;
// on any translation problem the original text is returned.
func (n *Normalizer) Normalize(ctx context.Context, question string) string {
	if n == nil || n.Translator == nil {
		return question
	}
	if n.SourceLang == n.TargetLang || n.TargetLang == "" {
		return question
	}
	translated, err := n.Translator.Translate(ctx, question, n.SourceLang, n.TargetLang)
	if err != nil {
		logger.Warnf("query normalization failed, using original question: %v", err)
		return question
	}
	if strings.TrimSpace(translated) == "" {
		logger.Warnf("query normalization returned empty text, using original question")
		return question
	}
	return translated
}
