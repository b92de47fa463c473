// Package analysis scores, categorizes, and summarizes customer review
// text using the platform's task-specific functions.
package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/snowretail/cortex-assistant/common/logger"
)

// Capabilities is the subset of platform functions the analyzer needs.
type Capabilities interface {
	ScoreSentiment(ctx context.Context, text string) (float64, error)
	Classify(ctx context.Context, text string, categories []string) ([]string, error)
	SummarizeAll(ctx context.Context, texts []string, instruction string) (string, error)
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// ReviewAnalysis is the per-review result.
type ReviewAnalysis struct {
	Text      string  `json:"text"`
	Sentiment float64 `json:"sentiment"`
	Label     string  `json:"label"`
	Category  string  `json:"category"`
}

// Analyzer runs sentiment scoring and category classification per review,
// plus corpus-level summarization.
type Analyzer struct {
	Caps               Capabilities
	Categories         []string
	TargetLang         string
	SummaryInstruction string
}

// DefaultCategories cover the common complaint and praise themes for a
// retail catalog.
var DefaultCategories = []string{"product quality", "shipping", "customer service", "pricing", "other"}

func New(caps Capabilities, categories []string, targetLang, summaryInstruction string) *Analyzer {
	if len(categories) == 0 {
		categories = DefaultCategories
	}
	if summaryInstruction == "" {
		summaryInstruction = "Summarize the recurring themes across these customer reviews in a few sentences."
	}
	return &Analyzer{Caps: caps, Categories: categories, TargetLang: targetLang, SummaryInstruction: summaryInstruction}
}

// AnalyzeReview translates, scores, and categorizes one review. Sentiment
// scores map to labels at the +-0.1 thresholds.
func (a *Analyzer) AnalyzeReview(ctx context.Context, text string) (*ReviewAnalysis, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("review text is empty")
	}
	// the scoring and classification functions work best on english input,
	// translation is best-effort: on failure the raw text is scored
	scored := text
	if a.TargetLang != "" && a.TargetLang != "en" {
		translated, err := a.Caps.Translate(ctx, text, a.TargetLang, "en")
		if err != nil || strings.TrimSpace(translated) == "" {
			logger.Warnf("review translation failed, scoring original text: %v", err)
		} else {
			scored = translated
		}
	}
	score, err := a.Caps.ScoreSentiment(ctx, scored)
	if err != nil {
		return nil, fmt.Errorf("score sentiment: %w", err)
	}
	labels, err := a.Caps.Classify(ctx, scored, a.Categories)
	if err != nil {
		return nil, fmt.Errorf("classify review: %w", err)
	}
	category := "other"
	if len(labels) > 0 && labels[0] != "" {
		category = labels[0]
	}
	return &ReviewAnalysis{
		Text:      text,
		Sentiment: score,
		Label:     SentimentLabel(score),
		Category:  category,
	}, nil
}

// SentimentLabel buckets a score in [-1, 1] into a coarse label.
func SentimentLabel(score float64) string {
	switch {
	case score > 0.1:
		return "positive"
	case score < -0.1:
		return "negative"
	default:
		return "neutral"
	}
}

// SummarizeReviews produces one summary across all reviews, translated to
// TargetLang when configured. Translation is best-effort: on failure the
// untranslated summary is returned.
func (a *Analyzer) SummarizeReviews(ctx context.Context, texts []string) (string, error) {
	if len(texts) == 0 {
		return "", fmt.Errorf("no reviews to summarize")
	}
	summary, err := a.Caps.SummarizeAll(ctx, texts, a.SummaryInstruction)
	if err != nil {
		return "", fmt.Errorf("summarize reviews: %w", err)
	}
	if a.TargetLang != "" && a.TargetLang != "en" {
		translated, err := a.Caps.Translate(ctx, summary, "en", a.TargetLang)
		if err != nil || strings.TrimSpace(translated) == "" {
			logger.Warnf("summary translation failed, returning english summary: %v", err)
			return summary, nil
		}
		return translated, nil
	}
	return summary, nil
}
