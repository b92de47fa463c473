package schema

import "errors"

// Passage is one retrieved unit of source text with its provenance metadata.
// Rank is implicit: the position inside the slice returned by a retriever,
// in descending relevance order. Passages are never mutated after retrieval.
type Passage struct {
	Title        string `json:"title"`
	Content      string `json:"content"`
	DocumentType string `json:"document_type"`
	Department   string `json:"department"`
}

// Titles returns the passage titles in rank order.
func Titles(passages []Passage) []string {
	if len(passages) == 0 {
		return nil
	}
	out := make([]string, 0, len(passages))
	for _, p := range passages {
		out = append(out, p.Title)
	}
	return out
}

// Error taxonomy for calls against the warehouse platform.
//
// ErrServiceUnavailable covers failed or timed-out calls; the pipeline never
// retries these itself. ErrMalformedResponse marks responses missing expected
// fields and propagates the same way as a service failure.
var (
	ErrServiceUnavailable = errors.New("cortex service unavailable")
	ErrMalformedResponse  = errors.New("malformed cortex response")
)
