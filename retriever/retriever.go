package retriever

import (
	"context"

	"github.com/snowretail/cortex-assistant/schema"
)

// Retriever defines a unified filtered search interface across backends.
// Implementations return passages in descending relevance order, at most
// limit of them, and an empty slice (not an error) on zero matches.
type Retriever interface {
	Type() string
	Search(ctx context.Context, query string, limit int, filter Filter) ([]schema.Passage, error)
}

// Attribute names understood by every backend.
const (
	AttrDepartment   = "department"
	AttrDocumentType = "document_type"
)
