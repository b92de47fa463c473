package retriever

import (
	"context"

	"github.com/snowretail/cortex-assistant/cortex"
	"github.com/snowretail/cortex-assistant/schema"
)

// SearchService is the slice of the platform client the cortex retriever
// needs; tests substitute a fake.
type SearchService interface {
	SearchDocuments(ctx context.Context, service string, req cortex.SearchRequest) ([]schema.Passage, error)
}

// CortexRetriever queries the warehouse's managed semantic search service
// with a fixed column projection and an optional compiled filter.
type CortexRetriever struct {
	Service  SearchService
	Name     string // search service name; empty uses the client default
	Columns  []string
	MaxLimit int
}

func (r *CortexRetriever) Type() string { return "cortex" }

func (r *CortexRetriever) Search(ctx context.Context, query string, limit int, filter Filter) ([]schema.Passage, error) {
	if limit <= 0 {
		limit = 3
	}
	if r.MaxLimit > 0 && limit > r.MaxLimit {
		limit = r.MaxLimit
	}
	columns := r.Columns
	if len(columns) == 0 {
		columns = []string{"title", "content", AttrDocumentType, AttrDepartment}
	}
	req := cortex.SearchRequest{
		Query:   query,
		Columns: columns,
		Limit:   limit,
		Filter:  filter.Compile(),
	}
	passages, err := r.Service.SearchDocuments(ctx, r.Name, req)
	if err != nil {
		return nil, err
	}
	if len(passages) > limit {
		passages = passages[:limit]
	}
	return passages, nil
}
