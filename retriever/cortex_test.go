package retriever

import (
	"context"
	"fmt"
	"testing"

	"github.com/snowretail/cortex-assistant/cortex"
	"github.com/snowretail/cortex-assistant/schema"
)

type fakeSearchService struct {
	lastService string
	lastReq     cortex.SearchRequest
	results     []schema.Passage
	err         error
}

func (f *fakeSearchService) SearchDocuments(ctx context.Context, service string, req cortex.SearchRequest) ([]schema.Passage, error) {
	f.lastService = service
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func TestCortexRetriever_OmitsEmptyFilter(t *testing.T) {
	svc := &fakeSearchService{}
	r := &CortexRetriever{Service: svc, Name: "docs"}
	if _, err := r.Search(context.Background(), "refund policy", 3, nil); err != nil {
		t.Fatalf("search error: %v", err)
	}
	if svc.lastReq.Filter != nil {
		t.Fatalf("empty filter must not produce a predicate, got %v", svc.lastReq.Filter)
	}
	if svc.lastService != "docs" {
		t.Fatalf("unexpected service: %s", svc.lastService)
	}
}

func TestCortexRetriever_CompilesFilter(t *testing.T) {
	svc := &fakeSearchService{}
	r := &CortexRetriever{Service: svc, Name: "docs"}
	f := NewFilter([]string{"electronics"}, nil)
	if _, err := r.Search(context.Background(), "q", 3, f); err != nil {
		t.Fatalf("search error: %v", err)
	}
	eq, ok := svc.lastReq.Filter["@eq"].(map[string]any)
	if !ok || eq[AttrDepartment] != "electronics" {
		t.Fatalf("unexpected filter: %v", svc.lastReq.Filter)
	}
}

func TestCortexRetriever_LimitDefaultsAndBounds(t *testing.T) {
	svc := &fakeSearchService{}
	r := &CortexRetriever{Service: svc, Name: "docs", MaxLimit: 5}
	if _, err := r.Search(context.Background(), "q", 0, nil); err != nil {
		t.Fatalf("search error: %v", err)
	}
	if svc.lastReq.Limit <= 0 {
		t.Fatalf("zero limit should default, got %d", svc.lastReq.Limit)
	}
	if _, err := r.Search(context.Background(), "q", 50, nil); err != nil {
		t.Fatalf("search error: %v", err)
	}
	if svc.lastReq.Limit != 5 {
		t.Fatalf("limit should be bounded to 5, got %d", svc.lastReq.Limit)
	}
}

func TestCortexRetriever_EmptyResultsNotAnError(t *testing.T) {
	svc := &fakeSearchService{results: []schema.Passage{}}
	r := &CortexRetriever{Service: svc, Name: "docs"}
	passages, err := r.Search(context.Background(), "nothing matches", 3, nil)
	if err != nil {
		t.Fatalf("empty results must not be an error: %v", err)
	}
	if len(passages) != 0 {
		t.Fatalf("expected no passages, got %d", len(passages))
	}
}

func TestCortexRetriever_PropagatesServiceError(t *testing.T) {
	svc := &fakeSearchService{err: fmt.Errorf("wrapped: %w", schema.ErrServiceUnavailable)}
	r := &CortexRetriever{Service: svc, Name: "docs"}
	if _, err := r.Search(context.Background(), "q", 3, nil); err == nil {
		t.Fatalf("expected error from failing service")
	}
}
