package retriever

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/snowretail/cortex-assistant/common/httpx"
)

func TestBM25Retriever_Search(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode(map[string]any{"hits": map[string]any{"hits": []map[string]any{
			{"_id": "1", "_score": 2.5, "_source": map[string]any{
				"title": "Returns Policy", "content": "30 days", "document_type": "policy", "department": "support",
			}},
		}}})
	}))
	defer srv.Close()

	r := &BM25Retriever{Endpoint: srv.URL, Index: "docs", Client: httpx.NewFromConfig(nil)}
	filter := NewFilter([]string{"support"}, []string{"policy", "faq"})
	passages, err := r.Search(context.Background(), "returns", 5, filter)
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(passages) != 1 || passages[0].Title != "Returns Policy" || passages[0].Department != "support" {
		t.Fatalf("unexpected passages: %+v", passages)
	}
	if body["size"].(float64) != 5 {
		t.Fatalf("size = %v", body["size"])
	}
	boolQuery := body["query"].(map[string]any)["bool"].(map[string]any)
	filters, ok := boolQuery["filter"].([]any)
	if !ok || len(filters) != 2 {
		t.Fatalf("expected two terms filters, got %v", boolQuery["filter"])
	}
}

func TestBM25Retriever_NoFilterClauseWhenEmpty(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode(map[string]any{"hits": map[string]any{"hits": []map[string]any{}}})
	}))
	defer srv.Close()

	r := &BM25Retriever{Endpoint: srv.URL, Index: "docs", Client: httpx.NewFromConfig(nil)}
	if _, err := r.Search(context.Background(), "q", 3, nil); err != nil {
		t.Fatalf("search error: %v", err)
	}
	boolQuery := body["query"].(map[string]any)["bool"].(map[string]any)
	if _, present := boolQuery["filter"]; present {
		t.Fatalf("empty filter must not emit a filter clause: %v", boolQuery)
	}
}

func TestBM25Retriever_UnconfiguredReturnsEmpty(t *testing.T) {
	r := &BM25Retriever{}
	passages, err := r.Search(context.Background(), "q", 3, nil)
	if err != nil {
		t.Fatalf("unconfigured retriever must be a no-op: %v", err)
	}
	if len(passages) != 0 {
		t.Fatalf("expected no passages, got %d", len(passages))
	}
}

func TestBM25Retriever_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := &BM25Retriever{Endpoint: srv.URL, Index: "docs", Client: httpx.NewFromConfig(nil)}
	if _, err := r.Search(context.Background(), "q", 3, nil); err == nil {
		t.Fatalf("expected error on http 500")
	}
}
