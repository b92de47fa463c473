package retriever

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"

	"github.com/snowretail/cortex-assistant/common/httpx"
	"github.com/snowretail/cortex-assistant/schema"
)

// BM25Retriever queries an Elasticsearch-like backend using a multi_match
// over content and title, with attribute filters lowered to terms clauses.
// Endpoint example: http://es:9200
// Index example: retail_docs
type BM25Retriever struct {
	Endpoint string
	Index    string
	Client   *httpx.Client
	MaxLimit int
}

func (r *BM25Retriever) Type() string { return "bm25" }

type esSearchRequest struct {
	Size  int                    `json:"size"`
	Query map[string]interface{} `json:"query"`
}

type esHit struct {
	ID     string                 `json:"_id"`
	Score  float64                `json:"_score"`
	Source map[string]interface{} `json:"_source"`
}
type esHits struct {
	Hits []esHit `json:"hits"`
}
type esSearchResponse struct {
	Hits esHits `json:"hits"`
}

func (r *BM25Retriever) Search(ctx context.Context, query string, limit int, filter Filter) ([]schema.Passage, error) {
	if r.Endpoint == "" || r.Index == "" {
		return []schema.Passage{}, nil
	}
	if limit <= 0 { limit = 3 }
	if r.MaxLimit > 0 && r.MaxLimit < limit { limit = r.MaxLimit }
	must := map[string]interface{}{
		"multi_match": map[string]interface{}{
			"query":  query,
			"fields": []string{"content^2", "title"},
		},
	}
	boolQuery := map[string]interface{}{"must": must}
	if terms := esTermsFilters(filter); len(terms) > 0 {
		boolQuery["filter"] = terms
	}
	q := esSearchRequest{Size: limit, Query: map[string]interface{}{"bool": boolQuery}}
	bs, _ := json.Marshal(q)
	// Build URL: {endpoint}/{index}/_search
	u, err := url.Parse(r.Endpoint)
	if err != nil { return nil, err }
	u.Path = path.Join(u.Path, r.Index, "_search")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(bs))
	if err != nil { return nil, err }
	req.Header.Set("Content-Type", "application/json")
	if r.Client == nil {
		return nil, fmt.Errorf("bm25 http client not configured")
	}
	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: bm25 search: %v", schema.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: bm25 http status %d", schema.ErrServiceUnavailable, resp.StatusCode)
	}
	var esr esSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&esr); err != nil {
		return nil, fmt.Errorf("%w: decode bm25 response: %v", schema.ErrMalformedResponse, err)
	}
	out := make([]schema.Passage, 0, len(esr.Hits.Hits))
	for _, h := range esr.Hits.Hits {
		out = append(out, schema.Passage{
			Title:        sourceString(h.Source, "title", "Untitled"),
			Content:      sourceString(h.Source, "content", ""),
			DocumentType: sourceString(h.Source, AttrDocumentType, "N/A"),
			Department:   sourceString(h.Source, AttrDepartment, "N/A"),
		})
	}
	return out, nil
}

// esTermsFilters lowers the attribute filter to one terms clause per
// attribute; terms is already OR within a field, and clauses in the bool
// filter array combine as AND.
func esTermsFilters(filter Filter) []map[string]interface{} {
	var out []map[string]interface{}
	for _, attr := range []string{AttrDepartment, AttrDocumentType} {
		values := filter[attr]
		if len(values) == 0 {
			continue
		}
		out = append(out, map[string]interface{}{
			"terms": map[string]interface{}{attr: values},
		})
	}
	return out
}

func sourceString(source map[string]interface{}, key, fallback string) string {
	if v, ok := source[key].(string); ok && v != "" {
		return v
	}
	return fallback
}
