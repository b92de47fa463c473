package retriever

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/qdrant/go-client/qdrant"
	"github.com/snowretail/cortex-assistant/schema"
)

// Embedder vectorizes a query before the vector search; the platform's
// embedding function satisfies this through a small adapter.
type Embedder interface {
	GetEmbedding(ctx context.Context, text string) ([]float32, error)
}

// QdrantRetriever searches a self-hosted vector index whose point payloads
// carry the same document attributes the managed service projects.
type QdrantRetriever struct {
	Embed      Embedder
	client     *qdrant.Client
	collection string
}

// QdrantOptions holds connection settings for the vector index.
type QdrantOptions struct {
	URL        string
	Collection string
	APIKey     string
}

// NewQdrantRetriever connects to a qdrant instance. URL accepts either
// host:port or a full http(s) URL; https implies TLS.
func NewQdrantRetriever(opts QdrantOptions, embed Embedder) (*QdrantRetriever, error) {
	if opts.URL == "" || opts.Collection == "" {
		return nil, fmt.Errorf("qdrant url and collection are required")
	}
	raw := opts.URL
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse qdrant url: %w", err)
	}
	port := 6334
	if u.Port() != "" {
		p, err := strconv.Atoi(u.Port())
		if err != nil {
			return nil, fmt.Errorf("invalid qdrant port: %w", err)
		}
		port = p
	}
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   u.Hostname(),
		Port:   port,
		APIKey: opts.APIKey,
		UseTLS: u.Scheme == "https",
	})
	if err != nil {
		return nil, fmt.Errorf("create qdrant client: %w", err)
	}
	return &QdrantRetriever{Embed: embed, client: client, collection: opts.Collection}, nil
}

func (r *QdrantRetriever) Type() string { return "qdrant" }

func (r *QdrantRetriever) Search(ctx context.Context, query string, limit int, filter Filter) ([]schema.Passage, error) {
	if limit <= 0 {
		limit = 3
	}
	vector, err := r.Embed.GetEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	limitUint64 := uint64(limit)
	points, err := r.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: r.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limitUint64,
		Filter:         qdrantFilter(filter),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: qdrant search: %v", schema.ErrServiceUnavailable, err)
	}
	out := make([]schema.Passage, 0, len(points))
	for _, point := range points {
		out = append(out, schema.Passage{
			Title:        payloadString(point.Payload, "title", "Untitled"),
			Content:      payloadString(point.Payload, "content", ""),
			DocumentType: payloadString(point.Payload, AttrDocumentType, "N/A"),
			Department:   payloadString(point.Payload, AttrDepartment, "N/A"),
		})
	}
	return out, nil
}

// Close releases the grpc connection.
func (r *QdrantRetriever) Close() error { return r.client.Close() }

// qdrantFilter lowers the attribute filter into qdrant match conditions:
// AND across attributes via Must, OR within an attribute via a keywords
// match. An empty filter produces nil so no predicate is sent.
func qdrantFilter(filter Filter) *qdrant.Filter {
	var conditions []*qdrant.Condition
	for _, attr := range []string{AttrDepartment, AttrDocumentType} {
		values := filter[attr]
		if len(values) == 0 {
			continue
		}
		var match *qdrant.Match
		if len(values) == 1 {
			match = &qdrant.Match{MatchValue: &qdrant.Match_Keyword{Keyword: values[0]}}
		} else {
			keywords := make([]string, len(values))
			copy(keywords, values)
			match = &qdrant.Match{MatchValue: &qdrant.Match_Keywords{
				Keywords: &qdrant.RepeatedStrings{Strings: keywords},
			}}
		}
		conditions = append(conditions, &qdrant.Condition{
			ConditionOneOf: &qdrant.Condition_Field{
				Field: &qdrant.FieldCondition{Key: attr, Match: match},
			},
		})
	}
	if len(conditions) == 0 {
		return nil
	}
	return &qdrant.Filter{Must: conditions}
}

func payloadString(payload map[string]*qdrant.Value, key, fallback string) string {
	if payload == nil {
		return fallback
	}
	if v, ok := payload[key]; ok {
		if s := v.GetStringValue(); s != "" {
			return s
		}
	}
	return fallback
}
