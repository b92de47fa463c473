package retriever

import (
	"testing"

	"github.com/qdrant/go-client/qdrant"
)

func TestQdrantFilter_Empty(t *testing.T) {
	if got := qdrantFilter(nil); got != nil {
		t.Fatalf("empty filter must compile to nil, got %v", got)
	}
	if got := qdrantFilter(Filter{}); got != nil {
		t.Fatalf("zero filter must compile to nil, got %v", got)
	}
}

func TestQdrantFilter_SingleValue(t *testing.T) {
	f := NewFilter([]string{"electronics"}, nil)
	got := qdrantFilter(f)
	if got == nil || len(got.Must) != 1 {
		t.Fatalf("expected one must condition, got %v", got)
	}
	field := got.Must[0].GetField()
	if field == nil || field.Key != AttrDepartment {
		t.Fatalf("unexpected condition: %v", got.Must[0])
	}
	if kw := field.Match.GetKeyword(); kw != "electronics" {
		t.Fatalf("keyword = %q", kw)
	}
}

func TestQdrantFilter_MultiValueUsesKeywords(t *testing.T) {
	f := NewFilter(nil, []string{"faq", "policy"})
	got := qdrantFilter(f)
	if got == nil || len(got.Must) != 1 {
		t.Fatalf("expected one must condition, got %v", got)
	}
	kws := got.Must[0].GetField().Match.GetKeywords()
	if kws == nil || len(kws.Strings) != 2 {
		t.Fatalf("expected keywords match with two values, got %v", got.Must[0])
	}
}

func TestQdrantFilter_MultiAttrAnds(t *testing.T) {
	f := NewFilter([]string{"toys"}, []string{"faq"})
	got := qdrantFilter(f)
	if got == nil || len(got.Must) != 2 {
		t.Fatalf("expected two must conditions, got %v", got)
	}
}

func TestPayloadString(t *testing.T) {
	payload := map[string]*qdrant.Value{
		"title": {Kind: &qdrant.Value_StringValue{StringValue: "Doc"}},
	}
	if got := payloadString(payload, "title", "Untitled"); got != "Doc" {
		t.Fatalf("got %q", got)
	}
	if got := payloadString(payload, "department", "N/A"); got != "N/A" {
		t.Fatalf("fallback failed: %q", got)
	}
	if got := payloadString(nil, "title", "Untitled"); got != "Untitled" {
		t.Fatalf("nil payload fallback failed: %q", got)
	}
}
