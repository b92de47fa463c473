package retriever

import (
	"reflect"
	"testing"
)

func TestFilterCompile_Empty(t *testing.T) {
	if got := NewFilter(nil, nil).Compile(); got != nil {
		t.Fatalf("empty filter should compile to nil, got %v", got)
	}
	if got := (Filter{}).Compile(); got != nil {
		t.Fatalf("zero filter should compile to nil, got %v", got)
	}
}

func TestFilterCompile_SingleValue(t *testing.T) {
	f := NewFilter([]string{"electronics"}, nil)
	want := map[string]any{"@eq": map[string]any{AttrDepartment: "electronics"}}
	if got := f.Compile(); !reflect.DeepEqual(got, want) {
		t.Fatalf("single value filter: got %v want %v", got, want)
	}
}

func TestFilterCompile_MultiValueOneAttr(t *testing.T) {
	f := NewFilter([]string{"electronics", "toys"}, nil)
	want := map[string]any{"@or": []map[string]any{
		{"@eq": map[string]any{AttrDepartment: "electronics"}},
		{"@eq": map[string]any{AttrDepartment: "toys"}},
	}}
	if got := f.Compile(); !reflect.DeepEqual(got, want) {
		t.Fatalf("multi value filter: got %v want %v", got, want)
	}
}

func TestFilterCompile_MultiAttr(t *testing.T) {
	f := NewFilter([]string{"electronics"}, []string{"faq", "policy"})
	// attributes combine under @and in a stable order
	want := map[string]any{"@and": []map[string]any{
		{"@eq": map[string]any{AttrDepartment: "electronics"}},
		{"@or": []map[string]any{
			{"@eq": map[string]any{AttrDocumentType: "faq"}},
			{"@eq": map[string]any{AttrDocumentType: "policy"}},
		}},
	}}
	if got := f.Compile(); !reflect.DeepEqual(got, want) {
		t.Fatalf("multi attr filter: got %v want %v", got, want)
	}
}

func TestFilterCompile_Deterministic(t *testing.T) {
	f := NewFilter([]string{"a", "b"}, []string{"x"})
	first := f.Compile()
	for i := 0; i < 10; i++ {
		if got := f.Compile(); !reflect.DeepEqual(got, first) {
			t.Fatalf("compile not deterministic: got %v want %v", got, first)
		}
	}
}

func TestFilterIsEmpty(t *testing.T) {
	if !NewFilter(nil, nil).IsEmpty() {
		t.Fatalf("filter without values should be empty")
	}
	if NewFilter([]string{"electronics"}, nil).IsEmpty() {
		t.Fatalf("filter with values should not be empty")
	}
}
