package retriever

import "sort"

// Filter is a set of attribute-equality constraints: values of the same
// attribute combine with OR, distinct attributes combine with AND. An empty
// filter matches all documents.
type Filter map[string][]string

// NewFilter builds a filter from the two standard attributes, skipping
// empty slices so unset selections impose no constraint.
func NewFilter(departments, documentTypes []string) Filter {
	f := Filter{}
	if len(departments) > 0 {
		f[AttrDepartment] = departments
	}
	if len(documentTypes) > 0 {
		f[AttrDocumentType] = documentTypes
	}
	return f
}

// IsEmpty reports whether the filter imposes no constraint.
func (f Filter) IsEmpty() bool {
	for _, vals := range f {
		if len(vals) > 0 {
			return false
		}
	}
	return true
}

// Compile lowers the filter into the search service's expression grammar:
//
//	one attribute, one value   -> {"@eq": {attr: value}}
//	one attribute, many values -> {"@or": [eq, eq, ...]}
//	many attributes            -> {"@and": [expr, expr, ...]}
//
// An empty filter compiles to nil so no predicate is sent at all, rather
// than an always-true predicate. Attributes are visited in sorted order so
// the compiled expression is deterministic.
func (f Filter) Compile() map[string]any {
	attrs := make([]string, 0, len(f))
	for attr, vals := range f {
		if len(vals) > 0 {
			attrs = append(attrs, attr)
		}
	}
	if len(attrs) == 0 {
		return nil
	}
	sort.Strings(attrs)

	exprs := make([]map[string]any, 0, len(attrs))
	for _, attr := range attrs {
		exprs = append(exprs, compileAttr(attr, f[attr]))
	}
	if len(exprs) == 1 {
		return exprs[0]
	}
	return map[string]any{"@and": exprs}
}

func compileAttr(attr string, values []string) map[string]any {
	if len(values) == 1 {
		return eqNode(attr, values[0])
	}
	ors := make([]map[string]any, 0, len(values))
	for _, v := range values {
		ors = append(ors, eqNode(attr, v))
	}
	return map[string]any{"@or": ors}
}

func eqNode(attr, value string) map[string]any {
	return map[string]any{"@eq": map[string]any{attr: value}}
}
