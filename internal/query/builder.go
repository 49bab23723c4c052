// Package query expands user-selected business facets into place search
// queries.
package query

import "fmt"

// Builder expands a (term, facets, location) selection into an ordered set of
// distinct search queries.
type Builder struct {
	facets *FacetTable
}

// NewBuilder creates a Builder over the given facet table.
func NewBuilder(facets *FacetTable) *Builder {
	if facets == nil {
		facets = DefaultFacets()
	}
	return &Builder{facets: facets}
}

// Build produces one query per facet keyword, in facet-selection order.
// Queries read "{keyword} {term} in {location}", or "{keyword} in {location}"
// when no term is given. Unknown facet labels contribute nothing; an empty
// selection falls back to every facet in table order. Duplicates are dropped
// keeping first-seen order, and the result is never empty.
func (b *Builder) Build(term string, facets []string, location string) []string {
	if len(facets) == 0 {
		facets = b.facets.Labels()
	}

	seen := make(map[string]struct{})
	var queries []string
	for _, facet := range facets {
		for _, kw := range b.facets.Keywords(facet) {
			q := formatQuery(kw, term, location)
			if _, ok := seen[q]; ok {
				continue
			}
			seen[q] = struct{}{}
			queries = append(queries, q)
		}
	}

	if len(queries) == 0 {
		// Every selected label was unknown; fall back to the full table.
		for _, facet := range b.facets.Labels() {
			for _, kw := range b.facets.Keywords(facet) {
				q := formatQuery(kw, term, location)
				if _, ok := seen[q]; ok {
					continue
				}
				seen[q] = struct{}{}
				queries = append(queries, q)
			}
		}
	}

	return queries
}

// FacetHint joins the selected facet labels into the free-text hint passed to
// the classifier, so the facet that found a business counts toward its flags.
func FacetHint(facets []string) string {
	hint := ""
	for i, f := range facets {
		if i > 0 {
			hint += " "
		}
		hint += f
	}
	return hint
}

func formatQuery(keyword, term, location string) string {
	if term != "" {
		return fmt.Sprintf("%s %s in %s", keyword, term, location)
	}
	return fmt.Sprintf("%s in %s", keyword, location)
}
