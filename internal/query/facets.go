package query

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Facet labels offered to the user. Order matters: the default fallback
// keyword list walks facets in this order.
const (
	FacetImporters    = "Importers"
	FacetDistributors = "Distributors / Wholesalers"
	FacetSuppliers    = "Suppliers / Manufacturers"
	FacetFulfillment  = "Fulfillment / 3PL"
	FacetLogistics    = "Logistics & Freight"
	FacetEcommerce    = "E-commerce / Online Retail"
)

// FacetTable maps facet labels to their representative search keywords.
type FacetTable struct {
	order    []string
	keywords map[string][]string
}

// DefaultFacets returns the built-in facet table.
func DefaultFacets() *FacetTable {
	return &FacetTable{
		order: []string{
			FacetImporters,
			FacetDistributors,
			FacetSuppliers,
			FacetFulfillment,
			FacetLogistics,
			FacetEcommerce,
		},
		keywords: map[string][]string{
			FacetImporters:    {"importer", "import company"},
			FacetDistributors: {"distributor", "wholesale", "wholesaler"},
			FacetSuppliers:    {"supplier", "manufacturer", "factory"},
			FacetFulfillment:  {"fulfillment center", "3pl", "order fulfillment"},
			FacetLogistics:    {"logistics", "freight", "shipping company", "forwarder"},
			FacetEcommerce:    {"ecommerce", "online store", "online retailer"},
		},
	}
}

// Labels returns all facet labels in table order.
func (t *FacetTable) Labels() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Keywords returns the keyword list for a facet label, or nil if the label
// is unknown.
func (t *FacetTable) Keywords(label string) []string {
	return t.keywords[label]
}

// LoadFacets reads a facet table override from a YAML file of the form:
//
//	facets:
//	  - label: "Distributors / Wholesalers"
//	    keywords: [distributor, wholesale]
func LoadFacets(path string) (*FacetTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "query: read facets file %s", path)
	}

	var doc struct {
		Facets []struct {
			Label    string   `yaml:"label"`
			Keywords []string `yaml:"keywords"`
		} `yaml:"facets"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "query: parse facets file")
	}
	if len(doc.Facets) == 0 {
		return nil, eris.Errorf("query: facets file %s defines no facets", path)
	}

	t := &FacetTable{keywords: make(map[string][]string, len(doc.Facets))}
	for _, f := range doc.Facets {
		if f.Label == "" || len(f.Keywords) == 0 {
			continue
		}
		if _, dup := t.keywords[f.Label]; dup {
			continue
		}
		t.order = append(t.order, f.Label)
		t.keywords[f.Label] = f.Keywords
	}
	if len(t.order) == 0 {
		return nil, eris.Errorf("query: facets file %s has no usable entries", path)
	}
	return t, nil
}
