package query

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSingleFacet(t *testing.T) {
	b := NewBuilder(nil)

	queries := b.Build("packaging", []string{FacetImporters}, "Austin, TX")
	assert.Equal(t, []string{
		"importer packaging in Austin, TX",
		"import company packaging in Austin, TX",
	}, queries)
}

func TestBuildWithoutTerm(t *testing.T) {
	b := NewBuilder(nil)

	queries := b.Build("", []string{FacetImporters}, "Austin, TX")
	assert.Equal(t, "importer in Austin, TX", queries[0])
}

func TestBuildEmptySelectionUsesAllFacets(t *testing.T) {
	b := NewBuilder(nil)

	queries := b.Build("coffee", nil, "Seattle, WA")
	require.NotEmpty(t, queries)

	// One query per keyword across the whole table.
	var total int
	for _, label := range DefaultFacets().Labels() {
		total += len(DefaultFacets().Keywords(label))
	}
	assert.Len(t, queries, total)
}

func TestBuildUnknownFacetsFallBack(t *testing.T) {
	b := NewBuilder(nil)

	known := b.Build("coffee", []string{FacetLogistics}, "Seattle, WA")
	assert.NotEmpty(t, known)

	// Unknown labels contribute nothing; an all-unknown selection falls back
	// to the full table rather than producing zero queries.
	mixed := b.Build("coffee", []string{"Bogus", FacetLogistics}, "Seattle, WA")
	assert.Equal(t, known, mixed)

	allUnknown := b.Build("coffee", []string{"Bogus"}, "Seattle, WA")
	assert.Equal(t, b.Build("coffee", nil, "Seattle, WA"), allUnknown)
}

func TestBuildDeduplicatesRepeatedFacets(t *testing.T) {
	b := NewBuilder(nil)

	once := b.Build("coffee", []string{FacetImporters}, "Seattle, WA")
	twice := b.Build("coffee", []string{FacetImporters, FacetImporters}, "Seattle, WA")
	assert.Equal(t, once, twice)
}

func TestBuildIsDeterministic(t *testing.T) {
	b := NewBuilder(nil)

	first := b.Build("coffee", nil, "Seattle, WA")
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, b.Build("coffee", nil, "Seattle, WA"))
	}
}

func TestFacetHint(t *testing.T) {
	assert.Equal(t, "", FacetHint(nil))
	assert.Equal(t, "Importers", FacetHint([]string{"Importers"}))
	assert.Equal(t, "Importers Logistics & Freight", FacetHint([]string{"Importers", "Logistics & Freight"}))
}

func TestLoadFacets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "facets.yaml")
	content := `facets:
  - label: "Craft Makers"
    keywords: [maker, artisan]
  - label: "Roasters"
    keywords: [coffee roaster]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table, err := LoadFacets(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Craft Makers", "Roasters"}, table.Labels())
	assert.Equal(t, []string{"maker", "artisan"}, table.Keywords("Craft Makers"))

	b := NewBuilder(table)
	queries := b.Build("", []string{"Roasters"}, "Portland, OR")
	assert.Equal(t, []string{"coffee roaster in Portland, OR"}, queries)
}

func TestLoadFacetsErrors(t *testing.T) {
	_, err := LoadFacets(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("facets: []\n"), 0o644))
	_, err = LoadFacets(empty)
	assert.Error(t, err)
}
