package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/model"
)

func newTestSQLite(t *testing.T) Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func sampleLead() model.BusinessRecord {
	return model.BusinessRecord{
		Name:           "Acme Wholesale",
		Category:       "store, point_of_interest",
		Phone:          "+1 512-555-0100",
		Website:        "https://acmewholesale.com",
		Domain:         "acmewholesale.com",
		Address:        "100 Commerce Way, Austin, TX",
		ExternalURL:    "https://www.google.com/maps/place/?q=place_id:p1",
		Rating:         4.4,
		ReviewCount:    120,
		LikelyDelivery: true,
		EmailSource:    model.EmailSourceNone,
		SourcePlaceID:  "p1",
	}
}

func TestSQLiteUpsertLead(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	t.Run("InsertThenUpdate", func(t *testing.T) {
		rec := sampleLead()

		inserted, err := s.UpsertLead(ctx, &rec)
		require.NoError(t, err)
		assert.True(t, inserted)

		leads, err := s.ListLeads(ctx, LeadFilter{})
		require.NoError(t, err)
		require.Len(t, leads, 1)
		created := leads[0].CreatedAt

		// Same (name, address) with enrichment applied: one row, updated in
		// place, created_at preserved.
		time.Sleep(10 * time.Millisecond)
		rec.Email = "info@acmewholesale.com"
		rec.EmailSource = model.EmailSourceScraped
		rec.Rating = 4.6

		inserted, err = s.UpsertLead(ctx, &rec)
		require.NoError(t, err)
		assert.False(t, inserted)

		leads, err = s.ListLeads(ctx, LeadFilter{})
		require.NoError(t, err)
		require.Len(t, leads, 1)
		got := leads[0]
		assert.Equal(t, "info@acmewholesale.com", got.Business.Email)
		assert.Equal(t, model.EmailSourceScraped, got.Business.EmailSource)
		assert.InDelta(t, 4.6, got.Business.Rating, 0.001)
		assert.Equal(t, created, got.CreatedAt)
		assert.True(t, got.UpdatedAt.After(got.CreatedAt))
	})

	t.Run("SameNameDifferentAddressIsNewRow", func(t *testing.T) {
		rec := sampleLead()
		rec.Address = "200 Other St, Dallas, TX"

		inserted, err := s.UpsertLead(ctx, &rec)
		require.NoError(t, err)
		assert.True(t, inserted)

		leads, err := s.ListLeads(ctx, LeadFilter{})
		require.NoError(t, err)
		assert.Len(t, leads, 2)
	})
}

func TestSQLiteSaveAll(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	first := sampleLead()
	second := sampleLead()
	second.Name = "Beta Freight"
	second.Address = "2 Side St"

	inserted, updated, err := s.SaveAll(ctx, []model.BusinessRecord{first, second})
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)
	assert.Equal(t, 0, updated)

	first.Email = "sales@acmewholesale.com"
	inserted, updated, err = s.SaveAll(ctx, []model.BusinessRecord{first, second})
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)
	assert.Equal(t, 2, updated)
}

func TestSQLiteListLeadsFilters(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	withEmail := sampleLead()
	withEmail.Email = "info@acmewholesale.com"
	withEmail.EmailSource = model.EmailSourceVerified

	worldwide := sampleLead()
	worldwide.Name = "Global Logistics Inc"
	worldwide.Address = "3 Port Rd"
	worldwide.PotentialWorldwideShipping = true
	worldwide.IsLogistics = true

	plain := sampleLead()
	plain.Name = "Corner Shop"
	plain.Address = "4 Corner St"
	plain.LikelyDelivery = false

	_, _, err := s.SaveAll(ctx, []model.BusinessRecord{withEmail, worldwide, plain})
	require.NoError(t, err)

	leads, err := s.ListLeads(ctx, LeadFilter{WithEmailOnly: true})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Acme Wholesale", leads[0].Business.Name)

	leads, err = s.ListLeads(ctx, LeadFilter{WorldwideOnly: true})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Global Logistics Inc", leads[0].Business.Name)

	leads, err = s.ListLeads(ctx, LeadFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, leads, 2)
}

func TestSQLiteStats(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	withEmail := sampleLead()
	withEmail.Email = "info@acmewholesale.com"

	worldwide := sampleLead()
	worldwide.Name = "Global Logistics Inc"
	worldwide.Address = "3 Port Rd"
	worldwide.PotentialWorldwideShipping = true

	_, _, err := s.SaveAll(ctx, []model.BusinessRecord{withEmail, worldwide})
	require.NoError(t, err)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Total)
	assert.Equal(t, 1, st.WithEmail)
	assert.Equal(t, 2, st.LikelyDelivery)
	assert.Equal(t, 1, st.Worldwide)
}

func TestSQLiteRecordSearch(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	run := &model.SearchRun{
		Term:        "packaging",
		Location:    "Austin, TX",
		Facets:      []string{"Importers", "Logistics & Freight"},
		QueryCount:  6,
		ResultCount: 40,
		EmailCount:  12,
	}
	require.NoError(t, s.RecordSearch(ctx, run))
	assert.NotEmpty(t, run.ID)

	runs, err := s.ListSearches(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, "Austin, TX", runs[0].Location)
	assert.Equal(t, []string{"Importers", "Logistics & Freight"}, runs[0].Facets)
	assert.Equal(t, 40, runs[0].ResultCount)
}
