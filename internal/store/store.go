// Package store persists leads and search audit rows behind a small
// interface with SQLite and PostgreSQL implementations.
package store

import (
	"context"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// LeadFilter specifies criteria for listing saved leads.
type LeadFilter struct {
	WithEmailOnly bool `json:"with_email_only,omitempty"`
	WorldwideOnly bool `json:"worldwide_only,omitempty"`
	Limit         int  `json:"limit,omitempty"`
	Offset        int  `json:"offset,omitempty"`
}

// Store defines the persistence interface for the lead pipeline.
//
// Lead identity is the (name, address) pair: saving a record that matches an
// existing row updates it in place and preserves created_at.
type Store interface {
	// Leads
	UpsertLead(ctx context.Context, rec *model.BusinessRecord) (inserted bool, err error)
	SaveAll(ctx context.Context, recs []model.BusinessRecord) (inserted, updated int, err error)
	ListLeads(ctx context.Context, filter LeadFilter) ([]model.LeadRow, error)
	Stats(ctx context.Context) (*model.LeadStats, error)

	// Search audit log
	RecordSearch(ctx context.Context, run *model.SearchRun) error
	ListSearches(ctx context.Context, limit int) ([]model.SearchRun, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
