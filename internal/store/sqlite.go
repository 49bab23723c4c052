package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS businesses (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	name               TEXT NOT NULL,
	category           TEXT,
	phone              TEXT,
	email              TEXT,
	email_source       TEXT NOT NULL DEFAULT 'none',
	contact_role       TEXT,
	website            TEXT,
	domain             TEXT,
	address            TEXT NOT NULL DEFAULT '',
	external_url       TEXT,
	rating             REAL,
	review_count       INTEGER NOT NULL DEFAULT 0,
	likely_delivery    INTEGER NOT NULL DEFAULT 0,
	worldwide_shipping INTEGER NOT NULL DEFAULT 0,
	is_logistics       INTEGER NOT NULL DEFAULT 0,
	source_place_id    TEXT,
	created_at         DATETIME NOT NULL,
	updated_at         DATETIME NOT NULL,
	UNIQUE(name, address)
);

CREATE TABLE IF NOT EXISTS searches (
	id           TEXT PRIMARY KEY,
	term         TEXT,
	location     TEXT NOT NULL,
	facets       TEXT,
	query_count  INTEGER NOT NULL DEFAULT 0,
	result_count INTEGER NOT NULL DEFAULT 0,
	email_count  INTEGER NOT NULL DEFAULT 0,
	created_at   DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_businesses_email ON businesses(email);
CREATE INDEX IF NOT EXISTS idx_businesses_domain ON businesses(domain);
CREATE INDEX IF NOT EXISTS idx_searches_created_at ON searches(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// UpsertLead inserts the record or, when a row with the same (name, address)
// exists, updates it in place. created_at is preserved on update.
func (s *SQLiteStore) UpsertLead(ctx context.Context, rec *model.BusinessRecord) (bool, error) {
	now := time.Now().UTC()

	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM businesses WHERE name = ? AND address = ?`,
		rec.Name, rec.Address,
	).Scan(&id)

	switch {
	case err == sql.ErrNoRows:
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO businesses (
				name, category, phone, email, email_source, contact_role,
				website, domain, address, external_url, rating, review_count,
				likely_delivery, worldwide_shipping, is_logistics, source_place_id,
				created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.Name, rec.Category, rec.Phone, rec.Email, string(rec.EmailSource), rec.ContactRole,
			rec.Website, rec.Domain, rec.Address, rec.ExternalURL, rec.Rating, rec.ReviewCount,
			rec.LikelyDelivery, rec.PotentialWorldwideShipping, rec.IsLogistics, rec.SourcePlaceID,
			now, now,
		)
		if err != nil {
			return false, eris.Wrapf(err, "sqlite: insert lead %s", rec.Name)
		}
		return true, nil

	case err != nil:
		return false, eris.Wrapf(err, "sqlite: lookup lead %s", rec.Name)

	default:
		_, err := s.db.ExecContext(ctx,
			`UPDATE businesses SET
				category = ?, phone = ?, email = ?, email_source = ?, contact_role = ?,
				website = ?, domain = ?, external_url = ?, rating = ?, review_count = ?,
				likely_delivery = ?, worldwide_shipping = ?, is_logistics = ?,
				source_place_id = ?, updated_at = ?
			WHERE id = ?`,
			rec.Category, rec.Phone, rec.Email, string(rec.EmailSource), rec.ContactRole,
			rec.Website, rec.Domain, rec.ExternalURL, rec.Rating, rec.ReviewCount,
			rec.LikelyDelivery, rec.PotentialWorldwideShipping, rec.IsLogistics,
			rec.SourcePlaceID, now, id,
		)
		if err != nil {
			return false, eris.Wrapf(err, "sqlite: update lead %s", rec.Name)
		}
		return false, nil
	}
}

// SaveAll upserts every record and reports how many were new versus updated.
// The first error aborts the batch.
func (s *SQLiteStore) SaveAll(ctx context.Context, recs []model.BusinessRecord) (int, int, error) {
	var inserted, updated int
	for i := range recs {
		isNew, err := s.UpsertLead(ctx, &recs[i])
		if err != nil {
			return inserted, updated, err
		}
		if isNew {
			inserted++
		} else {
			updated++
		}
	}
	return inserted, updated, nil
}

const leadColumns = `id, name, category, phone, email, email_source, contact_role,
	website, domain, address, external_url, rating, review_count,
	likely_delivery, worldwide_shipping, is_logistics, source_place_id,
	created_at, updated_at`

func (s *SQLiteStore) ListLeads(ctx context.Context, filter LeadFilter) ([]model.LeadRow, error) {
	query := `SELECT ` + leadColumns + ` FROM businesses WHERE 1=1`
	var args []any

	if filter.WithEmailOnly {
		query += ` AND email IS NOT NULL AND email != ''`
	}
	if filter.WorldwideOnly {
		query += ` AND worldwide_shipping = 1`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list leads")
	}
	defer rows.Close()

	var leads []model.LeadRow
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *lead)
	}
	return leads, eris.Wrap(rows.Err(), "sqlite: list leads iterate")
}

func scanLead(rows *sql.Rows) (*model.LeadRow, error) {
	var l model.LeadRow
	var category, phone, email, contactRole, website, domain, externalURL, placeID sql.NullString
	var rating sql.NullFloat64
	var emailSource string

	err := rows.Scan(
		&l.ID, &l.Business.Name, &category, &phone, &email, &emailSource, &contactRole,
		&website, &domain, &l.Business.Address, &externalURL, &rating, &l.Business.ReviewCount,
		&l.Business.LikelyDelivery, &l.Business.PotentialWorldwideShipping, &l.Business.IsLogistics,
		&placeID, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan lead")
	}

	l.Business.Category = category.String
	l.Business.Phone = phone.String
	l.Business.Email = email.String
	l.Business.EmailSource = model.EmailSource(emailSource)
	l.Business.ContactRole = contactRole.String
	l.Business.Website = website.String
	l.Business.Domain = domain.String
	l.Business.ExternalURL = externalURL.String
	l.Business.Rating = rating.Float64
	l.Business.SourcePlaceID = placeID.String
	return &l, nil
}

func (s *SQLiteStore) Stats(ctx context.Context) (*model.LeadStats, error) {
	var st model.LeadStats
	err := s.db.QueryRowContext(ctx,
		`SELECT
			COUNT(*),
			COUNT(CASE WHEN email IS NOT NULL AND email != '' THEN 1 END),
			COUNT(CASE WHEN likely_delivery = 1 THEN 1 END),
			COUNT(CASE WHEN worldwide_shipping = 1 THEN 1 END)
		FROM businesses`,
	).Scan(&st.Total, &st.WithEmail, &st.LikelyDelivery, &st.Worldwide)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: stats")
	}
	return &st, nil
}

func (s *SQLiteStore) RecordSearch(ctx context.Context, run *model.SearchRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO searches (id, term, location, facets, query_count, result_count, email_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Term, run.Location, strings.Join(run.Facets, ","),
		run.QueryCount, run.ResultCount, run.EmailCount, run.CreatedAt,
	)
	return eris.Wrap(err, "sqlite: record search")
}

func (s *SQLiteStore) ListSearches(ctx context.Context, limit int) ([]model.SearchRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, term, location, facets, query_count, result_count, email_count, created_at
		 FROM searches ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list searches")
	}
	defer rows.Close()

	var runs []model.SearchRun
	for rows.Next() {
		var r model.SearchRun
		var term, facets sql.NullString
		if err := rows.Scan(&r.ID, &term, &r.Location, &facets, &r.QueryCount, &r.ResultCount, &r.EmailCount, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan search")
		}
		r.Term = term.String
		if facets.String != "" {
			r.Facets = strings.Split(facets.String, ",")
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list searches iterate")
}
