package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock satisfies it in
// tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS businesses (
	id                 BIGSERIAL PRIMARY KEY,
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
	rating             DOUBLE PRECISION,
	review_count       INTEGER NOT NULL DEFAULT 0,
	likely_delivery    BOOLEAN NOT NULL DEFAULT FALSE,
	worldwide_shipping BOOLEAN NOT NULL DEFAULT FALSE,
	is_logistics       BOOLEAN NOT NULL DEFAULT FALSE,
	source_place_id    TEXT,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE(name, address)
);

CREATE TABLE IF NOT EXISTS searches (
	id           UUID PRIMARY KEY,
	term         TEXT,
	location     TEXT NOT NULL,
	facets       TEXT,
	query_count  INTEGER NOT NULL DEFAULT 0,
	result_count INTEGER NOT NULL DEFAULT 0,
	email_count  INTEGER NOT NULL DEFAULT 0,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_businesses_email ON businesses(email);
CREATE INDEX IF NOT EXISTS idx_businesses_domain ON businesses(domain);
CREATE INDEX IF NOT EXISTS idx_searches_created_at ON searches(created_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

const upsertLeadSQL = `
INSERT INTO businesses (
	name, category, phone, email, email_source, contact_role,
	website, domain, address, external_url, rating, review_count,
	likely_delivery, worldwide_shipping, is_logistics, source_place_id,
	created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $17)
ON CONFLICT (name, address) DO UPDATE SET
	category = EXCLUDED.category,
	phone = EXCLUDED.phone,
	email = EXCLUDED.email,
	email_source = EXCLUDED.email_source,
	contact_role = EXCLUDED.contact_role,
	website = EXCLUDED.website,
	domain = EXCLUDED.domain,
	external_url = EXCLUDED.external_url,
	rating = EXCLUDED.rating,
	review_count = EXCLUDED.review_count,
	likely_delivery = EXCLUDED.likely_delivery,
	worldwide_shipping = EXCLUDED.worldwide_shipping,
	is_logistics = EXCLUDED.is_logistics,
	source_place_id = EXCLUDED.source_place_id,
	updated_at = EXCLUDED.updated_at
RETURNING (xmax = 0)`

// UpsertLead inserts the record or updates the row with the same
// (name, address). The xmax trick distinguishes insert from update without a
// second round trip.
func (s *PostgresStore) UpsertLead(ctx context.Context, rec *model.BusinessRecord) (bool, error) {
	now := time.Now().UTC()

	var inserted bool
	err := s.pool.QueryRow(ctx, upsertLeadSQL,
		rec.Name, rec.Category, rec.Phone, rec.Email, string(rec.EmailSource), rec.ContactRole,
		rec.Website, rec.Domain, rec.Address, rec.ExternalURL, rec.Rating, rec.ReviewCount,
		rec.LikelyDelivery, rec.PotentialWorldwideShipping, rec.IsLogistics, rec.SourcePlaceID,
		now,
	).Scan(&inserted)
	if err != nil {
		return false, eris.Wrapf(err, "postgres: upsert lead %s", rec.Name)
	}
	return inserted, nil
}

func (s *PostgresStore) SaveAll(ctx context.Context, recs []model.BusinessRecord) (int, int, error) {
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

func (s *PostgresStore) ListLeads(ctx context.Context, filter LeadFilter) ([]model.LeadRow, error) {
	query := `SELECT id, name, category, phone, email, email_source, contact_role,
		website, domain, address, external_url, rating, review_count,
		likely_delivery, worldwide_shipping, is_logistics, source_place_id,
		created_at, updated_at
	FROM businesses WHERE TRUE`

	if filter.WithEmailOnly {
		query += ` AND email IS NOT NULL AND email != ''`
	}
	if filter.WorldwideOnly {
		query += ` AND worldwide_shipping`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args := []any{limit}
	query += ` LIMIT $1`

	if filter.Offset > 0 {
		query += ` OFFSET $2`
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list leads")
	}
	defer rows.Close()

	var leads []model.LeadRow
	for rows.Next() {
		var l model.LeadRow
		var category, phone, email, contactRole, website, domain, externalURL, placeID *string
		var rating *float64
		var emailSource string

		err := rows.Scan(
			&l.ID, &l.Business.Name, &category, &phone, &email, &emailSource, &contactRole,
			&website, &domain, &l.Business.Address, &externalURL, &rating, &l.Business.ReviewCount,
			&l.Business.LikelyDelivery, &l.Business.PotentialWorldwideShipping, &l.Business.IsLogistics,
			&placeID, &l.CreatedAt, &l.UpdatedAt,
		)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan lead")
		}

		l.Business.EmailSource = model.EmailSource(emailSource)
		assignString(&l.Business.Category, category)
		assignString(&l.Business.Phone, phone)
		assignString(&l.Business.Email, email)
		assignString(&l.Business.ContactRole, contactRole)
		assignString(&l.Business.Website, website)
		assignString(&l.Business.Domain, domain)
		assignString(&l.Business.ExternalURL, externalURL)
		assignString(&l.Business.SourcePlaceID, placeID)
		if rating != nil {
			l.Business.Rating = *rating
		}
		leads = append(leads, l)
	}
	return leads, eris.Wrap(rows.Err(), "postgres: list leads iterate")
}

func assignString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func (s *PostgresStore) Stats(ctx context.Context) (*model.LeadStats, error) {
	var st model.LeadStats
	err := s.pool.QueryRow(ctx,
		`SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE email IS NOT NULL AND email != ''),
			COUNT(*) FILTER (WHERE likely_delivery),
			COUNT(*) FILTER (WHERE worldwide_shipping)
		FROM businesses`,
	).Scan(&st.Total, &st.WithEmail, &st.LikelyDelivery, &st.Worldwide)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: stats")
	}
	return &st, nil
}

func (s *PostgresStore) RecordSearch(ctx context.Context, run *model.SearchRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO searches (id, term, location, facets, query_count, result_count, email_count, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		run.ID, run.Term, run.Location, strings.Join(run.Facets, ","),
		run.QueryCount, run.ResultCount, run.EmailCount, run.CreatedAt,
	)
	return eris.Wrap(err, "postgres: record search")
}

func (s *PostgresStore) ListSearches(ctx context.Context, limit int) ([]model.SearchRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, term, location, facets, query_count, result_count, email_count, created_at
		 FROM searches ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list searches")
	}
	defer rows.Close()

	var runs []model.SearchRun
	for rows.Next() {
		var r model.SearchRun
		var term, facets *string
		if err := rows.Scan(&r.ID, &term, &r.Location, &facets, &r.QueryCount, &r.ResultCount, &r.EmailCount, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan search")
		}
		assignString(&r.Term, term)
		if facets != nil && *facets != "" {
			r.Facets = strings.Split(*facets, ",")
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list searches iterate")
}
