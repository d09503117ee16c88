package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/octobees/company-profiler/internal/dto"
	"github.com/octobees/company-profiler/internal/entity"
)

// ProfilesRepository describes persistence operations for company profiles.
type ProfilesRepository interface {
	Upsert(ctx context.Context, profile *entity.CompanyProfile) (*entity.CompanyProfile, error)
	GetByWebsite(ctx context.Context, website string) (*entity.CompanyProfile, error)
	List(ctx context.Context, filter dto.ListFilter) ([]entity.CompanyProfile, error)
	Migrate(ctx context.Context) error
}

// ErrProfileNotFound indicates there is no stored profile for the website.
var ErrProfileNotFound = errors.New("company profile not found")

// pgxPool is the subset of *pgxpool.Pool used by the repository.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ pgxPool = (*pgxpool.Pool)(nil)

// PGXProfilesRepository implements ProfilesRepository using pgx.
type PGXProfilesRepository struct {
	pool pgxPool
}

// NewPGXProfilesRepository wires a pgx backed repository.
func NewPGXProfilesRepository(pool *pgxpool.Pool) *PGXProfilesRepository {
	return &PGXProfilesRepository{pool: pool}
}

const profileColumns = `id, website, name, about, email, phones, location, socials, platform, scrape_status, last_scraped_at, created_at, updated_at`

const pgSchema = `
CREATE TABLE IF NOT EXISTS company_profiles (
    id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    website         TEXT NOT NULL UNIQUE,
    name            TEXT,
    about           TEXT,
    email           TEXT,
    phones          TEXT[] NOT NULL DEFAULT '{}',
    location        TEXT,
    socials         JSONB NOT NULL DEFAULT '{}'::jsonb,
    platform        TEXT NOT NULL DEFAULT 'unknown',
    scrape_status   TEXT NOT NULL,
    last_scraped_at TIMESTAMPTZ NOT NULL,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_company_profiles_last_scraped_at ON company_profiles (last_scraped_at DESC);
`

// Migrate creates the company_profiles table when missing.
func (r *PGXProfilesRepository) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, pgSchema); err != nil {
		return eris.Wrap(err, "postgres: migrate company_profiles")
	}
	return nil
}

// Upsert inserts or fully replaces the profile keyed by website and returns
// the stored row.
func (r *PGXProfilesRepository) Upsert(ctx context.Context, profile *entity.CompanyProfile) (*entity.CompanyProfile, error) {
	if profile == nil {
		return nil, fmt.Errorf("profile payload is nil")
	}
	if strings.TrimSpace(profile.Website) == "" {
		return nil, fmt.Errorf("profile website is empty")
	}

	socialsJSON, err := marshalSocials(profile.Socials)
	if err != nil {
		return nil, err
	}

	query := `
        INSERT INTO company_profiles (
            website,
            name,
            about,
            email,
            phones,
            location,
            socials,
            platform,
            scrape_status,
            last_scraped_at,
            updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8, $9, $10, NOW())
        ON CONFLICT (website) DO UPDATE SET
            name = EXCLUDED.name,
            about = EXCLUDED.about,
            email = EXCLUDED.email,
            phones = EXCLUDED.phones,
            location = EXCLUDED.location,
            socials = EXCLUDED.socials,
            platform = EXCLUDED.platform,
            scrape_status = EXCLUDED.scrape_status,
            last_scraped_at = EXCLUDED.last_scraped_at,
            updated_at = NOW()
        RETURNING ` + profileColumns

	row := r.pool.QueryRow(ctx, query,
		profile.Website,
		profile.Name,
		profile.About,
		profile.Email,
		stringSliceOrEmpty(profile.Phones),
		profile.Location,
		string(socialsJSON),
		string(profile.Platform),
		string(profile.ScrapeStatus),
		profile.LastScrapedAt,
	)

	stored, err := scanProfile(row)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: upsert profile")
	}
	return stored, nil
}

// GetByWebsite returns the stored profile for a website.
func (r *PGXProfilesRepository) GetByWebsite(ctx context.Context, website string) (*entity.CompanyProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM company_profiles WHERE website = $1`

	profile, err := scanProfile(r.pool.QueryRow(ctx, query, website))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, eris.Wrap(err, "postgres: get profile")
	}
	return profile, nil
}

// List retrieves profiles matching the filter, most recently scraped first.
func (r *PGXProfilesRepository) List(ctx context.Context, filter dto.ListFilter) ([]entity.CompanyProfile, error) {
	baseQuery := strings.Builder{}
	baseQuery.WriteString(`SELECT ` + profileColumns + ` FROM company_profiles`)

	var (
		clauses []string
		args    []any
		idx     = 1
	)

	if filter.Q != "" {
		pattern := fmt.Sprintf("%%%s%%", filter.Q)
		clauses = append(clauses, fmt.Sprintf("(website ILIKE $%d OR name ILIKE $%d)", idx, idx+1))
		args = append(args, pattern, pattern)
		idx += 2
	}
	if filter.Status != "" {
		clauses = append(clauses, fmt.Sprintf("scrape_status = $%d", idx))
		args = append(args, filter.Status)
		idx++
	}
	if filter.Platform != "" {
		clauses = append(clauses, fmt.Sprintf("platform = $%d", idx))
		args = append(args, filter.Platform)
		idx++
	}

	if len(clauses) > 0 {
		baseQuery.WriteString(" WHERE ")
		baseQuery.WriteString(strings.Join(clauses, " AND "))
	}

	limit, offset := pagination(filter)
	baseQuery.WriteString(fmt.Sprintf(" ORDER BY last_scraped_at DESC, website ASC LIMIT $%d OFFSET $%d", idx, idx+1))
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, baseQuery.String(), args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list profiles")
	}
	defer rows.Close()

	var profiles []entity.CompanyProfile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan profile")
		}
		profiles = append(profiles, *profile)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate profiles")
	}
	return profiles, nil
}

// rowScanner is satisfied by pgx.Row, pgx.Rows and *sql.Row / *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*entity.CompanyProfile, error) {
	var (
		p           entity.CompanyProfile
		name        sql.NullString
		about       sql.NullString
		email       sql.NullString
		location    sql.NullString
		phones      []string
		socialsJSON []byte
		platform    string
		status      string
	)

	err := row.Scan(
		&p.ID,
		&p.Website,
		&name,
		&about,
		&email,
		&phones,
		&location,
		&socialsJSON,
		&platform,
		&status,
		&p.LastScrapedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Name = nullStringToPtr(name)
	p.About = nullStringToPtr(about)
	p.Email = nullStringToPtr(email)
	p.Location = nullStringToPtr(location)
	p.Phones = stringSliceOrEmpty(phones)
	p.Platform = entity.Platform(platform)
	p.ScrapeStatus = entity.ScrapeStatus(status)

	p.Socials, err = unmarshalSocials(socialsJSON)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func pagination(filter dto.ListFilter) (limit, offset int) {
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}
	return perPage, (page - 1) * perPage
}

func marshalSocials(socials map[string]string) ([]byte, error) {
	if socials == nil {
		socials = map[string]string{}
	}
	data, err := json.Marshal(socials)
	if err != nil {
		return nil, fmt.Errorf("marshal socials: %w", err)
	}
	return data, nil
}

func unmarshalSocials(data []byte) (map[string]string, error) {
	socials := map[string]string{}
	if len(data) == 0 {
		return socials, nil
	}
	if err := json.Unmarshal(data, &socials); err != nil {
		return nil, fmt.Errorf("unmarshal socials: %w", err)
	}
	return socials, nil
}

func stringSliceOrEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func nullStringToPtr(value sql.NullString) *string {
	if value.Valid {
		val := value.String
		return &val
	}
	return nil
}
