package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/octobees/company-profiler/internal/dto"
	"github.com/octobees/company-profiler/internal/entity"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS company_profiles (
	id              TEXT PRIMARY KEY,
	website         TEXT NOT NULL UNIQUE,
	name            TEXT,
	about           TEXT,
	email           TEXT,
	phones          TEXT NOT NULL DEFAULT '[]',
	location        TEXT,
	socials         TEXT NOT NULL DEFAULT '{}',
	platform        TEXT NOT NULL DEFAULT 'unknown',
	scrape_status   TEXT NOT NULL,
	last_scraped_at TEXT NOT NULL,
	created_at      TEXT NOT NULL,
	updated_at      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_company_profiles_last_scraped_at ON company_profiles(last_scraped_at);
`

// SQLiteProfilesRepository implements ProfilesRepository on modernc.org/sqlite.
// Phones and socials are stored as JSON text, timestamps as fixed-width RFC 3339 text.
type SQLiteProfilesRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteProfilesRepository wraps an open sqlite handle.
func NewSQLiteProfilesRepository(db *sql.DB) *SQLiteProfilesRepository {
	return &SQLiteProfilesRepository{db: db, now: time.Now}
}

// Migrate creates the company_profiles table when missing.
func (r *SQLiteProfilesRepository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, sqliteSchema)
	return eris.Wrap(err, "sqlite: migrate company_profiles")
}

// Upsert inserts or fully replaces the profile keyed by website.
func (r *SQLiteProfilesRepository) Upsert(ctx context.Context, profile *entity.CompanyProfile) (*entity.CompanyProfile, error) {
	if profile == nil {
		return nil, fmt.Errorf("profile payload is nil")
	}
	if strings.TrimSpace(profile.Website) == "" {
		return nil, fmt.Errorf("profile website is empty")
	}

	phonesJSON, err := json.Marshal(stringSliceOrEmpty(profile.Phones))
	if err != nil {
		return nil, fmt.Errorf("marshal phones: %w", err)
	}
	socialsJSON, err := marshalSocials(profile.Socials)
	if err != nil {
		return nil, err
	}
	now := formatTime(r.now())

	query := `
		INSERT INTO company_profiles (
			id, website, name, about, email, phones, location, socials,
			platform, scrape_status, last_scraped_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (website) DO UPDATE SET
			name = excluded.name,
			about = excluded.about,
			email = excluded.email,
			phones = excluded.phones,
			location = excluded.location,
			socials = excluded.socials,
			platform = excluded.platform,
			scrape_status = excluded.scrape_status,
			last_scraped_at = excluded.last_scraped_at,
			updated_at = excluded.updated_at
		RETURNING ` + profileColumns

	row := r.db.QueryRowContext(ctx, query,
		uuid.NewString(),
		profile.Website,
		ptrToNullString(profile.Name),
		ptrToNullString(profile.About),
		ptrToNullString(profile.Email),
		string(phonesJSON),
		ptrToNullString(profile.Location),
		string(socialsJSON),
		string(profile.Platform),
		string(profile.ScrapeStatus),
		formatTime(profile.LastScrapedAt),
		now,
		now,
	)

	stored, err := scanSQLiteProfile(row)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: upsert profile")
	}
	return stored, nil
}

// GetByWebsite returns the stored profile for a website.
func (r *SQLiteProfilesRepository) GetByWebsite(ctx context.Context, website string) (*entity.CompanyProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM company_profiles WHERE website = ?`

	profile, err := scanSQLiteProfile(r.db.QueryRowContext(ctx, query, website))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, eris.Wrap(err, "sqlite: get profile")
	}
	return profile, nil
}

// List retrieves profiles matching the filter, most recently scraped first.
func (r *SQLiteProfilesRepository) List(ctx context.Context, filter dto.ListFilter) ([]entity.CompanyProfile, error) {
	query := strings.Builder{}
	query.WriteString(`SELECT ` + profileColumns + ` FROM company_profiles`)

	var (
		clauses []string
		args    []any
	)
	if filter.Q != "" {
		pattern := "%" + strings.ToLower(filter.Q) + "%"
		clauses = append(clauses, "(LOWER(website) LIKE ? OR LOWER(COALESCE(name, '')) LIKE ?)")
		args = append(args, pattern, pattern)
	}
	if filter.Status != "" {
		clauses = append(clauses, "scrape_status = ?")
		args = append(args, filter.Status)
	}
	if filter.Platform != "" {
		clauses = append(clauses, "platform = ?")
		args = append(args, filter.Platform)
	}
	if len(clauses) > 0 {
		query.WriteString(" WHERE ")
		query.WriteString(strings.Join(clauses, " AND "))
	}

	limit, offset := pagination(filter)
	query.WriteString(" ORDER BY last_scraped_at DESC, website ASC LIMIT ? OFFSET ?")
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list profiles")
	}
	defer rows.Close()

	var profiles []entity.CompanyProfile
	for rows.Next() {
		profile, err := scanSQLiteProfile(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan profile")
		}
		profiles = append(profiles, *profile)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate profiles")
	}
	return profiles, nil
}

func scanSQLiteProfile(row rowScanner) (*entity.CompanyProfile, error) {
	var (
		p           entity.CompanyProfile
		id          string
		name        sql.NullString
		about       sql.NullString
		email       sql.NullString
		location    sql.NullString
		phonesJSON  string
		socialsJSON string
		platform    string
		status      string
		lastScraped string
		createdAt   string
		updatedAt   string
	)

	err := row.Scan(
		&id,
		&p.Website,
		&name,
		&about,
		&email,
		&phonesJSON,
		&location,
		&socialsJSON,
		&platform,
		&status,
		&lastScraped,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if p.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse id: %w", err)
	}
	if err := json.Unmarshal([]byte(phonesJSON), &p.Phones); err != nil {
		return nil, fmt.Errorf("unmarshal phones: %w", err)
	}
	p.Phones = stringSliceOrEmpty(p.Phones)
	if p.Socials, err = unmarshalSocials([]byte(socialsJSON)); err != nil {
		return nil, err
	}
	for _, ts := range []struct {
		raw string
		dst *time.Time
	}{
		{lastScraped, &p.LastScrapedAt},
		{createdAt, &p.CreatedAt},
		{updatedAt, &p.UpdatedAt},
	} {
		parsed, err := time.Parse(time.RFC3339Nano, ts.raw)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", ts.raw, err)
		}
		*ts.dst = parsed
	}

	p.Name = nullStringToPtr(name)
	p.About = nullStringToPtr(about)
	p.Email = nullStringToPtr(email)
	p.Location = nullStringToPtr(location)
	p.Platform = entity.Platform(platform)
	p.ScrapeStatus = entity.ScrapeStatus(status)
	return &p, nil
}

// sqliteTimeLayout is fixed width so text ordering matches time ordering.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

func ptrToNullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}
