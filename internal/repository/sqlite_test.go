package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/octobees/company-profiler/internal/dto"
	"github.com/octobees/company-profiler/internal/entity"
)

func newSQLiteRepo(t *testing.T) *SQLiteProfilesRepository {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewSQLiteProfilesRepository(db)
	require.NoError(t, repo.Migrate(context.Background()))
	return repo
}

func TestSQLiteUpsertReplacesByWebsite(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()
	first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	repo.now = func() time.Time { return first }
	stored, err := repo.Upsert(ctx, &entity.CompanyProfile{
		Website:       "https://acme.example",
		Name:          strPtr("Acme"),
		About:         strPtr("Old about"),
		Phones:        []string{"+919876543210"},
		Socials:       map[string]string{"facebook": "https://facebook.com/acme"},
		Platform:      entity.PlatformShopify,
		ScrapeStatus:  entity.ScrapeStatusPartial,
		LastScrapedAt: first,
	})
	require.NoError(t, err)
	originalID := stored.ID

	repo.now = func() time.Time { return second }
	stored, err = repo.Upsert(ctx, &entity.CompanyProfile{
		Website:       "https://acme.example",
		Name:          strPtr("Acme Ltd"),
		Platform:      entity.PlatformUnknown,
		ScrapeStatus:  entity.ScrapeStatusPartial,
		LastScrapedAt: second,
	})
	require.NoError(t, err)

	assert.Equal(t, originalID, stored.ID)
	assert.Equal(t, "Acme Ltd", *stored.Name)
	assert.Nil(t, stored.About, "absent fields overwrite stored values")
	assert.Empty(t, stored.Phones)
	assert.NotNil(t, stored.Phones)
	assert.Empty(t, stored.Socials)
	assert.Equal(t, entity.PlatformUnknown, stored.Platform)
	assert.True(t, stored.LastScrapedAt.Equal(second))
	assert.True(t, stored.CreatedAt.Equal(first))
	assert.True(t, stored.UpdatedAt.Equal(second))

	fetched, err := repo.GetByWebsite(ctx, "https://acme.example")
	require.NoError(t, err)
	assert.Equal(t, fetched, stored, "upsert returns the row as stored")

	all, err := repo.List(ctx, dto.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSQLiteGetByWebsiteNotFound(t *testing.T) {
	repo := newSQLiteRepo(t)
	_, err := repo.GetByWebsite(context.Background(), "https://missing.example")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestSQLiteListFiltersAndOrder(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	seed := []entity.CompanyProfile{
		{Website: "https://alpha.example", Name: strPtr("Alpha Foods"), Platform: entity.PlatformShopify, ScrapeStatus: entity.ScrapeStatusSuccess, LastScrapedAt: base},
		{Website: "https://beta.example", Name: strPtr("Beta Tools"), Platform: entity.PlatformUnknown, ScrapeStatus: entity.ScrapeStatusPartial, LastScrapedAt: base.Add(time.Minute)},
		{Website: "https://gamma.example", Platform: entity.PlatformShopify, ScrapeStatus: entity.ScrapeStatusPartial, LastScrapedAt: base.Add(2 * time.Minute)},
	}
	for i := range seed {
		_, err := repo.Upsert(ctx, &seed[i])
		require.NoError(t, err)
	}

	all, err := repo.List(ctx, dto.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "https://gamma.example", all[0].Website)
	assert.Equal(t, "https://alpha.example", all[2].Website)

	shopify, err := repo.List(ctx, dto.ListFilter{Platform: "shopify"})
	require.NoError(t, err)
	assert.Len(t, shopify, 2)

	partial, err := repo.List(ctx, dto.ListFilter{Status: "partial", Q: "TOOLS"})
	require.NoError(t, err)
	require.Len(t, partial, 1)
	assert.Equal(t, "https://beta.example", partial[0].Website)

	paged, err := repo.List(ctx, dto.ListFilter{Page: 2, PerPage: 2})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, "https://alpha.example", paged[0].Website)
}

func TestSQLiteUpsertValidation(t *testing.T) {
	repo := newSQLiteRepo(t)
	_, err := repo.Upsert(context.Background(), &entity.CompanyProfile{})
	assert.Error(t, err)
}
