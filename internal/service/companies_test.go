package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/octobees/company-profiler/internal/dto"
	"github.com/octobees/company-profiler/internal/entity"
)

type mockProfileReader struct {
	list func(ctx context.Context, filter dto.ListFilter) ([]entity.CompanyProfile, error)
	get  func(ctx context.Context, website string) (*entity.CompanyProfile, error)
}

func (m *mockProfileReader) List(ctx context.Context, filter dto.ListFilter) ([]entity.CompanyProfile, error) {
	if m.list != nil {
		return m.list(ctx, filter)
	}
	return nil, errors.New("list not implemented")
}

func (m *mockProfileReader) GetByWebsite(ctx context.Context, website string) (*entity.CompanyProfile, error) {
	if m.get != nil {
		return m.get(ctx, website)
	}
	return nil, errors.New("get not implemented")
}

func TestCompaniesService_ListProfiles_AppliesDefaults(t *testing.T) {
	var received dto.ListFilter
	repo := &mockProfileReader{
		list: func(ctx context.Context, filter dto.ListFilter) ([]entity.CompanyProfile, error) {
			received = filter
			return []entity.CompanyProfile{{Website: "https://acme.example"}}, nil
		},
	}

	profiles, err := NewCompaniesService(repo).ListProfiles(context.Background(), dto.ListFilter{Page: -1, Q: "  acme "})
	require.NoError(t, err)
	assert.Len(t, profiles, 1)
	assert.Equal(t, 1, received.Page)
	assert.Equal(t, 20, received.PerPage)
	assert.Equal(t, "acme", received.Q)
}

func TestCompaniesService_ListProfiles_CapsPerPage(t *testing.T) {
	repo := &mockProfileReader{
		list: func(ctx context.Context, filter dto.ListFilter) ([]entity.CompanyProfile, error) {
			assert.Equal(t, 100, filter.PerPage)
			return nil, nil
		},
	}

	profiles, err := NewCompaniesService(repo).ListProfiles(context.Background(), dto.ListFilter{PerPage: 1000})
	require.NoError(t, err)
	assert.NotNil(t, profiles)
	assert.Empty(t, profiles)
}

func TestCompaniesService_GetProfile(t *testing.T) {
	repo := &mockProfileReader{
		get: func(ctx context.Context, website string) (*entity.CompanyProfile, error) {
			assert.Equal(t, "https://acme.example", website)
			return &entity.CompanyProfile{Website: website}, nil
		},
	}
	svc := NewCompaniesService(repo)

	profile, err := svc.GetProfile(context.Background(), " https://acme.example ")
	require.NoError(t, err)
	assert.Equal(t, "https://acme.example", profile.Website)

	_, err = svc.GetProfile(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrWebsiteRequired)
}
