package service

import (
	"context"
	"strings"

	"github.com/octobees/company-profiler/internal/dto"
	"github.com/octobees/company-profiler/internal/entity"
)

// ProfileReader is the read side of the profile store.
type ProfileReader interface {
	GetByWebsite(ctx context.Context, website string) (*entity.CompanyProfile, error)
	List(ctx context.Context, filter dto.ListFilter) ([]entity.CompanyProfile, error)
}

// CompaniesService exposes read operations over stored company profiles.
type CompaniesService struct {
	repo ProfileReader
}

// NewCompaniesService creates a new instance of CompaniesService.
func NewCompaniesService(repo ProfileReader) *CompaniesService {
	return &CompaniesService{repo: repo}
}

// ListProfiles returns profiles respecting pagination defaults.
func (s *CompaniesService) ListProfiles(ctx context.Context, filter dto.ListFilter) ([]entity.CompanyProfile, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}
	filter.Q = strings.TrimSpace(filter.Q)

	profiles, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if profiles == nil {
		profiles = []entity.CompanyProfile{}
	}
	return profiles, nil
}

// GetProfile returns the stored profile for website. Unknown websites surface
// the repository's not-found error.
func (s *CompaniesService) GetProfile(ctx context.Context, website string) (*entity.CompanyProfile, error) {
	website = strings.TrimSpace(website)
	if website == "" {
		return nil, ErrWebsiteRequired
	}
	return s.repo.GetByWebsite(ctx, website)
}
