package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/octobees/company-profiler/internal/dto"
	"github.com/octobees/company-profiler/internal/entity"
	"github.com/octobees/company-profiler/internal/repository"
	"github.com/octobees/company-profiler/internal/service"
)

// ProfileCatalogue is the read API over stored profiles.
type ProfileCatalogue interface {
	ListProfiles(ctx context.Context, filter dto.ListFilter) ([]entity.CompanyProfile, error)
	GetProfile(ctx context.Context, website string) (*entity.CompanyProfile, error)
}

// CompaniesHandler exposes company catalogue endpoints.
type CompaniesHandler struct {
	service ProfileCatalogue
}

// NewCompaniesHandler creates a new handler instance.
func NewCompaniesHandler(service ProfileCatalogue) *CompaniesHandler {
	return &CompaniesHandler{service: service}
}

// List handles GET /companies requests.
func (h *CompaniesHandler) List(c echo.Context) error {
	filter := dto.ListFilter{
		Q:        strings.TrimSpace(c.QueryParam("q")),
		Status:   strings.TrimSpace(c.QueryParam("status")),
		Platform: strings.TrimSpace(c.QueryParam("platform")),
		Page:     parseIntDefault(c.QueryParam("page"), 1),
		PerPage:  parseIntDefault(c.QueryParam("per_page"), 20),
	}

	if filter.Status != "" && !validStatus(filter.Status) {
		return Error(c, http.StatusBadRequest, "invalid status")
	}
	if filter.Platform != "" && !validPlatform(filter.Platform) {
		return Error(c, http.StatusBadRequest, "invalid platform")
	}

	profiles, err := h.service.ListProfiles(c.Request().Context(), filter)
	if err != nil {
		zap.L().Error("list profiles", zap.Error(err))
		return Error(c, http.StatusInternalServerError, "failed to list companies")
	}
	return SuccessPage(c, "companies retrieved", profiles, PageMeta{
		Page:    max(filter.Page, 1),
		PerPage: clampPerPage(filter.PerPage),
		Count:   len(profiles),
	})
}

// Lookup handles GET /companies/lookup?website= requests.
func (h *CompaniesHandler) Lookup(c echo.Context) error {
	profile, err := h.service.GetProfile(c.Request().Context(), c.QueryParam("website"))
	switch {
	case errors.Is(err, service.ErrWebsiteRequired):
		return Error(c, http.StatusBadRequest, msgWebsiteRequired)
	case errors.Is(err, repository.ErrProfileNotFound):
		return Error(c, http.StatusNotFound, "company profile not found")
	case err != nil:
		zap.L().Error("lookup profile", zap.Error(err))
		return Error(c, http.StatusInternalServerError, "failed to load company")
	}
	return Success(c, http.StatusOK, "company retrieved", profile)
}

func validStatus(value string) bool {
	switch entity.ScrapeStatus(value) {
	case entity.ScrapeStatusSuccess, entity.ScrapeStatusPartial, entity.ScrapeStatusFailed:
		return true
	}
	return false
}

func validPlatform(value string) bool {
	switch entity.Platform(value) {
	case entity.PlatformShopify, entity.PlatformUnknown:
		return true
	}
	return false
}

func clampPerPage(perPage int) int {
	if perPage <= 0 {
		return 20
	}
	return min(perPage, 100)
}

func parseIntDefault(input string, fallback int) int {
	if input == "" {
		return fallback
	}
	if value, err := strconv.Atoi(input); err == nil {
		return value
	}
	return fallback
}
