package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/octobees/company-profiler/internal/dto"
	"github.com/octobees/company-profiler/internal/entity"
	"github.com/octobees/company-profiler/internal/repository"
	"github.com/octobees/company-profiler/internal/service"
)

type stubCatalogue struct {
	filter  dto.ListFilter
	list    []entity.CompanyProfile
	listErr error
	get     func(website string) (*entity.CompanyProfile, error)
}

func (s *stubCatalogue) ListProfiles(_ context.Context, filter dto.ListFilter) ([]entity.CompanyProfile, error) {
	s.filter = filter
	return s.list, s.listErr
}

func (s *stubCatalogue) GetProfile(_ context.Context, website string) (*entity.CompanyProfile, error) {
	return s.get(website)
}

func serve(t *testing.T, h echo.HandlerFunc, target string) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))

	var payload APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return rec, payload
}

func TestCompaniesHandler_List(t *testing.T) {
	stub := &stubCatalogue{list: []entity.CompanyProfile{{Website: "https://acme.example"}}}
	h := NewCompaniesHandler(stub)

	rec, payload := serve(t, h.List, "/companies?q=+acme+&status=partial&platform=shopify&page=2&per_page=500")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, dto.ListFilter{Q: "acme", Status: "partial", Platform: "shopify", Page: 2, PerPage: 500}, stub.filter)
	require.NotNil(t, payload.Meta)
	assert.Equal(t, PageMeta{Page: 2, PerPage: 100, Count: 1}, *payload.Meta)
}

func TestCompaniesHandler_ListRejectsUnknownEnums(t *testing.T) {
	h := NewCompaniesHandler(&stubCatalogue{})

	rec, _ := serve(t, h.List, "/companies?status=great")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = serve(t, h.List, "/companies?platform=wix")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompaniesHandler_ListFailure(t *testing.T) {
	h := NewCompaniesHandler(&stubCatalogue{listErr: errors.New("db down")})

	rec, payload := serve(t, h.List, "/companies")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "error", payload.Status)
}

func TestCompaniesHandler_Lookup(t *testing.T) {
	stub := &stubCatalogue{get: func(website string) (*entity.CompanyProfile, error) {
		switch website {
		case "":
			return nil, service.ErrWebsiteRequired
		case "https://acme.example":
			return &entity.CompanyProfile{Website: website}, nil
		case "https://broken.example":
			return nil, errors.New("db down")
		}
		return nil, repository.ErrProfileNotFound
	}}
	h := NewCompaniesHandler(stub)

	tests := map[string]struct {
		target string
		want   int
	}{
		"found":     {target: "/companies/lookup?website=https://acme.example", want: http.StatusOK},
		"missing":   {target: "/companies/lookup", want: http.StatusBadRequest},
		"not found": {target: "/companies/lookup?website=https://nobody.example", want: http.StatusNotFound},
		"failure":   {target: "/companies/lookup?website=https://broken.example", want: http.StatusInternalServerError},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			rec, _ := serve(t, h.Lookup, tc.target)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
