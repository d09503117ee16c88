package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/octobees/company-profiler/internal/config"
	"github.com/octobees/company-profiler/internal/handler"
	"github.com/octobees/company-profiler/internal/service"
)

type noopScraper struct{}

func (noopScraper) Scrape(context.Context, string) (*service.ScrapeResult, error) {
	return nil, service.ErrWebsiteRequired
}

func TestRegister(t *testing.T) {
	e := echo.New()
	cfg := &config.Config{RateLimitScrape: config.RateLimitConfig{Requests: 1, Interval: time.Minute}}
	Register(e, cfg, Handlers{Scrape: handler.NewScrapeHandler(noopScraper{})})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/scrape", strings.NewReader(`{}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	first := post()
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Contains(t, first.Body.String(), `"VALIDATION_ERROR"`)

	limited := post()
	assert.Equal(t, http.StatusOK, limited.Code, "rate limited scrapes still answer with the envelope")
	assert.JSONEq(t,
		`{"success":false,"status":"failed","data":null,"error":{"code":"SCRAPE_FAILED","message":"Unable to scrape company website"}}`,
		limited.Body.String())

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/companies", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code, "catalogue routes are optional")
}
