package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/company-profiler/internal/dto"
	"github.com/octobees/company-profiler/internal/service"
)

const (
	msgWebsiteRequired = "website is required"
	msgInvalidPayload  = "invalid payload"
)

// Scraper runs the profile pipeline for one website.
type Scraper interface {
	Scrape(ctx context.Context, website string) (*service.ScrapeResult, error)
}

// ScrapeHandler serves POST /scrape.
type ScrapeHandler struct {
	scraper Scraper
}

// NewScrapeHandler constructs a scrape handler backed by the given pipeline.
func NewScrapeHandler(scraper Scraper) *ScrapeHandler {
	return &ScrapeHandler{scraper: scraper}
}

// Scrape handles POST /scrape. The outcome is always reported in the body
// envelope with HTTP 200.
func (h *ScrapeHandler) Scrape(c echo.Context) error {
	var req dto.ScrapeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusOK, dto.NewScrapeFailure(dto.CodeValidationError, msgInvalidPayload))
	}

	result, err := h.scraper.Scrape(c.Request().Context(), req.Website)
	return c.JSON(http.StatusOK, NewScrapeResponse(result, err))
}

// NewScrapeResponse maps a pipeline outcome onto the scrape envelope. Causes
// other than a missing website are reported only as SCRAPE_FAILED.
func NewScrapeResponse(result *service.ScrapeResult, err error) dto.ScrapeResponse {
	switch {
	case errors.Is(err, service.ErrWebsiteRequired):
		return dto.NewScrapeFailure(dto.CodeValidationError, msgWebsiteRequired)
	case err != nil || result == nil || result.Profile == nil:
		return dto.NewScrapeFailure(dto.CodeScrapeFailed, dto.MsgScrapeFailed)
	}

	return dto.ScrapeResponse{
		Success: true,
		Status:  result.Status,
		Data:    result.Profile,
		Meta: &dto.ScrapeMeta{
			Source:     dto.ScrapeSource,
			DurationMs: result.Duration.Milliseconds(),
		},
	}
}
