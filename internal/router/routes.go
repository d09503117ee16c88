package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/company-profiler/internal/config"
	"github.com/octobees/company-profiler/internal/handler"
	middlewarepkg "github.com/octobees/company-profiler/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Scrape    *handler.ScrapeHandler
	Companies *handler.CompaniesHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	e.POST(middlewarepkg.ScrapePath, handlers.Scrape.Scrape, middlewarepkg.ScrapeRateLimiter(cfg.RateLimitScrape))

	if handlers.Companies != nil {
		e.GET("/companies", handlers.Companies.List)
		e.GET("/companies/lookup", handlers.Companies.Lookup)
	}
}
