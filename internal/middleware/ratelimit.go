package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/octobees/company-profiler/internal/config"
	"github.com/octobees/company-profiler/internal/dto"
)

// ScrapePath is the only route the scrape limiter applies to.
const ScrapePath = "/scrape"

// maxTrackedClients bounds the limiter table before idle clients are evicted.
const maxTrackedClients = 1024

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ScrapeRateLimiter applies a token bucket per client IP to POST /scrape.
// Rejected requests get the same HTTP 200 failure envelope as any other
// failed scrape.
func ScrapeRateLimiter(cfg config.RateLimitConfig) echo.MiddlewareFunc {
	if cfg.Requests <= 0 || cfg.Interval <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	perRequest := cfg.Interval / time.Duration(cfg.Requests)
	if perRequest <= 0 {
		perRequest = time.Second
	}

	var (
		mu      sync.Mutex
		clients = make(map[string]*clientLimiter)
	)

	allow := func(key string, now time.Time) bool {
		mu.Lock()
		defer mu.Unlock()

		if len(clients) >= maxTrackedClients {
			for k, cl := range clients {
				if now.Sub(cl.lastSeen) > cfg.Interval {
					delete(clients, k)
				}
			}
		}

		cl, ok := clients[key]
		if !ok {
			cl = &clientLimiter{limiter: rate.NewLimiter(rate.Every(perRequest), cfg.Requests)}
			clients[key] = cl
		}
		cl.lastSeen = now
		return cl.limiter.AllowN(now, 1)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Path() != ScrapePath {
				return next(c)
			}

			ip := c.RealIP()
			if !allow(ip, time.Now()) {
				zap.L().Warn("scrape rate limit exceeded", zap.String("client_ip", ip))
				return c.JSON(http.StatusOK, dto.NewScrapeFailure(dto.CodeScrapeFailed, dto.MsgScrapeFailed))
			}

			return next(c)
		}
	}
}
