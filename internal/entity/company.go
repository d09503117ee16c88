package entity

import (
	"time"

	"github.com/google/uuid"
)

// Platform is the e-commerce platform detected on a company website.
type Platform string

const (
	PlatformShopify Platform = "shopify"
	PlatformUnknown Platform = "unknown"
)

// ScrapeStatus labels the quality of a scrape outcome.
type ScrapeStatus string

const (
	ScrapeStatusSuccess ScrapeStatus = "success"
	ScrapeStatusPartial ScrapeStatus = "partial"
	ScrapeStatusFailed  ScrapeStatus = "failed"
)

// CompanyProfile is the reconciled profile stored for a company website.
// Website is the unique key; every scrape replaces the remaining fields.
type CompanyProfile struct {
	ID            uuid.UUID         `json:"id"`
	Website       string            `json:"website"`
	Name          *string           `json:"name"`
	About         *string           `json:"about"`
	Email         *string           `json:"email"`
	Phones        []string          `json:"phones"`
	Location      *string           `json:"location"`
	Socials       map[string]string `json:"socials"`
	Platform      Platform          `json:"platform"`
	ScrapeStatus  ScrapeStatus      `json:"scrapeStatus"`
	LastScrapedAt time.Time         `json:"lastScrapedAt"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}
