package dto

import "github.com/octobees/company-profiler/internal/entity"

// ScrapeRequest is the payload used by the scraping endpoint.
type ScrapeRequest struct {
	Website string `json:"website"`
}

// Error codes carried by ScrapeResponse.Error.
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeScrapeFailed    = "SCRAPE_FAILED"
)

// MsgScrapeFailed is the only message a client sees when a scrape cannot be
// completed, whatever the cause.
const MsgScrapeFailed = "Unable to scrape company website"

// Source recorded in ScrapeMeta for every successful scrape.
const ScrapeSource = "http+deep-pages"

// ScrapeResponse is the envelope returned for every scrape, successful or not.
type ScrapeResponse struct {
	Success bool                   `json:"success"`
	Status  entity.ScrapeStatus    `json:"status"`
	Data    *entity.CompanyProfile `json:"data"`
	Error   *ScrapeError           `json:"error"`
	Meta    *ScrapeMeta            `json:"meta,omitempty"`
}

// ScrapeError is the machine readable failure description.
type ScrapeError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ScrapeMeta reports where a profile came from and how long it took.
type ScrapeMeta struct {
	Source     string `json:"source"`
	DurationMs int64  `json:"durationMs"`
}

// NewScrapeFailure builds a failed envelope.
func NewScrapeFailure(code, message string) ScrapeResponse {
	return ScrapeResponse{
		Success: false,
		Status:  entity.ScrapeStatusFailed,
		Error:   &ScrapeError{Code: code, Message: message},
	}
}
