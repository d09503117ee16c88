package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIResponse describes the envelope used by the catalogue endpoints.
// POST /scrape uses dto.ScrapeResponse instead.
type APIResponse struct {
	Status  string    `json:"status"`
	Message string    `json:"message,omitempty"`
	Data    any       `json:"data,omitempty"`
	Meta    *PageMeta `json:"meta,omitempty"`
}

// PageMeta describes the page a list response was cut from.
type PageMeta struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Count   int `json:"count"`
}

// Success sends a successful response using the shared envelope format.
func Success(c echo.Context, status int, message string, data any) error {
	return respond(c, status, APIResponse{Status: "success", Message: message, Data: data})
}

// SuccessPage sends a list response together with its paging metadata.
func SuccessPage(c echo.Context, message string, data any, meta PageMeta) error {
	return respond(c, http.StatusOK, APIResponse{Status: "success", Message: message, Data: data, Meta: &meta})
}

// Error sends an error response using the shared envelope format.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return respond(c, status, APIResponse{Status: "error", Message: message})
}

func respond(c echo.Context, status int, payload APIResponse) error {
	if status == 0 {
		status = http.StatusOK
	}
	return c.JSON(status, payload)
}
