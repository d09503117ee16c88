package reconcile

import (
	"strings"
	"unicode/utf8"

	"github.com/octobees/company-profiler/internal/entity"
)

const minAboutLength = 50

// Classify labels a merged profile. It only ever returns success or partial;
// failed is reserved for pipeline faults.
func Classify(profile entity.CompanyProfile) entity.ScrapeStatus {
	if profile.Name == nil || *profile.Name == "" || profile.About == nil {
		return entity.ScrapeStatusPartial
	}
	if utf8.RuneCountInString(strings.TrimSpace(*profile.About)) < minAboutLength {
		return entity.ScrapeStatusPartial
	}
	return entity.ScrapeStatusSuccess
}
