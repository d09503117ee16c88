// Package extract pulls profile fields out of a single HTML page.
//
// Every extractor is pure and deterministic. A field that cannot be found is
// reported as nil (or an empty collection); absence is never an error.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/octobees/company-profiler/internal/entity"
	"github.com/octobees/company-profiler/internal/fetcher"
)

// FieldExtraction is the result of running every extractor over one page.
type FieldExtraction struct {
	Name     *string
	About    *string
	Email    *string
	Phones   []string
	Location *string
	Socials  map[string]string
	Platform entity.Platform
}

// Extract parses the page once and runs all field extractors over it.
func Extract(page fetcher.SourcePage) (FieldExtraction, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return FieldExtraction{}, eris.Wrapf(err, "extract: parse %s", page.URL)
	}

	text := doc.Find("body").Text()

	return FieldExtraction{
		Name:     Name(doc),
		About:    About(doc),
		Email:    Email(text),
		Phones:   Phones(text),
		Location: Location(doc),
		Socials:  Socials(doc),
		Platform: Platform(page.HTML),
	}, nil
}

func nonEmpty(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
