// Package reconcile folds per-page extractions into a single company profile
// and labels the confidence of the result.
package reconcile

import (
	"github.com/octobees/company-profiler/internal/entity"
	"github.com/octobees/company-profiler/internal/extract"
)

// sourceScope limits which pages may contribute to a field.
type sourceScope int

const (
	anyPage sourceScope = iota
	homepageOnly
)

// fieldRule declares how one profile field absorbs a page. Rules are applied
// to the sources in order: homepage first, then deep pages in path order.
type fieldRule struct {
	field string
	scope sourceScope
	apply func(acc *entity.CompanyProfile, page extract.FieldExtraction)
}

var rules = []fieldRule{
	{field: "name", scope: anyPage, apply: func(acc *entity.CompanyProfile, page extract.FieldExtraction) {
		acc.Name = firstNonEmpty(acc.Name, page.Name)
	}},
	{field: "about", scope: anyPage, apply: func(acc *entity.CompanyProfile, page extract.FieldExtraction) {
		acc.About = firstNonEmpty(acc.About, page.About)
	}},
	{field: "email", scope: anyPage, apply: func(acc *entity.CompanyProfile, page extract.FieldExtraction) {
		acc.Email = firstNonEmpty(acc.Email, page.Email)
	}},
	{field: "location", scope: anyPage, apply: func(acc *entity.CompanyProfile, page extract.FieldExtraction) {
		acc.Location = firstNonEmpty(acc.Location, page.Location)
	}},
	{field: "phones", scope: anyPage, apply: func(acc *entity.CompanyProfile, page extract.FieldExtraction) {
		acc.Phones = firstNonEmptySet(acc.Phones, page.Phones)
	}},
	{field: "socials", scope: homepageOnly, apply: func(acc *entity.CompanyProfile, page extract.FieldExtraction) {
		acc.Socials = copySocials(page.Socials)
	}},
	{field: "platform", scope: homepageOnly, apply: func(acc *entity.CompanyProfile, page extract.FieldExtraction) {
		if page.Platform != "" {
			acc.Platform = page.Platform
		}
	}},
}

// Merge reconciles the homepage extraction with the deep-page extractions.
// Website, status and timestamps are left for the caller to fill in.
func Merge(home extract.FieldExtraction, deep []extract.FieldExtraction) entity.CompanyProfile {
	sources := make([]extract.FieldExtraction, 0, 1+len(deep))
	sources = append(sources, home)
	sources = append(sources, deep...)
	return reduce(sources)
}

func reduce(sources []extract.FieldExtraction) entity.CompanyProfile {
	acc := entity.CompanyProfile{
		Phones:   []string{},
		Socials:  map[string]string{},
		Platform: entity.PlatformUnknown,
	}
	for i, page := range sources {
		for _, rule := range rules {
			if rule.scope == homepageOnly && i > 0 {
				continue
			}
			rule.apply(&acc, page)
		}
	}
	return acc
}

// firstNonEmpty keeps the current value once one has been adopted.
func firstNonEmpty(current, candidate *string) *string {
	if current != nil && *current != "" {
		return current
	}
	if candidate != nil && *candidate != "" {
		value := *candidate
		return &value
	}
	return current
}

// firstNonEmptySet replaces an empty set wholesale with the candidate set;
// sets are never merged element-wise.
func firstNonEmptySet(current, candidate []string) []string {
	if len(current) > 0 || len(candidate) == 0 {
		return current
	}
	return append([]string(nil), candidate...)
}

func copySocials(src map[string]string) map[string]string {
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
