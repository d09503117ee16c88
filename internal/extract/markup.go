package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/octobees/company-profiler/internal/entity"
)

const (
	shopifyCDNHost    = "cdn.shopify.com"
	minLocationLength = 20
)

// socialMatchers is evaluated in order for every link; each key keeps the
// first href that matches it.
var socialMatchers = []struct {
	key     string
	needles []string
}{
	{key: "instagram", needles: []string{"instagram.com"}},
	{key: "facebook", needles: []string{"facebook.com"}},
	{key: "linkedin", needles: []string{"linkedin.com"}},
	{key: "whatsapp", needles: []string{"wa.me", "whatsapp"}},
}

// Name prefers the og:site_name meta tag and falls back to the page title.
func Name(doc *goquery.Document) *string {
	if content, ok := doc.Find(`meta[property="og:site_name"]`).First().Attr("content"); ok {
		if name := nonEmpty(content); name != nil {
			return name
		}
	}
	return nonEmpty(doc.Find("title").First().Text())
}

// About returns the description meta tag content.
func About(doc *goquery.Document) *string {
	content, ok := doc.Find(`meta[name="description"]`).First().Attr("content")
	if !ok {
		return nil
	}
	return nonEmpty(content)
}

// Platform reports shopify when the markup references Shopify's CDN.
func Platform(html string) entity.Platform {
	if strings.Contains(html, shopifyCDNHost) {
		return entity.PlatformShopify
	}
	return entity.PlatformUnknown
}

// Location returns the last <address> block that looks like a postal address:
// more than 20 characters once trimmed and at least one digit.
func Location(doc *goquery.Document) *string {
	var location *string
	doc.Find("address").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if utf8.RuneCountInString(text) > minLocationLength && strings.ContainsAny(text, "0123456789") {
			location = &text
		}
	})
	return location
}

// Socials collects the first link seen for each supported network.
func Socials(doc *goquery.Document) map[string]string {
	socials := make(map[string]string)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if href == "" {
			return
		}
		for _, m := range socialMatchers {
			if _, taken := socials[m.key]; taken {
				continue
			}
			for _, needle := range m.needles {
				if strings.Contains(href, needle) {
					socials[m.key] = href
					break
				}
			}
		}
	})
	return socials
}
