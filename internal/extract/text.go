package extract

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const (
	phoneRegion      = "IN"
	phoneCountryCode = "91"
	subscriberDigits = 10
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	// Optional +91/91 prefix, then a mobile number starting 6-9 written
	// either as one run or as 5+5 / 3+3+4 digit groups.
	phonePattern = regexp.MustCompile(
		`(?:\+?91[\s-]?)?(?:[6-9]\d{4}[\s-]?\d{5}|[6-9]\d{2}[\s-]?\d{3}[\s-]?\d{4})`,
	)
	nonDigit = regexp.MustCompile(`\D`)
)

// Email returns the first email-shaped substring of text.
func Email(text string) *string {
	match := emailPattern.FindString(text)
	if match == "" {
		return nil
	}
	return &match
}

// Phones returns the distinct mobile numbers found in text, normalized to
// E.164 and in first-seen order. Candidates that do not reduce to exactly ten
// subscriber digits are dropped.
func Phones(text string) []string {
	seen := make(map[string]struct{})
	phones := make([]string, 0)

	for _, loc := range phonePattern.FindAllStringIndex(text, -1) {
		if touchesDigit(text, loc[0], loc[1]) {
			continue
		}
		normalized := NormalizePhone(text[loc[0]:loc[1]])
		if normalized == "" {
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		phones = append(phones, normalized)
	}
	return phones
}

// NormalizePhone reduces a candidate to its subscriber digits and formats it
// with the fixed country code. It returns "" for anything that is not exactly
// ten digits once an optional leading country code is removed.
func NormalizePhone(raw string) string {
	digits := nonDigit.ReplaceAllString(raw, "")
	if len(digits) == len(phoneCountryCode)+subscriberDigits && strings.HasPrefix(digits, phoneCountryCode) {
		digits = digits[len(phoneCountryCode):]
	}
	if len(digits) != subscriberDigits {
		return ""
	}

	// Acceptance is the digit count above. phonenumbers only formats.
	number, err := phonenumbers.Parse("+"+phoneCountryCode+digits, phoneRegion)
	if err != nil {
		return ""
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}

// touchesDigit reports whether the match is glued to a neighbouring digit,
// which means it is a slice of a longer number.
func touchesDigit(text string, start, end int) bool {
	if start > 0 && isASCIIDigit(text[start-1]) {
		return true
	}
	return end < len(text) && isASCIIDigit(text[end])
}

func isASCIIDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
