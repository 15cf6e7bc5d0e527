package parser

import (
	"regexp"
	"strings"
)

const maxDescriptionLen = 120

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	// Characters that show up in raw statement exports but carry no meaning.
	junkCharsRe = regexp.MustCompile(`[^\w\s.,&'*#/-]`)

	// Leading transaction-channel boilerplate added by processors.
	merchantPrefixRe = regexp.MustCompile(`(?i)^(purchase|pos|atm|debit card|check card|checkcard|recurring|payment|ach|web|tst\*|sq \*|sq\*|pp\*|paypal \*)\s*`)

	// Trailing boilerplate: masked card digits, reference numbers, state/zip.
	maskedDigitsRe = regexp.MustCompile(`(?i)\s*(x{2,}\d{2,}|#\d{3,}|\*\d{3,})\s*$`)
	refNumberRe    = regexp.MustCompile(`\s+\d{6,}\s*$`)
	stateZipRe     = regexp.MustCompile(`\s+[A-Z]{2}\s*\d{5}(-\d{4})?\s*$`)
	trailingCityRe = regexp.MustCompile(`\s+[A-Z]{2}\s*$`)
)

// cleanDescription collapses whitespace, drops stray symbols and caps the
// length so downstream display and matching stay predictable.
func cleanDescription(s string) string {
	s = junkCharsRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if len(s) > maxDescriptionLen {
		s = strings.TrimSpace(s[:maxDescriptionLen])
	}
	return s
}

// deriveMerchant reduces a cleaned description to a merchant token by
// stripping channel prefixes and trailing statement boilerplate. Best
// effort only: an unrecognized layout falls through unchanged.
func deriveMerchant(description string) string {
	m := description
	for {
		next := merchantPrefixRe.ReplaceAllString(m, "")
		if next == m {
			break
		}
		m = next
	}
	m = maskedDigitsRe.ReplaceAllString(m, "")
	m = refNumberRe.ReplaceAllString(m, "")
	m = stateZipRe.ReplaceAllString(m, "")
	m = trailingCityRe.ReplaceAllString(m, "")
	m = strings.TrimSpace(strings.Trim(m, "*#- "))
	if m == "" {
		return description
	}
	return m
}
