package parser

import (
	"strconv"
	"strings"

	"cardwise/internal/core"
)

// maxReasonableAmount bounds what we accept as a transaction amount when
// sniffing columns. Anything larger is more likely a balance or an
// account number fragment.
const maxReasonableAmount = 1_000_000

// parseAmount normalizes a statement amount string to a signed float.
// It strips currency symbols, thousands separators and whitespace, and
// treats a parenthesized value as negative, the common accounting form.
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, core.ErrInvalidAmount
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if strings.HasPrefix(s, "+") {
		s = s[1:]
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, core.ErrInvalidAmount
	}
	if negative {
		v = -v
	}
	return v, nil
}

// looksLikeAmount reports whether the value parses as a bounded number.
func looksLikeAmount(s string) bool {
	v, err := parseAmount(s)
	if err != nil {
		return false
	}
	if v < 0 {
		v = -v
	}
	return v > 0 && v < maxReasonableAmount
}

// validMCC keeps merchant category codes only when they are exactly four digits.
func validMCC(s string) string {
	s = strings.TrimSpace(s)
	if len(s) != 4 {
		return ""
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return s
}
