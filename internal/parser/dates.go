package parser

import (
	"strings"
	"time"

	"cardwise/internal/core"
)

// dateLayouts are the statement date formats we know how to parse, in the
// order they are tried. US-style month-first layouts come before the
// day-first ones because the supported banks are US issuers.
var dateLayouts = []string{
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"2006-01-02",
	"01-02-2006",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"02 Jan 2006",
}

// parseDate tries a specific layout first, then brute-forces the rest.
func parseDate(s, preferred string) (time.Time, string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, "", core.ErrInvalidDate
	}
	if preferred != "" {
		if t, err := time.Parse(preferred, s); err == nil {
			return t, preferred, nil
		}
	}
	for _, layout := range dateLayouts {
		if layout == preferred {
			continue
		}
		if t, err := time.Parse(layout, s); err == nil {
			return t, layout, nil
		}
	}
	return time.Time{}, "", core.ErrInvalidDate
}

// looksLikeDate reports whether the value parses under any known layout.
func looksLikeDate(s string) bool {
	_, _, err := parseDate(s, "")
	return err == nil
}

// detectDateLayout samples up to the first 10 rows of a column and returns
// the layout that parses the most of them. Ties go to the earlier layout.
func detectDateLayout(rows [][]string, col int) string {
	counts := make(map[string]int)
	sampled := 0
	for _, row := range rows {
		if sampled >= 10 {
			break
		}
		if col >= len(row) {
			continue
		}
		v := strings.TrimSpace(row[col])
		if v == "" {
			continue
		}
		sampled++
		for _, layout := range dateLayouts {
			if _, err := time.Parse(layout, v); err == nil {
				counts[layout]++
				break
			}
		}
	}
	best, bestCount := "", 0
	for _, layout := range dateLayouts {
		if counts[layout] > bestCount {
			best, bestCount = layout, counts[layout]
		}
	}
	return best
}
