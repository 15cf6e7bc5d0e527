// Package parser converts raw statement files (CSV text or PDF buffers)
// into normalized transactions. A single bad row is never fatal: it is
// recorded as a warning and skipped. The parse as a whole fails only when
// no columns can be identified or no valid row survives.
package parser

import (
	"fmt"

	"cardwise/internal/core"
)

type (
	// Metadata describes how the statement was interpreted.
	Metadata struct {
		Bank         string `json:"bank,omitempty"`
		HasHeader    bool   `json:"has_header"`
		DateLayout   string `json:"date_layout,omitempty"`
		TotalRows    int    `json:"total_rows"`
		InvalidRows  int    `json:"invalid_rows"`
		SourceFormat string `json:"source_format"` // csv | pdf
	}

	// Result is the outcome of parsing one statement.
	Result struct {
		Transactions []core.Transaction   `json:"transactions"`
		Errors       []string             `json:"errors,omitempty"`
		Warnings     []string             `json:"warnings,omitempty"`
		Period       core.StatementPeriod `json:"period"`
		Metadata     Metadata             `json:"metadata"`
	}
)

// OK reports whether the parse produced usable transactions.
func (r *Result) OK() bool {
	return len(r.Errors) == 0 && len(r.Transactions) > 0
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// fillPeriod derives the statement period from transaction dates when no
// explicit header gave one. Statements are typically generated a few days
// after the last posted transaction.
func (r *Result) fillPeriod() {
	if len(r.Transactions) == 0 || !r.Period.IsZero() {
		return
	}
	min, max := r.Transactions[0].Date, r.Transactions[0].Date
	for _, tx := range r.Transactions[1:] {
		if tx.Date.Before(min) {
			min = tx.Date
		}
		if tx.Date.After(max) {
			max = tx.Date
		}
	}
	r.Period.Start = min
	r.Period.End = max
	r.Period.StatementDate = max.AddDate(0, 0, 3)
}
