// Package categorize assigns spending categories to transactions.
//
// Resolution is tiered: a valid merchant category code wins, then a
// manual override carried in the source file, then description keyword
// rules. Anything still unresolved may be sent to an external
// categorization service before falling back to Other.
package categorize

import (
	"context"

	"cardwise/internal/core"
	"cardwise/internal/log"
)

const (
	mccConfidence      = 0.95
	manualConfidence   = 0.90
	externalConfidence = 0.70
	defaultConfidence  = 0.30

	// PDF text extraction garbles descriptions often enough that only
	// strong brand rules are trusted there.
	pdfMinKeywordConfidence = 0.85
)

// Categorize resolves a single transaction without any I/O. manual is a
// category name the statement itself provided, empty when absent.
func Categorize(description, mcc, manual string) core.Categorization {
	return categorize(description, mcc, manual, 0)
}

func categorize(description, mcc, manual string, minKeywordConfidence float64) core.Categorization {
	if cat, ok := LookupMCC(mcc); ok {
		return core.Categorization{Category: cat, Confidence: mccConfidence, Source: core.SourceMCC}
	}
	if manual != "" {
		if cat := core.ParseCategory(manual); cat != core.Other {
			return core.Categorization{Category: cat, Confidence: manualConfidence, Source: core.SourceManual}
		}
	}
	if c, ok := matchKeywords(description, minKeywordConfidence); ok {
		return c
	}
	return core.Categorization{Category: core.Other, Confidence: defaultConfidence, Source: core.SourceDefault}
}

// ExternalClient resolves descriptions the local tiers could not. Lookup
// returns ErrUnresolved (or any other error) when the service has no
// answer; the caller degrades to the default category.
type ExternalClient interface {
	Lookup(ctx context.Context, description string) (core.Category, error)
}

// Service categorizes whole statements, optionally consulting an
// external service for leftovers.
type Service struct {
	external ExternalClient
	logger   *log.Logger
}

func NewService(external ExternalClient, logger *log.Logger) *Service {
	return &Service{external: external, logger: logger}
}

// CategorizeAll resolves every transaction in order. fromPDF switches the
// keyword tier to brand-only matching.
func (s *Service) CategorizeAll(ctx context.Context, txs []core.Transaction, fromPDF bool) []core.CategorizedTransaction {
	minConf := 0.0
	if fromPDF {
		minConf = pdfMinKeywordConfidence
	}

	out := make([]core.CategorizedTransaction, 0, len(txs))
	external := 0
	for _, tx := range txs {
		c := categorize(tx.Description, tx.MCC, tx.RawCategory, minConf)
		if c.Source == core.SourceDefault && s.external != nil {
			if cat, err := s.external.Lookup(ctx, tx.Description); err == nil {
				c = core.Categorization{Category: cat, Confidence: externalConfidence, Source: core.SourceExternal}
				external++
			}
		}
		out = append(out, core.CategorizedTransaction{
			Transaction: tx,
			Category:    c.Category,
			Confidence:  c.Confidence,
			Source:      c.Source,
		})
	}
	if s.logger != nil {
		s.logger.Debug("categorized transactions", "total", len(txs), "external", external)
	}
	return out
}
