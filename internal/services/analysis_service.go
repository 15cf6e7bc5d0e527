// Package services orchestrates the statement pipeline over the stores:
// parse, categorize, analyze, recommend. Pure computation stays in the
// leaf packages; everything touching a store or a queue lives here.
package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"cardwise/internal/analyze"
	"cardwise/internal/catalog"
	"cardwise/internal/categorize"
	"cardwise/internal/core"
	"cardwise/internal/log"
	"cardwise/internal/parser"
	"cardwise/internal/recommend"
	"cardwise/internal/storage"
)

// ReportStore is the slice of the repository the service needs.
type ReportStore interface {
	SaveStatement(ctx context.Context, st storage.Statement) (string, error)
	GetStatement(ctx context.Context, id string) (storage.Statement, error)
	SaveReport(ctx context.Context, report storage.Report) (string, error)
	GetReport(ctx context.Context, id string) (storage.Report, error)
	ListReports(ctx context.Context, limit int) ([]storage.ReportSummary, error)
}

// JobPublisher enqueues async analysis jobs. Nil means uploads are only
// analyzed on demand.
type JobPublisher interface {
	PublishAnalyzeStatement(ctx context.Context, statementID string) error
}

type AnalysisService struct {
	store       ReportStore
	catalog     catalog.Store
	categorizer *categorize.Service
	engine      *recommend.Engine
	publisher   JobPublisher
	logger      *log.Logger
}

func NewAnalysisService(store ReportStore, cat catalog.Store, categorizer *categorize.Service, engine *recommend.Engine, publisher JobPublisher, logger *log.Logger) *AnalysisService {
	return &AnalysisService{
		store:       store,
		catalog:     cat,
		categorizer: categorizer,
		engine:      engine,
		publisher:   publisher,
		logger:      logger,
	}
}

// UploadStatement stores a raw statement and, when a publisher is wired,
// enqueues its analysis. Returns the statement id.
func (s *AnalysisService) UploadStatement(ctx context.Context, filename string, content []byte) (string, error) {
	if len(content) == 0 {
		return "", core.ErrEmptyStatement
	}
	format := detectFormat(filename, content)

	id, err := s.store.SaveStatement(ctx, storage.Statement{
		Filename:     filename,
		SourceFormat: format,
		Content:      content,
	})
	if err != nil {
		return "", fmt.Errorf("save statement: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishAnalyzeStatement(ctx, id); err != nil {
			// The upload is durable; analysis can be re-requested.
			s.logger.ErrorContext(ctx, "failed to enqueue analysis job",
				log.FieldError, err, "statement_id", id)
		}
	}
	return id, nil
}

// AnalyzeStatement runs the full pipeline over a stored statement and
// persists the resulting report.
func (s *AnalysisService) AnalyzeStatement(ctx context.Context, statementID string, profile core.UserProfile) (storage.Report, error) {
	st, err := s.store.GetStatement(ctx, statementID)
	if err != nil {
		return storage.Report{}, fmt.Errorf("get statement %s: %w", statementID, err)
	}

	report, err := s.analyze(ctx, st, profile)
	if err != nil {
		return storage.Report{}, err
	}

	id, err := s.store.SaveReport(ctx, report)
	if err != nil {
		return storage.Report{}, fmt.Errorf("save report: %w", err)
	}
	report.ID = id

	s.logger.InfoContext(ctx, "statement analyzed",
		"statement_id", statementID,
		"report_id", id,
		"transactions", report.Analysis.TransactionCount,
		"total_spend", report.Analysis.TotalSpend)
	return report, nil
}

// AnalyzeUpload is the synchronous path: store, analyze, and persist the
// report in one call.
func (s *AnalysisService) AnalyzeUpload(ctx context.Context, filename string, content []byte, profile core.UserProfile) (storage.Report, error) {
	if len(content) == 0 {
		return storage.Report{}, core.ErrEmptyStatement
	}
	st := storage.Statement{
		Filename:     filename,
		SourceFormat: detectFormat(filename, content),
		Content:      content,
	}
	id, err := s.store.SaveStatement(ctx, st)
	if err != nil {
		return storage.Report{}, fmt.Errorf("save statement: %w", err)
	}
	st.ID = id
	return s.AnalyzeStatement(ctx, id, profile)
}

func (s *AnalysisService) analyze(ctx context.Context, st storage.Statement, profile core.UserProfile) (storage.Report, error) {
	var res *parser.Result
	fromPDF := st.SourceFormat == "pdf"
	if fromPDF {
		res = parser.ParsePDF(st.Content)
	} else {
		res = parser.ParseCSV(st.Content)
	}
	if !res.OK() {
		return storage.Report{}, fmt.Errorf("statement %s: %w: %s",
			st.ID, core.ErrUnparsableStatement, strings.Join(res.Errors, "; "))
	}
	for _, w := range res.Warnings {
		s.logger.WarnContext(ctx, "statement row skipped", "statement_id", st.ID, "warning", w)
	}

	categorized := s.categorizer.CategorizeAll(ctx, res.Transactions, fromPDF)
	analysis := analyze.Analyze(categorized, res.Period)

	report := storage.Report{
		StatementID: st.ID,
		Analysis:    analysis,
	}

	cards, err := s.catalog.ActiveCards(ctx)
	if err != nil {
		return storage.Report{}, fmt.Errorf("load card catalog: %w", err)
	}
	if len(cards) > 0 {
		annualized := analyze.Annualize(analysis.CategoryBreakdown, res.Period)
		recs, err := s.engine.Recommend(ctx, annualized, cards, profile)
		if err != nil {
			return storage.Report{}, fmt.Errorf("recommend cards: %w", err)
		}
		report.Recommendations = &recs
	}
	return report, nil
}

// Report returns a stored analysis snapshot.
func (s *AnalysisService) Report(ctx context.Context, id string) (storage.Report, error) {
	return s.store.GetReport(ctx, id)
}

// Reports lists stored report summaries, newest first.
func (s *AnalysisService) Reports(ctx context.Context, limit int) ([]storage.ReportSummary, error) {
	return s.store.ListReports(ctx, limit)
}

// Cards returns the active catalog.
func (s *AnalysisService) Cards(ctx context.Context) ([]core.CreditCard, error) {
	return s.catalog.ActiveCards(ctx)
}

// detectFormat keys off the filename extension, falling back to content
// sniffing for extensionless uploads.
func detectFormat(filename string, content []byte) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "pdf"
	case ".csv", ".txt":
		return "csv"
	}
	if len(content) >= 4 && string(content[:4]) == "%PDF" {
		return "pdf"
	}
	return "csv"
}
