// Package worker consumes analysis jobs from the queue and drives the
// statement pipeline for each one.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"cardwise/internal/amqp"
	"cardwise/internal/core"
	"cardwise/internal/export/sheets"
	"cardwise/internal/services"
)

// AnalysisWorker processes queued statement-analysis jobs. When an
// exporter is configured, finished reports are also appended to the
// partner spreadsheet.
type AnalysisWorker struct {
	service  *services.AnalysisService
	exporter sheets.ReportWriter
	profile  core.UserProfile
}

// NewAnalysisWorker creates a worker. exporter may be nil. profile is
// applied to every queued job; uploads that need per-user eligibility
// go through the synchronous API path instead.
func NewAnalysisWorker(service *services.AnalysisService, exporter sheets.ReportWriter, profile core.UserProfile) *AnalysisWorker {
	return &AnalysisWorker{
		service:  service,
		exporter: exporter,
		profile:  profile,
	}
}

// HandleAnalyzeMessage processes a single analysis job from AMQP.
func (w *AnalysisWorker) HandleAnalyzeMessage(ctx context.Context, msg *amqp.AnalyzeStatementMessage) error {
	slog.InfoContext(ctx, "Processing analysis job",
		"statement_id", msg.StatementID,
		"uploaded_at", msg.UploadedAt)

	report, err := w.service.AnalyzeStatement(ctx, msg.StatementID, w.profile)
	if err != nil {
		return fmt.Errorf("analyze statement %s: %w", msg.StatementID, err)
	}

	if w.exporter != nil {
		ref, err := w.exporter.AppendReport(ctx, report)
		if err != nil {
			// The report is already persisted; export is best effort.
			slog.ErrorContext(ctx, "Failed to export report",
				"report_id", report.ID,
				"error", err)
		} else {
			slog.InfoContext(ctx, "Report exported",
				"report_id", report.ID,
				"sheets_ref", ref)
		}
	}

	slog.InfoContext(ctx, "Analysis job completed",
		"statement_id", msg.StatementID,
		"report_id", report.ID,
		"transactions", report.Analysis.TransactionCount)
	return nil
}
