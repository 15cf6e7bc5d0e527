package sheets

import (
	"context"

	"cardwise/internal/storage"
)

// ReportWriter is the outbound port for partner-facing report export.
type ReportWriter interface {
	AppendReport(ctx context.Context, report storage.Report) (rowRef string, err error)
}
