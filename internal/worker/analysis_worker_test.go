package worker

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cardwise/internal/amqp"
	"cardwise/internal/catalog"
	"cardwise/internal/categorize"
	"cardwise/internal/core"
	"cardwise/internal/export/sheets"
	"cardwise/internal/log"
	"cardwise/internal/recommend"
	"cardwise/internal/services"
	"cardwise/internal/storage"
)

type memStore struct {
	statements map[string]storage.Statement
	reports    map[string]storage.Report
}

func newMemStore() *memStore {
	return &memStore{
		statements: make(map[string]storage.Statement),
		reports:    make(map[string]storage.Report),
	}
}

func (m *memStore) SaveStatement(_ context.Context, st storage.Statement) (string, error) {
	if st.ID == "" {
		st.ID = "st-1"
	}
	m.statements[st.ID] = st
	return st.ID, nil
}

func (m *memStore) GetStatement(_ context.Context, id string) (storage.Statement, error) {
	st, ok := m.statements[id]
	if !ok {
		return storage.Statement{}, storage.ErrStatementNotFound
	}
	return st, nil
}

func (m *memStore) SaveReport(_ context.Context, report storage.Report) (string, error) {
	if report.ID == "" {
		report.ID = "rep-1"
	}
	m.reports[report.ID] = report
	return report.ID, nil
}

func (m *memStore) GetReport(_ context.Context, id string) (storage.Report, error) {
	r, ok := m.reports[id]
	if !ok {
		return storage.Report{}, storage.ErrReportNotFound
	}
	return r, nil
}

func (m *memStore) ListReports(_ context.Context, _ int) ([]storage.ReportSummary, error) {
	return nil, nil
}

type failingWriter struct{}

func (failingWriter) AppendReport(context.Context, storage.Report) (string, error) {
	return "", errors.New("spreadsheet unavailable")
}

const statementCSV = `Transaction Date,Description,Amount,Category,Type Code
02/03/2025,WALMART GROCERY #1234,80.00,,5411
02/10/2025,NETFLIX.COM,15.49,,
`

func newTestWorker(t *testing.T, store services.ReportStore, exporter sheets.ReportWriter) *AnalysisWorker {
	t.Helper()
	cards := catalog.NewMemoryStore()
	if _, err := catalog.SeedDefault(context.Background(), cards); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	logger := log.New(log.DefaultConfig())
	svc := services.NewAnalysisService(
		store,
		cards,
		categorize.NewService(nil, logger),
		recommend.NewEngine(recommend.Options{}, logger),
		nil,
		logger,
	)
	return NewAnalysisWorker(svc, exporter, core.UserProfile{CreditScore: 720})
}

func TestHandleAnalyzeMessage(t *testing.T) {
	store := newMemStore()
	exporter := sheets.NewMemory()
	w := newTestWorker(t, store, exporter)

	id, err := store.SaveStatement(context.Background(), storage.Statement{
		Filename:     "feb.csv",
		SourceFormat: "csv",
		Content:      []byte(statementCSV),
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	msg := &amqp.AnalyzeStatementMessage{StatementID: id, UploadedAt: time.Now().UTC()}
	if err := w.HandleAnalyzeMessage(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if len(store.reports) != 1 {
		t.Fatalf("reports stored = %d, want 1", len(store.reports))
	}
	if len(exporter.Reports) != 1 {
		t.Fatalf("reports exported = %d, want 1", len(exporter.Reports))
	}
	if exporter.Reports[0].StatementID != id {
		t.Errorf("exported statement id = %s, want %s", exporter.Reports[0].StatementID, id)
	}
}

func TestHandleAnalyzeMessageMissingStatement(t *testing.T) {
	w := newTestWorker(t, newMemStore(), nil)
	msg := &amqp.AnalyzeStatementMessage{StatementID: "nope"}
	err := w.HandleAnalyzeMessage(context.Background(), msg)
	if !errors.Is(err, storage.ErrStatementNotFound) {
		t.Fatalf("err = %v, want ErrStatementNotFound", err)
	}
	if !strings.Contains(err.Error(), "nope") {
		t.Errorf("err should name the statement: %v", err)
	}
}

func TestHandleAnalyzeMessageExportFailureIsNotFatal(t *testing.T) {
	store := newMemStore()
	w := newTestWorker(t, store, failingWriter{})

	id, err := store.SaveStatement(context.Background(), storage.Statement{
		SourceFormat: "csv",
		Content:      []byte(statementCSV),
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	msg := &amqp.AnalyzeStatementMessage{StatementID: id}
	if err := w.HandleAnalyzeMessage(context.Background(), msg); err != nil {
		t.Fatalf("export failure should not fail the job: %v", err)
	}
	if len(store.reports) != 1 {
		t.Errorf("report should still be persisted")
	}
}
