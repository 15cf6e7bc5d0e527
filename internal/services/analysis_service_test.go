package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cardwise/internal/catalog"
	"cardwise/internal/categorize"
	"cardwise/internal/core"
	"cardwise/internal/log"
	"cardwise/internal/recommend"
	"cardwise/internal/storage"
)

type memStore struct {
	statements map[string]storage.Statement
	reports    map[string]storage.Report
	nextID     int
}

func newMemStore() *memStore {
	return &memStore{
		statements: make(map[string]storage.Statement),
		reports:    make(map[string]storage.Report),
	}
}

func (m *memStore) id() string {
	m.nextID++
	return string(rune('a' + m.nextID - 1))
}

func (m *memStore) SaveStatement(_ context.Context, st storage.Statement) (string, error) {
	if st.ID == "" {
		st.ID = m.id()
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
		report.ID = m.id()
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

func (m *memStore) ListReports(_ context.Context, limit int) ([]storage.ReportSummary, error) {
	var out []storage.ReportSummary
	for _, r := range m.reports {
		out = append(out, storage.ReportSummary{ID: r.ID, StatementID: r.StatementID})
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type recordingPublisher struct {
	published []string
	err       error
}

func (p *recordingPublisher) PublishAnalyzeStatement(_ context.Context, id string) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, id)
	return nil
}

func newTestService(t *testing.T, store ReportStore, publisher JobPublisher) *AnalysisService {
	t.Helper()
	cards := catalog.NewMemoryStore()
	if _, err := catalog.SeedDefault(context.Background(), cards); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	logger := log.New(log.DefaultConfig())
	return NewAnalysisService(
		store,
		cards,
		categorize.NewService(nil, logger),
		recommend.NewEngine(recommend.Options{}, logger),
		publisher,
		logger,
	)
}

const sampleCSV = `Transaction Date,Description,Amount,Category,Type Code
01/05/2025,WALMART GROCERY #1234,100.00,,5411
01/07/2025,SHELL OIL 57442551,40.00,,5541
01/12/2025,STARBUCKS STORE 04523,5.50,,
01/20/2025,PAYMENT THANK YOU,-250.00,,
`

func TestUploadStatementPublishesJob(t *testing.T) {
	store := newMemStore()
	pub := &recordingPublisher{}
	svc := newTestService(t, store, pub)

	id, err := svc.UploadStatement(context.Background(), "jan.csv", []byte(sampleCSV))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if len(pub.published) != 1 || pub.published[0] != id {
		t.Errorf("published = %v, want [%s]", pub.published, id)
	}
	if _, ok := store.statements[id]; !ok {
		t.Error("statement not stored")
	}
}

func TestUploadStatementSurvivesPublishFailure(t *testing.T) {
	store := newMemStore()
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := newTestService(t, store, pub)

	id, err := svc.UploadStatement(context.Background(), "jan.csv", []byte(sampleCSV))
	if err != nil {
		t.Fatalf("upload should not fail on publish error: %v", err)
	}
	if _, ok := store.statements[id]; !ok {
		t.Error("statement not stored")
	}
}

func TestUploadStatementEmpty(t *testing.T) {
	svc := newTestService(t, newMemStore(), nil)
	if _, err := svc.UploadStatement(context.Background(), "x.csv", nil); !errors.Is(err, core.ErrEmptyStatement) {
		t.Fatalf("err = %v, want ErrEmptyStatement", err)
	}
}

func TestAnalyzeUploadFullPipeline(t *testing.T) {
	store := newMemStore()
	svc := newTestService(t, store, nil)

	report, err := svc.AnalyzeUpload(context.Background(), "jan.csv", []byte(sampleCSV), core.UserProfile{CreditScore: 720})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	if report.Analysis.TransactionCount != 4 {
		t.Errorf("transactions = %d, want 4", report.Analysis.TransactionCount)
	}
	if report.Analysis.TotalSpend != 145.50 {
		t.Errorf("total spend = %v, want 145.50", report.Analysis.TotalSpend)
	}
	if report.Analysis.TotalCredits != 250 {
		t.Errorf("credits = %v, want 250", report.Analysis.TotalCredits)
	}
	if len(report.Analysis.CategoryBreakdown) == 0 {
		t.Fatal("no category breakdown")
	}
	if report.Analysis.CategoryBreakdown[0].Category != core.Groceries {
		t.Errorf("top category = %s, want Groceries", report.Analysis.CategoryBreakdown[0].Category)
	}

	if report.Recommendations == nil {
		t.Fatal("no recommendations")
	}
	if len(report.Recommendations.Recommendations) == 0 {
		t.Fatal("empty recommendation list")
	}
	if report.Recommendations.AnnualizedSpend <= report.Analysis.TotalSpend {
		t.Errorf("annualized spend %v should exceed period spend %v",
			report.Recommendations.AnnualizedSpend, report.Analysis.TotalSpend)
	}

	// Report persisted and fetchable.
	stored, err := svc.Report(context.Background(), report.ID)
	if err != nil {
		t.Fatalf("get report: %v", err)
	}
	if stored.StatementID != report.StatementID {
		t.Errorf("stored statement id = %s, want %s", stored.StatementID, report.StatementID)
	}
}

func TestAnalyzeStatementUnparseable(t *testing.T) {
	store := newMemStore()
	svc := newTestService(t, store, nil)

	id, err := store.SaveStatement(context.Background(), storage.Statement{
		SourceFormat: "csv",
		Content:      []byte("garbage with no rows"),
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	_, err = svc.AnalyzeStatement(context.Background(), id, core.UserProfile{})
	if !errors.Is(err, core.ErrUnparsableStatement) {
		t.Fatalf("err = %v, want ErrUnparsableStatement", err)
	}
	if !strings.Contains(err.Error(), id) {
		t.Errorf("err %v does not name the statement", err)
	}
}

func TestAnalyzeStatementMissing(t *testing.T) {
	svc := newTestService(t, newMemStore(), nil)
	if _, err := svc.AnalyzeStatement(context.Background(), "nope", core.UserProfile{}); !errors.Is(err, storage.ErrStatementNotFound) {
		t.Fatalf("err = %v, want ErrStatementNotFound", err)
	}
}

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		filename string
		content  string
		want     string
	}{
		{"statement.pdf", "", "pdf"},
		{"statement.csv", "", "csv"},
		{"statement.CSV", "", "csv"},
		{"upload", "%PDF-1.7 ...", "pdf"},
		{"upload", "Date,Description,Amount", "csv"},
	}
	for _, tc := range cases {
		if got := detectFormat(tc.filename, []byte(tc.content)); got != tc.want {
			t.Errorf("detectFormat(%q) = %q, want %q", tc.filename, got, tc.want)
		}
	}
}
