// Package storage persists uploaded statements and computed analysis
// reports. Analysis output is stored as a JSON snapshot: reports are
// read back whole, never queried field by field.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"cardwise/internal/core"

	_ "modernc.org/sqlite"
)

var (
	ErrStatementNotFound = errors.New("statement not found")
	ErrReportNotFound    = errors.New("report not found")
)

// Statement is an uploaded statement file awaiting or past analysis.
type Statement struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	SourceFormat string    `json:"source_format"` // csv | pdf
	Content      []byte    `json:"-"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// Report is one completed analysis run over a statement.
type Report struct {
	ID              string                     `json:"id"`
	StatementID     string                     `json:"statement_id"`
	Analysis        core.SpendingAnalysis      `json:"analysis"`
	Recommendations *core.RecommendationResult `json:"recommendations,omitempty"`
	CreatedAt       time.Time                  `json:"created_at"`
}

// ReportSummary is the listing row; the snapshot itself stays on disk.
type ReportSummary struct {
	ID          string    `json:"id"`
	StatementID string    `json:"statement_id"`
	TotalSpend  float64   `json:"total_spend"`
	CreatedAt   time.Time `json:"created_at"`
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SaveStatement stores the raw upload and returns its id. An empty id
// gets a fresh UUID.
func (r *SQLiteRepository) SaveStatement(ctx context.Context, st Statement) (string, error) {
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	if st.UploadedAt.IsZero() {
		st.UploadedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO statements (id, filename, source_format, content, uploaded_at)
		VALUES (?, ?, ?, ?, ?)`,
		st.ID, st.Filename, st.SourceFormat, st.Content, st.UploadedAt)
	if err != nil {
		return "", fmt.Errorf("insert statement: %w", err)
	}

	slog.InfoContext(ctx, "Statement saved",
		"id", st.ID,
		"filename", st.Filename,
		"source_format", st.SourceFormat,
		"bytes", len(st.Content))
	return st.ID, nil
}

func (r *SQLiteRepository) GetStatement(ctx context.Context, id string) (Statement, error) {
	var st Statement
	err := r.db.QueryRowContext(ctx, `
		SELECT id, filename, source_format, content, uploaded_at
		FROM statements WHERE id = ?`, id).
		Scan(&st.ID, &st.Filename, &st.SourceFormat, &st.Content, &st.UploadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Statement{}, ErrStatementNotFound
	}
	if err != nil {
		return Statement{}, fmt.Errorf("get statement %s: %w", id, err)
	}
	return st, nil
}

// SaveReport stores an analysis snapshot and returns the report id.
func (r *SQLiteRepository) SaveReport(ctx context.Context, report Report) (string, error) {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}

	snapshot, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("encode report snapshot: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO reports (id, statement_id, total_spend, snapshot, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		report.ID, report.StatementID, report.Analysis.TotalSpend, snapshot, report.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("insert report: %w", err)
	}

	slog.InfoContext(ctx, "Report saved",
		"id", report.ID,
		"statement_id", report.StatementID,
		"total_spend", report.Analysis.TotalSpend)
	return report.ID, nil
}

func (r *SQLiteRepository) GetReport(ctx context.Context, id string) (Report, error) {
	var snapshot []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT snapshot FROM reports WHERE id = ?`, id).Scan(&snapshot)
	if errors.Is(err, sql.ErrNoRows) {
		return Report{}, ErrReportNotFound
	}
	if err != nil {
		return Report{}, fmt.Errorf("get report %s: %w", id, err)
	}

	var report Report
	if err := json.Unmarshal(snapshot, &report); err != nil {
		return Report{}, fmt.Errorf("decode report %s: %w", id, err)
	}
	return report, nil
}

// ListReports returns report summaries, newest first.
func (r *SQLiteRepository) ListReports(ctx context.Context, limit int) ([]ReportSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, statement_id, total_spend, created_at
		FROM reports ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var out []ReportSummary
	for rows.Next() {
		var s ReportSummary
		if err := rows.Scan(&s.ID, &s.StatementID, &s.TotalSpend, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return out, nil
}
