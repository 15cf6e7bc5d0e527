package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"cardwise/internal/core"
	"cardwise/internal/storage"
)

// maxUploadBytes bounds statement uploads. Monthly statements are
// rarely over a megabyte even as PDFs.
const maxUploadBytes = 10 << 20

// AnalysisAPI is the slice of the analysis service the handlers need.
type AnalysisAPI interface {
	UploadStatement(ctx context.Context, filename string, content []byte) (string, error)
	AnalyzeUpload(ctx context.Context, filename string, content []byte, profile core.UserProfile) (storage.Report, error)
	Report(ctx context.Context, id string) (storage.Report, error)
	Reports(ctx context.Context, limit int) ([]storage.ReportSummary, error)
	Cards(ctx context.Context) ([]core.CreditCard, error)
}

// handleUploadStatement accepts a statement upload and queues it for
// analysis. Responds 202 with the statement id.
func (s *Server) handleUploadStatement(w http.ResponseWriter, r *http.Request) {
	filename, content, ok := readStatementUpload(w, r)
	if !ok {
		return
	}

	id, err := s.service.UploadStatement(r.Context(), filename, content)
	if err != nil {
		if errors.Is(err, core.ErrEmptyStatement) {
			writeError(w, http.StatusUnprocessableEntity, "statement is empty")
			return
		}
		slog.ErrorContext(r.Context(), "Statement upload failed", "error", err, "filename", filename)
		writeError(w, http.StatusInternalServerError, "failed to store statement")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"statement_id": id})
}

// handleAnalyze is the synchronous path: upload, analyze, and return
// the full report in one request.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	filename, content, ok := readStatementUpload(w, r)
	if !ok {
		return
	}

	profile, err := readProfile(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid profile: "+err.Error())
		return
	}

	report, err := s.service.AnalyzeUpload(r.Context(), filename, content, profile)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrEmptyStatement):
			writeError(w, http.StatusUnprocessableEntity, "statement is empty")
		case errors.Is(err, core.ErrUnparsableStatement):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			slog.ErrorContext(r.Context(), "Statement analysis failed", "error", err, "filename", filename)
			writeError(w, http.StatusInternalServerError, "analysis failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	report, err := s.service.Report(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrReportNotFound) {
			writeError(w, http.StatusNotFound, "report not found")
			return
		}
		slog.ErrorContext(r.Context(), "Report fetch failed", "error", err, "report_id", id)
		writeError(w, http.StatusInternalServerError, "failed to load report")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	reports, err := s.service.Reports(r.Context(), limit)
	if err != nil {
		slog.ErrorContext(r.Context(), "Report listing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}
	if reports == nil {
		reports = []storage.ReportSummary{}
	}
	writeJSON(w, http.StatusOK, reports)
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.service.Cards(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Card listing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list cards")
		return
	}
	if cards == nil {
		cards = []core.CreditCard{}
	}
	writeJSON(w, http.StatusOK, cards)
}

// readStatementUpload pulls the statement file out of a multipart form,
// falling back to the raw body for direct uploads. On failure it writes
// the error response and returns ok=false.
func readStatementUpload(w http.ResponseWriter, r *http.Request) (filename string, content []byte, ok bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		file, header, err := r.FormFile("statement")
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing statement file field")
			return "", nil, false
		}
		defer file.Close()

		content, err = io.ReadAll(file)
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read statement file")
			return "", nil, false
		}
		return header.Filename, content, true
	}

	content, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return "", nil, false
	}
	filename = strings.TrimSpace(r.Header.Get("X-Filename"))
	if filename == "" {
		filename = "statement"
	}
	return filename, content, true
}

// readProfile decodes the optional user profile from the multipart
// "profile" field or the X-Profile header. Absent profile means no
// eligibility gating beyond card status.
func readProfile(r *http.Request) (core.UserProfile, error) {
	var raw string
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		raw = strings.TrimSpace(r.FormValue("profile"))
	}
	if raw == "" {
		raw = strings.TrimSpace(r.Header.Get("X-Profile"))
	}
	if raw == "" {
		return core.UserProfile{}, nil
	}

	var profile core.UserProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return core.UserProfile{}, err
	}
	return profile, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
