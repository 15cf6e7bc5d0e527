package amqp

import (
	"testing"
	"time"
)

func TestNewAnalyzeStatementMessage(t *testing.T) {
	msg := NewAnalyzeStatementMessage("st-123")

	if msg.StatementID != "st-123" {
		t.Errorf("StatementID = %v, want st-123", msg.StatementID)
	}
	if msg.UploadedAt.IsZero() {
		t.Error("UploadedAt should not be zero")
	}
	if time.Since(msg.UploadedAt) > time.Second {
		t.Error("UploadedAt should be recent")
	}
}

func TestAnalyzeStatementMessageJSON(t *testing.T) {
	uploaded := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	msg := &AnalyzeStatementMessage{
		StatementID: "st-456",
		UploadedAt:  uploaded,
	}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := AnalyzeStatementMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("AnalyzeStatementMessageFromJSON() error = %v", err)
	}

	if parsed.StatementID != msg.StatementID {
		t.Errorf("StatementID = %v, want %v", parsed.StatementID, msg.StatementID)
	}
	if !parsed.UploadedAt.Equal(msg.UploadedAt) {
		t.Errorf("UploadedAt = %v, want %v", parsed.UploadedAt, msg.UploadedAt)
	}
}

func TestAnalyzeStatementMessageInvalidJSON(t *testing.T) {
	if _, err := AnalyzeStatementMessageFromJSON([]byte(`{"statement_id": 42`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
