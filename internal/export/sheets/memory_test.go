package sheets

import (
	"context"
	"testing"

	"cardwise/internal/core"
	"cardwise/internal/storage"
)

func TestMemoryAppendReport(t *testing.T) {
	m := NewMemory()
	ref, err := m.AppendReport(context.Background(), storage.Report{
		ID:       "r1",
		Analysis: core.SpendingAnalysis{TotalSpend: 140},
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if ref != "memory:1" {
		t.Errorf("ref = %q, want memory:1", ref)
	}
	if len(m.Reports) != 1 || m.Reports[0].ID != "r1" {
		t.Errorf("reports = %+v", m.Reports)
	}
}
