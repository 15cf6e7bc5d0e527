package sheets

import (
	"context"
	"fmt"
	"sync"

	"cardwise/internal/storage"
)

// Memory is a ReportWriter that keeps rows in memory, for tests and
// local runs without Google credentials.
type Memory struct {
	mu      sync.Mutex
	Reports []storage.Report
}

var _ ReportWriter = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) AppendReport(_ context.Context, report storage.Report) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reports = append(m.Reports, report)
	return fmt.Sprintf("memory:%d", len(m.Reports)), nil
}
