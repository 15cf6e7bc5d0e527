package amqp

import (
	"encoding/json"
	"time"
)

// AnalyzeStatementMessage asks the worker to analyze one uploaded
// statement. It carries only the id; the worker fetches the statement
// body from the repository.
type AnalyzeStatementMessage struct {
	StatementID string    `json:"statement_id"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

func NewAnalyzeStatementMessage(statementID string) *AnalyzeStatementMessage {
	return &AnalyzeStatementMessage{
		StatementID: statementID,
		UploadedAt:  time.Now().UTC(),
	}
}

func (m *AnalyzeStatementMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func AnalyzeStatementMessageFromJSON(data []byte) (*AnalyzeStatementMessage, error) {
	var msg AnalyzeStatementMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
