package amqp

import (
	"encoding/json"
	"time"

	"savings/internal/core"
)

// AdvisoryReportMessage carries one financial report to the advisory consumer.
// UserID is nil for the report covering every owner.
type AdvisoryReportMessage struct {
	UserID      *int64               `json:"user_id"`
	GeneratedAt time.Time            `json:"generated_at"`
	Report      core.FinancialReport `json:"report"`
}

func NewAdvisoryReportMessage(userID *int64, report core.FinancialReport) *AdvisoryReportMessage {
	return &AdvisoryReportMessage{
		UserID:      userID,
		GeneratedAt: time.Now().UTC(),
		Report:      report,
	}
}

// ToJSON converts the message to JSON bytes
func (m *AdvisoryReportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// AdvisoryReportMessageFromJSON decodes a message published by PublishFinancialReport.
func AdvisoryReportMessageFromJSON(data []byte) (*AdvisoryReportMessage, error) {
	var msg AdvisoryReportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
