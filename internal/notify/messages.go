package notify

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// BillReminderMessage announces a recurring bill that is due soon.
type BillReminderMessage struct {
	UserID       string          `json:"user_id"`
	BillID       string          `json:"bill_id"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	AccountName  string          `json:"account_name"`
	DueDate      time.Time       `json:"due_date"`
	DaysUntilDue int             `json:"days_until_due"`
	Text         string          `json:"text"`
	Timestamp    time.Time       `json:"timestamp"`
}

// ToJSON converts the message to JSON bytes
func (m *BillReminderMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BillReminderMessageFromJSON decodes a message published by ToJSON.
func BillReminderMessageFromJSON(data []byte) (*BillReminderMessage, error) {
	var msg BillReminderMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
