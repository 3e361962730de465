package amqp

import (
	"encoding/json"
	"time"
)

// GenerateMonthMessage asks the billing worker to create the missing rent
// payments for a billing month. It carries only the month in YYYY-MM form,
// the worker reads the current roster from the database.
type GenerateMonthMessage struct {
	Month     string    `json:"month"`
	Requested time.Time `json:"requested"`
}

func NewGenerateMonthMessage(month string) *GenerateMonthMessage {
	return &GenerateMonthMessage{
		Month:     month,
		Requested: time.Now(),
	}
}

func (m *GenerateMonthMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func GenerateMonthMessageFromJSON(data []byte) (*GenerateMonthMessage, error) {
	var msg GenerateMonthMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// PaymentsGeneratedMessage announces that a generation run finished and how
// many payment records it created.
type PaymentsGeneratedMessage struct {
	Month     string    `json:"month"`
	Created   int       `json:"created"`
	Timestamp time.Time `json:"timestamp"`
}

func NewPaymentsGeneratedMessage(month string, created int) *PaymentsGeneratedMessage {
	return &PaymentsGeneratedMessage{
		Month:     month,
		Created:   created,
		Timestamp: time.Now(),
	}
}

func (m *PaymentsGeneratedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func PaymentsGeneratedMessageFromJSON(data []byte) (*PaymentsGeneratedMessage, error) {
	var msg PaymentsGeneratedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
