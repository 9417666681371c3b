package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// JSONB is a generic type for PostgreSQL JSONB columns.
type JSONB json.RawMessage

func (j JSONB) Value() (driver.Value, error) {
	if len(j) == 0 {
		return "{}", nil
	}
	return string(j), nil
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = JSONB("{}")
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*j = JSONB(v)
	case string:
		*j = JSONB(v)
	default:
		return fmt.Errorf("unsupported type for JSONB: %T", value)
	}
	return nil
}

func (j JSONB) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("{}"), nil
	}
	return json.RawMessage(j).MarshalJSON()
}

func (j *JSONB) UnmarshalJSON(data []byte) error {
	*j = JSONB(data)
	return nil
}

// --- Models ---

// WebhookEvent is one received ClickUp webhook delivery. The raw
// payload is kept verbatim alongside the routing fields.
type WebhookEvent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	WebhookID  string    `gorm:"type:text;index" json:"webhook_id"`
	Event      string    `gorm:"type:text;not null" json:"event"`
	TaskID     string    `gorm:"type:text;index" json:"task_id"`
	Payload    JSONB     `gorm:"type:jsonb;not null;default:'{}'" json:"payload"`
	ReceivedAt time.Time `gorm:"not null;default:now();index" json:"received_at"`
}

func (WebhookEvent) TableName() string { return "clickupmcp.webhook_events" }
