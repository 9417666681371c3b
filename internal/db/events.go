package db

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// EventStore persists received webhook events and serves them back for
// the events resource.
type EventStore struct {
	db *gorm.DB
}

func NewEventStore(database *gorm.DB) *EventStore {
	return &EventStore{db: database}
}

// RecordEvent inserts one webhook delivery. Fire-and-forget style.
func (s *EventStore) RecordEvent(ctx context.Context, webhookID, event, taskID string, payload []byte) error {
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	entry := WebhookEvent{
		WebhookID: webhookID,
		Event:     event,
		TaskID:    taskID,
		Payload:   JSONB(payload),
	}
	return s.db.WithContext(ctx).Create(&entry).Error
}

// PruneEvents deletes events received before the cutoff and reports
// how many rows went away.
func (s *EventStore) PruneEvents(ctx context.Context, before time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("received_at < ?", before).
		Delete(&WebhookEvent{})
	return res.RowsAffected, res.Error
}

// RecentEvents returns the newest events, most recent first, projected
// to the camelCase shape the events resource serves.
func (s *EventStore) RecentEvents(ctx context.Context, limit int) ([]map[string]any, error) {
	var rows []WebhookEvent
	if err := s.db.WithContext(ctx).
		Order("received_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		entry := map[string]any{
			"event":      row.Event,
			"webhookId":  row.WebhookID,
			"receivedAt": row.ReceivedAt,
		}
		if row.TaskID != "" {
			entry["taskId"] = row.TaskID
		}
		var payload map[string]any
		if err := json.Unmarshal(row.Payload, &payload); err == nil && len(payload) > 0 {
			entry["payload"] = payload
		}
		out = append(out, entry)
	}
	return out, nil
}
