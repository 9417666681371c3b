package webhook

import (
	"context"
	"sync"
	"time"
)

// HandlerFunc reacts to one verified delivery.
type HandlerFunc func(ctx context.Context, ev *Event)

// defaultBufferSize bounds the in-memory recent-event ring.
const defaultBufferSize = 100

// Dispatcher is the in-process sink: it fans deliveries out to
// registered handlers and keeps a bounded in-memory buffer of recent
// events. It backs the events resource when no database is configured.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]HandlerFunc
	recent   []map[string]any
	max      int
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string][]HandlerFunc),
		max:      defaultBufferSize,
	}
}

// On registers a handler for an event name. "*" matches every event.
func (d *Dispatcher) On(event string, h HandlerFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[event] = append(d.handlers[event], h)
}

// RecordEvent implements Sink: buffer the delivery and run matching
// handlers synchronously.
func (d *Dispatcher) RecordEvent(ctx context.Context, webhookID, event, taskID string, payload []byte) error {
	entry := map[string]any{
		"event":      event,
		"webhookId":  webhookID,
		"receivedAt": time.Now().UTC(),
	}
	if taskID != "" {
		entry["taskId"] = taskID
	}

	d.mu.Lock()
	d.recent = append(d.recent, entry)
	if len(d.recent) > d.max {
		d.recent = d.recent[len(d.recent)-d.max:]
	}
	matched := append([]HandlerFunc{}, d.handlers[event]...)
	matched = append(matched, d.handlers["*"]...)
	d.mu.Unlock()

	if len(matched) > 0 {
		ev := &Event{WebhookID: webhookID, Event: event, TaskID: taskID}
		for _, h := range matched {
			h(ctx, ev)
		}
	}
	return nil
}

// RecentEvents returns the newest buffered events, most recent first.
func (d *Dispatcher) RecentEvents(ctx context.Context, limit int) ([]map[string]any, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	n := len(d.recent)
	if limit > n {
		limit = n
	}
	out := make([]map[string]any, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, d.recent[i])
	}
	return out, nil
}
