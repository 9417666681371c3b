// Package webhook receives ClickUp webhook deliveries: it verifies the
// X-Signature HMAC, parses the event envelope, and hands the delivery
// to a sink for capture.
package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"clickupmcp/server/internal/observability"
)

// maxBodySize caps webhook payloads at 1 MiB.
const maxBodySize = 1 << 20

// Event is the envelope ClickUp sends with every delivery. The
// history items stay loosely typed; downstream consumers read the raw
// payload anyway.
type Event struct {
	WebhookID    string           `json:"webhook_id"`
	Event        string           `json:"event"`
	TaskID       string           `json:"task_id,omitempty"`
	ListID       string           `json:"list_id,omitempty"`
	FolderID     string           `json:"folder_id,omitempty"`
	SpaceID      string           `json:"space_id,omitempty"`
	HistoryItems []map[string]any `json:"history_items,omitempty"`
}

// EntityID returns the ID of whichever entity the event concerns.
func (e *Event) EntityID() string {
	for _, id := range []string{e.TaskID, e.ListID, e.FolderID, e.SpaceID} {
		if id != "" {
			return id
		}
	}
	return ""
}

// Sink captures verified deliveries.
type Sink interface {
	RecordEvent(ctx context.Context, webhookID, event, taskID string, payload []byte) error
}

// VerifySignature checks a ClickUp webhook signature: the hex HMAC
// SHA-256 of the raw body under the webhook secret.
func VerifySignature(secret string, body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Handler is the webhook ingress endpoint. An empty secret disables
// signature verification; a nil sink still logs deliveries.
func Handler(secret string, sink Sink) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
		if err != nil {
			http.Error(w, `{"error":"failed to read body"}`, http.StatusBadRequest)
			return
		}

		if secret != "" {
			sig := r.Header.Get("X-Signature")
			if sig == "" || !VerifySignature(secret, body, sig) {
				observability.LogWebhookEvent("", "unknown", "", false)
				http.Error(w, `{"error":"invalid signature"}`, http.StatusUnauthorized)
				return
			}
		}

		var ev Event
		if err := json.Unmarshal(body, &ev); err != nil {
			http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
			return
		}
		if ev.Event == "" {
			http.Error(w, `{"error":"missing event"}`, http.StatusBadRequest)
			return
		}

		if sink != nil {
			if err := sink.RecordEvent(r.Context(), ev.WebhookID, ev.Event, ev.TaskID, body); err != nil {
				log.Printf("[webhook] failed to record %s: %v", ev.Event, err)
			}
		}
		observability.LogWebhookEvent(ev.WebhookID, ev.Event, ev.TaskID, true)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":true}`))
	}
}
