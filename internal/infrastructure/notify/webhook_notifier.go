package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"dealflow/internal/usecase/interfaces"

	"github.com/rs/zerolog/log"
)

const dispatchTimeout = 10 * time.Second

// WebhookNotifier POSTs committed transition events to a configured webhook.
//
// Dispatch is fire-and-forget and runs after the storage commit: the workflow
// result never depends on delivery, and a failed POST is only logged. With no
// NOTIFY_WEBHOOK_URL configured the notifier degrades to a log line, which is
// what local development wants anyway.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

var _ interfaces.INotifier = (*WebhookNotifier)(nil)

func NewWebhookNotifierFromEnv() *WebhookNotifier {
	return &WebhookNotifier{
		url:    os.Getenv("NOTIFY_WEBHOOK_URL"),
		client: &http.Client{Timeout: dispatchTimeout},
	}
}

func (n *WebhookNotifier) NotifyTransition(ctx context.Context, ev interfaces.TransitionEvent) {
	log.Info().
		Str("entity_type", ev.EntityType).
		Str("entity_id", ev.EntityID).
		Str("action", ev.Action).
		Str("from", ev.FromStatus).
		Str("to", ev.ToStatus).
		Str("actor_id", ev.Actor.ID).
		Str("actor_role", string(ev.Actor.Role)).
		Msg("workflow transition committed")

	if n.url == "" {
		return
	}

	// Detached from the request context: the caller's request may finish
	// before delivery, and a caller cancellation must not cancel the
	// announcement of an already-committed transition.
	go n.post(ev)
}

func (n *WebhookNotifier) post(ev interfaces.TransitionEvent) {
	body, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Msg("notify: event marshal failed")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		log.Error().Err(err).Msg("notify: request build failed")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("entity_id", ev.EntityID).Msg("notify: webhook delivery failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Warn().Int("status", resp.StatusCode).Str("entity_id", ev.EntityID).Msg("notify: webhook rejected event")
	}
}
