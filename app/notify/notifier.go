// Package notify delivers best-effort failure alerts to a webhook. Delivery
// problems are swallowed: notification must never block or fail a run.
package notify

import (
	"encoding/json"
	"io"
	"log/slog"

	"github.com/lysyi3m/rss-base-sync/app/httpclient"
)

type Notifier struct {
	httpClient *httpclient.Client
	webhookURL string
}

func NewNotifier(httpClient *httpclient.Client, webhookURL string) *Notifier {
	return &Notifier{
		httpClient: httpClient,
		webhookURL: webhookURL,
	}
}

// Send posts the message to the configured webhook. A no-op when no
// webhook is configured.
func (n *Notifier) Send(message string) {
	if n == nil || n.webhookURL == "" {
		return
	}

	payload, err := json.Marshal(map[string]any{
		"msg_type": "text",
		"content":  map[string]string{"text": message},
	})
	if err != nil {
		slog.Debug("Failed to encode notification", "error", err)
		return
	}

	resp, err := n.httpClient.PostJSON(n.webhookURL, payload)
	if err != nil {
		slog.Debug("Notification delivery failed", "error", err)
		return
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	slog.Debug("Notification sent", "length", len(message))
}
