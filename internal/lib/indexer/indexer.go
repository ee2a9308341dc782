package indexer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"resource_hub/internal/lib/logger/sl"
	"resource_hub/internal/metrics"
)

// Notifier pings an external indexing service when a resource is created
// or updated. Callers run it fire-and-forget; failures are logged and
// counted, never surfaced.
type Notifier struct {
	log      *slog.Logger
	client   *http.Client
	endpoint string
	siteURL  string
}

func New(log *slog.Logger, endpoint, siteURL string) *Notifier {
	return &Notifier{
		log:      log,
		client:   &http.Client{Timeout: 10 * time.Second},
		endpoint: endpoint,
		siteURL:  siteURL,
	}
}

// ResourceUpdated submits the resource's public URL for re-indexing.
func (n *Notifier) ResourceUpdated(ctx context.Context, slug string) {
	const op = "indexer.Notifier.ResourceUpdated"

	log := n.log.With(
		slog.String("op", op),
		slog.String("slug", slug),
	)

	if n.endpoint == "" {
		return
	}

	body, err := json.Marshal(map[string]string{
		"url":  fmt.Sprintf("%s/resources/%s", n.siteURL, slug),
		"type": "URL_UPDATED",
	})
	if err != nil {
		metrics.NotifyFailures.Inc()
		log.Error("failed to encode notify payload", sl.Err(err))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		metrics.NotifyFailures.Inc()
		log.Error("failed to build notify request", sl.Err(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		metrics.NotifyFailures.Inc()
		log.Error("indexer notify failed", sl.Err(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		metrics.NotifyFailures.Inc()
		log.Error("indexer notify rejected", slog.Int("status", resp.StatusCode))
		return
	}

	log.Info("indexer notified")
}
