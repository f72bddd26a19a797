package followerwatch

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// WebhookNotifier announces new followers with a JSON POST to a configured
// URL.
type WebhookNotifier struct {
	URL      string
	Username string

	client *http.Client
	log    *zap.SugaredLogger
	now    func() time.Time
}

type webhookPayload struct {
	Event        string   `json:"event"`
	Username     string   `json:"username"`
	NewFollowers []string `json:"new_followers"`
	Count        int      `json:"count"`
	Timestamp    string   `json:"timestamp"`
}

// NewWebhookNotifier returns a notifier that posts new-follower events for
// username to url.
func NewWebhookNotifier(url, username string, options ...func(*WebhookNotifier)) *WebhookNotifier {
	wn := &WebhookNotifier{
		URL:      url,
		Username: username,
		client:   initHTTPClient(20 * time.Second),
		log:      zap.NewNop().Sugar(),
		now:      time.Now,
	}
	for _, o := range options {
		o(wn)
	}
	return wn
}

// WithWebhookLogger is an option that can be passed to NewWebhookNotifier
// to set the *zap.SugaredLogger the notifier will use internally.
func WithWebhookLogger(logger *zap.SugaredLogger) func(*WebhookNotifier) {
	return func(wn *WebhookNotifier) {
		wn.log = logger
	}
}

func (wn *WebhookNotifier) Notify(ctx context.Context, handles []string) error {
	payload := webhookPayload{
		Event:        "new_followers",
		Username:     wn.Username,
		NewFollowers: handles,
		Count:        len(handles),
		Timestamp:    wn.now().Format(time.RFC3339),
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "encoding webhook payload")
	}

	req, err := http.NewRequestWithContext(ctx, "POST", wn.URL, bytes.NewReader(b))
	if err != nil {
		return errors.Wrap(err, "building webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := wn.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "error reaching webhook: %s", wn.URL)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Errorf("webhook returned %v (url: %s)", resp.Status, wn.URL)
	}
	wn.log.Infow("webhook notification sent",
		"url", wn.URL, "new_followers", len(handles))
	return nil
}
