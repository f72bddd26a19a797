package followerwatch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookNotifierPayload(t *testing.T) {
	var got webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "POST", req.Method)
		assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(req.Body).Decode(&got))
		rw.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	at := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	wn := NewWebhookNotifier(srv.URL, "octocat")
	wn.now = func() time.Time { return at }

	err := wn.Notify(context.Background(), []string{"alice", "bob"})
	require.NoError(t, err)

	assert.Equal(t, "new_followers", got.Event)
	assert.Equal(t, "octocat", got.Username)
	assert.Equal(t, []string{"alice", "bob"}, got.NewFollowers)
	assert.Equal(t, 2, got.Count)
	assert.Equal(t, at.Format(time.RFC3339), got.Timestamp)
}

func TestWebhookNotifierHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		http.Error(rw, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	wn := NewWebhookNotifier(srv.URL, "octocat")
	err := wn.Notify(context.Background(), []string{"alice"})
	assert.Error(t, err)
}

func TestWebhookNotifierTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {}))
	srv.Close()

	wn := NewWebhookNotifier(srv.URL, "octocat")
	err := wn.Notify(context.Background(), []string{"alice"})
	assert.Error(t, err)
}
