package notify

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"steamgate/internal/steamid"
	"steamgate/pkg/requestcontext"
)

const testID = steamid.SteamID(76561198034336239)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDiscordNotify(t *testing.T) {
	var captured webhookPayload
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	d, err := NewDiscord(srv.URL, WithLogger(testLogger()))
	require.NoError(t, err)

	ctx := requestcontext.WithRequestID(context.Background(), "req-123")
	err = d.Notify(ctx, testID, false, []string{"2 VAC bans on record", "profile is not public"})
	require.NoError(t, err)

	assert.Equal(t, "application/json", contentType)
	require.Len(t, captured.Embeds, 1)
	e := captured.Embeds[0]
	assert.Equal(t, "Account denied", e.Title)
	assert.Equal(t, colorDenied, e.Color)
	assert.Equal(t, "- 2 VAC bans on record\n- profile is not public", e.Description)
	require.Len(t, e.Fields, 2)
	assert.Equal(t, "76561198034336239", e.Fields[0].Value)
	assert.Equal(t, "https://steamcommunity.com/profiles/76561198034336239", e.Fields[1].Value)
	require.NotNil(t, e.Footer)
	assert.Equal(t, "request req-123", e.Footer.Text)
}

func TestDiscordNotifyFlaggedButAuthorized(t *testing.T) {
	var captured webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	d, err := NewDiscord(srv.URL, WithLogger(testLogger()))
	require.NoError(t, err)

	err = d.Notify(context.Background(), testID, true, []string{"has only 1:00 on record"})
	require.NoError(t, err)

	require.Len(t, captured.Embeds, 1)
	assert.Equal(t, "Account flagged", captured.Embeds[0].Title)
	assert.Equal(t, colorFlagged, captured.Embeds[0].Color)
	assert.Nil(t, captured.Embeds[0].Footer)
}

func TestDiscordNotifyRejectedByWebhook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	d, err := NewDiscord(srv.URL, WithLogger(testLogger()))
	require.NoError(t, err)

	err = d.Notify(context.Background(), testID, false, []string{"banned from the steam community"})
	require.EqualError(t, err, "webhook returned status 429")
}

func TestNewDiscordRequiresURL(t *testing.T) {
	_, err := NewDiscord("")
	require.EqualError(t, err, "webhook url is required")
}

func TestLogOnlyNeverFails(t *testing.T) {
	n := NewLogOnly(testLogger())
	err := n.Notify(context.Background(), testID, true, []string{"profile is not set up"})
	require.NoError(t, err)
}
