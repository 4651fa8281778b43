// Package notify delivers operator alerts for newly flagged accounts.
// Delivery is best-effort: the gate logs and discards notifier failures.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"steamgate/internal/steamid"
	"steamgate/pkg/requestcontext"
)

const (
	defaultTimeout = 10 * time.Second

	colorDenied  = 0xe74c3c
	colorFlagged = 0xf1c40f
)

// Discord posts one embed per flagged account to a webhook.
type Discord struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
}

// DiscordOption configures the Discord notifier.
type DiscordOption func(*Discord)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) DiscordOption {
	return func(d *Discord) {
		d.httpClient = client
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) DiscordOption {
	return func(d *Discord) {
		d.logger = logger
	}
}

// NewDiscord constructs a webhook notifier. Use NewLogOnly when no webhook
// is configured.
func NewDiscord(webhookURL string, opts ...DiscordOption) (*Discord, error) {
	if webhookURL == "" {
		return nil, errors.New("webhook url is required")
	}

	d := &Discord{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

type webhookPayload struct {
	Embeds []embed `json:"embeds"`
}

type embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Color       int          `json:"color"`
	Fields      []embedField `json:"fields"`
	Footer      *embedFooter `json:"footer,omitempty"`
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type embedFooter struct {
	Text string `json:"text"`
}

// Notify posts the flagged account and its new detail lines to the webhook.
func (d *Discord) Notify(ctx context.Context, id steamid.SteamID, authorized bool, details []string) error {
	e := embed{
		Title:       "Account denied",
		Description: "- " + strings.Join(details, "\n- "),
		Color:       colorDenied,
		Fields: []embedField{
			{Name: "Account", Value: id.String(), Inline: true},
			{Name: "Profile", Value: "https://steamcommunity.com/profiles/" + id.String(), Inline: true},
		},
	}
	if authorized {
		e.Title = "Account flagged"
		e.Color = colorFlagged
	}
	if reqID := requestcontext.RequestID(ctx); reqID != "" {
		e.Footer = &embedFooter{Text: "request " + reqID}
	}

	body, err := json.Marshal(webhookPayload{Embeds: []embed{e}})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	d.logger.DebugContext(ctx, "alert delivered",
		"steam_id", id.String(),
		"authorized", authorized,
	)
	return nil
}

// LogOnly writes alerts to the log instead of an external channel. It
// stands in for the webhook notifier when no URL is configured.
type LogOnly struct {
	logger *slog.Logger
}

// NewLogOnly constructs a log-only notifier.
func NewLogOnly(logger *slog.Logger) *LogOnly {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogOnly{logger: logger}
}

// Notify logs the flagged account. It never fails.
func (l *LogOnly) Notify(ctx context.Context, id steamid.SteamID, authorized bool, details []string) error {
	l.logger.WarnContext(ctx, "account flagged",
		"steam_id", id.String(),
		"authorized", authorized,
		"details", strings.Join(details, "; "),
	)
	return nil
}
