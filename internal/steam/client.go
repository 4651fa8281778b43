// Package steam binds the three Steam Web API operations the gate needs and
// folds their responses into the signal record the evaluator consumes.
package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"steamgate/internal/steamid"
)

const defaultBaseURL = "https://api.steampowered.com"

// Client is a thin Steam Web API binding. Every call validates the response
// shape before its fields are used; an unexpected shape is an upstream fault,
// never a silent zero value.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API host, used by tests.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient constructs a Steam Web API client.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PlayerSummary carries the profile facts the evaluator reads.
type PlayerSummary struct {
	SteamID        string `json:"steamid"`
	VisibilityCode int    `json:"communityvisibilitystate"`
	ProfileState   int    `json:"profilestate"`
	PersonaName    string `json:"personaname"`
}

// Public reports whether the profile is visible to everyone (state 3).
func (p PlayerSummary) Public() bool {
	return p.VisibilityCode == 3
}

// SetUp reports whether the community profile has been configured at all.
func (p PlayerSummary) SetUp() bool {
	return p.ProfileState == 1
}

// AppPlaytime carries the owned-game record for the target app, or marks its
// absence.
type AppPlaytime struct {
	Owned          bool
	ForeverMinutes int
	RecentMinutes  int
}

// PlayerBans carries the account's ban record.
type PlayerBans struct {
	SteamID          string `json:"SteamId"`
	CommunityBanned  bool   `json:"CommunityBanned"`
	VACBanned        bool   `json:"VACBanned"`
	NumberOfVACBans  int    `json:"NumberOfVACBans"`
	NumberOfGameBans int    `json:"NumberOfGameBans"`
	EconomyBan       string `json:"EconomyBan"`
}

// GetPlayerSummary fetches the profile summary for one account and verifies
// the response echoes the requested account.
func (c *Client) GetPlayerSummary(ctx context.Context, id steamid.SteamID) (*PlayerSummary, error) {
	var out struct {
		Response struct {
			Players []PlayerSummary `json:"players"`
		} `json:"response"`
	}

	q := url.Values{"steamids": {id.String()}}
	if err := c.get(ctx, "/ISteamUser/GetPlayerSummaries/v2/", q, &out); err != nil {
		return nil, err
	}

	if len(out.Response.Players) != 1 {
		return nil, fmt.Errorf("player summary: expected 1 player, got %d", len(out.Response.Players))
	}
	p := out.Response.Players[0]
	if p.SteamID != id.String() {
		return nil, fmt.Errorf("player summary: response is for account %s, requested %s", p.SteamID, id)
	}
	return &p, nil
}

// GetAppPlaytime fetches the playtime record for a single app. An account
// with no games, or without this app, is a usable absence, not an error.
func (c *Client) GetAppPlaytime(ctx context.Context, id steamid.SteamID, appID uint32) (*AppPlaytime, error) {
	var out struct {
		Response struct {
			GameCount int `json:"game_count"`
			Games     []struct {
				AppID    uint32 `json:"appid"`
				Forever  int    `json:"playtime_forever"`
				TwoWeeks int    `json:"playtime_2weeks"`
			} `json:"games"`
		} `json:"response"`
	}

	q := url.Values{
		"steamid":                   {id.String()},
		"appids_filter[0]":          {strconv.FormatUint(uint64(appID), 10)},
		"include_played_free_games": {"1"},
	}
	if err := c.get(ctx, "/IPlayerService/GetOwnedGames/v1/", q, &out); err != nil {
		return nil, err
	}

	for _, g := range out.Response.Games {
		if g.AppID == appID {
			if g.Forever < 0 || g.TwoWeeks < 0 {
				return nil, fmt.Errorf("owned games: negative playtime for app %d", appID)
			}
			return &AppPlaytime{
				Owned:          true,
				ForeverMinutes: g.Forever,
				RecentMinutes:  g.TwoWeeks,
			}, nil
		}
	}
	return &AppPlaytime{Owned: false}, nil
}

// GetPlayerBans fetches the ban record for one account and verifies the
// response echoes the requested account.
func (c *Client) GetPlayerBans(ctx context.Context, id steamid.SteamID) (*PlayerBans, error) {
	var out struct {
		Players []PlayerBans `json:"players"`
	}

	q := url.Values{"steamids": {id.String()}}
	if err := c.get(ctx, "/ISteamUser/GetPlayerBans/v1/", q, &out); err != nil {
		return nil, err
	}

	if len(out.Players) != 1 {
		return nil, fmt.Errorf("player bans: expected 1 player, got %d", len(out.Players))
	}
	b := out.Players[0]
	if b.SteamID != id.String() {
		return nil, fmt.Errorf("player bans: response is for account %s, requested %s", b.SteamID, id)
	}
	switch b.EconomyBan {
	case "none", "probation", "banned":
	default:
		return nil, fmt.Errorf("player bans: unknown economy ban state %q", b.EconomyBan)
	}
	return &b, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	q.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("call %s: unexpected status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
