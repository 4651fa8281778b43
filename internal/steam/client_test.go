package steam

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"steamgate/internal/steamid"
)

const testID = steamid.SteamID(76561198034336239)

// fakeSteam serves canned Steam Web API responses keyed by endpoint path.
type fakeSteam struct {
	summaryBody string
	gamesBody   string
	bansBody    string
	statusCode  int
}

func (f *fakeSteam) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if f.statusCode != 0 {
			w.WriteHeader(f.statusCode)
			return
		}
		switch r.URL.Path {
		case "/ISteamUser/GetPlayerSummaries/v2/":
			fmt.Fprint(w, f.summaryBody)
		case "/IPlayerService/GetOwnedGames/v1/":
			fmt.Fprint(w, f.gamesBody)
		case "/ISteamUser/GetPlayerBans/v1/":
			fmt.Fprint(w, f.bansBody)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func newFakeSteam() *fakeSteam {
	return &fakeSteam{
		summaryBody: `{"response":{"players":[{"steamid":"76561198034336239","communityvisibilitystate":3,"profilestate":1,"personaname":"tester"}]}}`,
		gamesBody:   `{"response":{"game_count":1,"games":[{"appid":440,"playtime_forever":135,"playtime_2weeks":60}]}}`,
		bansBody:    `{"players":[{"SteamId":"76561198034336239","CommunityBanned":false,"VACBanned":true,"NumberOfVACBans":1,"NumberOfGameBans":0,"EconomyBan":"none"}]}`,
	}
}

func newTestClient(t *testing.T, fake *fakeSteam) *Client {
	t.Helper()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)
	return NewClient("test-key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
}

func TestGetPlayerSummary(t *testing.T) {
	t.Run("parses a public configured profile", func(t *testing.T) {
		client := newTestClient(t, newFakeSteam())

		summary, err := client.GetPlayerSummary(context.Background(), testID)
		require.NoError(t, err)
		assert.True(t, summary.Public())
		assert.True(t, summary.SetUp())
	})

	t.Run("rejects a response for a different account", func(t *testing.T) {
		fake := newFakeSteam()
		fake.summaryBody = `{"response":{"players":[{"steamid":"76561198000000001","communityvisibilitystate":3,"profilestate":1}]}}`
		client := newTestClient(t, fake)

		_, err := client.GetPlayerSummary(context.Background(), testID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "response is for account")
	})

	t.Run("rejects an empty player list", func(t *testing.T) {
		fake := newFakeSteam()
		fake.summaryBody = `{"response":{"players":[]}}`
		client := newTestClient(t, fake)

		_, err := client.GetPlayerSummary(context.Background(), testID)
		require.Error(t, err)
	})

	t.Run("rejects non-200 status", func(t *testing.T) {
		fake := newFakeSteam()
		fake.statusCode = http.StatusForbidden
		client := newTestClient(t, fake)

		_, err := client.GetPlayerSummary(context.Background(), testID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status 403")
	})
}

func TestGetAppPlaytime(t *testing.T) {
	t.Run("returns playtime when the app is owned", func(t *testing.T) {
		client := newTestClient(t, newFakeSteam())

		pt, err := client.GetAppPlaytime(context.Background(), testID, 440)
		require.NoError(t, err)
		assert.True(t, pt.Owned)
		assert.Equal(t, 135, pt.ForeverMinutes)
		assert.Equal(t, 60, pt.RecentMinutes)
	})

	t.Run("treats an empty library as usable absence", func(t *testing.T) {
		fake := newFakeSteam()
		fake.gamesBody = `{"response":{"game_count":0}}`
		client := newTestClient(t, fake)

		pt, err := client.GetAppPlaytime(context.Background(), testID, 440)
		require.NoError(t, err)
		assert.False(t, pt.Owned)
	})

	t.Run("ignores records for other apps", func(t *testing.T) {
		fake := newFakeSteam()
		fake.gamesBody = `{"response":{"game_count":1,"games":[{"appid":730,"playtime_forever":9000}]}}`
		client := newTestClient(t, fake)

		pt, err := client.GetAppPlaytime(context.Background(), testID, 440)
		require.NoError(t, err)
		assert.False(t, pt.Owned)
	})

	t.Run("rejects negative playtime", func(t *testing.T) {
		fake := newFakeSteam()
		fake.gamesBody = `{"response":{"game_count":1,"games":[{"appid":440,"playtime_forever":-5}]}}`
		client := newTestClient(t, fake)

		_, err := client.GetAppPlaytime(context.Background(), testID, 440)
		require.Error(t, err)
	})
}

func TestGetPlayerBans(t *testing.T) {
	t.Run("parses the ban record", func(t *testing.T) {
		client := newTestClient(t, newFakeSteam())

		bans, err := client.GetPlayerBans(context.Background(), testID)
		require.NoError(t, err)
		assert.Equal(t, 1, bans.NumberOfVACBans)
		assert.Equal(t, 0, bans.NumberOfGameBans)
		assert.False(t, bans.CommunityBanned)
		assert.Equal(t, "none", bans.EconomyBan)
	})

	t.Run("rejects an unknown economy ban state", func(t *testing.T) {
		fake := newFakeSteam()
		fake.bansBody = `{"players":[{"SteamId":"76561198034336239","EconomyBan":"suspended"}]}`
		client := newTestClient(t, fake)

		_, err := client.GetPlayerBans(context.Background(), testID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown economy ban state")
	})

	t.Run("rejects a response for a different account", func(t *testing.T) {
		fake := newFakeSteam()
		fake.bansBody = `{"players":[{"SteamId":"76561198000000001","EconomyBan":"none"}]}`
		client := newTestClient(t, fake)

		_, err := client.GetPlayerBans(context.Background(), testID)
		require.Error(t, err)
	})
}
