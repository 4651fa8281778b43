package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"steamgate/internal/gate/models"
	"steamgate/internal/steamid"
)

func mustParseID(t *testing.T, raw string) steamid.SteamID {
	t.Helper()
	id, err := steamid.Parse(raw)
	require.NoError(t, err)
	return id
}

const validConfig = `
cache_ttl: 30m
app_id: 440
rules:
  - type: vac-bans
    authorized: false
    warn_interval: never
  - type: total-playtime
    min_playtime: 2h
    warn_interval: 24h
  - type: game-bans
    max_game_bans: 1
    ignore_by_default: true
  - type: profile-visibility
overrides:
  "76561198034336239":
    perform_checks: false
    authorized: true
  "STEAM_0:1:37035256":
    ignore_checks: [vac-bans]
    force_checks: [game-bans]
`

func TestParse(t *testing.T) {
	cfg, err := parse([]byte(validConfig))
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
	assert.Equal(t, uint32(440), cfg.AppID)
	require.Len(t, cfg.Rules, 4)

	vac := cfg.Rules[0]
	assert.Equal(t, models.RuleVACBans, vac.Type)
	require.NotNil(t, vac.Outcome)
	assert.False(t, *vac.Outcome)
	require.NotNil(t, vac.WarnInterval)
	assert.Equal(t, models.WarnIntervalNever, *vac.WarnInterval)

	playtime := cfg.Rules[1]
	assert.Equal(t, 2*time.Hour, playtime.MinPlaytime)
	require.NotNil(t, playtime.WarnInterval)
	assert.Equal(t, 24*time.Hour, *playtime.WarnInterval)
	assert.Nil(t, playtime.Outcome)

	bans := cfg.Rules[2]
	assert.True(t, bans.IgnoreByDefault)
	assert.Equal(t, 1, bans.MaxGameBans)
	assert.Nil(t, bans.WarnInterval)

	require.Len(t, cfg.Overrides, 2)
}

func TestParseCanonicalizesOverrideKeys(t *testing.T) {
	cfg, err := parse([]byte(validConfig))
	require.NoError(t, err)

	// The legacy-form key must land under its canonical 64-bit identifier.
	id := mustParseID(t, "76561198034336241")
	o, ok := cfg.Overrides[id]
	require.True(t, ok, "override keyed by legacy form not canonicalized")
	assert.True(t, o.IgnoreChecks[models.RuleVACBans])
	assert.True(t, o.ForceChecks[models.RuleGameBans])
	assert.True(t, o.PerformChecks)
	assert.Nil(t, o.Authorized)
}

func TestOverrideFallsBackToDefault(t *testing.T) {
	cfg, err := parse([]byte(validConfig))
	require.NoError(t, err)

	o := cfg.Override(mustParseID(t, "76561198000000001"))
	assert.True(t, o.PerformChecks)
	assert.Nil(t, o.Authorized)
	assert.Empty(t, o.IgnoreChecks)
	assert.Empty(t, o.ForceChecks)
}

func TestParseRejections(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing app id", "cache_ttl: 5m\nrules: []\n"},
		{"unknown rule type", "app_id: 440\nrules:\n  - type: steam-level\n"},
		{"duplicate rule type", "app_id: 440\nrules:\n  - type: vac-bans\n  - type: vac-bans\n"},
		{"threshold on wrong type", "app_id: 440\nrules:\n  - type: vac-bans\n    min_playtime: 2h\n"},
		{"game ban cap on wrong type", "app_id: 440\nrules:\n  - type: vac-bans\n    max_game_bans: 3\n"},
		{"total playtime without threshold", "app_id: 440\nrules:\n  - type: total-playtime\n"},
		{"bad warn interval", "app_id: 440\nrules:\n  - type: vac-bans\n    warn_interval: sometimes\n"},
		{"negative warn interval", "app_id: 440\nrules:\n  - type: vac-bans\n    warn_interval: -1h\n"},
		{"bad override key", "app_id: 440\noverrides:\n  \"not-an-id\": {}\n"},
		{"bad override rule set", "app_id: 440\noverrides:\n  \"76561198034336239\":\n    ignore_checks: [nope]\n"},
		{"negative cache ttl", "app_id: 440\ncache_ttl: -5m\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse([]byte(tt.yaml))
			require.Error(t, err)
		})
	}
}
