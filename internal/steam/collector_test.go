package steam

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"steamgate/internal/gate/models"
	dErrors "steamgate/pkg/domain-errors"
	"steamgate/pkg/platform/circuit"
)

func TestCollect(t *testing.T) {
	t.Run("maps all three sub-responses into signals", func(t *testing.T) {
		client := newTestClient(t, newFakeSteam())
		collector := NewCollector(client, 440)

		signals, err := collector.Collect(context.Background(), testID)
		require.NoError(t, err)

		assert.True(t, signals.ProfileSetUp)
		assert.True(t, signals.ProfilePublic)
		assert.True(t, signals.OwnsApp)
		require.NotNil(t, signals.TotalPlaytimeMinutes)
		assert.Equal(t, 135, *signals.TotalPlaytimeMinutes)
		require.NotNil(t, signals.RecentPlaytimeMinutes)
		assert.Equal(t, 60, *signals.RecentPlaytimeMinutes)
		assert.Equal(t, 1, signals.VACBanCount)
		assert.False(t, signals.CommunityBanned)
		assert.Equal(t, models.EconomyBanNone, signals.EconomyBan)
	})

	t.Run("leaves playtime unset when the app is not owned", func(t *testing.T) {
		fake := newFakeSteam()
		fake.gamesBody = `{"response":{"game_count":0}}`
		collector := NewCollector(newTestClient(t, fake), 440)

		signals, err := collector.Collect(context.Background(), testID)
		require.NoError(t, err)

		assert.False(t, signals.OwnsApp)
		assert.Nil(t, signals.TotalPlaytimeMinutes)
		assert.Nil(t, signals.RecentPlaytimeMinutes)
	})

	t.Run("hard-fails on an account mismatch in any sub-response", func(t *testing.T) {
		fake := newFakeSteam()
		fake.bansBody = `{"players":[{"SteamId":"76561198000000001","EconomyBan":"none"}]}`
		collector := NewCollector(newTestClient(t, fake), 440)

		_, err := collector.Collect(context.Background(), testID)
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeUpstreamData, dErrors.CodeOf(err))
	})

	t.Run("hard-fails when the api is unreachable", func(t *testing.T) {
		fake := newFakeSteam()
		fake.statusCode = http.StatusInternalServerError
		collector := NewCollector(newTestClient(t, fake), 440)

		_, err := collector.Collect(context.Background(), testID)
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeUpstreamData, dErrors.CodeOf(err))
	})

	t.Run("fails fast without api calls once the breaker opens", func(t *testing.T) {
		fake := newFakeSteam()
		fake.statusCode = http.StatusInternalServerError
		collector := NewCollector(newTestClient(t, fake), 440,
			WithBreaker(circuit.New("steam-api", circuit.WithFailureThreshold(1))),
		)

		_, err := collector.Collect(context.Background(), testID)
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeUpstreamData, dErrors.CodeOf(err))

		// Breaker is now open; the upstream recovering makes no difference
		// until the cooldown elapses.
		fake.statusCode = 0

		_, err = collector.Collect(context.Background(), testID)
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeUnavailable, dErrors.CodeOf(err))
	})
}
