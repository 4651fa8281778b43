package steam

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"steamgate/internal/gate/models"
	"steamgate/internal/steamid"
	dErrors "steamgate/pkg/domain-errors"
	"steamgate/pkg/platform/circuit"
)

const collectTimeout = 10 * time.Second

// Metrics is the observability hook the collector reports into.
type Metrics interface {
	ObserveSignalLatency(source string, d time.Duration)
}

// Collector gathers the three Steam API sub-responses for one account and
// maps them into an immutable signal record. It implements the gate's
// SignalSource port.
type Collector struct {
	client  *Client
	appID   uint32
	logger  *slog.Logger
	metrics Metrics
	breaker *circuit.Breaker
}

// CollectorOption configures a Collector.
type CollectorOption func(*Collector)

// WithLogger attaches a logger for per-call diagnostics.
func WithLogger(logger *slog.Logger) CollectorOption {
	return func(c *Collector) {
		c.logger = logger
	}
}

// WithMetrics attaches the latency observer.
func WithMetrics(m Metrics) CollectorOption {
	return func(c *Collector) {
		c.metrics = m
	}
}

// WithBreaker guards collections with a circuit breaker: while the breaker
// is open, Collect fails fast without touching the Steam API.
func WithBreaker(b *circuit.Breaker) CollectorOption {
	return func(c *Collector) {
		c.breaker = b
	}
}

// NewCollector constructs a Collector for the given target app.
func NewCollector(client *Client, appID uint32, opts ...CollectorOption) *Collector {
	c := &Collector{
		client: client,
		appID:  appID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect runs the three sub-calls concurrently with shared cancellation.
// The sub-calls have no ordering requirement between each other, but each
// validates its own response (including the echoed account) before its
// fields reach the signal record; any failure fails the whole collection.
func (c *Collector) Collect(ctx context.Context, id steamid.SteamID) (models.Signals, error) {
	if c.breaker != nil && !c.breaker.Allow() {
		return models.Signals{}, dErrors.New(dErrors.CodeUnavailable, "steam api temporarily unavailable")
	}

	ctx, cancel := context.WithTimeout(ctx, collectTimeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	var (
		summary  *PlayerSummary
		playtime *AppPlaytime
		bans     *PlayerBans
	)

	g.Go(func() error {
		var err error
		start := time.Now()
		summary, err = c.client.GetPlayerSummary(ctx, id)
		c.observe("summary", time.Since(start))
		return err
	})

	g.Go(func() error {
		var err error
		start := time.Now()
		playtime, err = c.client.GetAppPlaytime(ctx, id, c.appID)
		c.observe("owned_games", time.Since(start))
		return err
	})

	g.Go(func() error {
		var err error
		start := time.Now()
		bans, err = c.client.GetPlayerBans(ctx, id)
		c.observe("bans", time.Since(start))
		return err
	})

	if err := g.Wait(); err != nil {
		c.recordFailure(ctx)
		if c.logger != nil {
			c.logger.ErrorContext(ctx, "signal collection failed",
				"steam_id", id.String(),
				"error", err,
			)
		}
		return models.Signals{}, dErrors.Wrap(err, dErrors.CodeUpstreamData, "steam api did not return usable account data")
	}
	c.recordSuccess(ctx)

	signals := models.Signals{
		ProfileSetUp:    summary.SetUp(),
		ProfilePublic:   summary.Public(),
		OwnsApp:         playtime.Owned,
		VACBanCount:     bans.NumberOfVACBans,
		GameBanCount:    bans.NumberOfGameBans,
		CommunityBanned: bans.CommunityBanned,
		EconomyBan:      models.EconomyBanStatus(bans.EconomyBan),
	}
	// Playtime stays unset when the app is not owned: "not owned" and
	// "owned with zero minutes" are different facts to the evaluator.
	if playtime.Owned {
		forever, recent := playtime.ForeverMinutes, playtime.RecentMinutes
		signals.TotalPlaytimeMinutes = &forever
		signals.RecentPlaytimeMinutes = &recent
	}
	return signals, nil
}

func (c *Collector) observe(source string, d time.Duration) {
	if c.metrics != nil {
		c.metrics.ObserveSignalLatency(source, d)
	}
}

func (c *Collector) recordFailure(ctx context.Context) {
	if c.breaker == nil {
		return
	}
	if _, change := c.breaker.RecordFailure(); change.Opened && c.logger != nil {
		c.logger.WarnContext(ctx, "steam api circuit opened", "breaker", c.breaker.Name())
	}
}

func (c *Collector) recordSuccess(ctx context.Context) {
	if c.breaker == nil {
		return
	}
	if _, change := c.breaker.RecordSuccess(); change.Closed && c.logger != nil {
		c.logger.InfoContext(ctx, "steam api circuit closed", "breaker", c.breaker.Name())
	}
}
