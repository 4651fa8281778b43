// Package service implements the gate's evaluation pipeline: identifier
// normalization, decision-cache short circuit, signal collection, ordered
// rule evaluation with override precedence, aggregation and debounced
// alerting.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"steamgate/internal/gate/config"
	"steamgate/internal/gate/metrics"
	"steamgate/internal/gate/models"
	"steamgate/internal/gate/ports"
	"steamgate/internal/steamid"
	"steamgate/pkg/platform/sentinel"
)

// Type aliases for interfaces from the ports package, so callers can wire
// the service without importing ports directly.
type (
	SignalSource  = ports.SignalSource
	DecisionCache = ports.DecisionCache
	Notifier      = ports.Notifier
)

// Service runs authorization checks. Each call owns its own evaluation
// state; the cache is the only resource shared across concurrent checks.
type Service struct {
	cfg      *config.Config
	signals  SignalSource
	cache    DecisionCache
	notifier Notifier
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics attaches gate metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs the gate service.
func New(cfg *config.Config, signals SignalSource, cache DecisionCache, notifier Notifier, opts ...Option) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if signals == nil {
		return nil, errors.New("signal source is required")
	}
	if cache == nil {
		return nil, errors.New("decision cache is required")
	}
	if notifier == nil {
		return nil, errors.New("notifier is required")
	}

	svc := &Service{
		cfg:      cfg,
		signals:  signals,
		cache:    cache,
		notifier: notifier,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Check evaluates whether the account behind rawID may use the application.
//
// A malformed identifier fails before any cache or network access. A cached
// decision within its TTL short-circuits the whole evaluation: no signal
// collection, no rule evaluation, no alert. Cache read failures degrade to
// misses and cache writes are fire-and-forget; only identifier and signal
// collection failures can fail a check.
func (s *Service) Check(ctx context.Context, rawID string) (*models.Decision, error) {
	start := time.Now()

	id, err := steamid.Parse(rawID)
	if err != nil {
		s.metrics.IncrementCheck("invalid_input")
		return nil, err
	}

	if cached, ok := s.cachedDecision(ctx, id); ok {
		s.metrics.IncrementCacheHit()
		s.recordOutcome(cached.Authorized)
		return cached, nil
	}

	override := s.cfg.Override(id)

	var signals models.Signals
	if override.PerformChecks {
		signals, err = s.signals.Collect(ctx, id)
		if err != nil {
			s.metrics.IncrementCheck("failed")
			return nil, err
		}
	}

	decision := s.evaluate(ctx, id, override, signals)

	s.writeDecision(ctx, id, decision.Authorized)

	if len(decision.Details) > 0 {
		s.notify(ctx, id, decision)
	}

	s.recordOutcome(decision.Authorized)
	s.metrics.ObserveCheckLatency(time.Since(start))

	s.logger.InfoContext(ctx, "check evaluated",
		"steam_id", id.String(),
		"authorized", decision.Authorized,
		"new_flags", len(decision.Details),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return decision, nil
}

// evaluate runs the configured rules in declaration order and folds their
// outcomes into a decision. Rules run sequentially: a later rule's fixed
// outcome must overwrite an earlier one's.
func (s *Service) evaluate(ctx context.Context, id steamid.SteamID, override models.UserOverride, signals models.Signals) *models.Decision {
	authorized := true
	var details []string

	// With checks disabled no signal was collected, so no signal condition
	// can trigger; only the final override can shape the outcome.
	if override.PerformChecks {
		for _, rule := range s.cfg.Rules {
			if skipRule(rule, override) {
				continue
			}

			flag := evaluateRule(rule, signals)
			if !flag.Triggered {
				continue
			}
			s.metrics.IncrementRuleTriggered(string(rule.Type))

			if rule.Outcome != nil {
				authorized = *rule.Outcome
			}

			// The warn-interval cache only debounces the alert detail;
			// the rule's outcome effect above applies either way.
			if s.alertSuppressed(ctx, id, rule) {
				continue
			}
			details = append(details, flag.Detail)
			s.writeFlag(ctx, id, rule)
		}
	}

	if override.Authorized != nil {
		authorized = *override.Authorized
	}

	return &models.Decision{Authorized: authorized, Details: details}
}

// cachedDecision consults the decision key. Any read failure, including a
// malformed payload, degrades to a miss so evaluation proceeds normally.
func (s *Service) cachedDecision(ctx context.Context, id steamid.SteamID) (*models.Decision, bool) {
	if s.cfg.CacheTTL <= 0 {
		return nil, false
	}

	val, err := s.cache.Get(ctx, ports.DecisionKey(id))
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			s.logger.WarnContext(ctx, "decision cache read failed, treating as miss",
				"steam_id", id.String(),
				"error", err,
			)
		}
		return nil, false
	}

	authorized, err := strconv.ParseBool(val)
	if err != nil {
		s.logger.WarnContext(ctx, "malformed cached decision, treating as miss",
			"steam_id", id.String(),
			"value", val,
		)
		return nil, false
	}
	return &models.Decision{Authorized: authorized, FromCache: true}, true
}

// alertSuppressed reports whether the rule already alerted for this account
// within its warn interval. A rule with no interval never writes a flag key,
// so it can never be suppressed.
func (s *Service) alertSuppressed(ctx context.Context, id steamid.SteamID, rule models.Rule) bool {
	if rule.WarnInterval == nil {
		return false
	}

	_, err := s.cache.Get(ctx, ports.FlagKey(id, rule.Type))
	if err == nil {
		return true
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		s.logger.WarnContext(ctx, "flag cache read failed, treating as miss",
			"steam_id", id.String(),
			"rule", rule.Type,
			"error", err,
		)
	}
	return false
}

// writeFlag records that the rule alerted, bounded by its warn interval.
// Two concurrent evaluations can race here and both alert once; the
// warn-interval contract is best-effort (a conditional set-if-absent would
// make it strict).
func (s *Service) writeFlag(ctx context.Context, id steamid.SteamID, rule models.Rule) {
	if rule.WarnInterval == nil {
		return
	}

	ttl := *rule.WarnInterval
	if ttl == models.WarnIntervalNever {
		ttl = 0 // no expiry: alert at most once, ever
	}
	if err := s.cache.Set(ctx, ports.FlagKey(id, rule.Type), "1", ttl); err != nil {
		s.logger.WarnContext(ctx, "flag cache write failed",
			"steam_id", id.String(),
			"rule", rule.Type,
			"error", err,
		)
	}
}

// writeDecision caches the final boolean. Only fresh evaluations reach this
// point; a failure must not fail the request.
func (s *Service) writeDecision(ctx context.Context, id steamid.SteamID, authorized bool) {
	if s.cfg.CacheTTL <= 0 {
		return
	}

	if err := s.cache.Set(ctx, ports.DecisionKey(id), strconv.FormatBool(authorized), s.cfg.CacheTTL); err != nil {
		s.logger.WarnContext(ctx, "decision cache write failed",
			"steam_id", id.String(),
			"error", err,
		)
	}
}

// notify hands newly surfaced flags to the notifier. Delivery is
// best-effort: failures are logged and discarded.
func (s *Service) notify(ctx context.Context, id steamid.SteamID, decision *models.Decision) {
	if err := s.notifier.Notify(ctx, id, decision.Authorized, decision.Details); err != nil {
		s.logger.ErrorContext(ctx, "alert notification failed",
			"steam_id", id.String(),
			"error", err,
		)
		return
	}
	s.metrics.IncrementAlertSent()
}

func (s *Service) recordOutcome(authorized bool) {
	if authorized {
		s.metrics.IncrementCheck("authorized")
	} else {
		s.metrics.IncrementCheck("denied")
	}
}
