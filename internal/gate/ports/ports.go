// Package ports defines the gate module's collaborator contracts. The
// service depends on these interfaces only; concrete implementations live in
// internal/steam, internal/gate/store and internal/notify.
package ports

//go:generate mockgen -source=ports.go -destination=../mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"steamgate/internal/gate/models"
	"steamgate/internal/steamid"
)

// SignalSource collects the raw account facts one evaluation needs.
// Implementations must verify the upstream echoes the requested account and
// hard-fail on mismatch.
type SignalSource interface {
	Collect(ctx context.Context, id steamid.SteamID) (models.Signals, error)
}

// DecisionCache is the time-bounded key/value store shared across
// evaluations. Get returns sentinel.ErrNotFound on a miss; Set with a zero
// ttl stores without expiry.
//
// Operations are individually atomic but nothing spans keys: two concurrent
// evaluations for the same account may both see a flag key absent and both
// alert. That is an accepted best-effort property of the warn-interval
// contract.
type DecisionCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// Notifier delivers operator alerts. Callers treat delivery as best-effort:
// errors are logged at the call site and never fail the evaluation.
type Notifier interface {
	Notify(ctx context.Context, id steamid.SteamID, authorized bool, details []string) error
}

// Cache key families, both scoped by the canonical account ID. The decision
// key holds the serialized final boolean; each flag key holds the
// "previously triggered" marker for one rule type.
func DecisionKey(id steamid.SteamID) string {
	return "gate:decision:" + id.String()
}

func FlagKey(id steamid.SteamID, t models.RuleType) string {
	return "gate:flag:" + id.String() + ":" + string(t)
}
