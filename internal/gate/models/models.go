// Package models holds the gate module's domain types. Evaluation-scoped
// values (Signals, Flag, Decision) are owned by a single evaluation and never
// shared; configuration values (Rule, UserOverride) are read once at startup
// and immutable afterwards.
package models

import (
	"fmt"
	"time"
)

// RuleType is the closed set of reputation checks the evaluator knows about.
type RuleType string

const (
	RuleProfileSetUp      RuleType = "profile-set-up"
	RuleProfileVisibility RuleType = "profile-visibility"
	RuleGameOwned         RuleType = "game-owned"
	RuleRecentPlaytime    RuleType = "recent-playtime"
	RuleTotalPlaytime     RuleType = "total-playtime"
	RuleVACBans           RuleType = "vac-bans"
	RuleGameBans          RuleType = "game-bans"
	RuleCommunityBan      RuleType = "community-ban"
	RuleEconomyBan        RuleType = "economy-ban"
)

var knownRuleTypes = map[RuleType]bool{
	RuleProfileSetUp:      true,
	RuleProfileVisibility: true,
	RuleGameOwned:         true,
	RuleRecentPlaytime:    true,
	RuleTotalPlaytime:     true,
	RuleVACBans:           true,
	RuleGameBans:          true,
	RuleCommunityBan:      true,
	RuleEconomyBan:        true,
}

// ParseRuleType validates a configured rule type string.
func ParseRuleType(s string) (RuleType, error) {
	t := RuleType(s)
	if !knownRuleTypes[t] {
		return "", fmt.Errorf("unknown rule type %q", s)
	}
	return t, nil
}

// EconomyBanStatus mirrors the upstream trade-ban states.
type EconomyBanStatus string

const (
	EconomyBanNone      EconomyBanStatus = "none"
	EconomyBanProbation EconomyBanStatus = "probation"
	EconomyBanBanned    EconomyBanStatus = "banned"
)

// Signals is the immutable per-evaluation record of raw account facts.
// Playtime fields are nil when the target app is not owned; the evaluator
// must not read them in that case.
type Signals struct {
	ProfileSetUp          bool
	ProfilePublic         bool
	OwnsApp               bool
	TotalPlaytimeMinutes  *int
	RecentPlaytimeMinutes *int
	VACBanCount           int
	GameBanCount          int
	CommunityBanned       bool
	EconomyBan            EconomyBanStatus
}

// WarnIntervalNever suppresses re-alerting entirely: once a rule has alerted
// for an account, its flag entry persists with no expiry.
const WarnIntervalNever = time.Duration(-1)

// Rule is one configured reputation check. Threshold fields are only
// meaningful for the rule types that use them; config loading rejects
// thresholds set on the wrong type.
type Rule struct {
	Type RuleType

	// IgnoreByDefault skips the rule unless a user override force-enables it.
	IgnoreByDefault bool

	// Outcome, when set, pins the aggregate authorization to this value
	// whenever the rule triggers. Later rules in declaration order win.
	Outcome *bool

	// WarnInterval bounds repeat alerts for the same triggered rule:
	// nil means alert every time the rule is newly triggered,
	// WarnIntervalNever means alert at most once ever,
	// any positive duration means at most once per that window.
	WarnInterval *time.Duration

	// MinPlaytime applies to total-playtime rules only.
	MinPlaytime time.Duration

	// MaxGameBans applies to game-bans rules only.
	MaxGameBans int
}

// UserOverride is the per-account exception record.
type UserOverride struct {
	// PerformChecks, when false, skips signal collection entirely; only the
	// Authorized override can then influence the decision.
	PerformChecks bool

	// IgnoreChecks lists rule types to skip even though the rule set enables
	// them; ForceChecks lists rule types to run even though the rule set
	// ignores them by default.
	IgnoreChecks map[RuleType]bool
	ForceChecks  map[RuleType]bool

	// Authorized, when set, unconditionally replaces the aggregate decision.
	// This is the highest-precedence signal in the system.
	Authorized *bool
}

// DefaultOverride is applied to accounts with no configured exception.
func DefaultOverride() UserOverride {
	return UserOverride{PerformChecks: true}
}

// Flag is one rule's evaluation result within a single run.
type Flag struct {
	Type      RuleType
	Triggered bool
	Detail    string
}

// Decision is the final outcome of one evaluation: the authorization boolean
// plus the detail strings of rules that newly surfaced this run (details
// suppressed by the warn-interval cache are excluded).
type Decision struct {
	Authorized bool
	Details    []string

	// FromCache marks decisions answered by the decision cache without a
	// fresh evaluation.
	FromCache bool
}
