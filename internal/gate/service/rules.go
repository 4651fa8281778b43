package service

import (
	"fmt"

	"steamgate/internal/gate/models"
)

// recentPlaytimeCapMinutes is the ceiling for plausible two-week playtime:
// 14 days of minutes. An account reporting more than this in its recent
// window is flagged as implausible or automated.
const recentPlaytimeCapMinutes = 14 * 24 * 60

// evaluateRule tests one rule's condition against the collected signals.
// This is pure domain logic - no I/O, no side effects. Playtime conditions
// are never evaluated when the app is not owned; ownership itself is the
// game-owned rule's concern.
func evaluateRule(rule models.Rule, signals models.Signals) models.Flag {
	flag := models.Flag{Type: rule.Type}

	switch rule.Type {
	case models.RuleProfileSetUp:
		if !signals.ProfileSetUp {
			flag.Triggered = true
			flag.Detail = "profile is not set up"
		}

	case models.RuleProfileVisibility:
		if !signals.ProfilePublic {
			flag.Triggered = true
			flag.Detail = "profile is not public"
		}

	case models.RuleGameOwned:
		if !signals.OwnsApp {
			flag.Triggered = true
			flag.Detail = "does not own the game"
		}

	case models.RuleRecentPlaytime:
		if signals.OwnsApp && *signals.RecentPlaytimeMinutes > recentPlaytimeCapMinutes {
			flag.Triggered = true
			flag.Detail = fmt.Sprintf("implausible %s in the last two weeks", formatPlaytime(*signals.RecentPlaytimeMinutes))
		}

	case models.RuleTotalPlaytime:
		if signals.OwnsApp && *signals.TotalPlaytimeMinutes < int(rule.MinPlaytime.Minutes()) {
			flag.Triggered = true
			flag.Detail = fmt.Sprintf("has only %s on record", formatPlaytime(*signals.TotalPlaytimeMinutes))
		}

	case models.RuleVACBans:
		if signals.VACBanCount > 0 {
			flag.Triggered = true
			flag.Detail = fmt.Sprintf("%d VAC %s on record", signals.VACBanCount, plural(signals.VACBanCount, "ban", "bans"))
		}

	case models.RuleGameBans:
		if signals.GameBanCount > rule.MaxGameBans {
			flag.Triggered = true
			flag.Detail = fmt.Sprintf("%d game %s on record", signals.GameBanCount, plural(signals.GameBanCount, "ban", "bans"))
		}

	case models.RuleCommunityBan:
		if signals.CommunityBanned {
			flag.Triggered = true
			flag.Detail = "banned from the steam community"
		}

	case models.RuleEconomyBan:
		if signals.EconomyBan != models.EconomyBanNone {
			flag.Triggered = true
			flag.Detail = fmt.Sprintf("economy ban status is %q", signals.EconomyBan)
		}
	}

	return flag
}

// skipRule applies the two-layer applicability precedence: a rule ignored by
// default runs only if the user's override force-enables it, and an enabled
// rule is skipped if the override ignore-lists it.
func skipRule(rule models.Rule, override models.UserOverride) bool {
	if rule.IgnoreByDefault {
		return !override.ForceChecks[rule.Type]
	}
	return override.IgnoreChecks[rule.Type]
}

// formatPlaytime renders minutes as h:mm, e.g. 135 -> "2:15".
func formatPlaytime(minutes int) string {
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}

func plural(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
