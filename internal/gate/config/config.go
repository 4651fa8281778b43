// Package config loads the gate rule set and per-account overrides from a
// YAML file. The file is read once at startup; the resulting Config is
// immutable for the life of the process.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"steamgate/internal/gate/models"
	"steamgate/internal/steamid"
)

// Config is the validated, runtime form of the gate configuration.
type Config struct {
	// CacheTTL bounds how long a final decision is served from cache.
	// Zero disables decision caching.
	CacheTTL time.Duration

	// AppID is the target application whose ownership and playtime are
	// checked.
	AppID uint32

	// Rules are evaluated in declaration order; order matters because a
	// later rule's fixed outcome overrides an earlier one's.
	Rules []models.Rule

	// Overrides maps canonical account IDs to their exception records.
	Overrides map[steamid.SteamID]models.UserOverride
}

// Override looks up the exception record for an account, falling back to the
// default (all checks on, no forced outcome).
func (c *Config) Override(id steamid.SteamID) models.UserOverride {
	if o, ok := c.Overrides[id]; ok {
		return o
	}
	return models.DefaultOverride()
}

type fileConfig struct {
	CacheTTL  string                  `yaml:"cache_ttl"`
	AppID     uint32                  `yaml:"app_id"`
	Rules     []fileRule              `yaml:"rules"`
	Overrides map[string]fileOverride `yaml:"overrides"`
}

type fileRule struct {
	Type            string `yaml:"type"`
	IgnoreByDefault bool   `yaml:"ignore_by_default"`
	Authorized      *bool  `yaml:"authorized"`
	WarnInterval    string `yaml:"warn_interval"`
	MinPlaytime     string `yaml:"min_playtime"`
	MaxGameBans     *int   `yaml:"max_game_bans"`
}

type fileOverride struct {
	PerformChecks *bool    `yaml:"perform_checks"`
	IgnoreChecks  []string `yaml:"ignore_checks"`
	ForceChecks   []string `yaml:"force_checks"`
	Authorized    *bool    `yaml:"authorized"`
}

// Load reads and validates the gate configuration file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read gate config: %w", err)
	}
	return parse(raw)
}

func parse(raw []byte) (*Config, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return nil, fmt.Errorf("parse gate config: %w", err)
	}

	cfg := &Config{
		AppID:     fc.AppID,
		Overrides: make(map[steamid.SteamID]models.UserOverride, len(fc.Overrides)),
	}

	if fc.AppID == 0 {
		return nil, fmt.Errorf("app_id is required")
	}

	if fc.CacheTTL != "" {
		ttl, err := time.ParseDuration(fc.CacheTTL)
		if err != nil {
			return nil, fmt.Errorf("cache_ttl: %w", err)
		}
		if ttl < 0 {
			return nil, fmt.Errorf("cache_ttl must not be negative")
		}
		cfg.CacheTTL = ttl
	}

	seen := make(map[models.RuleType]bool, len(fc.Rules))
	for i, fr := range fc.Rules {
		rule, err := parseRule(fr)
		if err != nil {
			return nil, fmt.Errorf("rules[%d]: %w", i, err)
		}
		if seen[rule.Type] {
			return nil, fmt.Errorf("rules[%d]: duplicate rule type %q", i, rule.Type)
		}
		seen[rule.Type] = true
		cfg.Rules = append(cfg.Rules, rule)
	}

	for key, fo := range fc.Overrides {
		id, err := steamid.Parse(key)
		if err != nil {
			return nil, fmt.Errorf("overrides[%q]: %w", key, err)
		}
		o, err := parseOverride(fo)
		if err != nil {
			return nil, fmt.Errorf("overrides[%q]: %w", key, err)
		}
		cfg.Overrides[id] = o
	}

	return cfg, nil
}

func parseRule(fr fileRule) (models.Rule, error) {
	t, err := models.ParseRuleType(fr.Type)
	if err != nil {
		return models.Rule{}, err
	}

	rule := models.Rule{
		Type:            t,
		IgnoreByDefault: fr.IgnoreByDefault,
		Outcome:         fr.Authorized,
	}

	switch fr.WarnInterval {
	case "":
	case "never":
		never := models.WarnIntervalNever
		rule.WarnInterval = &never
	default:
		d, err := time.ParseDuration(fr.WarnInterval)
		if err != nil {
			return models.Rule{}, fmt.Errorf("warn_interval: %w", err)
		}
		if d <= 0 {
			return models.Rule{}, fmt.Errorf("warn_interval must be positive or %q", "never")
		}
		rule.WarnInterval = &d
	}

	// Thresholds are only meaningful on the rule type that reads them;
	// rejecting others keeps "field set for wrong rule type" out of prod.
	if fr.MinPlaytime != "" {
		if t != models.RuleTotalPlaytime {
			return models.Rule{}, fmt.Errorf("min_playtime only applies to %s rules", models.RuleTotalPlaytime)
		}
		d, err := time.ParseDuration(fr.MinPlaytime)
		if err != nil {
			return models.Rule{}, fmt.Errorf("min_playtime: %w", err)
		}
		if d <= 0 {
			return models.Rule{}, fmt.Errorf("min_playtime must be positive")
		}
		rule.MinPlaytime = d
	} else if t == models.RuleTotalPlaytime {
		return models.Rule{}, fmt.Errorf("%s rules require min_playtime", models.RuleTotalPlaytime)
	}

	if fr.MaxGameBans != nil {
		if t != models.RuleGameBans {
			return models.Rule{}, fmt.Errorf("max_game_bans only applies to %s rules", models.RuleGameBans)
		}
		if *fr.MaxGameBans < 0 {
			return models.Rule{}, fmt.Errorf("max_game_bans must not be negative")
		}
		rule.MaxGameBans = *fr.MaxGameBans
	}

	return rule, nil
}

func parseOverride(fo fileOverride) (models.UserOverride, error) {
	o := models.DefaultOverride()
	if fo.PerformChecks != nil {
		o.PerformChecks = *fo.PerformChecks
	}
	o.Authorized = fo.Authorized

	var err error
	if o.IgnoreChecks, err = parseRuleTypeSet(fo.IgnoreChecks); err != nil {
		return models.UserOverride{}, fmt.Errorf("ignore_checks: %w", err)
	}
	if o.ForceChecks, err = parseRuleTypeSet(fo.ForceChecks); err != nil {
		return models.UserOverride{}, fmt.Errorf("force_checks: %w", err)
	}
	return o, nil
}

func parseRuleTypeSet(names []string) (map[models.RuleType]bool, error) {
	if len(names) == 0 {
		return nil, nil
	}
	set := make(map[models.RuleType]bool, len(names))
	for _, name := range names {
		t, err := models.ParseRuleType(name)
		if err != nil {
			return nil, err
		}
		set[t] = true
	}
	return set, nil
}
