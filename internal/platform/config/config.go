package config

import (
	"errors"
	"os"
	"time"
)

// Server captures process-level configuration. Rule-set and override
// configuration lives in the rules file, not here.
type Server struct {
	Addr        string
	SteamAPIKey string
	WebhookURL  string
	RulesPath   string
	Redis       RedisConfig
}

// RedisConfig captures connection settings for the decision cache. An empty
// URL means the in-memory cache is used instead.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	addr := os.Getenv("STEAMGATE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	apiKey := os.Getenv("STEAM_API_KEY")
	if apiKey == "" {
		return Server{}, errors.New("STEAM_API_KEY is required")
	}

	rulesPath := os.Getenv("STEAMGATE_RULES_FILE")
	if rulesPath == "" {
		rulesPath = "rules.yaml"
	}

	return Server{
		Addr:        addr,
		SteamAPIKey: apiKey,
		WebhookURL:  os.Getenv("STEAMGATE_WEBHOOK_URL"),
		RulesPath:   rulesPath,
		Redis: RedisConfig{
			URL:          os.Getenv("STEAMGATE_REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  2 * time.Second,
			WriteTimeout: 2 * time.Second,
		},
	}, nil
}
