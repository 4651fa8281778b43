package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gateconfig "steamgate/internal/gate/config"
	"steamgate/internal/gate/handler"
	gatemetrics "steamgate/internal/gate/metrics"
	"steamgate/internal/gate/ports"
	"steamgate/internal/gate/service"
	"steamgate/internal/gate/store/decision"
	httpapi "steamgate/internal/http"
	"steamgate/internal/notify"
	"steamgate/internal/platform/config"
	"steamgate/internal/platform/httpserver"
	"steamgate/internal/platform/logger"
	platformredis "steamgate/internal/platform/redis"
	"steamgate/internal/steam"
	"steamgate/pkg/platform/circuit"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	log := logger.New()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	rules, err := gateconfig.Load(cfg.RulesPath)
	if err != nil {
		log.Error("rules file invalid", "path", cfg.RulesPath, "error", err)
		os.Exit(1)
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}

	var cache ports.DecisionCache
	var health httpapi.HealthCheck
	if redisClient != nil {
		cache = decision.NewRedis(redisClient.Client)
		health = redisClient.Health
		defer redisClient.Close()
	} else {
		log.Warn("no redis configured, decisions cached in process memory only")
		cache = decision.NewInMemory()
	}

	var notifier ports.Notifier
	if cfg.WebhookURL != "" {
		notifier, err = notify.NewDiscord(cfg.WebhookURL, notify.WithLogger(log))
		if err != nil {
			log.Error("notifier setup failed", "error", err)
			os.Exit(1)
		}
	} else {
		log.Warn("no webhook configured, alerts go to the log only")
		notifier = notify.NewLogOnly(log)
	}

	metrics := gatemetrics.New()

	collector := steam.NewCollector(
		steam.NewClient(cfg.SteamAPIKey),
		rules.AppID,
		steam.WithLogger(log),
		steam.WithMetrics(metrics),
		steam.WithBreaker(circuit.New("steam-api")),
	)

	gate, err := service.New(rules, collector, cache, notifier,
		service.WithLogger(log),
		service.WithMetrics(metrics),
	)
	if err != nil {
		log.Error("service setup failed", "error", err)
		os.Exit(1)
	}

	router := httpapi.NewRouter(handler.New(gate, log), health)
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting steamgate",
		"addr", cfg.Addr,
		"app_id", rules.AppID,
		"rules", len(rules.Rules),
		"overrides", len(rules.Overrides),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Error("server error", "error", err)
		os.Exit(1)
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
