package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"voyage_backoffice/internal/adapters/backoffice"
	"voyage_backoffice/internal/adapters/observability"
	redisad "voyage_backoffice/internal/adapters/redis"
	"voyage_backoffice/internal/app"
	"voyage_backoffice/internal/shared"
)

// prefetch warms the reference-data cache (countries, requirements,
// cancellation reasons) so the first screens of the day open on a hot
// cache. Meant to run at deploy time or from a scheduler.
func main() {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("backend", cfg.BackendBase).
		Int("workers", cfg.Workers).
		Msg("prefetch starting")

	client, err := backoffice.New(cfg.BackendBase, cfg.BackendRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("backend client init failed")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	ref := app.NewRefDataService(client, cache, cfg.CacheTTL)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := ref.Warm(ctx, cfg.Workers); err != nil {
		log.Fatal().Err(err).Msg("prefetch failed")
	}
	log.Info().Msg("reference data warmed")
}
