package main

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"voyage_backoffice/internal/adapters/backoffice"
	server "voyage_backoffice/internal/adapters/http_server"
	"voyage_backoffice/internal/adapters/observability"
	redisad "voyage_backoffice/internal/adapters/redis"
	"voyage_backoffice/internal/app"
	"voyage_backoffice/internal/shared"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	client, err := backoffice.New(cfg.BackendBase, cfg.BackendRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("backend client init failed")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	state := app.NewState(client, cache, shared.DefaultMessages(), cfg.CacheTTL)

	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{State: state, PhotoBase: cfg.PhotoBase})

	log.Info().Str("addr", cfg.HTTPAddr).Str("backend", cfg.BackendBase).Msg("gateway listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
