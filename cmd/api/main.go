package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/gelehaus/tryon/internal/bootstrap"
	"github.com/gelehaus/tryon/internal/http/handlers"
	"github.com/gelehaus/tryon/internal/http/httpapi"
	"github.com/gelehaus/tryon/internal/infra"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	flush, err := infra.InitSentry(cfg)
	if err != nil {
		logger.Warn().Err(err).Msg("sentry disabled")
	}
	defer flush()

	ctx := context.Background()
	components, err := bootstrap.Build(ctx, cfg, &logger, bootstrap.Overrides{})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build try-on pipeline")
	}
	if err := components.Pipeline.Preflight(); err != nil {
		// Requests will answer 500 until this is fixed.
		logger.Warn().Err(err).Msg("try-on is not fully configured")
	}

	app := handlers.NewApp(components.Pipeline, components.Mannequins, components.Catalog, &logger, cfg.TryOn.MaxBodyBytes)
	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:          logger,
		AllowedOrigins:  cfg.CORSAllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		TrustProxy:      cfg.TrustProxyHeaders,
		Static:          components.Static,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("addr", server.Addr()).Str("deployment", bootstrap.Describe(components)).Msg("API listening")
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
