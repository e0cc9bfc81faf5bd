package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"zestify-storefront/api-gateway/internal/gateway"
	"zestify-storefront/config"
	"zestify-storefront/pkg/logger"
	"zestify-storefront/pkg/shutdown"
)

func newHandler(cfg config.Config, client gateway.HTTPClient, log zerolog.Logger) http.Handler {
	gw := gateway.NewGateway(gateway.Config{
		StorefrontSvcURL: cfg.StorefrontSvcURL,
		StaticDir:        cfg.StaticDir,
	}, client, log)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:8080", "http://127.0.0.1:8080", "*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-Session-ID"},
		AllowCredentials: true,
	})
	return c.Handler(gw.SetupRoutes())
}

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{Service: "api-gateway", Env: cfg.AppEnv, Level: cfg.LogLevel})

	ctx, stop := shutdown.WithSignals(context.Background())
	defer stop()

	// slightly above the storefront's own upstream timeout
	client := &http.Client{Timeout: cfg.APITimeout + 5*time.Second}

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.GatewayPort),
		Handler:           newHandler(cfg, client, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("gateway shutdown failed")
		}
	}()

	log.Info().Str("addr", srv.Addr).Str("storefront", cfg.StorefrontSvcURL).Msg("api gateway starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("api gateway stopped")
	}
}
