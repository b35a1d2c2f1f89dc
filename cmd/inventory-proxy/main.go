package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Sternrassler/steam-inventory-client/internal/config"
	"github.com/Sternrassler/steam-inventory-client/pkg/client"
	"github.com/Sternrassler/steam-inventory-client/pkg/journal"
	"github.com/Sternrassler/steam-inventory-client/pkg/logging"
)

func main() {
	// Configuration from environment
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Setup(cfg.Log.Logging())
	logger := logging.NewLogger("inventory-proxy")

	// Create Steam client
	steamClient, err := client.New(cfg.Steam.Client())
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create Steam client")
	}
	defer steamClient.Close()

	proxies, rejected := proxyAllowlist(cfg.Server.Proxies)
	for _, entry := range rejected {
		logger.Warn().Str("entry", entry).Msg("Ignoring invalid proxy in SERVER_PROXIES")
	}

	srv := &server{
		pages:          steamClient,
		proxies:        proxies,
		requestTimeout: cfg.Server.RequestTimeout,
		logger:         logger,
	}

	// Setup Redis for the fetch journal
	if cfg.Journal.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Journal.RedisAddress(),
			Password: cfg.Journal.RedisPassword,
			DB:       cfg.Journal.RedisDB,
		})
		defer redisClient.Close()

		ctx := context.Background()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal().Err(err).Str("addr", cfg.Journal.RedisAddress()).Msg("Failed to connect to Redis")
		}
		logger.Info().Str("addr", cfg.Journal.RedisAddress()).Msg("Connected to Redis")

		srv.journal = journal.New(redisClient, cfg.Journal.Options())
	}

	// HTTP Server
	httpServer := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      srv.routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().
			Str("addr", httpServer.Addr).
			Str("user_agent", cfg.Steam.UserAgent).
			Bool("journal", cfg.Journal.Enabled).
			Int("proxies", len(proxies)).
			Msg("Starting inventory proxy server")

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
