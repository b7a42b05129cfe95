package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Brilu-22/FCalApp3/internal/config"
	"github.com/Brilu-22/FCalApp3/internal/llm"
	"github.com/Brilu-22/FCalApp3/internal/planner"
	"github.com/Brilu-22/FCalApp3/internal/server"
	"github.com/Brilu-22/FCalApp3/internal/store"
)

func gracefulShutdown(apiServer *http.Server, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	log.Info().Msg("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

func newRepository(ctx context.Context, cfg config.Config) store.Repository {
	if cfg.DatabaseURL == "" {
		log.Info().Msg("DATABASE_URL not set, using in-memory plan store")
		return store.NewMemory()
	}
	pg, err := store.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not connect to Postgres")
	}
	return pg
}

func newProvider(cfg config.Config) llm.TextGenerator {
	if cfg.Provider == config.ProviderGroq {
		return llm.NewGroqClient(cfg.GroqAPIKey, cfg.UpstreamTimeout)
	}
	return llm.NewGeminiClient(cfg.GeminiAPIKey, cfg.UpstreamTimeout)
}

func main() {
	cfg := config.FromEnv()

	repo := newRepository(context.Background(), cfg)
	if pg, ok := repo.(*store.Postgres); ok {
		defer pg.Close()
	}

	svc := planner.New(newProvider(cfg), cfg.MockFallback, cfg.CacheSize)

	apiServer := server.NewServer(cfg, repo, svc)

	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	// Run graceful shutdown in a separate goroutine
	go gracefulShutdown(apiServer, done)

	log.Info().Int("port", cfg.Port).Str("provider", cfg.Provider).Msg("Starting plan API")
	err := apiServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("HTTP server error")
	}

	// Wait for the graceful shutdown to complete
	<-done
	log.Info().Msg("Graceful shutdown complete")
}
