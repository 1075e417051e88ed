package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/ahameddd/food-review-app-real/internal/broadcast"
	"github.com/ahameddd/food-review-app-real/internal/config"
	"github.com/ahameddd/food-review-app-real/internal/logging"
	"github.com/ahameddd/food-review-app-real/internal/review"
	"github.com/ahameddd/food-review-app-real/internal/sentiment"
	"github.com/ahameddd/food-review-app-real/internal/server"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func runGracefulShutdown(srv *server.Server, hub *broadcast.Hub) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		hub.Stop()

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "address", cfg.Address())

	classifier := sentiment.NewVaderClassifier()

	reviews := review.NewLog()
	if cfg.SeedSampleReviews {
		for _, rec := range review.SampleReviews(clock, classifier) {
			reviews.Append(rec)
		}
		slog.Info("Seeded sample reviews", "count", reviews.Len())
	}

	hub := broadcast.NewHub(reviews, clock, cfg.MaxClients)

	srv := server.NewServer(cfg, hub, classifier, clock)

	done := runGracefulShutdown(srv, hub)

	slog.Info("Server starting", "address", cfg.Address())
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
