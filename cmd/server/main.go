package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"authbox/backend/internal/config"
	"authbox/backend/internal/httpserver"
	"authbox/backend/internal/infrastructure/postgres"
	authusecase "authbox/backend/internal/usecase/auth"
	tokenusecase "authbox/backend/internal/usecase/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	rootCtx := context.Background()
	db, err := postgres.New(rootCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Migrate(rootCtx); err != nil {
		log.Fatalf("failed to run database migrations: %v", err)
	}

	userRepo := postgres.NewUserRepository(db.Pool)
	tokenRepo := postgres.NewTokenRepository(db.Pool)

	tokenService := tokenusecase.NewService(tokenRepo, userRepo, cfg.TokenTTL)
	authService := authusecase.NewService(userRepo, tokenService)

	server := httpserver.NewServer(cfg, authService)
	log.Printf("HTTP server listening on %s", server.Addr())

	go func() {
		if err := server.Start(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				log.Printf("HTTP server closed: %v", err)
				return
			}
			log.Fatalf("server error: %v", err)
		}
	}()

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go sweepExpiredTokens(shutdownCtx, tokenService, cfg.SweepInterval)

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	} else {
		log.Printf("graceful shutdown completed")
	}
}

// sweepExpiredTokens periodically clears tokens that expired without ever
// being presented again. Resolution already deletes expired tokens on lookup;
// this only keeps the table small.
func sweepExpiredTokens(ctx context.Context, tokens *tokenusecase.Service, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := tokens.Sweep(ctx)
			if err != nil {
				log.Printf("token sweep failed: %v", err)
				continue
			}
			if removed > 0 {
				log.Printf("token sweep removed %d expired tokens", removed)
			}
		}
	}
}
