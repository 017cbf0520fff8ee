package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chat-wire/auth"
	"chat-wire/domain/event"
	"chat-wire/hub"
	"chat-wire/internal"
	"chat-wire/observability"
	"chat-wire/projection"
	"chat-wire/repositories"
	"chat-wire/runtime/workers"
	"chat-wire/server"
	"chat-wire/services"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting, so every defer (database close included)
// executes before the process exits.
func run() error {
	// 1. Configuration & Logger
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found, using environment")
	}
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Repositories
	userRepository := repositories.NewUserRepository(db)
	messageRepository := repositories.NewMessageRepository(db, log, config.LimitMessages)

	// 4. Live core: registry, router, relay, presence. They share one
	// observability channel drained by the fanout worker.
	events := make(chan event.DomainEvent, config.BufferSize)
	registry := hub.NewRegistry()
	router := hub.NewRouter(log, registry, messageRepository, events, config.MaxContentLength)
	relay := hub.NewTypingRelay(log, registry, events)
	presence := hub.NewPresenceTracker(log, userRepository, events)

	// 5. Observability sinks behind the supervisor
	timeline := projection.NewTimeline(config.BufferSize)
	metrics := observability.NewMetrics()
	sup := workers.NewSupervisor(log)
	sup.Add(workers.NewEventFanout(log, events, config.SinkTimeout, timeline, metrics))

	// 6. Services
	tokens := auth.NewTokenManager(config.TokenSecret, config.AuthTokenDuration)
	identityService := services.NewIdentityService(tokens, userRepository)
	authService := services.NewAuthService(userRepository, tokens)
	userService := services.NewUserService(userRepository)
	chatService := services.NewChatService(router, relay, messageRepository)

	// 7. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sup.Run(ctx)

	// 8. HTTP & websocket server
	srv := server.New(log, config, authService, userService, chatService,
		identityService, registry, presence, metrics, timeline)
	httpServer := srv.HTTPServer()

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting server", "address", httpServer.Addr, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	// 9. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 10. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("Server shutdown incomplete", "error", err)
	}
	sup.Stop()
	log.Info("Program stopped cleanly")

	return nil
}
