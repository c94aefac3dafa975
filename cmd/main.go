package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/redis/go-redis/v9"

	"board-lab/domain/event"
	"board-lab/infrastructure/ws"
	"board-lab/internal"
	"board-lab/observability"
	"board-lab/repositories"
	"board-lab/runtime"
	"board-lab/runtime/workers"
	"board-lab/services"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// This pattern is preferred over calling os.Exit or panic directly because:
// 1. It ensures all 'defer' statements (like database cleanup) are executed before the program exits.
// 2. It improves testability by decoupling the initialization logic from the main entry point.
// 3. It provides a structured way to handle graceful shutdowns for the HTTP server and background workers.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Snapshot store (BadgerDB by default, Redis as the remote option)
	var repository repositories.IBoardRepository
	var db *badger.DB

	switch config.StoreDriver {
	case internal.StoreDriverRedis:
		client := redis.NewClient(&redis.Options{Addr: config.RedisAddr})
		defer func() {
			log.Info("Closing Redis client...")
			_ = client.Close()
		}()
		repository = repositories.NewRedisBoardRepository(client, log)

	default:
		var err error
		db, err = badger.Open(badger.DefaultOptions(config.BadgerFilepath).
			WithLoggingLevel(badger.INFO))
		if err != nil {
			return fmt.Errorf("database opening failed: %w", err)
		}
		//  Defer will be executed before run() returned anything to main()
		defer func() {
			log.Info("Closing BadgerDB...")
			_ = db.Close()
		}()
		repository = repositories.NewBoardRepository(db, log)
	}

	// 3. Setup Supervision & Orchestration
	telemetryEvents := make(chan event.Event, config.BufferSize)
	sup := workers.NewSupervisor(log, telemetryEvents)
	registry := runtime.NewRegistry()
	stats := observability.NewRelayStats(log)

	orchestrator := runtime.NewOrchestrator(
		log, sup, registry, telemetryEvents, repository, stats,
		config.BufferSize, config.MetricInterval, config.LowCapacityThreshold,
	)

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Start the Engine
	orchestrator.Start(ctx)

	// 6. Transports
	service := services.NewBoardService(log, orchestrator, repository, stats, int(config.MaxSnapshotBytes))
	server := ws.NewServer(ctx, log, service,
		config.AllowedOrigin, config.ConnectionBufferSize, config.MaxSnapshotBytes)

	if db != nil {
		internal.StartDebugServer(db, config.DebugPort, "/inspect", internal.BoardMapper, stats.AsMap)
		log.Info(fmt.Sprintf("Inspect page at http://localhost:%d/inspect", config.DebugPort))
	}

	httpServer := &http.Server{
		Addr:    config.Addr(),
		Handler: server.Router(),
	}

	// Use an error channel to capture Serve() issues
	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting board server", "address", config.Addr(), "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 8. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
	orchestrator.Stop()
	log.Info("Program stopped cleanly")

	return nil
}
