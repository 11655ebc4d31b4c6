/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the correspondence consolidation server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags and environment
  2. Initialize SQLite case store
  3. Wire token provider, document store, and engine
  4. Configure HTTP router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080)
  -db      SQLite database path (default: cases.db)
           Use ":memory:" for an in-memory database

ENVIRONMENT:
  IDAM_SECRET   Service token signing secret (default: dev only)
  IDAM_ISSUER   Token issuer name
  IDAM_USER_ID  System user recorded on token bundles

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/hmcts/sscs-pdf-email-common/api"
	"github.com/hmcts/sscs-pdf-email-common/ccd"
	"github.com/hmcts/sscs-pdf-email-common/docman"
	"github.com/hmcts/sscs-pdf-email-common/idam"
	"github.com/hmcts/sscs-pdf-email-common/notifications"
	"github.com/hmcts/sscs-pdf-email-common/store/sqlite"
)

type config struct {
	IdamSecret string `env:"IDAM_SECRET" envDefault:"local-dev-secret"`
	IdamIssuer string `env:"IDAM_ISSUER" envDefault:"sscs"`
	IdamUserID string `env:"IDAM_USER_ID" envDefault:"sscs-system-user"`
}

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "cases.db", "SQLite database path")
	flag.Parse()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("Failed to parse environment: %v", err)
	}

	// Initialize case store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Wire collaborators
	tokens := idam.NewGenerator([]byte(cfg.IdamSecret), cfg.IdamIssuer, cfg.IdamUserID)
	updater := ccd.NewUpdater(store, tokens)
	engine := notifications.NewEngine(notifications.PassthroughRenderer{}, docman.NewMemory(), updater)

	handler := api.NewHandler(engine, updater, store)
	router := api.NewRouter(handler)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", *port),
		Handler: router,
	}

	// Start server
	go func() {
		log.Printf("Server listening on :%d (db: %s)", *port, *dbPath)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
