/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the neurosurgery resident scheduling server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load AppConfiguration from YAML
  3. Initialize SQLite store and seed the configuration into it
  4. Create engine packages and the RPC handler
  5. Configure HTTP router
  6. Start the analysis sweeper
  7. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port     HTTP server port (default: 8080)
  -db       SQLite database path (default: scheduler.db)
            Use ":memory:" for in-memory database
  -config   YAML configuration file path (default: config.yaml)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the analysis sweeper
  4. Close the database connection
  5. Exit

SEE ALSO:
  - api/server.go: router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: database implementation
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

	"github.com/neurosurgery/scheduler/analyzer"
	"github.com/neurosurgery/scheduler/api"
	"github.com/neurosurgery/scheduler/config"
	"github.com/neurosurgery/scheduler/monthly"
	"github.com/neurosurgery/scheduler/store/sqlite"
	"github.com/neurosurgery/scheduler/weekly"
	"github.com/neurosurgery/scheduler/yearly"
)

func main() {
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "scheduler.db", "SQLite database path")
	configPath := flag.String("config", "config.yaml", "YAML configuration file path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.PutConfiguration(context.Background(), cfg); err != nil {
		log.Printf("warning: failed to seed configuration: %v", err)
	}

	logger := log.New(os.Stderr, "scheduler: ", log.LstdFlags)

	handler := &api.Handler{
		Store:    db,
		Yearly:   yearly.New(logger),
		Monthly:  monthly.New(logger),
		Weekly:   weekly.New(logger),
		Analyzer: analyzer.Analyzer{Store: db, Logger: logger},
		Logger:   logger,
	}

	router := api.NewRouter(handler, nil)

	sweeper := api.NewAnalysisSweeper(db, handler.Analyzer)
	sweeper.Start()
	defer sweeper.Stop()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("scheduler starting on http://localhost:%d", *port)
		log.Printf("API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server stopped")
}
