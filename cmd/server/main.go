/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the premium determination engine server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize SQLite store
  3. Load the reference dataset (seed file or built-in demo data)
  4. Create the engine and API handler
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080)
  -db      SQLite database path (default: premium.db)
           Use ":memory:" for in-memory database
  -seed    Path to a JSON seed file. When empty, the built-in demo
           dataset is imported.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database and demo reference data
  ./server -db="./data/premium.db"

  # Run fully in memory
  ./server -db=":memory:"

  # Run with a custom reference dataset
  ./server -seed="./config/reference.json"

ENVIRONMENT:
  No environment variables currently. All config via flags.
  Future: DATABASE_URL, PORT, LOG_LEVEL

SEE ALSO:
  - api/server.go: Router configuration
  - factory/seed.go: Seed file format
  - store/sqlite/sqlite.go: Database implementation
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

	"github.com/warp/premium-engine/api"
	"github.com/warp/premium-engine/engine"
	"github.com/warp/premium-engine/factory"
	"github.com/warp/premium-engine/refdata"
	"github.com/warp/premium-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "premium.db", "SQLite database path")
	seedPath := flag.String("seed", "", "JSON seed file (empty = built-in demo data)")
	flag.Parse()

	// Reference dataset
	var dataset refdata.Dataset
	if *seedPath != "" {
		var err error
		dataset, err = factory.Load(*seedPath)
		if err != nil {
			log.Fatalf("Failed to load seed file: %v", err)
		}
	} else {
		dataset = factory.DefaultSeed()
	}

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	if err := store.Import(context.Background(), dataset); err != nil {
		log.Fatalf("Failed to import reference data: %v", err)
	}

	// Engine and handler
	eng := engine.New(store, store, store)
	handler := api.NewHandler(eng, dataset)

	// Create router
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on http://localhost:%d", *port)
		log.Printf("📊 API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
