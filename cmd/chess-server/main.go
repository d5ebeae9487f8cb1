// FILE: cmd/chess-server/main.go
// Package main runs the chess rules engine behind a RESTful API
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chessrules/cmd/chess-server/cli"
	"chessrules/internal/engine"
	"chessrules/internal/service"
	"chessrules/internal/storage"
	"chessrules/internal/transport/http"
)

const (
	gracefulShutdownTimeout = time.Second * 5
)

func main() {
	// Check for CLI database commands
	if len(os.Args) > 1 && os.Args[1] == "db" {
		if err := cli.Run(os.Args[2:]); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		os.Exit(0)
	}

	// Command-line flags
	var (
		apiHost     = flag.String("api-host", "localhost", "API server host")
		apiPort     = flag.Int("api-port", 8080, "API server port")
		dev         = flag.Bool("dev", false, "Development mode (relaxed rate limits)")
		storagePath = flag.String("storage-path", "", "Path to SQLite database file (disables persistence if empty)")
		pidPath     = flag.String("pid", "", "Optional path to write PID file")
		pidLock     = flag.Bool("pid-lock", false, "Lock PID file to allow only one instance (requires -pid)")
		rateLimit   = flag.Int("rate-limit", 10, "Requests per second per IP, 0 disables")
		accessLog   = flag.Bool("access-log", true, "Log every request")
		enginePath  = flag.String("engine", "", "UCI engine binary for computer players (random mover if empty)")
		moveTime    = flag.Duration("move-time", 500*time.Millisecond, "Engine search time per move")
		skill       = flag.Int("skill", 20, "Engine skill level (0-20)")
	)
	flag.Parse()

	// Validate PID flags
	if *pidLock && *pidPath == "" {
		log.Fatal("Error: -pid-lock flag requires the -pid flag to be set")
	}

	if *pidPath != "" {
		pf, err := acquirePIDFile(*pidPath, *pidLock)
		if err != nil {
			log.Fatalf("Failed to manage PID file: %v", err)
		}
		defer pf.Release()
		log.Printf("PID file created at: %s (lock: %v)", *pidPath, *pidLock)
	}

	// 1. Initialize Storage (optional)
	var store *storage.Store
	if *storagePath != "" {
		log.Printf("Initializing persistent storage at: %s", *storagePath)
		var err error
		store, err = storage.NewStore(*storagePath, *dev)
		if err != nil {
			log.Fatalf("Failed to initialize storage: %v", err)
		}
		if err := store.InitDB(); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
	} else {
		log.Printf("Persistent storage disabled (use -storage-path to enable)")
	}

	// 2. Optional external engine for computer players
	var opts []service.Option
	if *enginePath != "" {
		uci, err := engine.New(*enginePath)
		if err != nil {
			log.Fatalf("Failed to start engine: %v", err)
		}
		defer uci.Close()
		if err := uci.SetSkillLevel(*skill); err != nil {
			log.Fatalf("Failed to configure engine: %v", err)
		}
		opts = append(opts, service.WithEngine(uci, *moveTime))
		log.Printf("Engine: %s (skill %d, %s per move)", *enginePath, *skill, *moveTime)
	}

	// 3. Initialize the Service, which owns the store from here on
	svc, err := service.New(store, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize service: %v", err)
	}

	// 4. Initialize the Fiber App
	limit := *rateLimit
	if *dev && limit > 0 {
		limit *= 2
	}
	app := http.NewFiberApp(svc, http.Config{RateLimit: limit, AccessLog: *accessLog})

	apiAddr := fmt.Sprintf("%s:%d", *apiHost, *apiPort)

	go func() {
		log.Printf("Chess API Server starting...")
		log.Printf("API Listening on: http://%s", apiAddr)
		if limit > 0 {
			log.Printf("Rate Limit: %d requests/second per IP", limit)
		} else {
			log.Printf("Rate Limit: disabled")
		}
		if *storagePath != "" {
			log.Printf("Storage: Enabled (%s)", *storagePath)
		} else {
			log.Printf("Storage: Disabled")
		}
		log.Printf("API Endpoints: http://%s/api/v1/games", apiAddr)
		log.Printf("Health: http://%s/health", apiAddr)

		if err := app.Listen(apiAddr); err != nil {
			log.Printf("API server listen error: %v", err)
		}
	}()

	// Wait for an interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Shutdown service last (wait registry, then storage)
	if err := svc.Shutdown(gracefulShutdownTimeout); err != nil {
		log.Printf("Service shutdown error: %v", err)
	}

	log.Println("Server exited")
}
