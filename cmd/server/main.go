package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clickupmcp/server/internal/auth"
	"clickupmcp/server/internal/db"
	"clickupmcp/server/internal/mcp"
	"clickupmcp/server/internal/middleware"
	"clickupmcp/server/internal/modules"
	"clickupmcp/server/internal/modules/clickup"
	"clickupmcp/server/internal/observability"
	"clickupmcp/server/internal/webhook"
	"clickupmcp/server/pkg/clickupapi"
)

func init() {
	modules.RegisterModule(clickup.New())
}

func main() {
	// Initialize observability (Loki)
	observability.Init()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8089"
	}

	// Instance identification for LB
	instanceID := os.Getenv("INSTANCE_ID")
	if instanceID == "" {
		instanceID = "local"
	}
	instanceRegion := os.Getenv("INSTANCE_REGION")
	if instanceRegion == "" {
		instanceRegion = "local"
	}

	log.Printf("Registered modules: %v", modules.ListModules())
	log.Printf("Instance: %s (region: %s)", instanceID, instanceRegion)

	// Upstream ClickUp client
	apiToken := os.Getenv("CLICKUP_API_TOKEN")
	if apiToken == "" {
		log.Printf("WARNING: CLICKUP_API_TOKEN is not set, tool calls will fail")
	} else {
		clickup.Init(clickupapi.NewClient(apiToken))
	}

	// Ed25519 signing keys for JWT API keys. Without a key the server
	// runs open, accepting anonymous callers.
	if err := auth.Init(); err != nil {
		log.Fatalf("Failed to initialize auth keys: %v", err)
	}
	if auth.Enabled() {
		log.Printf("API key auth enabled")
	} else {
		log.Printf("API key auth disabled, running open")
	}

	// Webhook event capture: persisted when PostgreSQL is configured,
	// in-memory otherwise.
	var sink webhook.Sink
	if os.Getenv("DATABASE_URL") != "" {
		database, err := db.Open()
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		eventStore := db.NewEventStore(database)
		sink = eventStore
		clickup.SetEventSource(eventStore)
		go pruneLoop(eventStore)
		log.Printf("Database connected, webhook events persisted")
	} else {
		dispatcher := webhook.NewDispatcher()
		sink = dispatcher
		clickup.SetEventSource(dispatcher)
		log.Printf("DATABASE_URL not set, webhook events kept in memory")
	}

	authorizer := middleware.NewAuthorizer()
	rateLimiter := middleware.NewRateLimiter(10)
	mcpHandler := mcp.NewHandler()

	// Create router (Go 1.22+ method-aware patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Instance-ID", instanceID)
		w.Header().Set("X-Instance-Region", instanceRegion)
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok","instance":"%s","region":"%s"}`, instanceID, instanceRegion)
	})

	// MCP endpoint with authorization + rate limit + transport middleware
	mux.Handle("/v1/mcp", middleware.Recovery(authorizer.Authorize(rateLimiter.Middleware(middleware.Transport(mcpHandler)))))

	// ClickUp webhook ingress (raw body + X-Signature verification)
	mux.HandleFunc("POST /webhook/clickup", webhook.Handler(os.Getenv("CLICKUP_WEBHOOK_SECRET"), sink))

	// JWKS endpoint (public, for API key verification)
	mux.Handle("GET /.well-known/jwks.json", auth.JWKSHandler())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: mux,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting MCP server on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("Received signal %s, shutting down gracefully...", sig)

	// Give in-flight requests up to 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Printf("Server stopped")
}

// eventRetention is how long captured webhook events are kept.
const eventRetention = 30 * 24 * time.Hour

// pruneLoop trims old webhook events once a day.
func pruneLoop(store *db.EventStore) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		n, err := store.PruneEvents(ctx, time.Now().Add(-eventRetention))
		cancel()
		if err != nil {
			log.Printf("Failed to prune webhook events: %v", err)
			continue
		}
		if n > 0 {
			log.Printf("Pruned %d webhook events", n)
		}
	}
}
