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

	"github.com/imoveisai/leadhub/internal/config"
	store "github.com/imoveisai/leadhub/internal/repository"
	"github.com/imoveisai/leadhub/internal/service"
	"github.com/imoveisai/leadhub/internal/stream"
	transport "github.com/imoveisai/leadhub/internal/transport/http"
	"github.com/imoveisai/leadhub/policy"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Starting leadhub...")
	log.Printf("Public HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Webhook Port: %d", cfg.WebhookPort)
	log.Printf("Database: %s", cfg.DatabaseURL)

	// Initialize store
	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	// Initialize event broker
	broker := stream.NewBroker()

	// Initialize policy engine
	ctx := context.Background()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Initialize service
	svc := service.New(db, broker, policyEngine, cfg)

	// Create servers
	publicServer := transport.NewPublicServer(svc, cfg)
	webhookServer := transport.NewWebhookServer(svc, cfg)

	// Start public server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := publicServer.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start public server: %v", err)
		}
	}()

	// Start webhook server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.WebhookPort)
		if err := webhookServer.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start webhook server: %v", err)
		}
	}()

	log.Printf("Public API started on port %d", cfg.HTTPPort)
	log.Printf("Webhook API started on port %d", cfg.WebhookPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down leadhub...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := publicServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown public server gracefully: %v", err)
	}
	if err := webhookServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown webhook server gracefully: %v", err)
	}

	log.Println("leadhub stopped")
}
