package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/nexinsight/nexinsight/internal/ai"
	"github.com/nexinsight/nexinsight/internal/api"
	"github.com/nexinsight/nexinsight/internal/auth"
	"github.com/nexinsight/nexinsight/internal/cache"
	"github.com/nexinsight/nexinsight/internal/config"
	"github.com/nexinsight/nexinsight/internal/db"
	"github.com/nexinsight/nexinsight/internal/webhook"
)

func main() {
	// Missing .env is fine in production, where everything comes from
	// real environment variables.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	store := db.NewStore(pool)
	authService := auth.NewService(pool)
	client := webhook.NewClient(cfg.WebhookTimeout)
	embedder := ai.NewOllamaClient(cfg.OllamaHost, cfg.EmbedModel)

	srv := api.NewServer(cfg, store, authService, client, embedder, cache.New(cfg.RedisURL))
	log.Printf("Server starting on port %s...", cfg.Port)
	if err := srv.Start(cfg.Port); err != nil {
		log.Fatal(err)
	}
}
