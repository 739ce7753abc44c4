// Backfills vector embeddings for projects that were synced while the
// embedding service was unavailable.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/nexinsight/nexinsight/internal/ai"
	"github.com/nexinsight/nexinsight/internal/config"
	"github.com/nexinsight/nexinsight/internal/db"
)

type output struct {
	Scanned  int      `json:"scanned"`
	Embedded int      `json:"embedded"`
	Errors   int      `json:"errors"`
	Failed   []string `json:"failed,omitempty"`
}

func main() {
	batchSize := flag.Int("batch-size", 200, "max projects to embed in one run")
	perItemTimeoutSec := flag.Int("item-timeout-sec", 60, "timeout per embedding call")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	store := db.NewStore(pool)
	embedder := ai.NewOllamaClient(cfg.OllamaHost, cfg.EmbedModel)

	rows, err := pool.Query(ctx, `
		SELECT id, title, description FROM projects
		WHERE embedding IS NULL
		ORDER BY created_at
		LIMIT $1`, *batchSize)
	if err != nil {
		log.Fatalf("query failed: %v", err)
	}
	defer rows.Close()

	type pending struct {
		id          uuid.UUID
		title, desc string
	}
	var todo []pending
	for rows.Next() {
		var p pending
		if err := rows.Scan(&p.id, &p.title, &p.desc); err != nil {
			log.Fatalf("scan failed: %v", err)
		}
		todo = append(todo, p)
	}
	if err := rows.Err(); err != nil {
		log.Fatalf("query failed: %v", err)
	}

	result := output{Scanned: len(todo)}
	for _, p := range todo {
		itemCtx, cancel := context.WithTimeout(ctx, time.Duration(*perItemTimeoutSec)*time.Second)
		vec, err := embedder.GenerateEmbedding(itemCtx, p.title+"\n"+p.desc)
		if err == nil {
			err = store.SetProjectEmbedding(itemCtx, p.id, vec)
		}
		cancel()

		if err != nil {
			result.Errors++
			result.Failed = append(result.Failed, p.id.String())
			log.Printf("embed failed for %s: %v", p.id, err)
			continue
		}
		result.Embedded++
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
