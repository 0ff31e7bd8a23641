package main

import (
	"context"
	"fmt"
	"log"

	"booth-service/internal/config"
	"booth-service/internal/repository/postgres"

	"github.com/joho/godotenv"
)

const documentsTable = "tenant_documents"

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Error loading .env file: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Database.Backend != config.BackendPostgres {
		log.Fatalf("DOCUMENT_BACKEND is %q, nothing to set up", cfg.Database.Backend)
	}

	fmt.Println("=== Setting Up Database ===")

	db, err := postgres.New(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	var exists bool
	query := `SELECT EXISTS (
		SELECT FROM information_schema.tables
		WHERE table_schema = 'public'
		AND table_name = $1
	)`
	if err := db.Pool.QueryRow(ctx, query, documentsTable).Scan(&exists); err != nil {
		log.Fatalf("Failed to verify table %q: %v", documentsTable, err)
	}
	if !exists {
		log.Fatalf("Table %q was not created", documentsTable)
	}

	fmt.Printf("Table %q ready\n", documentsTable)
	fmt.Println("Next: run 'go run ./cmd/boothservice' to start the server")
}
