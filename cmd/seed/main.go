// seed creates the schema and a verified test user in the local dev
// database. Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gefest173/meteora/internal/infrastructure/postgres"
	"github.com/gefest173/meteora/internal/password"
)

const (
	seedEmail    = "seed@test.local"
	seedPassword = "seed-password"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id              BIGSERIAL PRIMARY KEY,
		email           TEXT NOT NULL UNIQUE,
		hashed_password TEXT NOT NULL,
		is_active       BOOLEAN NOT NULL DEFAULT TRUE,
		is_verified     BOOLEAN NOT NULL DEFAULT FALSE,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS locations (
		id        BIGSERIAL PRIMARY KEY,
		name      TEXT NOT NULL,
		country   TEXT NOT NULL DEFAULT '',
		latitude  DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		admin1    TEXT NOT NULL DEFAULT '',
		timezone  TEXT NOT NULL DEFAULT 'UTC'
	)`,
	`CREATE INDEX IF NOT EXISTS idx_locations_name ON locations (name)`,
	`CREATE TABLE IF NOT EXISTS search_history (
		id            BIGSERIAL PRIMARY KEY,
		user_id       BIGINT NOT NULL REFERENCES users(id),
		location_id   BIGINT NOT NULL REFERENCES locations(id),
		city_name     TEXT NOT NULL,
		search_count  INTEGER NOT NULL DEFAULT 1,
		last_searched TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, location_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_search_history_user ON search_history (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_search_history_last_searched ON search_history (last_searched)`,
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set — run: direnv allow")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			log.Fatalf("apply schema: %v", err)
		}
	}

	hash, err := password.Hash(seedPassword)
	if err != nil {
		log.Fatalf("hash seed password: %v", err)
	}

	var userID int64
	err = pool.QueryRow(ctx, `
		INSERT INTO users (email, hashed_password, is_active, is_verified)
		VALUES ($1, $2, TRUE, TRUE)
		ON CONFLICT (email) DO UPDATE SET updated_at = NOW()
		RETURNING id`,
		seedEmail, hash,
	).Scan(&userID)
	if err != nil {
		log.Fatalf("upsert seed user: %v", err)
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  User:    %s\n", seedEmail)
	fmt.Printf("  User ID: %d\n", userID)
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Step 1 — request a login code (with ENV=local the code lands in the server log):")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:8080/auth/login/send_code \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"email\":\"%s\",\"password\":\"%s\"}'\n", seedEmail, seedPassword)
	fmt.Println()
	fmt.Println("  Step 2 — exchange the code for a token:")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:8080/auth/login/verify_code \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"email\":\"%s\",\"code\":\"CODE\"}'\n", seedEmail)
	fmt.Println()
	fmt.Println("  Step 3 — look up the weather:")
	fmt.Println()
	fmt.Println("    export JWT=eyJ...")
	fmt.Println("    curl -s http://localhost:8080/weather/Moscow -H \"Authorization: Bearer $JWT\"")
	fmt.Println("    curl -s http://localhost:8080/history -H \"Authorization: Bearer $JWT\"")
}
