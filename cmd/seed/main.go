// seed inserts development sample data for local testing. Run via ./scripts/seed.sh.
// Idempotent: skips inserts if the dev tenant (club-nine) already exists.
// The generated endpoint API key is printed once; it is not recoverable later.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"spinlink/internal/config"
	"spinlink/internal/db"
	"spinlink/internal/security"
)

const (
	devTenantID   = "dev-tenant-001"
	devTenantSlug = "club-nine"
	devUserID     = "dev-user-001"
	devEndpointID = "dev-endpoint-001"
	devShowID     = "dev-show-001"
	devShowCode   = "BASS-2345"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()

	var existing string
	err = conn.QueryRowContext(ctx, `SELECT id FROM tenants WHERE slug = $1`, devTenantSlug).Scan(&existing)
	if err == nil {
		log.Printf("Seed already applied (%s exists). Skipping.", devTenantSlug)
		os.Exit(0)
	}
	if err != sql.ErrNoRows {
		log.Fatalf("seed check: %v", err)
	}

	displayKey, prefix, secret, err := security.GenerateAPIKey()
	if err != nil {
		log.Fatalf("generate api key: %v", err)
	}
	hasher := security.NewHasher(cfg.BcryptCost)
	keyHash, err := hasher.Hash([]byte(secret))
	if err != nil {
		log.Fatalf("hash api key: %v", err)
	}
	signingSecret, err := security.NewSigningSecret()
	if err != nil {
		log.Fatalf("signing secret: %v", err)
	}

	now := time.Now().UTC()

	if _, err := conn.ExecContext(ctx,
		`INSERT INTO tenants (id, slug, owner_user_id, status, created_at)
		 VALUES ($1, $2, $3, 'active', $4)`,
		devTenantID, devTenantSlug, devUserID, now); err != nil {
		log.Fatalf("create dev tenant: %v", err)
	}

	if _, err := conn.ExecContext(ctx,
		`INSERT INTO endpoints (id, tenant_id, name, address, api_key_prefix, api_key_hash, signing_secret, active, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, $8)`,
		devEndpointID, devTenantID, "main-floor", "127.0.0.1:9000", prefix, keyHash, signingSecret, now); err != nil {
		log.Fatalf("create dev endpoint: %v", err)
	}

	if _, err := conn.ExecContext(ctx,
		`INSERT INTO shows (id, endpoint_id, name, code, status, capacity, occupancy, created_at)
		 VALUES ($1, $2, $3, $4, 'active', 4, 0, $5)`,
		devShowID, devEndpointID, "dev show", devShowCode, now); err != nil {
		log.Fatalf("create dev show: %v", err)
	}

	fmt.Println("Seed complete.")
	fmt.Printf("  tenant:    %s (slug %s, owner %s)\n", devTenantID, devTenantSlug, devUserID)
	fmt.Printf("  endpoint:  %s\n", devEndpointID)
	fmt.Printf("  api key:   %s\n", displayKey)
	fmt.Printf("  show code: %s\n", devShowCode)
}
