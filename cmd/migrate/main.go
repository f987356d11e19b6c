package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"taktivent/internal/db"

	"github.com/joho/godotenv"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// migrate applies the embedded schema migrations that have not run yet.
// Usage: go run ./cmd/migrate
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	logger := zap.Must(zap.NewProduction()).Sugar()
	defer logger.Sync()

	addr := os.Getenv("DB_ADDR")
	if addr == "" {
		logger.Fatal("DB_ADDR is required")
	}

	conn, err := sql.Open("postgres", addr)
	if err != nil {
		logger.Fatal(err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		logger.Fatal(err)
	}

	applied, err := run(ctx, conn)
	if err != nil {
		logger.Fatalw("migration failed", "error", err)
	}
	logger.Infow("migrations complete", "applied", applied)
}

func run(ctx context.Context, conn *sql.DB) (int, error) {
	if _, err := conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`); err != nil {
		return 0, err
	}

	rows, err := conn.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return 0, err
	}
	done := map[string]bool{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			rows.Close()
			return 0, err
		}
		done[v] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	migrations, err := db.Migrations()
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, m := range migrations {
		if done[m.Version] {
			continue
		}

		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return applied, err
		}
		if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
			tx.Rollback()
			var pqErr *pq.Error
			if errors.As(err, &pqErr) {
				return applied, fmt.Errorf("migration %s: %s (%s)", m.Version, pqErr.Message, pqErr.Code.Name())
			}
			return applied, fmt.Errorf("migration %s: %w", m.Version, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, m.Version); err != nil {
			tx.Rollback()
			return applied, err
		}
		if err := tx.Commit(); err != nil {
			return applied, err
		}
		applied++
	}

	return applied, nil
}
