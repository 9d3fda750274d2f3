package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// InitSchema crée les tables si elles n'existent pas encore.
// Idempotent : peut être exécuté à chaque démarrage.
func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			join_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			token TEXT NOT NULL UNIQUE,
			is_active BOOLEAN NOT NULL DEFAULT true,
			expires_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS game_saves (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
			game_state JSONB NOT NULL,
			day INTEGER NOT NULL DEFAULT 1,
			employment DOUBLE PRECISION NOT NULL DEFAULT 0,
			inflation DOUBLE PRECISION NOT NULL DEFAULT 0,
			services_score DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS high_scores (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			initials CHAR(3) NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			final_day INTEGER NOT NULL DEFAULT 1,
			employment DOUBLE PRECISION NOT NULL DEFAULT 0,
			inflation DOUBLE PRECISION NOT NULL DEFAULT 0,
			services DOUBLE PRECISION NOT NULL DEFAULT 0,
			achieved_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_high_scores_score ON high_scores (score DESC, achieved_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_high_scores_user ON high_scores (user_id, score DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_token ON sessions (token)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema init failed: %w", err)
		}
	}

	return nil
}
