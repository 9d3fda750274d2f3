package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	model "github.com/ChrisB2025/Keystroke-Kingdom/internal/models"
	"github.com/ChrisB2025/Keystroke-Kingdom/internal/scanner"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres implémente GameStore au-dessus du pool pgx.
type Postgres struct {
	db *pgxpool.Pool
}

func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) UpsertSave(ctx context.Context, userID string, state json.RawMessage, day int, employment, inflation, services float64) (model.GameSave, error) {
	// ON CONFLICT garantit une seule ligne par utilisateur, même si deux
	// requêtes concurrentes créent la première sauvegarde en même temps.
	row := s.db.QueryRow(ctx, `
		INSERT INTO game_saves (user_id, game_state, day, employment, inflation, services_score)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			game_state = EXCLUDED.game_state,
			day = EXCLUDED.day,
			employment = EXCLUDED.employment,
			inflation = EXCLUDED.inflation,
			services_score = EXCLUDED.services_score,
			updated_at = NOW()
		RETURNING id, user_id, game_state, day, employment, inflation, services_score, created_at, updated_at`,
		userID, state, day, employment, inflation, services,
	)

	save, err := scanner.ScanGameSave(row)
	if err != nil {
		return model.GameSave{}, fmt.Errorf("upsert save: %w", err)
	}

	return *save, nil
}

func (s *Postgres) GetSave(ctx context.Context, userID string) (model.GameSave, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, user_id, game_state, day, employment, inflation, services_score, created_at, updated_at
		FROM game_saves
		WHERE user_id = $1`,
		userID,
	)

	save, err := scanner.ScanGameSave(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.GameSave{}, ErrNotFound
	}
	if err != nil {
		return model.GameSave{}, fmt.Errorf("get save: %w", err)
	}

	return *save, nil
}

func (s *Postgres) InsertScore(ctx context.Context, entry model.HighScore) (model.HighScore, error) {
	err := s.db.QueryRow(ctx, `
		INSERT INTO high_scores (user_id, initials, score, final_day, employment, inflation, services)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, achieved_at`,
		entry.UserID, entry.Initials, entry.Score, entry.FinalDay,
		entry.Employment, entry.Inflation, entry.Services,
	).Scan(&entry.ID, &entry.AchievedAt)
	if err != nil {
		return entry, fmt.Errorf("insert score: %w", err)
	}

	if entry.UserID != nil && entry.Username == "" {
		// le nom est affiché sur le leaderboard quand il est connu
		_ = s.db.QueryRow(ctx,
			`SELECT name FROM users WHERE id = $1`, *entry.UserID,
		).Scan(&entry.Username)
	}

	return entry, nil
}

func (s *Postgres) TopScores(ctx context.Context, limit int) ([]model.HighScore, error) {
	limit = ClampLimit(limit)

	rows, err := s.db.Query(ctx, `
		SELECT h.id, h.user_id, COALESCE(u.name, '') AS username, h.initials,
			h.score, h.final_day, h.employment, h.inflation, h.services, h.achieved_at
		FROM high_scores h
		LEFT JOIN users u ON h.user_id = u.id
		ORDER BY h.score DESC, h.achieved_at DESC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("top scores: %w", err)
	}
	defer rows.Close()

	var scores []model.HighScore
	for rows.Next() {
		entry, err := scanner.ScanHighScore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan score row: %w", err)
		}
		scores = append(scores, *entry)
	}

	return scores, rows.Err()
}

func (s *Postgres) UserBestScore(ctx context.Context, userID string) (model.HighScore, error) {
	row := s.db.QueryRow(ctx, `
		SELECT h.id, h.user_id, COALESCE(u.name, '') AS username, h.initials,
			h.score, h.final_day, h.employment, h.inflation, h.services, h.achieved_at
		FROM high_scores h
		LEFT JOIN users u ON h.user_id = u.id
		WHERE h.user_id = $1
		ORDER BY h.score DESC, h.achieved_at DESC
		LIMIT 1`,
		userID,
	)

	entry, err := scanner.ScanHighScore(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.HighScore{}, ErrNotFound
	}
	if err != nil {
		return model.HighScore{}, fmt.Errorf("user best score: %w", err)
	}

	return *entry, nil
}

func (s *Postgres) CountSaves(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM game_saves WHERE user_id = $1`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count saves: %w", err)
	}
	return count, nil
}

func (s *Postgres) CountScores(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM high_scores WHERE user_id = $1`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count scores: %w", err)
	}
	return count, nil
}

func (s *Postgres) CreateUser(ctx context.Context, name, email, passwordHash string) (model.UserProfile, error) {
	var user model.UserProfile

	err := s.db.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, name, email, join_date, created_at, updated_at`,
		name, email, passwordHash,
	).Scan(&user.ID, &user.Name, &user.Email, &user.JoinDate, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return user, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func (s *Postgres) GetUserByEmail(ctx context.Context, email string) (model.UserProfile, string, error) {
	var user model.UserProfile
	var hash string

	err := s.db.QueryRow(ctx, `
		SELECT id, name, email, join_date, created_at, updated_at, password_hash
		FROM users
		WHERE email = $1`,
		email,
	).Scan(&user.ID, &user.Name, &user.Email, &user.JoinDate, &user.CreatedAt, &user.UpdatedAt, &hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return user, "", ErrNotFound
	}
	if err != nil {
		return user, "", fmt.Errorf("get user by email: %w", err)
	}

	return user, hash, nil
}

func (s *Postgres) GetUserByToken(ctx context.Context, token string) (model.UserProfile, error) {
	var user model.UserProfile

	err := s.db.QueryRow(ctx, `
		SELECT u.id, u.name, u.email, u.join_date, u.created_at, u.updated_at
		FROM users u
		JOIN sessions s ON u.id = s.user_id
		WHERE s.token = $1
			AND s.is_active = true
			AND s.expires_at > NOW()`,
		token,
	).Scan(&user.ID, &user.Name, &user.Email, &user.JoinDate, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return user, ErrNotFound
	}
	if err != nil {
		return user, fmt.Errorf("get user by token: %w", err)
	}

	return user, nil
}

func (s *Postgres) CreateSession(ctx context.Context, userID, token string, expiresAt time.Time) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO sessions (user_id, token, is_active, expires_at)
		VALUES ($1, $2, true, $3)`,
		userID, token, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (s *Postgres) DeactivateSession(ctx context.Context, token string) error {
	res, err := s.db.Exec(ctx,
		`UPDATE sessions SET is_active = false WHERE token = $1 AND is_active = true`,
		token,
	)
	if err != nil {
		return fmt.Errorf("deactivate session: %w", err)
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

var _ GameStore = (*Postgres)(nil)
