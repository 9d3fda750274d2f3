// Package store définit le contrat de persistance du jeu et ses deux
// implémentations : Postgres (production) et Memory (tests).
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	model "github.com/ChrisB2025/Keystroke-Kingdom/internal/models"
)

// ErrNotFound est retourné quand la ligne demandée n'existe pas.
// L'absence de sauvegarde est un état normal, pas une erreur serveur.
var ErrNotFound = errors.New("not found")

// MaxLeaderboardLimit borne la taille du leaderboard côté serveur,
// quelle que soit la limite demandée par le client.
const MaxLeaderboardLimit = 100

// GameStore est le contrat de persistance consommé par les handlers.
type GameStore interface {
	// UpsertSave insère la sauvegarde de l'utilisateur ou écrase la
	// ligne existante (une seule sauvegarde par utilisateur, même sous
	// appels concurrents pour la première écriture).
	UpsertSave(ctx context.Context, userID string, state json.RawMessage, day int, employment, inflation, services float64) (model.GameSave, error)

	// GetSave retourne la sauvegarde de l'utilisateur, ErrNotFound sinon.
	GetSave(ctx context.Context, userID string) (model.GameSave, error)

	// InsertScore ajoute une entrée au classement (append-only).
	InsertScore(ctx context.Context, entry model.HighScore) (model.HighScore, error)

	// TopScores retourne le classement trié par score décroissant puis
	// date décroissante, borné à MaxLeaderboardLimit.
	TopScores(ctx context.Context, limit int) ([]model.HighScore, error)

	// UserBestScore retourne le meilleur score de l'utilisateur,
	// ErrNotFound s'il n'en a aucun.
	UserBestScore(ctx context.Context, userID string) (model.HighScore, error)

	CountSaves(ctx context.Context, userID string) (int, error)
	CountScores(ctx context.Context, userID string) (int, error)

	// Identité / sessions (consommé par le middleware d'auth)
	CreateUser(ctx context.Context, name, email string, passwordHash string) (model.UserProfile, error)
	GetUserByEmail(ctx context.Context, email string) (model.UserProfile, string, error)
	GetUserByToken(ctx context.Context, token string) (model.UserProfile, error)
	CreateSession(ctx context.Context, userID, token string, expiresAt time.Time) error
	DeactivateSession(ctx context.Context, token string) error
}

// ClampLimit ramène la limite demandée dans [1, MaxLeaderboardLimit].
func ClampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > MaxLeaderboardLimit {
		return MaxLeaderboardLimit
	}
	return limit
}
