package model

import (
	"encoding/json"
	"time"
)

// GameSave est la sauvegarde d'un joueur. Une seule ligne par utilisateur :
// chaque sauvegarde écrase la précédente (upsert sur user_id).
type GameSave struct {
	ID            string          `json:"id"`
	UserID        string          `json:"-"`
	GameState     json.RawMessage `json:"game_state"`
	Day           int             `json:"day"`
	Employment    float64         `json:"employment"`
	Inflation     float64         `json:"inflation"`
	ServicesScore float64         `json:"services_score"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// HighScore est une entrée du classement. Append-only, jamais modifiée.
// UserID est nil pour les soumissions anonymes.
type HighScore struct {
	ID         string    `json:"id"`
	UserID     *string   `json:"-"`
	Username   string    `json:"username"`
	Initials   string    `json:"initials"`
	Score      int       `json:"score"`
	FinalDay   int       `json:"final_day"`
	Employment float64   `json:"employment"`
	Inflation  float64   `json:"inflation"`
	Services   float64   `json:"services"`
	AchievedAt time.Time `json:"achieved_at"`
}

// UserStats regroupe les statistiques retournées par GET /api/stats.
type UserStats struct {
	Username    string     `json:"username"`
	TotalSaves  int        `json:"total_saves"`
	TotalScores int        `json:"total_scores"`
	BestScore   *HighScore `json:"best_score"`
}
