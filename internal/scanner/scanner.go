package scanner

import (
	model "github.com/ChrisB2025/Keystroke-Kingdom/internal/models"
)

// Row est satisfait par pgx.Row et pgx.Rows.
type Row interface {
	Scan(dest ...interface{}) error
}

// ScanHighScore scanne une ligne SQL vers un HighScore.
// Ordre des colonnes attendu : id, user_id, username, initials, score,
// final_day, employment, inflation, services, achieved_at.
func ScanHighScore(row Row) (*model.HighScore, error) {
	var entry model.HighScore

	err := row.Scan(
		&entry.ID, &entry.UserID, &entry.Username, &entry.Initials,
		&entry.Score, &entry.FinalDay, &entry.Employment, &entry.Inflation,
		&entry.Services, &entry.AchievedAt,
	)
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// ScanGameSave scanne une ligne SQL vers un GameSave.
// Ordre des colonnes attendu : id, user_id, game_state, day, employment,
// inflation, services_score, created_at, updated_at.
func ScanGameSave(row Row) (*model.GameSave, error) {
	var save model.GameSave

	err := row.Scan(
		&save.ID, &save.UserID, &save.GameState, &save.Day,
		&save.Employment, &save.Inflation, &save.ServicesScore,
		&save.CreatedAt, &save.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &save, nil
}
