package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ChrisB2025/Keystroke-Kingdom/internal/middleware"
	"github.com/ChrisB2025/Keystroke-Kingdom/internal/store"
	"github.com/ChrisB2025/Keystroke-Kingdom/internal/utils"
	"github.com/ChrisB2025/Keystroke-Kingdom/internal/validator"
)

type saveGameRequest struct {
	GameState     json.RawMessage `json:"game_state"`
	Day           int             `json:"day"`
	Employment    float64         `json:"employment"`
	Inflation     float64         `json:"inflation"`
	ServicesScore float64         `json:"services_score"`
}

// SaveGame persiste l'état de jeu de l'utilisateur authentifié.
// Une seule sauvegarde par utilisateur : chaque appel écrase la précédente.
func (h *Handler) SaveGame(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req saveGameRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	// l'état doit être un objet JSON, pas une liste ni un scalaire
	var state map[string]interface{}
	if err := json.Unmarshal(req.GameState, &state); err != nil || state == nil {
		utils.Error(w, http.StatusBadRequest, "game_state must be a JSON object")
		return
	}

	if err := validator.ValidateGameState(state); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Day == 0 {
		req.Day = 1
	}

	save, err := h.Store.UpsertSave(r.Context(), user.ID, req.GameState, req.Day, req.Employment, req.Inflation, req.ServicesScore)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not save game")
		return
	}

	utils.Success(w, save)
}

// LoadGame retourne la sauvegarde de l'utilisateur authentifié.
// Pas de sauvegarde : 404 avec message, c'est un état vide attendu.
func (h *Handler) LoadGame(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	save, err := h.Store.GetSave(r.Context(), user.ID)
	if errors.Is(err, store.ErrNotFound) {
		utils.NotFoundMessage(w, "No saved game found")
		return
	}
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not load game")
		return
	}

	utils.Success(w, save)
}
