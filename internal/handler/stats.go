package handler

import (
	"errors"
	"net/http"

	"github.com/ChrisB2025/Keystroke-Kingdom/internal/middleware"
	model "github.com/ChrisB2025/Keystroke-Kingdom/internal/models"
	"github.com/ChrisB2025/Keystroke-Kingdom/internal/store"
	"github.com/ChrisB2025/Keystroke-Kingdom/internal/utils"
)

// UserStats retourne les statistiques de l'utilisateur authentifié :
// nombre de sauvegardes, nombre de scores soumis et meilleur score.
func (h *Handler) UserStats(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	totalSaves, err := h.Store.CountSaves(r.Context(), user.ID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not count saves")
		return
	}

	totalScores, err := h.Store.CountScores(r.Context(), user.ID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not count scores")
		return
	}

	stats := model.UserStats{
		Username:    user.Name,
		TotalSaves:  totalSaves,
		TotalScores: totalScores,
	}

	best, err := h.Store.UserBestScore(r.Context(), user.ID)
	switch {
	case err == nil:
		stats.BestScore = &best
	case errors.Is(err, store.ErrNotFound):
		// aucun score : best_score reste null
	default:
		utils.Error(w, http.StatusInternalServerError, "could not query best score")
		return
	}

	utils.Success(w, stats)
}
