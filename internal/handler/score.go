package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ChrisB2025/Keystroke-Kingdom/internal/middleware"
	model "github.com/ChrisB2025/Keystroke-Kingdom/internal/models"
	"github.com/ChrisB2025/Keystroke-Kingdom/internal/store"
	"github.com/ChrisB2025/Keystroke-Kingdom/internal/utils"
)

type submitScoreRequest struct {
	Initials   string  `json:"initials"`
	Score      int     `json:"score"`
	FinalDay   int     `json:"final_day"`
	Employment float64 `json:"employment"`
	Inflation  float64 `json:"inflation"`
	Services   float64 `json:"services"`
}

// SubmitScore enregistre un score au classement. L'authentification est
// optionnelle : les soumissions anonymes sont acceptées (user_id NULL).
func (h *Handler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	var req submitScoreRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	initials, err := utils.NormalizeInitials(req.Initials)
	if err != nil {
		utils.ErrorFields(w, http.StatusBadRequest, map[string]string{"initials": err.Error()})
		return
	}

	entry := model.HighScore{
		Initials:   initials,
		Score:      req.Score,
		FinalDay:   req.FinalDay,
		Employment: req.Employment,
		Inflation:  req.Inflation,
		Services:   req.Services,
	}
	if entry.FinalDay == 0 {
		entry.FinalDay = 1
	}
	if user, err := middleware.GetUserFromContext(r); err == nil {
		entry.UserID = &user.ID
		entry.Username = user.Name
	}

	saved, err := h.Store.InsertScore(r.Context(), entry)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not submit score")
		return
	}

	utils.Created(w, saved)
}

// Leaderboard retourne le classement, public et mis en cache.
// Les réponses sont servies depuis le cache pendant LeaderboardTTL ;
// un miss force une requête fraîche puis remplit le cache.
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			limit = l
		}
	}
	limit = store.ClampLimit(limit)

	cacheKey := fmt.Sprintf("leaderboard:%d", limit)
	if cached, ok, err := h.Cache.Get(r.Context(), cacheKey); err == nil && ok {
		utils.Success(w, json.RawMessage(cached))
		return
	}

	scores, err := h.Store.TopScores(r.Context(), limit)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not query leaderboard")
		return
	}
	if scores == nil {
		scores = []model.HighScore{}
	}

	if encoded, err := json.Marshal(scores); err == nil {
		if err := h.Cache.Set(r.Context(), cacheKey, string(encoded), h.LeaderboardTTL); err != nil {
			utils.LogError("leaderboard: cache fill failed: %v", err)
		}
	}

	utils.Success(w, scores)
}
