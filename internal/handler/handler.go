package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/ChrisB2025/Keystroke-Kingdom/internal/cache"
	"github.com/ChrisB2025/Keystroke-Kingdom/internal/services"
	"github.com/ChrisB2025/Keystroke-Kingdom/internal/store"
	"github.com/ChrisB2025/Keystroke-Kingdom/internal/utils"
)

// ClaudeClient est le collaborateur IA vu des handlers ; l'implémentation
// réelle est services.ClaudeService.
type ClaudeClient interface {
	SendMessages(ctx context.Context, messages []services.ChatMessage) (*services.ChatReply, error)
}

// Handler regroupe les dépendances injectées des handlers de l'API.
// Aucun état n'est conservé entre deux requêtes : tout l'état partagé
// vit dans le store ou le cache.
type Handler struct {
	Store  store.GameStore
	Cache  cache.Cache
	Claude ClaudeClient // nil si la clé d'API n'est pas configurée

	// LeaderboardTTL est la durée de vie du cache du leaderboard.
	LeaderboardTTL time.Duration
}

func New(gs store.GameStore, c cache.Cache, claude ClaudeClient) *Handler {
	return &Handler{
		Store:          gs,
		Cache:          c,
		Claude:         claude,
		LeaderboardTTL: 30 * time.Second,
	}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	utils.Message(w, "ok")
}
