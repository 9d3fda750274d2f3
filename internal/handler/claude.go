package handler

import (
	"net/http"

	"github.com/ChrisB2025/Keystroke-Kingdom/internal/middleware"
	"github.com/ChrisB2025/Keystroke-Kingdom/internal/services"
	"github.com/ChrisB2025/Keystroke-Kingdom/internal/utils"
)

type claudeProxyRequest struct {
	Messages []services.ChatMessage `json:"messages"`
}

// ClaudeProxy relaie une conversation vers l'API Claude. Authentification
// requise pour éviter l'abus : la clé d'API reste côté serveur.
func (h *Handler) ClaudeProxy(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.GetUserFromContext(r); err != nil {
		utils.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if h.Claude == nil {
		utils.Error(w, http.StatusServiceUnavailable, "Claude API key not configured")
		return
	}

	var req claudeProxyRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if len(req.Messages) == 0 {
		utils.Error(w, http.StatusBadRequest, "No messages provided")
		return
	}
	for _, msg := range req.Messages {
		if msg.Role == "" || msg.Content == "" {
			utils.Error(w, http.StatusBadRequest, "each message must have a role and content")
			return
		}
	}

	reply, err := h.Claude.SendMessages(r.Context(), req.Messages)
	if err != nil {
		utils.Error(w, http.StatusServiceUnavailable, "Claude API error")
		return
	}

	utils.Success(w, reply)
}
