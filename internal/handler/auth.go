package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/ChrisB2025/Keystroke-Kingdom/internal/store"
	"github.com/ChrisB2025/Keystroke-Kingdom/internal/utils"
	"github.com/google/uuid"

	"golang.org/x/crypto/bcrypt"
)

const sessionLifetime = 24 * time.Hour

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, hash, err := h.Store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		utils.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	// Génération token UUID
	token := uuid.NewString()
	if err := h.Store.CreateSession(r.Context(), user.ID, token, time.Now().Add(sessionLifetime)); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not create session")
		return
	}

	utils.Success(w, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token, err := utils.GetToken(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "missing token")
		return
	}

	if err := h.Store.DeactivateSession(r.Context(), token); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.Error(w, http.StatusNotFound, "session not found or already logged out")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "could not logout")
		return
	}

	utils.Success(w, map[string]bool{"logged_out": true})
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if payload.Name == "" || payload.Email == "" || payload.Password == "" {
		utils.ErrorFields(w, http.StatusBadRequest, map[string]string{
			"name": "name, email and password are required",
		})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not hash password")
		return
	}

	user, err := h.Store.CreateUser(r.Context(), payload.Name, payload.Email, string(hashed))
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not create user")
		return
	}

	// Créer un token pour l'auto-login après inscription
	token := uuid.NewString()
	if err := h.Store.CreateSession(r.Context(), user.ID, token, time.Now().Add(sessionLifetime)); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not create session")
		return
	}

	utils.Success(w, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}
