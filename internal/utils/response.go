package utils

import (
	"encoding/json"
	"net/http"
)

// APIResponse est l'enveloppe uniforme de toutes les réponses de l'API :
// {success: true, data} ou {success: false, error} (ou errors pour les
// erreurs de validation champ par champ).
type APIResponse struct {
	Success bool              `json:"success"`
	Data    interface{}       `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	Message string            `json:"message,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func Success(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, APIResponse{Success: true, Data: data})
}

// Created répond 201, utilisé pour la soumission de scores
func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, APIResponse{Success: true, Data: data})
}

func Error(w http.ResponseWriter, status int, err string) {
	LogError("[%d] %s", status, err)
	JSON(w, status, APIResponse{Success: false, Error: err})
}

// ErrorFields répond avec des erreurs de validation champ par champ
func ErrorFields(w http.ResponseWriter, status int, fields map[string]string) {
	JSON(w, status, APIResponse{Success: false, Errors: fields})
}

// NotFoundMessage : l'absence d'une ressource attendue (pas encore de
// sauvegarde) est un résultat normal, signalé par message et non error.
func NotFoundMessage(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusNotFound, APIResponse{Success: false, Message: msg})
}

func Message(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusOK, APIResponse{Success: true, Message: msg})
}
