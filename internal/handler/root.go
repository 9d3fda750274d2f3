package handler

import (
	"net/http"

	"github.com/ChrisB2025/Keystroke-Kingdom/internal/utils"
)

// RootHandler affiche toutes les routes disponibles de l'API.
// L'interface du jeu elle-même est servie statiquement ailleurs.
func RootHandler(w http.ResponseWriter, r *http.Request) {
	routes := map[string]interface{}{
		"name":    "Keystroke Kingdom API",
		"version": "1.0.0",
		"status":  "running",
		"routes": map[string]interface{}{
			"auth": []map[string]string{
				{"method": "POST", "path": "/auth/signup", "description": "Inscription utilisateur"},
				{"method": "POST", "path": "/auth/login", "description": "Connexion utilisateur"},
				{"method": "POST", "path": "/auth/logout", "description": "Déconnexion utilisateur"},
			},
			"game": []map[string]string{
				{"method": "POST", "path": "/api/save", "description": "Sauvegarder l'état du jeu"},
				{"method": "GET", "path": "/api/load", "description": "Charger la dernière sauvegarde"},
				{"method": "POST", "path": "/api/scores", "description": "Soumettre un score (anonyme autorisé)"},
				{"method": "GET", "path": "/api/leaderboard", "description": "Classement (public, limit<=100)"},
				{"method": "POST", "path": "/api/claude", "description": "Proxy vers l'API Claude"},
				{"method": "GET", "path": "/api/stats", "description": "Statistiques de l'utilisateur"},
			},
			"misc": []map[string]string{
				{"method": "GET", "path": "/health", "description": "Health check"},
			},
		},
	}

	utils.Success(w, routes)
}
