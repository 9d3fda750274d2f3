package api

import (
	"net/http"
	"time"

	"github.com/ChrisB2025/Keystroke-Kingdom/internal/handler"
	"github.com/ChrisB2025/Keystroke-Kingdom/internal/middleware"
	"github.com/ChrisB2025/Keystroke-Kingdom/internal/ratelimit"
	"github.com/ChrisB2025/Keystroke-Kingdom/internal/utils"
	"github.com/fatih/color"
	"github.com/gorilla/mux"
)

// Limites par action. Chaque action a sa propre fenêtre : aucun budget
// global n'est partagé entre les actions.
const (
	saveLimit        = 30
	scoreLimit       = 10
	leaderboardLimit = 60
	claudeLimit      = 20

	limitWindow = time.Minute
)

func SetupRouter(h *handler.Handler, limiter *ratelimit.Limiter) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.LoggerMiddleware)

	authenticatedRoutes := r.PathPrefix("/").Subrouter()
	authenticatedRoutes.Use(middleware.AuthMiddleware(h.Store))

	// Root - API documentation
	r.HandleFunc("/", handler.RootHandler).Methods(http.MethodGet)
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	// Auth
	r.HandleFunc("/auth/signup", h.Signup).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
	authenticatedRoutes.HandleFunc("/auth/logout", h.Logout).Methods(http.MethodPost)

	// Game API - chaque action déclare sa limite à côté de sa route
	authenticatedRoutes.Handle("/api/save",
		middleware.RateLimit(limiter, "save", saveLimit, limitWindow)(http.HandlerFunc(h.SaveGame)),
	).Methods(http.MethodPost)

	authenticatedRoutes.HandleFunc("/api/load", h.LoadGame).Methods(http.MethodGet)

	authenticatedRoutes.Handle("/api/claude",
		middleware.RateLimit(limiter, "ai_proxy", claudeLimit, limitWindow)(http.HandlerFunc(h.ClaudeProxy)),
	).Methods(http.MethodPost)

	authenticatedRoutes.HandleFunc("/api/stats", h.UserStats).Methods(http.MethodGet)

	// Scores : auth optionnelle (soumissions anonymes acceptées)
	scoresHandler := middleware.OptionalAuth(h.Store)(
		middleware.RateLimit(limiter, "score_submit", scoreLimit, limitWindow)(http.HandlerFunc(h.SubmitScore)),
	)
	r.Handle("/api/scores", scoresHandler).Methods(http.MethodPost)

	// Leaderboard : public
	r.Handle("/api/leaderboard",
		middleware.RateLimit(limiter, "leaderboard", leaderboardLimit, limitWindow)(http.HandlerFunc(h.Leaderboard)),
	).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.LogError("404 Not Found: %s %s", r.Method, r.URL.Path)
		color.Yellow("[404] %s %s (route non trouvée)", r.Method, r.URL.Path)
		http.Error(w, "Route not found", http.StatusNotFound)
	})

	return r
}
