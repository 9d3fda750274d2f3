package middleware

import (
	"net/http"
	"time"

	"github.com/ChrisB2025/Keystroke-Kingdom/internal/ratelimit"
	"github.com/ChrisB2025/Keystroke-Kingdom/internal/utils"
)

// RateLimit limite une route à max requêtes par fenêtre pour l'action
// donnée. Chaque action a sa propre fenêtre et sa propre configuration,
// déclarées là où la route est câblée.
//
// Identité : l'utilisateur authentifié quand il y en a un, sinon l'IP
// cliente (voir utils.ClientIP).
func RateLimit(limiter *ratelimit.Limiter, action string, max int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := utils.ClientIP(r)
			if user, err := GetUserFromContext(r); err == nil {
				identity = user.ID
			}

			allowed, err := limiter.Allow(r.Context(), action, identity, max, window)
			if err != nil {
				// fail open : le limiteur est consultatif, une panne du
				// cache ne doit pas couper le service
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				utils.Error(w, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
