package middleware

import (
	"net/http"
	"time"

	"github.com/ChrisB2025/Keystroke-Kingdom/internal/utils"
)

// statusRecorder capture le status code écrit par le handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// LoggerMiddleware log chaque requête HTTP avec son status et sa durée
func LoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		utils.LogRequest(r.Method, r.URL.Path, utils.ClientIP(r))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		utils.LogInfo("%s %s - Status: %d - Duration: %v", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
