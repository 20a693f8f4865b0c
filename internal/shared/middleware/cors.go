package middleware

import (
	"net/http"
	"strings"
)

// CORS applies Cross-Origin Resource Sharing headers and preflight handling.
// With an empty allowedOrigins list any origin is allowed; otherwise the
// request Origin must be on the list to be echoed back.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := "*"
			if len(allowedOrigins) > 0 {
				origin = ""
				if o := r.Header.Get("Origin"); o != "" && originAllowed(o, allowedOrigins) {
					origin = o
				}
			}
			if origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "3600")

			// Handle preflight requests
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(origin string, allowed []string) bool {
	for _, a := range allowed {
		a = strings.TrimSpace(a)
		if a == "*" || strings.EqualFold(a, origin) {
			return true
		}
		// Entries without a scheme match the origin's host part.
		if !strings.Contains(a, "://") {
			if trimmed, found := strings.CutPrefix(origin, "https://"); found && strings.EqualFold(trimmed, a) {
				return true
			}
			if trimmed, found := strings.CutPrefix(origin, "http://"); found && strings.EqualFold(trimmed, a) {
				return true
			}
		}
	}
	return false
}
