package middleware

import (
	"net/http"
	"slices"
	"strings"
)

// CORSMiddleware allows browser calls from the configured origins.
// Sessions travel in a cookie, so credentials are allowed and a "*" entry echoes
// the caller's origin back instead of sending a literal wildcard.
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Vary", "Origin")

			if origin := allowedOrigin(r.Header.Get("Origin"), allowedOrigins); origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
				w.Header().Set("Access-Control-Max-Age", "3600")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// allowedOrigin returns the origin to echo back, or "" when it is not allowed
func allowedOrigin(requestOrigin string, allowedOrigins []string) string {
	if requestOrigin == "" {
		return ""
	}
	if slices.Contains(allowedOrigins, "*") {
		return requestOrigin
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(requestOrigin, strings.TrimRight(allowed, "/")) {
			return requestOrigin
		}
	}
	return ""
}
