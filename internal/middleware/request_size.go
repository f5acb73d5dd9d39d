package middleware

import (
	"net/http"
)

// RequestSizeLimitMiddleware caps the body of requests that carry one (POST, PUT, PATCH).
// A declared length above maxBytes is rejected up front, streamed bodies are cut at maxBytes.
func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch:
			default:
				next.ServeHTTP(w, r)
				return
			}

			if r.ContentLength > maxBytes {
				writeJSONError(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
