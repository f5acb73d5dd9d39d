package middleware

import (
	"net/http"

	"go.uber.org/zap"
)

// RecoveryMiddleware turns a handler panic into a 500 response and an error log with the stack.
// http.ErrAbortHandler is re-raised so the server can drop the connection.
func RecoveryMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				fields := []zap.Field{
					zap.String("request_id", GetRequestID(r.Context())),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Any("panic", rec),
					zap.Stack("stack"),
				}
				if info := getRequestInfo(r.Context()); info != nil && info.userID != 0 {
					fields = append(fields, zap.Int("user_id", info.userID))
				}
				logger.Error("panic recovered", fields...)

				writeJSONError(w, http.StatusInternalServerError, "internal server error")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
