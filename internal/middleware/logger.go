package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// requestInfo collects what inner middleware learns about a request for the access log
type requestInfo struct {
	userID int
}

func getRequestInfo(ctx context.Context) *requestInfo {
	info, _ := ctx.Value(requestInfoKey).(*requestInfo)
	return info
}

// statusRecorder captures the status code and body size written by the handler
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}

// LoggerMiddleware writes one access log entry per request.
// 5xx responses are logged at error level, 4xx at warn and health checks at debug.
// The user id is included once an auth middleware further down has identified the caller.
func LoggerMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			info := &requestInfo{}
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), requestInfoKey, info)))

			fields := []zap.Field{
				zap.String("request_id", GetRequestID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.Int("status", rec.status),
				zap.Int("bytes", rec.bytes),
				zap.Duration("duration", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
			}
			if info.userID != 0 {
				fields = append(fields, zap.Int("user_id", info.userID))
			}

			switch {
			case rec.status >= http.StatusInternalServerError:
				logger.Error("request failed", fields...)
			case rec.status >= http.StatusBadRequest:
				logger.Warn("request rejected", fields...)
			case strings.HasSuffix(r.URL.Path, "/health"):
				logger.Debug("request served", fields...)
			default:
				logger.Info("request served", fields...)
			}
		})
	}
}
