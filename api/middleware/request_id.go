package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/classwish/classwish-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID assigns each request an id, honoring one supplied by the caller,
// and echoes it in the response header so clients can correlate log lines.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
