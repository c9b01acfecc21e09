package middleware

import (
	"net/http"

	"weeklypedia/internal/platform/logger"
	pnet "weeklypedia/internal/platform/net"
)

// RequestLogger copies the chi request id onto the logger context so
// logger.C(ctx) lines carry request_id. Mount it after RequestID
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := pnet.RequestID(r.Context())
		if rid == "" {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(logger.WithRequest(r.Context(), rid, "")))
	})
}
