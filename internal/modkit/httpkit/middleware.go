package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"weeklypedia/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	// per request budget, 0 means 60s
	Timeout time.Duration
	// access log warn threshold, 0 disables
	SlowRequest time.Duration
	CORS        middleware.CORSOptions
}

// CommonStack returns the baseline per scope middleware slice
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	if o.Timeout <= 0 {
		o.Timeout = 60 * time.Second
	}
	return []func(http.Handler) http.Handler{
		// tracing / correlation
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.RequestLogger,

		// safety
		middleware.RecoverJSON,

		// digests are built fresh per request
		middleware.NoCache(),

		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: o.SlowRequest}),

		middleware.CORS(o.CORS),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
		middleware.Timeout(o.Timeout),
	}
}
