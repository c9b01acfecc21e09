// Package httpkit is the HTTP surface modules register against
// modules use it instead of importing internal/platform/net/http directly
package httpkit

import (
	"net/http"

	phttp "weeklypedia/internal/platform/net/http"
)

type (
	// Router is a re-export of the platform router seam
	Router = phttp.Router

	// Handler is the platform handler type
	Handler = phttp.Handler
)

// Get mounts a body-less handler whose result is wrapped in the envelope
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, phttp.NoBodyHandler(h))
}

// PostJSON mounts a handler taking a decoded and validated T body
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, phttp.JSONHandler(h))
}

// URLParam returns a named path parameter
func URLParam(r *http.Request, name string) string { return phttp.URLParam(r, name) }
