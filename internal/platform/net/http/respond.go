// Package http holds the JSON envelope, the router seam and the server wrapper
package http

import (
	"encoding/json"
	stdhttp "net/http"

	perr "weeklypedia/internal/platform/errors"
	pnet "weeklypedia/internal/platform/net"
)

// Envelope is the response body of every endpoint
// Data is set on success, Code and Error on failure
type Envelope struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

// JSON writes v as application/json with the given status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Response is what return-style handlers produce
type Response struct {
	Status int
	Body   any
	Header stdhttp.Header
}

// OK returns a 200 response
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// Error returns a response whose status and envelope come from err
func Error(err error) Response { return Response{Body: err} }

// Handle adapts a Response-returning handler to net/http
func Handle(h func(r *stdhttp.Request) Response) Handler {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		h(r).write(w, r)
	}
}

func (resp Response) write(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	for k, vv := range resp.Header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}
	env := Envelope{RequestID: pnet.RequestID(r.Context())}

	if err, ok := resp.Body.(error); ok && err != nil {
		env.StatusCode = perr.HTTPStatus(err)
		wire := perr.WireFrom(err)
		env.Code, env.Error = wire.Code, wire.Message
	} else {
		env.StatusCode = resp.Status
		if env.StatusCode == 0 {
			env.StatusCode = stdhttp.StatusOK
		}
		env.Data = resp.Body
	}
	env.Status = stdhttp.StatusText(env.StatusCode)
	JSON(w, env.StatusCode, env)
}
