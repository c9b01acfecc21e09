// Package http provides http transport for digests
package http

import (
	stdhttp "net/http"

	"weeklypedia/internal/modkit/httpkit"
	perr "weeklypedia/internal/platform/errors"
	"weeklypedia/internal/platform/logger"
	pnet "weeklypedia/internal/platform/net"
	"weeklypedia/internal/platform/net/http/bind"
	"weeklypedia/internal/services/api/digest/domain"
)

// Register mounts digest endpoints on the given router
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}

	// default edition
	httpkit.Get(r, "/", h.get)

	// one edition, ?days=N&extracts=bool
	httpkit.Get(r, "/{lang}", h.get)

	// same inputs as a JSON body
	httpkit.PostJSON[domain.DigestInput](r, "/", h.post)
}

type handlers struct{ svc domain.ServicePort }

func (h *handlers) get(r *stdhttp.Request) (any, error) {
	in, err := inputFromQuery(r)
	if err != nil {
		return nil, err
	}
	return h.build(r, in)
}

func (h *handlers) post(r *stdhttp.Request, in domain.DigestInput) (any, error) {
	return h.build(r, in)
}

func (h *handlers) build(r *stdhttp.Request, in domain.DigestInput) (any, error) {
	ctx := r.Context()
	ctx = pnet.WithRequest(ctx, "", in.Lang)
	ctx = logger.WithRequest(ctx, pnet.RequestID(ctx), in.Lang)
	return h.svc.Build(ctx, in)
}

func inputFromQuery(r *stdhttp.Request) (domain.DigestInput, error) {
	in := domain.DigestInput{Lang: httpkit.URLParam(r, "lang")}

	days, ok, err := bind.QueryInt(r, "days")
	if err != nil {
		return in, err
	}
	if ok && days <= 0 {
		return in, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "days must be at least 1"), "days")
	}
	in.Days = days

	if in.Extracts, err = bind.QueryBool(r, "extracts"); err != nil {
		return in, err
	}
	return in, nil
}
