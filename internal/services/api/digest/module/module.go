// Package module wires digests into the API using modkit
package module

import (
	"net/http"

	"weeklypedia/internal/adapters/extracts"
	modkit "weeklypedia/internal/modkit"
	"weeklypedia/internal/modkit/httpkit"
	digesthttp "weeklypedia/internal/services/api/digest/http"
	digestrepo "weeklypedia/internal/services/api/digest/repo"
	digestsvc "weeklypedia/internal/services/api/digest/service"
)

// Module implements the digest module
type Module struct {
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler
	ports  Ports
	svc    digestsvc.Service
}

// New constructs the digest module over the per edition change log stores
func New(deps modkit.Deps, o Options, opts ...modkit.Option) *Module {
	if deps.Editions == nil {
		panic("digest module requires change log editions")
	}
	b := modkit.Build(append([]modkit.Option{modkit.WithName("digest"), modkit.WithPrefix("/digest")}, opts...)...)

	editor, err := digestrepo.ParseEditor(o.EditorColumn)
	if err != nil {
		panic(err)
	}
	src := digestrepo.FromEditions(deps.Editions, digestrepo.WithEditor(editor))

	var svcOpts []digestsvc.Option
	if enr := newEnricher(o); enr != nil {
		svcOpts = append(svcOpts, digestsvc.WithEnricher(enr))
	}
	svc := digestsvc.New(src, o.Service, svcOpts...)

	deps.Log.Info().
		Str("module", b.Name).
		Str("driver", string(deps.Editions.Driver())).
		Str("editor_column", string(editor)).
		Bool("extracts", o.Service.ExtractsEnabled).
		Msg("module ready")

	return &Module{
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		svc:    svc,
		ports:  Ports{Digest: svc},
	}
}

// newEnricher builds the extract client when a contact is configured
// enabling extracts without a contact is a startup error
func newEnricher(o Options) *enricher {
	if o.Extracts.Contact == "" {
		if o.Service.ExtractsEnabled {
			panic("CORE_EXTRACTS_CONTACT is required when extracts are enabled")
		}
		return nil
	}
	c, err := extracts.NewClient(o.Extracts)
	if err != nil {
		panic(err)
	}
	return &enricher{c: c}
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		if len(m.mws) > 0 {
			rr.Use(m.mws...)
		}
		digesthttp.Register(rr, m.svc)
	})
}

// Name returns the module name
func (m *Module) Name() string { return m.name }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return m.prefix }
