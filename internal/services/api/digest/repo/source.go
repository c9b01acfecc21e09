package repo

import (
	"context"

	"weeklypedia/internal/modkit/repokit"
	perr "weeklypedia/internal/platform/errors"
	"weeklypedia/internal/platform/store"
)

// Source resolves the Repo for one language edition
type Source interface {
	For(ctx context.Context, lang string) (Repo, error)
}

// SourceFunc adapts a function to Source
type SourceFunc func(ctx context.Context, lang string) (Repo, error)

// For calls the underlying function
func (f SourceFunc) For(ctx context.Context, lang string) (Repo, error) { return f(ctx, lang) }

// Static serves the same Repo for every edition
func Static(r Repo) Source {
	return SourceFunc(func(context.Context, string) (Repo, error) { return r, nil })
}

// FromEditions binds repos to the per edition stores, picking the dialect from the driver
func FromEditions(ed *store.Editions, opts ...Option) Source {
	return SourceFunc(func(ctx context.Context, lang string) (Repo, error) {
		st, err := ed.Get(ctx, lang)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "change log for %s unavailable", lang)
		}
		q, d, err := st.Reader()
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "change log for %s unavailable", lang)
		}
		b, err := ForDriver(d, opts...)
		if err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeDB, "change log dialect")
		}
		return repokit.MustBind(b, q), nil
	})
}
