// Package repo aggregates the recentchanges log for digests
package repo

import (
	"context"
	"errors"
	"fmt"

	"weeklypedia/internal/core/window"
	"weeklypedia/internal/modkit/repokit"
	perr "weeklypedia/internal/platform/errors"
	"weeklypedia/internal/platform/store"
)

// Repo is the minimal read surface for digests
// cutoff is exclusive, only rows strictly newer count
type Repo interface {
	Summary(ctx context.Context, ns int, cutoff string) (Stats, error)
	TopByActivity(ctx context.Context, ns int, cutoff string, limit int) ([]PageActivity, error)
}

// Stats holds window totals for one namespace
type Stats struct {
	Edits  int64
	Titles int64
	Users  int64
}

// PageActivity holds one grouped title, Title is in store form
type PageActivity struct {
	Title string
	Edits int64
	Users int64
}

// Editor is the column that identifies who made a change
type Editor string

// Supported editor columns
const (
	EditorUser  Editor = "rc_user"
	EditorActor Editor = "rc_actor"
)

// ParseEditor accepts only the known editor columns
func ParseEditor(s string) (Editor, error) {
	switch Editor(s) {
	case EditorUser, EditorActor:
		return Editor(s), nil
	case "":
		return EditorUser, nil
	}
	return "", perr.WithField(perr.InvalidArgf("unsupported editor column %q", s), "editor_column")
}

// Option tweaks a dialect at bind time
type Option func(*dialect)

// WithEditor picks the editor column, unknown values keep the default
func WithEditor(e Editor) Option {
	return func(d *dialect) {
		if _, err := ParseEditor(string(e)); err == nil && e != "" {
			d.editor = e
		}
	}
}

type (
	// binder builds queries for one dialect
	binder struct{ d dialect }
	// queries implements the Repo interface
	queries struct {
		q       repokit.Queryer
		summary string
		top     string
	}
)

func newBinder(base dialect, opts ...Option) repokit.Binder[Repo] {
	d := base
	d.editor = EditorUser
	for _, o := range opts {
		o(&d)
	}
	return binder{d: d}
}

// NewPG returns a binder for a postgres replica
func NewPG(opts ...Option) repokit.Binder[Repo] { return newBinder(postgresDialect, opts...) }

// NewLite returns a binder for a sqlite snapshot
func NewLite(opts ...Option) repokit.Binder[Repo] { return newBinder(sqliteDialect, opts...) }

// NewCH returns a binder for a clickhouse copy
func NewCH(opts ...Option) repokit.Binder[Repo] { return newBinder(clickhouseDialect, opts...) }

// ForDriver picks the binder matching a store driver
func ForDriver(d store.Driver, opts ...Option) (repokit.Binder[Repo], error) {
	switch d {
	case store.DriverPostgres:
		return NewPG(opts...), nil
	case store.DriverSQLite:
		return NewLite(opts...), nil
	case store.DriverClickHouse:
		return NewCH(opts...), nil
	}
	return nil, fmt.Errorf("repo: no dialect for driver %q", d)
}

// Bind wires a Queryer to the repo
func (b binder) Bind(q repokit.Queryer) Repo {
	return &queries{
		q:       q,
		summary: b.d.summarySQL(),
		top:     b.d.topSQL(),
	}
}

func checkCutoff(cutoff string) error {
	if _, err := window.Parse(cutoff); err != nil {
		return perr.WithField(err, "cutoff")
	}
	return nil
}

func (r *queries) Summary(ctx context.Context, ns int, cutoff string) (Stats, error) {
	if err := checkCutoff(cutoff); err != nil {
		return Stats{}, err
	}
	st, err := store.One(ctx, r.q, func(row store.Row) (Stats, error) {
		var s Stats
		err := row.Scan(&s.Edits, &s.Titles, &s.Users)
		return s, err
	}, r.summary, ns, cutoff)
	if errors.Is(err, perr.ErrNotFound) {
		// aggregates always yield a row, but an empty result still means zero activity
		return Stats{}, nil
	}
	if err != nil {
		return Stats{}, perr.FromDataSource(err, "change log summary")
	}
	return st, nil
}

func (r *queries) TopByActivity(ctx context.Context, ns int, cutoff string, limit int) ([]PageActivity, error) {
	if limit <= 0 {
		return nil, perr.WithField(perr.InvalidArgf("limit must be positive, got %d", limit), "limit")
	}
	if err := checkCutoff(cutoff); err != nil {
		return nil, err
	}
	out, err := store.Many(ctx, r.q, func(row store.Row) (PageActivity, error) {
		var p PageActivity
		err := row.Scan(&p.Title, &p.Edits, &p.Users)
		return p, err
	}, r.top, ns, cutoff, limit)
	if err != nil {
		return nil, perr.FromDataSource(err, "change log top titles")
	}
	return out, nil
}
