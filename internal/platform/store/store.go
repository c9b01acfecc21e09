// Package store provides a unified read interface over the change log backends
package store

import (
	"context"
	"errors"
	"fmt"

	"weeklypedia/internal/platform/logger"
)

// Store is the facade for one change log replica
// exactly one seam is set after Open, zero value is safe but does nothing
type Store struct {
	// Log is the logger used by subclients
	// zero means a no op zerolog logger
	Log logger.Logger

	// PG is the postgres seam, nil when another driver is used
	PG Querier

	// CH is the clickhouse seam, nil when another driver is used
	CH Clickhouse

	// Lite is the sqlite seam, nil when another driver is used
	Lite Querier
}

// Row exposes the minimal scan contract a single row needs
type Row interface {
	Scan(dest ...any) error
}

// Rows exposes the minimal iteration and scan for a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// Querier is the read surface repos use
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
}

// Clickhouse is a tiny seam for columnar reads
type Clickhouse interface {
	Querier
	Close() error
}

// Pinger is any seam that can report readiness
type Pinger interface{ Ping(context.Context) error }

// Open constructs a Store for the configured driver and pings it
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}

	// defaults for zero logger to avoid nil checks
	s.Log = s.Log.With().Logger()

	switch cfg.Driver {
	case DriverPostgres:
		a, err := openPG(ctx, cfg, s)
		if err != nil {
			return nil, err
		}
		s.PG = a
	case DriverClickHouse:
		a, err := openCH(ctx, cfg, s)
		if err != nil {
			return nil, err
		}
		s.CH = a
	case DriverSQLite:
		a, err := openLite(ctx, cfg, s)
		if err != nil {
			return nil, err
		}
		s.Lite = a
	default:
		return nil, fmt.Errorf("store: unknown driver %q", cfg.Driver)
	}

	return s, nil
}

// Reader returns the active seam and its driver
func (s *Store) Reader() (Querier, Driver, error) {
	switch {
	case s == nil:
		return nil, "", errors.New("nil store")
	case s.PG != nil:
		return s.PG, DriverPostgres, nil
	case s.CH != nil:
		return s.CH, DriverClickHouse, nil
	case s.Lite != nil:
		return s.Lite, DriverSQLite, nil
	}
	return nil, "", errors.New("store: no backend open")
}

// Guard verifies the configured seam answers
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("nil store")
	}
	var errs []error
	check := func(name string, q any) {
		if p, ok := q.(Pinger); ok {
			if err := p.Ping(ctx); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
			}
		}
	}
	if s.PG != nil {
		check("pg", s.PG)
	}
	if s.CH != nil {
		check("ch", s.CH)
	}
	if s.Lite != nil {
		check("sqlite", s.Lite)
	}
	return errors.Join(errs...)
}

// Close closes all initialized backends gracefully
// nil backends are ignored
func (s *Store) Close(_ context.Context) error {
	if s == nil {
		return nil
	}
	var errs []error

	if s.CH != nil {
		if e := s.CH.Close(); e != nil {
			errs = append(errs, e)
		}
	}

	for _, q := range []Querier{s.PG, s.Lite} {
		if c, ok := q.(interface{ Close() error }); ok {
			if e := c.Close(); e != nil {
				errs = append(errs, e)
			}
		}
	}

	return errors.Join(errs...)
}
