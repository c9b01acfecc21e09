package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"weeklypedia/internal/platform/logger"

	"golang.org/x/sync/singleflight"
)

// ErrClosed is returned by Editions after Close
var ErrClosed = errors.New("store: editions closed")

// Editions keeps one Store per language edition, opened on first use
// a URL without {lang} is opened once and shared by every edition
type Editions struct {
	cfg  Config
	opts []Option
	log  logger.Logger

	// open is the Store constructor, swapped in tests
	open func(ctx context.Context, cfg Config, opts ...Option) (*Store, error)

	inflight singleflight.Group

	mu     sync.Mutex
	byKey  map[string]*Store
	closed bool
}

// NewEditions builds a lazy registry, nothing is dialed until Get
func NewEditions(cfg Config, log logger.Logger, opts ...Option) *Editions {
	return &Editions{
		cfg:   cfg,
		opts:  append([]Option{WithLogger(log)}, opts...),
		log:   log,
		open:  Open,
		byKey: map[string]*Store{},
	}
}

// Single wraps an already open Store for every edition, used by tests and one shot tools
func Single(s *Store) *Editions {
	e := &Editions{byKey: map[string]*Store{"": s}}
	e.open = func(context.Context, Config, ...Option) (*Store, error) { return s, nil }
	return e
}

// Driver reports the configured driver
func (e *Editions) Driver() Driver { return e.cfg.Driver }

func (e *Editions) key(lang string) string {
	if e.cfg.PerEdition() {
		return lang
	}
	return ""
}

// Get returns the Store for lang, opening it on first use
// the registry lock only guards the map: concurrent first calls for one edition share a
// single open while other editions keep being served, and every caller stops waiting
// when its ctx ends. A failed open is not cached so the next call retries
func (e *Editions) Get(ctx context.Context, lang string) (*Store, error) {
	if lang == "" {
		return nil, errors.New("store: empty edition")
	}
	k := e.key(lang)
	if s, err := e.lookup(k); s != nil || err != nil {
		return s, err
	}

	// the open outlives any single caller, a caller leaving must not fail the others
	octx := context.WithoutCancel(ctx)
	ch := e.inflight.DoChan(k, func() (any, error) {
		if s, err := e.lookup(k); s != nil || err != nil {
			return s, err
		}
		s, err := e.open(octx, e.cfg.ForLang(lang), e.opts...)
		if err != nil {
			return nil, fmt.Errorf("open %s edition: %w", lang, err)
		}

		e.mu.Lock()
		defer e.mu.Unlock()
		if e.closed {
			_ = s.Close(octx)
			return nil, ErrClosed
		}
		e.byKey[k] = s
		e.log.Info().Str("lang", lang).Str("driver", string(e.cfg.Driver)).Msg("edition store opened")
		return s, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*Store), nil
	}
}

func (e *Editions) lookup(k string) (*Store, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrClosed
	}
	return e.byKey[k], nil
}

// Open lists the editions with a live store, sorted
func (e *Editions) Open() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.byKey))
	for k := range e.byKey {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Guard pings every open edition
func (e *Editions) Guard(ctx context.Context) error {
	e.mu.Lock()
	stores := make(map[string]*Store, len(e.byKey))
	for k, s := range e.byKey {
		stores[k] = s
	}
	e.mu.Unlock()

	var errs []error
	for k, s := range stores {
		if err := s.Guard(ctx); err != nil {
			errs = append(errs, fmt.Errorf("edition %q: %w", k, err))
		}
	}
	return errors.Join(errs...)
}

// Close closes every open store, later Get calls fail with ErrClosed
func (e *Editions) Close(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true

	var errs []error
	for k, s := range e.byKey {
		if err := s.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("edition %q: %w", k, err))
		}
		delete(e.byKey, k)
	}
	return errors.Join(errs...)
}
