// Package service assembles weekly digests from the change log
package service

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"weeklypedia/internal/core/titles"
	"weeklypedia/internal/core/window"
	perr "weeklypedia/internal/platform/errors"
	"weeklypedia/internal/platform/logger"
	"weeklypedia/internal/platform/net/http/bind"
	"weeklypedia/internal/services/api/digest/domain"
	"weeklypedia/internal/services/api/digest/repo"
)

// Service defines the digest service contract
type Service interface {
	domain.ServicePort
}

// Config holds the digest shape and budgets
type Config struct {
	DefaultLang string
	DefaultDays int

	// ContentNS feeds the stats, ArticlesNS and TalkNS feed the two rankings
	ContentNS  int
	ArticlesNS int
	TalkNS     int

	MainLimit int
	TalkLimit int

	ExtractsEnabled bool
	ExtractLimit    int
	ExtractTimeout  time.Duration

	// QueryTimeout bounds the three aggregation queries together, 0 disables
	QueryTimeout time.Duration

	// Langs restricts the editions served, empty serves any valid code
	Langs []string
}

// DefaultConfig mirrors the historic weeklypedia report
// both rankings read namespace 1 while stats read namespace 0
func DefaultConfig() Config {
	return Config{
		DefaultLang:    "en",
		DefaultDays:    7,
		ContentNS:      0,
		ArticlesNS:     1,
		TalkNS:         1,
		MainLimit:      20,
		TalkLimit:      5,
		ExtractLimit:   3,
		ExtractTimeout: 10 * time.Second,
		QueryTimeout:   30 * time.Second,
	}
}

// Option customizes a Svc
type Option func(*Svc)

// WithEnricher wires the extract stage, it only runs when enabled
func WithEnricher(e domain.Enricher) Option { return func(s *Svc) { s.enricher = e } }

// WithClock replaces time.Now, used by tests
func WithClock(now func() time.Time) Option { return func(s *Svc) { s.now = now } }

// Svc implements the digest service
type Svc struct {
	cfg      Config
	src      repo.Source
	enricher domain.Enricher
	now      func() time.Time
}

// New constructs a digest service
func New(src repo.Source, cfg Config, opts ...Option) *Svc {
	if src == nil {
		panic("digest.Service requires a non nil repo Source")
	}
	def := DefaultConfig()
	if cfg.DefaultLang == "" {
		cfg.DefaultLang = def.DefaultLang
	}
	if cfg.DefaultDays <= 0 {
		cfg.DefaultDays = def.DefaultDays
	}
	if cfg.MainLimit <= 0 {
		cfg.MainLimit = def.MainLimit
	}
	if cfg.TalkLimit <= 0 {
		cfg.TalkLimit = def.TalkLimit
	}
	if cfg.ExtractTimeout <= 0 {
		cfg.ExtractTimeout = def.ExtractTimeout
	}
	s := &Svc{cfg: cfg, src: src, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Config returns the effective configuration
func (s *Svc) Config() Config { return s.cfg }

// Build computes the digest for one edition and window
// any failed aggregation fails the build, enrichment never does
func (s *Svc) Build(ctx context.Context, in domain.DigestInput) (domain.Digest, error) {
	start := time.Now()

	in = s.withDefaults(in)
	if err := bind.Validate(in); err != nil {
		return domain.Digest{}, err
	}
	if !s.serves(in.Lang) {
		return domain.Digest{}, perr.WithField(perr.InvalidArgf("edition %q is not served", in.Lang), "lang")
	}

	w, err := window.New(s.now(), in.Days)
	if err != nil {
		return domain.Digest{}, err
	}

	r, err := s.src.For(ctx, in.Lang)
	if err != nil {
		return domain.Digest{}, err
	}

	qctx := ctx
	if s.cfg.QueryTimeout > 0 {
		var cancel context.CancelFunc
		qctx, cancel = context.WithTimeout(ctx, s.cfg.QueryTimeout)
		defer cancel()
	}

	var (
		stats    repo.Stats
		articles []repo.PageActivity
		talks    []repo.PageActivity
	)
	g, gctx := errgroup.WithContext(qctx)
	g.Go(func() (err error) {
		stats, err = r.Summary(gctx, s.cfg.ContentNS, w.Cutoff)
		return err
	})
	g.Go(func() (err error) {
		articles, err = r.TopByActivity(gctx, s.cfg.ArticlesNS, w.Cutoff, s.cfg.MainLimit)
		return err
	})
	g.Go(func() (err error) {
		talks, err = r.TopByActivity(gctx, s.cfg.TalkNS, w.Cutoff, s.cfg.TalkLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.Digest{}, err
	}

	d := domain.Digest{
		Lang:     in.Lang,
		Days:     w.Days,
		Cutoff:   w.Cutoff,
		Stats:    domain.Stats{Edits: stats.Edits, Titles: stats.Titles, Users: stats.Users},
		Articles: ranked(articles),
		Talks:    ranked(talks),
	}

	if s.extractsOn(in) && len(d.Articles) > 0 {
		d.Extracts = s.enrich(ctx, in.Lang, d.Titles())
	}

	logger.C(ctx).Info().
		Str("component", "digest").
		Str("build_id", uuid.NewString()).
		Str("lang", d.Lang).
		Int("days", d.Days).
		Str("cutoff", d.Cutoff).
		Int64("edits", d.Stats.Edits).
		Int("articles", len(d.Articles)).
		Int("talks", len(d.Talks)).
		Int("extracts", len(d.Extracts)).
		Dur("elapsed", time.Since(start)).
		Msg("digest built")

	return d, nil
}

func (s *Svc) withDefaults(in domain.DigestInput) domain.DigestInput {
	if in.Lang == "" {
		in.Lang = s.cfg.DefaultLang
	}
	if in.Days == 0 {
		in.Days = s.cfg.DefaultDays
	}
	return in
}

func (s *Svc) serves(lang string) bool {
	return len(s.cfg.Langs) == 0 || slices.Contains(s.cfg.Langs, lang)
}

func (s *Svc) extractsOn(in domain.DigestInput) bool {
	if s.enricher == nil || s.cfg.ExtractLimit <= 0 {
		return false
	}
	if in.Extracts != nil {
		return *in.Extracts
	}
	return s.cfg.ExtractsEnabled
}

// enrich runs the extract stage under a hard deadline
// a late enricher is abandoned, its result is dropped
func (s *Svc) enrich(ctx context.Context, lang string, ts []string) map[string]domain.Extract {
	ectx, cancel := context.WithTimeout(ctx, s.cfg.ExtractTimeout)
	defer cancel()

	done := make(chan map[string]domain.Extract, 1)
	go func() { done <- s.enricher.Fetch(ectx, lang, ts, s.cfg.ExtractLimit) }()

	var got map[string]domain.Extract
	select {
	case got = <-done:
	case <-ectx.Done():
		logger.C(ctx).Warn().Str("lang", lang).Dur("timeout", s.cfg.ExtractTimeout).Msg("extracts abandoned")
		return nil
	}

	// keep only titles we asked for
	out := make(map[string]domain.Extract, len(got))
	for _, t := range ts {
		if e, ok := got[t]; ok && e.Extract != "" {
			out[t] = e
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// ranked reapplies edits desc, store title asc so every backend agrees, then renders display titles
func ranked(in []repo.PageActivity) []domain.PageActivity {
	rows := slices.Clone(in)
	slices.SortStableFunc(rows, func(a, b repo.PageActivity) int {
		if c := cmp.Compare(b.Edits, a.Edits); c != 0 {
			return c
		}
		return cmp.Compare(a.Title, b.Title)
	})
	out := make([]domain.PageActivity, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.PageActivity{Title: titles.Display(r.Title), Edits: r.Edits, Users: r.Users})
	}
	return out
}
