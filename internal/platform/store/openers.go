package store

import (
	"context"
	"fmt"
	"time"

	chx "weeklypedia/internal/platform/store/ch"
	"weeklypedia/internal/platform/store/lite"
	"weeklypedia/internal/platform/store/pg"
	"weeklypedia/internal/platform/store/trace"

	"github.com/cenkalti/backoff/v4"
)

// newBackOff builds the ping retry schedule, swapped in tests
var newBackOff = func(c ConnectConfig) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 150 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = 0
	return backoff.WithMaxRetries(b, uint64(c.Retries))
}

// pingWithRetry pings until healthy, retries exhausted, or ctx is done
func pingWithRetry(ctx context.Context, s *Store, name string, c ConnectConfig, ping func(context.Context) error) error {
	c = c.withDefaults()
	attempts := 0
	op := func() error {
		attempts++
		toCtx, cancel := context.WithTimeout(ctx, c.PingTimeout)
		defer cancel()
		return ping(toCtx)
	}
	notify := func(err error, next time.Duration) {
		s.Log.Warn().Err(err).
			Str("driver", name).
			Int("attempt", attempts).
			Dur("retry_in", next).
			Msg("store ping failed")
	}
	if err := backoff.RetryNotify(op, backoff.WithContext(newBackOff(c), ctx), notify); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s ping failed after %d attempts: %w", name, attempts, err)
	}
	return nil
}

func tracerFor(cfg Config, s *Store, component string) trace.QueryTracer {
	if !cfg.LogSQL {
		return nil
	}
	return trace.Tracer(s.Log, component)
}

// openPG opens pg and wraps it with our adapter once the pool answers
func openPG(ctx context.Context, cfg Config, s *Store) (*pgAdapter, error) {
	p, err := pg.Open(ctx, pg.Config{
		URL:              cfg.URL,
		MaxConns:         int32(cfg.MaxConns),
		SlowMs:           cfg.SlowQueryMs,
		AppName:          cfg.AppName,
		StatementTimeout: cfg.QueryTimeout,
	}, tracerFor(cfg, s, "pg"), nil)
	if err != nil {
		return nil, err
	}

	// ping the pool directly so boot does not emit SQL trace lines
	if err := pingWithRetry(ctx, s, "postgres", cfg.Connect, p.Pool.Ping); err != nil {
		p.Close()
		return nil, err
	}
	return newPGAdapter(p), nil
}

func openCH(ctx context.Context, cfg Config, s *Store) (*clickhouseAdapter, error) {
	c, err := chx.Open(ctx, chx.Config{
		URL:         cfg.URL,
		MaxConns:    cfg.MaxConns,
		DialTimeout: cfg.CH.DialTimeout,
		SlowMs:      cfg.SlowQueryMs,
		ClientName:  cfg.CH.ClientName,
		ClientTag:   cfg.CH.ClientTag,
	}, tracerFor(cfg, s, "ch"))
	if err != nil {
		return nil, err
	}
	if err := pingWithRetry(ctx, s, "clickhouse", cfg.Connect, c.Ping); err != nil {
		_ = c.Close()
		return nil, err
	}
	return newCHAdapter(c), nil
}

func openLite(ctx context.Context, cfg Config, s *Store) (*liteAdapter, error) {
	l, err := lite.Open(ctx, lite.Config{
		Path:     cfg.URL,
		MaxConns: cfg.MaxConns,
		SlowMs:   cfg.SlowQueryMs,
		ReadOnly: cfg.Lite.ReadOnly,
	}, tracerFor(cfg, s, "sqlite"))
	if err != nil {
		return nil, err
	}
	return newLiteAdapter(l), nil
}
