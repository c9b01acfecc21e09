// Package ch opens a clickhouse-go connection pool for one change log replica
package ch

import (
	"context"
	"time"

	"weeklypedia/internal/platform/store/trace"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Config configures clickhouse client
type Config struct {
	URL         string
	MaxConns    int
	DialTimeout time.Duration
	SlowMs      int

	// ClientName and ClientTag are reported in system.query_log
	ClientName string
	ClientTag  string
}

// Rows is the result set returned by the driver
type Rows = driver.Rows

// CH is a clickhouse client with pool and optional tracer
type CH struct {
	Conn   driver.Conn
	Tracer trace.QueryTracer
	SlowMs int
}

var openConn = clickhouse.Open

// Options turns Config into driver options, the URL wins for anything it sets
func Options(cfg Config) (*clickhouse.Options, error) {
	opts, err := clickhouse.ParseDSN(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		opts.MaxOpenConns = cfg.MaxConns
		if opts.MaxIdleConns > cfg.MaxConns {
			opts.MaxIdleConns = cfg.MaxConns
		}
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	opts.ClientInfo = BuildClientInfo(cfg.ClientName, cfg.ClientTag)
	return opts, nil
}

// Open builds a pool, it does not dial until first use
func Open(_ context.Context, cfg Config, tracer trace.QueryTracer) (*CH, error) {
	opts, err := Options(cfg)
	if err != nil {
		return nil, err
	}
	conn, err := openConn(opts)
	if err != nil {
		return nil, err
	}
	return &CH{Conn: conn, Tracer: tracer, SlowMs: cfg.SlowMs}, nil
}

// Query runs a read and traces it when a tracer is set
func (c *CH) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := c.Conn.Query(ctx, sql, args...)
	if c.Tracer != nil {
		us := time.Since(start).Microseconds()
		c.Tracer.OnQuery(ctx, trace.QueryEvent{
			SQL:       sql,
			Args:      args,
			ElapsedUS: us,
			Err:       err,
			Slow:      trace.IsSlow(us, c.SlowMs),
		})
	}
	return rs, err
}

// Ping checks the server answers
func (c *CH) Ping(ctx context.Context) error { return c.Conn.Ping(ctx) }

// Close closes the pool
func (c *CH) Close() error {
	if c == nil || c.Conn == nil {
		return nil
	}
	return c.Conn.Close()
}
