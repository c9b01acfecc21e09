// Package lite opens a SQLite change log snapshot through modernc.org/sqlite
package lite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"weeklypedia/internal/platform/store/trace"

	_ "modernc.org/sqlite"
)

// Config configures a sqlite snapshot
type Config struct {
	// Path is a file path or a file: URI
	Path     string
	MaxConns int
	SlowMs   int

	// ReadOnly opens the file with mode=ro, snapshots are never written by us
	ReadOnly bool

	// BusyTimeout is how long a reader waits on a writer lock
	BusyTimeout time.Duration
}

// Lite is a sqlite handle with optional tracer
type Lite struct {
	DB     *sql.DB
	Tracer trace.QueryTracer
	SlowMs int
}

// DSN renders the modernc connection string with pragmas
func DSN(cfg Config) string {
	path := strings.TrimPrefix(cfg.Path, "file:")
	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}

	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busy.Milliseconds()))
	if cfg.ReadOnly {
		// switching journal mode is a write, leave it to whoever built the snapshot
		q.Set("mode", "ro")
	} else {
		q.Add("_pragma", "journal_mode(WAL)")
	}
	return "file:" + path + "?" + q.Encode()
}

// Open opens and pings the file
func Open(ctx context.Context, cfg Config, tracer trace.QueryTracer) (*Lite, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, fmt.Errorf("sqlite: empty path")
	}
	db, err := sql.Open("sqlite", DSN(cfg))
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
		db.SetMaxIdleConns(cfg.MaxConns)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Lite{DB: db, Tracer: tracer, SlowMs: cfg.SlowMs}, nil
}

// Query runs a read and traces it when a tracer is set
func (l *Lite) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rs, err := l.DB.QueryContext(ctx, query, args...)
	l.emit(ctx, query, args, start, err)
	return rs, err
}

// QueryRow runs a single row read, the trace reports the time to first row
func (l *Lite) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	r := l.DB.QueryRowContext(ctx, query, args...)
	l.emit(ctx, query, args, start, r.Err())
	return r
}

// Ping checks the file is still readable
func (l *Lite) Ping(ctx context.Context) error { return l.DB.PingContext(ctx) }

// Close closes the handle
func (l *Lite) Close() error {
	if l == nil || l.DB == nil {
		return nil
	}
	return l.DB.Close()
}

func (l *Lite) emit(ctx context.Context, query string, args []any, start time.Time, err error) {
	if l.Tracer == nil {
		return
	}
	us := time.Since(start).Microseconds()
	l.Tracer.OnQuery(ctx, trace.QueryEvent{
		SQL:       query,
		Args:      args,
		ElapsedUS: us,
		Err:       err,
		Slow:      trace.IsSlow(us, l.SlowMs),
	})
}
