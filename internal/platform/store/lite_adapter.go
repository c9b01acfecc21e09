package store

import (
	"context"
	"database/sql"
	"errors"

	"weeklypedia/internal/platform/store/lite"
)

// liteAdapter wraps lite.Lite and implements Querier
type liteAdapter struct {
	l *lite.Lite
}

func newLiteAdapter(l *lite.Lite) *liteAdapter { return &liteAdapter{l: l} }

func (a *liteAdapter) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rs, err := a.l.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return sqlRows{r: rs}, nil
}

func (a *liteAdapter) Ping(ctx context.Context) error {
	if a == nil || a.l == nil || a.l.DB == nil {
		return errors.New("store: nil sqlite adapter")
	}
	return a.l.Ping(ctx)
}

func (a *liteAdapter) Close() error { return a.l.Close() }

// sqlRows adapts database/sql rows to store.Rows
type sqlRows struct{ r *sql.Rows }

func (x sqlRows) Next() bool            { return x.r.Next() }
func (x sqlRows) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x sqlRows) Err() error            { return x.r.Err() }
func (x sqlRows) Close()                { _ = x.r.Close() }
func (x sqlRows) Columns() []string {
	cols, err := x.r.Columns()
	if err != nil {
		return nil
	}
	return cols
}
