package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"testing"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestDataSourceCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), ErrorCodeUnavailable},
		{"pg cannot connect", &pgconn.PgError{Code: pgCannotConnectNow}, ErrorCodeUnavailable},
		{"pg statement timeout", fmt.Errorf("top titles: %w", &pgconn.PgError{Code: pgQueryCanceled}), ErrorCodeUnavailable},
		{"pg syntax", &pgconn.PgError{Code: "42601"}, ErrorCodeDB},
		{"pg undefined table", &pgconn.PgError{Code: "42P01"}, ErrorCodeDB},
		{"ch timeout", &clickhouse.Exception{Code: chTimeoutExceeded, Message: "timeout"}, ErrorCodeUnavailable},
		{"ch unknown table", &clickhouse.Exception{Code: 60, Message: "no table"}, ErrorCodeDB},
		{"plain", stderrs.New("boom"), ErrorCodeDB},
		{"already unavailable", New(ErrorCodeUnavailable, "down"), ErrorCodeUnavailable},
	}
	for _, c := range cases {
		if got := DataSourceCode(c.err); got != c.want {
			t.Fatalf("%s: DataSourceCode = %v, want %v", c.name, got, c.want)
		}
	}
	if DataSourceCode(nil) != ErrorCodeUnknown {
		t.Fatalf("nil should map to unknown")
	}
}

func TestFromDataSource(t *testing.T) {
	if FromDataSource(nil, "x") != nil {
		t.Fatalf("nil in, nil out")
	}
	if err := FromDataSource(context.Canceled, "x"); !stderrs.Is(err, context.Canceled) || IsDataSource(err) {
		t.Fatalf("cancellation must pass through untouched, got %v", err)
	}
	raw := stderrs.New("relation does not exist")
	err := FromDataSource(raw, "top titles")
	if !IsDataSource(err) || !stderrs.Is(err, raw) {
		t.Fatalf("expected wrapped data source error, got %v", err)
	}
	if IsDataSource(InvalidArgf("bad")) || IsDataSource(nil) {
		t.Fatalf("non data source errors misclassified")
	}
}
