package lite

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"weeklypedia/internal/platform/store/trace"
)

type recTracer struct {
	mu  sync.Mutex
	evs []trace.QueryEvent
}

func (r *recTracer) OnQuery(_ context.Context, ev trace.QueryEvent) {
	r.mu.Lock()
	r.evs = append(r.evs, ev)
	r.mu.Unlock()
}

func TestDSN(t *testing.T) {
	t.Parallel()

	got := DSN(Config{Path: "file:/data/enwiki.db", ReadOnly: true})
	if !strings.HasPrefix(got, "file:/data/enwiki.db?") {
		t.Fatalf("DSN prefix = %q", got)
	}
	for _, want := range []string{"busy_timeout%285000%29", "mode=ro"} {
		if !strings.Contains(got, want) {
			t.Fatalf("DSN %q missing %q", got, want)
		}
	}
	if strings.Contains(got, "journal_mode") {
		t.Fatalf("read only DSN must not switch journal mode: %q", got)
	}
	rw := DSN(Config{Path: "x.db"})
	if strings.Contains(rw, "mode=ro") || !strings.Contains(rw, "journal_mode%28WAL%29") {
		t.Fatalf("read write DSN = %q", rw)
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), Config{}, nil); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestOpen_QueryTraced(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tr := &recTracer{}
	l, err := Open(ctx, Config{Path: filepath.Join(t.TempDir(), "rc.db"), MaxConns: 2, SlowMs: -1}, tr)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })

	var n int
	if err := l.QueryRow(ctx, "SELECT ?", 41).Scan(&n); err != nil || n != 41 {
		t.Fatalf("QueryRow = %d, %v", n, err)
	}
	rows, err := l.Query(ctx, "SELECT 1 UNION ALL SELECT 2")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	count := 0
	for rows.Next() {
		count++
	}
	_ = rows.Close()
	if count != 2 {
		t.Fatalf("rows = %d", count)
	}

	tr.mu.Lock()
	defer tr.mu.Unlock()
	if len(tr.evs) != 2 || tr.evs[0].Slow {
		t.Fatalf("trace events = %+v", tr.evs)
	}
	if err := l.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}
