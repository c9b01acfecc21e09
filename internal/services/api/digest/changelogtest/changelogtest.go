// Package changelogtest seeds sqlite recentchanges files for digest tests
package changelogtest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"weeklypedia/internal/core/window"
	"weeklypedia/internal/platform/store"

	_ "modernc.org/sqlite" // driver
)

// Schema is the subset of the MediaWiki recentchanges table the digest reads
const Schema = `
create table recentchanges (
	rc_id integer primary key autoincrement,
	rc_namespace integer not null,
	rc_type integer not null default 0,
	rc_title text not null,
	rc_user integer not null default 0,
	rc_actor integer not null default 0,
	rc_timestamp text not null
);
create index rc_ns_ts on recentchanges (rc_namespace, rc_timestamp);
`

// Change is one row to seed, Actor defaults to User
type Change struct {
	NS    int
	Type  int
	Title string
	User  int64
	Actor int64
	At    time.Time
}

// Edit is a plain edit (rc_type 0) by user at t
func Edit(ns int, title string, user int64, t time.Time) Change {
	return Change{NS: ns, Title: title, User: user, At: t}
}

// Seed writes a fresh database file under t.TempDir and returns its path
func Seed(t testing.TB, changes ...Change) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "enwiki.db")
	db, err := sql.Open("sqlite", "file:"+path)
	if err != nil {
		t.Fatalf("open seed db: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(Schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	Insert(t, path, changes...)
	return path
}

// Insert appends rows to an existing seeded file
func Insert(t testing.TB, path string, changes ...Change) {
	t.Helper()
	if len(changes) == 0 {
		return
	}
	db, err := sql.Open("sqlite", "file:"+path)
	if err != nil {
		t.Fatalf("open seed db: %v", err)
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	const ins = `insert into recentchanges (rc_namespace, rc_type, rc_title, rc_user, rc_actor, rc_timestamp) values (?, ?, ?, ?, ?, ?)`
	for _, c := range changes {
		actor := c.Actor
		if actor == 0 {
			actor = c.User
		}
		if _, err := tx.Exec(ins, c.NS, c.Type, c.Title, c.User, actor, window.Format(c.At)); err != nil {
			_ = tx.Rollback()
			t.Fatalf("insert %q: %v", c.Title, err)
		}
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
}

// Open opens path through the store package, read only, and closes it on cleanup
func Open(t testing.TB, path string) *store.Store {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	st, err := store.Open(ctx, store.Config{
		Driver:  store.DriverSQLite,
		URL:     path,
		Connect: store.ConnectConfig{Retries: 1},
		Lite:    store.LiteConfig{ReadOnly: true},
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(context.Background()) })
	return st
}

// Querier returns the sqlite seam of a store opened with Open
func Querier(t testing.TB, path string) store.Querier {
	t.Helper()
	q, _, err := Open(t, path).Reader()
	if err != nil {
		t.Fatalf("reader: %v", err)
	}
	return q
}
