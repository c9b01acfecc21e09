package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weeklypedia/internal/core/window"
	perr "weeklypedia/internal/platform/errors"
	"weeklypedia/internal/platform/logger"
	"weeklypedia/internal/platform/store"
	"weeklypedia/internal/services/api/digest/changelogtest"
	"weeklypedia/internal/services/api/digest/repo"
)

var t0 = time.Date(2026, 10, 11, 9, 0, 0, 0, time.UTC)

func liteRepo(t *testing.T, changes ...changelogtest.Change) repo.Repo {
	t.Helper()
	path := changelogtest.Seed(t, changes...)
	return repo.NewLite().Bind(changelogtest.Querier(t, path))
}

func TestTopByActivity_DogCat(t *testing.T) {
	r := liteRepo(t,
		changelogtest.Edit(1, "Dog", 1, t0.Add(time.Hour)),
		changelogtest.Edit(1, "Dog", 2, t0.Add(2*time.Hour)),
		changelogtest.Edit(1, "Cat", 1, t0.Add(3*time.Hour)),
	)

	got, err := r.TopByActivity(context.Background(), 1, window.Format(t0), 20)
	require.NoError(t, err)
	assert.Equal(t, []repo.PageActivity{
		{Title: "Dog", Edits: 2, Users: 2},
		{Title: "Cat", Edits: 1, Users: 1},
	}, got)
}

func TestCutoffIsExclusive(t *testing.T) {
	r := liteRepo(t,
		changelogtest.Edit(0, "Old", 1, t0),
		changelogtest.Edit(0, "Older", 1, t0.Add(-time.Minute)),
		changelogtest.Edit(0, "New", 2, t0.Add(time.Second)),
	)
	cutoff := window.Format(t0)

	st, err := r.Summary(context.Background(), 0, cutoff)
	require.NoError(t, err)
	assert.Equal(t, repo.Stats{Edits: 1, Titles: 1, Users: 1}, st)

	top, err := r.TopByActivity(context.Background(), 0, cutoff, 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "New", top[0].Title)
}

func TestFilters_NamespaceAndType(t *testing.T) {
	log := changelogtest.Change{NS: 0, Type: 3, Title: "Logged", User: 9, At: t0.Add(time.Hour)}
	newPage := changelogtest.Change{NS: 0, Type: 1, Title: "Created", User: 9, At: t0.Add(time.Hour)}
	r := liteRepo(t,
		log, newPage,
		changelogtest.Edit(2, "User page", 9, t0.Add(time.Hour)),
		changelogtest.Edit(0, "Kept", 9, t0.Add(time.Hour)),
	)

	st, err := r.Summary(context.Background(), 0, window.Format(t0))
	require.NoError(t, err)
	assert.Equal(t, repo.Stats{Edits: 1, Titles: 1, Users: 1}, st)
}

func TestSummary_EmptyWindowIsZero(t *testing.T) {
	r := liteRepo(t, changelogtest.Edit(0, "Stale", 1, t0.Add(-48*time.Hour)))

	st, err := r.Summary(context.Background(), 0, window.Format(t0))
	require.NoError(t, err)
	assert.Equal(t, repo.Stats{}, st)

	top, err := r.TopByActivity(context.Background(), 0, window.Format(t0), 5)
	require.NoError(t, err)
	assert.NotNil(t, top)
	assert.Empty(t, top)
}

func TestTopByActivity_TieBreakAndLimit(t *testing.T) {
	r := liteRepo(t,
		changelogtest.Edit(1, "b", 1, t0.Add(time.Hour)),
		changelogtest.Edit(1, "a", 1, t0.Add(time.Hour)),
		changelogtest.Edit(1, "B", 1, t0.Add(time.Hour)),
		changelogtest.Edit(1, "Zeta", 1, t0.Add(time.Hour)),
		changelogtest.Edit(1, "Zeta", 2, t0.Add(2*time.Hour)),
	)

	got, err := r.TopByActivity(context.Background(), 1, window.Format(t0), 3)
	require.NoError(t, err)
	// byte order puts upper case first
	assert.Equal(t, []repo.PageActivity{
		{Title: "Zeta", Edits: 2, Users: 2},
		{Title: "B", Edits: 1, Users: 1},
		{Title: "a", Edits: 1, Users: 1},
	}, got)
}

func TestTopByActivity_Properties(t *testing.T) {
	var changes []changelogtest.Change
	for i := 0; i < 40; i++ {
		title := []string{"Alpha", "Beta", "Gamma", "Delta", "Epsilon"}[i%5]
		for j := 0; j <= i%7; j++ {
			changes = append(changes, changelogtest.Edit(1, title, int64(j%3+1), t0.Add(time.Duration(i*7+j)*time.Minute)))
		}
	}
	r := liteRepo(t, changes...)
	cutoff := window.Format(t0)

	for _, limit := range []int{1, 3, 20} {
		top, err := r.TopByActivity(context.Background(), 1, cutoff, limit)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(top), limit)
		for i, p := range top {
			assert.GreaterOrEqual(t, p.Users, int64(1))
			assert.LessOrEqual(t, p.Users, p.Edits)
			if i > 0 {
				prev := top[i-1]
				ordered := prev.Edits > p.Edits || (prev.Edits == p.Edits && prev.Title < p.Title)
				assert.True(t, ordered, "rank %d out of order: %+v then %+v", i, prev, p)
			}
		}
	}

	st, err := r.Summary(context.Background(), 1, cutoff)
	require.NoError(t, err)
	assert.LessOrEqual(t, st.Titles, st.Edits)
	assert.LessOrEqual(t, st.Users, st.Edits)
	assert.Equal(t, int64(len(changes)), st.Edits)
}

func TestEditorColumn_Actor(t *testing.T) {
	path := changelogtest.Seed(t,
		changelogtest.Change{NS: 0, Title: "Moon", User: 0, Actor: 11, At: t0.Add(time.Hour)},
		changelogtest.Change{NS: 0, Title: "Moon", User: 0, Actor: 12, At: t0.Add(2 * time.Hour)},
	)
	q := changelogtest.Querier(t, path)

	byUser, err := repo.NewLite().Bind(q).Summary(context.Background(), 0, window.Format(t0))
	require.NoError(t, err)
	byActor, err := repo.NewLite(repo.WithEditor(repo.EditorActor)).Bind(q).Summary(context.Background(), 0, window.Format(t0))
	require.NoError(t, err)

	assert.Equal(t, int64(1), byUser.Users, "anonymous edits share rc_user 0")
	assert.Equal(t, int64(2), byActor.Users)
}

func TestInvalidInput(t *testing.T) {
	r := liteRepo(t)

	_, err := r.TopByActivity(context.Background(), 0, window.Format(t0), 0)
	require.Error(t, err)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeInvalidArgument))

	_, err = r.Summary(context.Background(), 0, "2026-10-11")
	require.Error(t, err)
	assert.False(t, perr.IsDataSource(err))
}

func TestQueryFailureIsDataSourceError(t *testing.T) {
	// sqlite creates an empty file on open, with no recentchanges table every query fails
	path := t.TempDir() + "/empty.db"
	st, err := store.Open(context.Background(), store.Config{Driver: store.DriverSQLite, URL: path, Connect: store.ConnectConfig{Retries: 1}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close(context.Background()) })
	q, _, err := st.Reader()
	require.NoError(t, err)

	_, err = repo.NewLite().Bind(q).Summary(context.Background(), 0, window.Format(t0))
	require.Error(t, err)
	assert.True(t, perr.IsDataSource(err))

	_, err = repo.NewLite().Bind(q).TopByActivity(context.Background(), 0, window.Format(t0), 5)
	require.Error(t, err)
	assert.True(t, perr.IsDataSource(err))
}

func TestParseEditor(t *testing.T) {
	e, err := repo.ParseEditor("")
	require.NoError(t, err)
	assert.Equal(t, repo.EditorUser, e)

	e, err = repo.ParseEditor("rc_actor")
	require.NoError(t, err)
	assert.Equal(t, repo.EditorActor, e)

	_, err = repo.ParseEditor("rc_user; drop table x")
	require.Error(t, err)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeInvalidArgument))
}

func TestForDriver(t *testing.T) {
	for _, d := range []store.Driver{store.DriverPostgres, store.DriverSQLite, store.DriverClickHouse} {
		b, err := repo.ForDriver(d)
		require.NoError(t, err, d)
		assert.NotNil(t, b)
	}
	_, err := repo.ForDriver("mysql")
	assert.Error(t, err)
}

func zeroLog() logger.Logger { return zerolog.Nop() }
