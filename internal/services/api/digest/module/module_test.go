package module_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weeklypedia/internal/modkit"
	modreg "weeklypedia/internal/modkit/module"
	"weeklypedia/internal/platform/config"
	phttp "weeklypedia/internal/platform/net/http"
	"weeklypedia/internal/platform/store"
	"weeklypedia/internal/services/api/digest/changelogtest"
	"weeklypedia/internal/services/api/digest/domain"
	digestmod "weeklypedia/internal/services/api/digest/module"
	"weeklypedia/internal/services/api/digest/service"
)

func seeded(t *testing.T) *store.Editions {
	t.Helper()
	now := time.Now().UTC()
	path := changelogtest.Seed(t,
		changelogtest.Edit(1, "Dog", 1, now.Add(-2*time.Hour)),
		changelogtest.Edit(1, "Dog", 2, now.Add(-time.Hour)),
		changelogtest.Edit(1, "Cat", 1, now.Add(-time.Hour)),
		changelogtest.Edit(0, "Ada_Lovelace", 1, now.Add(-time.Hour)),
		changelogtest.Edit(1, "Ancient", 1, now.AddDate(0, 0, -30)),
	)
	return store.Single(changelogtest.Open(t, path))
}

func serve(t *testing.T, m *digestmod.Module) http.Handler {
	t.Helper()
	mux := chi.NewRouter()
	m.MountRoutes(phttp.AdaptChi(mux))
	return mux
}

func get(t *testing.T, h http.Handler, target string) (int, domain.Digest) {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	var env struct {
		Data domain.Digest `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return rr.Code, env.Data
}

func TestModule_ServesDigest(t *testing.T) {
	m := digestmod.New(modkit.Deps{Editions: seeded(t)}, digestmod.Options{Service: service.DefaultConfig()})
	assert.Equal(t, "digest", m.Name())
	assert.Equal(t, "/digest", m.Prefix())

	code, d := get(t, serve(t, m), "/digest/en?days=7")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, domain.Stats{Edits: 1, Titles: 1, Users: 1}, d.Stats)
	assert.Equal(t, []domain.PageActivity{
		{Title: "Dog", Edits: 2, Users: 2},
		{Title: "Cat", Edits: 1, Users: 1},
	}, d.Articles)
	assert.Empty(t, d.Extracts)
}

func TestModule_ExtractsThroughClient(t *testing.T) {
	wiki := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		title := r.URL.Query().Get("titles")
		w.Header().Set("Content-Type", "application/json")
		if title != "Dog" {
			_, _ = w.Write([]byte(`{"query":{"pages":[{"title":"` + title + `","missing":true}]}}`))
			return
		}
		_, _ = w.Write([]byte(`{"query":{"pages":[{"title":"Dog","extract":"<p>The <b>dog</b> barks.</p>"}]}}`))
	}))
	defer wiki.Close()

	o := digestmod.Options{Service: service.DefaultConfig()}
	o.Service.ExtractsEnabled = true
	o.Extracts.Contact = "ops@example.org"
	o.Extracts.URLTemplate = wiki.URL + "/{lang}/w/api.php"
	o.Extracts.RPS = 1000

	m := digestmod.New(modkit.Deps{Editions: seeded(t)}, o)
	code, d := get(t, serve(t, m), "/digest")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]domain.Extract{"Dog": {Title: "Dog", Extract: "The dog barks."}}, d.Extracts)
	assert.Len(t, d.Articles, 2)
}

func TestModule_Ports(t *testing.T) {
	m := digestmod.New(modkit.Deps{Editions: seeded(t)}, digestmod.Options{})
	p := modreg.MustPortsOf[domain.ServicePort](m)
	assert.NotNil(t, p)

	ports, ok := m.Ports().(digestmod.Ports)
	require.True(t, ok)
	assert.NotNil(t, ports.Digest)
}

func TestModule_Panics(t *testing.T) {
	assert.Panics(t, func() { digestmod.New(modkit.Deps{}, digestmod.Options{}) }, "no editions")

	o := digestmod.Options{}
	o.Service.ExtractsEnabled = true
	assert.Panics(t, func() { digestmod.New(modkit.Deps{Editions: store.Single(&store.Store{})}, o) }, "extracts without contact")

	assert.Panics(t, func() {
		digestmod.New(modkit.Deps{Editions: store.Single(&store.Store{})}, digestmod.Options{EditorColumn: "rc_ip"})
	})
}

func TestFromConfig(t *testing.T) {
	t.Setenv("CORE_DIGEST_DAYS", "14")
	t.Setenv("CORE_DIGEST_NS_TALK", "3")
	t.Setenv("CORE_DIGEST_LANGS", "en, de")
	t.Setenv("CORE_DIGEST_EDITOR_COLUMN", "RC_ACTOR")
	t.Setenv("CORE_EXTRACTS_ENABLED", "true")
	t.Setenv("CORE_EXTRACTS_CONTACT", "ops@example.org")
	t.Setenv("CORE_EXTRACTS_RPS", "2.5")

	o := digestmod.FromConfig(modkitCfg())
	assert.Equal(t, 14, o.Service.DefaultDays)
	assert.Equal(t, 0, o.Service.ContentNS)
	assert.Equal(t, 1, o.Service.ArticlesNS)
	assert.Equal(t, 3, o.Service.TalkNS)
	assert.Equal(t, 20, o.Service.MainLimit)
	assert.Equal(t, []string{"en", "de"}, o.Service.Langs)
	assert.Equal(t, "rc_actor", o.EditorColumn)
	assert.True(t, o.Service.ExtractsEnabled)
	assert.Equal(t, "ops@example.org", o.Extracts.Contact)
	assert.InDelta(t, 2.5, o.Extracts.RPS, 0.001)
	assert.Equal(t, 3, o.Service.ExtractLimit)
}

func modkitCfg() config.Conf { return config.New() }
