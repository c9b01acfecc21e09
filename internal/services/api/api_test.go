package api_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weeklypedia/internal/modkit/module"
	"weeklypedia/internal/platform/config"
	phttp "weeklypedia/internal/platform/net/http"
	"weeklypedia/internal/platform/store"
	"weeklypedia/internal/services/api"
	"weeklypedia/internal/services/api/digest/changelogtest"
	"weeklypedia/internal/services/api/digest/domain"
)

func TestMount_ServesDigestUnderV1(t *testing.T) {
	path := changelogtest.Seed(t, changelogtest.Edit(1, "Dog", 1, time.Now().Add(-time.Hour)))
	ed := store.Single(changelogtest.Open(t, path))

	mux := chi.NewRouter()
	mods := api.Mount(phttp.AdaptChi(mux), api.Options{Config: config.New(), Editions: ed})
	require.Len(t, mods, 1)

	_, ok := module.PortsOf[domain.ServicePort](mods[0])
	assert.True(t, ok, "digest port exposed")

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/digest/en", nil)
	req.Header.Set("X-Request-Id", "it-1")
	mux.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.True(t, strings.Contains(rr.Body.String(), `"title":"Dog"`), rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"request_id":"it-1"`)
	assert.Contains(t, rr.Header().Get("Cache-Control"), "no-cache")

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/digest/de?days=nope", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestStackFromConfig(t *testing.T) {
	t.Setenv("CORE_API_TIMEOUT", "15s")
	t.Setenv("CORE_API_CORS_ORIGINS", "https://a.example, https://b.example")
	o := api.StackFromConfig(config.New())
	assert.Equal(t, 15*time.Second, o.Timeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, o.CORS.AllowedOrigins)
}
