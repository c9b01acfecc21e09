// Command weeklypedia-api serves weekly edit digests over HTTP
package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"weeklypedia/internal/modkit/repokit"
	"weeklypedia/internal/platform/config"
	"weeklypedia/internal/platform/logger"
	phttp "weeklypedia/internal/platform/net/http"
	"weeklypedia/internal/platform/store"

	"weeklypedia/internal/services/api"
)

func main() {
	root := config.New()
	// service-scoped config for HTTP (CORE_API_*)
	apiCfg := root.Prefix("CORE_API_")

	// bring up logging early
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// change log replicas (SERVICE_CHANGELOG_*), opened lazily per edition
	stCfg, err := store.FromConfig(root, "api")
	if err != nil {
		l.Panic().Err(err).Msg("change log config")
	}
	editions := store.NewEditions(stCfg, *l)
	defer func() {
		l.Info().Strs("editions", editions.Open()).Msg("closing change log stores")
		if err := editions.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close change log stores")
		}
	}()

	// warm the default edition so a bad DSN fails the boot, not the first request
	if apiCfg.MayBool("WARM", true) {
		lang := root.Prefix("CORE_DIGEST_").MayString("LANG", "en")
		wctx, cancel := context.WithTimeout(ctx, apiCfg.MayDuration("WARM_TIMEOUT", 30*time.Second))
		repokit.MustGuard(wctx, repokit.GuardFunc(func(ctx context.Context) error {
			if _, err := editions.Get(ctx, lang); err != nil {
				return err
			}
			return editions.Guard(ctx)
		}))
		cancel()
		l.Info().Str("lang", lang).Msg("change log warmed")
	}

	// http server (CORE_API_PORT, CORE_API_*_TIMEOUT, CORE_API_SHUTDOWN_GRACE)
	srv := phttp.NewServer(apiCfg)

	api.Mount(
		srv.Router(),
		api.Options{
			Config:   root,
			Editions: editions,
			Logger:   l,
			Stack:    api.StackFromConfig(root),
		},
	)

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
	l.Info().Msg("bye")
}
