// Package api provides the HTTP API for the application
package api

import (
	"net/http"
	"time"

	"weeklypedia/internal/platform/config"
	"weeklypedia/internal/platform/logger"
	phttp "weeklypedia/internal/platform/net/http"
	"weeklypedia/internal/platform/net/middleware"
	"weeklypedia/internal/platform/store"

	"weeklypedia/internal/modkit"
	"weeklypedia/internal/modkit/httpkit"
	"weeklypedia/internal/modkit/module"

	digestmod "weeklypedia/internal/services/api/digest/module"
)

// Options are the API options
type Options struct {
	// Config is the root config, modules apply their own prefixes
	Config   config.Conf
	Editions *store.Editions
	Logger   *logger.Logger
	Stack    httpkit.StackOptions
}

// Mount mounts the API service onto the given router and returns the mounted modules
func Mount(r phttp.Router, opt Options) []module.Module {
	deps := modkit.Deps{
		Cfg:      opt.Config,
		Editions: opt.Editions,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	mods := []module.Module{
		digestmod.New(deps, digestmod.FromConfig(deps.Cfg)),
	}

	// load balancer probe on the root, outside the versioned stack
	r.Handle("/health", middleware.Heartbeat("/health")(http.NotFoundHandler()))

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(opt.Stack), func(api httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(api)
		}
	})
	return mods
}

// StackFromConfig reads CORE_API_* middleware knobs
func StackFromConfig(cfg config.Conf) httpkit.StackOptions {
	ac := cfg.Prefix("CORE_API_")
	o := httpkit.StackOptions{
		Timeout:     ac.MayDuration("TIMEOUT", 60*time.Second),
		SlowRequest: ac.MayDuration("SLOW_REQUEST", 2*time.Second),
	}
	o.CORS.AllowedOrigins = ac.MayCSV("CORS_ORIGINS", []string{"*"})
	o.CORS.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	return o
}
