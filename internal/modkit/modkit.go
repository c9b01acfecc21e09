// Package modkit provides module wiring and core deps
package modkit

import (
	"net/http"
	"strings"

	"weeklypedia/internal/platform/config"
	"weeklypedia/internal/platform/logger"
	"weeklypedia/internal/platform/store"
)

// Deps holds core dependencies passed to modules
type Deps struct {
	Log      logger.Logger
	Cfg      config.Conf
	Editions *store.Editions
}

// Option mutates build configuration for a module
type Option func(*Built)

// Built is what a module reads its name, mount prefix and middlewares from
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
}

// Build applies opts in order, later options win
// the prefix is normalized to one leading slash and no trailing slash
func Build(opts ...Option) Built {
	var b Built
	for _, o := range opts {
		o(&b)
	}
	if p := strings.Trim(b.Prefix, " /"); p != "" {
		b.Prefix = "/" + p
	} else {
		b.Prefix = ""
	}
	b.Mw = append([]func(http.Handler) http.Handler(nil), b.Mw...)
	return b
}

// WithName sets a module name used in logs
func WithName(name string) Option {
	return func(b *Built) { b.Name = name }
}

// WithPrefix mounts a module under a path prefix
func WithPrefix(prefix string) Option {
	return func(b *Built) { b.Prefix = prefix }
}

// WithMiddlewares attaches per module middleware in order
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Built) { b.Mw = append(b.Mw, mw...) }
}
