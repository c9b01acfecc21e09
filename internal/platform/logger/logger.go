// Package logger wraps zerolog with process defaults and request scoped fields
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Options configures the root logger
type Options struct {
	Level        string // trace..panic, unknown means debug
	Format       string // json or console
	Service      string
	Component    string
	Writer       io.Writer // default stdout
	WithCaller   bool
	SampleEvery  int
	StaticFields map[string]string
}

// FromEnv reads LOG_* straight from the environment
// the config package logs through us, so it cannot be used here
func FromEnv() Options {
	env := func(k, def string) string {
		if v := strings.TrimSpace(os.Getenv("LOG_" + k)); v != "" {
			return v
		}
		return def
	}
	caller, _ := strconv.ParseBool(env("CALLER", "false"))
	sample, _ := strconv.Atoi(env("SAMPLE_EVERY", "0"))
	return Options{
		Level:       strings.ToLower(env("LEVEL", "debug")),
		Format:      strings.ToLower(env("FORMAT", "console")),
		Service:     env("SERVICE", ""),
		Component:   env("COMPONENT", ""),
		WithCaller:  caller,
		SampleEvery: sample,
	}
}

var (
	once sync.Once
	root atomic.Pointer[zerolog.Logger]
)

// Logger is the project-wide logging type
type Logger = zerolog.Logger

// Get returns the process-wide root logger, initializing it from the environment on first use
func Get() *Logger {
	if l := root.Load(); l != nil {
		return l
	}
	Init(FromEnv())
	return root.Load()
}

// Init builds the root logger, only the first call has any effect
func Init(opt Options) {
	once.Do(func() {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano

		var w io.Writer = os.Stdout
		if opt.Writer != nil {
			w = opt.Writer
		}
		if opt.Format == "console" {
			w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
		}

		lvl, err := zerolog.ParseLevel(strings.TrimSpace(strings.ToLower(opt.Level)))
		if err != nil || lvl == zerolog.NoLevel {
			lvl = zerolog.DebugLevel
		}
		zc := zerolog.New(w).Level(lvl).With().Timestamp()

		if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
			zc = zc.Str("go_version", bi.GoVersion)
		}
		if opt.Service != "" {
			zc = zc.Str("service", opt.Service)
		}
		if opt.Component != "" {
			zc = zc.Str("component", opt.Component)
		}
		for k, v := range opt.StaticFields {
			zc = zc.Str(k, v)
		}
		if opt.WithCaller {
			zc = zc.Caller()
		}

		l := zc.Logger()
		if opt.SampleEvery > 1 {
			l = l.Sample(&zerolog.BasicSampler{N: uint32(opt.SampleEvery)})
		}
		root.Store(&l)
	})
}

type ctxKey int

const (
	keyRequestID ctxKey = iota
	keyEdition
)

// WithRequest annotates ctx with the request id and the wiki edition, empty values are skipped
func WithRequest(ctx context.Context, reqID, lang string) context.Context {
	if reqID != "" {
		ctx = context.WithValue(ctx, keyRequestID, reqID)
	}
	if lang != "" {
		ctx = context.WithValue(ctx, keyEdition, lang)
	}
	return ctx
}

// C returns a child of the root logger carrying request_id and lang from ctx
func C(ctx context.Context) *Logger {
	zc := Get().With()
	if s, ok := ctx.Value(keyRequestID).(string); ok {
		zc = zc.Str("request_id", s)
	}
	if s, ok := ctx.Value(keyEdition).(string); ok {
		zc = zc.Str("lang", s)
	}
	l := zc.Logger()
	return &l
}

// Named returns a child logger with a component field
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	l := Get().With().Str("component", component).Logger()
	return &l
}
