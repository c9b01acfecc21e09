package repokit

import (
	"context"
	"fmt"
	"time"
)

type guarder interface {
	Guard(context.Context) error
}

// GuardFunc lets a plain function act as a guard target
type GuardFunc func(context.Context) error

// Guard calls f
func (f GuardFunc) Guard(ctx context.Context) error { return f(ctx) }

// MustGuard runs Guard and panics on any error (nice for service startup)
// a ctx without deadline gets 5s
func MustGuard(ctx context.Context, st guarder) {
	if st == nil {
		panic("repokit: nil guard target")
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}
	if err := st.Guard(ctx); err != nil {
		panic(fmt.Errorf("dependency guard failed: %w", err))
	}
}
