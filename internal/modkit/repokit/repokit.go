// Package repokit holds the seams repos are built on: a read only Queryer,
// binders that attach a repo to one, and startup guards
package repokit

import "weeklypedia/internal/platform/store"

// Queryer is the read surface every change log backend offers
type Queryer = store.Querier

// Binder attaches a repo of type T to a Queryer, one binder per SQL dialect
type Binder[T any] interface {
	Bind(Queryer) T
}

// BindFunc lets you create a Binder from a function
type BindFunc[T any] func(Queryer) T

// Bind calls the underlying function
func (f BindFunc[T]) Bind(q Queryer) T { return f(q) }

// MustBind binds q and panics on a nil Queryer, a programmer error
func MustBind[T any](b Binder[T], q Queryer) T {
	if q == nil {
		panic("repokit: nil Queryer")
	}
	return b.Bind(q)
}
