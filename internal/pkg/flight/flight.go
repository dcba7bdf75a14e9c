// Package flight deduplicates concurrent calls that share a key.
//
// It is a typed wrapper over golang.org/x/sync/singleflight that lets each
// caller stop waiting through its own context while the shared call keeps
// running for the others.
package flight

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// Result is the outcome delivered to every caller of a shared call.
type Result[T any] struct {
	Val    T
	Err    error
	Shared bool
}

// Group runs at most one call per key at a time.
type Group[T any] struct {
	g singleflight.Group
}

// Do executes fn once per key among concurrent callers. fn receives a context
// detached from the first caller's cancellation so that a caller giving up
// does not abort the call for the others.
//
// When ctx is done before fn returns, Do returns ctx.Err() and fn keeps running.
func (g *Group[T]) Do(ctx context.Context, key string, fn func(context.Context) (T, error)) Result[T] {
	ch := g.g.DoChan(key, func() (any, error) {
		return fn(context.WithoutCancel(ctx))
	})

	select {
	case r := <-ch:
		var v T
		if r.Val != nil {
			v = r.Val.(T)
		}
		return Result[T]{Val: v, Err: r.Err, Shared: r.Shared}
	case <-ctx.Done():
		var zero T
		return Result[T]{Val: zero, Err: ctx.Err()}
	}
}

