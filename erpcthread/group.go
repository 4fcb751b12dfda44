// Package erpcthread provides the OS-agnostic unit of concurrency eRPC's
// client and server cores run on: each may run on "its own thread" per the
// core specification, which in Go is simply its own goroutine. Group is a
// thin wrapper around golang.org/x/sync/errgroup.Group that adds a
// cancellation hook, since eRPC's long-running loops (SimpleServer.Run, a
// transport arbitrator's receive loop) need a way to be asked to stop
// rather than only reporting when they already have.
package erpcthread

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Group runs a set of goroutines, collecting the first non-nil error any
// of them returns and canceling the others' context when that happens.
type Group struct {
	g      *errgroup.Group
	ctx    context.Context
	cancel context.CancelFunc
}

// New returns a Group whose goroutines share a context derived from
// parent. Canceling that context (directly, or because one goroutine in
// the group returned an error) is the signal a long-running loop should
// check to know when to stop.
func New(parent context.Context) *Group {
	ctx, cancel := context.WithCancel(parent)
	g, ctx := errgroup.WithContext(ctx)
	return &Group{g: g, ctx: ctx, cancel: cancel}
}

// Context returns the context goroutines spawned with Go should watch for
// cancellation.
func (g *Group) Context() context.Context {
	return g.ctx
}

// Go spawns fn on its own goroutine, as part of the group.
func (g *Group) Go(fn func() error) {
	g.g.Go(fn)
}

// Stop cancels the group's context, signaling every goroutine started with
// Go to return. It does not wait for them; call Wait for that.
func (g *Group) Stop() {
	g.cancel()
}

// Wait blocks until every goroutine started with Go has returned, then
// returns the first non-nil error any of them returned (if any). It also
// cancels the group's context, so a caller that only calls Wait still gets
// the standard errgroup behavior of canceling siblings on first failure.
func (g *Group) Wait() error {
	defer g.cancel()
	return g.g.Wait()
}
