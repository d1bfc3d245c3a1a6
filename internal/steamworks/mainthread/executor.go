// Package mainthread runs functions serially on one locked OS thread.
package mainthread

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
)

// ErrStopped is returned by Do once the executor has stopped.
var ErrStopped = errors.New("mainthread: executor stopped")

type job struct {
	fn   func()
	done chan error
}

// Executor serializes calls onto the goroutine running Run, which is pinned to
// its OS thread for the executor's lifetime.
type Executor struct {
	jobs    chan job
	stopped chan struct{}
	once    sync.Once
}

// New creates an executor. Nothing runs until Run is called.
func New() *Executor {
	return &Executor{
		jobs:    make(chan job),
		stopped: make(chan struct{}),
	}
}

// Run executes submitted jobs until ctx is done. It must be called once,
// typically from the goroutine that owns vendor init.
func (e *Executor) Run(ctx context.Context) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer e.once.Do(func() { close(e.stopped) })

	for {
		select {
		case <-ctx.Done():
			return
		case j := <-e.jobs:
			j.done <- call(j.fn)
		}
	}
}

// Stopped is closed when Run returns.
func (e *Executor) Stopped() <-chan struct{} {
	return e.stopped
}

// Do runs fn on the executor thread and waits for it. A panic in fn is
// returned as an error.
func (e *Executor) Do(ctx context.Context, fn func()) error {
	j := job{fn: fn, done: make(chan error, 1)}
	select {
	case <-e.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	case e.jobs <- j:
	}
	return <-j.done
}

func call(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("mainthread: panic: %v", r)
		}
	}()
	fn()
	return nil
}
