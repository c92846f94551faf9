// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package asset builds renderable content off the render goroutine and
// hands it over through single-assignment result cells that the render
// loop can poll without blocking.
package asset

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrPanic wraps a panic recovered from a build function.
var ErrPanic = errors.New("asset: build panicked")

// Future is a one-shot result cell. It is completed exactly once,
// either with a value ([Future.Resolve]) or an error ([Future.Fail]);
// later completions are ignored. Readers either poll it without
// blocking or wait on [Future.Done].
type Future[T any] struct {
	once sync.Once
	done chan struct{}
	val  T
	err  error
}

// NewFuture returns a new pending future.
func NewFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Resolved returns a future already completed with the given value.
func Resolved[T any](v T) *Future[T] {
	f := NewFuture[T]()
	f.Resolve(v)
	return f
}

// Go runs fun in a new goroutine and returns a future for its result.
// A panic in fun fails the future with an error wrapping [ErrPanic].
func Go[T any](ctx context.Context, fun func(ctx context.Context) (T, error)) *Future[T] {
	f := NewFuture[T]()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				f.Fail(fmt.Errorf("%w: %v", ErrPanic, r))
			}
		}()
		v, err := fun(ctx)
		if err != nil {
			f.Fail(err)
			return
		}
		f.Resolve(v)
	}()
	return f
}

// Resolve completes the future with the given value. It returns false
// if the future was already complete.
func (f *Future[T]) Resolve(v T) bool {
	return f.complete(v, nil)
}

// Fail completes the future with the given error. It returns false
// if the future was already complete.
func (f *Future[T]) Fail(err error) bool {
	var zero T
	return f.complete(zero, err)
}

func (f *Future[T]) complete(v T, err error) bool {
	set := false
	f.once.Do(func() {
		f.val = v
		f.err = err
		set = true
		close(f.done)
	})
	return set
}

// Done returns a channel that is closed when the future completes.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Ready returns whether the future has completed, without blocking.
func (f *Future[T]) Ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Poll returns the value, true and the error of the future if it has
// completed, or the zero value, false and nil if it is still pending.
// It never blocks.
func (f *Future[T]) Poll() (v T, ok bool, err error) {
	if !f.Ready() {
		return v, false, nil
	}
	return f.val, true, f.err
}

// Wait blocks until the future completes or the context is done.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
