// Copyright 2026 The parallel-tar Authors
// SPDX-License-Identifier: Apache-2.0

// Package pipe provides a generic multi-producer/multi-consumer work and
// result channel pair with a sticky completion flag, used to hand file
// paths to worker threads and collect their per-item results.
package pipe

import (
	"errors"
	"sync"
	"time"
)

// MaxTries bounds how many times TryRecvPatient polls before giving up.
const MaxTries = 100

// Delay is the sleep between polls in TryRecvPatient.
const Delay = 128 * time.Millisecond

// CollectTimeout is the per-attempt timeout CollectExpected uses while
// waiting for the next item; on timeout it logs nothing itself and simply
// retries, relying on the caller's own logging if desired.
const CollectTimeout = 4 * time.Second

// ErrClosed names the condition of a closed pipe channel. Send does not
// return it: sending on a closed pipe panics.
var ErrClosed = errors.New("pipe: channel closed")

// Pipe is a buffered channel of T guarded by a sticky "completed" flag.
// Completed does not close the channel; it is a separate signal consumers
// poll for so they can stop waiting on work that will never arrive.
type Pipe[T any] struct {
	ch        chan T
	mu        sync.Mutex
	completed bool
}

// New creates a Pipe with the given channel buffer size.
func New[T any](buffer int) *Pipe[T] {
	return &Pipe[T]{ch: make(chan T, buffer)}
}

// Send pushes an item onto the pipe. It panics if called after Close, the
// same way sending on a closed Go channel does; callers coordinate shutdown
// via SetCompleted instead of Close during normal operation.
func (p *Pipe[T]) Send(item T) {
	p.ch <- item
}

// Close closes the underlying channel. Only the sole producer should call
// this, and only after all sends have completed.
func (p *Pipe[T]) Close() {
	close(p.ch)
}

// SetCompleted marks the pipe as completed. Workers polling via
// TryRecvPatient observe this and stop retrying even if no more items ever
// arrive.
func (p *Pipe[T]) SetCompleted() {
	p.mu.Lock()
	p.completed = true
	p.mu.Unlock()
}

// GetCompleted reports whether SetCompleted has been called.
func (p *Pipe[T]) GetCompleted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.completed
}

// TryRecvPatient attempts to receive an item, retrying up to MaxTries times
// with a Delay sleep between attempts. It aborts early, returning
// (zero, false), if the pipe is marked completed or if the channel itself is
// closed and drained. It returns (item, true) as soon as an item is
// available.
func (p *Pipe[T]) TryRecvPatient() (item T, ok bool) {
	for try := 0; try < MaxTries; try++ {
		select {
		case v, chOk := <-p.ch:
			if !chOk {
				var zero T
				return zero, false
			}
			return v, true
		default:
		}

		if p.GetCompleted() {
			var zero T
			return zero, false
		}

		time.Sleep(Delay)
	}

	var zero T
	return zero, false
}

// CollectExpected blocks until exactly n items have been received, retrying
// indefinitely on a per-attempt timeout. It does not honor the completed
// flag: callers that expect exactly n results must ensure n items really
// are produced (or will be, eventually) before calling this.
func (p *Pipe[T]) CollectExpected(n int) []T {
	out := make([]T, 0, n)
	for len(out) < n {
		select {
		case v := <-p.ch:
			out = append(out, v)
		case <-time.After(CollectTimeout):
			continue
		}
	}
	return out
}
