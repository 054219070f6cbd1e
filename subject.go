// Copyright 2025 samber.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://github.com/samber/rx/blob/main/licenses/LICENSE.apache.md
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rx

import (
	"context"
	"sync"
	"sync/atomic"
)

// Subject is both an Observer and an Observable: a multicast point. Pushing a
// signal into it fans the signal out to every currently attached observer;
// what a late subscriber sees first depends on the concrete subject (publish,
// behavior, replay, async, unicast).
//
// All subjects accept at most one terminal signal; later pushes are dropped
// silently through OnDroppedNotification. Emission never holds the subject
// lock while running observer callbacks: a snapshot of the attached observers
// is taken inside the critical section and dispatched outside of it, so a
// callback may subscribe or unsubscribe without deadlocking — its effect is
// simply deferred to the next emission.
type Subject[T any] interface {
	Observable[T]
	Observer[T]

	HasObserver() bool
	CountObservers() int

	IsClosed() bool
	HasThrown() bool
	IsCompleted() bool

	AsObservable() Observable[T]
	AsObserver() Observer[T]
}

// observerRegistry tracks the observers attached to a multicast subject. It
// hands out a deregistration closure on attach, and produces stable snapshots
// for lock-free dispatch. Safe for concurrent use.
type observerRegistry[T any] struct {
	seq       uint32
	observers sync.Map // uint32 → Observer[T]
}

// attach registers an observer and returns the closure that detaches it.
func (r *observerRegistry[T]) attach(observer Observer[T]) func() {
	id := atomic.AddUint32(&r.seq, 1)
	r.observers.Store(id, observer)

	return func() {
		r.observers.Delete(id)
	}
}

// snapshot copies the currently attached observers into a slice.
func (r *observerRegistry[T]) snapshot() []Observer[T] {
	out := []Observer[T]{}

	r.observers.Range(func(_, observer any) bool {
		out = append(out, observer.(Observer[T])) //nolint:errcheck,forcetypeassert
		return true
	})

	return out
}

// size counts the currently attached observers.
func (r *observerRegistry[T]) size() int {
	count := 0

	r.observers.Range(func(_, _ any) bool {
		count++
		return true
	})

	return count
}

// empty reports whether no observer is attached. Cheaper than size for the
// HasObserver accessors.
func (r *observerRegistry[T]) empty() bool {
	empty := true

	r.observers.Range(func(_, _ any) bool {
		empty = false
		return false
	})

	return empty
}

// detachAll forgets every attached observer.
func (r *observerRegistry[T]) detachAll() {
	r.observers.Range(func(id, _ any) bool {
		r.observers.Delete(id)
		return true
	})
}

// subjectTerminal is the latched end-state of a subject: the terminal
// notification plus the context it arrived with. The zero value means the
// subject is still live. It is meant to be guarded by the owning subject's
// mutex.
type subjectTerminal[T any] struct {
	notif Notification[T]
	ctx   context.Context
	done  bool
}

// latch records the terminal notification. It reports false when a terminal
// was already recorded.
func (t *subjectTerminal[T]) latch(ctx context.Context, notif Notification[T]) bool {
	if t.done {
		return false
	}

	t.notif = notif
	t.ctx = ctx
	t.done = true

	return true
}

// replayTo delivers the recorded terminal to one observer. Completions are
// replayed with the subscriber's own context, errors with the context they
// were originally thrown with.
func (t *subjectTerminal[T]) replayTo(subscriberCtx context.Context, destination Observer[T]) {
	ctx := t.ctx
	if t.notif.IsComplete() {
		ctx = subscriberCtx
	}

	t.notif.SendWithContext(ctx, destination)
}

func (t *subjectTerminal[T]) thrown() bool {
	return t.done && t.notif.IsError()
}

func (t *subjectTerminal[T]) completed() bool {
	return t.done && t.notif.IsComplete()
}
