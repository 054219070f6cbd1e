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
	"fmt"
	"sync/atomic"
)

// Observer consumes the signals of an Observable: any number of Next values,
// then at most one Error or one Complete. The two terminal signals are
// mutually exclusive and latch the observer: whatever arrives afterwards is
// dropped and routed to OnDroppedNotification.
//
// Every method also exists in a `…WithContext` flavor; the plain one delegates
// with context.Background().
type Observer[T any] interface {
	// Next receives one value. It may be called zero or more times, from any
	// goroutine the producer happens to run on.
	Next(value T)
	NextWithContext(ctx context.Context, value T)
	// Error receives the failure that terminates the stream. At most one of
	// Error and Complete is ever delivered.
	Error(err error)
	ErrorWithContext(ctx context.Context, err error)
	// Complete receives the end-of-stream marker. At most one of Error and
	// Complete is ever delivered.
	Complete()
	CompleteWithContext(ctx context.Context)

	// IsClosed reports whether a terminal signal was received.
	IsClosed() bool
	// HasThrown reports whether the terminal signal was an error.
	HasThrown() bool
	// IsCompleted reports whether the terminal signal was a completion.
	IsCompleted() bool
}

// observer lifecycle, latched by compare-and-swap
const (
	observerLive int32 = iota
	observerThrown
	observerDone
)

var _ Observer[int] = (*callbackObserver[int])(nil)

// NewObserver builds an Observer from three callbacks. Contexts are discarded.
func NewObserver[T any](onNext func(value T), onError func(err error), onComplete func()) Observer[T] {
	return NewObserverWithContext(
		func(_ context.Context, value T) {
			onNext(value)
		},
		func(_ context.Context, err error) {
			onError(err)
		},
		func(_ context.Context) {
			onComplete()
		},
	)
}

// NewObserverWithContext builds an Observer from three context-aware callbacks.
func NewObserverWithContext[T any](onNext func(ctx context.Context, value T), onError func(ctx context.Context, err error), onComplete func(ctx context.Context)) Observer[T] {
	return &callbackObserver[T]{
		state:      observerLive,
		onNext:     onNext,
		onError:    onError,
		onComplete: onComplete,
	}
}

// callbackObserver dispatches signals to user callbacks. A panic escaping a
// callback is converted to an error: thrown from onNext it is redirected to
// onError (latching the observer), thrown from a terminal callback it can
// only go to the process-wide OnUnhandledError hook.
type callbackObserver[T any] struct {
	state      int32
	onNext     func(context.Context, T)
	onError    func(context.Context, error)
	onComplete func(context.Context)
}

// Implements Observer.
func (o *callbackObserver[T]) Next(value T) {
	o.NextWithContext(context.Background(), value)
}

// Implements Observer.
func (o *callbackObserver[T]) NextWithContext(ctx context.Context, value T) {
	if o.onNext == nil || atomic.LoadInt32(&o.state) != observerLive {
		OnDroppedNotification(ctx, NewNotificationNext(value))
		return
	}

	if err := catchPanic(func() { o.onNext(ctx, value) }); err != nil {
		o.fail(ctx, newObserverError(err))
	}
}

// Implements Observer.
func (o *callbackObserver[T]) Error(err error) {
	o.ErrorWithContext(context.Background(), err)
}

// Implements Observer.
func (o *callbackObserver[T]) ErrorWithContext(ctx context.Context, err error) {
	if o.onError == nil || !atomic.CompareAndSwapInt32(&o.state, observerLive, observerThrown) {
		OnDroppedNotification(ctx, NewNotificationError[T](err))
		return
	}

	o.invokeOnError(ctx, err)
}

// Implements Observer.
func (o *callbackObserver[T]) Complete() {
	o.CompleteWithContext(context.Background())
}

// Implements Observer.
func (o *callbackObserver[T]) CompleteWithContext(ctx context.Context) {
	if o.onComplete == nil || !atomic.CompareAndSwapInt32(&o.state, observerLive, observerDone) {
		OnDroppedNotification(ctx, NewNotificationComplete[T]())
		return
	}

	if err := catchPanic(func() { o.onComplete(ctx) }); err != nil {
		OnUnhandledError(ctx, newObserverError(err))
	}
}

// fail routes a callback failure to onError when the observer can still be
// latched, and to the unhandled-error hook otherwise.
func (o *callbackObserver[T]) fail(ctx context.Context, err error) {
	if o.onError != nil && atomic.CompareAndSwapInt32(&o.state, observerLive, observerThrown) {
		o.invokeOnError(ctx, err)
		return
	}

	OnUnhandledError(ctx, err)
}

func (o *callbackObserver[T]) invokeOnError(ctx context.Context, err error) {
	if err2 := catchPanic(func() { o.onError(ctx, err) }); err2 != nil {
		OnUnhandledError(ctx, newObserverError(err2))
	}
}

// Implements Observer.
func (o *callbackObserver[T]) IsClosed() bool {
	return atomic.LoadInt32(&o.state) != observerLive
}

// Implements Observer.
func (o *callbackObserver[T]) HasThrown() bool {
	return atomic.LoadInt32(&o.state) == observerThrown
}

// Implements Observer.
func (o *callbackObserver[T]) IsCompleted() bool {
	return atomic.LoadInt32(&o.state) == observerDone
}

/*********************
 * Partial Observers *
 *********************/

func dropError(context.Context, error) {}

func dropComplete(context.Context) {}

// OnNext is a partial Observer reacting to values only.
// Warning: errors are silently discarded.
func OnNext[T any](cb func(value T)) Observer[T] {
	return NewObserverWithContext(
		func(_ context.Context, value T) { cb(value) },
		dropError,
		dropComplete,
	)
}

// OnNextWithContext is a partial Observer reacting to values only.
// Warning: errors are silently discarded.
func OnNextWithContext[T any](cb func(ctx context.Context, value T)) Observer[T] {
	return NewObserverWithContext(cb, dropError, dropComplete)
}

// OnError is a partial Observer reacting to the error signal only.
func OnError[T any](cb func(err error)) Observer[T] {
	return NewObserverWithContext(
		func(context.Context, T) {},
		func(_ context.Context, err error) { cb(err) },
		dropComplete,
	)
}

// OnErrorWithContext is a partial Observer reacting to the error signal only.
func OnErrorWithContext[T any](cb func(ctx context.Context, err error)) Observer[T] {
	return NewObserverWithContext(
		func(context.Context, T) {},
		cb,
		dropComplete,
	)
}

// OnComplete is a partial Observer reacting to the completion signal only.
// Warning: errors are silently discarded.
func OnComplete[T any](cb func()) Observer[T] {
	return NewObserverWithContext(
		func(context.Context, T) {},
		dropError,
		func(context.Context) { cb() },
	)
}

// OnCompleteWithContext is a partial Observer reacting to the completion signal only.
// Warning: errors are silently discarded.
func OnCompleteWithContext[T any](cb func(ctx context.Context)) Observer[T] {
	return NewObserverWithContext(
		func(context.Context, T) {},
		dropError,
		cb,
	)
}

// NoopObserver discards everything it receives.
// Warning: errors are silently discarded.
func NoopObserver[T any]() Observer[T] {
	return NewObserverWithContext(
		func(context.Context, T) {},
		dropError,
		dropComplete,
	)
}

// PrintObserver dumps every signal to stdout, for debugging.
func PrintObserver[T any]() Observer[T] {
	return NewObserverWithContext(
		func(_ context.Context, value T) {
			fmt.Printf("Next: %v\n", value)
		},
		func(_ context.Context, err error) {
			fmt.Printf("Error: %s\n", err.Error())
		},
		func(_ context.Context) {
			fmt.Printf("Completed\n")
		},
	)
}
