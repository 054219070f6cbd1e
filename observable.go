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
)

// Observable is a lazy, immutable description of a producer: a subscribe
// function wrapped in metadata. Nothing runs until an Observer subscribes,
// and each subscription triggers the producer anew — Observables are cold by
// default, hot variants are realized via Subjects.
//
// Toward one subscriber a producer may emit any number of values, then at
// most one error or one completion, synchronously or not. An Observable is
// not a stream; it is a factory for streams.
type Observable[T any] interface {
	// Subscribe attaches an Observer to the producer and returns the
	// Subscription that cancels this particular execution. The Subscription
	// may already be disposed when Subscribe returns, if the producer
	// terminated synchronously.
	Subscribe(destination Observer[T]) Subscription
	SubscribeWithContext(ctx context.Context, destination Observer[T]) Subscription
}

var _ Observable[int] = (*observableImpl[int])(nil)

// NewObservable wraps a producer function into an Observable. On every
// subscription the function receives a fresh destination Observer; it may
// push values to it and must stop pushing once `destination.IsClosed()`
// reports true, which producers are expected to check between emissions.
//
// The optional Teardown returned by the producer is installed into the
// subscription and runs on cancellation or termination. Return nil when
// there is nothing to release.
//
// Downstream delivery is serialized through a monitor (the safe mode).
func NewObservable[T any](subscribe func(destination Observer[T]) Teardown) Observable[T] {
	return NewSafeObservable(subscribe)
}

// NewSafeObservable is NewObservable with an explicit name: downstream
// notifications are serialized, so the producer may push from several
// goroutines.
func NewSafeObservable[T any](subscribe func(destination Observer[T]) Teardown) Observable[T] {
	return NewObservableWithConcurrencyMode(dropSubscribeContext(subscribe), ConcurrencyModeSafe)
}

// NewUnsafeObservable is NewObservable without downstream synchronization:
// cheaper, but the producer must push from a single goroutine at a time.
func NewUnsafeObservable[T any](subscribe func(destination Observer[T]) Teardown) Observable[T] {
	return NewObservableWithConcurrencyMode(dropSubscribeContext(subscribe), ConcurrencyModeUnsafe)
}

// NewEventuallySafeObservable is NewObservable for concurrent producers that
// prefer shedding load over blocking: overlapping values are dropped.
func NewEventuallySafeObservable[T any](subscribe func(destination Observer[T]) Teardown) Observable[T] {
	return NewObservableWithConcurrencyMode(dropSubscribeContext(subscribe), ConcurrencyModeEventuallySafe)
}

// NewObservableWithContext is NewObservable with the subscriber's context
// handed to the producer.
func NewObservableWithContext[T any](subscribe func(ctx context.Context, destination Observer[T]) Teardown) Observable[T] {
	return NewObservableWithConcurrencyMode(subscribe, ConcurrencyModeSafe)
}

// NewSafeObservableWithContext is NewSafeObservable with the subscriber's
// context handed to the producer.
func NewSafeObservableWithContext[T any](subscribe func(ctx context.Context, destination Observer[T]) Teardown) Observable[T] {
	return NewObservableWithConcurrencyMode(subscribe, ConcurrencyModeSafe)
}

// NewUnsafeObservableWithContext is NewUnsafeObservable with the subscriber's
// context handed to the producer.
func NewUnsafeObservableWithContext[T any](subscribe func(ctx context.Context, destination Observer[T]) Teardown) Observable[T] {
	return NewObservableWithConcurrencyMode(subscribe, ConcurrencyModeUnsafe)
}

// NewEventuallySafeObservableWithContext is NewEventuallySafeObservable with
// the subscriber's context handed to the producer.
func NewEventuallySafeObservableWithContext[T any](subscribe func(ctx context.Context, destination Observer[T]) Teardown) Observable[T] {
	return NewObservableWithConcurrencyMode(subscribe, ConcurrencyModeEventuallySafe)
}

// NewObservableWithConcurrencyMode wraps a context-aware producer function
// into an Observable with the given concurrency mode. See NewObservable.
//
// It is rarely used as a public API.
func NewObservableWithConcurrencyMode[T any](subscribe func(ctx context.Context, destination Observer[T]) Teardown, mode ConcurrencyMode) Observable[T] {
	return &observableImpl[T]{
		mode:      mode,
		subscribe: subscribe,
	}
}

func dropSubscribeContext[T any](subscribe func(destination Observer[T]) Teardown) func(ctx context.Context, destination Observer[T]) Teardown {
	return func(_ context.Context, destination Observer[T]) Teardown {
		return subscribe(destination)
	}
}

type observableImpl[T any] struct {
	mode      ConcurrencyMode
	subscribe func(ctx context.Context, destination Observer[T]) Teardown
}

// Implements Observable.
func (s *observableImpl[T]) Subscribe(destination Observer[T]) Subscription {
	return s.SubscribeWithContext(context.Background(), destination)
}

// SubscribeWithContext runs the subscribe protocol:
//
//  1. the destination is promoted into a Subscriber carrying a fresh
//     subscription, which is the returned value;
//  2. when that subscriber is already disposed, the producer is not invoked
//     at all;
//  3. otherwise the producer runs, and its teardown is installed into the
//     subscription;
//  4. a synchronous panic out of the producer is converted into an Error
//     notification, and the subscription is disposed.
//
// Implements Observable.
func (s *observableImpl[T]) SubscribeWithContext(ctx context.Context, destination Observer[T]) Subscription {
	subscriber := NewSubscriberWithConcurrencyMode(destination, s.mode)

	if subscriber.IsClosed() {
		return subscriber
	}

	err := catchPanic(func() {
		// Warning: a panic out of subscriber.Add is caught here as well.
		subscriber.Add(s.subscribe(ctx, subscriber))
	})
	if err != nil {
		subscriber.ErrorWithContext(ctx, newObservableError(err))
		subscriber.Unsubscribe()
	}

	return subscriber
}

// Collect drains an Observable into a slice, blocking until it terminates.
// On error, the values received so far are returned along with it.
func Collect[T any](obs Observable[T]) ([]T, error) {
	values, _, err := CollectWithContext(context.Background(), obs)
	return values, err
}

// CollectWithContext drains an Observable into a slice, blocking until it
// terminates. On error, the values received so far are returned along with
// it. The context returned is the one carried by the terminal notification.
func CollectWithContext[T any](ctx context.Context, obs Observable[T]) ([]T, context.Context, error) {
	values := []T{}

	var terminalCtx context.Context
	var terminalErr error

	obs.SubscribeWithContext(
		ctx,
		NewObserverWithContext(
			func(_ context.Context, value T) {
				values = append(values, value)
			},
			func(ctx context.Context, err error) {
				terminalErr = err
				terminalCtx = ctx
			},
			func(ctx context.Context) {
				terminalCtx = ctx
			},
		),
	).Wait() // Note: using .Wait() is not recommended.

	return values, terminalCtx, terminalErr
}
