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
	"sync/atomic"

	"github.com/samber/rx/internal/xsync"
)

// Subscriber is an Observer that also owns a Subscription: it is the
// consumer-side handle an Observable hands back, and the shape operators are
// built from. Unsubscribing a Subscriber both latches it against further
// signals and runs the teardown chain accumulated on its Subscription.
//
// Every Observer passed to Subscribe is promoted into a Subscriber; user code
// rarely needs to build one directly.
type Subscriber[T any] interface {
	Subscription
	Observer[T]
}

// subscriber lifecycle, latched by compare-and-swap. An explicit Unsubscribe
// latches to the done state, so that the liveness flag stays a single word.
const (
	subscriberLive int32 = iota
	subscriberThrown
	subscriberDone
)

var _ Subscriber[int] = (*subscriberImpl[int])(nil)

// NewSubscriber promotes an Observer into a Subscriber. An Observer that
// already is a Subscriber is returned untouched. Delivery is serialized
// through a monitor (see NewSafeSubscriber).
func NewSubscriber[T any](destination Observer[T]) Subscriber[T] {
	return NewSafeSubscriber(destination)
}

// NewSafeSubscriber promotes an Observer into a Subscriber whose delivery is
// serialized through a monitor: concurrent producers block on each other, and
// the destination never observes interleaved callbacks. This is the mandatory
// adapter in front of any multi-producer combiner.
func NewSafeSubscriber[T any](destination Observer[T]) Subscriber[T] {
	return NewSubscriberWithConcurrencyMode(destination, ConcurrencyModeSafe)
}

// NewUnsafeSubscriber promotes an Observer into a Subscriber with no
// synchronization at all. The producer must push from one goroutine at a time.
func NewUnsafeSubscriber[T any](destination Observer[T]) Subscriber[T] {
	return NewSubscriberWithConcurrencyMode(destination, ConcurrencyModeUnsafe)
}

// NewEventuallySafeSubscriber promotes an Observer into a Subscriber that is
// safe under concurrency but sheds load instead of blocking: a value arriving
// while another is being delivered is dropped.
func NewEventuallySafeSubscriber[T any](destination Observer[T]) Subscriber[T] {
	return NewSubscriberWithConcurrencyMode(destination, ConcurrencyModeEventuallySafe)
}

// NewSubscriberWithConcurrencyMode promotes an Observer into a Subscriber with
// the given concurrency mode.
//
// It is rarely used as a public API.
func NewSubscriberWithConcurrencyMode[T any](destination Observer[T], mode ConcurrencyMode) Subscriber[T] {
	// Protect against multiple encapsulation layers.
	if subscriber, ok := destination.(Subscriber[T]); ok {
		return subscriber
	}

	s := &subscriberImpl[T]{
		Subscription: NewSubscription(nil),
		destination:  destination,
		state:        subscriberLive,
	}

	switch mode {
	case ConcurrencyModeSafe:
		s.mu = xsync.NewMutexWithLock()
		s.backpressure = BackpressureBlock
	case ConcurrencyModeUnsafe:
		s.mu = xsync.NewMutexWithoutLock()
		s.backpressure = BackpressureBlock
	case ConcurrencyModeEventuallySafe:
		s.mu = xsync.NewMutexWithLock()
		s.backpressure = BackpressureDrop
	default:
		panic("invalid concurrency mode")
	}

	// collapse the cancellation of the chain into one tree: disposing the
	// destination disposes this subscriber too
	if subscription, ok := destination.(Subscription); ok {
		subscription.Add(s.Unsubscribe)
	}

	return s
}

type subscriberImpl[T any] struct {
	Subscription
	destination Observer[T]

	// The monitor only guards the delivery into the destination. The state
	// word is read outside of it, because an Observer calling Unsubscribe or
	// IsClosed from within its own callback must not deadlock.
	mu           xsync.Mutex
	backpressure Backpressure
	state        int32
}

// deliver is the single entry point for all three signals. It serializes
// against concurrent producers, resolves the terminal race with one
// compare-and-swap, and disposes the subscription after a terminal signal.
func (s *subscriberImpl[T]) deliver(ctx context.Context, notif Notification[T]) {
	if s.destination == nil {
		return
	}

	if notif.IsNext() && s.backpressure == BackpressureDrop {
		if !s.mu.TryLock() {
			OnDroppedNotification(ctx, notif)
			return
		}
	} else {
		s.mu.Lock()
	}

	delivered := false

	switch notif.Kind {
	case KindNext:
		delivered = atomic.LoadInt32(&s.state) == subscriberLive
	case KindError:
		delivered = atomic.CompareAndSwapInt32(&s.state, subscriberLive, subscriberThrown)
	case KindComplete:
		delivered = atomic.CompareAndSwapInt32(&s.state, subscriberLive, subscriberDone)
	}

	if delivered {
		notif.SendWithContext(ctx, s.destination)
	} else {
		OnDroppedNotification(ctx, notif)
	}

	s.mu.Unlock()

	if notif.IsTerminal() {
		// idempotent, and must not run under the monitor
		s.Subscription.Unsubscribe()
	}
}

// Implements Observer.
func (s *subscriberImpl[T]) Next(value T) {
	s.deliver(context.Background(), NewNotificationNext(value))
}

// Implements Observer.
func (s *subscriberImpl[T]) NextWithContext(ctx context.Context, value T) {
	s.deliver(ctx, NewNotificationNext(value))
}

// Implements Observer.
func (s *subscriberImpl[T]) Error(err error) {
	s.deliver(context.Background(), NewNotificationError[T](err))
}

// Implements Observer.
func (s *subscriberImpl[T]) ErrorWithContext(ctx context.Context, err error) {
	s.deliver(ctx, NewNotificationError[T](err))
}

// Implements Observer.
func (s *subscriberImpl[T]) Complete() {
	s.deliver(context.Background(), NewNotificationComplete[T]())
}

// Implements Observer.
func (s *subscriberImpl[T]) CompleteWithContext(ctx context.Context) {
	s.deliver(ctx, NewNotificationComplete[T]())
}

// Implements Observer.
func (s *subscriberImpl[T]) IsClosed() bool {
	return atomic.LoadInt32(&s.state) != subscriberLive
}

// Implements Observer.
func (s *subscriberImpl[T]) HasThrown() bool {
	return atomic.LoadInt32(&s.state) == subscriberThrown
}

// Implements Observer.
func (s *subscriberImpl[T]) IsCompleted() bool {
	return atomic.LoadInt32(&s.state) == subscriberDone
}

// Implements Subscription.
func (s *subscriberImpl[T]) Unsubscribe() {
	if atomic.CompareAndSwapInt32(&s.state, subscriberLive, subscriberDone) {
		s.Subscription.Unsubscribe()
	}
}
