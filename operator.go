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

// Operator transforms a downstream Subscriber into an upstream Subscriber. It
// is the primitive behind Lift: the upstream subscriber relays notifications
// to the downstream one, and installs its own cancellations into the
// downstream subscription so that unsubscribing the chain tears down the
// source.
type Operator[T, R any] func(destination Subscriber[R]) Subscriber[T]

// Lift builds a new Observable by interposing an Operator between the source
// and the downstream subscriber. On subscription, the downstream subscriber is
// wrapped by the operator into an upstream subscriber, then the source is
// subscribed with it. Cancellation flows upstream through the subscription
// returned by the source.
func Lift[T, R any](source Observable[T], operator Operator[T, R]) Observable[R] {
	return NewUnsafeObservableWithContext(func(ctx context.Context, destination Observer[R]) Teardown {
		down := NewSubscriber(destination)
		up := operator(down)

		sub := source.SubscribeWithContext(ctx, up)

		return sub.Unsubscribe
	})
}

var _ Subscriber[int] = (*operatorSubscriber[int, string])(nil)

// newOperatorSubscriber creates an upstream Subscriber that shares the
// downstream subscriber's subscription, collapsing the cancellation of an
// operator chain into a single tree. Nil callbacks default to forwarding the
// corresponding terminal notification downstream.
//
// A panic thrown by onNext is converted into a downstream Error and the
// shared subscription is disposed, which stops the upstream producer.
func newOperatorSubscriber[T, R any](destination Subscriber[R], onNext func(ctx context.Context, value T), onError func(ctx context.Context, err error), onComplete func(ctx context.Context)) Subscriber[T] {
	if onError == nil {
		onError = destination.ErrorWithContext
	}

	if onComplete == nil {
		onComplete = destination.CompleteWithContext
	}

	return &operatorSubscriber[T, R]{
		destination: destination,
		onNext:      onNext,
		onError:     onError,
		onComplete:  onComplete,
	}
}

type operatorSubscriber[T, R any] struct {
	destination Subscriber[R]
	onNext      func(context.Context, T)
	onError     func(context.Context, error)
	onComplete  func(context.Context)
}

// Implements Observer.
func (o *operatorSubscriber[T, R]) Next(value T) {
	o.NextWithContext(context.Background(), value)
}

// Implements Observer.
func (o *operatorSubscriber[T, R]) NextWithContext(ctx context.Context, value T) {
	if o.onNext == nil || o.destination.IsClosed() {
		OnDroppedNotification(ctx, NewNotificationNext(value))
		return
	}

	if err := catchPanic(func() { o.onNext(ctx, value) }); err != nil {
		o.destination.ErrorWithContext(ctx, newObserverError(err))
		o.destination.Unsubscribe()
	}
}

// Implements Observer.
func (o *operatorSubscriber[T, R]) Error(err error) {
	o.ErrorWithContext(context.Background(), err)
}

// Implements Observer.
func (o *operatorSubscriber[T, R]) ErrorWithContext(ctx context.Context, err error) {
	if o.destination.IsClosed() {
		OnDroppedNotification(ctx, NewNotificationError[T](err))
		return
	}

	o.onError(ctx, err)
}

// Implements Observer.
func (o *operatorSubscriber[T, R]) Complete() {
	o.CompleteWithContext(context.Background())
}

// Implements Observer.
func (o *operatorSubscriber[T, R]) CompleteWithContext(ctx context.Context) {
	if o.destination.IsClosed() {
		OnDroppedNotification(ctx, NewNotificationComplete[T]())
		return
	}

	o.onComplete(ctx)
}

// Implements Observer.
func (o *operatorSubscriber[T, R]) IsClosed() bool {
	return o.destination.IsClosed()
}

// Implements Observer.
func (o *operatorSubscriber[T, R]) HasThrown() bool {
	return o.destination.HasThrown()
}

// Implements Observer.
func (o *operatorSubscriber[T, R]) IsCompleted() bool {
	return o.destination.IsCompleted()
}

// Implements Subscription. The subscription tree is shared with the
// downstream subscriber.
func (o *operatorSubscriber[T, R]) Add(teardown Teardown) {
	o.destination.Add(teardown)
}

// Implements Subscription.
func (o *operatorSubscriber[T, R]) AddUnsubscribable(unsubscribable Unsubscribable) {
	o.destination.AddUnsubscribable(unsubscribable)
}

// Implements Subscription.
func (o *operatorSubscriber[T, R]) Unsubscribe() {
	o.destination.Unsubscribe()
}

// Implements Subscription.
func (o *operatorSubscriber[T, R]) Wait() {
	o.destination.Wait()
}
