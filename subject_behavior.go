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
)

var _ Subject[int] = (*behaviorSubjectImpl[int])(nil)

// NewBehaviorSubject creates a subject that always has a current value: the
// latest pushed one, or the given initial value before anything was pushed.
// A new subscriber receives that current value first, then the live signals.
// Once terminated, only the terminal signal is delivered to newcomers.
func NewBehaviorSubject[T any](initial T) Subject[T] {
	return &behaviorSubjectImpl[T]{
		currentCtx: context.TODO(),
		current:    initial,
	}
}

type behaviorSubjectImpl[T any] struct {
	mu       sync.Mutex
	registry observerRegistry[T]
	terminal subjectTerminal[T]

	// the latest value and the context it was pushed with
	currentCtx context.Context
	current    T
}

// Implements Observable.
func (s *behaviorSubjectImpl[T]) Subscribe(destination Observer[T]) Subscription {
	return s.SubscribeWithContext(context.Background(), destination)
}

// Implements Observable.
func (s *behaviorSubjectImpl[T]) SubscribeWithContext(subscriberCtx context.Context, destination Observer[T]) Subscription {
	subscriber := NewSubscriber(destination)

	s.mu.Lock()

	if s.terminal.done {
		s.mu.Unlock()
		s.terminal.replayTo(subscriberCtx, subscriber)

		return subscriber
	}

	// the current value is delivered under the lock, so that a concurrent
	// push cannot slip a newer value in front of it
	subscriber.NextWithContext(s.currentCtx, s.current)

	detach := s.registry.attach(subscriber)
	s.mu.Unlock()

	subscriber.Add(detach)

	return subscriber
}

func (s *behaviorSubjectImpl[T]) dispatch(ctx context.Context, notif Notification[T]) {
	s.mu.Lock()

	if s.terminal.done {
		s.mu.Unlock()
		OnDroppedNotification(ctx, notif)

		return
	}

	switch {
	case notif.IsNext():
		s.currentCtx = ctx
		s.current = notif.Value
	default:
		s.terminal.latch(ctx, notif)
	}

	observers := s.registry.snapshot()
	s.mu.Unlock()

	for i := range observers {
		notif.SendWithContext(ctx, observers[i])
	}

	if notif.IsTerminal() {
		s.registry.detachAll()
	}
}

// Implements Observer.
func (s *behaviorSubjectImpl[T]) Next(value T) {
	s.dispatch(context.Background(), NewNotificationNext(value))
}

// Implements Observer.
func (s *behaviorSubjectImpl[T]) NextWithContext(ctx context.Context, value T) {
	s.dispatch(ctx, NewNotificationNext(value))
}

// Implements Observer.
func (s *behaviorSubjectImpl[T]) Error(err error) {
	s.dispatch(context.Background(), NewNotificationError[T](err))
}

// Implements Observer.
func (s *behaviorSubjectImpl[T]) ErrorWithContext(ctx context.Context, err error) {
	s.dispatch(ctx, NewNotificationError[T](err))
}

// Implements Observer.
func (s *behaviorSubjectImpl[T]) Complete() {
	s.dispatch(context.Background(), NewNotificationComplete[T]())
}

// Implements Observer.
func (s *behaviorSubjectImpl[T]) CompleteWithContext(ctx context.Context) {
	s.dispatch(ctx, NewNotificationComplete[T]())
}

// Value returns the subject's current value: the latest pushed one, or the
// initial value before anything was pushed.
func (s *behaviorSubjectImpl[T]) Value() T {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.current
}

func (s *behaviorSubjectImpl[T]) HasObserver() bool {
	return !s.registry.empty()
}

func (s *behaviorSubjectImpl[T]) CountObservers() int {
	return s.registry.size()
}

// Implements Observer.
func (s *behaviorSubjectImpl[T]) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.terminal.done
}

// Implements Observer.
func (s *behaviorSubjectImpl[T]) HasThrown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.terminal.thrown()
}

// Implements Observer.
func (s *behaviorSubjectImpl[T]) IsCompleted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.terminal.completed()
}

func (s *behaviorSubjectImpl[T]) AsObservable() Observable[T] {
	return s
}

func (s *behaviorSubjectImpl[T]) AsObserver() Observer[T] {
	return s
}
