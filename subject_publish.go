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

var _ Subject[int] = (*publishSubjectImpl[int])(nil)

// NewPublishSubject creates the plain fanout subject: a subscriber receives
// exactly the signals pushed after it attached, nothing prior. The terminal
// signal is the one exception — it is replayed to late subscribers.
func NewPublishSubject[T any]() Subject[T] {
	return &publishSubjectImpl[T]{}
}

type publishSubjectImpl[T any] struct {
	mu       sync.Mutex
	registry observerRegistry[T]
	terminal subjectTerminal[T]
}

// Implements Observable.
func (s *publishSubjectImpl[T]) Subscribe(destination Observer[T]) Subscription {
	return s.SubscribeWithContext(context.Background(), destination)
}

// Implements Observable.
func (s *publishSubjectImpl[T]) SubscribeWithContext(subscriberCtx context.Context, destination Observer[T]) Subscription {
	subscriber := NewSubscriber(destination)

	s.mu.Lock()

	if s.terminal.done {
		s.mu.Unlock()
		s.terminal.replayTo(subscriberCtx, subscriber)

		return subscriber
	}

	detach := s.registry.attach(subscriber)
	s.mu.Unlock()

	subscriber.Add(detach)

	return subscriber
}

// dispatch pushes one signal through the subject: the state transition and
// the observer snapshot happen under the lock, the fanout after it.
func (s *publishSubjectImpl[T]) dispatch(ctx context.Context, notif Notification[T]) {
	s.mu.Lock()

	if s.terminal.done {
		s.mu.Unlock()
		OnDroppedNotification(ctx, notif)

		return
	}

	if notif.IsTerminal() {
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
func (s *publishSubjectImpl[T]) Next(value T) {
	s.dispatch(context.Background(), NewNotificationNext(value))
}

// Implements Observer.
func (s *publishSubjectImpl[T]) NextWithContext(ctx context.Context, value T) {
	s.dispatch(ctx, NewNotificationNext(value))
}

// Implements Observer.
func (s *publishSubjectImpl[T]) Error(err error) {
	s.dispatch(context.Background(), NewNotificationError[T](err))
}

// Implements Observer.
func (s *publishSubjectImpl[T]) ErrorWithContext(ctx context.Context, err error) {
	s.dispatch(ctx, NewNotificationError[T](err))
}

// Implements Observer.
func (s *publishSubjectImpl[T]) Complete() {
	s.dispatch(context.Background(), NewNotificationComplete[T]())
}

// Implements Observer.
func (s *publishSubjectImpl[T]) CompleteWithContext(ctx context.Context) {
	s.dispatch(ctx, NewNotificationComplete[T]())
}

func (s *publishSubjectImpl[T]) HasObserver() bool {
	return !s.registry.empty()
}

func (s *publishSubjectImpl[T]) CountObservers() int {
	return s.registry.size()
}

// Implements Observer.
func (s *publishSubjectImpl[T]) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.terminal.done
}

// Implements Observer.
func (s *publishSubjectImpl[T]) HasThrown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.terminal.thrown()
}

// Implements Observer.
func (s *publishSubjectImpl[T]) IsCompleted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.terminal.completed()
}

func (s *publishSubjectImpl[T]) AsObservable() Observable[T] {
	return s
}

func (s *publishSubjectImpl[T]) AsObserver() Observer[T] {
	return s
}
