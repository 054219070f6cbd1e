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

var _ Subject[int] = (*asyncSubjectImpl[int])(nil)

// NewAsyncSubject creates a subject that stays silent until it terminates.
// On completion it emits the last pushed value (if any), then completes; on
// error it emits the error alone, discarding any pending value. The outcome
// is retained for late subscribers.
func NewAsyncSubject[T any]() Subject[T] {
	return &asyncSubjectImpl[T]{}
}

type asyncSubjectImpl[T any] struct {
	mu       sync.Mutex
	registry observerRegistry[T]
	terminal subjectTerminal[T]

	// pending last value, emitted only on completion
	lastCtx context.Context
	last    *T
}

// Implements Observable.
func (s *asyncSubjectImpl[T]) Subscribe(destination Observer[T]) Subscription {
	return s.SubscribeWithContext(context.Background(), destination)
}

// Implements Observable.
func (s *asyncSubjectImpl[T]) SubscribeWithContext(subscriberCtx context.Context, destination Observer[T]) Subscription {
	subscriber := NewSubscriber(destination)

	s.mu.Lock()

	if s.terminal.done {
		last := s.last
		lastCtx := s.lastCtx
		s.mu.Unlock()

		if s.terminal.completed() && last != nil {
			subscriber.NextWithContext(lastCtx, *last)
		}

		s.terminal.replayTo(subscriberCtx, subscriber)

		return subscriber
	}

	detach := s.registry.attach(subscriber)
	s.mu.Unlock()

	subscriber.Add(detach)

	return subscriber
}

// Implements Observer.
func (s *asyncSubjectImpl[T]) Next(value T) {
	s.NextWithContext(context.Background(), value)
}

// Implements Observer. The value is not forwarded, only remembered: it
// overwrites the previous pending value, which is discarded silently.
func (s *asyncSubjectImpl[T]) NextWithContext(ctx context.Context, value T) {
	s.mu.Lock()

	if s.terminal.done {
		s.mu.Unlock()
		OnDroppedNotification(ctx, NewNotificationNext(value))

		return
	}

	v := value
	s.last = &v
	s.lastCtx = ctx
	s.mu.Unlock()
}

// Implements Observer.
func (s *asyncSubjectImpl[T]) Error(err error) {
	s.ErrorWithContext(context.Background(), err)
}

// Implements Observer.
func (s *asyncSubjectImpl[T]) ErrorWithContext(ctx context.Context, err error) {
	notif := NewNotificationError[T](err)

	s.mu.Lock()

	if !s.terminal.latch(ctx, notif) {
		s.mu.Unlock()
		OnDroppedNotification(ctx, notif)

		return
	}

	observers := s.registry.snapshot()
	s.mu.Unlock()

	for i := range observers {
		observers[i].ErrorWithContext(ctx, err)
	}

	s.registry.detachAll()
}

// Implements Observer.
func (s *asyncSubjectImpl[T]) Complete() {
	s.CompleteWithContext(context.Background())
}

// Implements Observer. Completion is the moment the subject speaks: the
// pending value (if any) goes out first, then the completion itself.
func (s *asyncSubjectImpl[T]) CompleteWithContext(ctx context.Context) {
	notif := NewNotificationComplete[T]()

	s.mu.Lock()

	if !s.terminal.latch(ctx, notif) {
		s.mu.Unlock()
		OnDroppedNotification(ctx, notif)

		return
	}

	last := s.last
	lastCtx := s.lastCtx
	observers := s.registry.snapshot()
	s.mu.Unlock()

	for i := range observers {
		if last != nil {
			observers[i].NextWithContext(lastCtx, *last)
		}

		observers[i].CompleteWithContext(ctx)
	}

	s.registry.detachAll()
}

func (s *asyncSubjectImpl[T]) HasObserver() bool {
	return !s.registry.empty()
}

func (s *asyncSubjectImpl[T]) CountObservers() int {
	return s.registry.size()
}

// Implements Observer.
func (s *asyncSubjectImpl[T]) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.terminal.done
}

// Implements Observer.
func (s *asyncSubjectImpl[T]) HasThrown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.terminal.thrown()
}

// Implements Observer.
func (s *asyncSubjectImpl[T]) IsCompleted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.terminal.completed()
}

func (s *asyncSubjectImpl[T]) AsObservable() Observable[T] {
	return s
}

func (s *asyncSubjectImpl[T]) AsObserver() Observer[T] {
	return s
}
