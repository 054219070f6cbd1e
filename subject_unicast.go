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

// UnicastSubjectUnlimitedBufferSize is the unlimited buffer size for a UnicastSubject.
const UnicastSubjectUnlimitedBufferSize = -1

var _ Subject[int] = (*unicastSubjectImpl[int])(nil)

// NewUnicastSubject creates a single-consumer subject. While nobody is
// attached, pushed values pile up in a bounded buffer (oldest dropped first);
// the one subscriber drains that backlog on attach and then receives signals
// live. A second concurrent subscriber is rejected with an error. When the
// subject terminates before anyone attached, a late subscriber still drains
// the backlog, then receives the terminal signal.
//
// GroupBy builds its per-key groups out of unicast subjects.
func NewUnicastSubject[T any](bufferSize int) Subject[T] {
	return &unicastSubjectImpl[T]{
		backlog: []unicastItem[T]{},
		limit:   bufferSize,
	}
}

type unicastItem[T any] struct {
	ctx   context.Context
	value T
}

type unicastSubjectImpl[T any] struct {
	mu       sync.Mutex
	terminal subjectTerminal[T]

	// the single attached consumer, nil while unattached
	consumer Observer[T]

	backlog []unicastItem[T]
	limit   int
}

// Implements Observable.
func (s *unicastSubjectImpl[T]) Subscribe(destination Observer[T]) Subscription {
	return s.SubscribeWithContext(context.Background(), destination)
}

// Implements Observable.
func (s *unicastSubjectImpl[T]) SubscribeWithContext(subscriberCtx context.Context, destination Observer[T]) Subscription {
	subscriber := NewSubscriber(destination)

	s.mu.Lock()

	if s.consumer != nil && !s.terminal.done {
		s.mu.Unlock()
		subscriber.ErrorWithContext(subscriberCtx, ErrUnicastSubjectConcurrent)

		return subscriber
	}

	// drain the backlog accumulated while nobody was attached
	backlog := s.backlog
	s.backlog = []unicastItem[T]{}

	if s.terminal.done {
		s.mu.Unlock()

		for i := range backlog {
			subscriber.NextWithContext(backlog[i].ctx, backlog[i].value)
		}

		s.terminal.replayTo(subscriberCtx, subscriber)

		return subscriber
	}

	s.consumer = subscriber
	s.mu.Unlock()

	for i := range backlog {
		subscriber.NextWithContext(backlog[i].ctx, backlog[i].value)
	}

	subscriber.Add(func() {
		s.mu.Lock()
		if s.consumer == subscriber {
			s.consumer = nil
		}
		s.mu.Unlock()
	})

	return subscriber
}

// Implements Observer.
func (s *unicastSubjectImpl[T]) Next(value T) {
	s.NextWithContext(context.Background(), value)
}

// Implements Observer.
func (s *unicastSubjectImpl[T]) NextWithContext(ctx context.Context, value T) {
	s.mu.Lock()

	if s.terminal.done {
		s.mu.Unlock()
		OnDroppedNotification(ctx, NewNotificationNext(value))

		return
	}

	if consumer := s.consumer; consumer != nil {
		s.mu.Unlock()
		consumer.NextWithContext(ctx, value)

		return
	}

	s.backlog = append(s.backlog, unicastItem[T]{ctx: ctx, value: value})

	if s.limit != UnicastSubjectUnlimitedBufferSize && len(s.backlog) > s.limit {
		evicted := s.backlog[0]
		s.backlog = s.backlog[1:]
		s.mu.Unlock()
		OnDroppedNotification(evicted.ctx, NewNotificationNext(evicted.value))

		return
	}

	s.mu.Unlock()
}

// Implements Observer.
func (s *unicastSubjectImpl[T]) Error(err error) {
	s.ErrorWithContext(context.Background(), err)
}

// Implements Observer.
func (s *unicastSubjectImpl[T]) ErrorWithContext(ctx context.Context, err error) {
	s.terminate(ctx, NewNotificationError[T](err))
}

// Implements Observer.
func (s *unicastSubjectImpl[T]) Complete() {
	s.CompleteWithContext(context.Background())
}

// Implements Observer.
func (s *unicastSubjectImpl[T]) CompleteWithContext(ctx context.Context) {
	s.terminate(ctx, NewNotificationComplete[T]())
}

func (s *unicastSubjectImpl[T]) terminate(ctx context.Context, notif Notification[T]) {
	s.mu.Lock()

	if !s.terminal.latch(ctx, notif) {
		s.mu.Unlock()
		OnDroppedNotification(ctx, notif)

		return
	}

	consumer := s.consumer
	s.consumer = nil
	s.mu.Unlock()

	if consumer != nil {
		notif.SendWithContext(ctx, consumer)
	}
}

func (s *unicastSubjectImpl[T]) HasObserver() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.consumer != nil
}

func (s *unicastSubjectImpl[T]) CountObservers() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.consumer != nil {
		return 1
	}

	return 0
}

// Implements Observer.
func (s *unicastSubjectImpl[T]) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.terminal.done
}

// Implements Observer.
func (s *unicastSubjectImpl[T]) HasThrown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.terminal.thrown()
}

// Implements Observer.
func (s *unicastSubjectImpl[T]) IsCompleted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.terminal.completed()
}

func (s *unicastSubjectImpl[T]) AsObservable() Observable[T] {
	return s
}

func (s *unicastSubjectImpl[T]) AsObserver() Observer[T] {
	return s
}
