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
	"time"

	"github.com/samber/rx/internal/xtime"
)

// ReplaySubjectUnlimitedBufferSize is the unlimited buffer size for a ReplaySubject.
const ReplaySubjectUnlimitedBufferSize = -1

// ReplayConfig bounds the history kept by a ReplaySubject. BufferSize bounds
// it by count (ReplaySubjectUnlimitedBufferSize for no bound), Window bounds
// it by age (0 for no bound). Eviction happens in insertion order.
type ReplayConfig struct {
	BufferSize int
	Window     time.Duration
}

var _ Subject[int] = (*replaySubjectImpl[int])(nil)

// NewReplaySubject creates a subject that hands its history to newcomers: a
// new subscriber first receives the retained values in order, then the live
// signals. After termination, a newcomer still receives the history, then the
// terminal signal.
func NewReplaySubject[T any](bufferSize int) Subject[T] {
	return NewReplaySubjectWithConfig[T](ReplayConfig{
		BufferSize: bufferSize,
		Window:     0,
	})
}

// NewReplaySubjectWithConfig creates a replay subject with history bounded by
// count and/or by a time window.
func NewReplaySubjectWithConfig[T any](config ReplayConfig) Subject[T] {
	if config.Window < 0 {
		panic(ErrReplaySubjectWrongWindow)
	}

	return &replaySubjectImpl[T]{
		history: []replayItem[T]{},
		limit:   config.BufferSize,
		window:  config.Window.Nanoseconds(),
	}
}

type replayItem[T any] struct {
	ctx   context.Context
	value T
	at    int64
}

type replaySubjectImpl[T any] struct {
	mu       sync.Mutex
	registry observerRegistry[T]
	terminal subjectTerminal[T]

	history []replayItem[T]
	limit   int   // max retained count, ReplaySubjectUnlimitedBufferSize for none
	window  int64 // max retained age in nanoseconds, 0 for none
}

// evict drops history that fell out of the count bound or the time window.
// Must be called with s.mu held.
func (s *replaySubjectImpl[T]) evict(now int64) {
	if s.limit != ReplaySubjectUnlimitedBufferSize && len(s.history) > s.limit {
		for i := 0; i < len(s.history)-s.limit; i++ {
			OnDroppedNotification(s.history[i].ctx, NewNotificationNext(s.history[i].value))
		}

		s.history = s.history[len(s.history)-s.limit:]
	}

	if s.window > 0 {
		cutoff := now - s.window
		i := 0

		for ; i < len(s.history) && s.history[i].at < cutoff; i++ {
			OnDroppedNotification(s.history[i].ctx, NewNotificationNext(s.history[i].value))
		}

		if i > 0 {
			s.history = s.history[i:]
		}
	}
}

// Implements Observable.
func (s *replaySubjectImpl[T]) Subscribe(destination Observer[T]) Subscription {
	return s.SubscribeWithContext(context.Background(), destination)
}

// Implements Observable.
func (s *replaySubjectImpl[T]) SubscribeWithContext(subscriberCtx context.Context, destination Observer[T]) Subscription {
	subscriber := NewSubscriber(destination)

	s.mu.Lock()

	s.evict(xtime.NowNanoMonotonic())

	// history is replayed under the lock, so that a concurrent push cannot
	// interleave with it
	for i := range s.history {
		subscriber.NextWithContext(s.history[i].ctx, s.history[i].value)
	}

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

func (s *replaySubjectImpl[T]) dispatch(ctx context.Context, notif Notification[T]) {
	s.mu.Lock()

	if s.terminal.done {
		s.mu.Unlock()
		OnDroppedNotification(ctx, notif)

		return
	}

	switch {
	case notif.IsNext():
		now := xtime.NowNanoMonotonic()
		s.history = append(s.history, replayItem[T]{ctx: ctx, value: notif.Value, at: now})
		s.evict(now)
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
func (s *replaySubjectImpl[T]) Next(value T) {
	s.dispatch(context.Background(), NewNotificationNext(value))
}

// Implements Observer.
func (s *replaySubjectImpl[T]) NextWithContext(ctx context.Context, value T) {
	s.dispatch(ctx, NewNotificationNext(value))
}

// Implements Observer.
func (s *replaySubjectImpl[T]) Error(err error) {
	s.dispatch(context.Background(), NewNotificationError[T](err))
}

// Implements Observer.
func (s *replaySubjectImpl[T]) ErrorWithContext(ctx context.Context, err error) {
	s.dispatch(ctx, NewNotificationError[T](err))
}

// Implements Observer.
func (s *replaySubjectImpl[T]) Complete() {
	s.dispatch(context.Background(), NewNotificationComplete[T]())
}

// Implements Observer.
func (s *replaySubjectImpl[T]) CompleteWithContext(ctx context.Context) {
	s.dispatch(ctx, NewNotificationComplete[T]())
}

func (s *replaySubjectImpl[T]) HasObserver() bool {
	return !s.registry.empty()
}

func (s *replaySubjectImpl[T]) CountObservers() int {
	return s.registry.size()
}

// Implements Observer.
func (s *replaySubjectImpl[T]) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.terminal.done
}

// Implements Observer.
func (s *replaySubjectImpl[T]) HasThrown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.terminal.thrown()
}

// Implements Observer.
func (s *replaySubjectImpl[T]) IsCompleted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.terminal.completed()
}

func (s *replaySubjectImpl[T]) AsObservable() Observable[T] {
	return s
}

func (s *replaySubjectImpl[T]) AsObserver() Observer[T] {
	return s
}
