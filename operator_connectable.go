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

// ShareConfig is the configuration for the Share operator.
type ShareConfig[T any] struct {
	Connector           func() Subject[T]
	ResetOnError        bool
	ResetOnComplete     bool
	ResetOnRefCountZero bool
}

// Share multicasts the source through a subject, reference-counted: the first
// subscriber connects the source, later subscribers piggyback on the same
// connection, and the last one leaving disconnects it. With the default
// configuration everything resets on error, completion and on the count
// reaching zero, so a fresh subscriber restarts the source from scratch.
func Share[T any]() func(Observable[T]) Observable[T] {
	return ShareWithConfig(ShareConfig[T]{
		Connector:           defaultConnector[T],
		ResetOnError:        true,
		ResetOnComplete:     true,
		ResetOnRefCountZero: true,
	})
}

// ShareWithConfig multicasts the source through the subject built by
// `Connector`. The three reset flags decide whether a later subscriber
// restarts the source after an error, after a completion, and after the
// reference count dropped to zero.
func ShareWithConfig[T any](config ShareConfig[T]) func(Observable[T]) Observable[T] {
	if config.Connector == nil {
		panic(ErrConnectableObservableMissingConnectorFactory)
	}

	return func(source Observable[T]) Observable[T] {
		state := &shareState[T]{}

		return NewObservableWithContext(func(subscriberCtx context.Context, destination Observer[T]) Teardown {
			subject, connection, fresh := state.acquire(config.Connector)

			// attach the newcomer before the source can emit anything
			sub := subject.SubscribeWithContext(subscriberCtx, destination)

			if fresh {
				// a proxy observer sits between source and subject to observe
				// the terminal signals and apply the reset policy
				proxy := NewSubscriber(NewObserverWithContext(
					subject.NextWithContext,
					func(ctx context.Context, err error) {
						state.invalidate(subject, connection, config.ResetOnError)
						subject.ErrorWithContext(ctx, err)
					},
					func(ctx context.Context) {
						state.invalidate(subject, connection, config.ResetOnComplete)
						subject.CompleteWithContext(ctx)
					},
				))

				connection.AddUnsubscribable(source.SubscribeWithContext(subscriberCtx, proxy))
			}

			return func() {
				sub.Unsubscribe()
				state.release(subject, connection, config.ResetOnRefCountZero)
			}
		})
	}
}

// shareState is the mutable heart of one shared pipeline: the current subject,
// the current connection to the source, and the subscriber count.
type shareState[T any] struct {
	mu         sync.Mutex
	subject    Subject[T]
	connection Subscription
	observers  int

	// stopped marks a terminal outcome that the configuration chose NOT to
	// reset: the count dropping to zero must then leave the state alone, so
	// late subscribers keep receiving the retained outcome.
	stopped bool
}

// acquire bumps the reference count and returns the current generation,
// building a fresh one when none is live. The third result reports whether
// this caller owns the source connection.
func (s *shareState[T]) acquire(connector func() Subject[T]) (Subject[T], Subscription, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.observers++

	if s.subject == nil || s.connection == nil {
		s.subject = connector()
		s.connection = NewSubscription(nil)
		s.stopped = false

		return s.subject, s.connection, true
	}

	return s.subject, s.connection, false
}

// invalidate applies the terminal reset policy for one generation.
func (s *shareState[T]) invalidate(subject Subject[T], connection Subscription, reset bool) {
	s.mu.Lock()

	if reset {
		s.drop(subject, connection)
	} else {
		s.stopped = true
	}

	s.mu.Unlock()
}

// release drops the reference count and, when asked to, tears the generation
// down once nobody is left.
func (s *shareState[T]) release(subject Subject[T], connection Subscription, resetOnZero bool) {
	s.mu.Lock()

	s.observers--

	if resetOnZero && s.observers == 0 && !s.stopped {
		s.drop(subject, connection)
	}

	s.mu.Unlock()
}

// drop disconnects one generation and forgets it, unless a newer generation
// already took its place. Must be called with s.mu held.
func (s *shareState[T]) drop(subject Subject[T], connection Subscription) {
	connection.Unsubscribe()

	if s.connection == connection {
		s.connection = nil
	}

	if s.subject == subject {
		s.subject = nil
	}
}

// ShareReplayConfig is the configuration for the ShareReplay operator.
type ShareReplayConfig struct {
	ResetOnRefCountZero bool
}

// ShareReplay multicasts the source like Share, through a ReplaySubject: a
// late subscriber first catches up on the last `bufferSize` values. The
// connection survives completion and a zero reference count, so the history
// stays available.
func ShareReplay[T any](bufferSize int) func(Observable[T]) Observable[T] {
	return ShareReplayWithConfig[T](bufferSize, ShareReplayConfig{
		ResetOnRefCountZero: false,
	})
}

// ShareReplayWithConfig multicasts the source through a ReplaySubject, with
// control over the zero-reference-count behavior.
func ShareReplayWithConfig[T any](bufferSize int, config ShareReplayConfig) func(Observable[T]) Observable[T] {
	return ShareWithConfig(
		ShareConfig[T]{
			Connector: func() Subject[T] {
				return NewReplaySubject[T](bufferSize)
			},
			ResetOnError:        true,
			ResetOnComplete:     false,
			ResetOnRefCountZero: config.ResetOnRefCountZero,
		},
	)
}
