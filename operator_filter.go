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

// Filter emits only the values from the source Observable that satisfy the
// given predicate.
func Filter[T any](predicate func(item T) bool) func(Observable[T]) Observable[T] {
	return FilterIWithContext(func(ctx context.Context, item T, _ int64) bool {
		return predicate(item)
	})
}

// FilterWithContext emits only the values from the source Observable that
// satisfy the given predicate.
func FilterWithContext[T any](predicate func(ctx context.Context, item T) bool) func(Observable[T]) Observable[T] {
	return FilterIWithContext(func(ctx context.Context, item T, _ int64) bool {
		return predicate(ctx, item)
	})
}

// FilterI emits only the values from the source Observable that satisfy the
// given predicate.
func FilterI[T any](predicate func(item T, index int64) bool) func(Observable[T]) Observable[T] {
	return FilterIWithContext(func(ctx context.Context, item T, index int64) bool {
		return predicate(item, index)
	})
}

// FilterIWithContext emits only the values from the source Observable that
// satisfy the given predicate.
func FilterIWithContext[T any](predicate func(ctx context.Context, item T, index int64) bool) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return Lift(source, func(destination Subscriber[T]) Subscriber[T] {
			i := int64(0)

			return newOperatorSubscriber(destination, func(ctx context.Context, value T) {
				keep := predicate(ctx, value, i)
				i++

				if keep {
					destination.NextWithContext(ctx, value)
				}
			}, nil, nil)
		})
	}
}

// Distinct suppresses duplicate values: each value equal to one already seen
// is dropped.
func Distinct[T comparable]() func(Observable[T]) Observable[T] {
	return DistinctBy(func(item T) T {
		return item
	})
}

// DistinctBy suppresses values whose key has already been seen.
func DistinctBy[T any, K comparable](keySelector func(item T) K) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return Lift(source, func(destination Subscriber[T]) Subscriber[T] {
			seen := map[K]struct{}{}

			return newOperatorSubscriber(destination, func(ctx context.Context, value T) {
				key := keySelector(value)

				if _, ok := seen[key]; ok {
					return
				}

				seen[key] = struct{}{}
				destination.NextWithContext(ctx, value)
			}, nil, nil)
		})
	}
}

// IgnoreElements drops every value and only relays the terminal notification.
func IgnoreElements[T any]() func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return Lift(source, func(destination Subscriber[T]) Subscriber[T] {
			return newOperatorSubscriber[T](destination, func(ctx context.Context, value T) {}, nil, nil)
		})
	}
}

// Skip drops the first `count` values emitted by the source Observable.
func Skip[T any](count int64) func(Observable[T]) Observable[T] {
	if count < 0 {
		panic(ErrSkipWrongCount)
	}

	return FilterI(func(_ T, index int64) bool {
		return index >= count
	})
}

// SkipWhile drops values as long as the predicate holds, then emits everything.
func SkipWhile[T any](predicate func(item T) bool) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return Lift(source, func(destination Subscriber[T]) Subscriber[T] {
			skipping := true

			return newOperatorSubscriber(destination, func(ctx context.Context, value T) {
				if skipping && predicate(value) {
					return
				}

				skipping = false
				destination.NextWithContext(ctx, value)
			}, nil, nil)
		})
	}
}

// Take emits only the first `count` values emitted by the source Observable,
// then completes and unsubscribes upstream. Take(0) completes without
// observable producer side effects.
func Take[T any](count int64) func(Observable[T]) Observable[T] {
	if count < 0 {
		panic(ErrTakeWrongCount)
	}

	return func(source Observable[T]) Observable[T] {
		if count == 0 {
			return Empty[T]()
		}

		return Lift(source, func(destination Subscriber[T]) Subscriber[T] {
			taken := int64(0)

			return newOperatorSubscriber(destination, func(ctx context.Context, value T) {
				taken++

				if taken < count {
					destination.NextWithContext(ctx, value)
					return
				}

				if taken == count {
					destination.NextWithContext(ctx, value)
					// completing disposes the shared subscription, which stops
					// the producer
					destination.CompleteWithContext(ctx)
				}
			}, nil, nil)
		})
	}
}

// TakeWhile emits values as long as the predicate holds, then completes.
func TakeWhile[T any](predicate func(item T) bool) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return Lift(source, func(destination Subscriber[T]) Subscriber[T] {
			return newOperatorSubscriber(destination, func(ctx context.Context, value T) {
				if !predicate(value) {
					destination.CompleteWithContext(ctx)
					return
				}

				destination.NextWithContext(ctx, value)
			}, nil, nil)
		})
	}
}

// TakeUntil emits the values from the source Observable until the notifier
// Observable emits a value or completes, then completes.
func TakeUntil[T, S any](notifier Observable[S]) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewObservableWithContext(func(subscriberCtx context.Context, destination Observer[T]) Teardown {
			subscriptions := NewCompositeSubscription()

			subscriptions.AddSubscription(
				notifier.SubscribeWithContext(subscriberCtx, NewObserverWithContext(
					func(ctx context.Context, _ S) {
						destination.CompleteWithContext(ctx)
						subscriptions.Unsubscribe()
					},
					func(ctx context.Context, err error) {
						destination.ErrorWithContext(ctx, err)
						subscriptions.Unsubscribe()
					},
					func(ctx context.Context) {
						destination.CompleteWithContext(ctx)
						subscriptions.Unsubscribe()
					},
				)),
			)

			if !subscriptions.IsClosed() {
				subscriptions.AddSubscription(
					source.SubscribeWithContext(subscriberCtx, NewObserverWithContext(
						destination.NextWithContext,
						destination.ErrorWithContext,
						destination.CompleteWithContext,
					)),
				)
			}

			return subscriptions.Unsubscribe
		})
	}
}

// First emits only the first value emitted by the source Observable, then
// completes. If the source completes without emitting, an error is thrown.
func First[T any]() func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return Lift(source, func(destination Subscriber[T]) Subscriber[T] {
			return newOperatorSubscriber(
				destination,
				func(ctx context.Context, value T) {
					destination.NextWithContext(ctx, value)
					destination.CompleteWithContext(ctx)
				},
				nil,
				func(ctx context.Context) {
					destination.ErrorWithContext(ctx, ErrFirstEmpty)
				},
			)
		})
	}
}

// Last emits only the last value emitted by the source Observable, on
// completion. If the source completes without emitting, an error is thrown.
func Last[T any]() func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return Lift(source, func(destination Subscriber[T]) Subscriber[T] {
			var last *T

			return newOperatorSubscriber(
				destination,
				func(ctx context.Context, value T) {
					v := value
					last = &v
				},
				nil,
				func(ctx context.Context) {
					if last == nil {
						destination.ErrorWithContext(ctx, ErrLastEmpty)
						return
					}

					destination.NextWithContext(ctx, *last)
					destination.CompleteWithContext(ctx)
				},
			)
		})
	}
}

// ElementAt emits only the nth value emitted by the source Observable, then
// completes. If the source completes before reaching it, an error is thrown.
func ElementAt[T any](nth int64) func(Observable[T]) Observable[T] {
	if nth < 0 {
		panic(ErrElementAtWrongNth)
	}

	return func(source Observable[T]) Observable[T] {
		return Lift(source, func(destination Subscriber[T]) Subscriber[T] {
			i := int64(0)

			return newOperatorSubscriber(
				destination,
				func(ctx context.Context, value T) {
					if i == nth {
						destination.NextWithContext(ctx, value)
						destination.CompleteWithContext(ctx)
					}

					i++
				},
				nil,
				func(ctx context.Context) {
					destination.ErrorWithContext(ctx, ErrElementAtNotFound)
				},
			)
		})
	}
}
