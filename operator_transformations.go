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
	"sync/atomic"
)

// Map applies a given projection function to each value emitted by the source
// Observable, and emits the resulting values as an Observable.
func Map[T, R any](project func(item T) R) func(Observable[T]) Observable[R] {
	return MapIWithContext(func(ctx context.Context, item T, _ int64) (context.Context, R) {
		return ctx, project(item)
	})
}

// MapWithContext applies a given projection function to each value emitted by the source
// Observable, and emits the resulting values as an Observable.
func MapWithContext[T, R any](project func(ctx context.Context, item T) (context.Context, R)) func(Observable[T]) Observable[R] {
	return MapIWithContext(func(ctx context.Context, item T, _ int64) (context.Context, R) {
		return project(ctx, item)
	})
}

// MapI applies a given projection function to each value emitted by the source
// Observable, and emits the resulting values as an Observable.
func MapI[T, R any](project func(item T, index int64) R) func(Observable[T]) Observable[R] {
	return MapIWithContext(func(ctx context.Context, item T, index int64) (context.Context, R) {
		return ctx, project(item, index)
	})
}

// MapIWithContext applies a given projection function to each value emitted by the source
// Observable, and emits the resulting values as an Observable.
func MapIWithContext[T, R any](project func(ctx context.Context, item T, index int64) (context.Context, R)) func(Observable[T]) Observable[R] {
	return func(source Observable[T]) Observable[R] {
		return Lift(source, func(destination Subscriber[R]) Subscriber[T] {
			i := int64(0)

			return newOperatorSubscriber(destination, func(ctx context.Context, value T) {
				ctx, projected := project(ctx, value, i)
				i++

				destination.NextWithContext(ctx, projected)
			}, nil, nil)
		})
	}
}

// MapTo emits the given constant value on the output Observable every time the
// source Observable emits a value.
func MapTo[T, R any](value R) func(Observable[T]) Observable[R] {
	return Map(func(_ T) R {
		return value
	})
}

// Scan applies an accumulator function over the source Observable, and emits
// each intermediate result.
func Scan[T, R any](accumulator func(acc R, item T) R, seed R) func(Observable[T]) Observable[R] {
	return ScanIWithContext(func(ctx context.Context, acc R, item T, _ int64) (context.Context, R) {
		return ctx, accumulator(acc, item)
	}, seed)
}

// ScanI applies an accumulator function over the source Observable, and emits
// each intermediate result.
func ScanI[T, R any](accumulator func(acc R, item T, index int64) R, seed R) func(Observable[T]) Observable[R] {
	return ScanIWithContext(func(ctx context.Context, acc R, item T, index int64) (context.Context, R) {
		return ctx, accumulator(acc, item, index)
	}, seed)
}

// ScanIWithContext applies an accumulator function over the source Observable,
// and emits each intermediate result.
func ScanIWithContext[T, R any](accumulator func(ctx context.Context, acc R, item T, index int64) (context.Context, R), seed R) func(Observable[T]) Observable[R] {
	return func(source Observable[T]) Observable[R] {
		return Lift(source, func(destination Subscriber[R]) Subscriber[T] {
			acc := seed
			i := int64(0)

			return newOperatorSubscriber(destination, func(ctx context.Context, value T) {
				ctx, acc = accumulator(ctx, acc, value, i)
				i++

				destination.NextWithContext(ctx, acc)
			}, nil, nil)
		})
	}
}

// Flatten flattens an Observable of slices into an Observable of their elements.
func Flatten[T any]() func(Observable[[]T]) Observable[T] {
	return func(source Observable[[]T]) Observable[T] {
		return Lift(source, func(destination Subscriber[T]) Subscriber[[]T] {
			return newOperatorSubscriber(destination, func(ctx context.Context, values []T) {
				for i := range values {
					if destination.IsClosed() {
						break
					}

					destination.NextWithContext(ctx, values[i])
				}
			}, nil, nil)
		})
	}
}

/************************
 *       Group by       *
 ************************/

// GroupedObservable is an Observable carrying the key its values were grouped
// under.
type GroupedObservable[K comparable, T any] interface {
	Observable[T]

	Key() K
}

var _ GroupedObservable[string, int] = (*groupedObservableImpl[string, int])(nil)

type groupedObservableImpl[K comparable, T any] struct {
	Observable[T]
	key K
}

func (g *groupedObservableImpl[K, T]) Key() K {
	return g.key
}

// GroupBy groups the items emitted by an Observable according to a specified
// criterion, and emits these grouped items as GroupedObservables, one per key,
// the first time the key appears. Within a group, the source order is
// preserved.
//
// Cancelling the outer subscriber stops the creation of new groups, but the
// existing groups keep receiving values until their own subscribers
// unsubscribe; the source is unsubscribed when the outer and all groups are
// gone. Errors tear everything down immediately.
func GroupBy[T any, K comparable](keySelector func(item T) K) func(Observable[T]) Observable[GroupedObservable[K, T]] {
	return GroupByIWithContext(func(ctx context.Context, item T, _ int64) (context.Context, K) {
		return ctx, keySelector(item)
	})
}

// GroupByWithContext groups the items emitted by an Observable according to a
// specified criterion. See GroupBy.
func GroupByWithContext[T any, K comparable](keySelector func(ctx context.Context, item T) (context.Context, K)) func(Observable[T]) Observable[GroupedObservable[K, T]] {
	return GroupByIWithContext(func(ctx context.Context, item T, _ int64) (context.Context, K) {
		return keySelector(ctx, item)
	})
}

// GroupByI groups the items emitted by an Observable according to a specified
// criterion. See GroupBy.
func GroupByI[T any, K comparable](keySelector func(item T, index int64) K) func(Observable[T]) Observable[GroupedObservable[K, T]] {
	return GroupByIWithContext(func(ctx context.Context, item T, index int64) (context.Context, K) {
		return ctx, keySelector(item, index)
	})
}

// GroupByIWithContext groups the items emitted by an Observable according to a
// specified criterion. See GroupBy.
func GroupByIWithContext[T any, K comparable](keySelector func(ctx context.Context, item T, index int64) (context.Context, K)) func(Observable[T]) Observable[GroupedObservable[K, T]] {
	return func(source Observable[T]) Observable[GroupedObservable[K, T]] {
		return NewUnsafeObservableWithContext(func(subscriberCtx context.Context, destination Observer[GroupedObservable[K, T]]) Teardown {
			mu := sync.Mutex{}
			groups := map[K]Subject[T]{}
			i := int64(0)

			upstream := NewSerialSubscription()

			// the outer counts for one, plus each live group; the source is
			// unsubscribed when everything downstream is gone
			remaining := int32(1)

			onGroupDone := func() {
				if atomic.AddInt32(&remaining, -1) == 0 {
					upstream.Unsubscribe()
				}
			}

			notifyAll := func(cb func(Observer[T])) {
				mu.Lock()
				snapshot := make([]Subject[T], 0, len(groups))

				for _, g := range groups {
					snapshot = append(snapshot, g)
				}

				groups = map[K]Subject[T]{}
				mu.Unlock()

				for _, g := range snapshot {
					cb(g)
				}
			}

			upstream.Set(source.SubscribeWithContext(
				subscriberCtx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						ctx, key := keySelector(ctx, value, i)
						i++

						mu.Lock()

						if g, ok := groups[key]; ok {
							mu.Unlock()
							g.NextWithContext(ctx, value)

							return
						}

						if destination.IsClosed() {
							// no new groups once the outer subscriber is gone
							mu.Unlock()
							return
						}

						subject := NewUnicastSubject[T](UnicastSubjectUnlimitedBufferSize)
						groups[key] = subject
						mu.Unlock()

						atomic.AddInt32(&remaining, 1)

						var once sync.Once

						grouped := &groupedObservableImpl[K, T]{
							key: key,
							Observable: NewUnsafeObservableWithContext(func(ctx context.Context, groupDestination Observer[T]) Teardown {
								sub := subject.SubscribeWithContext(ctx, groupDestination)

								return func() {
									sub.Unsubscribe()
									once.Do(onGroupDone)
								}
							}),
						}

						subject.NextWithContext(ctx, value)
						destination.NextWithContext(ctx, grouped)
					},
					func(ctx context.Context, err error) {
						destination.ErrorWithContext(ctx, err)
						notifyAll(func(o Observer[T]) { o.ErrorWithContext(ctx, err) })
					},
					func(ctx context.Context) {
						destination.CompleteWithContext(ctx)
						notifyAll(func(o Observer[T]) { o.CompleteWithContext(ctx) })
					},
				),
			))

			return func() {
				onGroupDone()
			}
		})
	}
}

/************************
 *        Buffer        *
 ************************/

// BufferWithCount buffers the source Observable values until the buffer
// reaches the given size, then emits the buffer and starts a new one. On
// completion, a last partial buffer is emitted if non-empty.
func BufferWithCount[T any](size int) func(Observable[T]) Observable[[]T] {
	if size <= 0 {
		panic(ErrBufferWithCountWrongSize)
	}

	return func(source Observable[T]) Observable[[]T] {
		return Lift(source, func(destination Subscriber[[]T]) Subscriber[T] {
			buffer := make([]T, 0, size)

			return newOperatorSubscriber(
				destination,
				func(ctx context.Context, value T) {
					buffer = append(buffer, value)

					if len(buffer) >= size {
						full := buffer
						buffer = make([]T, 0, size)
						destination.NextWithContext(ctx, full)
					}
				},
				nil,
				func(ctx context.Context) {
					if len(buffer) > 0 {
						destination.NextWithContext(ctx, buffer)
						buffer = nil
					}

					destination.CompleteWithContext(ctx)
				},
			)
		})
	}
}
