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

	"github.com/samber/lo"
	"github.com/samber/rx/internal/xatomic"
)

// MergeUnlimitedConcurrency disables the concurrency cap of MergeAllWithConcurrency.
const MergeUnlimitedConcurrency = -1

// MergeWith merges the source Observable with the other Observables. Values
// are forwarded as they arrive, whichever input they come from. It completes
// when all inputs are done.
//
// It is a curried function that takes the first Observable as an argument.
func MergeWith[T any](others ...Observable[T]) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return MergeAll[T]()(Just(append([]Observable[T]{source}, others...)...))
	}
}

// MergeAll converts a higher-order Observable into a first-order Observable which
// concurrently delivers all values that are emitted on the inner Observables.
// It subscribes to each inner Observable as they arrive, and emits all values
// from each inner Observable, maintaining their per-source order. It completes
// when the outer and all inner Observables are done.
func MergeAll[T any]() func(Observable[Observable[T]]) Observable[T] {
	return MergeAllWithConcurrency[T](MergeUnlimitedConcurrency)
}

// MergeAllWithConcurrency behaves like MergeAll, but subscribes to at most
// `maxConcurrent` inner Observables at a time. Inner Observables arriving
// above the cap are queued in arrival order and subscribed as running ones
// complete. The outer completion does not terminate downstream until every
// inner completed.
//
// Downstream notifications go through a serializing subscriber, since inner
// sources may emit from different goroutines. An error from any input
// propagates immediately and cancels all the others.
func MergeAllWithConcurrency[T any](maxConcurrent int) func(Observable[Observable[T]]) Observable[T] {
	if maxConcurrent <= 0 && maxConcurrent != MergeUnlimitedConcurrency {
		panic(ErrMergeAllWrongConcurrency)
	}

	return func(sources Observable[Observable[T]]) Observable[T] {
		return NewObservableWithContext(func(subscriberCtx context.Context, destination Observer[T]) Teardown {
			subscriptions := NewCompositeSubscription()

			mu := sync.Mutex{}
			pending := []Observable[T]{}
			active := 0

			// counts the outer plus every inner that arrived and has not completed yet
			remaining := int32(1)

			var parentCtx context.Context
			var parentCtxMu sync.Mutex

			var subscribeInner func(ctx context.Context, source Observable[T])

			onInnerDone := func(ctx context.Context) {
				if atomic.AddInt32(&remaining, -1) == 0 {
					parentCtxMu.Lock()
					if parentCtx != nil {
						ctx = parentCtx
					}
					parentCtxMu.Unlock()

					destination.CompleteWithContext(ctx)

					return
				}

				mu.Lock()

				if len(pending) > 0 {
					next := pending[0]
					pending = pending[1:]
					mu.Unlock()

					subscribeInner(ctx, next)

					return
				}

				active--
				mu.Unlock()
			}

			subscribeInner = func(ctx context.Context, source Observable[T]) {
				subscriptions.AddSubscription(
					source.SubscribeWithContext(
						ctx,
						NewObserverWithContext(
							destination.NextWithContext,
							func(ctx context.Context, err error) {
								destination.ErrorWithContext(ctx, err)
								subscriptions.Unsubscribe()
							},
							onInnerDone,
						),
					),
				)
			}

			subscriptions.AddSubscription(
				sources.SubscribeWithContext(
					subscriberCtx,
					NewObserverWithContext(
						func(ctx context.Context, source Observable[T]) {
							atomic.AddInt32(&remaining, 1)

							mu.Lock()

							if maxConcurrent != MergeUnlimitedConcurrency && active >= maxConcurrent {
								pending = append(pending, source)
								mu.Unlock()

								return
							}

							active++
							mu.Unlock()

							subscribeInner(ctx, source)
						},
						func(ctx context.Context, err error) {
							destination.ErrorWithContext(ctx, err)
							subscriptions.Unsubscribe()
						},
						func(ctx context.Context) {
							parentCtxMu.Lock()
							parentCtx = ctx
							parentCtxMu.Unlock()

							if atomic.AddInt32(&remaining, -1) == 0 {
								destination.CompleteWithContext(ctx)
							}
						},
					),
				),
			)

			return subscriptions.Unsubscribe
		})
	}
}

// MergeMap applies a projection function to each item emitted by the source
// Observable and then merges the results into a single Observable.
func MergeMap[T, R any](projection func(item T) Observable[R]) func(Observable[T]) Observable[R] {
	return MergeMapIWithContext(func(ctx context.Context, item T, index int64) (context.Context, Observable[R]) {
		return ctx, projection(item)
	})
}

// MergeMapWithContext applies a projection function to each item emitted by the source
// Observable and then merges the results into a single Observable.
func MergeMapWithContext[T, R any](projection func(ctx context.Context, item T) Observable[R]) func(Observable[T]) Observable[R] {
	return MergeMapIWithContext(func(ctx context.Context, item T, _ int64) (context.Context, Observable[R]) {
		return ctx, projection(ctx, item)
	})
}

// MergeMapI applies a projection function to each item emitted by the source
// Observable and then merges the results into a single Observable.
func MergeMapI[T, R any](projection func(item T, index int64) Observable[R]) func(Observable[T]) Observable[R] {
	return MergeMapIWithContext(func(ctx context.Context, item T, index int64) (context.Context, Observable[R]) {
		return ctx, projection(item, index)
	})
}

// MergeMapIWithContext applies a projection function to each item emitted by the source
// Observable and then merges the results into a single Observable.
func MergeMapIWithContext[T, R any](projection func(ctx context.Context, item T, index int64) (context.Context, Observable[R])) func(Observable[T]) Observable[R] {
	return func(source Observable[T]) Observable[R] {
		i := int64(0)

		return MergeAll[R]()(
			NewObservableWithContext(func(subscriberCtx context.Context, destination Observer[Observable[R]]) Teardown {
				sub := source.SubscribeWithContext(
					subscriberCtx,
					NewObserverWithContext(
						func(ctx context.Context, value T) {
							destination.NextWithContext(projection(ctx, value, i))

							i++
						},
						destination.ErrorWithContext,
						destination.CompleteWithContext,
					),
				)

				return sub.Unsubscribe
			}),
		)
	}
}

// FlatMap is an alias for MergeMap.
func FlatMap[T, R any](projection func(item T) Observable[R]) func(Observable[T]) Observable[R] {
	return MergeMap(projection)
}

/************************
 *    Combine latest    *
 ************************/

// CombineLatestWith combines the values from the source Observable with the latest
// values from the other Observable. It emits each time any input emits, once
// all inputs emitted at least once. It completes when all inputs completed.
//
// It is a curried function that takes the first Observable as an argument.
func CombineLatestWith[A, B any](obsB Observable[B]) func(Observable[A]) Observable[lo.Tuple2[A, B]] {
	return CombineLatestWith1[A](obsB)
}

// CombineLatestWith1 combines the values from the source Observable with the latest
// values from the other Observable. See CombineLatestWith.
func CombineLatestWith1[A, B any](obsB Observable[B]) func(Observable[A]) Observable[lo.Tuple2[A, B]] {
	return func(obsA Observable[A]) Observable[lo.Tuple2[A, B]] {
		return NewObservableWithContext(func(subscriberCtx context.Context, destination Observer[lo.Tuple2[A, B]]) Teardown {
			subscriptions := NewCompositeSubscription()

			var valueA xatomic.Pointer[A]
			var valueB xatomic.Pointer[B]

			remaining := int32(2)

			emit := func(ctx context.Context) {
				a := valueA.Load()
				b := valueB.Load()

				if a != nil && b != nil {
					destination.NextWithContext(ctx, lo.T2(*a, *b))
				}
			}

			onError := func(ctx context.Context, err error) {
				destination.ErrorWithContext(ctx, err)
				subscriptions.Unsubscribe()
			}

			onComplete := func(ctx context.Context) {
				if atomic.AddInt32(&remaining, -1) == 0 {
					destination.CompleteWithContext(ctx)
					subscriptions.Unsubscribe()
				}
			}

			subscriptions.AddSubscription(
				obsA.SubscribeWithContext(subscriberCtx, NewObserverWithContext(
					func(ctx context.Context, v A) {
						valueA.Store(&v)
						emit(ctx)
					},
					onError,
					onComplete,
				)),
			)

			subscriptions.AddSubscription(
				obsB.SubscribeWithContext(subscriberCtx, NewObserverWithContext(
					func(ctx context.Context, v B) {
						valueB.Store(&v)
						emit(ctx)
					},
					onError,
					onComplete,
				)),
			)

			return subscriptions.Unsubscribe
		})
	}
}

// CombineLatestWith2 combines the values from the source Observable with the latest
// values from the two other Observables. See CombineLatestWith.
func CombineLatestWith2[A, B, C any](obsB Observable[B], obsC Observable[C]) func(Observable[A]) Observable[lo.Tuple3[A, B, C]] {
	return func(obsA Observable[A]) Observable[lo.Tuple3[A, B, C]] {
		return NewObservableWithContext(func(subscriberCtx context.Context, destination Observer[lo.Tuple3[A, B, C]]) Teardown {
			subscriptions := NewCompositeSubscription()

			var valueA xatomic.Pointer[A]
			var valueB xatomic.Pointer[B]
			var valueC xatomic.Pointer[C]

			remaining := int32(3)

			emit := func(ctx context.Context) {
				a := valueA.Load()
				b := valueB.Load()
				c := valueC.Load()

				if a != nil && b != nil && c != nil {
					destination.NextWithContext(ctx, lo.T3(*a, *b, *c))
				}
			}

			onError := func(ctx context.Context, err error) {
				destination.ErrorWithContext(ctx, err)
				subscriptions.Unsubscribe()
			}

			onComplete := func(ctx context.Context) {
				if atomic.AddInt32(&remaining, -1) == 0 {
					destination.CompleteWithContext(ctx)
					subscriptions.Unsubscribe()
				}
			}

			subscriptions.AddSubscription(
				obsA.SubscribeWithContext(subscriberCtx, NewObserverWithContext(
					func(ctx context.Context, v A) {
						valueA.Store(&v)
						emit(ctx)
					},
					onError,
					onComplete,
				)),
			)

			subscriptions.AddSubscription(
				obsB.SubscribeWithContext(subscriberCtx, NewObserverWithContext(
					func(ctx context.Context, v B) {
						valueB.Store(&v)
						emit(ctx)
					},
					onError,
					onComplete,
				)),
			)

			subscriptions.AddSubscription(
				obsC.SubscribeWithContext(subscriberCtx, NewObserverWithContext(
					func(ctx context.Context, v C) {
						valueC.Store(&v)
						emit(ctx)
					},
					onError,
					onComplete,
				)),
			)

			return subscriptions.Unsubscribe
		})
	}
}

// CombineLatestAll flattens an Observable of Observables: once the outer
// completes, it combines the latest values of every inner, emitting a snapshot
// slice each time any inner emits, once all of them emitted at least once.
func CombineLatestAll[T any]() func(Observable[Observable[T]]) Observable[[]T] {
	return func(sources Observable[Observable[T]]) Observable[[]T] {
		return NewObservableWithContext(func(subscriberCtx context.Context, destination Observer[[]T]) Teardown {
			subscriptions := NewCompositeSubscription()
			inners := []Observable[T]{}

			subscriptions.AddSubscription(
				sources.SubscribeWithContext(
					subscriberCtx,
					NewObserverWithContext(
						func(ctx context.Context, source Observable[T]) {
							inners = append(inners, source)
						},
						func(ctx context.Context, err error) {
							destination.ErrorWithContext(ctx, err)
							subscriptions.Unsubscribe()
						},
						func(ctx context.Context) {
							if len(inners) == 0 {
								destination.CompleteWithContext(ctx)
								return
							}

							values := make([]*xatomic.Pointer[T], len(inners))
							for i := range values {
								values[i] = new(xatomic.Pointer[T])
							}

							remaining := int32(len(inners)) //nolint:gosec

							emit := func(ctx context.Context) {
								snapshot := make([]T, len(values))

								for i := range values {
									v := values[i].Load()
									if v == nil {
										return
									}

									snapshot[i] = *v
								}

								destination.NextWithContext(ctx, snapshot)
							}

							for i := range inners {
								i := i

								subscriptions.AddSubscription(
									inners[i].SubscribeWithContext(ctx, NewObserverWithContext(
										func(ctx context.Context, v T) {
											values[i].Store(&v)
											emit(ctx)
										},
										func(ctx context.Context, err error) {
											destination.ErrorWithContext(ctx, err)
											subscriptions.Unsubscribe()
										},
										func(ctx context.Context) {
											if atomic.AddInt32(&remaining, -1) == 0 {
												destination.CompleteWithContext(ctx)
												subscriptions.Unsubscribe()
											}
										},
									)),
								)
							}
						},
					),
				),
			)

			return subscriptions.Unsubscribe
		})
	}
}

/************************
 *        Concat        *
 ************************/

// ConcatWith emits all values from the source Observable, then from the other
// Observables, sequentially: each input is subscribed only after the previous
// one completed.
//
// It is a curried function that takes the first Observable as an argument.
func ConcatWith[T any](others ...Observable[T]) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return ConcatAll[T]()(Just(append([]Observable[T]{source}, others...)...))
	}
}

// ConcatAll converts a higher-order Observable into a first-order Observable
// by subscribing the inner Observables one at a time, in arrival order. The
// hop from one inner to the next goes through a trampoline worker, so a long
// chain of synchronous inners does not grow the stack.
func ConcatAll[T any]() func(Observable[Observable[T]]) Observable[T] {
	return func(sources Observable[Observable[T]]) Observable[T] {
		return NewObservableWithContext(func(subscriberCtx context.Context, destination Observer[T]) Teardown {
			subscriptions := NewCompositeSubscription()
			serial := NewSerialSubscription()
			subscriptions.AddSubscription(serial)

			worker := Trampoline().CreateWorker()
			subscriptions.AddSubscription(worker)

			mu := sync.Mutex{}
			pending := []Observable[T]{}
			outerDone := false
			running := false

			var startNext func(ctx context.Context)

			startNext = func(ctx context.Context) {
				mu.Lock()

				if len(pending) == 0 {
					running = false
					done := outerDone
					mu.Unlock()

					if done {
						destination.CompleteWithContext(ctx)
					}

					return
				}

				next := pending[0]
				pending = pending[1:]
				running = true
				mu.Unlock()

				serial.Set(next.SubscribeWithContext(ctx, NewObserverWithContext(
					destination.NextWithContext,
					func(ctx context.Context, err error) {
						destination.ErrorWithContext(ctx, err)
						subscriptions.Unsubscribe()
					},
					func(ctx context.Context) {
						worker.Schedule(func(Worker) {
							startNext(ctx)
						})
					},
				)))
			}

			subscriptions.AddSubscription(
				sources.SubscribeWithContext(
					subscriberCtx,
					NewObserverWithContext(
						func(ctx context.Context, source Observable[T]) {
							mu.Lock()
							pending = append(pending, source)
							start := !running
							running = true
							mu.Unlock()

							if start {
								startNext(ctx)
							}
						},
						func(ctx context.Context, err error) {
							destination.ErrorWithContext(ctx, err)
							subscriptions.Unsubscribe()
						},
						func(ctx context.Context) {
							mu.Lock()
							outerDone = true
							idle := !running && len(pending) == 0
							mu.Unlock()

							if idle {
								destination.CompleteWithContext(ctx)
							}
						},
					),
				),
			)

			return subscriptions.Unsubscribe
		})
	}
}

/************************
 *   StartWith et al.   *
 ************************/

// StartWith emits the given values before the values from the source Observable.
func StartWith[T any](values ...T) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewUnsafeObservableWithContext(func(subscriberCtx context.Context, destination Observer[T]) Teardown {
			for _, v := range values {
				if destination.IsClosed() {
					break
				}

				destination.NextWithContext(subscriberCtx, v)
			}

			sub := source.SubscribeWithContext(subscriberCtx, destination)

			return sub.Unsubscribe
		})
	}
}

// EndWith emits the given values after the source Observable completes.
func EndWith[T any](values ...T) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewUnsafeObservableWithContext(func(subscriberCtx context.Context, destination Observer[T]) Teardown {
			sub := source.SubscribeWithContext(subscriberCtx, NewObserverWithContext(
				destination.NextWithContext,
				destination.ErrorWithContext,
				func(ctx context.Context) {
					for _, v := range values {
						destination.NextWithContext(ctx, v)
					}

					destination.CompleteWithContext(ctx)
				},
			))

			return sub.Unsubscribe
		})
	}
}

// Pairwise emits the previous and current values as a tuple, starting from the
// second emission.
func Pairwise[T any]() func(Observable[T]) Observable[lo.Tuple2[T, T]] {
	return func(source Observable[T]) Observable[lo.Tuple2[T, T]] {
		return Lift(source, func(destination Subscriber[lo.Tuple2[T, T]]) Subscriber[T] {
			var previous *T

			return newOperatorSubscriber(destination, func(ctx context.Context, value T) {
				if previous != nil {
					destination.NextWithContext(ctx, lo.T2(*previous, value))
				}

				v := value
				previous = &v
			}, nil, nil)
		})
	}
}

/************************
 *         Race         *
 ************************/

// RaceWith mirrors the first input Observable to emit any notification. The
// subscriptions to all the other inputs are canceled.
//
// It is a curried function that takes the first Observable as an argument.
func RaceWith[T any](others ...Observable[T]) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		sources := append([]Observable[T]{source}, others...)

		return NewObservableWithContext(func(subscriberCtx context.Context, destination Observer[T]) Teardown {
			subscriptions := NewCompositeSubscription()
			subs := make([]Subscription, len(sources))
			winner := int32(-1)

			cancelLosers := func(w int32) {
				for j := range subs {
					if int32(j) != w && subs[j] != nil { //nolint:gosec
						subs[j].Unsubscribe()
					}
				}
			}

			claim := func(i int) bool {
				if atomic.CompareAndSwapInt32(&winner, -1, int32(i)) { //nolint:gosec
					cancelLosers(int32(i)) //nolint:gosec
					return true
				}

				return atomic.LoadInt32(&winner) == int32(i) //nolint:gosec
			}

			for i := range sources {
				if atomic.LoadInt32(&winner) != -1 {
					break
				}

				i := i

				subs[i] = sources[i].SubscribeWithContext(subscriberCtx, NewObserverWithContext(
					func(ctx context.Context, v T) {
						if claim(i) {
							destination.NextWithContext(ctx, v)
						}
					},
					func(ctx context.Context, err error) {
						if claim(i) {
							destination.ErrorWithContext(ctx, err)
						}
					},
					func(ctx context.Context) {
						if claim(i) {
							destination.CompleteWithContext(ctx)
						}
					},
				))

				subscriptions.AddSubscription(subs[i])
			}

			// a winner may have emerged while later inputs were being subscribed
			if w := atomic.LoadInt32(&winner); w != -1 {
				cancelLosers(w)
			}

			return subscriptions.Unsubscribe
		})
	}
}

/************************
 *          Zip         *
 ************************/

// ZipWith combines the values from the source Observable with the values of
// the other Observable, index by index. See Zip2.
//
// It is a curried function that takes the first Observable as an argument.
func ZipWith[A, B any](obsB Observable[B]) func(Observable[A]) Observable[lo.Tuple2[A, B]] {
	return ZipWith1[A](obsB)
}

// ZipWith1 combines the values from the source Observable with the values of
// the other Observable, index by index: values are queued per input, and a
// tuple is emitted each time every queue has a head. The output completes as
// soon as a completed input's queue runs dry.
//
// Any goroutine may push; a single atomic work-in-progress counter elects one
// drainer at a time without ever losing a tick.
func ZipWith1[A, B any](obsB Observable[B]) func(Observable[A]) Observable[lo.Tuple2[A, B]] {
	return func(obsA Observable[A]) Observable[lo.Tuple2[A, B]] {
		return NewObservableWithContext(func(subscriberCtx context.Context, destination Observer[lo.Tuple2[A, B]]) Teardown {
			subscriptions := NewCompositeSubscription()

			mu := sync.Mutex{}
			queueA := []A{}
			queueB := []B{}
			doneA := false
			doneB := false

			wip := int32(0)

			tick := func(ctx context.Context) {
				if atomic.AddInt32(&wip, 1) != 1 {
					// Another goroutine owns the drain loop; it is guaranteed to
					// observe this tick through the counter.
					return
				}

				for {
					for {
						mu.Lock()

						if len(queueA) > 0 && len(queueB) > 0 {
							a := queueA[0]
							queueA = queueA[1:]
							b := queueB[0]
							queueB = queueB[1:]
							mu.Unlock()

							destination.NextWithContext(ctx, lo.T2(a, b))

							continue
						}

						finished := (doneA && len(queueA) == 0) || (doneB && len(queueB) == 0)
						mu.Unlock()

						if finished {
							destination.CompleteWithContext(ctx)
							subscriptions.Unsubscribe()
						}

						break
					}

					if atomic.AddInt32(&wip, -1) == 0 {
						return
					}
				}
			}

			onError := func(ctx context.Context, err error) {
				destination.ErrorWithContext(ctx, err)
				subscriptions.Unsubscribe()
			}

			subscriptions.AddSubscription(
				obsA.SubscribeWithContext(subscriberCtx, NewObserverWithContext(
					func(ctx context.Context, v A) {
						mu.Lock()
						queueA = append(queueA, v)
						mu.Unlock()

						tick(ctx)
					},
					onError,
					func(ctx context.Context) {
						mu.Lock()
						doneA = true
						mu.Unlock()

						tick(ctx)
					},
				)),
			)

			subscriptions.AddSubscription(
				obsB.SubscribeWithContext(subscriberCtx, NewObserverWithContext(
					func(ctx context.Context, v B) {
						mu.Lock()
						queueB = append(queueB, v)
						mu.Unlock()

						tick(ctx)
					},
					onError,
					func(ctx context.Context) {
						mu.Lock()
						doneB = true
						mu.Unlock()

						tick(ctx)
					},
				)),
			)

			return subscriptions.Unsubscribe
		})
	}
}

// ZipWith2 combines the values from the source Observable with the values of
// the two other Observables, index by index. See ZipWith1.
func ZipWith2[A, B, C any](obsB Observable[B], obsC Observable[C]) func(Observable[A]) Observable[lo.Tuple3[A, B, C]] {
	return func(obsA Observable[A]) Observable[lo.Tuple3[A, B, C]] {
		return Pipe1(
			ZipWith1[A, lo.Tuple2[B, C]](ZipWith1[B](obsC)(obsB))(obsA),
			Map(func(t lo.Tuple2[A, lo.Tuple2[B, C]]) lo.Tuple3[A, B, C] {
				return lo.T3(t.A, t.B.A, t.B.B)
			}),
		)
	}
}

// ZipAll flattens an Observable of Observables: once the outer completes, it
// combines the inner Observables index by index, emitting a slice per index.
// The output length is the length of the shortest inner.
func ZipAll[T any]() func(Observable[Observable[T]]) Observable[[]T] {
	return func(sources Observable[Observable[T]]) Observable[[]T] {
		return NewObservableWithContext(func(subscriberCtx context.Context, destination Observer[[]T]) Teardown {
			subscriptions := NewCompositeSubscription()
			inners := []Observable[T]{}

			subscriptions.AddSubscription(
				sources.SubscribeWithContext(
					subscriberCtx,
					NewObserverWithContext(
						func(ctx context.Context, source Observable[T]) {
							inners = append(inners, source)
						},
						func(ctx context.Context, err error) {
							destination.ErrorWithContext(ctx, err)
							subscriptions.Unsubscribe()
						},
						func(ctx context.Context) {
							zipSources(ctx, inners, destination, subscriptions)
						},
					),
				),
			)

			return subscriptions.Unsubscribe
		})
	}
}

// zipSources subscribes all inner observables and drains them index by index,
// with the same single-drainer tick discipline as ZipWith1.
func zipSources[T any](subscriberCtx context.Context, inners []Observable[T], destination Observer[[]T], subscriptions CompositeSubscription) {
	if len(inners) == 0 {
		destination.CompleteWithContext(subscriberCtx)
		return
	}

	mu := sync.Mutex{}
	queues := make([][]T, len(inners))
	done := make([]bool, len(inners))

	wip := int32(0)

	tick := func(ctx context.Context) {
		if atomic.AddInt32(&wip, 1) != 1 {
			return
		}

		for {
			for {
				mu.Lock()

				ready := true
				finished := false

				for i := range queues {
					if len(queues[i]) == 0 {
						ready = false

						if done[i] {
							finished = true
							break
						}
					}
				}

				if ready {
					row := make([]T, len(queues))

					for i := range queues {
						row[i] = queues[i][0]
						queues[i] = queues[i][1:]
					}

					mu.Unlock()

					destination.NextWithContext(ctx, row)

					continue
				}

				mu.Unlock()

				if finished {
					destination.CompleteWithContext(ctx)
					subscriptions.Unsubscribe()
				}

				break
			}

			if atomic.AddInt32(&wip, -1) == 0 {
				return
			}
		}
	}

	for i := range inners {
		i := i

		subscriptions.AddSubscription(
			inners[i].SubscribeWithContext(subscriberCtx, NewObserverWithContext(
				func(ctx context.Context, v T) {
					mu.Lock()
					queues[i] = append(queues[i], v)
					mu.Unlock()

					tick(ctx)
				},
				func(ctx context.Context, err error) {
					destination.ErrorWithContext(ctx, err)
					subscriptions.Unsubscribe()
				},
				func(ctx context.Context) {
					mu.Lock()
					done[i] = true
					mu.Unlock()

					tick(ctx)
				},
			)),
		)
	}
}
