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
	"time"

	"github.com/samber/lo"
)

// Tap runs side effects for each notification of the source Observable,
// without altering the stream.
func Tap[T any](onNext func(value T), onError func(err error), onComplete func()) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return Lift(source, func(destination Subscriber[T]) Subscriber[T] {
			return newOperatorSubscriber(
				destination,
				func(ctx context.Context, value T) {
					onNext(value)
					destination.NextWithContext(ctx, value)
				},
				func(ctx context.Context, err error) {
					onError(err)
					destination.ErrorWithContext(ctx, err)
				},
				func(ctx context.Context) {
					onComplete()
					destination.CompleteWithContext(ctx)
				},
			)
		})
	}
}

// Do is an alias for Tap.
func Do[T any](onNext func(value T), onError func(err error), onComplete func()) func(Observable[T]) Observable[T] {
	return Tap(onNext, onError, onComplete)
}

// TapOnNext runs a side effect for each value of the source Observable.
func TapOnNext[T any](onNext func(value T)) func(Observable[T]) Observable[T] {
	return Tap(onNext, func(error) {}, func() {})
}

// TapOnError runs a side effect for the error notification of the source Observable.
func TapOnError[T any](onError func(err error)) func(Observable[T]) Observable[T] {
	return Tap(func(T) {}, onError, func() {})
}

// TapOnComplete runs a side effect for the completion notification of the source Observable.
func TapOnComplete[T any](onComplete func()) func(Observable[T]) Observable[T] {
	return Tap(func(T) {}, func(error) {}, onComplete)
}

// DoOnSubscribe runs a side effect each time the Observable is subscribed.
func DoOnSubscribe[T any](cb func()) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewUnsafeObservableWithContext(func(subscriberCtx context.Context, destination Observer[T]) Teardown {
			cb()

			sub := source.SubscribeWithContext(subscriberCtx, destination)

			return sub.Unsubscribe
		})
	}
}

// DoOnFinalize runs a side effect when the subscription is disposed, whether
// by termination or cancellation.
func DoOnFinalize[T any](cb func()) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewUnsafeObservableWithContext(func(subscriberCtx context.Context, destination Observer[T]) Teardown {
			sub := source.SubscribeWithContext(subscriberCtx, destination)

			return func() {
				sub.Unsubscribe()
				cb()
			}
		})
	}
}

/************************
 *         Delay        *
 ************************/

// Delay shifts each notification of the source Observable by the given
// duration, preserving their order.
func Delay[T any](duration time.Duration) func(Observable[T]) Observable[T] {
	return DelayOn[T](duration, Goroutine())
}

// DelayOn shifts each notification of the source Observable by the given
// duration, measured on the given Scheduler. All re-emissions happen on a
// single worker, so the input order is preserved.
func DelayOn[T any](duration time.Duration, scheduler Scheduler) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewObservableWithContext(func(subscriberCtx context.Context, destination Observer[T]) Teardown {
			worker := scheduler.CreateWorker()

			mu := sync.Mutex{}
			queue := []lo.Tuple2[context.Context, Notification[T]]{}

			consume := func(Worker) {
				mu.Lock()

				if len(queue) == 0 {
					mu.Unlock()
					return
				}

				first := queue[0]
				queue = queue[1:]
				mu.Unlock()

				first.B.SendWithContext(first.A, destination)
			}

			produce := func(ctx context.Context, notif Notification[T]) {
				mu.Lock()
				queue = append(queue, lo.T2(ctx, notif))
				mu.Unlock()

				worker.ScheduleWithDelay(consume, duration)
			}

			sub := source.SubscribeWithContext(
				subscriberCtx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						produce(ctx, NewNotificationNext(value))
					},
					func(ctx context.Context, err error) {
						produce(ctx, NewNotificationError[T](err))
					},
					func(ctx context.Context) {
						produce(ctx, NewNotificationComplete[T]())
					},
				),
			)

			return func() {
				sub.Unsubscribe()
				worker.Unsubscribe()

				mu.Lock()
				queue = nil
				mu.Unlock()
			}
		})
	}
}

/************************
 *        Timeout       *
 ************************/

// TimeoutConfig is the configuration for the TimeoutWithConfig operator.
// Fallback, when set, is subscribed instead of erroring when the window
// expires. Scheduler defaults to the goroutine scheduler; a
// VirtualTimeScheduler makes the operator deterministic in tests.
type TimeoutConfig[T any] struct {
	Duration  time.Duration
	Fallback  Observable[T]
	Scheduler Scheduler
}

// Timeout raises an error if the source Observable does not emit any item
// within the given duration. The window restarts after every emission.
func Timeout[T any](duration time.Duration) func(Observable[T]) Observable[T] {
	return TimeoutWithConfig(TimeoutConfig[T]{
		Duration: duration,
	})
}

// TimeoutWithFallback switches to the fallback Observable if the source does
// not emit any item within the given duration.
func TimeoutWithFallback[T any](duration time.Duration, fallback Observable[T]) func(Observable[T]) Observable[T] {
	return TimeoutWithConfig(TimeoutConfig[T]{
		Duration: duration,
		Fallback: fallback,
	})
}

// TimeoutWithConfig raises an error or switches to a fallback if the source
// Observable stays silent for longer than the configured window.
//
// The timer and the upstream race under a monitor: whichever terminates first
// wins, the loser is dropped. A fresh window is armed on subscription and
// after each value.
func TimeoutWithConfig[T any](config TimeoutConfig[T]) func(Observable[T]) Observable[T] {
	if config.Duration <= 0 {
		panic(ErrTimeoutWrongDuration)
	}

	return func(source Observable[T]) Observable[T] {
		return NewObservableWithContext(func(subscriberCtx context.Context, destination Observer[T]) Teardown {
			scheduler := config.Scheduler
			if scheduler == nil {
				scheduler = Goroutine()
			}

			worker := scheduler.CreateWorker()

			mu := sync.Mutex{}
			terminated := false
			seen := uint64(0)

			timer := NewSerialSubscription()
			upstream := NewSerialSubscription()
			fallback := NewSerialSubscription()

			arm := func(ctx context.Context) {
				mu.Lock()
				expected := seen
				mu.Unlock()

				timer.Set(worker.ScheduleWithDelay(func(Worker) {
					mu.Lock()

					if terminated || seen != expected {
						mu.Unlock()
						return
					}

					terminated = true
					mu.Unlock()

					upstream.Unsubscribe()

					if config.Fallback != nil {
						fallback.Set(config.Fallback.SubscribeWithContext(ctx, destination))
						return
					}

					destination.ErrorWithContext(ctx, newTimeoutError(config.Duration))
				}, config.Duration))
			}

			arm(subscriberCtx)

			upstream.Set(source.SubscribeWithContext(
				subscriberCtx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						mu.Lock()

						if terminated {
							mu.Unlock()
							OnDroppedNotification(ctx, NewNotificationNext(value))

							return
						}

						seen++
						mu.Unlock()

						destination.NextWithContext(ctx, value)
						arm(ctx)
					},
					func(ctx context.Context, err error) {
						mu.Lock()

						if terminated {
							mu.Unlock()
							OnDroppedNotification(ctx, NewNotificationError[T](err))

							return
						}

						terminated = true
						mu.Unlock()

						timer.Unsubscribe()
						destination.ErrorWithContext(ctx, err)
					},
					func(ctx context.Context) {
						mu.Lock()

						if terminated {
							mu.Unlock()
							OnDroppedNotification(ctx, NewNotificationComplete[T]())

							return
						}

						terminated = true
						mu.Unlock()

						timer.Unsubscribe()
						destination.CompleteWithContext(ctx)
					},
				),
			))

			return func() {
				mu.Lock()
				terminated = true
				mu.Unlock()

				timer.Unsubscribe()
				upstream.Unsubscribe()
				fallback.Unsubscribe()
				worker.Unsubscribe()
			}
		})
	}
}

// TimeoutWhen bounds the silence after each item with a window produced by the
// selector: the timeout fires when the window Observable emits or completes
// before the next item arrives.
func TimeoutWhen[T, U any](selector func(item T, index int64) Observable[U]) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewObservableWithContext(func(subscriberCtx context.Context, destination Observer[T]) Teardown {
			mu := sync.Mutex{}
			terminated := false
			seen := uint64(0)
			i := int64(0)

			window := NewSerialSubscription()
			upstream := NewSerialSubscription()

			fire := func(ctx context.Context, expected uint64, err error) {
				mu.Lock()

				if terminated || seen != expected {
					mu.Unlock()
					return
				}

				terminated = true
				mu.Unlock()

				upstream.Unsubscribe()

				if err == nil {
					err = newTimeoutError(0)
				}

				destination.ErrorWithContext(ctx, err)
			}

			arm := func(ctx context.Context, value T) {
				mu.Lock()
				expected := seen
				index := i
				i++
				mu.Unlock()

				window.Set(selector(value, index).SubscribeWithContext(ctx, NewObserverWithContext(
					func(ctx context.Context, _ U) {
						fire(ctx, expected, nil)
					},
					func(ctx context.Context, err error) {
						fire(ctx, expected, err)
					},
					func(ctx context.Context) {
						fire(ctx, expected, nil)
					},
				)))
			}

			upstream.Set(source.SubscribeWithContext(
				subscriberCtx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						mu.Lock()

						if terminated {
							mu.Unlock()
							OnDroppedNotification(ctx, NewNotificationNext(value))

							return
						}

						seen++
						mu.Unlock()

						// arming the next window disposes the previous one
						destination.NextWithContext(ctx, value)
						arm(ctx, value)
					},
					func(ctx context.Context, err error) {
						mu.Lock()

						if terminated {
							mu.Unlock()
							OnDroppedNotification(ctx, NewNotificationError[T](err))

							return
						}

						terminated = true
						mu.Unlock()

						destination.ErrorWithContext(ctx, err)
					},
					func(ctx context.Context) {
						mu.Lock()

						if terminated {
							mu.Unlock()
							OnDroppedNotification(ctx, NewNotificationComplete[T]())

							return
						}

						terminated = true
						mu.Unlock()

						destination.CompleteWithContext(ctx)
					},
				),
			))

			return func() {
				mu.Lock()
				terminated = true
				mu.Unlock()

				window.Unsubscribe()
				upstream.Unsubscribe()
			}
		})
	}
}

/************************
 *      Materialize     *
 ************************/

// Materialize converts the source Observable into a stream of Notification
// instances, terminated by a completion.
func Materialize[T any]() func(Observable[T]) Observable[Notification[T]] {
	return func(source Observable[T]) Observable[Notification[T]] {
		return NewUnsafeObservableWithContext(func(subscriberCtx context.Context, destination Observer[Notification[T]]) Teardown {
			sub := source.SubscribeWithContext(subscriberCtx, NewObserverWithContext(
				func(ctx context.Context, value T) {
					destination.NextWithContext(ctx, NewNotificationNext(value))
				},
				func(ctx context.Context, err error) {
					destination.NextWithContext(ctx, NewNotificationError[T](err))
					destination.CompleteWithContext(ctx)
				},
				func(ctx context.Context) {
					destination.NextWithContext(ctx, NewNotificationComplete[T]())
					destination.CompleteWithContext(ctx)
				},
			))

			return sub.Unsubscribe
		})
	}
}

// Dematerialize converts a stream of Notification instances back into the
// notifications themselves.
func Dematerialize[T any]() func(Observable[Notification[T]]) Observable[T] {
	return func(source Observable[Notification[T]]) Observable[T] {
		return NewUnsafeObservableWithContext(func(subscriberCtx context.Context, destination Observer[T]) Teardown {
			sub := source.SubscribeWithContext(subscriberCtx, NewObserverWithContext(
				func(ctx context.Context, notif Notification[T]) {
					notif.SendWithContext(ctx, destination)
				},
				destination.ErrorWithContext,
				destination.CompleteWithContext,
			))

			return sub.Unsubscribe
		})
	}
}

/************************
 *  Observe/SubscribeOn *
 ************************/

// SubscribeOn performs the subscription to the source Observable on a worker
// of the given Scheduler: the producer starts there instead of on the caller.
func SubscribeOn[T any](scheduler Scheduler) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewObservableWithContext(func(subscriberCtx context.Context, destination Observer[T]) Teardown {
			worker := scheduler.CreateWorker()
			serial := NewSerialSubscription()

			worker.Schedule(func(Worker) {
				serial.Set(source.SubscribeWithContext(subscriberCtx, destination))
			})

			return func() {
				serial.Unsubscribe()
				worker.Unsubscribe()
			}
		})
	}
}

// ObserveOn re-emits the notifications of the source Observable on a worker of
// the given Scheduler, preserving their order. Notifications are queued; a
// drain is scheduled whenever the queue goes from empty to non-empty, tracked
// by an atomic counter. Terminal notifications follow all preceding values.
func ObserveOn[T any](scheduler Scheduler) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewObservableWithContext(func(subscriberCtx context.Context, destination Observer[T]) Teardown {
			worker := scheduler.CreateWorker()

			mu := sync.Mutex{}
			queue := []lo.Tuple2[context.Context, Notification[T]]{}
			wip := int32(0)

			var drain Action

			drain = func(Worker) {
				for {
					mu.Lock()

					if len(queue) == 0 {
						mu.Unlock()
						return
					}

					first := queue[0]
					queue = queue[1:]
					mu.Unlock()

					first.B.SendWithContext(first.A, destination)

					if atomic.AddInt32(&wip, -1) == 0 {
						return
					}
				}
			}

			produce := func(ctx context.Context, notif Notification[T]) {
				mu.Lock()
				queue = append(queue, lo.T2(ctx, notif))
				mu.Unlock()

				if atomic.AddInt32(&wip, 1) == 1 {
					worker.Schedule(drain)
				}
			}

			sub := source.SubscribeWithContext(
				subscriberCtx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						produce(ctx, NewNotificationNext(value))
					},
					func(ctx context.Context, err error) {
						produce(ctx, NewNotificationError[T](err))
					},
					func(ctx context.Context) {
						produce(ctx, NewNotificationComplete[T]())
					},
				),
			)

			return func() {
				sub.Unsubscribe()
				worker.Unsubscribe()
			}
		})
	}
}

/************************
 *  Buffered detaching  *
 ************************/

// SubscribeOnBuffered moves the upstream production to a dedicated goroutine,
// decoupled from the consumer through a bounded channel.
func SubscribeOnBuffered[T any](bufferSize int) func(Observable[T]) Observable[T] {
	if bufferSize <= 0 {
		panic(ErrSubscribeOnBufferedWrongBufferSize)
	}

	return detachOn[T](bufferSize, true, false)
}

// ObserveOnBuffered moves the downstream consumption to a dedicated goroutine,
// decoupled from the producer through a bounded channel. Once the buffer
// reaches its capacity, upstream emissions block until space becomes
// available.
func ObserveOnBuffered[T any](bufferSize int) func(Observable[T]) Observable[T] {
	if bufferSize <= 0 {
		panic(ErrObserveOnBufferedWrongBufferSize)
	}

	return detachOn[T](bufferSize, false, true)
}

func detachOn[T any](bufferSize int, onUpstream, onDownstream bool) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewObservableWithContext(func(subscriberCtx context.Context, destination Observer[T]) Teardown {
			ch := make(chan lo.Tuple2[context.Context, Notification[T]], bufferSize)

			once := sync.Once{}
			stop := func() {
				once.Do(func() {
					close(ch)
				})
			}

			subscriptions := NewCompositeSubscription()

			consumeUpstream := func() {
				subscriptions.AddSubscription(
					source.SubscribeWithContext(
						subscriberCtx,
						NewObserverWithContext(
							func(ctx context.Context, value T) {
								ch <- lo.T2(ctx, NewNotificationNext(value))
							},
							func(ctx context.Context, err error) {
								ch <- lo.T2(ctx, NewNotificationError[T](err))

								stop()
							},
							func(ctx context.Context) {
								ch <- lo.T2(ctx, NewNotificationComplete[T]())

								stop()
							},
						),
					),
				)
			}

			produceDownstream := func() {
				for notification := range ch {
					notification.B.SendWithContext(notification.A, destination)
				}
			}

			// The goroutine could be used either on producer or consumer side.
			// 	* ObserveOnBuffered moves the goroutine on the consumer side.
			// 	* SubscribeOnBuffered moves the goroutine on the producer side.

			switch {
			case onUpstream:
				go recoverUnhandledError(func() {
					consumeUpstream()
				})

				produceDownstream()
			case onDownstream:
				go recoverUnhandledError(func() {
					produceDownstream()
				})

				consumeUpstream()
			default:
				panic(ErrDetachOnWrongMode)
			}

			return func() {
				subscriptions.Unsubscribe()
				stop()
			}
		})
	}
}

// Serialize ensures thread-safe message passing by wrapping any observable in
// a serializing subscriber.
func Serialize[T any]() func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewSafeObservableWithContext(func(subscriberCtx context.Context, destination Observer[T]) Teardown {
			sub := source.SubscribeWithContext(subscriberCtx, destination)
			return sub.Unsubscribe
		})
	}
}
