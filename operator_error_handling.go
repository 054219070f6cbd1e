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
	"time"
)

// Catch intercepts an error notification from the source Observable and
// continues with the Observable returned by the selector.
func Catch[T any](selector func(err error) Observable[T]) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewUnsafeObservableWithContext(func(subscriberCtx context.Context, destination Observer[T]) Teardown {
			serial := NewSerialSubscription()

			serial.Set(source.SubscribeWithContext(subscriberCtx, NewObserverWithContext(
				destination.NextWithContext,
				func(ctx context.Context, err error) {
					serial.Set(selector(err).SubscribeWithContext(ctx, destination))
				},
				destination.CompleteWithContext,
			)))

			return serial.Unsubscribe
		})
	}
}

// OnErrorResumeNextWith continues with the given fallback Observable when the
// source errors, discarding the error.
func OnErrorResumeNextWith[T any](fallback Observable[T]) func(Observable[T]) Observable[T] {
	return Catch(func(_ error) Observable[T] {
		return fallback
	})
}

// OnErrorReturn emits the value produced from the error, then completes, when
// the source errors.
func OnErrorReturn[T any](selector func(err error) T) func(Observable[T]) Observable[T] {
	return Catch(func(err error) Observable[T] {
		return Just(selector(err))
	})
}

// Retry resubscribes to the source observable when it encounters an error.
// It will retry infinitely. If you want to limit the number of retries, use
// RetryWithConfig.
func Retry[T any]() func(Observable[T]) Observable[T] {
	return RetryWithConfig[T](RetryConfig{
		MaxRetries:     0,     // unlimited
		Delay:          0,     // disabled
		ResetOnSuccess: false, // disabled because it retries infinitely
	})
}

// RetryConfig is the configuration for the Retry operator.
type RetryConfig struct {
	MaxRetries     uint64
	Delay          time.Duration
	ResetOnSuccess bool
}

// RetryWithConfig resubscribes to the source observable when it encounters
// an error. If a max number of retries is set, it will retry until the max
// number of retries is reached. If a delay is set, it will wait before retrying.
// If ResetOnSuccess is set, it will reset the number of retries when a value is
// emitted.
//
// Resubscription goes through a trampoline worker: a source failing
// synchronously is retried iteratively, without growing the stack.
func RetryWithConfig[T any](opts RetryConfig) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewUnsafeObservableWithContext(func(subscriberCtx context.Context, destination Observer[T]) Teardown {
			worker := Trampoline().CreateWorker()
			serial := NewSerialSubscription()
			retries := uint64(0)

			var resubscribe Action

			resubscribe = func(w Worker) {
				if serial.IsClosed() {
					return
				}

				serial.Set(source.SubscribeWithContext(subscriberCtx, NewObserverWithContext(
					func(ctx context.Context, value T) {
						if opts.ResetOnSuccess {
							retries = 0
						}

						destination.NextWithContext(ctx, value)
					},
					func(ctx context.Context, err error) {
						retries++

						if opts.MaxRetries != 0 && retries > opts.MaxRetries {
							destination.ErrorWithContext(ctx, err)
							return
						}

						if opts.Delay > 0 {
							w.ScheduleWithDelay(resubscribe, opts.Delay)
						} else {
							w.Schedule(resubscribe)
						}
					},
					destination.CompleteWithContext,
				)))
			}

			worker.Schedule(resubscribe)

			return func() {
				serial.Unsubscribe()
				worker.Unsubscribe()
			}
		})
	}
}

// ThrowIfEmpty throws the error built by the given callback if the source
// completes without emitting any value.
func ThrowIfEmpty[T any](throw func() error) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return Lift(source, func(destination Subscriber[T]) Subscriber[T] {
			empty := true

			return newOperatorSubscriber(
				destination,
				func(ctx context.Context, value T) {
					empty = false
					destination.NextWithContext(ctx, value)
				},
				nil,
				func(ctx context.Context) {
					if empty {
						destination.ErrorWithContext(ctx, throw())
						return
					}

					destination.CompleteWithContext(ctx)
				},
			)
		})
	}
}
