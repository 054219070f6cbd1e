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
)

// ToSlice collects all items from the observable into a slice. It is a sink
// operator so it emits a single value. It emits the slice when the source
// completes. If the source is empty, it emits an empty slice.
func ToSlice[T any]() func(Observable[T]) Observable[[]T] {
	return func(source Observable[T]) Observable[[]T] {
		return NewUnsafeObservableWithContext(func(subscriberCtx context.Context, destination Observer[[]T]) Teardown {
			slice := []T{}

			sub := source.SubscribeWithContext(
				subscriberCtx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						slice = append(slice, value)
					},
					destination.ErrorWithContext,
					func(ctx context.Context) {
						destination.NextWithContext(ctx, slice)
						destination.CompleteWithContext(ctx)
					},
				),
			)

			return sub.Unsubscribe
		})
	}
}

// ToMap collects all items from the observable into a map. It is a sink
// operator so it emits a single value. It emits the map when the source
// completes. If the source is empty, it emits an empty map.
func ToMap[T any, K comparable, V any](project func(item T) (K, V)) func(Observable[T]) Observable[map[K]V] {
	return func(source Observable[T]) Observable[map[K]V] {
		return NewUnsafeObservableWithContext(func(subscriberCtx context.Context, destination Observer[map[K]V]) Teardown {
			out := map[K]V{}

			sub := source.SubscribeWithContext(
				subscriberCtx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						k, v := project(value)
						out[k] = v
					},
					destination.ErrorWithContext,
					func(ctx context.Context) {
						destination.NextWithContext(ctx, out)
						destination.CompleteWithContext(ctx)
					},
				),
			)

			return sub.Unsubscribe
		})
	}
}

// ToChannel forwards each notification of the source Observable into a
// channel of the given capacity. The channel is emitted downstream once, then
// the output completes when the source terminates. The channel is closed
// after the terminal notification has been pushed into it.
func ToChannel[T any](size int) func(Observable[T]) Observable[<-chan Notification[T]] {
	if size < 0 {
		panic(ErrToChannelWrongSize)
	}

	return func(source Observable[T]) Observable[<-chan Notification[T]] {
		return NewObservableWithContext(func(subscriberCtx context.Context, destination Observer[<-chan Notification[T]]) Teardown {
			ch := make(chan Notification[T], size)

			once := sync.Once{}
			closeChan := func() {
				once.Do(func() {
					close(ch)
				})
			}

			subscriptions := NewSubscription(nil)

			// The upstream subscription is detached from the downstream
			// delivery of the channel, because the next operator might be
			// long-running.
			go recoverUnhandledError(func() {
				// Leaves the synchronous Next(ch) below a head start, so that
				// an empty source does not complete the downstream before it
				// received the channel.
				time.Sleep(1 * time.Millisecond)

				subscriptions.AddUnsubscribable(
					source.SubscribeWithContext(
						subscriberCtx,
						NewObserverWithContext(
							func(ctx context.Context, value T) {
								ch <- NewNotificationNext(value)
							},
							func(ctx context.Context, err error) {
								ch <- NewNotificationError[T](err)

								closeChan()
								destination.CompleteWithContext(ctx)
							},
							func(ctx context.Context) {
								ch <- NewNotificationComplete[T]()

								closeChan()
								destination.CompleteWithContext(ctx)
							},
						),
					),
				)
			})

			destination.NextWithContext(context.TODO(), ch)

			return func() {
				subscriptions.Unsubscribe()
				closeChan()
			}
		})
	}
}
