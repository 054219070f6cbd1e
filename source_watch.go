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

	"github.com/fsnotify/fsnotify"
)

// WatchFS creates an Observable of file system events for the given paths.
//
// The watcher is created and the paths are registered synchronously at
// subscribe time, so a bad path fails the subscription right away. The event
// pump then runs on a goroutine-scheduler worker; disposing the subscription
// closes the watcher, which drains the pump, and retires the worker.
func WatchFS(paths ...string) Observable[fsnotify.Event] {
	return WatchFSOn(Goroutine(), paths...)
}

// WatchFSOn is WatchFS with an explicit Scheduler for the event pump. The
// scheduler must run the pump asynchronously: the pump blocks until the
// watcher closes.
func WatchFSOn(scheduler Scheduler, paths ...string) Observable[fsnotify.Event] {
	return NewUnsafeObservableWithContext(func(ctx context.Context, destination Observer[fsnotify.Event]) Teardown {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			destination.ErrorWithContext(ctx, err)
			return nil
		}

		for _, path := range paths {
			if err := watcher.Add(path); err != nil {
				_ = watcher.Close()
				destination.ErrorWithContext(ctx, err)

				return nil
			}
		}

		teardown := NewCompositeSubscription()
		teardown.Add(func() {
			_ = watcher.Close()
		})

		worker := scheduler.CreateWorker()
		teardown.AddSubscription(worker)

		worker.Schedule(func(Worker) {
			pumpWatcher(ctx, watcher, destination)
		})

		return teardown.Unsubscribe
	})
}

// pumpWatcher forwards watcher activity into the destination until the
// watcher closes, an error surfaces or the context is canceled.
func pumpWatcher(ctx context.Context, watcher *fsnotify.Watcher, destination Observer[fsnotify.Event]) {
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				destination.CompleteWithContext(ctx)
				return
			}

			destination.NextWithContext(ctx, event)

		case err, ok := <-watcher.Errors:
			if !ok {
				destination.CompleteWithContext(ctx)
				return
			}

			destination.ErrorWithContext(ctx, err)

			return

		case <-ctx.Done():
			if err := ctx.Err(); err != nil {
				destination.ErrorWithContext(ctx, err)
			} else {
				destination.CompleteWithContext(ctx)
			}

			return
		}
	}
}
