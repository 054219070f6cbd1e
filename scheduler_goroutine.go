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
	"container/heap"
	"sync"
	"time"
)

var _ Scheduler = (*goroutineScheduler)(nil)

// goroutineScheduler is the Go rendition of a thread-per-worker scheduler:
// each worker owns a freshly spawned goroutine draining a queue ordered by
// due time. Unsubscribing the worker shuts the goroutine down.
type goroutineScheduler struct{}

func (goroutineScheduler) Now() time.Time {
	return time.Now()
}

func (goroutineScheduler) CreateWorker() Worker {
	return newGoroutineWorker()
}

var _ Worker = (*goroutineWorker)(nil)

type goroutineWorker struct {
	Subscription

	mu    sync.Mutex
	queue timedQueue
	seq   uint64

	wake chan struct{}
	done chan struct{}
}

func newGoroutineWorker() *goroutineWorker {
	w := &goroutineWorker{
		Subscription: NewSubscription(nil),
		queue:        timedQueue{},
		wake:         make(chan struct{}, 1),
		done:         make(chan struct{}),
	}

	w.Add(func() {
		close(w.done)
	})

	go w.run()

	return w
}

func (w *goroutineWorker) run() {
	for {
		w.mu.Lock()

		if len(w.queue) == 0 {
			w.mu.Unlock()

			select {
			case <-w.wake:
				continue
			case <-w.done:
				return
			}
		}

		next := w.queue[0]

		if delay := time.Until(next.due); delay > 0 {
			w.mu.Unlock()

			timer := time.NewTimer(delay)

			select {
			case <-timer.C:
			case <-w.wake:
				// An earlier item may have been scheduled in the meantime.
				timer.Stop()
			case <-w.done:
				timer.Stop()
				return
			}

			continue
		}

		heap.Pop(&w.queue)
		w.mu.Unlock()

		if !next.state.IsClosed() {
			recoverUnhandledError(func() {
				next.action(w)
			})
			next.state.Unsubscribe()
		}
	}
}

// Implements Worker.
func (w *goroutineWorker) Schedule(action Action) Subscription {
	return w.ScheduleWithDelay(action, 0)
}

// Implements Worker.
func (w *goroutineWorker) ScheduleWithDelay(action Action, delay time.Duration) Subscription {
	if action == nil || w.IsClosed() {
		return EmptySubscription()
	}

	item := &timedItem{
		action: action,
		due:    time.Now().Add(delay),
		state:  NewSubscription(nil),
	}

	w.mu.Lock()
	item.seq = w.seq
	w.seq++
	heap.Push(&w.queue, item)
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}

	return item.state
}

// Implements Worker.
func (w *goroutineWorker) SchedulePeriodically(action Action, initialDelay, period time.Duration) Subscription {
	return schedulePeriodically(w, action, initialDelay, period)
}
