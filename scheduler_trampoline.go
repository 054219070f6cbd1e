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
	"sync"
	"sync/atomic"
	"time"
)

var _ Scheduler = (*trampolineScheduler)(nil)

// trampolineScheduler runs actions on the goroutine that schedules them, but
// through a per-worker FIFO queue: a nested Schedule issued from within a
// running action enqueues, and the outermost call drains the queue before
// returning. Recursive self-scheduling is therefore iterative and does not
// grow the stack.
type trampolineScheduler struct{}

func (trampolineScheduler) Now() time.Time {
	return time.Now()
}

func (trampolineScheduler) CreateWorker() Worker {
	return &trampolineWorker{
		Subscription: NewSubscription(nil),
	}
}

var _ Worker = (*trampolineWorker)(nil)

type trampolineWorker struct {
	Subscription

	mu    sync.Mutex
	queue []*timedItem

	// wip counts enqueued-but-undrained items. The goroutine that bumps it
	// from 0 owns the drain loop; everyone else just enqueues.
	wip int32
}

// Implements Worker.
func (w *trampolineWorker) Schedule(action Action) Subscription {
	return w.ScheduleWithDelay(action, 0)
}

// Implements Worker.
func (w *trampolineWorker) ScheduleWithDelay(action Action, delay time.Duration) Subscription {
	if action == nil || w.IsClosed() {
		return EmptySubscription()
	}

	item := &timedItem{
		action: action,
		due:    time.Now().Add(delay),
		state:  NewSubscription(nil),
	}

	w.mu.Lock()
	w.queue = append(w.queue, item)
	w.mu.Unlock()

	if atomic.AddInt32(&w.wip, 1) != 1 {
		// Someone up the stack is draining. The item will run when its turn
		// comes, on that outermost call.
		return item.state
	}

	for {
		w.mu.Lock()

		if len(w.queue) == 0 {
			w.mu.Unlock()
			return item.state
		}

		next := w.queue[0]
		w.queue = w.queue[1:]
		w.mu.Unlock()

		if !next.state.IsClosed() && !w.IsClosed() {
			if delay := time.Until(next.due); delay > 0 {
				time.Sleep(delay)
			}

			next.action(w)
			next.state.Unsubscribe()
		}

		if atomic.AddInt32(&w.wip, -1) == 0 {
			return item.state
		}
	}
}

// Implements Worker.
func (w *trampolineWorker) SchedulePeriodically(action Action, initialDelay, period time.Duration) Subscription {
	return schedulePeriodically(w, action, initialDelay, period)
}
