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
)

// FromExecutor adapts an external executor into a Scheduler. The `submit`
// function is expected to run the given task asynchronously, e.g. on a worker
// pool owned by the caller. Each worker keeps its own FIFO, so per-worker
// ordering is preserved no matter how the executor dispatches tasks.
//
// When `submit` panics (e.g. a shut-down pool rejecting work), the failure is
// routed to OnUnhandledError and the pending work is disposed.
func FromExecutor(submit func(task func())) Scheduler {
	return &executorScheduler{
		submit: submit,
	}
}

var _ Scheduler = (*executorScheduler)(nil)

type executorScheduler struct {
	submit func(task func())
}

func (s *executorScheduler) Now() time.Time {
	return time.Now()
}

func (s *executorScheduler) CreateWorker() Worker {
	return &executorWorker{
		Subscription: NewSubscription(nil),
		submit:       s.submit,
	}
}

var _ Worker = (*executorWorker)(nil)

type executorWorker struct {
	Subscription
	submit func(task func())

	mu    sync.Mutex
	queue []*timedItem

	wip int32
}

// Implements Worker.
func (w *executorWorker) Schedule(action Action) Subscription {
	if action == nil || w.IsClosed() {
		return EmptySubscription()
	}

	item := &timedItem{
		action: action,
		state:  NewSubscription(nil),
	}

	w.mu.Lock()
	w.queue = append(w.queue, item)
	w.mu.Unlock()

	if atomic.AddInt32(&w.wip, 1) == 1 {
		if err := catchPanic(func() { w.submit(w.drain) }); err != nil {
			item.state.Unsubscribe()
			OnUnhandledError(context.TODO(), newSchedulerError(err))
		}
	}

	return item.state
}

func (w *executorWorker) drain() {
	for {
		w.mu.Lock()

		if len(w.queue) == 0 {
			w.mu.Unlock()
			return
		}

		item := w.queue[0]
		w.queue = w.queue[1:]
		w.mu.Unlock()

		if !w.IsClosed() && !item.state.IsClosed() {
			recoverUnhandledError(func() {
				item.action(w)
			})
			item.state.Unsubscribe()
		}

		if atomic.AddInt32(&w.wip, -1) == 0 {
			return
		}
	}
}

// Implements Worker.
func (w *executorWorker) ScheduleWithDelay(action Action, delay time.Duration) Subscription {
	if action == nil || w.IsClosed() {
		return EmptySubscription()
	}

	if delay <= 0 {
		return w.Schedule(action)
	}

	state := NewSerialSubscription()

	timer := time.AfterFunc(delay, func() {
		if !state.IsClosed() {
			state.Set(w.Schedule(action))
		}
	})

	state.Add(func() {
		timer.Stop()
	})

	return state
}

// Implements Worker.
func (w *executorWorker) SchedulePeriodically(action Action, initialDelay, period time.Duration) Subscription {
	return schedulePeriodically(w, action, initialDelay, period)
}
