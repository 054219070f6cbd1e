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

var _ Scheduler = (*VirtualTimeScheduler)(nil)

// VirtualTimeScheduler is a Scheduler under manual control, for tests. Nothing
// runs until the clock is moved with AdvanceBy, AdvanceTo or Trigger. Actions
// are dispatched in due-time order, ties broken by scheduling order, and the
// clock follows each dispatched action before landing on the target, so an
// action observes `Now()` equal to its own due time. Cancelled actions are
// skipped.
//
// Identical scheduled programs produce identical outputs for identical
// advance sequences.
type VirtualTimeScheduler struct {
	mu    sync.Mutex
	clock time.Time
	queue timedQueue
	seq   uint64
}

// NewVirtualTimeScheduler creates a VirtualTimeScheduler with its clock at the
// epoch.
func NewVirtualTimeScheduler() *VirtualTimeScheduler {
	return &VirtualTimeScheduler{
		clock: time.Unix(0, 0).UTC(),
		queue: timedQueue{},
	}
}

// Now returns the current virtual time.
//
// Implements Scheduler.
func (s *VirtualTimeScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.clock
}

// CreateWorker returns a worker whose scheduled actions are dispatched by the
// advance methods.
//
// Implements Scheduler.
func (s *VirtualTimeScheduler) CreateWorker() Worker {
	return &virtualWorker{
		Subscription: NewSubscription(nil),
		scheduler:    s,
	}
}

// AdvanceBy moves the virtual clock forward by `delta`, dispatching every
// action whose due time is within reach.
func (s *VirtualTimeScheduler) AdvanceBy(delta time.Duration) {
	s.mu.Lock()
	target := s.clock.Add(delta)
	s.mu.Unlock()

	s.advanceTo(target)
}

// AdvanceTo moves the virtual clock to `target`, dispatching every action
// whose due time is at or before it. Moving backwards is a no-op.
func (s *VirtualTimeScheduler) AdvanceTo(target time.Time) {
	s.advanceTo(target)
}

// Trigger dispatches all actions due at the current virtual time without
// moving the clock.
func (s *VirtualTimeScheduler) Trigger() {
	s.mu.Lock()
	target := s.clock
	s.mu.Unlock()

	s.advanceTo(target)
}

func (s *VirtualTimeScheduler) advanceTo(target time.Time) {
	for {
		s.mu.Lock()

		if len(s.queue) == 0 || s.queue[0].due.After(target) {
			if target.After(s.clock) {
				s.clock = target
			}

			s.mu.Unlock()

			return
		}

		item := heap.Pop(&s.queue).(*timedItem) //nolint:errcheck,forcetypeassert

		if item.due.After(s.clock) {
			s.clock = item.due
		}

		s.mu.Unlock()

		if !item.state.IsClosed() && !item.worker.IsClosed() {
			item.action(item.worker)
			item.state.Unsubscribe()
		}
	}
}

func (s *VirtualTimeScheduler) push(item *timedItem) {
	s.mu.Lock()
	item.seq = s.seq
	s.seq++
	heap.Push(&s.queue, item)
	s.mu.Unlock()
}

var _ Worker = (*virtualWorker)(nil)

type virtualWorker struct {
	Subscription
	scheduler *VirtualTimeScheduler
}

// Implements Worker.
func (w *virtualWorker) Schedule(action Action) Subscription {
	return w.ScheduleWithDelay(action, 0)
}

// Implements Worker.
func (w *virtualWorker) ScheduleWithDelay(action Action, delay time.Duration) Subscription {
	if action == nil || w.IsClosed() {
		return EmptySubscription()
	}

	item := &timedItem{
		action: action,
		due:    w.scheduler.Now().Add(delay),
		state:  NewSubscription(nil),
		worker: w,
	}

	w.scheduler.push(item)

	return item.state
}

// Implements Worker.
func (w *virtualWorker) SchedulePeriodically(action Action, initialDelay, period time.Duration) Subscription {
	return schedulePeriodically(w, action, initialDelay, period)
}
