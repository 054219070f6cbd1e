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
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// poolWorker pins all of its work onto a single underlying executor, so that
// ordering on one worker is preserved even though the executor is shared.
// Unsubscribing the worker cancels its pending work without touching the
// executor.
type poolWorker struct {
	Subscription
	executor *goroutineWorker
}

var _ Worker = (*poolWorker)(nil)

// Implements Worker.
func (w *poolWorker) Schedule(action Action) Subscription {
	return w.ScheduleWithDelay(action, 0)
}

// Implements Worker.
func (w *poolWorker) ScheduleWithDelay(action Action, delay time.Duration) Subscription {
	if action == nil || w.IsClosed() {
		return EmptySubscription()
	}

	// The self-handle given to the action is the pool worker, not the shared
	// executor, so recursive self-scheduling stays pinned.
	sub := w.executor.ScheduleWithDelay(func(Worker) {
		action(w)
	}, delay)

	w.AddUnsubscribable(sub)

	return sub
}

// Implements Worker.
func (w *poolWorker) SchedulePeriodically(action Action, initialDelay, period time.Duration) Subscription {
	return schedulePeriodically(w, action, initialDelay, period)
}

/************************
 * Computation scheduler *
 ************************/

var _ Scheduler = (*computationScheduler)(nil)

// computationScheduler is a fixed-size pool of executors, sized to the number
// of usable CPUs. Workers are assigned to executors round-robin.
type computationScheduler struct {
	executors []*goroutineWorker
	next      uint32
}

func newComputationScheduler(size int) *computationScheduler {
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
	}

	s := &computationScheduler{
		executors: make([]*goroutineWorker, size),
	}

	for i := range s.executors {
		s.executors[i] = newGoroutineWorker()
	}

	return s
}

func (s *computationScheduler) Now() time.Time {
	return time.Now()
}

func (s *computationScheduler) CreateWorker() Worker {
	i := atomic.AddUint32(&s.next, 1)

	return &poolWorker{
		Subscription: NewSubscription(nil),
		executor:     s.executors[int(i%uint32(len(s.executors)))],
	}
}

func (s *computationScheduler) shutdown() {
	for i := range s.executors {
		s.executors[i].Unsubscribe()
	}
}

/************************
 *     IO scheduler     *
 ************************/

var _ Scheduler = (*ioScheduler)(nil)

// ioScheduler is an elastic pool: a worker takes an idle executor or spawns a
// fresh one, and hands it back on unsubscription. Suited to blocking work.
type ioScheduler struct {
	mu   sync.Mutex
	idle []*goroutineWorker
	done bool
}

func newIOScheduler() *ioScheduler {
	return &ioScheduler{
		idle: []*goroutineWorker{},
	}
}

func (s *ioScheduler) Now() time.Time {
	return time.Now()
}

func (s *ioScheduler) CreateWorker() Worker {
	s.mu.Lock()

	var executor *goroutineWorker

	if n := len(s.idle); n > 0 {
		executor = s.idle[n-1]
		s.idle = s.idle[:n-1]
	}

	s.mu.Unlock()

	if executor == nil {
		executor = newGoroutineWorker()
	}

	w := &poolWorker{
		Subscription: NewSubscription(nil),
		executor:     executor,
	}

	w.Add(func() {
		s.release(executor)
	})

	return w
}

func (s *ioScheduler) release(executor *goroutineWorker) {
	s.mu.Lock()

	if s.done {
		s.mu.Unlock()
		executor.Unsubscribe()

		return
	}

	s.idle = append(s.idle, executor)
	s.mu.Unlock()
}

func (s *ioScheduler) shutdown() {
	s.mu.Lock()
	s.done = true
	idle := s.idle
	s.idle = nil
	s.mu.Unlock()

	for i := range idle {
		idle[i].Unsubscribe()
	}
}
