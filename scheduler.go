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
	"time"
)

// Action is a unit of work submitted to a Worker. The Worker handle passed to
// the action is the one the action is running on, which allows recursive
// self-scheduling: calling `w.Schedule(self)` from within an action enqueues
// another run instead of growing the native stack.
type Action func(w Worker)

// Scheduler is an abstraction over where and when work runs. It is a factory
// for Workers. Time-based operators accept a Scheduler so that they can be
// driven by virtual time in tests.
type Scheduler interface {
	// Now returns the scheduler's notion of current time.
	Now() time.Time
	// CreateWorker returns a new Worker. Workers are meant to be short-lived:
	// one per subscription, disposed with it.
	CreateWorker() Worker
}

// Worker is a single-ordered execution context obtained from a Scheduler.
// Actions scheduled on one worker never run concurrently with each other.
//
// A Worker is itself a Subscription: unsubscribing it cancels all work
// scheduled on it. The transition is one-way.
type Worker interface {
	Subscription

	// Schedule enqueues an action for execution as soon as possible. The
	// returned Subscription represents this pending work and can be used to
	// cancel it before it runs.
	Schedule(action Action) Subscription
	// ScheduleWithDelay enqueues an action for execution after the given delay.
	ScheduleWithDelay(action Action, delay time.Duration) Subscription
	// SchedulePeriodically enqueues an action for repeated execution, first
	// after `initialDelay`, then every `period`. Unsubscribing the returned
	// Subscription stops the repetition.
	SchedulePeriodically(action Action, initialDelay, period time.Duration) Subscription
}

// schedulePeriodically derives periodic execution from delayed execution: the
// action re-schedules itself on its own worker with the period. The serial
// container always holds the subscription of the next pending run.
func schedulePeriodically(w Worker, action Action, initialDelay, period time.Duration) Subscription {
	serial := NewSerialSubscription()

	var tick Action

	tick = func(inner Worker) {
		action(inner)

		if !serial.IsClosed() && !inner.IsClosed() {
			serial.Set(inner.ScheduleWithDelay(tick, period))
		}
	}

	serial.Set(w.ScheduleWithDelay(tick, initialDelay))

	return serial
}

/************************
 *  Timed action queue  *
 ************************/

// timedItem is a scheduled action ordered by due time, ties broken by
// insertion order.
type timedItem struct {
	action Action
	due    time.Time
	seq    uint64
	state  Subscription
	worker Worker
}

// timedQueue implements container/heap.Interface.
type timedQueue []*timedItem

func (q timedQueue) Len() int {
	return len(q)
}

func (q timedQueue) Less(i, j int) bool {
	if q[i].due.Equal(q[j].due) {
		return q[i].seq < q[j].seq
	}

	return q[i].due.Before(q[j].due)
}

func (q timedQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
}

func (q *timedQueue) Push(x any) {
	*q = append(*q, x.(*timedItem)) //nolint:errcheck,forcetypeassert
}

func (q *timedQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]

	return item
}
