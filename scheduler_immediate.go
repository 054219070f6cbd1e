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

import "time"

var _ Scheduler = (*immediateScheduler)(nil)

// immediateScheduler runs actions on the calling goroutine, right now. A
// delayed schedule sleeps the caller. It cannot honor cancellation of pending
// work, since there is none: by the time Schedule returns, the action ran.
type immediateScheduler struct{}

func (immediateScheduler) Now() time.Time {
	return time.Now()
}

func (immediateScheduler) CreateWorker() Worker {
	return &immediateWorker{
		Subscription: NewSubscription(nil),
	}
}

var _ Worker = (*immediateWorker)(nil)

type immediateWorker struct {
	Subscription
}

// Implements Worker.
func (w *immediateWorker) Schedule(action Action) Subscription {
	return w.ScheduleWithDelay(action, 0)
}

// Implements Worker.
func (w *immediateWorker) ScheduleWithDelay(action Action, delay time.Duration) Subscription {
	if action == nil || w.IsClosed() {
		return EmptySubscription()
	}

	if delay > 0 {
		time.Sleep(delay)
	}

	action(w)

	return EmptySubscription()
}

// Implements Worker.
func (w *immediateWorker) SchedulePeriodically(action Action, initialDelay, period time.Duration) Subscription {
	return schedulePeriodically(w, action, initialDelay, period)
}
