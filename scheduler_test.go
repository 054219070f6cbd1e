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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestImmediateSchedulerRunsOnCaller(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	worker := Immediate().CreateWorker()
	defer worker.Unsubscribe()

	ran := false
	sub := worker.Schedule(func(w Worker) {
		ran = true
	})

	// by the time Schedule returns, the action ran
	is.True(ran)
	is.True(sub.IsClosed())
}

func TestImmediateSchedulerClosedWorkerDropsWork(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	worker := Immediate().CreateWorker()
	worker.Unsubscribe()

	ran := false
	worker.Schedule(func(w Worker) {
		ran = true
	})

	is.False(ran)
}

func TestTrampolineSchedulerFIFO(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	worker := Trampoline().CreateWorker()
	defer worker.Unsubscribe()

	order := []int{}

	worker.Schedule(func(w Worker) {
		order = append(order, 1)

		// nested schedules are queued, not run inline
		w.Schedule(func(Worker) {
			order = append(order, 3)
		})

		order = append(order, 2)
	})

	is.Equal([]int{1, 2, 3}, order)
}

func TestTrampolineSchedulerRecursionIsIterative(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	worker := Trampoline().CreateWorker()
	defer worker.Unsubscribe()

	// deep enough to blow the stack if self-scheduling were recursive
	const depth = 200_000

	count := 0

	var action Action

	action = func(w Worker) {
		count++

		if count < depth {
			w.Schedule(action)
		}
	}

	worker.Schedule(action)

	is.Equal(depth, count)
}

func TestTrampolineSchedulerCancelPending(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	worker := Trampoline().CreateWorker()
	defer worker.Unsubscribe()

	ran := false

	worker.Schedule(func(w Worker) {
		pending := w.Schedule(func(Worker) {
			ran = true
		})
		pending.Unsubscribe()
	})

	is.False(ran)
}

func TestGoroutineSchedulerPreservesOrder(t *testing.T) {
	t.Parallel()
	testWithTimeout(t, 5*time.Second)
	is := assert.New(t)

	worker := Goroutine().CreateWorker()
	defer worker.Unsubscribe()

	mu := sync.Mutex{}
	order := []int{}
	done := make(chan struct{})

	for i := 0; i < 100; i++ {
		i := i

		worker.Schedule(func(Worker) {
			mu.Lock()
			order = append(order, i)

			if len(order) == 100 {
				close(done)
			}
			mu.Unlock()
		})
	}

	<-done

	mu.Lock()
	defer mu.Unlock()

	for i := 0; i < 100; i++ {
		is.Equal(i, order[i])
	}
}

func TestGoroutineSchedulerDelayOrdering(t *testing.T) {
	t.Parallel()
	testWithTimeout(t, 5*time.Second)
	is := assert.New(t)

	worker := Goroutine().CreateWorker()
	defer worker.Unsubscribe()

	mu := sync.Mutex{}
	order := []string{}
	done := make(chan struct{})

	worker.ScheduleWithDelay(func(Worker) {
		mu.Lock()
		order = append(order, "late")
		mu.Unlock()

		close(done)
	}, 50*time.Millisecond)

	worker.ScheduleWithDelay(func(Worker) {
		mu.Lock()
		order = append(order, "early")
		mu.Unlock()
	}, 5*time.Millisecond)

	<-done

	mu.Lock()
	defer mu.Unlock()
	is.Equal([]string{"early", "late"}, order)
}

func TestGoroutineSchedulerCancelPending(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	worker := Goroutine().CreateWorker()
	defer worker.Unsubscribe()

	ran := false

	sub := worker.ScheduleWithDelay(func(Worker) {
		ran = true
	}, 50*time.Millisecond)

	sub.Unsubscribe()
	time.Sleep(100 * time.Millisecond)

	is.False(ran)
}

func TestGoroutineSchedulerUnsubscribeStopsWorker(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	worker := Goroutine().CreateWorker()

	ran := false

	worker.ScheduleWithDelay(func(Worker) {
		ran = true
	}, 50*time.Millisecond)

	worker.Unsubscribe()
	time.Sleep(100 * time.Millisecond)

	is.False(ran)
	is.True(worker.IsClosed())
}

func TestGoroutineSchedulerPeriodic(t *testing.T) {
	t.Parallel()
	testWithTimeout(t, 5*time.Second)
	is := assert.New(t)

	worker := Goroutine().CreateWorker()
	defer worker.Unsubscribe()

	mu := sync.Mutex{}
	count := 0
	done := make(chan struct{})

	sub := worker.SchedulePeriodically(func(Worker) {
		mu.Lock()
		count++

		if count == 3 {
			close(done)
		}
		mu.Unlock()
	}, 5*time.Millisecond, 5*time.Millisecond)

	<-done
	sub.Unsubscribe()

	mu.Lock()
	final := count
	mu.Unlock()

	time.Sleep(30 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	is.LessOrEqual(final, count)
	is.LessOrEqual(count, final+1)
}

func TestComputationAndIOSchedulers(t *testing.T) {
	// not parallel: exercises the process-wide singletons
	testWithTimeout(t, 5*time.Second)
	is := assert.New(t)

	defer ShutdownSchedulers()

	is.Same(Computation(), Computation())
	is.Same(IO(), IO())

	// per-worker ordering is preserved on pooled schedulers
	for _, scheduler := range []Scheduler{Computation(), IO()} {
		worker := scheduler.CreateWorker()

		mu := sync.Mutex{}
		order := []int{}
		done := make(chan struct{})

		for i := 0; i < 50; i++ {
			i := i

			worker.Schedule(func(Worker) {
				mu.Lock()
				order = append(order, i)

				if len(order) == 50 {
					close(done)
				}
				mu.Unlock()
			})
		}

		<-done
		worker.Unsubscribe()

		mu.Lock()
		for i := 0; i < 50; i++ {
			is.Equal(i, order[i])
		}
		mu.Unlock()
	}
}

func TestShutdownSchedulersRecreatesSingletons(t *testing.T) {
	// not parallel: exercises the process-wide singletons
	is := assert.New(t)

	first := Computation()
	ShutdownSchedulers()

	second := Computation()
	is.NotSame(first, second)

	ShutdownSchedulers()
}

func TestFromExecutor(t *testing.T) {
	t.Parallel()
	testWithTimeout(t, 5*time.Second)
	is := assert.New(t)

	tasks := make(chan func(), 64)

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		for task := range tasks {
			task()
		}
	}()

	scheduler := FromExecutor(func(task func()) {
		tasks <- task
	})

	worker := scheduler.CreateWorker()

	mu := sync.Mutex{}
	order := []int{}
	done := make(chan struct{})

	for i := 0; i < 20; i++ {
		i := i

		worker.Schedule(func(Worker) {
			mu.Lock()
			order = append(order, i)

			if len(order) == 20 {
				close(done)
			}
			mu.Unlock()
		})
	}

	<-done
	worker.Unsubscribe()
	close(tasks)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()

	for i := 0; i < 20; i++ {
		is.Equal(i, order[i])
	}
}

func TestWorkerSelfHandleIsOwnWorker(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	worker := Trampoline().CreateWorker()
	defer worker.Unsubscribe()

	var handle Worker

	worker.Schedule(func(w Worker) {
		handle = w
	})

	is.Equal(Worker(worker), handle)
}
