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

import "sync"

// Process-lifetime scheduler singletons. The pooled schedulers are created
// lazily on first use; ShutdownSchedulers disposes them and a later accessor
// call recreates them, which keeps tests hermetic.
var (
	schedulersMu sync.Mutex

	immediateSingleton  = &immediateScheduler{}
	trampolineSingleton = &trampolineScheduler{}
	goroutineSingleton  = &goroutineScheduler{}

	computationSingleton *computationScheduler
	ioSingleton          *ioScheduler
)

// Immediate returns the scheduler that runs actions on the calling goroutine,
// right now.
func Immediate() Scheduler {
	return immediateSingleton
}

// Trampoline returns the scheduler that runs actions on the calling goroutine
// through a per-worker FIFO queue, making recursive self-scheduling iterative.
func Trampoline() Scheduler {
	return trampolineSingleton
}

// Goroutine returns the scheduler that spawns a dedicated goroutine per
// worker.
func Goroutine() Scheduler {
	return goroutineSingleton
}

// Computation returns the fixed-size pooled scheduler, sized to the number of
// usable CPUs. Intended for CPU-bound work.
func Computation() Scheduler {
	schedulersMu.Lock()
	defer schedulersMu.Unlock()

	if computationSingleton == nil {
		computationSingleton = newComputationScheduler(0)
	}

	return computationSingleton
}

// IO returns the elastic pooled scheduler. Intended for blocking work.
func IO() Scheduler {
	schedulersMu.Lock()
	defer schedulersMu.Unlock()

	if ioSingleton == nil {
		ioSingleton = newIOScheduler()
	}

	return ioSingleton
}

// ShutdownSchedulers disposes the pooled scheduler singletons. Workers created
// before the shutdown stop executing pending work. The next call to
// Computation() or IO() starts a fresh pool.
func ShutdownSchedulers() {
	schedulersMu.Lock()
	computation := computationSingleton
	io := ioSingleton
	computationSingleton = nil
	ioSingleton = nil
	schedulersMu.Unlock()

	if computation != nil {
		computation.shutdown()
	}

	if io != nil {
		io.shutdown()
	}
}
