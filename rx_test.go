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
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

// https://github.com/stretchr/testify/issues/1101
func testWithTimeout(t *testing.T, timeout time.Duration) {
	t.Helper()

	testFinished := make(chan struct{})

	t.Cleanup(func() { close(testFinished) })

	go func() {
		select {
		case <-testFinished:
		case <-time.After(timeout):
			t.Errorf("test timed out after %s", timeout)
			os.Exit(1)
		}
	}()
}

func passThrough[T any]() func(Observable[T]) Observable[T] {
	return func(observable Observable[T]) Observable[T] {
		return observable
	}
}

// recorder accumulates the notifications received by a single subscription.
type recorder[T any] struct {
	mu        sync.Mutex
	values    []T
	err       error
	errored   bool
	completed bool
}

func newRecorder[T any]() *recorder[T] {
	return &recorder[T]{}
}

func (r *recorder[T]) Observer() Observer[T] {
	return NewObserver(
		func(v T) {
			r.mu.Lock()
			r.values = append(r.values, v)
			r.mu.Unlock()
		},
		func(err error) {
			r.mu.Lock()
			r.err = err
			r.errored = true
			r.mu.Unlock()
		},
		func() {
			r.mu.Lock()
			r.completed = true
			r.mu.Unlock()
		},
	)
}

func (r *recorder[T]) Values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]T{}, r.values...)
}

func (r *recorder[T]) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.err
}

func (r *recorder[T]) Errored() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.errored
}

func (r *recorder[T]) Completed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.completed
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestKind_String(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	is.Equal("Next", KindNext.String())
	is.Equal("Error", KindError.String())
	is.Equal("Complete", KindComplete.String())
}

func TestNotification_String(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	is.Equal("Next(42)", NewNotificationNext(42).String())
	is.Equal("Error(assert.AnError general error for testing)", NewNotificationError[int](assert.AnError).String())
	is.Equal("Error(nil)", NewNotificationError[int](nil).String())
	is.Equal("Complete()", NewNotificationComplete[int]().String())
}
