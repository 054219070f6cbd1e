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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperatorErrorHandlingCatch(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(
		Catch(func(err error) Observable[int] {
			return Just(42)
		})(Throw[int](assert.AnError)),
	)
	is.Equal([]int{42}, values)
	is.NoError(err)

	// pass-through when the source does not error
	values, err = Collect(
		Catch(func(err error) Observable[int] {
			return Just(42)
		})(Just(1, 2)),
	)
	is.Equal([]int{1, 2}, values)
	is.NoError(err)
}

func TestOperatorErrorHandlingOnErrorResumeNextWith(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	source := NewObservable(func(destination Observer[int]) Teardown {
		destination.Next(1)
		destination.Error(assert.AnError)

		return nil
	})

	values, err := Collect(OnErrorResumeNextWith(Just(2, 3))(source))
	is.Equal([]int{1, 2, 3}, values)
	is.NoError(err)
}

func TestOperatorErrorHandlingOnErrorReturn(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(
		OnErrorReturn(func(err error) int {
			return -1
		})(Throw[int](assert.AnError)),
	)
	is.Equal([]int{-1}, values)
	is.NoError(err)
}

func TestOperatorErrorHandlingRetrySucceedsAfterFailures(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	attempts := 0

	source := Defer(func() Observable[int] {
		attempts++

		if attempts < 3 {
			return Throw[int](assert.AnError)
		}

		return Just(1, 2)
	})

	values, err := Collect(Pipe1(source, RetryWithConfig[int](RetryConfig{MaxRetries: 5})))
	is.Equal([]int{1, 2}, values)
	is.NoError(err)
	is.Equal(3, attempts)
}

func TestOperatorErrorHandlingRetryExhausted(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	attempts := 0

	source := Defer(func() Observable[int] {
		attempts++
		return Throw[int](assert.AnError)
	})

	values, err := Collect(Pipe1(source, RetryWithConfig[int](RetryConfig{MaxRetries: 2})))
	is.Empty(values)
	is.EqualError(err, assert.AnError.Error())
	is.Equal(3, attempts)
}

func TestOperatorErrorHandlingRetryIsIterative(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	// deep enough to blow the stack if the resubscription were recursive
	const failures = 100_000

	attempts := 0

	source := Defer(func() Observable[int] {
		attempts++

		if attempts <= failures {
			return Throw[int](errors.New("transient"))
		}

		return Just(1)
	})

	values, err := Collect(Pipe1(source, Retry[int]()))
	is.Equal([]int{1}, values)
	is.NoError(err)
	is.Equal(failures+1, attempts)
}

func TestOperatorErrorHandlingRetryForwardsValuesOfEveryAttempt(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	attempts := 0

	source := NewObservable(func(destination Observer[int]) Teardown {
		attempts++
		destination.Next(attempts)

		if attempts < 2 {
			destination.Error(assert.AnError)
		} else {
			destination.Complete()
		}

		return nil
	})

	values, err := Collect(Pipe1(source, Retry[int]()))
	is.Equal([]int{1, 2}, values)
	is.NoError(err)
}

func TestOperatorErrorHandlingThrowIfEmpty(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(
		ThrowIfEmpty[int](func() error {
			return assert.AnError
		})(Empty[int]()),
	)
	is.Empty(values)
	is.EqualError(err, assert.AnError.Error())

	values, err = Collect(
		ThrowIfEmpty[int](func() error {
			return assert.AnError
		})(Just(1)),
	)
	is.Equal([]int{1}, values)
	is.NoError(err)
}
