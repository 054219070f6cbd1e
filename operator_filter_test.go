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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperatorFilterFilter(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	predicate := func(x int) bool {
		return x%2 == 0
	}

	values, err := Collect(Filter(predicate)(Just(0, 1, 2, 3)))
	is.Equal([]int{0, 2}, values)
	is.NoError(err)

	values, err = Collect(Filter(predicate)(Empty[int]()))
	is.Equal([]int{}, values)
	is.NoError(err)

	values, err = Collect(Filter(predicate)(Throw[int](assert.AnError)))
	is.Equal([]int{}, values)
	is.EqualError(err, assert.AnError.Error())
}

func TestOperatorFilterFilterI(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(
		FilterI(func(x int, i int64) bool {
			is.Equal(int(i), x)
			return x%2 == 0
		})(Just(0, 1, 2, 3)),
	)
	is.Equal([]int{0, 2}, values)
	is.NoError(err)
}

func TestOperatorFilterDistinct(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(Distinct[int]()(Just(1, 2, 1, 3, 2, 4)))
	is.Equal([]int{1, 2, 3, 4}, values)
	is.NoError(err)
}

func TestOperatorFilterDistinctBy(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(
		DistinctBy(func(s string) int {
			return len(s)
		})(Just("a", "b", "aa", "cc", "c")),
	)
	is.Equal([]string{"a", "aa"}, values)
	is.NoError(err)
}

func TestOperatorFilterIgnoreElements(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(IgnoreElements[int]()(Just(1, 2, 3)))
	is.Equal([]int{}, values)
	is.NoError(err)

	values, err = Collect(IgnoreElements[int]()(Throw[int](assert.AnError)))
	is.Equal([]int{}, values)
	is.EqualError(err, assert.AnError.Error())
}

func TestOperatorFilterSkip(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(Skip[int](2)(Just(1, 2, 3, 4)))
	is.Equal([]int{3, 4}, values)
	is.NoError(err)

	is.PanicsWithValue(ErrSkipWrongCount, func() {
		Skip[int](-1)
	})
}

func TestOperatorFilterSkipWhile(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(
		SkipWhile(func(x int) bool {
			return x < 3
		})(Just(1, 2, 3, 1, 4)),
	)
	is.Equal([]int{3, 1, 4}, values)
	is.NoError(err)
}

func TestOperatorFilterTake(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(Take[int](2)(Just(1, 2, 3)))
	is.Equal([]int{1, 2}, values)
	is.NoError(err)

	values, err = Collect(Take[int](10)(Just(1, 2)))
	is.Equal([]int{1, 2}, values)
	is.NoError(err)

	is.PanicsWithValue(ErrTakeWrongCount, func() {
		Take[int](-1)
	})
}

func TestOperatorFilterTakeZeroDoesNotSubscribeSource(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subscribed := false

	source := NewObservable(func(destination Observer[int]) Teardown {
		subscribed = true
		destination.Complete()

		return nil
	})

	values, err := Collect(Take[int](0)(source))
	is.Equal([]int{}, values)
	is.NoError(err)
	is.False(subscribed)
}

func TestOperatorFilterTakeWhile(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(
		TakeWhile(func(x int) bool {
			return x < 3
		})(Just(1, 2, 3, 1)),
	)
	is.Equal([]int{1, 2}, values)
	is.NoError(err)
}

func TestOperatorFilterTakeUntil(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	notifier := NewPublishSubject[struct{}]()
	source := NewPublishSubject[int]()

	record := newRecorder[int]()
	TakeUntil[int, struct{}](notifier.AsObservable())(source.AsObservable()).Subscribe(record.Observer())

	source.Next(1)
	source.Next(2)

	notifier.Next(struct{}{})

	source.Next(3)

	is.Equal([]int{1, 2}, record.Values())
	is.True(record.Completed())
}

func TestOperatorFilterFirst(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(First[int]()(Just(1, 2, 3)))
	is.Equal([]int{1}, values)
	is.NoError(err)

	values, err = Collect(First[int]()(Empty[int]()))
	is.Equal([]int{}, values)
	is.Equal(ErrFirstEmpty, err)
}

func TestOperatorFilterLast(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(Last[int]()(Just(1, 2, 3)))
	is.Equal([]int{3}, values)
	is.NoError(err)

	values, err = Collect(Last[int]()(Empty[int]()))
	is.Equal([]int{}, values)
	is.Equal(ErrLastEmpty, err)
}

func TestOperatorFilterElementAt(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(ElementAt[int](1)(Just(10, 20, 30)))
	is.Equal([]int{20}, values)
	is.NoError(err)

	values, err = Collect(ElementAt[int](5)(Just(10, 20)))
	is.Equal([]int{}, values)
	is.Equal(ErrElementAtNotFound, err)

	is.PanicsWithValue(ErrElementAtWrongNth, func() {
		ElementAt[int](-1)
	})
}
