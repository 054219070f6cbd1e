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
	"sort"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperatorTransformationsMap(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(
		Map(func(x int) string {
			return strconv.Itoa(x * 2)
		})(Just(1, 2, 3)),
	)
	is.Equal([]string{"2", "4", "6"}, values)
	is.NoError(err)
}

func TestOperatorTransformationsMapPanicBecomesError(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	zero := 0

	values, err := Collect(
		Map(func(x int) int {
			return x / zero
		})(Just(1, 2, 3)),
	)
	is.Empty(values)
	is.Error(err)
}

func TestOperatorTransformationsMapPanicUnsubscribesUpstream(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	emitted := 0

	source := NewUnsafeObservable(func(destination Observer[int]) Teardown {
		for i := 1; i <= 100 && !destination.IsClosed(); i++ {
			emitted++
			destination.Next(i)
		}

		destination.Complete()

		return nil
	})

	zero := 0

	values, err := Collect(
		Map(func(x int) int {
			return x / zero
		})(source),
	)
	is.Empty(values)
	is.Error(err)
	is.Equal(1, emitted)
}

func TestOperatorTransformationsMapTo(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(MapTo[int]("x")(Just(1, 2, 3)))
	is.Equal([]string{"x", "x", "x"}, values)
	is.NoError(err)
}

func TestOperatorTransformationsScan(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(
		Scan(func(acc, x int) int {
			return acc + x
		}, 0)(Just(1, 2, 3, 4)),
	)
	is.Equal([]int{1, 3, 6, 10}, values)
	is.NoError(err)
}

func TestOperatorTransformationsFlatten(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(Flatten[int]()(Just([]int{1, 2}, []int{}, []int{3})))
	is.Equal([]int{1, 2, 3}, values)
	is.NoError(err)
}

func TestOperatorTransformationsGroupByPartition(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	groups := map[int][]int{}
	keys := []int{}

	sub := GroupBy(func(x int) int {
		return x % 2
	})(Just(1, 2, 3, 4, 5, 6)).Subscribe(OnNext(func(g GroupedObservable[int, int]) {
		key := g.Key()
		keys = append(keys, key)

		g.Subscribe(OnNext(func(v int) {
			groups[key] = append(groups[key], v)
		}))
	}))

	defer sub.Unsubscribe()

	// a group is emitted the first time its key appears
	is.Equal([]int{1, 0}, keys)

	// the multiset of grouped values equals the input, order preserved per group
	is.Equal([]int{1, 3, 5}, groups[1])
	is.Equal([]int{2, 4, 6}, groups[0])

	total := []int{}
	for _, vs := range groups {
		total = append(total, vs...)
	}

	sort.Ints(total)
	is.Equal([]int{1, 2, 3, 4, 5, 6}, total)
}

func TestOperatorTransformationsGroupByCompletesGroups(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	inner := newRecorder[int]()
	outerCompleted := false

	source := NewPublishSubject[int]()

	GroupBy(func(x int) int {
		return 0
	})(source.AsObservable()).Subscribe(NewObserver(
		func(g GroupedObservable[int, int]) {
			g.Subscribe(inner.Observer())
		},
		func(err error) {},
		func() { outerCompleted = true },
	))

	source.Next(1)
	source.Next(2)
	source.Complete()

	is.Equal([]int{1, 2}, inner.Values())
	is.True(inner.Completed())
	is.True(outerCompleted)
}

func TestOperatorTransformationsGroupByErrorTearsDown(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	inner := newRecorder[int]()

	var outerErr error

	source := NewPublishSubject[int]()

	GroupBy(func(x int) int {
		return x % 2
	})(source.AsObservable()).Subscribe(NewObserver(
		func(g GroupedObservable[int, int]) {
			g.Subscribe(inner.Observer())
		},
		func(err error) {
			outerErr = err
		},
		func() {},
	))

	source.Next(1)
	source.Error(assert.AnError)

	is.Equal([]int{1}, inner.Values())
	is.Equal(assert.AnError, inner.Err())
	is.Equal(assert.AnError, outerErr)
}

func TestOperatorTransformationsBufferWithCount(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(BufferWithCount[int](2)(Just(1, 2, 3, 4, 5)))
	is.Equal([][]int{{1, 2}, {3, 4}, {5}}, values)
	is.NoError(err)

	is.PanicsWithValue(ErrBufferWithCountWrongSize, func() {
		BufferWithCount[int](0)
	})
}
