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
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOperatorUtilityTap(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	seen := []int{}
	completed := false

	values, err := Collect(
		Tap(
			func(v int) { seen = append(seen, v) },
			func(err error) {},
			func() { completed = true },
		)(Just(1, 2)),
	)
	is.Equal([]int{1, 2}, values)
	is.NoError(err)
	is.Equal([]int{1, 2}, seen)
	is.True(completed)
}

func TestOperatorUtilityDoOnSubscribeAndFinalize(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subscribed := false
	finalized := false

	_, err := Collect(
		Pipe2(
			Just(1),
			DoOnSubscribe[int](func() { subscribed = true }),
			DoOnFinalize[int](func() { finalized = true }),
		),
	)
	is.NoError(err)
	is.True(subscribed)
	is.True(finalized)
}

func TestOperatorUtilityDelayOnVirtualScheduler(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	vts := NewVirtualTimeScheduler()

	record := newRecorder[int]()
	DelayOn[int](time.Second, vts)(Just(1, 2)).Subscribe(record.Observer())

	is.Empty(record.Values())

	vts.AdvanceBy(time.Second)

	is.Equal([]int{1, 2}, record.Values())
	is.True(record.Completed())
}

func TestOperatorUtilityTimeoutErrorOnVirtualScheduler(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	vts := NewVirtualTimeScheduler()

	record := newRecorder[int64]()
	source := IntervalOn(time.Second, vts)

	sub := Pipe1(source, TimeoutWithConfig(TimeoutConfig[int64]{
		Duration:  100 * time.Millisecond,
		Scheduler: vts,
	})).Subscribe(record.Observer())

	defer sub.Unsubscribe()

	vts.AdvanceBy(200 * time.Millisecond)

	is.Empty(record.Values())
	is.Error(record.Err())
	is.True(IsTimeoutError(record.Err()))
}

func TestOperatorUtilityTimeoutWithFallbackScenario(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	vts := NewVirtualTimeScheduler()

	record := newRecorder[int64]()

	// the source stays silent for longer than the timeout window
	source := IntervalOn(time.Second, vts)

	sub := Pipe1(source, TimeoutWithConfig(TimeoutConfig[int64]{
		Duration:  100 * time.Millisecond,
		Fallback:  Just[int64](-1),
		Scheduler: vts,
	})).Subscribe(record.Observer())

	defer sub.Unsubscribe()

	vts.AdvanceBy(150 * time.Millisecond)

	is.Equal([]int64{-1}, record.Values())
	is.True(record.Completed())
}

func TestOperatorUtilityTimeoutRearmsAfterEachValue(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	vts := NewVirtualTimeScheduler()

	record := newRecorder[int64]()

	source := IntervalOn(50*time.Millisecond, vts)

	sub := Pipe1(source, TimeoutWithConfig(TimeoutConfig[int64]{
		Duration:  100 * time.Millisecond,
		Scheduler: vts,
	})).Subscribe(record.Observer())

	vts.AdvanceBy(300 * time.Millisecond)

	is.Equal([]int64{0, 1, 2, 3, 4, 5}, record.Values())
	is.False(record.Errored())

	sub.Unsubscribe()
}

func TestOperatorUtilityTimeoutUpstreamTerminalWins(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	vts := NewVirtualTimeScheduler()

	values, err := Collect(Pipe1(Just(1, 2), TimeoutWithConfig(TimeoutConfig[int]{
		Duration:  time.Second,
		Scheduler: vts,
	})))
	is.Equal([]int{1, 2}, values)
	is.NoError(err)
}

func TestOperatorUtilityTimeoutWrongDurationPanics(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	is.PanicsWithValue(ErrTimeoutWrongDuration, func() {
		Timeout[int](0)
	})
}

func TestOperatorUtilityTimeoutWhen(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	source := NewPublishSubject[int]()
	windows := []*publishSubjectImpl[struct{}]{}

	record := newRecorder[int]()

	sub := Pipe1(source.AsObservable(), TimeoutWhen(func(item int, index int64) Observable[struct{}] {
		w := NewPublishSubject[struct{}]()
		windows = append(windows, w.(*publishSubjectImpl[struct{}]))

		return w.AsObservable()
	})).Subscribe(record.Observer())

	defer sub.Unsubscribe()

	source.Next(1)
	source.Next(2)

	is.Equal([]int{1, 2}, record.Values())
	is.False(record.Errored())

	// the first window was disposed when the second item arrived
	is.Equal(0, windows[0].CountObservers())

	// the live window firing terminates the stream
	windows[1].Next(struct{}{})

	is.True(record.Errored())
	is.True(IsTimeoutError(record.Err()))

	source.Next(3)
	is.Equal([]int{1, 2}, record.Values())
}

func TestOperatorUtilityMaterializeDematerialize(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	notifs, err := Collect(Materialize[int]()(Just(1, 2)))
	is.NoError(err)
	is.Equal([]Notification[int]{
		NewNotificationNext(1),
		NewNotificationNext(2),
		NewNotificationComplete[int](),
	}, notifs)

	values, err := Collect(Dematerialize[int]()(Just(
		NewNotificationNext(1),
		NewNotificationNext(2),
		NewNotificationComplete[int](),
	)))
	is.Equal([]int{1, 2}, values)
	is.NoError(err)

	_, err = Collect(Dematerialize[int]()(Just(
		NewNotificationNext(1),
		NewNotificationError[int](assert.AnError),
	)))
	is.EqualError(err, assert.AnError.Error())
}

func TestOperatorUtilityObserveOnPreservesOrder(t *testing.T) {
	t.Parallel()
	testWithTimeout(t, 5*time.Second)
	is := assert.New(t)

	expected := make([]int64, 100)
	for i := range expected {
		expected[i] = int64(i)
	}

	values, err := Collect(Pipe1(Range(0, 100), ObserveOn[int64](Goroutine())))
	is.Equal(expected, values)
	is.NoError(err)
}

func TestOperatorUtilityObserveOnTerminalAfterValues(t *testing.T) {
	t.Parallel()
	testWithTimeout(t, 5*time.Second)
	is := assert.New(t)

	record := newRecorder[int]()

	sub := Pipe1(Just(1, 2, 3), ObserveOn[int](Goroutine())).Subscribe(record.Observer())
	sub.Wait()

	is.Equal([]int{1, 2, 3}, record.Values())
	is.True(record.Completed())
}

func TestOperatorUtilitySubscribeOn(t *testing.T) {
	t.Parallel()
	testWithTimeout(t, 5*time.Second)
	is := assert.New(t)

	values, err := Collect(Pipe1(Just(1, 2, 3), SubscribeOn[int](Goroutine())))
	is.Equal([]int{1, 2, 3}, values)
	is.NoError(err)
}

func TestOperatorUtilityObserveOnBuffered(t *testing.T) {
	t.Parallel()
	testWithTimeout(t, 5*time.Second)
	is := assert.New(t)

	values, err := Collect(Pipe1(Just(1, 2, 3), ObserveOnBuffered[int](16)))
	is.Equal([]int{1, 2, 3}, values)
	is.NoError(err)

	is.PanicsWithValue(ErrObserveOnBufferedWrongBufferSize, func() {
		ObserveOnBuffered[int](0)
	})
}

func TestOperatorUtilitySubscribeOnBuffered(t *testing.T) {
	t.Parallel()
	testWithTimeout(t, 5*time.Second)
	is := assert.New(t)

	values, err := Collect(Pipe1(Just(1, 2, 3), SubscribeOnBuffered[int](16)))
	is.Equal([]int{1, 2, 3}, values)
	is.NoError(err)
}

func TestOperatorUtilitySerialize(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(Pipe1(Just(1, 2, 3), Serialize[int]()))
	is.Equal([]int{1, 2, 3}, values)
	is.NoError(err)
}
