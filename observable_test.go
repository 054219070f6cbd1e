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

func TestObservableSubscribe(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	obs := NewObservable(func(destination Observer[int]) Teardown {
		destination.Next(1)
		destination.Next(2)
		destination.Complete()

		return nil
	})

	values, err := Collect(obs)
	is.Equal([]int{1, 2}, values)
	is.NoError(err)
}

func TestObservableIsCold(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subscriptions := 0

	obs := NewObservable(func(destination Observer[int]) Teardown {
		subscriptions++
		destination.Next(subscriptions)
		destination.Complete()

		return nil
	})

	is.Equal(0, subscriptions)

	_, _ = Collect(obs)
	_, _ = Collect(obs)

	is.Equal(2, subscriptions)
}

func TestObservableProducerPanicBecomesError(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	obs := NewObservable(func(destination Observer[int]) Teardown {
		panic("boom")
	})

	values, err := Collect(obs)
	is.Empty(values)
	is.Error(err)
	is.Contains(err.Error(), "rx.Observable")
}

func TestObservableTeardownOnUnsubscribe(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	torn := false

	obs := NewObservable(func(destination Observer[int]) Teardown {
		return func() {
			torn = true
		}
	})

	sub := obs.Subscribe(NoopObserver[int]())
	is.False(torn)

	sub.Unsubscribe()
	is.True(torn)
}

func TestObservableTeardownOnComplete(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	torn := false

	obs := NewObservable(func(destination Observer[int]) Teardown {
		destination.Complete()

		return func() {
			torn = true
		}
	})

	obs.Subscribe(NoopObserver[int]())
	is.True(torn)
}

func TestObservableTerminalAtMostOnceAcrossOperators(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	// a misbehaving producer pushing after its terminal notification
	obs := NewObservable(func(destination Observer[int]) Teardown {
		destination.Next(1)
		destination.Complete()
		destination.Next(2)
		destination.Error(assert.AnError)
		destination.Complete()

		return nil
	})

	record := newRecorder[int]()

	Pipe3(
		obs,
		Map(func(x int) int { return x * 10 }),
		Filter(func(x int) bool { return true }),
		passThrough[int](),
	).Subscribe(record.Observer())

	is.Equal([]int{10}, record.Values())
	is.True(record.Completed())
	is.False(record.Errored())
}

func TestLiftCancellationPropagatesUpstream(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	torn := false

	source := NewObservable(func(destination Observer[int]) Teardown {
		return func() {
			torn = true
		}
	})

	sub := Pipe2(
		source,
		Map(func(x int) int { return x + 1 }),
		Filter(func(x int) bool { return x > 0 }),
	).Subscribe(NoopObserver[int]())

	sub.Unsubscribe()

	is.True(torn)
}

func TestLiftStopsProducerAfterDownstreamCompletes(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	emitted := 0

	source := NewUnsafeObservable(func(destination Observer[int]) Teardown {
		for i := 0; i < 1000 && !destination.IsClosed(); i++ {
			emitted++
			destination.Next(i)
		}

		destination.Complete()

		return nil
	})

	values, err := Collect(Pipe1(source, Take[int](2)))
	is.NoError(err)
	is.Equal([]int{0, 1}, values)
	is.Equal(2, emitted)
}

func TestCollectError(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(Throw[int](assert.AnError))
	is.Empty(values)
	is.EqualError(err, assert.AnError.Error())
}

func TestConnectableObservable(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subscriptions := 0

	source := NewObservable(func(destination Observer[int]) Teardown {
		subscriptions++
		destination.Next(42)
		destination.Complete()

		return nil
	})

	connectable := Connectable(source)

	recordA := newRecorder[int]()
	recordB := newRecorder[int]()

	connectable.Subscribe(recordA.Observer())
	connectable.Subscribe(recordB.Observer())

	is.Equal(0, subscriptions)
	is.Empty(recordA.Values())

	connectable.Connect()

	is.Equal(1, subscriptions)
	is.Equal([]int{42}, recordA.Values())
	is.Equal([]int{42}, recordB.Values())
	is.True(recordA.Completed())
	is.True(recordB.Completed())
}
