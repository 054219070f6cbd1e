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

	"github.com/stretchr/testify/assert"
)

func TestSubscriberForwardsUntilTerminal(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	record := newRecorder[int]()
	subscriber := NewSubscriber(record.Observer())

	subscriber.Next(1)
	subscriber.Next(2)
	subscriber.Complete()
	subscriber.Next(3)
	subscriber.Error(assert.AnError)

	is.Equal([]int{1, 2}, record.Values())
	is.True(record.Completed())
	is.False(record.Errored())
}

func TestSubscriberNoSignalAfterUnsubscribe(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	record := newRecorder[int]()
	subscriber := NewSubscriber(record.Observer())

	subscriber.Next(1)
	subscriber.Unsubscribe()
	subscriber.Next(2)
	subscriber.Error(assert.AnError)
	subscriber.Complete()

	is.Equal([]int{1}, record.Values())
	is.False(record.Errored())
	is.False(record.Completed())
	is.True(subscriber.IsClosed())
}

func TestSubscriberUnsubscribeIsMonotonic(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subscriber := NewSubscriber(NoopObserver[int]())

	is.False(subscriber.IsClosed())
	subscriber.Unsubscribe()
	is.True(subscriber.IsClosed())
	subscriber.Unsubscribe()
	is.True(subscriber.IsClosed())
}

func TestSubscriberRunsFinalizersOnTerminal(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	count := 0

	subscriber := NewSubscriber(NoopObserver[int]())
	subscriber.Add(func() {
		count++
	})

	subscriber.Complete()

	is.Equal(1, count)
}

func TestSubscriberWrappingSubscriberIsIdentity(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	inner := NewSubscriber(NoopObserver[int]())
	outer := NewSubscriber[int](inner)

	is.Equal(inner, outer)
}

func TestSafeSubscriberSerializesConcurrentProducers(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	// the underlying observer must never observe interleaved calls
	inCallback := 0
	maxInCallback := 0
	var observedMu sync.Mutex

	subscriber := NewSafeSubscriber(NewObserver(
		func(v int) {
			observedMu.Lock()
			inCallback++
			if inCallback > maxInCallback {
				maxInCallback = inCallback
			}
			observedMu.Unlock()

			observedMu.Lock()
			inCallback--
			observedMu.Unlock()
		},
		func(err error) {},
		func() {},
	))

	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for j := 0; j < 100; j++ {
				subscriber.Next(j)
			}
		}()
	}

	wg.Wait()

	is.Equal(1, maxInCallback)
}
