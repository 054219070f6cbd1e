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

func TestBehaviorSubjectDeliversDefaultFirst(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subject := NewBehaviorSubject("default")

	record := newRecorder[string]()
	subject.Subscribe(record.Observer())

	is.Equal([]string{"default"}, record.Values())
}

func TestBehaviorSubjectScenario(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subject := NewBehaviorSubject("default")

	recordA := newRecorder[string]()
	subject.Subscribe(recordA.Observer())

	subject.Next("one")
	subject.Next("two")
	subject.Complete()

	recordB := newRecorder[string]()
	subject.Subscribe(recordB.Observer())

	is.Equal([]string{"default", "one", "two"}, recordA.Values())
	is.True(recordA.Completed())

	// after termination, only the terminal notification is delivered
	is.Empty(recordB.Values())
	is.True(recordB.Completed())
}

func TestBehaviorSubjectReplaysLatest(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subject := NewBehaviorSubject(0)

	subject.Next(1)
	subject.Next(2)

	record := newRecorder[int]()
	subject.Subscribe(record.Observer())

	subject.Next(3)

	is.Equal([]int{2, 3}, record.Values())
}

func TestBehaviorSubjectErrorToLateSubscriber(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subject := NewBehaviorSubject(0)
	subject.Next(1)
	subject.Error(assert.AnError)

	record := newRecorder[int]()
	subject.Subscribe(record.Observer())

	is.Empty(record.Values())
	is.Equal(assert.AnError, record.Err())
}

func TestBehaviorSubjectDropsAfterTerminal(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subject := NewBehaviorSubject(0)

	record := newRecorder[int]()
	subject.Subscribe(record.Observer())

	subject.Complete()
	subject.Next(42)
	subject.Error(assert.AnError)

	is.Equal([]int{0}, record.Values())
	is.True(record.Completed())
	is.False(record.Errored())
}
