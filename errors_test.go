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
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWrappedErrors(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	err := newObservableError(assert.AnError)
	is.Contains(err.Error(), "rx.Observable")
	is.True(errors.Is(err, assert.AnError))

	err = newObserverError(assert.AnError)
	is.Contains(err.Error(), "rx.Observer")
	is.True(errors.Is(err, assert.AnError))

	err = newObserverError(nil)
	is.Equal("rx.Observer: <nil>", err.Error())

	err = newUnsubscriptionError(assert.AnError)
	is.Contains(err.Error(), "rx.Subscription")
	is.True(errors.Is(err, assert.AnError))

	err = newSchedulerError(assert.AnError)
	is.Contains(err.Error(), "rx.Scheduler")
	is.True(errors.Is(err, assert.AnError))
}

func TestTimeoutError(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	err := newTimeoutError(time.Second)
	is.Equal("rx.Timeout: timeout after 1s", err.Error())
	is.True(IsTimeoutError(err))
	is.False(IsTimeoutError(assert.AnError))
}

func TestRecoverValueToError(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	is.Equal(assert.AnError, recoverValueToError(assert.AnError))
	is.EqualError(recoverValueToError("boom"), "unexpected error: boom")
}
