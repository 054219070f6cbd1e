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
	"context"
	"errors"
	"fmt"
	"time"
)

func recoverValueToError(e any) error {
	if err, ok := e.(error); ok {
		return err
	}

	return fmt.Errorf("unexpected error: %v", e)
}

// catchPanic runs cb and reports a recovered panic as an error.
func catchPanic(cb func()) (err error) {
	defer func() {
		if e := recover(); e != nil {
			err = recoverValueToError(e)
		}
	}()

	cb()

	return nil
}

func recoverUnhandledError(cb func()) {
	if err := catchPanic(cb); err != nil {
		OnUnhandledError(context.TODO(), err)
	}
}

// Misuse errors. They are raised with panic at construction time, not at
// subscription time.
var (
	//nolint:revive
	ErrRangeWithStepWrongStep                       = errors.New("rx.RangeWithStep: step must be greater than 0")
	ErrFirstEmpty                                   = errors.New("rx.First: empty")
	ErrLastEmpty                                    = errors.New("rx.Last: empty")
	ErrTakeWrongCount                               = errors.New("rx.Take: count must be greater or equal to 0")
	ErrSkipWrongCount                               = errors.New("rx.Skip: count must be greater or equal to 0")
	ErrElementAtWrongNth                            = errors.New("rx.ElementAt: nth must be greater or equal to 0")
	ErrElementAtNotFound                            = errors.New("rx.ElementAt: nth element not found")
	ErrRepeatWrongCount                             = errors.New("rx.Repeat: count must be greater or equal to 0")
	ErrToChannelWrongSize                           = errors.New("rx.ToChannel: size must be greater or equal to 0")
	ErrBufferWithCountWrongSize                     = errors.New("rx.BufferWithCount: size must be greater than 0")
	ErrTimeoutWrongDuration                         = errors.New("rx.Timeout: duration must be greater than 0")
	ErrIntervalWrongDuration                        = errors.New("rx.Interval: interval must be greater than 0")
	ErrMergeAllWrongConcurrency                     = errors.New("rx.MergeAll: maxConcurrent must be greater than 0")
	ErrReplaySubjectWrongWindow                     = errors.New("rx.ReplaySubject: window must be greater or equal to 0")
	ErrSubscribeOnBufferedWrongBufferSize           = errors.New("rx.SubscribeOnBuffered: buffer size must be greater than 0")
	ErrObserveOnBufferedWrongBufferSize             = errors.New("rx.ObserveOnBuffered: buffer size must be greater than 0")
	ErrDetachOnWrongMode                            = errors.New("rx.detachOn: unexpected detach mode")
	ErrUnicastSubjectConcurrent                     = errors.New("rx.UnicastSubject: a single subscriber accepted")
	ErrConnectableObservableMissingConnectorFactory = errors.New("rx.ConnectableObservable: missing connector factory")
	ErrWhenMissingPlan                              = errors.New("rx.When: at least one plan required")
)

func newUnsubscriptionError(err error) error {
	return &unsubscriptionError{
		err: err,
	}
}

type unsubscriptionError struct {
	err error
}

func (e *unsubscriptionError) Error() string {
	return "rx.Subscription: " + e.err.Error()
}

func (e *unsubscriptionError) Unwrap() error {
	return e.err
}

func newObservableError(err error) error {
	return &observableError{
		err: err,
	}
}

type observableError struct {
	err error
}

func (e *observableError) Error() string {
	return "rx.Observable: " + e.err.Error()
}

func (e *observableError) Unwrap() error {
	return e.err
}

func newObserverError(err error) error {
	return &observerError{
		err: err,
	}
}

type observerError struct {
	err error
}

func (e *observerError) Error() string {
	err := "<nil>"
	if e.err != nil {
		err = e.err.Error()
	}

	return "rx.Observer: " + err
}

func (e *observerError) Unwrap() error {
	return e.err
}

func newSchedulerError(err error) error {
	return &schedulerError{
		err: err,
	}
}

type schedulerError struct {
	err error
}

func (e *schedulerError) Error() string {
	return "rx.Scheduler: " + e.err.Error()
}

func (e *schedulerError) Unwrap() error {
	return e.err
}

func newTimeoutError(duration time.Duration) error {
	return &timeoutError{
		duration: duration,
	}
}

// IsTimeoutError reports whether err was produced by the Timeout operators.
func IsTimeoutError(err error) bool {
	var e *timeoutError
	return errors.As(err, &e)
}

type timeoutError struct {
	duration time.Duration
}

func (e *timeoutError) Error() string {
	return "rx.Timeout: timeout after " + e.duration.String()
}

func (e *timeoutError) Timeout() bool {
	return true
}

func newPipeError(msg string, args ...any) error {
	return &pipeError{
		err: fmt.Errorf(msg, args...),
	}
}

type pipeError struct {
	err error
}

func (e *pipeError) Error() string {
	return "rx.Pipe: " + e.err.Error()
}

func (e *pipeError) Unwrap() error {
	return e.err
}
