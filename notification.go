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
	"fmt"
)

// Kind discriminates the three signals a stream can carry.
type Kind uint8

// Kind constants.
const (
	KindNext Kind = iota
	KindError
	KindComplete
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case KindNext:
		return "Next"
	case KindError:
		return "Error"
	case KindComplete:
		return "Complete"
	}

	panic("you shall not pass")
}

// Notification is a single reified signal: a Next value, an Error, or a
// Complete marker. A well-formed stream is any number of Next notifications
// followed by at most one Error or one Complete. Reifying signals lets
// operators queue them, hand them across goroutines and replay them against
// an Observer later, without losing which of the three they were.
type Notification[T any] struct {
	Kind  Kind
	Value T
	Err   error
}

// NewNotificationNext creates a new Notification with a Next value.
func NewNotificationNext[T any](value T) Notification[T] {
	return Notification[T]{
		Kind:  KindNext,
		Value: value,
	}
}

// NewNotificationError creates a new Notification with an Error.
func NewNotificationError[T any](err error) Notification[T] {
	return Notification[T]{
		Kind: KindError,
		Err:  err,
	}
}

// NewNotificationComplete creates a new Notification with a Complete signal.
func NewNotificationComplete[T any]() Notification[T] {
	return Notification[T]{
		Kind: KindComplete,
	}
}

// IsNext reports whether the notification carries a value.
func (n Notification[T]) IsNext() bool {
	return n.Kind == KindNext
}

// IsError reports whether the notification carries an error.
func (n Notification[T]) IsError() bool {
	return n.Kind == KindError
}

// IsComplete reports whether the notification is a completion marker.
func (n Notification[T]) IsComplete() bool {
	return n.Kind == KindComplete
}

// IsTerminal reports whether the notification ends the stream.
func (n Notification[T]) IsTerminal() bool {
	return n.Kind != KindNext
}

// Send replays the notification against the destination Observer, invoking
// the method matching its kind.
func (n Notification[T]) Send(destination Observer[T]) {
	n.SendWithContext(context.Background(), destination)
}

// SendWithContext replays the notification against the destination Observer,
// invoking the method matching its kind.
func (n Notification[T]) SendWithContext(ctx context.Context, destination Observer[T]) {
	switch n.Kind {
	case KindNext:
		destination.NextWithContext(ctx, n.Value)
	case KindError:
		destination.ErrorWithContext(ctx, n.Err)
	case KindComplete:
		destination.CompleteWithContext(ctx)
	}
}

// Implements fmt.Stringer, mostly for the OnDroppedNotification hook and for
// debugging.
func (n Notification[T]) String() string {
	switch n.Kind {
	case KindNext:
		return fmt.Sprintf("Next(%+v)", n.Value)
	case KindError:
		if n.Err == nil {
			return "Error(nil)"
		}

		return fmt.Sprintf("Error(%s)", n.Err.Error())
	case KindComplete:
		return "Complete()"
	}

	panic("you shall not pass")
}
