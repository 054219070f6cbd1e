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
	"log"
)

// Two process-wide escape hatches exist for signals that have nowhere else to
// go:
//
//   - OnUnhandledError receives errors that cannot reach any observer — a
//     panic out of a terminal callback, a failure on a stream that already
//     terminated, a scheduler that rejected work.
//   - OnDroppedNotification receives every notification discarded by the
//     library: pushes after a terminal signal, values shed by a dropping
//     subscriber, history evicted from a replay buffer.
//
// Both default to ignoring their input. Assign your own functions to change
// that, e.g.:
//
//	rx.OnUnhandledError = rx.DefaultOnUnhandledError
//	rx.OnDroppedNotification = func(ctx context.Context, n fmt.Stringer) {
//		slog.Warn("dropped: " + n.String())
//	}
//
// Both hooks run synchronously on the goroutine that produced the signal; a
// slow hook slows the pipeline down.
var (
	OnUnhandledError      = IgnoreOnUnhandledError
	OnDroppedNotification = IgnoreOnDroppedNotification
)

// IgnoreOnUnhandledError is the default implementation of `OnUnhandledError`.
func IgnoreOnUnhandledError(ctx context.Context, err error) {}

// IgnoreOnDroppedNotification is the default implementation of `OnDroppedNotification`.
func IgnoreOnDroppedNotification(ctx context.Context, notification fmt.Stringer) {}

// DefaultOnUnhandledError logs unhandled errors to the standard logger.
func DefaultOnUnhandledError(ctx context.Context, err error) {
	if err != nil {
		// bearer:disable go_lang_logger_leak
		log.Printf("samber/rx: unhandled error: %s\n", err.Error())
	}
}

var _ fmt.Stringer = (*Notification[int])(nil)

// DefaultOnDroppedNotification logs dropped notifications to the standard
// logger.
//
// The hook takes an fmt.Stringer rather than a Notification[T], because a
// package-level variable cannot be generic.
func DefaultOnDroppedNotification(ctx context.Context, notification fmt.Stringer) {
	// bearer:disable go_lang_logger_leak
	log.Printf("samber/rx: dropped notification: %s\n", notification.String())
}
