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

	"github.com/samber/rx/internal/xerrors"
)

// Teardown releases whatever a producer acquired for one subscription: a
// goroutine, a timer, a file handle. It is returned by the producer at
// subscribe time and runs exactly once, when the Subscription is disposed.
type Teardown func()

// Unsubscribable is anything that can be canceled.
type Unsubscribable interface {
	Unsubscribe()
}

// Subscription is the cancellation handle for one running Observable
// execution. Teardowns accumulate on it while the pipeline is alive and run
// in order when it is disposed.
//
// Disposal is idempotent and monotonic: once IsClosed reports true it stays
// true, and that is observable synchronously from any goroutine.
type Subscription interface {
	Unsubscribable

	Add(teardown Teardown)
	AddUnsubscribable(unsubscribable Unsubscribable)
	IsClosed() bool
	Wait() // Note: using .Wait() is not recommended.
}

var _ Subscription = (*subscriptionImpl)(nil)

// NewSubscription creates a Subscription seeded with an optional teardown.
// A nil teardown is simply skipped.
func NewSubscription(teardown Teardown) Subscription {
	s := &subscriptionImpl{}

	s.Add(teardown)

	return s
}

// EmptySubscription returns a Subscription that is already disposed. It is
// returned by operators and schedulers that have nothing pending to cancel.
func EmptySubscription() Subscription {
	s := NewSubscription(nil)
	s.Unsubscribe()

	return s
}

type subscriptionImpl struct {
	mu        sync.Mutex // guards closed + teardowns; a RWMutex measures slower here
	closed    bool
	teardowns []Teardown
}

// Add schedules a finalizer to run at disposal. When the subscription is
// already disposed, the finalizer runs right away, on the calling goroutine.
//
// Implements Subscription.
func (s *subscriptionImpl) Add(teardown Teardown) {
	if teardown == nil {
		return
	}

	s.mu.Lock()
	late := s.closed

	if !late {
		s.teardowns = append(s.teardowns, teardown)
	}
	s.mu.Unlock()

	if late {
		teardown() // not protected against panics
	}
}

// AddUnsubscribable chains another cancellable into this subscription.
//
// Implements Subscription.
func (s *subscriptionImpl) AddUnsubscribable(unsubscribable Unsubscribable) {
	if unsubscribable == nil {
		return
	}

	s.Add(unsubscribable.Unsubscribe)
}

// Unsubscribe disposes the subscription: the liveness flag latches first,
// then the accumulated teardowns run sequentially, outside the lock. A
// panicking teardown does not prevent the remaining ones from running; the
// collected failures are re-panicked at the end.
//
// Implements Unsubscribable.
func (s *subscriptionImpl) Unsubscribe() {
	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()
		return
	}

	s.closed = true
	teardowns := s.teardowns
	s.teardowns = nil
	s.mu.Unlock()

	var errs []error

	for i := range teardowns {
		if err := execFinalizer(teardowns[i]); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		// errors.Join has been introduced in go 1.20, this library supports go 1.18
		panic(xerrors.Join(errs...))
	}
}

// IsClosed reports whether disposal has started.
//
// Implements Subscription.
func (s *subscriptionImpl) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}

// Wait parks the calling goroutine until the subscription is disposed, which
// is how Collect blocks until a stream terminates. It cuts against the grain
// of push-based code; prefer composing operators.
//
// Note: using .Wait() is not recommended.
//
// Implements Subscription.
func (s *subscriptionImpl) Wait() {
	released := make(chan struct{})

	// There is no guarantee that this callback will be the last finalizer
	// added to this subscription.
	s.Add(func() {
		close(released)
	})

	<-released
}

// execFinalizer runs one finalizer, converting a panic into an error.
func execFinalizer(finalizer func()) error {
	if err := catchPanic(finalizer); err != nil {
		return newUnsubscriptionError(err)
	}

	return nil
}

/****************************
 * Composite subscription   *
 ****************************/

// CompositeSubscription holds a set of child subscriptions that are canceled
// together. A child added after the composite has been disposed is
// unsubscribed immediately and not retained.
type CompositeSubscription interface {
	Subscription

	AddSubscription(child Subscription)
	RemoveSubscription(child Subscription)
	Clear()
	CountSubscriptions() int
}

var _ CompositeSubscription = (*compositeSubscriptionImpl)(nil)

// NewCompositeSubscription creates a new CompositeSubscription holding the
// given children.
func NewCompositeSubscription(children ...Subscription) CompositeSubscription {
	s := &compositeSubscriptionImpl{
		done:       false,
		mu:         sync.Mutex{},
		children:   make(map[Subscription]struct{}, len(children)),
		finalizers: nil,
	}

	for i := range children {
		s.AddSubscription(children[i])
	}

	return s
}

type compositeSubscriptionImpl struct {
	done       bool
	mu         sync.Mutex
	children   map[Subscription]struct{}
	finalizers []func()
}

// AddSubscription retains a child subscription. If the composite has already
// been disposed, the child is unsubscribed immediately and not retained.
//
// This method is thread-safe.
func (s *compositeSubscriptionImpl) AddSubscription(child Subscription) {
	if child == nil {
		return
	}

	s.mu.Lock()

	if s.done {
		s.mu.Unlock()
		child.Unsubscribe()

		return
	}

	s.children[child] = struct{}{}
	s.mu.Unlock()
}

// RemoveSubscription detaches a child subscription and unsubscribes it.
//
// This method is thread-safe.
func (s *compositeSubscriptionImpl) RemoveSubscription(child Subscription) {
	if child == nil {
		return
	}

	s.mu.Lock()
	_, ok := s.children[child]
	delete(s.children, child)
	s.mu.Unlock()

	if ok {
		child.Unsubscribe()
	}
}

// Clear unsubscribes all retained children and forgets them. The composite
// remains usable afterwards.
//
// This method is thread-safe.
func (s *compositeSubscriptionImpl) Clear() {
	s.mu.Lock()
	children := s.children
	s.children = make(map[Subscription]struct{})
	s.mu.Unlock()

	for child := range children {
		child.Unsubscribe()
	}
}

// CountSubscriptions returns the number of currently retained children.
func (s *compositeSubscriptionImpl) CountSubscriptions() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.children)
}

// Add receives a finalizer to execute upon unsubscription, in the same way as
// a plain Subscription. When the composite is already disposed, the callback
// is triggered immediately.
//
// Implements Subscription.
func (s *compositeSubscriptionImpl) Add(teardown Teardown) {
	if teardown == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		teardown()
	} else {
		s.finalizers = append(s.finalizers, teardown)
	}
}

// AddUnsubscribable retains any cancellable as a child.
//
// Implements Subscription.
func (s *compositeSubscriptionImpl) AddUnsubscribable(unsubscribable Unsubscribable) {
	if unsubscribable == nil {
		return
	}

	if child, ok := unsubscribable.(Subscription); ok {
		s.AddSubscription(child)
		return
	}

	s.Add(unsubscribable.Unsubscribe)
}

// Unsubscribe disposes all retained children and runs the finalizers. Further
// additions are unsubscribed immediately.
//
// This method is thread-safe and idempotent.
//
// Implements Unsubscribable.
func (s *compositeSubscriptionImpl) Unsubscribe() {
	s.mu.Lock()

	if s.done {
		s.mu.Unlock()
		return
	}

	s.done = true
	children := s.children
	finalizers := s.finalizers
	s.children = nil
	s.finalizers = nil
	s.mu.Unlock()

	var errs []error

	for child := range children {
		err := execFinalizer(child.Unsubscribe)
		if err != nil {
			errs = append(errs, err)
		}
	}

	for i := range finalizers {
		err := execFinalizer(finalizers[i])
		if err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		panic(xerrors.Join(errs...))
	}
}

// IsClosed returns true if the composite has been disposed.
//
// Implements Subscription.
func (s *compositeSubscriptionImpl) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.done
}

// Wait blocks until the composite is canceled.
//
// Note: using .Wait() is not recommended.
//
// Implements Subscription.
func (s *compositeSubscriptionImpl) Wait() {
	ch := make(chan struct{}, 1)

	s.Add(func() {
		ch <- struct{}{}
	})

	<-ch
	close(ch)
}

/****************************
 *  Serial subscription     *
 ****************************/

// SerialSubscription is a single-slot subscription container. Assigning a new
// child unsubscribes the previous one. If the container itself has been
// disposed, the assignee is unsubscribed immediately.
type SerialSubscription interface {
	Subscription

	Set(child Subscription)
	Get() Subscription
}

var _ SerialSubscription = (*serialSubscriptionImpl)(nil)

// NewSerialSubscription creates a new empty SerialSubscription.
func NewSerialSubscription() SerialSubscription {
	return &serialSubscriptionImpl{
		done:       false,
		mu:         sync.Mutex{},
		current:    nil,
		finalizers: NewSubscription(nil),
	}
}

type serialSubscriptionImpl struct {
	done       bool
	mu         sync.Mutex
	current    Subscription
	finalizers Subscription
}

// Set swaps the retained child. The previous child, if any, is unsubscribed.
// Setting the same instance twice is a no-op. If the container has been
// disposed, the child is unsubscribed immediately and not retained.
//
// This method is thread-safe.
func (s *serialSubscriptionImpl) Set(child Subscription) {
	if child == nil {
		return
	}

	s.mu.Lock()

	if s.done {
		s.mu.Unlock()
		child.Unsubscribe()

		return
	}

	previous := s.current
	if previous == child {
		s.mu.Unlock()
		return
	}

	s.current = child
	s.mu.Unlock()

	if previous != nil {
		previous.Unsubscribe()
	}
}

// Get returns the currently retained child, or nil.
func (s *serialSubscriptionImpl) Get() Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.current
}

// Add receives a finalizer to execute upon unsubscription.
//
// Implements Subscription.
func (s *serialSubscriptionImpl) Add(teardown Teardown) {
	s.finalizers.Add(teardown)
}

// AddUnsubscribable merges another cancellable into the container teardown.
//
// Implements Subscription.
func (s *serialSubscriptionImpl) AddUnsubscribable(unsubscribable Unsubscribable) {
	s.finalizers.AddUnsubscribable(unsubscribable)
}

// Unsubscribe disposes the retained child and the container itself.
//
// This method is thread-safe and idempotent.
//
// Implements Unsubscribable.
func (s *serialSubscriptionImpl) Unsubscribe() {
	s.mu.Lock()

	if s.done {
		s.mu.Unlock()
		return
	}

	s.done = true
	current := s.current
	s.current = nil
	s.mu.Unlock()

	if current != nil {
		current.Unsubscribe()
	}

	s.finalizers.Unsubscribe()
}

// IsClosed returns true if the container has been disposed.
//
// Implements Subscription.
func (s *serialSubscriptionImpl) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.done
}

// Wait blocks until the container is canceled.
//
// Note: using .Wait() is not recommended.
//
// Implements Subscription.
func (s *serialSubscriptionImpl) Wait() {
	s.finalizers.Wait()
}
