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
	"sync"
)

// Pattern2 pairs two Observables awaiting a combiner. See And2.
type Pattern2[A, B any] struct {
	obsA Observable[A]
	obsB Observable[B]
}

// Pattern3 groups three Observables awaiting a combiner. See And3.
type Pattern3[A, B, C any] struct {
	obsA Observable[A]
	obsB Observable[B]
	obsC Observable[C]
}

// And2 declares a join pattern over two Observables: an emission is pending
// once an item has arrived on each. Attach a combiner with Then2 and activate
// the plan with When.
func And2[A, B any](obsA Observable[A], obsB Observable[B]) *Pattern2[A, B] {
	return &Pattern2[A, B]{
		obsA: obsA,
		obsB: obsB,
	}
}

// And3 declares a join pattern over three Observables. See And2.
func And3[A, B, C any](obsA Observable[A], obsB Observable[B], obsC Observable[C]) *Pattern3[A, B, C] {
	return &Pattern3[A, B, C]{
		obsA: obsA,
		obsB: obsB,
		obsC: obsC,
	}
}

// Plan is a join pattern bound to a combiner, ready to be activated by When.
type Plan[R any] struct {
	inputs  []planInput
	combine func(values []any) R
}

// planInput is a type-erased join input. The key identifies the source, so
// that the same Observable used by several plans is subscribed only once per
// When.
type planInput struct {
	key       any
	subscribe func(ctx context.Context, onNext func(context.Context, any), onError func(context.Context, error), onComplete func(context.Context)) Subscription
}

func erasePlanInput[A any](obs Observable[A]) planInput {
	return planInput{
		key: obs,
		subscribe: func(ctx context.Context, onNext func(context.Context, any), onError func(context.Context, error), onComplete func(context.Context)) Subscription {
			return obs.SubscribeWithContext(ctx, NewObserverWithContext(
				func(ctx context.Context, v A) {
					onNext(ctx, v)
				},
				onError,
				onComplete,
			))
		},
	}
}

// Then2 binds a combiner to a two-input pattern.
func Then2[A, B, R any](pattern *Pattern2[A, B], combiner func(a A, b B) R) *Plan[R] {
	return &Plan[R]{
		inputs: []planInput{
			erasePlanInput(pattern.obsA),
			erasePlanInput(pattern.obsB),
		},
		combine: func(values []any) R {
			return combiner(values[0].(A), values[1].(B)) //nolint:errcheck,forcetypeassert
		},
	}
}

// Then3 binds a combiner to a three-input pattern.
func Then3[A, B, C, R any](pattern *Pattern3[A, B, C], combiner func(a A, b B, c C) R) *Plan[R] {
	return &Plan[R]{
		inputs: []planInput{
			erasePlanInput(pattern.obsA),
			erasePlanInput(pattern.obsB),
			erasePlanInput(pattern.obsC),
		},
		combine: func(values []any) R {
			return combiner(values[0].(A), values[1].(B), values[2].(C)) //nolint:errcheck,forcetypeassert
		},
	}
}

// When activates a set of join plans. Each input stream is subscribed once and
// feeds a queue; when every input of a plan has a queued item, one item is
// consumed from each atomically and the combiner's result is emitted. A plan
// dies once one of its inputs completed with an empty queue; the output
// completes when every plan is dead. An error on any input tears down all
// plans referring to it and propagates.
func When[R any](plans ...*Plan[R]) Observable[R] {
	if len(plans) == 0 {
		panic(ErrWhenMissingPlan)
	}

	return NewObservableWithContext(func(subscriberCtx context.Context, destination Observer[R]) Teardown {
		c := &joinCoordinator[R]{
			destination:   destination,
			subscriptions: NewCompositeSubscription(),
			observers:     map[any]*joinObserver{},
		}

		// register plans and their inputs before any source can emit
		for _, plan := range plans {
			active := &activeJoinPlan[R]{
				id:      len(c.plans),
				combine: plan.combine,
				alive:   true,
			}

			for _, input := range plan.inputs {
				observer, ok := c.observers[input.key]
				if !ok {
					observer = &joinObserver{input: input}
					c.observers[input.key] = observer
					c.order = append(c.order, observer)
				}

				observer.planIDs = append(observer.planIDs, active.id)
				active.inputs = append(active.inputs, observer)
			}

			c.plans = append(c.plans, active)
		}

		c.alive = len(c.plans)

		for _, observer := range c.order {
			observer := observer

			c.subscriptions.AddSubscription(observer.input.subscribe(
				subscriberCtx,
				func(ctx context.Context, v any) {
					c.onNext(ctx, observer, v)
				},
				func(ctx context.Context, err error) {
					c.onError(ctx, err)
				},
				func(ctx context.Context) {
					c.onComplete(ctx, observer)
				},
			))
		}

		return c.subscriptions.Unsubscribe
	})
}

// joinObserver queues the items of one input stream and records the plans
// consuming it by id, which breaks the plan/observer ownership cycle.
type joinObserver struct {
	input   planInput
	queue   []any
	done    bool
	planIDs []int
}

type activeJoinPlan[R any] struct {
	id      int
	inputs  []*joinObserver
	combine func(values []any) R
	alive   bool
}

type joinCoordinator[R any] struct {
	mu            sync.Mutex
	destination   Observer[R]
	subscriptions CompositeSubscription
	observers     map[any]*joinObserver
	order         []*joinObserver
	plans         []*activeJoinPlan[R]
	alive         int
	terminated    bool
}

func (c *joinCoordinator[R]) onNext(ctx context.Context, observer *joinObserver, value any) {
	c.mu.Lock()

	if c.terminated {
		c.mu.Unlock()
		return
	}

	observer.queue = append(observer.queue, value)

	// fire every plan this input satisfies; items are consumed under the lock
	emissions := [][]any{}
	combiners := []func(values []any) R{}

	for _, id := range observer.planIDs {
		plan := c.plans[id]
		if !plan.alive {
			continue
		}

		for c.planReady(plan) {
			values := make([]any, len(plan.inputs))

			for i, input := range plan.inputs {
				values[i] = input.queue[0]
				input.queue = input.queue[1:]
			}

			emissions = append(emissions, values)
			combiners = append(combiners, plan.combine)
		}
	}

	c.reapPlans()
	done := c.terminated
	c.mu.Unlock()

	for i := range emissions {
		c.destination.NextWithContext(ctx, combiners[i](emissions[i]))
	}

	if done {
		c.destination.CompleteWithContext(ctx)
		c.subscriptions.Unsubscribe()
	}
}

func (c *joinCoordinator[R]) planReady(plan *activeJoinPlan[R]) bool {
	// a plan may reference the same input several times
	needed := map[*joinObserver]int{}

	for _, input := range plan.inputs {
		needed[input]++
	}

	for input, n := range needed {
		if len(input.queue) < n {
			return false
		}
	}

	return true
}

// reapPlans deactivates plans that can never fire again: one of their inputs
// is done and drained. Must be called with c.mu held; latches termination
// when no plan stays alive.
func (c *joinCoordinator[R]) reapPlans() {
	for _, plan := range c.plans {
		if !plan.alive {
			continue
		}

		for _, input := range plan.inputs {
			if input.done && len(input.queue) == 0 {
				plan.alive = false
				c.alive--

				break
			}
		}
	}

	if c.alive == 0 && !c.terminated {
		c.terminated = true
	}
}

func (c *joinCoordinator[R]) onError(ctx context.Context, err error) {
	c.mu.Lock()

	if c.terminated {
		c.mu.Unlock()
		OnDroppedNotification(ctx, NewNotificationError[R](err))

		return
	}

	c.terminated = true
	c.mu.Unlock()

	c.destination.ErrorWithContext(ctx, err)
	c.subscriptions.Unsubscribe()
}

func (c *joinCoordinator[R]) onComplete(ctx context.Context, observer *joinObserver) {
	c.mu.Lock()

	if c.terminated {
		c.mu.Unlock()
		return
	}

	observer.done = true
	c.reapPlans()
	done := c.terminated
	c.mu.Unlock()

	if done {
		c.destination.CompleteWithContext(ctx)
		c.subscriptions.Unsubscribe()
	}
}
