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
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPipeTyped(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(
		Pipe3(
			Just(1, 2, 3, 4),
			Filter(func(x int) bool { return x%2 == 0 }),
			Map(func(x int) string { return strconv.Itoa(x) }),
			Take[string](1),
		),
	)
	is.Equal([]string{"2"}, values)
	is.NoError(err)
}

func TestPipeUntyped(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(
		Pipe[int, string](
			Just(1, 2, 3),
			Map(func(x int) int { return x * 10 }),
			Map(func(x int) string { return strconv.Itoa(x) }),
		),
	)
	is.Equal([]string{"10", "20", "30"}, values)
	is.NoError(err)
}

func TestPipeUntypedPanicsOnNonOperator(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	is.Panics(func() {
		Pipe[int, int](Just(1), 42)
	})

	is.Panics(func() {
		// mismatching operator chain
		Pipe[int, int](Just(1), Map(func(x string) int { return 0 }))
	})
}

func TestPipeOp(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	op := PipeOp2(
		Filter(func(x int) bool { return x > 1 }),
		Map(func(x int) int { return x * 2 }),
	)

	values, err := Collect(op(Just(1, 2, 3)))
	is.Equal([]int{4, 6}, values)
	is.NoError(err)
}
