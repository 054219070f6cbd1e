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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperatorMathSum(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(Sum[int]()(Just(1, 2, 3)))
	is.Equal([]int{6}, values)
	is.NoError(err)

	floats, err := Collect(Sum[float64]()(Just(1.5, 2.5)))
	is.Equal([]float64{4}, floats)
	is.NoError(err)
}

func TestOperatorMathAverage(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(Average[int]()(Just(1, 2, 3)))
	is.Equal([]float64{2}, values)
	is.NoError(err)

	values, err = Collect(Average[int]()(Empty[int]()))
	is.NoError(err)
	is.Len(values, 1)
	is.True(math.IsNaN(values[0]))
}

func TestOperatorMathCount(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(Count[string]()(Just("a", "b")))
	is.Equal([]int64{2}, values)
	is.NoError(err)

	values, err = Collect(Count[string]()(Empty[string]()))
	is.Equal([]int64{0}, values)
	is.NoError(err)
}

func TestOperatorMathMinMax(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(Min[int]()(Just(3, 1, 2)))
	is.Equal([]int{1}, values)
	is.NoError(err)

	values, err = Collect(Max[int]()(Just(3, 1, 2)))
	is.Equal([]int{3}, values)
	is.NoError(err)

	values, err = Collect(Min[int]()(Empty[int]()))
	is.Equal([]int{}, values)
	is.NoError(err)
}

func TestOperatorMathReduce(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(
		Reduce(func(acc string, item int) string {
			return acc + "x"
		}, "")(Just(1, 2, 3)),
	)
	is.Equal([]string{"xxx"}, values)
	is.NoError(err)
}
