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

//go:build !go1.22

package xrand

import "math/rand"

// IntN returns a non-negative pseudo-random int in [0, n).
func IntN(n int) int {
	return rand.Intn(n) //nolint:gosec
}

// Int64 returns a non-negative pseudo-random int64.
func Int64() int64 {
	return rand.Int63() //nolint:gosec
}

// Float64 returns a pseudo-random float64 in [0, 1).
func Float64() float64 {
	return rand.Float64() //nolint:gosec
}
