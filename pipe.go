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
	"reflect"
)

// Pipe threads a source Observable through a chain of operators of arbitrary
// length. Since each operator changes the element type, the chain cannot be
// expressed with generics alone: the operators are validated and applied
// through reflection, once, at Pipe time — not per message.
//
// Prefer the typed PipeX variants whenever the chain length is fixed; this
// reflective form exists for chains assembled dynamically.
//
// `PipeOp()` is the operator version of `Pipe()`.
func Pipe[First, Last any](source Observable[First], operators ...any) Observable[Last] {
	cursor := reflect.ValueOf(source)

	for _, operator := range operators {
		cursor = applyOperator(cursor, operator)
	}

	target := reflect.TypeOf((*Observable[Last])(nil)).Elem()
	if !cursor.Type().Implements(target) {
		panic(newPipeError("%s does not implements %s", cursor.Type(), target))
	}

	out, _ := cursor.Interface().(Observable[Last])

	return out
}

// applyOperator validates that `operator` is a unary function from one
// Observable interface to another, accepting the current cursor, and applies
// it.
func applyOperator(cursor reflect.Value, operator any) reflect.Value {
	fn := reflect.ValueOf(operator)
	typ := fn.Type()

	if typ.Kind() != reflect.Func || typ.NumIn() != 1 || typ.NumOut() != 1 {
		panic(newPipeError("%s is not an operator", typ))
	}

	if typ.In(0).Kind() != reflect.Interface {
		panic(newPipeError("%s does not implements Observable[T]", typ.In(0)))
	}

	if typ.Out(0).Kind() != reflect.Interface {
		panic(newPipeError("%s does not implements Observable[T]", typ.Out(0)))
	}

	if !cursor.Type().Implements(typ.In(0)) {
		panic(newPipeError("%s does not implements %s", cursor.Type(), typ.In(0)))
	}

	return fn.Call([]reflect.Value{cursor})[0]
}

// PipeOp is the operator form of Pipe: it composes untyped operators into a
// single one.
func PipeOp[First, Last any](operators ...any) func(Observable[First]) Observable[Last] {
	return func(source Observable[First]) Observable[Last] {
		return Pipe[First, Last](source, operators...)
	}
}

// The typed PipeX/PipeOpX families below trade arity for full type safety.
// PipeOpX fuses a fixed chain of operators into one operator; PipeX
// immediately applies that fused operator to a source.

// PipeOp1 fuses 1 operator. Identity, for symmetry.
func PipeOp1[A, B any](
	operator1 func(Observable[A]) Observable[B],
) func(Observable[A]) Observable[B] {
	return operator1
}

// PipeOp2 fuses 2 operators into one.
func PipeOp2[A, B, C any](
	operator1 func(Observable[A]) Observable[B],
	operator2 func(Observable[B]) Observable[C],
) func(Observable[A]) Observable[C] {
	return func(source Observable[A]) Observable[C] {
		return operator2(operator1(source))
	}
}

// PipeOp3 fuses 3 operators into one.
func PipeOp3[A, B, C, D any](
	operator1 func(Observable[A]) Observable[B],
	operator2 func(Observable[B]) Observable[C],
	operator3 func(Observable[C]) Observable[D],
) func(Observable[A]) Observable[D] {
	return func(source Observable[A]) Observable[D] {
		return operator3(operator2(operator1(source)))
	}
}

// PipeOp4 fuses 4 operators into one.
func PipeOp4[A, B, C, D, E any](
	operator1 func(Observable[A]) Observable[B],
	operator2 func(Observable[B]) Observable[C],
	operator3 func(Observable[C]) Observable[D],
	operator4 func(Observable[D]) Observable[E],
) func(Observable[A]) Observable[E] {
	return func(source Observable[A]) Observable[E] {
		return operator4(operator3(operator2(operator1(source))))
	}
}

// PipeOp5 fuses 5 operators into one.
func PipeOp5[A, B, C, D, E, F any](
	operator1 func(Observable[A]) Observable[B],
	operator2 func(Observable[B]) Observable[C],
	operator3 func(Observable[C]) Observable[D],
	operator4 func(Observable[D]) Observable[E],
	operator5 func(Observable[E]) Observable[F],
) func(Observable[A]) Observable[F] {
	return func(source Observable[A]) Observable[F] {
		return operator5(operator4(operator3(operator2(operator1(source)))))
	}
}

// PipeOp6 fuses 6 operators into one.
func PipeOp6[A, B, C, D, E, F, G any](
	operator1 func(Observable[A]) Observable[B],
	operator2 func(Observable[B]) Observable[C],
	operator3 func(Observable[C]) Observable[D],
	operator4 func(Observable[D]) Observable[E],
	operator5 func(Observable[E]) Observable[F],
	operator6 func(Observable[F]) Observable[G],
) func(Observable[A]) Observable[G] {
	return func(source Observable[A]) Observable[G] {
		return operator6(operator5(operator4(operator3(operator2(operator1(source))))))
	}
}

// Pipe1 applies 1 operator to a source, type-safely.
func Pipe1[A, B any](
	source Observable[A],
	operator1 func(Observable[A]) Observable[B],
) Observable[B] {
	return PipeOp1(operator1)(source)
}

// Pipe2 applies a fused chain of 2 operators to a source, type-safely.
func Pipe2[A, B, C any](
	source Observable[A],
	operator1 func(Observable[A]) Observable[B],
	operator2 func(Observable[B]) Observable[C],
) Observable[C] {
	return PipeOp2(operator1, operator2)(source)
}

// Pipe3 applies a fused chain of 3 operators to a source, type-safely.
func Pipe3[A, B, C, D any](
	source Observable[A],
	operator1 func(Observable[A]) Observable[B],
	operator2 func(Observable[B]) Observable[C],
	operator3 func(Observable[C]) Observable[D],
) Observable[D] {
	return PipeOp3(operator1, operator2, operator3)(source)
}

// Pipe4 applies a fused chain of 4 operators to a source, type-safely.
func Pipe4[A, B, C, D, E any](
	source Observable[A],
	operator1 func(Observable[A]) Observable[B],
	operator2 func(Observable[B]) Observable[C],
	operator3 func(Observable[C]) Observable[D],
	operator4 func(Observable[D]) Observable[E],
) Observable[E] {
	return PipeOp4(operator1, operator2, operator3, operator4)(source)
}

// Pipe5 applies a fused chain of 5 operators to a source, type-safely.
func Pipe5[A, B, C, D, E, F any](
	source Observable[A],
	operator1 func(Observable[A]) Observable[B],
	operator2 func(Observable[B]) Observable[C],
	operator3 func(Observable[C]) Observable[D],
	operator4 func(Observable[D]) Observable[E],
	operator5 func(Observable[E]) Observable[F],
) Observable[F] {
	return PipeOp5(operator1, operator2, operator3, operator4, operator5)(source)
}

// Pipe6 applies a fused chain of 6 operators to a source, type-safely.
func Pipe6[A, B, C, D, E, F, G any](
	source Observable[A],
	operator1 func(Observable[A]) Observable[B],
	operator2 func(Observable[B]) Observable[C],
	operator3 func(Observable[C]) Observable[D],
	operator4 func(Observable[D]) Observable[E],
	operator5 func(Observable[E]) Observable[F],
	operator6 func(Observable[F]) Observable[G],
) Observable[G] {
	return PipeOp6(operator1, operator2, operator3, operator4, operator5, operator6)(source)
}
