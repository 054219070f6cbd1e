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

package xerrors_test

import (
	"errors"
	"testing"

	"github.com/samber/rx/internal/xerrors"
)

func TestJoinNil(t *testing.T) {
	t.Parallel()

	if err := xerrors.Join(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}

	if err := xerrors.Join(nil, nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestJoinConcatenatesMessages(t *testing.T) {
	t.Parallel()

	err := xerrors.Join(errors.New("a"), nil, errors.New("b"))
	if err == nil {
		t.Fatal("expected an error")
	}

	if err.Error() != "a\nb" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestJoinSingle(t *testing.T) {
	t.Parallel()

	inner := errors.New("boom")

	err := xerrors.Join(inner)
	if err == nil || err.Error() != "boom" {
		t.Errorf("unexpected error: %v", err)
	}
}
