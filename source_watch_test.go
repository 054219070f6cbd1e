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
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
)

func TestWatchFSEmitsEvents(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	dir := t.TempDir()

	events := make(chan fsnotify.Event, 16)

	sub := WatchFS(dir).Subscribe(OnNext(func(e fsnotify.Event) {
		events <- e
	}))
	defer sub.Unsubscribe()

	path := filepath.Join(dir, "a.txt")
	is.NoError(os.WriteFile(path, []byte("x"), 0o600))

	select {
	case event := <-events:
		is.True(strings.HasSuffix(event.Name, "a.txt"))
	case <-time.After(3 * time.Second):
		t.Fatal("no filesystem event received")
	}
}

func TestWatchFSErrorsOnMissingPath(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	record := newRecorder[fsnotify.Event]()

	sub := WatchFS("/definitely/not/a/path").Subscribe(record.Observer())
	defer sub.Unsubscribe()

	// path registration happens at subscribe time
	is.True(record.Errored())
}
