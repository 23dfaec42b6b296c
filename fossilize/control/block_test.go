// Copyright (C) 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package control

import (
	"sync"
	"testing"
)

func TestNewRejectsNonPowerOfTwoRingSize(t *testing.T) {
	if _, err := New(3); err != ControlBlockCorrupt {
		t.Fatalf("New(3) = %v, want ControlBlockCorrupt", err)
	}
}

func TestCountersAndRingBuffer(t *testing.T) {
	b, err := New(4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.IncBannedModules()
			b.Enqueue([]byte("MODULE deadbeefdeadbeef"))
		}()
	}
	wg.Wait()
	if got := b.BannedModules(); got != 10 {
		t.Fatalf("BannedModules() = %d, want 10", got)
	}
	msgs := b.Drain()
	if len(msgs) != 4 {
		t.Fatalf("Drain() returned %d messages, want 4 (ring size)", len(msgs))
	}
}

func TestProgressFlags(t *testing.T) {
	b, _ := New(2)
	if b.ProgressStarted() || b.ProgressComplete() {
		t.Fatalf("flags should start clear")
	}
	b.SetProgressStarted()
	if !b.ProgressStarted() {
		t.Fatalf("SetProgressStarted did not take effect")
	}
	b.SetProgressComplete()
	if !b.ProgressComplete() {
		t.Fatalf("SetProgressComplete did not take effect")
	}
}
