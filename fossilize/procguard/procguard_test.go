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

package procguard

import (
	"testing"

	"github.com/google/gapid/core/os/shell"
)

type stubTarget struct {
	started bool
}

func (s *stubTarget) Start(cmd shell.Cmd) (shell.Process, error) {
	s.started = true
	return nil, nil
}

func TestTargetFallsThroughForNonLocalInner(t *testing.T) {
	inner := &stubTarget{}
	guarded := Target(inner)

	if _, err := guarded.Start(shell.Command("echo", "hi")); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !inner.started {
		t.Fatalf("expected the wrapped non-local target to have been used directly")
	}
}

func TestKillGroupSignalsNegatedPgid(t *testing.T) {
	// KillGroup is a one-line wrapper around syscall.Kill(-pgid, sig); a
	// nonexistent pgid should fail rather than silently succeed, which is
	// the only thing we can assert without actually spawning a process.
	if err := KillGroup(1<<30, 0); err == nil {
		t.Fatalf("expected an error signalling a nonexistent process group")
	}
}
