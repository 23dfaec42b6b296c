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

package worker

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/gapid/fossilize/ipc"
)

type fakeEngine struct {
	blacklist  []uint64
	graphics   uint32
	compute    uint32
	implicated []uint64
	runErr     error
	panicOnRun bool
	tornDown   bool
}

func (f *fakeEngine) SetBlacklist(h []uint64)     { f.blacklist = h }
func (f *fakeEngine) GraphicsProgress() uint32    { return f.graphics }
func (f *fakeEngine) ComputeProgress() uint32     { return f.compute }
func (f *fakeEngine) ImplicatedModules() []uint64 { return f.implicated }
func (f *fakeEngine) EmergencyTeardown()          { f.tornDown = true }
func (f *fakeEngine) Run(ctx context.Context, gs, ge, cs, ce uint32) error {
	if f.panicOnRun {
		panic("driver exploded")
	}
	f.graphics = ge
	f.compute = ce
	return f.runErr
}

func TestRunSuccessWritesNoFrames(t *testing.T) {
	var buf bytes.Buffer
	eng := &fakeEngine{}
	code := Run(context.Background(), Config{0, 4, 0, 2}, eng, []uint64{0xaa}, &buf)
	if code != ExitSuccess {
		t.Fatalf("got code %v, want ExitSuccess", code)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no crash frames, got %q", buf.String())
	}
	if len(eng.blacklist) != 1 || eng.blacklist[0] != 0xaa {
		t.Fatalf("blacklist not forwarded: %v", eng.blacklist)
	}
	if eng.graphics != 4 || eng.compute != 2 {
		t.Fatalf("ranges not forwarded: graphics=%d compute=%d", eng.graphics, eng.compute)
	}
}

func TestRunCrashEmitsFramesInOrderThenRepanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected Run to repanic after reporting the crash")
		}
	}()

	var buf bytes.Buffer
	eng := &fakeEngine{implicated: []uint64{0x1, 0x2}, graphics: 3, compute: 1, panicOnRun: true}
	_ = Run(context.Background(), Config{0, 4, 0, 2}, eng, nil, &buf)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := []ipc.Kind{ipc.KindCrash, ipc.KindModule, ipc.KindModule, ipc.KindGraphics, ipc.KindCompute}
	if len(lines) != len(want) {
		t.Fatalf("got %d frames, want %d: %v", len(lines), len(want), lines)
	}
	for i, l := range lines {
		if got := ipc.Parse(l).Kind; got != want[i] {
			t.Fatalf("frame %d: got %v, want %v (%q)", i, got, want[i], l)
		}
	}
	if !eng.tornDown {
		t.Fatalf("expected EmergencyTeardown to be called")
	}
}
