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

package supervisor

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/gapid/fossilize/control"
	"github.com/google/gapid/fossilize/ipc"
)

// fakeExitError mimics *exec.ExitError just enough for exitCodeOf.
type fakeExitError struct{ code int }

func (e fakeExitError) Error() string { return "exit status" }
func (e fakeExitError) ExitCode() int { return e.code }

type fakeProc struct {
	pw     *io.PipeWriter
	stdout *io.PipeReader

	mu     sync.Mutex
	killed bool
	exitCh chan error
}

func newFakeProc() *fakeProc {
	stdout, pw := io.Pipe()
	return &fakeProc{stdout: stdout, pw: pw, exitCh: make(chan error, 1)}
}

func (f *fakeProc) Stdout() io.ReadCloser { return f.stdout }
func (f *fakeProc) Wait() error           { return <-f.exitCh }
func (f *fakeProc) Kill() error {
	f.mu.Lock()
	f.killed = true
	f.mu.Unlock()
	select {
	case f.exitCh <- fakeExitError{code: 3}:
	default:
	}
	return nil
}

func (f *fakeProc) send(s string)   { io.WriteString(f.pw, s) }
func (f *fakeProc) exit(code int) {
	f.pw.Close()
	f.exitCh <- fakeExitError{code: code}
}

// scriptedSpawner hands back pre-built fakeProcs in Spawn call order, one
// per entry in procs; a test drives each fakeProc's pipe/exit directly
// from a separate goroutine to script a scenario.
type scriptedSpawner struct {
	mu    sync.Mutex
	procs []*fakeProc
	spawned [][3]uint64 // graphics.Start, compute.Start, len(blacklist) per call, for assertions
}

func (s *scriptedSpawner) Spawn(ctx context.Context, opts Options, graphics, compute Range, blacklist []uint64) (spawnedProcess, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.procs) == 0 {
		return nil, SpawnFailure
	}
	p := s.procs[0]
	s.procs = s.procs[1:]
	s.spawned = append(s.spawned, [3]uint64{graphics.Start, compute.Start, uint64(len(blacklist))})
	return p, nil
}

func TestCleanRunThreeWorkers(t *testing.T) {
	procs := []*fakeProc{newFakeProc(), newFakeProc(), newFakeProc()}
	spawner := &scriptedSpawner{procs: append([]*fakeProc{}, procs...)}
	block, err := control.New(control.DefaultRingSize)
	if err != nil {
		t.Fatal(err)
	}
	s := New(Options{Executable: "replay"}, spawner, block)

	for _, p := range procs {
		p := p
		go func() {
			p.send(ipc.FormatGraphics(3))
			p.send(ipc.FormatCompute(2))
			p.exit(0)
		}()
	}

	if err := s.Run(context.Background(), 9, 6, 3); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if s.CleanProcessDeaths != 3 {
		t.Fatalf("CleanProcessDeaths = %d, want 3", s.CleanProcessDeaths)
	}
	if !block.ProgressComplete() {
		t.Fatalf("expected ProgressComplete to be set")
	}
	if block.CleanProcessDeaths() != 3 {
		t.Fatalf("control block CleanProcessDeaths = %d, want 3", block.CleanProcessDeaths())
	}
}

func TestSingleCrashMidRangeRespawnsWithBlacklist(t *testing.T) {
	first := newFakeProc()
	second := newFakeProc()
	spawner := &scriptedSpawner{procs: []*fakeProc{first, second}}
	s := New(Options{Executable: "replay"}, spawner, nil)

	go func() {
		first.send(ipc.FormatCrash())
		first.send(ipc.FormatModule(0xdeadbeef))
		first.send(ipc.FormatGraphics(1))
		first.send(ipc.FormatCompute(0))
		first.exit(2)
	}()
	go func() {
		second.send(ipc.FormatGraphics(3))
		second.send(ipc.FormatCompute(2))
		second.exit(0)
	}()

	if err := s.Run(context.Background(), 3, 2, 1); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	bl := s.Blacklist()
	if len(bl) != 1 || bl[0] != 0xdeadbeef {
		t.Fatalf("blacklist = %v, want [0xdeadbeef]", bl)
	}
	if len(spawner.spawned) != 2 {
		t.Fatalf("expected 2 spawns, got %d", len(spawner.spawned))
	}
	respawn := spawner.spawned[1]
	if respawn[0] != 1 || respawn[1] != 0 {
		t.Fatalf("respawn range = %v, want graphics.Start=1 compute.Start=0", respawn)
	}
	if respawn[2] != 1 {
		t.Fatalf("respawn blacklist size = %d, want 1", respawn[2])
	}
}

func TestEarlyCrashNoProgressIsNotRespawned(t *testing.T) {
	p := newFakeProc()
	spawner := &scriptedSpawner{procs: []*fakeProc{p}}
	s := New(Options{Executable: "replay"}, spawner, nil)

	go p.exit(2)

	if err := s.Run(context.Background(), 3, 2, 1); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if s.DirtyProcessDeaths != 1 {
		t.Fatalf("DirtyProcessDeaths = %d, want 1", s.DirtyProcessDeaths)
	}
	if len(spawner.spawned) != 1 {
		t.Fatalf("expected no respawn, got %d total spawns", len(spawner.spawned))
	}
}

func TestHungTeardownIsTerminatedAndRespawnedWithoutDirtyCount(t *testing.T) {
	first := newFakeProc()
	second := newFakeProc()
	spawner := &scriptedSpawner{procs: []*fakeProc{first, second}}
	s := New(Options{Executable: "replay"}, spawner, nil)

	go func() {
		first.send(ipc.FormatGraphics(1))
		first.send(ipc.FormatCompute(0))
		first.send(ipc.FormatCrash())
		// Never exits on its own; the supervisor's timer must kill it.
	}()
	go func() {
		second.send(ipc.FormatGraphics(3))
		second.send(ipc.FormatCompute(2))
		second.exit(0)
	}()

	start := time.Now()
	if err := s.Run(context.Background(), 3, 2, 1); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < crashTeardownTimeout {
		t.Fatalf("returned before the teardown timer should have fired: %v", elapsed)
	}
	if s.DirtyProcessDeaths != 0 {
		t.Fatalf("DirtyProcessDeaths = %d, want 0 (progress was observed)", s.DirtyProcessDeaths)
	}
	if len(spawner.spawned) != 2 {
		t.Fatalf("expected a respawn after the hung teardown, got %d spawns", len(spawner.spawned))
	}
}

// TestChannelFailureIsTreatedAsCrashWithoutProgress exercises spec
// section 7's ChannelFailure disposition: even though the worker had
// already reported progress (which would normally earn it a respawn
// through handleExit), a pipe read error must kill it and count it as an
// unrecoverable, no-progress crash unconditionally.
func TestChannelFailureIsTreatedAsCrashWithoutProgress(t *testing.T) {
	p := newFakeProc()
	spawner := &scriptedSpawner{procs: []*fakeProc{p}}
	s := New(Options{Executable: "replay"}, spawner, nil)

	go func() {
		p.send(ipc.FormatGraphics(1))
		p.send(ipc.FormatCompute(0))
		p.pw.CloseWithError(errors.New("broken pipe"))
	}()

	if err := s.Run(context.Background(), 3, 2, 1); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if s.DirtyProcessDeaths != 1 {
		t.Fatalf("DirtyProcessDeaths = %d, want 1", s.DirtyProcessDeaths)
	}
	if len(spawner.spawned) != 1 {
		t.Fatalf("expected no respawn despite observed progress, got %d total spawns", len(spawner.spawned))
	}
	p.mu.Lock()
	killed := p.killed
	p.mu.Unlock()
	if !killed {
		t.Fatalf("expected the worker process to be killed on channel failure")
	}
}
