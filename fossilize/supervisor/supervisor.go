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

// Package supervisor implements the master side of the replay supervisor
// (spec C7): it partitions the archive's pipeline counts across worker
// processes, spawns and respawns them, and multiplexes their framed
// progress messages, exits, and crash-teardown timers on a single
// cooperative event loop.
package supervisor

import (
	"context"
	"reflect"

	"github.com/google/gapid/core/log"
	"github.com/google/gapid/fossilize/ipc"
)

// telemetrySink is the subset of control.Block (and control.NamedRegion)
// the event loop writes to; kept as an interface here so the master can
// hand in either the in-process block or a cross-process named region
// without the supervisor caring which.
type telemetrySink interface {
	IncBannedModules()
	IncCleanProcessDeaths()
	IncDirtyProcessDeaths()
	SetProgressComplete()
	Enqueue(msg []byte)
}

// Supervisor owns every worker slot for one replay run.
type Supervisor struct {
	opts      Options
	spawner   Spawner
	control   telemetrySink
	workers   []*worker
	blacklist map[uint64]bool

	CleanProcessDeaths int
	DirtyProcessDeaths int
}

// New creates a supervisor for the given options, using spawner to start
// worker processes (LocalSpawner{} in production) and block to mirror
// progress/blacklist telemetry (nil disables the control block entirely).
// block may be a *control.Block or a *control.NamedRegion.
func New(opts Options, spawner Spawner, block telemetrySink) *Supervisor {
	return &Supervisor{
		opts:      opts,
		spawner:   spawner,
		control:   block,
		blacklist: map[uint64]bool{},
	}
}

// Blacklist returns the current set of banned shader-module hashes, in no
// particular order.
func (s *Supervisor) Blacklist() []uint64 {
	out := make([]uint64, 0, len(s.blacklist))
	for h := range s.blacklist {
		out = append(out, h)
	}
	return out
}

// Run partitions graphicsCount and computeCount pipelines across
// numWorkers workers, spawns them, and drives the event loop until every
// slot reaches Retired. It returns the first SpawnFailure encountered, if
// any; UnrecoverableEarlyCrash slots are logged and simply dropped, per
// spec section 7's propagation policy.
func (s *Supervisor) Run(ctx context.Context, graphicsCount, computeCount uint64, numWorkers int) error {
	graphicsRanges := Partition(graphicsCount, numWorkers)
	computeRanges := Partition(computeCount, numWorkers)

	for i := 0; i < numWorkers; i++ {
		if err := s.spawn(ctx, i, graphicsRanges[i], computeRanges[i]); err != nil {
			return err
		}
	}

	for s.anyActive() {
		if err := s.tick(ctx); err != nil {
			return err
		}
	}

	if s.control != nil {
		s.control.SetProgressComplete()
	}
	return nil
}

func (s *Supervisor) anyActive() bool {
	for _, w := range s.workers {
		if w != nil && w.state != Retired {
			return true
		}
	}
	return false
}

func (s *Supervisor) spawn(ctx context.Context, slot int, graphics, compute Range) error {
	proc, err := s.spawner.Spawn(ctx, s.opts, graphics, compute, s.Blacklist())
	if err != nil {
		return SpawnFailure
	}
	for len(s.workers) <= slot {
		s.workers = append(s.workers, nil)
	}
	s.workers[slot] = newWorker(slot, graphics, compute, proc)
	return nil
}

// tick waits for exactly one event across every active worker's pipe,
// process-exit, and timer handles, and processes it. Handle priority:
// reflect.Select picks pseudo-randomly among ready cases, so when a
// worker's exit is picked, its pipe is first read to the end and every
// pending message dispatched before the exit is acted on; a read error met
// there is handled like any other channel failure, as a crash without
// progress.
func (s *Supervisor) tick(ctx context.Context) error {
	cases := make([]reflect.SelectCase, 0, len(s.workers)*3)
	owners := make([]*worker, 0, cap(cases))
	kinds := make([]int, 0, cap(cases))

	const (
		kindPipe = iota
		kindExit
		kindTimer
	)

	for _, w := range s.workers {
		if w == nil || w.state == Retired {
			continue
		}
		if !w.pipeDone {
			cases = append(cases, reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(w.channel.Events())})
			owners = append(owners, w)
			kinds = append(kinds, kindPipe)
		}

		cases = append(cases, reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(w.exitCh)})
		owners = append(owners, w)
		kinds = append(kinds, kindExit)

		if tc := w.timerChan(); tc != nil {
			cases = append(cases, reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(tc)})
			owners = append(owners, w)
			kinds = append(kinds, kindTimer)
		}
	}

	if len(cases) == 0 {
		return nil
	}

	i, v, ok := reflect.Select(cases)
	w := owners[i]
	switch kinds[i] {
	case kindPipe:
		if !ok {
			// Channel closed with no final error event: treat like an
			// ordinary EOF, nothing more to read before the exit arrives.
			// Drop this case from future ticks so a closed channel does
			// not spin the select loop.
			w.pipeDone = true
			return nil
		}
		ev := v.Interface().(ipc.Event)
		if ev.Err != nil {
			return s.handleChannelFailure(ctx, w)
		}
		s.dispatch(ctx, w, ev.Msg)
	case kindExit:
		var exitErr error
		if ev := v.Interface(); ev != nil {
			exitErr = ev.(error)
		}
		for !w.pipeDone {
			ev, ok := <-w.channel.Events()
			if !ok {
				w.pipeDone = true
			} else if ev.Err != nil {
				w.pipeDone, w.graphicsProgress, w.computeProgress = true, -1, -1
				exitErr = ipc.ChannelFailure
			} else {
				s.dispatch(ctx, w, ev.Msg)
			}
		}
		return s.handleExit(ctx, w, exitErr)
	case kindTimer:
		return s.handleTimerExpiry(ctx, w)
	}
	return nil
}

func (s *Supervisor) dispatch(ctx context.Context, w *worker, msg ipc.Message) {
	if w.state == Spawned {
		w.state = Running
	}
	switch msg.Kind {
	case ipc.KindCrash:
		w.state = Crashing
		w.armTimer()
	case ipc.KindGraphics:
		w.graphicsProgress = int64(msg.GraphicsIndex)
	case ipc.KindCompute:
		w.computeProgress = int64(msg.ComputeIndex)
	case ipc.KindModule:
		s.blacklist[msg.ModuleHash] = true
		if s.control != nil {
			s.control.IncBannedModules()
			s.control.Enqueue([]byte(ipc.FormatModule(msg.ModuleHash)))
		}
	default:
		log.W(ctx, "worker %d: dropping unrecognised message %q", w.slot, msg.Raw)
	}
}

// handleChannelFailure implements spec section 7's ChannelFailure policy
// unconditionally: an async-read or write error on a worker's pipe kills
// that worker and retires its slot as a no-progress crash, regardless of
// whatever progress markers it had already reported. It never falls
// through to handleExit, since handleExit's !w.progressed() branch would
// let a worker that happened to report progress before its pipe broke
// take the respawn path instead.
func (s *Supervisor) handleChannelFailure(ctx context.Context, w *worker) error {
	log.E(ctx, "worker %d: channel failure, treating as crash without progress", w.slot)
	w.disarmTimer()
	w.channel.Close()
	w.proc.Kill()
	<-w.exitCh // reap so the process never lingers; its exit code is irrelevant here
	w.state = Retired

	s.DirtyProcessDeaths++
	if s.control != nil {
		s.control.IncDirtyProcessDeaths()
	}
	return nil
}

func (s *Supervisor) handleExit(ctx context.Context, w *worker, exitErr error) error {
	w.disarmTimer()
	w.channel.Close()
	w.state = Exited

	code := exitCodeOf(exitErr)
	switch {
	case code == 0:
		s.CleanProcessDeaths++
		if s.control != nil {
			s.control.IncCleanProcessDeaths()
		}
		w.state = Retired
		return nil
	case !w.progressed():
		s.DirtyProcessDeaths++
		if s.control != nil {
			s.control.IncDirtyProcessDeaths()
		}
		log.E(ctx, "worker %d: %v (graphics %v, compute %v dropped)", w.slot, UnrecoverableEarlyCrash, w.graphics, w.compute)
		w.state = Retired
		return nil
	default:
		return s.respawn(ctx, w)
	}
}

func (s *Supervisor) handleTimerExpiry(ctx context.Context, w *worker) error {
	log.W(ctx, "worker %d: crash teardown timed out, terminating", w.slot)
	w.proc.Kill()
	// The kill above makes the process's own exit channel fire shortly;
	// resolve it synchronously here rather than waiting another tick, so
	// callers observe one state transition per timer expiry.
	exitErr := <-w.exitCh
	return s.handleExit(ctx, w, exitErr)
}

func (s *Supervisor) respawn(ctx context.Context, w *worker) error {
	graphics, compute := w.remaining()
	proc, err := s.spawner.Spawn(ctx, s.opts, graphics, compute, s.Blacklist())
	if err != nil {
		return SpawnFailure
	}
	s.workers[w.slot] = newWorker(w.slot, graphics, compute, proc)
	return nil
}

func exitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	type exitCoder interface{ ExitCode() int }
	if ec, ok := err.(exitCoder); ok {
		return ec.ExitCode()
	}
	return -1
}
