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
	"time"

	"github.com/google/gapid/fossilize/ipc"
)

// State is one state of a worker's lifecycle (spec section 4.7).
type State int

const (
	Spawned State = iota
	Running
	Crashing
	Terminated
	Exited
	Retired
)

func (s State) String() string {
	switch s {
	case Spawned:
		return "spawned"
	case Running:
		return "running"
	case Crashing:
		return "crashing"
	case Terminated:
		return "terminated"
	case Exited:
		return "exited"
	case Retired:
		return "retired"
	default:
		return "unknown"
	}
}

const crashTeardownTimeout = time.Second

// worker is the supervisor's bookkeeping record for one slot: the
// half-open graphics/compute ranges it owns, the last progress markers it
// reported, and the handles the event loop multiplexes over. Exactly one
// goroutine — the supervisor's run loop — ever mutates a worker's fields,
// matching the spec's "no locks on its own state" requirement; the
// process-exit watcher and the ipc.Channel reader only ever send on
// channels, they never touch this struct.
type worker struct {
	slot int

	graphics Range
	compute  Range

	graphicsProgress int64 // -1 until a marker is seen.
	computeProgress  int64

	state State

	proc     spawnedProcess
	channel  *ipc.Channel
	pipeDone bool
	exitCh   <-chan error

	timer *time.Timer
}

func newWorker(slot int, graphics, compute Range, p spawnedProcess) *worker {
	ch := make(chan error, 1)
	go func() { ch <- p.Wait() }()
	return &worker{
		slot:             slot,
		graphics:         graphics,
		compute:          compute,
		graphicsProgress: -1,
		computeProgress:  -1,
		state:            Spawned,
		proc:             p,
		channel:          ipc.NewChannel(p.Stdout()),
		exitCh:           ch,
	}
}

// remaining reports the sub-range still unfinished, used to build the
// respawn range after a crash with observed progress.
func (w *worker) remaining() (graphics, compute Range) {
	graphics = w.graphics
	if w.graphicsProgress >= 0 {
		graphics.Start = uint64(w.graphicsProgress)
	}
	compute = w.compute
	if w.computeProgress >= 0 {
		compute.Start = uint64(w.computeProgress)
	}
	return graphics, compute
}

// progressed reports whether any progress marker was ever observed, the
// test the supervisor uses to distinguish a recoverable crash from
// UnrecoverableEarlyCrash.
func (w *worker) progressed() bool {
	return w.graphicsProgress >= 0 || w.computeProgress >= 0
}

func (w *worker) armTimer() {
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.NewTimer(crashTeardownTimeout)
}

func (w *worker) disarmTimer() {
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

func (w *worker) timerChan() <-chan time.Time {
	if w.timer == nil {
		return nil
	}
	return w.timer.C
}
