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
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/google/gapid/core/fault"
	"github.com/google/gapid/core/os/shell"
	"github.com/google/gapid/fossilize/procguard"
)

// SpawnFailure is returned when a worker process cannot be created at
// all; the supervisor aborts rather than attempting to continue with
// fewer workers than the partition plan assumed.
const SpawnFailure = fault.Const("fossilize: failed to spawn worker")

// UnrecoverableEarlyCrash marks a worker that died before reporting any
// progress; its index range is dropped rather than retried, since there
// is nothing to indicate the failure was tied to one specific pipeline.
const UnrecoverableEarlyCrash = fault.Const("fossilize: worker crashed with no progress marker")

// Options carries everything about one replay run that every worker
// needs to be told: the archive paths it replays from, and the shared
// control-block names it should attach to (both empty disables telemetry).
type Options struct {
	ArchivePaths  []string
	Executable    string
	ShmName       string
	ShmMutexName  string
	NumThreads    int
	PipelineCache bool
}

// spawnedProcess is the supervisor's view of one live worker process: the
// things the event loop needs (the read end of its framed-message pipe,
// a way to wait for exit, a way to kill it), independent of how it was
// started. LocalSpawner backs this with shell.LocalTarget and os.Pipe;
// tests back it with an in-process fake.
type spawnedProcess interface {
	Stdout() io.ReadCloser
	Wait() error
	Kill() error
}

// Spawner starts one worker process for a given range and blacklist.
type Spawner interface {
	Spawn(ctx context.Context, opts Options, graphics, compute Range, blacklist []uint64) (spawnedProcess, error)
}

// LocalSpawner spawns workers as child processes of the current process
// using shell.LocalTarget, matching how every other external tool in this
// codebase is invoked (core/os/shell.Cmd.Run).
type LocalSpawner struct{}

type localSpawned struct {
	process shell.Process
	stdout  io.ReadCloser
}

func (p *localSpawned) Stdout() io.ReadCloser { return p.stdout }
func (p *localSpawned) Wait() error           { return p.process.Wait(context.Background()) }
func (p *localSpawned) Kill() error           { return p.process.Kill() }

// Spawn builds the worker command line described in spec section 6 and
// starts it under shell.LocalTarget, handing it procguard.Apply so the
// worker dies if this process does.
func (LocalSpawner) Spawn(ctx context.Context, opts Options, graphics, compute Range, blacklist []uint64) (spawnedProcess, error) {
	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, SpawnFailure
	}

	args := append([]string{}, opts.ArchivePaths...)
	args = append(args,
		"--slave-process",
		"--num-threads", strconv.Itoa(maxInt(1, opts.NumThreads)),
		"--graphics-pipeline-range", fmt.Sprint(graphics.Start), fmt.Sprint(graphics.End),
		"--compute-pipeline-range", fmt.Sprint(compute.Start), fmt.Sprint(compute.End),
	)
	if opts.ShmName != "" {
		args = append(args, "--shm-name", opts.ShmName)
	}
	if opts.ShmMutexName != "" {
		args = append(args, "--shm-mutex-name", opts.ShmMutexName)
	}
	if opts.PipelineCache {
		args = append(args, "--pipeline-cache")
	}

	cmd := shell.Command(opts.Executable, args...)
	cmd.Stdin = blacklistReader(blacklist)
	cmd.Stdout = pw

	target := procguard.Target(shell.LocalTarget)
	process, err := target.Start(cmd)
	pw.Close()
	if err != nil {
		pr.Close()
		return nil, SpawnFailure
	}
	return &localSpawned{process: process, stdout: pr}, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// blacklistReader renders hashes as the hex-lines-terminated-by-zero
// stream worker.ReadBlacklist expects on stdin.
func blacklistReader(hashes []uint64) io.Reader {
	var buf bytes.Buffer
	for _, h := range hashes {
		fmt.Fprintf(&buf, "%x\n", h)
	}
	buf.WriteString("0\n")
	return &buf
}
