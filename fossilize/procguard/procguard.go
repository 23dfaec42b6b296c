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

// Package procguard implements the process-group lifetime guard (spec
// C8): all worker processes are enrolled in a group configured to die with
// the master, so a crashed or killed master never leaves orphaned replay
// workers holding GPU resources.
//
// The original targets Windows Job Objects with
// JOB_OBJECT_LIMIT_KILL_ON_JOB_CLOSE; on the Unix targets this module
// builds for, the equivalent is a combination of Setpgid (so the whole
// group can be signalled at once) and PR_SET_PDEATHSIG in each child (so a
// worker dies if its parent, the master, dies first — including on
// SIGKILL, which the master cannot catch to clean up after).
package procguard

import (
	"context"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/google/gapid/core/event/task"
	"github.com/google/gapid/core/log"
	"github.com/google/gapid/core/os/shell"
)

// Apply configures cmd so that, once started, the resulting process joins
// a new process group and receives SIGKILL if the master (the process
// that started it) ever dies first.
func Apply(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid:   true,
		Pdeathsig: unix.SIGKILL,
	}
}

// Target wraps an existing shell.Target so that every process it starts
// is enrolled in the group-death guard: the supervisor uses this instead
// of shell.LocalTarget directly when spawning replay workers.
func Target(inner shell.Target) shell.Target { return guardedTarget{inner} }

type guardedTarget struct{ inner shell.Target }

// localGuardedStart is used only when wrapping shell.LocalTarget itself,
// where we know the underlying process exposes an *exec.Cmd we can harden
// before Start; wrapping any other target (e.g. a remote device) falls
// through to that target unguarded, since process-group semantics are
// meaningless off the local machine.
func (t guardedTarget) Start(cmd shell.Cmd) (shell.Process, error) {
	if t.inner == shell.LocalTarget {
		return localGuardedStart(cmd)
	}
	return t.inner.Start(cmd)
}

func localGuardedStart(cmd shell.Cmd) (shell.Process, error) {
	ecmd := exec.Command(cmd.Name, cmd.Args...)
	ecmd.Dir = cmd.Dir
	ecmd.Stdout = cmd.Stdout
	ecmd.Stderr = cmd.Stderr
	ecmd.Stdin = cmd.Stdin
	if cmd.Environment != nil {
		ecmd.Env = cmd.Environment.Vars()
	}
	Apply(ecmd)
	if err := ecmd.Start(); err != nil {
		return nil, err
	}
	return &guardedProcess{exec: ecmd}, nil
}

type guardedProcess struct {
	exec *exec.Cmd
}

func (p *guardedProcess) Wait(ctx context.Context) error {
	res := make(chan error, 1)
	go func() { res <- p.exec.Wait() }()
	select {
	case err := <-res:
		return err
	case <-task.ShouldStop(ctx):
		log.W(ctx, "Killing %v (context cancelled)", p.exec.Path)
		KillGroup(p.exec.Process.Pid, syscall.SIGKILL)
		return task.StopReason(ctx)
	}
}

func (p *guardedProcess) Kill() error {
	return KillGroup(p.exec.Process.Pid, syscall.SIGKILL)
}

// KillGroup sends sig to every process in pgid's process group, the
// master-triggered equivalent of a job object's group-kill: used when the
// master is shutting down voluntarily and wants to guarantee no worker
// outlives it, rather than relying solely on each worker's own
// parent-death signal.
func KillGroup(pgid int, sig syscall.Signal) error {
	return syscall.Kill(-pgid, sig)
}
