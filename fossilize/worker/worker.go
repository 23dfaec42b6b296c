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
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/google/gapid/core/app/crash"
	"github.com/google/gapid/core/fault/stacktrace"
	"github.com/google/gapid/core/log"
	"github.com/google/gapid/fossilize/ipc"
)

// Config is everything a worker needs to start: the graphics/compute
// index ranges it owns.
type Config struct {
	GraphicsStart, GraphicsEnd uint32
	ComputeStart, ComputeEnd   uint32
}

// ExitCode is returned by Run; the caller (cmd/fossilize-replay) passes it
// to os.Exit verbatim. 0 is a clean finish, 2 is the crash handler firing;
// anything else (including signals) is the supervisor's problem, not the
// worker's own exit path.
type ExitCode int

const (
	ExitSuccess ExitCode = 0
	ExitCrashed ExitCode = 2
)

// ReadBlacklist reads hex-encoded shader-module hashes from r, one per
// line, stopping at EOF or at a line that parses to the literal value
// zero. The zero terminator is the wire convention the recorder uses when
// streaming a blacklist over a pipe it otherwise can't signal EOF on; spec
// section 4.6 only says "streamed over stdin", the terminator itself comes
// from original_source/cli (see SPEC_FULL.md).
func ReadBlacklist(r io.Reader) []uint64 {
	var out []uint64
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		hash, err := strconv.ParseUint(line, 16, 64)
		if err != nil {
			continue
		}
		if hash == 0 {
			break
		}
		out = append(out, hash)
	}
	return out
}

// Run installs the last-resort crash handler, configures engine with
// blacklist, and replays cfg's ranges. crashHandle is the private
// duplicate of the process's original stdout that cmd/fossilize-replay
// sets up before calling Run, so that nothing the driver writes to the
// "real" stdout can corrupt the framed-message stream.
//
// On a panic anywhere during Run (standing in for a driver crash), the
// handler writes CRASH, then one MODULE line per implicated shader
// module, then the current GRAPHICS and COMPUTE progress, in that exact
// order — CRASH first is what lets the supervisor arm its teardown
// timeout before any of the rest of this handler runs. It then calls
// EmergencyTeardown and, like crash.Crash everywhere else in this
// codebase, repanics: the worker process ends via its own unrecovered
// panic, which the Go runtime reports with exit status 2, matching
// ExitCrashed without cmd/fossilize-replay needing to do anything special.
// Run only returns normally, with ExitSuccess, when the replay completed
// without ever crashing.
func Run(ctx context.Context, cfg Config, engine ReplayEngine, blacklist []uint64, crashHandle io.Writer) ExitCode {
	engine.SetBlacklist(blacklist)

	reportCrash := func(e interface{}, _ stacktrace.Callstack) {
		io.WriteString(crashHandle, ipc.FormatCrash())
		for _, h := range engine.ImplicatedModules() {
			io.WriteString(crashHandle, ipc.FormatModule(h))
		}
		io.WriteString(crashHandle, ipc.FormatGraphics(engine.GraphicsProgress()))
		io.WriteString(crashHandle, ipc.FormatCompute(engine.ComputeProgress()))
		engine.EmergencyTeardown()
	}
	crash.Register(reportCrash)

	defer func() {
		if e := recover(); e != nil {
			crash.Crash(e)
		}
	}()
	if err := engine.Run(ctx, cfg.GraphicsStart, cfg.GraphicsEnd, cfg.ComputeStart, cfg.ComputeEnd); err != nil {
		log.E(ctx, "replay failed: %v", err)
		crash.Crash(err)
	}

	return ExitSuccess
}
