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

package main

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/google/gapid/fossilize/worker"
	"github.com/google/gapid/fossilize/worker/replay"
)

// runSlave is the --slave-process invocation: it replays exactly the
// [graphicsRange, computeRange) sub-ranges it was told, reporting
// progress and crashes back to the master down the inherited pipe on
// fd 1. stdout is duplicated to a private handle before anything else
// touches it, so no amount of driver logging can corrupt the framed
// message stream the master is reading.
func runSlave(ctx context.Context, archives []string) error {
	if !graphicsRange.set || !computeRange.set {
		return fmt.Errorf("fossilize-replay: --slave-process requires --graphics-pipeline-range and --compute-pipeline-range")
	}
	if len(archives) == 0 {
		return fmt.Errorf("fossilize-replay: --slave-process requires at least one archive path")
	}

	crashHandle, err := duplicateStdout()
	if err != nil {
		return fmt.Errorf("fossilize-replay: duplicating stdout: %w", err)
	}
	defer crashHandle.Close()

	blacklist := worker.ReadBlacklist(os.Stdin)

	engine, err := loadEngine(archives)
	if err != nil {
		return fmt.Errorf("fossilize-replay: loading archive: %w", err)
	}

	cfg := worker.Config{
		GraphicsStart: graphicsRange.start,
		GraphicsEnd:   graphicsRange.end,
		ComputeStart:  computeRange.start,
		ComputeEnd:    computeRange.end,
	}
	code := worker.Run(ctx, cfg, engine, blacklist, crashHandle)
	os.Exit(int(code))
	return nil
}

// duplicateStdout hands back a private copy of fd 1 (the pipe the master
// is reading framed messages from) and redirects the process's own
// stdout to fd 2, so the replay engine is free to log to "stdout" as
// usual without interleaving with the framed-message stream.
func duplicateStdout() (*os.File, error) {
	dup, err := dupFD(1)
	if err != nil {
		return nil, err
	}
	if err := unix.Dup2(2, 1); err != nil {
		dup.Close()
		return nil, err
	}
	os.Stdout = os.Stderr
	return dup, nil
}

// loadEngine reads every archive path, in order, into one Engine covering
// their concatenated global pipeline-index space — the same order and
// space the master's archivePipelineCounts and Partition assume when it
// computes this worker's --graphics-pipeline-range/--compute-pipeline-range.
func loadEngine(archives []string) (*replay.Engine, error) {
	datas := make([][]byte, len(archives))
	for i, p := range archives {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		datas[i] = data
	}
	return replay.Load(datas)
}
