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

// fossilize-replay drives replay of a recorded pipeline catalogue against
// a live driver. Invoked with no flags it is the master supervisor (spec
// section 4.7): it partitions the archive's pipeline counts across worker
// processes, spawns them, and recovers from crashes by blacklisting the
// offending shader module and respawning over the unfinished sub-range.
// Invoked with --slave-process it is one such worker (spec section 4.6):
// it replays a single index range in this process and reports progress
// and crashes back to its parent over an inherited pipe.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/gapid/core/app"
)

var (
	slaveProcess  = flag.Bool("slave-process", false, "run as a worker replaying one pipeline sub-range, per spec section 4.6")
	numThreads    = flag.Int("num-threads", 1, "master: thread count passed to each spawned worker's --num-threads (at least 1)")
	numWorkers    = flag.Int("num-workers", 4, "master: number of worker processes to partition the archive across")
	shmName       = flag.String("shm-name", "", "name of the shared control-block region (empty disables telemetry)")
	shmMutexName  = flag.String("shm-mutex-name", "", "name of the control block's named mutex")
	pipelineCache = flag.Bool("pipeline-cache", false, "worker: enable the on-driver pipeline cache")
)

// graphicsRange and computeRange hold the two-value --graphics-pipeline-range
// and --compute-pipeline-range flags, stripped out of os.Args in main
// before the standard flag package ever sees them.
var graphicsRange, computeRange rangeFlag

func main() {
	rest, graphics, compute, err := stripRangeFlags(os.Args[1:])
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	graphicsRange, computeRange = graphics, compute
	os.Args = append(os.Args[:1], rest...)

	app.ShortHelp = "fossilize-replay replays a recorded pipeline catalogue against the driver, supervising crashes."
	app.Version = app.VersionSpec{Major: 1, Minor: 0}
	app.Run(run)
}

func run(ctx context.Context) error {
	archives := flag.Args()
	if *slaveProcess {
		return runSlave(ctx, archives)
	}
	return runMaster(ctx, archives)
}
