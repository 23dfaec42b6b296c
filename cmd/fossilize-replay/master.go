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

	"github.com/google/gapid/core/log"
	"github.com/google/gapid/fossilize/control"
	"github.com/google/gapid/fossilize/supervisor"
)

// runMaster is the default (non --slave-process) invocation: it reads
// each archive's pipeline counts, partitions them across numWorkers
// workers, and drives the supervisor event loop until every slot retires.
func runMaster(ctx context.Context, archives []string) error {
	if len(archives) == 0 {
		return fmt.Errorf("fossilize-replay: at least one archive path is required")
	}

	graphicsCount, computeCount, err := archivePipelineCounts(archives)
	if err != nil {
		return err
	}
	log.I(ctx, "replaying %d graphics, %d compute pipelines from %d archive(s) across %d workers",
		graphicsCount, computeCount, len(archives), *numWorkers)

	sink, err := openTelemetry()
	if err != nil {
		log.W(ctx, "control block disabled: %v", err)
		sink = nil
	}
	if sink != nil {
		sink.SetProgressStarted()
	}

	sup := supervisor.New(supervisor.Options{
		ArchivePaths:  archives,
		Executable:    os.Args[0],
		ShmName:       *shmName,
		ShmMutexName:  *shmMutexName,
		NumThreads:    *numThreads,
		PipelineCache: *pipelineCache,
	}, supervisor.LocalSpawner{}, sink)

	if err := sup.Run(ctx, graphicsCount, computeCount, *numWorkers); err != nil {
		return err
	}

	log.I(ctx, "replay complete: %d clean exits, %d dirty exits, %d modules blacklisted",
		sup.CleanProcessDeaths, sup.DirtyProcessDeaths, len(sup.Blacklist()))
	return nil
}

// telemetrySink mirrors the unexported interface supervisor.New expects;
// declared again here only so openTelemetry can name its return type
// without reaching into the supervisor package's internals.
type telemetrySink interface {
	IncBannedModules()
	IncCleanProcessDeaths()
	IncDirtyProcessDeaths()
	SetProgressStarted()
	SetProgressComplete()
	Enqueue(msg []byte)
}

// openTelemetry creates the control block the supervisor reports into: a
// named cross-process region if --shm-name was given (so an external
// observer can attach by name), otherwise a private in-process block that
// still lets DirtyProcessDeaths/CleanProcessDeaths/Blacklist be read back
// from Go, just not from another process.
func openTelemetry() (telemetrySink, error) {
	if *shmName == "" {
		return control.New(control.DefaultRingSize)
	}
	return control.OpenNamedRegion(*shmName, *shmMutexName, control.DefaultRingSize)
}
