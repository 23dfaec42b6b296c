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

// Package replay is a concrete worker.ReplayEngine: it parses the
// archive's serialized document and walks the requested graphics/compute
// pipeline ranges, skipping any pipeline whose shader module is
// blacklisted. The graphics-API calls that would actually build a
// pipeline against a live driver are out of scope (spec section 1); where
// the real engine would call into the driver, this one only advances its
// progress counters, which is exactly the surface worker.Run and the
// crash handler depend on.
package replay

import (
	"context"
	"sync/atomic"

	"github.com/google/gapid/fossilize/state"
	"github.com/google/gapid/fossilize/wire"
)

// Engine replays the pipelines recorded in a parsed archive.
type Engine struct {
	shaderModuleHashes []uint64
	graphicsPipelines  []state.GraphicsPipeline
	computePipelines   []state.ComputePipeline

	blacklist map[uint64]bool

	graphicsProgress int32
	computeProgress  int32

	lastGraphics int
	lastCompute  int
}

// Load parses archives (each one's serialized document, spec section 6,
// read in the same order the master's archivePipelineCounts summed them
// in) into a single Engine covering the concatenated global index space a
// worker's --graphics-pipeline-range/--compute-pipeline-range refer to.
// Every archive contributes its own shader-module registry; a later
// archive's Stage.Module refs are rebased by the shader-module count of
// every archive already merged, since Ref is a 1-based index into the
// per-archive registry the pipeline was parsed alongside, not a global one.
func Load(archives [][]byte) (*Engine, error) {
	e := &Engine{graphicsProgress: -1, computeProgress: -1, lastGraphics: -1, lastCompute: -1}
	for _, data := range archives {
		var c collector
		if err := wire.Parse(data, &c); err != nil {
			return nil, err
		}
		moduleOffset := state.Ref(len(e.shaderModuleHashes))
		e.shaderModuleHashes = append(e.shaderModuleHashes, c.shaderModuleHashes...)
		for _, p := range c.graphicsPipelines {
			rebaseStages(p.Stages, moduleOffset)
			e.graphicsPipelines = append(e.graphicsPipelines, p)
		}
		for _, p := range c.computePipelines {
			if p.Stage.Module.Valid() {
				p.Stage.Module += moduleOffset
			}
			e.computePipelines = append(e.computePipelines, p)
		}
	}
	return e, nil
}

// rebaseStages shifts every valid Module ref in stages by offset,
// in place, so it indexes into the merged, cross-archive shader-module
// registry instead of the single archive it was parsed from.
func rebaseStages(stages []state.Stage, offset state.Ref) {
	for i := range stages {
		if stages[i].Module.Valid() {
			stages[i].Module += offset
		}
	}
}

// SetBlacklist installs the shader-module hashes to skip.
func (e *Engine) SetBlacklist(hashes []uint64) {
	e.blacklist = make(map[uint64]bool, len(hashes))
	for _, h := range hashes {
		e.blacklist[h] = true
	}
}

// GraphicsProgress and ComputeProgress are safe to read from a crash
// handler on another goroutine: both are plain int32s updated with
// atomic stores from Run, never from the handler itself.
func (e *Engine) GraphicsProgress() uint32 { return uint32(atomic.LoadInt32(&e.graphicsProgress)) }
func (e *Engine) ComputeProgress() uint32  { return uint32(atomic.LoadInt32(&e.computeProgress)) }

// ImplicatedModules returns the shader modules referenced by the last
// pipeline each kind was in the middle of building, which is as close as
// this stand-in engine gets to "the module that crashed the driver".
func (e *Engine) ImplicatedModules() []uint64 {
	var out []uint64
	if e.lastGraphics >= 0 && e.lastGraphics < len(e.graphicsPipelines) {
		out = append(out, e.stageModuleHashes(e.graphicsPipelines[e.lastGraphics].Stages)...)
	}
	if e.lastCompute >= 0 && e.lastCompute < len(e.computePipelines) {
		out = append(out, e.stageModuleHashes([]state.Stage{e.computePipelines[e.lastCompute].Stage})...)
	}
	return out
}

func (e *Engine) stageModuleHashes(stages []state.Stage) []uint64 {
	var out []uint64
	for _, s := range stages {
		if s.Module.Valid() {
			out = append(out, e.shaderModuleHashes[s.Module.Index()])
		}
	}
	return out
}

// EmergencyTeardown is a no-op here: there is no real driver cache-write
// thread to flush.
func (e *Engine) EmergencyTeardown() {}

// Run replays [graphicsStart,graphicsEnd) then [computeStart,computeEnd),
// skipping any pipeline that references a blacklisted shader module.
func (e *Engine) Run(ctx context.Context, graphicsStart, graphicsEnd, computeStart, computeEnd uint32) error {
	for i := int(graphicsStart); i < int(graphicsEnd) && i < len(e.graphicsPipelines); i++ {
		e.lastGraphics = i
		if !e.blacklisted(e.stageModuleHashes(e.graphicsPipelines[i].Stages)) {
			e.build(i)
		}
		atomic.StoreInt32(&e.graphicsProgress, int32(i+1))
	}
	for i := int(computeStart); i < int(computeEnd) && i < len(e.computePipelines); i++ {
		e.lastCompute = i
		if !e.blacklisted(e.stageModuleHashes([]state.Stage{e.computePipelines[i].Stage})) {
			e.build(i)
		}
		atomic.StoreInt32(&e.computeProgress, int32(i+1))
	}
	return nil
}

func (e *Engine) blacklisted(moduleHashes []uint64) bool {
	for _, h := range moduleHashes {
		if e.blacklist[h] {
			return true
		}
	}
	return false
}

// build stands in for the actual driver call; a real engine would create
// the pipeline object here.
func (e *Engine) build(index int) {}
