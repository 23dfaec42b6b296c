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

package replay

import (
	"context"
	"testing"

	"github.com/google/gapid/fossilize/state"
	"github.com/google/gapid/fossilize/wire"
)

func buildArchive(t *testing.T) []byte {
	t.Helper()
	r := state.New()
	layoutRef, _ := r.RegisterPipelineLayout(state.PipelineLayout{})
	moduleA, _ := r.RegisterShaderModule(state.ShaderModule{Code: []uint32{1}})
	moduleB, _ := r.RegisterShaderModule(state.ShaderModule{Code: []uint32{2}})

	for i := 0; i < 3; i++ {
		mod := moduleA
		if i == 1 {
			mod = moduleB
		}
		r.RegisterGraphicsPipeline(state.GraphicsPipeline{
			Layout: layoutRef,
			Stages: []state.Stage{{Module: mod, EntryPoint: "main", StageBits: 1}},
		})
	}
	r.RegisterComputePipeline(state.ComputePipeline{
		Layout: layoutRef,
		Stage:  state.Stage{Module: moduleA, EntryPoint: "main", StageBits: 0x20},
	})

	data, err := wire.Serialize(r)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	return data
}

func TestRunAdvancesProgressThroughWholeRange(t *testing.T) {
	e, err := Load([][]byte{buildArchive(t)})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	e.SetBlacklist(nil)
	if err := e.Run(context.Background(), 0, 3, 0, 1); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if e.GraphicsProgress() != 3 {
		t.Fatalf("GraphicsProgress = %d, want 3", e.GraphicsProgress())
	}
	if e.ComputeProgress() != 1 {
		t.Fatalf("ComputeProgress = %d, want 1", e.ComputeProgress())
	}
}

func TestBlacklistedModuleDoesNotBlockProgress(t *testing.T) {
	e, err := Load([][]byte{buildArchive(t)})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// Pipeline index 1 uses moduleB; blacklist whatever hash it resolved
	// to and confirm Run still advances through the whole range (the
	// pipeline is skipped, not retried or aborted).
	e.SetBlacklist([]uint64{e.shaderModuleHashes[1]})
	if err := e.Run(context.Background(), 0, 3, 0, 0); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if e.GraphicsProgress() != 3 {
		t.Fatalf("GraphicsProgress = %d, want 3", e.GraphicsProgress())
	}
}

func TestImplicatedModulesReportsLastPipelineInProgress(t *testing.T) {
	e, err := Load([][]byte{buildArchive(t)})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	e.SetBlacklist(nil)
	if err := e.Run(context.Background(), 0, 2, 0, 0); err != nil {
		t.Fatalf("Run: %v", err)
	}
	implicated := e.ImplicatedModules()
	if len(implicated) != 1 || implicated[0] != e.shaderModuleHashes[1] {
		t.Fatalf("ImplicatedModules = %v, want [%v]", implicated, e.shaderModuleHashes[1])
	}
}

// TestLoadMergesMultipleArchives verifies a worker handed more than one
// archive path (spec section 4.6) sees every pipeline from every archive
// in one global index space, and that the second archive's shader-module
// refs are rebased rather than colliding with the first archive's.
func TestLoadMergesMultipleArchives(t *testing.T) {
	e, err := Load([][]byte{buildArchive(t), buildArchive(t)})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(e.graphicsPipelines) != 6 {
		t.Fatalf("len(graphicsPipelines) = %d, want 6", len(e.graphicsPipelines))
	}
	if len(e.computePipelines) != 2 {
		t.Fatalf("len(computePipelines) = %d, want 2", len(e.computePipelines))
	}
	if len(e.shaderModuleHashes) != 4 {
		t.Fatalf("len(shaderModuleHashes) = %d, want 4", len(e.shaderModuleHashes))
	}

	e.SetBlacklist(nil)
	if err := e.Run(context.Background(), 0, 6, 0, 2); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if e.GraphicsProgress() != 6 {
		t.Fatalf("GraphicsProgress = %d, want 6 (second archive's range was never reached)", e.GraphicsProgress())
	}
	if e.ComputeProgress() != 2 {
		t.Fatalf("ComputeProgress = %d, want 2 (second archive's range was never reached)", e.ComputeProgress())
	}

	// The second archive's pipeline 4 (its own index 1) used moduleB,
	// which must be rebased to shaderModuleHashes[3], the second archive's
	// own copy, rather than left pointing at the first archive's index 1.
	if got := e.graphicsPipelines[4].Stages[0].Module.Index(); got != 3 {
		t.Fatalf("second archive's moduleB rebased to index %d, want 3", got)
	}
}
