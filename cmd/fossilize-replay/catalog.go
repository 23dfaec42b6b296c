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
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/google/gapid/fossilize/state"
	"github.com/google/gapid/fossilize/wire"
)

// catalogCounts is a wire.Engine that only cares about how many graphics
// and compute pipelines an archive records; the master needs these counts
// to partition work across workers, but has no use for the entities
// themselves (the archive's own replay happens inside worker processes).
type catalogCounts struct {
	graphics, compute uint64
}

// archivePipelineCounts reads and parses every archive concurrently —
// archives are typically one per content pack and independent of each
// other, so there's no reason to serialize disk reads across them — and
// sums their pipeline counts once every parse has succeeded.
func archivePipelineCounts(paths []string) (graphics, compute uint64, err error) {
	var g errgroup.Group
	var mu sync.Mutex

	for _, p := range paths {
		p := p
		g.Go(func() error {
			data, err := os.ReadFile(p)
			if err != nil {
				return err
			}
			var c catalogCounts
			if err := wire.Parse(data, &c); err != nil {
				return err
			}
			mu.Lock()
			graphics += c.graphics
			compute += c.compute
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, 0, err
	}
	return graphics, compute, nil
}

func (c *catalogCounts) SetNumSamplers(int)                                       {}
func (c *catalogCounts) EnqueueCreateSampler(uint64, int, state.Sampler)          {}
func (c *catalogCounts) WaitEnqueueSamplers() error                               { return nil }

func (c *catalogCounts) SetNumSetLayouts(int)                                          {}
func (c *catalogCounts) EnqueueCreateSetLayout(uint64, int, state.DescriptorSetLayout) {}
func (c *catalogCounts) WaitEnqueueSetLayouts() error                                  { return nil }

func (c *catalogCounts) SetNumPipelineLayouts(int)                                     {}
func (c *catalogCounts) EnqueueCreatePipelineLayout(uint64, int, state.PipelineLayout) {}
func (c *catalogCounts) WaitEnqueuePipelineLayouts() error                             { return nil }

func (c *catalogCounts) SetNumShaderModules(int)                                   {}
func (c *catalogCounts) EnqueueCreateShaderModule(uint64, int, state.ShaderModule) {}
func (c *catalogCounts) WaitEnqueueShaderModules() error                           { return nil }

func (c *catalogCounts) SetNumRenderPasses(int)                               {}
func (c *catalogCounts) EnqueueCreateRenderPass(uint64, int, state.RenderPass) {}
func (c *catalogCounts) WaitEnqueueRenderPasses() error                       { return nil }

func (c *catalogCounts) SetNumComputePipelines(n int) { c.compute += uint64(n) }
func (c *catalogCounts) EnqueueCreateComputePipeline(uint64, int, state.ComputePipeline) {
}
func (c *catalogCounts) WaitEnqueueComputePipelines() error { return nil }

func (c *catalogCounts) SetNumGraphicsPipelines(n int) { c.graphics += uint64(n) }
func (c *catalogCounts) EnqueueCreateGraphicsPipeline(uint64, int, state.GraphicsPipeline) {
}
func (c *catalogCounts) WaitEnqueueGraphicsPipelines() error { return nil }
