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

import "github.com/google/gapid/fossilize/state"

// collector is a wire.Engine that keeps only what Engine.Run needs:
// shader-module hashes (to resolve a Ref to a blacklistable hash) and the
// two pipeline kinds that are actually replayed. Every other kind is
// required by the interface but is pure bookkeeping the replay engine
// never reads back.
type collector struct {
	shaderModuleHashes []uint64
	graphicsPipelines  []state.GraphicsPipeline
	computePipelines   []state.ComputePipeline
}

func (c *collector) SetNumSamplers(int)                              {}
func (c *collector) EnqueueCreateSampler(uint64, int, state.Sampler) {}
func (c *collector) WaitEnqueueSamplers() error                      { return nil }

func (c *collector) SetNumSetLayouts(int)                                     {}
func (c *collector) EnqueueCreateSetLayout(uint64, int, state.DescriptorSetLayout) {}
func (c *collector) WaitEnqueueSetLayouts() error                             { return nil }

func (c *collector) SetNumPipelineLayouts(int)                                {}
func (c *collector) EnqueueCreatePipelineLayout(uint64, int, state.PipelineLayout) {}
func (c *collector) WaitEnqueuePipelineLayouts() error                        { return nil }

func (c *collector) SetNumShaderModules(n int) {
	c.shaderModuleHashes = make([]uint64, n)
}
func (c *collector) EnqueueCreateShaderModule(hash uint64, index int, _ state.ShaderModule) {
	c.shaderModuleHashes[index] = hash
}
func (c *collector) WaitEnqueueShaderModules() error { return nil }

func (c *collector) SetNumRenderPasses(int)                               {}
func (c *collector) EnqueueCreateRenderPass(uint64, int, state.RenderPass) {}
func (c *collector) WaitEnqueueRenderPasses() error                       { return nil }

func (c *collector) SetNumComputePipelines(n int) {
	c.computePipelines = make([]state.ComputePipeline, n)
}
func (c *collector) EnqueueCreateComputePipeline(_ uint64, index int, v state.ComputePipeline) {
	c.computePipelines[index] = v
}
func (c *collector) WaitEnqueueComputePipelines() error { return nil }

func (c *collector) SetNumGraphicsPipelines(n int) {
	c.graphicsPipelines = make([]state.GraphicsPipeline, n)
}
func (c *collector) EnqueueCreateGraphicsPipeline(_ uint64, index int, v state.GraphicsPipeline) {
	c.graphicsPipelines[index] = v
}
func (c *collector) WaitEnqueueGraphicsPipelines() error { return nil }
