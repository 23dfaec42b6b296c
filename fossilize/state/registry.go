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

package state

import (
	"github.com/google/gapid/core/fault"
	"github.com/google/gapid/fossilize/hash"
)

// UnknownHandle is returned by GetHashFor* when queried with a handle that
// was never installed by a matching SetHandle operation. It is fatal to
// the recording pass it occurs in.
const UnknownHandle = fault.Const("fossilize: unknown handle")

// Handle is an engine-returned identifier for a created object, installed
// against a registry index by the replay-side parser so later references
// can be resolved back to it.
type Handle uint64

// entry wraps a registered value together with the hash computed for it
// at registration time, so cross-references resolve to that hash without
// recomputing it.
type entry[T any] struct {
	hash  hash.Hash
	value T
}

func (e entry[T]) EntryHash() hash.Hash { return e.hash }

// Hash returns the hash computed for this entry at registration time.
func (e entry[T]) Hash() hash.Hash { return e.hash }

// Value returns the registered value.
func (e entry[T]) Value() T { return e.value }

// Registry assigns stable, insertion-ordered indices to registered
// entities and resolves handle -> hash. Insertion order is preserved;
// (hash, content) pairs may repeat if the caller registers duplicates.
type Registry struct {
	Samplers          []entry[Sampler]
	SetLayouts        []entry[DescriptorSetLayout]
	PipelineLayouts   []entry[PipelineLayout]
	ShaderModules     []entry[ShaderModule]
	RenderPasses      []entry[RenderPass]
	ComputePipelines  []entry[ComputePipeline]
	GraphicsPipelines []entry[GraphicsPipeline]

	samplerHandles          map[Handle]int
	setLayoutHandles        map[Handle]int
	pipelineLayoutHandles   map[Handle]int
	shaderModuleHandles     map[Handle]int
	renderPassHandles       map[Handle]int
	computePipelineHandles  map[Handle]int
	graphicsPipelineHandles map[Handle]int
}

// New returns an empty registry.
func New() *Registry { return &Registry{} }

// RegisterSampler computes v's hash against the registry's current
// contents, appends (hash, v) to the sampler array, and returns the Ref
// assigned to it.
func (r *Registry) RegisterSampler(v Sampler) (Ref, hash.Hash) {
	h := v.Hash(r)
	r.Samplers = append(r.Samplers, entry[Sampler]{h, v})
	return Ref(len(r.Samplers)), h
}

func (r *Registry) RegisterSetLayout(v DescriptorSetLayout) (Ref, hash.Hash) {
	h := v.Hash(r)
	r.SetLayouts = append(r.SetLayouts, entry[DescriptorSetLayout]{h, v})
	return Ref(len(r.SetLayouts)), h
}

func (r *Registry) RegisterPipelineLayout(v PipelineLayout) (Ref, hash.Hash) {
	h := v.Hash(r)
	r.PipelineLayouts = append(r.PipelineLayouts, entry[PipelineLayout]{h, v})
	return Ref(len(r.PipelineLayouts)), h
}

func (r *Registry) RegisterShaderModule(v ShaderModule) (Ref, hash.Hash) {
	h := v.Hash(r)
	r.ShaderModules = append(r.ShaderModules, entry[ShaderModule]{h, v})
	return Ref(len(r.ShaderModules)), h
}

func (r *Registry) RegisterRenderPass(v RenderPass) (Ref, hash.Hash) {
	h := v.Hash(r)
	r.RenderPasses = append(r.RenderPasses, entry[RenderPass]{h, v})
	return Ref(len(r.RenderPasses)), h
}

func (r *Registry) RegisterComputePipeline(v ComputePipeline) (Ref, hash.Hash) {
	h := v.Hash(r)
	r.ComputePipelines = append(r.ComputePipelines, entry[ComputePipeline]{h, v})
	return Ref(len(r.ComputePipelines)), h
}

func (r *Registry) RegisterGraphicsPipeline(v GraphicsPipeline) (Ref, hash.Hash) {
	h := v.Hash(r)
	r.GraphicsPipelines = append(r.GraphicsPipelines, entry[GraphicsPipeline]{h, v})
	return Ref(len(r.GraphicsPipelines)), h
}

func lazyMap(m *map[Handle]int) map[Handle]int {
	if *m == nil {
		*m = map[Handle]int{}
	}
	return *m
}

// SetSamplerHandle installs handle -> index, index being zero-based.
func (r *Registry) SetSamplerHandle(index int, h Handle) { lazyMap(&r.samplerHandles)[h] = index }
func (r *Registry) SetSetLayoutHandle(index int, h Handle) {
	lazyMap(&r.setLayoutHandles)[h] = index
}
func (r *Registry) SetPipelineLayoutHandle(index int, h Handle) {
	lazyMap(&r.pipelineLayoutHandles)[h] = index
}
func (r *Registry) SetShaderModuleHandle(index int, h Handle) {
	lazyMap(&r.shaderModuleHandles)[h] = index
}
func (r *Registry) SetRenderPassHandle(index int, h Handle) {
	lazyMap(&r.renderPassHandles)[h] = index
}
func (r *Registry) SetComputePipelineHandle(index int, h Handle) {
	lazyMap(&r.computePipelineHandles)[h] = index
}
func (r *Registry) SetGraphicsPipelineHandle(index int, h Handle) {
	lazyMap(&r.graphicsPipelineHandles)[h] = index
}

// GetHashForSampler returns the hash of the sampler registered against
// handle, or UnknownHandle if handle was never installed.
func (r *Registry) GetHashForSampler(h Handle) (hash.Hash, error) {
	i, ok := r.samplerHandles[h]
	if !ok {
		return 0, UnknownHandle
	}
	return r.Samplers[i].hash, nil
}

func (r *Registry) GetHashForSetLayout(h Handle) (hash.Hash, error) {
	i, ok := r.setLayoutHandles[h]
	if !ok {
		return 0, UnknownHandle
	}
	return r.SetLayouts[i].hash, nil
}

func (r *Registry) GetHashForPipelineLayout(h Handle) (hash.Hash, error) {
	i, ok := r.pipelineLayoutHandles[h]
	if !ok {
		return 0, UnknownHandle
	}
	return r.PipelineLayouts[i].hash, nil
}

func (r *Registry) GetHashForShaderModule(h Handle) (hash.Hash, error) {
	i, ok := r.shaderModuleHandles[h]
	if !ok {
		return 0, UnknownHandle
	}
	return r.ShaderModules[i].hash, nil
}

func (r *Registry) GetHashForRenderPass(h Handle) (hash.Hash, error) {
	i, ok := r.renderPassHandles[h]
	if !ok {
		return 0, UnknownHandle
	}
	return r.RenderPasses[i].hash, nil
}

func (r *Registry) GetHashForComputePipeline(h Handle) (hash.Hash, error) {
	i, ok := r.computePipelineHandles[h]
	if !ok {
		return 0, UnknownHandle
	}
	return r.ComputePipelines[i].hash, nil
}

func (r *Registry) GetHashForGraphicsPipeline(h Handle) (hash.Hash, error) {
	i, ok := r.graphicsPipelineHandles[h]
	if !ok {
		return 0, UnknownHandle
	}
	return r.GraphicsPipelines[i].hash, nil
}
