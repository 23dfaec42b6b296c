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

package wire

import (
	"encoding/base64"
	"encoding/json"

	"github.com/google/gapid/core/fault"
	"github.com/google/gapid/fossilize/state"
	"github.com/pkg/errors"
)

// MalformedDocument is returned by Parse for a JSON parse error or a
// structural mismatch in the document. DanglingReference is returned when
// a cross-reference index exceeds the current size of the referenced
// kind's registry. Parse stops at the first error; the document is not
// validated ahead of the callbacks, so callbacks already made for earlier
// elements and kinds are not undone.
const (
	MalformedDocument = fault.Const("fossilize: malformed document")
	DanglingReference  = fault.Const("fossilize: dangling reference")
)

// Engine is the replayer-engine callback surface the parser drives,
// mirroring the recorder's wait_enqueue barrier semantics literally: for
// each kind, SetNum is called once, then EnqueueCreate once per element in
// document order, then WaitEnqueue — a barrier guaranteeing all enqueued
// creations for that kind are complete before the next kind starts, so
// later cross-references can be resolved against filled slots.
type Engine interface {
	SetNumSamplers(n int)
	EnqueueCreateSampler(hash uint64, index int, v state.Sampler)
	WaitEnqueueSamplers() error

	SetNumSetLayouts(n int)
	EnqueueCreateSetLayout(hash uint64, index int, v state.DescriptorSetLayout)
	WaitEnqueueSetLayouts() error

	SetNumPipelineLayouts(n int)
	EnqueueCreatePipelineLayout(hash uint64, index int, v state.PipelineLayout)
	WaitEnqueuePipelineLayouts() error

	SetNumShaderModules(n int)
	EnqueueCreateShaderModule(hash uint64, index int, v state.ShaderModule)
	WaitEnqueueShaderModules() error

	SetNumRenderPasses(n int)
	EnqueueCreateRenderPass(hash uint64, index int, v state.RenderPass)
	WaitEnqueueRenderPasses() error

	SetNumComputePipelines(n int)
	EnqueueCreateComputePipeline(hash uint64, index int, v state.ComputePipeline)
	WaitEnqueueComputePipelines() error

	SetNumGraphicsPipelines(n int)
	EnqueueCreateGraphicsPipeline(hash uint64, index int, v state.GraphicsPipeline)
	WaitEnqueueGraphicsPipelines() error
}

// checkRef validates a 1-based reference against the number of entries of
// the referenced kind registered so far.
func checkRef(ref uint32, count int) error {
	if ref != 0 && int(ref) > count {
		return errors.Wrapf(DanglingReference, "reference %d exceeds registered count %d", ref, count)
	}
	return nil
}

// Parse validates and reconstructs data in top-level order (samplers,
// setLayouts, pipelineLayouts, shaderModules, renderPasses,
// computePipelines, graphicsPipelines), calling back into e for each
// element.
func Parse(data []byte, e Engine) error {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return errors.Wrap(MalformedDocument, err.Error())
	}

	e.SetNumSamplers(len(doc.Samplers))
	for i, s := range doc.Samplers {
		e.EnqueueCreateSampler(s.Hash, i, state.Sampler{
			Flags: s.Flags, MagFilter: s.MagFilter, MinFilter: s.MinFilter, MipmapMode: s.MipmapMode,
			AddressModeU: s.AddressModeU, AddressModeV: s.AddressModeV, AddressModeW: s.AddressModeW,
			MipLodBias: s.MipLodBias, AnisotropyEnable: s.AnisotropyEnable, MaxAnisotropy: s.MaxAnisotropy,
			CompareEnable: s.CompareEnable, CompareOp: s.CompareOp, MinLod: s.MinLod, MaxLod: s.MaxLod,
			BorderColor: s.BorderColor, UnnormalizedCoordinate: s.UnnormalizedCoordinate,
		})
	}
	if err := e.WaitEnqueueSamplers(); err != nil {
		return err
	}
	numSamplers := len(doc.Samplers)

	e.SetNumSetLayouts(len(doc.SetLayouts))
	for i, l := range doc.SetLayouts {
		v := state.DescriptorSetLayout{Flags: l.Flags}
		for _, b := range l.Bindings {
			db := state.DescriptorBinding{
				Binding: b.Binding, DescriptorType: b.DescriptorType,
				DescriptorCount: b.DescriptorCount, StageFlags: b.StageFlags,
			}
			for _, s := range b.ImmutableSamplers {
				if err := checkRef(s, numSamplers); err != nil {
					return err
				}
				db.ImmutableSamplers = append(db.ImmutableSamplers, state.Ref(s))
			}
			v.Bindings = append(v.Bindings, db)
		}
		e.EnqueueCreateSetLayout(l.Hash, i, v)
	}
	if err := e.WaitEnqueueSetLayouts(); err != nil {
		return err
	}
	numSetLayouts := len(doc.SetLayouts)

	e.SetNumPipelineLayouts(len(doc.PipelineLayouts))
	for i, l := range doc.PipelineLayouts {
		v := state.PipelineLayout{Flags: l.Flags}
		for _, s := range l.SetLayouts {
			if err := checkRef(s, numSetLayouts); err != nil {
				return err
			}
			v.SetLayouts = append(v.SetLayouts, state.Ref(s))
		}
		for _, p := range l.PushConstantRanges {
			v.PushConstantRanges = append(v.PushConstantRanges, state.PushConstantRange{
				StageFlags: p.StageFlags, Offset: p.Offset, Size: p.Size,
			})
		}
		e.EnqueueCreatePipelineLayout(l.Hash, i, v)
	}
	if err := e.WaitEnqueuePipelineLayouts(); err != nil {
		return err
	}
	numPipelineLayouts := len(doc.PipelineLayouts)

	e.SetNumShaderModules(len(doc.ShaderModules))
	for i, m := range doc.ShaderModules {
		code, err := base64.StdEncoding.DecodeString(m.Code)
		if err != nil {
			return errors.Wrap(MalformedDocument, err.Error())
		}
		e.EnqueueCreateShaderModule(m.Hash, i, state.ShaderModule{Flags: m.Flags, Code: state.WordsFromBytes(code)})
	}
	if err := e.WaitEnqueueShaderModules(); err != nil {
		return err
	}
	numShaderModules := len(doc.ShaderModules)

	e.SetNumRenderPasses(len(doc.RenderPasses))
	for i, rp := range doc.RenderPasses {
		v := state.RenderPass{Flags: rp.Flags}
		for _, a := range rp.Attachments {
			v.Attachments = append(v.Attachments, state.Attachment{
				Flags: a.Flags, Format: a.Format, Samples: a.Samples,
				LoadOp: a.LoadOp, StoreOp: a.StoreOp,
				StencilLoadOp: a.StencilLoadOp, StencilStoreOp: a.StencilStoreOp,
				InitialLayout: a.InitialLayout, FinalLayout: a.FinalLayout,
			})
		}
		numAttachments := len(v.Attachments)
		for _, s := range rp.Subpasses {
			sp := state.Subpass{
				Flags: s.Flags, PipelineBindPoint: s.PipelineBindPoint,
				PreserveAttachments: append([]uint32{}, s.PreserveAttachments...),
			}
			for _, ar := range s.InputAttachments {
				if err := checkAttachmentRef(ar, numAttachments); err != nil {
					return err
				}
				sp.InputAttachments = append(sp.InputAttachments, toAttachmentRef(ar))
			}
			for _, ar := range s.ColorAttachments {
				if err := checkAttachmentRef(ar, numAttachments); err != nil {
					return err
				}
				sp.ColorAttachments = append(sp.ColorAttachments, toAttachmentRef(ar))
			}
			if len(s.ResolveAttachments) == len(s.ColorAttachments) {
				for _, ar := range s.ResolveAttachments {
					if err := checkAttachmentRef(ar, numAttachments); err != nil {
						return err
					}
					sp.ResolveAttachments = append(sp.ResolveAttachments, toAttachmentRef(ar))
				}
			}
			if s.DepthStencilAttachment.Attachment != -1 {
				if err := checkAttachmentRef(s.DepthStencilAttachment, numAttachments); err != nil {
					return err
				}
				sp.DepthStencilSet = true
				sp.DepthStencilAttachment = toAttachmentRef(s.DepthStencilAttachment)
			}
			v.Subpasses = append(v.Subpasses, sp)
		}
		for _, d := range rp.Dependencies {
			v.Dependencies = append(v.Dependencies, state.SubpassDependency{
				SrcSubpass: d.SrcSubpass, DstSubpass: d.DstSubpass,
				SrcStageMask: d.SrcStageMask, DstStageMask: d.DstStageMask,
				SrcAccessMask: d.SrcAccessMask, DstAccessMask: d.DstAccessMask,
				DependencyFlags: d.DependencyFlags,
			})
		}
		e.EnqueueCreateRenderPass(rp.Hash, i, v)
	}
	if err := e.WaitEnqueueRenderPasses(); err != nil {
		return err
	}

	e.SetNumComputePipelines(len(doc.ComputePipelines))
	for i, p := range doc.ComputePipelines {
		if err := checkRef(p.Layout, numPipelineLayouts); err != nil {
			return err
		}
		stage, err := fromStageDoc(p.Stage, numShaderModules)
		if err != nil {
			return err
		}
		e.EnqueueCreateComputePipeline(p.Hash, i, state.ComputePipeline{
			Flags: p.Flags, BasePipelineHandle: p.BasePipelineHandle, BasePipelineIndex: p.BasePipelineIndex,
			Layout: state.Ref(p.Layout), Stage: stage,
		})
	}
	if err := e.WaitEnqueueComputePipelines(); err != nil {
		return err
	}
	numRenderPasses := len(doc.RenderPasses)

	e.SetNumGraphicsPipelines(len(doc.GraphicsPipelines))
	for i, p := range doc.GraphicsPipelines {
		if err := checkRef(p.Layout, numPipelineLayouts); err != nil {
			return err
		}
		if err := checkRef(p.RenderPass, numRenderPasses); err != nil {
			return err
		}
		v := state.GraphicsPipeline{
			Flags: p.Flags, BasePipelineHandle: p.BasePipelineHandle, BasePipelineIndex: p.BasePipelineIndex,
			Layout: state.Ref(p.Layout), RenderPass: state.Ref(p.RenderPass), Subpass: p.Subpass,
			DynamicState: p.DynamicState,
		}
		for _, sd := range p.Stages {
			stage, err := fromStageDoc(sd, numShaderModules)
			if err != nil {
				return err
			}
			v.Stages = append(v.Stages, stage)
		}
		if vi := p.VertexInput; vi != nil {
			s := &state.VertexInputState{Flags: vi.Flags}
			for _, b := range vi.Bindings {
				s.Bindings = append(s.Bindings, state.VertexInputBinding{Binding: b.Binding, Stride: b.Stride, InputRate: b.InputRate})
			}
			for _, a := range vi.Attributes {
				s.Attributes = append(s.Attributes, state.VertexInputAttribute{Location: a.Location, Binding: a.Binding, Format: a.Format, Offset: a.Offset})
			}
			v.VertexInput = s
		}
		if ia := p.InputAssembly; ia != nil {
			v.InputAssembly = &state.InputAssemblyState{Flags: ia.Flags, Topology: ia.Topology, PrimitiveRestartEnable: ia.PrimitiveRestartEnable}
		}
		if t := p.Tessellation; t != nil {
			v.Tessellation = &state.TessellationState{Flags: t.Flags, PatchControlPoints: t.PatchControlPoints}
		}
		if vp := p.Viewport; vp != nil {
			s := &state.ViewportState{Flags: vp.Flags}
			for _, vv := range vp.Viewports {
				s.Viewports = append(s.Viewports, state.Viewport{X: vv.X, Y: vv.Y, Width: vv.Width, Height: vv.Height, MinDepth: vv.MinDepth, MaxDepth: vv.MaxDepth})
			}
			for _, sc := range vp.Scissors {
				s.Scissors = append(s.Scissors, state.Scissor{X: sc.X, Y: sc.Y, Width: sc.Width, Height: sc.Height})
			}
			v.Viewport = s
		}
		if rs := p.Rasterization; rs != nil {
			v.Rasterization = &state.RasterizationState{
				Flags: rs.Flags, DepthClampEnable: rs.DepthClampEnable, RasterizerDiscardEnable: rs.RasterizerDiscardEnable,
				PolygonMode: rs.PolygonMode, CullMode: rs.CullMode, FrontFace: rs.FrontFace,
				DepthBiasEnable: rs.DepthBiasEnable, DepthBiasConstantFactor: rs.DepthBiasConstantFactor,
				DepthBiasClamp: rs.DepthBiasClamp, DepthBiasSlopeFactor: rs.DepthBiasSlopeFactor, LineWidth: rs.LineWidth,
			}
		}
		if ms := p.Multisample; ms != nil {
			v.Multisample = &state.MultisampleState{
				Flags: ms.Flags, RasterizationSamples: ms.RasterizationSamples,
				SampleShadingEnable: ms.SampleShadingEnable, MinSampleShading: ms.MinSampleShading,
				HasSampleMask: ms.SampleMask != nil, SampleMask: ms.SampleMask,
				AlphaToCoverageEnable: ms.AlphaToCoverageEnable, AlphaToOneEnable: ms.AlphaToOneEnable,
			}
		}
		if ds := p.DepthStencil; ds != nil {
			v.DepthStencil = &state.DepthStencilState{
				Flags: ds.Flags, DepthTestEnable: ds.DepthTestEnable, DepthWriteEnable: ds.DepthWriteEnable,
				DepthCompareOp: ds.DepthCompareOp, DepthBoundsTestEnable: ds.DepthBoundsTestEnable, StencilTestEnable: ds.StencilTestEnable,
				Front: fromStencilOpDoc(ds.Front), Back: fromStencilOpDoc(ds.Back),
				MinDepthBounds: ds.MinDepthBounds, MaxDepthBounds: ds.MaxDepthBounds,
			}
		}
		if cb := p.ColorBlend; cb != nil {
			s := &state.ColorBlendState{Flags: cb.Flags, LogicOpEnable: cb.LogicOpEnable, LogicOp: cb.LogicOp, BlendConstants: cb.BlendConstants}
			for _, a := range cb.Attachments {
				s.Attachments = append(s.Attachments, state.BlendAttachment{
					BlendEnable: a.BlendEnable, SrcColorBlendFactor: a.SrcColorBlendFactor, DstColorBlendFactor: a.DstColorBlendFactor,
					ColorBlendOp: a.ColorBlendOp, SrcAlphaBlendFactor: a.SrcAlphaBlendFactor, DstAlphaBlendFactor: a.DstAlphaBlendFactor,
					AlphaBlendOp: a.AlphaBlendOp, ColorWriteMask: a.ColorWriteMask,
				})
			}
			v.ColorBlend = s
		}
		e.EnqueueCreateGraphicsPipeline(p.Hash, i, v)
	}
	return e.WaitEnqueueGraphicsPipelines()
}

func checkAttachmentRef(ar attachmentRefDoc, numAttachments int) error {
	if ar.Attachment == -1 {
		return nil
	}
	if ar.Attachment < -1 || int(ar.Attachment) >= numAttachments {
		return errors.Wrapf(DanglingReference, "attachment %d exceeds registered count %d", ar.Attachment, numAttachments)
	}
	return nil
}

func toAttachmentRef(ar attachmentRefDoc) state.AttachmentRef {
	if ar.Attachment == -1 {
		return state.AttachmentRef{Attachment: state.NoAttachment, Layout: ar.Layout}
	}
	return state.AttachmentRef{Attachment: uint32(ar.Attachment), Layout: ar.Layout}
}

func fromStageDoc(sd stageDoc, numShaderModules int) (state.Stage, error) {
	if err := checkRef(sd.Module, numShaderModules); err != nil {
		return state.Stage{}, err
	}
	s := state.Stage{Module: state.Ref(sd.Module), EntryPoint: sd.EntryPoint, StageBits: sd.StageBits}
	if sd.Specialization != nil {
		data, err := base64.StdEncoding.DecodeString(sd.Specialization.Code)
		if err != nil {
			return state.Stage{}, errors.Wrap(MalformedDocument, err.Error())
		}
		s.HasSpecialization = true
		s.SpecializationData = data
		for _, m := range sd.Specialization.MapEntries {
			s.SpecializationMapEntries = append(s.SpecializationMapEntries, state.SpecializationMapEntry{
				ConstantID: m.ConstantID, Offset: m.Offset, Size: m.Size,
			})
		}
	}
	return s, nil
}

func fromStencilOpDoc(s stencilOpStateDoc) state.StencilOpState {
	return state.StencilOpState{
		FailOp: s.FailOp, PassOp: s.PassOp, DepthFailOp: s.DepthFailOp, CompareOp: s.CompareOp,
		CompareMask: s.CompareMask, WriteMask: s.WriteMask, Reference: s.Reference,
	}
}
