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

	"github.com/google/gapid/fossilize/state"
)

func refDoc(r state.Ref) uint32 { return uint32(r) }

// Serialize emits the text document for r: one top-level JSON object with
// one array per entity kind, in registration order.
func Serialize(r *state.Registry) ([]byte, error) {
	doc := document{}

	for _, e := range r.Samplers {
		s := e.Value()
		doc.Samplers = append(doc.Samplers, samplerDoc{
			Hash: uint64(e.Hash()), Flags: s.Flags,
			MagFilter: s.MagFilter, MinFilter: s.MinFilter, MipmapMode: s.MipmapMode,
			AddressModeU: s.AddressModeU, AddressModeV: s.AddressModeV, AddressModeW: s.AddressModeW,
			MipLodBias: s.MipLodBias, AnisotropyEnable: s.AnisotropyEnable, MaxAnisotropy: s.MaxAnisotropy,
			CompareEnable: s.CompareEnable, CompareOp: s.CompareOp, MinLod: s.MinLod, MaxLod: s.MaxLod,
			BorderColor: s.BorderColor, UnnormalizedCoordinate: s.UnnormalizedCoordinate,
		})
	}

	for _, e := range r.SetLayouts {
		l := e.Value()
		sl := setLayoutDoc{Hash: uint64(e.Hash()), Flags: l.Flags}
		for _, b := range l.Bindings {
			bd := descriptorBindingDoc{
				Binding: b.Binding, DescriptorType: b.DescriptorType,
				DescriptorCount: b.DescriptorCount, StageFlags: b.StageFlags,
			}
			for _, s := range b.ImmutableSamplers {
				bd.ImmutableSamplers = append(bd.ImmutableSamplers, refDoc(s))
			}
			sl.Bindings = append(sl.Bindings, bd)
		}
		doc.SetLayouts = append(doc.SetLayouts, sl)
	}

	for _, e := range r.PipelineLayouts {
		l := e.Value()
		pl := pipelineLayoutDoc{Hash: uint64(e.Hash()), Flags: l.Flags}
		for _, s := range l.SetLayouts {
			pl.SetLayouts = append(pl.SetLayouts, refDoc(s))
		}
		for _, p := range l.PushConstantRanges {
			pl.PushConstantRanges = append(pl.PushConstantRanges, pushConstantRangeDoc{
				StageFlags: p.StageFlags, Offset: p.Offset, Size: p.Size,
			})
		}
		doc.PipelineLayouts = append(doc.PipelineLayouts, pl)
	}

	for _, e := range r.ShaderModules {
		m := e.Value()
		code := m.CodeBytes()
		doc.ShaderModules = append(doc.ShaderModules, shaderModuleDoc{
			Hash: uint64(e.Hash()), Flags: m.Flags,
			Code: base64.StdEncoding.EncodeToString(code), CodeSize: uint32(len(code)),
		})
	}

	for _, e := range r.RenderPasses {
		rp := e.Value()
		rd := renderPassDoc{Hash: uint64(e.Hash()), Flags: rp.Flags}
		for _, a := range rp.Attachments {
			rd.Attachments = append(rd.Attachments, attachmentDoc{
				Flags: a.Flags, Format: a.Format, Samples: a.Samples,
				LoadOp: a.LoadOp, StoreOp: a.StoreOp,
				StencilLoadOp: a.StencilLoadOp, StencilStoreOp: a.StencilStoreOp,
				InitialLayout: a.InitialLayout, FinalLayout: a.FinalLayout,
			})
		}
		for _, s := range rp.Subpasses {
			sd := subpassDoc{
				Flags: s.Flags, PipelineBindPoint: s.PipelineBindPoint,
				InputAttachments:  toAttachmentRefDocs(s.InputAttachments),
				ColorAttachments:  toAttachmentRefDocs(s.ColorAttachments),
				PreserveAttachments: append([]uint32{}, s.PreserveAttachments...),
			}
			if len(s.ResolveAttachments) == len(s.ColorAttachments) && len(s.ResolveAttachments) > 0 {
				sd.ResolveAttachments = toAttachmentRefDocs(s.ResolveAttachments)
			}
			if s.DepthStencilSet {
				sd.DepthStencilAttachment = attachmentRefDoc{
					Attachment: int32(s.DepthStencilAttachment.Attachment),
					Layout:     s.DepthStencilAttachment.Layout,
				}
			} else {
				sd.DepthStencilAttachment = attachmentRefDoc{Attachment: -1, Layout: 0}
			}
			if sd.InputAttachments == nil {
				sd.InputAttachments = []attachmentRefDoc{}
			}
			if sd.ColorAttachments == nil {
				sd.ColorAttachments = []attachmentRefDoc{}
			}
			if sd.PreserveAttachments == nil {
				sd.PreserveAttachments = []uint32{}
			}
			rd.Subpasses = append(rd.Subpasses, sd)
		}
		for _, d := range rp.Dependencies {
			rd.Dependencies = append(rd.Dependencies, subpassDependencyDoc{
				SrcSubpass: d.SrcSubpass, DstSubpass: d.DstSubpass,
				SrcStageMask: d.SrcStageMask, DstStageMask: d.DstStageMask,
				SrcAccessMask: d.SrcAccessMask, DstAccessMask: d.DstAccessMask,
				DependencyFlags: d.DependencyFlags,
			})
		}
		doc.RenderPasses = append(doc.RenderPasses, rd)
	}

	for _, e := range r.ComputePipelines {
		p := e.Value()
		doc.ComputePipelines = append(doc.ComputePipelines, computePipelineDoc{
			Hash: uint64(e.Hash()), Flags: p.Flags,
			BasePipelineHandle: p.BasePipelineHandle, BasePipelineIndex: p.BasePipelineIndex,
			Layout: refDoc(p.Layout), Stage: toStageDoc(p.Stage),
		})
	}

	for _, e := range r.GraphicsPipelines {
		p := e.Value()
		gd := graphicsPipelineDoc{
			Hash: uint64(e.Hash()), Flags: p.Flags,
			BasePipelineHandle: p.BasePipelineHandle, BasePipelineIndex: p.BasePipelineIndex,
			Layout: refDoc(p.Layout), RenderPass: refDoc(p.RenderPass), Subpass: p.Subpass,
			DynamicState: p.DynamicState,
		}
		for _, s := range p.Stages {
			gd.Stages = append(gd.Stages, toStageDoc(s))
		}
		if p.VertexInput != nil {
			vi := &vertexInputStateDoc{Flags: p.VertexInput.Flags}
			for _, b := range p.VertexInput.Bindings {
				vi.Bindings = append(vi.Bindings, vertexInputBindingDoc{b.Binding, b.Stride, b.InputRate})
			}
			for _, a := range p.VertexInput.Attributes {
				vi.Attributes = append(vi.Attributes, vertexInputAttributeDoc{a.Location, a.Binding, a.Format, a.Offset})
			}
			gd.VertexInput = vi
		}
		if p.InputAssembly != nil {
			gd.InputAssembly = &inputAssemblyStateDoc{p.InputAssembly.Flags, p.InputAssembly.Topology, p.InputAssembly.PrimitiveRestartEnable}
		}
		if p.Tessellation != nil {
			gd.Tessellation = &tessellationStateDoc{p.Tessellation.Flags, p.Tessellation.PatchControlPoints}
		}
		if p.Viewport != nil {
			vp := &viewportStateDoc{Flags: p.Viewport.Flags}
			for _, v := range p.Viewport.Viewports {
				vp.Viewports = append(vp.Viewports, viewportDoc{v.X, v.Y, v.Width, v.Height, v.MinDepth, v.MaxDepth})
			}
			for _, s := range p.Viewport.Scissors {
				vp.Scissors = append(vp.Scissors, scissorDoc{s.X, s.Y, s.Width, s.Height})
			}
			gd.Viewport = vp
		}
		if p.Rasterization != nil {
			r := p.Rasterization
			gd.Rasterization = &rasterizationStateDoc{
				r.Flags, r.DepthClampEnable, r.RasterizerDiscardEnable, r.PolygonMode, r.CullMode, r.FrontFace,
				r.DepthBiasEnable, r.DepthBiasConstantFactor, r.DepthBiasClamp, r.DepthBiasSlopeFactor, r.LineWidth,
			}
		}
		if p.Multisample != nil {
			m := p.Multisample
			md := &multisampleStateDoc{
				Flags: m.Flags, RasterizationSamples: m.RasterizationSamples,
				SampleShadingEnable: m.SampleShadingEnable, MinSampleShading: m.MinSampleShading,
				AlphaToCoverageEnable: m.AlphaToCoverageEnable, AlphaToOneEnable: m.AlphaToOneEnable,
			}
			if m.HasSampleMask {
				md.SampleMask = append([]uint32{}, m.SampleMask...)
			}
			gd.Multisample = md
		}
		if p.DepthStencil != nil {
			d := p.DepthStencil
			gd.DepthStencil = &depthStencilStateDoc{
				d.Flags, d.DepthTestEnable, d.DepthWriteEnable, d.DepthCompareOp, d.DepthBoundsTestEnable, d.StencilTestEnable,
				toStencilOpDoc(d.Front), toStencilOpDoc(d.Back), d.MinDepthBounds, d.MaxDepthBounds,
			}
		}
		if p.ColorBlend != nil {
			c := p.ColorBlend
			cd := &colorBlendStateDoc{Flags: c.Flags, LogicOpEnable: c.LogicOpEnable, LogicOp: c.LogicOp, BlendConstants: c.BlendConstants}
			for _, a := range c.Attachments {
				cd.Attachments = append(cd.Attachments, blendAttachmentDoc{
					a.BlendEnable, a.SrcColorBlendFactor, a.DstColorBlendFactor, a.ColorBlendOp,
					a.SrcAlphaBlendFactor, a.DstAlphaBlendFactor, a.AlphaBlendOp, a.ColorWriteMask,
				})
			}
			gd.ColorBlend = cd
		}
		doc.GraphicsPipelines = append(doc.GraphicsPipelines, gd)
	}

	if doc.Samplers == nil {
		doc.Samplers = []samplerDoc{}
	}
	if doc.SetLayouts == nil {
		doc.SetLayouts = []setLayoutDoc{}
	}
	if doc.PipelineLayouts == nil {
		doc.PipelineLayouts = []pipelineLayoutDoc{}
	}
	if doc.ShaderModules == nil {
		doc.ShaderModules = []shaderModuleDoc{}
	}
	if doc.RenderPasses == nil {
		doc.RenderPasses = []renderPassDoc{}
	}
	if doc.ComputePipelines == nil {
		doc.ComputePipelines = []computePipelineDoc{}
	}
	if doc.GraphicsPipelines == nil {
		doc.GraphicsPipelines = []graphicsPipelineDoc{}
	}

	return json.Marshal(&doc)
}

func toAttachmentRefDocs(refs []state.AttachmentRef) []attachmentRefDoc {
	out := make([]attachmentRefDoc, len(refs))
	for i, r := range refs {
		out[i] = attachmentRefDoc{Attachment: int32(r.Attachment), Layout: r.Layout}
	}
	return out
}

func toStageDoc(s state.Stage) stageDoc {
	sd := stageDoc{Module: refDoc(s.Module), EntryPoint: s.EntryPoint, StageBits: s.StageBits}
	if s.HasSpecialization {
		spec := &specializationDoc{
			Code:     base64.StdEncoding.EncodeToString(s.SpecializationData),
			CodeSize: uint32(len(s.SpecializationData)),
		}
		for _, m := range s.SpecializationMapEntries {
			spec.MapEntries = append(spec.MapEntries, specializationMapEntryDoc{m.ConstantID, m.Offset, m.Size})
		}
		sd.Specialization = spec
	}
	return sd
}

func toStencilOpDoc(s state.StencilOpState) stencilOpStateDoc {
	return stencilOpStateDoc{s.FailOp, s.PassOp, s.DepthFailOp, s.CompareOp, s.CompareMask, s.WriteMask, s.Reference}
}
