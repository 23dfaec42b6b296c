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

import "github.com/google/gapid/fossilize/hash"

// Dynamic state tokens, one bit each in a Subpass-free bitmask carried by
// GraphicsPipeline.DynamicState. Values overridden at draw time are
// excluded from the pipeline hash: pipelines that differ only in values
// the driver will ignore must hash identically.
const (
	DynamicViewport = 1 << iota
	DynamicScissor
	DynamicLineWidth
	DynamicDepthBias
	DynamicBlendConstants
	DynamicDepthBounds
	DynamicStencilCompareMask
	DynamicStencilWriteMask
	DynamicStencilReference
)

// Stage is one shader stage of a pipeline: a shader-module reference, its
// entry point, the stage bit it's bound to, and an optional specialization
// payload.
type Stage struct {
	Module                Ref
	EntryPoint             string
	StageBits              uint32
	HasSpecialization      bool
	SpecializationData     []byte
	SpecializationMapEntries []SpecializationMapEntry
}

// SpecializationMapEntry maps one specialization constant ID to a byte
// range of the specialization payload.
type SpecializationMapEntry struct {
	ConstantID uint32
	Offset     uint32
	Size       uint32
}

func (s *Stage) hash(h *hash.Hasher, r *Registry) {
	h.Hash(refHash(r.ShaderModules, s.Module)).String(s.EntryPoint).U32(s.StageBits)
	if !s.HasSpecialization {
		h.U32(0)
		return
	}
	h.U32(1).U32(uint32(len(s.SpecializationMapEntries)))
	for _, e := range s.SpecializationMapEntries {
		h.U32(e.ConstantID).U32(e.Offset).U32(e.Size)
	}
	h.Bytes(s.SpecializationData)
}

// VertexInputState, InputAssemblyState, ... are the eight optional
// fixed-function state blocks a GraphicsPipeline may carry. A missing
// block is encoded (at the call site) as a single zero-u32 token; a
// present block is encoded as a one-u32 token, then its flags followed by
// its fields, per the
// canonical-order rule in spec section 4.2.

type VertexInputState struct {
	Flags      uint32
	Bindings   []VertexInputBinding
	Attributes []VertexInputAttribute
}

type VertexInputBinding struct {
	Binding   uint32
	Stride    uint32
	InputRate uint32
}

type VertexInputAttribute struct {
	Location uint32
	Binding  uint32
	Format   uint32
	Offset   uint32
}

func (s *VertexInputState) hash(h *hash.Hasher) {
	h.U32(s.Flags).U32(uint32(len(s.Bindings)))
	for _, b := range s.Bindings {
		h.U32(b.Binding).U32(b.Stride).U32(b.InputRate)
	}
	h.U32(uint32(len(s.Attributes)))
	for _, a := range s.Attributes {
		h.U32(a.Location).U32(a.Binding).U32(a.Format).U32(a.Offset)
	}
}

type InputAssemblyState struct {
	Flags                  uint32
	Topology               uint32
	PrimitiveRestartEnable bool
}

func (s *InputAssemblyState) hash(h *hash.Hasher) {
	h.U32(s.Flags).U32(s.Topology).U32(boolU32(s.PrimitiveRestartEnable))
}

type TessellationState struct {
	Flags              uint32
	PatchControlPoints uint32
}

func (s *TessellationState) hash(h *hash.Hasher) {
	h.U32(s.Flags).U32(s.PatchControlPoints)
}

type Viewport struct{ X, Y, Width, Height, MinDepth, MaxDepth float32 }
type Scissor struct{ X, Y, Width, Height int32 }

type ViewportState struct {
	Flags     uint32
	Viewports []Viewport // nil if dynamic and pViewports == nullptr.
	Scissors  []Scissor  // nil if dynamic and pScissors == nullptr.
}

func (s *ViewportState) hash(h *hash.Hasher, dyn uint32) {
	h.U32(s.Flags)
	if dyn&DynamicViewport != 0 {
		h.U32(uint32(len(s.Viewports))) // count is still hashed even when dynamic.
	} else {
		h.U32(uint32(len(s.Viewports)))
		for _, v := range s.Viewports {
			h.F32(v.X).F32(v.Y).F32(v.Width).F32(v.Height).F32(v.MinDepth).F32(v.MaxDepth)
		}
	}
	if dyn&DynamicScissor != 0 {
		h.U32(uint32(len(s.Scissors)))
	} else {
		h.U32(uint32(len(s.Scissors)))
		for _, sc := range s.Scissors {
			h.S32(sc.X).S32(sc.Y).S32(sc.Width).S32(sc.Height)
		}
	}
}

type RasterizationState struct {
	Flags                   uint32
	DepthClampEnable        bool
	RasterizerDiscardEnable bool
	PolygonMode             uint32
	CullMode                uint32
	FrontFace               uint32
	DepthBiasEnable         bool
	DepthBiasConstantFactor float32
	DepthBiasClamp          float32
	DepthBiasSlopeFactor    float32
	LineWidth               float32
}

func (s *RasterizationState) hash(h *hash.Hasher, dyn uint32) {
	h.U32(s.Flags).U32(boolU32(s.DepthClampEnable)).U32(boolU32(s.RasterizerDiscardEnable)).
		U32(s.PolygonMode).U32(s.CullMode).U32(s.FrontFace).U32(boolU32(s.DepthBiasEnable))
	if dyn&DynamicDepthBias == 0 {
		h.F32(s.DepthBiasConstantFactor).F32(s.DepthBiasClamp).F32(s.DepthBiasSlopeFactor)
	}
	if dyn&DynamicLineWidth == 0 {
		h.F32(s.LineWidth)
	}
}

type MultisampleState struct {
	Flags                 uint32
	RasterizationSamples  uint32
	SampleShadingEnable   bool
	MinSampleShading      float32
	HasSampleMask         bool
	SampleMask            []uint32
	AlphaToCoverageEnable bool
	AlphaToOneEnable      bool
}

// sampleMaskWords is the canonical word count for a multisample state's
// sample mask: ceil(rasterizationSamples / 32).
func sampleMaskWords(rasterizationSamples uint32) uint32 {
	return rasterizationSamples/32 + boolU32(rasterizationSamples%32 != 0)
}

func (s *MultisampleState) hash(h *hash.Hasher) {
	h.U32(s.Flags).U32(s.RasterizationSamples).U32(boolU32(s.SampleShadingEnable)).F32(s.MinSampleShading)
	n := sampleMaskWords(s.RasterizationSamples)
	if !s.HasSampleMask {
		h.U32(0)
	} else {
		for i := uint32(0); i < n; i++ {
			var w uint32
			if int(i) < len(s.SampleMask) {
				w = s.SampleMask[i]
			}
			h.U32(w)
		}
	}
	h.U32(boolU32(s.AlphaToCoverageEnable)).U32(boolU32(s.AlphaToOneEnable))
}

type StencilOpState struct {
	FailOp      uint32
	PassOp      uint32
	DepthFailOp uint32
	CompareOp   uint32
	CompareMask uint32
	WriteMask   uint32
	Reference   uint32
}

type DepthStencilState struct {
	Flags                 uint32
	DepthTestEnable       bool
	DepthWriteEnable      bool
	DepthCompareOp        uint32
	DepthBoundsTestEnable bool
	StencilTestEnable     bool
	Front                 StencilOpState
	Back                  StencilOpState
	MinDepthBounds        float32
	MaxDepthBounds        float32
}

func (s *DepthStencilState) hash(h *hash.Hasher, dyn uint32) {
	h.U32(s.Flags).U32(boolU32(s.DepthTestEnable)).U32(boolU32(s.DepthWriteEnable)).
		U32(s.DepthCompareOp).U32(boolU32(s.DepthBoundsTestEnable)).U32(boolU32(s.StencilTestEnable))
	hashStencilOp(h, s.Front, dyn)
	hashStencilOp(h, s.Back, dyn)
	if dyn&DynamicDepthBounds == 0 {
		h.F32(s.MinDepthBounds).F32(s.MaxDepthBounds)
	}
}

func hashStencilOp(h *hash.Hasher, s StencilOpState, dyn uint32) {
	h.U32(s.FailOp).U32(s.PassOp).U32(s.DepthFailOp).U32(s.CompareOp)
	if dyn&DynamicStencilCompareMask == 0 {
		h.U32(s.CompareMask)
	}
	if dyn&DynamicStencilWriteMask == 0 {
		h.U32(s.WriteMask)
	}
	if dyn&DynamicStencilReference == 0 {
		h.U32(s.Reference)
	}
}

type BlendAttachment struct {
	BlendEnable         bool
	SrcColorBlendFactor uint32
	DstColorBlendFactor uint32
	ColorBlendOp        uint32
	SrcAlphaBlendFactor uint32
	DstAlphaBlendFactor uint32
	AlphaBlendOp        uint32
	ColorWriteMask      uint32
}

// usesConstantBlendFactor reports whether any side of a's blend factors is
// one of the CONSTANT_* factor enumerants (the encoding of which is left
// to the caller/archive format; the values below match Vulkan's
// VK_BLEND_FACTOR_CONSTANT_COLOR family).
const (
	BlendFactorConstantColor         = 10
	BlendFactorOneMinusConstantColor = 11
	BlendFactorConstantAlpha         = 12
	BlendFactorOneMinusConstantAlpha = 13
)

func usesConstantBlendFactor(f uint32) bool {
	switch f {
	case BlendFactorConstantColor, BlendFactorOneMinusConstantColor,
		BlendFactorConstantAlpha, BlendFactorOneMinusConstantAlpha:
		return true
	}
	return false
}

type ColorBlendState struct {
	Flags           uint32
	LogicOpEnable   bool
	LogicOp         uint32
	Attachments     []BlendAttachment
	BlendConstants  [4]float32
}

func (s *ColorBlendState) hash(h *hash.Hasher, dyn uint32) {
	h.U32(s.Flags).U32(boolU32(s.LogicOpEnable)).U32(s.LogicOp).U32(uint32(len(s.Attachments)))
	usesConstant := false
	for _, a := range s.Attachments {
		h.U32(boolU32(a.BlendEnable)).U32(a.SrcColorBlendFactor).U32(a.DstColorBlendFactor).
			U32(a.ColorBlendOp).U32(a.SrcAlphaBlendFactor).U32(a.DstAlphaBlendFactor).
			U32(a.AlphaBlendOp).U32(a.ColorWriteMask)
		if a.BlendEnable && (usesConstantBlendFactor(a.SrcColorBlendFactor) ||
			usesConstantBlendFactor(a.DstColorBlendFactor) ||
			usesConstantBlendFactor(a.SrcAlphaBlendFactor) ||
			usesConstantBlendFactor(a.DstAlphaBlendFactor)) {
			usesConstant = true
		}
	}
	// Blend constants are included only if some attachment uses a
	// CONSTANT_* factor AND blend constants are not in the dynamic set.
	if usesConstant && dyn&DynamicBlendConstants == 0 {
		for _, c := range s.BlendConstants {
			h.F32(c)
		}
	}
}

// GraphicsPipeline is flags, an optional base-pipeline reference+index, a
// pipeline-layout reference, a render-pass reference+subpass index, a
// stage list, and eight optional fixed-function state blocks.
type GraphicsPipeline struct {
	Flags              uint32
	BasePipelineHandle int64 // opaque pass-through; never resolved through the registry (spec 9, open question).
	BasePipelineIndex  int32

	Layout      Ref
	RenderPass  Ref
	Subpass     uint32

	Stages []Stage

	DynamicState uint32 // bitmask of Dynamic* constants actually declared.

	VertexInput    *VertexInputState
	InputAssembly  *InputAssemblyState
	Tessellation   *TessellationState
	Viewport       *ViewportState
	Rasterization  *RasterizationState
	Multisample    *MultisampleState
	DepthStencil   *DepthStencilState
	ColorBlend     *ColorBlendState
}

func (p *GraphicsPipeline) Hash(r *Registry) hash.Hash {
	h := hash.New().U32(p.Flags).
		Hash(refHash(r.PipelineLayouts, p.Layout)).
		Hash(refHash(r.RenderPasses, p.RenderPass)).
		U32(p.Subpass)

	h.U32(uint32(len(p.Stages)))
	for i := range p.Stages {
		p.Stages[i].hash(h, r)
	}

	dyn := p.DynamicState
	h.U32(dyn)

	hashOptional(h, p.VertexInput, func(h *hash.Hasher, s *VertexInputState) { s.hash(h) })
	hashOptional(h, p.InputAssembly, func(h *hash.Hasher, s *InputAssemblyState) { s.hash(h) })
	hashOptional(h, p.Tessellation, func(h *hash.Hasher, s *TessellationState) { s.hash(h) })
	hashOptional(h, p.Viewport, func(h *hash.Hasher, s *ViewportState) { s.hash(h, dyn) })
	hashOptional(h, p.Rasterization, func(h *hash.Hasher, s *RasterizationState) { s.hash(h, dyn) })
	hashOptional(h, p.Multisample, func(h *hash.Hasher, s *MultisampleState) { s.hash(h) })
	hashOptional(h, p.DepthStencil, func(h *hash.Hasher, s *DepthStencilState) { s.hash(h, dyn) })
	hashOptional(h, p.ColorBlend, func(h *hash.Hasher, s *ColorBlendState) { s.hash(h, dyn) })

	return h.Sum()
}

// hashOptional encodes a missing state block as a single zero-u32 token
// and a present block as a one-u32 token followed by its own fields.
func hashOptional[T any](h *hash.Hasher, s *T, f func(*hash.Hasher, *T)) {
	if s == nil {
		h.U32(0)
		return
	}
	h.U32(1)
	f(h, s)
}

// ComputePipeline is flags, an optional base-pipeline reference+index, a
// pipeline-layout reference, and a single stage.
type ComputePipeline struct {
	Flags              uint32
	BasePipelineHandle int64 // opaque pass-through, see GraphicsPipeline.
	BasePipelineIndex  int32
	Layout             Ref
	Stage              Stage
}

func (p *ComputePipeline) Hash(r *Registry) hash.Hash {
	h := hash.New().U32(p.Flags).Hash(refHash(r.PipelineLayouts, p.Layout))
	p.Stage.hash(h, r)
	return h.Sum()
}
