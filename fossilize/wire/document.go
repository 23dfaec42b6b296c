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

// Package wire round-trips a state.Registry to and from the text document
// described in spec section 6: a single JSON object with one array per
// entity kind, cross-references emitted as positive 1-based indices
// (0 = null), and shader/specialization payloads Base64-encoded.
package wire

// document is the top-level JSON object.
type document struct {
	Samplers          []samplerDoc          `json:"samplers"`
	SetLayouts        []setLayoutDoc        `json:"setLayouts"`
	PipelineLayouts   []pipelineLayoutDoc   `json:"pipelineLayouts"`
	ShaderModules     []shaderModuleDoc     `json:"shaderModules"`
	RenderPasses      []renderPassDoc       `json:"renderPasses"`
	ComputePipelines  []computePipelineDoc  `json:"computePipelines"`
	GraphicsPipelines []graphicsPipelineDoc `json:"graphicsPipelines"`
}

type samplerDoc struct {
	Hash                   uint64  `json:"hash"`
	Flags                  uint32  `json:"flags"`
	MagFilter              uint32  `json:"magFilter"`
	MinFilter              uint32  `json:"minFilter"`
	MipmapMode             uint32  `json:"mipmapMode"`
	AddressModeU           uint32  `json:"addressModeU"`
	AddressModeV           uint32  `json:"addressModeV"`
	AddressModeW           uint32  `json:"addressModeW"`
	MipLodBias             float32 `json:"mipLodBias"`
	AnisotropyEnable       bool    `json:"anisotropyEnable"`
	MaxAnisotropy          float32 `json:"maxAnisotropy"`
	CompareEnable          bool    `json:"compareEnable"`
	CompareOp              uint32  `json:"compareOp"`
	MinLod                 float32 `json:"minLod"`
	MaxLod                 float32 `json:"maxLod"`
	BorderColor            uint32  `json:"borderColor"`
	UnnormalizedCoordinate bool    `json:"unnormalizedCoordinate"`
}

type descriptorBindingDoc struct {
	Binding           uint32   `json:"binding"`
	DescriptorType    uint32   `json:"descriptorType"`
	DescriptorCount   uint32   `json:"descriptorCount"`
	StageFlags        uint32   `json:"stageFlags"`
	ImmutableSamplers []uint32 `json:"immutableSamplers,omitempty"`
}

type setLayoutDoc struct {
	Hash     uint64                 `json:"hash"`
	Flags    uint32                 `json:"flags"`
	Bindings []descriptorBindingDoc `json:"bindings"`
}

type pushConstantRangeDoc struct {
	StageFlags uint32 `json:"stageFlags"`
	Offset     uint32 `json:"offset"`
	Size       uint32 `json:"size"`
}

type pipelineLayoutDoc struct {
	Hash               uint64                 `json:"hash"`
	Flags              uint32                 `json:"flags"`
	SetLayouts         []uint32               `json:"setLayouts"`
	PushConstantRanges []pushConstantRangeDoc `json:"pushConstantRanges"`
}

type shaderModuleDoc struct {
	Hash     uint64 `json:"hash"`
	Flags    uint32 `json:"flags"`
	Code     string `json:"code"`     // base64
	CodeSize uint32 `json:"codeSize"` // pre-encoding byte length
}

type attachmentDoc struct {
	Flags          uint32 `json:"flags"`
	Format         uint32 `json:"format"`
	Samples        uint32 `json:"samples"`
	LoadOp         uint32 `json:"loadOp"`
	StoreOp        uint32 `json:"storeOp"`
	StencilLoadOp  uint32 `json:"stencilLoadOp"`
	StencilStoreOp uint32 `json:"stencilStoreOp"`
	InitialLayout  uint32 `json:"initialLayout"`
	FinalLayout    uint32 `json:"finalLayout"`
}

// attachmentRefDoc.Attachment is int32, not uint32: spec section 6(c)
// mandates the absent depth-stencil attachment round-trip on the wire as
// the literal sentinel -1 ({attachment: -1, layout: UNDEFINED}), and
// encoding/json marshals state.NoAttachment's uint32 bit pattern
// (^uint32(0)) as 4294967295, not -1. state.AttachmentRef itself stays
// uint32, matching Vulkan's own VK_ATTACHMENT_UNUSED representation.
type attachmentRefDoc struct {
	Attachment int32  `json:"attachment"`
	Layout     uint32 `json:"layout"`
}

type subpassDoc struct {
	Flags                  uint32             `json:"flags"`
	PipelineBindPoint      uint32             `json:"pipelineBindPoint"`
	InputAttachments       []attachmentRefDoc `json:"inputAttachments"`
	ColorAttachments       []attachmentRefDoc `json:"colorAttachments"`
	ResolveAttachments     []attachmentRefDoc `json:"resolveAttachments,omitempty"`
	DepthStencilAttachment attachmentRefDoc   `json:"depthStencilAttachment"`
	PreserveAttachments    []uint32           `json:"preserveAttachments"`
}

type subpassDependencyDoc struct {
	SrcSubpass      uint32 `json:"srcSubpass"`
	DstSubpass      uint32 `json:"dstSubpass"`
	SrcStageMask    uint32 `json:"srcStageMask"`
	DstStageMask    uint32 `json:"dstStageMask"`
	SrcAccessMask   uint32 `json:"srcAccessMask"`
	DstAccessMask   uint32 `json:"dstAccessMask"`
	DependencyFlags uint32 `json:"dependencyFlags"`
}

type renderPassDoc struct {
	Hash         uint64                 `json:"hash"`
	Flags        uint32                 `json:"flags"`
	Attachments  []attachmentDoc        `json:"attachments"`
	Subpasses    []subpassDoc           `json:"subpasses"`
	Dependencies []subpassDependencyDoc `json:"dependencies"`
}

type specializationMapEntryDoc struct {
	ConstantID uint32 `json:"constantID"`
	Offset     uint32 `json:"offset"`
	Size       uint32 `json:"size"`
}

type specializationDoc struct {
	MapEntries []specializationMapEntryDoc `json:"mapEntries"`
	Code       string                      `json:"code"` // base64
	CodeSize   uint32                      `json:"codeSize"`
}

type stageDoc struct {
	Module         uint32             `json:"module"`
	EntryPoint     string             `json:"entryPoint"`
	StageBits      uint32             `json:"stage"`
	Specialization *specializationDoc `json:"specialization,omitempty"`
}

type vertexInputStateDoc struct {
	Flags      uint32 `json:"flags"`
	Bindings   []vertexInputBindingDoc `json:"bindings"`
	Attributes []vertexInputAttributeDoc `json:"attributes"`
}
type vertexInputBindingDoc struct {
	Binding   uint32 `json:"binding"`
	Stride    uint32 `json:"stride"`
	InputRate uint32 `json:"inputRate"`
}
type vertexInputAttributeDoc struct {
	Location uint32 `json:"location"`
	Binding  uint32 `json:"binding"`
	Format   uint32 `json:"format"`
	Offset   uint32 `json:"offset"`
}

type inputAssemblyStateDoc struct {
	Flags                  uint32 `json:"flags"`
	Topology               uint32 `json:"topology"`
	PrimitiveRestartEnable bool   `json:"primitiveRestartEnable"`
}

type tessellationStateDoc struct {
	Flags              uint32 `json:"flags"`
	PatchControlPoints uint32 `json:"patchControlPoints"`
}

type viewportDoc struct{ X, Y, Width, Height, MinDepth, MaxDepth float32 }
type scissorDoc struct{ X, Y, Width, Height int32 }

type viewportStateDoc struct {
	Flags     uint32        `json:"flags"`
	Viewports []viewportDoc `json:"viewports"`
	Scissors  []scissorDoc  `json:"scissors"`
}

type rasterizationStateDoc struct {
	Flags                   uint32  `json:"flags"`
	DepthClampEnable        bool    `json:"depthClampEnable"`
	RasterizerDiscardEnable bool    `json:"rasterizerDiscardEnable"`
	PolygonMode             uint32  `json:"polygonMode"`
	CullMode                uint32  `json:"cullMode"`
	FrontFace               uint32  `json:"frontFace"`
	DepthBiasEnable         bool    `json:"depthBiasEnable"`
	DepthBiasConstantFactor float32 `json:"depthBiasConstantFactor"`
	DepthBiasClamp          float32 `json:"depthBiasClamp"`
	DepthBiasSlopeFactor    float32 `json:"depthBiasSlopeFactor"`
	LineWidth               float32 `json:"lineWidth"`
}

type multisampleStateDoc struct {
	Flags                 uint32   `json:"flags"`
	RasterizationSamples  uint32   `json:"rasterizationSamples"`
	SampleShadingEnable   bool     `json:"sampleShadingEnable"`
	MinSampleShading      float32  `json:"minSampleShading"`
	SampleMask            []uint32 `json:"sampleMask,omitempty"`
	AlphaToCoverageEnable bool     `json:"alphaToCoverageEnable"`
	AlphaToOneEnable      bool     `json:"alphaToOneEnable"`
}

type stencilOpStateDoc struct {
	FailOp      uint32 `json:"failOp"`
	PassOp      uint32 `json:"passOp"`
	DepthFailOp uint32 `json:"depthFailOp"`
	CompareOp   uint32 `json:"compareOp"`
	CompareMask uint32 `json:"compareMask"`
	WriteMask   uint32 `json:"writeMask"`
	Reference   uint32 `json:"reference"`
}

type depthStencilStateDoc struct {
	Flags                 uint32            `json:"flags"`
	DepthTestEnable       bool              `json:"depthTestEnable"`
	DepthWriteEnable      bool              `json:"depthWriteEnable"`
	DepthCompareOp        uint32            `json:"depthCompareOp"`
	DepthBoundsTestEnable bool              `json:"depthBoundsTestEnable"`
	StencilTestEnable     bool              `json:"stencilTestEnable"`
	Front                 stencilOpStateDoc `json:"front"`
	Back                  stencilOpStateDoc `json:"back"`
	MinDepthBounds        float32           `json:"minDepthBounds"`
	MaxDepthBounds        float32           `json:"maxDepthBounds"`
}

type blendAttachmentDoc struct {
	BlendEnable         bool   `json:"blendEnable"`
	SrcColorBlendFactor uint32 `json:"srcColorBlendFactor"`
	DstColorBlendFactor uint32 `json:"dstColorBlendFactor"`
	ColorBlendOp        uint32 `json:"colorBlendOp"`
	SrcAlphaBlendFactor uint32 `json:"srcAlphaBlendFactor"`
	DstAlphaBlendFactor uint32 `json:"dstAlphaBlendFactor"`
	AlphaBlendOp        uint32 `json:"alphaBlendOp"`
	ColorWriteMask      uint32 `json:"colorWriteMask"`
}

type colorBlendStateDoc struct {
	Flags          uint32               `json:"flags"`
	LogicOpEnable  bool                 `json:"logicOpEnable"`
	LogicOp        uint32               `json:"logicOp"`
	Attachments    []blendAttachmentDoc `json:"attachments"`
	BlendConstants [4]float32           `json:"blendConstants"`
}

type graphicsPipelineDoc struct {
	Hash               uint64 `json:"hash"`
	Flags              uint32 `json:"flags"`
	BasePipelineHandle int64  `json:"basePipelineHandle"`
	BasePipelineIndex  int32  `json:"basePipelineIndex"`
	Layout             uint32 `json:"layout"`
	RenderPass         uint32 `json:"renderPass"`
	Subpass            uint32 `json:"subpass"`
	Stages             []stageDoc `json:"stages"`
	DynamicState       uint32     `json:"dynamicState"`

	VertexInput   *vertexInputStateDoc   `json:"vertexInputState,omitempty"`
	InputAssembly *inputAssemblyStateDoc `json:"inputAssemblyState,omitempty"`
	Tessellation  *tessellationStateDoc  `json:"tessellationState,omitempty"`
	Viewport      *viewportStateDoc      `json:"viewportState,omitempty"`
	Rasterization *rasterizationStateDoc `json:"rasterizationState,omitempty"`
	Multisample   *multisampleStateDoc   `json:"multisampleState,omitempty"`
	DepthStencil  *depthStencilStateDoc  `json:"depthStencilState,omitempty"`
	ColorBlend    *colorBlendStateDoc    `json:"colorBlendState,omitempty"`
}

type computePipelineDoc struct {
	Hash               uint64   `json:"hash"`
	Flags              uint32   `json:"flags"`
	BasePipelineHandle int64    `json:"basePipelineHandle"`
	BasePipelineIndex  int32    `json:"basePipelineIndex"`
	Layout             uint32   `json:"layout"`
	Stage              stageDoc `json:"stage"`
}
