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

// Attachment describes one render-pass attachment.
type Attachment struct {
	Flags          uint32
	Format         uint32
	Samples        uint32
	LoadOp         uint32
	StoreOp        uint32
	StencilLoadOp  uint32
	StencilStoreOp uint32
	InitialLayout  uint32
	FinalLayout    uint32
}

// SubpassDependency is one dependency edge between two subpasses.
type SubpassDependency struct {
	SrcSubpass      uint32
	DstSubpass      uint32
	SrcStageMask    uint32
	DstStageMask    uint32
	SrcAccessMask   uint32
	DstAccessMask   uint32
	DependencyFlags uint32
}

// AttachmentRef is a reference into the parent render-pass's attachment
// list, together with the layout the attachment is used in for this
// reference. Attachment == NoAttachment means "unused".
type AttachmentRef struct {
	Attachment uint32
	Layout     uint32
}

// NoAttachment is the sentinel attachment index meaning "none", matching
// Vulkan's VK_ATTACHMENT_UNUSED.
const NoAttachment = ^uint32(0)

// Subpass carries references into the parent render-pass's attachment
// list: input, color, resolve-per-color, depth-stencil, and preserve.
type Subpass struct {
	Flags                uint32
	PipelineBindPoint    uint32
	InputAttachments     []AttachmentRef
	ColorAttachments     []AttachmentRef
	ResolveAttachments   []AttachmentRef // must be empty or len(ColorAttachments).
	DepthStencilSet      bool
	DepthStencilAttachment AttachmentRef
	PreserveAttachments  []uint32
}

// RenderPass is ordered lists of attachments, subpass dependencies, and
// subpasses.
type RenderPass struct {
	Flags        uint32
	Attachments  []Attachment
	Subpasses    []Subpass
	Dependencies []SubpassDependency
}

func (rp *RenderPass) Hash(*Registry) hash.Hash {
	h := hash.New().U32(rp.Flags)

	h.U32(uint32(len(rp.Attachments)))
	for _, a := range rp.Attachments {
		h.U32(a.Flags).U32(a.Format).U32(a.Samples).
			U32(a.LoadOp).U32(a.StoreOp).
			U32(a.StencilLoadOp).U32(a.StencilStoreOp).
			U32(a.InitialLayout).U32(a.FinalLayout)
	}

	h.U32(uint32(len(rp.Subpasses)))
	for _, s := range rp.Subpasses {
		h.U32(s.Flags).U32(s.PipelineBindPoint)
		hashAttachmentRefs(h, s.InputAttachments)
		hashAttachmentRefs(h, s.ColorAttachments)
		if len(s.ResolveAttachments) == len(s.ColorAttachments) {
			hashAttachmentRefs(h, s.ResolveAttachments)
		} else {
			h.U32(0)
		}
		if s.DepthStencilSet {
			h.U32(1).U32(s.DepthStencilAttachment.Attachment).U32(s.DepthStencilAttachment.Layout)
		} else {
			h.U32(0)
		}
		h.U32(uint32(len(s.PreserveAttachments)))
		for _, p := range s.PreserveAttachments {
			h.U32(p)
		}
	}

	h.U32(uint32(len(rp.Dependencies)))
	for _, d := range rp.Dependencies {
		h.U32(d.SrcSubpass).U32(d.DstSubpass).
			U32(d.SrcStageMask).U32(d.DstStageMask).
			U32(d.SrcAccessMask).U32(d.DstAccessMask).
			U32(d.DependencyFlags)
	}
	return h.Sum()
}

func hashAttachmentRefs(h *hash.Hasher, refs []AttachmentRef) {
	h.U32(uint32(len(refs)))
	for _, r := range refs {
		h.U32(r.Attachment).U32(r.Layout)
	}
}
