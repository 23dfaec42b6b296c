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

// Package state is the value representation of the seven recorded
// pipeline-state entity kinds and their cross-references, plus the
// canonical hashing rules that fix each kind's externally observable
// identity.
//
// Cross-references are modeled directly as typed, 1-based indices (Ref):
// the "index+1 cast into a handle-shaped field" trick the original
// recorder used to interop with opaque driver handle types is deliberately
// not reproduced here (see DESIGN.md).
package state

import "github.com/google/gapid/fossilize/hash"

// Ref is a 1-based reference to an entry in a per-kind registry array.
// The zero value is the null reference.
type Ref uint32

// Valid reports whether r refers to an entry (is non-null).
func (r Ref) Valid() bool { return r != 0 }

// Index returns the zero-based registry index r refers to. Only valid
// when r.Valid().
func (r Ref) Index() int { return int(r) - 1 }

// Sampler is a scalar filter/address/compare/lod/anisotropy state block.
type Sampler struct {
	Flags                  uint32
	MagFilter              uint32
	MinFilter              uint32
	MipmapMode             uint32
	AddressModeU           uint32
	AddressModeV           uint32
	AddressModeW           uint32
	MipLodBias             float32
	AnisotropyEnable       bool
	MaxAnisotropy          float32
	CompareEnable          bool
	CompareOp              uint32
	MinLod                 float32
	MaxLod                 float32
	BorderColor            uint32
	UnnormalizedCoordinate bool
}

// Hash feeds the sampler's scalar fields in canonical order.
func (s *Sampler) Hash(*Registry) hash.Hash {
	h := hash.New().
		U32(s.Flags).
		U32(s.MagFilter).
		U32(s.MinFilter).
		U32(s.MipmapMode).
		U32(s.AddressModeU).
		U32(s.AddressModeV).
		U32(s.AddressModeW).
		F32(s.MipLodBias).
		U32(boolU32(s.AnisotropyEnable)).
		F32(s.MaxAnisotropy).
		U32(boolU32(s.CompareEnable)).
		U32(s.CompareOp).
		F32(s.MinLod).
		F32(s.MaxLod).
		U32(s.BorderColor).
		U32(boolU32(s.UnnormalizedCoordinate))
	return h.Sum()
}

func boolU32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// DescriptorBinding is one binding slot of a DescriptorSetLayout.
type DescriptorBinding struct {
	Binding          uint32
	DescriptorType   uint32
	DescriptorCount  uint32
	StageFlags       uint32
	ImmutableSamplers []Ref // only hashed for SAMPLER / COMBINED_IMAGE_SAMPLER descriptor types.
}

// Descriptor type values for which immutable-sampler arrays are meaningful.
const (
	DescriptorTypeSampler              = 0
	DescriptorTypeCombinedImageSampler = 1
)

// DescriptorSetLayout is a flags word plus an ordered list of bindings.
type DescriptorSetLayout struct {
	Flags    uint32
	Bindings []DescriptorBinding
}

func (d *DescriptorSetLayout) Hash(r *Registry) hash.Hash {
	h := hash.New().U32(d.Flags).U32(uint32(len(d.Bindings)))
	for _, b := range d.Bindings {
		h.U32(b.Binding).U32(b.DescriptorType).U32(b.DescriptorCount).U32(b.StageFlags)
		switch b.DescriptorType {
		case DescriptorTypeSampler, DescriptorTypeCombinedImageSampler:
			h.U32(uint32(len(b.ImmutableSamplers)))
			for _, s := range b.ImmutableSamplers {
				h.Hash(refHash(r.Samplers, s))
			}
		}
	}
	return h.Sum()
}

// PushConstantRange is one push-constant range of a PipelineLayout.
type PushConstantRange struct {
	StageFlags uint32
	Offset     uint32
	Size       uint32
}

// PipelineLayout is a flags word, an ordered list of descriptor-set-layout
// references, and an ordered list of push-constant ranges.
type PipelineLayout struct {
	Flags              uint32
	SetLayouts         []Ref
	PushConstantRanges []PushConstantRange
}

func (p *PipelineLayout) Hash(r *Registry) hash.Hash {
	h := hash.New().U32(p.Flags).U32(uint32(len(p.SetLayouts)))
	for _, s := range p.SetLayouts {
		h.Hash(refHash(r.SetLayouts, s))
	}
	h.U32(uint32(len(p.PushConstantRanges)))
	for _, pc := range p.PushConstantRanges {
		h.U32(pc.StageFlags).U32(pc.Offset).U32(pc.Size)
	}
	return h.Sum()
}

// ShaderModule is a flags word plus an opaque SPIR-V code payload.
type ShaderModule struct {
	Flags uint32
	Code  []uint32 // SPIR-V words.
}

// CodeBytes returns the module's code as a byte slice (little-endian words),
// the representation used by both the hasher and the wire format.
func (s *ShaderModule) CodeBytes() []byte {
	return wordsToBytes(s.Code)
}

func (s *ShaderModule) Hash(*Registry) hash.Hash {
	return hash.New().U32(s.Flags).Bytes(s.CodeBytes()).Sum()
}

func wordsToBytes(words []uint32) []byte {
	out := make([]byte, len(words)*4)
	for i, w := range words {
		out[i*4+0] = byte(w)
		out[i*4+1] = byte(w >> 8)
		out[i*4+2] = byte(w >> 16)
		out[i*4+3] = byte(w >> 24)
	}
	return out
}

func bytesToWords(b []byte) []uint32 {
	out := make([]uint32, len(b)/4)
	for i := range out {
		out[i] = uint32(b[i*4+0]) | uint32(b[i*4+1])<<8 | uint32(b[i*4+2])<<16 | uint32(b[i*4+3])<<24
	}
	return out
}

// WordsFromBytes reconstructs a SPIR-V word sequence from its little-endian
// byte encoding; used by the wire parser to rebuild ShaderModule.Code.
func WordsFromBytes(b []byte) []uint32 { return bytesToWords(b) }

// refHash resolves a Ref against a slice of entries carrying a precomputed
// Hash, returning the zero hash for a null reference.
func refHash[T hashed](entries []T, r Ref) hash.Hash {
	if !r.Valid() {
		return 0
	}
	return entries[r.Index()].EntryHash()
}

// hashed is implemented by every per-kind registry entry; it exposes the
// hash computed at registration time so references can be resolved to it
// without recomputation (hashes compose by reference, not by re-deriving
// the referenced entity's hash at every use site).
type hashed interface {
	EntryHash() hash.Hash
}
